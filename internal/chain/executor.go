package chain

import (
	"context"
	"errors"
	"fmt"
	"math/big"
	"swapflow/internal/model"
	"swapflow/pkg/logger"
	"time"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
)

// 交易执行器：签名、广播、带上限的回执轮询

// ExecuteRoute 消费一条路由，把calldata发给router
func (c *Client) ExecuteRoute(ctx context.Context, route *model.Route) (model.TxOutcome, error) {
	value := route.Value
	if value == nil {
		value = big.NewInt(0)
	}
	return c.Send(ctx, route.To, route.Calldata, value)
}

// Send 签名并广播交易，然后轮询回执。
// 轮询必须有界：指数退避加总超时，超时返回Pending（带hash）而不是堵死，
// 也绝不把"未知"误判为Failed
func (c *Client) Send(ctx context.Context, to common.Address, calldata []byte, value *big.Int) (model.TxOutcome, error) {
	failed := model.TxOutcome{State: model.TxFailed}

	nonce, err := c.backend.PendingNonceAt(ctx, c.address)
	if err != nil {
		return failed, fmt.Errorf("pending nonce: %w", err)
	}
	tipCap, err := c.backend.SuggestGasTipCap(ctx)
	if err != nil {
		return failed, fmt.Errorf("suggest tip: %w", err)
	}
	head, err := c.backend.HeaderByNumber(ctx, nil)
	if err != nil {
		return failed, fmt.Errorf("head: %w", err)
	}
	// 没有baseFee的链不走EIP-1559，直接报错而不是带着错误的费率广播
	if head.BaseFee == nil {
		return failed, fmt.Errorf("chain %s reports no base fee, legacy fee transactions not supported", c.name)
	}
	// feeCap = 2*baseFee + tip，容忍两次满幅的baseFee上涨
	feeCap := new(big.Int).Add(
		new(big.Int).Mul(head.BaseFee, big.NewInt(2)),
		tipCap,
	)

	gasLimit, err := c.backend.EstimateGas(ctx, ethereum.CallMsg{
		From:  c.address,
		To:    &to,
		Value: value,
		Data:  calldata,
	})
	if err != nil {
		return failed, fmt.Errorf("estimate gas: %w", err)
	}
	gasLimit = gasLimit + gasLimit/5 // 20%余量

	tx := types.NewTx(&types.DynamicFeeTx{
		ChainID:   c.chainID,
		Nonce:     nonce,
		GasTipCap: tipCap,
		GasFeeCap: feeCap,
		Gas:       gasLimit,
		To:        &to,
		Value:     value,
		Data:      calldata,
	})

	signed, err := types.SignTx(tx, types.LatestSignerForChainID(c.chainID), c.key)
	if err != nil {
		return failed, fmt.Errorf("sign tx: %w", err)
	}
	if err := c.backend.SendTransaction(ctx, signed); err != nil {
		return failed, fmt.Errorf("broadcast tx: %w", err)
	}

	hash := signed.Hash()
	logger.Info("[Executor] tx broadcast",
		logger.Pair("hash", hash.Hex()),
		logger.Pair("nonce", nonce))

	return c.waitForReceipt(ctx, hash)
}

// waitForReceipt 有界回执轮询
func (c *Client) waitForReceipt(ctx context.Context, hash common.Hash) (model.TxOutcome, error) {
	pending := model.TxOutcome{State: model.TxPending, Hash: hash.Hex()}

	deadline := time.Now().Add(c.executor.ConfirmTimeout)
	interval := c.executor.PollInterval

	for {
		receipt, err := c.backend.TransactionReceipt(ctx, hash)
		if err == nil && receipt != nil {
			if receipt.Status == types.ReceiptStatusSuccessful {
				return model.TxOutcome{State: model.TxSent, Hash: hash.Hex()}, nil
			}
			return model.TxOutcome{State: model.TxFailed, Hash: hash.Hex()},
				fmt.Errorf("tx %s reverted", hash.Hex())
		}
		if err != nil && !errors.Is(err, ethereum.NotFound) {
			// RPC抖动也不放弃，只在总超时内继续试
			logger.Warnf("[Executor] receipt lookup error: %v", err)
		}

		if time.Now().After(deadline) {
			logger.Warn("[Executor] confirm timeout, outcome unknown",
				logger.Pair("hash", hash.Hex()))
			return pending, nil
		}

		select {
		case <-ctx.Done():
			return pending, nil
		case <-time.After(interval):
		}

		interval *= 2
		if interval > c.executor.PollMaxInterval {
			interval = c.executor.PollMaxInterval
		}
	}
}
