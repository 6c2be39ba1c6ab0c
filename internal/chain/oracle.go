package chain

import (
	"context"
	"fmt"
	"math"
	"math/big"
	"swapflow/internal/consts"
	"swapflow/internal/model"
)

// 余额预言机：读链上余额并归一化为可读数值

// 各链族的原生币最低gas余额，低价值原生币阈值更高
var gasMinByChain = map[string]float64{
	"polygon":  1.0,
	"ethereum": 0.05,
	"arbitrum": 0.01,
	"base":     0.01,
	"optimism": 0.01,
}

func defaultGasMin(name string) float64 {
	if min, ok := gasMinByChain[name]; ok {
		return min
	}
	return 0.05
}

// TokenBalance 单次只读调用，不重试，失败由调用方作为硬停止处理
func (c *Client) TokenBalance(ctx context.Context, token model.Token) (*big.Int, error) {
	out, err := c.callERC20(ctx, token.Address, "balanceOf", c.address)
	if err != nil {
		return nil, err
	}
	balance, ok := out[0].(*big.Int)
	if !ok {
		return nil, fmt.Errorf("balanceOf: unexpected type %T", out[0])
	}
	return balance, nil
}

// NativeBalance 原生币余额
func (c *Client) NativeBalance(ctx context.Context) (*big.Int, error) {
	return c.backend.BalanceAt(ctx, c.address, nil)
}

// FormatBalance 按精度缩放为可读数值，粉尘余额归零
func FormatBalance(raw *big.Int, decimals uint8) float64 {
	if raw == nil {
		return 0
	}
	scaled := new(big.Float).Quo(
		new(big.Float).SetInt(raw),
		big.NewFloat(math.Pow10(int(decimals))),
	)
	formatted, _ := scaled.Float64()

	// 余额可能只是此前交易留下的"粉尘"
	if formatted <= consts.DustThreshold {
		formatted = 0
	}
	return formatted
}

// HasGasMoney 原生币余额是否足以支付gas，所有交易前置的第一道闸门
func (c *Client) HasGasMoney(ctx context.Context) (bool, error) {
	balance, err := c.NativeBalance(ctx)
	if err != nil {
		return false, err
	}
	// 原生币精度固定18
	return FormatBalance(balance, 18) >= c.gasMin, nil
}
