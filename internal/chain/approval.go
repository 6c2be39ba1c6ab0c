package chain

import (
	"context"
	"fmt"
	"math/big"
	"swapflow/internal/model"
)

// 授权管理：保证 swap router 有足够的花费额度

// Allowance 读取钱包授予router的当前额度
func (c *Client) Allowance(ctx context.Context, token model.Token) (*big.Int, error) {
	out, err := c.callERC20(ctx, token.Address, "allowance", c.address, c.router)
	if err != nil {
		return nil, err
	}
	allowance, ok := out[0].(*big.Int)
	if !ok {
		return nil, fmt.Errorf("allowance: unexpected type %T", out[0])
	}
	return allowance, nil
}

// EnsureApproval 额度已够时直接短路返回Sent，不提交交易，避免重复花gas。
// 不足时按批量上限授权（而不是精确到本次交易额），摊薄后续交易的授权成本
func (c *Client) EnsureApproval(ctx context.Context, token model.Token, amount, ceiling float64) (model.TxOutcome, error) {
	required := token.FromReadableAmount(amount)

	current, err := c.Allowance(ctx, token)
	if err != nil {
		return model.TxOutcome{State: model.TxFailed}, err
	}
	if current.Cmp(required) >= 0 {
		return model.TxOutcome{State: model.TxSent}, nil
	}

	// 批量上限不能低于本次交易额
	approveAmount := ceiling
	if approveAmount < amount {
		approveAmount = amount
	}

	calldata, err := c.erc20.Pack("approve", c.router, token.FromReadableAmount(approveAmount))
	if err != nil {
		return model.TxOutcome{State: model.TxFailed}, fmt.Errorf("pack approve: %w", err)
	}

	return c.Send(ctx, token.Address, calldata, big.NewInt(0))
}
