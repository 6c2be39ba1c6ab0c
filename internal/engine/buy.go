package engine

import (
	"context"
	"fmt"
	"swapflow/internal/model"
	"swapflow/pkg/ecode"
	"swapflow/pkg/logger"
)

// buy 稳定币换投机代币。前置条件不满足时记录错误并放弃，
// 不请求路由也不提交任何交易
func (e *Engine) buy(ctx context.Context, sig model.Signal) error {
	pos := e.store.Position()
	if pos.PositionOpen {
		e.recordError(model.ErrOrderConflict, "buy signal at "+sig.Price+" ignored, position already open")
		return ecode.New(ecode.SignalRejectedErr, "position already open")
	}

	stableBal, tokenBal, err := e.readBalances(ctx)
	if err != nil {
		e.recordError(model.ErrBuy, "read balances: "+err.Error())
		return err
	}
	// 结算时的成交数量按链上前后余额之差计算
	pos.StablecoinBalance = stableBal
	pos.TokenBalance = tokenBal

	if stableBal <= e.strategy.Min {
		e.recordError(model.ErrInsufficientFunds,
			fmt.Sprintf("stablecoin balance %.2f at or below strategy minimum %.2f, buy skipped", stableBal, e.strategy.Min))
		return ecode.New(ecode.SignalRejectedErr, "insufficient funds")
	}

	// 只投入余额的固定比例，剩余部分作为后续交易的缓冲
	amountIn := stableBal * e.strategy.Size

	route, err := e.planner.GenerateRoute(ctx, e.stable, e.token, amountIn)
	if err != nil {
		e.recordError(model.ErrGenRoute, "buy route "+e.stable.Symbol+" -> "+e.token.Symbol+": "+err.Error())
		return err
	}

	if err := e.approve(ctx, e.stable, amountIn); err != nil {
		return err
	}

	outcome, err := e.chain.ExecuteRoute(ctx, route)
	if err != nil {
		e.recordError(model.ErrBuy, "buy swap failed: "+err.Error())
		return err
	}
	return e.settle(ctx, sig, model.TradeBuy, pos, outcome)
}

// approve 确认router额度，额度足够时短路不花gas
func (e *Engine) approve(ctx context.Context, token model.Token, amount float64) error {
	outcome, err := e.chain.EnsureApproval(ctx, token, amount, e.strategy.ApproveCeiling)
	if err != nil {
		e.recordError(model.ErrTokenApproval, "approve "+token.Symbol+": "+err.Error())
		return err
	}
	if outcome.State != model.TxSent {
		e.recordError(model.ErrTokenApproval,
			fmt.Sprintf("approve %s not confirmed, state %s hash %s", token.Symbol, outcome.State, outcome.Hash))
		return ecode.New(ecode.SignalRejectedErr, "token approval not confirmed")
	}
	logger.Info("[Engine] router allowance ok", logger.Pair("token", token.Symbol))
	return nil
}
