package engine

import (
	"context"
	"swapflow/internal/model"
	"swapflow/pkg/ecode"
)

// sell 全仓卖出投机代币换回稳定币
func (e *Engine) sell(ctx context.Context, sig model.Signal) error {
	pos := e.store.Position()
	if !pos.PositionOpen {
		e.recordError(model.ErrOrderConflict, "sell signal at "+sig.Price+" ignored, no open position")
		return ecode.New(ecode.SignalRejectedErr, "no open position")
	}

	stableBal, tokenBal, err := e.readBalances(ctx)
	if err != nil {
		e.recordError(model.ErrSell, "read balances: "+err.Error())
		return err
	}
	pos.StablecoinBalance = stableBal
	pos.TokenBalance = tokenBal

	if tokenBal <= 0 {
		e.recordError(model.ErrInsufficientFunds, "no "+e.token.Symbol+" balance to sell")
		return ecode.New(ecode.SignalRejectedErr, "insufficient funds")
	}

	route, err := e.planner.GenerateRoute(ctx, e.token, e.stable, tokenBal)
	if err != nil {
		e.recordError(model.ErrGenRoute, "sell route "+e.token.Symbol+" -> "+e.stable.Symbol+": "+err.Error())
		return err
	}

	if err := e.approve(ctx, e.token, tokenBal); err != nil {
		return err
	}

	outcome, err := e.chain.ExecuteRoute(ctx, route)
	if err != nil {
		e.recordError(model.ErrSell, "sell swap failed: "+err.Error())
		return err
	}
	return e.settle(ctx, sig, model.TradeSell, pos, outcome)
}
