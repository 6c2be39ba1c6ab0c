package engine

import (
	"context"
	"fmt"
	"swapflow/internal/chain"
	"swapflow/internal/consts"
	"swapflow/internal/model"
	"swapflow/pkg/ecode"
	"swapflow/pkg/logger"
	"time"

	"github.com/spf13/cast"
)

// 结算：交易确认后从链上重读余额，更新仓位、写成交记录、发告警。
// 持久化文档永远是链上真相的缓存，而不是用期望值推算。

func (e *Engine) settle(ctx context.Context, sig model.Signal, tradeType string, prev model.Position, outcome model.TxOutcome) error {
	link := e.chain.ExplorerTx(outcome.Hash)

	switch outcome.State {
	case model.TxFailed:
		category := model.ErrBuy
		if tradeType == model.TradeSell {
			category = model.ErrSell
		}
		e.recordError(category, tradeType+" swap reverted, tx "+outcome.Hash)
		return ecode.New(ecode.SignalRejectedErr, "swap reverted")
	case model.TxPending:
		// 链上结果未知，仓位保持不动，等下次启动Recover时与链对齐
		logger.Warn("[Engine] swap not confirmed within timeout, outcome unknown",
			logger.Pair("type", tradeType), logger.Pair("tx", outcome.Hash))
		e.alert.Send(fmt.Sprintf("%s swap still pending on %s, check %s", tradeType, e.chain.ChainName(), link))
		return nil
	}

	stableBal, tokenBal, err := e.readBalances(ctx)
	if err != nil {
		e.recordError(model.ErrConfig, "post-trade balance resync: "+err.Error())
		return err
	}

	now := time.Now().Format(consts.TimeLayout)
	pos := prev
	pos.StablecoinBalance = stableBal
	pos.TokenBalance = tokenBal
	pos.PositionOpen = tokenBal > 0
	pos.LastTradeTime = now
	pos.LastTradePrice = sig.Price

	record := model.TradeRecord{
		Type:  tradeType,
		Price: sig.Price,
		Time:  now,
		Link:  link,
		Chain: e.chain.ChainName(),
	}

	switch tradeType {
	case model.TradeBuy:
		pos.LastTrade = "Position opened at " + sig.Price
		record.In = fmt.Sprintf("%.5f %s", tokenBal-prev.TokenBalance, e.token.Symbol)
		record.Out = fmt.Sprintf("%.2f %s", prev.StablecoinBalance-stableBal, e.stable.Symbol)
	case model.TradeSell:
		pos.LastTrade = "Position closed at " + sig.Price
		tokensSold := prev.TokenBalance - tokenBal
		received := stableBal - prev.StablecoinBalance
		// 已实现盈亏 = 实际回收的稳定币 - 按开仓价折算的成本
		pos.PNL = prev.PNL + received - cast.ToFloat64(prev.LastTradePrice)*tokensSold
		record.In = fmt.Sprintf("%.2f %s", received, e.stable.Symbol)
		record.Out = fmt.Sprintf("%.5f %s", tokensSold, e.token.Symbol)
	}

	if err := e.store.SavePosition(pos); err != nil {
		return err
	}
	if err := e.store.AppendTrade(record); err != nil {
		return err
	}

	logger.Info("[Engine] trade settled",
		logger.Pair("type", tradeType),
		logger.Pair("price", sig.Price),
		logger.Pair("in", record.In),
		logger.Pair("out", record.Out),
		logger.Pair("pnl", pos.PNL),
		logger.Pair("tx", outcome.Hash))

	e.alert.Send(fmt.Sprintf("%s executed at %s on %s\nIn: %s\nOut: %s\nPNL: %.2f %s\n%s",
		tradeType, sig.Price, e.chain.ChainName(), record.In, record.Out, pos.PNL, e.stable.Symbol, link))
	return nil
}

// readBalance 读单个代币的可读余额，粉尘归零在FormatBalance里完成
func (e *Engine) readBalance(ctx context.Context, token model.Token) (float64, error) {
	raw, err := e.chain.TokenBalance(ctx, token)
	if err != nil {
		return 0, err
	}
	return chain.FormatBalance(raw, token.Decimals), nil
}

func (e *Engine) readBalances(ctx context.Context) (stable, token float64, err error) {
	if stable, err = e.readBalance(ctx, e.stable); err != nil {
		return 0, 0, err
	}
	if token, err = e.readBalance(ctx, e.token); err != nil {
		return 0, 0, err
	}
	return stable, token, nil
}
