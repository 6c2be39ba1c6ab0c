package engine

import (
	"context"
	"math/big"
	"swapflow/conf"
	"swapflow/internal/consts"
	"swapflow/internal/model"
	"swapflow/internal/store"
	"swapflow/pkg/ecode"
	"swapflow/pkg/logger"
	"sync"
	"time"

	"github.com/spf13/cast"
)

// 交易引擎：把外部信号推进到最终成交或分类后的失败记录。
// 同一时刻最多处理一个信号，后到的直接拒绝而不是排队。

// Chain 链上操作，由 internal/chain.Client 实现，测试用仿真实现
type Chain interface {
	HasGasMoney(ctx context.Context) (bool, error)
	TokenBalance(ctx context.Context, token model.Token) (*big.Int, error)
	EnsureApproval(ctx context.Context, token model.Token, amount, ceiling float64) (model.TxOutcome, error)
	ExecuteRoute(ctx context.Context, route *model.Route) (model.TxOutcome, error)
	ChainName() string
	ExplorerTx(hash string) string
}

// Planner 路由规划
type Planner interface {
	GenerateRoute(ctx context.Context, tokenIn, tokenOut model.Token, amountIn float64) (*model.Route, error)
}

// Alerter 交易告警
type Alerter interface {
	Send(text string)
}

type Engine struct {
	chain    Chain
	planner  Planner
	store    *store.Store
	alert    Alerter
	stable   model.Token
	token    model.Token
	strategy conf.StrategyConfig

	mu sync.Mutex // 单飞锁，保护整条交易流水线

	priceMu sync.Mutex
	prices  []float64 // 观察到的信号价格，供技术指标计算
}

const priceHistoryCap = 500

func New(chain Chain, planner Planner, st *store.Store, alert Alerter, stable, token model.Token, strategy conf.StrategyConfig) *Engine {
	return &Engine{
		chain:    chain,
		planner:  planner,
		store:    st,
		alert:    alert,
		stable:   stable,
		token:    token,
		strategy: strategy,
	}
}

// HandleSignal 信号入口。价格在handler层已校验为合法数字
func (e *Engine) HandleSignal(ctx context.Context, sig model.Signal) error {
	if !e.mu.TryLock() {
		logger.Warn("[Engine] signal rejected, trade in progress",
			logger.Pair("type", sig.Type), logger.Pair("price", sig.Price))
		e.recordError(model.ErrOrderConflict, "signal "+sig.Type+" rejected, another trade is in progress")
		return ecode.New(ecode.EngineBusyErr, "trade in progress")
	}
	defer e.mu.Unlock()

	price := cast.ToFloat64(sig.Price)
	e.observePrice(price)

	logger.Info("[Engine] signal received",
		logger.Pair("type", sig.Type), logger.Pair("price", sig.Price))

	// 所有交易前置的第一道闸门：gas余额。
	// 读不到余额是RPC/配置问题，不是余额不足的结论
	ok, err := e.chain.HasGasMoney(ctx)
	if err != nil {
		e.recordError(model.ErrConfig, "gas balance check failed: "+err.Error())
		return err
	}
	if !ok {
		e.recordError(model.ErrInsufficientGas, "native balance below gas minimum, trading halted")
		return ecode.New(ecode.SignalRejectedErr, "insufficient gas")
	}

	switch sig.Type {
	case model.SignalBuy:
		return e.buy(ctx, sig)
	case model.SignalSell:
		return e.sell(ctx, sig)
	default:
		return ecode.New(ecode.SignalInvalidErr, "unknown signal type "+sig.Type)
	}
}

// Recover 启动时从链上重读余额并覆盖持久化仓位，
// 吸收上次运行留下的Pending交易在停机期间落定的结果
func (e *Engine) Recover(ctx context.Context) error {
	pos := e.store.Position()

	stableBal, tokenBal, err := e.readBalances(ctx)
	if err != nil {
		return err
	}

	pos.StablecoinBalance = stableBal
	pos.TokenBalance = tokenBal
	pos.PositionOpen = tokenBal > 0

	logger.Info("[Engine] position recovered from chain",
		logger.Pair("position_open", pos.PositionOpen),
		logger.Pair(e.stable.Symbol, stableBal),
		logger.Pair(e.token.Symbol, tokenBal))

	return e.store.SavePosition(pos)
}

// observePrice 记录信号价格，供SMA/RSI/MACD使用
func (e *Engine) observePrice(price float64) {
	if price <= 0 {
		return
	}
	e.priceMu.Lock()
	defer e.priceMu.Unlock()
	e.prices = append(e.prices, price)
	if len(e.prices) > priceHistoryCap {
		e.prices = e.prices[len(e.prices)-priceHistoryCap:]
	}
}

// Prices 已观察价格的副本，从旧到新
func (e *Engine) Prices() []float64 {
	e.priceMu.Lock()
	defer e.priceMu.Unlock()
	out := make([]float64, len(e.prices))
	copy(out, e.prices)
	return out
}

// recordError 失败分类后写入错误日志文档并告警，不中断进程
func (e *Engine) recordError(category, message string) {
	logger.Error("[Engine] "+message, logger.Pair("category", category))
	e.alert.Send("[" + category + "] " + message)
	err := e.store.AppendError(model.ErrorRecord{
		Category: category,
		Message:  message,
		Chain:    e.chain.ChainName(),
		Time:     time.Now().Format(consts.TimeLayout),
	})
	if err != nil {
		logger.Errorf("[Engine] append error record: %v", err)
	}
}
