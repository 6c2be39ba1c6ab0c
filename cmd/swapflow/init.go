package api

import (
	"context"
	"swapflow/conf"
	"swapflow/internal/chain"
	"swapflow/internal/engine"
	"swapflow/internal/handler/indicator"
	"swapflow/internal/handler/trade"
	"swapflow/internal/handler/webhook"
	"swapflow/internal/model"
	"swapflow/internal/route"
	"swapflow/internal/router"
	"swapflow/internal/store"
	"swapflow/pkg/alert"
	"swapflow/pkg/logger"
	"time"

	"github.com/ethereum/go-ethereum/common"
)

// InitRouter 组装整条交易流水线并返回路由
func InitRouter() (Router, error) {
	appCfg := conf.AppConfig

	stable := resolveToken(appCfg.Tokens.Stablecoin)
	token := resolveToken(appCfg.Tokens.Token)

	// 链客户端进程内只建一次
	chainClient, err := chain.New(appCfg.Chain, appCfg.Executor)
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	// 启动即校验代币表与链上精度一致，配错直接失败
	if err := chainClient.VerifyTokens(ctx, stable, token); err != nil {
		return nil, err
	}

	st, err := store.New(appCfg.Store)
	if err != nil {
		return nil, err
	}

	planner := route.NewPlanner(appCfg.Routing, chainClient.Address())
	notifier := alert.NewTelegram(appCfg.Telegram)

	eng := engine.New(chainClient, planner, st, notifier, stable, token, appCfg.Strategy)

	// 对齐链上余额，吸收上次停机期间落定的Pending交易
	if err := eng.Recover(ctx); err != nil {
		return nil, err
	}

	logger.Info("[Init] trading pipeline ready",
		logger.Pair("chain", chainClient.ChainName()),
		logger.Pair("wallet", chainClient.Address().Hex()),
		logger.Pair("pair", stable.Symbol+"/"+token.Symbol))

	wh := webhook.NewHandler(eng)
	th := trade.NewHandler(st)
	ih := indicator.NewHandler(eng)

	return router.NewApiRouter(wh, th, ih), nil
}

func resolveToken(symbol string) model.Token {
	tc := conf.AppConfig.Tokens.Registry[symbol]
	return model.Token{
		Symbol:   symbol,
		Address:  common.HexToAddress(tc.Address),
		Decimals: tc.Decimals,
		Name:     tc.Name,
	}
}
