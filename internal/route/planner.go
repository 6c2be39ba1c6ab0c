package route

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"math/big"
	"net/http"
	"swapflow/conf"
	"swapflow/internal/consts"
	"swapflow/internal/model"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/goccy/go-json"
)

// 路由规划器：请求外部寻路服务，拿到一条带calldata的最优执行路径。
// 固定策略：滑点0.50%，有效期30分钟

type Planner struct {
	endpoint  string
	client    *http.Client
	recipient common.Address
}

func NewPlanner(cfg conf.RoutingConfig, recipient common.Address) *Planner {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 20 * time.Second
	}
	return &Planner{
		endpoint:  cfg.Endpoint,
		client:    &http.Client{Timeout: timeout},
		recipient: recipient,
	}
}

type routeRequest struct {
	TokenIn     string `json:"token_in"`
	TokenOut    string `json:"token_out"`
	AmountIn    string `json:"amount_in"` // 链上整数的十进制串
	SlippageBps int    `json:"slippage_bps"`
	Deadline    int64  `json:"deadline"`
	Recipient   string `json:"recipient"`
}

type routeResponse struct {
	Found     bool    `json:"found"`
	To        string  `json:"to"`
	Calldata  string  `json:"calldata"` // 0x开头hex
	Value     string  `json:"value"`
	AmountOut float64 `json:"amount_out"` // 可读单位的报价
}

// GenerateRoute 无可行路径或服务出错时返回nil路由。
// 调用方应把nil当作"本次交易取消"，不是致命错误
func (p *Planner) GenerateRoute(ctx context.Context, tokenIn, tokenOut model.Token, amountIn float64) (*model.Route, error) {
	deadline := time.Now().Unix() + consts.RouteDeadlineSeconds

	body, err := json.Marshal(routeRequest{
		TokenIn:     tokenIn.Address.Hex(),
		TokenOut:    tokenOut.Address.Hex(),
		AmountIn:    tokenIn.FromReadableAmount(amountIn).String(),
		SlippageBps: consts.SlippageBps,
		Deadline:    deadline,
		Recipient:   p.recipient.Hex(),
	})
	if err != nil {
		return nil, fmt.Errorf("marshal route request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.endpoint+"/route", bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := p.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("routing service: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		raw, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, fmt.Errorf("routing service status %d: %s", resp.StatusCode, raw)
	}

	var rr routeResponse
	if err := json.NewDecoder(resp.Body).Decode(&rr); err != nil {
		return nil, fmt.Errorf("decode route response: %w", err)
	}
	if !rr.Found {
		return nil, fmt.Errorf("no viable path for %s -> %s", tokenIn.Symbol, tokenOut.Symbol)
	}

	value := new(big.Int)
	if rr.Value != "" {
		if _, ok := value.SetString(rr.Value, 10); !ok {
			return nil, fmt.Errorf("invalid route value %q", rr.Value)
		}
	}

	return &model.Route{
		TokenIn:   tokenIn,
		TokenOut:  tokenOut,
		To:        common.HexToAddress(rr.To),
		Calldata:  common.FromHex(rr.Calldata),
		Value:     value,
		AmountOut: rr.AmountOut,
		Deadline:  deadline,
	}, nil
}
