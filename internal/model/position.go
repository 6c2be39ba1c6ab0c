package model

// Position 机器人对当前持仓的认知，只在交易结算后写入。
// PositionOpen 必须与结算时预言机观察到的投机代币余额一致：
// 持久化文档是链上真相的缓存，而不是相反。
type Position struct {
	PositionOpen      bool    `json:"position_open"`
	StablecoinBalance float64 `json:"stablecoin_balance"`
	TokenBalance      float64 `json:"token_balance"`
	LastTrade         string  `json:"last_trade,omitempty"`       // 例如 "Position opened at 1800"
	LastTradeTime     string  `json:"last_trade_time,omitempty"`  // 格式化时间
	LastTradePrice    string  `json:"last_trade_price,omitempty"` // 最近一次成交的信号价格
	PNL               float64 `json:"pnl"`                        // 累计已实现盈亏
}

// DefaultPosition 读取失败时的安全默认值：空仓、零余额
func DefaultPosition() Position {
	return Position{}
}
