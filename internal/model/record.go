package model

// TradeRecord 成交历史中的一条，写入后不可变，列表按最新在前排序
type TradeRecord struct {
	Id    string `json:"id"`
	Type  string `json:"type"` // Buy / Sell
	Price string `json:"price"`
	Time  string `json:"time"`
	In    string `json:"in"`  // 换入数量与符号，例如 "0.02500 WETH"
	Out   string `json:"out"` // 换出数量与符号
	Link  string `json:"link"`
	Chain string `json:"chain"`
}

const (
	TradeBuy  = "Buy"
	TradeSell = "Sell"
)

// ErrorRecord 错误日志中的一条，只作诊断历史，不回读驱动决策
type ErrorRecord struct {
	Id       string `json:"id"`
	Category string `json:"category"`
	Message  string `json:"message"`
	Chain    string `json:"chain"`
	Time     string `json:"time"`
}

// 错误分类
const (
	ErrConfig            = "CONFIG"
	ErrGenRoute          = "GEN_ROUTE"
	ErrTokenApproval     = "TOKEN_APPROVAL"
	ErrExecRoute         = "EXEC_ROUTE"
	ErrBuy               = "BUY"
	ErrSell              = "SELL"
	ErrOrderConflict     = "ORDER_CONFLICT"
	ErrInsufficientFunds = "INSUFFICIENT_FUNDS"
	ErrInsufficientGas   = "INSUFFICIENT_GAS"
)
