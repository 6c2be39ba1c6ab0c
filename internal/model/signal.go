package model

/*
来源于外部策略信号，内容只有方向和触发价

	{
	  "type": "BUY",
	  "price": "1800.5"
	}
*/
type Signal struct {
	Type  string `json:"type" binding:"required,oneof=BUY SELL"` // BUY / SELL
	Price string `json:"price" binding:"required"`               // 触发价格，保持外部传入的字符串形式
}

const (
	SignalBuy  = "BUY"
	SignalSell = "SELL"
)
