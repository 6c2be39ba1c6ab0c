package indicator

import (
	"swapflow/internal/engine"
	"swapflow/pkg/ecode"
	"swapflow/pkg/response"

	"github.com/gin-gonic/gin"
	"github.com/markcheno/go-talib"
	"github.com/spf13/cast"
)

// 基于已观察信号价格的技术指标快照

const (
	smaPeriod  = 20
	rsiPeriod  = 14
	macdFast   = 12
	macdSlow   = 26
	macdSignal = 9
)

type Handler struct {
	engine *engine.Engine
}

func NewHandler(e *engine.Engine) *Handler {
	return &Handler{engine: e}
}

type snapshot struct {
	Samples int     `json:"samples"`
	Price   float64 `json:"price"`
	Sma     float64 `json:"sma,omitempty"`
	Rsi     float64 `json:"rsi,omitempty"`
	Macd    *macd   `json:"macd,omitempty"`
}

type macd struct {
	Macd      float64 `json:"macd"`
	Signal    float64 `json:"signal"`
	Histogram float64 `json:"histogram"`
}

// Indicators 返回各指标的最新值，样本不足的指标不出现在结果里。
// window 参数可调RSI周期，默认14
func (h *Handler) Indicators() gin.HandlerFunc {
	return func(c *gin.Context) {
		window := cast.ToInt(c.Query("window"))
		if window < 2 || window > 100 {
			window = rsiPeriod
		}

		prices := h.engine.Prices()
		if len(prices) == 0 {
			response.JSON(c, ecode.New(ecode.SignalRejectedErr, "no price samples observed yet"), nil)
			return
		}

		snap := snapshot{
			Samples: len(prices),
			Price:   prices[len(prices)-1],
		}
		if len(prices) >= smaPeriod {
			sma := talib.Sma(prices, smaPeriod)
			snap.Sma = sma[len(sma)-1]
		}
		if len(prices) > window {
			rsi := talib.Rsi(prices, window)
			snap.Rsi = rsi[len(rsi)-1]
		}
		if len(prices) >= macdSlow+macdSignal {
			m, s, hist := talib.Macd(prices, macdFast, macdSlow, macdSignal)
			snap.Macd = &macd{
				Macd:      m[len(m)-1],
				Signal:    s[len(s)-1],
				Histogram: hist[len(hist)-1],
			}
		}
		response.JSON(c, nil, snap)
	}
}
