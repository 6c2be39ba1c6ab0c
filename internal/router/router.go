package router

import (
	"swapflow/internal/handler/indicator"
	"swapflow/internal/handler/ping"
	"swapflow/internal/handler/trade"
	"swapflow/internal/handler/webhook"

	"github.com/gin-gonic/gin"
)

type ApiRouter struct {
	webhookHandler   *webhook.Handler
	tradeHandler     *trade.Handler
	indicatorHandler *indicator.Handler
}

func NewApiRouter(wh *webhook.Handler, th *trade.Handler, ih *indicator.Handler) *ApiRouter {
	return &ApiRouter{webhookHandler: wh, tradeHandler: th, indicatorHandler: ih}
}

func (api *ApiRouter) Load(g *gin.Engine) {

	g.GET("/ping", ping.Ping())

	base := g.Group("/api/v1")

	// 信号入口
	base.POST("/webhook", api.webhookHandler.HandleSignal())

	t := base.Group("/trade")
	{
		t.GET("/position", api.tradeHandler.Position())
		t.GET("/history", api.tradeHandler.History())
		t.GET("/errors", api.tradeHandler.Errors())
	}

	base.GET("/indicators", api.indicatorHandler.Indicators())
}
