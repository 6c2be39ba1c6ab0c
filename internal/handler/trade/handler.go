package trade

import (
	"swapflow/internal/store"
	"swapflow/pkg/response"

	"github.com/gin-gonic/gin"
)

// 交易状态查询接口，直接读持久化文档

type Handler struct {
	store *store.Store
}

func NewHandler(st *store.Store) *Handler {
	return &Handler{store: st}
}

// Position 当前仓位
func (h *Handler) Position() gin.HandlerFunc {
	return func(c *gin.Context) {
		response.JSON(c, nil, h.store.Position())
	}
}

// History 成交历史，最新在前
func (h *Handler) History() gin.HandlerFunc {
	return func(c *gin.Context) {
		response.JSON(c, nil, h.store.Trades())
	}
}

// Errors 错误日志，最新在前
func (h *Handler) Errors() gin.HandlerFunc {
	return func(c *gin.Context) {
		response.JSON(c, nil, h.store.Errors())
	}
}
