package webhook

import (
	"bytes"
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"io"
	"swapflow/conf"
	"swapflow/internal/engine"
	"swapflow/internal/model"
	"swapflow/pkg/ecode"
	"swapflow/pkg/logger"
	"swapflow/pkg/response"
	"swapflow/pkg/validator"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cast"
)

// 外部策略信号的接收器

type Handler struct {
	engine *engine.Engine
}

func NewHandler(e *engine.Engine) *Handler {
	return &Handler{engine: e}
}

// HandleSignal 接收POST请求并解析为交易信号。
// 验签通过且载荷合法即刻返回200，交易流水线异步推进，
// 不让上游信号源等待链上确认
func (h *Handler) HandleSignal() gin.HandlerFunc {
	return func(c *gin.Context) {
		signature := c.GetHeader("X-Signature")
		if signature == "" {
			response.RequireAuthErr(c, errors.New("missing X-Signature header"))
			return
		}

		body, err := io.ReadAll(c.Request.Body)
		if err != nil {
			response.JSON(c, ecode.New(ecode.BindErr, "failed to read body"), nil)
			return
		}

		// 验签
		if !verifySignature(body, signature) {
			response.RequireAuthErr(c, errors.New("signature mismatch"))
			return
		}

		// body已读完，绑定前回填
		c.Request.Body = io.NopCloser(bytes.NewReader(body))

		var sig model.Signal
		if err := c.ShouldBindJSON(&sig); err != nil {
			response.JSON(c, ecode.New(ecode.BindErr, validator.Translate(err)), nil)
			return
		}
		if err := validateSignal(sig); err != nil {
			response.JSON(c, err, nil)
			return
		}

		logger.Info("[Webhook] signal accepted",
			logger.Pair("type", sig.Type), logger.Pair("price", sig.Price))

		// 交易不依赖请求生命周期
		go func() {
			if err := h.engine.HandleSignal(context.Background(), sig); err != nil {
				logger.Errorf("[Webhook] signal %s at %s not executed: %v", sig.Type, sig.Price, err)
			}
		}()

		response.JSON(c, nil, gin.H{"received": sig.Type})
	}
}

// validateSignal 方向由binding tag约束，这里只管价格是正数
func validateSignal(sig model.Signal) error {
	price, err := cast.ToFloat64E(sig.Price)
	if err != nil || price <= 0 {
		return ecode.New(ecode.SignalInvalidErr, "price must be a positive number")
	}
	return nil
}

func verifySignature(body []byte, signatureHeader string) bool {
	secret := conf.AppConfig.Webhook.Secret

	h := hmac.New(sha256.New, []byte(secret))
	h.Write(body)
	expectedMAC := h.Sum(nil)
	providedMAC, err := hex.DecodeString(signatureHeader)
	if err != nil {
		return false
	}
	return hmac.Equal(providedMAC, expectedMAC)
}
