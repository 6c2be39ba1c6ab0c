package alert

import (
	"swapflow/conf"
	"swapflow/pkg/logger"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// Telegram 交易告警。未配置token或chat_id时为no-op，
// 发送失败只记日志，不影响交易流程
type Telegram struct {
	bot    *tgbotapi.BotAPI
	chatId int64
}

func NewTelegram(cfg conf.TelegramConfig) *Telegram {
	if cfg.Token == "" || cfg.ChatId == 0 {
		logger.Info("[Alert] telegram not configured, alerts disabled")
		return &Telegram{}
	}
	bot, err := tgbotapi.NewBotAPI(cfg.Token)
	if err != nil {
		logger.Errorf("[Alert] init telegram bot: %v", err)
		return &Telegram{}
	}
	return &Telegram{bot: bot, chatId: cfg.ChatId}
}

func (t *Telegram) Send(text string) {
	if t == nil || t.bot == nil {
		return
	}
	msg := tgbotapi.NewMessage(t.chatId, text)
	msg.DisableWebPagePreview = true
	if _, err := t.bot.Send(msg); err != nil {
		logger.Errorf("[Alert] send telegram message: %v", err)
	}
}
