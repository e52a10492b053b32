package notify

import (
	"context"
	"fmt"

	"smart-hr/internal/config"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

type sender interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
}

type Telegram struct {
	bot    sender
	chatID int64
}

// NewTelegram returns nil, nil when no bot token is configured.
func NewTelegram(cfg config.TelegramConfig) (*Telegram, error) {
	if cfg.BotToken == "" || cfg.ChatID == 0 {
		return nil, nil
	}
	bot, err := tgbotapi.NewBotAPI(cfg.BotToken)
	if err != nil {
		return nil, fmt.Errorf("failed to init telegram bot: %w", err)
	}
	return &Telegram{bot: bot, chatID: cfg.ChatID}, nil
}

func (t *Telegram) Notify(ctx context.Context, n Notification) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	msg := tgbotapi.NewMessage(t.chatID, n.Text())
	msg.ParseMode = tgbotapi.ModeHTML
	msg.DisableWebPagePreview = true
	_, err := t.bot.Send(msg)
	return err
}
