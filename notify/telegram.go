package notify

import (
	"context"
	"fmt"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/yeremiapane/restaurant-backoffice/utils"
)

type telegramSender interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
}

// Telegram forwards error notifications to an operations chat.
type Telegram struct {
	bot    telegramSender
	chatID int64
}

func NewTelegram(token string, chatID int64) (*Telegram, error) {
	bot, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, fmt.Errorf("telegram bot: %w", err)
	}
	return &Telegram{bot: bot, chatID: chatID}, nil
}

func (t *Telegram) Notify(ctx context.Context, n Notification) {
	if n.Level != LevelError {
		return
	}

	text := "⚠️ " + n.Message
	if userID, ok := UserFrom(ctx); ok {
		text = fmt.Sprintf("%s (user %d)", text, userID)
	}

	go func() {
		if _, err := t.bot.Send(tgbotapi.NewMessage(t.chatID, text)); err != nil {
			utils.ErrorLogger.Errorf("Error sending telegram alert: %v", err)
		}
	}()
}
