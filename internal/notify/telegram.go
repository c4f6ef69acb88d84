package notify

import (
	"context"
	"fmt"
	"strconv"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// chatSender is the part of *tgbotapi.BotAPI the notifier uses
type chatSender interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
}

// TelegramNotifier posts notifications to a Telegram chat
type TelegramNotifier struct {
	bot    chatSender
	chatID int64
}

// NewTelegramNotifier connects to the bot API and returns a notifier for chatID
func NewTelegramNotifier(token, chatID string) (*TelegramNotifier, error) {
	id, err := strconv.ParseInt(chatID, 10, 64)
	if err != nil {
		return nil, fmt.Errorf("invalid chat id: %w", err)
	}

	bot, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, fmt.Errorf("connect telegram bot: %w", err)
	}
	return &TelegramNotifier{bot: bot, chatID: id}, nil
}

// Name implements Notifier
func (n *TelegramNotifier) Name() string {
	return "telegram"
}

// Notify implements Notifier
func (n *TelegramNotifier) Notify(ctx context.Context, msg Message) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	text := msg.Subject + "\n\n" + msg.Body
	if msg.ReplyTo != "" {
		text += "\n\nReply to: " + msg.ReplyTo
	}
	// Plain text, no parse mode: the body is user input
	_, err := n.bot.Send(tgbotapi.NewMessage(n.chatID, text))
	return err
}
