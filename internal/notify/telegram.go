package notify

import (
	"context"
	"errors"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/GlebRadaev/rafflehub/internal/domain"
	"github.com/GlebRadaev/rafflehub/pkg/clients"
)

type BotSender interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
}

// Telegram sends the confirmation to the admin chat and, when the owner
// has linked one, to the owner's own chat.
type Telegram struct {
	bot       BotSender
	adminChat int64
}

func NewTelegram(bot BotSender, adminChat int64) *Telegram {
	return &Telegram{bot: bot, adminChat: adminChat}
}

func NewTelegramBot(token string) (*tgbotapi.BotAPI, error) {
	return tgbotapi.NewBotAPIWithClient(token, tgbotapi.APIEndpoint, clients.NewHTTPClient())
}

func (t *Telegram) Name() string { return "telegram" }

func (t *Telegram) chats(receipt domain.Receipt) []int64 {
	var chats []int64
	if t.adminChat != 0 {
		chats = append(chats, t.adminChat)
	}
	if receipt.Owner != nil && receipt.Owner.TelegramChatID != 0 && receipt.Owner.TelegramChatID != t.adminChat {
		chats = append(chats, receipt.Owner.TelegramChatID)
	}
	return chats
}

func (t *Telegram) Send(ctx context.Context, receipt domain.Receipt) error {
	text := Message(receipt)
	if text == "" {
		return nil
	}

	var errs []error
	for _, chat := range t.chats(receipt) {
		if err := ctx.Err(); err != nil {
			return errors.Join(append(errs, err)...)
		}
		if _, err := t.bot.Send(tgbotapi.NewMessage(chat, text)); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
