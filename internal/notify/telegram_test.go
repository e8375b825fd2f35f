package notify

import (
	"context"
	"errors"
	"testing"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/stretchr/testify/assert"
	gomock "go.uber.org/mock/gomock"

	"github.com/GlebRadaev/rafflehub/internal/domain"
)

func TestTelegram_Send(t *testing.T) {
	receipt := testReceipt()
	text := Message(receipt)

	tests := []struct {
		name        string
		adminChat   int64
		receipt     domain.Receipt
		prepareMock func(bot *MockBotSender)
		expectErr   bool
	}{
		{
			name:      "Admin and owner chats",
			adminChat: 100,
			receipt:   receipt,
			prepareMock: func(bot *MockBotSender) {
				bot.EXPECT().Send(tgbotapi.NewMessage(100, text)).Return(tgbotapi.Message{}, nil)
				bot.EXPECT().Send(tgbotapi.NewMessage(555, text)).Return(tgbotapi.Message{}, nil)
			},
		},
		{
			name:      "Owner is the admin",
			adminChat: 555,
			receipt:   receipt,
			prepareMock: func(bot *MockBotSender) {
				bot.EXPECT().Send(tgbotapi.NewMessage(555, text)).Return(tgbotapi.Message{}, nil)
			},
		},
		{
			name:        "No chats configured",
			receipt:     domain.Receipt{Record: receipt.Record, Raffle: receipt.Raffle},
			prepareMock: func(bot *MockBotSender) {},
		},
		{
			name:      "Admin chat fails, owner still notified",
			adminChat: 100,
			receipt:   receipt,
			prepareMock: func(bot *MockBotSender) {
				bot.EXPECT().Send(tgbotapi.NewMessage(100, text)).Return(tgbotapi.Message{}, errors.New("chat not found"))
				bot.EXPECT().Send(tgbotapi.NewMessage(555, text)).Return(tgbotapi.Message{}, nil)
			},
			expectErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			bot := NewMockBotSender(ctrl)
			tt.prepareMock(bot)

			tg := NewTelegram(bot, tt.adminChat)
			err := tg.Send(context.Background(), tt.receipt)
			if tt.expectErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
			assert.Equal(t, "telegram", tg.Name())
		})
	}
}
