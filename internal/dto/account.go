package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

type WalletResponseDTO struct {
	Balance   decimal.Decimal `json:"balance" swaggertype:"string" example:"125.00"`
	UpdatedAt *time.Time      `json:"updated_at,omitempty"`
}

type DepositRequestDTO struct {
	Amount decimal.Decimal `json:"amount" swaggertype:"string" example:"50.00"`
}

type ProfileResponseDTO struct {
	ID              string `json:"id"`
	FirstName       string `json:"first_name" example:"Ana"`
	LastName        string `json:"last_name" example:"Rojas"`
	Email           string `json:"email,omitempty"`
	Phone           string `json:"phone,omitempty"`
	Cedula          string `json:"cedula,omitempty" example:"V-12345678"`
	Address         string `json:"address,omitempty"`
	TelegramChatID  int64  `json:"telegram_chat_id,omitempty"`
	HasSecurityCode bool   `json:"has_security_code"`
}
