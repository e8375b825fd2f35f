package notify

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/GlebRadaev/rafflehub/internal/domain"
)

type Poster interface {
	Post(url string, headers http.Header, body []byte) (statusCode int, respBody []byte, err error)
}

type webhookPayload struct {
	RecordID    string         `json:"record_id"`
	RaffleID    string         `json:"raffle_id"`
	RaffleTitle string         `json:"raffle_title"`
	OwnerID     string         `json:"owner_id"`
	Numbers     []int          `json:"numbers"`
	Amount      string         `json:"amount"`
	Channel     domain.Channel `json:"channel"`
	ReceiptCode string         `json:"receipt_code"`
	Buyer       domain.Buyer   `json:"buyer"`
	CreatedAt   time.Time      `json:"created_at"`
	Text        string         `json:"text"`
}

// Webhook posts the receipt as JSON to an external endpoint.
type Webhook struct {
	client Poster
	url    string
}

func NewWebhook(client Poster, url string) *Webhook {
	return &Webhook{client: client, url: url}
}

func (w *Webhook) Name() string { return "webhook" }

func (w *Webhook) Send(ctx context.Context, receipt domain.Receipt) error {
	rec := receipt.Record
	if rec == nil {
		return nil
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	payload := webhookPayload{
		RecordID:    rec.ID,
		RaffleID:    rec.RaffleID,
		OwnerID:     rec.OwnerID,
		Numbers:     rec.Numbers,
		Amount:      rec.Amount.StringFixed(2),
		Channel:     rec.Channel,
		ReceiptCode: rec.ReceiptCode,
		Buyer:       rec.Buyer,
		CreatedAt:   rec.CreatedAt,
		Text:        Message(receipt),
	}
	if receipt.Raffle != nil {
		payload.RaffleTitle = receipt.Raffle.Title
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return err
	}

	headers := http.Header{}
	headers.Set("Content-Type", "application/json")
	status, _, err := w.client.Post(w.url, headers, body)
	if err != nil {
		return err
	}
	if status < http.StatusOK || status >= http.StatusMultipleChoices {
		return fmt.Errorf("webhook responded with status %d", status)
	}
	return nil
}
