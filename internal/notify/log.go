package notify

import (
	"context"

	"go.uber.org/zap"

	"github.com/GlebRadaev/rafflehub/internal/domain"
)

// LogChannel writes every receipt to the application log.
type LogChannel struct{}

func (LogChannel) Name() string { return "log" }

func (LogChannel) Send(_ context.Context, receipt domain.Receipt) error {
	rec := receipt.Record
	if rec == nil {
		return nil
	}
	zap.L().Info("Tickets issued",
		zap.String("record_id", rec.ID),
		zap.String("raffle_id", rec.RaffleID),
		zap.String("owner_id", rec.OwnerID),
		zap.Ints("numbers", rec.Numbers),
		zap.String("amount", rec.Amount.String()),
		zap.String("channel", string(rec.Channel)),
		zap.String("receipt_code", rec.ReceiptCode))
	return nil
}
