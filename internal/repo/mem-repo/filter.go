package memrepo

import (
	"time"

	"github.com/GlebRadaev/rafflehub/internal/domain"
)

// matches mirrors the WHERE clause the SQL repositories build from a filter.
// An empty status argument skips the status condition.
func matches(f domain.TicketFilter, raffleID, ownerID, status string, createdAt time.Time) bool {
	switch {
	case f.RaffleID != "" && f.RaffleID != raffleID:
		return false
	case f.OwnerID != "" && f.OwnerID != ownerID:
		return false
	case status != "" && f.Status != "" && f.Status != status:
		return false
	case f.From != nil && createdAt.Before(*f.From):
		return false
	case f.To != nil && createdAt.After(*f.To):
		return false
	}
	return true
}
