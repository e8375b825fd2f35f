package raffleservice

import (
	"context"

	"go.uber.org/zap"

	"github.com/GlebRadaev/rafflehub/internal/domain"
)

type entry struct {
	number   int
	ownerID  string
	recordID string
}

// Draw picks one committed (number, owner) pair uniformly at random and
// closes the raffle. Only the raffle creator or an admin may draw.
func (s *Service) Draw(ctx context.Context, raffleID string, actor domain.Actor) (*domain.Winner, error) {
	var winner *domain.Winner
	err := s.withRaffleLock(ctx, raffleID, func() error {
		return s.txManager.Begin(ctx, func(ctx context.Context) error {
			raffle, err := s.find(ctx, raffleID)
			if err != nil {
				return err
			}
			if raffle.OwnerID != actor.ID && !actor.IsAdmin() {
				return ErrForbidden
			}
			if raffle.Status != domain.RaffleActive {
				return ErrRaffleNotActive
			}

			records, err := s.records.FindByRaffle(ctx, raffle.ID)
			if err != nil {
				return err
			}
			var entries []entry
			for _, rec := range records {
				for _, n := range rec.Numbers {
					entries = append(entries, entry{number: n, ownerID: rec.OwnerID, recordID: rec.ID})
				}
			}
			if len(entries) == 0 {
				return ErrNoParticipants
			}

			pick := entries[s.intn(len(entries))]
			raffle.Status = domain.RaffleClosed
			raffle.WinningNumber = &pick.number
			raffle.WinnerID = &pick.ownerID
			raffle.UpdatedAt = s.now()

			closed, err := s.raffles.Close(ctx, raffle)
			if err != nil {
				return err
			}
			if !closed {
				return ErrRaffleNotActive
			}

			winner = &domain.Winner{
				RaffleID: raffle.ID,
				Number:   pick.number,
				OwnerID:  pick.ownerID,
				RecordID: pick.recordID,
			}
			return s.log(ctx, domain.ActionRaffleClose, actor.ID, raffle.ID, map[string]any{
				"number": pick.number, "winner_id": pick.ownerID, "participants": len(entries),
			})
		})
	})
	if err != nil {
		return nil, err
	}

	zap.L().Info("raffle drawn", zap.String("raffle_id", winner.RaffleID), zap.Int("number", winner.Number))
	return winner, nil
}
