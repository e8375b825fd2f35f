package memrepo

import (
	"context"

	"github.com/GlebRadaev/rafflehub/internal/domain"
)

type ActivityRepo struct {
	s *Store
}

func (r *ActivityRepo) Add(ctx context.Context, a *domain.Activity) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.s.activity = append(r.s.activity, *a)
	onRollback(ctx, func() {
		r.s.mu.Lock()
		defer r.s.mu.Unlock()
		for i := range r.s.activity {
			if r.s.activity[i].ID == a.ID {
				r.s.activity = append(r.s.activity[:i], r.s.activity[i+1:]...)
				return
			}
		}
	})
	return nil
}

// List returns the latest entries first; an empty raffleID lists everything.
func (r *ActivityRepo) List(_ context.Context, raffleID string, limit int) ([]domain.Activity, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	var out []domain.Activity
	for i := len(r.s.activity) - 1; i >= 0 && len(out) < limit; i-- {
		if raffleID == "" || r.s.activity[i].RaffleID == raffleID {
			out = append(out, r.s.activity[i])
		}
	}
	return out, nil
}
