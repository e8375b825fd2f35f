package memrepo

import (
	"context"
	"sort"

	"github.com/GlebRadaev/rafflehub/internal/domain"
)

type RaffleRepo struct {
	s *Store
}

func (r *RaffleRepo) Create(ctx context.Context, raffle *domain.Raffle) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.s.raffles[raffle.ID] = cloneRaffle(*raffle)
	onRollback(ctx, func() {
		r.s.mu.Lock()
		delete(r.s.raffles, raffle.ID)
		r.s.mu.Unlock()
	})
	return nil
}

func (r *RaffleRepo) FindByID(_ context.Context, id string) (*domain.Raffle, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	raffle, ok := r.s.raffles[id]
	if !ok {
		return nil, nil
	}
	out := cloneRaffle(raffle)
	return &out, nil
}

func (r *RaffleRepo) List(_ context.Context) ([]domain.Raffle, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	out := make([]domain.Raffle, 0, len(r.s.raffles))
	for _, raffle := range r.s.raffles {
		out = append(out, cloneRaffle(raffle))
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out, nil
}

// replace applies mutate to a copy of the stored raffle and journals the
// previous value. It reports false when the raffle is missing or mutate declines.
func (r *RaffleRepo) replace(ctx context.Context, id string, mutate func(*domain.Raffle) bool) bool {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	prev, ok := r.s.raffles[id]
	if !ok {
		return false
	}
	next := cloneRaffle(prev)
	if !mutate(&next) {
		return false
	}
	r.s.raffles[id] = next
	onRollback(ctx, func() {
		r.s.mu.Lock()
		r.s.raffles[id] = prev
		r.s.mu.Unlock()
	})
	return true
}

func (r *RaffleRepo) Update(ctx context.Context, raffle *domain.Raffle) error {
	r.replace(ctx, raffle.ID, func(cur *domain.Raffle) bool {
		cur.Title = raffle.Title
		cur.Description = raffle.Description
		cur.Price = raffle.Price
		cur.TotalTickets = raffle.TotalTickets
		cur.Status = raffle.Status
		cur.StartDate = raffle.StartDate
		cur.EndDate = raffle.EndDate
		cur.UpdatedAt = raffle.UpdatedAt
		return true
	})
	return nil
}

func (r *RaffleRepo) SetNextTicket(ctx context.Context, id string, next int) error {
	r.replace(ctx, id, func(cur *domain.Raffle) bool {
		cur.NextTicket = next
		return true
	})
	return nil
}

func (r *RaffleRepo) Close(ctx context.Context, raffle *domain.Raffle) (bool, error) {
	closed := r.replace(ctx, raffle.ID, func(cur *domain.Raffle) bool {
		if cur.Status != domain.RaffleActive {
			return false
		}
		winner := cloneRaffle(*raffle)
		cur.Status = domain.RaffleClosed
		cur.WinningNumber = winner.WinningNumber
		cur.WinnerID = winner.WinnerID
		cur.UpdatedAt = raffle.UpdatedAt
		return true
	})
	return closed, nil
}

func (r *RaffleRepo) Delete(ctx context.Context, id string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	prev, ok := r.s.raffles[id]
	if !ok {
		return nil
	}
	delete(r.s.raffles, id)
	onRollback(ctx, func() {
		r.s.mu.Lock()
		r.s.raffles[id] = prev
		r.s.mu.Unlock()
	})
	return nil
}
