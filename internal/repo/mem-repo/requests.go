package memrepo

import (
	"context"
	"sort"

	"github.com/GlebRadaev/rafflehub/internal/domain"
)

type RequestRepo struct {
	s *Store
}

func (r *RequestRepo) Create(ctx context.Context, req *domain.ManualRequest) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.s.requests = append(r.s.requests, cloneRequest(*req))
	onRollback(ctx, func() {
		r.s.mu.Lock()
		r.s.requests = removeRequests(r.s.requests, func(x domain.ManualRequest) bool { return x.ID == req.ID })
		r.s.mu.Unlock()
	})
	return nil
}

func (r *RequestRepo) FindByID(_ context.Context, id string) (*domain.ManualRequest, error) {
	out := r.collect(func(x domain.ManualRequest) bool { return x.ID == id })
	if len(out) == 0 {
		return nil, nil
	}
	return &out[0], nil
}

func (r *RequestRepo) FindByRaffle(_ context.Context, raffleID string) ([]domain.ManualRequest, error) {
	out := r.collect(func(x domain.ManualRequest) bool { return x.RaffleID == raffleID })
	sortRequests(out)
	return out, nil
}

func (r *RequestRepo) Find(_ context.Context, filter domain.TicketFilter) ([]domain.ManualRequest, error) {
	out := r.collect(func(x domain.ManualRequest) bool {
		return matches(filter, x.RaffleID, x.OwnerID, string(x.Status), x.CreatedAt)
	})
	sortRequests(out)
	return out, nil
}

// Resolve only touches requests that are still pending.
func (r *RequestRepo) Resolve(ctx context.Context, req *domain.ManualRequest) (bool, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for i, x := range r.s.requests {
		if x.ID != req.ID {
			continue
		}
		if x.Status != domain.RequestPending {
			return false, nil
		}
		prev := x
		next := cloneRequest(x)
		next.Status = req.Status
		next.Numbers = cloneInts(req.Numbers)
		next.RecordID = req.RecordID
		next.ResolvedBy = req.ResolvedBy
		next.ResolvedAt = req.ResolvedAt
		r.s.requests[i] = next
		onRollback(ctx, func() {
			r.s.mu.Lock()
			for j := range r.s.requests {
				if r.s.requests[j].ID == prev.ID {
					r.s.requests[j] = prev
				}
			}
			r.s.mu.Unlock()
		})
		return true, nil
	}
	return false, nil
}

func (r *RequestRepo) DeleteByRaffle(ctx context.Context, raffleID string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var removed []domain.ManualRequest
	r.s.requests = removeRequests(r.s.requests, func(x domain.ManualRequest) bool {
		if x.RaffleID == raffleID {
			removed = append(removed, x)
			return true
		}
		return false
	})
	onRollback(ctx, func() {
		r.s.mu.Lock()
		r.s.requests = append(r.s.requests, removed...)
		r.s.mu.Unlock()
	})
	return nil
}

func (r *RequestRepo) collect(keep func(domain.ManualRequest) bool) []domain.ManualRequest {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	var out []domain.ManualRequest
	for _, x := range r.s.requests {
		if keep(x) {
			out = append(out, cloneRequest(x))
		}
	}
	return out
}

func sortRequests(reqs []domain.ManualRequest) {
	sort.SliceStable(reqs, func(i, j int) bool { return reqs[i].CreatedAt.Before(reqs[j].CreatedAt) })
}

func removeRequests(in []domain.ManualRequest, drop func(domain.ManualRequest) bool) []domain.ManualRequest {
	out := in[:0]
	for _, x := range in {
		if !drop(x) {
			out = append(out, x)
		}
	}
	return out
}
