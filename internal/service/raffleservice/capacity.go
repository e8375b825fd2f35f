package raffleservice

import (
	"context"
	"sort"

	"github.com/GlebRadaev/rafflehub/internal/domain"
)

// Capacity bounds the number space of a raffle. Zero or negative configured
// values mean "not configured".
func Capacity(configured, platformMax int) int {
	if configured <= 0 || configured > platformMax {
		return platformMax
	}
	return configured
}

func (s *Service) capacity(r *domain.Raffle) int {
	return Capacity(r.TotalTickets, s.maxTickets)
}

type index map[int]struct{}

func (ix index) has(n int) bool {
	_, ok := ix[n]
	return ok
}

func (ix index) sorted() []int {
	out := make([]int, 0, len(ix))
	for n := range ix {
		out = append(out, n)
	}
	sort.Ints(out)
	return out
}

// assignmentIndex is rebuilt from storage on every call. Approved requests
// overlap with their records, so the union is taken rather than a sum.
func (s *Service) assignmentIndex(ctx context.Context, raffleID string) (index, []domain.Record, error) {
	records, err := s.records.FindByRaffle(ctx, raffleID)
	if err != nil {
		return nil, nil, err
	}
	requests, err := s.requests.FindByRaffle(ctx, raffleID)
	if err != nil {
		return nil, nil, err
	}

	ix := make(index)
	for _, rec := range records {
		for _, n := range rec.Numbers {
			ix[n] = struct{}{}
		}
	}
	for _, req := range requests {
		if req.Status != domain.RequestApproved {
			continue
		}
		for _, n := range req.Numbers {
			ix[n] = struct{}{}
		}
	}
	return ix, records, nil
}
