package memrepo

import (
	"context"
	"sort"

	"github.com/GlebRadaev/rafflehub/internal/domain"
)

type RecordRepo struct {
	s *Store
}

func (r *RecordRepo) Create(ctx context.Context, rec *domain.Record) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.s.records = append(r.s.records, cloneRecord(*rec))
	onRollback(ctx, func() {
		r.s.mu.Lock()
		r.s.records = removeRecords(r.s.records, func(x domain.Record) bool { return x.ID == rec.ID })
		r.s.mu.Unlock()
	})
	return nil
}

func (r *RecordRepo) FindByRaffle(_ context.Context, raffleID string) ([]domain.Record, error) {
	out := r.collect(func(x domain.Record) bool { return x.RaffleID == raffleID })
	sort.SliceStable(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out, nil
}

func (r *RecordRepo) FindByReceipt(_ context.Context, code string) (*domain.Record, error) {
	out := r.collect(func(x domain.Record) bool { return x.ReceiptCode == code })
	if len(out) == 0 {
		return nil, nil
	}
	return &out[0], nil
}

func (r *RecordRepo) Find(_ context.Context, filter domain.TicketFilter) ([]domain.Record, error) {
	out := r.collect(func(x domain.Record) bool {
		return matches(filter, x.RaffleID, x.OwnerID, "", x.CreatedAt)
	})
	sort.SliceStable(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (r *RecordRepo) DeleteByRaffle(ctx context.Context, raffleID string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var removed []domain.Record
	r.s.records = removeRecords(r.s.records, func(x domain.Record) bool {
		if x.RaffleID == raffleID {
			removed = append(removed, x)
			return true
		}
		return false
	})
	onRollback(ctx, func() {
		r.s.mu.Lock()
		r.s.records = append(r.s.records, removed...)
		r.s.mu.Unlock()
	})
	return nil
}

func (r *RecordRepo) collect(keep func(domain.Record) bool) []domain.Record {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	var out []domain.Record
	for _, x := range r.s.records {
		if keep(x) {
			out = append(out, cloneRecord(x))
		}
	}
	return out
}

func removeRecords(in []domain.Record, drop func(domain.Record) bool) []domain.Record {
	out := in[:0]
	for _, x := range in {
		if !drop(x) {
			out = append(out, x)
		}
	}
	return out
}
