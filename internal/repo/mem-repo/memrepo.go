// Package memrepo keeps every entity in process memory. It backs the service
// when no database is configured and serves as the storage double in tests.
package memrepo

import (
	"context"
	"sync"

	"github.com/GlebRadaev/rafflehub/internal/domain"
	"github.com/GlebRadaev/rafflehub/internal/pg"
)

type Store struct {
	mu       sync.RWMutex
	raffles  map[string]domain.Raffle
	records  []domain.Record
	requests []domain.ManualRequest
	wallets  map[string]domain.Wallet
	owners   map[string]domain.Owner
	activity []domain.Activity
}

func New() *Store {
	return &Store{
		raffles: make(map[string]domain.Raffle),
		wallets: make(map[string]domain.Wallet),
		owners:  make(map[string]domain.Owner),
	}
}

func (s *Store) Raffles() *RaffleRepo { return &RaffleRepo{s} }
func (s *Store) Records() *RecordRepo { return &RecordRepo{s} }
func (s *Store) Requests() *RequestRepo { return &RequestRepo{s} }
func (s *Store) Wallets() *WalletRepo { return &WalletRepo{s} }
func (s *Store) Owners() *OwnerRepo { return &OwnerRepo{s} }
func (s *Store) Activity() *ActivityRepo { return &ActivityRepo{s} }
func (s *Store) TXManager() pg.TXManager { return &txManager{} }

// journal collects compensating actions for the writes of one transaction.
type journal struct {
	mu   sync.Mutex
	undo []func()
}

func (j *journal) add(fn func()) {
	j.mu.Lock()
	j.undo = append(j.undo, fn)
	j.mu.Unlock()
}

func (j *journal) rollback() {
	j.mu.Lock()
	defer j.mu.Unlock()
	for i := len(j.undo) - 1; i >= 0; i-- {
		j.undo[i]()
	}
	j.undo = nil
}

type journalKey struct{}

func journalFrom(ctx context.Context) *journal {
	j, _ := ctx.Value(journalKey{}).(*journal)
	return j
}

// onRollback registers fn to run if the surrounding transaction fails.
// Writes outside a transaction are final.
func onRollback(ctx context.Context, fn func()) {
	if j := journalFrom(ctx); j != nil {
		j.add(fn)
	}
}

type txManager struct{}

// Begin undoes every write made through ctx when fn fails or panics.
// Nested calls join the outer transaction.
func (m *txManager) Begin(ctx context.Context, fn pg.TransactionalFn) (err error) {
	if journalFrom(ctx) != nil {
		return fn(ctx)
	}
	j := &journal{}
	defer func() {
		if p := recover(); p != nil {
			j.rollback()
			panic(p)
		}
		if err != nil {
			j.rollback()
		}
	}()
	return fn(context.WithValue(ctx, journalKey{}, j))
}

func cloneInts(in []int) []int {
	if in == nil {
		return nil
	}
	return append([]int(nil), in...)
}

func cloneRaffle(r domain.Raffle) domain.Raffle {
	if r.WinningNumber != nil {
		n := *r.WinningNumber
		r.WinningNumber = &n
	}
	if r.WinnerID != nil {
		id := *r.WinnerID
		r.WinnerID = &id
	}
	return r
}

func cloneRecord(r domain.Record) domain.Record {
	r.Numbers = cloneInts(r.Numbers)
	return r
}

func cloneRequest(r domain.ManualRequest) domain.ManualRequest {
	r.Numbers = cloneInts(r.Numbers)
	return r
}
