package memrepo

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/GlebRadaev/rafflehub/internal/domain"
)

type WalletRepo struct {
	s *Store
}

func (r *WalletRepo) GetWallet(_ context.Context, ownerID string) (*domain.Wallet, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	w, ok := r.s.wallets[ownerID]
	if !ok {
		return nil, nil
	}
	return &w, nil
}

// adjust applies delta and journals the opposite delta, so a rollback does
// not clobber writes made by other transactions in between.
func (r *WalletRepo) adjust(ctx context.Context, ownerID string, delta decimal.Decimal) domain.Wallet {
	w := r.s.wallets[ownerID]
	w.OwnerID = ownerID
	w.Balance = w.Balance.Add(delta)
	w.UpdatedAt = time.Now()
	r.s.wallets[ownerID] = w
	onRollback(ctx, func() {
		r.s.mu.Lock()
		back := r.s.wallets[ownerID]
		back.Balance = back.Balance.Sub(delta)
		r.s.wallets[ownerID] = back
		r.s.mu.Unlock()
	})
	return w
}

func (r *WalletRepo) Credit(ctx context.Context, ownerID string, amount decimal.Decimal) (*domain.Wallet, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	w := r.adjust(ctx, ownerID, amount)
	return &w, nil
}

// Debit returns nil without error when the balance does not cover amount.
func (r *WalletRepo) Debit(ctx context.Context, ownerID string, amount decimal.Decimal) (*domain.Wallet, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	w, ok := r.s.wallets[ownerID]
	if !ok || w.Balance.LessThan(amount) {
		return nil, nil
	}
	w = r.adjust(ctx, ownerID, amount.Neg())
	return &w, nil
}
