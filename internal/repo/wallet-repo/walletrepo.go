package walletrepo

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/GlebRadaev/rafflehub/internal/domain"
	"github.com/GlebRadaev/rafflehub/internal/pg"
)

type Repository struct {
	db pg.Database
}

func New(db pg.Database) *Repository {
	return &Repository{db: db}
}

func (r *Repository) GetWallet(ctx context.Context, ownerID string) (*domain.Wallet, error) {
	query := `
        SELECT owner_id, balance, updated_at
        FROM wallets
        WHERE owner_id = $1
    `
	var wallet domain.Wallet
	err := r.db.QueryRow(ctx, query, ownerID).Scan(&wallet.OwnerID, &wallet.Balance, &wallet.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		zap.L().Error("failed to get wallet", zap.String("owner_id", ownerID), zap.Error(err))
		return nil, err
	}
	return &wallet, nil
}

// Credit creates the wallet on first use.
func (r *Repository) Credit(ctx context.Context, ownerID string, amount decimal.Decimal) (*domain.Wallet, error) {
	query := `
        INSERT INTO wallets (owner_id, balance, updated_at)
        VALUES ($1, $2, $3)
        ON CONFLICT (owner_id) DO UPDATE
        SET balance = wallets.balance + EXCLUDED.balance, updated_at = EXCLUDED.updated_at
        RETURNING owner_id, balance, updated_at
    `
	var wallet domain.Wallet
	err := r.db.QueryRow(ctx, query, ownerID, amount, time.Now()).Scan(&wallet.OwnerID, &wallet.Balance, &wallet.UpdatedAt)
	if err != nil {
		zap.L().Error("failed to credit wallet", zap.String("owner_id", ownerID), zap.Error(err))
		return nil, err
	}
	return &wallet, nil
}

// Debit returns nil without error when the balance does not cover amount.
func (r *Repository) Debit(ctx context.Context, ownerID string, amount decimal.Decimal) (*domain.Wallet, error) {
	query := `
        UPDATE wallets
        SET balance = balance - $1, updated_at = $2
        WHERE owner_id = $3 AND balance >= $1
        RETURNING owner_id, balance, updated_at
    `
	var wallet domain.Wallet
	err := r.db.QueryRow(ctx, query, amount, time.Now(), ownerID).Scan(&wallet.OwnerID, &wallet.Balance, &wallet.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		zap.L().Error("failed to debit wallet", zap.String("owner_id", ownerID), zap.Error(err))
		return nil, err
	}
	return &wallet, nil
}
