package walletservice

import (
	"context"
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/GlebRadaev/rafflehub/internal/domain"
)

type Repo interface {
	GetWallet(ctx context.Context, ownerID string) (*domain.Wallet, error)
	Credit(ctx context.Context, ownerID string, amount decimal.Decimal) (*domain.Wallet, error)
	Debit(ctx context.Context, ownerID string, amount decimal.Decimal) (*domain.Wallet, error)
}

type Locker interface {
	Lock(ctx context.Context, key string) (func(), error)
}

type Service struct {
	repo   Repo
	locker Locker
}

func New(repo Repo, locker Locker) *Service {
	return &Service{
		repo:   repo,
		locker: locker,
	}
}

var (
	ErrInsufficientFunds = errors.New("insufficient funds")
	ErrInvalidAmount     = errors.New("amount must be positive")
)

func walletKey(ownerID string) string {
	return "wallet:" + ownerID
}

func (s *Service) withOwnerLock(ctx context.Context, ownerID string, fn func() error) error {
	unlock, err := s.locker.Lock(ctx, walletKey(ownerID))
	if err != nil {
		return fmt.Errorf("can't lock wallet %s: %w", ownerID, err)
	}
	defer unlock()
	return fn()
}

// GetBalance returns a zero wallet for owners that never had one.
func (s *Service) GetBalance(ctx context.Context, ownerID string) (*domain.Wallet, error) {
	wallet, err := s.repo.GetWallet(ctx, ownerID)
	if err != nil {
		zap.L().Error("failed to get wallet", zap.String("owner_id", ownerID), zap.Error(err))
		return nil, err
	}
	if wallet == nil {
		return &domain.Wallet{OwnerID: ownerID, Balance: decimal.Zero}, nil
	}
	return wallet, nil
}

func (s *Service) Deposit(ctx context.Context, ownerID string, amount decimal.Decimal) (*domain.Wallet, error) {
	if !amount.IsPositive() {
		return nil, ErrInvalidAmount
	}
	var wallet *domain.Wallet
	err := s.withOwnerLock(ctx, ownerID, func() error {
		var err error
		wallet, err = s.repo.Credit(ctx, ownerID, amount)
		return err
	})
	if err != nil {
		zap.L().Error("failed to credit wallet", zap.String("owner_id", ownerID), zap.Error(err))
		return nil, err
	}
	return wallet, nil
}

// Debit takes amount from the wallet, or fails with ErrInsufficientFunds
// leaving the balance untouched.
func (s *Service) Debit(ctx context.Context, ownerID string, amount decimal.Decimal) (*domain.Wallet, error) {
	if !amount.IsPositive() {
		return nil, ErrInvalidAmount
	}
	var wallet *domain.Wallet
	err := s.withOwnerLock(ctx, ownerID, func() error {
		var err error
		wallet, err = s.repo.Debit(ctx, ownerID, amount)
		if err != nil {
			return err
		}
		if wallet == nil {
			return fmt.Errorf("%w: need %s", ErrInsufficientFunds, amount.StringFixed(2))
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return wallet, nil
}
