package walletservice

import (
	"context"
	"errors"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	gomock "go.uber.org/mock/gomock"

	"github.com/GlebRadaev/rafflehub/internal/domain"
)

func NewMock(t *testing.T) (*Service, *MockRepo, *MockLocker) {
	ctrl := gomock.NewController(t)
	repo := NewMockRepo(ctrl)
	locker := NewMockLocker(ctrl)
	service := New(repo, locker)
	return service, repo, locker
}

func expectLock(locker *MockLocker, key string) {
	locker.EXPECT().Lock(gomock.Any(), key).Return(func() {}, nil)
}

func TestGetBalance(t *testing.T) {
	service, repo, _ := NewMock(t)
	tests := []struct {
		name           string
		prepareMock    func()
		expectedWallet *domain.Wallet
		expectedError  error
	}{
		{
			name: "Existing wallet",
			prepareMock: func() {
				repo.EXPECT().GetWallet(gomock.Any(), "owner-1").Return(&domain.Wallet{OwnerID: "owner-1", Balance: decimal.NewFromInt(25)}, nil)
			},
			expectedWallet: &domain.Wallet{OwnerID: "owner-1", Balance: decimal.NewFromInt(25)},
		},
		{
			name: "No wallet yet reads as zero",
			prepareMock: func() {
				repo.EXPECT().GetWallet(gomock.Any(), "owner-1").Return(nil, nil)
			},
			expectedWallet: &domain.Wallet{OwnerID: "owner-1", Balance: decimal.Zero},
		},
		{
			name: "Repository error",
			prepareMock: func() {
				repo.EXPECT().GetWallet(gomock.Any(), "owner-1").Return(nil, errors.New("db error"))
			},
			expectedError: errors.New("db error"),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.prepareMock()
			wallet, err := service.GetBalance(context.Background(), "owner-1")
			if tt.expectedError != nil {
				assert.EqualError(t, err, tt.expectedError.Error())
				return
			}
			assert.NoError(t, err)
			assert.Equal(t, tt.expectedWallet.OwnerID, wallet.OwnerID)
			assert.True(t, tt.expectedWallet.Balance.Equal(wallet.Balance))
		})
	}
}

func TestDeposit(t *testing.T) {
	service, repo, locker := NewMock(t)
	tests := []struct {
		name          string
		amount        decimal.Decimal
		prepareMock   func()
		expectedError error
	}{
		{
			name:   "Credit positive amount",
			amount: decimal.NewFromInt(10),
			prepareMock: func() {
				expectLock(locker, "wallet:owner-1")
				repo.EXPECT().Credit(gomock.Any(), "owner-1", decimal.NewFromInt(10)).Return(&domain.Wallet{OwnerID: "owner-1", Balance: decimal.NewFromInt(10)}, nil)
			},
		},
		{
			name:          "Zero amount",
			amount:        decimal.Zero,
			expectedError: ErrInvalidAmount,
		},
		{
			name:          "Negative amount",
			amount:        decimal.NewFromInt(-3),
			expectedError: ErrInvalidAmount,
		},
		{
			name:   "Lock unavailable",
			amount: decimal.NewFromInt(10),
			prepareMock: func() {
				locker.EXPECT().Lock(gomock.Any(), "wallet:owner-1").Return(nil, context.DeadlineExceeded)
			},
			expectedError: context.DeadlineExceeded,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.prepareMock != nil {
				tt.prepareMock()
			}
			wallet, err := service.Deposit(context.Background(), "owner-1", tt.amount)
			if tt.expectedError != nil {
				assert.ErrorIs(t, err, tt.expectedError)
				assert.Nil(t, wallet)
				return
			}
			assert.NoError(t, err)
			assert.True(t, wallet.Balance.Equal(tt.amount))
		})
	}
}

func TestDebit(t *testing.T) {
	service, repo, locker := NewMock(t)
	tests := []struct {
		name          string
		amount        decimal.Decimal
		prepareMock   func()
		expectedError error
	}{
		{
			name:   "Enough balance",
			amount: decimal.NewFromInt(15),
			prepareMock: func() {
				expectLock(locker, "wallet:owner-1")
				repo.EXPECT().Debit(gomock.Any(), "owner-1", decimal.NewFromInt(15)).Return(&domain.Wallet{OwnerID: "owner-1", Balance: decimal.NewFromInt(5)}, nil)
			},
		},
		{
			name:   "Balance too low",
			amount: decimal.NewFromInt(15),
			prepareMock: func() {
				expectLock(locker, "wallet:owner-1")
				repo.EXPECT().Debit(gomock.Any(), "owner-1", decimal.NewFromInt(15)).Return(nil, nil)
			},
			expectedError: ErrInsufficientFunds,
		},
		{
			name:          "Zero amount",
			amount:        decimal.Zero,
			expectedError: ErrInvalidAmount,
		},
		{
			name:   "Repository error",
			amount: decimal.NewFromInt(1),
			prepareMock: func() {
				expectLock(locker, "wallet:owner-1")
				repo.EXPECT().Debit(gomock.Any(), "owner-1", decimal.NewFromInt(1)).Return(nil, assert.AnError)
			},
			expectedError: assert.AnError,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.prepareMock != nil {
				tt.prepareMock()
			}
			wallet, err := service.Debit(context.Background(), "owner-1", tt.amount)
			if tt.expectedError != nil {
				assert.ErrorIs(t, err, tt.expectedError)
				assert.Nil(t, wallet)
				return
			}
			assert.NoError(t, err)
			assert.True(t, wallet.Balance.Equal(decimal.NewFromInt(5)))
		})
	}
}
