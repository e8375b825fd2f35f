package repo

import (
	"testing"

	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	gomock "go.uber.org/mock/gomock"

	"github.com/GlebRadaev/rafflehub/internal/pg"
	activityrepo "github.com/GlebRadaev/rafflehub/internal/repo/activity-repo"
	memrepo "github.com/GlebRadaev/rafflehub/internal/repo/mem-repo"
	ownerrepo "github.com/GlebRadaev/rafflehub/internal/repo/owner-repo"
	rafflerepo "github.com/GlebRadaev/rafflehub/internal/repo/raffle-repo"
	recordrepo "github.com/GlebRadaev/rafflehub/internal/repo/record-repo"
	requestrepo "github.com/GlebRadaev/rafflehub/internal/repo/request-repo"
	walletrepo "github.com/GlebRadaev/rafflehub/internal/repo/wallet-repo"
)

func NewMock(t *testing.T) (*Repositories, pgxmock.PgxPoolIface) {
	ctrl := gomock.NewController(t)
	mockDB, err := pgxmock.NewPool()
	assert.NoError(t, err)
	t.Cleanup(mockDB.Close)
	mockTxManager := pg.NewMockTXManager(ctrl)
	return New(mockDB, mockTxManager), mockDB
}

func TestNew(t *testing.T) {
	repo, mock := NewMock(t)

	assert.IsType(t, &rafflerepo.Repository{}, repo.Raffles)
	assert.IsType(t, &recordrepo.Repository{}, repo.Records)
	assert.IsType(t, &requestrepo.Repository{}, repo.Requests)
	assert.IsType(t, &walletrepo.Repository{}, repo.Wallets)
	assert.IsType(t, &ownerrepo.Repository{}, repo.Owners)
	assert.IsType(t, &activityrepo.Repository{}, repo.Activity)
	assert.NotNil(t, repo.TXManager)

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("there were unmet expectations: %v", err)
	}
}

func TestNewMemory(t *testing.T) {
	repo := NewMemory(memrepo.New())

	assert.IsType(t, &memrepo.RaffleRepo{}, repo.Raffles)
	assert.IsType(t, &memrepo.RecordRepo{}, repo.Records)
	assert.IsType(t, &memrepo.RequestRepo{}, repo.Requests)
	assert.IsType(t, &memrepo.WalletRepo{}, repo.Wallets)
	assert.IsType(t, &memrepo.OwnerRepo{}, repo.Owners)
	assert.IsType(t, &memrepo.ActivityRepo{}, repo.Activity)
	assert.NotNil(t, repo.TXManager)
}
