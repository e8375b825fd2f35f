package recordrepo

import (
	"context"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/pashagolub/pgxmock/v4"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"github.com/GlebRadaev/rafflehub/internal/domain"
)

var (
	now         = time.Date(2024, 10, 20, 12, 0, 0, 0, time.UTC)
	columnNames = []string{"id", "raffle_id", "owner_id", "numbers", "amount", "channel", "receipt_code", "request_id", "buyer", "created_at"}
)

func NewMock(t *testing.T) (*Repository, pgxmock.PgxPoolIface) {
	mockDB, err := pgxmock.NewPool()
	assert.NoError(t, err)
	t.Cleanup(mockDB.Close)
	return New(mockDB), mockDB
}

func testRecord() *domain.Record {
	return &domain.Record{
		ID:          "c0a8012e-0000-4000-8000-000000000001",
		RaffleID:    "r-1",
		OwnerID:     "owner-1",
		Numbers:     []int{3, 17, 42},
		Amount:      decimal.RequireFromString("7.50"),
		Channel:     domain.ChannelInstant,
		ReceiptCode: "799273987135",
		Buyer:       domain.Buyer{FirstName: "Ana", LastName: "Rojas", Cedula: "V-123"},
		CreatedAt:   now,
	}
}

func recordRows(records ...*domain.Record) *pgxmock.Rows {
	rows := pgxmock.NewRows(columnNames)
	for _, r := range records {
		rows.AddRow(r.ID, r.RaffleID, r.OwnerID, r.Numbers, r.Amount, r.Channel, r.ReceiptCode, r.RequestID, r.Buyer, r.CreatedAt)
	}
	return rows
}

func TestRepository_Create(t *testing.T) {
	repo, mock := NewMock(t)
	rec := testRecord()

	tests := []struct {
		name      string
		mockSetup func()
		expectErr bool
	}{
		{
			name: "Successfully creates record",
			mockSetup: func() {
				mock.ExpectExec(regexp.QuoteMeta(`INSERT INTO records (` + recordColumns + `)`)).
					WithArgs(rec.ID, rec.RaffleID, rec.OwnerID, rec.Numbers, rec.Amount, rec.Channel, rec.ReceiptCode, rec.RequestID, rec.Buyer, rec.CreatedAt).
					WillReturnResult(pgxmock.NewResult("INSERT", 1))
			},
		},
		{
			name: "Unique violation on receipt",
			mockSetup: func() {
				mock.ExpectExec(regexp.QuoteMeta(`INSERT INTO records`)).
					WithArgs(rec.ID, rec.RaffleID, rec.OwnerID, rec.Numbers, rec.Amount, rec.Channel, rec.ReceiptCode, rec.RequestID, rec.Buyer, rec.CreatedAt).
					WillReturnError(errors.New("duplicate key value"))
			},
			expectErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.mockSetup()
			err := repo.Create(context.Background(), rec)
			if tt.expectErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestRepository_FindByRaffle(t *testing.T) {
	repo, mock := NewMock(t)
	first := testRecord()
	second := testRecord()
	second.ID = "c0a8012e-0000-4000-8000-000000000002"
	second.Numbers = []int{5}
	second.Channel = domain.ChannelManual
	requestID := "req-1"
	second.RequestID = &requestID

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT ` + recordColumns + ` FROM records WHERE raffle_id = $1 ORDER BY created_at ASC`)).
		WithArgs("r-1").
		WillReturnRows(recordRows(first, second))

	records, err := repo.FindByRaffle(context.Background(), "r-1")

	assert.NoError(t, err)
	assert.Equal(t, []domain.Record{*first, *second}, records)
}

func TestRepository_FindByRaffleError(t *testing.T) {
	repo, mock := NewMock(t)

	mock.ExpectQuery(regexp.QuoteMeta(`FROM records WHERE raffle_id = $1`)).
		WithArgs("r-1").
		WillReturnError(errors.New("database error"))

	records, err := repo.FindByRaffle(context.Background(), "r-1")

	assert.Error(t, err)
	assert.Nil(t, records)
}

func TestRepository_FindByReceipt(t *testing.T) {
	repo, mock := NewMock(t)
	rec := testRecord()
	query := regexp.QuoteMeta(`FROM records WHERE receipt_code = $1`)

	tests := []struct {
		name      string
		mockSetup func()
		expectErr bool
		result    *domain.Record
	}{
		{
			name: "Known receipt",
			mockSetup: func() {
				mock.ExpectQuery(query).WithArgs(rec.ReceiptCode).WillReturnRows(recordRows(rec))
			},
			result: rec,
		},
		{
			name: "Unknown receipt",
			mockSetup: func() {
				mock.ExpectQuery(query).WithArgs(rec.ReceiptCode).WillReturnError(pgx.ErrNoRows)
			},
		},
		{
			name: "Database error",
			mockSetup: func() {
				mock.ExpectQuery(query).WithArgs(rec.ReceiptCode).WillReturnError(errors.New("database error"))
			},
			expectErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.mockSetup()
			result, err := repo.FindByReceipt(context.Background(), rec.ReceiptCode)
			if tt.expectErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
			assert.Equal(t, tt.result, result)
		})
	}
}

func TestRepository_Find(t *testing.T) {
	repo, mock := NewMock(t)
	rec := testRecord()
	from := now.Add(-time.Hour)
	to := now.Add(time.Hour)

	tests := []struct {
		name   string
		filter domain.TicketFilter
		query  string
		args   []any
	}{
		{
			name:   "No filter",
			filter: domain.TicketFilter{},
			query:  `SELECT ` + recordColumns + ` FROM records ORDER BY created_at DESC`,
		},
		{
			name:   "Raffle and owner",
			filter: domain.TicketFilter{RaffleID: "r-1", OwnerID: "owner-1"},
			query:  `FROM records WHERE raffle_id = $1 AND owner_id = $2 ORDER BY created_at DESC`,
			args:   []any{"r-1", "owner-1"},
		},
		{
			name:   "Date range",
			filter: domain.TicketFilter{From: &from, To: &to, Status: domain.TicketApproved},
			query:  `FROM records WHERE created_at >= $1 AND created_at <= $2 ORDER BY created_at DESC`,
			args:   []any{from, to},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mock.ExpectQuery(regexp.QuoteMeta(tt.query)).
				WithArgs(tt.args...).
				WillReturnRows(recordRows(rec))

			records, err := repo.Find(context.Background(), tt.filter)

			assert.NoError(t, err)
			assert.Equal(t, []domain.Record{*rec}, records)
			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestRepository_DeleteByRaffle(t *testing.T) {
	repo, mock := NewMock(t)

	mock.ExpectExec(regexp.QuoteMeta(`DELETE FROM records WHERE raffle_id = $1`)).
		WithArgs("r-1").
		WillReturnResult(pgxmock.NewResult("DELETE", 3))

	assert.NoError(t, repo.DeleteByRaffle(context.Background(), "r-1"))
	assert.NoError(t, mock.ExpectationsWereMet())
}
