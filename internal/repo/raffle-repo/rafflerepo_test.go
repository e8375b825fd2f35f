package rafflerepo

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

func NewMock(t *testing.T) (*Repository, pgxmock.PgxPoolIface) {
	mockDB, err := pgxmock.NewPool()
	assert.NoError(t, err)
	t.Cleanup(mockDB.Close)
	return New(mockDB), mockDB
}

var (
	now         = time.Date(2024, 10, 20, 12, 0, 0, 0, time.UTC)
	columnNames = []string{"id", "title", "description", "price", "total_tickets", "status", "winning_number", "winner_id", "next_ticket", "owner_id", "start_date", "end_date", "created_at", "updated_at"}
)

func testRaffle() *domain.Raffle {
	return &domain.Raffle{
		ID:           "7f1c2a52-8a43-4d0c-9a1c-0c7e4f4a2b10",
		Title:        "Moto 2024",
		Description:  "Yamaha",
		Price:        decimal.RequireFromString("2.50"),
		TotalTickets: 100,
		Status:       domain.RaffleActive,
		NextTicket:   1,
		OwnerID:      "owner-1",
		CreatedAt:    now,
		UpdatedAt:    now,
	}
}

func raffleRow(r *domain.Raffle) *pgxmock.Rows {
	return pgxmock.NewRows(columnNames).AddRow(
		r.ID, r.Title, r.Description, r.Price, r.TotalTickets, r.Status,
		r.WinningNumber, r.WinnerID, r.NextTicket, r.OwnerID,
		r.StartDate, r.EndDate, r.CreatedAt, r.UpdatedAt,
	)
}

func TestRepository_Create(t *testing.T) {
	repo, mock := NewMock(t)
	raffle := testRaffle()

	tests := []struct {
		name      string
		mockSetup func()
		expectErr bool
	}{
		{
			name: "Successfully creates raffle",
			mockSetup: func() {
				mock.ExpectExec(regexp.QuoteMeta(`INSERT INTO raffles (` + raffleColumns + `)`)).
					WithArgs(raffle.ID, raffle.Title, raffle.Description, raffle.Price, raffle.TotalTickets, raffle.Status,
						raffle.WinningNumber, raffle.WinnerID, raffle.NextTicket, raffle.OwnerID,
						raffle.StartDate, raffle.EndDate, raffle.CreatedAt, raffle.UpdatedAt).
					WillReturnResult(pgxmock.NewResult("INSERT", 1))
			},
		},
		{
			name: "Database error",
			mockSetup: func() {
				mock.ExpectExec(regexp.QuoteMeta(`INSERT INTO raffles`)).
					WithArgs(raffle.ID, raffle.Title, raffle.Description, raffle.Price, raffle.TotalTickets, raffle.Status,
						raffle.WinningNumber, raffle.WinnerID, raffle.NextTicket, raffle.OwnerID,
						raffle.StartDate, raffle.EndDate, raffle.CreatedAt, raffle.UpdatedAt).
					WillReturnError(errors.New("database error"))
			},
			expectErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.mockSetup()
			err := repo.Create(context.Background(), raffle)
			if tt.expectErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestRepository_FindByID(t *testing.T) {
	repo, mock := NewMock(t)
	raffle := testRaffle()
	query := regexp.QuoteMeta(`SELECT ` + raffleColumns + ` FROM raffles WHERE id = $1`)

	tests := []struct {
		name      string
		mockSetup func()
		expectErr bool
		result    *domain.Raffle
	}{
		{
			name: "Existing raffle",
			mockSetup: func() {
				mock.ExpectQuery(query).WithArgs(raffle.ID).WillReturnRows(raffleRow(raffle))
			},
			result: raffle,
		},
		{
			name: "Unknown raffle returns nil",
			mockSetup: func() {
				mock.ExpectQuery(query).WithArgs(raffle.ID).WillReturnError(pgx.ErrNoRows)
			},
		},
		{
			name: "Database error",
			mockSetup: func() {
				mock.ExpectQuery(query).WithArgs(raffle.ID).WillReturnError(errors.New("database error"))
			},
			expectErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.mockSetup()
			result, err := repo.FindByID(context.Background(), raffle.ID)

			if tt.expectErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
			assert.Equal(t, tt.result, result)
		})
	}
}

func TestRepository_List(t *testing.T) {
	repo, mock := NewMock(t)
	first := testRaffle()
	second := testRaffle()
	second.ID = "1b7a0e8e-9a52-4bd2-8b7d-7f0f1d3c6c21"
	number := 7
	winner := "owner-9"
	second.Status = domain.RaffleClosed
	second.WinningNumber = &number
	second.WinnerID = &winner

	rows := pgxmock.NewRows(columnNames).
		AddRow(first.ID, first.Title, first.Description, first.Price, first.TotalTickets, first.Status,
			first.WinningNumber, first.WinnerID, first.NextTicket, first.OwnerID,
			first.StartDate, first.EndDate, first.CreatedAt, first.UpdatedAt).
		AddRow(second.ID, second.Title, second.Description, second.Price, second.TotalTickets, second.Status,
			second.WinningNumber, second.WinnerID, second.NextTicket, second.OwnerID,
			second.StartDate, second.EndDate, second.CreatedAt, second.UpdatedAt)
	mock.ExpectQuery(regexp.QuoteMeta(`FROM raffles ORDER BY created_at DESC`)).WillReturnRows(rows)

	result, err := repo.List(context.Background())

	assert.NoError(t, err)
	assert.Equal(t, []domain.Raffle{*first, *second}, result)
}

func TestRepository_Update(t *testing.T) {
	repo, mock := NewMock(t)
	raffle := testRaffle()
	raffle.Status = domain.RafflePaused

	mock.ExpectExec(regexp.QuoteMeta(`UPDATE raffles SET title = $1, description = $2, price = $3, total_tickets = $4, status = $5, start_date = $6, end_date = $7, updated_at = $8 WHERE id = $9`)).
		WithArgs(raffle.Title, raffle.Description, raffle.Price, raffle.TotalTickets, raffle.Status,
			raffle.StartDate, raffle.EndDate, raffle.UpdatedAt, raffle.ID).
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))

	assert.NoError(t, repo.Update(context.Background(), raffle))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRepository_SetNextTicket(t *testing.T) {
	repo, mock := NewMock(t)

	mock.ExpectExec(regexp.QuoteMeta(`UPDATE raffles SET next_ticket = $1 WHERE id = $2`)).
		WithArgs(11, "r-1").
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))

	assert.NoError(t, repo.SetNextTicket(context.Background(), "r-1", 11))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRepository_Close(t *testing.T) {
	repo, mock := NewMock(t)
	raffle := testRaffle()
	number := 42
	winner := "owner-2"
	raffle.WinningNumber = &number
	raffle.WinnerID = &winner
	query := regexp.QuoteMeta(`UPDATE raffles SET status = 'closed', winning_number = $1, winner_id = $2, updated_at = $3 WHERE id = $4 AND status = 'active'`)

	tests := []struct {
		name      string
		mockSetup func()
		closed    bool
		expectErr bool
	}{
		{
			name: "Active raffle is closed",
			mockSetup: func() {
				mock.ExpectExec(query).WithArgs(raffle.WinningNumber, raffle.WinnerID, raffle.UpdatedAt, raffle.ID).
					WillReturnResult(pgxmock.NewResult("UPDATE", 1))
			},
			closed: true,
		},
		{
			name: "Raffle no longer active",
			mockSetup: func() {
				mock.ExpectExec(query).WithArgs(raffle.WinningNumber, raffle.WinnerID, raffle.UpdatedAt, raffle.ID).
					WillReturnResult(pgxmock.NewResult("UPDATE", 0))
			},
		},
		{
			name: "Database error",
			mockSetup: func() {
				mock.ExpectExec(query).WithArgs(raffle.WinningNumber, raffle.WinnerID, raffle.UpdatedAt, raffle.ID).
					WillReturnError(errors.New("database error"))
			},
			expectErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.mockSetup()
			closed, err := repo.Close(context.Background(), raffle)
			if tt.expectErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
			assert.Equal(t, tt.closed, closed)
		})
	}
}

func TestRepository_Delete(t *testing.T) {
	repo, mock := NewMock(t)

	mock.ExpectExec(regexp.QuoteMeta(`DELETE FROM raffles WHERE id = $1`)).
		WithArgs("r-1").
		WillReturnResult(pgxmock.NewResult("DELETE", 1))

	assert.NoError(t, repo.Delete(context.Background(), "r-1"))
	assert.NoError(t, mock.ExpectationsWereMet())
}
