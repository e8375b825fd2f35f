package requestrepo

import (
	"context"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"

	"github.com/GlebRadaev/rafflehub/internal/domain"
)

var (
	now         = time.Date(2024, 10, 20, 12, 0, 0, 0, time.UTC)
	columnNames = []string{"id", "raffle_id", "owner_id", "quantity", "proof", "reference", "note", "status", "numbers", "record_id", "resolved_by", "created_at", "resolved_at"}
)

func NewMock(t *testing.T) (*Repository, pgxmock.PgxPoolIface) {
	mockDB, err := pgxmock.NewPool()
	assert.NoError(t, err)
	t.Cleanup(mockDB.Close)
	return New(mockDB), mockDB
}

func testRequest() *domain.ManualRequest {
	return &domain.ManualRequest{
		ID:        "req-1",
		RaffleID:  "r-1",
		OwnerID:   "owner-1",
		Quantity:  2,
		Proof:     "https://cdn.local/proof.png",
		Reference: "PM-0042",
		Note:      "pago movil",
		Status:    domain.RequestPending,
		Numbers:   []int{},
		CreatedAt: now,
	}
}

func requestRows(reqs ...*domain.ManualRequest) *pgxmock.Rows {
	rows := pgxmock.NewRows(columnNames)
	for _, r := range reqs {
		rows.AddRow(r.ID, r.RaffleID, r.OwnerID, r.Quantity, r.Proof, r.Reference, r.Note, r.Status, r.Numbers, r.RecordID, r.ResolvedBy, r.CreatedAt, r.ResolvedAt)
	}
	return rows
}

func TestRepository_Create(t *testing.T) {
	repo, mock := NewMock(t)
	req := testRequest()

	mock.ExpectExec(regexp.QuoteMeta(`INSERT INTO manual_requests (id, raffle_id, owner_id, quantity, proof, reference, note, status, created_at)`)).
		WithArgs(req.ID, req.RaffleID, req.OwnerID, req.Quantity, req.Proof, req.Reference, req.Note, req.Status, req.CreatedAt).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))

	assert.NoError(t, repo.Create(context.Background(), req))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRepository_FindByID(t *testing.T) {
	repo, mock := NewMock(t)
	req := testRequest()
	query := regexp.QuoteMeta(`SELECT ` + requestColumns + ` FROM manual_requests WHERE id = $1`)

	tests := []struct {
		name      string
		mockSetup func()
		expectErr bool
		result    *domain.ManualRequest
	}{
		{
			name: "Existing request",
			mockSetup: func() {
				mock.ExpectQuery(query).WithArgs(req.ID).WillReturnRows(requestRows(req))
			},
			result: req,
		},
		{
			name: "Unknown request",
			mockSetup: func() {
				mock.ExpectQuery(query).WithArgs(req.ID).WillReturnError(pgx.ErrNoRows)
			},
		},
		{
			name: "Database error",
			mockSetup: func() {
				mock.ExpectQuery(query).WithArgs(req.ID).WillReturnError(errors.New("database error"))
			},
			expectErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.mockSetup()
			result, err := repo.FindByID(context.Background(), req.ID)
			if tt.expectErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
			assert.Equal(t, tt.result, result)
		})
	}
}

func TestRepository_FindByRaffle(t *testing.T) {
	repo, mock := NewMock(t)
	pending := testRequest()
	approved := testRequest()
	approved.ID = "req-2"
	approved.Status = domain.RequestApproved
	approved.Numbers = []int{8, 9}

	mock.ExpectQuery(regexp.QuoteMeta(`FROM manual_requests WHERE raffle_id = $1 ORDER BY created_at ASC`)).
		WithArgs("r-1").
		WillReturnRows(requestRows(pending, approved))

	result, err := repo.FindByRaffle(context.Background(), "r-1")

	assert.NoError(t, err)
	assert.Equal(t, []domain.ManualRequest{*pending, *approved}, result)
}

func TestRepository_Find(t *testing.T) {
	repo, mock := NewMock(t)
	req := testRequest()

	mock.ExpectQuery(regexp.QuoteMeta(`FROM manual_requests WHERE owner_id = $1 AND status = $2 ORDER BY created_at ASC`)).
		WithArgs("owner-1", "pending").
		WillReturnRows(requestRows(req))

	result, err := repo.Find(context.Background(), domain.TicketFilter{OwnerID: "owner-1", Status: "pending"})

	assert.NoError(t, err)
	assert.Equal(t, []domain.ManualRequest{*req}, result)
}

func TestRepository_Resolve(t *testing.T) {
	repo, mock := NewMock(t)
	query := regexp.QuoteMeta(`UPDATE manual_requests SET status = $1, numbers = $2, record_id = $3, resolved_by = $4, resolved_at = $5 WHERE id = $6 AND status = 'pending'`)
	recordID := "rec-1"
	admin := "admin-1"
	resolvedAt := now.Add(time.Minute)

	approved := testRequest()
	approved.Status = domain.RequestApproved
	approved.Numbers = []int{4, 11}
	approved.RecordID = &recordID
	approved.ResolvedBy = &admin
	approved.ResolvedAt = &resolvedAt

	rejected := testRequest()
	rejected.Status = domain.RequestRejected
	rejected.Numbers = nil
	rejected.ResolvedBy = &admin
	rejected.ResolvedAt = &resolvedAt

	tests := []struct {
		name      string
		req       *domain.ManualRequest
		mockSetup func()
		resolved  bool
		expectErr bool
	}{
		{
			name: "Approve pending request",
			req:  approved,
			mockSetup: func() {
				mock.ExpectExec(query).
					WithArgs(domain.RequestApproved, []int{4, 11}, &recordID, &admin, &resolvedAt, approved.ID).
					WillReturnResult(pgxmock.NewResult("UPDATE", 1))
			},
			resolved: true,
		},
		{
			name: "Reject stores empty numbers",
			req:  rejected,
			mockSetup: func() {
				mock.ExpectExec(query).
					WithArgs(domain.RequestRejected, []int{}, (*string)(nil), &admin, &resolvedAt, rejected.ID).
					WillReturnResult(pgxmock.NewResult("UPDATE", 1))
			},
			resolved: true,
		},
		{
			name: "Already processed",
			req:  approved,
			mockSetup: func() {
				mock.ExpectExec(query).
					WithArgs(domain.RequestApproved, []int{4, 11}, &recordID, &admin, &resolvedAt, approved.ID).
					WillReturnResult(pgxmock.NewResult("UPDATE", 0))
			},
		},
		{
			name: "Database error",
			req:  approved,
			mockSetup: func() {
				mock.ExpectExec(query).
					WithArgs(domain.RequestApproved, []int{4, 11}, &recordID, &admin, &resolvedAt, approved.ID).
					WillReturnError(errors.New("database error"))
			},
			expectErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.mockSetup()
			resolved, err := repo.Resolve(context.Background(), tt.req)
			if tt.expectErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
			assert.Equal(t, tt.resolved, resolved)
		})
	}
}

func TestRepository_DeleteByRaffle(t *testing.T) {
	repo, mock := NewMock(t)

	mock.ExpectExec(regexp.QuoteMeta(`DELETE FROM manual_requests WHERE raffle_id = $1`)).
		WithArgs("r-1").
		WillReturnResult(pgxmock.NewResult("DELETE", 2))

	assert.NoError(t, repo.DeleteByRaffle(context.Background(), "r-1"))
	assert.NoError(t, mock.ExpectationsWereMet())
}
