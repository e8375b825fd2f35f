package requestrepo

import (
	"context"
	"errors"
	"strconv"
	"strings"

	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"github.com/GlebRadaev/rafflehub/internal/domain"
	"github.com/GlebRadaev/rafflehub/internal/pg"
)

const requestColumns = `id, raffle_id, owner_id, quantity, proof, reference, note, status, numbers, record_id, resolved_by, created_at, resolved_at`

type Repository struct {
	db pg.Database
}

func New(db pg.Database) *Repository {
	return &Repository{db: db}
}

func scanRequest(row pgx.Row) (*domain.ManualRequest, error) {
	var req domain.ManualRequest
	err := row.Scan(
		&req.ID, &req.RaffleID, &req.OwnerID, &req.Quantity, &req.Proof, &req.Reference, &req.Note,
		&req.Status, &req.Numbers, &req.RecordID, &req.ResolvedBy, &req.CreatedAt, &req.ResolvedAt,
	)
	if err != nil {
		return nil, err
	}
	return &req, nil
}

func (r *Repository) collect(ctx context.Context, query string, args ...any) ([]domain.ManualRequest, error) {
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		zap.L().Error("can't query manual requests", zap.Error(err))
		return nil, err
	}
	defer rows.Close()

	var requests []domain.ManualRequest
	for rows.Next() {
		req, err := scanRequest(rows)
		if err != nil {
			zap.L().Error("can't scan manual request row", zap.Error(err))
			return nil, err
		}
		requests = append(requests, *req)
	}
	return requests, rows.Err()
}

func (r *Repository) Create(ctx context.Context, req *domain.ManualRequest) error {
	query := `
        INSERT INTO manual_requests (id, raffle_id, owner_id, quantity, proof, reference, note, status, created_at)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
    `
	_, err := r.db.Exec(ctx, query,
		req.ID, req.RaffleID, req.OwnerID, req.Quantity, req.Proof, req.Reference, req.Note, req.Status, req.CreatedAt,
	)
	if err != nil {
		zap.L().Error("can't create manual request", zap.String("raffle_id", req.RaffleID), zap.Error(err))
		return err
	}
	return nil
}

func (r *Repository) FindByID(ctx context.Context, id string) (*domain.ManualRequest, error) {
	query := `
        SELECT ` + requestColumns + `
        FROM manual_requests
        WHERE id = $1
    `
	req, err := scanRequest(r.db.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		zap.L().Error("can't find manual request", zap.String("request_id", id), zap.Error(err))
		return nil, err
	}
	return req, nil
}

func (r *Repository) FindByRaffle(ctx context.Context, raffleID string) ([]domain.ManualRequest, error) {
	query := `
        SELECT ` + requestColumns + `
        FROM manual_requests
        WHERE raffle_id = $1
        ORDER BY created_at ASC
    `
	return r.collect(ctx, query, raffleID)
}

func (r *Repository) Find(ctx context.Context, filter domain.TicketFilter) ([]domain.ManualRequest, error) {
	var (
		conds []string
		args  []any
	)
	add := func(cond string, arg any) {
		args = append(args, arg)
		conds = append(conds, strings.ReplaceAll(cond, "?", "$"+strconv.Itoa(len(args))))
	}
	if filter.RaffleID != "" {
		add("raffle_id = ?", filter.RaffleID)
	}
	if filter.OwnerID != "" {
		add("owner_id = ?", filter.OwnerID)
	}
	if filter.Status != "" {
		add("status = ?", filter.Status)
	}
	if filter.From != nil {
		add("created_at >= ?", *filter.From)
	}
	if filter.To != nil {
		add("created_at <= ?", *filter.To)
	}

	query := `SELECT ` + requestColumns + ` FROM manual_requests`
	if len(conds) > 0 {
		query += ` WHERE ` + strings.Join(conds, " AND ")
	}
	query += ` ORDER BY created_at ASC`

	return r.collect(ctx, query, args...)
}

// Resolve moves a pending request to its final state. It reports false when
// the request had already left pending.
func (r *Repository) Resolve(ctx context.Context, req *domain.ManualRequest) (bool, error) {
	query := `
        UPDATE manual_requests
        SET status = $1, numbers = $2, record_id = $3, resolved_by = $4, resolved_at = $5
        WHERE id = $6 AND status = 'pending'
    `
	numbers := req.Numbers
	if numbers == nil {
		numbers = []int{}
	}
	tag, err := r.db.Exec(ctx, query, req.Status, numbers, req.RecordID, req.ResolvedBy, req.ResolvedAt, req.ID)
	if err != nil {
		zap.L().Error("can't resolve manual request", zap.String("request_id", req.ID), zap.Error(err))
		return false, err
	}
	return tag.RowsAffected() == 1, nil
}

func (r *Repository) DeleteByRaffle(ctx context.Context, raffleID string) error {
	query := `
        DELETE FROM manual_requests
        WHERE raffle_id = $1
    `
	_, err := r.db.Exec(ctx, query, raffleID)
	if err != nil {
		zap.L().Error("can't delete manual requests", zap.String("raffle_id", raffleID), zap.Error(err))
		return err
	}
	return nil
}
