package recordrepo

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

const recordColumns = `id, raffle_id, owner_id, numbers, amount, channel, receipt_code, request_id, buyer, created_at`

type Repository struct {
	db pg.Database
}

func New(db pg.Database) *Repository {
	return &Repository{db: db}
}

func scanRecord(row pgx.Row) (*domain.Record, error) {
	var rec domain.Record
	err := row.Scan(
		&rec.ID, &rec.RaffleID, &rec.OwnerID, &rec.Numbers, &rec.Amount, &rec.Channel,
		&rec.ReceiptCode, &rec.RequestID, &rec.Buyer, &rec.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &rec, nil
}

func (r *Repository) collect(ctx context.Context, query string, args ...any) ([]domain.Record, error) {
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		zap.L().Error("can't query records", zap.Error(err))
		return nil, err
	}
	defer rows.Close()

	var records []domain.Record
	for rows.Next() {
		rec, err := scanRecord(rows)
		if err != nil {
			zap.L().Error("can't scan record row", zap.Error(err))
			return nil, err
		}
		records = append(records, *rec)
	}
	return records, rows.Err()
}

func (r *Repository) Create(ctx context.Context, rec *domain.Record) error {
	query := `
        INSERT INTO records (` + recordColumns + `)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
    `
	_, err := r.db.Exec(ctx, query,
		rec.ID, rec.RaffleID, rec.OwnerID, rec.Numbers, rec.Amount, rec.Channel,
		rec.ReceiptCode, rec.RequestID, rec.Buyer, rec.CreatedAt,
	)
	if err != nil {
		zap.L().Error("can't create record", zap.String("raffle_id", rec.RaffleID), zap.Error(err))
		return err
	}
	return nil
}

func (r *Repository) FindByRaffle(ctx context.Context, raffleID string) ([]domain.Record, error) {
	query := `
        SELECT ` + recordColumns + `
        FROM records
        WHERE raffle_id = $1
        ORDER BY created_at ASC
    `
	return r.collect(ctx, query, raffleID)
}

func (r *Repository) FindByReceipt(ctx context.Context, code string) (*domain.Record, error) {
	query := `
        SELECT ` + recordColumns + `
        FROM records
        WHERE receipt_code = $1
    `
	rec, err := scanRecord(r.db.QueryRow(ctx, query, code))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		zap.L().Error("can't find record by receipt", zap.Error(err))
		return nil, err
	}
	return rec, nil
}

// Find applies the non-empty parts of filter. Status is ignored here.
func (r *Repository) Find(ctx context.Context, filter domain.TicketFilter) ([]domain.Record, error) {
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
	if filter.From != nil {
		add("created_at >= ?", *filter.From)
	}
	if filter.To != nil {
		add("created_at <= ?", *filter.To)
	}

	query := `SELECT ` + recordColumns + ` FROM records`
	if len(conds) > 0 {
		query += ` WHERE ` + strings.Join(conds, " AND ")
	}
	query += ` ORDER BY created_at DESC`

	return r.collect(ctx, query, args...)
}

func (r *Repository) DeleteByRaffle(ctx context.Context, raffleID string) error {
	query := `
        DELETE FROM records
        WHERE raffle_id = $1
    `
	_, err := r.db.Exec(ctx, query, raffleID)
	if err != nil {
		zap.L().Error("can't delete records", zap.String("raffle_id", raffleID), zap.Error(err))
		return err
	}
	return nil
}
