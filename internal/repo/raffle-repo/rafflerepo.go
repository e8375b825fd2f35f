package rafflerepo

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"github.com/GlebRadaev/rafflehub/internal/domain"
	"github.com/GlebRadaev/rafflehub/internal/pg"
)

const raffleColumns = `id, title, description, price, total_tickets, status, winning_number, winner_id, next_ticket, owner_id, start_date, end_date, created_at, updated_at`

type Repository struct {
	db pg.Database
}

func New(db pg.Database) *Repository {
	return &Repository{db: db}
}

func scanRaffle(row pgx.Row) (*domain.Raffle, error) {
	var r domain.Raffle
	err := row.Scan(
		&r.ID, &r.Title, &r.Description, &r.Price, &r.TotalTickets, &r.Status,
		&r.WinningNumber, &r.WinnerID, &r.NextTicket, &r.OwnerID,
		&r.StartDate, &r.EndDate, &r.CreatedAt, &r.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &r, nil
}

func (r *Repository) Create(ctx context.Context, raffle *domain.Raffle) error {
	query := `
        INSERT INTO raffles (` + raffleColumns + `)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)
    `
	_, err := r.db.Exec(ctx, query,
		raffle.ID, raffle.Title, raffle.Description, raffle.Price, raffle.TotalTickets, raffle.Status,
		raffle.WinningNumber, raffle.WinnerID, raffle.NextTicket, raffle.OwnerID,
		raffle.StartDate, raffle.EndDate, raffle.CreatedAt, raffle.UpdatedAt,
	)
	if err != nil {
		zap.L().Error("can't create raffle", zap.Error(err))
		return err
	}
	return nil
}

func (r *Repository) FindByID(ctx context.Context, id string) (*domain.Raffle, error) {
	query := `
        SELECT ` + raffleColumns + `
        FROM raffles
        WHERE id = $1
    `
	raffle, err := scanRaffle(r.db.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		zap.L().Error("can't find raffle", zap.String("raffle_id", id), zap.Error(err))
		return nil, err
	}
	return raffle, nil
}

func (r *Repository) List(ctx context.Context) ([]domain.Raffle, error) {
	query := `
        SELECT ` + raffleColumns + `
        FROM raffles
        ORDER BY created_at DESC
    `
	rows, err := r.db.Query(ctx, query)
	if err != nil {
		zap.L().Error("can't list raffles", zap.Error(err))
		return nil, err
	}
	defer rows.Close()

	var raffles []domain.Raffle
	for rows.Next() {
		raffle, err := scanRaffle(rows)
		if err != nil {
			zap.L().Error("can't scan raffle row", zap.Error(err))
			return nil, err
		}
		raffles = append(raffles, *raffle)
	}
	return raffles, rows.Err()
}

// Update persists the editable attributes and status. Closing goes through Close.
func (r *Repository) Update(ctx context.Context, raffle *domain.Raffle) error {
	query := `
        UPDATE raffles
        SET title = $1, description = $2, price = $3, total_tickets = $4, status = $5, start_date = $6, end_date = $7, updated_at = $8
        WHERE id = $9
    `
	_, err := r.db.Exec(ctx, query,
		raffle.Title, raffle.Description, raffle.Price, raffle.TotalTickets, raffle.Status,
		raffle.StartDate, raffle.EndDate, raffle.UpdatedAt, raffle.ID,
	)
	if err != nil {
		zap.L().Error("can't update raffle", zap.String("raffle_id", raffle.ID), zap.Error(err))
		return err
	}
	return nil
}

func (r *Repository) SetNextTicket(ctx context.Context, id string, next int) error {
	query := `
        UPDATE raffles
        SET next_ticket = $1
        WHERE id = $2
    `
	_, err := r.db.Exec(ctx, query, next, id)
	if err != nil {
		zap.L().Error("can't set next ticket", zap.String("raffle_id", id), zap.Error(err))
		return err
	}
	return nil
}

// Close reports false when the raffle was no longer active.
func (r *Repository) Close(ctx context.Context, raffle *domain.Raffle) (bool, error) {
	query := `
        UPDATE raffles
        SET status = 'closed', winning_number = $1, winner_id = $2, updated_at = $3
        WHERE id = $4 AND status = 'active'
    `
	tag, err := r.db.Exec(ctx, query, raffle.WinningNumber, raffle.WinnerID, raffle.UpdatedAt, raffle.ID)
	if err != nil {
		zap.L().Error("can't close raffle", zap.String("raffle_id", raffle.ID), zap.Error(err))
		return false, err
	}
	return tag.RowsAffected() == 1, nil
}

func (r *Repository) Delete(ctx context.Context, id string) error {
	query := `
        DELETE FROM raffles
        WHERE id = $1
    `
	_, err := r.db.Exec(ctx, query, id)
	if err != nil {
		zap.L().Error("can't delete raffle", zap.String("raffle_id", id), zap.Error(err))
		return err
	}
	return nil
}
