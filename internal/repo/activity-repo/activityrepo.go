package activityrepo

import (
	"context"

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

func (r *Repository) Add(ctx context.Context, a *domain.Activity) error {
	query := `
        INSERT INTO activity (id, action, actor_id, raffle_id, meta, created_at)
        VALUES ($1, $2, $3, $4, $5, $6)
    `
	meta := a.Meta
	if meta == nil {
		meta = map[string]any{}
	}
	_, err := r.db.Exec(ctx, query, a.ID, a.Action, a.ActorID, a.RaffleID, meta, a.CreatedAt)
	if err != nil {
		zap.L().Error("can't add activity", zap.String("action", a.Action), zap.Error(err))
		return err
	}
	return nil
}

// List returns the latest entries first; an empty raffleID lists everything.
func (r *Repository) List(ctx context.Context, raffleID string, limit int) ([]domain.Activity, error) {
	query := `
        SELECT id, action, actor_id, raffle_id, meta, created_at
        FROM activity
        WHERE $1 = '' OR raffle_id = $1
        ORDER BY created_at DESC
        LIMIT $2
    `
	rows, err := r.db.Query(ctx, query, raffleID, limit)
	if err != nil {
		zap.L().Error("can't list activity", zap.Error(err))
		return nil, err
	}
	defer rows.Close()

	var entries []domain.Activity
	for rows.Next() {
		var a domain.Activity
		if err := rows.Scan(&a.ID, &a.Action, &a.ActorID, &a.RaffleID, &a.Meta, &a.CreatedAt); err != nil {
			zap.L().Error("can't scan activity row", zap.Error(err))
			return nil, err
		}
		entries = append(entries, a)
	}
	return entries, rows.Err()
}
