package ownerrepo

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"github.com/GlebRadaev/rafflehub/internal/domain"
	"github.com/GlebRadaev/rafflehub/internal/pg"
)

const ownerColumns = `id, first_name, last_name, email, phone, cedula, address, security_code_hash, telegram_chat_id, updated_at`

type Repository struct {
	db pg.Database
}

func New(db pg.Database) *Repository {
	return &Repository{db: db}
}

func (r *Repository) FindByID(ctx context.Context, id string) (*domain.Owner, error) {
	query := `
        SELECT ` + ownerColumns + `
        FROM owners
        WHERE id = $1
    `
	var o domain.Owner
	err := r.db.QueryRow(ctx, query, id).Scan(
		&o.ID, &o.FirstName, &o.LastName, &o.Email, &o.Phone, &o.Cedula, &o.Address,
		&o.SecurityCodeHash, &o.TelegramChatID, &o.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		zap.L().Error("can't find owner", zap.String("owner_id", id), zap.Error(err))
		return nil, err
	}
	return &o, nil
}

func (r *Repository) Upsert(ctx context.Context, o *domain.Owner) error {
	query := `
        INSERT INTO owners (` + ownerColumns + `)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
        ON CONFLICT (id) DO UPDATE
        SET first_name = EXCLUDED.first_name, last_name = EXCLUDED.last_name, email = EXCLUDED.email,
            phone = EXCLUDED.phone, cedula = EXCLUDED.cedula, address = EXCLUDED.address,
            security_code_hash = EXCLUDED.security_code_hash, telegram_chat_id = EXCLUDED.telegram_chat_id,
            updated_at = EXCLUDED.updated_at
    `
	_, err := r.db.Exec(ctx, query,
		o.ID, o.FirstName, o.LastName, o.Email, o.Phone, o.Cedula, o.Address,
		o.SecurityCodeHash, o.TelegramChatID, o.UpdatedAt,
	)
	if err != nil {
		zap.L().Error("can't upsert owner", zap.String("owner_id", o.ID), zap.Error(err))
		return err
	}
	return nil
}
