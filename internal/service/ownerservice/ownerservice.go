package ownerservice

import (
	"context"
	"errors"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/GlebRadaev/rafflehub/internal/domain"
)

type Repo interface {
	FindByID(ctx context.Context, id string) (*domain.Owner, error)
	Upsert(ctx context.Context, owner *domain.Owner) error
}

type Hasher interface {
	Hash(secret string) (string, error)
}

type Service struct {
	repo   Repo
	hasher Hasher
}

func New(repo Repo, hasher Hasher) *Service {
	return &Service{
		repo:   repo,
		hasher: hasher,
	}
}

var ErrInvalidProfile = errors.New("first and last name are required")

type ProfileInput struct {
	FirstName      string `json:"first_name"`
	LastName       string `json:"last_name"`
	Email          string `json:"email"`
	Phone          string `json:"phone"`
	Cedula         string `json:"cedula"`
	Address        string `json:"address"`
	SecurityCode   string `json:"security_code,omitempty"`
	TelegramChatID int64  `json:"telegram_chat_id,omitempty"`
}

// GetProfile returns an empty profile for owners never seen before.
func (s *Service) GetProfile(ctx context.Context, ownerID string) (*domain.Owner, error) {
	owner, err := s.repo.FindByID(ctx, ownerID)
	if err != nil {
		zap.L().Error("failed to get owner", zap.String("owner_id", ownerID), zap.Error(err))
		return nil, err
	}
	if owner == nil {
		return &domain.Owner{ID: ownerID}, nil
	}
	return owner, nil
}

// UpsertProfile stores the local projection of an owner. Records keep the
// buyer snapshot taken at settlement, so edits here never touch receipts.
// An empty security code keeps the stored hash.
func (s *Service) UpsertProfile(ctx context.Context, ownerID string, in ProfileInput) (*domain.Owner, error) {
	if strings.TrimSpace(in.FirstName) == "" || strings.TrimSpace(in.LastName) == "" {
		return nil, ErrInvalidProfile
	}
	current, err := s.GetProfile(ctx, ownerID)
	if err != nil {
		return nil, err
	}

	owner := &domain.Owner{
		ID:               ownerID,
		FirstName:        strings.TrimSpace(in.FirstName),
		LastName:         strings.TrimSpace(in.LastName),
		Email:            strings.TrimSpace(in.Email),
		Phone:            strings.TrimSpace(in.Phone),
		Cedula:           strings.TrimSpace(in.Cedula),
		Address:          strings.TrimSpace(in.Address),
		SecurityCodeHash: current.SecurityCodeHash,
		TelegramChatID:   in.TelegramChatID,
		UpdatedAt:        time.Now().UTC(),
	}
	if in.SecurityCode != "" {
		hash, err := s.hasher.Hash(in.SecurityCode)
		if err != nil {
			zap.L().Error("failed to hash security code", zap.Error(err))
			return nil, err
		}
		owner.SecurityCodeHash = hash
	}

	if err := s.repo.Upsert(ctx, owner); err != nil {
		zap.L().Error("failed to upsert owner", zap.String("owner_id", ownerID), zap.Error(err))
		return nil, err
	}
	return owner, nil
}
