package raffleservice

import (
	"context"
	"fmt"
	"math/rand/v2"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/GlebRadaev/rafflehub/internal/domain"
	"github.com/GlebRadaev/rafflehub/internal/pg"
	"github.com/GlebRadaev/rafflehub/pkg/validate"
)

type RaffleRepo interface {
	Create(ctx context.Context, raffle *domain.Raffle) error
	FindByID(ctx context.Context, id string) (*domain.Raffle, error)
	List(ctx context.Context) ([]domain.Raffle, error)
	Update(ctx context.Context, raffle *domain.Raffle) error
	SetNextTicket(ctx context.Context, id string, next int) error
	Close(ctx context.Context, raffle *domain.Raffle) (bool, error)
	Delete(ctx context.Context, id string) error
}

type RecordRepo interface {
	Create(ctx context.Context, rec *domain.Record) error
	FindByRaffle(ctx context.Context, raffleID string) ([]domain.Record, error)
	DeleteByRaffle(ctx context.Context, raffleID string) error
}

type RequestRepo interface {
	Create(ctx context.Context, req *domain.ManualRequest) error
	FindByID(ctx context.Context, id string) (*domain.ManualRequest, error)
	FindByRaffle(ctx context.Context, raffleID string) ([]domain.ManualRequest, error)
	Find(ctx context.Context, filter domain.TicketFilter) ([]domain.ManualRequest, error)
	Resolve(ctx context.Context, req *domain.ManualRequest) (bool, error)
	DeleteByRaffle(ctx context.Context, raffleID string) error
}

type OwnerRepo interface {
	FindByID(ctx context.Context, id string) (*domain.Owner, error)
}

type ActivityRepo interface {
	Add(ctx context.Context, a *domain.Activity) error
}

type Wallet interface {
	Debit(ctx context.Context, ownerID string, amount decimal.Decimal) (*domain.Wallet, error)
}

type Locker interface {
	Lock(ctx context.Context, key string) (func(), error)
}

type Notifier interface {
	Notify(ctx context.Context, receipt domain.Receipt)
}

type Hasher interface {
	Compare(hashed, secret string) bool
}

type Repos struct {
	Raffles  RaffleRepo
	Records  RecordRepo
	Requests RequestRepo
	Owners   OwnerRepo
	Activity ActivityRepo
}

type Service struct {
	raffles  RaffleRepo
	records  RecordRepo
	requests RequestRepo
	owners   OwnerRepo
	activity ActivityRepo

	wallet     Wallet
	txManager  pg.TXManager
	locker     Locker
	notifier   Notifier
	hasher     Hasher
	maxTickets int

	intn        func(int) int
	now         func() time.Time
	receiptCode func() string
}

func New(repos Repos, wallet Wallet, txManager pg.TXManager, locker Locker, notifier Notifier, hasher Hasher, maxTickets int) *Service {
	return &Service{
		raffles:     repos.Raffles,
		records:     repos.Records,
		requests:    repos.Requests,
		owners:      repos.Owners,
		activity:    repos.Activity,
		wallet:      wallet,
		txManager:   txManager,
		locker:      locker,
		notifier:    notifier,
		hasher:      hasher,
		maxTickets:  maxTickets,
		intn:        rand.IntN,
		now:         func() time.Time { return time.Now().UTC() },
		receiptCode: validate.ReceiptCode,
	}
}

type RaffleInput struct {
	Title        string          `json:"title"`
	Description  string          `json:"description"`
	Price        decimal.Decimal `json:"price"`
	TotalTickets int             `json:"total_tickets"`
	StartDate    *time.Time      `json:"start_date,omitempty"`
	EndDate      *time.Time      `json:"end_date,omitempty"`
	SecurityCode string          `json:"security_code"`
}

// RaffleUpdate carries only the fields being changed.
type RaffleUpdate struct {
	Title        *string              `json:"title,omitempty"`
	Description  *string              `json:"description,omitempty"`
	Price        *decimal.Decimal     `json:"price,omitempty"`
	TotalTickets *int                 `json:"total_tickets,omitempty"`
	Status       *domain.RaffleStatus `json:"status,omitempty"`
	StartDate    *time.Time           `json:"start_date,omitempty"`
	EndDate      *time.Time           `json:"end_date,omitempty"`
}

func raffleKey(id string) string {
	return "raffle:" + id
}

func validID(id string) bool {
	_, err := uuid.Parse(id)
	return err == nil
}

// withRaffleLock serializes index reads and commits for one raffle.
func (s *Service) withRaffleLock(ctx context.Context, raffleID string, fn func() error) error {
	unlock, err := s.locker.Lock(ctx, raffleKey(raffleID))
	if err != nil {
		return fmt.Errorf("can't lock raffle %s: %w", raffleID, err)
	}
	defer unlock()
	return fn()
}

func (s *Service) find(ctx context.Context, id string) (*domain.Raffle, error) {
	if !validID(id) {
		return nil, ErrRaffleNotFound
	}
	raffle, err := s.raffles.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if raffle == nil {
		return nil, ErrRaffleNotFound
	}
	return raffle, nil
}

func (s *Service) log(ctx context.Context, action, actorID, raffleID string, meta map[string]any) error {
	return s.activity.Add(ctx, &domain.Activity{
		ID:        uuid.NewString(),
		Action:    action,
		ActorID:   actorID,
		RaffleID:  raffleID,
		Meta:      meta,
		CreatedAt: s.now(),
	})
}

func checkDates(start, end *time.Time) error {
	if start != nil && end != nil && end.Before(*start) {
		return ErrInvalidDates
	}
	return nil
}

// validPrice accepts positive amounts with at most two decimal places.
func validPrice(p decimal.Decimal) bool {
	return p.IsPositive() && p.Equal(p.Truncate(2))
}

// Security codes are required from admins and organizers only.
func (s *Service) checkSecurityCode(ctx context.Context, actor domain.Actor, code string) error {
	if actor.Role != domain.RoleAdmin && actor.Role != domain.RoleOrganizer {
		return nil
	}
	if code == "" {
		return ErrSecurityCodeRequired
	}
	owner, err := s.owners.FindByID(ctx, actor.ID)
	if err != nil {
		return err
	}
	if owner == nil || !s.hasher.Compare(owner.SecurityCodeHash, code) {
		return ErrInvalidSecurityCode
	}
	return nil
}

func (s *Service) Create(ctx context.Context, actor domain.Actor, in RaffleInput) (*domain.Raffle, error) {
	title := strings.TrimSpace(in.Title)
	switch {
	case title == "":
		return nil, ErrInvalidTitle
	case !validPrice(in.Price):
		return nil, ErrInvalidPrice
	case in.TotalTickets < 0:
		return nil, fmt.Errorf("%w: %d", ErrInvalidCapacity, in.TotalTickets)
	}
	if err := checkDates(in.StartDate, in.EndDate); err != nil {
		return nil, err
	}
	if err := s.checkSecurityCode(ctx, actor, in.SecurityCode); err != nil {
		return nil, err
	}

	now := s.now()
	raffle := &domain.Raffle{
		ID:           uuid.NewString(),
		Title:        title,
		Description:  in.Description,
		Price:        in.Price,
		TotalTickets: in.TotalTickets,
		Status:       domain.RaffleActive,
		NextTicket:   1,
		OwnerID:      actor.ID,
		StartDate:    in.StartDate,
		EndDate:      in.EndDate,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	err := s.txManager.Begin(ctx, func(ctx context.Context) error {
		if err := s.raffles.Create(ctx, raffle); err != nil {
			return err
		}
		return s.log(ctx, domain.ActionRaffleCreate, actor.ID, raffle.ID, map[string]any{
			"title": raffle.Title, "price": raffle.Price.String(), "total_tickets": raffle.TotalTickets,
		})
	})
	if err != nil {
		zap.L().Error("failed to create raffle", zap.Error(err))
		return nil, err
	}
	return raffle, nil
}

func (s *Service) Get(ctx context.Context, id string) (*domain.Raffle, error) {
	return s.find(ctx, id)
}

func (s *Service) List(ctx context.Context) ([]domain.Raffle, error) {
	raffles, err := s.raffles.List(ctx)
	if err != nil {
		zap.L().Error("failed to list raffles", zap.Error(err))
		return nil, err
	}
	return raffles, nil
}

// Update edits a raffle that is not closed. Status may only move between
// active and paused; closing happens through Draw.
func (s *Service) Update(ctx context.Context, actor domain.Actor, id string, upd RaffleUpdate) (*domain.Raffle, error) {
	var raffle *domain.Raffle
	err := s.withRaffleLock(ctx, id, func() error {
		return s.txManager.Begin(ctx, func(ctx context.Context) error {
			var err error
			raffle, err = s.find(ctx, id)
			if err != nil {
				return err
			}
			if raffle.Status == domain.RaffleClosed {
				return ErrRaffleClosed
			}

			meta := map[string]any{}
			if upd.Title != nil {
				title := strings.TrimSpace(*upd.Title)
				if title == "" {
					return ErrInvalidTitle
				}
				raffle.Title = title
				meta["title"] = title
			}
			if upd.Description != nil {
				raffle.Description = *upd.Description
				meta["description"] = true
			}
			if upd.Price != nil {
				if !validPrice(*upd.Price) {
					return ErrInvalidPrice
				}
				raffle.Price = *upd.Price
				meta["price"] = upd.Price.String()
			}
			if upd.Status != nil {
				if *upd.Status != domain.RaffleActive && *upd.Status != domain.RafflePaused {
					return fmt.Errorf("%w: %q", ErrInvalidStatus, *upd.Status)
				}
				raffle.Status = *upd.Status
				meta["status"] = string(raffle.Status)
			}
			if upd.StartDate != nil {
				raffle.StartDate = upd.StartDate
			}
			if upd.EndDate != nil {
				raffle.EndDate = upd.EndDate
			}
			if err := checkDates(raffle.StartDate, raffle.EndDate); err != nil {
				return err
			}
			if upd.TotalTickets != nil {
				if *upd.TotalTickets < 0 {
					return fmt.Errorf("%w: %d", ErrInvalidCapacity, *upd.TotalTickets)
				}
				taken, _, err := s.assignmentIndex(ctx, raffle.ID)
				if err != nil {
					return err
				}
				capacity := Capacity(*upd.TotalTickets, s.maxTickets)
				if capacity < len(taken) {
					return fmt.Errorf("%w: capacity %d, sold %d", ErrCapacityBelowSold, capacity, len(taken))
				}
				raffle.TotalTickets = *upd.TotalTickets
				meta["total_tickets"] = raffle.TotalTickets
			}

			raffle.UpdatedAt = s.now()
			if err := s.raffles.Update(ctx, raffle); err != nil {
				return err
			}
			return s.log(ctx, domain.ActionRaffleUpdate, actor.ID, raffle.ID, meta)
		})
	})
	if err != nil {
		return nil, err
	}
	return raffle, nil
}

// Delete removes a raffle together with its records and manual requests.
func (s *Service) Delete(ctx context.Context, actor domain.Actor, id string) error {
	return s.withRaffleLock(ctx, id, func() error {
		return s.txManager.Begin(ctx, func(ctx context.Context) error {
			raffle, err := s.find(ctx, id)
			if err != nil {
				return err
			}
			if raffle.OwnerID != actor.ID && actor.Role != domain.RoleSuperAdmin {
				return ErrForbidden
			}
			if err := s.records.DeleteByRaffle(ctx, id); err != nil {
				return err
			}
			if err := s.requests.DeleteByRaffle(ctx, id); err != nil {
				return err
			}
			if err := s.raffles.Delete(ctx, id); err != nil {
				return err
			}
			return s.log(ctx, domain.ActionRaffleDelete, actor.ID, id, map[string]any{"title": raffle.Title})
		})
	})
}

// Progress reports sold and remaining counts against the current capacity.
func (s *Service) Progress(ctx context.Context, raffleID string) (*domain.Progress, error) {
	raffle, err := s.find(ctx, raffleID)
	if err != nil {
		return nil, err
	}
	taken, _, err := s.assignmentIndex(ctx, raffle.ID)
	if err != nil {
		return nil, err
	}
	return progress(s.capacity(raffle), len(taken)), nil
}

func progress(capacity, sold int) *domain.Progress {
	p := &domain.Progress{
		Sold:      sold,
		Remaining: max(capacity-sold, 0),
		Capacity:  capacity,
	}
	if capacity > 0 {
		p.Fraction = float64(sold) / float64(capacity)
	}
	return p
}

// Taken lists the committed numbers of a raffle in ascending order.
func (s *Service) Taken(ctx context.Context, raffleID string) ([]int, int, error) {
	raffle, err := s.find(ctx, raffleID)
	if err != nil {
		return nil, 0, err
	}
	taken, _, err := s.assignmentIndex(ctx, raffle.ID)
	if err != nil {
		return nil, 0, err
	}
	return taken.sorted(), s.capacity(raffle), nil
}
