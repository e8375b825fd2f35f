package ticketservice

import (
	"context"
	"errors"
	"sort"

	"go.uber.org/zap"

	"github.com/GlebRadaev/rafflehub/internal/domain"
	"github.com/GlebRadaev/rafflehub/pkg/validate"
)

type RecordRepo interface {
	Find(ctx context.Context, filter domain.TicketFilter) ([]domain.Record, error)
	FindByReceipt(ctx context.Context, code string) (*domain.Record, error)
}

type RequestRepo interface {
	Find(ctx context.Context, filter domain.TicketFilter) ([]domain.ManualRequest, error)
}

type RaffleRepo interface {
	FindByID(ctx context.Context, id string) (*domain.Raffle, error)
}

type ActivityRepo interface {
	List(ctx context.Context, raffleID string, limit int) ([]domain.Activity, error)
}

type Service struct {
	records  RecordRepo
	requests RequestRepo
	raffles  RaffleRepo
	activity ActivityRepo
}

func New(records RecordRepo, requests RequestRepo, raffles RaffleRepo, activity ActivityRepo) *Service {
	return &Service{
		records:  records,
		requests: requests,
		raffles:  raffles,
		activity: activity,
	}
}

var (
	ErrReceiptNotFound = errors.New("receipt not found")
	ErrInvalidStatus   = errors.New("invalid ticket status")
)

const DefaultActivityLimit = 100

func validStatus(status string) bool {
	switch status {
	case "", domain.TicketApproved, domain.TicketWinner, domain.TicketLoser, domain.TicketPending, domain.TicketRejected:
		return true
	}
	return false
}

// numberStatus is approved while the raffle is open and winner or loser
// once it has been drawn.
func numberStatus(raffle *domain.Raffle, n int) string {
	if raffle == nil || raffle.Status != domain.RaffleClosed || raffle.WinningNumber == nil {
		return domain.TicketApproved
	}
	if *raffle.WinningNumber == n {
		return domain.TicketWinner
	}
	return domain.TicketLoser
}

type raffleCache struct {
	repo RaffleRepo
	seen map[string]*domain.Raffle
}

func (c *raffleCache) get(ctx context.Context, id string) (*domain.Raffle, error) {
	if r, ok := c.seen[id]; ok {
		return r, nil
	}
	r, err := c.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	c.seen[id] = r
	return r, nil
}

// Tickets expands records into one entry per number and adds unresolved or
// rejected manual requests as quantity-only entries.
func (s *Service) Tickets(ctx context.Context, filter domain.TicketFilter) ([]domain.TicketEntry, error) {
	if !validStatus(filter.Status) {
		return nil, ErrInvalidStatus
	}
	cache := &raffleCache{repo: s.raffles, seen: map[string]*domain.Raffle{}}

	records, err := s.records.Find(ctx, filter)
	if err != nil {
		zap.L().Error("failed to find records", zap.Error(err))
		return nil, err
	}

	entries := []domain.TicketEntry{}
	for _, rec := range records {
		raffle, err := cache.get(ctx, rec.RaffleID)
		if err != nil {
			return nil, err
		}
		for _, n := range rec.Numbers {
			status := numberStatus(raffle, n)
			if filter.Status != "" && filter.Status != status {
				continue
			}
			number := n
			entries = append(entries, domain.TicketEntry{
				RaffleID:    rec.RaffleID,
				RaffleTitle: title(raffle),
				Number:      &number,
				Quantity:    1,
				Status:      status,
				OwnerID:     rec.OwnerID,
				Buyer:       rec.Buyer,
				Channel:     rec.Channel,
				ReceiptCode: rec.ReceiptCode,
				CreatedAt:   rec.CreatedAt,
			})
		}
	}

	if filter.Status == "" || filter.Status == domain.TicketPending || filter.Status == domain.TicketRejected {
		requests, err := s.requests.Find(ctx, filter)
		if err != nil {
			zap.L().Error("failed to find manual requests", zap.Error(err))
			return nil, err
		}
		for _, req := range requests {
			if req.Status == domain.RequestApproved {
				continue
			}
			raffle, err := cache.get(ctx, req.RaffleID)
			if err != nil {
				return nil, err
			}
			entries = append(entries, domain.TicketEntry{
				RaffleID:    req.RaffleID,
				RaffleTitle: title(raffle),
				Quantity:    req.Quantity,
				Status:      string(req.Status),
				OwnerID:     req.OwnerID,
				Channel:     domain.ChannelManual,
				CreatedAt:   req.CreatedAt,
			})
		}
	}

	sort.SliceStable(entries, func(i, j int) bool {
		if !entries[i].CreatedAt.Equal(entries[j].CreatedAt) {
			return entries[i].CreatedAt.After(entries[j].CreatedAt)
		}
		return number(entries[i]) < number(entries[j])
	})
	return entries, nil
}

func (s *Service) UserTickets(ctx context.Context, ownerID string) ([]domain.TicketEntry, error) {
	return s.Tickets(ctx, domain.TicketFilter{OwnerID: ownerID})
}

func title(r *domain.Raffle) string {
	if r == nil {
		return ""
	}
	return r.Title
}

func number(e domain.TicketEntry) int {
	if e.Number == nil {
		return 0
	}
	return *e.Number
}

// Receipt looks a record up by its printed code. Codes failing the Luhn
// check are never issued, so they are reported as unknown. Only the buyer
// and admins may see a receipt; anyone else gets ErrReceiptNotFound.
func (s *Service) Receipt(ctx context.Context, actor domain.Actor, code string) (*domain.Receipt, error) {
	if !validate.IsLuna(code) {
		return nil, ErrReceiptNotFound
	}
	rec, err := s.records.FindByReceipt(ctx, code)
	if err != nil {
		zap.L().Error("failed to find receipt", zap.Error(err))
		return nil, err
	}
	if rec == nil || (rec.OwnerID != actor.ID && !actor.IsAdmin()) {
		return nil, ErrReceiptNotFound
	}
	raffle, err := s.raffles.FindByID(ctx, rec.RaffleID)
	if err != nil {
		return nil, err
	}
	return &domain.Receipt{Record: rec, Raffle: raffle}, nil
}

func (s *Service) ManualRequests(ctx context.Context, status domain.RequestStatus) ([]domain.ManualRequest, error) {
	requests, err := s.requests.Find(ctx, domain.TicketFilter{Status: string(status)})
	if err != nil {
		zap.L().Error("failed to list manual requests", zap.Error(err))
		return nil, err
	}
	if requests == nil {
		requests = []domain.ManualRequest{}
	}
	return requests, nil
}

func (s *Service) Activity(ctx context.Context, raffleID string, limit int) ([]domain.Activity, error) {
	if limit <= 0 {
		limit = DefaultActivityLimit
	}
	entries, err := s.activity.List(ctx, raffleID, limit)
	if err != nil {
		zap.L().Error("failed to list activity", zap.Error(err))
		return nil, err
	}
	if entries == nil {
		entries = []domain.Activity{}
	}
	return entries, nil
}
