package raffleservice

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/GlebRadaev/rafflehub/internal/domain"
)

type ManualInput struct {
	Quantity  int    `json:"quantity"`
	Proof     string `json:"proof"`
	Reference string `json:"reference"`
	Note      string `json:"note"`
}

type Decision string

const (
	DecisionApprove Decision = "approve"
	DecisionReject  Decision = "reject"
)

// Allocate previews an allocation against the current index without
// committing anything.
func (s *Service) Allocate(ctx context.Context, raffleID string, sel Selection) ([]int, error) {
	var numbers []int
	err := s.withRaffleLock(ctx, raffleID, func() error {
		raffle, err := s.find(ctx, raffleID)
		if err != nil {
			return err
		}
		if raffle.Status != domain.RaffleActive {
			return ErrRaffleNotActive
		}
		taken, _, err := s.assignmentIndex(ctx, raffle.ID)
		if err != nil {
			return err
		}
		numbers, err = allocate(s.capacity(raffle), taken, sel, s.intn)
		return err
	})
	if err != nil {
		return nil, err
	}
	return numbers, nil
}

// SettleInstant pays for tickets from the owner's wallet. Allocation, debit,
// record and next-ticket hint are committed in one transaction.
func (s *Service) SettleInstant(ctx context.Context, raffleID, ownerID string, sel Selection) (*domain.Record, error) {
	var receipt domain.Receipt
	err := s.withRaffleLock(ctx, raffleID, func() error {
		return s.txManager.Begin(ctx, func(ctx context.Context) error {
			raffle, err := s.find(ctx, raffleID)
			if err != nil {
				return err
			}
			if raffle.Status != domain.RaffleActive {
				return ErrRaffleNotActive
			}
			taken, _, err := s.assignmentIndex(ctx, raffle.ID)
			if err != nil {
				return err
			}
			numbers, err := allocate(s.capacity(raffle), taken, sel, s.intn)
			if err != nil {
				return err
			}
			owner, err := s.owners.FindByID(ctx, ownerID)
			if err != nil {
				return err
			}

			amount := raffle.Price.Mul(decimal.NewFromInt(int64(len(numbers))))
			if amount.IsPositive() {
				if _, err := s.wallet.Debit(ctx, ownerID, amount); err != nil {
					return err
				}
			}

			rec := s.newRecord(raffle, ownerID, owner, numbers, amount, domain.ChannelInstant)
			if err := s.records.Create(ctx, rec); err != nil {
				return err
			}
			if err := s.raffles.SetNextTicket(ctx, raffle.ID, len(taken)+len(numbers)+1); err != nil {
				return err
			}
			receipt = domain.Receipt{Record: rec, Raffle: raffle, Owner: owner}
			return s.log(ctx, domain.ActionRafflePurchase, ownerID, raffle.ID, map[string]any{
				"record_id": rec.ID, "quantity": len(numbers), "amount": amount.String(), "channel": string(rec.Channel),
			})
		})
	})
	if err != nil {
		return nil, err
	}

	zap.L().Info("instant settlement committed",
		zap.String("raffle_id", raffleID), zap.String("owner_id", ownerID), zap.Ints("numbers", receipt.Record.Numbers))
	s.notifier.Notify(context.WithoutCancel(ctx), receipt)
	return receipt.Record, nil
}

func (s *Service) newRecord(raffle *domain.Raffle, ownerID string, owner *domain.Owner, numbers []int, amount decimal.Decimal, ch domain.Channel) *domain.Record {
	return &domain.Record{
		ID:          uuid.NewString(),
		RaffleID:    raffle.ID,
		OwnerID:     ownerID,
		Numbers:     numbers,
		Amount:      amount,
		Channel:     ch,
		ReceiptCode: s.receiptCode(),
		Buyer:       owner.Buyer(),
		CreatedAt:   s.now(),
	}
}

// SubmitManual files a pending request. Availability is checked optimistically
// and nothing is reserved, so no raffle lock is taken.
func (s *Service) SubmitManual(ctx context.Context, raffleID, ownerID string, in ManualInput) (*domain.ManualRequest, error) {
	raffle, err := s.find(ctx, raffleID)
	if err != nil {
		return nil, err
	}
	if raffle.Status != domain.RaffleActive {
		return nil, ErrRaffleNotActive
	}
	if in.Quantity <= 0 {
		return nil, fmt.Errorf("%w: %d", ErrInvalidQuantity, in.Quantity)
	}
	taken, _, err := s.assignmentIndex(ctx, raffle.ID)
	if err != nil {
		return nil, err
	}
	if available := s.capacity(raffle) - len(taken); in.Quantity > available {
		return nil, fmt.Errorf("%w: requested %d, available %d", ErrInsufficientAvailability, in.Quantity, max(available, 0))
	}

	req := &domain.ManualRequest{
		ID:        uuid.NewString(),
		RaffleID:  raffle.ID,
		OwnerID:   ownerID,
		Quantity:  in.Quantity,
		Proof:     in.Proof,
		Reference: in.Reference,
		Note:      in.Note,
		Status:    domain.RequestPending,
		CreatedAt: s.now(),
	}
	err = s.txManager.Begin(ctx, func(ctx context.Context) error {
		if err := s.requests.Create(ctx, req); err != nil {
			return err
		}
		return s.log(ctx, domain.ActionManualSubmit, ownerID, raffle.ID, map[string]any{
			"request_id": req.ID, "quantity": req.Quantity, "reference": req.Reference,
		})
	})
	if err != nil {
		zap.L().Error("failed to submit manual request", zap.Error(err))
		return nil, err
	}
	return req, nil
}

// ResolveManual approves or rejects a pending request. Approval allocates
// against the index as it is now, so it can fail even though the submission
// succeeded. The record is nil on rejection.
func (s *Service) ResolveManual(ctx context.Context, requestID, actorID string, decision Decision) (*domain.Record, *domain.ManualRequest, error) {
	if decision != DecisionApprove && decision != DecisionReject {
		return nil, nil, fmt.Errorf("%w: %q", ErrInvalidDecision, decision)
	}
	if !validID(requestID) {
		return nil, nil, ErrRequestNotFound
	}
	req, err := s.requests.FindByID(ctx, requestID)
	if err != nil {
		return nil, nil, err
	}
	if req == nil {
		return nil, nil, ErrRequestNotFound
	}

	var receipt domain.Receipt
	err = s.withRaffleLock(ctx, req.RaffleID, func() error {
		return s.txManager.Begin(ctx, func(ctx context.Context) error {
			current, err := s.requests.FindByID(ctx, requestID)
			if err != nil {
				return err
			}
			if current == nil {
				return ErrRequestNotFound
			}
			req = current
			if req.Status != domain.RequestPending {
				return ErrRequestAlreadyProcessed
			}

			resolvedAt := s.now()
			req.ResolvedBy = &actorID
			req.ResolvedAt = &resolvedAt

			if decision == DecisionReject {
				req.Status = domain.RequestRejected
				if err := s.resolve(ctx, req); err != nil {
					return err
				}
				return s.log(ctx, domain.ActionManualReject, actorID, req.RaffleID, map[string]any{"request_id": req.ID})
			}

			raffle, err := s.find(ctx, req.RaffleID)
			if err != nil {
				return err
			}
			if raffle.Status != domain.RaffleActive {
				return ErrRaffleNotActive
			}
			taken, _, err := s.assignmentIndex(ctx, raffle.ID)
			if err != nil {
				return err
			}
			numbers, err := allocateRandom(s.capacity(raffle), taken, req.Quantity, s.intn)
			if err != nil {
				return err
			}
			owner, err := s.owners.FindByID(ctx, req.OwnerID)
			if err != nil {
				return err
			}

			amount := raffle.Price.Mul(decimal.NewFromInt(int64(len(numbers))))
			rec := s.newRecord(raffle, req.OwnerID, owner, numbers, amount, domain.ChannelManual)
			rec.RequestID = &req.ID

			req.Status = domain.RequestApproved
			req.Numbers = numbers
			req.RecordID = &rec.ID
			if err := s.records.Create(ctx, rec); err != nil {
				return err
			}
			if err := s.resolve(ctx, req); err != nil {
				return err
			}
			if err := s.raffles.SetNextTicket(ctx, raffle.ID, len(taken)+len(numbers)+1); err != nil {
				return err
			}
			receipt = domain.Receipt{Record: rec, Raffle: raffle, Owner: owner}
			return s.log(ctx, domain.ActionManualApprove, actorID, raffle.ID, map[string]any{
				"request_id": req.ID, "record_id": rec.ID, "numbers": numbers,
			})
		})
	})
	if err != nil {
		return nil, nil, err
	}

	if receipt.Record == nil {
		return nil, req, nil
	}
	s.notifier.Notify(context.WithoutCancel(ctx), receipt)
	return receipt.Record, req, nil
}

func (s *Service) resolve(ctx context.Context, req *domain.ManualRequest) error {
	ok, err := s.requests.Resolve(ctx, req)
	if err != nil {
		return err
	}
	if !ok {
		return ErrRequestAlreadyProcessed
	}
	return nil
}
