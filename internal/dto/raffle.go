package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/GlebRadaev/rafflehub/internal/domain"
)

type RaffleResponseDTO struct {
	ID            string           `json:"id" example:"5f0c3a8e-8d1c-4f38-9a52-3d1f0a4b7c11"`
	Title         string           `json:"title" example:"Moto Bera 2025"`
	Description   string           `json:"description,omitempty"`
	Price         decimal.Decimal  `json:"price" swaggertype:"string" example:"2.50"`
	TotalTickets  int              `json:"total_tickets" example:"1000"`
	Status        string           `json:"status" example:"active"`
	WinningNumber *int             `json:"winning_number,omitempty" example:"42"`
	WinnerID      *string          `json:"winner_id,omitempty"`
	OwnerID       string           `json:"owner_id"`
	StartDate     *time.Time       `json:"start_date,omitempty"`
	EndDate       *time.Time       `json:"end_date,omitempty"`
	CreatedAt     time.Time        `json:"created_at"`
	Progress      *domain.Progress `json:"progress,omitempty"`
}

func NewRaffleResponse(r *domain.Raffle, p *domain.Progress) RaffleResponseDTO {
	return RaffleResponseDTO{
		ID:            r.ID,
		Title:         r.Title,
		Description:   r.Description,
		Price:         r.Price,
		TotalTickets:  r.TotalTickets,
		Status:        string(r.Status),
		WinningNumber: r.WinningNumber,
		WinnerID:      r.WinnerID,
		OwnerID:       r.OwnerID,
		StartDate:     r.StartDate,
		EndDate:       r.EndDate,
		CreatedAt:     r.CreatedAt,
		Progress:      p,
	}
}

type TakenResponseDTO struct {
	Capacity int   `json:"capacity" example:"1000"`
	Taken    []int `json:"taken" example:"3,17,42"`
}

type AllocationResponseDTO struct {
	Numbers   []int    `json:"numbers" example:"3,17"`
	Formatted []string `json:"formatted" example:"0003,0017"`
}

func NewAllocationResponse(numbers []int) AllocationResponseDTO {
	return AllocationResponseDTO{Numbers: numbers, Formatted: format(numbers)}
}

type RecordResponseDTO struct {
	ID          string          `json:"id"`
	RaffleID    string          `json:"raffle_id"`
	OwnerID     string          `json:"owner_id"`
	Numbers     []int           `json:"numbers" example:"3,17"`
	Formatted   []string        `json:"formatted" example:"0003,0017"`
	Amount      decimal.Decimal `json:"amount" swaggertype:"string" example:"5.00"`
	Channel     string          `json:"channel" example:"instant"`
	ReceiptCode string          `json:"receipt_code" example:"79927398713"`
	Buyer       domain.Buyer    `json:"buyer"`
	CreatedAt   time.Time       `json:"created_at"`
}

func NewRecordResponse(rec *domain.Record) RecordResponseDTO {
	return RecordResponseDTO{
		ID:          rec.ID,
		RaffleID:    rec.RaffleID,
		OwnerID:     rec.OwnerID,
		Numbers:     rec.Numbers,
		Formatted:   format(rec.Numbers),
		Amount:      rec.Amount,
		Channel:     string(rec.Channel),
		ReceiptCode: rec.ReceiptCode,
		Buyer:       rec.Buyer,
		CreatedAt:   rec.CreatedAt,
	}
}

type ReceiptResponseDTO struct {
	Record RecordResponseDTO  `json:"record"`
	Raffle *RaffleResponseDTO `json:"raffle,omitempty"`
}

type WinnerResponseDTO struct {
	RaffleID  string `json:"raffle_id"`
	Number    int    `json:"number" example:"42"`
	Formatted string `json:"formatted" example:"0042"`
	OwnerID   string `json:"owner_id"`
	RecordID  string `json:"record_id"`
}

func NewWinnerResponse(w *domain.Winner) WinnerResponseDTO {
	return WinnerResponseDTO{
		RaffleID:  w.RaffleID,
		Number:    w.Number,
		Formatted: domain.FormatNumber(w.Number),
		OwnerID:   w.OwnerID,
		RecordID:  w.RecordID,
	}
}

type ManualRequestResponseDTO struct {
	ID         string     `json:"id"`
	RaffleID   string     `json:"raffle_id"`
	OwnerID    string     `json:"owner_id"`
	Quantity   int        `json:"quantity" example:"2"`
	Proof      string     `json:"proof,omitempty"`
	Reference  string     `json:"reference,omitempty" example:"PM-0042"`
	Note       string     `json:"note,omitempty"`
	Status     string     `json:"status" example:"pending"`
	Numbers    []int      `json:"numbers,omitempty"`
	RecordID   *string    `json:"record_id,omitempty"`
	ResolvedBy *string    `json:"resolved_by,omitempty"`
	CreatedAt  time.Time  `json:"created_at"`
	ResolvedAt *time.Time `json:"resolved_at,omitempty"`
}

func NewManualRequestResponse(req *domain.ManualRequest) ManualRequestResponseDTO {
	return ManualRequestResponseDTO{
		ID:         req.ID,
		RaffleID:   req.RaffleID,
		OwnerID:    req.OwnerID,
		Quantity:   req.Quantity,
		Proof:      req.Proof,
		Reference:  req.Reference,
		Note:       req.Note,
		Status:     string(req.Status),
		Numbers:    req.Numbers,
		RecordID:   req.RecordID,
		ResolvedBy: req.ResolvedBy,
		CreatedAt:  req.CreatedAt,
		ResolvedAt: req.ResolvedAt,
	}
}

type ResolveResponseDTO struct {
	Request ManualRequestResponseDTO `json:"request"`
	Record  *RecordResponseDTO       `json:"record,omitempty"`
}

func format(numbers []int) []string {
	out := make([]string, len(numbers))
	for i, n := range numbers {
		out[i] = domain.FormatNumber(n)
	}
	return out
}
