package domain

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

type RaffleStatus string

const (
	RaffleActive RaffleStatus = "active"
	RafflePaused RaffleStatus = "paused"
	RaffleClosed RaffleStatus = "closed"
)

func (s RaffleStatus) Valid() bool {
	switch s {
	case RaffleActive, RafflePaused, RaffleClosed:
		return true
	}
	return false
}

type Channel string

const (
	ChannelInstant Channel = "instant"
	ChannelManual  Channel = "manual"
)

type RequestStatus string

const (
	RequestPending  RequestStatus = "pending"
	RequestApproved RequestStatus = "approved"
	RequestRejected RequestStatus = "rejected"
)

type Role string

const (
	RoleUser       Role = "user"
	RoleOrganizer  Role = "organizer"
	RoleAdmin      Role = "admin"
	RoleSuperAdmin Role = "superadmin"
)

// Actor is the authenticated caller as asserted by the identity service.
type Actor struct {
	ID   string
	Role Role
}

func (a Actor) IsAdmin() bool {
	return a.Role == RoleAdmin || a.Role == RoleSuperAdmin
}

type Raffle struct {
	ID            string          `db:"id"`
	Title         string          `db:"title"`
	Description   string          `db:"description"`
	Price         decimal.Decimal `db:"price"`
	TotalTickets  int             `db:"total_tickets"`
	Status        RaffleStatus    `db:"status"`
	WinningNumber *int            `db:"winning_number"`
	WinnerID      *string         `db:"winner_id"`
	NextTicket    int             `db:"next_ticket"`
	OwnerID       string          `db:"owner_id"`
	StartDate     *time.Time      `db:"start_date"`
	EndDate       *time.Time      `db:"end_date"`
	CreatedAt     time.Time       `db:"created_at"`
	UpdatedAt     time.Time       `db:"updated_at"`
}

// Buyer is the owner profile copied into a record at commit time.
type Buyer struct {
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Email     string `json:"email"`
	Phone     string `json:"phone"`
	Cedula    string `json:"cedula"`
	Address   string `json:"address"`
}

type Record struct {
	ID          string          `db:"id"`
	RaffleID    string          `db:"raffle_id"`
	OwnerID     string          `db:"owner_id"`
	Numbers     []int           `db:"numbers"`
	Amount      decimal.Decimal `db:"amount"`
	Channel     Channel         `db:"channel"`
	ReceiptCode string          `db:"receipt_code"`
	RequestID   *string         `db:"request_id"`
	Buyer       Buyer           `db:"buyer"`
	CreatedAt   time.Time       `db:"created_at"`
}

type ManualRequest struct {
	ID         string        `db:"id"`
	RaffleID   string        `db:"raffle_id"`
	OwnerID    string        `db:"owner_id"`
	Quantity   int           `db:"quantity"`
	Proof      string        `db:"proof"`
	Reference  string        `db:"reference"`
	Note       string        `db:"note"`
	Status     RequestStatus `db:"status"`
	Numbers    []int         `db:"numbers"`
	RecordID   *string       `db:"record_id"`
	ResolvedBy *string       `db:"resolved_by"`
	CreatedAt  time.Time     `db:"created_at"`
	ResolvedAt *time.Time    `db:"resolved_at"`
}

type Wallet struct {
	OwnerID   string          `db:"owner_id"`
	Balance   decimal.Decimal `db:"balance"`
	UpdatedAt time.Time       `db:"updated_at"`
}

// Owner is the local projection of an identity-service account.
type Owner struct {
	ID               string    `db:"id"`
	FirstName        string    `db:"first_name"`
	LastName         string    `db:"last_name"`
	Email            string    `db:"email"`
	Phone            string    `db:"phone"`
	Cedula           string    `db:"cedula"`
	Address          string    `db:"address"`
	SecurityCodeHash string    `db:"security_code_hash"`
	TelegramChatID   int64     `db:"telegram_chat_id"`
	UpdatedAt        time.Time `db:"updated_at"`
}

func (o *Owner) Buyer() Buyer {
	if o == nil {
		return Buyer{}
	}
	return Buyer{
		FirstName: o.FirstName,
		LastName:  o.LastName,
		Email:     o.Email,
		Phone:     o.Phone,
		Cedula:    o.Cedula,
		Address:   o.Address,
	}
}

type Activity struct {
	ID        string         `db:"id"`
	Action    string         `db:"action"`
	ActorID   string         `db:"actor_id"`
	RaffleID  string         `db:"raffle_id"`
	Meta      map[string]any `db:"meta"`
	CreatedAt time.Time      `db:"created_at"`
}

const (
	ActionRaffleCreate   = "raffle.create"
	ActionRaffleUpdate   = "raffle.update"
	ActionRaffleDelete   = "raffle.delete"
	ActionRafflePurchase = "raffle.purchase"
	ActionRaffleClose    = "raffle.close"
	ActionManualSubmit   = "manual.submit"
	ActionManualApprove  = "manual.approve"
	ActionManualReject   = "manual.reject"
)

type Progress struct {
	Sold      int     `json:"sold"`
	Remaining int     `json:"remaining"`
	Capacity  int     `json:"capacity"`
	Fraction  float64 `json:"fraction"`
}

type Winner struct {
	RaffleID string `json:"raffle_id"`
	Number   int    `json:"number"`
	OwnerID  string `json:"owner_id"`
	RecordID string `json:"record_id"`
}

// Receipt is what gets handed to notification channels after a commit.
type Receipt struct {
	Record *Record
	Raffle *Raffle
	Owner  *Owner
}

// TicketEntry is one ticket number (or one unresolved manual request) as
// shown in per-user listings and admin exports.
type TicketEntry struct {
	RaffleID    string    `json:"raffle_id"`
	RaffleTitle string    `json:"raffle_title"`
	Number      *int      `json:"number,omitempty"`
	Quantity    int       `json:"quantity"`
	Status      string    `json:"status"`
	OwnerID     string    `json:"owner_id"`
	Buyer       Buyer     `json:"buyer"`
	Channel     Channel   `json:"channel"`
	ReceiptCode string    `json:"receipt_code,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}

const (
	TicketApproved = "approved"
	TicketWinner   = "winner"
	TicketLoser    = "loser"
	TicketPending  = "pending"
	TicketRejected = "rejected"
)

type TicketFilter struct {
	RaffleID string
	OwnerID  string
	Status   string
	From     *time.Time
	To       *time.Time
}

// FormatNumber renders a ticket number the way it is printed on tickets.
func FormatNumber(n int) string {
	return fmt.Sprintf("%04d", n)
}
