package account

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"

	"github.com/GlebRadaev/rafflehub/internal/domain"
	"github.com/GlebRadaev/rafflehub/internal/dto"
	"github.com/GlebRadaev/rafflehub/internal/handlers/apierr"
	"github.com/GlebRadaev/rafflehub/internal/service/ownerservice"
	"github.com/GlebRadaev/rafflehub/pkg/auth"
	"github.com/GlebRadaev/rafflehub/pkg/utils"
)

type WalletService interface {
	GetBalance(ctx context.Context, ownerID string) (*domain.Wallet, error)
	Deposit(ctx context.Context, ownerID string, amount decimal.Decimal) (*domain.Wallet, error)
}

type ProfileService interface {
	GetProfile(ctx context.Context, ownerID string) (*domain.Owner, error)
	UpsertProfile(ctx context.Context, ownerID string, in ownerservice.ProfileInput) (*domain.Owner, error)
}

type TicketService interface {
	UserTickets(ctx context.Context, ownerID string) ([]domain.TicketEntry, error)
	Receipt(ctx context.Context, actor domain.Actor, code string) (*domain.Receipt, error)
}

type AccountHandler struct {
	wallets WalletService
	owners  ProfileService
	tickets TicketService
}

func New(wallets WalletService, owners ProfileService, tickets TicketService) *AccountHandler {
	return &AccountHandler{
		wallets: wallets,
		owners:  owners,
		tickets: tickets,
	}
}

func walletResponse(wallet *domain.Wallet) dto.WalletResponseDTO {
	resp := dto.WalletResponseDTO{Balance: wallet.Balance}
	if !wallet.UpdatedAt.IsZero() {
		updatedAt := wallet.UpdatedAt
		resp.UpdatedAt = &updatedAt
	}
	return resp
}

func profileResponse(owner *domain.Owner) dto.ProfileResponseDTO {
	return dto.ProfileResponseDTO{
		ID:              owner.ID,
		FirstName:       owner.FirstName,
		LastName:        owner.LastName,
		Email:           owner.Email,
		Phone:           owner.Phone,
		Cedula:          owner.Cedula,
		Address:         owner.Address,
		TelegramChatID:  owner.TelegramChatID,
		HasSecurityCode: owner.SecurityCodeHash != "",
	}
}

// GetWallet godoc
//
//	@Summary	Wallet balance
//	@Tags		Account
//	@Produce	json
//	@Security	BearerAuth
//	@Success	200	{object}	dto.WalletResponseDTO
//	@Failure	401	{object}	utils.Response	"User not authorized"
//	@Router		/api/user/wallet [get]
func (h *AccountHandler) GetWallet(w http.ResponseWriter, r *http.Request) {
	actor := auth.ActorFromContext(r.Context())

	wallet, err := h.wallets.GetBalance(r.Context(), actor.ID)
	if err != nil {
		apierr.Respond(w, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, walletResponse(wallet))
}

// Deposit godoc
//
//	@Summary	Top up the wallet
//	@Tags		Account
//	@Accept		json
//	@Produce	json
//	@Param		deposit	body	dto.DepositRequestDTO	true	"Amount to credit"
//	@Security	BearerAuth
//	@Success	200	{object}	dto.WalletResponseDTO
//	@Failure	400	{object}	utils.Response	"Invalid request body"
//	@Failure	422	{object}	utils.Response	"Amount must be positive"
//	@Router		/api/user/wallet/deposit [post]
func (h *AccountHandler) Deposit(w http.ResponseWriter, r *http.Request) {
	var req dto.DepositRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	actor := auth.ActorFromContext(r.Context())
	wallet, err := h.wallets.Deposit(r.Context(), actor.ID, req.Amount)
	if err != nil {
		apierr.Respond(w, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, walletResponse(wallet))
}

func (h *AccountHandler) GetProfile(w http.ResponseWriter, r *http.Request) {
	actor := auth.ActorFromContext(r.Context())

	owner, err := h.owners.GetProfile(r.Context(), actor.ID)
	if err != nil {
		apierr.Respond(w, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, profileResponse(owner))
}

// UpsertProfile godoc
//
//	@Summary		Store the buyer profile
//	@Description	Profile data is copied onto every receipt issued afterwards.
//	@Tags			Account
//	@Accept			json
//	@Produce		json
//	@Param			profile	body	ownerservice.ProfileInput	true	"Profile"
//	@Security		BearerAuth
//	@Success		200	{object}	dto.ProfileResponseDTO
//	@Failure		422	{object}	utils.Response	"First and last name are required"
//	@Router			/api/user/profile [put]
func (h *AccountHandler) UpsertProfile(w http.ResponseWriter, r *http.Request) {
	var in ownerservice.ProfileInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	actor := auth.ActorFromContext(r.Context())
	owner, err := h.owners.UpsertProfile(r.Context(), actor.ID, in)
	if err != nil {
		apierr.Respond(w, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, profileResponse(owner))
}

// Tickets godoc
//
//	@Summary	My tickets
//	@Tags		Account
//	@Produce	json
//	@Security	BearerAuth
//	@Success	200	{array}		domain.TicketEntry
//	@Success	204	{object}	utils.Response	"No data available"
//	@Router		/api/user/tickets [get]
func (h *AccountHandler) Tickets(w http.ResponseWriter, r *http.Request) {
	actor := auth.ActorFromContext(r.Context())

	entries, err := h.tickets.UserTickets(r.Context(), actor.ID)
	if err != nil {
		apierr.Respond(w, err)
		return
	}
	if len(entries) == 0 {
		utils.RespondWithError(w, http.StatusNoContent, "No data available")
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, entries)
}

// Receipt godoc
//
//	@Summary		Look up a receipt by its printed code
//	@Description	Visible to the buyer and to admins only.
//	@Tags			Account
//	@Produce		json
//	@Param			code	path	string	true	"Receipt code"
//	@Security		BearerAuth
//	@Success		200	{object}	dto.ReceiptResponseDTO
//	@Failure		404	{object}	utils.Response	"Receipt not found"
//	@Router			/api/receipts/{code} [get]
func (h *AccountHandler) Receipt(w http.ResponseWriter, r *http.Request) {
	receipt, err := h.tickets.Receipt(r.Context(), auth.ActorFromContext(r.Context()), chi.URLParam(r, "code"))
	if err != nil {
		apierr.Respond(w, err)
		return
	}

	resp := dto.ReceiptResponseDTO{Record: dto.NewRecordResponse(receipt.Record)}
	if receipt.Raffle != nil {
		raffle := dto.NewRaffleResponse(receipt.Raffle, nil)
		resp.Raffle = &raffle
	}
	utils.RespondWithJSON(w, http.StatusOK, resp)
}
