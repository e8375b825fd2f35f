package raffles

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/GlebRadaev/rafflehub/internal/domain"
	"github.com/GlebRadaev/rafflehub/internal/dto"
	"github.com/GlebRadaev/rafflehub/internal/handlers/apierr"
	"github.com/GlebRadaev/rafflehub/internal/service/raffleservice"
	"github.com/GlebRadaev/rafflehub/pkg/auth"
	"github.com/GlebRadaev/rafflehub/pkg/utils"
)

type Service interface {
	Create(ctx context.Context, actor domain.Actor, in raffleservice.RaffleInput) (*domain.Raffle, error)
	Get(ctx context.Context, id string) (*domain.Raffle, error)
	List(ctx context.Context) ([]domain.Raffle, error)
	Progress(ctx context.Context, raffleID string) (*domain.Progress, error)
	Taken(ctx context.Context, raffleID string) ([]int, int, error)
	Allocate(ctx context.Context, raffleID string, sel raffleservice.Selection) ([]int, error)
	SettleInstant(ctx context.Context, raffleID, ownerID string, sel raffleservice.Selection) (*domain.Record, error)
	SubmitManual(ctx context.Context, raffleID, ownerID string, in raffleservice.ManualInput) (*domain.ManualRequest, error)
	Draw(ctx context.Context, raffleID string, actor domain.Actor) (*domain.Winner, error)
}

type RaffleHandler struct {
	raffleService Service
}

func New(raffleService Service) *RaffleHandler {
	return &RaffleHandler{
		raffleService: raffleService,
	}
}

func decode(w http.ResponseWriter, r *http.Request, v any) bool {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "invalid request body")
		return false
	}
	return true
}

// List godoc
//
//	@Summary	List raffles
//	@Tags		Raffles
//	@Produce	json
//	@Security	BearerAuth
//	@Success	200	{array}		dto.RaffleResponseDTO
//	@Failure	401	{object}	utils.Response	"User not authorized"
//	@Failure	500	{object}	utils.Response	"Internal server error"
//	@Router		/api/raffles [get]
func (h *RaffleHandler) List(w http.ResponseWriter, r *http.Request) {
	raffles, err := h.raffleService.List(r.Context())
	if err != nil {
		apierr.Respond(w, err)
		return
	}

	response := make([]dto.RaffleResponseDTO, 0, len(raffles))
	for i := range raffles {
		progress, err := h.raffleService.Progress(r.Context(), raffles[i].ID)
		if err != nil {
			apierr.Respond(w, err)
			return
		}
		response = append(response, dto.NewRaffleResponse(&raffles[i], progress))
	}
	utils.RespondWithJSON(w, http.StatusOK, response)
}

// Create godoc
//
//	@Summary		Create a raffle
//	@Description	Organizers and admins must confirm their security code; superadmins and users do not.
//	@Tags			Raffles
//	@Accept			json
//	@Produce		json
//	@Param			raffle	body	raffleservice.RaffleInput	true	"Raffle definition"
//	@Security		BearerAuth
//	@Success		201	{object}	dto.RaffleResponseDTO
//	@Failure		400	{object}	utils.Response	"Invalid request body"
//	@Failure		403	{object}	utils.Response	"Security code rejected"
//	@Failure		422	{object}	utils.Response	"Invalid raffle fields"
//	@Router			/api/raffles [post]
func (h *RaffleHandler) Create(w http.ResponseWriter, r *http.Request) {
	var in raffleservice.RaffleInput
	if !decode(w, r, &in) {
		return
	}

	raffle, err := h.raffleService.Create(r.Context(), auth.ActorFromContext(r.Context()), in)
	if err != nil {
		apierr.Respond(w, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusCreated, dto.NewRaffleResponse(raffle, nil))
}

// Get godoc
//
//	@Summary	Get a raffle with its progress
//	@Tags		Raffles
//	@Produce	json
//	@Param		id	path	string	true	"Raffle ID"
//	@Security	BearerAuth
//	@Success	200	{object}	dto.RaffleResponseDTO
//	@Failure	404	{object}	utils.Response	"Raffle not found"
//	@Router		/api/raffles/{id} [get]
func (h *RaffleHandler) Get(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	raffle, err := h.raffleService.Get(r.Context(), id)
	if err != nil {
		apierr.Respond(w, err)
		return
	}
	progress, err := h.raffleService.Progress(r.Context(), id)
	if err != nil {
		apierr.Respond(w, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, dto.NewRaffleResponse(raffle, progress))
}

// Progress godoc
//
//	@Summary	Sold and remaining tickets
//	@Tags		Raffles
//	@Produce	json
//	@Param		id	path	string	true	"Raffle ID"
//	@Security	BearerAuth
//	@Success	200	{object}	domain.Progress
//	@Failure	404	{object}	utils.Response	"Raffle not found"
//	@Router		/api/raffles/{id}/progress [get]
func (h *RaffleHandler) Progress(w http.ResponseWriter, r *http.Request) {
	progress, err := h.raffleService.Progress(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		apierr.Respond(w, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, progress)
}

// Taken godoc
//
//	@Summary		Taken numbers
//	@Description	Public list of numbers already committed, for rendering a number picker.
//	@Tags			Raffles
//	@Produce		json
//	@Param			id	path	string	true	"Raffle ID"
//	@Success		200	{object}	dto.TakenResponseDTO
//	@Failure		404	{object}	utils.Response	"Raffle not found"
//	@Router			/api/raffles/{id}/tickets [get]
func (h *RaffleHandler) Taken(w http.ResponseWriter, r *http.Request) {
	taken, capacity, err := h.raffleService.Taken(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		apierr.Respond(w, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, dto.TakenResponseDTO{Capacity: capacity, Taken: taken})
}

// Allocate godoc
//
//	@Summary	Preview an allocation
//	@Tags		Tickets
//	@Accept		json
//	@Produce	json
//	@Param		id			path	string					true	"Raffle ID"
//	@Param		selection	body	raffleservice.Selection	true	"Random quantity or explicit numbers"
//	@Security	BearerAuth
//	@Success	200	{object}	dto.AllocationResponseDTO
//	@Failure	409	{object}	utils.Response	"Not enough numbers or raffle not active"
//	@Failure	422	{object}	utils.Response	"Invalid selection"
//	@Router		/api/raffles/{id}/allocation [post]
func (h *RaffleHandler) Allocate(w http.ResponseWriter, r *http.Request) {
	var sel raffleservice.Selection
	if !decode(w, r, &sel) {
		return
	}

	numbers, err := h.raffleService.Allocate(r.Context(), chi.URLParam(r, "id"), sel)
	if err != nil {
		apierr.Respond(w, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, dto.NewAllocationResponse(numbers))
}

// Purchase godoc
//
//	@Summary		Buy tickets with the wallet
//	@Description	Allocates numbers, debits the wallet and issues a receipt in one step.
//	@Tags			Tickets
//	@Accept			json
//	@Produce		json
//	@Param			id			path	string					true	"Raffle ID"
//	@Param			selection	body	raffleservice.Selection	true	"Random quantity or explicit numbers"
//	@Security		BearerAuth
//	@Success		201	{object}	dto.RecordResponseDTO
//	@Failure		402	{object}	utils.Response	"Insufficient funds"
//	@Failure		409	{object}	utils.Response	"Not enough numbers or raffle not active"
//	@Failure		422	{object}	utils.Response	"Invalid selection"
//	@Router			/api/raffles/{id}/purchase [post]
func (h *RaffleHandler) Purchase(w http.ResponseWriter, r *http.Request) {
	var sel raffleservice.Selection
	if !decode(w, r, &sel) {
		return
	}

	actor := auth.ActorFromContext(r.Context())
	rec, err := h.raffleService.SettleInstant(r.Context(), chi.URLParam(r, "id"), actor.ID, sel)
	if err != nil {
		apierr.Respond(w, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusCreated, dto.NewRecordResponse(rec))
}

// SubmitManual godoc
//
//	@Summary		Report an external payment
//	@Description	Files a pending request that an admin approves or rejects. Numbers are assigned on approval.
//	@Tags			Tickets
//	@Accept			json
//	@Produce		json
//	@Param			id		path	string						true	"Raffle ID"
//	@Param			payment	body	raffleservice.ManualInput	true	"Payment details"
//	@Security		BearerAuth
//	@Success		202	{object}	dto.ManualRequestResponseDTO
//	@Failure		409	{object}	utils.Response	"Not enough numbers or raffle not active"
//	@Router			/api/raffles/{id}/manual-payments [post]
func (h *RaffleHandler) SubmitManual(w http.ResponseWriter, r *http.Request) {
	var in raffleservice.ManualInput
	if !decode(w, r, &in) {
		return
	}

	actor := auth.ActorFromContext(r.Context())
	req, err := h.raffleService.SubmitManual(r.Context(), chi.URLParam(r, "id"), actor.ID, in)
	if err != nil {
		apierr.Respond(w, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusAccepted, dto.NewManualRequestResponse(req))
}

// Draw godoc
//
//	@Summary	Draw the winner and close the raffle
//	@Tags		Raffles
//	@Produce	json
//	@Param		id	path	string	true	"Raffle ID"
//	@Security	BearerAuth
//	@Success	200	{object}	dto.WinnerResponseDTO
//	@Failure	403	{object}	utils.Response	"Only the creator or an admin may draw"
//	@Failure	409	{object}	utils.Response	"No participants or raffle not active"
//	@Router		/api/raffles/{id}/draw [post]
func (h *RaffleHandler) Draw(w http.ResponseWriter, r *http.Request) {
	winner, err := h.raffleService.Draw(r.Context(), chi.URLParam(r, "id"), auth.ActorFromContext(r.Context()))
	if err != nil {
		apierr.Respond(w, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, dto.NewWinnerResponse(winner))
}
