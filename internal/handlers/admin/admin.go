package admin

import (
	"context"
	"encoding/csv"
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/GlebRadaev/rafflehub/internal/domain"
	"github.com/GlebRadaev/rafflehub/internal/dto"
	"github.com/GlebRadaev/rafflehub/internal/handlers/apierr"
	"github.com/GlebRadaev/rafflehub/internal/service/raffleservice"
	"github.com/GlebRadaev/rafflehub/pkg/auth"
	"github.com/GlebRadaev/rafflehub/pkg/utils"
)

type RaffleService interface {
	Update(ctx context.Context, actor domain.Actor, id string, upd raffleservice.RaffleUpdate) (*domain.Raffle, error)
	Delete(ctx context.Context, actor domain.Actor, id string) error
	ResolveManual(ctx context.Context, requestID, actorID string, decision raffleservice.Decision) (*domain.Record, *domain.ManualRequest, error)
}

type ReportService interface {
	ManualRequests(ctx context.Context, status domain.RequestStatus) ([]domain.ManualRequest, error)
	Tickets(ctx context.Context, filter domain.TicketFilter) ([]domain.TicketEntry, error)
	Activity(ctx context.Context, raffleID string, limit int) ([]domain.Activity, error)
}

type AdminHandler struct {
	raffles RaffleService
	reports ReportService
}

func New(raffles RaffleService, reports ReportService) *AdminHandler {
	return &AdminHandler{
		raffles: raffles,
		reports: reports,
	}
}

// UpdateRaffle godoc
//
//	@Summary		Edit a raffle
//	@Description	Only the fields present are changed. Capacity can never drop below the numbers already sold.
//	@Tags			Admin
//	@Accept			json
//	@Produce		json
//	@Param			id		path	string						true	"Raffle ID"
//	@Param			update	body	raffleservice.RaffleUpdate	true	"Fields to change"
//	@Security		BearerAuth
//	@Success		200	{object}	dto.RaffleResponseDTO
//	@Failure		409	{object}	utils.Response	"Raffle closed or capacity below sold"
//	@Router			/api/admin/raffles/{id} [patch]
func (h *AdminHandler) UpdateRaffle(w http.ResponseWriter, r *http.Request) {
	var upd raffleservice.RaffleUpdate
	if err := json.NewDecoder(r.Body).Decode(&upd); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	raffle, err := h.raffles.Update(r.Context(), auth.ActorFromContext(r.Context()), chi.URLParam(r, "id"), upd)
	if err != nil {
		apierr.Respond(w, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, dto.NewRaffleResponse(raffle, nil))
}

// DeleteRaffle godoc
//
//	@Summary	Delete a raffle with its records and requests
//	@Tags		Admin
//	@Param		id	path	string	true	"Raffle ID"
//	@Security	BearerAuth
//	@Success	204
//	@Failure	403	{object}	utils.Response	"Only the superadmin or the creator may delete"
//	@Failure	404	{object}	utils.Response	"Raffle not found"
//	@Router		/api/admin/raffles/{id} [delete]
func (h *AdminHandler) DeleteRaffle(w http.ResponseWriter, r *http.Request) {
	if err := h.raffles.Delete(r.Context(), auth.ActorFromContext(r.Context()), chi.URLParam(r, "id")); err != nil {
		apierr.Respond(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// ManualRequests godoc
//
//	@Summary	List manual payment requests
//	@Tags		Admin
//	@Produce	json
//	@Param		status	query	string	false	"pending, approved or rejected"
//	@Security	BearerAuth
//	@Success	200	{array}	dto.ManualRequestResponseDTO
//	@Router		/api/admin/manual-payments [get]
func (h *AdminHandler) ManualRequests(w http.ResponseWriter, r *http.Request) {
	status := domain.RequestStatus(r.URL.Query().Get("status"))
	switch status {
	case "", domain.RequestPending, domain.RequestApproved, domain.RequestRejected:
	default:
		utils.RespondWithError(w, http.StatusBadRequest, "invalid status")
		return
	}

	requests, err := h.reports.ManualRequests(r.Context(), status)
	if err != nil {
		apierr.Respond(w, err)
		return
	}
	response := make([]dto.ManualRequestResponseDTO, 0, len(requests))
	for i := range requests {
		response = append(response, dto.NewManualRequestResponse(&requests[i]))
	}
	utils.RespondWithJSON(w, http.StatusOK, response)
}

func (h *AdminHandler) Approve(w http.ResponseWriter, r *http.Request) {
	h.resolve(w, r, raffleservice.DecisionApprove)
}

func (h *AdminHandler) Reject(w http.ResponseWriter, r *http.Request) {
	h.resolve(w, r, raffleservice.DecisionReject)
}

func (h *AdminHandler) resolve(w http.ResponseWriter, r *http.Request, decision raffleservice.Decision) {
	actor := auth.ActorFromContext(r.Context())

	rec, req, err := h.raffles.ResolveManual(r.Context(), chi.URLParam(r, "id"), actor.ID, decision)
	if err != nil {
		apierr.Respond(w, err)
		return
	}
	resp := dto.ResolveResponseDTO{Request: dto.NewManualRequestResponse(req)}
	if rec != nil {
		record := dto.NewRecordResponse(rec)
		resp.Record = &record
	}
	utils.RespondWithJSON(w, http.StatusOK, resp)
}

func parseTime(v string) (*time.Time, error) {
	if v == "" {
		return nil, nil
	}
	t, err := time.Parse(time.RFC3339, v)
	if err != nil {
		if t, err = time.Parse(time.DateOnly, v); err != nil {
			return nil, err
		}
	}
	return &t, nil
}

func ticketFilter(r *http.Request) (domain.TicketFilter, error) {
	q := r.URL.Query()
	filter := domain.TicketFilter{
		RaffleID: q.Get("raffle_id"),
		OwnerID:  q.Get("owner_id"),
		Status:   q.Get("status"),
	}
	var err error
	if filter.From, err = parseTime(q.Get("from")); err != nil {
		return filter, err
	}
	if filter.To, err = parseTime(q.Get("to")); err != nil {
		return filter, err
	}
	return filter, nil
}

var csvHeader = []string{
	"raffle_id", "raffle_title", "number", "quantity", "status", "owner_id",
	"first_name", "last_name", "cedula", "phone", "email", "channel", "receipt_code", "created_at",
}

func csvRow(e domain.TicketEntry) []string {
	number := ""
	if e.Number != nil {
		number = domain.FormatNumber(*e.Number)
	}
	return []string{
		e.RaffleID, e.RaffleTitle, number, strconv.Itoa(e.Quantity), e.Status, e.OwnerID,
		e.Buyer.FirstName, e.Buyer.LastName, e.Buyer.Cedula, e.Buyer.Phone, e.Buyer.Email,
		string(e.Channel), e.ReceiptCode, e.CreatedAt.Format(time.RFC3339),
	}
}

// Tickets godoc
//
//	@Summary		Export tickets
//	@Description	Every issued number plus unresolved manual requests. format=csv returns a spreadsheet-friendly file.
//	@Tags			Admin
//	@Produce		json
//	@Produce		text/csv
//	@Param			raffle_id	query	string	false	"Raffle ID"
//	@Param			status		query	string	false	"approved, winner, loser, pending or rejected"
//	@Param			from		query	string	false	"RFC3339 or YYYY-MM-DD"
//	@Param			to			query	string	false	"RFC3339 or YYYY-MM-DD"
//	@Param			format		query	string	false	"json or csv"
//	@Security		BearerAuth
//	@Success		200	{array}		domain.TicketEntry
//	@Failure		400	{object}	utils.Response	"Invalid filter"
//	@Router			/api/admin/tickets [get]
func (h *AdminHandler) Tickets(w http.ResponseWriter, r *http.Request) {
	filter, err := ticketFilter(r)
	if err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "invalid date filter")
		return
	}

	entries, err := h.reports.Tickets(r.Context(), filter)
	if err != nil {
		apierr.Respond(w, err)
		return
	}
	if r.URL.Query().Get("format") != "csv" {
		utils.RespondWithJSON(w, http.StatusOK, entries)
		return
	}

	w.Header().Set("Content-Type", "text/csv")
	w.Header().Set("Content-Disposition", `attachment; filename="tickets.csv"`)
	w.WriteHeader(http.StatusOK)

	cw := csv.NewWriter(w)
	_ = cw.Write(csvHeader)
	for _, e := range entries {
		_ = cw.Write(csvRow(e))
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		zap.L().Error("failed to write tickets export", zap.Error(err))
	}
}

func (h *AdminHandler) Activity(w http.ResponseWriter, r *http.Request) {
	limit := 0
	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			utils.RespondWithError(w, http.StatusBadRequest, "invalid limit")
			return
		}
		limit = n
	}

	entries, err := h.reports.Activity(r.Context(), r.URL.Query().Get("raffle_id"), limit)
	if err != nil {
		apierr.Respond(w, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, entries)
}
