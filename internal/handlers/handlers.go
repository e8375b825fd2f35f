package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	httpSwagger "github.com/swaggo/http-swagger"

	_ "github.com/GlebRadaev/rafflehub/docs"
	accounthandlers "github.com/GlebRadaev/rafflehub/internal/handlers/account"
	adminhandlers "github.com/GlebRadaev/rafflehub/internal/handlers/admin"
	rafflehandlers "github.com/GlebRadaev/rafflehub/internal/handlers/raffles"
	"github.com/GlebRadaev/rafflehub/internal/service"
	"github.com/GlebRadaev/rafflehub/pkg/auth"
)

type RaffleHandler interface {
	List(w http.ResponseWriter, r *http.Request)
	Create(w http.ResponseWriter, r *http.Request)
	Get(w http.ResponseWriter, r *http.Request)
	Progress(w http.ResponseWriter, r *http.Request)
	Taken(w http.ResponseWriter, r *http.Request)
	Allocate(w http.ResponseWriter, r *http.Request)
	Purchase(w http.ResponseWriter, r *http.Request)
	SubmitManual(w http.ResponseWriter, r *http.Request)
	Draw(w http.ResponseWriter, r *http.Request)
}

type AccountHandler interface {
	GetWallet(w http.ResponseWriter, r *http.Request)
	Deposit(w http.ResponseWriter, r *http.Request)
	GetProfile(w http.ResponseWriter, r *http.Request)
	UpsertProfile(w http.ResponseWriter, r *http.Request)
	Tickets(w http.ResponseWriter, r *http.Request)
	Receipt(w http.ResponseWriter, r *http.Request)
}

type AdminHandler interface {
	UpdateRaffle(w http.ResponseWriter, r *http.Request)
	DeleteRaffle(w http.ResponseWriter, r *http.Request)
	ManualRequests(w http.ResponseWriter, r *http.Request)
	Approve(w http.ResponseWriter, r *http.Request)
	Reject(w http.ResponseWriter, r *http.Request)
	Tickets(w http.ResponseWriter, r *http.Request)
	Activity(w http.ResponseWriter, r *http.Request)
}

type Handlers struct {
	RaffleHandler  RaffleHandler
	AccountHandler AccountHandler
	AdminHandler   AdminHandler
	jwtService     auth.JWTServiceInterface
}

func New(s *service.Services, jwtService auth.JWTServiceInterface) *Handlers {
	return &Handlers{
		RaffleHandler:  rafflehandlers.New(s.RaffleService),
		AccountHandler: accounthandlers.New(s.WalletService, s.OwnerService, s.TicketService),
		AdminHandler:   adminhandlers.New(s.RaffleService, s.TicketService),
		jwtService:     jwtService,
	}
}

func (h *Handlers) InitRoutes(r chi.Router) chi.Router {
	r.Use(
		middleware.RealIP,
		middleware.Recoverer,
		middleware.Logger,
	)
	r.Get("/swagger/*", httpSwagger.Handler(
		httpSwagger.URL("doc.json"),
	))

	authenticated := auth.AuthMiddleware(h.jwtService)

	r.Route("/api/raffles", func(r chi.Router) {
		r.Get("/{id}/tickets", h.RaffleHandler.Taken)

		r.Group(func(r chi.Router) {
			r.Use(authenticated)
			r.Get("/", h.RaffleHandler.List)
			r.Post("/", h.RaffleHandler.Create)
			r.Route("/{id}", func(r chi.Router) {
				r.Get("/", h.RaffleHandler.Get)
				r.Get("/progress", h.RaffleHandler.Progress)
				r.Post("/allocation", h.RaffleHandler.Allocate)
				r.Post("/purchase", h.RaffleHandler.Purchase)
				r.Post("/manual-payments", h.RaffleHandler.SubmitManual)
				r.Post("/draw", h.RaffleHandler.Draw)
			})
		})
	})
	r.Route("/api/user", func(r chi.Router) {
		r.Use(authenticated)
		r.Get("/wallet", h.AccountHandler.GetWallet)
		r.Post("/wallet/deposit", h.AccountHandler.Deposit)
		r.Get("/profile", h.AccountHandler.GetProfile)
		r.Put("/profile", h.AccountHandler.UpsertProfile)
		r.Get("/tickets", h.AccountHandler.Tickets)
	})
	r.With(authenticated).Get("/api/receipts/{code}", h.AccountHandler.Receipt)
	r.Route("/api/admin", func(r chi.Router) {
		r.Use(authenticated, auth.AdminOnly)
		r.Patch("/raffles/{id}", h.AdminHandler.UpdateRaffle)
		r.Delete("/raffles/{id}", h.AdminHandler.DeleteRaffle)
		r.Get("/manual-payments", h.AdminHandler.ManualRequests)
		r.Post("/manual-payments/{id}/approve", h.AdminHandler.Approve)
		r.Post("/manual-payments/{id}/reject", h.AdminHandler.Reject)
		r.Get("/tickets", h.AdminHandler.Tickets)
		r.Get("/activity", h.AdminHandler.Activity)
	})

	return r
}
