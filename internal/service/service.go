package service

import (
	"github.com/GlebRadaev/rafflehub/internal/repo"
	"github.com/GlebRadaev/rafflehub/internal/service/ownerservice"
	"github.com/GlebRadaev/rafflehub/internal/service/raffleservice"
	"github.com/GlebRadaev/rafflehub/internal/service/ticketservice"
	"github.com/GlebRadaev/rafflehub/internal/service/walletservice"
	"github.com/GlebRadaev/rafflehub/pkg/auth"
)

type Locker interface {
	raffleservice.Locker
	walletservice.Locker
}

type Services struct {
	RaffleService *raffleservice.Service
	WalletService *walletservice.Service
	OwnerService  *ownerservice.Service
	TicketService *ticketservice.Service
}

func New(repo *repo.Repositories, locker Locker, notifier raffleservice.Notifier, maxTickets int) *Services {
	hasher := &auth.HashService{}
	walletService := walletservice.New(repo.Wallets, locker)
	ownerService := ownerservice.New(repo.Owners, hasher)
	ticketService := ticketservice.New(repo.Records, repo.Requests, repo.Raffles, repo.Activity)
	raffleService := raffleservice.New(raffleservice.Repos{
		Raffles:  repo.Raffles,
		Records:  repo.Records,
		Requests: repo.Requests,
		Owners:   repo.Owners,
		Activity: repo.Activity,
	}, walletService, repo.TXManager, locker, notifier, hasher, maxTickets)

	return &Services{
		RaffleService: raffleService,
		WalletService: walletService,
		OwnerService:  ownerService,
		TicketService: ticketService,
	}
}
