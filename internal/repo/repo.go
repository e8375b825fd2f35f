package repo

import (
	"github.com/GlebRadaev/rafflehub/internal/pg"
	activityrepo "github.com/GlebRadaev/rafflehub/internal/repo/activity-repo"
	memrepo "github.com/GlebRadaev/rafflehub/internal/repo/mem-repo"
	ownerrepo "github.com/GlebRadaev/rafflehub/internal/repo/owner-repo"
	rafflerepo "github.com/GlebRadaev/rafflehub/internal/repo/raffle-repo"
	recordrepo "github.com/GlebRadaev/rafflehub/internal/repo/record-repo"
	requestrepo "github.com/GlebRadaev/rafflehub/internal/repo/request-repo"
	walletrepo "github.com/GlebRadaev/rafflehub/internal/repo/wallet-repo"
	"github.com/GlebRadaev/rafflehub/internal/service/ownerservice"
	"github.com/GlebRadaev/rafflehub/internal/service/raffleservice"
	"github.com/GlebRadaev/rafflehub/internal/service/ticketservice"
	"github.com/GlebRadaev/rafflehub/internal/service/walletservice"
)

type RaffleRepo interface {
	raffleservice.RaffleRepo
	ticketservice.RaffleRepo
}

type RecordRepo interface {
	raffleservice.RecordRepo
	ticketservice.RecordRepo
}

type RequestRepo interface {
	raffleservice.RequestRepo
	ticketservice.RequestRepo
}

type OwnerRepo interface {
	raffleservice.OwnerRepo
	ownerservice.Repo
}

type ActivityRepo interface {
	raffleservice.ActivityRepo
	ticketservice.ActivityRepo
}

type Repositories struct {
	Raffles   RaffleRepo
	Records   RecordRepo
	Requests  RequestRepo
	Wallets   walletservice.Repo
	Owners    OwnerRepo
	Activity  ActivityRepo
	TXManager pg.TXManager
}

func New(conn pg.Database, txManager pg.TXManager) *Repositories {
	return &Repositories{
		Raffles:   rafflerepo.New(conn),
		Records:   recordrepo.New(conn),
		Requests:  requestrepo.New(conn),
		Wallets:   walletrepo.New(conn),
		Owners:    ownerrepo.New(conn),
		Activity:  activityrepo.New(conn),
		TXManager: txManager,
	}
}

// NewMemory wires every repository to one in-process store.
func NewMemory(store *memrepo.Store) *Repositories {
	return &Repositories{
		Raffles:   store.Raffles(),
		Records:   store.Records(),
		Requests:  store.Requests(),
		Wallets:   store.Wallets(),
		Owners:    store.Owners(),
		Activity:  store.Activity(),
		TXManager: store.TXManager(),
	}
}
