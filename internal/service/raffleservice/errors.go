package raffleservice

import "errors"

var (
	ErrInvalidQuantity          = errors.New("invalid quantity")
	ErrInvalidNumber            = errors.New("invalid number")
	ErrQuantityMismatch         = errors.New("quantity does not match selected numbers")
	ErrInsufficientAvailability = errors.New("not enough numbers available")
	ErrRaffleNotActive          = errors.New("raffle is not active")
	ErrRaffleNotFound           = errors.New("raffle not found")
	ErrRequestAlreadyProcessed  = errors.New("request already processed")
	ErrNoParticipants           = errors.New("raffle has no participants")
	ErrCapacityBelowSold        = errors.New("capacity below sold tickets")

	ErrRequestNotFound      = errors.New("manual request not found")
	ErrRaffleClosed         = errors.New("raffle is closed")
	ErrInvalidStatus        = errors.New("invalid status")
	ErrInvalidDecision      = errors.New("invalid decision")
	ErrInvalidPrice         = errors.New("price must be positive with at most two decimals")
	ErrInvalidCapacity      = errors.New("invalid capacity")
	ErrInvalidTitle         = errors.New("title is required")
	ErrInvalidDates         = errors.New("end date before start date")
	ErrForbidden            = errors.New("forbidden")
	ErrSecurityCodeRequired = errors.New("security code required")
	ErrInvalidSecurityCode  = errors.New("invalid security code")
)
