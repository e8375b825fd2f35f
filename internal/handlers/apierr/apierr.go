package apierr

import (
	"context"
	"errors"
	"net/http"

	"go.uber.org/zap"

	"github.com/GlebRadaev/rafflehub/internal/locker"
	"github.com/GlebRadaev/rafflehub/internal/service/ownerservice"
	"github.com/GlebRadaev/rafflehub/internal/service/raffleservice"
	"github.com/GlebRadaev/rafflehub/internal/service/ticketservice"
	"github.com/GlebRadaev/rafflehub/internal/service/walletservice"
	"github.com/GlebRadaev/rafflehub/pkg/utils"
)

const internal = "Internal server error"

var statuses = []struct {
	err    error
	status int
}{
	{raffleservice.ErrRaffleNotFound, http.StatusNotFound},
	{raffleservice.ErrRequestNotFound, http.StatusNotFound},
	{ticketservice.ErrReceiptNotFound, http.StatusNotFound},

	{raffleservice.ErrForbidden, http.StatusForbidden},
	{raffleservice.ErrInvalidSecurityCode, http.StatusForbidden},

	{raffleservice.ErrRaffleNotActive, http.StatusConflict},
	{raffleservice.ErrRaffleClosed, http.StatusConflict},
	{raffleservice.ErrInsufficientAvailability, http.StatusConflict},
	{raffleservice.ErrRequestAlreadyProcessed, http.StatusConflict},
	{raffleservice.ErrNoParticipants, http.StatusConflict},
	{raffleservice.ErrCapacityBelowSold, http.StatusConflict},

	{walletservice.ErrInsufficientFunds, http.StatusPaymentRequired},

	{raffleservice.ErrInvalidQuantity, http.StatusUnprocessableEntity},
	{raffleservice.ErrInvalidNumber, http.StatusUnprocessableEntity},
	{raffleservice.ErrQuantityMismatch, http.StatusUnprocessableEntity},
	{raffleservice.ErrInvalidStatus, http.StatusUnprocessableEntity},
	{raffleservice.ErrInvalidDecision, http.StatusUnprocessableEntity},
	{raffleservice.ErrInvalidPrice, http.StatusUnprocessableEntity},
	{raffleservice.ErrInvalidCapacity, http.StatusUnprocessableEntity},
	{raffleservice.ErrInvalidTitle, http.StatusUnprocessableEntity},
	{raffleservice.ErrInvalidDates, http.StatusUnprocessableEntity},
	{raffleservice.ErrSecurityCodeRequired, http.StatusUnprocessableEntity},
	{walletservice.ErrInvalidAmount, http.StatusUnprocessableEntity},
	{ownerservice.ErrInvalidProfile, http.StatusUnprocessableEntity},
	{ticketservice.ErrInvalidStatus, http.StatusUnprocessableEntity},

	{locker.ErrLockNotAcquired, http.StatusServiceUnavailable},
	{context.DeadlineExceeded, http.StatusServiceUnavailable},
}

// Status maps a service error to its HTTP status code.
func Status(err error) int {
	for _, s := range statuses {
		if errors.Is(err, s.err) {
			return s.status
		}
	}
	return http.StatusInternalServerError
}

// Respond writes err as a JSON error body. Unknown errors are logged and
// reported without details.
func Respond(w http.ResponseWriter, err error) {
	status := Status(err)
	if status == http.StatusInternalServerError {
		zap.L().Error("request failed", zap.Error(err))
		utils.RespondWithError(w, status, internal)
		return
	}
	utils.RespondWithError(w, status, err.Error())
}
