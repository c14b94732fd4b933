package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"insurewise-backend/internal/services"
	"insurewise-backend/pkg/utils"
)

// statusFor maps operational service errors to HTTP statuses. Anything not
// listed is unexpected.
var statusFor = map[error]int{
	services.ErrInvalidAmount:         http.StatusBadRequest,
	services.ErrInsufficientFunds:     http.StatusBadRequest,
	services.ErrWalletInactive:        http.StatusBadRequest,
	services.ErrWalletNotFound:        http.StatusNotFound,
	services.ErrTransactionMissing:    http.StatusNotFound,
	services.ErrAlreadyProcessed:      http.StatusBadRequest,
	services.ErrClaimNotFound:         http.StatusNotFound,
	services.ErrInvalidTransition:     http.StatusBadRequest,
	services.ErrNotesRequired:         http.StatusBadRequest,
	services.ErrApprovedAmountHigh:    http.StatusBadRequest,
	services.ErrGroupNotFound:         http.StatusNotFound,
	services.ErrGroupNotDraft:         http.StatusBadRequest,
	services.ErrGroupNotActive:        http.StatusBadRequest,
	services.ErrGroupFull:             http.StatusBadRequest,
	services.ErrDuplicateMember:       http.StatusBadRequest,
	services.ErrNotMember:             http.StatusForbidden,
	services.ErrNotEnoughMembers:      http.StatusBadRequest,
	services.ErrWrongAmount:           http.StatusBadRequest,
	services.ErrDuplicateContribution: http.StatusBadRequest,
	services.ErrNotGroupCreator:       http.StatusForbidden,
	services.ErrPlanNotFound:          http.StatusNotFound,
	services.ErrSubscriptionNotFound:  http.StatusNotFound,
}

// serviceError answers a request that failed in the business layer.
// Operational errors go back with their message; anything else is logged and
// hidden behind a generic 500.
func serviceError(c *gin.Context, err error) {
	for known, code := range statusFor {
		if errors.Is(err, known) {
			utils.APIResponse(c, code, false, err.Error(), nil)
			return
		}
	}

	log.Error().Err(err).Str("path", c.FullPath()).Msg("unexpected error")
	utils.APIResponse(c, http.StatusInternalServerError, false, "Something went wrong", nil)
}

// currentUser reads the identity set by the auth middleware.
func currentUser(c *gin.Context) (uint64, string) {
	userID, _ := c.Get("userID")
	role, _ := c.Get("role")
	id, _ := userID.(uint64)
	r, _ := role.(string)
	return id, r
}
