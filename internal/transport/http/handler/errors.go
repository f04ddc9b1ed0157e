package handler

import (
	"errors"
	"net/http"

	"github.com/dating-api/internal/application/verification"
	"github.com/dating-api/internal/domain"
)

// writeDomainError maps domain sentinel errors to HTTP status codes. Wrong
// verification codes carry the remaining attempt budget in the body.
func writeDomainError(w http.ResponseWriter, err error) {
	var invalid *verification.InvalidCodeError
	if errors.As(err, &invalid) {
		writeJSON(w, http.StatusBadRequest, struct {
			Success           bool   `json:"success"`
			Error             string `json:"error"`
			AttemptsRemaining int    `json:"attempts_remaining"`
		}{false, invalid.Error(), invalid.AttemptsRemaining})
		return
	}
	writeError(w, statusFor(err), err.Error())
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, domain.ErrValidation),
		errors.Is(err, domain.ErrBadRequest),
		errors.Is(err, domain.ErrCodeExpired),
		errors.Is(err, domain.ErrCodeInvalid),
		errors.Is(err, domain.ErrAttemptsExhausted):
		return http.StatusBadRequest
	case errors.Is(err, domain.ErrUnauthorized):
		return http.StatusUnauthorized
	case errors.Is(err, domain.ErrForbidden):
		return http.StatusForbidden
	case errors.Is(err, domain.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, domain.ErrConflict),
		errors.Is(err, domain.ErrAlreadyRegistered):
		return http.StatusConflict
	case errors.Is(err, domain.ErrDispatch):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}
