package httpapi

import (
	"errors"
	"net/http"

	"github.com/you/ode-foodhall/services/booking-service/internal/domain"
	"github.com/you/ode-foodhall/services/booking-service/internal/repository"
)

// statusFor maps domain errors to the HTTP taxonomy: 400 validation
// and capacity, 404 not found, 401 bad credentials, 500 everything
// else with the raw message passed through.
func statusFor(err error) int {
	switch {
	case domain.IsValidation(err), errors.Is(err, domain.ErrCapacityExceeded):
		return http.StatusBadRequest
	case errors.Is(err, domain.ErrExperienceNotFound),
		errors.Is(err, domain.ErrBookingNotFound),
		errors.Is(err, repository.ErrVendorNotFound):
		return http.StatusNotFound
	case errors.Is(err, domain.ErrInvalidCredentials):
		return http.StatusUnauthorized
	case errors.Is(err, domain.ErrInvalidStatus):
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}
