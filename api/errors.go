package api

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/hznasser/falconair/internal/domain"
)

// respondError maps domain errors onto the HTTP contract: 4xx with an
// error message and a stable machine-readable code.
func respondError(c *gin.Context, err error) {
	status, code := classify(err)
	c.JSON(status, gin.H{"error": err.Error(), "code": code})
}

func classify(err error) (int, string) {
	if domain.IsValidation(err) {
		return http.StatusBadRequest, "VALIDATION_ERROR"
	}
	switch {
	case errors.Is(err, domain.ErrBookingNotFound),
		errors.Is(err, domain.ErrFlightNotFound),
		errors.Is(err, domain.ErrUserNotFound):
		return http.StatusNotFound, "NOT_FOUND"
	case errors.Is(err, domain.ErrAlreadyCancelled):
		return http.StatusBadRequest, "ALREADY_CANCELLED"
	case errors.Is(err, domain.ErrAlreadyCheckedIn):
		return http.StatusBadRequest, "ALREADY_CHECKED_IN"
	case errors.Is(err, domain.ErrInvalidStateTransition):
		return http.StatusBadRequest, "INVALID_STATE_TRANSITION"
	case errors.Is(err, domain.ErrSeatUnavailable):
		return http.StatusBadRequest, "SEAT_UNAVAILABLE"
	case errors.Is(err, domain.ErrCheckInNotOpen):
		return http.StatusBadRequest, "CHECK_IN_NOT_OPEN"
	case errors.Is(err, domain.ErrFlightDeparted):
		return http.StatusBadRequest, "FLIGHT_DEPARTED"
	case errors.Is(err, domain.ErrUserAlreadyExists):
		return http.StatusBadRequest, "USER_ALREADY_EXISTS"
	case errors.Is(err, domain.ErrInvalidCredentials),
		errors.Is(err, domain.ErrUnauthorized):
		return http.StatusUnauthorized, "UNAUTHORIZED"
	case errors.Is(err, domain.ErrForbidden):
		return http.StatusForbidden, "FORBIDDEN"
	default:
		return http.StatusInternalServerError, "INTERNAL"
	}
}
