package domain

import "errors"

var (
	ErrFlightNotFound  = errors.New("flight not found")
	ErrBookingNotFound = errors.New("booking not found")
	ErrUserNotFound    = errors.New("user not found")

	ErrAlreadyCancelled       = errors.New("booking already cancelled")
	ErrAlreadyCheckedIn       = errors.New("booking already checked in")
	ErrInvalidStateTransition = errors.New("invalid booking state transition")

	ErrSeatUnavailable = errors.New("no seats available in requested class")

	ErrCheckInNotOpen = errors.New("check-in is not open yet")
	ErrFlightDeparted = errors.New("flight has already departed")

	ErrUnauthorized = errors.New("unauthorized")
	ErrForbidden    = errors.New("forbidden")

	ErrUserAlreadyExists  = errors.New("user already exists")
	ErrInvalidCredentials = errors.New("invalid credentials")
)

// ValidationError reports a malformed or missing request field.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return "validation: " + e.Field + ": " + e.Reason
}

func NewValidationError(field, reason string) error {
	return &ValidationError{Field: field, Reason: reason}
}

func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}
