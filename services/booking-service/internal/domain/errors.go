package domain

import "errors"

var (
	ErrExperienceNotFound = errors.New("experience not found")
	ErrBookingNotFound    = errors.New("booking not found")
	ErrCapacityExceeded   = errors.New("not enough seats left")
	ErrInvalidStatus      = errors.New("invalid booking status for this operation")
	ErrInvalidCredentials = errors.New("invalid email or password")
)

// ValidationError marks bad request input so transports can map it to 400.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return e.Field + ": " + e.Reason
}

func Invalid(field, reason string) error {
	return &ValidationError{Field: field, Reason: reason}
}

func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}
