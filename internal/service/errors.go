package service

import "errors"

// ErrGuestMode is returned by operations that need a signed-in account.
var ErrGuestMode = errors.New("sign in to use this feature")

// ValidationError rejects input before it reaches any backend.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

func invalid(field, message string) error {
	return &ValidationError{Field: field, Message: message}
}
