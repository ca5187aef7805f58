package domain

import "errors"

// Sentinel errors for domain-level error handling.
// The handler layer maps these to HTTP status codes.
var (
	ErrTradeNotFound = errors.New("trade_not_found")
	ErrAlreadyExists = errors.New("already_exists")
)

// ValidationError represents a request validation failure.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}
