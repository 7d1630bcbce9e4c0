package service

import (
	"errors"
	"fmt"
)

// Sentinel errors shared by the progression services. Callers check them with
// errors.Is; the API layer maps each to a status code.
var (
	// ErrInsufficientXP indicates the user cannot afford a purchase.
	// API layer should map this to HTTP 402 Payment Required.
	ErrInsufficientXP = errors.New("insufficient xp")

	// ErrItemNotOwned indicates an equip or unequip of an item the user never bought.
	ErrItemNotOwned = errors.New("item not owned")

	// ErrItemNotFound indicates the shop item does not exist.
	ErrItemNotFound = errors.New("shop item not found")

	// ErrProfileNotFound indicates the user has no progress profile.
	ErrProfileNotFound = errors.New("profile not found")
)

// InsufficientXPError carries the amounts behind an ErrInsufficientXP.
type InsufficientXPError struct {
	Required  int
	Available int
}

// Error implements the error interface.
func (e *InsufficientXPError) Error() string {
	return fmt.Sprintf("insufficient xp: need %d, have %d", e.Required, e.Available)
}

// Is makes errors.Is(err, ErrInsufficientXP) true.
func (e *InsufficientXPError) Is(target error) bool {
	return target == ErrInsufficientXP
}

// ServiceError wraps an unexpected failure with the service and operation it
// came from, so callers can use errors.As instead of string matching.
type ServiceError struct {
	// Service is the failing service (e.g. "shop", "achievement")
	Service string
	// Operation is the failing operation (e.g. "purchase", "check_and_unlock")
	Operation string
	Message   string
	Err       error
}

// Error implements the error interface for ServiceError.
func (e *ServiceError) Error() string {
	prefix := fmt.Sprintf("%s service %s failed", e.Service, e.Operation)
	switch {
	case e.Message != "" && e.Err != nil:
		return fmt.Sprintf("%s: %s: %v", prefix, e.Message, e.Err)
	case e.Err != nil:
		return fmt.Sprintf("%s: %v", prefix, e.Err)
	case e.Message != "":
		return fmt.Sprintf("%s: %s", prefix, e.Message)
	default:
		return prefix
	}
}

// Unwrap returns the wrapped error to support errors.Is/errors.As.
func (e *ServiceError) Unwrap() error {
	return e.Err
}

// NewServiceError creates a ServiceError.
func NewServiceError(service, operation, message string, err error) *ServiceError {
	return &ServiceError{
		Service:   service,
		Operation: operation,
		Message:   message,
		Err:       err,
	}
}
