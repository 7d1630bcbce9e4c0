// Package domain defines the core business entities and errors.
package domain

import (
	"errors"
	"fmt"
)

// Common domain errors used across the application.
var (
	// ErrValidation is returned when a domain entity fails validation.
	// This is often wrapped with a more specific error message.
	ErrValidation = errors.New("validation failed")

	// ErrInvalidID is returned when an ID is malformed or invalid.
	ErrInvalidID = errors.New("invalid ID")

	// ErrEmptyContent is returned when required content is empty.
	ErrEmptyContent = errors.New("content cannot be empty")

	// ErrNegativeXP is returned when an XP amount or balance would drop below zero.
	ErrNegativeXP = errors.New("xp cannot be negative")

	// ErrLevelMismatch is returned when a stored level disagrees with its XP.
	ErrLevelMismatch = errors.New("level does not match xp")

	// ErrInvalidSlot is returned for an unknown equip slot or item type.
	ErrInvalidSlot = errors.New("invalid equip slot")

	// ErrInvalidAchievementKind is returned for an unknown achievement kind.
	ErrInvalidAchievementKind = errors.New("invalid achievement kind")
)

// ValidationError describes a single field that failed validation.
// It unwraps to ErrValidation so callers can test for the category.
type ValidationError struct {
	Field   string
	Message string
	Err     error
}

// Error implements the error interface.
func (e *ValidationError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("validation failed on %s: %s: %v", e.Field, e.Message, e.Err)
	}
	return fmt.Sprintf("validation failed on %s: %s", e.Field, e.Message)
}

// Unwrap exposes both the category sentinel and the specific cause.
func (e *ValidationError) Unwrap() []error {
	if e.Err != nil {
		return []error{ErrValidation, e.Err}
	}
	return []error{ErrValidation}
}

// NewValidationError builds a ValidationError for the given field.
func NewValidationError(field, message string, err error) *ValidationError {
	return &ValidationError{Field: field, Message: message, Err: err}
}
