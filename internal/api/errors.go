package api

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/phrazzld/studyhall/internal/api/shared"
	"github.com/phrazzld/studyhall/internal/domain"
	"github.com/phrazzld/studyhall/internal/quiz"
	"github.com/phrazzld/studyhall/internal/service"
	"github.com/phrazzld/studyhall/internal/store"
)

// MapErrorToStatusCode maps internal errors to HTTP status codes. Unknown
// errors are 500.
func MapErrorToStatusCode(err error) int {
	switch {
	// Quiz failures wrap store errors, so they are matched first.
	case errors.Is(err, quiz.ErrLoadFailed),
		errors.Is(err, quiz.ErrPersistenceFailure):
		return http.StatusInternalServerError

	case errors.Is(err, quiz.ErrAccessDenied),
		errors.Is(err, service.ErrItemNotOwned):
		return http.StatusForbidden

	case errors.Is(err, service.ErrInsufficientXP),
		errors.Is(err, store.ErrInsufficientBalance):
		return http.StatusPaymentRequired

	case errors.Is(err, quiz.ErrDeckNotFound),
		errors.Is(err, service.ErrItemNotFound),
		errors.Is(err, service.ErrProfileNotFound),
		errors.Is(err, store.ErrNotFound):
		return http.StatusNotFound

	case errors.Is(err, quiz.ErrStaleResponse),
		errors.Is(err, quiz.ErrNoDeckLoaded),
		errors.Is(err, quiz.ErrCardNotCurrent),
		errors.Is(err, quiz.ErrAlreadyRevealed),
		errors.Is(err, store.ErrDuplicate):
		return http.StatusConflict

	case errors.Is(err, store.ErrInvalidEntity),
		errors.Is(err, domain.ErrValidation),
		errors.Is(err, domain.ErrInvalidID),
		errors.Is(err, domain.ErrEmptyContent),
		errors.Is(err, shared.ErrEmptyBody):
		return http.StatusBadRequest

	default:
		return http.StatusInternalServerError
	}
}

// GetSafeErrorMessage returns a client-facing message that reveals nothing
// about internals.
func GetSafeErrorMessage(err error) string {
	switch {
	case err == nil:
		return "An unexpected error occurred"

	case errors.Is(err, quiz.ErrLoadFailed):
		return "Failed to load deck"
	case errors.Is(err, quiz.ErrPersistenceFailure):
		return "Failed to save session, please retry"

	case errors.Is(err, quiz.ErrAccessDenied):
		return "You do not have access to this deck"
	case errors.Is(err, service.ErrItemNotOwned):
		return "You do not own this item"

	case errors.Is(err, service.ErrInsufficientXP),
		errors.Is(err, store.ErrInsufficientBalance):
		return "Insufficient XP"

	case errors.Is(err, quiz.ErrDeckNotFound),
		errors.Is(err, store.ErrDeckNotFound):
		return "Deck not found"
	case errors.Is(err, service.ErrItemNotFound),
		errors.Is(err, store.ErrShopItemNotFound):
		return "Shop item not found"
	case errors.Is(err, service.ErrProfileNotFound),
		errors.Is(err, store.ErrProfileNotFound):
		return "Profile not found"
	case errors.Is(err, store.ErrNotFound):
		return "Not found"

	case errors.Is(err, quiz.ErrStaleResponse):
		return "Request was superseded by a newer one"
	case errors.Is(err, quiz.ErrNoDeckLoaded):
		return "No deck loaded"
	case errors.Is(err, quiz.ErrCardNotCurrent):
		return "Card is not the current card"
	case errors.Is(err, quiz.ErrAlreadyRevealed):
		return "Answer already revealed"
	case errors.Is(err, store.ErrDuplicate):
		return "Already exists"

	case errors.Is(err, shared.ErrEmptyBody):
		return "Request body required"
	case errors.Is(err, store.ErrInvalidEntity),
		errors.Is(err, domain.ErrValidation),
		errors.Is(err, domain.ErrInvalidID),
		errors.Is(err, domain.ErrEmptyContent):
		return "Invalid request data"

	default:
		return "An unexpected error occurred"
	}
}

// HandleAPIError writes the mapped status and safe message for err. A
// non-empty fallback replaces the generic message of a 500.
func HandleAPIError(w http.ResponseWriter, r *http.Request, err error, fallback string) {
	status := MapErrorToStatusCode(err)
	message := GetSafeErrorMessage(err)
	if status == http.StatusInternalServerError && fallback != "" &&
		!errors.Is(err, quiz.ErrLoadFailed) && !errors.Is(err, quiz.ErrPersistenceFailure) {
		message = fallback
	}

	var opts []shared.ResponseOption
	var insufficient *service.InsufficientXPError
	if errors.As(err, &insufficient) {
		opts = append(opts, shared.WithDetails(map[string]any{
			"required":  insufficient.Required,
			"available": insufficient.Available,
		}))
	}
	if errors.Is(err, quiz.ErrStaleResponse) {
		opts = append(opts, shared.WithElevatedLogLevel())
	}

	shared.RespondWithErrorAndLog(w, r, status, message, err, opts...)
}

// SanitizeValidationError turns a validator error into a message naming the
// field and the failed rule, and nothing else.
func SanitizeValidationError(err error) string {
	msg := err.Error()
	if !strings.Contains(msg, "Field validation") {
		return "Validation error"
	}
	// Format: "Key: 'Req.Field' Error:Field validation for 'Field' failed on the 'tag' tag"
	parts := strings.SplitN(msg, "Error:", 2)
	if len(parts) < 2 {
		return "Validation error"
	}
	quoted := strings.Split(parts[1], "'")
	if len(quoted) < 3 {
		return "Validation error"
	}
	field := quoted[1]
	if len(quoted) >= 5 {
		return fmt.Sprintf("Invalid %s: %s", field, validationTagMessage(quoted[3]))
	}
	return fmt.Sprintf("Invalid %s", field)
}

func validationTagMessage(tag string) string {
	switch tag {
	case "required":
		return "required field"
	case "uuid", "uuid4":
		return "must be a UUID"
	case "min":
		return "too short"
	case "max":
		return "too long"
	default:
		return "validation failed"
	}
}
