package middleware

import (
	"log/slog"
	"net/http"
	"strings"

	"github.com/google/uuid"
	"github.com/phrazzld/studyhall/internal/api/shared"
	"github.com/phrazzld/studyhall/internal/platform/logger"
)

// UserIDHeader carries the caller's id. Authentication happens upstream of
// this service, which trusts the header as given.
const UserIDHeader = "X-User-ID"

// Identity reads UserIDHeader and stores the parsed id in the request
// context. Requests without a usable id are refused.
func Identity(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		raw := strings.TrimSpace(r.Header.Get(UserIDHeader))
		if raw == "" {
			shared.RespondWithError(w, r, http.StatusUnauthorized, UserIDHeader+" header required")
			return
		}

		userID, err := uuid.Parse(raw)
		if err != nil || userID == uuid.Nil {
			shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid "+UserIDHeader+" header")
			return
		}

		ctx := shared.WithUserID(r.Context(), userID)
		log := logger.FromContext(ctx).With(slog.String("user_id", userID.String()))
		ctx = logger.WithLogger(ctx, log)

		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// GetUserID returns the id Identity stored in the request context.
func GetUserID(r *http.Request) (uuid.UUID, bool) {
	return shared.UserIDFromContext(r.Context())
}
