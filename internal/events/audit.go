package events

import (
	"context"
	"log/slog"
)

// AuditHandler writes every event to a structured log.
type AuditHandler struct {
	logger *slog.Logger
}

// NewAuditHandler creates an audit handler logging through logger.
func NewAuditHandler(logger *slog.Logger) *AuditHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &AuditHandler{logger: logger.With(slog.String("component", "audit"))}
}

// HandleEvent implements EventHandler.
func (h *AuditHandler) HandleEvent(ctx context.Context, event *Event) error {
	level := slog.LevelInfo
	if event.Type == TypeLevelDown {
		level = slog.LevelWarn
	}
	h.logger.LogAttrs(ctx, level, "progression event",
		slog.String("event_id", event.ID.String()),
		slog.String("event_type", string(event.Type)),
		slog.String("user_id", event.UserID.String()),
		slog.String("payload", string(event.Payload)),
		slog.Time("created_at", event.CreatedAt))
	return nil
}
