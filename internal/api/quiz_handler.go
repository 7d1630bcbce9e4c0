package api

import (
	"log/slog"
	"net/http"

	"github.com/google/uuid"
	"github.com/phrazzld/studyhall/internal/api/shared"
	"github.com/phrazzld/studyhall/internal/platform/logger"
	"github.com/phrazzld/studyhall/internal/quiz"
)

// QuizHandler exposes the per-deck quiz session engines.
type QuizHandler struct {
	registry *quiz.Registry
	logger   *slog.Logger
}

// NewQuizHandler creates a QuizHandler.
func NewQuizHandler(registry *quiz.Registry, logger *slog.Logger) *QuizHandler {
	if registry == nil {
		// ALLOW-PANIC: Constructor enforcing required dependency
		panic("registry cannot be nil for QuizHandler")
	}
	if logger == nil {
		// ALLOW-PANIC: Constructor enforcing required dependency
		panic("logger cannot be nil for QuizHandler")
	}
	return &QuizHandler{
		registry: registry,
		logger:   logger.With(slog.String("component", "quiz_handler")),
	}
}

// LoadSession handles POST /api/decks/{id}/session. It (re)loads the deck
// and starts a new traversal.
func (h *QuizHandler) LoadSession(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)
	userID, deckID, ok := handleUserIDAndPathUUID(w, r, "id", log)
	if !ok {
		return
	}

	engine := h.registry.GetOrCreate(userID, deckID)
	if err := engine.Load(r.Context(), deckID, userID); err != nil {
		if engine.Snapshot().Phase == quiz.PhaseIdle {
			h.registry.Remove(userID, deckID)
		}
		HandleAPIError(w, r, err, "Failed to load deck")
		return
	}
	shared.RespondWithJSON(w, r, http.StatusOK, SessionResponse{Session: engine.Snapshot()})
}

// GetSession handles GET /api/decks/{id}/session.
func (h *QuizHandler) GetSession(w http.ResponseWriter, r *http.Request) {
	engine, ok := h.engine(w, r)
	if !ok {
		return
	}
	shared.RespondWithJSON(w, r, http.StatusOK, SessionResponse{Session: engine.Snapshot()})
}

// Answer handles POST /api/decks/{id}/session/answer.
func (h *QuizHandler) Answer(w http.ResponseWriter, r *http.Request) {
	engine, ok := h.engine(w, r)
	if !ok {
		return
	}
	var req AnswerRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	outcome, err := engine.SelectAnswer(uuid.MustParse(req.CardID), req.Option)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to record answer")
		return
	}
	shared.RespondWithJSON(w, r, http.StatusOK, SessionResponse{Session: engine.Snapshot(), Outcome: outcome})
}

// Reveal handles POST /api/decks/{id}/session/reveal.
func (h *QuizHandler) Reveal(w http.ResponseWriter, r *http.Request) {
	engine, ok := h.engine(w, r)
	if !ok {
		return
	}
	var req CardRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	answer, err := engine.Reveal(uuid.MustParse(req.CardID))
	if err != nil {
		HandleAPIError(w, r, err, "Failed to reveal answer")
		return
	}
	shared.RespondWithJSON(w, r, http.StatusOK, SessionResponse{Session: engine.Snapshot(), Answer: answer})
}

// Advance handles POST /api/decks/{id}/session/advance.
func (h *QuizHandler) Advance(w http.ResponseWriter, r *http.Request) {
	h.move(w, r, (*quiz.Engine).Advance)
}

// Retreat handles POST /api/decks/{id}/session/retreat.
func (h *QuizHandler) Retreat(w http.ResponseWriter, r *http.Request) {
	h.move(w, r, (*quiz.Engine).Retreat)
}

func (h *QuizHandler) move(w http.ResponseWriter, r *http.Request, step func(*quiz.Engine) (int, error)) {
	engine, ok := h.engine(w, r)
	if !ok {
		return
	}
	if _, err := step(engine); err != nil {
		HandleAPIError(w, r, err, "Failed to move")
		return
	}
	shared.RespondWithJSON(w, r, http.StatusOK, SessionResponse{Session: engine.Snapshot()})
}

// Reset handles POST /api/decks/{id}/session/reset.
func (h *QuizHandler) Reset(w http.ResponseWriter, r *http.Request) {
	engine, ok := h.engine(w, r)
	if !ok {
		return
	}
	if err := engine.ResetSession(); err != nil {
		HandleAPIError(w, r, err, "Failed to reset session")
		return
	}
	shared.RespondWithJSON(w, r, http.StatusOK, SessionResponse{Session: engine.Snapshot()})
}

// Complete handles POST /api/decks/{id}/session/complete. The result is
// omitted when the session is not finished or was already submitted.
func (h *QuizHandler) Complete(w http.ResponseWriter, r *http.Request) {
	engine, ok := h.engine(w, r)
	if !ok {
		return
	}
	result, err := engine.CompleteIfDone(r.Context())
	if err != nil {
		HandleAPIError(w, r, err, "Failed to complete session")
		return
	}
	shared.RespondWithJSON(w, r, http.StatusOK, SessionResponse{Session: engine.Snapshot(), Result: result})
}

// engine returns the caller's engine for the deck in the path, writing a 409
// if no session has been loaded.
func (h *QuizHandler) engine(w http.ResponseWriter, r *http.Request) (*quiz.Engine, bool) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)
	userID, deckID, ok := handleUserIDAndPathUUID(w, r, "id", log)
	if !ok {
		return nil, false
	}
	engine, found := h.registry.Get(userID, deckID)
	if !found {
		HandleAPIError(w, r, quiz.ErrNoDeckLoaded, "")
		return nil, false
	}
	return engine, true
}
