package quiz

import (
	"log/slog"
	"sync"

	"github.com/google/uuid"
)

type sessionKey struct {
	userID uuid.UUID
	deckID uuid.UUID
}

// Registry holds one Engine per user and deck for the HTTP layer.
type Registry struct {
	mu      sync.Mutex
	engines map[sessionKey]*Engine
	newDeps func() Dependencies
	logger  *slog.Logger
}

// NewRegistry creates a registry. newDeps is called once per engine created,
// so each engine can get its own random source.
func NewRegistry(newDeps func() Dependencies, logger *slog.Logger) *Registry {
	if newDeps == nil {
		panic("dependency factory cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Registry{
		engines: make(map[sessionKey]*Engine),
		newDeps: newDeps,
		logger:  logger.With(slog.String("component", "quiz_registry")),
	}
}

// GetOrCreate returns the engine for the user and deck, creating an idle one
// if none exists.
func (r *Registry) GetOrCreate(userID, deckID uuid.UUID) *Engine {
	r.mu.Lock()
	defer r.mu.Unlock()

	key := sessionKey{userID: userID, deckID: deckID}
	if e, ok := r.engines[key]; ok {
		return e
	}
	deps := r.newDeps()
	if deps.Logger == nil {
		deps.Logger = r.logger
	}
	e := NewEngine(deps)
	r.engines[key] = e
	return e
}

// Get returns the engine for the user and deck, if any.
func (r *Registry) Get(userID, deckID uuid.UUID) (*Engine, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	e, ok := r.engines[sessionKey{userID: userID, deckID: deckID}]
	return e, ok
}

// Remove drops the engine for the user and deck.
func (r *Registry) Remove(userID, deckID uuid.UUID) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.engines, sessionKey{userID: userID, deckID: deckID})
}

// Len returns the number of live engines.
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.engines)
}
