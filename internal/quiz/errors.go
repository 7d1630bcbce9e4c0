package quiz

import "errors"

var (
	// ErrAccessDenied is returned when the user may not study the deck.
	ErrAccessDenied = errors.New("access to deck denied")

	// ErrDeckNotFound is returned when the deck does not exist.
	ErrDeckNotFound = errors.New("deck not found")

	// ErrLoadFailed wraps any other failure while loading a deck. The engine
	// is left as it was before the load started.
	ErrLoadFailed = errors.New("failed to load deck")

	// ErrPersistenceFailure wraps a failed session submission. The session is
	// kept so the submission can be retried.
	ErrPersistenceFailure = errors.New("failed to save session")

	// ErrStaleResponse is returned when a load or submission finished after a
	// newer request superseded it. Its result was not applied.
	ErrStaleResponse = errors.New("stale response discarded")

	// ErrNoDeckLoaded is returned by session operations before a deck is ready.
	ErrNoDeckLoaded = errors.New("no deck loaded")

	// ErrCardNotCurrent is returned when an operation names a card other than
	// the one being shown.
	ErrCardNotCurrent = errors.New("card is not the current card")

	// ErrAlreadyRevealed is returned when answering a card whose answer was
	// revealed before any option was chosen.
	ErrAlreadyRevealed = errors.New("answer already revealed")
)
