package quiz

import (
	"github.com/google/uuid"
)

// Phase is the engine's lifecycle state.
type Phase int

const (
	PhaseIdle Phase = iota
	PhaseLoading
	PhaseReady
	PhaseCompleting
	PhaseCompleted
)

var phaseNames = [...]string{"idle", "loading", "ready", "completing", "completed"}

func (p Phase) String() string {
	if p < 0 || int(p) >= len(phaseNames) {
		return "unknown"
	}
	return phaseNames[p]
}

// MarshalText implements encoding.TextMarshaler.
func (p Phase) MarshalText() ([]byte, error) { return []byte(p.String()), nil }

// CardStatus is the outcome recorded for a card in the current traversal.
type CardStatus int

const (
	StatusUnanswered CardStatus = iota
	StatusCorrect
	StatusWrong
	// StatusRevealedNoAnswer marks a card whose answer was revealed before
	// any option was chosen. It counts as answered, never as correct.
	StatusRevealedNoAnswer
)

var statusNames = [...]string{"unanswered", "correct", "wrong", "revealed_no_answer"}

func (s CardStatus) String() string {
	if s < 0 || int(s) >= len(statusNames) {
		return "unknown"
	}
	return statusNames[s]
}

// MarshalText implements encoding.TextMarshaler.
func (s CardStatus) MarshalText() ([]byte, error) { return []byte(s.String()), nil }

// Answered reports whether the card counts toward completion.
func (s CardStatus) Answered() bool { return s != StatusUnanswered }

// VisitState is the state of the card currently on screen. It resets each
// time the index moves, even when returning to a card already answered.
type VisitState int

const (
	VisitPending VisitState = iota
	VisitAnswered
	VisitRevealed
)

var visitNames = [...]string{"pending", "answered", "revealed"}

func (v VisitState) String() string {
	if v < 0 || int(v) >= len(visitNames) {
		return "unknown"
	}
	return visitNames[v]
}

// MarshalText implements encoding.TextMarshaler.
func (v VisitState) MarshalText() ([]byte, error) { return []byte(v.String()), nil }

// visit is the transient state of one stay on a card.
type visit struct {
	cardID   uuid.UUID
	state    VisitState
	choices  []string
	selected string
}

// AnswerOutcome is the result of SelectAnswer.
type AnswerOutcome struct {
	CardID  uuid.UUID  `json:"card_id"`
	Correct bool       `json:"correct"`
	Status  CardStatus `json:"status"`
	// AlreadyAnswered is true when the card had been answered earlier in this
	// traversal and the call changed nothing.
	AlreadyAnswered bool `json:"already_answered"`
	SessionXP       int  `json:"session_xp"`
}

// CardView is the current card as shown to the user.
type CardView struct {
	ID       uuid.UUID  `json:"id"`
	Front    string     `json:"front"`
	Choices  []string   `json:"choices"`
	Visit    VisitState `json:"visit"`
	Status   CardStatus `json:"status"`
	Selected string     `json:"selected,omitempty"`
	// Answer is only filled in once the visit has been revealed.
	Answer string `json:"answer,omitempty"`
}

// Snapshot is a read-only copy of the engine state.
type Snapshot struct {
	Phase     Phase     `json:"phase"`
	SessionID uuid.UUID `json:"session_id"`
	DeckID    uuid.UUID `json:"deck_id"`
	DeckTitle string    `json:"deck_title"`
	Index     int       `json:"index"`
	Total     int       `json:"total"`
	Answered  int       `json:"answered"`
	Correct   int       `json:"correct"`
	SessionXP int       `json:"session_xp"`
	Submitted bool      `json:"submitted"`
	Card      *CardView `json:"card,omitempty"`
}
