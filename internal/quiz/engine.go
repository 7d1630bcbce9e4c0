package quiz

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math/rand/v2"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/phrazzld/studyhall/internal/domain"
	"github.com/phrazzld/studyhall/internal/events"
	"github.com/phrazzld/studyhall/internal/platform/logger"
	"github.com/phrazzld/studyhall/internal/store"
)

// Dependencies are the collaborators of an Engine.
type Dependencies struct {
	Decks    store.DeckStore
	Sessions store.SessionStore
	// Emitter receives session_completed events. Optional.
	Emitter events.EventEmitter
	// Rand shuffles choices. Defaults to a randomly seeded source.
	Rand *rand.Rand
	// Now stamps session results. Defaults to time.Now in UTC.
	Now    func() time.Time
	Logger *slog.Logger
}

// Engine is the quiz session state machine for one user and one deck.
type Engine struct {
	mu sync.Mutex

	decks    store.DeckStore
	sessions store.SessionStore
	emitter  events.EventEmitter
	rng      *rand.Rand
	now      func() time.Time
	logger   *slog.Logger

	phase     Phase
	userID    uuid.UUID
	deck      *domain.Deck
	cards     []domain.CardItem
	index     int
	status    map[uuid.UUID]CardStatus
	sessionXP int
	visit     visit
	sessionID uuid.UUID
	submitted bool
	// submitting is set while an InsertSessionResult for the current
	// traversal is outstanding.
	submitting bool

	loadToken   uint64
	submitToken uint64
}

// NewEngine creates an idle engine.
func NewEngine(deps Dependencies) *Engine {
	if deps.Decks == nil {
		panic("deck store cannot be nil")
	}
	if deps.Sessions == nil {
		panic("session store cannot be nil")
	}
	if deps.Rand == nil {
		deps.Rand = rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	}
	if deps.Now == nil {
		deps.Now = func() time.Time { return time.Now().UTC() }
	}
	if deps.Logger == nil {
		deps.Logger = slog.Default()
	}
	return &Engine{
		decks:    deps.Decks,
		sessions: deps.Sessions,
		emitter:  deps.Emitter,
		rng:      deps.Rand,
		now:      deps.Now,
		logger:   deps.Logger.With(slog.String("component", "quiz_engine")),
		status:   make(map[uuid.UUID]CardStatus),
	}
}

// Load fetches a deck and its cards and starts a fresh traversal at the first
// card.
//
// The user may study the deck if they own it, it is public, or it has been
// shared with them; otherwise ErrAccessDenied is returned. On any failure the
// engine keeps the deck and traversal it held before the call and settles
// back into the phase they imply. If another Load starts before this one
// finishes, this one returns ErrStaleResponse and applies nothing.
//
// A submission in flight is only discarded once the new deck is in place.
func (e *Engine) Load(ctx context.Context, deckID, userID uuid.UUID) error {
	e.mu.Lock()
	e.loadToken++
	token := e.loadToken
	e.phase = PhaseLoading
	e.mu.Unlock()

	log := logger.FromContextOrDefault(ctx, e.logger).With(
		slog.String("deck_id", deckID.String()),
		slog.String("user_id", userID.String()))

	deck, cards, err := e.fetch(ctx, deckID, userID)

	e.mu.Lock()
	defer e.mu.Unlock()

	if token != e.loadToken {
		log.Debug("discarding superseded deck load")
		return ErrStaleResponse
	}
	if err != nil {
		e.phase = e.settledPhase()
		if errors.Is(err, ErrAccessDenied) {
			log.Info("deck access denied")
		} else {
			log.Warn("deck load failed", slog.String("error", err.Error()))
		}
		return err
	}

	e.submitToken++
	e.submitting = false
	e.userID = userID
	e.deck = deck
	e.cards = cards
	e.startTraversal()
	e.phase = PhaseReady

	log.Debug("deck loaded", slog.Int("cards", len(cards)))
	return nil
}

func (e *Engine) fetch(ctx context.Context, deckID, userID uuid.UUID) (*domain.Deck, []domain.CardItem, error) {
	deck, err := e.decks.GetDeck(ctx, deckID)
	if err != nil {
		if errors.Is(err, store.ErrDeckNotFound) {
			return nil, nil, ErrDeckNotFound
		}
		return nil, nil, fmt.Errorf("%w: %w", ErrLoadFailed, err)
	}

	if !deck.OwnedBy(userID) && !deck.IsPublic {
		shared, err := e.decks.CheckSharedAccess(ctx, deckID, userID)
		if err != nil {
			return nil, nil, fmt.Errorf("%w: %w", ErrLoadFailed, err)
		}
		if !shared {
			return nil, nil, ErrAccessDenied
		}
	}

	cards, err := e.decks.ListCardItems(ctx, deckID)
	if err != nil {
		return nil, nil, fmt.Errorf("%w: %w", ErrLoadFailed, err)
	}
	sort.SliceStable(cards, func(i, j int) bool { return cards[i].OrderIndex < cards[j].OrderIndex })
	return deck, cards, nil
}

// startTraversal resets all per-traversal state. Callers hold e.mu.
func (e *Engine) startTraversal() {
	e.index = 0
	e.status = make(map[uuid.UUID]CardStatus, len(e.cards))
	e.sessionXP = 0
	e.submitted = false
	e.sessionID = uuid.New()
	e.newVisit()
}

// newVisit starts a fresh visit of the card at e.index. Callers hold e.mu.
func (e *Engine) newVisit() {
	if len(e.cards) == 0 {
		e.visit = visit{}
		return
	}
	card := e.cards[e.index]
	e.visit = visit{
		cardID:  card.ID,
		state:   VisitPending,
		choices: GenerateChoices(card.Back, e.rng),
	}
}

// settledPhase is the phase implied by the deck and traversal currently held,
// ignoring any load in flight. Callers hold e.mu.
func (e *Engine) settledPhase() Phase {
	switch {
	case e.deck == nil:
		return PhaseIdle
	case e.submitting:
		return PhaseCompleting
	case e.submitted:
		return PhaseCompleted
	default:
		return PhaseReady
	}
}

// loaded reports whether a deck is ready for session operations. Callers hold e.mu.
func (e *Engine) loaded() bool {
	switch e.phase {
	case PhaseReady, PhaseCompleting, PhaseCompleted:
		return e.deck != nil
	default:
		return false
	}
}

// currentCard returns the card on screen if it is cardID. Callers hold e.mu.
func (e *Engine) currentCard(cardID uuid.UUID) (*domain.CardItem, error) {
	if !e.loaded() {
		return nil, ErrNoDeckLoaded
	}
	if len(e.cards) == 0 || e.cards[e.index].ID != cardID {
		return nil, ErrCardNotCurrent
	}
	return &e.cards[e.index], nil
}

// SelectAnswer records the user's choice for the current card.
//
// A card is scored once per traversal: answering a card that already has an
// outcome returns that outcome unchanged, and answering a card whose answer
// was revealed first returns ErrAlreadyRevealed.
func (e *Engine) SelectAnswer(cardID uuid.UUID, option string) (*AnswerOutcome, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	card, err := e.currentCard(cardID)
	if err != nil {
		return nil, err
	}

	switch status := e.status[card.ID]; status {
	case StatusCorrect, StatusWrong:
		return &AnswerOutcome{
			CardID:          card.ID,
			Correct:         status == StatusCorrect,
			Status:          status,
			AlreadyAnswered: true,
			SessionXP:       e.sessionXP,
		}, nil
	case StatusRevealedNoAnswer:
		return nil, ErrAlreadyRevealed
	}
	if e.visit.state == VisitRevealed {
		return nil, ErrAlreadyRevealed
	}

	correct := AnswersMatch(option, card.Back)
	status := StatusWrong
	if correct {
		status = StatusCorrect
		e.sessionXP += domain.XPPerCorrectAnswer
	}
	e.status[card.ID] = status
	e.visit.state = VisitAnswered
	e.visit.selected = option

	return &AnswerOutcome{
		CardID:    card.ID,
		Correct:   correct,
		Status:    status,
		SessionXP: e.sessionXP,
	}, nil
}

// Reveal shows the current card's answer. A card with no answer yet is
// recorded as answered without credit.
func (e *Engine) Reveal(cardID uuid.UUID) (string, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	card, err := e.currentCard(cardID)
	if err != nil {
		return "", err
	}
	if e.status[card.ID] == StatusUnanswered {
		e.status[card.ID] = StatusRevealedNoAnswer
	}
	e.visit.state = VisitRevealed
	return card.Back, nil
}

// Advance moves to the next card, staying on the last one at the end.
func (e *Engine) Advance() (int, error) {
	return e.move(1)
}

// Retreat moves to the previous card, staying on the first one at the start.
func (e *Engine) Retreat() (int, error) {
	return e.move(-1)
}

func (e *Engine) move(delta int) (int, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if !e.loaded() {
		return 0, ErrNoDeckLoaded
	}
	next := min(max(e.index+delta, 0), max(len(e.cards)-1, 0))
	if next != e.index {
		e.index = next
		e.newVisit()
	}
	return e.index, nil
}

// ResetSession restarts the traversal of the loaded deck under a new session
// id. A submission still in flight is discarded when it returns.
func (e *Engine) ResetSession() error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if !e.loaded() {
		return ErrNoDeckLoaded
	}
	e.submitToken++
	e.submitting = false
	e.startTraversal()
	e.phase = PhaseReady
	return nil
}

// CompleteIfDone submits the session once every card has been answered.
//
// It returns a nil result and nil error when there is nothing to do: cards
// remain unanswered, the deck is empty, the traversal was already submitted,
// or a submission is in flight. A store failure returns ErrPersistenceFailure
// and keeps the session, and retrying resubmits the same session id, which
// the store deduplicates.
func (e *Engine) CompleteIfDone(ctx context.Context) (*domain.StudySessionResult, error) {
	e.mu.Lock()
	switch e.phase {
	case PhaseCompleting, PhaseCompleted:
		e.mu.Unlock()
		return nil, nil
	case PhaseReady:
	default:
		e.mu.Unlock()
		return nil, ErrNoDeckLoaded
	}

	answered, correct := e.tally()
	if e.submitted || len(e.cards) == 0 || answered != len(e.cards) {
		e.mu.Unlock()
		return nil, nil
	}

	result, err := domain.NewStudySessionResult(e.sessionID, e.userID, e.deck.ID, answered, correct, e.now())
	if err != nil {
		e.mu.Unlock()
		return nil, err
	}
	e.phase = PhaseCompleting
	e.submitToken++
	e.submitting = true
	token := e.submitToken
	e.mu.Unlock()

	log := logger.FromContextOrDefault(ctx, e.logger).With(
		slog.String("session_id", result.ID.String()),
		slog.String("user_id", result.UserID.String()))

	inserted, err := e.sessions.InsertSessionResult(ctx, result)
	if err == nil && inserted {
		// The store has applied the result whatever happens to this engine now.
		if emitErr := events.Emit(ctx, e.emitter, events.TypeSessionCompleted, result.UserID,
			events.SessionCompletedPayload{
				SessionID:         result.ID,
				DeckID:            result.DeckID,
				QuestionsAnswered: result.QuestionsAnswered,
				CorrectAnswers:    result.CorrectAnswers,
				XPEarned:          result.XPEarned,
			}); emitErr != nil {
			log.Warn("failed to emit session completed event", slog.String("error", emitErr.Error()))
		}
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	if token != e.submitToken {
		log.Debug("discarding superseded session submission")
		return nil, ErrStaleResponse
	}
	e.submitting = false
	// A load in flight owns the phase; it settles from the flags below if it fails.
	settle := e.phase == PhaseCompleting
	if err != nil {
		if settle {
			e.phase = PhaseReady
		}
		log.Error("session submission failed", slog.String("error", err.Error()))
		return nil, fmt.Errorf("%w: %w", ErrPersistenceFailure, err)
	}

	e.submitted = true
	if settle {
		e.phase = PhaseCompleted
	}
	log.Info("session completed",
		slog.Int("questions_answered", result.QuestionsAnswered),
		slog.Int("correct_answers", result.CorrectAnswers),
		slog.Bool("duplicate", !inserted))
	return result, nil
}

// tally counts answered and correct cards. Callers hold e.mu.
func (e *Engine) tally() (answered, correct int) {
	for _, c := range e.cards {
		switch e.status[c.ID] {
		case StatusCorrect:
			answered++
			correct++
		case StatusWrong, StatusRevealedNoAnswer:
			answered++
		}
	}
	return answered, correct
}

// Snapshot returns a copy of the engine state for rendering.
func (e *Engine) Snapshot() Snapshot {
	e.mu.Lock()
	defer e.mu.Unlock()

	answered, correct := e.tally()
	snap := Snapshot{
		Phase:     e.phase,
		SessionID: e.sessionID,
		Index:     e.index,
		Total:     len(e.cards),
		Answered:  answered,
		Correct:   correct,
		SessionXP: e.sessionXP,
		Submitted: e.submitted,
	}
	if e.deck != nil {
		snap.DeckID = e.deck.ID
		snap.DeckTitle = e.deck.Title
	}
	if e.loaded() && len(e.cards) > 0 {
		card := e.cards[e.index]
		view := &CardView{
			ID:       card.ID,
			Front:    card.Front,
			Choices:  append([]string(nil), e.visit.choices...),
			Visit:    e.visit.state,
			Status:   e.status[card.ID],
			Selected: e.visit.selected,
		}
		if e.visit.state == VisitRevealed {
			view.Answer = card.Back
		}
		snap.Card = view
	}
	return snap
}
