package quiz_test

import (
	"context"
	"errors"
	"math/rand/v2"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/phrazzld/studyhall/internal/domain"
	"github.com/phrazzld/studyhall/internal/events"
	"github.com/phrazzld/studyhall/internal/mocks"
	"github.com/phrazzld/studyhall/internal/platform/memory"
	"github.com/phrazzld/studyhall/internal/quiz"
	"github.com/phrazzld/studyhall/internal/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

var studyDay = time.Date(2026, 3, 14, 9, 30, 0, 0, time.UTC)

type fixture struct {
	store  *memory.Store
	owner  uuid.UUID
	deck   domain.Deck
	cards  []domain.CardItem
	events *[]*events.Event
}

func newDeck(owner uuid.UUID, public bool, backs ...string) (domain.Deck, []domain.CardItem) {
	deck := domain.Deck{ID: uuid.New(), OwnerID: owner, Title: "Test deck", IsPublic: public, CreatedAt: studyDay}
	cards := make([]domain.CardItem, len(backs))
	for i, back := range backs {
		cards[i] = domain.CardItem{
			ID:         uuid.New(),
			DeckID:     deck.ID,
			Front:      "Question " + back,
			Back:       back,
			OrderIndex: i,
		}
	}
	return deck, cards
}

func newFixture(t *testing.T, backs ...string) *fixture {
	t.Helper()
	s := memory.New(nil)
	owner := uuid.New()
	deck, cards := newDeck(owner, false, backs...)
	require.NoError(t, s.PutDeck(deck, cards))

	var recorded []*events.Event
	return &fixture{store: s, owner: owner, deck: deck, cards: cards, events: &recorded}
}

func (f *fixture) engine() *quiz.Engine {
	emitter := events.NewInMemoryEventEmitter(nil)
	emitter.RegisterHandler(events.HandlerFunc(func(_ context.Context, e *events.Event) error {
		*f.events = append(*f.events, e)
		return nil
	}))
	return quiz.NewEngine(quiz.Dependencies{
		Decks:    f.store,
		Sessions: f.store,
		Emitter:  emitter,
		Rand:     rand.New(rand.NewPCG(1, 2)),
		Now:      func() time.Time { return studyDay },
	})
}

func TestEngineScoresAndSubmitsOnce(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, "Paris", "Tokyo", "Nairobi")
	e := f.engine()

	require.NoError(t, e.Load(ctx, f.deck.ID, f.owner))
	snap := e.Snapshot()
	assert.Equal(t, quiz.PhaseReady, snap.Phase)
	assert.Equal(t, 3, snap.Total)
	require.NotNil(t, snap.Card)
	assert.Equal(t, f.cards[0].ID, snap.Card.ID)
	assert.Contains(t, snap.Card.Choices, "Paris")
	assert.Empty(t, snap.Card.Answer)

	out, err := e.SelectAnswer(f.cards[0].ID, "paris")
	require.NoError(t, err)
	assert.True(t, out.Correct)
	assert.Equal(t, 10, out.SessionXP)

	result, err := e.CompleteIfDone(ctx)
	require.NoError(t, err)
	assert.Nil(t, result, "session is not finished yet")

	_, err = e.Advance()
	require.NoError(t, err)
	out, err = e.SelectAnswer(f.cards[1].ID, "Tokyo")
	require.NoError(t, err)
	assert.True(t, out.Correct)

	_, err = e.Advance()
	require.NoError(t, err)
	out, err = e.SelectAnswer(f.cards[2].ID, "Nairob")
	require.NoError(t, err)
	assert.False(t, out.Correct)
	assert.Equal(t, quiz.StatusWrong, out.Status)
	assert.Equal(t, 20, out.SessionXP)

	result, err = e.CompleteIfDone(ctx)
	require.NoError(t, err)
	require.NotNil(t, result)
	assert.Equal(t, 3, result.QuestionsAnswered)
	assert.Equal(t, 2, result.CorrectAnswers)
	assert.Equal(t, 20, result.XPEarned)
	assert.Equal(t, f.deck.ID, result.DeckID)
	assert.Equal(t, snap.SessionID, result.ID)

	again, err := e.CompleteIfDone(ctx)
	require.NoError(t, err)
	assert.Nil(t, again)

	sessions, err := f.store.ListSessionResults(ctx, f.owner, 0)
	require.NoError(t, err)
	assert.Len(t, sessions, 1)

	profile, err := f.store.Get(ctx, f.owner)
	require.NoError(t, err)
	assert.Equal(t, 20, profile.XP)
	assert.Equal(t, 1, profile.StreakDays)

	require.Len(t, *f.events, 1)
	assert.Equal(t, events.TypeSessionCompleted, (*f.events)[0].Type)
	var payload events.SessionCompletedPayload
	require.NoError(t, (*f.events)[0].UnmarshalPayload(&payload))
	assert.Equal(t, 20, payload.XPEarned)

	snap = e.Snapshot()
	assert.Equal(t, quiz.PhaseCompleted, snap.Phase)
	assert.True(t, snap.Submitted)
}

func TestEngineCompleteSubmitsExactlyOnceWithMock(t *testing.T) {
	ctx := context.Background()
	owner := uuid.New()
	deck, cards := newDeck(owner, false, "1", "2", "3")

	decks := &mocks.TestifyMockDeckStore{}
	decks.On("GetDeck", mock.Anything, deck.ID).Return(&deck, nil)
	decks.On("ListCardItems", mock.Anything, deck.ID).Return(cards, nil)
	sessions := &mocks.TestifyMockSessionStore{}
	sessions.On("InsertSessionResult", mock.Anything, mock.AnythingOfType("*domain.StudySessionResult")).
		Return(true, nil).Once()

	e := quiz.NewEngine(quiz.Dependencies{Decks: decks, Sessions: sessions, Now: func() time.Time { return studyDay }})
	require.NoError(t, e.Load(ctx, deck.ID, owner))

	answers := []string{"1", "2", "4"}
	for i, c := range cards {
		_, err := e.SelectAnswer(c.ID, answers[i])
		require.NoError(t, err)
		_, err = e.Advance()
		require.NoError(t, err)
	}

	for i := 0; i < 2; i++ {
		_, err := e.CompleteIfDone(ctx)
		require.NoError(t, err)
	}
	sessions.AssertNumberOfCalls(t, "InsertSessionResult", 1)
	submitted := sessions.Calls[0].Arguments.Get(1).(*domain.StudySessionResult)
	assert.Equal(t, 20, submitted.XPEarned)
	assert.Equal(t, 2, submitted.CorrectAnswers)
}

func TestEngineAccess(t *testing.T) {
	ctx := context.Background()
	s := memory.New(nil)
	owner, stranger, friend := uuid.New(), uuid.New(), uuid.New()

	private, privateCards := newDeck(owner, false, "a")
	public, publicCards := newDeck(owner, true, "b")
	require.NoError(t, s.PutDeck(private, privateCards))
	require.NoError(t, s.PutDeck(public, publicCards))
	require.NoError(t, s.ShareDeck(private.ID, friend))

	newEngine := func() *quiz.Engine {
		return quiz.NewEngine(quiz.Dependencies{Decks: s, Sessions: s})
	}

	t.Run("owner", func(t *testing.T) {
		assert.NoError(t, newEngine().Load(ctx, private.ID, owner))
	})
	t.Run("shared", func(t *testing.T) {
		assert.NoError(t, newEngine().Load(ctx, private.ID, friend))
	})
	t.Run("public", func(t *testing.T) {
		assert.NoError(t, newEngine().Load(ctx, public.ID, stranger))
	})
	t.Run("denied", func(t *testing.T) {
		e := newEngine()
		err := e.Load(ctx, private.ID, stranger)
		assert.ErrorIs(t, err, quiz.ErrAccessDenied)
		assert.Equal(t, quiz.PhaseIdle, e.Snapshot().Phase)
		assert.Nil(t, e.Snapshot().Card)
	})
	t.Run("missing deck", func(t *testing.T) {
		err := newEngine().Load(ctx, uuid.New(), owner)
		assert.ErrorIs(t, err, quiz.ErrDeckNotFound)
	})
	t.Run("denied keeps previous deck", func(t *testing.T) {
		e := newEngine()
		require.NoError(t, e.Load(ctx, public.ID, stranger))
		assert.ErrorIs(t, e.Load(ctx, private.ID, stranger), quiz.ErrAccessDenied)
		snap := e.Snapshot()
		assert.Equal(t, quiz.PhaseReady, snap.Phase)
		assert.Equal(t, public.ID, snap.DeckID)
	})
}

func TestEngineLoadFailure(t *testing.T) {
	ctx := context.Background()
	deckID, userID := uuid.New(), uuid.New()
	cause := errors.New("connection reset")

	decks := &mocks.TestifyMockDeckStore{}
	decks.On("GetDeck", mock.Anything, deckID).Return(nil, cause)

	e := quiz.NewEngine(quiz.Dependencies{Decks: decks, Sessions: &mocks.TestifyMockSessionStore{}})
	err := e.Load(ctx, deckID, userID)
	assert.ErrorIs(t, err, quiz.ErrLoadFailed)
	assert.ErrorIs(t, err, cause)
	assert.Equal(t, quiz.PhaseIdle, e.Snapshot().Phase)

	shared := &mocks.TestifyMockDeckStore{}
	deck, _ := newDeck(uuid.New(), false, "x")
	shared.On("GetDeck", mock.Anything, deck.ID).Return(&deck, nil)
	shared.On("CheckSharedAccess", mock.Anything, deck.ID, userID).Return(false, cause)

	e = quiz.NewEngine(quiz.Dependencies{Decks: shared, Sessions: &mocks.TestifyMockSessionStore{}})
	assert.ErrorIs(t, e.Load(ctx, deck.ID, userID), quiz.ErrLoadFailed)
	shared.AssertNotCalled(t, "ListCardItems", mock.Anything, mock.Anything)
}

func TestEngineDiscardsSupersededLoad(t *testing.T) {
	ctx := context.Background()
	owner := uuid.New()
	slow, slowCards := newDeck(owner, false, "slow")
	fast, fastCards := newDeck(owner, false, "fast")

	started := make(chan struct{})
	release := make(chan struct{})

	decks := &mocks.TestifyMockDeckStore{}
	decks.On("GetDeck", mock.Anything, slow.ID).Run(func(mock.Arguments) {
		close(started)
		<-release
	}).Return(&slow, nil)
	decks.On("GetDeck", mock.Anything, fast.ID).Return(&fast, nil)
	decks.On("ListCardItems", mock.Anything, slow.ID).Return(slowCards, nil)
	decks.On("ListCardItems", mock.Anything, fast.ID).Return(fastCards, nil)

	e := quiz.NewEngine(quiz.Dependencies{Decks: decks, Sessions: &mocks.TestifyMockSessionStore{}})

	slowErr := make(chan error, 1)
	go func() { slowErr <- e.Load(ctx, slow.ID, owner) }()
	<-started

	require.NoError(t, e.Load(ctx, fast.ID, owner))
	close(release)

	assert.ErrorIs(t, <-slowErr, quiz.ErrStaleResponse)
	snap := e.Snapshot()
	assert.Equal(t, fast.ID, snap.DeckID)
	require.NotNil(t, snap.Card)
	assert.Equal(t, fastCards[0].ID, snap.Card.ID)
}

func answerAll(t *testing.T, e *quiz.Engine, cards []domain.CardItem) {
	t.Helper()
	for _, c := range cards {
		_, err := e.SelectAnswer(c.ID, c.Back)
		require.NoError(t, err)
		_, err = e.Advance()
		require.NoError(t, err)
	}
}

func TestEnginePersistenceFailureRetriesSameSession(t *testing.T) {
	ctx := context.Background()
	owner := uuid.New()
	deck, cards := newDeck(owner, false, "a", "b")

	decks := &mocks.TestifyMockDeckStore{}
	decks.On("GetDeck", mock.Anything, deck.ID).Return(&deck, nil)
	decks.On("ListCardItems", mock.Anything, deck.ID).Return(cards, nil)

	var ids []uuid.UUID
	capture := func(args mock.Arguments) {
		ids = append(ids, args.Get(1).(*domain.StudySessionResult).ID)
	}
	sessions := &mocks.TestifyMockSessionStore{}
	sessions.On("InsertSessionResult", mock.Anything, mock.Anything).
		Run(capture).Return(false, errors.New("db down")).Once()
	sessions.On("InsertSessionResult", mock.Anything, mock.Anything).
		Run(capture).Return(true, nil).Once()

	e := quiz.NewEngine(quiz.Dependencies{Decks: decks, Sessions: sessions, Now: func() time.Time { return studyDay }})
	require.NoError(t, e.Load(ctx, deck.ID, owner))
	answerAll(t, e, cards)

	result, err := e.CompleteIfDone(ctx)
	assert.ErrorIs(t, err, quiz.ErrPersistenceFailure)
	assert.Nil(t, result)
	snap := e.Snapshot()
	assert.Equal(t, quiz.PhaseReady, snap.Phase)
	assert.False(t, snap.Submitted)
	assert.Equal(t, 2, snap.Answered)

	result, err = e.CompleteIfDone(ctx)
	require.NoError(t, err)
	require.NotNil(t, result)

	require.Len(t, ids, 2)
	assert.Equal(t, ids[0], ids[1])
	sessions.AssertExpectations(t)
}

func TestEngineResetDiscardsInFlightSubmission(t *testing.T) {
	ctx := context.Background()
	owner := uuid.New()
	deck, cards := newDeck(owner, false, "a")

	decks := &mocks.TestifyMockDeckStore{}
	decks.On("GetDeck", mock.Anything, deck.ID).Return(&deck, nil)
	decks.On("ListCardItems", mock.Anything, deck.ID).Return(cards, nil)

	started := make(chan struct{})
	release := make(chan struct{})
	sessions := &mocks.TestifyMockSessionStore{}
	sessions.On("InsertSessionResult", mock.Anything, mock.Anything).Run(func(mock.Arguments) {
		close(started)
		<-release
	}).Return(true, nil).Once()

	e := quiz.NewEngine(quiz.Dependencies{Decks: decks, Sessions: sessions})
	require.NoError(t, e.Load(ctx, deck.ID, owner))
	answerAll(t, e, cards)
	first := e.Snapshot().SessionID

	var wg sync.WaitGroup
	var submitErr error
	wg.Add(1)
	go func() {
		defer wg.Done()
		_, submitErr = e.CompleteIfDone(ctx)
	}()
	<-started

	assert.Equal(t, quiz.PhaseCompleting, e.Snapshot().Phase)
	require.NoError(t, e.ResetSession())
	close(release)
	wg.Wait()

	assert.ErrorIs(t, submitErr, quiz.ErrStaleResponse)
	snap := e.Snapshot()
	assert.Equal(t, quiz.PhaseReady, snap.Phase)
	assert.NotEqual(t, first, snap.SessionID)
	assert.Zero(t, snap.Answered)
	assert.Zero(t, snap.SessionXP)
	assert.False(t, snap.Submitted)
}

func TestEngineFailedLoadAfterSupersededLoadKeepsDeck(t *testing.T) {
	ctx := context.Background()
	owner := uuid.New()
	first, firstCards := newDeck(owner, false, "a", "b")
	slow, slowCards := newDeck(owner, false, "slow")
	broken := uuid.New()

	started := make(chan struct{})
	release := make(chan struct{})

	decks := &mocks.TestifyMockDeckStore{}
	decks.On("GetDeck", mock.Anything, first.ID).Return(&first, nil)
	decks.On("ListCardItems", mock.Anything, first.ID).Return(firstCards, nil)
	decks.On("GetDeck", mock.Anything, slow.ID).Run(func(mock.Arguments) {
		close(started)
		<-release
	}).Return(&slow, nil)
	decks.On("ListCardItems", mock.Anything, slow.ID).Return(slowCards, nil)
	decks.On("GetDeck", mock.Anything, broken).Return(nil, errors.New("connection reset"))

	e := quiz.NewEngine(quiz.Dependencies{Decks: decks, Sessions: &mocks.TestifyMockSessionStore{}})
	require.NoError(t, e.Load(ctx, first.ID, owner))

	slowErr := make(chan error, 1)
	go func() { slowErr <- e.Load(ctx, slow.ID, owner) }()
	<-started
	assert.Equal(t, quiz.PhaseLoading, e.Snapshot().Phase)

	assert.ErrorIs(t, e.Load(ctx, broken, owner), quiz.ErrLoadFailed)
	close(release)
	assert.ErrorIs(t, <-slowErr, quiz.ErrStaleResponse)

	snap := e.Snapshot()
	assert.Equal(t, quiz.PhaseReady, snap.Phase)
	assert.Equal(t, first.ID, snap.DeckID)
	require.NotNil(t, snap.Card)
	assert.Equal(t, firstCards[0].ID, snap.Card.ID)

	idx, err := e.Advance()
	require.NoError(t, err)
	assert.Equal(t, 1, idx)
}

func TestEngineFailedLoadDuringSubmissionKeepsResult(t *testing.T) {
	ctx := context.Background()
	owner := uuid.New()
	deck, cards := newDeck(owner, false, "a")
	missing := uuid.New()

	decks := &mocks.TestifyMockDeckStore{}
	decks.On("GetDeck", mock.Anything, deck.ID).Return(&deck, nil)
	decks.On("ListCardItems", mock.Anything, deck.ID).Return(cards, nil)
	decks.On("GetDeck", mock.Anything, missing).Return(nil, store.ErrDeckNotFound)

	started := make(chan struct{})
	release := make(chan struct{})
	sessions := &mocks.TestifyMockSessionStore{}
	sessions.On("InsertSessionResult", mock.Anything, mock.Anything).Run(func(mock.Arguments) {
		close(started)
		<-release
	}).Return(true, nil).Once()

	e := quiz.NewEngine(quiz.Dependencies{Decks: decks, Sessions: sessions})
	require.NoError(t, e.Load(ctx, deck.ID, owner))
	answerAll(t, e, cards)

	var wg sync.WaitGroup
	var result *domain.StudySessionResult
	var submitErr error
	wg.Add(1)
	go func() {
		defer wg.Done()
		result, submitErr = e.CompleteIfDone(ctx)
	}()
	<-started

	assert.ErrorIs(t, e.Load(ctx, missing, owner), quiz.ErrDeckNotFound)
	assert.Equal(t, quiz.PhaseCompleting, e.Snapshot().Phase)

	close(release)
	wg.Wait()

	require.NoError(t, submitErr)
	require.NotNil(t, result)
	snap := e.Snapshot()
	assert.Equal(t, quiz.PhaseCompleted, snap.Phase)
	assert.True(t, snap.Submitted)
	assert.Equal(t, deck.ID, snap.DeckID)

	again, err := e.CompleteIfDone(ctx)
	assert.NoError(t, err)
	assert.Nil(t, again)
	sessions.AssertExpectations(t)
}

func TestEngineReveal(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, "Paris", "Tokyo")
	e := f.engine()
	require.NoError(t, e.Load(ctx, f.deck.ID, f.owner))

	answer, err := e.Reveal(f.cards[0].ID)
	require.NoError(t, err)
	assert.Equal(t, "Paris", answer)

	snap := e.Snapshot()
	assert.Equal(t, quiz.VisitRevealed, snap.Card.Visit)
	assert.Equal(t, quiz.StatusRevealedNoAnswer, snap.Card.Status)
	assert.Equal(t, "Paris", snap.Card.Answer)
	assert.Equal(t, 1, snap.Answered)
	assert.Zero(t, snap.Correct)

	_, err = e.SelectAnswer(f.cards[0].ID, "Paris")
	assert.ErrorIs(t, err, quiz.ErrAlreadyRevealed)

	_, err = e.Advance()
	require.NoError(t, err)
	_, err = e.SelectAnswer(f.cards[1].ID, "Tokyo")
	require.NoError(t, err)
	_, err = e.Reveal(f.cards[1].ID)
	require.NoError(t, err)
	assert.Equal(t, quiz.StatusCorrect, e.Snapshot().Card.Status)

	result, err := e.CompleteIfDone(ctx)
	require.NoError(t, err)
	require.NotNil(t, result)
	assert.Equal(t, 2, result.QuestionsAnswered)
	assert.Equal(t, 1, result.CorrectAnswers)
	assert.Equal(t, 10, result.XPEarned)
}

func TestEngineNavigation(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, "one", "two", "three")
	e := f.engine()

	_, err := e.Advance()
	assert.ErrorIs(t, err, quiz.ErrNoDeckLoaded)
	_, err = e.SelectAnswer(f.cards[0].ID, "one")
	assert.ErrorIs(t, err, quiz.ErrNoDeckLoaded)

	require.NoError(t, e.Load(ctx, f.deck.ID, f.owner))

	idx, err := e.Retreat()
	require.NoError(t, err)
	assert.Zero(t, idx)

	_, err = e.SelectAnswer(f.cards[1].ID, "two")
	assert.ErrorIs(t, err, quiz.ErrCardNotCurrent)

	first, err := e.SelectAnswer(f.cards[0].ID, "one")
	require.NoError(t, err)
	repeat, err := e.SelectAnswer(f.cards[0].ID, "wrong")
	require.NoError(t, err)
	assert.True(t, repeat.AlreadyAnswered)
	assert.True(t, repeat.Correct)
	assert.Equal(t, first.SessionXP, repeat.SessionXP)

	for i := 0; i < 5; i++ {
		idx, err = e.Advance()
		require.NoError(t, err)
	}
	assert.Equal(t, 2, idx)

	idx, err = e.Retreat()
	require.NoError(t, err)
	idx, err = e.Retreat()
	require.NoError(t, err)
	assert.Zero(t, idx)

	snap := e.Snapshot()
	assert.Equal(t, quiz.VisitPending, snap.Card.Visit, "returning to a card starts a new visit")
	assert.Equal(t, quiz.StatusCorrect, snap.Card.Status, "the recorded outcome survives the move")
	assert.Empty(t, snap.Card.Selected)
}

func TestEngineResetSession(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, "a", "b")
	e := f.engine()

	assert.ErrorIs(t, e.ResetSession(), quiz.ErrNoDeckLoaded)

	require.NoError(t, e.Load(ctx, f.deck.ID, f.owner))
	answerAll(t, e, f.cards)
	first, err := e.CompleteIfDone(ctx)
	require.NoError(t, err)
	require.NotNil(t, first)

	require.NoError(t, e.ResetSession())
	snap := e.Snapshot()
	assert.Equal(t, quiz.PhaseReady, snap.Phase)
	assert.Zero(t, snap.Index)
	assert.Zero(t, snap.Answered)
	assert.NotEqual(t, first.ID, snap.SessionID)

	answerAll(t, e, f.cards)
	second, err := e.CompleteIfDone(ctx)
	require.NoError(t, err)
	require.NotNil(t, second)

	profile, err := f.store.Get(ctx, f.owner)
	require.NoError(t, err)
	assert.Equal(t, 40, profile.XP)
	assert.Len(t, *f.events, 2)
}

func TestEngineEmptyDeckNeverCompletes(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	e := f.engine()

	require.NoError(t, e.Load(ctx, f.deck.ID, f.owner))
	snap := e.Snapshot()
	assert.Equal(t, quiz.PhaseReady, snap.Phase)
	assert.Zero(t, snap.Total)
	assert.Nil(t, snap.Card)

	idx, err := e.Advance()
	require.NoError(t, err)
	assert.Zero(t, idx)

	result, err := e.CompleteIfDone(ctx)
	require.NoError(t, err)
	assert.Nil(t, result)

	_, err = f.store.Get(ctx, f.owner)
	assert.ErrorIs(t, err, store.ErrProfileNotFound)
}

func TestEngineCompleteBeforeLoad(t *testing.T) {
	f := newFixture(t, "a")
	_, err := f.engine().CompleteIfDone(context.Background())
	assert.ErrorIs(t, err, quiz.ErrNoDeckLoaded)
}
