package achievement_test

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/phrazzld/studyhall/internal/domain"
	"github.com/phrazzld/studyhall/internal/events"
	"github.com/phrazzld/studyhall/internal/mocks"
	"github.com/phrazzld/studyhall/internal/platform/memory"
	"github.com/phrazzld/studyhall/internal/service"
	"github.com/phrazzld/studyhall/internal/service/achievement"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

var (
	firstSteps      = uuid.MustParse("0b0f6c1e-7d1a-4b52-9a53-1f0d3f6a0001")
	centurion       = uuid.MustParse("0b0f6c1e-7d1a-4b52-9a53-1f0d3f6a0002")
	firstShare      = uuid.MustParse("0b0f6c1e-7d1a-4b52-9a53-1f0d3f6a0005")
	communityHelper = uuid.MustParse("0b0f6c1e-7d1a-4b52-9a53-1f0d3f6a0006")
)

type eventLog struct {
	mu     sync.Mutex
	events []*events.Event
}

func (l *eventLog) EmitEvent(_ context.Context, e *events.Event) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.events = append(l.events, e)
	return nil
}

func (l *eventLog) ofType(t events.Type) []*events.Event {
	l.mu.Lock()
	defer l.mu.Unlock()
	var out []*events.Event
	for _, e := range l.events {
		if e.Type == t {
			out = append(out, e)
		}
	}
	return out
}

func newService(t *testing.T) (*achievement.Service, *memory.Store, *eventLog) {
	t.Helper()
	s := memory.New(nil)
	require.NoError(t, memory.Seed(s))
	log := &eventLog{}
	return achievement.NewService(s, log, nil), s, log
}

func TestCheckAndUnlock(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name  string
		xp    int
		posts int
		want  []uuid.UUID
	}{
		{name: "nothing earned", xp: 0, posts: 0, want: []uuid.UUID{}},
		{name: "just below first threshold", xp: 9, posts: 0, want: []uuid.UUID{}},
		{name: "exact threshold", xp: 10, posts: 0, want: []uuid.UUID{firstSteps}},
		{name: "two thresholds at once in catalog order", xp: 120, posts: 0, want: []uuid.UUID{firstSteps, centurion}},
		{name: "first post", xp: 0, posts: 1, want: []uuid.UUID{firstShare}},
		{name: "ten posts", xp: 0, posts: 10, want: []uuid.UUID{firstShare, communityHelper}},
		{name: "mixed", xp: 10, posts: 1, want: []uuid.UUID{firstSteps, firstShare}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, _, _ := newService(t)
			got, err := svc.CheckAndUnlock(ctx, uuid.New(), tt.xp, tt.posts)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestCheckAndUnlock_IsMonotonicAndIdempotent(t *testing.T) {
	ctx := context.Background()
	svc, _, log := newService(t)
	userID := uuid.New()

	first, err := svc.CheckAndUnlock(ctx, userID, 150, 1)
	require.NoError(t, err)
	assert.NotEmpty(t, first)

	again, err := svc.CheckAndUnlock(ctx, userID, 150, 1)
	require.NoError(t, err)
	assert.Empty(t, again)

	lower, err := svc.CheckAndUnlock(ctx, userID, 0, 0)
	require.NoError(t, err)
	assert.Empty(t, lower, "spending xp never re-locks or re-reports")

	statuses, err := svc.List(ctx, userID)
	require.NoError(t, err)
	unlocked := 0
	for _, s := range statuses {
		if s.Unlocked {
			unlocked++
			assert.NotNil(t, s.UnlockedAt)
		}
	}
	assert.Equal(t, len(first), unlocked)
	assert.Len(t, log.ofType(events.TypeAchievementUnlocked), len(first))
}

func TestCheckAndUnlock_ConcurrentChecksReportEachUnlockOnce(t *testing.T) {
	ctx := context.Background()
	svc, _, _ := newService(t)
	userID := uuid.New()

	var (
		wg    sync.WaitGroup
		mu    sync.Mutex
		total []uuid.UUID
	)
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			got, err := svc.CheckAndUnlock(ctx, userID, 1000, 10)
			assert.NoError(t, err)
			mu.Lock()
			total = append(total, got...)
			mu.Unlock()
		}()
	}
	wg.Wait()

	assert.Len(t, total, len(memory.DefaultAchievements()))
	assert.ElementsMatch(t, total, uniqueIDs(total))
}

func uniqueIDs(ids []uuid.UUID) []uuid.UUID {
	seen := map[uuid.UUID]bool{}
	var out []uuid.UUID
	for _, id := range ids {
		if !seen[id] {
			seen[id] = true
			out = append(out, id)
		}
	}
	return out
}

func TestCheckAndUnlock_DuplicateInsertIsNotReported(t *testing.T) {
	ctx := context.Background()
	userID := uuid.New()
	catalog := []domain.Achievement{domain.XPThreshold(firstSteps, "First Steps", 10)}

	achievements := &mocks.TestifyMockAchievementStore{}
	achievements.On("ListAchievements", mock.Anything).Return(catalog, nil)
	achievements.On("ListUnlocked", mock.Anything, userID).Return([]domain.UnlockedAchievement{}, nil)
	achievements.On("InsertUnlock", mock.Anything, userID, firstSteps).Return(false, nil)

	svc := achievement.NewService(achievements, nil, nil)
	got, err := svc.CheckAndUnlock(ctx, userID, 50, 0)

	require.NoError(t, err)
	assert.Empty(t, got)
	achievements.AssertExpectations(t)
}

func TestCheckAndUnlock_StoreFailure(t *testing.T) {
	ctx := context.Background()
	boom := errors.New("db down")

	achievements := &mocks.TestifyMockAchievementStore{}
	achievements.On("ListAchievements", mock.Anything).Return(nil, boom)

	svc := achievement.NewService(achievements, nil, nil)
	_, err := svc.CheckAndUnlock(ctx, uuid.New(), 50, 0)

	assert.ErrorIs(t, err, boom)
	var serviceErr *service.ServiceError
	require.ErrorAs(t, err, &serviceErr)
	assert.Equal(t, "check_and_unlock", serviceErr.Operation)
}

func TestSessionCompletedHandler(t *testing.T) {
	ctx := context.Background()
	svc, s, log := newService(t)
	handler := achievement.NewSessionCompletedHandler(svc, s, s, nil)
	userID := uuid.New()

	result, err := domain.NewStudySessionResult(uuid.New(), userID, memory.SampleDeckID, 2, 2, fixedDay())
	require.NoError(t, err)
	_, err = s.InsertSessionResult(ctx, result)
	require.NoError(t, err)

	ignored, err := events.NewEvent(events.TypeLevelDown, userID, events.LevelDownPayload{})
	require.NoError(t, err)
	require.NoError(t, handler.HandleEvent(ctx, ignored))
	assert.Empty(t, log.ofType(events.TypeAchievementUnlocked))

	completed, err := events.NewEvent(events.TypeSessionCompleted, userID, events.SessionCompletedPayload{XPEarned: 20})
	require.NoError(t, err)
	require.NoError(t, handler.HandleEvent(ctx, completed))

	unlocks := log.ofType(events.TypeAchievementUnlocked)
	require.Len(t, unlocks, 1)
	var payload events.AchievementUnlockedPayload
	require.NoError(t, unlocks[0].UnmarshalPayload(&payload))
	assert.Equal(t, firstSteps, payload.AchievementID)
	assert.Equal(t, 20, payload.XP)
}

func TestSessionCompletedHandler_MissingProfile(t *testing.T) {
	svc, s, _ := newService(t)
	handler := achievement.NewSessionCompletedHandler(svc, s, s, nil)

	event, err := events.NewEvent(events.TypeSessionCompleted, uuid.New(), events.SessionCompletedPayload{})
	require.NoError(t, err)

	assert.Error(t, handler.HandleEvent(context.Background(), event))
}
