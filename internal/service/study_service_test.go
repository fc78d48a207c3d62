package service

import (
	"context"
	"log/slog"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/studyhall/studyhall-api/internal/domain"
	"github.com/studyhall/studyhall-api/internal/mocks/storemocks"
	"github.com/studyhall/studyhall-api/internal/service/progress"
	"github.com/studyhall/studyhall-api/internal/store"
)

func newTestStudyService(
	deckStore store.DeckStore,
	sessionStore store.SessionStore,
	cardStore store.CardStore,
	now func() time.Time,
) (*studyServiceImpl, *progress.Outbox) {
	outbox := progress.NewOutbox(cardStore, progress.Config{Workers: 1, QueueSize: 16}, nil)
	svc := &studyServiceImpl{
		deckStore:    deckStore,
		sessionStore: sessionStore,
		outbox:       outbox,
		lookbackDays: 30,
		logger:       slog.Default(),
		now:          now,
	}
	return svc, outbox
}

// sessionOn builds a completed session for the given calendar day offset
// relative to now (0 = today, -1 = yesterday).
func sessionOn(t *testing.T, userID uuid.UUID, now time.Time, dayOffset, correct, incorrect int) *domain.StudySession {
	t.Helper()
	session, err := domain.NewStudySession(
		userID,
		uuid.New(),
		correct,
		incorrect,
		5,
		now.AddDate(0, 0, dayOffset),
	)
	require.NoError(t, err)
	return session
}

func TestStudyService_CompleteSession(t *testing.T) {
	t.Parallel()

	userID := uuid.New()
	deck := makeDeck(t, userID, "Geography")
	now := time.Date(2026, 3, 10, 15, 0, 0, 0, time.UTC)

	var touched bool
	deckStore := &storemocks.MockDeckStore{
		Deck: deck,
		TouchLastStudiedFn: func(ctx context.Context, _, _ uuid.UUID) error {
			touched = true
			return nil
		},
	}
	sessionStore := &storemocks.MockSessionStore{}
	svc, _ := newTestStudyService(deckStore, sessionStore, &storemocks.MockCardStore{}, func() time.Time { return now })

	session, err := svc.CompleteSession(context.Background(), userID, deck.ID, CompleteSessionInput{
		CorrectAnswers:   4,
		IncorrectAnswers: 1,
		DurationMinutes:  7,
	})
	require.NoError(t, err)
	assert.Equal(t, 5, session.CardsStudied)
	assert.Equal(t, now, session.CompletedAt)
	assert.True(t, touched)
	require.Len(t, sessionStore.Created, 1)
}

func TestStudyService_CompleteSession_RejectsZeroCards(t *testing.T) {
	t.Parallel()

	userID := uuid.New()
	deck := makeDeck(t, userID, "Geography")
	svc, _ := newTestStudyService(
		&storemocks.MockDeckStore{Deck: deck},
		&storemocks.MockSessionStore{},
		&storemocks.MockCardStore{},
		time.Now,
	)

	_, err := svc.CompleteSession(context.Background(), userID, deck.ID, CompleteSessionInput{})
	assert.ErrorIs(t, err, domain.ErrSessionNoCards)
}

func TestStudyService_CompleteSession_UnknownDeck(t *testing.T) {
	t.Parallel()

	svc, _ := newTestStudyService(
		&storemocks.MockDeckStore{Err: store.ErrDeckNotFound},
		&storemocks.MockSessionStore{},
		&storemocks.MockCardStore{},
		time.Now,
	)

	_, err := svc.CompleteSession(context.Background(), uuid.New(), uuid.New(), CompleteSessionInput{
		CorrectAnswers: 1,
	})
	assert.ErrorIs(t, err, store.ErrDeckNotFound)
}

func TestStudyService_CompleteSession_SurvivesTouchFailure(t *testing.T) {
	t.Parallel()

	userID := uuid.New()
	deck := makeDeck(t, userID, "Geography")
	deckStore := &storemocks.MockDeckStore{
		Deck: deck,
		TouchLastStudiedFn: func(ctx context.Context, _, _ uuid.UUID) error {
			return store.ErrDeckNotFound
		},
	}
	svc, _ := newTestStudyService(deckStore, &storemocks.MockSessionStore{}, &storemocks.MockCardStore{}, time.Now)

	session, err := svc.CompleteSession(context.Background(), userID, deck.ID, CompleteSessionInput{
		CorrectAnswers: 2,
	})
	require.NoError(t, err)
	assert.NotNil(t, session)
}

func TestStudyService_RecordProgress_FlushesThroughOutbox(t *testing.T) {
	t.Parallel()

	userID := uuid.New()
	card := makeCard(t, userID, uuid.New(), "front", 0)
	cardStore := &storemocks.MockCardStore{Card: card}

	svc, outbox := newTestStudyService(&storemocks.MockDeckStore{}, &storemocks.MockSessionStore{}, cardStore, time.Now)
	outbox.Start()

	require.NoError(t, svc.RecordProgress(context.Background(), userID, card.ID, true))
	require.NoError(t, svc.RecordProgress(context.Background(), userID, card.ID, false))

	outbox.Stop()

	assert.Equal(t, 2, cardStore.UpdateProgressCount())
	assert.Equal(t, 2, card.TimesStudied)
	assert.Equal(t, 1, card.TimesCorrect)
	require.NotNil(t, card.LastReviewedAt)

	status := svc.ProgressStatus()
	assert.Equal(t, int64(2), status.Processed)
	assert.Equal(t, int64(0), status.Failed)
}

func TestStudyService_Stats_Empty(t *testing.T) {
	t.Parallel()

	svc, _ := newTestStudyService(&storemocks.MockDeckStore{}, &storemocks.MockSessionStore{}, &storemocks.MockCardStore{}, time.Now)

	stats, err := svc.Stats(context.Background(), uuid.New())
	require.NoError(t, err)
	assert.Zero(t, stats.CardsStudiedToday)
	assert.Zero(t, stats.TotalSessions)
	assert.Zero(t, stats.Accuracy)
	assert.Zero(t, stats.CurrentStreakDays)
	assert.Zero(t, stats.BestStreakDays)
}

func TestStudyService_Stats_Aggregation(t *testing.T) {
	t.Parallel()

	userID := uuid.New()
	now := time.Date(2026, 3, 10, 18, 30, 0, 0, time.UTC)

	sessions := []*domain.StudySession{
		sessionOn(t, userID, now, 0, 8, 2),  // today: 10 cards
		sessionOn(t, userID, now, 0, 5, 0),  // today: 5 cards
		sessionOn(t, userID, now, -1, 3, 2), // yesterday
		sessionOn(t, userID, now, -2, 2, 3), // two days ago
		// gap on day -3
		sessionOn(t, userID, now, -4, 10, 0),
		sessionOn(t, userID, now, -5, 10, 0),
		sessionOn(t, userID, now, -6, 10, 0),
		sessionOn(t, userID, now, -7, 10, 0),
	}

	svc, _ := newTestStudyService(
		&storemocks.MockDeckStore{},
		&storemocks.MockSessionStore{Sessions: sessions},
		&storemocks.MockCardStore{},
		func() time.Time { return now },
	)

	stats, err := svc.Stats(context.Background(), userID)
	require.NoError(t, err)

	assert.Equal(t, 15, stats.CardsStudiedToday)
	assert.Equal(t, 8, stats.TotalSessions)
	// 58 correct out of 65 studied
	assert.InDelta(t, 58.0/65.0, stats.Accuracy, 1e-9)
	assert.Equal(t, 3, stats.CurrentStreakDays, "today, yesterday, two days ago")
	assert.Equal(t, 4, stats.BestStreakDays, "days -4 through -7")
}

func TestStudyService_Stats_StreakSurvivesNoSessionToday(t *testing.T) {
	t.Parallel()

	userID := uuid.New()
	now := time.Date(2026, 3, 10, 8, 0, 0, 0, time.UTC)

	sessions := []*domain.StudySession{
		sessionOn(t, userID, now, -1, 5, 0),
		sessionOn(t, userID, now, -2, 5, 0),
	}

	svc, _ := newTestStudyService(
		&storemocks.MockDeckStore{},
		&storemocks.MockSessionStore{Sessions: sessions},
		&storemocks.MockCardStore{},
		func() time.Time { return now },
	)

	stats, err := svc.Stats(context.Background(), userID)
	require.NoError(t, err)
	assert.Zero(t, stats.CardsStudiedToday)
	assert.Equal(t, 2, stats.CurrentStreakDays, "a streak ending yesterday is still alive")
}

func TestStudyService_Stats_GapResetsCurrentStreak(t *testing.T) {
	t.Parallel()

	userID := uuid.New()
	now := time.Date(2026, 3, 10, 8, 0, 0, 0, time.UTC)

	sessions := []*domain.StudySession{
		sessionOn(t, userID, now, -3, 5, 0),
		sessionOn(t, userID, now, -4, 5, 0),
	}

	svc, _ := newTestStudyService(
		&storemocks.MockDeckStore{},
		&storemocks.MockSessionStore{Sessions: sessions},
		&storemocks.MockCardStore{},
		func() time.Time { return now },
	)

	stats, err := svc.Stats(context.Background(), userID)
	require.NoError(t, err)
	assert.Zero(t, stats.CurrentStreakDays)
	assert.Equal(t, 2, stats.BestStreakDays)
}
