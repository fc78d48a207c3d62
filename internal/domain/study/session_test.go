package study

import (
	"math/rand"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/studyhall/studyhall-api/internal/domain"
)

// testClock returns a clock that starts at base and advances by step on
// every call.
func testClock(base time.Time, step time.Duration) func() time.Time {
	current := base
	return func() time.Time {
		t := current
		current = current.Add(step)
		return t
	}
}

func makeCards(t *testing.T, n int) []*domain.Card {
	t.Helper()
	userID := uuid.New()
	deckID := uuid.New()
	cards := make([]*domain.Card, 0, n)
	for i := 0; i < n; i++ {
		card, err := domain.NewCard(userID, deckID, "front", "back", domain.DifficultyMedium, i)
		require.NoError(t, err)
		cards = append(cards, card)
	}
	return cards
}

func TestNewSessionEmptyDeck(t *testing.T) {
	t.Parallel()

	_, err := NewSession(uuid.New(), nil)
	assert.ErrorIs(t, err, ErrNoCards)

	_, err = NewSession(uuid.New(), []*domain.Card{})
	assert.ErrorIs(t, err, ErrNoCards)
}

func TestSessionShuffleIsPermutation(t *testing.T) {
	t.Parallel()

	for _, n := range []int{1, 2, 5, 20} {
		cards := makeCards(t, n)
		session, err := NewSession(uuid.New(), cards,
			WithRand(rand.New(rand.NewSource(42))))
		require.NoError(t, err)

		want := make(map[uuid.UUID]int, n)
		for _, c := range cards {
			want[c.ID]++
		}

		seen := make(map[uuid.UUID]int, n)
		for i := 0; i < n; i++ {
			card := session.CurrentCard()
			require.NotNil(t, card)
			seen[card.ID]++

			require.NoError(t, session.Reveal())
			_, err := session.Answer(true)
			require.NoError(t, err)
		}

		assert.Equal(t, want, seen, "presented cards must be a permutation of the deck")
		assert.Equal(t, StateCompleted, session.State())
	}
}

func TestSessionFullPassCounting(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		name    string
		total   int
		correct int
	}{
		{name: "all correct", total: 5, correct: 5},
		{name: "all incorrect", total: 5, correct: 0},
		{name: "mixed", total: 7, correct: 3},
		{name: "single card", total: 1, correct: 1},
	}

	for _, tc := range testCases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			deckID := uuid.New()
			cards := makeCards(t, tc.total)
			session, err := NewSession(deckID, cards,
				WithRand(rand.New(rand.NewSource(1))),
				WithClock(testClock(time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC), 10*time.Second)))
			require.NoError(t, err)

			for i := 0; i < tc.total; i++ {
				require.NoError(t, session.Reveal())
				_, err := session.Answer(i < tc.correct)
				require.NoError(t, err)
			}

			summary, err := session.Summary()
			require.NoError(t, err)

			assert.Equal(t, deckID, summary.DeckID)
			assert.Equal(t, tc.total, summary.CardsStudied)
			assert.Equal(t, tc.correct, summary.CorrectAnswers)
			assert.Equal(t, tc.total-tc.correct, summary.IncorrectAnswers)
			assert.Equal(t, summary.CardsStudied, summary.CorrectAnswers+summary.IncorrectAnswers)
		})
	}
}

func TestSessionTwoCardExample(t *testing.T) {
	t.Parallel()

	// Deck "Biology Ch.1" with 2 cards: one marked correct, one incorrect.
	cards := makeCards(t, 2)
	session, err := NewSession(uuid.New(), cards,
		WithRand(rand.New(rand.NewSource(7))))
	require.NoError(t, err)

	require.NoError(t, session.Reveal())
	_, err = session.Answer(true)
	require.NoError(t, err)

	require.NoError(t, session.Reveal())
	_, err = session.Answer(false)
	require.NoError(t, err)

	summary, err := session.Summary()
	require.NoError(t, err)
	assert.Equal(t, 2, summary.CardsStudied)
	assert.Equal(t, 1, summary.CorrectAnswers)
	assert.Equal(t, 1, summary.IncorrectAnswers)

	record, err := domain.NewStudySession(
		cards[0].UserID, summary.DeckID,
		summary.CorrectAnswers, summary.IncorrectAnswers,
		summary.DurationMinutes, summary.CompletedAt)
	require.NoError(t, err)
	assert.InDelta(t, 0.5, record.Accuracy(), 1e-9)
}

func TestSessionStateTransitions(t *testing.T) {
	t.Parallel()

	cards := makeCards(t, 2)
	session, err := NewSession(uuid.New(), cards,
		WithRand(rand.New(rand.NewSource(3))))
	require.NoError(t, err)

	// Answer before reveal is rejected.
	assert.Equal(t, StatePresenting, session.State())
	_, err = session.Answer(true)
	assert.ErrorIs(t, err, ErrNotRevealed)

	// Double reveal is rejected.
	require.NoError(t, session.Reveal())
	assert.Equal(t, StateRevealed, session.State())
	assert.ErrorIs(t, session.Reveal(), ErrAlreadyRevealed)

	// Answering advances and resets the flip.
	_, err = session.Answer(true)
	require.NoError(t, err)
	assert.Equal(t, StatePresenting, session.State())

	// Summary before completion is rejected.
	_, err = session.Summary()
	assert.ErrorIs(t, err, ErrSessionNotCompleted)

	require.NoError(t, session.Reveal())
	_, err = session.Answer(false)
	require.NoError(t, err)
	assert.Equal(t, StateCompleted, session.State())
	assert.Nil(t, session.CurrentCard())

	// Card actions after completion are rejected.
	assert.ErrorIs(t, session.Reveal(), ErrSessionCompleted)
	_, err = session.Answer(true)
	assert.ErrorIs(t, err, ErrSessionCompleted)
}

func TestSessionAnswerUpdatesCardCounters(t *testing.T) {
	t.Parallel()

	cards := makeCards(t, 1)
	session, err := NewSession(uuid.New(), cards,
		WithRand(rand.New(rand.NewSource(5))))
	require.NoError(t, err)

	require.NoError(t, session.Reveal())
	card, err := session.Answer(true)
	require.NoError(t, err)

	assert.Equal(t, 1, card.TimesStudied)
	assert.Equal(t, 1, card.TimesCorrect)
	require.NotNil(t, card.LastReviewedAt)
}

func TestSessionRestart(t *testing.T) {
	t.Parallel()

	cards := makeCards(t, 4)
	session, err := NewSession(uuid.New(), cards,
		WithRand(rand.New(rand.NewSource(9))))
	require.NoError(t, err)

	// Restart before completion is rejected.
	assert.ErrorIs(t, session.Restart(), ErrSessionNotCompleted)

	for range cards {
		require.NoError(t, session.Reveal())
		_, err := session.Answer(true)
		require.NoError(t, err)
	}
	require.Equal(t, StateCompleted, session.State())

	require.NoError(t, session.Restart())
	assert.Equal(t, StatePresenting, session.State())

	answered, total := session.Progress()
	assert.Equal(t, 0, answered)
	assert.Equal(t, len(cards), total)

	// The new pass still presents a permutation of the deck.
	seen := make(map[uuid.UUID]bool, len(cards))
	for range cards {
		seen[session.CurrentCard().ID] = true
		require.NoError(t, session.Reveal())
		_, err := session.Answer(false)
		require.NoError(t, err)
	}
	assert.Len(t, seen, len(cards))

	summary, err := session.Summary()
	require.NoError(t, err)
	assert.Equal(t, 0, summary.CorrectAnswers)
	assert.Equal(t, len(cards), summary.IncorrectAnswers)
}

func TestSessionDurationRoundsUpToMinutes(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		name    string
		step    time.Duration
		minutes int
	}{
		// The clock advances once at construction, once per answer, and
		// once at completion for the final stamp.
		{name: "seconds round up to one minute", step: 10 * time.Second, minutes: 1},
		{name: "whole minutes stay exact", step: 30 * time.Second, minutes: 2},
	}

	for _, tc := range testCases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			cards := makeCards(t, 2)
			session, err := NewSession(uuid.New(), cards,
				WithRand(rand.New(rand.NewSource(11))),
				WithClock(testClock(time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC), tc.step)))
			require.NoError(t, err)

			for range cards {
				require.NoError(t, session.Reveal())
				_, err := session.Answer(true)
				require.NoError(t, err)
			}

			summary, err := session.Summary()
			require.NoError(t, err)
			assert.Equal(t, tc.minutes, summary.DurationMinutes)
		})
	}
}

func TestMinutesRoundedUp(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		name     string
		d        time.Duration
		expected int
	}{
		{name: "zero", d: 0, expected: 0},
		{name: "negative clamps", d: -time.Minute, expected: 0},
		{name: "one second", d: time.Second, expected: 1},
		{name: "exact minute", d: time.Minute, expected: 1},
		{name: "just over a minute", d: time.Minute + time.Millisecond, expected: 2},
		{name: "several minutes", d: 7*time.Minute + 30*time.Second, expected: 8},
	}

	for _, tc := range testCases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tc.expected, minutesRoundedUp(tc.d))
		})
	}
}
