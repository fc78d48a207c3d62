package domain

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewCard(t *testing.T) {
	t.Parallel()

	userID := uuid.New()
	deckID := uuid.New()

	testCases := []struct {
		name       string
		front      string
		back       string
		difficulty Difficulty
		position   int
		wantErr    error
	}{
		{name: "valid card", front: "What is mitosis?", back: "Cell division", difficulty: DifficultyEasy, position: 0},
		{name: "defaults difficulty to medium", front: "Q", back: "A", difficulty: "", position: 1},
		{name: "empty front rejected", front: "  ", back: "A", difficulty: DifficultyEasy, wantErr: ErrCardFrontEmpty},
		{name: "empty back rejected", front: "Q", back: "", difficulty: DifficultyEasy, wantErr: ErrCardBackEmpty},
		{name: "unknown difficulty rejected", front: "Q", back: "A", difficulty: "brutal", wantErr: ErrCardInvalidDifficulty},
		{name: "negative position rejected", front: "Q", back: "A", difficulty: DifficultyHard, position: -1, wantErr: ErrCardNegativePosition},
	}

	for _, tc := range testCases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			card, err := NewCard(userID, deckID, tc.front, tc.back, tc.difficulty, tc.position)
			if tc.wantErr != nil {
				assert.ErrorIs(t, err, tc.wantErr)
				return
			}

			require.NoError(t, err)
			assert.NotEqual(t, uuid.Nil, card.ID)
			assert.Equal(t, deckID, card.DeckID)
			assert.Equal(t, 0, card.TimesStudied)
			assert.Equal(t, 0, card.TimesCorrect)
			assert.Nil(t, card.LastReviewedAt)
			if tc.difficulty == "" {
				assert.Equal(t, DifficultyMedium, card.Difficulty)
			}
		})
	}
}

func TestDifficultyLevel(t *testing.T) {
	t.Parallel()

	assert.Equal(t, 1, DifficultyEasy.Level())
	assert.Equal(t, 2, DifficultyMedium.Level())
	assert.Equal(t, 3, DifficultyHard.Level())
	assert.Equal(t, 0, Difficulty("unknown").Level())
}

func TestCardRecordReview(t *testing.T) {
	t.Parallel()

	card, err := NewCard(uuid.New(), uuid.New(), "Q", "A", DifficultyMedium, 0)
	require.NoError(t, err)

	first := time.Date(2026, 1, 10, 8, 0, 0, 0, time.UTC)
	card.RecordReview(true, first)
	assert.Equal(t, 1, card.TimesStudied)
	assert.Equal(t, 1, card.TimesCorrect)
	require.NotNil(t, card.LastReviewedAt)
	assert.Equal(t, first, *card.LastReviewedAt)

	second := first.Add(24 * time.Hour)
	card.RecordReview(false, second)
	assert.Equal(t, 2, card.TimesStudied)
	assert.Equal(t, 1, card.TimesCorrect)
	assert.Equal(t, second, *card.LastReviewedAt)
}

func TestCardCopyTo(t *testing.T) {
	t.Parallel()

	card, err := NewCard(uuid.New(), uuid.New(), "Front", "Back", DifficultyHard, 3)
	require.NoError(t, err)
	card.RecordReview(true, time.Now())

	targetDeck := uuid.New()
	dup := card.CopyTo(targetDeck)

	assert.NotEqual(t, card.ID, dup.ID)
	assert.Equal(t, targetDeck, dup.DeckID)
	assert.Equal(t, card.UserID, dup.UserID)
	assert.Equal(t, card.FrontText, dup.FrontText)
	assert.Equal(t, card.BackText, dup.BackText)
	assert.Equal(t, card.Difficulty, dup.Difficulty)
	assert.Equal(t, card.Position, dup.Position)

	// Study history does not carry over to the copy.
	assert.Equal(t, 0, dup.TimesStudied)
	assert.Equal(t, 0, dup.TimesCorrect)
	assert.Nil(t, dup.LastReviewedAt)
}
