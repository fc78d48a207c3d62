package domain

import (
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Card validation errors
var (
	ErrCardIDEmpty           = errors.New("card ID cannot be empty")
	ErrCardUserIDEmpty       = errors.New("card user ID cannot be empty")
	ErrCardDeckIDEmpty       = errors.New("card deck ID cannot be empty")
	ErrCardFrontEmpty        = errors.New("card front text cannot be empty")
	ErrCardBackEmpty         = errors.New("card back text cannot be empty")
	ErrCardInvalidDifficulty = errors.New("card difficulty must be easy, medium, or hard")
	ErrCardNegativePosition  = errors.New("card position cannot be negative")
)

// Difficulty is the author-assigned difficulty of a flashcard.
type Difficulty string

// Possible difficulty values
const (
	DifficultyEasy   Difficulty = "easy"
	DifficultyMedium Difficulty = "medium"
	DifficultyHard   Difficulty = "hard"
)

// IsValid reports whether the difficulty is one of the known values.
func (d Difficulty) IsValid() bool {
	switch d {
	case DifficultyEasy, DifficultyMedium, DifficultyHard:
		return true
	}
	return false
}

// Level returns the numeric form of the difficulty (easy=1, medium=2, hard=3).
// Unknown values map to 0.
func (d Difficulty) Level() int {
	switch d {
	case DifficultyEasy:
		return 1
	case DifficultyMedium:
		return 2
	case DifficultyHard:
		return 3
	}
	return 0
}

// Card is a front/back question-answer unit belonging to one deck.
// Position defines study and display order within the deck; uniqueness of
// position is best-effort, not enforced.
type Card struct {
	ID             uuid.UUID  `json:"id"`
	DeckID         uuid.UUID  `json:"deck_id"`
	UserID         uuid.UUID  `json:"user_id"`
	FrontText      string     `json:"front_text"`
	BackText       string     `json:"back_text"`
	Difficulty     Difficulty `json:"difficulty"`
	Position       int        `json:"position"`
	TimesStudied   int        `json:"times_studied"`
	TimesCorrect   int        `json:"times_correct"`
	LastReviewedAt *time.Time `json:"last_reviewed_at,omitempty"`
	CreatedAt      time.Time  `json:"created_at"`
	UpdatedAt      time.Time  `json:"updated_at"`
}

// NewCard creates a new Card in the given deck. An empty difficulty
// defaults to medium. Returns an error if validation fails.
func NewCard(userID, deckID uuid.UUID, frontText, backText string, difficulty Difficulty, position int) (*Card, error) {
	if difficulty == "" {
		difficulty = DifficultyMedium
	}

	now := time.Now().UTC()
	card := &Card{
		ID:         uuid.New(),
		DeckID:     deckID,
		UserID:     userID,
		FrontText:  strings.TrimSpace(frontText),
		BackText:   strings.TrimSpace(backText),
		Difficulty: difficulty,
		Position:   position,
		CreatedAt:  now,
		UpdatedAt:  now,
	}

	if err := card.Validate(); err != nil {
		return nil, err
	}

	return card, nil
}

// Validate checks if the Card has valid data.
func (c *Card) Validate() error {
	if c.ID == uuid.Nil {
		return ErrCardIDEmpty
	}

	if c.UserID == uuid.Nil {
		return ErrCardUserIDEmpty
	}

	if c.DeckID == uuid.Nil {
		return ErrCardDeckIDEmpty
	}

	if strings.TrimSpace(c.FrontText) == "" {
		return ErrCardFrontEmpty
	}

	if strings.TrimSpace(c.BackText) == "" {
		return ErrCardBackEmpty
	}

	if !c.Difficulty.IsValid() {
		return ErrCardInvalidDifficulty
	}

	if c.Position < 0 {
		return ErrCardNegativePosition
	}

	return nil
}

// CopyTo returns a duplicate of the card under a different deck with a
// fresh ID and zeroed study counters. Content and position are preserved.
func (c *Card) CopyTo(deckID uuid.UUID) *Card {
	now := time.Now().UTC()
	return &Card{
		ID:         uuid.New(),
		DeckID:     deckID,
		UserID:     c.UserID,
		FrontText:  c.FrontText,
		BackText:   c.BackText,
		Difficulty: c.Difficulty,
		Position:   c.Position,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
}

// RecordReview applies one study answer to the card's counters and stamps
// the review time. This is a read-then-write mutation: callers load the
// current card, apply RecordReview, and persist the result.
func (c *Card) RecordReview(correct bool, at time.Time) {
	t := at.UTC()
	c.TimesStudied++
	if correct {
		c.TimesCorrect++
	}
	c.LastReviewedAt = &t
	c.UpdatedAt = t
}
