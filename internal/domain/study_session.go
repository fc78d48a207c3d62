package domain

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

// StudySession validation errors
var (
	ErrSessionIDEmpty       = errors.New("study session ID cannot be empty")
	ErrSessionUserIDEmpty   = errors.New("study session user ID cannot be empty")
	ErrSessionDeckIDEmpty   = errors.New("study session deck ID cannot be empty")
	ErrSessionNoCards       = errors.New("study session must cover at least one card")
	ErrSessionCountMismatch = errors.New("cards studied must equal correct plus incorrect answers")
	ErrSessionNegativeCount = errors.New("study session counts cannot be negative")
)

// StudySession is an immutable summary of one completed practice pass over
// a deck. A session is recorded exactly once, at completion; abandoned
// passes leave no record.
//
// DeckID is a pointer because session history outlives deck deletion: the
// reference is nulled rather than the history being dropped.
type StudySession struct {
	ID               uuid.UUID  `json:"id"`
	DeckID           *uuid.UUID `json:"deck_id,omitempty"`
	UserID           uuid.UUID  `json:"user_id"`
	CardsStudied     int        `json:"cards_studied"`
	CorrectAnswers   int        `json:"correct_answers"`
	IncorrectAnswers int        `json:"incorrect_answers"`
	DurationMinutes  int        `json:"duration_minutes"`
	CompletedAt      time.Time  `json:"completed_at"`
}

// NewStudySession creates a completed session record for the given deck.
// Returns an error if the counts violate the session invariants.
func NewStudySession(
	userID, deckID uuid.UUID,
	correct, incorrect, durationMinutes int,
	completedAt time.Time,
) (*StudySession, error) {
	session := &StudySession{
		ID:               uuid.New(),
		DeckID:           &deckID,
		UserID:           userID,
		CardsStudied:     correct + incorrect,
		CorrectAnswers:   correct,
		IncorrectAnswers: incorrect,
		DurationMinutes:  durationMinutes,
		CompletedAt:      completedAt.UTC(),
	}

	if err := session.Validate(); err != nil {
		return nil, err
	}

	return session, nil
}

// Validate checks the session invariants.
func (s *StudySession) Validate() error {
	if s.ID == uuid.Nil {
		return ErrSessionIDEmpty
	}

	if s.UserID == uuid.Nil {
		return ErrSessionUserIDEmpty
	}

	if s.DeckID != nil && *s.DeckID == uuid.Nil {
		return ErrSessionDeckIDEmpty
	}

	if s.CorrectAnswers < 0 || s.IncorrectAnswers < 0 || s.DurationMinutes < 0 {
		return ErrSessionNegativeCount
	}

	if s.CardsStudied == 0 {
		return ErrSessionNoCards
	}

	if s.CardsStudied != s.CorrectAnswers+s.IncorrectAnswers {
		return ErrSessionCountMismatch
	}

	return nil
}

// Accuracy returns the fraction of correct answers, in [0, 1].
func (s *StudySession) Accuracy() float64 {
	if s.CardsStudied == 0 {
		return 0
	}
	return float64(s.CorrectAnswers) / float64(s.CardsStudied)
}
