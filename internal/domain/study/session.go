// Package study implements the study session engine: a client-driven
// practice pass over a fixed set of cards with shuffling, per-card scoring,
// timing, and a completion summary. The engine is pure state machine logic;
// persistence of per-card progress and the final summary is owned by the
// service layer.
package study

import (
	"errors"
	"math/rand"
	"time"

	"github.com/google/uuid"
	"github.com/studyhall/studyhall-api/internal/domain"
)

// Common errors
var (
	// ErrNoCards is returned when a session is started over an empty deck.
	// Empty decks never enter a session; callers route them to an
	// empty-deck presentation instead.
	ErrNoCards = errors.New("deck has no cards to study")

	// ErrNotRevealed is returned when an answer is submitted while the
	// current card is still showing its front face.
	ErrNotRevealed = errors.New("card must be revealed before answering")

	// ErrAlreadyRevealed is returned when Reveal is called twice for the
	// same card.
	ErrAlreadyRevealed = errors.New("card is already revealed")

	// ErrSessionCompleted is returned when a card action is attempted
	// after the pass has finished.
	ErrSessionCompleted = errors.New("study session is already completed")

	// ErrSessionNotCompleted is returned when a summary is requested
	// before the pass has finished.
	ErrSessionNotCompleted = errors.New("study session is not completed")
)

// State identifies where the session is in its lifecycle.
type State string

// Session states
const (
	// StatePresenting means the current card is showing its front face.
	StatePresenting State = "presenting"

	// StateRevealed means the current card is showing its back face and
	// awaits a correct/incorrect classification.
	StateRevealed State = "revealed"

	// StateCompleted means every card has been answered.
	StateCompleted State = "completed"
)

// Summary is the outcome of one completed pass. It feeds directly into a
// domain.StudySession record.
type Summary struct {
	DeckID           uuid.UUID
	CardsStudied     int
	CorrectAnswers   int
	IncorrectAnswers int
	DurationMinutes  int
	CompletedAt      time.Time
}

// Session drives one practice pass over a deck's cards.
//
// A Session is not safe for concurrent use; it models a single user
// working through a single deck on a single device.
type Session struct {
	deckID uuid.UUID
	cards  []*domain.Card
	order  []int

	index       int
	state       State
	correct     int
	incorrect   int
	startedAt   time.Time
	completedAt time.Time

	rng *rand.Rand
	now func() time.Time
}

// Option customizes session construction.
type Option func(*Session)

// WithRand sets the random source used for shuffling. Primarily for tests;
// the default is seeded from the wall clock.
func WithRand(rng *rand.Rand) Option {
	return func(s *Session) {
		s.rng = rng
	}
}

// WithClock sets the time source used for the start and completion stamps.
// Primarily for tests; the default is time.Now.
func WithClock(now func() time.Time) Option {
	return func(s *Session) {
		s.now = now
	}
}

// NewSession starts a practice pass over the given cards. The presentation
// order is an independent uniform shuffle of the input. Returns ErrNoCards
// for an empty card list.
func NewSession(deckID uuid.UUID, cards []*domain.Card, opts ...Option) (*Session, error) {
	if len(cards) == 0 {
		return nil, ErrNoCards
	}

	s := &Session{
		deckID: deckID,
		cards:  cards,
	}

	for _, opt := range opts {
		opt(s)
	}

	if s.rng == nil {
		s.rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	if s.now == nil {
		s.now = time.Now
	}

	s.reset()
	return s, nil
}

// reset re-enters the initial state with a fresh shuffle and zeroed
// counters.
func (s *Session) reset() {
	s.order = s.rng.Perm(len(s.cards))
	s.index = 0
	s.state = StatePresenting
	s.correct = 0
	s.incorrect = 0
	s.startedAt = s.now()
	s.completedAt = time.Time{}
}

// State returns the session's current state.
func (s *Session) State() State {
	return s.state
}

// DeckID returns the deck the session was started over.
func (s *Session) DeckID() uuid.UUID {
	return s.deckID
}

// CurrentCard returns the card being presented or revealed.
// Returns nil once the session is completed.
func (s *Session) CurrentCard() *domain.Card {
	if s.state == StateCompleted {
		return nil
	}
	return s.cards[s.order[s.index]]
}

// Progress reports the number of cards answered so far and the total.
func (s *Session) Progress() (answered, total int) {
	return s.correct + s.incorrect, len(s.cards)
}

// Elapsed returns the wall-clock time spent in the current pass. After
// completion it is frozen at the completion stamp. This backs the
// displayed timer; the persisted duration is derived from the start and
// completion stamps directly so missed ticks cannot skew it.
func (s *Session) Elapsed() time.Duration {
	if s.state == StateCompleted {
		return s.completedAt.Sub(s.startedAt)
	}
	return s.now().Sub(s.startedAt)
}

// Reveal flips the current card to its back face.
func (s *Session) Reveal() error {
	switch s.state {
	case StateCompleted:
		return ErrSessionCompleted
	case StateRevealed:
		return ErrAlreadyRevealed
	}
	s.state = StateRevealed
	return nil
}

// Answer classifies the revealed card as correct or incorrect and advances
// to the next card. The classification is final; there is no undo. Returns
// the card that was answered so the caller can persist its updated
// counters.
func (s *Session) Answer(correct bool) (*domain.Card, error) {
	switch s.state {
	case StateCompleted:
		return nil, ErrSessionCompleted
	case StatePresenting:
		return nil, ErrNotRevealed
	}

	card := s.cards[s.order[s.index]]
	card.RecordReview(correct, s.now())

	if correct {
		s.correct++
	} else {
		s.incorrect++
	}

	s.index++
	if s.index >= len(s.cards) {
		s.state = StateCompleted
		s.completedAt = s.now()
	} else {
		s.state = StatePresenting
	}

	return card, nil
}

// Summary returns the completed pass's aggregate result. The duration is
// derived from the start/completion stamps at minute granularity, rounded
// up: any nonzero elapsed time counts as at least one minute.
func (s *Session) Summary() (*Summary, error) {
	if s.state != StateCompleted {
		return nil, ErrSessionNotCompleted
	}

	return &Summary{
		DeckID:           s.deckID,
		CardsStudied:     s.correct + s.incorrect,
		CorrectAnswers:   s.correct,
		IncorrectAnswers: s.incorrect,
		DurationMinutes:  minutesRoundedUp(s.completedAt.Sub(s.startedAt)),
		CompletedAt:      s.completedAt,
	}, nil
}

// Restart re-enters the session with a fresh, independently drawn shuffle
// and zeroed counters. Only valid after completion.
func (s *Session) Restart() error {
	if s.state != StateCompleted {
		return ErrSessionNotCompleted
	}
	s.reset()
	return nil
}

// minutesRoundedUp converts a duration to whole minutes, rounding any
// remainder upward. Negative durations clamp to zero.
func minutesRoundedUp(d time.Duration) int {
	if d <= 0 {
		return 0
	}
	minutes := int(d / time.Minute)
	if d%time.Minute != 0 {
		minutes++
	}
	return minutes
}
