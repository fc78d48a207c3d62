package domain

import (
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Deck validation errors
var (
	ErrDeckIDEmpty     = errors.New("deck ID cannot be empty")
	ErrDeckUserIDEmpty = errors.New("deck user ID cannot be empty")
	ErrDeckNameEmpty   = errors.New("deck name cannot be empty")
	ErrDeckNameTooLong = errors.New("deck name cannot exceed 200 characters")
)

const maxDeckNameLength = 200

// CopyNameSuffix is appended to a deck's name when it is duplicated.
const CopyNameSuffix = " (Copy)"

// Deck is a named, owned collection of flashcards.
//
// CardCount is derived at query time by counting the deck's flashcards; it
// is never stored. A zero value may mean either an empty deck or a listing
// produced while counting was unavailable.
type Deck struct {
	ID            uuid.UUID  `json:"id"`
	UserID        uuid.UUID  `json:"user_id"`
	Name          string     `json:"name"`
	Description   string     `json:"description,omitempty"`
	Subject       string     `json:"subject,omitempty"`
	Grade         string     `json:"grade,omitempty"`
	Color         string     `json:"color,omitempty"`
	Tags          []string   `json:"tags,omitempty"`
	Archived      bool       `json:"archived"`
	CardCount     int        `json:"card_count"`
	LastStudiedAt *time.Time `json:"last_studied_at,omitempty"`
	CreatedAt     time.Time  `json:"created_at"`
	UpdatedAt     time.Time  `json:"updated_at"`
}

// NewDeck creates a new Deck owned by the given user.
// Returns an error if validation fails.
func NewDeck(userID uuid.UUID, name string) (*Deck, error) {
	now := time.Now().UTC()
	deck := &Deck{
		ID:        uuid.New(),
		UserID:    userID,
		Name:      strings.TrimSpace(name),
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := deck.Validate(); err != nil {
		return nil, err
	}

	return deck, nil
}

// Validate checks if the Deck has valid data.
func (d *Deck) Validate() error {
	if d.ID == uuid.Nil {
		return ErrDeckIDEmpty
	}

	if d.UserID == uuid.Nil {
		return ErrDeckUserIDEmpty
	}

	if strings.TrimSpace(d.Name) == "" {
		return ErrDeckNameEmpty
	}

	if len(d.Name) > maxDeckNameLength {
		return ErrDeckNameTooLong
	}

	return nil
}

// Copy returns a duplicate of the deck with a fresh ID, the copy suffix
// appended to its name, and reset study/archive state. Card duplication is
// handled separately by the service layer.
func (d *Deck) Copy() *Deck {
	now := time.Now().UTC()
	dup := &Deck{
		ID:          uuid.New(),
		UserID:      d.UserID,
		Name:        d.Name + CopyNameSuffix,
		Description: d.Description,
		Subject:     d.Subject,
		Grade:       d.Grade,
		Color:       d.Color,
		Tags:        append([]string(nil), d.Tags...),
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	return dup
}

// MarkStudied stamps the deck's last-studied time and bumps UpdatedAt.
func (d *Deck) MarkStudied(at time.Time) {
	t := at.UTC()
	d.LastStudiedAt = &t
	d.UpdatedAt = t
}
