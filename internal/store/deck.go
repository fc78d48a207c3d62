package store

import (
	"context"
	"database/sql"

	"github.com/google/uuid"
	"github.com/studyhall/studyhall-api/internal/domain"
)

// DeckListOptions narrows a deck listing. The zero value lists all
// non-archived decks for the owner.
type DeckListOptions struct {
	// IncludeArchived also returns archived decks.
	IncludeArchived bool

	// Subject filters by exact subject match when non-empty.
	Subject string

	// Tag filters to decks carrying the tag when non-empty.
	Tag string
}

// DeckStore defines the interface for deck data persistence.
// All read and mutation methods are scoped by the owning user: a deck is
// only visible to, and mutable by, the identity that created it.
type DeckStore interface {
	// List returns the user's decks ordered by most-recently-updated
	// first. Card counts are NOT populated here; see CountCards and
	// CountCardsByDeck.
	List(ctx context.Context, userID uuid.UUID, opts DeckListOptions) ([]*domain.Deck, error)

	// ListWithCardCounts behaves like List but annotates each deck with
	// its card count using a single aggregate query.
	ListWithCardCounts(ctx context.Context, userID uuid.UUID, opts DeckListOptions) ([]*domain.Deck, error)

	// GetByID retrieves a deck by id, scoped to the owner.
	// Returns ErrDeckNotFound if the deck does not exist or belongs to
	// another user.
	GetByID(ctx context.Context, userID, id uuid.UUID) (*domain.Deck, error)

	// Create saves a new deck.
	Create(ctx context.Context, deck *domain.Deck) error

	// Update modifies an existing deck, filtered by both id and owner.
	// Returns ErrDeckNotFound if no matching row exists.
	Update(ctx context.Context, deck *domain.Deck) error

	// Delete removes a deck, filtered by both id and owner. Flashcards
	// cascade at the database level; study session history is retained
	// with its deck reference nulled.
	// Returns ErrDeckNotFound if no matching row exists.
	Delete(ctx context.Context, userID, id uuid.UUID) error

	// TouchLastStudied stamps the deck's last_studied_at timestamp.
	// Returns ErrDeckNotFound if no matching row exists.
	TouchLastStudied(ctx context.Context, userID, id uuid.UUID) error

	// CountCards returns the number of flashcards in one deck.
	CountCards(ctx context.Context, userID, deckID uuid.UUID) (int, error)

	// WithTx returns a DeckStore bound to the given transaction.
	WithTx(tx *sql.Tx) DeckStore
}
