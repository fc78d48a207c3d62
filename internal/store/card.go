package store

import (
	"context"
	"database/sql"

	"github.com/google/uuid"
	"github.com/studyhall/studyhall-api/internal/domain"
)

// CardStore defines the interface for flashcard data persistence.
// Like DeckStore, every method is scoped by the owning user.
type CardStore interface {
	// ListByDeck returns the deck's cards ordered by position ascending.
	ListByDeck(ctx context.Context, userID, deckID uuid.UUID) ([]*domain.Card, error)

	// GetByID retrieves a card by id, scoped to the owner.
	// Returns ErrCardNotFound if the card does not exist or belongs to
	// another user.
	GetByID(ctx context.Context, userID, id uuid.UUID) (*domain.Card, error)

	// Create saves a single new card.
	Create(ctx context.Context, card *domain.Card) error

	// CreateMultiple saves a batch of cards, e.g. AI-assisted extraction
	// output or a deck duplication. Run it inside RunInTransaction via
	// WithTx so the batch is all-or-nothing.
	CreateMultiple(ctx context.Context, cards []*domain.Card) error

	// Update modifies an existing card's content fields, filtered by both
	// id and owner. Returns ErrCardNotFound if no matching row exists.
	Update(ctx context.Context, card *domain.Card) error

	// UpdateProgress persists a card's study counters and review stamp
	// after a read-then-write increment. Returns ErrCardNotFound if no
	// matching row exists.
	UpdateProgress(ctx context.Context, card *domain.Card) error

	// Delete removes a card, filtered by both id and owner.
	// Returns ErrCardNotFound if no matching row exists.
	Delete(ctx context.Context, userID, id uuid.UUID) error

	// NextPosition returns the next free ordering key in a deck
	// (max position + 1, or 0 for an empty deck).
	NextPosition(ctx context.Context, userID, deckID uuid.UUID) (int, error)

	// WithTx returns a CardStore bound to the given transaction.
	WithTx(tx *sql.Tx) CardStore
}
