// Package generation defines the boundary between the application core and
// external AI services that extract flashcards from free text.
package generation

import (
	"context"

	"github.com/google/uuid"

	"github.com/studyhall/studyhall-api/internal/domain"
)

// Generator defines the interface for extracting flashcards from text.
// Implementations live under internal/platform; the service layer depends
// only on this interface.
type Generator interface {
	// GenerateCards extracts flashcard candidates from the given source
	// text and returns them as cards belonging to the given user and deck.
	// Positions on the returned cards are provisional; the caller assigns
	// final deck positions before persisting.
	GenerateCards(ctx context.Context, sourceText string, userID, deckID uuid.UUID) ([]*domain.Card, error)
}
