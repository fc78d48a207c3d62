package storemocks

import (
	"context"

	"github.com/google/uuid"

	"github.com/studyhall/studyhall-api/internal/domain"
	"github.com/studyhall/studyhall-api/internal/generation"
)

// MockGenerator implements generation.Generator for testing
type MockGenerator struct {
	GenerateCardsFn func(ctx context.Context, sourceText string, userID, deckID uuid.UUID) ([]*domain.Card, error)

	// Default responses used when GenerateCardsFn is nil
	Cards []*domain.Card
	Err   error
}

var _ generation.Generator = (*MockGenerator)(nil)

func (m *MockGenerator) GenerateCards(ctx context.Context, sourceText string, userID, deckID uuid.UUID) ([]*domain.Card, error) {
	if m.GenerateCardsFn != nil {
		return m.GenerateCardsFn(ctx, sourceText, userID, deckID)
	}
	return m.Cards, m.Err
}
