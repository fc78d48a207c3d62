package mocks

import (
	"context"

	"github.com/google/uuid"

	"github.com/studyhall/studyhall-api/internal/domain"
	"github.com/studyhall/studyhall-api/internal/service"
)

// MockCardService implements service.CardService for testing
type MockCardService struct {
	ListCardsFn     func(ctx context.Context, userID, deckID uuid.UUID) ([]*domain.Card, error)
	GetCardFn       func(ctx context.Context, userID, cardID uuid.UUID) (*domain.Card, error)
	CreateCardFn    func(ctx context.Context, userID, deckID uuid.UUID, input service.CreateCardInput) (*domain.Card, error)
	UpdateCardFn    func(ctx context.Context, userID, cardID uuid.UUID, input service.UpdateCardInput) (*domain.Card, error)
	DeleteCardFn    func(ctx context.Context, userID, cardID uuid.UUID) error
	GenerateCardsFn func(ctx context.Context, userID, deckID uuid.UUID, sourceText string) ([]*domain.Card, error)

	// Default responses used when the corresponding Fn is nil
	Cards []*domain.Card
	Card  *domain.Card
	Err   error
}

var _ service.CardService = (*MockCardService)(nil)

func (m *MockCardService) ListCards(ctx context.Context, userID, deckID uuid.UUID) ([]*domain.Card, error) {
	if m.ListCardsFn != nil {
		return m.ListCardsFn(ctx, userID, deckID)
	}
	return m.Cards, m.Err
}

func (m *MockCardService) GetCard(ctx context.Context, userID, cardID uuid.UUID) (*domain.Card, error) {
	if m.GetCardFn != nil {
		return m.GetCardFn(ctx, userID, cardID)
	}
	return m.Card, m.Err
}

func (m *MockCardService) CreateCard(ctx context.Context, userID, deckID uuid.UUID, input service.CreateCardInput) (*domain.Card, error) {
	if m.CreateCardFn != nil {
		return m.CreateCardFn(ctx, userID, deckID, input)
	}
	return m.Card, m.Err
}

func (m *MockCardService) UpdateCard(ctx context.Context, userID, cardID uuid.UUID, input service.UpdateCardInput) (*domain.Card, error) {
	if m.UpdateCardFn != nil {
		return m.UpdateCardFn(ctx, userID, cardID, input)
	}
	return m.Card, m.Err
}

func (m *MockCardService) DeleteCard(ctx context.Context, userID, cardID uuid.UUID) error {
	if m.DeleteCardFn != nil {
		return m.DeleteCardFn(ctx, userID, cardID)
	}
	return m.Err
}

func (m *MockCardService) GenerateCards(ctx context.Context, userID, deckID uuid.UUID, sourceText string) ([]*domain.Card, error) {
	if m.GenerateCardsFn != nil {
		return m.GenerateCardsFn(ctx, userID, deckID, sourceText)
	}
	return m.Cards, m.Err
}
