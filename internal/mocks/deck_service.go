package mocks

import (
	"context"

	"github.com/google/uuid"

	"github.com/studyhall/studyhall-api/internal/domain"
	"github.com/studyhall/studyhall-api/internal/service"
	"github.com/studyhall/studyhall-api/internal/store"
)

// MockDeckService implements service.DeckService for testing
type MockDeckService struct {
	ListDecksFn     func(ctx context.Context, userID uuid.UUID, opts store.DeckListOptions) ([]*domain.Deck, error)
	GetDeckFn       func(ctx context.Context, userID, deckID uuid.UUID) (*domain.Deck, error)
	CreateDeckFn    func(ctx context.Context, userID uuid.UUID, input service.CreateDeckInput) (*domain.Deck, error)
	UpdateDeckFn    func(ctx context.Context, userID, deckID uuid.UUID, input service.UpdateDeckInput) (*domain.Deck, error)
	DeleteDeckFn    func(ctx context.Context, userID, deckID uuid.UUID) error
	ArchiveDeckFn   func(ctx context.Context, userID, deckID uuid.UUID) (*domain.Deck, error)
	DuplicateDeckFn func(ctx context.Context, userID, deckID uuid.UUID) (*domain.Deck, error)

	// Default responses used when the corresponding Fn is nil
	Decks []*domain.Deck
	Deck  *domain.Deck
	Err   error
}

var _ service.DeckService = (*MockDeckService)(nil)

func (m *MockDeckService) ListDecks(ctx context.Context, userID uuid.UUID, opts store.DeckListOptions) ([]*domain.Deck, error) {
	if m.ListDecksFn != nil {
		return m.ListDecksFn(ctx, userID, opts)
	}
	return m.Decks, m.Err
}

func (m *MockDeckService) GetDeck(ctx context.Context, userID, deckID uuid.UUID) (*domain.Deck, error) {
	if m.GetDeckFn != nil {
		return m.GetDeckFn(ctx, userID, deckID)
	}
	return m.Deck, m.Err
}

func (m *MockDeckService) CreateDeck(ctx context.Context, userID uuid.UUID, input service.CreateDeckInput) (*domain.Deck, error) {
	if m.CreateDeckFn != nil {
		return m.CreateDeckFn(ctx, userID, input)
	}
	return m.Deck, m.Err
}

func (m *MockDeckService) UpdateDeck(ctx context.Context, userID, deckID uuid.UUID, input service.UpdateDeckInput) (*domain.Deck, error) {
	if m.UpdateDeckFn != nil {
		return m.UpdateDeckFn(ctx, userID, deckID, input)
	}
	return m.Deck, m.Err
}

func (m *MockDeckService) DeleteDeck(ctx context.Context, userID, deckID uuid.UUID) error {
	if m.DeleteDeckFn != nil {
		return m.DeleteDeckFn(ctx, userID, deckID)
	}
	return m.Err
}

func (m *MockDeckService) ArchiveDeck(ctx context.Context, userID, deckID uuid.UUID) (*domain.Deck, error) {
	if m.ArchiveDeckFn != nil {
		return m.ArchiveDeckFn(ctx, userID, deckID)
	}
	return m.Deck, m.Err
}

func (m *MockDeckService) DuplicateDeck(ctx context.Context, userID, deckID uuid.UUID) (*domain.Deck, error) {
	if m.DuplicateDeckFn != nil {
		return m.DuplicateDeckFn(ctx, userID, deckID)
	}
	return m.Deck, m.Err
}
