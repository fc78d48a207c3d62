package storemocks

import (
	"context"
	"database/sql"

	"github.com/google/uuid"

	"github.com/studyhall/studyhall-api/internal/domain"
	"github.com/studyhall/studyhall-api/internal/store"
)

// MockDeckStore implements store.DeckStore for testing
type MockDeckStore struct {
	ListFn               func(ctx context.Context, userID uuid.UUID, opts store.DeckListOptions) ([]*domain.Deck, error)
	ListWithCardCountsFn func(ctx context.Context, userID uuid.UUID, opts store.DeckListOptions) ([]*domain.Deck, error)
	GetByIDFn            func(ctx context.Context, userID, id uuid.UUID) (*domain.Deck, error)
	CreateFn             func(ctx context.Context, deck *domain.Deck) error
	UpdateFn             func(ctx context.Context, deck *domain.Deck) error
	DeleteFn             func(ctx context.Context, userID, id uuid.UUID) error
	TouchLastStudiedFn   func(ctx context.Context, userID, id uuid.UUID) error
	CountCardsFn         func(ctx context.Context, userID, deckID uuid.UUID) (int, error)

	// Default responses used when the corresponding Fn is nil
	Decks []*domain.Deck
	Deck  *domain.Deck
	Count int
	Err   error
}

var _ store.DeckStore = (*MockDeckStore)(nil)

func (m *MockDeckStore) List(ctx context.Context, userID uuid.UUID, opts store.DeckListOptions) ([]*domain.Deck, error) {
	if m.ListFn != nil {
		return m.ListFn(ctx, userID, opts)
	}
	return m.Decks, m.Err
}

func (m *MockDeckStore) ListWithCardCounts(ctx context.Context, userID uuid.UUID, opts store.DeckListOptions) ([]*domain.Deck, error) {
	if m.ListWithCardCountsFn != nil {
		return m.ListWithCardCountsFn(ctx, userID, opts)
	}
	return m.Decks, m.Err
}

func (m *MockDeckStore) GetByID(ctx context.Context, userID, id uuid.UUID) (*domain.Deck, error) {
	if m.GetByIDFn != nil {
		return m.GetByIDFn(ctx, userID, id)
	}
	return m.Deck, m.Err
}

func (m *MockDeckStore) Create(ctx context.Context, deck *domain.Deck) error {
	if m.CreateFn != nil {
		return m.CreateFn(ctx, deck)
	}
	return m.Err
}

func (m *MockDeckStore) Update(ctx context.Context, deck *domain.Deck) error {
	if m.UpdateFn != nil {
		return m.UpdateFn(ctx, deck)
	}
	return m.Err
}

func (m *MockDeckStore) Delete(ctx context.Context, userID, id uuid.UUID) error {
	if m.DeleteFn != nil {
		return m.DeleteFn(ctx, userID, id)
	}
	return m.Err
}

func (m *MockDeckStore) TouchLastStudied(ctx context.Context, userID, id uuid.UUID) error {
	if m.TouchLastStudiedFn != nil {
		return m.TouchLastStudiedFn(ctx, userID, id)
	}
	return m.Err
}

func (m *MockDeckStore) CountCards(ctx context.Context, userID, deckID uuid.UUID) (int, error) {
	if m.CountCardsFn != nil {
		return m.CountCardsFn(ctx, userID, deckID)
	}
	return m.Count, m.Err
}

// WithTx returns the mock itself; transactions are a no-op in tests.
func (m *MockDeckStore) WithTx(_ *sql.Tx) store.DeckStore {
	return m
}
