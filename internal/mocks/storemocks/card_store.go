package storemocks

import (
	"context"
	"database/sql"
	"sync"

	"github.com/google/uuid"

	"github.com/studyhall/studyhall-api/internal/domain"
	"github.com/studyhall/studyhall-api/internal/store"
)

// MockCardStore implements store.CardStore for testing
type MockCardStore struct {
	ListByDeckFn     func(ctx context.Context, userID, deckID uuid.UUID) ([]*domain.Card, error)
	GetByIDFn        func(ctx context.Context, userID, id uuid.UUID) (*domain.Card, error)
	CreateFn         func(ctx context.Context, card *domain.Card) error
	CreateMultipleFn func(ctx context.Context, cards []*domain.Card) error
	UpdateFn         func(ctx context.Context, card *domain.Card) error
	UpdateProgressFn func(ctx context.Context, card *domain.Card) error
	DeleteFn         func(ctx context.Context, userID, id uuid.UUID) error
	NextPositionFn   func(ctx context.Context, userID, deckID uuid.UUID) (int, error)

	// Default responses used when the corresponding Fn is nil
	Cards    []*domain.Card
	Card     *domain.Card
	Position int
	Err      error

	// UpdateProgressCalls records cards passed to UpdateProgress, for
	// asserting on asynchronous outbox flushes.
	UpdateProgressCalls struct {
		mu    sync.Mutex
		Cards []*domain.Card
	}
}

var _ store.CardStore = (*MockCardStore)(nil)

func (m *MockCardStore) ListByDeck(ctx context.Context, userID, deckID uuid.UUID) ([]*domain.Card, error) {
	if m.ListByDeckFn != nil {
		return m.ListByDeckFn(ctx, userID, deckID)
	}
	return m.Cards, m.Err
}

func (m *MockCardStore) GetByID(ctx context.Context, userID, id uuid.UUID) (*domain.Card, error) {
	if m.GetByIDFn != nil {
		return m.GetByIDFn(ctx, userID, id)
	}
	return m.Card, m.Err
}

func (m *MockCardStore) Create(ctx context.Context, card *domain.Card) error {
	if m.CreateFn != nil {
		return m.CreateFn(ctx, card)
	}
	return m.Err
}

func (m *MockCardStore) CreateMultiple(ctx context.Context, cards []*domain.Card) error {
	if m.CreateMultipleFn != nil {
		return m.CreateMultipleFn(ctx, cards)
	}
	return m.Err
}

func (m *MockCardStore) Update(ctx context.Context, card *domain.Card) error {
	if m.UpdateFn != nil {
		return m.UpdateFn(ctx, card)
	}
	return m.Err
}

func (m *MockCardStore) UpdateProgress(ctx context.Context, card *domain.Card) error {
	m.UpdateProgressCalls.mu.Lock()
	m.UpdateProgressCalls.Cards = append(m.UpdateProgressCalls.Cards, card)
	m.UpdateProgressCalls.mu.Unlock()

	if m.UpdateProgressFn != nil {
		return m.UpdateProgressFn(ctx, card)
	}
	return m.Err
}

// UpdateProgressCount returns the number of UpdateProgress calls seen so far.
func (m *MockCardStore) UpdateProgressCount() int {
	m.UpdateProgressCalls.mu.Lock()
	defer m.UpdateProgressCalls.mu.Unlock()
	return len(m.UpdateProgressCalls.Cards)
}

func (m *MockCardStore) Delete(ctx context.Context, userID, id uuid.UUID) error {
	if m.DeleteFn != nil {
		return m.DeleteFn(ctx, userID, id)
	}
	return m.Err
}

func (m *MockCardStore) NextPosition(ctx context.Context, userID, deckID uuid.UUID) (int, error) {
	if m.NextPositionFn != nil {
		return m.NextPositionFn(ctx, userID, deckID)
	}
	return m.Position, m.Err
}

// WithTx returns the mock itself; transactions are a no-op in tests.
func (m *MockCardStore) WithTx(_ *sql.Tx) store.CardStore {
	return m
}
