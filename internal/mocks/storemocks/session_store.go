package storemocks

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/studyhall/studyhall-api/internal/domain"
	"github.com/studyhall/studyhall-api/internal/store"
)

// MockSessionStore implements store.SessionStore for testing
type MockSessionStore struct {
	CreateFn    func(ctx context.Context, session *domain.StudySession) error
	ListSinceFn func(ctx context.Context, userID uuid.UUID, since time.Time) ([]*domain.StudySession, error)

	// Default responses used when the corresponding Fn is nil
	Sessions []*domain.StudySession
	Err      error

	// Created records sessions passed to Create
	Created []*domain.StudySession
}

var _ store.SessionStore = (*MockSessionStore)(nil)

func (m *MockSessionStore) Create(ctx context.Context, session *domain.StudySession) error {
	m.Created = append(m.Created, session)
	if m.CreateFn != nil {
		return m.CreateFn(ctx, session)
	}
	return m.Err
}

func (m *MockSessionStore) ListSince(ctx context.Context, userID uuid.UUID, since time.Time) ([]*domain.StudySession, error) {
	if m.ListSinceFn != nil {
		return m.ListSinceFn(ctx, userID, since)
	}
	return m.Sessions, m.Err
}
