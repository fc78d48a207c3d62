package mocks

import (
	"context"

	"github.com/google/uuid"

	"github.com/studyhall/studyhall-api/internal/domain"
	"github.com/studyhall/studyhall-api/internal/service"
	"github.com/studyhall/studyhall-api/internal/service/progress"
)

// MockStudyService implements service.StudyService for testing
type MockStudyService struct {
	RecordProgressFn  func(ctx context.Context, userID, cardID uuid.UUID, correct bool) error
	CompleteSessionFn func(ctx context.Context, userID, deckID uuid.UUID, input service.CompleteSessionInput) (*domain.StudySession, error)
	StatsFn           func(ctx context.Context, userID uuid.UUID) (*service.StudyStats, error)
	ProgressStatusFn  func() progress.Status

	// Default responses used when the corresponding Fn is nil
	Session     *domain.StudySession
	StatsResult *service.StudyStats
	Status      progress.Status
	Err         error
}

var _ service.StudyService = (*MockStudyService)(nil)

func (m *MockStudyService) RecordProgress(ctx context.Context, userID, cardID uuid.UUID, correct bool) error {
	if m.RecordProgressFn != nil {
		return m.RecordProgressFn(ctx, userID, cardID, correct)
	}
	return m.Err
}

func (m *MockStudyService) CompleteSession(ctx context.Context, userID, deckID uuid.UUID, input service.CompleteSessionInput) (*domain.StudySession, error) {
	if m.CompleteSessionFn != nil {
		return m.CompleteSessionFn(ctx, userID, deckID, input)
	}
	return m.Session, m.Err
}

func (m *MockStudyService) Stats(ctx context.Context, userID uuid.UUID) (*service.StudyStats, error) {
	if m.StatsFn != nil {
		return m.StatsFn(ctx, userID)
	}
	return m.StatsResult, m.Err
}

func (m *MockStudyService) ProgressStatus() progress.Status {
	if m.ProgressStatusFn != nil {
		return m.ProgressStatusFn()
	}
	return m.Status
}
