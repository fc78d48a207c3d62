package store

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/studyhall/studyhall-api/internal/domain"
)

// SessionStore defines the interface for study session persistence.
// Sessions are immutable once written; there are no update methods.
type SessionStore interface {
	// Create saves a completed session summary.
	Create(ctx context.Context, session *domain.StudySession) error

	// ListSince returns the user's sessions completed at or after the
	// given time, newest first. Used by the statistics aggregation.
	ListSince(ctx context.Context, userID uuid.UUID, since time.Time) ([]*domain.StudySession, error)
}
