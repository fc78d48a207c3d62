package postgres

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/studyhall/studyhall-api/internal/domain"
	"github.com/studyhall/studyhall-api/internal/platform/logger"
	"github.com/studyhall/studyhall-api/internal/store"
)

// PostgresSessionStore implements the store.SessionStore interface
// using a PostgreSQL database as the storage backend.
type PostgresSessionStore struct {
	db     store.DBTX
	logger *slog.Logger
}

// NewPostgresSessionStore creates a new PostgreSQL implementation of the
// SessionStore interface. If logger is nil, a default logger will be used.
func NewPostgresSessionStore(db store.DBTX, logger *slog.Logger) *PostgresSessionStore {
	if db == nil {
		panic("db cannot be nil")
	}

	if logger == nil {
		logger = slog.Default()
	}

	return &PostgresSessionStore{
		db:     db,
		logger: logger.With(slog.String("component", "session_store")),
	}
}

// Ensure PostgresSessionStore implements store.SessionStore interface
var _ store.SessionStore = (*PostgresSessionStore)(nil)

// Create implements store.SessionStore.Create
// Sessions are immutable once written.
func (s *PostgresSessionStore) Create(ctx context.Context, session *domain.StudySession) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := session.Validate(); err != nil {
		log.Warn("session validation failed during create",
			slog.String("error", err.Error()),
			slog.String("session_id", session.ID.String()))
		return err
	}

	query := `
		INSERT INTO study_sessions (id, deck_id, user_id, cards_studied, correct_answers, incorrect_answers, duration_minutes, completed_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`
	_, err := s.db.ExecContext(
		ctx,
		query,
		session.ID,
		session.DeckID,
		session.UserID,
		session.CardsStudied,
		session.CorrectAnswers,
		session.IncorrectAnswers,
		session.DurationMinutes,
		session.CompletedAt,
	)

	if err != nil {
		if IsForeignKeyViolation(err) {
			log.Warn("foreign key violation during session creation",
				slog.String("session_id", session.ID.String()))
			return fmt.Errorf("%w: referenced deck or user not found",
				store.ErrInvalidEntity)
		}

		log.Error("failed to create study session",
			slog.String("error", err.Error()),
			slog.String("session_id", session.ID.String()))
		return MapError(err)
	}

	log.Info("study session recorded",
		slog.String("session_id", session.ID.String()),
		slog.String("user_id", session.UserID.String()),
		slog.Int("cards_studied", session.CardsStudied))
	return nil
}

// ListSince implements store.SessionStore.ListSince
func (s *PostgresSessionStore) ListSince(
	ctx context.Context,
	userID uuid.UUID,
	since time.Time,
) ([]*domain.StudySession, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `
		SELECT id, deck_id, user_id, cards_studied, correct_answers, incorrect_answers, duration_minutes, completed_at
		FROM study_sessions
		WHERE user_id = $1 AND completed_at >= $2
		ORDER BY completed_at DESC
	`

	rows, err := s.db.QueryContext(ctx, query, userID, since)
	if err != nil {
		log.Error("failed to list study sessions",
			slog.String("error", err.Error()),
			slog.String("user_id", userID.String()))
		return nil, MapError(err)
	}
	defer func() { _ = rows.Close() }()

	sessions := make([]*domain.StudySession, 0)
	for rows.Next() {
		var session domain.StudySession
		var deckID *uuid.UUID

		err := rows.Scan(
			&session.ID,
			&deckID,
			&session.UserID,
			&session.CardsStudied,
			&session.CorrectAnswers,
			&session.IncorrectAnswers,
			&session.DurationMinutes,
			&session.CompletedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan session row: %w", err)
		}

		session.DeckID = deckID
		sessions = append(sessions, &session)
	}
	if err := rows.Err(); err != nil {
		return nil, MapError(err)
	}

	return sessions, nil
}
