package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/studyhall/studyhall-api/internal/domain"
	"github.com/studyhall/studyhall-api/internal/platform/logger"
	"github.com/studyhall/studyhall-api/internal/store"
)

// PostgresCardStore implements the store.CardStore interface
// using a PostgreSQL database as the storage backend.
type PostgresCardStore struct {
	db     store.DBTX
	logger *slog.Logger
}

// NewPostgresCardStore creates a new PostgreSQL implementation of the
// CardStore interface. It accepts a database connection or transaction
// that should be initialized and managed by the caller. If logger is nil,
// a default logger will be used.
func NewPostgresCardStore(db store.DBTX, logger *slog.Logger) *PostgresCardStore {
	if db == nil {
		panic("db cannot be nil")
	}

	if logger == nil {
		logger = slog.Default()
	}

	return &PostgresCardStore{
		db:     db,
		logger: logger.With(slog.String("component", "card_store")),
	}
}

// Ensure PostgresCardStore implements store.CardStore interface
var _ store.CardStore = (*PostgresCardStore)(nil)

// WithTx implements store.CardStore.WithTx
func (s *PostgresCardStore) WithTx(tx *sql.Tx) store.CardStore {
	return &PostgresCardStore{
		db:     tx,
		logger: s.logger,
	}
}

// cardColumns are the flashcard table's columns in scan order.
const cardColumns = "id, deck_id, user_id, front_text, back_text, difficulty, position, times_studied, times_correct, last_reviewed_at, created_at, updated_at"

// ListByDeck implements store.CardStore.ListByDeck
// Cards come back in position order, which is the study/display order.
func (s *PostgresCardStore) ListByDeck(
	ctx context.Context,
	userID, deckID uuid.UUID,
) ([]*domain.Card, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `
		SELECT ` + cardColumns + `
		FROM flashcards
		WHERE deck_id = $1 AND user_id = $2
		ORDER BY position ASC
	`

	rows, err := s.db.QueryContext(ctx, query, deckID, userID)
	if err != nil {
		log.Error("failed to list cards",
			slog.String("error", err.Error()),
			slog.String("deck_id", deckID.String()))
		return nil, MapError(err)
	}
	defer func() { _ = rows.Close() }()

	cards := make([]*domain.Card, 0)
	for rows.Next() {
		card, err := scanCard(rows.Scan)
		if err != nil {
			return nil, fmt.Errorf("failed to scan card row: %w", err)
		}
		cards = append(cards, card)
	}
	if err := rows.Err(); err != nil {
		return nil, MapError(err)
	}

	return cards, nil
}

// GetByID implements store.CardStore.GetByID
// Returns store.ErrCardNotFound if the card does not exist or belongs to
// another user.
func (s *PostgresCardStore) GetByID(ctx context.Context, userID, id uuid.UUID) (*domain.Card, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `
		SELECT ` + cardColumns + `
		FROM flashcards
		WHERE id = $1 AND user_id = $2
	`

	card, err := scanCard(func(dest ...any) error {
		return s.db.QueryRowContext(ctx, query, id, userID).Scan(dest...)
	})
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			log.Debug("card not found",
				slog.String("card_id", id.String()),
				slog.String("user_id", userID.String()))
			return nil, store.ErrCardNotFound
		}
		log.Error("failed to get card by ID",
			slog.String("error", err.Error()),
			slog.String("card_id", id.String()))
		return nil, MapError(err)
	}

	return card, nil
}

// Create implements store.CardStore.Create
func (s *PostgresCardStore) Create(ctx context.Context, card *domain.Card) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := card.Validate(); err != nil {
		log.Warn("card validation failed during create",
			slog.String("error", err.Error()),
			slog.String("card_id", card.ID.String()))
		return err
	}

	query := `
		INSERT INTO flashcards (` + cardColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
	`
	_, err := s.db.ExecContext(
		ctx,
		query,
		card.ID,
		card.DeckID,
		card.UserID,
		card.FrontText,
		card.BackText,
		card.Difficulty,
		card.Position,
		card.TimesStudied,
		card.TimesCorrect,
		card.LastReviewedAt,
		card.CreatedAt,
		card.UpdatedAt,
	)

	if err != nil {
		if IsForeignKeyViolation(err) {
			log.Warn("foreign key violation during card creation",
				slog.String("card_id", card.ID.String()),
				slog.String("deck_id", card.DeckID.String()))
			return fmt.Errorf("%w: deck with ID %s not found",
				store.ErrInvalidEntity, card.DeckID)
		}

		log.Error("failed to create card",
			slog.String("error", err.Error()),
			slog.String("card_id", card.ID.String()))
		return MapError(err)
	}

	return nil
}

// CreateMultiple implements store.CardStore.CreateMultiple
// Run it inside a transaction (via WithTx and store.RunInTransaction) so
// a batch is all-or-nothing.
func (s *PostgresCardStore) CreateMultiple(ctx context.Context, cards []*domain.Card) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	for _, card := range cards {
		if err := card.Validate(); err != nil {
			log.Warn("card validation failed during bulk create",
				slog.String("error", err.Error()),
				slog.String("card_id", card.ID.String()))
			return err
		}
	}

	query := `
		INSERT INTO flashcards (` + cardColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
	`

	stmt, err := s.db.PrepareContext(ctx, query)
	if err != nil {
		return fmt.Errorf("failed to prepare bulk card insert: %w", err)
	}
	defer func() { _ = stmt.Close() }()

	for _, card := range cards {
		_, err := stmt.ExecContext(
			ctx,
			card.ID,
			card.DeckID,
			card.UserID,
			card.FrontText,
			card.BackText,
			card.Difficulty,
			card.Position,
			card.TimesStudied,
			card.TimesCorrect,
			card.LastReviewedAt,
			card.CreatedAt,
			card.UpdatedAt,
		)
		if err != nil {
			log.Error("failed to bulk insert card",
				slog.String("error", err.Error()),
				slog.String("card_id", card.ID.String()))
			return MapError(err)
		}
	}

	log.Info("cards created",
		slog.Int("count", len(cards)))
	return nil
}

// Update implements store.CardStore.Update
// Only content fields change here; study counters go through
// UpdateProgress.
func (s *PostgresCardStore) Update(ctx context.Context, card *domain.Card) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := card.Validate(); err != nil {
		log.Warn("card validation failed during update",
			slog.String("error", err.Error()),
			slog.String("card_id", card.ID.String()))
		return err
	}

	card.UpdatedAt = time.Now().UTC()

	query := `
		UPDATE flashcards
		SET front_text = $1, back_text = $2, difficulty = $3, position = $4, updated_at = $5
		WHERE id = $6 AND user_id = $7
	`
	result, err := s.db.ExecContext(
		ctx,
		query,
		card.FrontText,
		card.BackText,
		card.Difficulty,
		card.Position,
		card.UpdatedAt,
		card.ID,
		card.UserID,
	)

	if err != nil {
		log.Error("failed to update card",
			slog.String("error", err.Error()),
			slog.String("card_id", card.ID.String()))
		return MapError(err)
	}

	return CheckRowsAffected(result, store.ErrCardNotFound)
}

// UpdateProgress implements store.CardStore.UpdateProgress
// The caller has already applied RecordReview to the loaded card; this
// persists the resulting counters and review stamp.
func (s *PostgresCardStore) UpdateProgress(ctx context.Context, card *domain.Card) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `
		UPDATE flashcards
		SET times_studied = $1, times_correct = $2, last_reviewed_at = $3, updated_at = $4
		WHERE id = $5 AND user_id = $6
	`
	result, err := s.db.ExecContext(
		ctx,
		query,
		card.TimesStudied,
		card.TimesCorrect,
		card.LastReviewedAt,
		card.UpdatedAt,
		card.ID,
		card.UserID,
	)

	if err != nil {
		log.Error("failed to update card progress",
			slog.String("error", err.Error()),
			slog.String("card_id", card.ID.String()))
		return MapError(err)
	}

	return CheckRowsAffected(result, store.ErrCardNotFound)
}

// Delete implements store.CardStore.Delete
func (s *PostgresCardStore) Delete(ctx context.Context, userID, id uuid.UUID) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `DELETE FROM flashcards WHERE id = $1 AND user_id = $2`
	result, err := s.db.ExecContext(ctx, query, id, userID)
	if err != nil {
		log.Error("failed to delete card",
			slog.String("error", err.Error()),
			slog.String("card_id", id.String()))
		return MapError(err)
	}

	return CheckRowsAffected(result, store.ErrCardNotFound)
}

// NextPosition implements store.CardStore.NextPosition
func (s *PostgresCardStore) NextPosition(ctx context.Context, userID, deckID uuid.UUID) (int, error) {
	query := `
		SELECT COALESCE(MAX(position) + 1, 0)
		FROM flashcards
		WHERE deck_id = $1 AND user_id = $2
	`

	var position int
	if err := s.db.QueryRowContext(ctx, query, deckID, userID).Scan(&position); err != nil {
		return 0, MapError(err)
	}

	return position, nil
}

// scanCard reads one card row through the provided scan function.
func scanCard(scan func(dest ...any) error) (*domain.Card, error) {
	var card domain.Card
	var lastReviewed sql.NullTime

	err := scan(
		&card.ID,
		&card.DeckID,
		&card.UserID,
		&card.FrontText,
		&card.BackText,
		&card.Difficulty,
		&card.Position,
		&card.TimesStudied,
		&card.TimesCorrect,
		&lastReviewed,
		&card.CreatedAt,
		&card.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	if lastReviewed.Valid {
		t := lastReviewed.Time
		card.LastReviewedAt = &t
	}

	return &card, nil
}
