package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/studyhall/studyhall-api/internal/domain"
	"github.com/studyhall/studyhall-api/internal/platform/logger"
	"github.com/studyhall/studyhall-api/internal/store"
)

// psql builds queries with PostgreSQL-style $n placeholders.
var psql = sq.StatementBuilder.PlaceholderFormat(sq.Dollar)

// PostgresDeckStore implements the store.DeckStore interface
// using a PostgreSQL database as the storage backend.
type PostgresDeckStore struct {
	db     store.DBTX
	logger *slog.Logger
}

// NewPostgresDeckStore creates a new PostgreSQL implementation of the
// DeckStore interface. It accepts a database connection or transaction
// that should be initialized and managed by the caller. If logger is nil,
// a default logger will be used.
func NewPostgresDeckStore(db store.DBTX, logger *slog.Logger) *PostgresDeckStore {
	if db == nil {
		panic("db cannot be nil")
	}

	if logger == nil {
		logger = slog.Default()
	}

	return &PostgresDeckStore{
		db:     db,
		logger: logger.With(slog.String("component", "deck_store")),
	}
}

// Ensure PostgresDeckStore implements store.DeckStore interface
var _ store.DeckStore = (*PostgresDeckStore)(nil)

// WithTx implements store.DeckStore.WithTx
func (s *PostgresDeckStore) WithTx(tx *sql.Tx) store.DeckStore {
	return &PostgresDeckStore{
		db:     tx,
		logger: s.logger,
	}
}

// deckColumns are the deck table's columns in scan order.
const deckColumns = "id, user_id, name, description, subject, grade, color, tags, archived, last_studied_at, created_at, updated_at"

// listBuilder assembles the filtered deck listing query for one owner.
func listBuilder(columns string, userID uuid.UUID, opts store.DeckListOptions) sq.SelectBuilder {
	b := psql.Select(columns).
		From("decks d").
		Where(sq.Eq{"d.user_id": userID})

	if !opts.IncludeArchived {
		b = b.Where(sq.Eq{"d.archived": false})
	}
	if opts.Subject != "" {
		b = b.Where(sq.Eq{"d.subject": opts.Subject})
	}
	if opts.Tag != "" {
		// Tags are stored as a JSONB array of strings.
		b = b.Where("d.tags @> ?", tagJSON(opts.Tag))
	}

	return b.OrderBy("d.updated_at DESC")
}

// tagJSON renders a single tag as a JSONB array literal for containment
// matching.
func tagJSON(tag string) string {
	raw, _ := json.Marshal([]string{tag})
	return string(raw)
}

// List implements store.DeckStore.List
func (s *PostgresDeckStore) List(
	ctx context.Context,
	userID uuid.UUID,
	opts store.DeckListOptions,
) ([]*domain.Deck, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query, args, err := listBuilder(prefixColumns("d", deckColumns), userID, opts).ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build deck list query: %w", err)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		log.Error("failed to list decks",
			slog.String("error", err.Error()),
			slog.String("user_id", userID.String()))
		return nil, MapError(err)
	}
	defer func() { _ = rows.Close() }()

	decks := make([]*domain.Deck, 0)
	for rows.Next() {
		deck, err := scanDeck(rows.Scan)
		if err != nil {
			return nil, fmt.Errorf("failed to scan deck row: %w", err)
		}
		decks = append(decks, deck)
	}
	if err := rows.Err(); err != nil {
		return nil, MapError(err)
	}

	return decks, nil
}

// ListWithCardCounts implements store.DeckStore.ListWithCardCounts
// It annotates each deck with its card count in a single aggregate query
// (LEFT JOIN + GROUP BY), avoiding a count query per deck.
func (s *PostgresDeckStore) ListWithCardCounts(
	ctx context.Context,
	userID uuid.UUID,
	opts store.DeckListOptions,
) ([]*domain.Deck, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	b := listBuilder(prefixColumns("d", deckColumns)+", COUNT(c.id) AS card_count", userID, opts).
		LeftJoin("flashcards c ON c.deck_id = d.id").
		GroupBy(prefixColumns("d", deckColumns))

	query, args, err := b.ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build deck count query: %w", err)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		log.Error("failed to list decks with card counts",
			slog.String("error", err.Error()),
			slog.String("user_id", userID.String()))
		return nil, MapError(err)
	}
	defer func() { _ = rows.Close() }()

	decks := make([]*domain.Deck, 0)
	for rows.Next() {
		deck, err := scanDeckWithCount(rows.Scan)
		if err != nil {
			return nil, fmt.Errorf("failed to scan deck row: %w", err)
		}
		decks = append(decks, deck)
	}
	if err := rows.Err(); err != nil {
		return nil, MapError(err)
	}

	return decks, nil
}

// GetByID implements store.DeckStore.GetByID
// Returns store.ErrDeckNotFound if the deck does not exist or belongs to
// another user.
func (s *PostgresDeckStore) GetByID(ctx context.Context, userID, id uuid.UUID) (*domain.Deck, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `
		SELECT ` + deckColumns + `
		FROM decks
		WHERE id = $1 AND user_id = $2
	`

	deck, err := scanDeck(func(dest ...any) error {
		return s.db.QueryRowContext(ctx, query, id, userID).Scan(dest...)
	})
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			log.Debug("deck not found",
				slog.String("deck_id", id.String()),
				slog.String("user_id", userID.String()))
			return nil, store.ErrDeckNotFound
		}
		log.Error("failed to get deck by ID",
			slog.String("error", err.Error()),
			slog.String("deck_id", id.String()))
		return nil, MapError(err)
	}

	return deck, nil
}

// Create implements store.DeckStore.Create
func (s *PostgresDeckStore) Create(ctx context.Context, deck *domain.Deck) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := deck.Validate(); err != nil {
		log.Warn("deck validation failed during create",
			slog.String("error", err.Error()),
			slog.String("deck_id", deck.ID.String()))
		return err
	}

	tags, err := json.Marshal(deck.Tags)
	if err != nil {
		return fmt.Errorf("failed to encode deck tags: %w", err)
	}

	query := `
		INSERT INTO decks (id, user_id, name, description, subject, grade, color, tags, archived, last_studied_at, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
	`
	_, err = s.db.ExecContext(
		ctx,
		query,
		deck.ID,
		deck.UserID,
		deck.Name,
		deck.Description,
		deck.Subject,
		deck.Grade,
		deck.Color,
		tags,
		deck.Archived,
		deck.LastStudiedAt,
		deck.CreatedAt,
		deck.UpdatedAt,
	)

	if err != nil {
		log.Error("failed to create deck",
			slog.String("error", err.Error()),
			slog.String("deck_id", deck.ID.String()),
			slog.String("user_id", deck.UserID.String()))
		return MapError(err)
	}

	log.Info("deck created",
		slog.String("deck_id", deck.ID.String()),
		slog.String("user_id", deck.UserID.String()))
	return nil
}

// Update implements store.DeckStore.Update
// The statement filters by both id and owner so a user can never mutate
// another user's deck, even if the caller got the scoping wrong.
func (s *PostgresDeckStore) Update(ctx context.Context, deck *domain.Deck) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := deck.Validate(); err != nil {
		log.Warn("deck validation failed during update",
			slog.String("error", err.Error()),
			slog.String("deck_id", deck.ID.String()))
		return err
	}

	tags, err := json.Marshal(deck.Tags)
	if err != nil {
		return fmt.Errorf("failed to encode deck tags: %w", err)
	}

	deck.UpdatedAt = time.Now().UTC()

	query := `
		UPDATE decks
		SET name = $1, description = $2, subject = $3, grade = $4, color = $5,
		    tags = $6, archived = $7, updated_at = $8
		WHERE id = $9 AND user_id = $10
	`
	result, err := s.db.ExecContext(
		ctx,
		query,
		deck.Name,
		deck.Description,
		deck.Subject,
		deck.Grade,
		deck.Color,
		tags,
		deck.Archived,
		deck.UpdatedAt,
		deck.ID,
		deck.UserID,
	)

	if err != nil {
		log.Error("failed to update deck",
			slog.String("error", err.Error()),
			slog.String("deck_id", deck.ID.String()))
		return MapError(err)
	}

	return CheckRowsAffected(result, store.ErrDeckNotFound)
}

// Delete implements store.DeckStore.Delete
// Flashcards cascade at the database level; session history survives with
// its deck reference nulled.
func (s *PostgresDeckStore) Delete(ctx context.Context, userID, id uuid.UUID) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `DELETE FROM decks WHERE id = $1 AND user_id = $2`
	result, err := s.db.ExecContext(ctx, query, id, userID)
	if err != nil {
		log.Error("failed to delete deck",
			slog.String("error", err.Error()),
			slog.String("deck_id", id.String()))
		return MapError(err)
	}

	if err := CheckRowsAffected(result, store.ErrDeckNotFound); err != nil {
		return err
	}

	log.Info("deck deleted",
		slog.String("deck_id", id.String()),
		slog.String("user_id", userID.String()))
	return nil
}

// TouchLastStudied implements store.DeckStore.TouchLastStudied
func (s *PostgresDeckStore) TouchLastStudied(ctx context.Context, userID, id uuid.UUID) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	now := time.Now().UTC()
	query := `
		UPDATE decks
		SET last_studied_at = $1, updated_at = $1
		WHERE id = $2 AND user_id = $3
	`
	result, err := s.db.ExecContext(ctx, query, now, id, userID)
	if err != nil {
		log.Error("failed to touch deck last_studied_at",
			slog.String("error", err.Error()),
			slog.String("deck_id", id.String()))
		return MapError(err)
	}

	return CheckRowsAffected(result, store.ErrDeckNotFound)
}

// CountCards implements store.DeckStore.CountCards
func (s *PostgresDeckStore) CountCards(ctx context.Context, userID, deckID uuid.UUID) (int, error) {
	query := `SELECT COUNT(*) FROM flashcards WHERE deck_id = $1 AND user_id = $2`

	var count int
	if err := s.db.QueryRowContext(ctx, query, deckID, userID).Scan(&count); err != nil {
		return 0, MapError(err)
	}

	return count, nil
}

// scanDeck reads one deck row through the provided scan function.
func scanDeck(scan func(dest ...any) error) (*domain.Deck, error) {
	var deck domain.Deck
	var tags []byte
	var lastStudied sql.NullTime

	err := scan(
		&deck.ID,
		&deck.UserID,
		&deck.Name,
		&deck.Description,
		&deck.Subject,
		&deck.Grade,
		&deck.Color,
		&tags,
		&deck.Archived,
		&lastStudied,
		&deck.CreatedAt,
		&deck.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	return finishDeck(&deck, tags, lastStudied)
}

// scanDeckWithCount reads one deck row plus the trailing card_count column.
func scanDeckWithCount(scan func(dest ...any) error) (*domain.Deck, error) {
	var deck domain.Deck
	var tags []byte
	var lastStudied sql.NullTime

	err := scan(
		&deck.ID,
		&deck.UserID,
		&deck.Name,
		&deck.Description,
		&deck.Subject,
		&deck.Grade,
		&deck.Color,
		&tags,
		&deck.Archived,
		&lastStudied,
		&deck.CreatedAt,
		&deck.UpdatedAt,
		&deck.CardCount,
	)
	if err != nil {
		return nil, err
	}

	return finishDeck(&deck, tags, lastStudied)
}

// finishDeck decodes the serialized columns into the domain type.
func finishDeck(deck *domain.Deck, tags []byte, lastStudied sql.NullTime) (*domain.Deck, error) {
	if len(tags) > 0 {
		if err := json.Unmarshal(tags, &deck.Tags); err != nil {
			return nil, fmt.Errorf("failed to decode deck tags: %w", err)
		}
	}
	if lastStudied.Valid {
		t := lastStudied.Time
		deck.LastStudiedAt = &t
	}
	return deck, nil
}

// prefixColumns qualifies each column in a comma-separated list with a
// table alias, for use in joined queries.
func prefixColumns(alias, columns string) string {
	cols := strings.Split(columns, ",")
	for i, col := range cols {
		cols[i] = alias + "." + strings.TrimSpace(col)
	}
	return strings.Join(cols, ", ")
}
