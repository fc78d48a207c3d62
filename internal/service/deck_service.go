package service

import (
	"context"
	"database/sql"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/studyhall/studyhall-api/internal/domain"
	"github.com/studyhall/studyhall-api/internal/platform/logger"
	"github.com/studyhall/studyhall-api/internal/store"
)

// listRetryBaseDelay is the first backoff delay when retrying a failed deck
// listing read; each subsequent attempt doubles it.
const listRetryBaseDelay = 100 * time.Millisecond

// CreateDeckInput carries the caller-supplied fields for a new deck.
type CreateDeckInput struct {
	Name        string   `json:"name"        validate:"required,max=200"`
	Description string   `json:"description" validate:"max=2000"`
	Subject     string   `json:"subject"     validate:"max=100"`
	Grade       string   `json:"grade"       validate:"max=50"`
	Color       string   `json:"color"       validate:"max=50"`
	Tags        []string `json:"tags"        validate:"max=20,dive,max=50"`
}

// UpdateDeckInput carries the caller-supplied fields for a deck update.
// Nil pointers leave the corresponding field unchanged.
type UpdateDeckInput struct {
	Name        *string   `json:"name"        validate:"omitempty,max=200"`
	Description *string   `json:"description" validate:"omitempty,max=2000"`
	Subject     *string   `json:"subject"     validate:"omitempty,max=100"`
	Grade       *string   `json:"grade"       validate:"omitempty,max=50"`
	Color       *string   `json:"color"       validate:"omitempty,max=50"`
	Tags        *[]string `json:"tags"        validate:"omitempty,max=20,dive,max=50"`
	Archived    *bool     `json:"archived"`
}

// DeckService provides deck-related operations, all scoped to the owner.
type DeckService interface {
	// ListDecks returns the user's active decks, newest-updated first,
	// annotated with card counts. Counting is best-effort: when the count
	// path is unavailable the listing still succeeds with zero counts.
	ListDecks(ctx context.Context, userID uuid.UUID, opts store.DeckListOptions) ([]*domain.Deck, error)

	// GetDeck retrieves one deck with its card count.
	GetDeck(ctx context.Context, userID, deckID uuid.UUID) (*domain.Deck, error)

	// CreateDeck validates and saves a new deck.
	CreateDeck(ctx context.Context, userID uuid.UUID, input CreateDeckInput) (*domain.Deck, error)

	// UpdateDeck applies the non-nil fields of input to an existing deck.
	UpdateDeck(ctx context.Context, userID, deckID uuid.UUID, input UpdateDeckInput) (*domain.Deck, error)

	// DeleteDeck removes a deck and, via the schema, its cards.
	// Returns store.ErrDeckNotFound when the deck is already gone.
	DeleteDeck(ctx context.Context, userID, deckID uuid.UUID) error

	// ArchiveDeck hides a deck from the default listing without deleting it.
	ArchiveDeck(ctx context.Context, userID, deckID uuid.UUID) (*domain.Deck, error)

	// DuplicateDeck copies a deck and all of its cards under a new name.
	// The copy is created atomically.
	DuplicateDeck(ctx context.Context, userID, deckID uuid.UUID) (*domain.Deck, error)
}

// txRunner abstracts store.RunInTransaction so service tests can exercise
// transactional flows without a live database.
type txRunner func(ctx context.Context, fn store.TxFn) error

type deckServiceImpl struct {
	deckStore     store.DeckStore
	cardStore     store.CardStore
	retryAttempts int
	logger        *slog.Logger
	runTx         txRunner
}

var _ DeckService = (*deckServiceImpl)(nil)

// NewDeckService creates a DeckService.
// Panics on nil dependencies: services are wired once at startup.
func NewDeckService(
	db *sql.DB,
	deckStore store.DeckStore,
	cardStore store.CardStore,
	retryAttempts int,
	log *slog.Logger,
) DeckService {
	if db == nil {
		panic("service.NewDeckService: db cannot be nil")
	}
	if deckStore == nil {
		panic("service.NewDeckService: deckStore cannot be nil")
	}
	if cardStore == nil {
		panic("service.NewDeckService: cardStore cannot be nil")
	}
	if retryAttempts < 1 {
		retryAttempts = 1
	}
	if log == nil {
		log = slog.Default()
	}

	return &deckServiceImpl{
		deckStore:     deckStore,
		cardStore:     cardStore,
		retryAttempts: retryAttempts,
		logger:        log.With(slog.String("component", "deck_service")),
		runTx: func(ctx context.Context, fn store.TxFn) error {
			return store.RunInTransaction(ctx, db, fn)
		},
	}
}

// ListDecks reads the deck listing with retry and graceful count
// degradation: the aggregate counted listing is preferred, then a plain
// listing with per-deck counts, then a plain listing with zero counts.
// Only a failure of the plain listing itself is surfaced to the caller.
func (s *deckServiceImpl) ListDecks(
	ctx context.Context,
	userID uuid.UUID,
	opts store.DeckListOptions,
) ([]*domain.Deck, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	decks, err := s.listWithRetry(ctx, func(ctx context.Context) ([]*domain.Deck, error) {
		return s.deckStore.ListWithCardCounts(ctx, userID, opts)
	})
	if err == nil {
		return decks, nil
	}

	log.Warn("counted deck listing failed, falling back to plain listing",
		slog.String("user_id", userID.String()),
		slog.String("error", err.Error()))

	decks, err = s.listWithRetry(ctx, func(ctx context.Context) ([]*domain.Deck, error) {
		return s.deckStore.List(ctx, userID, opts)
	})
	if err != nil {
		log.Error("deck listing failed",
			slog.String("user_id", userID.String()),
			slog.String("error", err.Error()))
		return nil, NewServiceError("list_decks", "failed to list decks", err)
	}

	for _, deck := range decks {
		count, countErr := s.deckStore.CountCards(ctx, userID, deck.ID)
		if countErr != nil {
			log.Warn("card count unavailable, defaulting to zero",
				slog.String("deck_id", deck.ID.String()),
				slog.String("error", countErr.Error()))
			count = 0
		}
		deck.CardCount = count
	}

	return decks, nil
}

// listWithRetry retries a listing read with exponential backoff, aborting
// early when the context is done.
func (s *deckServiceImpl) listWithRetry(
	ctx context.Context,
	read func(ctx context.Context) ([]*domain.Deck, error),
) ([]*domain.Deck, error) {
	var lastErr error
	delay := listRetryBaseDelay

	for attempt := 1; attempt <= s.retryAttempts; attempt++ {
		decks, err := read(ctx)
		if err == nil {
			return decks, nil
		}
		lastErr = err

		if attempt == s.retryAttempts {
			break
		}

		s.logger.Debug("deck listing read failed, retrying",
			slog.Int("attempt", attempt),
			slog.String("error", err.Error()))

		select {
		case <-time.After(delay):
		case <-ctx.Done():
			return nil, ctx.Err()
		}
		delay *= 2
	}

	return nil, lastErr
}

func (s *deckServiceImpl) GetDeck(ctx context.Context, userID, deckID uuid.UUID) (*domain.Deck, error) {
	deck, err := s.deckStore.GetByID(ctx, userID, deckID)
	if err != nil {
		return nil, err
	}

	count, err := s.deckStore.CountCards(ctx, userID, deckID)
	if err != nil {
		logger.FromContextOrDefault(ctx, s.logger).Warn("card count unavailable, defaulting to zero",
			slog.String("deck_id", deckID.String()),
			slog.String("error", err.Error()))
		count = 0
	}
	deck.CardCount = count

	return deck, nil
}

func (s *deckServiceImpl) CreateDeck(
	ctx context.Context,
	userID uuid.UUID,
	input CreateDeckInput,
) (*domain.Deck, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	deck, err := domain.NewDeck(userID, input.Name)
	if err != nil {
		return nil, err
	}
	deck.Description = input.Description
	deck.Subject = input.Subject
	deck.Grade = input.Grade
	deck.Color = input.Color
	deck.Tags = input.Tags

	if err := s.deckStore.Create(ctx, deck); err != nil {
		log.Error("failed to create deck",
			slog.String("user_id", userID.String()),
			slog.String("error", err.Error()))
		return nil, NewServiceError("create_deck", "failed to save deck", err)
	}

	log.Info("deck created",
		slog.String("deck_id", deck.ID.String()),
		slog.String("user_id", userID.String()))

	return deck, nil
}

func (s *deckServiceImpl) UpdateDeck(
	ctx context.Context,
	userID, deckID uuid.UUID,
	input UpdateDeckInput,
) (*domain.Deck, error) {
	deck, err := s.deckStore.GetByID(ctx, userID, deckID)
	if err != nil {
		return nil, err
	}

	if input.Name != nil {
		deck.Name = *input.Name
	}
	if input.Description != nil {
		deck.Description = *input.Description
	}
	if input.Subject != nil {
		deck.Subject = *input.Subject
	}
	if input.Grade != nil {
		deck.Grade = *input.Grade
	}
	if input.Color != nil {
		deck.Color = *input.Color
	}
	if input.Tags != nil {
		deck.Tags = *input.Tags
	}
	if input.Archived != nil {
		deck.Archived = *input.Archived
	}
	deck.UpdatedAt = time.Now().UTC()

	if err := deck.Validate(); err != nil {
		return nil, err
	}

	if err := s.deckStore.Update(ctx, deck); err != nil {
		return nil, err
	}

	return deck, nil
}

func (s *deckServiceImpl) DeleteDeck(ctx context.Context, userID, deckID uuid.UUID) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := s.deckStore.Delete(ctx, userID, deckID); err != nil {
		return err
	}

	log.Info("deck deleted",
		slog.String("deck_id", deckID.String()),
		slog.String("user_id", userID.String()))

	return nil
}

func (s *deckServiceImpl) ArchiveDeck(ctx context.Context, userID, deckID uuid.UUID) (*domain.Deck, error) {
	archived := true
	return s.UpdateDeck(ctx, userID, deckID, UpdateDeckInput{Archived: &archived})
}

// DuplicateDeck copies the deck and its cards in one transaction. The copy
// gets a fresh ID, the copy-name suffix, and cards with zeroed study
// counters; content and ordering are preserved.
func (s *deckServiceImpl) DuplicateDeck(
	ctx context.Context,
	userID, deckID uuid.UUID,
) (*domain.Deck, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	original, err := s.deckStore.GetByID(ctx, userID, deckID)
	if err != nil {
		return nil, err
	}

	cards, err := s.cardStore.ListByDeck(ctx, userID, deckID)
	if err != nil {
		return nil, NewServiceError("duplicate_deck", "failed to load cards", err)
	}

	dup := original.Copy()
	copies := make([]*domain.Card, 0, len(cards))
	for _, card := range cards {
		copies = append(copies, card.CopyTo(dup.ID))
	}

	err = s.runTx(ctx, func(ctx context.Context, tx *sql.Tx) error {
		if err := s.deckStore.WithTx(tx).Create(ctx, dup); err != nil {
			return NewServiceError("duplicate_deck", "failed to save deck copy", err)
		}
		if len(copies) > 0 {
			if err := s.cardStore.WithTx(tx).CreateMultiple(ctx, copies); err != nil {
				return NewServiceError("duplicate_deck", "failed to save card copies", err)
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	dup.CardCount = len(copies)

	log.Info("deck duplicated",
		slog.String("source_deck_id", deckID.String()),
		slog.String("new_deck_id", dup.ID.String()),
		slog.Int("card_count", len(copies)))

	return dup, nil
}
