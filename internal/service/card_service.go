package service

import (
	"context"
	"database/sql"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/studyhall/studyhall-api/internal/domain"
	"github.com/studyhall/studyhall-api/internal/generation"
	"github.com/studyhall/studyhall-api/internal/platform/logger"
	"github.com/studyhall/studyhall-api/internal/store"
)

// CreateCardInput carries the caller-supplied fields for a new card.
// A nil Position appends the card at the end of the deck.
type CreateCardInput struct {
	FrontText  string `json:"front_text" validate:"required,max=2000"`
	BackText   string `json:"back_text"  validate:"required,max=2000"`
	Difficulty string `json:"difficulty" validate:"omitempty,oneof=easy medium hard"`
	Position   *int   `json:"position"   validate:"omitempty,gte=0"`
}

// UpdateCardInput carries the caller-supplied fields for a card update.
// Nil pointers leave the corresponding field unchanged.
type UpdateCardInput struct {
	FrontText  *string `json:"front_text" validate:"omitempty,max=2000"`
	BackText   *string `json:"back_text"  validate:"omitempty,max=2000"`
	Difficulty *string `json:"difficulty" validate:"omitempty,oneof=easy medium hard"`
	Position   *int    `json:"position"   validate:"omitempty,gte=0"`
}

// CardService provides flashcard operations, all scoped to the owner.
type CardService interface {
	// ListCards returns a deck's cards in position order.
	ListCards(ctx context.Context, userID, deckID uuid.UUID) ([]*domain.Card, error)

	// GetCard retrieves one card.
	GetCard(ctx context.Context, userID, cardID uuid.UUID) (*domain.Card, error)

	// CreateCard validates and saves a new card in the given deck.
	CreateCard(ctx context.Context, userID, deckID uuid.UUID, input CreateCardInput) (*domain.Card, error)

	// UpdateCard applies the non-nil fields of input to an existing card.
	UpdateCard(ctx context.Context, userID, cardID uuid.UUID, input UpdateCardInput) (*domain.Card, error)

	// DeleteCard removes a card.
	// Returns store.ErrCardNotFound when the card is already gone.
	DeleteCard(ctx context.Context, userID, cardID uuid.UUID) error

	// GenerateCards extracts cards from free text with the configured
	// generator and appends them to the deck atomically.
	// Returns generation.ErrGenerationDisabled when no generator is wired.
	GenerateCards(ctx context.Context, userID, deckID uuid.UUID, sourceText string) ([]*domain.Card, error)
}

type cardServiceImpl struct {
	deckStore store.DeckStore
	cardStore store.CardStore
	generator generation.Generator
	logger    *slog.Logger
	runTx     txRunner
}

var _ CardService = (*cardServiceImpl)(nil)

// NewCardService creates a CardService. The generator may be nil, which
// disables AI-assisted card extraction.
// Panics on other nil dependencies: services are wired once at startup.
func NewCardService(
	db *sql.DB,
	deckStore store.DeckStore,
	cardStore store.CardStore,
	generator generation.Generator,
	log *slog.Logger,
) CardService {
	if db == nil {
		panic("service.NewCardService: db cannot be nil")
	}
	if deckStore == nil {
		panic("service.NewCardService: deckStore cannot be nil")
	}
	if cardStore == nil {
		panic("service.NewCardService: cardStore cannot be nil")
	}
	if log == nil {
		log = slog.Default()
	}

	return &cardServiceImpl{
		deckStore: deckStore,
		cardStore: cardStore,
		generator: generator,
		logger:    log.With(slog.String("component", "card_service")),
		runTx: func(ctx context.Context, fn store.TxFn) error {
			return store.RunInTransaction(ctx, db, fn)
		},
	}
}

func (s *cardServiceImpl) ListCards(ctx context.Context, userID, deckID uuid.UUID) ([]*domain.Card, error) {
	// Verify the deck exists and belongs to the caller so a foreign deck ID
	// yields not-found rather than an empty listing.
	if _, err := s.deckStore.GetByID(ctx, userID, deckID); err != nil {
		return nil, err
	}

	return s.cardStore.ListByDeck(ctx, userID, deckID)
}

func (s *cardServiceImpl) GetCard(ctx context.Context, userID, cardID uuid.UUID) (*domain.Card, error) {
	return s.cardStore.GetByID(ctx, userID, cardID)
}

func (s *cardServiceImpl) CreateCard(
	ctx context.Context,
	userID, deckID uuid.UUID,
	input CreateCardInput,
) (*domain.Card, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if _, err := s.deckStore.GetByID(ctx, userID, deckID); err != nil {
		return nil, err
	}

	position := 0
	if input.Position != nil {
		position = *input.Position
	} else {
		next, err := s.cardStore.NextPosition(ctx, userID, deckID)
		if err != nil {
			return nil, NewServiceError("create_card", "failed to determine card position", err)
		}
		position = next
	}

	card, err := domain.NewCard(
		userID,
		deckID,
		input.FrontText,
		input.BackText,
		domain.Difficulty(input.Difficulty),
		position,
	)
	if err != nil {
		return nil, err
	}

	if err := s.cardStore.Create(ctx, card); err != nil {
		log.Error("failed to create card",
			slog.String("deck_id", deckID.String()),
			slog.String("error", err.Error()))
		return nil, NewServiceError("create_card", "failed to save card", err)
	}

	log.Info("card created",
		slog.String("card_id", card.ID.String()),
		slog.String("deck_id", deckID.String()))

	return card, nil
}

func (s *cardServiceImpl) UpdateCard(
	ctx context.Context,
	userID, cardID uuid.UUID,
	input UpdateCardInput,
) (*domain.Card, error) {
	card, err := s.cardStore.GetByID(ctx, userID, cardID)
	if err != nil {
		return nil, err
	}

	if input.FrontText != nil {
		card.FrontText = strings.TrimSpace(*input.FrontText)
	}
	if input.BackText != nil {
		card.BackText = strings.TrimSpace(*input.BackText)
	}
	if input.Difficulty != nil {
		card.Difficulty = domain.Difficulty(*input.Difficulty)
	}
	if input.Position != nil {
		card.Position = *input.Position
	}
	card.UpdatedAt = time.Now().UTC()

	if err := card.Validate(); err != nil {
		return nil, err
	}

	if err := s.cardStore.Update(ctx, card); err != nil {
		return nil, err
	}

	return card, nil
}

func (s *cardServiceImpl) DeleteCard(ctx context.Context, userID, cardID uuid.UUID) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := s.cardStore.Delete(ctx, userID, cardID); err != nil {
		return err
	}

	log.Info("card deleted",
		slog.String("card_id", cardID.String()),
		slog.String("user_id", userID.String()))

	return nil
}

// GenerateCards runs the generator over the source text and appends the
// extracted cards to the deck in a single transaction, positioned after the
// deck's existing cards.
func (s *cardServiceImpl) GenerateCards(
	ctx context.Context,
	userID, deckID uuid.UUID,
	sourceText string,
) ([]*domain.Card, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if s.generator == nil {
		return nil, generation.ErrGenerationDisabled
	}

	if strings.TrimSpace(sourceText) == "" {
		return nil, generation.ErrEmptySourceText
	}

	if _, err := s.deckStore.GetByID(ctx, userID, deckID); err != nil {
		return nil, err
	}

	cards, err := s.generator.GenerateCards(ctx, sourceText, userID, deckID)
	if err != nil {
		log.Error("card generation failed",
			slog.String("deck_id", deckID.String()),
			slog.String("error", err.Error()))
		return nil, err
	}
	if len(cards) == 0 {
		return nil, generation.ErrInvalidResponse
	}

	base, err := s.cardStore.NextPosition(ctx, userID, deckID)
	if err != nil {
		return nil, NewServiceError("generate_cards", "failed to determine card positions", err)
	}
	for i, card := range cards {
		card.Position = base + i
	}

	err = s.runTx(ctx, func(ctx context.Context, tx *sql.Tx) error {
		if err := s.cardStore.WithTx(tx).CreateMultiple(ctx, cards); err != nil {
			return NewServiceError("generate_cards", "failed to save generated cards", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	log.Info("cards generated",
		slog.String("deck_id", deckID.String()),
		slog.Int("card_count", len(cards)))

	return cards, nil
}
