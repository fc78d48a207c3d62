package service

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"
	"sync/atomic"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/studyhall/studyhall-api/internal/domain"
	"github.com/studyhall/studyhall-api/internal/mocks/storemocks"
	"github.com/studyhall/studyhall-api/internal/store"
)

// passthroughTx runs the transaction function directly, without a database.
func passthroughTx(ctx context.Context, fn store.TxFn) error {
	return fn(ctx, (*sql.Tx)(nil))
}

func newTestDeckService(deckStore store.DeckStore, cardStore store.CardStore, attempts int) *deckServiceImpl {
	return &deckServiceImpl{
		deckStore:     deckStore,
		cardStore:     cardStore,
		retryAttempts: attempts,
		logger:        slog.Default(),
		runTx:         passthroughTx,
	}
}

func makeDeck(t *testing.T, userID uuid.UUID, name string) *domain.Deck {
	t.Helper()
	deck, err := domain.NewDeck(userID, name)
	require.NoError(t, err)
	return deck
}

func makeCard(t *testing.T, userID, deckID uuid.UUID, front string, position int) *domain.Card {
	t.Helper()
	card, err := domain.NewCard(userID, deckID, front, "back of "+front, domain.DifficultyMedium, position)
	require.NoError(t, err)
	return card
}

func TestDeckService_ListDecks_AggregateCounts(t *testing.T) {
	t.Parallel()

	userID := uuid.New()
	deck := makeDeck(t, userID, "Biology")
	deck.CardCount = 7

	deckStore := &storemocks.MockDeckStore{Decks: []*domain.Deck{deck}}
	svc := newTestDeckService(deckStore, &storemocks.MockCardStore{}, 1)

	decks, err := svc.ListDecks(context.Background(), userID, store.DeckListOptions{})
	require.NoError(t, err)
	require.Len(t, decks, 1)
	assert.Equal(t, 7, decks[0].CardCount)
}

func TestDeckService_ListDecks_FallsBackToPerDeckCounts(t *testing.T) {
	t.Parallel()

	userID := uuid.New()
	deck := makeDeck(t, userID, "Chemistry")

	deckStore := &storemocks.MockDeckStore{
		ListWithCardCountsFn: func(ctx context.Context, _ uuid.UUID, _ store.DeckListOptions) ([]*domain.Deck, error) {
			return nil, errors.New("aggregate query failed")
		},
		ListFn: func(ctx context.Context, _ uuid.UUID, _ store.DeckListOptions) ([]*domain.Deck, error) {
			return []*domain.Deck{deck}, nil
		},
		CountCardsFn: func(ctx context.Context, _, _ uuid.UUID) (int, error) {
			return 3, nil
		},
	}
	svc := newTestDeckService(deckStore, &storemocks.MockCardStore{}, 1)

	decks, err := svc.ListDecks(context.Background(), userID, store.DeckListOptions{})
	require.NoError(t, err)
	require.Len(t, decks, 1)
	assert.Equal(t, 3, decks[0].CardCount)
}

func TestDeckService_ListDecks_DegradesToZeroCounts(t *testing.T) {
	t.Parallel()

	userID := uuid.New()
	deck := makeDeck(t, userID, "Physics")
	deck.CardCount = 99 // stale value that must be overwritten

	deckStore := &storemocks.MockDeckStore{
		ListWithCardCountsFn: func(ctx context.Context, _ uuid.UUID, _ store.DeckListOptions) ([]*domain.Deck, error) {
			return nil, errors.New("aggregate query failed")
		},
		ListFn: func(ctx context.Context, _ uuid.UUID, _ store.DeckListOptions) ([]*domain.Deck, error) {
			return []*domain.Deck{deck}, nil
		},
		CountCardsFn: func(ctx context.Context, _, _ uuid.UUID) (int, error) {
			return 0, errors.New("count query failed")
		},
	}
	svc := newTestDeckService(deckStore, &storemocks.MockCardStore{}, 1)

	decks, err := svc.ListDecks(context.Background(), userID, store.DeckListOptions{})
	require.NoError(t, err)
	require.Len(t, decks, 1)
	assert.Equal(t, 0, decks[0].CardCount)
}

func TestDeckService_ListDecks_RetriesTransientFailures(t *testing.T) {
	t.Parallel()

	userID := uuid.New()
	deck := makeDeck(t, userID, "History")

	var calls atomic.Int32
	deckStore := &storemocks.MockDeckStore{
		ListWithCardCountsFn: func(ctx context.Context, _ uuid.UUID, _ store.DeckListOptions) ([]*domain.Deck, error) {
			if calls.Add(1) < 3 {
				return nil, errors.New("transient failure")
			}
			return []*domain.Deck{deck}, nil
		},
	}
	svc := newTestDeckService(deckStore, &storemocks.MockCardStore{}, 3)

	decks, err := svc.ListDecks(context.Background(), userID, store.DeckListOptions{})
	require.NoError(t, err)
	require.Len(t, decks, 1)
	assert.Equal(t, int32(3), calls.Load())
}

func TestDeckService_ListDecks_FailsWhenListingUnavailable(t *testing.T) {
	t.Parallel()

	backendDown := errors.New("backend down")
	deckStore := &storemocks.MockDeckStore{Err: backendDown}
	svc := newTestDeckService(deckStore, &storemocks.MockCardStore{}, 1)

	_, err := svc.ListDecks(context.Background(), uuid.New(), store.DeckListOptions{})
	require.Error(t, err)
	assert.ErrorIs(t, err, backendDown)
}

func TestDeckService_CreateDeck(t *testing.T) {
	t.Parallel()

	userID := uuid.New()
	deckStore := &storemocks.MockDeckStore{}
	svc := newTestDeckService(deckStore, &storemocks.MockCardStore{}, 1)

	deck, err := svc.CreateDeck(context.Background(), userID, CreateDeckInput{
		Name:    "Latin Vocabulary",
		Subject: "Languages",
		Tags:    []string{"latin", "vocab"},
	})
	require.NoError(t, err)
	assert.Equal(t, userID, deck.UserID)
	assert.Equal(t, "Latin Vocabulary", deck.Name)
	assert.Equal(t, []string{"latin", "vocab"}, deck.Tags)
	assert.False(t, deck.Archived)
}

func TestDeckService_CreateDeck_RejectsEmptyName(t *testing.T) {
	t.Parallel()

	svc := newTestDeckService(&storemocks.MockDeckStore{}, &storemocks.MockCardStore{}, 1)

	_, err := svc.CreateDeck(context.Background(), uuid.New(), CreateDeckInput{Name: "   "})
	assert.ErrorIs(t, err, domain.ErrDeckNameEmpty)
}

func TestDeckService_UpdateDeck_AppliesPartialInput(t *testing.T) {
	t.Parallel()

	userID := uuid.New()
	deck := makeDeck(t, userID, "Old Name")
	deck.Subject = "Science"

	deckStore := &storemocks.MockDeckStore{Deck: deck}
	svc := newTestDeckService(deckStore, &storemocks.MockCardStore{}, 1)

	newName := "New Name"
	updated, err := svc.UpdateDeck(context.Background(), userID, deck.ID, UpdateDeckInput{Name: &newName})
	require.NoError(t, err)
	assert.Equal(t, "New Name", updated.Name)
	assert.Equal(t, "Science", updated.Subject)
}

func TestDeckService_ArchiveDeck(t *testing.T) {
	t.Parallel()

	userID := uuid.New()
	deck := makeDeck(t, userID, "Done Studying")

	deckStore := &storemocks.MockDeckStore{Deck: deck}
	svc := newTestDeckService(deckStore, &storemocks.MockCardStore{}, 1)

	archived, err := svc.ArchiveDeck(context.Background(), userID, deck.ID)
	require.NoError(t, err)
	assert.True(t, archived.Archived)
}

func TestDeckService_DeleteDeck_MissingDeck(t *testing.T) {
	t.Parallel()

	deckStore := &storemocks.MockDeckStore{Err: store.ErrDeckNotFound}
	svc := newTestDeckService(deckStore, &storemocks.MockCardStore{}, 1)

	err := svc.DeleteDeck(context.Background(), uuid.New(), uuid.New())
	assert.ErrorIs(t, err, store.ErrDeckNotFound)
}

func TestDeckService_DuplicateDeck(t *testing.T) {
	t.Parallel()

	userID := uuid.New()
	deck := makeDeck(t, userID, "French Verbs")
	deck.Tags = []string{"french"}

	cards := []*domain.Card{
		makeCard(t, userID, deck.ID, "aller", 0),
		makeCard(t, userID, deck.ID, "être", 1),
	}
	cards[0].TimesStudied = 4
	cards[0].TimesCorrect = 3

	var createdDeck *domain.Deck
	var createdCards []*domain.Card
	deckStore := &storemocks.MockDeckStore{
		Deck: deck,
		CreateFn: func(ctx context.Context, d *domain.Deck) error {
			createdDeck = d
			return nil
		},
	}
	cardStore := &storemocks.MockCardStore{
		Cards: cards,
		CreateMultipleFn: func(ctx context.Context, cs []*domain.Card) error {
			createdCards = cs
			return nil
		},
	}
	svc := newTestDeckService(deckStore, cardStore, 1)

	dup, err := svc.DuplicateDeck(context.Background(), userID, deck.ID)
	require.NoError(t, err)

	require.NotNil(t, createdDeck)
	assert.Equal(t, deck.Name+domain.CopyNameSuffix, dup.Name)
	assert.NotEqual(t, deck.ID, dup.ID)
	assert.Equal(t, deck.Tags, dup.Tags)
	assert.Equal(t, 2, dup.CardCount)

	require.Len(t, createdCards, 2)
	for i, copied := range createdCards {
		assert.Equal(t, dup.ID, copied.DeckID)
		assert.NotEqual(t, cards[i].ID, copied.ID)
		assert.Equal(t, cards[i].FrontText, copied.FrontText)
		assert.Equal(t, cards[i].Position, copied.Position)
		assert.Zero(t, copied.TimesStudied)
		assert.Zero(t, copied.TimesCorrect)
	}
}

func TestDeckService_DuplicateDeck_MissingSource(t *testing.T) {
	t.Parallel()

	deckStore := &storemocks.MockDeckStore{Err: store.ErrDeckNotFound}
	svc := newTestDeckService(deckStore, &storemocks.MockCardStore{}, 1)

	_, err := svc.DuplicateDeck(context.Background(), uuid.New(), uuid.New())
	assert.ErrorIs(t, err, store.ErrDeckNotFound)
}

func TestDeckService_DuplicateDeck_RollsBackOnCardFailure(t *testing.T) {
	t.Parallel()

	userID := uuid.New()
	deck := makeDeck(t, userID, "Geometry")
	cards := []*domain.Card{makeCard(t, userID, deck.ID, "area of a circle", 0)}

	insertFailed := errors.New("insert failed")
	deckStore := &storemocks.MockDeckStore{Deck: deck}
	cardStore := &storemocks.MockCardStore{
		Cards: cards,
		CreateMultipleFn: func(ctx context.Context, _ []*domain.Card) error {
			return insertFailed
		},
	}
	svc := newTestDeckService(deckStore, cardStore, 1)

	_, err := svc.DuplicateDeck(context.Background(), userID, deck.ID)
	require.Error(t, err)
	assert.ErrorIs(t, err, insertFailed)
}
