package api

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/studyhall/studyhall-api/internal/domain"
	"github.com/studyhall/studyhall-api/internal/mocks"
	"github.com/studyhall/studyhall-api/internal/service"
	"github.com/studyhall/studyhall-api/internal/store"
)

func TestDeckHandlerListDecks(t *testing.T) {
	t.Parallel()

	userID := uuid.New()

	t.Run("returns decks with filters applied", func(t *testing.T) {
		t.Parallel()

		var gotOpts store.DeckListOptions
		deckService := &mocks.MockDeckService{
			ListDecksFn: func(ctx context.Context, uid uuid.UUID, opts store.DeckListOptions) ([]*domain.Deck, error) {
				gotOpts = opts
				return []*domain.Deck{
					{ID: uuid.New(), UserID: uid, Name: "Biology", CardCount: 12},
					{ID: uuid.New(), UserID: uid, Name: "History", CardCount: 3},
				}, nil
			},
		}
		handler := NewDeckHandler(deckService)

		req := newTestRequest(t, http.MethodGet,
			"/api/decks?archived=true&subject=Science&tag=exam", userID, nil)
		rr := httptest.NewRecorder()
		handler.ListDecks(rr, req)

		require.Equal(t, http.StatusOK, rr.Code)
		assert.True(t, gotOpts.IncludeArchived)
		assert.Equal(t, "Science", gotOpts.Subject)
		assert.Equal(t, "exam", gotOpts.Tag)

		var decks []*domain.Deck
		decodeBody(t, rr, &decks)
		require.Len(t, decks, 2)
		assert.Equal(t, "Biology", decks[0].Name)
		assert.Equal(t, 12, decks[0].CardCount)
	})

	t.Run("rejects unauthenticated request", func(t *testing.T) {
		t.Parallel()

		handler := NewDeckHandler(&mocks.MockDeckService{})

		req := newTestRequest(t, http.MethodGet, "/api/decks", uuid.Nil, nil)
		rr := httptest.NewRecorder()
		handler.ListDecks(rr, req)

		assert.Equal(t, http.StatusUnauthorized, rr.Code)
	})

	t.Run("maps service failure to 500", func(t *testing.T) {
		t.Parallel()

		handler := NewDeckHandler(&mocks.MockDeckService{
			Err: service.NewServiceError("ListDecks", "listing unavailable", assert.AnError),
		})

		req := newTestRequest(t, http.MethodGet, "/api/decks", userID, nil)
		rr := httptest.NewRecorder()
		handler.ListDecks(rr, req)

		assert.Equal(t, http.StatusInternalServerError, rr.Code)
	})
}

func TestDeckHandlerGetDeck(t *testing.T) {
	t.Parallel()

	userID := uuid.New()
	deckID := uuid.New()

	t.Run("returns the deck", func(t *testing.T) {
		t.Parallel()

		handler := NewDeckHandler(&mocks.MockDeckService{
			Deck: &domain.Deck{ID: deckID, UserID: userID, Name: "Chemistry"},
		})

		req := withPathID(newTestRequest(t, http.MethodGet, "/api/decks/"+deckID.String(), userID, nil), deckID.String())
		rr := httptest.NewRecorder()
		handler.GetDeck(rr, req)

		require.Equal(t, http.StatusOK, rr.Code)

		var deck domain.Deck
		decodeBody(t, rr, &deck)
		assert.Equal(t, deckID, deck.ID)
	})

	t.Run("unknown deck yields 404", func(t *testing.T) {
		t.Parallel()

		handler := NewDeckHandler(&mocks.MockDeckService{Err: store.ErrDeckNotFound})

		req := withPathID(newTestRequest(t, http.MethodGet, "/api/decks/"+deckID.String(), userID, nil), deckID.String())
		rr := httptest.NewRecorder()
		handler.GetDeck(rr, req)

		assert.Equal(t, http.StatusNotFound, rr.Code)
	})

	t.Run("malformed deck ID yields 400", func(t *testing.T) {
		t.Parallel()

		handler := NewDeckHandler(&mocks.MockDeckService{})

		req := withPathID(newTestRequest(t, http.MethodGet, "/api/decks/not-a-uuid", userID, nil), "not-a-uuid")
		rr := httptest.NewRecorder()
		handler.GetDeck(rr, req)

		assert.Equal(t, http.StatusBadRequest, rr.Code)
	})
}

func TestDeckHandlerCreateDeck(t *testing.T) {
	t.Parallel()

	userID := uuid.New()

	t.Run("creates a deck", func(t *testing.T) {
		t.Parallel()

		var gotInput service.CreateDeckInput
		handler := NewDeckHandler(&mocks.MockDeckService{
			CreateDeckFn: func(ctx context.Context, uid uuid.UUID, input service.CreateDeckInput) (*domain.Deck, error) {
				gotInput = input
				return &domain.Deck{ID: uuid.New(), UserID: uid, Name: input.Name, Subject: input.Subject}, nil
			},
		})

		body := map[string]interface{}{
			"name":    "Fractions",
			"subject": "Math",
			"grade":   "5",
			"tags":    []string{"exam"},
		}
		req := newTestRequest(t, http.MethodPost, "/api/decks", userID, body)
		rr := httptest.NewRecorder()
		handler.CreateDeck(rr, req)

		require.Equal(t, http.StatusCreated, rr.Code)
		assert.Equal(t, "Fractions", gotInput.Name)
		assert.Equal(t, "Math", gotInput.Subject)
		assert.Equal(t, []string{"exam"}, gotInput.Tags)
	})

	t.Run("missing name yields 400", func(t *testing.T) {
		t.Parallel()

		created := false
		handler := NewDeckHandler(&mocks.MockDeckService{
			CreateDeckFn: func(ctx context.Context, uid uuid.UUID, input service.CreateDeckInput) (*domain.Deck, error) {
				created = true
				return nil, nil
			},
		})

		req := newTestRequest(t, http.MethodPost, "/api/decks", userID, map[string]interface{}{"subject": "Math"})
		rr := httptest.NewRecorder()
		handler.CreateDeck(rr, req)

		assert.Equal(t, http.StatusBadRequest, rr.Code)
		assert.False(t, created)
	})

	t.Run("empty body yields 400", func(t *testing.T) {
		t.Parallel()

		handler := NewDeckHandler(&mocks.MockDeckService{})

		req := newTestRequest(t, http.MethodPost, "/api/decks", userID, nil)
		rr := httptest.NewRecorder()
		handler.CreateDeck(rr, req)

		assert.Equal(t, http.StatusBadRequest, rr.Code)
	})
}

func TestDeckHandlerUpdateDeck(t *testing.T) {
	t.Parallel()

	userID := uuid.New()
	deckID := uuid.New()

	t.Run("applies partial update", func(t *testing.T) {
		t.Parallel()

		var gotInput service.UpdateDeckInput
		handler := NewDeckHandler(&mocks.MockDeckService{
			UpdateDeckFn: func(ctx context.Context, uid, id uuid.UUID, input service.UpdateDeckInput) (*domain.Deck, error) {
				gotInput = input
				return &domain.Deck{ID: id, UserID: uid, Name: *input.Name}, nil
			},
		})

		req := withPathID(newTestRequest(t, http.MethodPut, "/api/decks/"+deckID.String(), userID,
			map[string]interface{}{"name": "Renamed"}), deckID.String())
		rr := httptest.NewRecorder()
		handler.UpdateDeck(rr, req)

		require.Equal(t, http.StatusOK, rr.Code)
		require.NotNil(t, gotInput.Name)
		assert.Equal(t, "Renamed", *gotInput.Name)
		assert.Nil(t, gotInput.Description)
	})
}

func TestDeckHandlerDeleteDeck(t *testing.T) {
	t.Parallel()

	userID := uuid.New()
	deckID := uuid.New()

	t.Run("deletes and returns 204", func(t *testing.T) {
		t.Parallel()

		handler := NewDeckHandler(&mocks.MockDeckService{})

		req := withPathID(newTestRequest(t, http.MethodDelete, "/api/decks/"+deckID.String(), userID, nil), deckID.String())
		rr := httptest.NewRecorder()
		handler.DeleteDeck(rr, req)

		assert.Equal(t, http.StatusNoContent, rr.Code)
		assert.Zero(t, rr.Body.Len())
	})

	t.Run("missing deck yields 404", func(t *testing.T) {
		t.Parallel()

		handler := NewDeckHandler(&mocks.MockDeckService{Err: store.ErrDeckNotFound})

		req := withPathID(newTestRequest(t, http.MethodDelete, "/api/decks/"+deckID.String(), userID, nil), deckID.String())
		rr := httptest.NewRecorder()
		handler.DeleteDeck(rr, req)

		assert.Equal(t, http.StatusNotFound, rr.Code)
	})
}

func TestDeckHandlerArchiveDeck(t *testing.T) {
	t.Parallel()

	userID := uuid.New()
	deckID := uuid.New()

	handler := NewDeckHandler(&mocks.MockDeckService{
		Deck: &domain.Deck{ID: deckID, UserID: userID, Name: "Old Notes", Archived: true},
	})

	req := withPathID(newTestRequest(t, http.MethodPost, "/api/decks/"+deckID.String()+"/archive", userID, nil), deckID.String())
	rr := httptest.NewRecorder()
	handler.ArchiveDeck(rr, req)

	require.Equal(t, http.StatusOK, rr.Code)

	var deck domain.Deck
	decodeBody(t, rr, &deck)
	assert.True(t, deck.Archived)
}

func TestDeckHandlerDuplicateDeck(t *testing.T) {
	t.Parallel()

	userID := uuid.New()
	sourceID := uuid.New()

	handler := NewDeckHandler(&mocks.MockDeckService{
		DuplicateDeckFn: func(ctx context.Context, uid, id uuid.UUID) (*domain.Deck, error) {
			return &domain.Deck{ID: uuid.New(), UserID: uid, Name: "Geometry (Copy)", CardCount: 4}, nil
		},
	})

	req := withPathID(newTestRequest(t, http.MethodPost, "/api/decks/"+sourceID.String()+"/duplicate", userID, nil), sourceID.String())
	rr := httptest.NewRecorder()
	handler.DuplicateDeck(rr, req)

	require.Equal(t, http.StatusCreated, rr.Code)

	var deck domain.Deck
	decodeBody(t, rr, &deck)
	assert.Equal(t, "Geometry (Copy)", deck.Name)
	assert.Equal(t, 4, deck.CardCount)
	assert.NotEqual(t, sourceID, deck.ID)
}
