package api

import (
	"net/http"

	"github.com/studyhall/studyhall-api/internal/api/shared"
	"github.com/studyhall/studyhall-api/internal/domain"
	"github.com/studyhall/studyhall-api/internal/service"
	"github.com/studyhall/studyhall-api/internal/store"
)

// DeckHandler handles deck management API requests.
type DeckHandler struct {
	deckService service.DeckService
}

// NewDeckHandler creates a new DeckHandler.
func NewDeckHandler(deckService service.DeckService) *DeckHandler {
	if deckService == nil {
		panic("deckService cannot be nil")
	}
	return &DeckHandler{deckService: deckService}
}

// ListDecks handles GET /api/decks. Query parameters: archived=true to
// include archived decks, subject and tag to filter.
func (h *DeckHandler) ListDecks(w http.ResponseWriter, r *http.Request) {
	userID, ok := getUserIDFromContext(r)
	if !ok {
		HandleAPIError(w, r, domain.ErrUnauthorized, "")
		return
	}

	opts := store.DeckListOptions{
		IncludeArchived: r.URL.Query().Get("archived") == "true",
		Subject:         r.URL.Query().Get("subject"),
		Tag:             r.URL.Query().Get("tag"),
	}

	decks, err := h.deckService.ListDecks(r.Context(), userID, opts)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to list decks")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, decks)
}

// GetDeck handles GET /api/decks/{id}.
func (h *DeckHandler) GetDeck(w http.ResponseWriter, r *http.Request) {
	userID, deckID, ok := requireUserAndPathUUID(w, r, "id")
	if !ok {
		return
	}

	deck, err := h.deckService.GetDeck(r.Context(), userID, deckID)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to get deck")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, deck)
}

// CreateDeck handles POST /api/decks.
func (h *DeckHandler) CreateDeck(w http.ResponseWriter, r *http.Request) {
	userID, ok := getUserIDFromContext(r)
	if !ok {
		HandleAPIError(w, r, domain.ErrUnauthorized, "")
		return
	}

	var input service.CreateDeckInput
	if !decodeAndValidate(w, r, &input) {
		return
	}

	deck, err := h.deckService.CreateDeck(r.Context(), userID, input)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to create deck")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusCreated, deck)
}

// UpdateDeck handles PUT /api/decks/{id}.
func (h *DeckHandler) UpdateDeck(w http.ResponseWriter, r *http.Request) {
	userID, deckID, ok := requireUserAndPathUUID(w, r, "id")
	if !ok {
		return
	}

	var input service.UpdateDeckInput
	if !decodeAndValidate(w, r, &input) {
		return
	}

	deck, err := h.deckService.UpdateDeck(r.Context(), userID, deckID, input)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to update deck")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, deck)
}

// DeleteDeck handles DELETE /api/decks/{id}.
func (h *DeckHandler) DeleteDeck(w http.ResponseWriter, r *http.Request) {
	userID, deckID, ok := requireUserAndPathUUID(w, r, "id")
	if !ok {
		return
	}

	if err := h.deckService.DeleteDeck(r.Context(), userID, deckID); err != nil {
		HandleAPIError(w, r, err, "Failed to delete deck")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusNoContent, nil)
}

// ArchiveDeck handles POST /api/decks/{id}/archive.
func (h *DeckHandler) ArchiveDeck(w http.ResponseWriter, r *http.Request) {
	userID, deckID, ok := requireUserAndPathUUID(w, r, "id")
	if !ok {
		return
	}

	deck, err := h.deckService.ArchiveDeck(r.Context(), userID, deckID)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to archive deck")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, deck)
}

// DuplicateDeck handles POST /api/decks/{id}/duplicate.
func (h *DeckHandler) DuplicateDeck(w http.ResponseWriter, r *http.Request) {
	userID, deckID, ok := requireUserAndPathUUID(w, r, "id")
	if !ok {
		return
	}

	deck, err := h.deckService.DuplicateDeck(r.Context(), userID, deckID)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to duplicate deck")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusCreated, deck)
}
