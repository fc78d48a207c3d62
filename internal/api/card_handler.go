package api

import (
	"net/http"

	"github.com/studyhall/studyhall-api/internal/api/shared"
	"github.com/studyhall/studyhall-api/internal/service"
)

// CardHandler handles flashcard management API requests.
type CardHandler struct {
	cardService service.CardService
}

// NewCardHandler creates a new CardHandler.
func NewCardHandler(cardService service.CardService) *CardHandler {
	if cardService == nil {
		panic("cardService cannot be nil")
	}
	return &CardHandler{cardService: cardService}
}

// ListCards handles GET /api/decks/{id}/cards.
func (h *CardHandler) ListCards(w http.ResponseWriter, r *http.Request) {
	userID, deckID, ok := requireUserAndPathUUID(w, r, "id")
	if !ok {
		return
	}

	cards, err := h.cardService.ListCards(r.Context(), userID, deckID)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to list cards")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, cards)
}

// CreateCard handles POST /api/decks/{id}/cards.
func (h *CardHandler) CreateCard(w http.ResponseWriter, r *http.Request) {
	userID, deckID, ok := requireUserAndPathUUID(w, r, "id")
	if !ok {
		return
	}

	var input service.CreateCardInput
	if !decodeAndValidate(w, r, &input) {
		return
	}

	card, err := h.cardService.CreateCard(r.Context(), userID, deckID, input)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to create card")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusCreated, card)
}

// GenerateCards handles POST /api/decks/{id}/cards/generate: it extracts
// flashcards from the submitted text and saves them to the deck.
func (h *CardHandler) GenerateCards(w http.ResponseWriter, r *http.Request) {
	userID, deckID, ok := requireUserAndPathUUID(w, r, "id")
	if !ok {
		return
	}

	var req GenerateCardsRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	cards, err := h.cardService.GenerateCards(r.Context(), userID, deckID, req.Text)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to generate cards")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusCreated, cards)
}

// GetCard handles GET /api/cards/{id}.
func (h *CardHandler) GetCard(w http.ResponseWriter, r *http.Request) {
	userID, cardID, ok := requireUserAndPathUUID(w, r, "id")
	if !ok {
		return
	}

	card, err := h.cardService.GetCard(r.Context(), userID, cardID)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to get card")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, card)
}

// UpdateCard handles PUT /api/cards/{id}.
func (h *CardHandler) UpdateCard(w http.ResponseWriter, r *http.Request) {
	userID, cardID, ok := requireUserAndPathUUID(w, r, "id")
	if !ok {
		return
	}

	var input service.UpdateCardInput
	if !decodeAndValidate(w, r, &input) {
		return
	}

	card, err := h.cardService.UpdateCard(r.Context(), userID, cardID, input)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to update card")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, card)
}

// DeleteCard handles DELETE /api/cards/{id}.
func (h *CardHandler) DeleteCard(w http.ResponseWriter, r *http.Request) {
	userID, cardID, ok := requireUserAndPathUUID(w, r, "id")
	if !ok {
		return
	}

	if err := h.cardService.DeleteCard(r.Context(), userID, cardID); err != nil {
		HandleAPIError(w, r, err, "Failed to delete card")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusNoContent, nil)
}
