package api

import (
	"net/http"

	"github.com/studyhall/studyhall-api/internal/api/shared"
	"github.com/studyhall/studyhall-api/internal/domain"
	"github.com/studyhall/studyhall-api/internal/service"
)

// StudyHandler handles study session and progress API requests.
type StudyHandler struct {
	studyService service.StudyService
}

// NewStudyHandler creates a new StudyHandler.
func NewStudyHandler(studyService service.StudyService) *StudyHandler {
	if studyService == nil {
		panic("studyService cannot be nil")
	}
	return &StudyHandler{studyService: studyService}
}

// RecordProgress handles POST /api/cards/{id}/progress. The review result
// is queued for background persistence, so a 202 only means "accepted".
func (h *StudyHandler) RecordProgress(w http.ResponseWriter, r *http.Request) {
	userID, cardID, ok := requireUserAndPathUUID(w, r, "id")
	if !ok {
		return
	}

	var req RecordProgressRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	if err := h.studyService.RecordProgress(r.Context(), userID, cardID, *req.Correct); err != nil {
		HandleAPIError(w, r, err, "Failed to record progress")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusAccepted, nil)
}

// CompleteSession handles POST /api/decks/{id}/sessions.
func (h *StudyHandler) CompleteSession(w http.ResponseWriter, r *http.Request) {
	userID, deckID, ok := requireUserAndPathUUID(w, r, "id")
	if !ok {
		return
	}

	var input service.CompleteSessionInput
	if !decodeAndValidate(w, r, &input) {
		return
	}

	session, err := h.studyService.CompleteSession(r.Context(), userID, deckID, input)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to record session")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusCreated, session)
}

// Stats handles GET /api/study/stats.
func (h *StudyHandler) Stats(w http.ResponseWriter, r *http.Request) {
	userID, ok := getUserIDFromContext(r)
	if !ok {
		HandleAPIError(w, r, domain.ErrUnauthorized, "")
		return
	}

	stats, err := h.studyService.Stats(r.Context(), userID)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to compute study statistics")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, stats)
}

// ProgressStatus handles GET /api/study/progress-status. It reports the
// state of the background progress writer.
func (h *StudyHandler) ProgressStatus(w http.ResponseWriter, r *http.Request) {
	if _, ok := getUserIDFromContext(r); !ok {
		HandleAPIError(w, r, domain.ErrUnauthorized, "")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, h.studyService.ProgressStatus())
}
