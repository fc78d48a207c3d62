package api

import (
	"net/http"

	"github.com/studyhall/studyhall-api/internal/api/shared"
	"github.com/studyhall/studyhall-api/internal/domain"
	"github.com/studyhall/studyhall-api/internal/resources"
)

// ResourceHandler serves the educational resource browser.
type ResourceHandler struct {
	catalog *resources.Catalog
}

// NewResourceHandler creates a new ResourceHandler over the given catalog.
func NewResourceHandler(catalog *resources.Catalog) *ResourceHandler {
	if catalog == nil {
		panic("catalog cannot be nil")
	}
	return &ResourceHandler{catalog: catalog}
}

// Browse handles GET /api/resources/browse. Selections are passed as query
// parameters (grade, subject, type) and applied in drill-down order; the
// response describes the resulting level, its options, and — once all three
// are selected — the matching resources.
func (h *ResourceHandler) Browse(w http.ResponseWriter, r *http.Request) {
	if _, ok := getUserIDFromContext(r); !ok {
		HandleAPIError(w, r, domain.ErrUnauthorized, "")
		return
	}

	browser := resources.NewBrowser(h.catalog)

	q := r.URL.Query()
	selections := []struct {
		value string
		apply func(string) error
	}{
		{q.Get("grade"), browser.SelectGrade},
		{q.Get("subject"), browser.SelectSubject},
		{q.Get("type"), browser.SelectType},
	}
	for _, s := range selections {
		if s.value == "" {
			break
		}
		if err := s.apply(s.value); err != nil {
			HandleAPIError(w, r, err, "Failed to browse resources")
			return
		}
	}

	shared.RespondWithJSON(w, r, http.StatusOK, BrowseResponse{
		Level:       browser.Level().String(),
		Breadcrumbs: browser.Breadcrumbs(),
		Options:     browser.Options(),
		Resources:   browser.Resources(),
	})
}
