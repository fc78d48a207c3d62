package main

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/studyhall/studyhall-api/internal/api"
	apiMiddleware "github.com/studyhall/studyhall-api/internal/api/middleware"
)

// setupRouter configures the application router with all routes and
// middleware.
func (app *application) setupRouter() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(apiMiddleware.TraceMiddleware)

	authHandler := api.NewAuthHandler(app.userStore, app.jwtService, app.passwordVerifier)
	authMiddleware := apiMiddleware.NewAuthMiddleware(app.jwtService)

	deckHandler := api.NewDeckHandler(app.deckService)
	cardHandler := api.NewCardHandler(app.cardService)
	studyHandler := api.NewStudyHandler(app.studyService)
	resourceHandler := api.NewResourceHandler(app.resourceCatalog)

	r.Route("/api", func(r chi.Router) {
		// Authentication endpoints (public)
		r.Post("/auth/register", authHandler.Register)
		r.Post("/auth/login", authHandler.Login)
		r.Post("/auth/refresh", authHandler.RefreshToken)

		// Protected routes
		r.Group(func(r chi.Router) {
			r.Use(authMiddleware.Authenticate)

			// Deck management
			r.Get("/decks", deckHandler.ListDecks)
			r.Post("/decks", deckHandler.CreateDeck)
			r.Get("/decks/{id}", deckHandler.GetDeck)
			r.Put("/decks/{id}", deckHandler.UpdateDeck)
			r.Delete("/decks/{id}", deckHandler.DeleteDeck)
			r.Post("/decks/{id}/archive", deckHandler.ArchiveDeck)
			r.Post("/decks/{id}/duplicate", deckHandler.DuplicateDeck)

			// Flashcards within a deck
			r.Get("/decks/{id}/cards", cardHandler.ListCards)
			r.Post("/decks/{id}/cards", cardHandler.CreateCard)
			r.Post("/decks/{id}/cards/generate", cardHandler.GenerateCards)

			// Individual flashcards
			r.Get("/cards/{id}", cardHandler.GetCard)
			r.Put("/cards/{id}", cardHandler.UpdateCard)
			r.Delete("/cards/{id}", cardHandler.DeleteCard)

			// Study activity
			r.Post("/cards/{id}/progress", studyHandler.RecordProgress)
			r.Post("/decks/{id}/sessions", studyHandler.CompleteSession)
			r.Get("/study/stats", studyHandler.Stats)
			r.Get("/study/progress-status", studyHandler.ProgressStatus)

			// Resource browser
			r.Get("/resources/browse", resourceHandler.Browse)
		})
	})

	// Health check endpoint
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		if _, err := w.Write([]byte("OK")); err != nil {
			app.logger.Error("Failed to write health check response", "error", err)
		}
	})

	return r
}
