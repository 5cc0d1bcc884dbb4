package main

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/Loekiboy/loek-it-up/internal/api"
	apiMiddleware "github.com/Loekiboy/loek-it-up/internal/api/middleware"
)

// setupRouter creates and configures the application router with all
// routes and middleware.
func (app *application) setupRouter() http.Handler {
	r := chi.NewRouter()

	// Apply standard middleware
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(apiMiddleware.TraceMiddleware)

	// Create API handlers using the application's services
	authHandler := api.NewAuthHandler(app.userStore, app.jwtService, app.passwordVerifier)
	listHandler := api.NewWordListHandler(app.wordListService, app.logger)
	studyHandler := api.NewStudyHandler(app.studyService, app.logger)
	authMiddleware := apiMiddleware.NewAuthMiddleware(app.jwtService)

	// Register routes
	r.Route("/api", func(r chi.Router) {
		// Authentication endpoints (public)
		r.Post("/auth/register", authHandler.Register)
		r.Post("/auth/login", authHandler.Login)

		// Protected routes
		r.Group(func(r chi.Router) {
			r.Use(authMiddleware.Authenticate)

			// Word list endpoints
			r.Get("/lists", listHandler.List)
			r.Post("/lists", listHandler.Create)
			r.Post("/lists/import", listHandler.Import)
			r.Get("/lists/{id}", listHandler.Get)
			r.Put("/lists/{id}", listHandler.Update)
			r.Delete("/lists/{id}", listHandler.Delete)
			r.Get("/lists/{id}/export", listHandler.Export)
			r.Post("/lists/{id}/examples", listHandler.Enrich)

			// Study session endpoints
			r.Post("/study/session", studyHandler.Start)
			r.Post("/study/session/resume", studyHandler.Resume)
			r.Get("/study/session", studyHandler.State)
			r.Post("/study/session/answer", studyHandler.Answer)
			r.Post("/study/session/flip", studyHandler.Flip)
			r.Post("/study/session/mark", studyHandler.Mark)
			r.Post("/study/session/pick", studyHandler.Pick)
			r.Post("/study/session/override", studyHandler.Override)
			r.Get("/study/session/summary", studyHandler.Summary)
			r.Delete("/study/session", studyHandler.Exit)
			r.Delete("/study/snapshots/{listID}/{mode}", studyHandler.DiscardSnapshot)
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
