package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/af-corp/draftgen/internal/auth"
)

// NewRouter wires the public API. rateLimit guards generation only; it may be
// nil.
func NewRouter(h *Handler, rateLimit func(http.Handler) http.Handler) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(requestIDMiddleware)

	// Unauthenticated routes
	r.Get("/api/health", h.Health)
	r.Get("/api/posts/categories", h.Categories)

	// Authenticated routes
	r.Group(func(r chi.Router) {
		r.Use(auth.Middleware())
		if rateLimit != nil {
			r.Use(rateLimit)
		}
		r.Post("/api/posts/generate", h.Generate)
	})

	return r
}
