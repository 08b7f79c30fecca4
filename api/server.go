/*
server.go - HTTP router and middleware configuration

PURPOSE:
  Configures the HTTP router (chi), middleware stack, and route definitions.
  This is the wiring layer that connects URLs to handlers.

MIDDLEWARE STACK:
  1. Logger:     Request logging
  2. Recoverer:  Panic recovery (500 instead of crash)
  3. RequestID:  Unique ID per request for tracing
  4. CORS:       Cross-origin requests for the form front end

ROUTE GROUPS:
  /api/people/*   People and their PTO entries
  /api/admin/*    Seed / reset (dev only)

SEE ALSO:
  - handlers.go: Handler implementations
  - cmd/server/main.go: Server startup
*/
package api

import (
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
)

// Options tunes the router. Zero value allows the local dev front ends.
type Options struct {
	AllowedOrigins []string
}

var defaultOrigins = []string{"http://localhost:5173", "http://localhost:8080"}

// NewRouter creates a new router with all routes configured.
func NewRouter(h *Handler, opts Options) *chi.Mux {
	origins := opts.AllowedOrigins
	if len(origins) == 0 {
		origins = defaultOrigins
	}

	r := chi.NewRouter()

	// Middleware
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.RequestID)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   origins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: true,
	}))

	r.Route("/api", func(r chi.Router) {
		r.Route("/people", func(r chi.Router) {
			r.Get("/", h.ListPeople)
			r.Post("/", h.CreatePerson)

			r.Route("/{person}/entries", func(r chi.Router) {
				r.Get("/", h.ListEntries)
				r.Put("/", h.SaveEntries)
				r.Post("/range", h.SubmitRange)
				r.Post("/preview", h.PreviewEntries)
				r.Get("/export.xlsx", h.ExportEntries)
			})
			r.Get("/{person}/usage", h.GetUsage)
		})

		r.Route("/admin", func(r chi.Router) {
			r.Post("/seed", h.SeedRoster)
			r.Post("/reset", h.ResetDatabase)
		})
	})

	return r
}
