/*
server.go - HTTP router and middleware configuration

PURPOSE:
  Configures the HTTP router (chi), middleware stack, and route definitions.
  This is the wiring layer that connects URLs to handlers.

MIDDLEWARE STACK:
  1. Logger:     Request logging
  2. Recoverer:  Panic recovery (500 instead of crash)
  3. RequestID:  Unique ID per request for tracing
  4. CORS:       Cross-origin requests for the expense UI

ROUTE GROUPS:
  /api/trips/*    Trip management, meals, allowance, reports
  /api/rates/*    Location rate schedules

SEE ALSO:
  - handlers.go: Handler implementations
  - cmd/server/main.go: Server startup
*/
package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
)

// NewRouter creates a new router with all routes configured.
func NewRouter(h *Handler) *chi.Mux {
	r := chi.NewRouter()

	// Middleware
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.RequestID)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"http://localhost:5173", "http://localhost:8080"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: true,
	}))

	// API routes
	r.Route("/api", func(r chi.Router) {
		// Trip routes
		r.Route("/trips", func(r chi.Router) {
			r.Get("/", h.ListTrips)
			r.Post("/", h.CreateTrip)
			r.Get("/{id}", h.GetTrip)
			r.Put("/{id}/meals", h.UpdateMeals)
			r.Get("/{id}/allowance", h.GetAllowance)
			r.Post("/{id}/reports", h.CreateReport)
			r.Get("/{id}/reports", h.ListReports)
		})

		// Rate routes
		r.Route("/rates", func(r chi.Router) {
			r.Get("/{postalCode}", h.GetRateSchedule)
			r.Put("/{postalCode}", h.PutRateSchedule)
		})
	})

	r.Get("/", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		w.Write([]byte(`<!DOCTYPE html>
<html>
<head><title>Per-Diem Allowance Engine</title></head>
<body style="font-family: system-ui; max-width: 800px; margin: 50px auto; padding: 20px;">
<h1>Per-Diem Allowance Engine API</h1>
<h2>API Endpoints</h2>
<ul>
<li><a href="/api/trips">/api/trips</a> - List trips</li>
<li>/api/trips/{id}/allowance - Compute a trip's allowance</li>
<li>/api/rates/{postalCode} - Resolve a location's rate schedule</li>
</ul>
</body>
</html>`))
	})

	return r
}
