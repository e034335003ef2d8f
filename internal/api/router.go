package api

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/httprate"
)

// NewRouter builds the Chi router with all routes configured.
// Recommendations, auth and health are open; trip routes require a session.
// Rate limiting is applied globally: 60 requests per minute per IP.
func NewRouter(handlers *Handlers, sessions Sessions, db dbPinger, redisClient redisPinger, log *slog.Logger) *chi.Mux {
	r := chi.NewRouter()

	r.Use(middleware.Recoverer)
	r.Use(middleware.RequestID)
	r.Use(httprate.LimitByIP(60, time.Minute))

	r.Get("/api/v1/health", HealthHandlerFunc(db, redisClient, log))
	r.Post("/api/v1/recommend", handlers.Recommend)
	r.Post("/api/v1/auth/signup", handlers.Signup)
	r.Post("/api/v1/auth/login", handlers.Login)

	r.Group(func(r chi.Router) {
		r.Use(SessionAuth(sessions, log))
		r.Post("/api/v1/trips", handlers.CreateTrip)
		r.Get("/api/v1/trips/{id}", handlers.GetTrip)
		r.Post("/api/v1/trips/{id}/events", handlers.ApplyTripEvent)
	})

	return r
}

// Ensure chi.Mux implements http.Handler.
var _ http.Handler = (*chi.Mux)(nil)
