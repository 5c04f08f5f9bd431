package handler

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"github.com/jackrosenthal/myride-explorer/internal/middleware"
	"github.com/jackrosenthal/myride-explorer/internal/relay"
)

// RouterDeps bundles everything NewRouter needs beyond the Server itself.
type RouterDeps struct {
	Logger *slog.Logger

	// Relay is the edge proxy mounted under /api/justride.
	Relay http.Handler
	// MetricsHandler serves GET /metrics (promhttp).
	MetricsHandler http.Handler

	// Sessions resolves session cookies for the auth middleware.
	Sessions middleware.SessionFinder
	// LoginLimiter throttles POST /api/session per client IP.
	LoginLimiter *middleware.LoginRateLimiter
	// MaxLoginBodyBytes caps the login request body size.
	MaxLoginBodyBytes int64

	// CORSOrigins are the allowed frontend origins for the app API.
	// The relay is deliberately outside CORS: it mirrors the upstream's
	// headers and must not stack its own on top.
	CORSOrigins []string
}

// NewRouter assembles the full HTTP surface:
//
//	POST   /api/session            sign in (rate limited, body capped)
//	GET    /api/session            current rider
//	DELETE /api/session            sign out
//	GET    /api/history            current month calendar
//	GET    /api/history/{date}     YYYY-MM calendar or YYYY-MM-DD day detail
//	ANY    /api/justride/*         edge relay to the upstream ticketing API
//	GET    /healthz                liveness
//	GET    /metrics                Prometheus metrics
//
// Everything else is a 404 with an empty body.
func NewRouter(s *Server, deps RouterDeps) http.Handler {
	r := chi.NewRouter()

	// RequestID generates a unique trace ID per request.
	// RealIP sets r.RemoteAddr from X-Forwarded-For / X-Real-IP (safe behind a proxy).
	// SlogLogger writes one structured JSON log line per request.
	// Recoverer catches panics and returns HTTP 500 instead of crashing.
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.NewSlogLogger(deps.Logger))
	r.Use(chimiddleware.Recoverer)

	r.NotFound(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	})

	r.Handle(relay.Prefix+"/*", deps.Relay)
	r.Handle("/metrics", deps.MetricsHandler)
	r.Get("/healthz", s.GetHealth)

	r.Group(func(r chi.Router) {
		r.Use(middleware.NewCORSHandler(deps.CORSOrigins))

		r.Route("/api/session", func(r chi.Router) {
			r.With(
				deps.LoginLimiter.Middleware(),
				middleware.NewMaxBodySizeHandler(deps.MaxLoginBodyBytes),
			).Post("/", s.Login)

			// Logout works without a valid session: clearing a stale
			// cookie must not require one.
			r.Delete("/", s.Logout)

			r.With(middleware.NewSessionAuth(deps.Sessions)).Get("/", s.Me)
		})

		r.Route("/api/history", func(r chi.Router) {
			r.Use(middleware.NewSessionAuth(deps.Sessions))
			r.Get("/", s.GetHistory)
			r.Get("/{date}", s.GetHistoryByDate)
		})
	})

	return r
}
