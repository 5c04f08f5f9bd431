// Package handler implements the HTTP handlers for the MyRide Explorer API.
// All handlers are methods on Server. Methods are split into concern-specific
// files (session.go, history.go, health.go) but all share the same Server
// struct so they can access its dependencies.
package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/jackrosenthal/myride-explorer/internal/domain"
)

// TicketingClient defines the upstream operations the handlers depend on.
// Defining the interface here (in the consumer package) follows the Go
// convention: "accept interfaces, return concrete types". It lets handler
// tests inject a mock without a live upstream.
type TicketingClient interface {
	Login(ctx context.Context, email, password string) (domain.User, []*http.Cookie, error)
	GetTapHistoryForMonth(ctx context.Context, session *domain.Session, year, month int) ([]domain.TapEvent, error)
	GetTapHistoryForDay(ctx context.Context, session *domain.Session, year, month, day int) ([]domain.TapEvent, error)
}

// SessionStore defines the session lifecycle operations the handlers need.
// Satisfied by *session.Store.
type SessionStore interface {
	Create(user domain.User, cookies []*http.Cookie) domain.Session
	Delete(id string)
}

// Metrics is the subset of metric recording the handlers use.
// A nil Metrics disables recording.
type Metrics interface {
	RecordLogin(outcome string)
	RecordHistoryFetch(outcome string)
}

// Server implements the application API endpoints.
// Methods are in concern-specific files but all operate on this struct.
type Server struct {
	client   TicketingClient
	sessions SessionStore
	metrics  Metrics

	// location fixes the calendar used for day/month bucketing and
	// navigation. All date maths must agree on it (see internal/calendar).
	location *time.Location

	// now is swapped in tests to pin "today".
	now func() time.Time

	// cookieSecure marks the session cookie Secure; off for local dev.
	cookieSecure bool
}

// NewServer constructs the Server with all its dependencies.
func NewServer(client TicketingClient, sessions SessionStore, metrics Metrics, loc *time.Location, cookieSecure bool) *Server {
	return &Server{
		client:       client,
		sessions:     sessions,
		metrics:      metrics,
		location:     loc,
		now:          time.Now,
		cookieSecure: cookieSecure,
	}
}

func (s *Server) localNow() time.Time {
	return s.now().In(s.location)
}
