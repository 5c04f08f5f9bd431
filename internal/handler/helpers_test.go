package handler_test

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/jackrosenthal/myride-explorer/internal/domain"
	"github.com/jackrosenthal/myride-explorer/internal/handler"
	"github.com/jackrosenthal/myride-explorer/internal/middleware"
)

// denver pins the display calendar for deterministic date maths.
var denver = mustLoadLocation("America/Denver")

func mustLoadLocation(name string) *time.Location {
	loc, err := time.LoadLocation(name)
	if err != nil {
		panic(err)
	}
	return loc
}

// fixedNow is the pinned "today" for all handler tests: June 15 2025, noon.
var fixedNow = time.Date(2025, time.June, 15, 12, 0, 0, 0, denver)

// mockTicketingClient is a test double for handler.TicketingClient.
// Set only the method fields your test needs.
type mockTicketingClient struct {
	login    func(ctx context.Context, email, password string) (domain.User, []*http.Cookie, error)
	forMonth func(ctx context.Context, session *domain.Session, year, month int) ([]domain.TapEvent, error)
	forDay   func(ctx context.Context, session *domain.Session, year, month, day int) ([]domain.TapEvent, error)
}

func (m *mockTicketingClient) Login(ctx context.Context, email, password string) (domain.User, []*http.Cookie, error) {
	return m.login(ctx, email, password)
}

func (m *mockTicketingClient) GetTapHistoryForMonth(ctx context.Context, s *domain.Session, year, month int) ([]domain.TapEvent, error) {
	return m.forMonth(ctx, s, year, month)
}

func (m *mockTicketingClient) GetTapHistoryForDay(ctx context.Context, s *domain.Session, year, month, day int) ([]domain.TapEvent, error) {
	return m.forDay(ctx, s, year, month, day)
}

// compile-time check: mockTicketingClient must satisfy handler.TicketingClient.
var _ handler.TicketingClient = (*mockTicketingClient)(nil)

// memStore is a minimal in-memory session table satisfying both
// handler.SessionStore and middleware.SessionFinder.
type memStore struct {
	mu       sync.Mutex
	sessions map[string]domain.Session
}

func newMemStore() *memStore {
	return &memStore{sessions: make(map[string]domain.Session)}
}

func (m *memStore) Create(user domain.User, cookies []*http.Cookie) domain.Session {
	sess := domain.Session{
		ID:        uuid.NewString(),
		User:      user,
		Cookies:   cookies,
		CreatedAt: fixedNow,
		ExpiresAt: fixedNow.Add(time.Hour),
	}
	m.mu.Lock()
	m.sessions[sess.ID] = sess
	m.mu.Unlock()
	return sess
}

func (m *memStore) Get(id string) (domain.Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	sess, ok := m.sessions[id]
	if !ok {
		return domain.Session{}, domain.ErrNotFound
	}
	return sess, nil
}

func (m *memStore) Delete(id string) {
	m.mu.Lock()
	delete(m.sessions, id)
	m.mu.Unlock()
}

var (
	_ handler.SessionStore     = (*memStore)(nil)
	_ middleware.SessionFinder = (*memStore)(nil)
)

// newHTTPHandler wires a Server with the given mock and store into the full
// router. This mirrors exactly how main.go wires it in production.
func newHTTPHandler(t *testing.T, client handler.TicketingClient, store *memStore) http.Handler {
	t.Helper()

	srv := handler.NewServer(client, store, nil, denver, false)
	srv.SetNow(func() time.Time { return fixedNow })

	limiter := middleware.NewLoginRateLimiter(600, 600)
	t.Cleanup(limiter.Stop)

	return handler.NewRouter(srv, handler.RouterDeps{
		Logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
		Relay: http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			w.WriteHeader(http.StatusBadGateway)
		}),
		MetricsHandler: http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			w.WriteHeader(http.StatusOK)
		}),
		Sessions:          store,
		LoginLimiter:      limiter,
		MaxLoginBodyBytes: 4096,
		CORSOrigins:       []string{"http://localhost:5173"},
	})
}

// signedInRequest attaches a valid session cookie to req.
func signedInRequest(req *http.Request, store *memStore) domain.Session {
	sess := store.Create(domain.User{ID: "acct-1", Name: "Jane Rider", Email: "rider@example.com"}, nil)
	req.AddCookie(&http.Cookie{Name: middleware.SessionCookieName, Value: sess.ID})
	return sess
}

// eventAtLocal builds a TapEvent stamped at the given Denver wall-clock time.
func eventAtLocal(year int, month time.Month, day, hour, minute int) domain.TapEvent {
	ts := time.Date(year, month, day, hour, minute, 0, 0, denver)
	return domain.TapEvent{
		ScanID:          ts.Format("20060102T1504"),
		RouteID:         "15L",
		ServerTimestamp: ts.UnixMilli(),
		VehicleID:       "bus-77",
		Outcome:         "ACCEPTED",
	}
}
