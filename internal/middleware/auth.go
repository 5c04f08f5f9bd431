package middleware

import (
	"context"
	"net/http"

	"github.com/jackrosenthal/myride-explorer/internal/domain"
)

// SessionCookieName is the cookie holding the opaque session ID issued at login.
const SessionCookieName = "myride_session"

type contextKey string

// sessionContextKey stores the resolved domain.Session in the request context.
const sessionContextKey = contextKey("session")

// SessionFinder resolves a session ID to a session.
// Satisfied by *session.Store; defined here so the middleware can be tested
// without the real store.
type SessionFinder interface {
	Get(id string) (domain.Session, error)
}

// NewSessionAuth returns a middleware that reads the session cookie, resolves
// it through finder, and injects the session into the request context.
// Requests without a valid session receive 401 with a JSON error body.
func NewSessionAuth(finder SessionFinder) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			cookie, err := r.Cookie(SessionCookieName)
			if err != nil || cookie.Value == "" {
				unauthorized(w)
				return
			}

			sess, err := finder.Get(cookie.Value)
			if err != nil {
				unauthorized(w)
				return
			}

			ctx := context.WithValue(r.Context(), sessionContextKey, sess)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// SessionFromContext returns the session injected by NewSessionAuth.
// The second return is false for requests that did not pass through it.
func SessionFromContext(ctx context.Context) (domain.Session, bool) {
	sess, ok := ctx.Value(sessionContextKey).(domain.Session)
	return sess, ok
}

func unauthorized(w http.ResponseWriter) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnauthorized)
	_, _ = w.Write([]byte(`{"error":{"code":"unauthorized","message":"sign in required"}}`))
}
