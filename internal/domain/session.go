package domain

import (
	"net/http"
	"time"
)

// User is the signed-in rider identity returned by the upstream login call.
type User struct {
	// ID is the upstream account identifier, required for any data fetch.
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

// Session represents one signed-in rider. It is created on successful
// credential exchange, held in process memory only, and destroyed on
// sign-out or expiry. Absence of a session means unauthenticated.
//
// Sessions are immutable after creation: sign-in and sign-out replace the
// value wholesale rather than mutating it, so concurrent readers need no
// locking.
type Session struct {
	// ID is the opaque identifier stored in the browser cookie. It is local
	// to this process and unrelated to any upstream identifier.
	ID   string
	User User

	// Cookies are the upstream session cookies captured from the login
	// response. The token exchange requires them to authenticate.
	Cookies []*http.Cookie

	CreatedAt time.Time
	ExpiresAt time.Time
}

// Expired reports whether the session has passed its expiry at the given time.
func (s Session) Expired(now time.Time) bool {
	return now.After(s.ExpiresAt)
}
