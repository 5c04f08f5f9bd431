package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/jackrosenthal/myride-explorer/internal/domain"
	"github.com/jackrosenthal/myride-explorer/internal/middleware"
)

// loginRequest is the body of POST /api/session.
type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Login handles POST /api/session.
// It exchanges credentials with the upstream ticketing service, creates an
// in-memory session holding the upstream cookies, and issues the session
// cookie. Bad credentials yield 401 carrying the upstream message.
func (s *Server) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			writeError(w, http.StatusRequestEntityTooLarge, "validation_error", "request body too large")
			return
		}
		writeError(w, http.StatusUnprocessableEntity, "validation_error", "malformed request body")
		return
	}
	req.Email = strings.TrimSpace(req.Email)
	if req.Email == "" || req.Password == "" {
		writeError(w, http.StatusUnprocessableEntity, "validation_error", "email and password are required")
		return
	}

	user, cookies, err := s.client.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		if errors.Is(err, domain.ErrLoginFailed) {
			s.recordLogin("rejected")
			writeError(w, http.StatusUnauthorized, "login_failed", unwrapMessage(err, domain.ErrLoginFailed))
			return
		}
		s.recordLogin("error")
		writeError(w, http.StatusBadGateway, "upstream_error", "login service unavailable")
		return
	}

	sess := s.sessions.Create(user, cookies)
	s.setSessionCookie(w, sess.ID, int(sess.ExpiresAt.Sub(sess.CreatedAt).Seconds()))
	s.recordLogin("success")

	writeJSON(w, http.StatusCreated, user)
}

// Me handles GET /api/session.
// It returns the signed-in rider; the auth middleware has already rejected
// unauthenticated requests.
func (s *Server) Me(w http.ResponseWriter, r *http.Request) {
	sess, ok := middleware.SessionFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized", "sign in required")
		return
	}
	writeJSON(w, http.StatusOK, sess.User)
}

// Logout handles DELETE /api/session.
// Sign-out succeeds even when the session is already gone.
func (s *Server) Logout(w http.ResponseWriter, r *http.Request) {
	if cookie, err := r.Cookie(middleware.SessionCookieName); err == nil {
		s.sessions.Delete(cookie.Value)
	}
	s.setSessionCookie(w, "", -1)
	w.WriteHeader(http.StatusNoContent)
}

// setSessionCookie writes the HTTP-only session cookie. maxAge -1 clears it.
func (s *Server) setSessionCookie(w http.ResponseWriter, value string, maxAge int) {
	http.SetCookie(w, &http.Cookie{
		Name:     middleware.SessionCookieName,
		Value:    value,
		Path:     "/",
		MaxAge:   maxAge,
		HttpOnly: true,
		Secure:   s.cookieSecure,
		SameSite: http.SameSiteLaxMode,
	})
}

func (s *Server) recordLogin(outcome string) {
	if s.metrics != nil {
		s.metrics.RecordLogin(outcome)
	}
}
