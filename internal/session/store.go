// Package session holds signed-in rider sessions in process memory.
// Nothing is persisted: a restart signs everyone out, which matches the
// upstream's short-lived session model. Expired entries are swept by a
// background goroutine.
package session

import (
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/jackrosenthal/myride-explorer/internal/domain"
)

const sweepInterval = 5 * time.Minute

// Store is a mutex-guarded in-memory session table keyed by opaque ID.
type Store struct {
	mu       sync.RWMutex
	sessions map[string]domain.Session

	ttl    time.Duration
	now    func() time.Time
	stopCh chan struct{}
}

// NewStore constructs a Store whose sessions expire ttl after creation,
// and starts the background sweep of expired entries.
func NewStore(ttl time.Duration) *Store {
	s := &Store{
		sessions: make(map[string]domain.Session),
		ttl:      ttl,
		now:      time.Now,
		stopCh:   make(chan struct{}),
	}
	go s.sweepLoop()
	return s
}

// Create mints a new session for the given rider and upstream cookies and
// returns the stored value. The returned session is a copy; the store never
// hands out references into its map.
func (s *Store) Create(user domain.User, cookies []*http.Cookie) domain.Session {
	now := s.now()
	sess := domain.Session{
		ID:        uuid.NewString(),
		User:      user,
		Cookies:   cookies,
		CreatedAt: now,
		ExpiresAt: now.Add(s.ttl),
	}

	s.mu.Lock()
	s.sessions[sess.ID] = sess
	s.mu.Unlock()

	return sess
}

// Get returns the session with the given ID.
// Returns domain.ErrNotFound for unknown or expired IDs.
func (s *Store) Get(id string) (domain.Session, error) {
	s.mu.RLock()
	sess, ok := s.sessions[id]
	s.mu.RUnlock()

	if !ok || sess.Expired(s.now()) {
		return domain.Session{}, domain.ErrNotFound
	}
	return sess, nil
}

// Delete removes the session with the given ID. Deleting an unknown ID is a
// no-op: sign-out must succeed even for an already-expired session.
func (s *Store) Delete(id string) {
	s.mu.Lock()
	delete(s.sessions, id)
	s.mu.Unlock()
}

// Stop terminates the background sweep goroutine.
func (s *Store) Stop() {
	close(s.stopCh)
}

func (s *Store) sweepLoop() {
	ticker := time.NewTicker(sweepInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			s.sweep()
		case <-s.stopCh:
			return
		}
	}
}

// sweep drops every expired session.
func (s *Store) sweep() {
	now := s.now()

	s.mu.Lock()
	defer s.mu.Unlock()
	for id, sess := range s.sessions {
		if sess.Expired(now) {
			delete(s.sessions, id)
		}
	}
}
