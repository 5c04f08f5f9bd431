package middleware

import (
	"net/http"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

// LoginRateLimiter throttles login attempts per client IP using a token
// bucket per address. Stale buckets are dropped by a background cleanup loop
// so the map does not grow without bound.
//
// The limiter keys on r.RemoteAddr; wire it after chi's RealIP middleware so
// the address survives reverse proxies.
type LoginRateLimiter struct {
	limit rate.Limit
	burst int

	mu       sync.Mutex
	limiters map[string]*ipLimiter

	stopCh chan struct{}
}

type ipLimiter struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

const (
	limiterIdleTTL  = 10 * time.Minute
	cleanupInterval = 5 * time.Minute
)

// NewLoginRateLimiter constructs a limiter allowing perMinute attempts per IP
// per minute with the given burst, and starts the cleanup goroutine.
func NewLoginRateLimiter(perMinute, burst int) *LoginRateLimiter {
	rl := &LoginRateLimiter{
		limit:    rate.Limit(float64(perMinute) / 60.0),
		burst:    burst,
		limiters: make(map[string]*ipLimiter),
		stopCh:   make(chan struct{}),
	}
	go rl.cleanupLoop()
	return rl
}

// Middleware returns the http middleware enforcing the limit.
// Throttled requests receive 429 with a JSON error body.
func (rl *LoginRateLimiter) Middleware() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !rl.allow(r.RemoteAddr) {
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(http.StatusTooManyRequests)
				_, _ = w.Write([]byte(`{"error":{"code":"rate_limited","message":"too many login attempts"}}`))
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// Stop terminates the cleanup goroutine.
func (rl *LoginRateLimiter) Stop() {
	close(rl.stopCh)
}

func (rl *LoginRateLimiter) allow(addr string) bool {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	l, ok := rl.limiters[addr]
	if !ok {
		l = &ipLimiter{limiter: rate.NewLimiter(rl.limit, rl.burst)}
		rl.limiters[addr] = l
	}
	l.lastSeen = time.Now()
	return l.limiter.Allow()
}

func (rl *LoginRateLimiter) cleanupLoop() {
	ticker := time.NewTicker(cleanupInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			cutoff := time.Now().Add(-limiterIdleTTL)
			rl.mu.Lock()
			for addr, l := range rl.limiters {
				if l.lastSeen.Before(cutoff) {
					delete(rl.limiters, addr)
				}
			}
			rl.mu.Unlock()
		case <-rl.stopCh:
			return
		}
	}
}
