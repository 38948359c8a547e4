package auth

import (
	"net"
	"net/http"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

// DefaultLimiterTTL is how long an idle client's bucket is kept.
const DefaultLimiterTTL = 10 * time.Minute

type timedLimiter struct {
	limiter  *rate.Limiter
	lastUsed time.Time
}

// LoginLimiter throttles login attempts per client with a token bucket.
// Clients are keyed on the socket address recorded by CapturePeer, so
// forwarding headers cannot mint fresh buckets. Idle buckets are dropped
// after the TTL.
type LoginLimiter struct {
	mu        sync.Mutex
	limiters  map[string]*timedLimiter
	perSec    rate.Limit
	burst     int
	ttl       time.Duration
	lastSweep time.Time
	now       func() time.Time
}

func NewLoginLimiter(perSec float64, burst int) *LoginLimiter {
	return &LoginLimiter{
		limiters:  map[string]*timedLimiter{},
		perSec:    rate.Limit(perSec),
		burst:     burst,
		ttl:       DefaultLimiterTTL,
		lastSweep: time.Now(),
		now:       time.Now,
	}
}

func (l *LoginLimiter) limiter(key string) *rate.Limiter {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	if now.Sub(l.lastSweep) >= l.ttl {
		l.cleanupStaleLocked(now)
	}
	tl, ok := l.limiters[key]
	if !ok {
		tl = &timedLimiter{limiter: rate.NewLimiter(l.perSec, l.burst)}
		l.limiters[key] = tl
	}
	tl.lastUsed = now
	return tl.limiter
}

// CleanupStale drops buckets idle for longer than the TTL.
func (l *LoginLimiter) CleanupStale() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.cleanupStaleLocked(l.now())
}

func (l *LoginLimiter) cleanupStaleLocked(now time.Time) {
	for k, tl := range l.limiters {
		if now.Sub(tl.lastUsed) > l.ttl {
			delete(l.limiters, k)
		}
	}
	l.lastSweep = now
}

func (l *LoginLimiter) size() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.limiters)
}

func (l *LoginLimiter) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !l.limiter(clientKey(r)).Allow() {
			http.Error(w, "too many login attempts", http.StatusTooManyRequests)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// clientKey is the host of the socket peer, falling back to RemoteAddr when
// CapturePeer did not run.
func clientKey(r *http.Request) string {
	addr := peerFromContext(r.Context())
	if addr == "" {
		addr = r.RemoteAddr
	}
	if host, _, err := net.SplitHostPort(addr); err == nil {
		return host
	}
	return addr
}
