// internal/app/system/ratelimit/ratelimit.go
package ratelimit

import (
	"context"
	"net"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/dalemusser/clubhub/internal/app/system/respond"
	"go.uber.org/zap"
)

// Limiter counts requests per key in fixed windows.
// It is safe for concurrent use.
type Limiter struct {
	mu        sync.Mutex
	windows   map[string]*window
	limit     int
	duration  time.Duration
	nextSweep time.Time
	now       func() time.Time
}

type window struct {
	count     int
	expiresAt time.Time
}

// New creates a limiter allowing limit requests per key per duration.
func New(limit int, duration time.Duration) *Limiter {
	return &Limiter{
		windows:  make(map[string]*window),
		limit:    limit,
		duration: duration,
		now:      time.Now,
	}
}

// Allow reports whether a request for key fits in the current window and
// counts it if so.
func (l *Limiter) Allow(key string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	l.sweep(now)

	w, exists := l.windows[key]
	if !exists || now.After(w.expiresAt) {
		l.windows[key] = &window{count: 1, expiresAt: now.Add(l.duration)}
		return true
	}
	if w.count >= l.limit {
		return false
	}
	w.count++
	return true
}

// RetryAfter returns how long key must wait before its window resets.
func (l *Limiter) RetryAfter(key string) time.Duration {
	l.mu.Lock()
	defer l.mu.Unlock()

	w, exists := l.windows[key]
	if !exists {
		return 0
	}
	d := w.expiresAt.Sub(l.now())
	if d < 0 {
		return 0
	}
	return d
}

// sweep drops expired windows at most once per two durations.
// Callers hold l.mu.
func (l *Limiter) sweep(now time.Time) {
	if now.Before(l.nextSweep) {
		return
	}
	for key, w := range l.windows {
		if now.After(w.expiresAt) {
			delete(l.windows, key)
		}
	}
	l.nextSweep = now.Add(2 * l.duration)
}

type peerKey struct{}

// Peer records the connection's remote address before middleware such as
// chi's RealIP rewrites RemoteAddr from client-supplied headers. Mount it
// first in the chain.
func Peer(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := context.WithValue(r.Context(), peerKey{}, r.RemoteAddr)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// ClientIP returns the host of the connection peer recorded by Peer, or of
// RemoteAddr when Peer did not run. Forwarding headers are never consulted.
func ClientIP(r *http.Request) string {
	addr, ok := r.Context().Value(peerKey{}).(string)
	if !ok {
		addr = r.RemoteAddr
	}
	ip, _, err := net.SplitHostPort(addr)
	if err != nil {
		return addr
	}
	return ip
}

// Middleware rejects requests over the per-IP limit with 429 and a
// Retry-After header. A nil limiter lets everything through.
func Middleware(l *Limiter, logger *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		if l == nil {
			return next
		}
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ip := ClientIP(r)
			if !l.Allow(ip) {
				wait := l.RetryAfter(ip)
				secs := int((wait + time.Second - 1) / time.Second)
				if secs < 1 {
					secs = 1
				}
				logger.Warn("rate limited", zap.String("ip", ip), zap.String("path", r.URL.Path))
				w.Header().Set("Retry-After", strconv.Itoa(secs))
				respond.Message(w, http.StatusTooManyRequests, "Too many uploads. Please wait before trying again.")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
