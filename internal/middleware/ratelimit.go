package middleware

import (
	"net/http"
	"strconv"
	"sync"
	"time"
)

type bucket struct {
	count int
	until time.Time
}

// limiter is a fixed-window counter per client. State is process-local; each
// API replica enforces the cap independently.
type limiter struct {
	mu      sync.Mutex
	limit   int
	per     time.Duration
	buckets map[string]*bucket
}

// RateLimit caps requests per client per window. Rejected requests get a 429
// with a Retry-After pointing at the window reset.
func RateLimit(limit int, per time.Duration) func(http.Handler) http.Handler {
	l := &limiter{limit: limit, per: per, buckets: make(map[string]*bucket)}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			retryAfter, ok := l.take(ClientIP(r))
			if !ok {
				w.Header().Set("Retry-After", strconv.Itoa(retryAfter))
				w.WriteHeader(http.StatusTooManyRequests)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// take consumes one slot for the client. When the client is over the cap it
// returns the seconds remaining until the window resets.
func (l *limiter) take(client string) (int, bool) {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := time.Now()
	b, ok := l.buckets[client]
	if !ok || now.After(b.until) {
		l.prune(now)
		b = &bucket{until: now.Add(l.per)}
		l.buckets[client] = b
	}
	if b.count >= l.limit {
		return int(b.until.Sub(now).Seconds()) + 1, false
	}
	b.count++
	return 0, true
}

// prune drops expired windows so the map does not grow with client churn.
// Called with the mutex held, only when a new window is opened.
func (l *limiter) prune(now time.Time) {
	for client, b := range l.buckets {
		if now.After(b.until) {
			delete(l.buckets, client)
		}
	}
}
