package middleware

import (
	"Domainscope/internal/api/handlers"
	"context"
	"net"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"
)

// defaultWindow replaces a non-positive window.
const defaultWindow = time.Minute

// RateLimiter is a fixed-window, in-memory limiter keyed by client IP.
type RateLimiter struct {
	clients    map[string]*clientLimit
	now        func() time.Time
	requests   int
	window     time.Duration
	trustProxy bool
	mu         sync.Mutex
}

// RateLimiterOption configures a RateLimiter
type RateLimiterOption func(*RateLimiter)

// WithTrustedProxyHeaders keys clients on X-Forwarded-For / X-Real-IP.
// Only use it behind a proxy that overwrites those headers; otherwise any
// caller can pick its own key.
func WithTrustedProxyHeaders() RateLimiterOption {
	return func(rl *RateLimiter) {
		rl.trustProxy = true
	}
}

type clientLimit struct {
	resetTime time.Time
	count     int
}

// NewRateLimiter creates a limiter allowing requests per window per client.
// A non-positive window falls back to one minute. Expired entries are swept
// every window until ctx is done.
func NewRateLimiter(ctx context.Context, requests int, window time.Duration, opts ...RateLimiterOption) *RateLimiter {
	if window <= 0 {
		window = defaultWindow
	}

	rl := &RateLimiter{
		clients:  make(map[string]*clientLimit),
		now:      time.Now,
		requests: requests,
		window:   window,
	}

	for _, opt := range opts {
		opt(rl)
	}

	go rl.cleanup(ctx)

	return rl
}

// Middleware rejects requests over the limit with 429
func (rl *RateLimiter) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		clientID := rl.clientIP(r)

		if !rl.allow(clientID) {
			w.Header().Set("Retry-After", rl.retryAfter(clientID))
			handlers.WriteError(w, http.StatusTooManyRequests, "RateLimitExceeded",
				"Rate limit exceeded. Please try again later.")
			return
		}

		next.ServeHTTP(w, r)
	})
}

func (rl *RateLimiter) allow(clientID string) bool {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	now := rl.now().UTC()

	client, exists := rl.clients[clientID]
	if !exists || now.After(client.resetTime) {
		rl.clients[clientID] = &clientLimit{
			count:     1,
			resetTime: now.Add(rl.window),
		}
		return true
	}

	if client.count < rl.requests {
		client.count++
		return true
	}

	return false
}

// retryAfter returns the whole seconds until clientID's window resets.
func (rl *RateLimiter) retryAfter(clientID string) string {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	client, ok := rl.clients[clientID]
	if !ok {
		return "0"
	}
	secs := int(client.resetTime.Sub(rl.now().UTC()).Seconds()) + 1
	if secs < 0 {
		secs = 0
	}
	return strconv.Itoa(secs)
}

func (rl *RateLimiter) cleanup(ctx context.Context) {
	ticker := time.NewTicker(rl.window)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			rl.sweep()
		}
	}
}

func (rl *RateLimiter) sweep() {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	now := rl.now().UTC()
	for clientID, client := range rl.clients {
		if now.After(client.resetTime) {
			delete(rl.clients, clientID)
		}
	}
}

// clientIP returns the connection address without its port. With trusted
// proxy headers it prefers the first X-Forwarded-For hop, then X-Real-IP.
func (rl *RateLimiter) clientIP(r *http.Request) string {
	if rl.trustProxy {
		if forwarded := r.Header.Get("X-Forwarded-For"); forwarded != "" {
			first, _, _ := strings.Cut(forwarded, ",")
			return strings.TrimSpace(first)
		}

		if realIP := r.Header.Get("X-Real-IP"); realIP != "" {
			return realIP
		}
	}

	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
