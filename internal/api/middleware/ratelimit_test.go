package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeClock struct {
	t time.Time
}

func (c *fakeClock) now() time.Time {
	return c.t
}

func newTestLimiter(t *testing.T, requests int, window time.Duration) (*RateLimiter, *fakeClock) {
	t.Helper()
	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)

	clock := &fakeClock{t: time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)}
	rl := NewRateLimiter(ctx, requests, window)
	rl.now = clock.now
	return rl, clock
}

func okHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
}

func TestRateLimiter_BlocksAfterLimit(t *testing.T) {
	rl, _ := newTestLimiter(t, 2, time.Minute)
	h := rl.Middleware(okHandler())

	codes := make([]int, 0, 3)
	for i := 0; i < 3; i++ {
		req := httptest.NewRequest(http.MethodPost, "/check_domains", nil)
		req.RemoteAddr = "10.0.0.1:51234"
		w := httptest.NewRecorder()
		h.ServeHTTP(w, req)
		codes = append(codes, w.Code)

		if w.Code == http.StatusTooManyRequests {
			assert.Equal(t, "application/json", w.Header().Get("Content-Type"))
			assert.Contains(t, w.Body.String(), `"error":"RateLimitExceeded"`)
			assert.Equal(t, "61", w.Header().Get("Retry-After"))
		}
	}

	assert.Equal(t, []int{http.StatusOK, http.StatusOK, http.StatusTooManyRequests}, codes)
}

func TestRateLimiter_WindowResets(t *testing.T) {
	rl, clock := newTestLimiter(t, 1, time.Minute)

	require.True(t, rl.allow("a"))
	require.False(t, rl.allow("a"))

	clock.t = clock.t.Add(time.Minute + time.Second)
	assert.True(t, rl.allow("a"))
}

func TestRateLimiter_ClientsAreIndependent(t *testing.T) {
	rl, _ := newTestLimiter(t, 1, time.Minute)

	assert.True(t, rl.allow("a"))
	assert.True(t, rl.allow("b"))
	assert.False(t, rl.allow("a"))
}

func TestRateLimiter_SweepRemovesExpired(t *testing.T) {
	rl, clock := newTestLimiter(t, 1, time.Minute)

	rl.allow("a")
	clock.t = clock.t.Add(30 * time.Second)
	rl.allow("b")
	clock.t = clock.t.Add(45 * time.Second)

	rl.sweep()

	rl.mu.Lock()
	defer rl.mu.Unlock()
	assert.NotContains(t, rl.clients, "a")
	assert.Contains(t, rl.clients, "b")
}

func TestNewRateLimiter_NonPositiveWindow(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	assert.NotPanics(t, func() {
		rl := NewRateLimiter(ctx, 10, 0)
		assert.Equal(t, time.Minute, rl.window)

		rl = NewRateLimiter(ctx, 10, -time.Second)
		assert.Equal(t, time.Minute, rl.window)
	})
}

func TestRateLimiter_IgnoresSpoofedForwardedFor(t *testing.T) {
	rl, _ := newTestLimiter(t, 1, time.Minute)
	h := rl.Middleware(okHandler())

	codes := make([]int, 0, 2)
	for _, spoofed := range []string{"203.0.113.1", "203.0.113.2"} {
		req := httptest.NewRequest(http.MethodPost, "/similarweb", nil)
		req.RemoteAddr = "10.0.0.9:40000"
		req.Header.Set("X-Forwarded-For", spoofed)
		w := httptest.NewRecorder()
		h.ServeHTTP(w, req)
		codes = append(codes, w.Code)
	}

	assert.Equal(t, []int{http.StatusOK, http.StatusTooManyRequests}, codes)
}

func TestClientIP(t *testing.T) {
	tests := []struct {
		headers    map[string]string
		name       string
		remoteAddr string
		want       string
		trustProxy bool
	}{
		{
			name:       "forwarded chain uses first hop behind trusted proxy",
			headers:    map[string]string{"X-Forwarded-For": "203.0.113.7, 10.0.0.2"},
			remoteAddr: "10.0.0.2:443",
			trustProxy: true,
			want:       "203.0.113.7",
		},
		{
			name:       "real ip header behind trusted proxy",
			headers:    map[string]string{"X-Real-IP": "198.51.100.4"},
			remoteAddr: "10.0.0.2:443",
			trustProxy: true,
			want:       "198.51.100.4",
		},
		{
			name:       "headers ignored without trusted proxy",
			headers:    map[string]string{"X-Forwarded-For": "203.0.113.7", "X-Real-IP": "198.51.100.4"},
			remoteAddr: "10.0.0.2:443",
			want:       "10.0.0.2",
		},
		{
			name:       "remote addr without port",
			remoteAddr: "192.0.2.1:55555",
			want:       "192.0.2.1",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rl := &RateLimiter{trustProxy: tt.trustProxy}
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			req.RemoteAddr = tt.remoteAddr
			for k, v := range tt.headers {
				req.Header.Set(k, v)
			}
			assert.Equal(t, tt.want, rl.clientIP(req))
		})
	}
}
