// Package rapidapi contains the HTTP clients for the two RapidAPI-hosted
// vendor APIs: Moz DA/PA and SimilarWeb traffic.
package rapidapi

import (
	"Domainscope/internal/metrics"
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/hashicorp/go-cleanhttp"
)

// maxBodySize caps how much of an upstream response is read.
const maxBodySize = 10 << 20

type base struct {
	httpClient *http.Client
	metrics    *metrics.Metrics
	baseURL    string
	host       string
	key        string
	timeout    time.Duration
}

// Option configures a client
type Option func(*base)

// WithBaseURL points the client at a different endpoint root (tests, proxies)
func WithBaseURL(baseURL string) Option {
	return func(b *base) {
		b.baseURL = baseURL
	}
}

// WithTimeout sets the per-request timeout; zero disables it
func WithTimeout(timeout time.Duration) Option {
	return func(b *base) {
		b.timeout = timeout
	}
}

// WithHTTPClient replaces the pooled default client. The client's own
// timeout is left untouched.
func WithHTTPClient(client *http.Client) Option {
	return func(b *base) {
		b.httpClient = client
	}
}

// WithMetrics records request counts and latency on m
func WithMetrics(m *metrics.Metrics) Option {
	return func(b *base) {
		b.metrics = m
	}
}

func newBase(baseURL, host, key string, timeout time.Duration, opts []Option) base {
	b := base{
		baseURL: baseURL,
		host:    host,
		key:     key,
		timeout: timeout,
	}

	for _, opt := range opts {
		opt(&b)
	}

	if b.httpClient == nil {
		b.httpClient = cleanhttp.DefaultPooledClient()
		b.httpClient.Timeout = b.timeout
	}
	b.baseURL = strings.TrimRight(b.baseURL, "/")

	return b
}

func (b *base) setAuthHeaders(req *http.Request) {
	req.Header.Set("x-rapidapi-host", b.host)
	req.Header.Set("x-rapidapi-key", b.key)
}

// do executes req and returns the status code and body.
func (b *base) do(req *http.Request) (int, []byte, error) {
	resp, err := b.httpClient.Do(req)
	if err != nil {
		return 0, nil, err
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodySize))
	if err != nil {
		return resp.StatusCode, nil, fmt.Errorf("failed to read response body: %w", err)
	}

	return resp.StatusCode, body, nil
}

// validJSON reports whether body is well-formed JSON in valid UTF-8.
// The store keeps bodies in a TEXT column, which rejects invalid UTF-8.
func validJSON(body []byte) bool {
	return utf8.Valid(body) && json.Valid(body)
}

// isJSONObject reports whether body is valid JSON whose top level is an object.
func isJSONObject(body []byte) bool {
	trimmed := bytes.TrimSpace(body)
	return len(trimmed) > 0 && trimmed[0] == '{' && validJSON(trimmed)
}
