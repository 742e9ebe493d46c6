package rapidapi

import (
	"Domainscope/internal/config"
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"net/url"
	"time"
)

const (
	similarWebPath           = "/traffic"
	defaultSimilarWebTimeout = 10 * time.Second
)

// SimilarWebClient fetches raw traffic statistics for a domain.
// It implements traffic.Client.
type SimilarWebClient struct {
	base
}

// NewSimilarWebClient creates a client with a 10s request timeout.
func NewSimilarWebClient(host, key string, opts ...Option) *SimilarWebClient {
	if host == "" {
		host = config.DefaultSimilarWebHost
	}
	return &SimilarWebClient{base: newBase(config.DefaultSimilarWebBaseURL, host, key, defaultSimilarWebTimeout, opts)}
}

// FetchTraffic returns the upstream JSON body verbatim.
func (c *SimilarWebClient) FetchTraffic(ctx context.Context, domain string) (data json.RawMessage, err error) {
	start := time.Now()
	defer func() { c.metrics.ObserveUpstream(ProviderSimilarWeb, start, err) }()

	endpoint := c.baseURL + similarWebPath + "?" + url.Values{"domain": []string{domain}}.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, &UpstreamError{Provider: ProviderSimilarWeb, Err: err}
	}
	c.setAuthHeaders(req)

	status, body, err := c.do(req)
	if err != nil {
		return nil, &UpstreamError{Provider: ProviderSimilarWeb, Err: err}
	}

	if status < 200 || status >= 300 {
		log.Printf("[SIMILARWEB] %s returned HTTP %d", domain, status)
		return nil, &UpstreamError{Provider: ProviderSimilarWeb, StatusCode: status, Body: string(body)}
	}

	if !validJSON(body) {
		return nil, &UpstreamError{Provider: ProviderSimilarWeb, Err: fmt.Errorf("%w (HTTP %d)", errInvalidJSON, status)}
	}

	return json.RawMessage(body), nil
}
