package rapidapi

import (
	"Domainscope/internal/config"
	"Domainscope/internal/core/authority"
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"time"
)

const mozPath = "/v1/getDaPa"

type mozRequest struct {
	Query string `json:"q"`
}

type mozResponse struct {
	DomainAuthority *float64 `json:"domain_authority"`
	PageAuthority   *float64 `json:"page_authority"`
}

// MozClient fetches Domain Authority and Page Authority scores.
// It implements authority.Client.
type MozClient struct {
	base
}

// NewMozClient creates a client using the RapidAPI host/key pair.
// There is no request timeout unless WithTimeout is given.
func NewMozClient(host, key string, opts ...Option) *MozClient {
	return &MozClient{base: newBase(config.DefaultMozBaseURL, host, key, 0, opts)}
}

// FetchAuthority posts url to the DA/PA endpoint and extracts both scores.
// Missing scores are returned as nil.
func (c *MozClient) FetchAuthority(ctx context.Context, url string) (scores *authority.Scores, err error) {
	start := time.Now()
	defer func() { c.metrics.ObserveUpstream(ProviderMoz, start, err) }()

	payload, err := json.Marshal(mozRequest{Query: url})
	if err != nil {
		return nil, fmt.Errorf("failed to encode request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+mozPath, bytes.NewReader(payload))
	if err != nil {
		return nil, &UpstreamError{Provider: ProviderMoz, Err: err}
	}
	req.Header.Set("Content-Type", "application/json")
	c.setAuthHeaders(req)

	status, body, err := c.do(req)
	if err != nil {
		return nil, &UpstreamError{Provider: ProviderMoz, Err: err}
	}

	log.Printf("[MOZ] Checking URL: %s", url)
	log.Printf("[MOZ] Status Code: %d", status)
	log.Printf("[MOZ] Response: %s", body)

	if status != http.StatusOK {
		return nil, &UpstreamError{Provider: ProviderMoz, StatusCode: status, Body: string(body)}
	}

	if !isJSONObject(body) {
		return nil, &UpstreamError{Provider: ProviderMoz, Err: errInvalidJSON}
	}

	var parsed mozResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return nil, &UpstreamError{Provider: ProviderMoz, Err: errInvalidJSON}
	}

	log.Printf("[MOZ] Extracted DA: %s, PA: %s for %s",
		formatScore(parsed.DomainAuthority), formatScore(parsed.PageAuthority), url)

	return &authority.Scores{
		URL:             url,
		DomainAuthority: parsed.DomainAuthority,
		PageAuthority:   parsed.PageAuthority,
	}, nil
}

func formatScore(v *float64) string {
	if v == nil {
		return "none"
	}
	return fmt.Sprintf("%g", *v)
}
