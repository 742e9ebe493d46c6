package authority

import (
	"Domainscope/internal/metrics"
	"context"
	"errors"
	"fmt"
	"log"
)

const metricsKind = "authority"

type service struct {
	repo    Repository
	client  Client
	metrics *metrics.Metrics
}

// NewService creates a new authority service
func NewService(repo Repository, client Client, opts ...ServiceOption) Service {
	if repo == nil {
		panic("authority: repo cannot be nil")
	}
	if client == nil {
		panic("authority: client cannot be nil")
	}

	s := &service{
		repo:   repo,
		client: client,
	}

	for _, opt := range opts {
		opt(s)
	}

	return s
}

// ServiceOption configures the service
type ServiceOption func(*service)

// WithMetrics records cache hits and misses on m
func WithMetrics(m *metrics.Metrics) ServiceOption {
	return func(s *service) {
		s.metrics = m
	}
}

// Check processes urls in order. Cached records are returned as stored;
// anything else is fetched and written back.
func (s *service) Check(ctx context.Context, urls []string) (*BatchResponse, error) {
	results := make([]Result, 0, len(urls))

	for _, url := range urls {
		existing, err := s.repo.Get(ctx, url)
		if err == nil {
			s.metrics.CacheLookup(metricsKind, true)
			log.Printf("[AUTHORITY] Cached result found for %s", url)
			results = append(results, Result{
				URL:             existing.URL,
				DomainAuthority: existing.DomainAuthority,
				PageAuthority:   existing.PageAuthority,
				Cached:          true,
			})
			continue
		}
		if !errors.Is(err, ErrNotFound) {
			return nil, fmt.Errorf("failed to look up %s: %w", url, err)
		}
		s.metrics.CacheLookup(metricsKind, false)

		log.Printf("[AUTHORITY] Fetching from API for %s", url)
		scores, err := s.client.FetchAuthority(ctx, url)
		if err != nil {
			// Not recorded per item: a failed fetch fails the whole batch.
			return nil, err
		}

		if err := s.repo.Upsert(ctx, scores.URL, scores.DomainAuthority, scores.PageAuthority); err != nil {
			return nil, fmt.Errorf("failed to save %s: %w", url, err)
		}

		results = append(results, Result{
			URL:             scores.URL,
			DomainAuthority: scores.DomainAuthority,
			PageAuthority:   scores.PageAuthority,
			Cached:          false,
		})
	}

	log.Printf("[AUTHORITY] Completed processing %d domains", len(results))
	return newBatchResponse(results), nil
}

// Refresh fetches every url from the API and overwrites the stored record.
func (s *service) Refresh(ctx context.Context, urls []string) (*BatchResponse, error) {
	results := make([]Result, 0, len(urls))

	for _, url := range urls {
		log.Printf("[AUTHORITY] Force refreshing DA/PA data for %s", url)

		scores, err := s.client.FetchAuthority(ctx, url)
		if err != nil {
			log.Printf("[AUTHORITY] Error refreshing DA/PA data for %s: %v", url, err)
			results = append(results, Result{
				URL:       url,
				Error:     err.Error(),
				Refreshed: boolPtr(false),
			})
			continue
		}

		if err := s.repo.Upsert(ctx, scores.URL, scores.DomainAuthority, scores.PageAuthority); err != nil {
			return nil, fmt.Errorf("failed to save %s: %w", url, err)
		}

		log.Printf("[AUTHORITY] DA/PA data refreshed and updated for %s", url)
		results = append(results, Result{
			URL:             scores.URL,
			DomainAuthority: scores.DomainAuthority,
			PageAuthority:   scores.PageAuthority,
			Refreshed:       boolPtr(true),
			Cached:          false,
			Message:         RefreshMessage,
		})
	}

	log.Printf("[AUTHORITY] Completed refreshing %d domains", len(results))
	return newBatchResponse(results), nil
}
