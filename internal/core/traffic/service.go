package traffic

import (
	"Domainscope/internal/metrics"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
)

const metricsKind = "traffic"

type service struct {
	repo    Repository
	client  Client
	metrics *metrics.Metrics
}

// NewService creates a new traffic service
func NewService(repo Repository, client Client, opts ...ServiceOption) Service {
	if repo == nil {
		panic("traffic: repo cannot be nil")
	}
	if client == nil {
		panic("traffic: client cannot be nil")
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

func (s *service) Check(ctx context.Context, domains []string) (*BatchResponse, error) {
	results := make([]Result, 0, len(domains))

	for _, domain := range domains {
		existing, err := s.repo.Get(ctx, domain)
		if err == nil {
			s.metrics.CacheLookup(metricsKind, true)
			log.Printf("[TRAFFIC] Cached SimilarWeb result found for %s", domain)
			results = append(results, Result{
				Domain:   existing.Domain,
				Data:     existing.Data,
				Cached:   boolPtr(true),
				CachedAt: existing.CreatedAt,
			})
			continue
		}
		if !errors.Is(err, ErrNotFound) {
			return nil, fmt.Errorf("failed to look up %s: %w", domain, err)
		}
		s.metrics.CacheLookup(metricsKind, false)

		log.Printf("[TRAFFIC] Fetching SimilarWeb data from API for %s", domain)
		data, err := s.client.FetchTraffic(ctx, domain)
		if err != nil {
			log.Printf("[TRAFFIC] Error fetching SimilarWeb data for %s: %v", domain, err)
			results = append(results, Result{
				Domain: domain,
				Error:  err.Error(),
				Cached: boolPtr(false),
			})
			continue
		}

		if err := s.repo.Upsert(ctx, domain, data); err != nil {
			return nil, fmt.Errorf("failed to save %s: %w", domain, err)
		}

		log.Printf("[TRAFFIC] SimilarWeb data saved for %s", domain)
		results = append(results, Result{
			Domain: domain,
			Data:   data,
			Cached: boolPtr(false),
		})
	}

	log.Printf("[TRAFFIC] Completed processing %d domains", len(results))
	return newBatchResponse(results), nil
}

func (s *service) Refresh(ctx context.Context, domains []string) (*BatchResponse, error) {
	results := make([]Result, 0, len(domains))

	for _, domain := range domains {
		log.Printf("[TRAFFIC] Force refreshing SimilarWeb data for %s", domain)

		data, err := s.client.FetchTraffic(ctx, domain)
		if err != nil {
			log.Printf("[TRAFFIC] Error refreshing SimilarWeb data for %s: %v", domain, err)
			results = append(results, Result{
				Domain:    domain,
				Error:     err.Error(),
				Refreshed: boolPtr(false),
			})
			continue
		}

		if err := s.repo.Upsert(ctx, domain, data); err != nil {
			return nil, fmt.Errorf("failed to save %s: %w", domain, err)
		}

		log.Printf("[TRAFFIC] SimilarWeb data refreshed and updated for %s", domain)
		results = append(results, Result{
			Domain:    domain,
			Data:      data,
			Refreshed: boolPtr(true),
			Message:   RefreshMessage,
		})
	}

	log.Printf("[TRAFFIC] Completed refreshing %d domains", len(results))
	return newBatchResponse(results), nil
}

func (s *service) Update(ctx context.Context, domain string, data json.RawMessage) error {
	if len(data) == 0 || !json.Valid(data) {
		return ErrInvalidData
	}

	updated, err := s.repo.UpdateData(ctx, domain, data)
	if err != nil {
		return fmt.Errorf("failed to update %s: %w", domain, err)
	}
	if !updated {
		return ErrNotFound
	}

	log.Printf("[TRAFFIC] SimilarWeb data updated for %s", domain)
	return nil
}
