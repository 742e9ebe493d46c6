package traffic

import (
	"context"
	"encoding/json"
)

// Repository defines the interface for traffic data persistence.
type Repository interface {
	// Get returns the stored record for domain, or ErrNotFound.
	Get(ctx context.Context, domain string) (*Record, error)

	// Upsert inserts or overwrites the record for domain, stamping the current time.
	Upsert(ctx context.Context, domain string, data json.RawMessage) error

	// UpdateData overwrites data and timestamp of an existing record.
	// It never creates a record and reports whether a row was changed.
	UpdateData(ctx context.Context, domain string, data json.RawMessage) (bool, error)
}

// Client fetches raw traffic statistics from the upstream API.
type Client interface {
	FetchTraffic(ctx context.Context, domain string) (json.RawMessage, error)
}

// Service defines the traffic operations exposed over HTTP.
type Service interface {
	// Check returns cached data where present and fetches the rest.
	// Upstream failures are reported per domain.
	Check(ctx context.Context, domains []string) (*BatchResponse, error)

	// Refresh fetches every domain regardless of cache state.
	Refresh(ctx context.Context, domains []string) (*BatchResponse, error)

	// Update replaces the stored data of a known domain without calling the
	// upstream API. Returns ErrNotFound for unknown domains.
	Update(ctx context.Context, domain string, data json.RawMessage) error
}
