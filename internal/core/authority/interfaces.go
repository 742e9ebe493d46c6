package authority

import "context"

// Repository defines the interface for DA/PA persistence.
type Repository interface {
	// Get returns the stored record for url, or ErrNotFound.
	Get(ctx context.Context, url string) (*Record, error)

	// Upsert inserts or overwrites the record for url, stamping the current time.
	Upsert(ctx context.Context, url string, da, pa *float64) error
}

// Client fetches DA/PA scores from the upstream API.
type Client interface {
	FetchAuthority(ctx context.Context, url string) (*Scores, error)
}

// Service defines the batch operations exposed over HTTP.
type Service interface {
	// Check returns cached records where present and fetches the rest.
	// An upstream failure aborts the whole batch.
	Check(ctx context.Context, urls []string) (*BatchResponse, error)

	// Refresh fetches every URL regardless of cache state. Upstream failures
	// are reported per URL; store failures abort the batch.
	Refresh(ctx context.Context, urls []string) (*BatchResponse, error)
}
