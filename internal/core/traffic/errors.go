package traffic

import "errors"

var (
	// ErrNotFound is returned when no traffic record exists for a domain.
	ErrNotFound = errors.New("traffic record not found")

	// ErrInvalidData is returned when caller-supplied data is not valid JSON.
	ErrInvalidData = errors.New("traffic data must be valid JSON")
)
