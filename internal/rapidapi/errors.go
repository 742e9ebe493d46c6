package rapidapi

import (
	"errors"
	"fmt"
)

// Provider names used in errors, logs and metrics.
const (
	ProviderMoz        = "Moz"
	ProviderSimilarWeb = "SimilarWeb"
)

var errInvalidJSON = errors.New("invalid JSON response from API")

// UpstreamError reports a failed call to a RapidAPI endpoint: a non-success
// status, an unparsable body, or a transport failure.
type UpstreamError struct {
	Err        error
	Provider   string
	Body       string
	StatusCode int
}

func (e *UpstreamError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("%s API error (HTTP %d): %s", e.Provider, e.StatusCode, e.Body)
	}
	return fmt.Sprintf("%s API request failed: %v", e.Provider, e.Err)
}

func (e *UpstreamError) Unwrap() error {
	return e.Err
}

// IsUpstreamError returns true if err is or wraps an *UpstreamError.
func IsUpstreamError(err error) bool {
	var upErr *UpstreamError
	return errors.As(err, &upErr)
}
