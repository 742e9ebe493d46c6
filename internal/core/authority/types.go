package authority

import "encoding/json"

// RefreshMessage is attached to every successful refresh result.
const RefreshMessage = "Data fetched from API and updated in database"

// Scores is what the upstream authority API reports for a URL.
// Either score may be nil when the API omits it.
type Scores struct {
	DomainAuthority *float64
	PageAuthority   *float64
	URL             string
}

// Record is a persisted row of domain_stats.
type Record struct {
	DomainAuthority *float64
	PageAuthority   *float64
	URL             string
	CreatedAt       string
}

// Result is one entry of a batch response.
//
// Success entries always carry "da" and "pa" (null when unknown). Failed
// refresh entries collapse to {url, error, refreshed:false}.
type Result struct {
	DomainAuthority *float64 `json:"da"`
	PageAuthority   *float64 `json:"pa"`
	Refreshed       *bool    `json:"refreshed,omitempty"`
	URL             string   `json:"url"`
	Message         string   `json:"message,omitempty"`
	Error           string   `json:"error,omitempty"`
	Cached          bool     `json:"cached"`
}

// MarshalJSON drops the score and cache fields from error entries.
func (r Result) MarshalJSON() ([]byte, error) {
	if r.Error != "" {
		return json.Marshal(struct {
			URL       string `json:"url"`
			Error     string `json:"error"`
			Refreshed bool   `json:"refreshed"`
		}{URL: r.URL, Error: r.Error, Refreshed: false})
	}

	type plain Result
	return json.Marshal(plain(r))
}

// BatchResponse is the body returned by the check and refresh endpoints.
type BatchResponse struct {
	Results []Result `json:"results"`
	Count   int      `json:"count"`
}

func newBatchResponse(results []Result) *BatchResponse {
	return &BatchResponse{Count: len(results), Results: results}
}

func boolPtr(b bool) *bool {
	return &b
}
