package traffic

import "encoding/json"

// RefreshMessage is attached to every successful refresh result.
const RefreshMessage = "Data fetched from API and updated in database"

// Record is a persisted row of similarweb_stats. Data is kept verbatim;
// the service never inspects its shape.
type Record struct {
	Domain    string
	CreatedAt string
	Data      json.RawMessage
}

// Result is one entry of a batch response. Which fields are present depends
// on the operation and outcome:
//
//	check hit:      {domain, data, cached:true, cached_at}
//	check miss:     {domain, data, cached:false}
//	check error:    {domain, error, cached:false}
//	refresh ok:     {domain, data, refreshed:true, message}
//	refresh error:  {domain, error, refreshed:false}
type Result struct {
	Cached    *bool           `json:"cached,omitempty"`
	Refreshed *bool           `json:"refreshed,omitempty"`
	Domain    string          `json:"domain"`
	CachedAt  string          `json:"cached_at,omitempty"`
	Message   string          `json:"message,omitempty"`
	Error     string          `json:"error,omitempty"`
	Data      json.RawMessage `json:"data,omitempty"`
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
