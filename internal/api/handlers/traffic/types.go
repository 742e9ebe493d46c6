package traffic

import "encoding/json"

// DomainsRequest is the body of the traffic check and refresh endpoints.
// An empty list is valid; a missing or null list is not.
type DomainsRequest struct {
	Domains []string `json:"domains" validate:"required"`
}

// UpdateRequest is the body of POST /similarweb/update.
type UpdateRequest struct {
	Domain string          `json:"domain" validate:"required"`
	Data   json.RawMessage `json:"data" validate:"required"`
}

// UpdateResponse acknowledges a successful update.
type UpdateResponse struct {
	Domain  string `json:"domain"`
	Message string `json:"message"`
	Updated bool   `json:"updated"`
}
