package authority

// URLsRequest is the body of both DA/PA endpoints.
// An empty list is valid; a missing or null list is not.
type URLsRequest struct {
	URLs []string `json:"urls" validate:"required"`
}
