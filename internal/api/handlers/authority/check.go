package authority

import (
	"Domainscope/internal/api/handlers"
	"Domainscope/internal/core/authority"
	"net/http"
)

// CheckHandler handles DA/PA lookups served from the cache when possible
type CheckHandler struct {
	service authority.Service
}

// NewCheckHandler creates a new check handler
func NewCheckHandler(service authority.Service) *CheckHandler {
	return &CheckHandler{
		service: service,
	}
}

// HandleCheck returns DA/PA for each URL, fetching only the ones not cached
// POST /check_domains
//
// Request body: { "urls": ["example.com", ...] }
func (h *CheckHandler) HandleCheck(w http.ResponseWriter, r *http.Request) {
	var req URLsRequest
	if err := handlers.DecodeRequest(w, r, &req); err != nil {
		handlers.WriteError(w, http.StatusBadRequest, "InvalidRequest", err.Error())
		return
	}

	response, err := h.service.Check(r.Context(), req.URLs)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	handlers.WriteJSON(w, http.StatusOK, response)
}
