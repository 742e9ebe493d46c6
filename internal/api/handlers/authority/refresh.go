package authority

import (
	"Domainscope/internal/api/handlers"
	"Domainscope/internal/core/authority"
	"net/http"
)

// RefreshHandler handles forced DA/PA refreshes
type RefreshHandler struct {
	service authority.Service
}

// NewRefreshHandler creates a new refresh handler
func NewRefreshHandler(service authority.Service) *RefreshHandler {
	return &RefreshHandler{
		service: service,
	}
}

// HandleRefresh fetches DA/PA for every URL and overwrites the cache
// POST /check_domains/refresh
//
// Request body: { "urls": ["example.com", ...] }
// Upstream failures are reported per URL with refreshed=false.
func (h *RefreshHandler) HandleRefresh(w http.ResponseWriter, r *http.Request) {
	var req URLsRequest
	if err := handlers.DecodeRequest(w, r, &req); err != nil {
		handlers.WriteError(w, http.StatusBadRequest, "InvalidRequest", err.Error())
		return
	}

	response, err := h.service.Refresh(r.Context(), req.URLs)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	handlers.WriteJSON(w, http.StatusOK, response)
}
