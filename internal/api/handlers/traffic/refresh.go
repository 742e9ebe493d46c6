package traffic

import (
	"Domainscope/internal/api/handlers"
	"Domainscope/internal/core/traffic"
	"net/http"
)

// RefreshHandler handles forced traffic refreshes
type RefreshHandler struct {
	service traffic.Service
}

// NewRefreshHandler creates a new traffic refresh handler
func NewRefreshHandler(service traffic.Service) *RefreshHandler {
	return &RefreshHandler{
		service: service,
	}
}

// HandleRefresh fetches traffic data for every domain and overwrites the cache
// POST /similarweb/refresh
//
// Request body: { "domains": ["example.com", ...] }
func (h *RefreshHandler) HandleRefresh(w http.ResponseWriter, r *http.Request) {
	var req DomainsRequest
	if err := handlers.DecodeRequest(w, r, &req); err != nil {
		handlers.WriteError(w, http.StatusBadRequest, "InvalidRequest", err.Error())
		return
	}

	response, err := h.service.Refresh(r.Context(), req.Domains)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	handlers.WriteJSON(w, http.StatusOK, response)
}
