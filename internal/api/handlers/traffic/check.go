package traffic

import (
	"Domainscope/internal/api/handlers"
	"Domainscope/internal/core/traffic"
	"net/http"
)

// CheckHandler handles traffic lookups served from the cache when possible
type CheckHandler struct {
	service traffic.Service
}

// NewCheckHandler creates a new traffic check handler
func NewCheckHandler(service traffic.Service) *CheckHandler {
	return &CheckHandler{
		service: service,
	}
}

// HandleCheck returns traffic data for each domain
// POST /similarweb
//
// Request body: { "domains": ["example.com", ...] }
func (h *CheckHandler) HandleCheck(w http.ResponseWriter, r *http.Request) {
	var req DomainsRequest
	if err := handlers.DecodeRequest(w, r, &req); err != nil {
		handlers.WriteError(w, http.StatusBadRequest, "InvalidRequest", err.Error())
		return
	}

	response, err := h.service.Check(r.Context(), req.Domains)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	handlers.WriteJSON(w, http.StatusOK, response)
}
