package traffic

import (
	"Domainscope/internal/api/handlers"
	"Domainscope/internal/core/traffic"
	"bytes"
	"net/http"
)

// UpdateMessage is returned after a successful manual update.
const UpdateMessage = "Data updated in database"

// UpdateHandler handles manual replacement of cached traffic data
type UpdateHandler struct {
	service traffic.Service
}

// NewUpdateHandler creates a new traffic update handler
func NewUpdateHandler(service traffic.Service) *UpdateHandler {
	return &UpdateHandler{
		service: service,
	}
}

// HandleUpdate overwrites the stored data of an already cached domain
// POST /similarweb/update
//
// Request body: { "domain": "example.com", "data": { ... } }
// Unknown domains are rejected with 404; nothing is created.
func (h *UpdateHandler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	var req UpdateRequest
	if err := handlers.DecodeRequest(w, r, &req); err != nil {
		handlers.WriteError(w, http.StatusBadRequest, "InvalidRequest", err.Error())
		return
	}

	if data := bytes.TrimSpace(req.Data); len(data) == 0 || data[0] != '{' {
		handlers.WriteError(w, http.StatusBadRequest, "InvalidRequest", "data must be a JSON object")
		return
	}

	if err := h.service.Update(r.Context(), req.Domain, req.Data); err != nil {
		handleServiceError(w, err)
		return
	}

	handlers.WriteJSON(w, http.StatusOK, UpdateResponse{
		Domain:  req.Domain,
		Updated: true,
		Message: UpdateMessage,
	})
}
