package traffic

import (
	"Domainscope/internal/api/handlers"
	"Domainscope/internal/core/traffic"
	"errors"
	"log/slog"
	"net/http"
)

// handleServiceError converts service errors to HTTP responses
func handleServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, traffic.ErrNotFound):
		handlers.WriteError(w, http.StatusNotFound, "NotFound", "Domain not found in database")
	case errors.Is(err, traffic.ErrInvalidData):
		handlers.WriteError(w, http.StatusBadRequest, "InvalidRequest", "data must be valid JSON")
	default:
		slog.Error("traffic request failed", "error", err)
		handlers.WriteError(w, http.StatusInternalServerError, "InternalServerError", "Internal server error")
	}
}
