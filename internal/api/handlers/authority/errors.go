package authority

import (
	"Domainscope/internal/api/handlers"
	"Domainscope/internal/rapidapi"
	"errors"
	"log/slog"
	"net/http"
)

// handleServiceError converts service errors to HTTP responses
func handleServiceError(w http.ResponseWriter, err error) {
	var upErr *rapidapi.UpstreamError
	switch {
	case errors.As(err, &upErr):
		slog.Warn("authority batch aborted by upstream failure",
			"provider", upErr.Provider,
			"status", upErr.StatusCode,
			"error", err,
		)
		handlers.WriteError(w, http.StatusBadGateway, "UpstreamError", upErr.Error())
	default:
		slog.Error("authority request failed", "error", err)
		handlers.WriteError(w, http.StatusInternalServerError, "InternalServerError", "Internal server error")
	}
}
