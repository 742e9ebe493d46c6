package routes

import (
	"Domainscope/internal/api/handlers/authority"
	authorityCore "Domainscope/internal/core/authority"

	"github.com/go-chi/chi/v5"
)

// RegisterAuthorityRoutes registers the DA/PA endpoints on the router
func RegisterAuthorityRoutes(r chi.Router, service authorityCore.Service) {
	checkHandler := authority.NewCheckHandler(service)
	refreshHandler := authority.NewRefreshHandler(service)

	// Cached lookup; fetches only URLs that are not stored yet
	r.Post("/check_domains", checkHandler.HandleCheck)

	// Forced refresh of every URL
	r.Post("/check_domains/refresh", refreshHandler.HandleRefresh)
}
