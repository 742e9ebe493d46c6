package routes

import (
	"Domainscope/internal/api/handlers/traffic"
	trafficCore "Domainscope/internal/core/traffic"

	"github.com/go-chi/chi/v5"
)

// RegisterTrafficRoutes registers the SimilarWeb traffic endpoints on the router
func RegisterTrafficRoutes(r chi.Router, service trafficCore.Service) {
	checkHandler := traffic.NewCheckHandler(service)
	refreshHandler := traffic.NewRefreshHandler(service)
	updateHandler := traffic.NewUpdateHandler(service)

	r.Route("/similarweb", func(r chi.Router) {
		r.Post("/", checkHandler.HandleCheck)
		r.Post("/refresh", refreshHandler.HandleRefresh)

		// Manual overwrite of an already cached domain
		r.Post("/update", updateHandler.HandleUpdate)
	})
}
