package handlers

import (
	"github.com/go-chi/chi/v5"
)

// RegisterRoutes registers all frontier routes
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/frontier", func(r chi.Router) {
		r.Get("/", h.HandleGetFrontier)             // Computed surfaces (JSON or msgpack)
		r.Get("/plot.svg", h.HandleGetPlot)         // Rendered scatter plot
		r.Get("/parameters", h.HandleGetParameters) // Slider catalog and defaults
		r.Get("/ws", h.HandleFrontierStream)        // Live recompute channel
	})
}
