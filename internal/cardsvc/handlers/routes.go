package handlers

import (
	"github.com/go-chi/chi"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

func (h *Handler) SetRoutes(r *chi.Mux) {
	r.Get("/cards.json", h.CardsHandler)
	r.Handle("/metrics", promhttp.Handler())

	r.Route("/v1", func(r chi.Router) {
		r.Get("/health", h.HealthHandler)
	})
}
