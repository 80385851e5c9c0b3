package server

import (
	"github.com/go-chi/chi/v5"
)

// RegisterRoutes registers the bell routes under the given router.
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/bell", func(r chi.Router) {
		r.Get("/circuit", h.HandleGetCircuit)
		r.Post("/run", h.HandleRun)
	})
}
