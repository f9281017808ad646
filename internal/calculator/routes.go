package calculator

import "github.com/go-chi/chi/v5"

// RegisterRoutes mounts all calculator endpoints onto the given router
// under the /calculator prefix.
func RegisterRoutes(r chi.Router, h *Handler) {
	r.Route("/calculator", func(r chi.Router) {
		r.Post("/modexp", h.Calculate)
		r.Get("/modexp", h.Query)
		r.Get("/modexp/defaults", h.Defaults)
	})
}
