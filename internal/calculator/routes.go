package calculator

import "github.com/go-chi/chi/v5"

// RegisterRoutes mounts all calculator endpoints onto the given router
// under the /calculator prefix.
func RegisterRoutes(r chi.Router, h *Handler) {
	r.Route("/calculator", func(r chi.Router) {
		r.Post("/evaluate", h.Evaluate)

		r.Route("/sessions", func(r chi.Router) {
			r.Post("/", h.CreateSession)

			r.Route("/{id}", func(r chi.Router) {
				r.Get("/", h.GetSession)
				r.Delete("/", h.DeleteSession)

				r.Post("/digit", h.AppendDigit)
				r.Post("/decimal", h.AppendDecimal)
				r.Post("/operator", h.AppendOperator)
				r.Post("/delete", h.Delete)
				r.Post("/clear", h.Clear)
				r.Post("/apply", h.Apply)
				r.Post("/load", h.Load)
			})
		})
	})
}
