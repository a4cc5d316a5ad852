package history

import "github.com/go-chi/chi/v5"

// RegisterRoutes mounts the history endpoints under /history.
func RegisterRoutes(r chi.Router, h *Handler) {
	r.Route("/history", func(r chi.Router) {
		r.Get("/", h.List)
		r.Delete("/", h.Clear)
		r.Get("/{id}", h.Get)
	})
}
