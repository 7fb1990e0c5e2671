package zeiterfassung

import (
	"github.com/go-chi/chi/v5"
)

// MountRoutes registers zeiterfassung routes.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Get("/", h.list)
	r.Post("/", h.create)
	r.Get("/{id}", h.show)
	r.Put("/{id}", h.update)
	r.Delete("/{id}", h.delete)
	r.Post("/{id}/freigeben", h.freigeben)
	r.Post("/{id}/zuruecksetzen", h.zuruecksetzen)
}
