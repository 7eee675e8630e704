// internal/app/features/groups/routes.go
package groups

import (
	"github.com/go-chi/chi/v5"
)

// Routes returns the router for group management endpoints.
func Routes(h *Handler) chi.Router {
	r := chi.NewRouter()

	r.Post("/", h.ServeCreate)
	r.Delete("/{id}", h.ServeDelete)

	return r
}
