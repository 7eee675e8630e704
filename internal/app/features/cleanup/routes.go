// internal/app/features/cleanup/routes.go
package cleanup

import (
	"github.com/go-chi/chi/v5"
	"github.com/harborware/harborhub/internal/app/system/cleanupkey"
	"go.uber.org/zap"
)

// Routes returns the router for the cleanup endpoints. Every route sits
// behind the shared-key check; the key is verified before any database work.
func Routes(h *Handler, verifier *cleanupkey.Verifier, logger *zap.Logger) chi.Router {
	r := chi.NewRouter()

	r.Use(verifier.Middleware(logger))

	r.Post("/resources", h.ServeResources)
	r.Post("/conversations", h.ServeConversations)
	r.Post("/users", h.ServeUsers)
	r.Post("/groups", h.ServeGroups)

	return r
}
