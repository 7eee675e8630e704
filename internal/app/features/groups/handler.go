// internal/app/features/groups/handler.go
package groups

import (
	"encoding/json"
	"net/http"

	"github.com/harborware/harborhub/internal/app/store/conversations"
	"github.com/harborware/harborhub/internal/app/store/groups"
	"github.com/harborware/harborhub/internal/app/store/resources"
	"github.com/harborware/harborhub/internal/app/system/auditlog"
	"github.com/microcosm-cc/bluemonday"
	"go.uber.org/zap"
)

// Handler handles group management endpoints: creation and member-initiated
// deletion with its cascade over the group's resources and conversations.
type Handler struct {
	Groups        *groupstore.Store
	Resources     *resourcestore.Store
	Conversations *conversationstore.Store
	Audit         *auditlog.Logger
	Log           *zap.Logger

	sanitize *bluemonday.Policy
}

// NewHandler creates a new groups handler.
func NewHandler(groups *groupstore.Store, resources *resourcestore.Store, conversations *conversationstore.Store, auditLog *auditlog.Logger, logger *zap.Logger) *Handler {
	return &Handler{
		Groups:        groups,
		Resources:     resources,
		Conversations: conversations,
		Audit:         auditLog,
		Log:           logger,
		sanitize:      bluemonday.StrictPolicy(),
	}
}

// errorResponse is the JSON body for a rejected request.
type errorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

func writeError(w http.ResponseWriter, status int, code, message string) {
	writeJSON(w, status, errorResponse{Error: code, Message: message})
}
