// internal/app/features/groups/delete.go
package groups

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/harborware/harborhub/internal/app/policy/memberpolicy"
	"github.com/harborware/harborhub/internal/app/store/audit"
	"github.com/harborware/harborhub/internal/app/system/timeouts"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// deleteRequest is the JSON body for group deletion. The caller identifies
// itself by email; rights are resolved against the group's member list.
type deleteRequest struct {
	Email string `json:"email"`
}

// deleteResponse is the JSON body for a completed deletion.
type deleteResponse struct {
	Message string `json:"message"`
	GroupID string `json:"groupId"`
}

// ServeDelete handles DELETE /groups/{id}.
//
// The cascade is a forward-only saga without a surrounding transaction:
// group first, then its resources, then its conversations, all stamped with
// the same soft_deleted_at. A failure partway leaves earlier steps committed;
// rerunning the delete is safe because a soft-deleted group no longer matches
// the group update and the child bulk updates only touch active rows.
// Exactly one audit entry records the whole cascade.
func (h *Handler) ServeDelete(w http.ResponseWriter, r *http.Request) {
	var req deleteRequest
	if r.Body != nil {
		_ = json.NewDecoder(r.Body).Decode(&req)
	}
	email := strings.TrimSpace(req.Email)
	if email == "" {
		writeError(w, http.StatusBadRequest, "missing_email", "email is required")
		return
	}

	id, err := primitive.ObjectIDFromHex(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_id", "group id must be a valid object id")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Long())
	defer cancel()

	g, err := h.Groups.GetByID(ctx, id)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			writeError(w, http.StatusNotFound, "not_found", "group not found")
			return
		}
		h.Log.Error("failed to load group", zap.Error(err), zap.String("group_id", id.Hex()))
		writeError(w, http.StatusInternalServerError, "internal_error", "failed to load group")
		return
	}

	// Group deletion is admin-only; per-member rights flags do not extend
	// to it. Denied attempts are not audited; the ledger records state
	// changes only.
	if !memberpolicy.IsAdmin(g, email) {
		writeError(w, http.StatusForbidden, "forbidden", "only a group admin may delete the group")
		return
	}

	now := time.Now().UTC()

	ok, err := h.Groups.SoftDelete(ctx, id, now)
	if err != nil {
		h.Log.Error("failed to soft delete group", zap.Error(err), zap.String("group_id", id.Hex()))
		writeError(w, http.StatusInternalServerError, "internal_error", "failed to delete group")
		return
	}
	if !ok {
		// Already deleted by a concurrent request.
		writeError(w, http.StatusNotFound, "not_found", "group not found")
		return
	}

	resourceCount, err := h.Resources.SoftDeleteByGroup(ctx, id, now)
	if err != nil {
		h.Log.Error("group cascade aborted at resources",
			zap.Error(err), zap.String("group_id", id.Hex()))
		writeError(w, http.StatusInternalServerError, "internal_error", "group deleted but resource cascade failed; retry the delete")
		return
	}

	conversationCount, err := h.Conversations.SoftDeleteByGroup(ctx, id, now)
	if err != nil {
		h.Log.Error("group cascade aborted at conversations",
			zap.Error(err), zap.String("group_id", id.Hex()))
		writeError(w, http.StatusInternalServerError, "internal_error", "group deleted but conversation cascade failed; retry the delete")
		return
	}

	if err := h.Audit.Append(ctx, audit.Entry{
		EventType:   audit.EventGroupManagement,
		EntityType:  audit.EntityGroup,
		EntityID:    id.Hex(),
		EntityName:  g.Name,
		Action:      audit.ActionSoftDelete,
		InitiatedBy: audit.ByUser(email, ""),
		Reason:      "deleted by group member",
		Details: map[string]string{
			"group_id":               id.Hex(),
			"member_count":           strconv.Itoa(len(g.Members)),
			"cascaded_resources":     strconv.FormatInt(resourceCount, 10),
			"cascaded_conversations": strconv.FormatInt(conversationCount, 10),
		},
		Timestamp: now,
	}); err != nil {
		h.Log.Error("group deleted but audit append failed",
			zap.Error(err), zap.String("group_id", id.Hex()))
	}

	writeJSON(w, http.StatusOK, deleteResponse{
		Message: "group deleted",
		GroupID: id.Hex(),
	})
}
