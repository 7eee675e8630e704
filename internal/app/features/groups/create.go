// internal/app/features/groups/create.go
package groups

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/harborware/harborhub/internal/app/store/audit"
	groupstore "github.com/harborware/harborhub/internal/app/store/groups"
	"github.com/harborware/harborhub/internal/app/system/timeouts"
	"github.com/harborware/harborhub/internal/domain/models"
	"go.uber.org/zap"
)

// createRequest is the JSON body for group creation.
type createRequest struct {
	Name              string         `json:"name"`
	Description       string         `json:"description"`
	CreatorEmail      string         `json:"creatorEmail"`
	CreatorExternalID string         `json:"creatorExternalId"`
	SpaceLifetimeDays int            `json:"spaceLifetimeDays"`
	Members           []createMember `json:"members"`
}

type createMember struct {
	Email      string `json:"email"`
	ExternalID string `json:"externalId"`
	Role       string `json:"role"`
}

// createResponse is the JSON body for a created group.
type createResponse struct {
	Message   string    `json:"message"`
	GroupID   string    `json:"groupId"`
	ExpiresAt time.Time `json:"expiresAt"`
}

// ServeCreate handles POST /groups.
// Name and description pass through the strict HTML sanitizer before they are
// stored; the creator always ends up as the first admin member.
func (h *Handler) ServeCreate(w http.ResponseWriter, r *http.Request) {
	var req createRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_body", "request body must be valid JSON")
		return
	}

	name := strings.TrimSpace(h.sanitize.Sanitize(req.Name))
	if name == "" {
		writeError(w, http.StatusBadRequest, "missing_name", "group name is required")
		return
	}
	creatorEmail := strings.TrimSpace(req.CreatorEmail)
	if creatorEmail == "" {
		writeError(w, http.StatusBadRequest, "missing_email", "creatorEmail is required")
		return
	}

	members := make([]models.Member, 0, len(req.Members))
	for _, m := range req.Members {
		email := strings.TrimSpace(m.Email)
		if email == "" {
			continue
		}
		members = append(members, models.Member{
			Email:      email,
			ExternalID: m.ExternalID,
			Role:       m.Role,
		})
	}

	now := time.Now().UTC()
	g := models.NewGroup(
		name,
		strings.TrimSpace(h.sanitize.Sanitize(req.Description)),
		models.Identity{Email: creatorEmail, ExternalID: req.CreatorExternalID},
		req.SpaceLifetimeDays,
		members,
		now,
	)

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	if err := h.Groups.Insert(ctx, g); err != nil {
		if errors.Is(err, groupstore.ErrDuplicateGroupName) {
			writeError(w, http.StatusConflict, "duplicate_name", "a group with this name already exists")
			return
		}
		h.Log.Error("failed to insert group", zap.Error(err), zap.String("name", name))
		writeError(w, http.StatusInternalServerError, "internal_error", "failed to create group")
		return
	}

	if err := h.Audit.Append(ctx, audit.Entry{
		EventType:   audit.EventGroupManagement,
		EntityType:  audit.EntityGroup,
		EntityID:    g.ID.Hex(),
		EntityName:  g.Name,
		Action:      audit.ActionCreate,
		InitiatedBy: audit.ByUser(creatorEmail, req.CreatorExternalID),
		Details: map[string]string{
			"space_lifetime_days": strconv.Itoa(g.SpaceLifetime),
			"member_count":        strconv.Itoa(len(g.Members)),
		},
		Timestamp: now,
	}); err != nil {
		// The group exists; surfacing the audit failure as a 500 would make
		// the client retry and hit the duplicate-name guard.
		h.Log.Error("group created but audit append failed",
			zap.Error(err), zap.String("group_id", g.ID.Hex()))
	}

	writeJSON(w, http.StatusCreated, createResponse{
		Message:   "group created",
		GroupID:   g.ID.Hex(),
		ExpiresAt: g.ExpiresAt,
	})
}
