// internal/app/features/cleanup/handler.go
package cleanup

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/harborware/harborhub/internal/app/jobs"
	"github.com/harborware/harborhub/internal/app/system/timeouts"
	"go.uber.org/zap"
)

// Runner is the contract every cleanup batch satisfies.
type Runner interface {
	Run(ctx context.Context, now time.Time) (jobs.BatchResult, error)
}

// Handler exposes the cleanup batches over HTTP. Each endpoint runs one
// batch synchronously and reports its stats; a failed batch still reports
// whatever it managed to do before the abort.
type Handler struct {
	Resources     Runner
	Conversations Runner
	Users         Runner
	Groups        Runner
	Log           *zap.Logger
}

// NewHandler creates a new cleanup handler.
func NewHandler(resources, conversations, users, groups Runner, logger *zap.Logger) *Handler {
	return &Handler{
		Resources:     resources,
		Conversations: conversations,
		Users:         users,
		Groups:        groups,
		Log:           logger,
	}
}

// successResponse is the JSON body for a completed batch.
type successResponse struct {
	Message   string     `json:"message"`
	BatchID   string     `json:"batchId"`
	Stats     jobs.Stats `json:"stats"`
	Timestamp time.Time  `json:"timestamp"`
}

// failureResponse is the JSON body for an aborted batch.
type failureResponse struct {
	Error        string     `json:"error"`
	Message      string     `json:"message"`
	BatchID      string     `json:"batchId"`
	PartialStats jobs.Stats `json:"partialStats"`
}

// ServeResources handles POST /cleanup/resources.
func (h *Handler) ServeResources(w http.ResponseWriter, r *http.Request) {
	h.run(w, r, "resource cleanup", h.Resources)
}

// ServeConversations handles POST /cleanup/conversations.
func (h *Handler) ServeConversations(w http.ResponseWriter, r *http.Request) {
	h.run(w, r, "conversation cleanup", h.Conversations)
}

// ServeUsers handles POST /cleanup/users.
func (h *Handler) ServeUsers(w http.ResponseWriter, r *http.Request) {
	h.run(w, r, "user cleanup", h.Users)
}

// ServeGroups handles POST /cleanup/groups.
func (h *Handler) ServeGroups(w http.ResponseWriter, r *http.Request) {
	h.run(w, r, "group cleanup", h.Groups)
}

func (h *Handler) run(w http.ResponseWriter, r *http.Request, name string, job Runner) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Batch())
	defer cancel()

	result, err := job.Run(ctx, time.Now().UTC())
	if err != nil {
		h.Log.Error("cleanup batch failed",
			zap.String("job", name),
			zap.String("batch_id", result.BatchID),
			zap.Error(err))
		writeJSON(w, http.StatusInternalServerError, failureResponse{
			Error:        "cleanup_failed",
			Message:      name + " aborted: " + err.Error(),
			BatchID:      result.BatchID,
			PartialStats: result.Stats,
		})
		return
	}

	writeJSON(w, http.StatusOK, successResponse{
		Message:   name + " completed",
		BatchID:   result.BatchID,
		Stats:     result.Stats,
		Timestamp: result.Timestamp,
	})
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}
