// internal/app/jobs/jobs.go

// Package jobs implements the four idempotent cleanup batches. Each job is a
// single synchronous unit of work triggered externally (no internal
// scheduler): it selects candidates, asks the retention policy what to do,
// applies the transition, and writes one audit entry per mutated row.
//
// Failure semantics are at-least-once with partial success: an error mid-run
// aborts the remaining work, but mutations already committed are kept, one
// cleanup_failed audit entry records the partial stats, and the partial
// result is returned alongside the error so callers can surface it.
//
// Nothing here locks out concurrent runs. Candidate queries exclude rows
// already in the target status, so a row transitioned by one run disappears
// from the other's selection; two runs racing on the same untransitioned row
// may double-audit one logical event, which is tolerated.
package jobs

import (
	"context"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/harborware/harborhub/internal/app/store/audit"
	"github.com/harborware/harborhub/internal/app/system/auditlog"
)

// Stats is the per-job counter set. Details renders the counters for the
// cleanup_failed audit entry.
type Stats interface {
	Details() map[string]string
}

// BatchResult is the outcome of one cleanup run. On failure it still carries
// the stats accumulated before the abort.
type BatchResult struct {
	BatchID   string    `json:"batchId"`
	Stats     Stats     `json:"stats"`
	Timestamp time.Time `json:"timestamp"`
}

func newBatchID() string {
	return uuid.NewString()
}

// recordFailure writes the single cleanup_failed entry for an aborted batch.
// Best effort: the batch is already failing, so an audit write error here is
// logged by the audit logger and otherwise dropped. The entry is written on a
// detached context so a request cancellation that aborted the batch does not
// also swallow its failure record.
func recordFailure(ctx context.Context, log *auditlog.Logger, eventType, entityType, batchID string, stats Stats, cause error) {
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 10*time.Second)
	defer cancel()

	details := stats.Details()
	details["error"] = cause.Error()
	_ = log.Append(ctx, audit.Entry{
		EventType:      eventType,
		EntityType:     entityType,
		Action:         audit.ActionCleanupFailed,
		InitiatedBy:    audit.System(),
		RelatedBatchID: batchID,
		Reason:         "cleanup batch aborted; partial progress retained",
		Details:        details,
	})
}

func itoa(n int) string {
	return strconv.Itoa(n)
}
