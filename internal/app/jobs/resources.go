// internal/app/jobs/resources.go

package jobs

import (
	"context"
	"time"

	"github.com/harborware/harborhub/internal/app/policy/retention"
	"github.com/harborware/harborhub/internal/app/store/audit"
	"github.com/harborware/harborhub/internal/app/system/auditlog"
	"github.com/harborware/harborhub/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

// resourceStore is the slice of the resource store this job touches.
type resourceStore interface {
	FindRetentionCandidates(ctx context.Context, cutoff time.Time) ([]models.Resource, error)
	FindGraceExpired(ctx context.Context, cutoff time.Time) ([]models.Resource, error)
	SoftDelete(ctx context.Context, id primitive.ObjectID, at time.Time) (bool, error)
	HardDelete(ctx context.Context, id primitive.ObjectID, at time.Time) (bool, error)
}

// ResourceStats counts the transitions applied by one resource cleanup run.
type ResourceStats struct {
	SoftDeletedResources int `json:"softDeletedResources"`
	HardDeletedResources int `json:"hardDeletedResources"`
}

func (s *ResourceStats) Details() map[string]string {
	return map[string]string{
		"soft_deleted_resources": itoa(s.SoftDeletedResources),
		"hard_deleted_resources": itoa(s.HardDeletedResources),
	}
}

// Resources soft-deletes personal-chat resources past the retention window
// and hard-deletes soft-deleted resources past the grace period.
type Resources struct {
	store resourceStore
	audit *auditlog.Logger
	rules retention.Rules
	log   *zap.Logger
}

func NewResources(store resourceStore, auditLog *auditlog.Logger, rules retention.Rules, log *zap.Logger) *Resources {
	return &Resources{store: store, audit: auditLog, rules: rules, log: log}
}

// Run executes both stages, oldest rows first, stage one before stage two.
// A resource soft-deleted in stage one is never hard-deleted in the same run:
// its soft_deleted_at is now, which cannot be past the grace cutoff.
func (j *Resources) Run(ctx context.Context, now time.Time) (BatchResult, error) {
	stats := &ResourceStats{}
	result := BatchResult{BatchID: newBatchID(), Stats: stats, Timestamp: now}

	fail := func(err error) (BatchResult, error) {
		j.log.Error("resource cleanup aborted",
			zap.String("batch_id", result.BatchID), zap.Error(err))
		recordFailure(ctx, j.audit, audit.EventResourceCleanup, audit.EntityResource, result.BatchID, stats, err)
		return result, err
	}

	candidates, err := j.store.FindRetentionCandidates(ctx, now.Add(-j.rules.RetentionWindow))
	if err != nil {
		return fail(err)
	}
	for _, res := range candidates {
		tr := j.rules.ForResource(res, now)
		if tr == nil {
			continue
		}
		ok, err := j.store.SoftDelete(ctx, res.ID, now)
		if err != nil {
			return fail(err)
		}
		if !ok {
			// Lost the row to a concurrent run.
			continue
		}
		stats.SoftDeletedResources++
		if err := j.audit.Append(ctx, audit.Entry{
			EventType:      audit.EventResourceCleanup,
			EntityType:     audit.EntityResource,
			EntityID:       res.ID.Hex(),
			EntityName:     res.FileName,
			Action:         audit.ActionSoftDelete,
			InitiatedBy:    audit.System(),
			RelatedBatchID: result.BatchID,
			Reason:         tr.Reason,
			Details: map[string]string{
				"upload_type": res.UploadType,
				"uploaded_at": res.UploadedAt.UTC().Format(time.RFC3339),
			},
			Timestamp: now,
		}); err != nil {
			return fail(err)
		}
	}

	expired, err := j.store.FindGraceExpired(ctx, now.Add(-j.rules.GracePeriod))
	if err != nil {
		return fail(err)
	}
	for _, res := range expired {
		tr := j.rules.ForResource(res, now)
		if tr == nil {
			continue
		}
		ok, err := j.store.HardDelete(ctx, res.ID, now)
		if err != nil {
			return fail(err)
		}
		if !ok {
			continue
		}
		stats.HardDeletedResources++
		details := map[string]string{
			"upload_type": res.UploadType,
		}
		if res.SoftDeletedAt != nil {
			details["soft_deleted_at"] = res.SoftDeletedAt.UTC().Format(time.RFC3339)
		}
		if err := j.audit.Append(ctx, audit.Entry{
			EventType:      audit.EventResourceCleanup,
			EntityType:     audit.EntityResource,
			EntityID:       res.ID.Hex(),
			EntityName:     res.FileName,
			Action:         audit.ActionHardDelete,
			InitiatedBy:    audit.System(),
			RelatedBatchID: result.BatchID,
			Reason:         tr.Reason,
			Details:        details,
			Timestamp:      now,
		}); err != nil {
			return fail(err)
		}
	}

	j.log.Info("resource cleanup finished",
		zap.String("batch_id", result.BatchID),
		zap.Int("soft_deleted", stats.SoftDeletedResources),
		zap.Int("hard_deleted", stats.HardDeletedResources))
	return result, nil
}
