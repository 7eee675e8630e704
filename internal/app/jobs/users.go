// internal/app/jobs/users.go

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

// userStore is the slice of the user store this job touches.
type userStore interface {
	MarkInactiveBulk(ctx context.Context, cutoff time.Time) (int64, error)
	FindGraceExpired(ctx context.Context, cutoff time.Time) ([]models.User, error)
	HardDelete(ctx context.Context, id primitive.ObjectID, at time.Time) (bool, error)
}

// UserStats counts the transitions applied by one user cleanup run.
type UserStats struct {
	MarkedInactiveUsers int `json:"markedInactiveUsers"`
	HardDeletedUsers    int `json:"hardDeletedUsers"`
}

func (s *UserStats) Details() map[string]string {
	return map[string]string{
		"marked_inactive_users": itoa(s.MarkedInactiveUsers),
		"hard_deleted_users":    itoa(s.HardDeletedUsers),
	}
}

// Users marks long-idle accounts inactive and hard-deletes soft-deleted
// accounts past the grace period. The inactivity pass is a single bulk
// update: individual per-user audit rows at that volume would swamp the
// ledger, so the batch gets one aggregate entry instead, and only when it
// actually moved something.
type Users struct {
	store userStore
	audit *auditlog.Logger
	rules retention.Rules
	log   *zap.Logger
}

func NewUsers(store userStore, auditLog *auditlog.Logger, rules retention.Rules, log *zap.Logger) *Users {
	return &Users{store: store, audit: auditLog, rules: rules, log: log}
}

func (j *Users) Run(ctx context.Context, now time.Time) (BatchResult, error) {
	stats := &UserStats{}
	result := BatchResult{BatchID: newBatchID(), Stats: stats, Timestamp: now}

	fail := func(err error) (BatchResult, error) {
		j.log.Error("user cleanup aborted",
			zap.String("batch_id", result.BatchID), zap.Error(err))
		recordFailure(ctx, j.audit, audit.EventUserCleanup, audit.EntityUser, result.BatchID, stats, err)
		return result, err
	}

	cutoff := now.Add(-j.rules.RetentionWindow)
	marked, err := j.store.MarkInactiveBulk(ctx, cutoff)
	if err != nil {
		return fail(err)
	}
	stats.MarkedInactiveUsers = int(marked)
	if marked > 0 {
		if err := j.audit.Append(ctx, audit.Entry{
			EventType:      audit.EventUserCleanup,
			EntityType:     audit.EntityUser,
			Action:         audit.ActionMarkInactive,
			InitiatedBy:    audit.System(),
			RelatedBatchID: result.BatchID,
			Reason:         "no login inside the retention window",
			Details: map[string]string{
				"marked_inactive": itoa(int(marked)),
				"cutoff":          cutoff.UTC().Format(time.RFC3339),
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
	for _, u := range expired {
		tr := j.rules.ForUser(u, now)
		if tr == nil {
			continue
		}
		ok, err := j.store.HardDelete(ctx, u.ID, now)
		if err != nil {
			return fail(err)
		}
		if !ok {
			continue
		}
		stats.HardDeletedUsers++
		details := map[string]string{}
		if u.SoftDeletedAt != nil {
			details["soft_deleted_at"] = u.SoftDeletedAt.UTC().Format(time.RFC3339)
		}
		if err := j.audit.Append(ctx, audit.Entry{
			EventType:      audit.EventUserCleanup,
			EntityType:     audit.EntityUser,
			EntityID:       u.ID.Hex(),
			EntityName:     u.Email,
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

	j.log.Info("user cleanup finished",
		zap.String("batch_id", result.BatchID),
		zap.Int("marked_inactive", stats.MarkedInactiveUsers),
		zap.Int("hard_deleted", stats.HardDeletedUsers))
	return result, nil
}
