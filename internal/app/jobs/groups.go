// internal/app/jobs/groups.go

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

// groupStore is the slice of the group store this job touches.
type groupStore interface {
	FindExpiryCandidates(ctx context.Context, now time.Time) ([]models.Group, error)
	MarkExpired(ctx context.Context, id primitive.ObjectID) (bool, error)
}

// GroupStats counts the transitions applied by one group cleanup run.
type GroupStats struct {
	ExpiredGroups int `json:"expiredGroups"`
}

func (s *GroupStats) Details() map[string]string {
	return map[string]string{
		"expired_groups": itoa(s.ExpiredGroups),
	}
}

// Groups marks active groups expired once their lifetime window closes.
// Expiry is a visibility state, not a deletion: an expired group keeps its
// members and children and leaves only through an explicit delete.
type Groups struct {
	store groupStore
	audit *auditlog.Logger
	rules retention.Rules
	log   *zap.Logger
}

func NewGroups(store groupStore, auditLog *auditlog.Logger, rules retention.Rules, log *zap.Logger) *Groups {
	return &Groups{store: store, audit: auditLog, rules: rules, log: log}
}

func (j *Groups) Run(ctx context.Context, now time.Time) (BatchResult, error) {
	stats := &GroupStats{}
	result := BatchResult{BatchID: newBatchID(), Stats: stats, Timestamp: now}

	fail := func(err error) (BatchResult, error) {
		j.log.Error("group cleanup aborted",
			zap.String("batch_id", result.BatchID), zap.Error(err))
		recordFailure(ctx, j.audit, audit.EventGroupCleanup, audit.EntityGroup, result.BatchID, stats, err)
		return result, err
	}

	candidates, err := j.store.FindExpiryCandidates(ctx, now)
	if err != nil {
		return fail(err)
	}
	for _, g := range candidates {
		tr := j.rules.ForGroup(g, now)
		if tr == nil {
			continue
		}
		ok, err := j.store.MarkExpired(ctx, g.ID)
		if err != nil {
			return fail(err)
		}
		if !ok {
			continue
		}
		stats.ExpiredGroups++
		if err := j.audit.Append(ctx, audit.Entry{
			EventType:      audit.EventGroupCleanup,
			EntityType:     audit.EntityGroup,
			EntityID:       g.ID.Hex(),
			EntityName:     g.Name,
			Action:         audit.ActionMarkExpired,
			InitiatedBy:    audit.System(),
			RelatedBatchID: result.BatchID,
			Reason:         tr.Reason,
			Details: map[string]string{
				"expires_at":   g.ExpiresAt.UTC().Format(time.RFC3339),
				"member_count": itoa(len(g.Members)),
			},
			Timestamp: now,
		}); err != nil {
			return fail(err)
		}
	}

	j.log.Info("group cleanup finished",
		zap.String("batch_id", result.BatchID),
		zap.Int("expired", stats.ExpiredGroups))
	return result, nil
}
