// internal/app/jobs/conversations.go

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

// conversationStore is the slice of the conversation store this job touches.
type conversationStore interface {
	FindRetentionCandidates(ctx context.Context, cutoff time.Time) ([]models.Conversation, error)
	FindGraceExpired(ctx context.Context, cutoff time.Time) ([]models.Conversation, error)
	SoftDelete(ctx context.Context, id primitive.ObjectID, at time.Time) (bool, error)
	HardDelete(ctx context.Context, id primitive.ObjectID, at time.Time) (bool, error)
}

// ConversationStats counts the transitions applied by one conversation
// cleanup run.
type ConversationStats struct {
	SoftDeletedConversations int `json:"softDeletedConversations"`
	HardDeletedConversations int `json:"hardDeletedConversations"`
}

func (s *ConversationStats) Details() map[string]string {
	return map[string]string{
		"soft_deleted_conversations": itoa(s.SoftDeletedConversations),
		"hard_deleted_conversations": itoa(s.HardDeletedConversations),
	}
}

// Conversations soft-deletes idle personal chats and hard-deletes
// soft-deleted conversations past the grace period. Group chats are never
// aged out by activity; they only leave through group deletion.
type Conversations struct {
	store conversationStore
	audit *auditlog.Logger
	rules retention.Rules
	log   *zap.Logger
}

func NewConversations(store conversationStore, auditLog *auditlog.Logger, rules retention.Rules, log *zap.Logger) *Conversations {
	return &Conversations{store: store, audit: auditLog, rules: rules, log: log}
}

func (j *Conversations) Run(ctx context.Context, now time.Time) (BatchResult, error) {
	stats := &ConversationStats{}
	result := BatchResult{BatchID: newBatchID(), Stats: stats, Timestamp: now}

	fail := func(err error) (BatchResult, error) {
		j.log.Error("conversation cleanup aborted",
			zap.String("batch_id", result.BatchID), zap.Error(err))
		recordFailure(ctx, j.audit, audit.EventConversationCleanup, audit.EntityConversation, result.BatchID, stats, err)
		return result, err
	}

	candidates, err := j.store.FindRetentionCandidates(ctx, now.Add(-j.rules.RetentionWindow))
	if err != nil {
		return fail(err)
	}
	for _, conv := range candidates {
		tr := j.rules.ForConversation(conv, now)
		if tr == nil {
			continue
		}
		ok, err := j.store.SoftDelete(ctx, conv.ID, now)
		if err != nil {
			return fail(err)
		}
		if !ok {
			continue
		}
		stats.SoftDeletedConversations++
		if err := j.audit.Append(ctx, audit.Entry{
			EventType:      audit.EventConversationCleanup,
			EntityType:     audit.EntityConversation,
			EntityID:       conv.ID.Hex(),
			EntityName:     conv.Title,
			Action:         audit.ActionSoftDelete,
			InitiatedBy:    audit.System(),
			RelatedBatchID: result.BatchID,
			Reason:         tr.Reason,
			Details: map[string]string{
				"last_message_at": conv.LastMessageAt.UTC().Format(time.RFC3339),
				"message_count":   itoa(conv.MessageCount),
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
	for _, conv := range expired {
		tr := j.rules.ForConversation(conv, now)
		if tr == nil {
			continue
		}
		ok, err := j.store.HardDelete(ctx, conv.ID, now)
		if err != nil {
			return fail(err)
		}
		if !ok {
			continue
		}
		stats.HardDeletedConversations++
		details := map[string]string{}
		if conv.SoftDeletedAt != nil {
			details["soft_deleted_at"] = conv.SoftDeletedAt.UTC().Format(time.RFC3339)
		}
		if err := j.audit.Append(ctx, audit.Entry{
			EventType:      audit.EventConversationCleanup,
			EntityType:     audit.EntityConversation,
			EntityID:       conv.ID.Hex(),
			EntityName:     conv.Title,
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

	j.log.Info("conversation cleanup finished",
		zap.String("batch_id", result.BatchID),
		zap.Int("soft_deleted", stats.SoftDeletedConversations),
		zap.Int("hard_deleted", stats.HardDeletedConversations))
	return result, nil
}
