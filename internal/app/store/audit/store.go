// internal/app/store/audit/store.go
package audit

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Event types (category of the change).
const (
	EventGroupCleanup        = "group_cleanup"
	EventResourceCleanup     = "resource_cleanup"
	EventConversationCleanup = "conversation_cleanup"
	EventUserCleanup         = "user_cleanup"
	EventGroupManagement     = "group_management"
)

// Entity types.
const (
	EntityGroup        = "group"
	EntityResource     = "resource"
	EntityConversation = "conversation"
	EntityUser         = "user"
)

// Actions.
const (
	ActionCreate        = "create"
	ActionSoftDelete    = "soft_delete"
	ActionHardDelete    = "hard_delete"
	ActionMarkInactive  = "mark_inactive"
	ActionMarkExpired   = "mark_expired"
	ActionCleanupFailed = "cleanup_failed"
)

// SourceSystemCleanup tags entries written by a scheduled cleanup batch
// rather than a human actor.
const SourceSystemCleanup = "system_cleanup"

// Initiator identifies who caused a lifecycle mutation: either a human
// (email + user id) or a system source tag.
type Initiator struct {
	Email  string `bson:"email,omitempty" json:"email,omitempty"`
	UserID string `bson:"user_id,omitempty" json:"user_id,omitempty"`
	Source string `bson:"source,omitempty" json:"source,omitempty"`
}

// System returns the initiator for scheduled cleanup work.
func System() Initiator {
	return Initiator{Source: SourceSystemCleanup}
}

// ByUser returns the initiator for a user-initiated action.
func ByUser(email, userID string) Initiator {
	return Initiator{Email: email, UserID: userID}
}

// Entry is one append-only audit record. Entries are never updated or
// deleted; the store deliberately exposes no mutation beyond insert.
type Entry struct {
	ID primitive.ObjectID `bson:"_id,omitempty" json:"id"`

	EventType  string `bson:"event_type" json:"event_type"`
	EntityType string `bson:"entity_type" json:"entity_type"`
	EntityID   string `bson:"entity_id" json:"entity_id"`
	// EntityName is optional, for operator readability.
	EntityName string `bson:"entity_name,omitempty" json:"entity_name,omitempty"`

	Action      string    `bson:"action" json:"action"`
	InitiatedBy Initiator `bson:"initiated_by" json:"initiated_by"`

	// RelatedBatchID correlates all entries from one cleanup run.
	RelatedBatchID string `bson:"related_batch_id,omitempty" json:"related_batch_id,omitempty"`

	// Reason is the human-readable policy justification.
	Reason string `bson:"reason,omitempty" json:"reason,omitempty"`

	// Details captures pre-mutation state relevant to the action.
	Details map[string]string `bson:"details,omitempty" json:"details,omitempty"`

	Timestamp time.Time `bson:"timestamp" json:"timestamp"`
}

// Store manages the audit_log collection.
type Store struct {
	c *mongo.Collection
}

func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection("audit_log")}
}

// EnsureIndexes creates the indexes the audit queries rely on.
func (s *Store) EnsureIndexes(ctx context.Context) error {
	indexes := []mongo.IndexModel{
		// Most recent first
		{
			Keys: bson.D{{Key: "timestamp", Value: -1}},
		},
		// All entries from one cleanup batch
		{
			Keys: bson.D{
				{Key: "related_batch_id", Value: 1},
				{Key: "timestamp", Value: -1},
			},
		},
		// History of one entity
		{
			Keys: bson.D{
				{Key: "entity_type", Value: 1},
				{Key: "entity_id", Value: 1},
				{Key: "timestamp", Value: -1},
			},
		},
	}
	_, err := s.c.Indexes().CreateMany(ctx, indexes)
	return err
}

// Append records one audit entry.
func (s *Store) Append(ctx context.Context, e Entry) error {
	if e.ID.IsZero() {
		e.ID = primitive.NewObjectID()
	}
	if e.Timestamp.IsZero() {
		e.Timestamp = time.Now().UTC()
	}
	_, err := s.c.InsertOne(ctx, e)
	return err
}

// FindByBatch returns every entry written by one cleanup batch, oldest
// first.
func (s *Store) FindByBatch(ctx context.Context, batchID string) ([]Entry, error) {
	cursor, err := s.c.Find(ctx,
		bson.M{"related_batch_id": batchID},
		options.Find().SetSort(bson.D{{Key: "timestamp", Value: 1}}),
	)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var entries []Entry
	if err := cursor.All(ctx, &entries); err != nil {
		return nil, err
	}
	return entries, nil
}

// CountByBatch returns how many entries one batch wrote.
func (s *Store) CountByBatch(ctx context.Context, batchID string) (int64, error) {
	return s.c.CountDocuments(ctx, bson.M{"related_batch_id": batchID})
}

// FindByEntity returns the lifecycle history of one entity, oldest first.
func (s *Store) FindByEntity(ctx context.Context, entityType, entityID string) ([]Entry, error) {
	cursor, err := s.c.Find(ctx,
		bson.M{"entity_type": entityType, "entity_id": entityID},
		options.Find().SetSort(bson.D{{Key: "timestamp", Value: 1}}),
	)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var entries []Entry
	if err := cursor.All(ctx, &entries); err != nil {
		return nil, err
	}
	return entries, nil
}
