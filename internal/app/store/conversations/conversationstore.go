// internal/app/store/conversations/conversationstore.go
package conversationstore

import (
	"context"
	"time"

	"github.com/harborware/harborhub/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type Store struct {
	c *mongo.Collection
}

func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection("conversations")}
}

func (s *Store) GetByID(ctx context.Context, id primitive.ObjectID) (models.Conversation, error) {
	var c models.Conversation
	if err := s.c.FindOne(ctx, bson.M{"_id": id}).Decode(&c); err != nil {
		return models.Conversation{}, err
	}
	return c, nil
}

func (s *Store) Insert(ctx context.Context, c models.Conversation) error {
	_, err := s.c.InsertOne(ctx, c)
	return err
}

// FindRetentionCandidates returns active personal chats whose last message
// is strictly older than the cutoff.
func (s *Store) FindRetentionCandidates(ctx context.Context, cutoff time.Time) ([]models.Conversation, error) {
	return s.find(ctx, bson.M{
		"is_personal_chat": true,
		"status":           models.ConversationActive,
		"last_message_at":  bson.M{"$lt": cutoff},
	})
}

// FindGraceExpired returns soft-deleted conversations whose grace period
// ended strictly before the cutoff.
func (s *Store) FindGraceExpired(ctx context.Context, cutoff time.Time) ([]models.Conversation, error) {
	return s.find(ctx, bson.M{
		"status":          models.ConversationSoftDeleted,
		"soft_deleted_at": bson.M{"$lt": cutoff},
	})
}

func (s *Store) find(ctx context.Context, filter bson.M) ([]models.Conversation, error) {
	cursor, err := s.c.Find(ctx, filter, options.Find().SetSort(bson.D{{Key: "last_message_at", Value: 1}}))
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var conversations []models.Conversation
	if err := cursor.All(ctx, &conversations); err != nil {
		return nil, err
	}
	return conversations, nil
}

// SoftDelete transitions one conversation from active to soft_deleted.
func (s *Store) SoftDelete(ctx context.Context, id primitive.ObjectID, at time.Time) (bool, error) {
	res, err := s.c.UpdateOne(ctx,
		bson.M{"_id": id, "status": models.ConversationActive},
		bson.M{"$set": bson.M{
			"status":          models.ConversationSoftDeleted,
			"soft_deleted_at": at,
		}},
	)
	if err != nil {
		return false, err
	}
	return res.ModifiedCount > 0, nil
}

// HardDelete transitions one conversation from soft_deleted to hard_deleted.
func (s *Store) HardDelete(ctx context.Context, id primitive.ObjectID, at time.Time) (bool, error) {
	res, err := s.c.UpdateOne(ctx,
		bson.M{"_id": id, "status": models.ConversationSoftDeleted},
		bson.M{"$set": bson.M{
			"status":          models.ConversationHardDeleted,
			"hard_deleted_at": at,
		}},
	)
	if err != nil {
		return false, err
	}
	return res.ModifiedCount > 0, nil
}

// SoftDeleteByGroup soft-deletes every active conversation belonging to the
// group with one timestamp. Returns the number transitioned.
func (s *Store) SoftDeleteByGroup(ctx context.Context, groupID primitive.ObjectID, at time.Time) (int64, error) {
	res, err := s.c.UpdateMany(ctx,
		bson.M{"group_id": groupID, "status": models.ConversationActive},
		bson.M{"$set": bson.M{
			"status":          models.ConversationSoftDeleted,
			"soft_deleted_at": at,
		}},
	)
	if err != nil {
		return 0, err
	}
	return res.ModifiedCount, nil
}
