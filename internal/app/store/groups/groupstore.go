// internal/app/store/groups/groupstore.go
package groupstore

import (
	"context"
	"errors"
	"time"

	wafflemongo "github.com/dalemusser/waffle/pantry/mongo"
	"github.com/harborware/harborhub/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type Store struct {
	c *mongo.Collection
}

var ErrDuplicateGroupName = errors.New("a group with this name already exists")

func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection("groups")}
}

func (s *Store) GetByID(ctx context.Context, id primitive.ObjectID) (models.Group, error) {
	var g models.Group
	if err := s.c.FindOne(ctx, bson.M{"_id": id}).Decode(&g); err != nil {
		return models.Group{}, err
	}
	return g, nil
}

// Insert stores a group already materialized by models.NewGroup. The store
// does not fill defaults; derived fields belong to the constructor.
func (s *Store) Insert(ctx context.Context, g models.Group) error {
	if _, err := s.c.InsertOne(ctx, g); err != nil {
		if wafflemongo.IsDup(err) {
			return ErrDuplicateGroupName
		}
		return err
	}
	return nil
}

// FindExpiryCandidates returns active groups whose fixed expires_at lies
// strictly before now. Groups already expired or deleted are excluded, which
// keeps the expiry job idempotent.
func (s *Store) FindExpiryCandidates(ctx context.Context, now time.Time) ([]models.Group, error) {
	cursor, err := s.c.Find(ctx,
		bson.M{
			"status":     models.GroupActive,
			"expires_at": bson.M{"$lt": now},
		},
		options.Find().SetSort(bson.D{{Key: "expires_at", Value: 1}}),
	)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var groups []models.Group
	if err := cursor.All(ctx, &groups); err != nil {
		return nil, err
	}
	return groups, nil
}

// MarkExpired transitions one group from active to expired. The filter
// re-checks the current status so a concurrent or replayed run is a no-op;
// the returned flag reports whether this call performed the transition.
func (s *Store) MarkExpired(ctx context.Context, id primitive.ObjectID) (bool, error) {
	res, err := s.c.UpdateOne(ctx,
		bson.M{"_id": id, "status": models.GroupActive},
		bson.M{"$set": bson.M{"status": models.GroupExpired}},
	)
	if err != nil {
		return false, err
	}
	return res.ModifiedCount > 0, nil
}

// SoftDelete marks a group soft-deleted with the given timestamp. Active and
// expired groups are both eligible; already-deleted groups are left alone.
func (s *Store) SoftDelete(ctx context.Context, id primitive.ObjectID, at time.Time) (bool, error) {
	res, err := s.c.UpdateOne(ctx,
		bson.M{
			"_id":    id,
			"status": bson.M{"$in": bson.A{models.GroupActive, models.GroupExpired}},
		},
		bson.M{"$set": bson.M{
			"status":          models.GroupSoftDeleted,
			"soft_deleted_at": at,
		}},
	)
	if err != nil {
		return false, err
	}
	return res.ModifiedCount > 0, nil
}
