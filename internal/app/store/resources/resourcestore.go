// internal/app/store/resources/resourcestore.go
package resourcestore

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
	return &Store{c: db.Collection("resources")}
}

func (s *Store) GetByID(ctx context.Context, id primitive.ObjectID) (models.Resource, error) {
	var r models.Resource
	if err := s.c.FindOne(ctx, bson.M{"_id": id}).Decode(&r); err != nil {
		return models.Resource{}, err
	}
	return r, nil
}

func (s *Store) Insert(ctx context.Context, r models.Resource) error {
	_, err := s.c.InsertOne(ctx, r)
	return err
}

// FindRetentionCandidates returns active personal-chat resources uploaded
// strictly before the cutoff. Rows already soft- or hard-deleted never match,
// so re-running a batch selects nothing new.
func (s *Store) FindRetentionCandidates(ctx context.Context, cutoff time.Time) ([]models.Resource, error) {
	return s.find(ctx, bson.M{
		"upload_type": models.UploadPersonalChat,
		"status":      models.ResourceActive,
		"uploaded_at": bson.M{"$lt": cutoff},
	})
}

// FindGraceExpired returns soft-deleted resources whose grace period ended
// strictly before the cutoff.
func (s *Store) FindGraceExpired(ctx context.Context, cutoff time.Time) ([]models.Resource, error) {
	return s.find(ctx, bson.M{
		"status":          models.ResourceSoftDeleted,
		"soft_deleted_at": bson.M{"$lt": cutoff},
	})
}

func (s *Store) find(ctx context.Context, filter bson.M) ([]models.Resource, error) {
	cursor, err := s.c.Find(ctx, filter, options.Find().SetSort(bson.D{{Key: "uploaded_at", Value: 1}}))
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var resources []models.Resource
	if err := cursor.All(ctx, &resources); err != nil {
		return nil, err
	}
	return resources, nil
}

// SoftDelete transitions one resource from Active to SoftDeleted. The status
// filter makes replays and concurrent runs no-ops.
func (s *Store) SoftDelete(ctx context.Context, id primitive.ObjectID, at time.Time) (bool, error) {
	res, err := s.c.UpdateOne(ctx,
		bson.M{"_id": id, "status": models.ResourceActive},
		bson.M{"$set": bson.M{
			"status":          models.ResourceSoftDeleted,
			"soft_deleted_at": at,
		}},
	)
	if err != nil {
		return false, err
	}
	return res.ModifiedCount > 0, nil
}

// HardDelete transitions one resource from SoftDeleted to HardDeleted. The
// document is retained; removal of the underlying blob happens below this
// layer.
func (s *Store) HardDelete(ctx context.Context, id primitive.ObjectID, at time.Time) (bool, error) {
	res, err := s.c.UpdateOne(ctx,
		bson.M{"_id": id, "status": models.ResourceSoftDeleted},
		bson.M{"$set": bson.M{
			"status":          models.ResourceHardDeleted,
			"hard_deleted_at": at,
		}},
	)
	if err != nil {
		return false, err
	}
	return res.ModifiedCount > 0, nil
}

// SoftDeleteByGroup soft-deletes every Active resource belonging to the
// group, stamping all of them with the same timestamp. Returns the number of
// resources transitioned.
func (s *Store) SoftDeleteByGroup(ctx context.Context, groupID primitive.ObjectID, at time.Time) (int64, error) {
	res, err := s.c.UpdateMany(ctx,
		bson.M{"group_id": groupID, "status": models.ResourceActive},
		bson.M{"$set": bson.M{
			"status":          models.ResourceSoftDeleted,
			"soft_deleted_at": at,
		}},
	)
	if err != nil {
		return 0, err
	}
	return res.ModifiedCount, nil
}

// CountByGroup returns how many non-deleted resources a group currently has.
func (s *Store) CountByGroup(ctx context.Context, groupID primitive.ObjectID) (int64, error) {
	return s.c.CountDocuments(ctx, bson.M{
		"group_id": groupID,
		"status":   bson.M{"$in": bson.A{models.ResourceActive, models.ResourceInactive}},
	})
}
