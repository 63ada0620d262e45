package parcel

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"parcel-track-api-server/internal/database"
	"parcel-track-api-server/internal/models"
)

// store is the persistence surface the repository runs on. The mongo
// implementation below is the real one; tests provide an in-memory fake.
type store interface {
	insert(ctx context.Context, p models.Parcel) (primitive.ObjectID, error)
	findByOwner(ctx context.Context, userID string) ([]models.Parcel, error)
	findOne(ctx context.Context, id primitive.ObjectID, userID string) (*models.Parcel, error)
	// applyStatus sets the status and appends the history entry in one
	// write, matching only when the stored status differs from
	// entry.Status. matched=false means the parcel is gone or already
	// carries that status.
	applyStatus(ctx context.Context, id primitive.ObjectID, entry models.StatusEntry, updatedAt time.Time) (matched bool, err error)
	pushPhoto(ctx context.Context, id primitive.ObjectID, userID, url string, updatedAt time.Time) (matched bool, err error)
}

type mongoStore struct {
	coll *mongo.Collection
}

func newMongoStore(db *mongo.Database) *mongoStore {
	return &mongoStore{coll: db.Collection(database.ParcelsCollection)}
}

func (s *mongoStore) insert(ctx context.Context, p models.Parcel) (primitive.ObjectID, error) {
	result, err := s.coll.InsertOne(ctx, p)
	if err != nil {
		return primitive.NilObjectID, database.TranslateError(err, "failed to create parcel")
	}
	oid, _ := result.InsertedID.(primitive.ObjectID)
	return oid, nil
}

func (s *mongoStore) findByOwner(ctx context.Context, userID string) ([]models.Parcel, error) {
	cursor, err := s.coll.Find(ctx, bson.M{"userId": userID})
	if err != nil {
		return nil, database.TranslateError(err, "failed to query parcels")
	}
	defer cursor.Close(ctx)

	var parcels []models.Parcel
	if err = cursor.All(ctx, &parcels); err != nil {
		return nil, database.TranslateError(err, "failed to decode parcels")
	}
	return parcels, nil
}

func (s *mongoStore) findOne(ctx context.Context, id primitive.ObjectID, userID string) (*models.Parcel, error) {
	var p models.Parcel
	err := s.coll.FindOne(ctx, bson.M{"_id": id, "userId": userID}).Decode(&p)
	if err != nil {
		return nil, database.TranslateError(err, "parcel not found")
	}
	return &p, nil
}

func (s *mongoStore) applyStatus(ctx context.Context, id primitive.ObjectID, entry models.StatusEntry, updatedAt time.Time) (bool, error) {
	// The status filter guards against a concurrent writer having already
	// applied the same status between the caller's read and this write;
	// without it a lost race would append a duplicate history entry.
	result, err := s.coll.UpdateOne(ctx,
		bson.M{"_id": id, "status": bson.M{"$ne": entry.Status}},
		bson.M{
			"$set":  bson.M{"status": entry.Status, "updatedAt": updatedAt},
			"$push": bson.M{"statusHistory": entry},
		},
	)
	if err != nil {
		return false, database.TranslateError(err, "failed to update parcel status")
	}
	return result.MatchedCount > 0, nil
}

func (s *mongoStore) pushPhoto(ctx context.Context, id primitive.ObjectID, userID, url string, updatedAt time.Time) (bool, error) {
	result, err := s.coll.UpdateOne(ctx,
		bson.M{"_id": id, "userId": userID},
		bson.M{
			"$push": bson.M{"photos": url},
			"$set":  bson.M{"updatedAt": updatedAt},
		},
	)
	if err != nil {
		return false, database.TranslateError(err, "failed to attach photo")
	}
	return result.MatchedCount > 0, nil
}
