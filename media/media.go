// Package media resolves image assets and generates the crops used by the
// recipe card and structured data.
package media

import (
	"context"
	"errors"
	"fmt"

	"recipepress/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Resolver looks up a media asset. Unknown IDs wrap models.ErrNotFound.
type Resolver interface {
	Resolve(ctx context.Context, mediaID int64) (*models.MediaAsset, error)
}

// Store is the Resolver the upload handler writes through.
type Store interface {
	Resolver
	Save(ctx context.Context, m models.MediaAsset) error
	NextID(ctx context.Context) (int64, error)
}

type MongoStore struct {
	Coll *mongo.Collection
}

func NewMongoStore(coll *mongo.Collection) *MongoStore {
	return &MongoStore{Coll: coll}
}

func (s *MongoStore) Resolve(ctx context.Context, mediaID int64) (*models.MediaAsset, error) {
	var m models.MediaAsset
	err := s.Coll.FindOne(ctx, bson.M{"media_id": mediaID}).Decode(&m)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, fmt.Errorf("media %d: %w", mediaID, models.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("media %d: %w", mediaID, err)
	}
	return &m, nil
}

func (s *MongoStore) Save(ctx context.Context, m models.MediaAsset) error {
	_, err := s.Coll.ReplaceOne(ctx, bson.M{"media_id": m.ID}, m, options.Replace().SetUpsert(true))
	return err
}

// NextID returns one more than the highest stored media ID.
func (s *MongoStore) NextID(ctx context.Context) (int64, error) {
	opts := options.FindOne().SetSort(bson.D{{Key: "media_id", Value: -1}})
	var last models.MediaAsset
	err := s.Coll.FindOne(ctx, bson.M{}, opts).Decode(&last)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return 1, nil
	}
	if err != nil {
		return 0, err
	}
	return last.ID + 1, nil
}
