// Package posts stores the recipe content records.
package posts

import (
	"context"
	"errors"
	"fmt"

	"recipepress/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type Store interface {
	Get(ctx context.Context, id int64) (*models.RecipePost, error)
	Save(ctx context.Context, p models.RecipePost) error
}

type MongoStore struct {
	Coll *mongo.Collection
}

func NewMongoStore(coll *mongo.Collection) *MongoStore {
	return &MongoStore{Coll: coll}
}

func (s *MongoStore) Get(ctx context.Context, id int64) (*models.RecipePost, error) {
	var p models.RecipePost
	err := s.Coll.FindOne(ctx, bson.M{"post_id": id}).Decode(&p)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, fmt.Errorf("recipe %d: %w", id, models.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("recipe %d: %w", id, err)
	}
	return &p, nil
}

func (s *MongoStore) Save(ctx context.Context, p models.RecipePost) error {
	_, err := s.Coll.ReplaceOne(ctx, bson.M{"post_id": p.ID}, p, options.Replace().SetUpsert(true))
	return err
}
