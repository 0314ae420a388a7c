package comments

import (
	"context"
	"errors"
	"fmt"

	"recipepress/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Store persists recipe comments. Lookups of unknown IDs wrap
// models.ErrNotFound.
type Store interface {
	Create(ctx context.Context, c models.Comment) error
	Get(ctx context.Context, id string) (*models.Comment, error)
	Update(ctx context.Context, c models.Comment) error
	Delete(ctx context.Context, id string) error
	ListByPost(ctx context.Context, postID int64, includePending bool) ([]models.Comment, error)
	ApprovedComments(ctx context.Context, postID int64) ([]models.Comment, error)
}

type MongoStore struct {
	Coll *mongo.Collection
}

func NewMongoStore(coll *mongo.Collection) *MongoStore {
	return &MongoStore{Coll: coll}
}

func (s *MongoStore) Create(ctx context.Context, c models.Comment) error {
	_, err := s.Coll.InsertOne(ctx, c)
	return err
}

func (s *MongoStore) Get(ctx context.Context, id string) (*models.Comment, error) {
	var c models.Comment
	err := s.Coll.FindOne(ctx, bson.M{"commentid": id}).Decode(&c)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, fmt.Errorf("comment %s: %w", id, models.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("comment %s: %w", id, err)
	}
	return &c, nil
}

func (s *MongoStore) Update(ctx context.Context, c models.Comment) error {
	update := bson.M{"$set": bson.M{
		"content":    c.Content,
		"rating":     c.Rating,
		"approved":   c.Approved,
		"updated_at": c.UpdatedAt,
	}}
	res, err := s.Coll.UpdateOne(ctx, bson.M{"commentid": c.ID}, update)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return fmt.Errorf("comment %s: %w", c.ID, models.ErrNotFound)
	}
	return nil
}

func (s *MongoStore) Delete(ctx context.Context, id string) error {
	res, err := s.Coll.DeleteOne(ctx, bson.M{"commentid": id})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return fmt.Errorf("comment %s: %w", id, models.ErrNotFound)
	}
	return nil
}

func (s *MongoStore) ListByPost(ctx context.Context, postID int64, includePending bool) ([]models.Comment, error) {
	filter := bson.M{"post_id": postID}
	if !includePending {
		filter["approved"] = true
	}
	return s.find(ctx, filter)
}

// ApprovedComments lists the approved comments oldest first.
func (s *MongoStore) ApprovedComments(ctx context.Context, postID int64) ([]models.Comment, error) {
	return s.find(ctx, bson.M{"post_id": postID, "approved": true})
}

func (s *MongoStore) find(ctx context.Context, filter bson.M) ([]models.Comment, error) {
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: 1}, {Key: "commentid", Value: 1}})
	cursor, err := s.Coll.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	out := []models.Comment{}
	if err := cursor.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}
