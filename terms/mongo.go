package terms

import (
	"context"
	"errors"
	"fmt"

	"recipepress/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type MongoStore struct {
	Terms     *mongo.Collection
	Relations *mongo.Collection
}

func NewMongoStore(terms, relations *mongo.Collection) *MongoStore {
	return &MongoStore{Terms: terms, Relations: relations}
}

func (s *MongoStore) Resolve(ctx context.Context, termID int64) (*models.Term, error) {
	var t models.Term
	err := s.Terms.FindOne(ctx, bson.M{"term_id": termID}).Decode(&t)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, fmt.Errorf("term %d: %w", termID, models.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("term %d: %w", termID, err)
	}
	return &t, nil
}

func (s *MongoStore) TermsFor(ctx context.Context, postID int64, taxonomy string) ([]models.Term, error) {
	cursor, err := s.Relations.Find(ctx, bson.M{"post_id": postID, "taxonomy": taxonomy})
	if err != nil {
		return nil, err
	}
	var rels []models.TermRelationship
	if err := cursor.All(ctx, &rels); err != nil {
		return nil, err
	}
	if len(rels) == 0 {
		return nil, nil
	}

	ids := make([]int64, 0, len(rels))
	for _, r := range rels {
		ids = append(ids, r.TermID)
	}
	opts := options.Find().SetSort(bson.D{{Key: "name", Value: 1}})
	cursor, err = s.Terms.Find(ctx, bson.M{"term_id": bson.M{"$in": ids}, "taxonomy": taxonomy}, opts)
	if err != nil {
		return nil, err
	}
	var out []models.Term
	if err := cursor.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (s *MongoStore) List(ctx context.Context, taxonomy string) ([]models.Term, error) {
	opts := options.Find().SetSort(bson.D{{Key: "name", Value: 1}})
	cursor, err := s.Terms.Find(ctx, bson.M{"taxonomy": taxonomy}, opts)
	if err != nil {
		return nil, err
	}
	out := []models.Term{}
	if err := cursor.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (s *MongoStore) Save(ctx context.Context, term models.Term) error {
	_, err := s.Terms.ReplaceOne(ctx, bson.M{"term_id": term.ID}, term, options.Replace().SetUpsert(true))
	return err
}
