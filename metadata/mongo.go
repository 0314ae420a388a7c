package metadata

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type metaDoc struct {
	PostID int64  `bson:"post_id"`
	Key    string `bson:"meta_key"`
	Value  string `bson:"meta_value"`
}

// MongoStore keeps one document per (post_id, meta_key).
type MongoStore struct {
	Coll *mongo.Collection
}

func NewMongoStore(coll *mongo.Collection) *MongoStore {
	return &MongoStore{Coll: coll}
}

func (s *MongoStore) AllMeta(ctx context.Context, postID int64) (map[string]string, error) {
	cursor, err := s.Coll.Find(ctx, bson.M{"post_id": postID})
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	out := make(map[string]string)
	for cursor.Next(ctx) {
		var d metaDoc
		if err := cursor.Decode(&d); err != nil {
			return nil, fmt.Errorf("decode meta: %w", err)
		}
		out[d.Key] = d.Value
	}
	return out, cursor.Err()
}

func (s *MongoStore) UpdateMeta(ctx context.Context, postID int64, key, value string) error {
	filter := bson.M{"post_id": postID, "meta_key": key}
	update := bson.M{"$set": bson.M{"meta_value": value}}
	_, err := s.Coll.UpdateOne(ctx, filter, update, options.Update().SetUpsert(true))
	return err
}

func (s *MongoStore) DeleteMeta(ctx context.Context, postID int64, key string) error {
	_, err := s.Coll.DeleteOne(ctx, bson.M{"post_id": postID, "meta_key": key})
	return err
}
