package db

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

var (
	PostsCollection         *mongo.Collection
	PostMetaCollection      *mongo.Collection
	TermsCollection         *mongo.Collection
	TermRelationsCollection *mongo.Collection
	MediaCollection         *mongo.Collection
	CommentsCollection      *mongo.Collection
	OptionsCollection       *mongo.Collection
	Client                  *mongo.Client
)

// Connect opens the MongoDB client and binds the collections.
func Connect(ctx context.Context, uri, database string) error {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	clientOptions := options.Client().ApplyURI(uri)
	client, err := mongo.Connect(ctx, clientOptions)
	if err != nil {
		return fmt.Errorf("failed to connect to MongoDB: %w", err)
	}
	if err := client.Ping(ctx, nil); err != nil {
		return fmt.Errorf("failed to ping MongoDB: %w", err)
	}
	Client = client

	d := client.Database(database)
	PostsCollection = d.Collection("posts")
	PostMetaCollection = d.Collection("postmeta")
	TermsCollection = d.Collection("terms")
	TermRelationsCollection = d.Collection("term_relationships")
	MediaCollection = d.Collection("media")
	CommentsCollection = d.Collection("comments")
	OptionsCollection = d.Collection("options")
	return nil
}

// CreateIndexes sets up the lookups the stores rely on.
func CreateIndexes(ctx context.Context) error {
	idx := []struct {
		coll *mongo.Collection
		keys bson.D
		uniq bool
	}{
		{PostsCollection, bson.D{{Key: "post_id", Value: 1}}, true},
		{PostMetaCollection, bson.D{{Key: "post_id", Value: 1}, {Key: "meta_key", Value: 1}}, true},
		{TermsCollection, bson.D{{Key: "term_id", Value: 1}}, true},
		{TermsCollection, bson.D{{Key: "taxonomy", Value: 1}, {Key: "slug", Value: 1}}, false},
		{TermRelationsCollection, bson.D{{Key: "post_id", Value: 1}, {Key: "taxonomy", Value: 1}}, false},
		{MediaCollection, bson.D{{Key: "media_id", Value: 1}}, true},
		{CommentsCollection, bson.D{{Key: "post_id", Value: 1}, {Key: "approved", Value: 1}}, false},
		{CommentsCollection, bson.D{{Key: "commentid", Value: 1}}, true},
	}
	for _, i := range idx {
		model := mongo.IndexModel{Keys: i.keys, Options: options.Index().SetUnique(i.uniq)}
		if _, err := i.coll.Indexes().CreateOne(ctx, model); err != nil {
			return fmt.Errorf("create index on %s: %w", i.coll.Name(), err)
		}
	}
	return nil
}

func Disconnect(ctx context.Context) error {
	if Client == nil {
		return nil
	}
	return Client.Disconnect(ctx)
}
