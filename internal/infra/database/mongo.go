package database

import (
	"context"
	"time"

	"github.com/pkg/errors"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/x/mongo/driver/connstring"
)

const (
	DefaultMongoDatabase = "mydatabase"

	ItemsCollection       = "items"
	TagsCollection        = "tags"
	AssociationCollection = "item_tags"
)

// NewMongo connects to the deployment named by uri and returns the database
// selected by the uri path (DefaultMongoDatabase when the path is empty).
func NewMongo(ctx context.Context, uri string) (*mongo.Client, *mongo.Database, error) {
	cs, err := connstring.ParseAndValidate(uri)
	if err != nil {
		return nil, nil, errors.Wrap(err, "invalid mongo uri")
	}

	name := cs.Database
	if name == "" {
		name = DefaultMongoDatabase
	}

	client, err := mongo.Connect(ctx, options.Client().
		ApplyURI(uri).
		SetServerSelectionTimeout(10*time.Second))
	if err != nil {
		return nil, nil, errors.Wrap(err, "mongo.Connect failed")
	}

	return client, client.Database(name), nil
}

// EnsureMongoIndexes makes item_tags.item_id unique so concurrent first-time
// upserts for the same item converge on a single record.
func EnsureMongoIndexes(ctx context.Context, db *mongo.Database) error {
	_, err := db.Collection(AssociationCollection).Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "item_id", Value: 1}},
		Options: options.Index().SetUnique(true).SetName("uniq_item_id"),
	})
	return err
}
