package db

import (
	"context"
	"fmt"
	"net/url"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// CardsCollection is the MongoDB collection holding card documents.
const CardsCollection = "cards"

// ConnectMongo connects to the database named in the uri path and makes sure
// the owner_id unique index exists.
func ConnectMongo(ctx context.Context, mongoURI string, maxConns int) (*mongo.Database, error) {
	uri, err := url.Parse(mongoURI)
	if err != nil {
		return nil, fmt.Errorf("parse mongodb uri: %w", err)
	}

	dbName := strings.TrimPrefix(uri.Path, "/")
	if dbName == "" {
		return nil, fmt.Errorf("mongodb uri must name a database")
	}

	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	opts := options.Client().ApplyURI(mongoURI).SetMaxPoolSize(uint64(maxConns))
	client, err := mongo.Connect(ctx, opts)
	if err != nil {
		return nil, fmt.Errorf("connect mongodb: %w", err)
	}

	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("ping mongodb: %w", err)
	}

	db := client.Database(dbName)
	if err := CreateUniqueIndex(ctx, db.Collection(CardsCollection), "owner_id"); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, err
	}

	return db, nil
}

func CreateUniqueIndex(ctx context.Context, collection *mongo.Collection, field string) error {
	indexModel := mongo.IndexModel{
		Keys:    bson.D{{Key: field, Value: 1}},
		Options: options.Index().SetUnique(true),
	}

	if _, err := collection.Indexes().CreateOne(ctx, indexModel); err != nil {
		return fmt.Errorf("create unique index on %s.%s: %w", collection.Name(), field, err)
	}
	return nil
}
