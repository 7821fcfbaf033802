package store

import (
	"context"
	"errors"
	"time"

	"github.com/avvvet/card-registry/internal/cardsvc/db"
	"github.com/avvvet/card-registry/internal/cardsvc/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type cardDocument struct {
	ObjectID  primitive.ObjectID `bson:"_id,omitempty"`
	CardID    string             `bson:"card_id"`
	OwnerID   string             `bson:"owner_id"`
	Username  string             `bson:"username"`
	Revision  int64              `bson:"revision"`
	CreatedAt time.Time          `bson:"created_at"`
	UpdatedAt time.Time          `bson:"updated_at"`
}

func (d cardDocument) toCard() *models.Card {
	return &models.Card{
		ID:        d.CardID,
		OwnerID:   d.OwnerID,
		Username:  d.Username,
		Revision:  d.Revision,
		CreatedAt: d.CreatedAt,
		UpdatedAt: d.UpdatedAt,
	}
}

// MongoCardStore keeps one document per owner, guarded by a unique index on owner_id.
type MongoCardStore struct {
	cards *mongo.Collection
}

func NewMongoCardStore(database *mongo.Database) *MongoCardStore {
	return &MongoCardStore{cards: database.Collection(db.CardsCollection)}
}

// UpsertCard relies on the server retrying an upsert that loses the insert
// race on the owner_id unique index.
func (s *MongoCardStore) UpsertCard(ctx context.Context, ownerID, cardID, username string) (*models.Card, error) {
	now := time.Now().UTC()
	update := bson.M{
		"$set": bson.M{
			"card_id":    cardID,
			"username":   username,
			"updated_at": now,
		},
		"$inc":         bson.M{"revision": int64(1)},
		"$setOnInsert": bson.M{"created_at": now},
	}
	opts := options.FindOneAndUpdate().
		SetUpsert(true).
		SetReturnDocument(options.After)

	var doc cardDocument
	err := s.cards.FindOneAndUpdate(ctx, bson.M{"owner_id": ownerID}, update, opts).Decode(&doc)
	if err != nil {
		return nil, wrap("upsert card", err)
	}
	return doc.toCard(), nil
}

func (s *MongoCardStore) GetCard(ctx context.Context, ownerID string) (*models.Card, error) {
	var doc cardDocument
	err := s.cards.FindOne(ctx, bson.M{"owner_id": ownerID}).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, wrap("get card", err)
	}
	return doc.toCard(), nil
}

func (s *MongoCardStore) ListCards(ctx context.Context) ([]models.Card, error) {
	cursor, err := s.cards.Find(ctx, bson.M{}, options.Find().SetSort(bson.D{{Key: "_id", Value: 1}}))
	if err != nil {
		return nil, wrap("list cards", err)
	}
	defer cursor.Close(ctx)

	cards := []models.Card{}
	for cursor.Next(ctx) {
		var doc cardDocument
		if err := cursor.Decode(&doc); err != nil {
			return nil, wrap("decode card", err)
		}
		cards = append(cards, *doc.toCard())
	}
	if err := cursor.Err(); err != nil {
		return nil, wrap("list cards", err)
	}
	return cards, nil
}

func (s *MongoCardStore) Close() error {
	return s.cards.Database().Client().Disconnect(context.Background())
}
