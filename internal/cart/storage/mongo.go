package storage

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type MongoSlot struct {
	collection *mongo.Collection
	key        string
}

func NewMongoSlot(db *mongo.Database, sessionID string) *MongoSlot {
	return &MongoSlot{
		collection: db.Collection("cart_snapshots"),
		key:        Key(sessionID),
	}
}

type snapshotDoc struct {
	ID        string    `bson:"_id"`
	State     []byte    `bson:"state"`
	UpdatedAt time.Time `bson:"updated_at"`
}

func (s *MongoSlot) Load(ctx context.Context) ([]byte, error) {
	var doc snapshotDoc
	err := s.collection.FindOne(ctx, bson.M{"_id": s.key}).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrNoSnapshot
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load cart snapshot: %w", err)
	}
	return doc.State, nil
}

func (s *MongoSlot) Save(ctx context.Context, data []byte) error {
	update := bson.M{"$set": bson.M{
		"state":      data,
		"updated_at": time.Now(),
	}}
	opts := options.Update().SetUpsert(true)

	if _, err := s.collection.UpdateOne(ctx, bson.M{"_id": s.key}, update, opts); err != nil {
		return fmt.Errorf("failed to save cart snapshot: %w", err)
	}
	return nil
}

// EnsureIndexes sets a TTL on snapshots so abandoned carts age out the same
// way the redis backend does.
func EnsureIndexes(ctx context.Context, db *mongo.Database) error {
	index := mongo.IndexModel{
		Keys:    bson.D{{Key: "updated_at", Value: 1}},
		Options: options.Index().SetExpireAfterSeconds(90 * 24 * 60 * 60),
	}

	if _, err := db.Collection("cart_snapshots").Indexes().CreateOne(ctx, index); err != nil {
		return fmt.Errorf("failed to create snapshot indexes: %w", err)
	}
	return nil
}
