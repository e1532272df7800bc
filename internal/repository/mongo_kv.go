package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/mansoorceksport/repflow/internal/domain"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type kvDocument struct {
	Key       string     `bson:"_id"`
	Value     string     `bson:"value"`
	ExpiresAt *time.Time `bson:"expires_at,omitempty"`
	UpdatedAt time.Time  `bson:"updated_at"`
}

// MongoKVStore implements domain.KVStore on a MongoDB collection.
// Used for long-lived performance records.
type MongoKVStore struct {
	collection *mongo.Collection
}

func NewMongoKVStore(db *mongo.Database) *MongoKVStore {
	return &MongoKVStore{
		collection: db.Collection("kv_entries"),
	}
}

// EnsureIndexes creates the TTL index that expires entries written with a TTL
func (r *MongoKVStore) EnsureIndexes(ctx context.Context) error {
	_, err := r.collection.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "expires_at", Value: 1}},
		Options: options.Index().SetExpireAfterSeconds(0),
	})
	if err != nil {
		return fmt.Errorf("failed to create kv ttl index: %w", err)
	}
	return nil
}

func (r *MongoKVStore) Get(ctx context.Context, key string) (string, error) {
	var doc kvDocument
	err := r.collection.FindOne(ctx, bson.M{"_id": key}).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return "", domain.ErrNotFound
		}
		return "", fmt.Errorf("failed to get kv entry: %w", err)
	}
	// the TTL monitor runs once a minute, so expired entries may still be present
	if doc.ExpiresAt != nil && time.Now().After(*doc.ExpiresAt) {
		return "", domain.ErrNotFound
	}
	return doc.Value, nil
}

// Set replaces the whole entry (full-value write, never merged)
func (r *MongoKVStore) Set(ctx context.Context, key string, value string, ttl time.Duration) error {
	now := time.Now()
	doc := kvDocument{Key: key, Value: value, UpdatedAt: now}
	if ttl > 0 {
		exp := now.Add(ttl)
		doc.ExpiresAt = &exp
	}

	_, err := r.collection.ReplaceOne(ctx, bson.M{"_id": key}, doc, options.Replace().SetUpsert(true))
	if err != nil {
		return fmt.Errorf("failed to set kv entry: %w", err)
	}
	return nil
}

func (r *MongoKVStore) Delete(ctx context.Context, key string) error {
	if _, err := r.collection.DeleteOne(ctx, bson.M{"_id": key}); err != nil {
		return fmt.Errorf("failed to delete kv entry: %w", err)
	}
	return nil
}
