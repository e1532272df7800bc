package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/mansoorceksport/repflow/internal/domain"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// MongoWorkoutDefinitionRepository reads workout definitions owned by the catalog service
type MongoWorkoutDefinitionRepository struct {
	collection *mongo.Collection
}

func NewMongoWorkoutDefinitionRepository(db *mongo.Database) *MongoWorkoutDefinitionRepository {
	return &MongoWorkoutDefinitionRepository{
		collection: db.Collection("workout_definitions"),
	}
}

// GetByID accepts either a MongoDB ObjectID hex string or a plain string id
func (r *MongoWorkoutDefinitionRepository) GetByID(ctx context.Context, id string) (*domain.WorkoutDefinition, error) {
	var filter bson.M
	if oid, err := primitive.ObjectIDFromHex(id); err == nil {
		filter = bson.M{"_id": oid}
	} else {
		filter = bson.M{"_id": id}
	}

	var def domain.WorkoutDefinition
	err := r.collection.FindOne(ctx, filter).Decode(&def)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrWorkoutNotFound
		}
		return nil, fmt.Errorf("failed to get workout definition: %w", err)
	}
	return &def, nil
}

// Upsert replaces the definition with the same id, inserting it when absent
func (r *MongoWorkoutDefinitionRepository) Upsert(ctx context.Context, def *domain.WorkoutDefinition) error {
	if def.ID == "" {
		return fmt.Errorf("workout definition id is required")
	}
	opts := options.Replace().SetUpsert(true)
	if _, err := r.collection.ReplaceOne(ctx, bson.M{"_id": def.ID}, def, opts); err != nil {
		return fmt.Errorf("failed to upsert workout definition: %w", err)
	}
	return nil
}
