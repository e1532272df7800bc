package main

import (
	"context"
	"time"

	"github.com/mansoorceksport/repflow/internal/config"
	"github.com/mansoorceksport/repflow/internal/domain"
	"github.com/mansoorceksport/repflow/internal/repository"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const redisKeyPrefix = "repflow:"

type seedExercise struct {
	Name        string
	MuscleGroup string
	Sets        int
	Reps        int
}

// definitions seeds a handful of self-tracked plans for local development
var definitions = []struct {
	ID        string
	Title     string
	Exercises []seedExercise
}{
	{
		ID:    "upper-body",
		Title: "Upper Body",
		Exercises: []seedExercise{
			{"Barbell Bench Press", "Chest", 4, 8},
			{"Overhead Press", "Shoulders", 3, 8},
			{"Lat Pulldown", "Back", 3, 10},
			{"Barbell Row", "Back", 3, 10},
			{"Barbell Curl", "Arms", 3, 12},
			{"Tricep Pushdown", "Arms", 3, 12},
		},
	},
	{
		ID:    "lower-body",
		Title: "Lower Body",
		Exercises: []seedExercise{
			{"Barbell Squat", "Legs", 4, 6},
			{"Romanian Deadlift", "Legs", 3, 8},
			{"Leg Press", "Legs", 3, 10},
			{"Walking Lunge", "Legs", 3, 12},
			{"Leg Extension", "Legs", 3, 12},
			{"Calf Raise", "Calves", 4, 15},
		},
	},
	{
		ID:    "full-body-beginner",
		Title: "Full Body - Beginner",
		Exercises: []seedExercise{
			{"Goblet Squat", "Legs", 3, 10},
			{"Push Up", "Chest", 3, 10},
			{"Seated Cable Row", "Back", 3, 10},
			{"Dumbbell Shoulder Press", "Shoulders", 3, 10},
		},
	},
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		logrus.Fatalf("Failed to load config: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.MongoDB.URI))
	if err != nil {
		logrus.Fatalf("Failed to connect to Mongo: %v", err)
	}
	defer client.Disconnect(ctx)

	repo := repository.NewMongoWorkoutDefinitionRepository(client.Database(cfg.MongoDB.Database))

	// Drop cached copies so running services pick up the new plans
	redisClient := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       int(cfg.Redis.DB),
	})
	defer redisClient.Close()
	cache := repository.NewCachedWorkoutDefinitionRepository(repo, repository.NewRedisKVStore(redisClient, redisKeyPrefix))

	for _, d := range definitions {
		def := &domain.WorkoutDefinition{
			ID:          d.ID,
			Title:       d.Title,
			SessionType: domain.SessionTypeIndependent,
		}
		for i, ex := range d.Exercises {
			def.Exercises = append(def.Exercises, &domain.DefinitionExercise{
				ExerciseID:  d.ID + "-" + string(rune('a'+i)),
				Name:        ex.Name,
				MuscleGroup: ex.MuscleGroup,
				Sets:        ex.Sets,
				Reps:        ex.Reps,
			})
		}

		if err := repo.Upsert(ctx, def); err != nil {
			logrus.Errorf("Error seeding workout %s: %v", d.ID, err)
			continue
		}
		if err := cache.Invalidate(ctx, d.ID); err != nil {
			logrus.Warnf("Failed to invalidate cached workout %s: %v", d.ID, err)
		}
		logrus.Infof("Seeded workout %s with %d exercises", d.Title, len(def.Exercises))
	}
}
