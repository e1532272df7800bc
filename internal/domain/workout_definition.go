package domain

import (
	"context"
	"strings"
)

// Movement classifications used to derive rest periods
const (
	MovementCompound  = "compound"
	MovementIsolation = "isolation"
)

// Default rest durations per movement classification
const (
	CompoundRestSeconds  = 90
	IsolationRestSeconds = 60
)

// isolationKeywords mark single-joint movements when the definition carries no classification
var isolationKeywords = []string{
	"curl", "raise", "extension", "fly", "flye", "kickback", "shrug",
	"pushdown", "face pull", "calf", "crunch", "pec deck", "adduct", "abduct",
}

// WorkoutDefinition is the external workout plan a session is built from
type WorkoutDefinition struct {
	ID           string                `json:"id" bson:"_id,omitempty"`
	Title        string                `json:"title" bson:"title"`
	SessionType  string                `json:"session_type" bson:"session_type"`
	AssignmentID string                `json:"assignment_id,omitempty" bson:"assignment_id,omitempty"`
	Exercises    []*DefinitionExercise `json:"exercises" bson:"exercises"`
}

// DefinitionExercise is one planned exercise with target sets/reps hints
type DefinitionExercise struct {
	ExerciseID  string `json:"exercise_id" bson:"exercise_id"`
	Name        string `json:"name" bson:"name"`
	MuscleGroup string `json:"muscle_group" bson:"muscle_group"` // e.g., "Legs", "Chest"
	Sets        int    `json:"sets" bson:"sets"`
	Reps        int    `json:"reps" bson:"reps"`
	Movement    string `json:"movement,omitempty" bson:"movement,omitempty"`         // compound or isolation
	RestSeconds int    `json:"rest_seconds,omitempty" bson:"rest_seconds,omitempty"` // explicit override
}

// Classification returns the movement type, inferring it from the name when unset
func (d *DefinitionExercise) Classification() string {
	switch strings.ToLower(d.Movement) {
	case MovementIsolation:
		return MovementIsolation
	case MovementCompound:
		return MovementCompound
	}
	name := strings.ToLower(d.Name)
	for _, kw := range isolationKeywords {
		if strings.Contains(name, kw) {
			return MovementIsolation
		}
	}
	return MovementCompound
}

// RestDuration returns the rest in seconds used after each completed set
func (d *DefinitionExercise) RestDuration() int {
	if d.RestSeconds > 0 {
		return d.RestSeconds
	}
	if d.Classification() == MovementIsolation {
		return IsolationRestSeconds
	}
	return CompoundRestSeconds
}

// WorkoutDefinitionRepository fetches workout definitions by id
type WorkoutDefinitionRepository interface {
	GetByID(ctx context.Context, id string) (*WorkoutDefinition, error)
}
