package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDefinitionExercise_RestDuration(t *testing.T) {
	tests := []struct {
		name     string
		exercise DefinitionExercise
		wantType string
		wantRest int
	}{
		{"compound by name", DefinitionExercise{Name: "Back Squat"}, MovementCompound, CompoundRestSeconds},
		{"isolation keyword", DefinitionExercise{Name: "Dumbbell Lateral Raise"}, MovementIsolation, IsolationRestSeconds},
		{"explicit classification wins", DefinitionExercise{Name: "Leg Curl", Movement: "Compound"}, MovementCompound, CompoundRestSeconds},
		{"explicit rest override", DefinitionExercise{Name: "Bench Press", RestSeconds: 150}, MovementCompound, 150},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.wantType, tt.exercise.Classification())
			assert.Equal(t, tt.wantRest, tt.exercise.RestDuration())
		})
	}
}
