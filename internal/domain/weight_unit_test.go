package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestToKilograms(t *testing.T) {
	assert.Equal(t, 60.0, ToKilograms(60, UnitKilograms))
	assert.Equal(t, 45.36, ToKilograms(100, UnitPounds))
	assert.Equal(t, 22.5, ToKilograms(22.499, UnitKilograms))
}

func TestConvertWeight(t *testing.T) {
	tests := []struct {
		name     string
		weight   float64
		from, to string
		want     float64
	}{
		{"same unit", 61.234, UnitKilograms, UnitKilograms, 61.234},
		{"kg to lbs", 60, UnitKilograms, UnitPounds, 132.28},
		{"lbs to kg", 135, UnitPounds, UnitKilograms, 61.23},
		{"unknown unit", 50, "stone", UnitKilograms, 50},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ConvertWeight(tt.weight, tt.from, tt.to))
		})
	}
	assert.True(t, ValidUnit(UnitPounds))
	assert.False(t, ValidUnit("LB"))
}
