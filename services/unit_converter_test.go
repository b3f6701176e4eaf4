package services

import (
	"testing"

	"github.com/shakecraft/shake-app/models"
	"github.com/stretchr/testify/assert"
)

func f64(v float64) *float64 { return &v }

func TestGramsZeroAndNegativeAmounts(t *testing.T) {
	ing := &models.Ingredient{GramsPerUnit: f64(30)}
	assert.Equal(t, 0.0, Grams(0, "g", ing))
	assert.Equal(t, 0.0, Grams(-5, "scoop", ing))
	assert.Equal(t, 0.0, Grams(0, "ml", nil))
}

func TestGramsIdentity(t *testing.T) {
	assert.Equal(t, 250.0, Grams(250, "g", nil))
}

func TestGramsMilliliters(t *testing.T) {
	// No density declared: the default 1.03 g/ml applies.
	assert.InDelta(t, 103.0, Grams(100, "ml", &models.Ingredient{}), 1e-9)
	assert.InDelta(t, 103.0, Grams(100, "ml", nil), 1e-9)

	milk := &models.Ingredient{DensityGPerML: f64(1.04)}
	assert.InDelta(t, 104.0, Grams(100, "ml", milk), 1e-9)
}

func TestGramsDiscreteUnitPrecedence(t *testing.T) {
	tests := []struct {
		name   string
		amount float64
		unit   string
		ing    *models.Ingredient
		want   float64
	}{
		{"tbsp specific factor wins", 2, "tbsp", &models.Ingredient{GramsPerTbsp: f64(15), GramsPerUnit: f64(16)}, 30},
		{"tbsp falls back to grams_per_unit", 2, "tbsp", &models.Ingredient{GramsPerUnit: f64(16)}, 32},
		{"tbsp default", 2, "tbsp", &models.Ingredient{}, 24},
		{"tsp default", 3, "tsp", nil, 12},
		{"cup default", 1, "cup", &models.Ingredient{}, 80},
		{"scoop uses grams_per_unit", 2, "scoop", &models.Ingredient{GramsPerUnit: f64(31)}, 62},
		{"scoop default", 1, "scoop", &models.Ingredient{}, 30},
		{"piece default", 2, "piece", nil, 60},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.want, Grams(tt.amount, tt.unit, tt.ing), 1e-9)
		})
	}
}

func TestGramsUnknownUnitPassesThrough(t *testing.T) {
	// Unrecognized unit strings are treated as grams, not rejected.
	assert.Equal(t, 42.0, Grams(42, "dash", &models.Ingredient{GramsPerUnit: f64(5)}))
}

func TestGramsIsDeterministic(t *testing.T) {
	ing := &models.Ingredient{GramsPerUnit: f64(16)}
	first := Grams(2, "tbsp", ing)
	for i := 0; i < 100; i++ {
		assert.Equal(t, first, Grams(2, "tbsp", ing))
	}
}

func TestGramsPeanutButterScenario(t *testing.T) {
	// Peanut Butter: no tbsp-specific factor, grams_per_unit 16, 2 tbsp.
	pb := &models.Ingredient{Name: "Peanut Butter", GramsPerUnit: f64(16)}
	assert.InDelta(t, 32.0, Grams(2, "tbsp", pb), 1e-9)
}
