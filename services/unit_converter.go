package services

import (
	"github.com/shakecraft/shake-app/models"
)

// Fallback conversion factors used when an ingredient carries no
// unit-specific metadata. Matched against the catalog's historical data;
// conversion must degrade to these rather than fail.
const (
	DefaultDensityGPerML = 1.03
	DefaultGramsPerTbsp  = 12.0
	DefaultGramsPerTsp   = 4.0
	DefaultGramsPerCup   = 80.0
	DefaultGramsPerPiece = 30.0
)

// Grams converts an amount in the given unit to grams using the
// ingredient's conversion metadata. Pure and cheap: this runs on every
// keystroke of the quantity editor. An unrecognized unit string is
// treated as already being grams (permissive pass-through, see product
// note in DESIGN.md); amounts <= 0 convert to 0.
func Grams(amount float64, unit string, ing *models.Ingredient) float64 {
	if amount <= 0 {
		return 0
	}

	switch unit {
	case "g":
		return amount
	case "ml":
		if ing != nil && ing.DensityGPerML != nil {
			return amount * *ing.DensityGPerML
		}
		return amount * DefaultDensityGPerML
	case "tbsp":
		return amount * discreteFactor(ing, tbspFactor(ing), DefaultGramsPerTbsp)
	case "tsp":
		return amount * discreteFactor(ing, tspFactor(ing), DefaultGramsPerTsp)
	case "cup":
		return amount * discreteFactor(ing, cupFactor(ing), DefaultGramsPerCup)
	case "scoop", "piece":
		return amount * discreteFactor(ing, nil, DefaultGramsPerPiece)
	default:
		return amount
	}
}

// GramsForLine converts one cart/recipe line to grams.
func GramsForLine(line models.LineIngredient, ing *models.Ingredient) float64 {
	return Grams(line.Amount, line.Unit, ing)
}

// discreteFactor resolves the grams-per-unit factor for a discrete unit:
// the unit-specific factor if declared, then the ingredient's generic
// grams_per_unit, then the built-in default.
func discreteFactor(ing *models.Ingredient, specific *float64, def float64) float64 {
	if specific != nil {
		return *specific
	}
	if ing != nil && ing.GramsPerUnit != nil {
		return *ing.GramsPerUnit
	}
	return def
}

func tbspFactor(ing *models.Ingredient) *float64 {
	if ing == nil {
		return nil
	}
	return ing.GramsPerTbsp
}

func tspFactor(ing *models.Ingredient) *float64 {
	if ing == nil {
		return nil
	}
	return ing.GramsPerTsp
}

func cupFactor(ing *models.Ingredient) *float64 {
	if ing == nil {
		return nil
	}
	return ing.GramsPerCup
}
