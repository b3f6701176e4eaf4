package services

import (
	"math"

	"github.com/shakecraft/shake-app/models"
)

// PricingService resolves monetary prices for ingredient lines. All
// amounts are integer cents; formatting to pesos happens in utils.
type PricingService struct{}

func NewPricingService() *PricingService {
	return &PricingService{}
}

// PriceForLine resolves the price of one line against the ingredient's
// pricing rows. Returns nil when no row matches: a line with no price is
// excluded from totals, which is not the same as costing ₱0.00.
func (s *PricingService) PriceForLine(line models.LineIngredient, ing *models.Ingredient, rows []models.IngredientPricing) *int64 {
	row := pickPricingRow(line.Unit, line.IngredientID, rows)
	if row == nil {
		return nil
	}

	switch row.PricingMode {
	case models.PricingModeFlat:
		if row.PriceCents == nil {
			return nil
		}
		cents := *row.PriceCents
		return &cents
	case models.PricingModePerGram, models.PricingModePerML:
		// Rate is per gram/ml of the converted mass, not per display unit.
		if row.CentsPer == nil {
			return nil
		}
		cents := int64(math.Round(*row.CentsPer * GramsForLine(line, ing)))
		return &cents
	case models.PricingModePerUnit:
		// Per-unit rates use the raw display-unit amount (e.g. per scoop).
		if row.CentsPer == nil {
			return nil
		}
		cents := int64(math.Round(*row.CentsPer * line.Amount))
		return &cents
	}
	return nil
}

// PriceForExtras sums the prices of the extra-role lines. Lines without
// a matching pricing row contribute nothing.
func (s *PricingService) PriceForExtras(
	lines []models.LineIngredient,
	ingredients map[uint]models.Ingredient,
	pricing map[uint][]models.IngredientPricing,
) int64 {
	var total int64
	for _, line := range lines {
		if line.Role != models.RoleExtra {
			continue
		}
		ing, ok := ingredients[line.IngredientID]
		if !ok {
			continue
		}
		if p := s.PriceForLine(line, &ing, pricing[line.IngredientID]); p != nil {
			total += *p
		}
	}
	return total
}

// modeForUnit maps a display unit to the pricing mode it charges under.
func modeForUnit(unit string) string {
	switch unit {
	case "ml":
		return models.PricingModePerML
	case "scoop", "piece", "tbsp", "tsp", "cup":
		return models.PricingModePerUnit
	default:
		return models.PricingModePerGram
	}
}

// pickPricingRow selects the active row for the line's unit-derived
// mode, falling back to a flat row when the mode has no rate.
func pickPricingRow(unit string, ingredientID uint, rows []models.IngredientPricing) *models.IngredientPricing {
	mode := modeForUnit(unit)
	var flat *models.IngredientPricing
	for i := range rows {
		row := &rows[i]
		if !row.IsActive || row.IngredientID != ingredientID {
			continue
		}
		if row.PricingMode == mode {
			return row
		}
		if row.PricingMode == models.PricingModeFlat && flat == nil {
			flat = row
		}
	}
	return flat
}
