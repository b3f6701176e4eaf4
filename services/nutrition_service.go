package services

import (
	"math"
	"sort"

	"github.com/shakecraft/shake-app/models"
)

// NutrientTotals accumulates nutrient values. Accumulation always runs
// on unrounded values; call Rounded only at the display boundary so
// rounding error never compounds across lines.
type NutrientTotals struct {
	EnergyKcal float64 `json:"energy_kcal"`
	ProteinG   float64 `json:"protein_g"`
	FatG       float64 `json:"fat_g"`
	CarbsG     float64 `json:"carbs_g"`
	SugarsG    float64 `json:"sugars_g"`
	FiberG     float64 `json:"fiber_g"`
	SodiumMg   float64 `json:"sodium_mg"`
}

func (t NutrientTotals) Add(o NutrientTotals) NutrientTotals {
	return NutrientTotals{
		EnergyKcal: t.EnergyKcal + o.EnergyKcal,
		ProteinG:   t.ProteinG + o.ProteinG,
		FatG:       t.FatG + o.FatG,
		CarbsG:     t.CarbsG + o.CarbsG,
		SugarsG:    t.SugarsG + o.SugarsG,
		FiberG:     t.FiberG + o.FiberG,
		SodiumMg:   t.SodiumMg + o.SodiumMg,
	}
}

// Rounded returns display values: one decimal place for gram
// quantities, whole numbers for kcal and sodium mg.
func (t NutrientTotals) Rounded() NutrientTotals {
	return NutrientTotals{
		EnergyKcal: math.Round(t.EnergyKcal),
		ProteinG:   round1(t.ProteinG),
		FatG:       round1(t.FatG),
		CarbsG:     round1(t.CarbsG),
		SugarsG:    round1(t.SugarsG),
		FiberG:     round1(t.FiberG),
		SodiumMg:   math.Round(t.SodiumMg),
	}
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}

// BreakdownItem is one line's individual contribution, carrying the
// grams used and the conversion factor so the math is independently
// verifiable in the audit view.
type BreakdownItem struct {
	IngredientID uint           `json:"ingredient_id"`
	Name         string         `json:"name"`
	Role         string         `json:"role"`
	Amount       float64        `json:"amount"`
	Unit         string         `json:"unit"`
	Grams        float64        `json:"grams"`
	Factor       float64        `json:"factor"`
	Contrib      NutrientTotals `json:"contrib"`
}

type NutritionService struct{}

func NewNutritionService() *NutritionService {
	return &NutritionService{}
}

// Breakdown computes each line's contribution in cart order. Lines whose
// ingredient or nutrition row is missing are skipped silently; callers
// detect incomplete data by comparing len(lines) to len(breakdown).
func (s *NutritionService) Breakdown(
	lines []models.LineIngredient,
	ingredients map[uint]models.Ingredient,
	nutrition map[uint]models.IngredientNutrition,
) []BreakdownItem {
	items := make([]BreakdownItem, 0, len(lines))
	for _, line := range lines {
		ing, ok := ingredients[line.IngredientID]
		if !ok {
			continue
		}
		nut, ok := nutrition[line.IngredientID]
		if !ok {
			continue
		}

		grams := GramsForLine(line, &ing)
		factor := grams / 100

		items = append(items, BreakdownItem{
			IngredientID: line.IngredientID,
			Name:         ing.Name,
			Role:         line.Role,
			Amount:       line.Amount,
			Unit:         line.Unit,
			Grams:        grams,
			Factor:       factor,
			Contrib: NutrientTotals{
				EnergyKcal: factor * nut.EnergyKcalPer100g,
				ProteinG:   factor * nut.ProteinGPer100g,
				FatG:       factor * nut.FatGPer100g,
				CarbsG:     factor * nut.CarbsGPer100g,
				SugarsG:    factor * nut.SugarsGPer100g,
				FiberG:     factor * nut.FiberGPer100g,
				SodiumMg:   factor * nut.SodiumMgPer100g,
			},
		})
	}
	return items
}

// Totals sums the per-line contributions and unions the contributing
// ingredients' allergen tags. Totals always equal the sum of Breakdown.
func (s *NutritionService) Totals(
	lines []models.LineIngredient,
	ingredients map[uint]models.Ingredient,
	nutrition map[uint]models.IngredientNutrition,
) (NutrientTotals, []string) {
	var totals NutrientTotals
	allergenSet := make(map[string]struct{})

	for _, item := range s.Breakdown(lines, ingredients, nutrition) {
		totals = totals.Add(item.Contrib)
		ing := ingredients[item.IngredientID]
		for _, tag := range ing.Allergens() {
			allergenSet[tag] = struct{}{}
		}
	}

	allergens := make([]string, 0, len(allergenSet))
	for tag := range allergenSet {
		allergens = append(allergens, tag)
	}
	sort.Strings(allergens)

	return totals, allergens
}
