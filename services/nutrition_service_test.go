package services

import (
	"testing"

	"github.com/shakecraft/shake-app/models"
	"github.com/stretchr/testify/assert"
)

func nutritionFixtures() (map[uint]models.Ingredient, map[uint]models.IngredientNutrition) {
	pb := models.Ingredient{ID: 1, Name: "Peanut Butter", UnitDefault: "tbsp", GramsPerUnit: f64(16)}
	pb.SetAllergens([]string{"peanut"})
	whey := models.Ingredient{ID: 2, Name: "Whey Protein", UnitDefault: "scoop", GramsPerUnit: f64(30)}
	whey.SetAllergens([]string{"dairy"})
	banana := models.Ingredient{ID: 3, Name: "Banana", UnitDefault: "piece", GramsPerUnit: f64(120)}

	ingredients := map[uint]models.Ingredient{1: pb, 2: whey, 3: banana}
	nutrition := map[uint]models.IngredientNutrition{
		1: {IngredientID: 1, EnergyKcalPer100g: 588, ProteinGPer100g: 25, FatGPer100g: 50, CarbsGPer100g: 20, SodiumMgPer100g: 17},
		2: {IngredientID: 2, EnergyKcalPer100g: 400, ProteinGPer100g: 80, FatGPer100g: 5, CarbsGPer100g: 8},
		3: {IngredientID: 3, EnergyKcalPer100g: 89, ProteinGPer100g: 1.1, FatGPer100g: 0.3, CarbsGPer100g: 22.8, SugarsGPer100g: 12.2, FiberGPer100g: 2.6},
	}
	return ingredients, nutrition
}

func TestBreakdownPeanutButterScenario(t *testing.T) {
	ingredients, nutrition := nutritionFixtures()
	svc := NewNutritionService()

	lines := []models.LineIngredient{
		{IngredientID: 1, Amount: 2, Unit: "tbsp", Role: models.RoleExtra},
	}

	breakdown := svc.Breakdown(lines, ingredients, nutrition)
	assert.Len(t, breakdown, 1)
	assert.InDelta(t, 32.0, breakdown[0].Grams, 1e-9)
	assert.InDelta(t, 0.32, breakdown[0].Factor, 1e-9)
	assert.InDelta(t, 188.16, breakdown[0].Contrib.EnergyKcal, 1e-9)
}

func TestTotalsEqualSumOfBreakdown(t *testing.T) {
	ingredients, nutrition := nutritionFixtures()
	svc := NewNutritionService()

	lines := []models.LineIngredient{
		{IngredientID: 1, Amount: 2, Unit: "tbsp", Role: models.RoleExtra},
		{IngredientID: 2, Amount: 1.5, Unit: "scoop", Role: models.RoleBase},
		{IngredientID: 3, Amount: 1, Unit: "piece", Role: models.RoleExtra},
	}

	totals, _ := svc.Totals(lines, ingredients, nutrition)
	breakdown := svc.Breakdown(lines, ingredients, nutrition)

	var sum NutrientTotals
	for _, item := range breakdown {
		sum = sum.Add(item.Contrib)
	}

	assert.InDelta(t, sum.EnergyKcal, totals.EnergyKcal, 1e-9)
	assert.InDelta(t, sum.ProteinG, totals.ProteinG, 1e-9)
	assert.InDelta(t, sum.FatG, totals.FatG, 1e-9)
	assert.InDelta(t, sum.CarbsG, totals.CarbsG, 1e-9)
	assert.InDelta(t, sum.SodiumMg, totals.SodiumMg, 1e-9)
}

func TestTotalsSkipsMissingData(t *testing.T) {
	ingredients, nutrition := nutritionFixtures()
	svc := NewNutritionService()

	lines := []models.LineIngredient{
		{IngredientID: 2, Amount: 1, Unit: "scoop", Role: models.RoleBase},
		{IngredientID: 99, Amount: 3, Unit: "g", Role: models.RoleExtra},  // unknown ingredient
		{IngredientID: 100, Amount: 3, Unit: "g", Role: models.RoleExtra}, // no nutrition row
	}
	ingredients[100] = models.Ingredient{ID: 100, Name: "Mystery Syrup"}

	breakdown := svc.Breakdown(lines, ingredients, nutrition)
	assert.Len(t, breakdown, 1, "lines with missing data produce no breakdown entry")

	totals, _ := svc.Totals(lines, ingredients, nutrition)
	assert.InDelta(t, 120.0, totals.EnergyKcal, 1e-9) // 30g/100 * 400
}

func TestTotalsAllergenUnion(t *testing.T) {
	ingredients, nutrition := nutritionFixtures()
	svc := NewNutritionService()

	lines := []models.LineIngredient{
		{IngredientID: 1, Amount: 1, Unit: "tbsp", Role: models.RoleExtra},
		{IngredientID: 2, Amount: 1, Unit: "scoop", Role: models.RoleBase},
		{IngredientID: 2, Amount: 1, Unit: "scoop", Role: models.RoleExtra},
		{IngredientID: 3, Amount: 1, Unit: "piece", Role: models.RoleExtra},
	}

	_, allergens := svc.Totals(lines, ingredients, nutrition)
	assert.Equal(t, []string{"dairy", "peanut"}, allergens, "duplicates collapsed, order stable")
}

func TestRoundedDisplayValues(t *testing.T) {
	totals := NutrientTotals{
		EnergyKcal: 188.16,
		ProteinG:   25.04,
		FatG:       16.06,
		CarbsG:     6.44,
		SodiumMg:   5.44,
	}
	rounded := totals.Rounded()
	assert.Equal(t, 188.0, rounded.EnergyKcal)
	assert.Equal(t, 25.0, rounded.ProteinG)
	assert.Equal(t, 16.1, rounded.FatG)
	assert.Equal(t, 6.4, rounded.CarbsG)
	assert.Equal(t, 5.0, rounded.SodiumMg)
}

func TestBreakdownPreservesCartOrder(t *testing.T) {
	ingredients, nutrition := nutritionFixtures()
	svc := NewNutritionService()

	lines := []models.LineIngredient{
		{IngredientID: 3, Amount: 1, Unit: "piece", Role: models.RoleExtra},
		{IngredientID: 1, Amount: 1, Unit: "tbsp", Role: models.RoleExtra},
		{IngredientID: 2, Amount: 1, Unit: "scoop", Role: models.RoleBase},
	}

	breakdown := svc.Breakdown(lines, ingredients, nutrition)
	assert.Len(t, breakdown, 3)
	assert.Equal(t, uint(3), breakdown[0].IngredientID)
	assert.Equal(t, uint(1), breakdown[1].IngredientID)
	assert.Equal(t, uint(2), breakdown[2].IngredientID)
}
