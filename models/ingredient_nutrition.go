package models

import "time"

// IngredientNutrition holds nutrient values normalized per 100 g of the
// ingredient, regardless of the ingredient's native unit. Converting a
// line amount to absolute grams is the caller's job.
type IngredientNutrition struct {
	ID           uint       `gorm:"primaryKey" json:"id"`
	IngredientID uint       `gorm:"uniqueIndex;not null" json:"ingredient_id"`
	Ingredient   Ingredient `gorm:"foreignKey:IngredientID;references:ID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE" json:"-"`

	EnergyKcalPer100g float64 `gorm:"type:decimal(8,2);not null;default:0" json:"per_100g_energy_kcal"`
	ProteinGPer100g   float64 `gorm:"type:decimal(8,2);not null;default:0" json:"per_100g_protein_g"`
	FatGPer100g       float64 `gorm:"type:decimal(8,2);not null;default:0" json:"per_100g_fat_g"`
	CarbsGPer100g     float64 `gorm:"type:decimal(8,2);not null;default:0" json:"per_100g_carbs_g"`

	// Optional nutrients default to 0 so totals stay comparable across
	// rows entered before these columns existed.
	SugarsGPer100g  float64 `gorm:"type:decimal(8,2);not null;default:0" json:"per_100g_sugars_g"`
	FiberGPer100g   float64 `gorm:"type:decimal(8,2);not null;default:0" json:"per_100g_fiber_g"`
	SodiumMgPer100g float64 `gorm:"type:decimal(8,2);not null;default:0" json:"per_100g_sodium_mg"`

	CreatedAt time.Time `gorm:"not null" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null" json:"updated_at"`
}
