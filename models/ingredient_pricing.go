package models

import "time"

// Pricing modes. Exactly one of PriceCents (flat) or CentsPer (the other
// three modes) is meaningful per row.
const (
	PricingModeFlat    = "flat"
	PricingModePerGram = "per_gram"
	PricingModePerML   = "per_ml"
	PricingModePerUnit = "per_unit"
)

type IngredientPricing struct {
	ID           uint       `gorm:"primaryKey" json:"id"`
	IngredientID uint       `gorm:"index;not null" json:"ingredient_id"`
	Ingredient   Ingredient `gorm:"foreignKey:IngredientID;references:ID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE" json:"-"`

	PricingMode string   `gorm:"type:varchar(20);not null" json:"pricing_mode"`
	PriceCents  *int64   `json:"price_cents,omitempty"`
	CentsPer    *float64 `gorm:"type:decimal(10,4)" json:"cents_per,omitempty"`
	UnitLabel   *string  `gorm:"type:varchar(20)" json:"unit_label,omitempty"`

	IsActive  bool      `gorm:"not null;default:true" json:"is_active"`
	CreatedAt time.Time `gorm:"not null" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null" json:"updated_at"`
}
