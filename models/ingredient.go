package models

import (
	"encoding/json"
	"time"
)

// Ingredient categories used by the storefront builder
const (
	CategoryBase    = "base"
	CategoryProtein = "protein"
	CategoryFruit   = "fruit"
	CategoryBooster = "booster"
	CategoryTopping = "topping"
)

type Ingredient struct {
	ID          uint   `gorm:"primaryKey" json:"id"`
	Name        string `gorm:"type:varchar(255);not null" json:"name"`
	Category    string `gorm:"type:varchar(50);not null" json:"category"`
	UnitDefault string `gorm:"type:varchar(20);not null;default:'g'" json:"unit_default"`

	// Conversion metadata. All optional: the converter falls back to
	// documented defaults when a factor is absent.
	GramsPerUnit  *float64 `gorm:"type:decimal(8,2)" json:"grams_per_unit,omitempty"`
	GramsPerTbsp  *float64 `gorm:"type:decimal(8,2)" json:"grams_per_tbsp,omitempty"`
	GramsPerTsp   *float64 `gorm:"type:decimal(8,2)" json:"grams_per_tsp,omitempty"`
	GramsPerCup   *float64 `gorm:"type:decimal(8,2)" json:"grams_per_cup,omitempty"`
	DensityGPerML *float64 `gorm:"type:decimal(8,3)" json:"density_g_per_ml,omitempty"`

	// JSON array of allergen tags, e.g. ["peanut","dairy"]
	AllergenTags string `gorm:"type:text;default:'[]'" json:"allergen_tags"`

	IsActive  bool      `gorm:"not null;default:true" json:"is_active"`
	CreatedAt time.Time `gorm:"not null" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null" json:"updated_at"`
}

// Allergens parses the stored allergen tag list. A malformed or empty
// column yields an empty set rather than an error.
func (i *Ingredient) Allergens() []string {
	if i.AllergenTags == "" {
		return nil
	}
	var tags []string
	if err := json.Unmarshal([]byte(i.AllergenTags), &tags); err != nil {
		return nil
	}
	return tags
}

func (i *Ingredient) SetAllergens(tags []string) {
	if tags == nil {
		tags = []string{}
	}
	raw, _ := json.Marshal(tags)
	i.AllergenTags = string(raw)
}
