package models

import (
	"encoding/json"
	"time"
)

// Promo types. The discount fields relevant to a type are mutually
// exclusive with the others: only one of DiscountPercentage,
// DiscountCents, BundlePriceCents is populated, selected by type.
const (
	PromoTypePercentage  = "percentage"
	PromoTypeFixedAmount = "fixed_amount"
	PromoTypeBundle      = "bundle"
	PromoTypeFreeAddon   = "free_addon"
)

type Promo struct {
	ID          uint   `gorm:"primaryKey" json:"id"`
	Code        string `gorm:"type:varchar(50);uniqueIndex;not null" json:"code"`
	Name        string `gorm:"type:varchar(255);not null" json:"name"`
	Description string `gorm:"type:text" json:"description"`
	PromoType   string `gorm:"type:varchar(20);not null" json:"promo_type"`

	DiscountPercentage *float64 `gorm:"type:decimal(5,2)" json:"discount_percentage,omitempty"`
	DiscountCents      *int64   `json:"discount_cents,omitempty"`
	BundlePriceCents   *int64   `json:"bundle_price_cents,omitempty"`

	ValidFrom  time.Time  `gorm:"not null" json:"valid_from"`
	ValidUntil *time.Time `json:"valid_until,omitempty"`
	IsActive   bool       `gorm:"not null;default:true" json:"is_active"`

	MinOrderCents         *int64 `json:"min_order_cents,omitempty"`
	MaxDiscountCents      *int64 `json:"max_discount_cents,omitempty"`
	UsageLimitTotal       *int   `json:"usage_limit_total,omitempty"`
	UsageLimitPerCustomer *int   `json:"usage_limit_per_customer,omitempty"`

	// JSON array of drink ids the promo applies to. Empty means any drink.
	ApplicableDrinkIDs string `gorm:"type:text;default:'[]'" json:"applicable_drink_ids"`

	CreatedAt time.Time `gorm:"not null" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null" json:"updated_at"`
}

// ApplicableDrinks parses the applicability list. Empty or malformed
// column means "no restriction".
func (p *Promo) ApplicableDrinks() []uint {
	if p.ApplicableDrinkIDs == "" {
		return nil
	}
	var ids []uint
	if err := json.Unmarshal([]byte(p.ApplicableDrinkIDs), &ids); err != nil {
		return nil
	}
	return ids
}

func (p *Promo) SetApplicableDrinks(ids []uint) {
	if ids == nil {
		ids = []uint{}
	}
	raw, _ := json.Marshal(ids)
	p.ApplicableDrinkIDs = string(raw)
}

// PromoBundle is the required composition of a bundle promo: quantities
// of specific size tiers and/or a raw item count. 1:1 with its Promo.
type PromoBundle struct {
	ID      uint  `gorm:"primaryKey" json:"id"`
	PromoID uint  `gorm:"uniqueIndex;not null" json:"promo_id"`
	Promo   Promo `gorm:"foreignKey:PromoID;references:ID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE" json:"-"`

	Required12ozQty       int  `gorm:"not null;default:0" json:"required_12oz_qty"`
	Required16ozQty       int  `gorm:"not null;default:0" json:"required_16oz_qty"`
	MinItemCount          int  `gorm:"not null;default:0" json:"min_item_count"`
	RequiresVariantChoice bool `gorm:"not null;default:false" json:"requires_variant_choice"`

	CreatedAt time.Time `gorm:"not null" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null" json:"updated_at"`
}

// PromoVariant is a named bundle option with its own price, present only
// when the bundle requires a choice.
type PromoVariant struct {
	ID      uint  `gorm:"primaryKey" json:"id"`
	PromoID uint  `gorm:"index;not null" json:"promo_id"`
	Promo   Promo `gorm:"foreignKey:PromoID;references:ID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE" json:"-"`

	Name       string `gorm:"type:varchar(255);not null" json:"name"`
	PriceCents int64  `gorm:"not null" json:"price_cents"`

	CreatedAt time.Time `gorm:"not null" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null" json:"updated_at"`
}

// PromoFreeAddon configures a free-add-on promo. 1:1 with its Promo.
type PromoFreeAddon struct {
	ID      uint  `gorm:"primaryKey" json:"id"`
	PromoID uint  `gorm:"uniqueIndex;not null" json:"promo_id"`
	Promo   Promo `gorm:"foreignKey:PromoID;references:ID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE" json:"-"`

	QualifyingSizeML  *int  `json:"qualifying_size_ml,omitempty"`
	QualifyingDrinkID *uint `json:"qualifying_drink_id,omitempty"`

	// When CustomerChoice is set the customer picks which add-on is free,
	// otherwise AddonIngredientID names the fixed one.
	CustomerChoice    bool  `gorm:"not null;default:false" json:"customer_choice"`
	AddonIngredientID *uint `json:"addon_ingredient_id,omitempty"`
	MaxFreeQty        int   `gorm:"not null;default:1" json:"max_free_qty"`

	CreatedAt time.Time `gorm:"not null" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null" json:"updated_at"`
}

// PromoUsage is an append-only ledger row written once per successful
// application, at order completion. Used only for usage-limit counting.
type PromoUsage struct {
	ID          uint   `gorm:"primaryKey" json:"id"`
	PromoID     uint   `gorm:"index;not null" json:"promo_id"`
	Promo       Promo  `gorm:"foreignKey:PromoID;references:ID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE" json:"-"`
	OrderID     uint   `gorm:"index;not null" json:"order_id"`
	CustomerRef string `gorm:"type:varchar(100);index" json:"customer_ref"`

	DiscountCents int64     `gorm:"not null" json:"discount_cents"`
	CreatedAt     time.Time `gorm:"not null" json:"created_at"`
}
