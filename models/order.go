package models

import (
	"fmt"
	"time"
)

// Order statuses
const (
	OrderStatusDraft     = "draft"
	OrderStatusCompleted = "completed"
	OrderStatusCancelled = "cancelled"
)

type Order struct {
	ID          uint     `gorm:"primaryKey" json:"id"`
	ReferenceNo string   `gorm:"type:varchar(64);uniqueIndex" json:"reference_no"`
	CustomerID  uint     `gorm:"not null" json:"customer_id"`
	Customer    Customer `gorm:"foreignKey:CustomerID" json:"customer"`
	Status      string   `gorm:"type:varchar(20);not null;default:'draft'" json:"status"`

	SubtotalCents int64 `gorm:"not null;default:0" json:"subtotal_cents"`
	DiscountCents int64 `gorm:"not null;default:0" json:"discount_cents"`
	TotalCents    int64 `gorm:"not null;default:0" json:"total_cents"`

	// Promo snapshot frozen at application time so later catalog edits
	// don't change an already-shown discount. The selected variant and
	// add-on are part of the snapshot: the completion re-run needs them.
	PromoID        *uint   `gorm:"index" json:"promo_id,omitempty"`
	Promo          *Promo  `gorm:"foreignKey:PromoID" json:"promo,omitempty"`
	PromoCode      *string `gorm:"type:varchar(50)" json:"promo_code,omitempty"`
	PromoName      *string `gorm:"type:varchar(255)" json:"promo_name,omitempty"`
	PromoVariantID *uint   `json:"promo_variant_id,omitempty"`
	PromoAddonID   *uint   `json:"promo_addon_id,omitempty"`

	CreatedAt  time.Time   `gorm:"not null" json:"created_at"`
	UpdatedAt  time.Time   `gorm:"not null" json:"updated_at"`
	OrderItems []OrderItem `gorm:"foreignKey:OrderID" json:"order_items"`
}

// CustomerIdentifier is the key used for per-customer promo usage counts.
func (o *Order) CustomerIdentifier() string {
	return fmt.Sprintf("CUST-%d", o.CustomerID)
}

type OrderItem struct {
	ID      uint  `gorm:"primaryKey" json:"id"`
	OrderID uint  `gorm:"not null" json:"order_id"`
	Order   Order `gorm:"foreignKey:OrderID;references:ID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE" json:"-"`

	DrinkID    uint   `gorm:"not null" json:"drink_id"`
	Drink      Drink  `gorm:"foreignKey:DrinkID;references:ID;constraint:OnUpdate:CASCADE,OnDelete:RESTRICT" json:"drink"`
	SizeML     int    `gorm:"not null" json:"size_ml"`
	Quantity   int    `gorm:"not null;default:1" json:"quantity"`
	PriceCents int64  `gorm:"not null" json:"price_cents"`
	Notes      string `gorm:"type:text" json:"notes"`

	Ingredients []OrderItemIngredient `gorm:"foreignKey:OrderItemID" json:"ingredients"`

	CreatedAt time.Time `gorm:"not null" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null" json:"updated_at"`
}

// OrderItemIngredient persists one recipe line of an ordered drink.
// PriceCents is nil when no pricing row matched the line ("no price" is
// not the same as free).
type OrderItemIngredient struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	OrderItemID uint      `gorm:"not null" json:"order_item_id"`
	OrderItem   OrderItem `gorm:"foreignKey:OrderItemID;references:ID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE" json:"-"`

	IngredientID uint       `gorm:"not null" json:"ingredient_id"`
	Ingredient   Ingredient `gorm:"foreignKey:IngredientID;references:ID;constraint:OnUpdate:CASCADE,OnDelete:RESTRICT" json:"ingredient"`
	Amount       float64    `gorm:"type:decimal(8,2);not null" json:"amount"`
	Unit         string     `gorm:"type:varchar(20);not null" json:"unit"`
	Role         string     `gorm:"type:varchar(10);not null;default:'base'" json:"role"`
	PriceCents   *int64     `json:"price_cents,omitempty"`

	CreatedAt time.Time `gorm:"not null" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null" json:"updated_at"`
}

// Line converts the persisted row back into the ephemeral form the
// nutrition and pricing engines consume.
func (oi *OrderItemIngredient) Line() LineIngredient {
	return LineIngredient{
		IngredientID: oi.IngredientID,
		Amount:       oi.Amount,
		Unit:         oi.Unit,
		Role:         oi.Role,
	}
}
