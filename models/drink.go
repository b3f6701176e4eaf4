package models

import "time"

// Cup sizes offered by the storefront, in ml. 12 oz and 16 oz.
const (
	Size12ozML = 355
	Size16ozML = 473
)

type Drink struct {
	ID             uint      `gorm:"primaryKey" json:"id"`
	Name           string    `gorm:"type:varchar(255);not null" json:"name"`
	Description    string    `gorm:"type:text" json:"description"`
	BasePriceCents int64     `gorm:"not null;default:0" json:"base_price_cents"`
	ImageUrl       *string   `gorm:"type:varchar(255)" json:"image_url,omitempty"`
	IsActive       bool      `gorm:"not null;default:true" json:"is_active"`
	CreatedAt      time.Time `gorm:"not null" json:"created_at"`
	UpdatedAt      time.Time `gorm:"not null" json:"updated_at"`
}
