package models

import (
	"time"
)

type Customer struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	Name       string    `gorm:"type:varchar(255)" json:"name"`
	Email      *string   `gorm:"type:varchar(255);uniqueIndex" json:"email,omitempty"`
	SessionKey *string   `gorm:"type:varchar(255)" json:"-"`
	Status     string    `gorm:"type:varchar(20);not null;default:'active'" json:"status"`
	CreatedAt  time.Time `gorm:"not null" json:"created_at"`
	UpdatedAt  time.Time `gorm:"not null" json:"updated_at"`
}
