package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Catalog item. Stock is only mutated by invoice creation (decrement) and by
// catalog admin endpoints; it must never go negative.
type Item struct {
	ID        uint            `gorm:"primaryKey" json:"id"`
	Name      string          `gorm:"size:200;not null;index" json:"name"`
	Price     decimal.Decimal `gorm:"type:decimal(10,2);not null" json:"price"`
	Stock     int             `gorm:"not null;default:0" json:"stock"`
	CreatedAt time.Time       `json:"created_at"`
	UpdatedAt time.Time       `json:"updated_at"`
}
