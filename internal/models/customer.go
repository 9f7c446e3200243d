package models

import "time"

// Customer directory entry. Invoices identify customers by (name, phone)
// strings, not by this table; it exists for lookup convenience only.
type Customer struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Name      string    `gorm:"size:100;not null;index" json:"name"`
	Phone     string    `gorm:"size:15;index" json:"phone"`
	Address   string    `gorm:"type:text" json:"address,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
