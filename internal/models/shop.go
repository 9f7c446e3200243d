package models

import "time"

// ShopProfile is the acting operator's banking/GST display profile. A single
// row is expected; its fields are copied onto each invoice at creation time.
type ShopProfile struct {
	ID                uint      `gorm:"primaryKey" json:"id"`
	ShopName          string    `gorm:"size:100;not null" json:"shop_name"`
	GSTNumber         string    `gorm:"size:15" json:"gst_number,omitempty"`
	AccountNumber     string    `gorm:"size:30" json:"account_number,omitempty"`
	BankName          string    `gorm:"size:255" json:"bank_name,omitempty"`
	AccountHolderName string    `gorm:"size:255" json:"account_holder_name,omitempty"`
	CreatedAt         time.Time `json:"created_at"`
	UpdatedAt         time.Time `json:"updated_at"`
}
