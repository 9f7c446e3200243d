package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Invoice lifecycle states. Paid and cancelled are terminal.
const (
	InvoiceStatusPending   = "pending"
	InvoiceStatusPaid      = "paid"
	InvoiceStatusCancelled = "cancelled"
)

// Invoicing models
type Invoice struct {
	ID            uint          `gorm:"primaryKey" json:"id"`
	BillNumber    string        `gorm:"size:20;not null;uniqueIndex" json:"bill_number"`
	CustomerName  string        `gorm:"size:100;not null;index" json:"customer_name"`
	CustomerPhone string        `gorm:"size:15;index" json:"customer_phone"`
	Items         []InvoiceItem `gorm:"foreignKey:InvoiceID;constraint:OnDelete:CASCADE" json:"items"`

	Subtotal decimal.Decimal `gorm:"type:decimal(10,2);not null" json:"subtotal"`
	Tax      decimal.Decimal `gorm:"type:decimal(10,2);not null" json:"tax"`
	Discount decimal.Decimal `gorm:"type:decimal(10,2);not null" json:"discount"`
	Total    decimal.Decimal `gorm:"type:decimal(10,2);not null" json:"total"`

	// Carried-forward sum of the customer's other pending invoices at creation
	// time. Display only: never part of Total.
	PendingAmount   decimal.Decimal `gorm:"type:decimal(10,2);not null" json:"pending_amount"`
	ThankYouMessage string          `gorm:"size:255" json:"thank_you_message,omitempty"`

	Status string `gorm:"size:10;not null;default:'pending';index" json:"status"`

	// Shopkeeper display fields, copied from ShopProfile when the invoice is
	// created so later profile edits do not rewrite history.
	ShopkeeperGSTNumber         string `gorm:"size:15" json:"shopkeeper_gst_number,omitempty"`
	ShopkeeperAccountNumber     string `gorm:"size:30" json:"shopkeeper_account_number,omitempty"`
	ShopkeeperBankName          string `gorm:"size:255" json:"shopkeeper_bank_name,omitempty"`
	ShopkeeperAccountHolderName string `gorm:"size:255" json:"shopkeeper_account_holder_name,omitempty"`

	PDFPath string `gorm:"size:255" json:"pdf_path,omitempty"`

	CreatedAt time.Time `gorm:"index" json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type InvoiceItem struct {
	ID        uint `gorm:"primaryKey" json:"id"`
	InvoiceID uint `gorm:"not null;index" json:"-"`
	ItemID    uint `gorm:"not null;index" json:"item_id"`
	Item      Item `gorm:"foreignKey:ItemID" json:"-"`
	Quantity  int  `gorm:"not null" json:"quantity"`
	// Price is a snapshot of the catalog price at creation time; it is never
	// re-read from the catalog.
	Price    decimal.Decimal `gorm:"type:decimal(10,2);not null" json:"price"`
	ItemName string          `gorm:"-" json:"item_name,omitempty"`
}

// InvoiceSequence holds one row per calendar day. The date is stored as
// YYYY-MM-DD so uniqueness behaves the same on postgres and sqlite.
type InvoiceSequence struct {
	ID         uint      `gorm:"primaryKey"`
	Date       string    `gorm:"size:10;not null;uniqueIndex"`
	LastNumber int       `gorm:"not null;default:0"`
	CreatedAt  time.Time
	UpdatedAt  time.Time
}
