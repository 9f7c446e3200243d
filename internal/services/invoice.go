package services

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/shopbill/billing-app/internal/models"
	"github.com/shopbill/billing-app/internal/validation"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

var (
	taxRate      = decimal.NewFromFloat(0.05)
	discountRate = decimal.NewFromFloat(0.02)
)

const maxCreateRetries = 3

// InvoiceService encapsulates invoice creation, lookup, and status
// transitions. All writes happen inside one transaction per operation.
type InvoiceService struct {
	DB      *gorm.DB
	Seq     *SequenceAllocator
	Catalog *CatalogService
}

func NewInvoiceService(db *gorm.DB) *InvoiceService {
	return &InvoiceService{DB: db, Seq: NewSequenceAllocator(db), Catalog: NewCatalogService(db)}
}

type CreateInvoiceLine struct {
	ItemID   uint
	Quantity int
}

type CreateInvoiceInput struct {
	CustomerName  string
	CustomerPhone string
	Lines         []CreateInvoiceLine
}

func (in CreateInvoiceInput) validate() error {
	v := validation.Violations{}
	validation.Required("customer_name", in.CustomerName, v)
	validation.MaxLen("customer_name", in.CustomerName, 100, v)
	validation.MaxLen("customer_phone", in.CustomerPhone, 15, v)
	if len(in.Lines) == 0 {
		v["items"] = "required"
	}
	for _, l := range in.Lines {
		if l.ItemID == 0 {
			v["items"] = "invalid_item_reference"
			break
		}
		validation.PositiveInt("items", l.Quantity, v)
	}
	if !v.Empty() {
		return &ValidationError{Violations: v}
	}
	return nil
}

// Create builds an invoice as one all-or-nothing unit: bill number
// allocation, line-item creation, stock decrements, and total computation
// either all commit or none do. Retried from scratch on transient conflicts.
// The returned PendingContext mirrors what was attached to the invoice, plus
// the flattened previous pending lines for the caller's response.
func (s *InvoiceService) Create(in CreateInvoiceInput) (*models.Invoice, PendingContext, error) {
	if err := in.validate(); err != nil {
		return nil, PendingContext{}, err
	}
	now := time.Now()
	if err := s.Seq.EnsureDay(now); err != nil {
		return nil, PendingContext{}, err
	}
	profile := s.loadProfile()

	var inv *models.Invoice
	var pending PendingContext
	var lastErr error
	for attempt := 0; attempt < maxCreateRetries; attempt++ {
		inv, pending, lastErr = s.createOnce(in, profile, now)
		if lastErr == nil {
			return inv, pending, nil
		}
		if !isRetryableConflict(lastErr) {
			return nil, PendingContext{}, lastErr
		}
	}
	return nil, PendingContext{}, fmt.Errorf("%w: %v", ErrConflictRetryable, lastErr)
}

func (s *InvoiceService) createOnce(in CreateInvoiceInput, profile *models.ShopProfile, now time.Time) (*models.Invoice, PendingContext, error) {
	var inv models.Invoice
	var pending PendingContext
	err := s.DB.Transaction(func(tx *gorm.DB) error {
		_, billNumber, err := s.Seq.Next(tx, now)
		if err != nil {
			return err
		}

		name := strings.TrimSpace(in.CustomerName)
		phone := strings.TrimSpace(in.CustomerPhone)
		pending, err = computePending(tx, name, phone, 0)
		if err != nil {
			return err
		}

		inv = models.Invoice{
			BillNumber:    billNumber,
			CustomerName:  name,
			CustomerPhone: phone,
			Status:        models.InvoiceStatusPending,
			Subtotal:      decimal.Zero,
			Tax:           decimal.Zero,
			Discount:      decimal.Zero,
			Total:         decimal.Zero,
			PendingAmount: pending.Amount,
		}
		inv.ThankYouMessage = pending.ThankYou
		if profile != nil {
			inv.ShopkeeperGSTNumber = profile.GSTNumber
			inv.ShopkeeperAccountNumber = profile.AccountNumber
			inv.ShopkeeperBankName = profile.BankName
			inv.ShopkeeperAccountHolderName = profile.AccountHolderName
		}
		if err := tx.Create(&inv).Error; err != nil {
			return err
		}

		subtotal := decimal.Zero
		for _, l := range in.Lines {
			item, err := takeStock(tx, l.ItemID, l.Quantity)
			if err != nil {
				return err
			}
			li := models.InvoiceItem{
				InvoiceID: inv.ID,
				ItemID:    item.ID,
				Quantity:  l.Quantity,
				Price:     item.Price,
			}
			if err := tx.Create(&li).Error; err != nil {
				return err
			}
			subtotal = subtotal.Add(item.Price.Mul(decimal.NewFromInt(int64(l.Quantity))))
		}

		tax := subtotal.Mul(taxRate).Round(2)
		discount := subtotal.Mul(discountRate).Round(2)
		total := subtotal.Add(tax).Sub(discount)

		inv.Subtotal = subtotal
		inv.Tax = tax
		inv.Discount = discount
		inv.Total = total
		return tx.Model(&inv).Updates(map[string]any{
			"subtotal": subtotal,
			"tax":      tax,
			"discount": discount,
			"total":    total,
		}).Error
	})
	if err != nil {
		return nil, PendingContext{}, err
	}
	loaded, err := s.Get(inv.ID)
	if err != nil {
		return nil, PendingContext{}, err
	}
	return loaded, pending, nil
}

// loadProfile fetches the single shop profile if configured. Invoices are
// still valid without one; the display fields stay empty.
func (s *InvoiceService) loadProfile() *models.ShopProfile {
	var profile models.ShopProfile
	if err := s.DB.First(&profile).Error; err != nil {
		return nil
	}
	return &profile
}

// Get loads an invoice with its lines and fills the display item names.
func (s *InvoiceService) Get(id uint) (*models.Invoice, error) {
	var inv models.Invoice
	if err := s.DB.Preload("Items.Item").First(&inv, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, &NotFoundError{Entity: "invoice", ID: id}
		}
		return nil, err
	}
	for i := range inv.Items {
		inv.Items[i].ItemName = inv.Items[i].Item.Name
	}
	return &inv, nil
}

type InvoiceFilter struct {
	BillNumber   string
	CustomerName string
	Limit        int
	Offset       int
}

// List returns invoices newest first, optionally filtered by bill number or
// customer name substring.
func (s *InvoiceService) List(f InvoiceFilter) ([]models.Invoice, int64, error) {
	q := s.DB.Model(&models.Invoice{})
	if v := strings.TrimSpace(f.BillNumber); v != "" {
		q = q.Where("lower(bill_number) LIKE ?", "%"+strings.ToLower(v)+"%")
	}
	if v := strings.TrimSpace(f.CustomerName); v != "" {
		q = q.Where("lower(customer_name) LIKE ?", "%"+strings.ToLower(v)+"%")
	}
	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	limit := f.Limit
	if limit <= 0 || limit > 200 {
		limit = 50
	}
	var invs []models.Invoice
	if err := q.Preload("Items.Item").Order("created_at desc, id desc").Limit(limit).Offset(f.Offset).Find(&invs).Error; err != nil {
		return nil, 0, err
	}
	for i := range invs {
		for j := range invs[i].Items {
			invs[i].Items[j].ItemName = invs[i].Items[j].Item.Name
		}
	}
	return invs, total, nil
}

// PendingFor recomputes the pending context for an existing invoice, used by
// the rendering endpoint so the document reflects current state.
func (s *InvoiceService) PendingFor(inv *models.Invoice) (PendingContext, error) {
	return computePending(s.DB, inv.CustomerName, inv.CustomerPhone, inv.ID)
}
