package services

import (
	"errors"
	"fmt"

	"github.com/shopbill/billing-app/internal/models"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// PendingLine is a flattened line from an earlier pending invoice, tagged
// with the bill number it came from, for display on the new invoice.
type PendingLine struct {
	Description string          `json:"description"`
	Qty         int             `json:"qty"`
	Price       decimal.Decimal `json:"price"`
	Total       decimal.Decimal `json:"total"`
	BillNumber  string          `json:"invoice_bill_number"`
}

// PendingContext is the carried-forward balance attached to a new invoice.
// Amount is stored on the invoice but never folded into its own total.
type PendingContext struct {
	Amount   decimal.Decimal
	Lines    []PendingLine
	ThankYou string
}

// computePending sums the customer's other pending invoices, flattens their
// lines, and builds the thank-you message from the most recent paid invoice.
// Matching is by customer name, narrowed by phone when one was supplied.
func computePending(tx *gorm.DB, name, phone string, excludeID uint) (PendingContext, error) {
	ctx := PendingContext{Amount: decimal.Zero}

	q := tx.Where("status = ? AND customer_name = ?", models.InvoiceStatusPending, name)
	if phone != "" {
		q = q.Where("customer_phone = ?", phone)
	}
	if excludeID != 0 {
		q = q.Where("id <> ?", excludeID)
	}
	var pending []models.Invoice
	if err := q.Preload("Items.Item").Order("created_at asc").Find(&pending).Error; err != nil {
		return ctx, err
	}
	for _, inv := range pending {
		ctx.Amount = ctx.Amount.Add(inv.Total)
		for _, li := range inv.Items {
			qty := decimal.NewFromInt(int64(li.Quantity))
			ctx.Lines = append(ctx.Lines, PendingLine{
				Description: li.Item.Name,
				Qty:         li.Quantity,
				Price:       li.Price,
				Total:       li.Price.Mul(qty),
				BillNumber:  inv.BillNumber,
			})
		}
	}

	paidQ := tx.Where("status = ? AND customer_name = ?", models.InvoiceStatusPaid, name)
	if phone != "" {
		paidQ = paidQ.Where("customer_phone = ?", phone)
	}
	var lastPaid models.Invoice
	err := paidQ.Order("created_at desc").First(&lastPaid).Error
	if err == nil {
		ctx.ThankYou = fmt.Sprintf("Thank you for paying ₹%s", lastPaid.Total.StringFixed(2))
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return ctx, err
	}
	return ctx, nil
}

// UpdateStatus transitions an invoice between lifecycle states. Only pending
// invoices may move, to paid or cancelled; paid and cancelled are terminal.
// Marking an invoice paid also marks the same customer's earlier pending
// invoices paid, in the same transaction, so a lump payment clears the
// backlog. Monetary fields are untouched by the cascade.
func (s *InvoiceService) UpdateStatus(id uint, status string) (*models.Invoice, error) {
	switch status {
	case models.InvoiceStatusPending, models.InvoiceStatusPaid, models.InvoiceStatusCancelled:
	default:
		return nil, &ValidationError{Violations: map[string]string{"status": "unknown_status"}}
	}

	var inv models.Invoice
	err := s.DB.Transaction(func(tx *gorm.DB) error {
		if err := lockForUpdate(tx).First(&inv, id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return &NotFoundError{Entity: "invoice", ID: id}
			}
			return err
		}
		if inv.Status == status {
			return nil
		}
		if inv.Status != models.InvoiceStatusPending {
			return fmt.Errorf("%w: %s invoices are terminal", ErrInvalidTransition, inv.Status)
		}
		if err := tx.Model(&inv).Update("status", status).Error; err != nil {
			return err
		}
		if status != models.InvoiceStatusPaid {
			return nil
		}
		// Paid cascade: earlier pending invoices of the same (name, phone).
		return tx.Model(&models.Invoice{}).
			Where("customer_name = ? AND customer_phone = ? AND status = ? AND created_at < ? AND id <> ?",
				inv.CustomerName, inv.CustomerPhone, models.InvoiceStatusPending, inv.CreatedAt, inv.ID).
			Update("status", models.InvoiceStatusPaid).Error
	})
	if err != nil {
		return nil, err
	}
	return &inv, nil
}
