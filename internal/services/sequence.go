package services

import (
	"fmt"
	"time"

	"github.com/shopbill/billing-app/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

const billDateLayout = "2006-01-02"

// SequenceAllocator hands out per-day invoice numbers. For a given day every
// allocation is unique and strictly increasing, with no reuse, even under
// concurrent invoice creation.
type SequenceAllocator struct {
	DB *gorm.DB
}

func NewSequenceAllocator(db *gorm.DB) *SequenceAllocator { return &SequenceAllocator{DB: db} }

// EnsureDay creates the counter row for the given day if absent. Concurrent
// first requests are fine: ON CONFLICT DO NOTHING turns the loser into a
// no-op instead of a duplicate-key failure. Runs outside the invoice
// transaction so a conflict cannot poison it.
func (a *SequenceAllocator) EnsureDay(day time.Time) error {
	seq := models.InvoiceSequence{Date: day.Format(billDateLayout)}
	err := a.DB.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "date"}},
		DoNothing: true,
	}).Create(&seq).Error
	if err != nil && !isUniqueViolation(err) {
		return err
	}
	return nil
}

// Next locks the day's counter row, increments it, and returns the raw number
// together with the formatted bill number INV-YYYYMMDD-NNN. It must run inside
// the transaction that creates the invoice: a failed commit releases the row
// lock without persisting the increment, so no number is ever burned.
func (a *SequenceAllocator) Next(tx *gorm.DB, day time.Time) (int, string, error) {
	var seq models.InvoiceSequence
	if err := lockForUpdate(tx).Where("date = ?", day.Format(billDateLayout)).First(&seq).Error; err != nil {
		return 0, "", fmt.Errorf("sequence row for %s: %w", day.Format(billDateLayout), err)
	}
	next := seq.LastNumber + 1
	if err := tx.Model(&seq).Update("last_number", next).Error; err != nil {
		return 0, "", err
	}
	return next, FormatBillNumber(day, next), nil
}

// FormatBillNumber composes the human-readable bill number, zero-padding the
// sequence to 3 digits.
func FormatBillNumber(day time.Time, n int) string {
	return fmt.Sprintf("INV-%s-%03d", day.Format("20060102"), n)
}
