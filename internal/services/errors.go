package services

import (
	"errors"
	"fmt"

	"github.com/shopbill/billing-app/internal/validation"
)

// Sentinel errors so callers can branch on failure kind with errors.Is.
var (
	ErrNotFound          = errors.New("not_found")
	ErrInsufficientStock = errors.New("insufficient_stock")
	ErrValidation        = errors.New("validation_failed")
	ErrInvalidTransition = errors.New("invalid_status_transition")
	ErrConflictRetryable = errors.New("conflict_retryable")
	ErrItemReferenced    = errors.New("item_referenced_by_invoice")
)

// NotFoundError reports an unknown catalog item or invoice id.
type NotFoundError struct {
	Entity string
	ID     uint
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %d not found", e.Entity, e.ID)
}

func (e *NotFoundError) Unwrap() error { return ErrNotFound }

// InsufficientStockError carries everything the caller needs to report the
// losing line: item name, what was left, what was asked for.
type InsufficientStockError struct {
	ItemID    uint
	ItemName  string
	Available int
	Requested int
}

func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("insufficient stock for item %s: available %d, requested %d", e.ItemName, e.Available, e.Requested)
}

func (e *InsufficientStockError) Unwrap() error { return ErrInsufficientStock }

// ValidationError wraps field-level violations detected before any mutation.
type ValidationError struct {
	Violations validation.Violations
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation failed: %v", map[string]string(e.Violations))
}

func (e *ValidationError) Unwrap() error { return ErrValidation }
