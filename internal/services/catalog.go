package services

import (
	"errors"
	"strings"

	"github.com/shopbill/billing-app/internal/models"
	"github.com/shopbill/billing-app/internal/validation"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// CatalogService owns catalog reads and the serialized read-check-decrement
// used during invoice creation.
type CatalogService struct {
	DB *gorm.DB
}

func NewCatalogService(db *gorm.DB) *CatalogService { return &CatalogService{DB: db} }

func (s *CatalogService) GetItem(id uint) (*models.Item, error) {
	var item models.Item
	if err := s.DB.First(&item, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, &NotFoundError{Entity: "item", ID: id}
		}
		return nil, err
	}
	return &item, nil
}

// ListItems returns items ordered by name, optionally filtered by a
// case-insensitive name substring.
func (s *CatalogService) ListItems(search string) ([]models.Item, error) {
	q := s.DB.Order("name asc")
	if search = strings.TrimSpace(search); search != "" {
		q = q.Where("lower(name) LIKE ?", "%"+strings.ToLower(search)+"%")
	}
	var items []models.Item
	if err := q.Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

type ItemInput struct {
	Name  string
	Price decimal.Decimal
	Stock int
}

func (in ItemInput) validate() error {
	v := validation.Violations{}
	validation.Required("name", in.Name, v)
	validation.MaxLen("name", in.Name, 200, v)
	validation.NonNegativeFloat("price", in.Price.InexactFloat64(), v)
	if in.Stock < 0 {
		v["stock"] = "must_not_be_negative"
	}
	if !v.Empty() {
		return &ValidationError{Violations: v}
	}
	return nil
}

func (s *CatalogService) CreateItem(in ItemInput) (*models.Item, error) {
	if err := in.validate(); err != nil {
		return nil, err
	}
	item := models.Item{Name: strings.TrimSpace(in.Name), Price: in.Price.Round(2), Stock: in.Stock}
	if err := s.DB.Create(&item).Error; err != nil {
		return nil, err
	}
	return &item, nil
}

func (s *CatalogService) UpdateItem(id uint, in ItemInput) (*models.Item, error) {
	if err := in.validate(); err != nil {
		return nil, err
	}
	item, err := s.GetItem(id)
	if err != nil {
		return nil, err
	}
	item.Name = strings.TrimSpace(in.Name)
	item.Price = in.Price.Round(2)
	item.Stock = in.Stock
	if err := s.DB.Save(item).Error; err != nil {
		return nil, err
	}
	return item, nil
}

// DeleteItem removes a catalog item unless any invoice line references it.
// Historical invoices rely on the item row for display, so deletion is
// rejected rather than cascaded.
func (s *CatalogService) DeleteItem(id uint) error {
	return s.DB.Transaction(func(tx *gorm.DB) error {
		var item models.Item
		if err := tx.First(&item, id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return &NotFoundError{Entity: "item", ID: id}
			}
			return err
		}
		var refs int64
		if err := tx.Model(&models.InvoiceItem{}).Where("item_id = ?", id).Count(&refs).Error; err != nil {
			return err
		}
		if refs > 0 {
			return ErrItemReferenced
		}
		return tx.Delete(&item).Error
	})
}

// takeStock locks the item row, verifies the requested quantity fits the
// current stock, and decrements it, all under the caller's transaction. The
// returned item carries the price snapshot for the invoice line. Insufficient
// stock aborts; the stock is never clamped at zero.
func takeStock(tx *gorm.DB, itemID uint, qty int) (*models.Item, error) {
	var item models.Item
	if err := lockForUpdate(tx).First(&item, itemID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, &NotFoundError{Entity: "item", ID: itemID}
		}
		return nil, err
	}
	if item.Stock < qty {
		return nil, &InsufficientStockError{ItemID: item.ID, ItemName: item.Name, Available: item.Stock, Requested: qty}
	}
	if err := tx.Model(&models.Item{}).Where("id = ?", item.ID).
		UpdateColumn("stock", gorm.Expr("stock - ?", qty)).Error; err != nil {
		return nil, err
	}
	return &item, nil
}
