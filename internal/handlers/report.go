package handlers

import (
	"net/http"
	"time"

	"github.com/shopbill/billing-app/internal/httpx"
	"github.com/shopbill/billing-app/internal/models"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// ReportHandler serves read-only sales statistics over finished invoices.
type ReportHandler struct {
	DB *gorm.DB
}

func NewReportHandler(db *gorm.DB) *ReportHandler { return &ReportHandler{DB: db} }

type topItem struct {
	ItemName      string          `json:"item_name"`
	TotalQuantity int64           `json:"total_quantity"`
	TotalRevenue  decimal.Decimal `json:"total_revenue"`
}

// DailySales: GET /reports/daily-sales?date=YYYY-MM-DD (defaults to today)
func (h *ReportHandler) DailySales(w http.ResponseWriter, r *http.Request) {
	target := time.Now()
	if v := r.URL.Query().Get("date"); v != "" {
		parsed, err := time.ParseInLocation("2006-01-02", v, time.Local)
		if err != nil {
			httpx.JSONError(w, http.StatusBadRequest, "invalid_date", map[string]string{"date": "expected YYYY-MM-DD"})
			return
		}
		target = parsed
	}
	dayStart := time.Date(target.Year(), target.Month(), target.Day(), 0, 0, 0, 0, target.Location())
	dayEnd := dayStart.AddDate(0, 0, 1)

	dayInvoices := h.DB.Model(&models.Invoice{}).Where("created_at >= ? AND created_at < ?", dayStart, dayEnd)

	var invoiceCount int64
	if err := dayInvoices.Count(&invoiceCount).Error; err != nil {
		httpx.JSONError(w, http.StatusInternalServerError, "report_failed", nil)
		return
	}
	var totalSales decimal.Decimal
	if err := h.DB.Model(&models.Invoice{}).
		Where("created_at >= ? AND created_at < ?", dayStart, dayEnd).
		Select("COALESCE(SUM(total), 0)").Scan(&totalSales).Error; err != nil {
		httpx.JSONError(w, http.StatusInternalServerError, "report_failed", nil)
		return
	}
	avg := decimal.Zero
	if invoiceCount > 0 {
		avg = totalSales.Div(decimal.NewFromInt(invoiceCount)).Round(2)
	}

	var itemsSold int64
	if err := h.DB.Model(&models.InvoiceItem{}).
		Joins("JOIN invoices ON invoices.id = invoice_items.invoice_id").
		Where("invoices.created_at >= ? AND invoices.created_at < ?", dayStart, dayEnd).
		Select("COALESCE(SUM(invoice_items.quantity), 0)").Scan(&itemsSold).Error; err != nil {
		httpx.JSONError(w, http.StatusInternalServerError, "report_failed", nil)
		return
	}

	var top []topItem
	if err := h.DB.Model(&models.InvoiceItem{}).
		Joins("JOIN invoices ON invoices.id = invoice_items.invoice_id").
		Joins("JOIN items ON items.id = invoice_items.item_id").
		Where("invoices.created_at >= ? AND invoices.created_at < ?", dayStart, dayEnd).
		Select("items.name AS item_name, SUM(invoice_items.quantity) AS total_quantity, SUM(invoice_items.price * invoice_items.quantity) AS total_revenue").
		Group("items.name").
		Order("total_quantity DESC").
		Limit(5).
		Scan(&top).Error; err != nil {
		httpx.JSONError(w, http.StatusInternalServerError, "report_failed", nil)
		return
	}

	httpx.JSON(w, http.StatusOK, map[string]any{
		"date":              dayStart.Format("2006-01-02"),
		"total_sales":       totalSales,
		"invoice_count":     invoiceCount,
		"avg_invoice_value": avg,
		"items_sold":        itemsSold,
		"top_items":         top,
	})
}
