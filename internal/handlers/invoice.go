package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/shopbill/billing-app/internal/httpx"
	"github.com/shopbill/billing-app/internal/models"
	"github.com/shopbill/billing-app/internal/pdf"
	"github.com/shopbill/billing-app/internal/services"

	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Renderer produces a printable artifact for an invoice and returns its
// storage path. Satisfied by pdf.Renderer; tests substitute a fake.
type Renderer interface {
	Render(data pdf.InvoiceData) (string, error)
}

type InvoiceHandler struct {
	DB       *gorm.DB
	Svc      *services.InvoiceService
	Renderer Renderer
	MediaDir string
}

func NewInvoiceHandler(db *gorm.DB, svc *services.InvoiceService, r Renderer, mediaDir string) *InvoiceHandler {
	return &InvoiceHandler{DB: db, Svc: svc, Renderer: r, MediaDir: mediaDir}
}

// invoiceResponse augments the invoice model with the flattened pending lines
// that only exist transiently at creation/render time.
func invoiceResponse(inv *models.Invoice, pending services.PendingContext) map[string]any {
	out := map[string]any{"invoice": inv}
	if len(pending.Lines) > 0 {
		out["previous_pending_items"] = pending.Lines
	}
	return out
}

// Create: POST /invoices
func (h *InvoiceHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req struct {
		CustomerName  string `json:"customer_name"`
		CustomerPhone string `json:"customer_phone"`
		Items         []struct {
			ItemID   uint `json:"item_id"`
			Quantity int  `json:"quantity"`
		} `json:"items"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpx.JSONError(w, http.StatusBadRequest, "invalid_json", nil)
		return
	}
	in := services.CreateInvoiceInput{CustomerName: req.CustomerName, CustomerPhone: req.CustomerPhone}
	for _, it := range req.Items {
		in.Lines = append(in.Lines, services.CreateInvoiceLine{ItemID: it.ItemID, Quantity: it.Quantity})
	}
	inv, pending, err := h.Svc.Create(in)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	log.Info().Str("bill_number", inv.BillNumber).Str("customer", inv.CustomerName).
		Str("total", inv.Total.StringFixed(2)).Msg("invoice created")
	httpx.JSON(w, http.StatusCreated, invoiceResponse(inv, pending))
}

// List: GET /invoices – filters: bill_number, customer_name, page/limit
func (h *InvoiceHandler) List(w http.ResponseWriter, r *http.Request) {
	f := services.InvoiceFilter{
		BillNumber:   r.URL.Query().Get("bill_number"),
		CustomerName: r.URL.Query().Get("customer_name"),
		Limit:        50,
	}
	if v := r.URL.Query().Get("limit"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 && n <= 200 {
			f.Limit = n
		}
	}
	if v := r.URL.Query().Get("page"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 1 {
			f.Offset = (n - 1) * f.Limit
		}
	}
	invs, total, err := h.Svc.List(f)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]any{"items": invs, "total": total, "limit": f.Limit, "offset": f.Offset})
}

// Detail: GET /invoices/detail?id=...
func (h *InvoiceHandler) Detail(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, r)
	if !ok {
		return
	}
	inv, err := h.Svc.Get(id)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	pending, err := h.Svc.PendingFor(inv)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, invoiceResponse(inv, pending))
}

// UpdateStatus: POST /invoices/status – {"invoice_id":..,"status":".."}
func (h *InvoiceHandler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	var req struct {
		InvoiceID uint   `json:"invoice_id"`
		Status    string `json:"status"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpx.JSONError(w, http.StatusBadRequest, "invalid_json", nil)
		return
	}
	if req.InvoiceID == 0 {
		httpx.JSONError(w, http.StatusBadRequest, "validation_failed", map[string]string{"invoice_id": "required"})
		return
	}
	inv, err := h.Svc.UpdateStatus(req.InvoiceID, req.Status)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	log.Info().Str("bill_number", inv.BillNumber).Str("status", req.Status).Msg("invoice status updated")
	httpx.JSON(w, http.StatusOK, map[string]any{"id": inv.ID, "bill_number": inv.BillNumber, "status": req.Status})
}

// PDF: GET /invoices/pdf?id=... – renders on demand and streams the artifact.
func (h *InvoiceHandler) PDF(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, r)
	if !ok {
		return
	}
	inv, err := h.Svc.Get(id)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	pending, err := h.Svc.PendingFor(inv)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	data := buildInvoiceData(inv, pending)
	var profile models.ShopProfile
	if err := h.DB.First(&profile).Error; err == nil {
		data.ShopName = profile.ShopName
	}
	path, err := h.Renderer.Render(data)
	if err != nil {
		log.Error().Err(err).Str("bill_number", inv.BillNumber).Msg("pdf generation failed")
		httpx.JSONError(w, http.StatusInternalServerError, "pdf_generation_failed", nil)
		return
	}
	// Record where the latest artifact lives; rendering never touches the
	// invoice's financial fields.
	if err := h.DB.Model(inv).UpdateColumn("pdf_path", path).Error; err != nil {
		log.Error().Err(err).Msg("failed to store pdf path")
	}
	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", `inline; filename="invoice_`+inv.BillNumber+`.pdf"`)
	http.ServeFile(w, r, h.mediaPath(path))
}

func (h *InvoiceHandler) mediaPath(rel string) string {
	return h.MediaDir + "/" + rel
}

func buildInvoiceData(inv *models.Invoice, pending services.PendingContext) pdf.InvoiceData {
	data := pdf.InvoiceData{
		BillNumber:        inv.BillNumber,
		Date:              inv.CreatedAt.Format("02. January, 2006"),
		CustomerName:      inv.CustomerName,
		CustomerPhone:     inv.CustomerPhone,
		Status:            inv.Status,
		GSTNumber:         inv.ShopkeeperGSTNumber,
		AccountNumber:     inv.ShopkeeperAccountNumber,
		BankName:          inv.ShopkeeperBankName,
		AccountHolderName: inv.ShopkeeperAccountHolderName,
		Subtotal:          inv.Subtotal.StringFixed(2),
		Tax:               inv.Tax.StringFixed(2),
		Discount:          inv.Discount.StringFixed(2),
		Total:             inv.Total.StringFixed(2),
		PendingAmount:     pending.Amount.StringFixed(2),
		ThankYou:          inv.ThankYouMessage,
	}
	for _, li := range inv.Items {
		data.Items = append(data.Items, pdf.LineItem{
			Description: li.ItemName,
			Quantity:    li.Quantity,
			Price:       li.Price.StringFixed(2),
			Total:       li.Price.Mul(decimal.NewFromInt(int64(li.Quantity))).StringFixed(2),
		})
	}
	for _, p := range pending.Lines {
		data.PendingItems = append(data.PendingItems, pdf.PendingItem{
			Description: p.Description,
			Qty:         p.Qty,
			Price:       p.Price.StringFixed(2),
			Total:       p.Total.StringFixed(2),
			BillNumber:  p.BillNumber,
		})
	}
	return data
}

func parseID(w http.ResponseWriter, r *http.Request) (uint, bool) {
	idStr := r.URL.Query().Get("id")
	id, err := strconv.Atoi(idStr)
	if err != nil || id <= 0 {
		httpx.JSONError(w, http.StatusBadRequest, "invalid_id", nil)
		return 0, false
	}
	return uint(id), true
}
