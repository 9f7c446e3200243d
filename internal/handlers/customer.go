package handlers

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/shopbill/billing-app/internal/httpx"
	"github.com/shopbill/billing-app/internal/models"
	"github.com/shopbill/billing-app/internal/validation"

	"gorm.io/gorm"
)

// CustomerHandler serves the optional customer directory. Invoices do not
// reference it; it only backs name/phone lookups in the client.
type CustomerHandler struct {
	DB *gorm.DB
}

func NewCustomerHandler(db *gorm.DB) *CustomerHandler { return &CustomerHandler{DB: db} }

// List: GET /customers?search=...
func (h *CustomerHandler) List(w http.ResponseWriter, r *http.Request) {
	q := h.DB.Order("name asc")
	if s := strings.TrimSpace(r.URL.Query().Get("search")); s != "" {
		like := "%" + strings.ToLower(s) + "%"
		q = q.Where("lower(name) LIKE ? OR phone LIKE ?", like, like)
	}
	var customers []models.Customer
	if err := q.Find(&customers).Error; err != nil {
		httpx.JSONError(w, http.StatusInternalServerError, "failed_to_list_customers", nil)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]any{"items": customers, "total": len(customers)})
}

// Create: POST /customers
func (h *CustomerHandler) Create(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Name    string `json:"name"`
		Phone   string `json:"phone"`
		Address string `json:"address"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		httpx.JSONError(w, http.StatusBadRequest, "invalid_json", nil)
		return
	}
	v := validation.Violations{}
	validation.Required("name", body.Name, v)
	validation.MaxLen("name", body.Name, 100, v)
	validation.MaxLen("phone", body.Phone, 15, v)
	if !v.Empty() {
		httpx.JSONError(w, http.StatusBadRequest, "validation_failed", v)
		return
	}
	c := models.Customer{Name: strings.TrimSpace(body.Name), Phone: strings.TrimSpace(body.Phone), Address: body.Address}
	if err := h.DB.Create(&c).Error; err != nil {
		httpx.JSONError(w, http.StatusInternalServerError, "customer_create_failed", nil)
		return
	}
	httpx.JSON(w, http.StatusCreated, c)
}
