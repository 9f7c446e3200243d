package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/shopbill/billing-app/internal/httpx"
	"github.com/shopbill/billing-app/internal/services"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type ItemHandler struct {
	DB  *gorm.DB
	Svc *services.CatalogService
}

func NewItemHandler(db *gorm.DB, svc *services.CatalogService) *ItemHandler {
	return &ItemHandler{DB: db, Svc: svc}
}

type itemBody struct {
	Name  string          `json:"name"`
	Price decimal.Decimal `json:"price"`
	Stock int             `json:"stock"`
}

// List: GET /items?search=...
func (h *ItemHandler) List(w http.ResponseWriter, r *http.Request) {
	items, err := h.Svc.ListItems(r.URL.Query().Get("search"))
	if err != nil {
		writeServiceError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]any{"items": items, "total": len(items)})
}

// Create: POST /items
func (h *ItemHandler) Create(w http.ResponseWriter, r *http.Request) {
	var body itemBody
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		httpx.JSONError(w, http.StatusBadRequest, "invalid_json", nil)
		return
	}
	item, err := h.Svc.CreateItem(services.ItemInput{Name: body.Name, Price: body.Price, Stock: body.Stock})
	if err != nil {
		writeServiceError(w, err)
		return
	}
	httpx.JSON(w, http.StatusCreated, item)
}

// Update: POST /items/update?id=...
func (h *ItemHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, r)
	if !ok {
		return
	}
	var body itemBody
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		httpx.JSONError(w, http.StatusBadRequest, "invalid_json", nil)
		return
	}
	item, err := h.Svc.UpdateItem(id, services.ItemInput{Name: body.Name, Price: body.Price, Stock: body.Stock})
	if err != nil {
		writeServiceError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, item)
}

// Delete: POST /items/delete?id=... – rejected while any invoice line
// references the item.
func (h *ItemHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, r)
	if !ok {
		return
	}
	if err := h.Svc.DeleteItem(id); err != nil {
		writeServiceError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]any{"deleted": id})
}
