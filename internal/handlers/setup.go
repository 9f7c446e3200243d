package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/shopbill/billing-app/internal/httpx"
	"github.com/shopbill/billing-app/internal/models"
	"github.com/shopbill/billing-app/internal/validation"

	"gorm.io/gorm"
)

// SetupHandler manages the single shop profile whose banking/GST fields are
// copied onto invoices at creation time.
type SetupHandler struct {
	DB *gorm.DB
}

func NewSetupHandler(db *gorm.DB) *SetupHandler { return &SetupHandler{DB: db} }

func (h *SetupHandler) Handle(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		h.get(w, r)
	case http.MethodPost:
		h.put(w, r)
	default:
		w.Header().Set("Allow", "GET,POST")
		httpx.JSONError(w, http.StatusMethodNotAllowed, "method_not_allowed", nil)
	}
}

func (h *SetupHandler) get(w http.ResponseWriter, _ *http.Request) {
	var profile models.ShopProfile
	if err := h.DB.First(&profile).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			httpx.JSON(w, http.StatusOK, map[string]any{"configured": false})
			return
		}
		httpx.JSONError(w, http.StatusInternalServerError, "failed_to_load_profile", nil)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]any{"configured": true, "profile": profile})
}

func (h *SetupHandler) put(w http.ResponseWriter, r *http.Request) {
	var body struct {
		ShopName          string `json:"shop_name"`
		GSTNumber         string `json:"gst_number"`
		AccountNumber     string `json:"account_number"`
		BankName          string `json:"bank_name"`
		AccountHolderName string `json:"account_holder_name"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		httpx.JSONError(w, http.StatusBadRequest, "invalid_json", nil)
		return
	}
	v := validation.Violations{}
	validation.Required("shop_name", body.ShopName, v)
	validation.MaxLen("gst_number", body.GSTNumber, 15, v)
	validation.MaxLen("account_number", body.AccountNumber, 30, v)
	if !v.Empty() {
		httpx.JSONError(w, http.StatusBadRequest, "validation_failed", v)
		return
	}

	var profile models.ShopProfile
	err := h.DB.First(&profile).Error
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		profile = models.ShopProfile{}
	case err != nil:
		httpx.JSONError(w, http.StatusInternalServerError, "failed_to_load_profile", nil)
		return
	}
	profile.ShopName = strings.TrimSpace(body.ShopName)
	profile.GSTNumber = strings.TrimSpace(body.GSTNumber)
	profile.AccountNumber = strings.TrimSpace(body.AccountNumber)
	profile.BankName = strings.TrimSpace(body.BankName)
	profile.AccountHolderName = strings.TrimSpace(body.AccountHolderName)
	if err := h.DB.Save(&profile).Error; err != nil {
		httpx.JSONError(w, http.StatusInternalServerError, "profile_save_failed", nil)
		return
	}
	httpx.JSON(w, http.StatusOK, profile)
}
