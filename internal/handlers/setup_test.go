package handlers_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/shopbill/billing-app/internal/handlers"
)

func TestSetupRoundTrip(t *testing.T) {
	gdb := setupTestDB(t)
	h := handlers.NewSetupHandler(gdb)

	rr := httptest.NewRecorder()
	h.Handle(rr, httptest.NewRequest(http.MethodGet, "/setup", nil))
	if rr.Code != http.StatusOK {
		t.Fatalf("get status = %d", rr.Code)
	}
	if decodeBody(t, rr)["configured"] != false {
		t.Fatalf("fresh db should report configured=false: %s", rr.Body.String())
	}

	rr = postJSON(t, h.Handle, "/setup", map[string]any{
		"shop_name":           "Sharma General Store",
		"gst_number":          "22AAAAA0000A1Z5",
		"account_number":      "1234567890",
		"bank_name":           "State Bank",
		"account_holder_name": "R. Sharma",
	})
	if rr.Code != http.StatusOK {
		t.Fatalf("post status = %d, body = %s", rr.Code, rr.Body.String())
	}

	rr = httptest.NewRecorder()
	h.Handle(rr, httptest.NewRequest(http.MethodGet, "/setup", nil))
	body := decodeBody(t, rr)
	if body["configured"] != true {
		t.Fatalf("configured = %v", body["configured"])
	}
	profile, _ := body["profile"].(map[string]any)
	if profile["shop_name"] != "Sharma General Store" {
		t.Fatalf("profile = %v", profile)
	}

	// A second POST updates the same row instead of adding one.
	rr = postJSON(t, h.Handle, "/setup", map[string]any{"shop_name": "Sharma Stores"})
	if rr.Code != http.StatusOK {
		t.Fatalf("second post status = %d", rr.Code)
	}
	var count int64
	gdb.Table("shop_profiles").Count(&count)
	if count != 1 {
		t.Fatalf("profile rows = %d, want 1", count)
	}
}

func TestSetupValidation(t *testing.T) {
	gdb := setupTestDB(t)
	h := handlers.NewSetupHandler(gdb)

	rr := postJSON(t, h.Handle, "/setup", map[string]any{"shop_name": ""})
	if rr.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rr.Code)
	}
}

func TestCustomerEndpoints(t *testing.T) {
	gdb := setupTestDB(t)
	h := handlers.NewCustomerHandler(gdb)

	rr := postJSON(t, h.Create, "/customers", map[string]any{"name": "Ravi Kumar", "phone": "9000000001"})
	if rr.Code != http.StatusCreated {
		t.Fatalf("create status = %d, body = %s", rr.Code, rr.Body.String())
	}

	rr = postJSON(t, h.Create, "/customers", map[string]any{"name": ""})
	if rr.Code != http.StatusBadRequest {
		t.Fatalf("validation status = %d, want 400", rr.Code)
	}

	rr = httptest.NewRecorder()
	h.List(rr, httptest.NewRequest(http.MethodGet, "/customers?search=ravi", nil))
	if rr.Code != http.StatusOK {
		t.Fatalf("list status = %d", rr.Code)
	}
	body := decodeBody(t, rr)
	items, _ := body["items"].([]any)
	if len(items) != 1 {
		t.Fatalf("items = %v", body["items"])
	}
}
