package httpx_test

import (
	"encoding/json"
	"net/http/httptest"
	"testing"

	"github.com/shopbill/billing-app/internal/httpx"
)

func TestJSONWritesStatusAndBody(t *testing.T) {
	rr := httptest.NewRecorder()
	httpx.JSON(rr, 201, map[string]string{"ok": "yes"})
	if rr.Code != 201 {
		t.Fatalf("status = %d", rr.Code)
	}
	if ct := rr.Header().Get("Content-Type"); ct != "application/json" {
		t.Fatalf("content type = %q", ct)
	}
	var body map[string]string
	if err := json.Unmarshal(rr.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if body["ok"] != "yes" {
		t.Fatalf("body = %v", body)
	}
}

func TestJSONNilPayload(t *testing.T) {
	rr := httptest.NewRecorder()
	httpx.JSON(rr, 204, nil)
	if rr.Body.String() != "null" {
		t.Fatalf("body = %q", rr.Body.String())
	}
}

func TestJSONErrorShape(t *testing.T) {
	rr := httptest.NewRecorder()
	httpx.JSONError(rr, 409, "insufficient_stock", map[string]int{"available": 2})
	var body httpx.ErrorResponse
	if err := json.Unmarshal(rr.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if body.Error != "insufficient_stock" {
		t.Fatalf("error = %q", body.Error)
	}
	if body.Details == nil {
		t.Fatalf("details dropped")
	}
}
