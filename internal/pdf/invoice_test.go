package pdf_test

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/shopbill/billing-app/internal/pdf"
)

func sampleData() pdf.InvoiceData {
	return pdf.InvoiceData{
		ShopName:      "Sharma General Store",
		BillNumber:    "INV-20240305-001",
		Date:          "05. March, 2024",
		CustomerName:  "Ravi",
		CustomerPhone: "9000000001",
		Status:        "pending",
		GSTNumber:     "22AAAAA0000A1Z5",
		BankName:      "State Bank",
		Items: []pdf.LineItem{
			{Description: "Basmati Rice", Quantity: 2, Price: "120.00", Total: "240.00"},
		},
		Subtotal:      "240.00",
		Tax:           "12.00",
		Discount:      "4.80",
		Total:         "247.20",
		PendingAmount: "154.50",
		PendingItems: []pdf.PendingItem{
			{Description: "Ghee", Qty: 1, Price: "550.00", Total: "550.00", BillNumber: "INV-20240301-002"},
		},
		ThankYou: "Thank you for paying ₹100.00",
	}
}

func TestGenerateProducesPDF(t *testing.T) {
	doc, err := pdf.Generate(sampleData())
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	if !bytes.HasPrefix(doc, []byte("%PDF")) {
		t.Fatalf("output is not a PDF, starts with %q", doc[:8])
	}
}

func TestRendererWritesUnderMediaDir(t *testing.T) {
	mediaDir := t.TempDir()
	r := pdf.NewRenderer(mediaDir)

	rel, err := r.Render(sampleData())
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if rel != filepath.Join("invoices", "invoice_INV-20240305-001.pdf") {
		t.Fatalf("rel path = %q", rel)
	}
	info, err := os.Stat(filepath.Join(mediaDir, rel))
	if err != nil {
		t.Fatalf("stat artifact: %v", err)
	}
	if info.Size() == 0 {
		t.Fatalf("empty artifact")
	}

	// Rendering again overwrites rather than erroring.
	if _, err := r.Render(sampleData()); err != nil {
		t.Fatalf("second render: %v", err)
	}
}

func TestGenerateMinimalData(t *testing.T) {
	doc, err := pdf.Generate(pdf.InvoiceData{
		BillNumber:   "INV-20240305-002",
		CustomerName: "Asha",
		Subtotal:     "0.00",
		Tax:          "0.00",
		Discount:     "0.00",
		Total:        "0.00",
	})
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	if len(doc) == 0 {
		t.Fatalf("empty document")
	}
}
