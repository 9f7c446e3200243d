package services_test

import (
	"errors"
	"testing"
	"time"

	"github.com/shopbill/billing-app/internal/models"
	"github.com/shopbill/billing-app/internal/services"
)

func TestPendingAmountCarriedForwardNotCharged(t *testing.T) {
	gdb := setupTestDB(t)
	svc := services.NewInvoiceService(gdb)
	item := mustItem(t, gdb, "Rice", "50.00", 100)

	first := mustCreateInvoice(t, svc, services.CreateInvoiceInput{
		CustomerName: "Ravi",
		Lines:        []services.CreateInvoiceLine{{ItemID: item.ID, Quantity: 3}},
	})
	// first stays pending; its total is 150.00 + 7.50 - 3.00 = 154.50

	second, pending, err := svc.Create(services.CreateInvoiceInput{
		CustomerName: "Ravi",
		Lines:        []services.CreateInvoiceLine{{ItemID: item.ID, Quantity: 1}},
	})
	if err != nil {
		t.Fatalf("create second: %v", err)
	}

	if !second.PendingAmount.Equal(first.Total) {
		t.Fatalf("pending amount = %s, want %s", second.PendingAmount, first.Total)
	}
	// The carried-forward balance never enters the new invoice's total.
	wantTotal := second.Subtotal.Add(second.Tax).Sub(second.Discount)
	if !second.Total.Equal(wantTotal) {
		t.Fatalf("total = %s includes pending, want %s", second.Total, wantTotal)
	}
	if len(pending.Lines) != 1 {
		t.Fatalf("pending lines = %d, want 1", len(pending.Lines))
	}
	if pending.Lines[0].BillNumber != first.BillNumber {
		t.Fatalf("pending line tagged %s, want %s", pending.Lines[0].BillNumber, first.BillNumber)
	}
	if pending.Lines[0].Description != "Rice" || pending.Lines[0].Qty != 3 {
		t.Fatalf("pending line = %+v", pending.Lines[0])
	}
}

func TestPendingMatchNarrowedByPhone(t *testing.T) {
	gdb := setupTestDB(t)
	svc := services.NewInvoiceService(gdb)
	item := mustItem(t, gdb, "Rice", "50.00", 100)

	mustCreateInvoice(t, svc, services.CreateInvoiceInput{
		CustomerName:  "Ravi",
		CustomerPhone: "9000000001",
		Lines:         []services.CreateInvoiceLine{{ItemID: item.ID, Quantity: 1}},
	})

	// Same name, different phone: no carry-forward.
	other := mustCreateInvoice(t, svc, services.CreateInvoiceInput{
		CustomerName:  "Ravi",
		CustomerPhone: "9000000002",
		Lines:         []services.CreateInvoiceLine{{ItemID: item.ID, Quantity: 1}},
	})
	if !other.PendingAmount.IsZero() {
		t.Fatalf("pending amount = %s, want 0 for different phone", other.PendingAmount)
	}
}

func TestThankYouMessageFromLastPaid(t *testing.T) {
	gdb := setupTestDB(t)
	svc := services.NewInvoiceService(gdb)
	item := mustItem(t, gdb, "Rice", "50.00", 100)

	first := mustCreateInvoice(t, svc, services.CreateInvoiceInput{
		CustomerName: "Ravi",
		Lines:        []services.CreateInvoiceLine{{ItemID: item.ID, Quantity: 2}},
	})
	if _, err := svc.UpdateStatus(first.ID, models.InvoiceStatusPaid); err != nil {
		t.Fatalf("mark paid: %v", err)
	}

	second := mustCreateInvoice(t, svc, services.CreateInvoiceInput{
		CustomerName: "Ravi",
		Lines:        []services.CreateInvoiceLine{{ItemID: item.ID, Quantity: 1}},
	})
	want := "Thank you for paying ₹" + first.Total.StringFixed(2)
	if second.ThankYouMessage != want {
		t.Fatalf("thank you = %q, want %q", second.ThankYouMessage, want)
	}
	// Nothing pending anymore, so no carry-forward either.
	if !second.PendingAmount.IsZero() {
		t.Fatalf("pending amount = %s, want 0", second.PendingAmount)
	}
}

func TestPaidCascadeClearsEarlierPending(t *testing.T) {
	gdb := setupTestDB(t)
	svc := services.NewInvoiceService(gdb)
	item := mustItem(t, gdb, "Rice", "50.00", 100)

	mk := func(name string) *models.Invoice {
		inv := mustCreateInvoice(t, svc, services.CreateInvoiceInput{
			CustomerName: name,
			Lines:        []services.CreateInvoiceLine{{ItemID: item.ID, Quantity: 1}},
		})
		// Distinct created_at so ordering between invoices is unambiguous.
		time.Sleep(2 * time.Millisecond)
		return inv
	}

	p1 := mk("Asha")
	p2 := mk("Asha")
	bystander := mk("Ravi")

	if _, err := svc.UpdateStatus(p2.ID, models.InvoiceStatusPaid); err != nil {
		t.Fatalf("mark paid: %v", err)
	}

	var r1, r2, r3 models.Invoice
	gdb.First(&r1, p1.ID)
	gdb.First(&r2, p2.ID)
	gdb.First(&r3, bystander.ID)
	if r1.Status != models.InvoiceStatusPaid {
		t.Fatalf("earlier invoice status = %s, want paid via cascade", r1.Status)
	}
	if r2.Status != models.InvoiceStatusPaid {
		t.Fatalf("paid invoice status = %s", r2.Status)
	}
	if r3.Status != models.InvoiceStatusPending {
		t.Fatalf("other customer's invoice status = %s, want pending", r3.Status)
	}
	// The cascade flips status only; monetary fields stay as created.
	if !r1.Total.Equal(p1.Total) || !r1.PendingAmount.Equal(p1.PendingAmount) {
		t.Fatalf("cascade rewrote monetary fields: %+v", r1)
	}
}

func TestCancelDoesNotCascade(t *testing.T) {
	gdb := setupTestDB(t)
	svc := services.NewInvoiceService(gdb)
	item := mustItem(t, gdb, "Rice", "50.00", 100)

	p1 := mustCreateInvoice(t, svc, services.CreateInvoiceInput{
		CustomerName: "Asha",
		Lines:        []services.CreateInvoiceLine{{ItemID: item.ID, Quantity: 1}},
	})
	time.Sleep(2 * time.Millisecond)
	p2 := mustCreateInvoice(t, svc, services.CreateInvoiceInput{
		CustomerName: "Asha",
		Lines:        []services.CreateInvoiceLine{{ItemID: item.ID, Quantity: 1}},
	})

	if _, err := svc.UpdateStatus(p2.ID, models.InvoiceStatusCancelled); err != nil {
		t.Fatalf("cancel: %v", err)
	}
	var r1 models.Invoice
	gdb.First(&r1, p1.ID)
	if r1.Status != models.InvoiceStatusPending {
		t.Fatalf("cancel cascaded: earlier invoice = %s", r1.Status)
	}
}

func TestStatusTransitionsAreTerminal(t *testing.T) {
	gdb := setupTestDB(t)
	svc := services.NewInvoiceService(gdb)
	item := mustItem(t, gdb, "Rice", "50.00", 100)

	inv := mustCreateInvoice(t, svc, services.CreateInvoiceInput{
		CustomerName: "Ravi",
		Lines:        []services.CreateInvoiceLine{{ItemID: item.ID, Quantity: 1}},
	})

	if _, err := svc.UpdateStatus(inv.ID, models.InvoiceStatusPaid); err != nil {
		t.Fatalf("pending->paid: %v", err)
	}
	// Same-status update is a no-op, not an error.
	if _, err := svc.UpdateStatus(inv.ID, models.InvoiceStatusPaid); err != nil {
		t.Fatalf("paid->paid should be a no-op: %v", err)
	}
	_, err := svc.UpdateStatus(inv.ID, models.InvoiceStatusCancelled)
	if !errors.Is(err, services.ErrInvalidTransition) {
		t.Fatalf("paid->cancelled err = %v, want ErrInvalidTransition", err)
	}
	_, err = svc.UpdateStatus(inv.ID, models.InvoiceStatusPending)
	if !errors.Is(err, services.ErrInvalidTransition) {
		t.Fatalf("paid->pending err = %v, want ErrInvalidTransition", err)
	}
}

func TestUpdateStatusValidation(t *testing.T) {
	gdb := setupTestDB(t)
	svc := services.NewInvoiceService(gdb)

	_, err := svc.UpdateStatus(1, "shipped")
	var ve *services.ValidationError
	if !errors.As(err, &ve) {
		t.Fatalf("err = %v, want ValidationError", err)
	}

	_, err = svc.UpdateStatus(424242, models.InvoiceStatusPaid)
	var nfe *services.NotFoundError
	if !errors.As(err, &nfe) {
		t.Fatalf("err = %v, want NotFoundError", err)
	}
}
