package orders

import (
	"strings"
	"testing"
	"time"

	"mercato/models"
)

func TestComputeTotalsFlatShipping(t *testing.T) {
	tax, shipping, total := ComputeTotals(50)

	if tax != 4 {
		t.Errorf("Expected tax 4, got %v", tax)
	}
	if shipping != 10 {
		t.Errorf("Expected flat shipping 10, got %v", shipping)
	}
	if total != 64 {
		t.Errorf("Expected total 64, got %v", total)
	}
}

func TestComputeTotalsFreeShippingBoundary(t *testing.T) {
	// exactly 100 ships free: 100 + 8 + 0 = 108
	tax, shipping, total := ComputeTotals(100)

	if tax != 8 {
		t.Errorf("Expected tax 8, got %v", tax)
	}
	if shipping != 0 {
		t.Errorf("Expected free shipping at the boundary, got %v", shipping)
	}
	if total != 108 {
		t.Errorf("Expected total 108, got %v", total)
	}
}

func TestComputeTotalsRoundsTax(t *testing.T) {
	tax, _, total := ComputeTotals(19.99)

	if tax != 1.6 {
		t.Errorf("Expected tax rounded to 1.60, got %v", tax)
	}
	if total != 31.59 {
		t.Errorf("Expected total 31.59, got %v", total)
	}
}

func TestOrderNumberFormat(t *testing.T) {
	ts := time.Date(2025, 3, 14, 9, 30, 0, 0, time.UTC)

	got := OrderNumber(41, ts)

	if got != "ORD-20250314-00042" {
		t.Errorf("Expected ORD-20250314-00042, got %s", got)
	}
}

func TestCanCancel(t *testing.T) {
	cancellable := []string{models.OrderPending, models.OrderConfirmed, models.OrderProcessing}
	for _, s := range cancellable {
		if !CanCancel(s) {
			t.Errorf("Expected %s to be cancellable", s)
		}
	}

	blocked := []string{models.OrderShipped, models.OrderDelivered, models.OrderCancelled}
	for _, s := range blocked {
		if CanCancel(s) {
			t.Errorf("Expected %s to block cancellation", s)
		}
	}
}

func TestApplyStatusAppendsOneTimelineEntry(t *testing.T) {
	o := &models.Order{Status: models.OrderPending}

	ApplyStatus(o, models.OrderProcessing, "", "admin1")

	if o.Status != models.OrderProcessing {
		t.Errorf("Expected status processing, got %s", o.Status)
	}
	if len(o.Timeline) != 1 {
		t.Fatalf("Expected exactly one timeline entry, got %d", len(o.Timeline))
	}
	entry := o.Timeline[0]
	if entry.Note != "Order status updated to processing" {
		t.Errorf("Unexpected default note: %s", entry.Note)
	}
	if entry.Actor != "admin1" {
		t.Errorf("Expected actor admin1, got %s", entry.Actor)
	}
	if o.FulfillmentStatus == models.FulfillmentFulfilled {
		t.Error("Processing must not mark the order fulfilled")
	}
}

func TestApplyStatusShippedMarksFulfilled(t *testing.T) {
	o := &models.Order{Status: models.OrderConfirmed, FulfillmentStatus: models.FulfillmentUnfulfilled}

	ApplyStatus(o, models.OrderShipped, "On its way", "admin1")

	if o.FulfillmentStatus != models.FulfillmentFulfilled {
		t.Errorf("Expected fulfilled, got %s", o.FulfillmentStatus)
	}
	if o.Timeline[0].Note != "On its way" {
		t.Errorf("Expected explicit note kept, got %s", o.Timeline[0].Note)
	}
}

func TestApplyPaymentStatusAutoConfirms(t *testing.T) {
	o := &models.Order{Status: models.OrderPending, PaymentStatus: models.PaymentPending}

	ApplyPaymentStatus(o, models.PaymentPaid, nil, "admin1")

	if o.PaymentStatus != models.PaymentPaid {
		t.Errorf("Expected payment status paid, got %s", o.PaymentStatus)
	}
	if o.Status != models.OrderConfirmed {
		t.Errorf("Expected auto-confirm to confirmed, got %s", o.Status)
	}
	if len(o.Timeline) != 2 {
		t.Fatalf("Expected two timeline entries (payment + confirmation), got %d", len(o.Timeline))
	}
	if !strings.Contains(o.Timeline[0].Note, "paid") {
		t.Errorf("Expected payment note first, got %s", o.Timeline[0].Note)
	}
	if o.Timeline[1].Note != "Order confirmed after successful payment" {
		t.Errorf("Unexpected confirmation note: %s", o.Timeline[1].Note)
	}
}

func TestApplyPaymentStatusNoAutoConfirmWhenNotPending(t *testing.T) {
	o := &models.Order{Status: models.OrderProcessing, PaymentStatus: models.PaymentPending}

	ApplyPaymentStatus(o, models.PaymentPaid, nil, "admin1")

	if o.Status != models.OrderProcessing {
		t.Errorf("Expected status unchanged, got %s", o.Status)
	}
	if len(o.Timeline) != 1 {
		t.Errorf("Expected a single timeline entry, got %d", len(o.Timeline))
	}
}

func TestApplyPaymentStatusMergesDetails(t *testing.T) {
	o := &models.Order{
		Status:        models.OrderConfirmed,
		PaymentStatus: models.PaymentPending,
		PaymentDetails: &models.PaymentDetails{
			Provider: "stripe",
		},
	}
	paidAt := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

	ApplyPaymentStatus(o, models.PaymentPaid, &models.PaymentDetails{
		TransactionID: "txn_123",
		PaidAt:        paidAt,
	}, "admin1")

	if o.PaymentDetails.Provider != "stripe" {
		t.Errorf("Expected existing provider kept, got %s", o.PaymentDetails.Provider)
	}
	if o.PaymentDetails.TransactionID != "txn_123" {
		t.Errorf("Expected transaction id merged, got %s", o.PaymentDetails.TransactionID)
	}
	if !o.PaymentDetails.PaidAt.Equal(paidAt) {
		t.Errorf("Expected paidAt merged, got %v", o.PaymentDetails.PaidAt)
	}
}

func TestStatusValidation(t *testing.T) {
	if !validOrderStatus(models.OrderDelivered) {
		t.Error("delivered must be a valid order status")
	}
	if validOrderStatus("teleported") {
		t.Error("unknown order status must be rejected")
	}
	if !validPaymentStatus(models.PaymentPartiallyRefunded) {
		t.Error("partially_refunded must be a valid payment status")
	}
	if validPaymentStatus("iou") {
		t.Error("unknown payment status must be rejected")
	}
}
