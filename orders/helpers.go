package orders

import (
	"fmt"
	"time"

	"mercato/models"
	"mercato/utils"
)

const (
	taxRate         = 0.08
	freeShippingMin = 100.0
	flatShipping    = 10.0
	currency        = "USD"
)

// ComputeTotals derives tax, shipping and total from a subtotal. Orders at
// or above the free-shipping minimum ship free (inclusive boundary).
func ComputeTotals(subtotal float64) (tax, shipping, total float64) {
	tax = utils.RoundMoney(subtotal * taxRate)
	shipping = flatShipping
	if subtotal >= freeShippingMin {
		shipping = 0
	}
	total = utils.RoundMoney(subtotal + tax + shipping)
	return
}

// OrderNumber builds the human-readable sequential number from the current
// document count and a timestamp. Assigned exactly once at creation.
func OrderNumber(count int64, t time.Time) string {
	return fmt.Sprintf("ORD-%s-%05d", t.Format("20060102"), count+1)
}

// CanCancel reports whether an order in the given status may still be
// cancelled.
func CanCancel(status string) bool {
	switch status {
	case models.OrderShipped, models.OrderDelivered, models.OrderCancelled:
		return false
	}
	return true
}

func validOrderStatus(s string) bool {
	switch s {
	case models.OrderPending, models.OrderConfirmed, models.OrderProcessing,
		models.OrderShipped, models.OrderDelivered, models.OrderCancelled,
		models.OrderRefunded:
		return true
	}
	return false
}

func validPaymentStatus(s string) bool {
	switch s {
	case models.PaymentPending, models.PaymentPaid, models.PaymentFailed,
		models.PaymentRefunded, models.PaymentPartiallyRefunded:
		return true
	}
	return false
}

// AppendTimeline records one audit entry; every transition appends exactly
// one.
func AppendTimeline(o *models.Order, status, note, actor string) {
	o.Timeline = append(o.Timeline, models.TimelineEntry{
		Status:    status,
		Note:      note,
		Timestamp: time.Now(),
		Actor:     actor,
	})
}

// ApplyStatus sets the order status, defaults the note, marks fulfillment
// for shipped/delivered, and appends the timeline entry.
func ApplyStatus(o *models.Order, status, note, actor string) {
	o.Status = status
	if note == "" {
		note = "Order status updated to " + status
	}
	if status == models.OrderShipped || status == models.OrderDelivered {
		o.FulfillmentStatus = models.FulfillmentFulfilled
	}
	AppendTimeline(o, status, note, actor)
	o.UpdatedAt = time.Now()
}

// ApplyPaymentStatus sets the payment status, merges supplied payment
// details, and auto-confirms a still-pending order on successful payment
// (which appends a second timeline entry).
func ApplyPaymentStatus(o *models.Order, paymentStatus string, details *models.PaymentDetails, actor string) {
	o.PaymentStatus = paymentStatus
	if details != nil {
		merged := models.PaymentDetails{}
		if o.PaymentDetails != nil {
			merged = *o.PaymentDetails
		}
		if details.TransactionID != "" {
			merged.TransactionID = details.TransactionID
		}
		if details.Provider != "" {
			merged.Provider = details.Provider
		}
		if details.CardLast4 != "" {
			merged.CardLast4 = details.CardLast4
		}
		if !details.PaidAt.IsZero() {
			merged.PaidAt = details.PaidAt
		}
		o.PaymentDetails = &merged
	}
	AppendTimeline(o, o.Status, "Payment status updated to "+paymentStatus, actor)

	if paymentStatus == models.PaymentPaid && o.Status == models.OrderPending {
		o.Status = models.OrderConfirmed
		AppendTimeline(o, models.OrderConfirmed, "Order confirmed after successful payment", actor)
	}
	o.UpdatedAt = time.Now()
}
