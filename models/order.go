package models

import "time"

// Order statuses. There is no transition table beyond the cancellation
// guard; privileged callers may set any value.
const (
	OrderPending    = "pending"
	OrderConfirmed  = "confirmed"
	OrderProcessing = "processing"
	OrderShipped    = "shipped"
	OrderDelivered  = "delivered"
	OrderCancelled  = "cancelled"
	OrderRefunded   = "refunded"
)

// Payment statuses.
const (
	PaymentPending           = "pending"
	PaymentPaid              = "paid"
	PaymentFailed            = "failed"
	PaymentRefunded          = "refunded"
	PaymentPartiallyRefunded = "partially_refunded"
)

// Fulfillment statuses.
const (
	FulfillmentUnfulfilled = "unfulfilled"
	FulfillmentFulfilled   = "fulfilled"
)

// OrderItem carries copied name/price/sku so historical orders are not
// altered by later catalog changes.
type OrderItem struct {
	ProductID string  `json:"productId" bson:"productId"`
	Name      string  `json:"name" bson:"name"`
	SKU       string  `json:"sku,omitempty" bson:"sku,omitempty"`
	Variant   string  `json:"variant,omitempty" bson:"variant,omitempty"`
	Quantity  int     `json:"quantity" bson:"quantity"`
	Price     float64 `json:"price" bson:"price"`
}

// TimelineEntry is one append-only audit record; every status change adds
// exactly one.
type TimelineEntry struct {
	Status    string    `json:"status" bson:"status"`
	Note      string    `json:"note,omitempty" bson:"note,omitempty"`
	Timestamp time.Time `json:"timestamp" bson:"timestamp"`
	Actor     string    `json:"actor,omitempty" bson:"actor,omitempty"`
}

type Address struct {
	Name    string `json:"name,omitempty" bson:"name,omitempty"`
	Line1   string `json:"line1,omitempty" bson:"line1,omitempty"`
	Line2   string `json:"line2,omitempty" bson:"line2,omitempty"`
	City    string `json:"city,omitempty" bson:"city,omitempty"`
	State   string `json:"state,omitempty" bson:"state,omitempty"`
	Zip     string `json:"zip,omitempty" bson:"zip,omitempty"`
	Country string `json:"country,omitempty" bson:"country,omitempty"`
	Phone   string `json:"phone,omitempty" bson:"phone,omitempty"`
}

type PaymentDetails struct {
	TransactionID string    `json:"transactionId,omitempty" bson:"transactionId,omitempty"`
	Provider      string    `json:"provider,omitempty" bson:"provider,omitempty"`
	CardLast4     string    `json:"cardLast4,omitempty" bson:"cardLast4,omitempty"`
	PaidAt        time.Time `json:"paidAt,omitempty" bson:"paidAt,omitempty"`
}

type Tracking struct {
	Carrier string `json:"carrier,omitempty" bson:"carrier,omitempty"`
	Number  string `json:"number,omitempty" bson:"number,omitempty"`
	URL     string `json:"url,omitempty" bson:"url,omitempty"`
}

type Refund struct {
	Amount   float64   `json:"amount" bson:"amount"`
	Reason   string    `json:"reason,omitempty" bson:"reason,omitempty"`
	IssuedAt time.Time `json:"issuedAt" bson:"issuedAt"`
	IssuedBy string    `json:"issuedBy,omitempty" bson:"issuedBy,omitempty"`
}

// Order is an immutable priced snapshot with a mutable status/audit trail.
// Totals are derived once at creation and never recomputed.
type Order struct {
	OrderID     string `json:"orderId" bson:"orderId"`
	OrderNumber string `json:"orderNumber" bson:"orderNumber"`
	UserID      string `json:"userId" bson:"userId"`

	Items    []OrderItem `json:"items" bson:"items"`
	Subtotal float64     `json:"subtotal" bson:"subtotal"`
	Tax      float64     `json:"tax" bson:"tax"`
	Shipping float64     `json:"shipping" bson:"shipping"`
	Discount float64     `json:"discount" bson:"discount"`
	Total    float64     `json:"total" bson:"total"`
	Currency string      `json:"currency" bson:"currency"`

	Status            string          `json:"status" bson:"status"`
	PaymentStatus     string          `json:"paymentStatus" bson:"paymentStatus"`
	PaymentMethod     string          `json:"paymentMethod" bson:"paymentMethod"`
	PaymentDetails    *PaymentDetails `json:"paymentDetails,omitempty" bson:"paymentDetails,omitempty"`
	FulfillmentStatus string          `json:"fulfillmentStatus" bson:"fulfillmentStatus"`

	ShippingAddress Address   `json:"shippingAddress" bson:"shippingAddress"`
	BillingAddress  *Address  `json:"billingAddress,omitempty" bson:"billingAddress,omitempty"`
	Tracking        *Tracking `json:"tracking,omitempty" bson:"tracking,omitempty"`

	Timeline []TimelineEntry `json:"timeline" bson:"timeline"`
	Refunds  []Refund        `json:"refunds,omitempty" bson:"refunds,omitempty"`
	Notes    string          `json:"notes,omitempty" bson:"notes,omitempty"`

	CreatedAt time.Time `json:"createdAt" bson:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt" bson:"updatedAt"`
}
