package models

import "time"

// CartItem is one line in a cart: at most one per (product, variant) pair.
// Price is captured at add-time and refreshed whenever the live catalog
// price diverges.
type CartItem struct {
	ItemID    string    `json:"itemId" bson:"itemId"`
	ProductID string    `json:"productId" bson:"productId"`
	Name      string    `json:"name" bson:"name"`
	Variant   string    `json:"variant,omitempty" bson:"variant,omitempty"`
	Quantity  int       `json:"quantity" bson:"quantity"`
	Price     float64   `json:"price" bson:"price"`
	AddedAt   time.Time `json:"addedAt" bson:"addedAt"`
}

// Cart is keyed by exactly one of UserID or SessionID. ItemCount and
// Subtotal are derived and recomputed before every persist.
type Cart struct {
	CartID    string     `json:"cartId" bson:"cartId"`
	UserID    string     `json:"userId,omitempty" bson:"userId,omitempty"`
	SessionID string     `json:"sessionId,omitempty" bson:"sessionId,omitempty"`
	Items     []CartItem `json:"items" bson:"items"`
	ItemCount int        `json:"itemCount" bson:"itemCount"`
	Subtotal  float64    `json:"subtotal" bson:"subtotal"`
	CreatedAt time.Time  `json:"createdAt" bson:"createdAt"`
	UpdatedAt time.Time  `json:"updatedAt" bson:"updatedAt"`
}

// CartSummary is the lightweight shape returned by GET /cart/summary.
type CartSummary struct {
	ItemCount int     `json:"itemCount"`
	Subtotal  float64 `json:"subtotal"`
}
