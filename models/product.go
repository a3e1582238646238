package models

import "time"

// Product is a catalog entry. Quantity and the sales counters are only
// mutated by the order flow (decrement on checkout, inverse on cancel).
type Product struct {
	ProductID     string   `json:"productid" bson:"productid"`
	Name          string   `json:"name" bson:"name"`
	Description   string   `json:"description,omitempty" bson:"description,omitempty"`
	SKU           string   `json:"sku,omitempty" bson:"sku,omitempty"`
	Category      string   `json:"category,omitempty" bson:"category,omitempty"`
	Price         float64  `json:"price" bson:"price"`
	Quantity      int      `json:"quantity" bson:"quantity"`
	TrackQuantity bool     `json:"trackQuantity" bson:"trackQuantity"`
	IsAvailable   bool     `json:"isAvailable" bson:"isAvailable"`
	Variants      []string `json:"variants,omitempty" bson:"variants,omitempty"`
	Images        []string `json:"images,omitempty" bson:"images,omitempty"`

	// Aggregate sales counters.
	UnitsSold int     `json:"unitsSold" bson:"unitsSold"`
	Revenue   float64 `json:"revenue" bson:"revenue"`

	CreatedBy string    `json:"createdBy,omitempty" bson:"createdBy,omitempty"`
	CreatedAt time.Time `json:"createdAt" bson:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt" bson:"updatedAt"`
}
