package cart

import (
	"errors"

	"mercato/models"
	"mercato/utils"
)

var (
	ErrUnavailable       = errors.New("product is not available")
	ErrInsufficientStock = errors.New("insufficient stock")
)

// ValidateStock checks availability and, when quantity is tracked, that the
// requested quantity fits current stock.
func ValidateStock(p models.Product, quantity int) error {
	if !p.IsAvailable {
		return ErrUnavailable
	}
	if p.TrackQuantity && quantity > p.Quantity {
		return ErrInsufficientStock
	}
	return nil
}

// Recompute rebuilds the derived fields from the item list. Called before
// every persist; derived fields are never trusted from prior state.
func Recompute(c *models.Cart) {
	count := 0
	subtotal := 0.0
	for _, it := range c.Items {
		count += it.Quantity
		subtotal += it.Price * float64(it.Quantity)
	}
	c.ItemCount = count
	c.Subtotal = utils.RoundMoney(subtotal)
}

// FindItem returns the index of the line matching (product, variant), or -1.
func FindItem(items []models.CartItem, productID, variant string) int {
	for i, it := range items {
		if it.ProductID == productID && it.Variant == variant {
			return i
		}
	}
	return -1
}

// FindItemByID returns the index of the line with the given item id, or -1.
func FindItemByID(items []models.CartItem, itemID string) int {
	for i, it := range items {
		if it.ItemID == itemID {
			return i
		}
	}
	return -1
}

// MergeItems folds guest lines into the user's lines: a matching
// (product, variant) pair sums quantities, anything else is appended as-is.
// Combined quantities are not re-validated against stock; checkout catches
// oversell later.
func MergeItems(userItems, guestItems []models.CartItem) []models.CartItem {
	merged := append([]models.CartItem(nil), userItems...)
	for _, g := range guestItems {
		if i := FindItem(merged, g.ProductID, g.Variant); i >= 0 {
			merged[i].Quantity += g.Quantity
		} else {
			merged = append(merged, g)
		}
	}
	return merged
}

// PruneAndReprice drops lines whose product is gone or unavailable and
// refreshes captured prices that diverge from the live catalog. Returns true
// when anything changed. A lookup error keeps the line untouched rather than
// silently dropping it. The lookup indirection keeps this testable without
// storage.
func PruneAndReprice(c *models.Cart, lookup func(productID string) (models.Product, bool, error)) bool {
	changed := false
	kept := c.Items[:0]
	for _, it := range c.Items {
		p, ok, err := lookup(it.ProductID)
		if err != nil {
			kept = append(kept, it)
			continue
		}
		if !ok || !p.IsAvailable {
			changed = true
			continue
		}
		if it.Price != p.Price {
			it.Price = p.Price
			changed = true
		}
		kept = append(kept, it)
	}
	c.Items = kept
	if changed {
		Recompute(c)
	}
	return changed
}
