package cart

import (
	"testing"

	"mercato/models"
)

func TestRecomputeDerivedFields(t *testing.T) {
	c := &models.Cart{
		Items: []models.CartItem{
			{ItemID: "a", ProductID: "p1", Quantity: 2, Price: 50},
			{ItemID: "b", ProductID: "p2", Quantity: 3, Price: 9.99},
		},
	}

	Recompute(c)

	if c.ItemCount != 5 {
		t.Errorf("Expected itemCount 5, got %d", c.ItemCount)
	}
	if c.Subtotal != 129.97 {
		t.Errorf("Expected subtotal 129.97, got %v", c.Subtotal)
	}
}

func TestRecomputeEmptyCart(t *testing.T) {
	c := &models.Cart{Items: []models.CartItem{}, ItemCount: 7, Subtotal: 99}

	Recompute(c)

	if c.ItemCount != 0 || c.Subtotal != 0 {
		t.Errorf("Expected zeroed derived fields, got count=%d subtotal=%v", c.ItemCount, c.Subtotal)
	}
}

func TestValidateStock(t *testing.T) {
	tracked := models.Product{IsAvailable: true, TrackQuantity: true, Quantity: 3}

	if err := ValidateStock(tracked, 3); err != nil {
		t.Errorf("Expected quantity at stock limit to pass, got %v", err)
	}
	if err := ValidateStock(tracked, 5); err != ErrInsufficientStock {
		t.Errorf("Expected ErrInsufficientStock, got %v", err)
	}

	unavailable := models.Product{IsAvailable: false, TrackQuantity: true, Quantity: 3}
	if err := ValidateStock(unavailable, 1); err != ErrUnavailable {
		t.Errorf("Expected ErrUnavailable, got %v", err)
	}

	untracked := models.Product{IsAvailable: true, TrackQuantity: false, Quantity: 0}
	if err := ValidateStock(untracked, 100); err != nil {
		t.Errorf("Expected untracked product to ignore quantity, got %v", err)
	}
}

func TestMergeItemsSumsMatchingLines(t *testing.T) {
	user := []models.CartItem{
		{ItemID: "u1", ProductID: "p1", Variant: "red", Quantity: 1, Price: 10},
	}
	guest := []models.CartItem{
		{ItemID: "g1", ProductID: "p1", Variant: "red", Quantity: 2, Price: 10},
		{ItemID: "g2", ProductID: "p2", Quantity: 1, Price: 5},
	}

	merged := MergeItems(user, guest)

	if len(merged) != 2 {
		t.Fatalf("Expected 2 lines after merge, got %d", len(merged))
	}
	if merged[0].Quantity != 3 {
		t.Errorf("Expected summed quantity 3, got %d", merged[0].Quantity)
	}
	if merged[1].ProductID != "p2" || merged[1].Quantity != 1 {
		t.Errorf("Expected appended guest line, got %+v", merged[1])
	}
}

func TestMergeItemsVariantMismatchAppends(t *testing.T) {
	user := []models.CartItem{
		{ItemID: "u1", ProductID: "p1", Variant: "red", Quantity: 1, Price: 10},
	}
	guest := []models.CartItem{
		{ItemID: "g1", ProductID: "p1", Variant: "blue", Quantity: 2, Price: 10},
	}

	merged := MergeItems(user, guest)

	if len(merged) != 2 {
		t.Fatalf("Expected variant mismatch to append, got %d lines", len(merged))
	}
	if merged[0].Quantity != 1 {
		t.Errorf("Expected user line untouched, got quantity %d", merged[0].Quantity)
	}
}

func TestMergeItemsEmptyGuest(t *testing.T) {
	user := []models.CartItem{
		{ItemID: "u1", ProductID: "p1", Quantity: 2, Price: 10},
	}

	merged := MergeItems(user, nil)

	if len(merged) != 1 || merged[0].Quantity != 2 {
		t.Errorf("Expected user items unchanged, got %+v", merged)
	}
}

func TestMergeItemsDoesNotMutateInputs(t *testing.T) {
	user := []models.CartItem{
		{ItemID: "u1", ProductID: "p1", Quantity: 1},
	}
	guest := []models.CartItem{
		{ItemID: "g1", ProductID: "p1", Quantity: 2},
	}

	_ = MergeItems(user, guest)

	if user[0].Quantity != 1 {
		t.Errorf("Expected input slice untouched, got quantity %d", user[0].Quantity)
	}
}

func TestPruneAndRepriceDropsGoneProducts(t *testing.T) {
	catalog := map[string]models.Product{
		"p1": {ProductID: "p1", IsAvailable: true, Price: 10},
		"p2": {ProductID: "p2", IsAvailable: false, Price: 5},
	}
	lookup := func(id string) (models.Product, bool, error) {
		p, ok := catalog[id]
		return p, ok, nil
	}

	c := &models.Cart{Items: []models.CartItem{
		{ItemID: "a", ProductID: "p1", Quantity: 1, Price: 10},
		{ItemID: "b", ProductID: "p2", Quantity: 1, Price: 5},
		{ItemID: "c", ProductID: "deleted", Quantity: 1, Price: 1},
	}}

	changed := PruneAndReprice(c, lookup)

	if !changed {
		t.Error("Expected prune to report a change")
	}
	if len(c.Items) != 1 || c.Items[0].ProductID != "p1" {
		t.Fatalf("Expected only the available product to survive, got %+v", c.Items)
	}
	if c.ItemCount != 1 || c.Subtotal != 10 {
		t.Errorf("Expected derived fields recomputed, got count=%d subtotal=%v", c.ItemCount, c.Subtotal)
	}
}

func TestPruneAndRepriceRefreshesStalePrice(t *testing.T) {
	lookup := func(id string) (models.Product, bool, error) {
		return models.Product{ProductID: id, IsAvailable: true, Price: 12.5}, true, nil
	}

	c := &models.Cart{Items: []models.CartItem{
		{ItemID: "a", ProductID: "p1", Quantity: 2, Price: 10},
	}}

	changed := PruneAndReprice(c, lookup)

	if !changed {
		t.Error("Expected reprice to report a change")
	}
	if c.Items[0].Price != 12.5 {
		t.Errorf("Expected captured price refreshed to 12.5, got %v", c.Items[0].Price)
	}
	if c.Subtotal != 25 {
		t.Errorf("Expected subtotal 25, got %v", c.Subtotal)
	}
}

func TestPruneAndRepriceNoChange(t *testing.T) {
	lookup := func(id string) (models.Product, bool, error) {
		return models.Product{ProductID: id, IsAvailable: true, Price: 10}, true, nil
	}

	c := &models.Cart{Items: []models.CartItem{
		{ItemID: "a", ProductID: "p1", Quantity: 1, Price: 10},
	}}

	if PruneAndReprice(c, lookup) {
		t.Error("Expected no change for an up-to-date cart")
	}
}

func TestFindItem(t *testing.T) {
	items := []models.CartItem{
		{ItemID: "a", ProductID: "p1", Variant: "red"},
		{ItemID: "b", ProductID: "p1", Variant: "blue"},
	}

	if i := FindItem(items, "p1", "blue"); i != 1 {
		t.Errorf("Expected index 1, got %d", i)
	}
	if i := FindItem(items, "p1", "green"); i != -1 {
		t.Errorf("Expected -1 for unknown variant, got %d", i)
	}
	if i := FindItemByID(items, "a"); i != 0 {
		t.Errorf("Expected index 0, got %d", i)
	}
	if i := FindItemByID(items, "zzz"); i != -1 {
		t.Errorf("Expected -1 for unknown item id, got %d", i)
	}
}
