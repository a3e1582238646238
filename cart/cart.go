package cart

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"time"

	"mercato/db"
	"mercato/identity"
	"mercato/models"
	"mercato/utils"

	"github.com/julienschmidt/httprouter"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

func identityFilter(id identity.Identity) bson.M {
	if id.IsUser() {
		return bson.M{"userId": id.UserID}
	}
	return bson.M{"sessionId": id.SessionID}
}

// loadCart returns the cart for the identity, or nil when none exists.
func loadCart(ctx context.Context, id identity.Identity) (*models.Cart, error) {
	var c models.Cart
	err := db.CartCollection.FindOne(ctx, identityFilter(id)).Decode(&c)
	if err == mongo.ErrNoDocuments {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &c, nil
}

func newCart(id identity.Identity) *models.Cart {
	now := time.Now()
	return &models.Cart{
		CartID:    "c" + utils.GenerateRandomString(10),
		UserID:    id.UserID,
		SessionID: id.SessionID,
		Items:     []models.CartItem{},
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// saveCart recomputes derived fields and upserts the document.
func saveCart(ctx context.Context, c *models.Cart) error {
	Recompute(c)
	c.UpdatedAt = time.Now()
	_, err := db.CartCollection.ReplaceOne(ctx,
		bson.M{"cartId": c.CartID}, c, options.Replace().SetUpsert(true))
	return err
}

func lookupProduct(ctx context.Context, productID string) (models.Product, bool, error) {
	var p models.Product
	err := db.ProductCollection.FindOne(ctx, bson.M{"productid": productID}).Decode(&p)
	if err == mongo.ErrNoDocuments {
		return p, false, nil
	}
	if err != nil {
		return p, false, err
	}
	return p, true, nil
}

// GetCart returns the identity's cart, pruning lines whose product is gone
// or unavailable and refreshing stale captured prices before responding.
func GetCart(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	ident := identity.FromRequest(r)
	if ident.IsZero() {
		utils.SendError(w, http.StatusBadRequest, "Session ID or authentication required")
		return
	}

	c, err := loadCart(ctx, ident)
	if err != nil {
		log.Println("GetCart load error:", err)
		utils.SendError(w, http.StatusInternalServerError, "Could not retrieve cart")
		return
	}
	if c == nil {
		// No cart yet; carts are created lazily on first add
		utils.SendResponse(w, http.StatusOK, newCart(ident), "Cart retrieved")
		return
	}

	changed := PruneAndReprice(c, func(productID string) (models.Product, bool, error) {
		p, ok, err := lookupProduct(ctx, productID)
		if err != nil {
			log.Println("GetCart product lookup error:", err)
		}
		return p, ok, err
	})
	if changed {
		if err := saveCart(ctx, c); err != nil {
			log.Println("GetCart save error:", err)
			utils.SendError(w, http.StatusInternalServerError, "Could not refresh cart")
			return
		}
	}

	utils.SendResponse(w, http.StatusOK, c, "Cart retrieved")
}

// AddToCart adds a (product, variant) line or bumps its quantity, refreshing
// the captured price from the live catalog.
func AddToCart(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	var input struct {
		ProductID string `json:"productId"`
		Quantity  int    `json:"quantity"`
		Variant   string `json:"variant"`
	}
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		utils.SendError(w, http.StatusBadRequest, "Invalid JSON payload")
		return
	}
	if input.ProductID == "" || input.Quantity < 1 {
		utils.SendError(w, http.StatusBadRequest, "Missing or invalid fields")
		return
	}

	ident := identity.FromRequest(r)
	if ident.IsZero() {
		utils.SendError(w, http.StatusBadRequest, "Session ID or authentication required")
		return
	}

	p, ok, err := lookupProduct(ctx, input.ProductID)
	if err != nil {
		log.Println("AddToCart product lookup error:", err)
		utils.SendError(w, http.StatusInternalServerError, "Could not retrieve product")
		return
	}
	if !ok {
		utils.SendError(w, http.StatusNotFound, "Product not found")
		return
	}

	c, err := loadCart(ctx, ident)
	if err != nil {
		log.Println("AddToCart load error:", err)
		utils.SendError(w, http.StatusInternalServerError, "Could not retrieve cart")
		return
	}
	if c == nil {
		c = newCart(ident)
	}

	// Cumulative quantity when the line already exists
	requested := input.Quantity
	idx := FindItem(c.Items, input.ProductID, input.Variant)
	if idx >= 0 {
		requested += c.Items[idx].Quantity
	}

	switch err := ValidateStock(p, requested); err {
	case nil:
	case ErrUnavailable:
		utils.SendError(w, http.StatusBadRequest, "Product is not available")
		return
	case ErrInsufficientStock:
		utils.SendError(w, http.StatusBadRequest, "Insufficient stock for requested quantity")
		return
	}

	if idx >= 0 {
		c.Items[idx].Quantity = requested
		c.Items[idx].Price = p.Price
	} else {
		c.Items = append(c.Items, models.CartItem{
			ItemID:    utils.GetUUID(),
			ProductID: p.ProductID,
			Name:      p.Name,
			Variant:   input.Variant,
			Quantity:  input.Quantity,
			Price:     p.Price,
			AddedAt:   time.Now(),
		})
	}

	if err := saveCart(ctx, c); err != nil {
		log.Println("AddToCart save error:", err)
		utils.SendError(w, http.StatusInternalServerError, "Failed to add to cart")
		return
	}

	utils.SendResponse(w, http.StatusCreated, c, "Item added to cart")
}

// UpdateCartItem overwrites a line's quantity after re-validating stock
// against the live product.
func UpdateCartItem(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	var input struct {
		Quantity int `json:"quantity"`
	}
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		utils.SendError(w, http.StatusBadRequest, "Invalid JSON payload")
		return
	}
	if input.Quantity < 1 {
		utils.SendError(w, http.StatusBadRequest, "Quantity must be at least 1")
		return
	}

	ident := identity.FromRequest(r)
	if ident.IsZero() {
		utils.SendError(w, http.StatusBadRequest, "Session ID or authentication required")
		return
	}

	c, err := loadCart(ctx, ident)
	if err != nil {
		log.Println("UpdateCartItem load error:", err)
		utils.SendError(w, http.StatusInternalServerError, "Could not retrieve cart")
		return
	}
	if c == nil {
		utils.SendError(w, http.StatusNotFound, "Cart not found")
		return
	}

	idx := FindItemByID(c.Items, ps.ByName("itemid"))
	if idx < 0 {
		utils.SendError(w, http.StatusNotFound, "Item not found in cart")
		return
	}

	p, ok, err := lookupProduct(ctx, c.Items[idx].ProductID)
	if err != nil {
		log.Println("UpdateCartItem product lookup error:", err)
		utils.SendError(w, http.StatusInternalServerError, "Could not retrieve product")
		return
	}
	if !ok {
		utils.SendError(w, http.StatusNotFound, "Product no longer exists")
		return
	}

	switch err := ValidateStock(p, input.Quantity); err {
	case nil:
	case ErrUnavailable:
		utils.SendError(w, http.StatusBadRequest, "Product is not available")
		return
	case ErrInsufficientStock:
		utils.SendError(w, http.StatusBadRequest, "Insufficient stock for requested quantity")
		return
	}

	c.Items[idx].Quantity = input.Quantity
	c.Items[idx].Price = p.Price

	if err := saveCart(ctx, c); err != nil {
		log.Println("UpdateCartItem save error:", err)
		utils.SendError(w, http.StatusInternalServerError, "Failed to update cart")
		return
	}

	utils.SendResponse(w, http.StatusOK, c, "Cart item updated")
}

// RemoveCartItem drops a line; removing an absent item is not an error.
func RemoveCartItem(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	ident := identity.FromRequest(r)
	if ident.IsZero() {
		utils.SendError(w, http.StatusBadRequest, "Session ID or authentication required")
		return
	}

	c, err := loadCart(ctx, ident)
	if err != nil {
		log.Println("RemoveCartItem load error:", err)
		utils.SendError(w, http.StatusInternalServerError, "Could not retrieve cart")
		return
	}
	if c == nil {
		utils.SendResponse(w, http.StatusOK, nil, "Item removed from cart")
		return
	}

	itemID := ps.ByName("itemid")
	kept := c.Items[:0]
	for _, it := range c.Items {
		if it.ItemID != itemID {
			kept = append(kept, it)
		}
	}
	c.Items = kept

	if err := saveCart(ctx, c); err != nil {
		log.Println("RemoveCartItem save error:", err)
		utils.SendError(w, http.StatusInternalServerError, "Failed to update cart")
		return
	}

	utils.SendResponse(w, http.StatusOK, c, "Item removed from cart")
}

// ClearCart empties the item list in place; the cart document survives.
func ClearCart(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	ident := identity.FromRequest(r)
	if ident.IsZero() {
		utils.SendError(w, http.StatusBadRequest, "Session ID or authentication required")
		return
	}

	c, err := loadCart(ctx, ident)
	if err != nil {
		log.Println("ClearCart load error:", err)
		utils.SendError(w, http.StatusInternalServerError, "Could not retrieve cart")
		return
	}
	if c == nil {
		utils.SendResponse(w, http.StatusOK, nil, "Cart cleared")
		return
	}

	c.Items = []models.CartItem{}

	if err := saveCart(ctx, c); err != nil {
		log.Println("ClearCart save error:", err)
		utils.SendError(w, http.StatusInternalServerError, "Failed to clear cart")
		return
	}

	utils.SendResponse(w, http.StatusOK, c, "Cart cleared")
}

// MergeCarts folds a guest session's cart into the authenticated user's cart
// at login, then deletes the guest cart. Missing or empty guest carts are a
// successful no-op.
func MergeCarts(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	var input struct {
		GuestSessionID string `json:"guestSessionId"`
	}
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		utils.SendError(w, http.StatusBadRequest, "Invalid JSON payload")
		return
	}
	if input.GuestSessionID == "" {
		utils.SendError(w, http.StatusBadRequest, "guestSessionId is required")
		return
	}

	userID := utils.GetUserIDFromRequest(r)
	if userID == "" {
		utils.SendError(w, http.StatusUnauthorized, "Authentication required")
		return
	}

	guest, err := loadCart(ctx, identity.Identity{SessionID: input.GuestSessionID})
	if err != nil {
		log.Println("MergeCarts guest load error:", err)
		utils.SendError(w, http.StatusInternalServerError, "Could not retrieve guest cart")
		return
	}
	if guest == nil || len(guest.Items) == 0 {
		utils.SendResponse(w, http.StatusOK, nil, "Nothing to merge")
		return
	}

	userIdent := identity.Identity{UserID: userID}
	c, err := loadCart(ctx, userIdent)
	if err != nil {
		log.Println("MergeCarts user load error:", err)
		utils.SendError(w, http.StatusInternalServerError, "Could not retrieve cart")
		return
	}
	if c == nil {
		c = newCart(userIdent)
	}

	c.Items = MergeItems(c.Items, guest.Items)

	if err := saveCart(ctx, c); err != nil {
		log.Println("MergeCarts save error:", err)
		utils.SendError(w, http.StatusInternalServerError, "Failed to merge carts")
		return
	}

	if _, err := db.CartCollection.DeleteOne(ctx, bson.M{"cartId": guest.CartID}); err != nil {
		log.Println("MergeCarts guest cleanup error:", err)
	}

	utils.SendResponse(w, http.StatusOK, c, "Carts merged")
}

// CartSummary returns {itemCount, subtotal}; zeros when no cart exists.
func CartSummary(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	ident := identity.FromRequest(r)
	if ident.IsZero() {
		utils.SendError(w, http.StatusBadRequest, "Session ID or authentication required")
		return
	}

	c, err := loadCart(ctx, ident)
	if err != nil {
		log.Println("CartSummary load error:", err)
		utils.SendError(w, http.StatusInternalServerError, "Could not retrieve cart")
		return
	}

	summary := models.CartSummary{}
	if c != nil {
		summary.ItemCount = c.ItemCount
		summary.Subtotal = c.Subtotal
	}

	utils.SendResponse(w, http.StatusOK, summary, "Cart summary retrieved")
}
