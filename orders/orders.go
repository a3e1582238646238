package orders

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"time"

	"mercato/db"
	"mercato/models"
	"mercato/utils"

	"github.com/julienschmidt/httprouter"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

// CreateOrder converts the checkout payload into a priced order snapshot:
// validates each line against the live catalog, persists the order,
// decrements inventory per item, and deletes the customer's cart. The steps
// are sequential best-effort writes; there is no cross-step atomicity.
func CreateOrder(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 15*time.Second)
	defer cancel()

	userID := utils.GetUserIDFromRequest(r)
	if userID == "" {
		utils.SendError(w, http.StatusUnauthorized, "Authentication required")
		return
	}

	var input struct {
		Items []struct {
			ProductID string `json:"productId"`
			Quantity  int    `json:"quantity"`
			Variant   string `json:"variant"`
		} `json:"items"`
		ShippingAddress models.Address  `json:"shippingAddress"`
		BillingAddress  *models.Address `json:"billingAddress"`
		PaymentMethod   string          `json:"paymentMethod"`
		Notes           string          `json:"notes"`
	}
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		utils.SendError(w, http.StatusBadRequest, "Invalid JSON payload")
		return
	}
	if len(input.Items) == 0 {
		utils.SendError(w, http.StatusBadRequest, "Order must contain at least one item")
		return
	}
	if input.PaymentMethod == "" {
		utils.SendError(w, http.StatusBadRequest, "Payment method is required")
		return
	}

	// Price every line against the live catalog before writing anything
	var items []models.OrderItem
	var products []models.Product
	subtotal := 0.0
	for _, in := range input.Items {
		if in.ProductID == "" || in.Quantity < 1 {
			utils.SendError(w, http.StatusBadRequest, "Missing or invalid order item")
			return
		}

		var p models.Product
		err := db.ProductCollection.FindOne(ctx, bson.M{"productid": in.ProductID}).Decode(&p)
		if err == mongo.ErrNoDocuments {
			utils.SendError(w, http.StatusBadRequest, "Product not found: "+in.ProductID)
			return
		}
		if err != nil {
			log.Println("CreateOrder product lookup error:", err)
			utils.SendError(w, http.StatusInternalServerError, "Could not retrieve product")
			return
		}
		if !p.IsAvailable {
			utils.SendError(w, http.StatusBadRequest, "Product is not available: "+p.Name)
			return
		}
		if p.TrackQuantity && in.Quantity > p.Quantity {
			utils.SendError(w, http.StatusBadRequest, "Insufficient stock for "+p.Name)
			return
		}

		items = append(items, models.OrderItem{
			ProductID: p.ProductID,
			Name:      p.Name,
			SKU:       p.SKU,
			Variant:   in.Variant,
			Quantity:  in.Quantity,
			Price:     p.Price,
		})
		products = append(products, p)
		subtotal += p.Price * float64(in.Quantity)
	}
	subtotal = utils.RoundMoney(subtotal)
	tax, shipping, total := ComputeTotals(subtotal)

	count, err := db.OrderCollection.CountDocuments(ctx, bson.M{})
	if err != nil {
		log.Println("CreateOrder CountDocuments error:", err)
		utils.SendError(w, http.StatusInternalServerError, "Failed to create order")
		return
	}

	now := time.Now()
	order := models.Order{
		OrderID:           "o" + utils.GenerateRandomString(10),
		OrderNumber:       OrderNumber(count, now),
		UserID:            userID,
		Items:             items,
		Subtotal:          subtotal,
		Tax:               tax,
		Shipping:          shipping,
		Discount:          0,
		Total:             total,
		Currency:          currency,
		Status:            models.OrderPending,
		PaymentStatus:     models.PaymentPending,
		PaymentMethod:     input.PaymentMethod,
		FulfillmentStatus: models.FulfillmentUnfulfilled,
		ShippingAddress:   input.ShippingAddress,
		BillingAddress:    input.BillingAddress,
		Notes:             input.Notes,
		Timeline: []models.TimelineEntry{{
			Status:    models.OrderPending,
			Note:      "Order created",
			Timestamp: now,
			Actor:     userID,
		}},
		CreatedAt: now,
		UpdatedAt: now,
	}

	if _, err := db.OrderCollection.InsertOne(ctx, order); err != nil {
		log.Println("CreateOrder InsertOne error:", err)
		utils.SendError(w, http.StatusInternalServerError, "Order creation failed")
		return
	}

	// Per-item inventory updates; independent writes, no compensation if one
	// fails after the order is persisted.
	for i, it := range order.Items {
		update := bson.M{"$inc": bson.M{
			"unitsSold": it.Quantity,
			"revenue":   utils.RoundMoney(it.Price * float64(it.Quantity)),
		}}
		if products[i].TrackQuantity {
			update["$inc"].(bson.M)["quantity"] = -it.Quantity
		}
		if _, err := db.ProductCollection.UpdateOne(ctx, bson.M{"productid": it.ProductID}, update); err != nil {
			log.Println("CreateOrder inventory update error:", err)
		}
	}

	// The cart is consumed by checkout
	if _, err := db.CartCollection.DeleteMany(ctx, bson.M{"userId": userID}); err != nil {
		log.Println("CreateOrder cart cleanup error:", err)
	}

	utils.SendResponse(w, http.StatusCreated, order, "Order placed")
}

// CancelOrder rejects cancellation for shipped, delivered, or already
// cancelled orders; otherwise restores inventory using the order's captured
// line prices and appends the cancelled timeline entry.
func CancelOrder(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 15*time.Second)
	defer cancel()

	userID := utils.GetUserIDFromRequest(r)
	if userID == "" {
		utils.SendError(w, http.StatusUnauthorized, "Authentication required")
		return
	}

	var input struct {
		Reason string `json:"reason"`
	}
	if r.Body != nil {
		_ = json.NewDecoder(r.Body).Decode(&input)
	}

	var order models.Order
	err := db.OrderCollection.FindOne(ctx, bson.M{"orderId": ps.ByName("orderid")}).Decode(&order)
	if err == mongo.ErrNoDocuments {
		utils.SendError(w, http.StatusNotFound, "Order not found")
		return
	}
	if err != nil {
		log.Println("CancelOrder FindOne error:", err)
		utils.SendError(w, http.StatusInternalServerError, "Could not retrieve order")
		return
	}

	if order.UserID != userID && !utils.IsPrivileged(r) {
		utils.SendError(w, http.StatusForbidden, "Not allowed to cancel this order")
		return
	}
	if !CanCancel(order.Status) {
		utils.SendError(w, http.StatusBadRequest, "Order cannot be cancelled in status "+order.Status)
		return
	}

	// Restore inventory; counters reverse by the captured line price, not
	// the live catalog price. Quantity only comes back on tracked products,
	// mirroring the decrement at checkout.
	for _, it := range order.Items {
		inc := bson.M{
			"unitsSold": -it.Quantity,
			"revenue":   utils.RoundMoney(-it.Price * float64(it.Quantity)),
		}
		var p models.Product
		if err := db.ProductCollection.FindOne(ctx, bson.M{"productid": it.ProductID}).Decode(&p); err == nil && p.TrackQuantity {
			inc["quantity"] = it.Quantity
		}
		if _, err := db.ProductCollection.UpdateOne(ctx, bson.M{"productid": it.ProductID}, bson.M{"$inc": inc}); err != nil {
			log.Println("CancelOrder inventory restore error:", err)
		}
	}

	note := "Order cancelled"
	if input.Reason != "" {
		note = "Order cancelled: " + input.Reason
	}
	ApplyStatus(&order, models.OrderCancelled, note, userID)

	if _, err := db.OrderCollection.ReplaceOne(ctx, bson.M{"orderId": order.OrderID}, order); err != nil {
		log.Println("CancelOrder ReplaceOne error:", err)
		utils.SendError(w, http.StatusInternalServerError, "Failed to cancel order")
		return
	}

	utils.SendResponse(w, http.StatusOK, order, "Order cancelled")
}
