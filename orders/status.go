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

func loadOrder(ctx context.Context, orderID string) (*models.Order, error) {
	var o models.Order
	err := db.OrderCollection.FindOne(ctx, bson.M{"orderId": orderID}).Decode(&o)
	if err == mongo.ErrNoDocuments {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &o, nil
}

// UpdateOrderStatus sets the order status (privileged). Optionally attaches
// tracking info; shipped/delivered also mark the order fulfilled.
func UpdateOrderStatus(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	if !utils.IsPrivileged(r) {
		utils.SendError(w, http.StatusForbidden, "Admin access required")
		return
	}

	var input struct {
		Status   string           `json:"status"`
		Note     string           `json:"note"`
		Tracking *models.Tracking `json:"tracking"`
	}
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		utils.SendError(w, http.StatusBadRequest, "Invalid JSON payload")
		return
	}
	if !validOrderStatus(input.Status) {
		utils.SendError(w, http.StatusBadRequest, "Invalid order status")
		return
	}

	order, err := loadOrder(ctx, ps.ByName("orderid"))
	if err != nil {
		log.Println("UpdateOrderStatus load error:", err)
		utils.SendError(w, http.StatusInternalServerError, "Could not retrieve order")
		return
	}
	if order == nil {
		utils.SendError(w, http.StatusNotFound, "Order not found")
		return
	}

	if input.Tracking != nil {
		order.Tracking = input.Tracking
	}
	ApplyStatus(order, input.Status, input.Note, utils.GetUserIDFromRequest(r))

	if _, err := db.OrderCollection.ReplaceOne(ctx, bson.M{"orderId": order.OrderID}, order); err != nil {
		log.Println("UpdateOrderStatus ReplaceOne error:", err)
		utils.SendError(w, http.StatusInternalServerError, "Failed to update order")
		return
	}

	utils.SendResponse(w, http.StatusOK, order, "Order status updated")
}

// UpdateOrderPayment sets the payment status (privileged). A successful
// payment on a still-pending order auto-advances it to confirmed.
func UpdateOrderPayment(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	if !utils.IsPrivileged(r) {
		utils.SendError(w, http.StatusForbidden, "Admin access required")
		return
	}

	var input struct {
		PaymentStatus  string                 `json:"paymentStatus"`
		PaymentDetails *models.PaymentDetails `json:"paymentDetails"`
	}
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		utils.SendError(w, http.StatusBadRequest, "Invalid JSON payload")
		return
	}
	if !validPaymentStatus(input.PaymentStatus) {
		utils.SendError(w, http.StatusBadRequest, "Invalid payment status")
		return
	}

	order, err := loadOrder(ctx, ps.ByName("orderid"))
	if err != nil {
		log.Println("UpdateOrderPayment load error:", err)
		utils.SendError(w, http.StatusInternalServerError, "Could not retrieve order")
		return
	}
	if order == nil {
		utils.SendError(w, http.StatusNotFound, "Order not found")
		return
	}

	ApplyPaymentStatus(order, input.PaymentStatus, input.PaymentDetails, utils.GetUserIDFromRequest(r))

	if _, err := db.OrderCollection.ReplaceOne(ctx, bson.M{"orderId": order.OrderID}, order); err != nil {
		log.Println("UpdateOrderPayment ReplaceOne error:", err)
		utils.SendError(w, http.StatusInternalServerError, "Failed to update order")
		return
	}

	utils.SendResponse(w, http.StatusOK, order, "Payment status updated")
}
