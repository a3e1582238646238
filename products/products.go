package products

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
)

// CreateProduct inserts a catalog entry. Admin/manager only (enforced here
// on top of the auth middleware).
func CreateProduct(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	if !utils.IsPrivileged(r) {
		utils.SendError(w, http.StatusForbidden, "Admin access required")
		return
	}

	var product models.Product
	if err := json.NewDecoder(r.Body).Decode(&product); err != nil {
		utils.SendError(w, http.StatusBadRequest, "Invalid JSON payload")
		return
	}

	if product.Name == "" || product.Price < 0 || product.Quantity < 0 {
		utils.SendError(w, http.StatusBadRequest, "Missing or invalid fields")
		return
	}

	product.ProductID = "p" + utils.GenerateRandomString(10)
	product.CreatedBy = utils.GetUserIDFromRequest(r)
	product.CreatedAt = time.Now()
	product.UpdatedAt = product.CreatedAt
	product.UnitsSold = 0
	product.Revenue = 0

	if _, err := db.ProductCollection.InsertOne(ctx, product); err != nil {
		log.Println("CreateProduct InsertOne error:", err)
		utils.SendError(w, http.StatusInternalServerError, "Failed to create product")
		return
	}

	utils.SendResponse(w, http.StatusCreated, product, "Product created")
}

// EditProduct updates editable catalog fields. Quantity and the sales
// counters are owned by the order flow and are not writable here except for
// an explicit restock via the quantity field.
func EditProduct(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	if !utils.IsPrivileged(r) {
		utils.SendError(w, http.StatusForbidden, "Admin access required")
		return
	}

	productID := ps.ByName("productid")

	var input struct {
		Name        *string  `json:"name"`
		Description *string  `json:"description"`
		SKU         *string  `json:"sku"`
		Category    *string  `json:"category"`
		Price       *float64 `json:"price"`
		Quantity    *int     `json:"quantity"`
		Track       *bool    `json:"trackQuantity"`
		Available   *bool    `json:"isAvailable"`
		Variants    []string `json:"variants"`
	}
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		utils.SendError(w, http.StatusBadRequest, "Invalid JSON payload")
		return
	}

	set := bson.M{"updatedAt": time.Now()}
	if input.Name != nil {
		set["name"] = *input.Name
	}
	if input.Description != nil {
		set["description"] = *input.Description
	}
	if input.SKU != nil {
		set["sku"] = *input.SKU
	}
	if input.Category != nil {
		set["category"] = *input.Category
	}
	if input.Price != nil {
		if *input.Price < 0 {
			utils.SendError(w, http.StatusBadRequest, "Price cannot be negative")
			return
		}
		set["price"] = utils.RoundMoney(*input.Price)
	}
	if input.Quantity != nil {
		if *input.Quantity < 0 {
			utils.SendError(w, http.StatusBadRequest, "Quantity cannot be negative")
			return
		}
		set["quantity"] = *input.Quantity
	}
	if input.Track != nil {
		set["trackQuantity"] = *input.Track
	}
	if input.Available != nil {
		set["isAvailable"] = *input.Available
	}
	if input.Variants != nil {
		set["variants"] = input.Variants
	}

	res, err := db.ProductCollection.UpdateOne(ctx, bson.M{"productid": productID}, bson.M{"$set": set})
	if err != nil {
		log.Println("EditProduct UpdateOne error:", err)
		utils.SendError(w, http.StatusInternalServerError, "Failed to update product")
		return
	}
	if res.MatchedCount == 0 {
		utils.SendError(w, http.StatusNotFound, "Product not found")
		return
	}

	utils.SendResponse(w, http.StatusOK, nil, "Product updated")
}

// DeleteProduct soft-deletes by flipping isAvailable; carts referencing the
// product drop the line on their next read.
func DeleteProduct(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	if !utils.IsPrivileged(r) {
		utils.SendError(w, http.StatusForbidden, "Admin access required")
		return
	}

	productID := ps.ByName("productid")

	res, err := db.ProductCollection.UpdateOne(ctx,
		bson.M{"productid": productID},
		bson.M{"$set": bson.M{"isAvailable": false, "updatedAt": time.Now()}},
	)
	if err != nil {
		log.Println("DeleteProduct UpdateOne error:", err)
		utils.SendError(w, http.StatusInternalServerError, "Failed to delete product")
		return
	}
	if res.MatchedCount == 0 {
		utils.SendError(w, http.StatusNotFound, "Product not found")
		return
	}

	utils.SendResponse(w, http.StatusOK, nil, "Product removed from catalog")
}
