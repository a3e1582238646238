package products

import (
	"context"
	"log"
	"net/http"
	"time"

	"mercato/db"
	"mercato/models"
	"mercato/utils"

	"github.com/julienschmidt/httprouter"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

func GetProduct(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	var product models.Product
	err := db.ProductCollection.FindOne(ctx, bson.M{"productid": ps.ByName("productid")}).Decode(&product)
	if err == mongo.ErrNoDocuments {
		utils.SendError(w, http.StatusNotFound, "Product not found")
		return
	}
	if err != nil {
		log.Println("GetProduct FindOne error:", err)
		utils.SendError(w, http.StatusInternalServerError, "Could not retrieve product")
		return
	}

	utils.SendResponse(w, http.StatusOK, product, "Product retrieved")
}

// GetProducts lists available products, paginated, optional ?search= and
// ?category= filters.
func GetProducts(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	opts := utils.ParseQueryOptions(r)

	filter := bson.M{"isAvailable": true}
	if cat := r.URL.Query().Get("category"); cat != "" {
		filter["category"] = cat
	}
	if opts.Search != "" {
		filter["name"] = bson.M{"$regex": primitive.Regex{Pattern: opts.Search, Options: "i"}}
	}

	findOpts := options.Find().
		SetSkip(opts.Skip()).
		SetLimit(int64(opts.Limit)).
		SetSort(bson.M{"createdAt": -1})

	cursor, err := db.ProductCollection.Find(ctx, filter, findOpts)
	if err != nil {
		log.Println("GetProducts Find error:", err)
		utils.SendError(w, http.StatusInternalServerError, "Could not retrieve products")
		return
	}
	defer cursor.Close(ctx)

	var items []models.Product
	if err := cursor.All(ctx, &items); err != nil {
		log.Println("GetProducts cursor.All error:", err)
		utils.SendError(w, http.StatusInternalServerError, "Error reading product data")
		return
	}
	if len(items) == 0 {
		items = []models.Product{}
	}

	total, err := db.ProductCollection.CountDocuments(ctx, filter)
	if err != nil {
		log.Println("GetProducts CountDocuments error:", err)
	}

	utils.SendResponse(w, http.StatusOK, utils.M{
		"products": items,
		"page":     opts.Page,
		"limit":    opts.Limit,
		"total":    total,
	}, "Products retrieved")
}
