package orders

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"time"

	"mercato/db"
	"mercato/models"
	"mercato/rdx"
	"mercato/utils"

	"github.com/julienschmidt/httprouter"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// GetOrders lists orders with status/payment/search/date filters and
// pagination. Non-privileged callers are forcibly scoped to their own
// orders.
func GetOrders(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	userID := utils.GetUserIDFromRequest(r)
	if userID == "" {
		utils.SendError(w, http.StatusUnauthorized, "Authentication required")
		return
	}

	opts := utils.ParseQueryOptions(r)

	filter := bson.M{}
	if !utils.IsPrivileged(r) {
		filter["userId"] = userID
	}
	if opts.Status != "" {
		filter["status"] = opts.Status
	}
	if opts.PaymentStatus != "" {
		filter["paymentStatus"] = opts.PaymentStatus
	}
	if opts.Search != "" {
		re := primitive.Regex{Pattern: opts.Search, Options: "i"}
		filter["$or"] = []bson.M{
			{"orderNumber": bson.M{"$regex": re}},
			{"shippingAddress.name": bson.M{"$regex": re}},
		}
	}
	if dateFilter := dateRangeFilter(opts.StartDate, opts.EndDate); dateFilter != nil {
		filter["createdAt"] = dateFilter
	}

	findOpts := options.Find().
		SetSkip(opts.Skip()).
		SetLimit(int64(opts.Limit)).
		SetSort(bson.M{"createdAt": -1})

	cursor, err := db.OrderCollection.Find(ctx, filter, findOpts)
	if err != nil {
		log.Println("GetOrders Find error:", err)
		utils.SendError(w, http.StatusInternalServerError, "Could not retrieve orders")
		return
	}
	defer cursor.Close(ctx)

	var items []models.Order
	if err := cursor.All(ctx, &items); err != nil {
		log.Println("GetOrders cursor.All error:", err)
		utils.SendError(w, http.StatusInternalServerError, "Error reading order data")
		return
	}
	if len(items) == 0 {
		items = []models.Order{}
	}

	total, err := db.OrderCollection.CountDocuments(ctx, filter)
	if err != nil {
		log.Println("GetOrders CountDocuments error:", err)
	}

	utils.SendResponse(w, http.StatusOK, utils.M{
		"orders": items,
		"page":   opts.Page,
		"limit":  opts.Limit,
		"total":  total,
	}, "Orders retrieved")
}

// GetMyOrders lists the caller's own orders, paginated.
func GetMyOrders(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	userID := utils.GetUserIDFromRequest(r)
	if userID == "" {
		utils.SendError(w, http.StatusUnauthorized, "Authentication required")
		return
	}

	opts := utils.ParseQueryOptions(r)

	findOpts := options.Find().
		SetSkip(opts.Skip()).
		SetLimit(int64(opts.Limit)).
		SetSort(bson.M{"createdAt": -1})

	cursor, err := db.OrderCollection.Find(ctx, bson.M{"userId": userID}, findOpts)
	if err != nil {
		log.Println("GetMyOrders Find error:", err)
		utils.SendError(w, http.StatusInternalServerError, "Could not retrieve orders")
		return
	}
	defer cursor.Close(ctx)

	var items []models.Order
	if err := cursor.All(ctx, &items); err != nil {
		log.Println("GetMyOrders cursor.All error:", err)
		utils.SendError(w, http.StatusInternalServerError, "Error reading order data")
		return
	}
	if len(items) == 0 {
		items = []models.Order{}
	}

	utils.SendResponse(w, http.StatusOK, items, "Orders retrieved")
}

// GetOrder returns one order; owner or privileged only.
func GetOrder(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	userID := utils.GetUserIDFromRequest(r)
	if userID == "" {
		utils.SendError(w, http.StatusUnauthorized, "Authentication required")
		return
	}

	order, err := loadOrder(ctx, ps.ByName("orderid"))
	if err != nil {
		log.Println("GetOrder load error:", err)
		utils.SendError(w, http.StatusInternalServerError, "Could not retrieve order")
		return
	}
	if order == nil {
		utils.SendError(w, http.StatusNotFound, "Order not found")
		return
	}
	if order.UserID != userID && !utils.IsPrivileged(r) {
		utils.SendError(w, http.StatusForbidden, "Not allowed to view this order")
		return
	}

	utils.SendResponse(w, http.StatusOK, order, "Order retrieved")
}

// AnalyticsSummary is the aggregate over orders in an optional date window.
type AnalyticsSummary struct {
	TotalOrders     int64   `json:"totalOrders" bson:"totalOrders"`
	TotalRevenue    float64 `json:"totalRevenue" bson:"totalRevenue"`
	AvgOrderValue   float64 `json:"avgOrderValue" bson:"avgOrderValue"`
	PendingOrders   int64   `json:"pendingOrders" bson:"pendingOrders"`
	DeliveredOrders int64   `json:"deliveredOrders" bson:"deliveredOrders"`
}

// GetOrderAnalytics aggregates order counts and revenue (privileged). The
// result is cached in Redis for a minute per date window.
func GetOrderAnalytics(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	if !utils.IsPrivileged(r) {
		utils.SendError(w, http.StatusForbidden, "Admin access required")
		return
	}

	opts := utils.ParseQueryOptions(r)

	cacheKey := "analytics:orders:" + opts.StartDate.Format("20060102") + ":" + opts.EndDate.Format("20060102")
	if cached, err := rdx.RdxGet(cacheKey); err == nil && cached != "" {
		var summary AnalyticsSummary
		if json.Unmarshal([]byte(cached), &summary) == nil {
			utils.SendResponse(w, http.StatusOK, summary, "Analytics retrieved")
			return
		}
	}

	match := bson.M{}
	if dateFilter := dateRangeFilter(opts.StartDate, opts.EndDate); dateFilter != nil {
		match["createdAt"] = dateFilter
	}

	stages := []bson.M{
		{"$match": match},
		{"$group": bson.M{
			"_id":           nil,
			"totalOrders":   bson.M{"$sum": 1},
			"totalRevenue":  bson.M{"$sum": "$total"},
			"avgOrderValue": bson.M{"$avg": "$total"},
			"pendingOrders": bson.M{"$sum": bson.M{
				"$cond": bson.A{bson.M{"$eq": bson.A{"$status", models.OrderPending}}, 1, 0},
			}},
			"deliveredOrders": bson.M{"$sum": bson.M{
				"$cond": bson.A{bson.M{"$eq": bson.A{"$status", models.OrderDelivered}}, 1, 0},
			}},
		}},
	}

	cursor, err := db.OrderCollection.Aggregate(ctx, stages)
	if err != nil {
		log.Println("GetOrderAnalytics Aggregate error:", err)
		utils.SendError(w, http.StatusInternalServerError, "Could not compute analytics")
		return
	}
	defer cursor.Close(ctx)

	var results []AnalyticsSummary
	if err := cursor.All(ctx, &results); err != nil {
		log.Println("GetOrderAnalytics cursor.All error:", err)
		utils.SendError(w, http.StatusInternalServerError, "Error reading analytics data")
		return
	}

	summary := AnalyticsSummary{}
	if len(results) > 0 {
		summary = results[0]
		summary.TotalRevenue = utils.RoundMoney(summary.TotalRevenue)
		summary.AvgOrderValue = utils.RoundMoney(summary.AvgOrderValue)
	}

	if data, err := json.Marshal(summary); err == nil {
		if err := rdx.SetWithExpiry(cacheKey, string(data), time.Minute); err != nil {
			log.Println("GetOrderAnalytics cache write error:", err)
		}
	}

	utils.SendResponse(w, http.StatusOK, summary, "Analytics retrieved")
}

func dateRangeFilter(start, end time.Time) bson.M {
	if start.IsZero() && end.IsZero() {
		return nil
	}
	f := bson.M{}
	if !start.IsZero() {
		f["$gte"] = start
	}
	if !end.IsZero() {
		f["$lte"] = end
	}
	return f
}
