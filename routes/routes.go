package routes

import (
	"mercato/auth"
	"mercato/cart"
	"mercato/middleware"
	"mercato/orders"
	"mercato/products"
	"mercato/ratelim"

	"github.com/julienschmidt/httprouter"
)

func AddAuthRoutes(router *httprouter.Router, rl *ratelim.RateLimiter) {
	router.POST("/api/auth/register", rl.Limit(auth.Register))
	router.POST("/api/auth/login", rl.Limit(auth.Login))
	router.POST("/api/auth/logout", middleware.Authenticate(auth.LogoutUser))
	router.POST("/api/auth/token/refresh", rl.Limit(middleware.Authenticate(auth.RefreshToken)))
}

func AddProductRoutes(router *httprouter.Router, rl *ratelim.RateLimiter) {
	router.GET("/api/products", rl.Limit(products.GetProducts))
	router.GET("/api/products/:productid", products.GetProduct)
	router.POST("/api/products", middleware.Authenticate(products.CreateProduct))
	router.PUT("/api/products/:productid", middleware.Authenticate(products.EditProduct))
	router.DELETE("/api/products/:productid", middleware.Authenticate(products.DeleteProduct))
}

// Cart routes take OptionalAuth: an authenticated user id wins, otherwise
// the X-Session-ID header keys an anonymous cart. Merge requires a login.
func AddCartRoutes(router *httprouter.Router, rl *ratelim.RateLimiter) {
	router.GET("/api/cart", middleware.OptionalAuth(cart.GetCart))
	router.GET("/api/cart/summary", middleware.OptionalAuth(cart.CartSummary))
	router.POST("/api/cart/add", rl.Limit(middleware.OptionalAuth(cart.AddToCart)))
	router.PUT("/api/cart/item/:itemid", middleware.OptionalAuth(cart.UpdateCartItem))
	router.DELETE("/api/cart/item/:itemid", middleware.OptionalAuth(cart.RemoveCartItem))
	router.DELETE("/api/cart/clear", middleware.OptionalAuth(cart.ClearCart))
	router.POST("/api/cart/merge", middleware.Authenticate(cart.MergeCarts))
}

func AddOrderRoutes(router *httprouter.Router, rl *ratelim.RateLimiter) {
	router.GET("/api/orders", middleware.Authenticate(orders.GetOrders))
	router.GET("/api/orders/my-orders", middleware.Authenticate(orders.GetMyOrders))
	router.GET("/api/orders/analytics/summary", middleware.Authenticate(orders.GetOrderAnalytics))
	router.POST("/api/orders", rl.Limit(middleware.Authenticate(orders.CreateOrder)))
	router.GET("/api/orders/order/:orderid", middleware.Authenticate(orders.GetOrder))
	router.GET("/api/orders/order/:orderid/invoice", middleware.Authenticate(orders.OrderInvoice))
	router.PATCH("/api/orders/order/:orderid/status", middleware.Authenticate(orders.UpdateOrderStatus))
	router.PATCH("/api/orders/order/:orderid/payment", middleware.Authenticate(orders.UpdateOrderPayment))
	router.PATCH("/api/orders/order/:orderid/cancel", middleware.Authenticate(orders.CancelOrder))
}
