package routes

import (
	"github.com/gin-gonic/gin"

	cartControllers "github.com/GoncharovAlexandr/onshp/controllers/cart"
	orderControllers "github.com/GoncharovAlexandr/onshp/controllers/order"
	userControllers "github.com/GoncharovAlexandr/onshp/controllers/user"
	"github.com/GoncharovAlexandr/onshp/middleware"
	"github.com/GoncharovAlexandr/onshp/stores"
)

// SetupCustomerRoutes registers the cart, order and profile endpoints; all of
// them require a customer session.
func SetupCustomerRoutes(r *gin.Engine, s *stores.Clients) {
	cart := r.Group("/cart", middleware.RequireCustomer(s.Sessions))
	{
		cart.GET("", cartControllers.GetCart(s))
		cart.GET("/view", cartControllers.ViewCart(s))
		cart.POST("/add", cartControllers.AddToCart(s))
		cart.POST("/remove", cartControllers.RemoveFromCart(s))
		cart.POST("/clear", cartControllers.ClearCart(s))
	}

	orders := r.Group("/orders", middleware.RequireCustomer(s.Sessions))
	{
		orders.POST("", orderControllers.Checkout(s))
		orders.GET("", orderControllers.GetOrders(s.DB))
		orders.GET("/:id", orderControllers.GetOrder(s))
	}

	profile := r.Group("/user/me", middleware.RequireCustomer(s.Sessions))
	{
		profile.GET("", userControllers.GetProfile(s))
		profile.PUT("", userControllers.UpdateProfile(s))
		profile.POST("", userControllers.UpdateProfile(s))
	}
}
