package routes

import (
	"github.com/gin-gonic/gin"

	productcontroller "github.com/GoncharovAlexandr/onshp/controllers/product"
	promoControllers "github.com/GoncharovAlexandr/onshp/controllers/promotion"
	reviewControllers "github.com/GoncharovAlexandr/onshp/controllers/review"
	"github.com/GoncharovAlexandr/onshp/middleware"
	"github.com/GoncharovAlexandr/onshp/stores"
)

// SetupCatalogRoutes registers products, categories, reviews and promotions.
// Reads are public; mutations are admin-gated except reviews, which belong to
// their customer author.
func SetupCatalogRoutes(r *gin.Engine, s *stores.Clients) {
	products := r.Group("/products")
	{
		products.GET("", productcontroller.GetProducts(s.DB))
		products.GET("/popular", productcontroller.GetPopularProducts(s))
		products.GET("/:id", productcontroller.GetProductByID(s))

		adminProducts := products.Group("", middleware.RequireAdmin(s.Sessions))
		{
			adminProducts.POST("/new", productcontroller.CreateProduct(s))
			adminProducts.POST("/edit/:id", productcontroller.UpdateProduct(s))
			adminProducts.POST("/delete/:id", productcontroller.DeleteProduct(s))
			adminProducts.GET("/export", productcontroller.ExportProductsToExcel(s.DB))
		}
	}

	categories := r.Group("/categories")
	{
		categories.GET("", productcontroller.GetAllCategories(s.DB))
		categories.GET("/:id", productcontroller.GetCategory(s.DB))

		adminCategories := categories.Group("", middleware.RequireAdmin(s.Sessions))
		{
			adminCategories.POST("", productcontroller.CreateCategory(s.DB))
			adminCategories.PUT("/:id", productcontroller.UpdateCategory(s.DB))
			adminCategories.DELETE("/:id", productcontroller.DeleteCategory(s.DB))
		}
	}

	reviews := r.Group("/reviews")
	{
		reviews.GET("", reviewControllers.GetReviews(s.DB))
		reviews.GET("/:id", reviewControllers.GetReview(s.DB))

		customerReviews := reviews.Group("", middleware.RequireCustomer(s.Sessions))
		{
			customerReviews.POST("", reviewControllers.CreateReview(s.DB))
			customerReviews.PUT("/:id", reviewControllers.UpdateReview(s.DB))
			customerReviews.DELETE("/:id", reviewControllers.DeleteReview(s.DB))
		}
	}

	promotions := r.Group("/promotions")
	{
		promotions.GET("", promoControllers.GetPromotions(s))
		promotions.GET("/:id", promoControllers.GetPromotion(s))
		promotions.GET("/product/:id", promoControllers.GetPromotionsByProduct(s))

		adminPromotions := promotions.Group("", middleware.RequireAdmin(s.Sessions))
		{
			adminPromotions.POST("", promoControllers.CreatePromotion(s))
			adminPromotions.DELETE("/:id", promoControllers.DeletePromotion(s))
		}
	}
}
