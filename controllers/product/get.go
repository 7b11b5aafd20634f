package productcontroller

import (
	"errors"
	"fmt"
	"log"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/GoncharovAlexandr/onshp/models"
	"github.com/GoncharovAlexandr/onshp/stores"
)

const productCacheTTL = 5 * time.Minute

// Detail is the full product view: relational row, mirrored description
// document, reviews and their mean rating.
type Detail struct {
	models.Product
	Description string            `json:"description"`
	Attributes  map[string]string `json:"attributes"`
	Reviews     []models.Review   `json:"reviews"`
	AvgRating   float64           `json:"avg_rating"`
}

// AverageRating is the arithmetic mean over all reviews, zero when none exist.
func AverageRating(reviews []models.Review) float64 {
	if len(reviews) == 0 {
		return 0
	}
	sum := 0
	for _, r := range reviews {
		sum += r.Rating
	}
	return float64(sum) / float64(len(reviews))
}

// GET /products/:id. Every detail read bumps the popularity score, cached
// responses included.
func GetProductByID(s *stores.Clients) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := strconv.ParseUint(c.Param("id"), 10, 64)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid product ID"})
			return
		}
		ctx := c.Request.Context()
		cacheKey := fmt.Sprintf("product_cache:%d", id)

		var detail Detail
		hit, cacheErr := s.Cache.GetJSON(ctx, cacheKey, &detail)
		if cacheErr == nil && hit {
			if err := s.Popularity.Bump(ctx, uint(id)); err != nil {
				c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to record product view"})
				return
			}
			c.JSON(http.StatusOK, detail)
			return
		}

		var product models.Product
		if err := s.DB.First(&product, uint(id)).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				c.JSON(http.StatusNotFound, gin.H{"error": "Product not found"})
				return
			}
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch product"})
			return
		}

		var reviews []models.Review
		if err := s.DB.Where("product_id = ?", product.ID).Find(&reviews).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch reviews"})
			return
		}

		doc, err := s.ProductDocs.Get(ctx, product.ID)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch product details"})
			return
		}

		if err := s.Popularity.Bump(ctx, product.ID); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to record product view"})
			return
		}

		detail = Detail{
			Product:     product,
			Description: doc.Description,
			Attributes:  doc.Attributes,
			Reviews:     reviews,
			AvgRating:   AverageRating(reviews),
		}
		// Cache writes are best effort.
		if err := s.Cache.SetJSON(ctx, cacheKey, detail, productCacheTTL); err != nil {
			log.Printf("failed to cache product %d: %v", product.ID, err)
		}
		c.JSON(http.StatusOK, detail)
	}
}

// GET /products/popular returns the top-N by view score, descending.
func GetPopularProducts(s *stores.Clients) gin.HandlerFunc {
	return func(c *gin.Context) {
		limit, err := strconv.ParseInt(c.DefaultQuery("limit", "10"), 10, 64)
		if err != nil || limit < 1 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid limit"})
			return
		}

		ids, err := s.Popularity.Top(c.Request.Context(), limit)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch popular products"})
			return
		}
		if len(ids) == 0 {
			c.JSON(http.StatusOK, []models.Product{})
			return
		}

		var products []models.Product
		if err := s.DB.Where("id IN ?", ids).Find(&products).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch popular products"})
			return
		}
		byID := make(map[uint]models.Product, len(products))
		for _, p := range products {
			byID[p.ID] = p
		}
		// Preserve the ranking order; ids of deleted products drop out.
		ranked := make([]models.Product, 0, len(ids))
		for _, id := range ids {
			if p, ok := byID[id]; ok {
				ranked = append(ranked, p)
			}
		}
		c.JSON(http.StatusOK, ranked)
	}
}
