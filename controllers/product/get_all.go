package productcontroller

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/GoncharovAlexandr/onshp/models"
)

// GET /products?query=... does a case-insensitive substring match on the name.
func GetProducts(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		query := c.Query("query")

		q := db.Model(&models.Product{})
		if query != "" {
			q = q.Where("LOWER(name) LIKE LOWER(?)", "%"+query+"%")
		}

		var products []models.Product
		if err := q.Order("id").Find(&products).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch products"})
			return
		}
		c.JSON(http.StatusOK, products)
	}
}
