package productcontroller

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/GoncharovAlexandr/onshp/models"
	"github.com/GoncharovAlexandr/onshp/stores"
)

// POST /products/edit/:id (admin, multipart). The description
// document is upserted, so editing a product that never had one creates it.
func UpdateProduct(s *stores.Clients) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := strconv.ParseUint(c.Param("id"), 10, 64)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid product ID"})
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

		form, err := parseProductForm(c)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		var category models.Category
		if err := s.DB.First(&category, form.CategoryID).Error; err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Category not found"})
			return
		}

		updates := map[string]interface{}{
			"name":           form.Name,
			"price":          form.Price,
			"stock_quantity": form.StockQuantity,
			"category_id":    form.CategoryID,
		}
		if file, err := c.FormFile("image"); err == nil {
			imagePath, err := saveImage(c, file)
			if err != nil {
				c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to save image"})
				return
			}
			updates["image"] = imagePath
		}

		if err := s.DB.Model(&product).Updates(updates).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update product"})
			return
		}

		doc := models.ProductDoc{
			ProductID:   product.ID,
			Description: form.Description,
			Attributes:  map[string]string{},
		}
		if err := s.ProductDocs.Upsert(c.Request.Context(), doc); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to store product description"})
			return
		}

		if wantsRedirect(c) {
			c.Redirect(http.StatusSeeOther, fmt.Sprintf("/products/%d", product.ID))
			return
		}
		c.JSON(http.StatusOK, product)
	}
}
