package reviewControllers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/GoncharovAlexandr/onshp/apperr"
	"github.com/GoncharovAlexandr/onshp/middleware"
	"github.com/GoncharovAlexandr/onshp/models"
)

type ReviewInput struct {
	ProductID uint   `json:"product_id" form:"product_id" binding:"required"`
	Rating    int    `json:"rating" form:"rating" binding:"required,min=1,max=5"`
	Comment   string `json:"comment" form:"comment" binding:"required"`
}

type ReviewUpdateInput struct {
	Rating  *int    `json:"rating" binding:"omitempty,min=1,max=5"`
	Comment *string `json:"comment"`
}

// POST /reviews
func CreateReview(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var input ReviewInput
		if err := c.ShouldBind(&input); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input: " + err.Error()})
			return
		}

		var product models.Product
		if err := db.First(&product, input.ProductID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				c.JSON(http.StatusNotFound, gin.H{"error": "Product not found"})
				return
			}
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to validate product"})
			return
		}

		review := models.Review{
			ProductID:  input.ProductID,
			CustomerID: middleware.CurrentSession(c).AccountID,
			Rating:     input.Rating,
			Comment:    input.Comment,
		}
		if err := db.Create(&review).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create review"})
			return
		}
		c.JSON(http.StatusCreated, review)
	}
}

// GET /reviews
func GetReviews(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var reviews []models.Review
		if err := db.Order("id").Find(&reviews).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch reviews"})
			return
		}
		c.JSON(http.StatusOK, reviews)
	}
}

// GET /reviews/:id
func GetReview(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		review, ok := fetchReview(c, db)
		if !ok {
			return
		}
		c.JSON(http.StatusOK, review)
	}
}

// PUT /reviews/:id, by the author only.
func UpdateReview(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		review, ok := fetchReview(c, db)
		if !ok {
			return
		}
		if review.CustomerID != middleware.CurrentSession(c).AccountID {
			c.JSON(http.StatusForbidden, gin.H{"error": apperr.ErrForbidden.Error()})
			return
		}

		var input ReviewUpdateInput
		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input: " + err.Error()})
			return
		}
		updates := make(map[string]interface{})
		if input.Rating != nil {
			updates["rating"] = *input.Rating
		}
		if input.Comment != nil {
			updates["comment"] = *input.Comment
		}
		if len(updates) > 0 {
			if err := db.Model(&review).Updates(updates).Error; err != nil {
				c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update review"})
				return
			}
		}
		c.JSON(http.StatusOK, review)
	}
}

// DELETE /reviews/:id, by the author only.
func DeleteReview(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		review, ok := fetchReview(c, db)
		if !ok {
			return
		}
		if review.CustomerID != middleware.CurrentSession(c).AccountID {
			c.JSON(http.StatusForbidden, gin.H{"error": apperr.ErrForbidden.Error()})
			return
		}
		if err := db.Delete(&review).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete review"})
			return
		}
		c.Status(http.StatusNoContent)
	}
}

func fetchReview(c *gin.Context, db *gorm.DB) (models.Review, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid review ID"})
		return models.Review{}, false
	}
	var review models.Review
	if err := db.First(&review, uint(id)).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Review not found"})
			return models.Review{}, false
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch review"})
		return models.Review{}, false
	}
	return review, true
}
