package promoControllers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/GoncharovAlexandr/onshp/apperr"
	"github.com/GoncharovAlexandr/onshp/models"
	"github.com/GoncharovAlexandr/onshp/stores"
)

type PromotionInput struct {
	Name        string  `json:"name" binding:"required"`
	Description string  `json:"description"`
	Discount    float64 `json:"discount" binding:"required,gt=0"`
	Products    []uint  `json:"products"`
}

// GET /promotions
func GetPromotions(s *stores.Clients) gin.HandlerFunc {
	return func(c *gin.Context) {
		promos, err := s.Promotions.List(c.Request.Context())
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch promotions"})
			return
		}
		c.JSON(http.StatusOK, promos)
	}
}

// GET /promotions/:id
func GetPromotion(s *stores.Clients) gin.HandlerFunc {
	return func(c *gin.Context) {
		promo, err := s.Promotions.Get(c.Request.Context(), c.Param("id"))
		if err != nil {
			if errors.Is(err, apperr.ErrNotFound) {
				c.JSON(http.StatusNotFound, gin.H{"error": "Promotion not found"})
				return
			}
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch promotion"})
			return
		}
		c.JSON(http.StatusOK, promo)
	}
}

// GET /promotions/product/:id
func GetPromotionsByProduct(s *stores.Clients) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := strconv.ParseUint(c.Param("id"), 10, 64)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid product ID"})
			return
		}
		promos, err := s.Promotions.ByProduct(c.Request.Context(), uint(id))
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch promotions"})
			return
		}
		c.JSON(http.StatusOK, promos)
	}
}

// POST /promotions (admin)
func CreatePromotion(s *stores.Clients) gin.HandlerFunc {
	return func(c *gin.Context) {
		var input PromotionInput
		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input: " + err.Error()})
			return
		}
		promo, err := s.Promotions.Create(c.Request.Context(), models.Promotion{
			Name:        input.Name,
			Description: input.Description,
			Discount:    input.Discount,
			Products:    input.Products,
		})
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create promotion"})
			return
		}
		c.JSON(http.StatusCreated, promo)
	}
}

// DELETE /promotions/:id (admin)
func DeletePromotion(s *stores.Clients) gin.HandlerFunc {
	return func(c *gin.Context) {
		if err := s.Promotions.Delete(c.Request.Context(), c.Param("id")); err != nil {
			if errors.Is(err, apperr.ErrNotFound) {
				c.JSON(http.StatusNotFound, gin.H{"error": "Promotion not found"})
				return
			}
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete promotion"})
			return
		}
		c.Status(http.StatusNoContent)
	}
}
