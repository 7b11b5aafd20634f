package userControllers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/GoncharovAlexandr/onshp/apperr"
	"github.com/GoncharovAlexandr/onshp/middleware"
	"github.com/GoncharovAlexandr/onshp/models"
	"github.com/GoncharovAlexandr/onshp/stores"
)

type ProfileInput struct {
	Name  string `json:"name" form:"name" binding:"required"`
	Email string `json:"email" form:"email" binding:"required,email"`
	Bio   string `json:"bio" form:"bio"`
}

// GET /user/me
func GetProfile(s *stores.Clients) gin.HandlerFunc {
	return func(c *gin.Context) {
		customerID := middleware.CurrentSession(c).AccountID
		profile, err := s.Profiles.Get(c.Request.Context(), customerID)
		if err != nil {
			if errors.Is(err, apperr.ErrNotFound) {
				c.JSON(http.StatusNotFound, gin.H{"error": "Profile not found"})
				return
			}
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch profile"})
			return
		}
		c.JSON(http.StatusOK, profile)
	}
}

// PUT /user/me (also bound to POST for the form flow). Updating requires an
// existing profile document; registration seeds one.
func UpdateProfile(s *stores.Clients) gin.HandlerFunc {
	return func(c *gin.Context) {
		var input ProfileInput
		if err := c.ShouldBind(&input); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input: " + err.Error()})
			return
		}

		customerID := middleware.CurrentSession(c).AccountID
		ctx := c.Request.Context()

		if _, err := s.Profiles.Get(ctx, customerID); err != nil {
			if errors.Is(err, apperr.ErrNotFound) {
				c.JSON(http.StatusNotFound, gin.H{"error": "Profile not found"})
				return
			}
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch profile"})
			return
		}

		profile := models.UserProfile{
			CustomerID: customerID,
			Name:       input.Name,
			Email:      input.Email,
			Bio:        input.Bio,
		}
		if err := s.Profiles.Upsert(ctx, profile); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update profile"})
			return
		}
		c.JSON(http.StatusOK, profile)
	}
}
