package routes

import (
	"github.com/gin-gonic/gin"

	authControllers "github.com/GoncharovAlexandr/onshp/controllers/auth"
	"github.com/GoncharovAlexandr/onshp/middleware"
	"github.com/GoncharovAlexandr/onshp/stores"
)

// SetupAuthRoutes registers registration and login for customers and admins.
func SetupAuthRoutes(r *gin.Engine, s *stores.Clients) {
	userAuth := r.Group("/user/auth")
	{
		userAuth.POST("/register", authControllers.RegisterCustomer(s))
		// The /jwt/login path is kept from the old frontend; the handler
		// issues opaque cookie sessions.
		userAuth.POST("/jwt/login", authControllers.LoginCustomer(s))
		userAuth.POST("/logout", middleware.Resolve(s.Sessions), authControllers.Logout(s))

		adminAuth := userAuth.Group("/admin")
		{
			adminAuth.POST("/register", authControllers.RegisterAdmin(s))
			adminAuth.POST("/login", authControllers.LoginAdmin(s))
		}
	}
}
