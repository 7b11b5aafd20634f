package routes

import (
	"github.com/gin-gonic/gin"

	"github.com/GoncharovAlexandr/onshp/stores"
)

// SetupRoutes is the single entry-point that wires up the auth, catalog and
// customer route groups.
func SetupRoutes(r *gin.Engine, s *stores.Clients) {
	SetupAuthRoutes(r, s)
	SetupCatalogRoutes(r, s)
	SetupCustomerRoutes(r, s)
}
