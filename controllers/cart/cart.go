package cartControllers

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/GoncharovAlexandr/onshp/apperr"
	"github.com/GoncharovAlexandr/onshp/middleware"
	"github.com/GoncharovAlexandr/onshp/models"
	"github.com/GoncharovAlexandr/onshp/stores"
)

type CartItemInput struct {
	ProductID uint `json:"product_id" form:"product_id" binding:"required"`
	Quantity  int  `json:"quantity" form:"quantity" binding:"required,min=1"`
}

type RemoveItemInput struct {
	ProductID uint `json:"product_id" form:"product_id" binding:"required"`
}

// ViewLine joins a cart line against the current product row.
type ViewLine struct {
	Product  models.Product `json:"product"`
	Quantity int            `json:"quantity"`
	Subtotal float64        `json:"subtotal"`
}

type View struct {
	Items []ViewLine `json:"items"`
	Total float64    `json:"total"`
}

// AddItem loads or creates the customer's cart and merges the quantity into
// an existing line. The merged quantity is validated against current stock
// before anything is written, so a rejected add leaves the cart unchanged.
// The read-modify-write is not atomic; concurrent adds are last-write-wins.
func AddItem(ctx context.Context, db *gorm.DB, carts stores.CartStore, customerID, productID uint, quantity int) (models.Cart, error) {
	var product models.Product
	if err := db.First(&product, productID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.Cart{}, apperr.ErrNotFound
		}
		return models.Cart{}, err
	}

	cart, err := carts.Get(ctx, customerID)
	if err != nil {
		return models.Cart{}, err
	}
	if cart.Quantity(productID)+quantity > product.StockQuantity {
		return models.Cart{}, apperr.ErrOutOfStock
	}
	cart.Add(productID, quantity)
	if err := carts.Put(ctx, cart); err != nil {
		return models.Cart{}, err
	}
	return cart, nil
}

// BuildView joins cart lines against current product rows. Lines whose
// product no longer exists are silently dropped from the rendered total.
func BuildView(db *gorm.DB, cart models.Cart) (View, error) {
	view := View{Items: []ViewLine{}}
	if len(cart.Items) == 0 {
		return view, nil
	}

	ids := make([]uint, 0, len(cart.Items))
	for _, item := range cart.Items {
		ids = append(ids, item.ProductID)
	}
	var products []models.Product
	if err := db.Where("id IN ?", ids).Find(&products).Error; err != nil {
		return View{}, err
	}
	byID := make(map[uint]models.Product, len(products))
	for _, p := range products {
		byID[p.ID] = p
	}

	for _, item := range cart.Items {
		product, ok := byID[item.ProductID]
		if !ok {
			continue
		}
		subtotal := product.Price * float64(item.Quantity)
		view.Items = append(view.Items, ViewLine{Product: product, Quantity: item.Quantity, Subtotal: subtotal})
		view.Total += subtotal
	}
	return view, nil
}

// POST /cart/add
func AddToCart(s *stores.Clients) gin.HandlerFunc {
	return func(c *gin.Context) {
		var input CartItemInput
		if err := c.ShouldBind(&input); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input: " + err.Error()})
			return
		}
		customerID := middleware.CurrentSession(c).AccountID
		cart, err := AddItem(c.Request.Context(), s.DB, s.Carts, customerID, input.ProductID, input.Quantity)
		if err != nil {
			c.JSON(apperr.Status(err), gin.H{"error": apperr.Message(err)})
			return
		}
		c.JSON(http.StatusCreated, cart)
	}
}

// POST /cart/remove
func RemoveFromCart(s *stores.Clients) gin.HandlerFunc {
	return func(c *gin.Context) {
		var input RemoveItemInput
		if err := c.ShouldBind(&input); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input: " + err.Error()})
			return
		}
		customerID := middleware.CurrentSession(c).AccountID
		ctx := c.Request.Context()

		cart, err := s.Carts.Get(ctx, customerID)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch cart"})
			return
		}
		cart.Remove(input.ProductID)
		if err := s.Carts.Put(ctx, cart); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update cart"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": "Item removed"})
	}
}

// POST /cart/clear
func ClearCart(s *stores.Clients) gin.HandlerFunc {
	return func(c *gin.Context) {
		customerID := middleware.CurrentSession(c).AccountID
		if err := s.Carts.Clear(c.Request.Context(), customerID); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to clear cart"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": "Cart cleared"})
	}
}

// GET /cart returns the raw cart document, 404 only when it has zero items.
func GetCart(s *stores.Clients) gin.HandlerFunc {
	return func(c *gin.Context) {
		customerID := middleware.CurrentSession(c).AccountID
		cart, err := s.Carts.Get(c.Request.Context(), customerID)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch cart"})
			return
		}
		if len(cart.Items) == 0 {
			c.JSON(http.StatusNotFound, gin.H{"error": apperr.ErrEmptyCart.Error()})
			return
		}
		c.JSON(http.StatusOK, cart)
	}
}

// GET /cart/view joins lines with subtotals; stale lines drop silently.
func ViewCart(s *stores.Clients) gin.HandlerFunc {
	return func(c *gin.Context) {
		customerID := middleware.CurrentSession(c).AccountID
		cart, err := s.Carts.Get(c.Request.Context(), customerID)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch cart"})
			return
		}
		view, err := BuildView(s.DB, cart)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch cart"})
			return
		}
		c.JSON(http.StatusOK, view)
	}
}
