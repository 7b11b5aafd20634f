package orderControllers

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/GoncharovAlexandr/onshp/apperr"
	"github.com/GoncharovAlexandr/onshp/middleware"
	"github.com/GoncharovAlexandr/onshp/models"
	"github.com/GoncharovAlexandr/onshp/stores"
)

const orderCacheTTL = 5 * time.Minute

// PlaceOrder converts the customer's cart into an order inside a single
// all-or-nothing transaction: per line it snapshots the current unit price
// into an OrderItem, decrements stock and accumulates the total. Any line
// failing (product gone, insufficient stock) rolls back every relational
// write and leaves the cart intact. The cart is cleared only after commit.
func PlaceOrder(ctx context.Context, db *gorm.DB, carts stores.CartStore, customerID uint) (models.Order, error) {
	cart, err := carts.Get(ctx, customerID)
	if err != nil {
		return models.Order{}, err
	}
	if len(cart.Items) == 0 {
		return models.Order{}, apperr.ErrEmptyCart
	}

	order := models.Order{
		CustomerID: customerID,
		Status:     models.OrderStatusPending,
		OrderDate:  time.Now().UTC(),
	}
	err = db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&order).Error; err != nil {
			return err
		}
		var total float64
		for _, line := range cart.Items {
			var product models.Product
			if err := tx.First(&product, line.ProductID).Error; err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					return fmt.Errorf("product %d: %w", line.ProductID, apperr.ErrNotFound)
				}
				return err
			}
			item := models.OrderItem{
				OrderID:   order.ID,
				ProductID: product.ID,
				Quantity:  line.Quantity,
				Price:     product.Price,
			}
			if err := tx.Create(&item).Error; err != nil {
				return err
			}
			// Guarded decrement: the predicate re-checks stock at write time,
			// so two concurrent checkouts cannot both drain the same units.
			res := tx.Model(&models.Product{}).
				Where("id = ? AND stock_quantity >= ?", product.ID, line.Quantity).
				Update("stock_quantity", gorm.Expr("stock_quantity - ?", line.Quantity))
			if res.Error != nil {
				return res.Error
			}
			if res.RowsAffected == 0 {
				return fmt.Errorf("product %q: %w", product.Name, apperr.ErrInsufficientStock)
			}
			total += product.Price * float64(line.Quantity)
		}
		return tx.Model(&models.Order{}).Where("id = ?", order.ID).
			Update("total_amount", total).Error
	})
	if err != nil {
		return models.Order{}, err
	}

	if err := db.Preload("Items").First(&order, order.ID).Error; err != nil {
		return models.Order{}, err
	}
	// The order is committed at this point; a failed clear must not turn it
	// into a client error, or a retry would order twice.
	if err := carts.Clear(ctx, customerID); err != nil {
		log.Printf("failed to clear cart for customer %d after order %d: %v", customerID, order.ID, err)
	}
	return order, nil
}

// POST /orders
func Checkout(s *stores.Clients) gin.HandlerFunc {
	return func(c *gin.Context) {
		customerID := middleware.CurrentSession(c).AccountID
		order, err := PlaceOrder(c.Request.Context(), s.DB, s.Carts, customerID)
		if err != nil {
			c.JSON(apperr.Status(err), gin.H{"error": apperr.Message(err)})
			return
		}
		c.JSON(http.StatusCreated, order)
	}
}

// GET /orders
func GetOrders(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		customerID := middleware.CurrentSession(c).AccountID
		var orders []models.Order
		if err := db.Preload("Items").
			Where("customer_id = ?", customerID).
			Order("order_date DESC").
			Find(&orders).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch orders"})
			return
		}
		c.JSON(http.StatusOK, orders)
	}
}

// GET /orders/:id returns the caller's own order, served through order_cache:<id>.
func GetOrder(s *stores.Clients) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := strconv.ParseUint(c.Param("id"), 10, 64)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid order ID"})
			return
		}
		customerID := middleware.CurrentSession(c).AccountID
		ctx := c.Request.Context()
		cacheKey := fmt.Sprintf("order_cache:%d", id)

		var order models.Order
		hit, err := s.Cache.GetJSON(ctx, cacheKey, &order)
		if err != nil || !hit {
			if err := s.DB.Preload("Items").First(&order, uint(id)).Error; err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					c.JSON(http.StatusNotFound, gin.H{"error": "Order not found"})
					return
				}
				c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch order"})
				return
			}
			// Cache writes are best effort.
			if err := s.Cache.SetJSON(ctx, cacheKey, order, orderCacheTTL); err != nil {
				log.Printf("failed to cache order %d: %v", order.ID, err)
			}
		}

		// Ownership is checked on the cached copy too.
		if order.CustomerID != customerID {
			c.JSON(http.StatusForbidden, gin.H{"error": apperr.ErrForbidden.Error()})
			return
		}
		c.JSON(http.StatusOK, order)
	}
}
