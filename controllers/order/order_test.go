package orderControllers

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/GoncharovAlexandr/onshp/apperr"
	cartControllers "github.com/GoncharovAlexandr/onshp/controllers/cart"
	"github.com/GoncharovAlexandr/onshp/models"
)

type memCarts struct {
	byCustomer map[uint]models.Cart
}

func newMemCarts() *memCarts {
	return &memCarts{byCustomer: map[uint]models.Cart{}}
}

func (m *memCarts) Get(_ context.Context, customerID uint) (models.Cart, error) {
	if cart, ok := m.byCustomer[customerID]; ok {
		return cart, nil
	}
	return models.Cart{CustomerID: customerID, Items: []models.CartItem{}}, nil
}

func (m *memCarts) Put(_ context.Context, cart models.Cart) error {
	m.byCustomer[cart.CustomerID] = cart
	return nil
}

func (m *memCarts) Clear(_ context.Context, customerID uint) error {
	m.byCustomer[customerID] = models.Cart{CustomerID: customerID, Items: []models.CartItem{}}
	return nil
}

type failingClearCarts struct {
	*memCarts
}

func (f *failingClearCarts) Clear(context.Context, uint) error {
	return errors.New("document store unavailable")
}

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open("file:"+strings.ReplaceAll(t.Name(), "/", "_")+"?mode=memory&cache=shared"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&models.Category{}, &models.Product{}, &models.Order{}, &models.OrderItem{}))
	return db
}

func seedProduct(t *testing.T, db *gorm.DB, name string, price float64, stock int) models.Product {
	t.Helper()
	product := models.Product{Name: name, Price: price, StockQuantity: stock, CategoryID: 1}
	require.NoError(t, db.Create(&product).Error)
	return product
}

func stockOf(t *testing.T, db *gorm.DB, id uint) int {
	t.Helper()
	var product models.Product
	require.NoError(t, db.First(&product, id).Error)
	return product.StockQuantity
}

func TestPlaceOrderSnapshotsPricesAndDecrementsStock(t *testing.T) {
	db := newTestDB(t)
	carts := newMemCarts()
	mug := seedProduct(t, db, "mug", 9.5, 10)
	pen := seedProduct(t, db, "pen", 1.25, 4)

	require.NoError(t, carts.Put(context.Background(), models.Cart{
		CustomerID: 1,
		Items: []models.CartItem{
			{ProductID: mug.ID, Quantity: 2},
			{ProductID: pen.ID, Quantity: 4},
		},
	}))

	order, err := PlaceOrder(context.Background(), db, carts, 1)
	require.NoError(t, err)

	assert.Equal(t, models.OrderStatusPending, order.Status)
	assert.InDelta(t, 2*9.5+4*1.25, order.TotalAmount, 1e-9)
	require.Len(t, order.Items, 2)
	assert.Equal(t, 8, stockOf(t, db, mug.ID))
	assert.Equal(t, 0, stockOf(t, db, pen.ID))

	cart, err := carts.Get(context.Background(), 1)
	require.NoError(t, err)
	assert.Empty(t, cart.Items, "cart is cleared after commit")

	// A later price change must not touch the snapshot.
	require.NoError(t, db.Model(&models.Product{}).Where("id = ?", mug.ID).Update("price", 20.0).Error)
	var reloaded models.Order
	require.NoError(t, db.Preload("Items").First(&reloaded, order.ID).Error)
	for _, item := range reloaded.Items {
		if item.ProductID == mug.ID {
			assert.Equal(t, 9.5, item.Price)
		}
	}
}

func TestPlaceOrderEmptyCart(t *testing.T) {
	db := newTestDB(t)
	carts := newMemCarts()

	_, err := PlaceOrder(context.Background(), db, carts, 1)
	assert.ErrorIs(t, err, apperr.ErrEmptyCart)

	var count int64
	require.NoError(t, db.Model(&models.Order{}).Count(&count).Error)
	assert.Zero(t, count)
}

func TestPlaceOrderInsufficientStockRollsBack(t *testing.T) {
	db := newTestDB(t)
	carts := newMemCarts()
	mug := seedProduct(t, db, "mug", 9.5, 10)
	pen := seedProduct(t, db, "pen", 1.25, 1)

	cart := models.Cart{
		CustomerID: 1,
		Items: []models.CartItem{
			{ProductID: mug.ID, Quantity: 2}, // would succeed alone
			{ProductID: pen.ID, Quantity: 5}, // over stock
		},
	}
	require.NoError(t, carts.Put(context.Background(), cart))

	_, err := PlaceOrder(context.Background(), db, carts, 1)
	require.ErrorIs(t, err, apperr.ErrInsufficientStock)

	// The failed line rolls back the whole order.
	assert.Equal(t, 10, stockOf(t, db, mug.ID))
	assert.Equal(t, 1, stockOf(t, db, pen.ID))
	var orders, items int64
	require.NoError(t, db.Model(&models.Order{}).Count(&orders).Error)
	require.NoError(t, db.Model(&models.OrderItem{}).Count(&items).Error)
	assert.Zero(t, orders)
	assert.Zero(t, items)

	got, err := carts.Get(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, cart.Items, got.Items, "cart survives a failed checkout")
}

func TestPlaceOrderSurvivesFailedCartClear(t *testing.T) {
	db := newTestDB(t)
	carts := &failingClearCarts{memCarts: newMemCarts()}
	mug := seedProduct(t, db, "mug", 9.5, 10)

	require.NoError(t, carts.Put(context.Background(), models.Cart{
		CustomerID: 1,
		Items:      []models.CartItem{{ProductID: mug.ID, Quantity: 2}},
	}))

	// The order is committed before the clear runs; a clear failure must not
	// surface as an error or the client would retry and order twice.
	order, err := PlaceOrder(context.Background(), db, carts, 1)
	require.NoError(t, err)
	assert.InDelta(t, 19.0, order.TotalAmount, 1e-9)
	assert.Equal(t, 8, stockOf(t, db, mug.ID))
}

func TestPlaceOrderVanishedProduct(t *testing.T) {
	db := newTestDB(t)
	carts := newMemCarts()

	require.NoError(t, carts.Put(context.Background(), models.Cart{
		CustomerID: 1,
		Items:      []models.CartItem{{ProductID: 404, Quantity: 1}},
	}))

	_, err := PlaceOrder(context.Background(), db, carts, 1)
	assert.ErrorIs(t, err, apperr.ErrNotFound)
}

// Walks the add/add/add/checkout sequence end to end: stock 5, add 3,
// adding 4 more is rejected, add 2, checkout drains the stock.
func TestCartToCheckoutFlow(t *testing.T) {
	db := newTestDB(t)
	carts := newMemCarts()
	ctx := context.Background()
	product := seedProduct(t, db, "lamp", 30.0, 5)

	_, err := cartControllers.AddItem(ctx, db, carts, 7, product.ID, 3)
	require.NoError(t, err)

	_, err = cartControllers.AddItem(ctx, db, carts, 7, product.ID, 4)
	require.ErrorIs(t, err, apperr.ErrOutOfStock)

	_, err = cartControllers.AddItem(ctx, db, carts, 7, product.ID, 2)
	require.NoError(t, err)

	order, err := PlaceOrder(ctx, db, carts, 7)
	require.NoError(t, err)
	assert.InDelta(t, 150.0, order.TotalAmount, 1e-9)
	assert.Equal(t, 0, stockOf(t, db, product.ID))
}
