package models

// Documents kept in the document store. Carts, profile extensions, product
// descriptions and promotions are semi-structured and never join relationally.

type CartItem struct {
	ProductID uint `bson:"product_id" json:"product_id"`
	Quantity  int  `bson:"quantity" json:"quantity"`
}

// Cart is one document per customer. Product ids are unique within Items;
// re-adding a product merges quantities.
type Cart struct {
	CustomerID uint       `bson:"customer_id" json:"customer_id"`
	Items      []CartItem `bson:"items" json:"items"`
}

// Quantity returns the quantity already in the cart for a product, zero when
// the product is not present.
func (c *Cart) Quantity(productID uint) int {
	for _, item := range c.Items {
		if item.ProductID == productID {
			return item.Quantity
		}
	}
	return 0
}

// Add merges into an existing line or appends a new one.
func (c *Cart) Add(productID uint, quantity int) {
	for i := range c.Items {
		if c.Items[i].ProductID == productID {
			c.Items[i].Quantity += quantity
			return
		}
	}
	c.Items = append(c.Items, CartItem{ProductID: productID, Quantity: quantity})
}

// Remove filters the line out; removing an absent product is a no-op.
func (c *Cart) Remove(productID uint) {
	kept := c.Items[:0]
	for _, item := range c.Items {
		if item.ProductID != productID {
			kept = append(kept, item)
		}
	}
	c.Items = kept
}

// UserProfile extends a customer account with free-form fields.
type UserProfile struct {
	CustomerID uint   `bson:"customer_id" json:"customer_id"`
	Name       string `bson:"name" json:"name"`
	Email      string `bson:"email" json:"email"`
	Bio        string `bson:"bio,omitempty" json:"bio,omitempty"`
}

// ProductDoc carries the description and extensible attributes mirrored from
// the relational product row.
type ProductDoc struct {
	ProductID   uint              `bson:"product_id" json:"product_id"`
	Description string            `bson:"description" json:"description"`
	Attributes  map[string]string `bson:"attributes" json:"attributes"`
}

type Promotion struct {
	ID          string  `bson:"-" json:"id"`
	Name        string  `bson:"name" json:"name"`
	Description string  `bson:"description" json:"description"`
	Discount    float64 `bson:"discount" json:"discount"`
	Products    []uint  `bson:"products" json:"products"`
}
