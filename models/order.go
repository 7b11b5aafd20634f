package models

import "time"

type OrderStatus string

// Checkout only ever assigns "pending"; no later transition exists here.
const OrderStatusPending OrderStatus = "pending"

type Order struct {
	ID          uint        `gorm:"primaryKey;autoIncrement" json:"id"`
	CustomerID  uint        `gorm:"index;not null" json:"customer_id"`
	Status      OrderStatus `gorm:"type:VARCHAR(20);default:'pending'" json:"status"`
	OrderDate   time.Time   `json:"order_date"`
	TotalAmount float64     `json:"total_amount"`
	Items       []OrderItem `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE" json:"items"`
}

// OrderItem snapshots the unit price at checkout; later product price changes
// never touch past orders.
type OrderItem struct {
	ID        uint    `gorm:"primaryKey;autoIncrement" json:"id"`
	OrderID   uint    `gorm:"index" json:"order_id"`
	ProductID uint    `json:"product_id"`
	Quantity  int     `json:"quantity"`
	Price     float64 `json:"price"`
}
