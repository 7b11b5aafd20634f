package models

import "time"

// Review belongs to a product and its author; only the author may edit or
// delete it. The aggregate rating is computed on read, never stored.
type Review struct {
	ID         uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	ProductID  uint      `gorm:"index;not null" json:"product_id"`
	CustomerID uint      `gorm:"index;not null" json:"customer_id"`
	Rating     int       `gorm:"not null" json:"rating"`
	Comment    string    `json:"comment"`
	CreatedAt  time.Time `json:"created_at"`
}
