package models

import "time"

// OrderLineItem is an immutable snapshot of one charged position. Amounts are
// minor currency units; TotalPrice is denormalized at creation time and never
// recomputed afterwards.
type OrderLineItem struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	OrderID     uint      `gorm:"not null;index" json:"order_id"`
	Name        string    `gorm:"type:varchar(200);not null" json:"name"`
	Description string    `gorm:"type:text" json:"description"`
	Quantity    int       `gorm:"not null" json:"quantity" validate:"gt=0"`
	UnitPrice   int64     `gorm:"not null" json:"unit_price"`
	TotalPrice  int64     `gorm:"not null" json:"total_price"`
	CreatedAt   time.Time `gorm:"autoCreateTime" json:"created_at"`
}

// NewOrderLineItem builds a line item with the denormalized total.
func NewOrderLineItem(name, description string, quantity int, unitPrice int64) OrderLineItem {
	return OrderLineItem{
		Name:        name,
		Description: description,
		Quantity:    quantity,
		UnitPrice:   unitPrice,
		TotalPrice:  int64(quantity) * unitPrice,
	}
}
