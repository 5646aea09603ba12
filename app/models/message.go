package models

import "time"

const (
	MessageSenderCustomer = "customer"
	MessageSenderStaff    = "staff"
)

// Message is one entry of the per-order conversation thread between the
// customer and staff. Append-only, ordered by CreatedAt.
type Message struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	OrderID   uint      `gorm:"not null;index" json:"order_id"`
	UserID    uint      `gorm:"index" json:"user_id"`
	Sender    string    `gorm:"type:varchar(20);not null" json:"sender" validate:"oneof=customer staff"`
	Content   string    `gorm:"type:text;not null" json:"content" validate:"required,max=5000"`
	CreatedAt time.Time `gorm:"autoCreateTime;index" json:"created_at"`
}
