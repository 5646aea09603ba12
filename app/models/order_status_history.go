package models

import "time"

// OrderStatusHistory is the append-only audit trail of an order. Ordering by
// CreatedAt is the source of truth for the current status; Order.Status is
// the fast-access copy.
//
// SessionRef links an entry to the external checkout session that caused it.
// The unique (order_id, session_ref) index is the idempotency gate for
// payment reconciliation: at most one entry may ever exist per pair.
type OrderStatusHistory struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	OrderID    uint      `gorm:"not null;index;index:ux_order_history_session,unique,priority:1" json:"order_id"`
	Status     string    `gorm:"type:varchar(20);not null" json:"status"`
	Comment    string    `gorm:"type:text" json:"comment"`
	SessionRef *string   `gorm:"type:varchar(191);default:null;index:ux_order_history_session,unique,priority:2" json:"session_ref,omitempty"`
	CreatedAt  time.Time `gorm:"autoCreateTime;index" json:"created_at"`
}
