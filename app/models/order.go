package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	OrderStatusPending    = "pending"
	OrderStatusPaid       = "paid"
	OrderStatusInProgress = "in_progress"
	OrderStatusCompleted  = "completed"
	OrderStatusCancelled  = "cancelled"
)

const (
	HostingPlanNone    = "none"
	HostingPlanBasic   = "basic"
	HostingPlanPremium = "premium"
)

// Order is a customer purchase: a website package order or a hosting order.
// Status is a denormalized copy of the latest OrderStatusHistory entry and is
// only ever changed together with a new history row in one transaction.
type Order struct {
	ID                uint       `gorm:"primaryKey" json:"id"`
	PublicID          string     `gorm:"type:varchar(36);uniqueIndex" json:"public_id"`
	UserID            uint       `gorm:"not null;index" json:"user_id"`
	User              User       `gorm:"foreignKey:UserID" json:"-"`
	Status            string     `gorm:"type:varchar(20);not null;default:'pending';index" json:"status"`
	TotalAmount       int64      `gorm:"not null" json:"total_amount"`
	Currency          string     `gorm:"type:varchar(3);not null;default:'EUR'" json:"currency"`
	HostingPlan       string     `gorm:"type:varchar(20);not null;default:'none'" json:"hosting_plan"`
	HostingExpiresAt  *time.Time `gorm:"type:timestamp;default:null" json:"hosting_expires_at,omitempty"`
	Domain            string     `gorm:"type:varchar(255);default:null" json:"domain,omitempty"`
	SSLEnabled        bool       `gorm:"default:false" json:"ssl_enabled"`
	CheckoutSessionID string     `gorm:"type:varchar(191);default:null;index" json:"-"`

	LineItems     []OrderLineItem      `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE" json:"line_items,omitempty"`
	StatusHistory []OrderStatusHistory `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE" json:"status_history,omitempty"`
	Messages      []Message            `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE" json:"messages,omitempty"`

	CreatedAt time.Time      `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time      `gorm:"autoUpdateTime" json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

// BeforeCreate assigns the public UUID used in URLs and payment metadata.
func (o *Order) BeforeCreate(tx *gorm.DB) error {
	if o.PublicID == "" {
		o.PublicID = uuid.New().String()
	}
	return nil
}

// IsTerminal reports whether no further status transitions are legal.
func (o *Order) IsTerminal() bool {
	return o.Status == OrderStatusCompleted || o.Status == OrderStatusCancelled
}

// HasActiveHosting reports whether the order carries a hosting plan with an
// expiry date in the future. Expiry is informational, not access control.
func (o *Order) HasActiveHosting() bool {
	return o.HostingPlan != HostingPlanNone &&
		o.HostingExpiresAt != nil &&
		o.HostingExpiresAt.After(time.Now())
}

// IsValidOrderStatus reports whether s is a known order status value.
func IsValidOrderStatus(s string) bool {
	switch s {
	case OrderStatusPending, OrderStatusPaid, OrderStatusInProgress,
		OrderStatusCompleted, OrderStatusCancelled:
		return true
	default:
		return false
	}
}

// IsValidHostingPlan reports whether p is a purchasable hosting plan.
func IsValidHostingPlan(p string) bool {
	return p == HostingPlanBasic || p == HostingPlanPremium
}
