package repository

import (
	"errors"
	"strings"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/Bysiu/designstron-sub001/app/models"
)

// ErrStatusConflict is returned by UpdateStatusIf when the order is no longer
// in the expected source status. Callers decide whether that means a lost
// race (safe no-op) or an illegal transition.
var ErrStatusConflict = errors.New("order status conflict")

// orderRepository implements the OrderRepository interface
type orderRepository struct {
	db *gorm.DB
}

// NewOrderRepository creates a new order repository instance
func NewOrderRepository(db *gorm.DB) OrderRepository {
	return &orderRepository{db: db}
}

// Create persists the order, its line items and the initial history entry in
// one transaction.
func (r *orderRepository) Create(order *models.Order, historyComment string) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(order).Error; err != nil {
			return err
		}
		history := models.OrderStatusHistory{
			OrderID: order.ID,
			Status:  order.Status,
			Comment: historyComment,
		}
		return tx.Create(&history).Error
	})
}

// GetByID retrieves an order with its line items and history
func (r *orderRepository) GetByID(id uint) (*models.Order, error) {
	var order models.Order
	err := r.db.Preload("LineItems").Preload("StatusHistory", historyOrdered).First(&order, id).Error
	if err != nil {
		return nil, err
	}
	return &order, nil
}

// GetByPublicID retrieves an order by its public UUID
func (r *orderRepository) GetByPublicID(publicID string) (*models.Order, error) {
	var order models.Order
	err := r.db.Preload("LineItems").Preload("StatusHistory", historyOrdered).
		Where("public_id = ?", publicID).First(&order).Error
	if err != nil {
		return nil, err
	}
	return &order, nil
}

// GetBySessionID retrieves the order referencing an external checkout session
func (r *orderRepository) GetBySessionID(sessionID string) (*models.Order, error) {
	trimmed := strings.TrimSpace(sessionID)
	if trimmed == "" {
		return nil, gorm.ErrRecordNotFound
	}
	var order models.Order
	err := r.db.Preload("LineItems").Preload("StatusHistory", historyOrdered).
		Where("checkout_session_id = ?", trimmed).First(&order).Error
	if err != nil {
		return nil, err
	}
	return &order, nil
}

// ListByUser retrieves a paginated list of one customer's orders
func (r *orderRepository) ListByUser(userID uint, offset, limit int) ([]models.Order, error) {
	var orders []models.Order
	err := r.db.Preload("LineItems").Where("user_id = ?", userID).
		Order("created_at DESC").Offset(offset).Limit(limit).Find(&orders).Error
	return orders, err
}

// List retrieves a paginated list of all orders (admin view)
func (r *orderRepository) List(offset, limit int) ([]models.Order, error) {
	var orders []models.Order
	err := r.db.Preload("LineItems").Preload("User").
		Order("created_at DESC").Offset(offset).Limit(limit).Find(&orders).Error
	return orders, err
}

// Count returns the total number of orders
func (r *orderRepository) Count() (int64, error) {
	var count int64
	err := r.db.Model(&models.Order{}).Count(&count).Error
	return count, err
}

// CountByStatus returns the number of orders in the given status
func (r *orderRepository) CountByStatus(status string) (int64, error) {
	var count int64
	err := r.db.Model(&models.Order{}).Where("status = ?", status).Count(&count).Error
	return count, err
}

// UpdateStatusIf applies a guarded status transition. The UPDATE carries the
// expected source status in its WHERE clause, so two racing callers cannot
// both move the order; the loser sees ErrStatusConflict and nothing written.
func (r *orderRepository) UpdateStatusIf(orderID uint, fromStatus, toStatus, comment, sessionRef string) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&models.Order{}).
			Where("id = ? AND status = ?", orderID, fromStatus).
			Updates(map[string]interface{}{
				"status":     toStatus,
				"updated_at": time.Now(),
			})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ErrStatusConflict
		}

		history := models.OrderStatusHistory{
			OrderID:    orderID,
			Status:     toStatus,
			Comment:    comment,
			SessionRef: sessionRefPtr(sessionRef),
		}
		return tx.Create(&history).Error
	})
}

// ExtendHostingExpiry writes the new expiry date gated by a marker history
// entry. The marker insert uses ON CONFLICT DO NOTHING on the unique
// (order_id, session_ref) index; when the insert is a no-op the extension has
// already been applied by an earlier delivery of the same session.
func (r *orderRepository) ExtendHostingExpiry(orderID uint, newExpiry time.Time, comment, sessionRef string) (bool, error) {
	applied := false
	err := r.db.Transaction(func(tx *gorm.DB) error {
		marker := models.OrderStatusHistory{
			OrderID:    orderID,
			Status:     models.OrderStatusPaid,
			Comment:    comment,
			SessionRef: sessionRefPtr(sessionRef),
		}
		res := tx.Clauses(clause.OnConflict{
			Columns: []clause.Column{
				{Name: "order_id"},
				{Name: "session_ref"},
			},
			DoNothing: true,
		}).Create(&marker)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return nil
		}

		applied = true
		return tx.Model(&models.Order{}).
			Where("id = ?", orderID).
			Updates(map[string]interface{}{
				"hosting_expires_at": newExpiry,
				"updated_at":         time.Now(),
			}).Error
	})
	return applied, err
}

// HasHistoryMarker reports whether a history entry for the given external
// session already exists on the order.
func (r *orderRepository) HasHistoryMarker(orderID uint, sessionRef string) (bool, error) {
	trimmed := strings.TrimSpace(sessionRef)
	if trimmed == "" {
		return false, nil
	}
	var count int64
	err := r.db.Model(&models.OrderStatusHistory{}).
		Where("order_id = ? AND session_ref = ?", orderID, trimmed).
		Count(&count).Error
	return count > 0, err
}

// SetCheckoutSession stores the external session reference on the order
func (r *orderRepository) SetCheckoutSession(orderID uint, sessionID string) error {
	return r.db.Model(&models.Order{}).
		Where("id = ?", orderID).
		Update("checkout_session_id", sessionID).Error
}

func historyOrdered(db *gorm.DB) *gorm.DB {
	return db.Order("order_status_histories.created_at ASC, order_status_histories.id ASC")
}

func sessionRefPtr(sessionRef string) *string {
	trimmed := strings.TrimSpace(sessionRef)
	if trimmed == "" {
		return nil
	}
	return &trimmed
}
