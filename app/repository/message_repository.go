package repository

import (
	"gorm.io/gorm"

	"github.com/Bysiu/designstron-sub001/app/models"
)

// messageRepository implements the MessageRepository interface
type messageRepository struct {
	db *gorm.DB
}

// NewMessageRepository creates a new message repository instance
func NewMessageRepository(db *gorm.DB) MessageRepository {
	return &messageRepository{db: db}
}

// Create appends a message to an order's conversation thread
func (r *messageRepository) Create(message *models.Message) error {
	return r.db.Create(message).Error
}

// ListByOrder retrieves the full thread for an order, oldest first
func (r *messageRepository) ListByOrder(orderID uint) ([]models.Message, error) {
	var messages []models.Message
	err := r.db.Where("order_id = ?", orderID).
		Order("created_at ASC, id ASC").Find(&messages).Error
	return messages, err
}

// CountByOrder returns the number of messages on an order
func (r *messageRepository) CountByOrder(orderID uint) (int64, error) {
	var count int64
	err := r.db.Model(&models.Message{}).Where("order_id = ?", orderID).Count(&count).Error
	return count, err
}
