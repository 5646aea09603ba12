package repository

import (
	"time"

	"gorm.io/gorm"

	"github.com/Bysiu/designstron-sub001/app/models"
)

// UserRepository defines the interface for user-related database operations
type UserRepository interface {
	Create(user *models.User) error
	GetByID(id uint) (*models.User, error)
	GetByEmail(email string) (*models.User, error)
	GetByActivationToken(token string) (*models.User, error)
	Update(user *models.User) error
	List(offset, limit int) ([]models.User, error)
	Count() (int64, error)
}

// OrderRepository defines the interface for order persistence. Mutations that
// touch both the order row and its history log run in a single transaction so
// status and history can never be observed out of lock-step.
type OrderRepository interface {
	// Create persists the order together with its line items and one initial
	// history entry, atomically.
	Create(order *models.Order, historyComment string) error
	GetByID(id uint) (*models.Order, error)
	GetByPublicID(publicID string) (*models.Order, error)
	GetBySessionID(sessionID string) (*models.Order, error)
	ListByUser(userID uint, offset, limit int) ([]models.Order, error)
	List(offset, limit int) ([]models.Order, error)
	Count() (int64, error)
	CountByStatus(status string) (int64, error)

	// UpdateStatusIf moves the order from fromStatus to toStatus and appends
	// one history entry, in one transaction. The UPDATE is conditional on the
	// current status; ErrStatusConflict is returned (and nothing is written)
	// when the order is not in fromStatus anymore.
	UpdateStatusIf(orderID uint, fromStatus, toStatus, comment, sessionRef string) error

	// ExtendHostingExpiry pushes the hosting expiry date forward, gated by a
	// history marker per external session: when a marker for (orderID,
	// sessionRef) already exists the call is a no-op and returns false.
	ExtendHostingExpiry(orderID uint, newExpiry time.Time, comment, sessionRef string) (bool, error)

	HasHistoryMarker(orderID uint, sessionRef string) (bool, error)
	SetCheckoutSession(orderID uint, sessionID string) error
}

// MessageRepository defines the interface for order conversation threads
type MessageRepository interface {
	Create(message *models.Message) error
	ListByOrder(orderID uint) ([]models.Message, error)
	CountByOrder(orderID uint) (int64, error)
}

// PaymentEventRepository defines the interface for the webhook dedup ledger
type PaymentEventRepository interface {
	// CreateIfNotExists inserts the event unless one with the same
	// (provider, provider_event_id) already exists. The bool reports whether
	// this call created the row.
	CreateIfNotExists(event *models.PaymentEvent) (bool, *models.PaymentEvent, error)
	MarkProcessed(id uint, processingError string) error
}

// Repositories struct holds all repository instances
type Repositories struct {
	User         UserRepository
	Order        OrderRepository
	Message      MessageRepository
	PaymentEvent PaymentEventRepository
}

// NewRepositories creates a new instance of all repositories
func NewRepositories(db *gorm.DB) *Repositories {
	return &Repositories{
		User:         NewUserRepository(db),
		Order:        NewOrderRepository(db),
		Message:      NewMessageRepository(db),
		PaymentEvent: NewPaymentEventRepository(db),
	}
}
