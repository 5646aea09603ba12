package orders

import (
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/Bysiu/designstron-sub001/app/models"
	"github.com/Bysiu/designstron-sub001/app/repository"
)

// Event names a cause for an order status transition.
type Event string

const (
	// EventPaymentConfirmed moves a pending order to paid.
	EventPaymentConfirmed Event = "payment_confirmed"
	// EventPaymentExpired cancels a pending order whose checkout session
	// expired or was abandoned.
	EventPaymentExpired Event = "payment_expired"
	// EventWorkStarted marks a paid order as being worked on by staff.
	EventWorkStarted Event = "work_started"
	// EventWorkCompleted marks an in-progress order as done.
	EventWorkCompleted Event = "work_completed"
	// EventCancelled cancels a paid order before work starts.
	EventCancelled Event = "cancelled"
)

var (
	// ErrIllegalTransition indicates the event is not legal from the order's
	// current status. Nothing is mutated.
	ErrIllegalTransition = errors.New("illegal order status transition")
	// ErrUnknownEvent indicates an event outside the transition table.
	ErrUnknownEvent = errors.New("unknown order event")
)

type transition struct {
	from string
	to   string
}

// The transition table. COMPLETED and CANCELLED are terminal: no event leads
// out of them.
var transitions = map[Event]transition{
	EventPaymentConfirmed: {from: models.OrderStatusPending, to: models.OrderStatusPaid},
	EventPaymentExpired:   {from: models.OrderStatusPending, to: models.OrderStatusCancelled},
	EventWorkStarted:      {from: models.OrderStatusPaid, to: models.OrderStatusInProgress},
	EventWorkCompleted:    {from: models.OrderStatusInProgress, to: models.OrderStatusCompleted},
	EventCancelled:        {from: models.OrderStatusPaid, to: models.OrderStatusCancelled},
}

// CanApply reports whether event is legal for an order in the given status.
func CanApply(status string, event Event) bool {
	tr, ok := transitions[event]
	return ok && tr.from == status
}

// Repository is the slice of the order store the lifecycle needs.
type Repository interface {
	GetByID(id uint) (*models.Order, error)
	UpdateStatusIf(orderID uint, fromStatus, toStatus, comment, sessionRef string) error
}

// Service applies lifecycle events to orders. Every successful application
// writes the new status and exactly one history entry atomically through the
// repository's conditional update.
type Service struct {
	repo Repository
}

// NewService creates a lifecycle service from an injected repository.
func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// NewServiceFromDB creates a lifecycle service from a GORM DB handle.
func NewServiceFromDB(db *gorm.DB) *Service {
	return NewService(repository.NewOrderRepository(db))
}

// Apply runs one lifecycle event against the order. The returned bool reports
// whether this call performed the transition: an order already in the target
// state is a safe no-op (false, nil), as is losing a race against a
// concurrent caller applying the same event. Illegal source states fail with
// ErrIllegalTransition and mutate nothing.
//
// sessionRef, when non-empty, links the history entry to the external
// checkout session that caused the event; the unique (order, session) history
// index then hard-rejects a second entry for the same delivery.
func (s *Service) Apply(order *models.Order, event Event, comment, sessionRef string) (*models.Order, bool, error) {
	tr, ok := transitions[event]
	if !ok {
		return nil, false, fmt.Errorf("%w: %q", ErrUnknownEvent, event)
	}

	if order.Status == tr.to {
		return order, false, nil
	}
	if order.Status != tr.from {
		return nil, false, fmt.Errorf("%w: %s not allowed from %s", ErrIllegalTransition, event, order.Status)
	}

	err := s.repo.UpdateStatusIf(order.ID, tr.from, tr.to, comment, sessionRef)
	if errors.Is(err, repository.ErrStatusConflict) {
		// Someone else moved the order between our read and the guarded
		// update. Re-read and decide: same target means they applied the same
		// event and this call is a no-op.
		fresh, ferr := s.repo.GetByID(order.ID)
		if ferr != nil {
			return nil, false, ferr
		}
		if fresh.Status == tr.to {
			return fresh, false, nil
		}
		return nil, false, fmt.Errorf("%w: %s not allowed from %s", ErrIllegalTransition, event, fresh.Status)
	}
	if err != nil {
		return nil, false, err
	}

	fresh, err := s.repo.GetByID(order.ID)
	if err != nil {
		return nil, false, err
	}
	return fresh, true, nil
}
