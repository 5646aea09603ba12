package payments

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"gorm.io/gorm"

	"github.com/Bysiu/designstron-sub001/app/models"
	"github.com/Bysiu/designstron-sub001/app/repository"
	"github.com/Bysiu/designstron-sub001/internal/pkg/hosting"
	"github.com/Bysiu/designstron-sub001/internal/pkg/orders"
)

var (
	// ErrOrderNotFound indicates the session references no known order.
	// Non-retryable; surfaced as 404.
	ErrOrderNotFound = errors.New("no order found for checkout session")
	// ErrForbidden indicates the authenticated caller does not own the order
	// (pull path only).
	ErrForbidden = errors.New("caller does not own this order")
	// ErrInvalidSignature indicates a push event whose payload signature did
	// not verify. The event body must not be processed.
	ErrInvalidSignature = errors.New("invalid webhook signature")
)

// OrderStore is the slice of the order repository the reconciler needs.
type OrderStore interface {
	GetByID(id uint) (*models.Order, error)
	GetByPublicID(publicID string) (*models.Order, error)
	HasHistoryMarker(orderID uint, sessionRef string) (bool, error)
	ExtendHostingExpiry(orderID uint, newExpiry time.Time, comment, sessionRef string) (bool, error)
}

// Lifecycle applies order status transitions.
type Lifecycle interface {
	Apply(order *models.Order, event orders.Event, comment, sessionRef string) (*models.Order, bool, error)
}

// Reconciler turns asynchronous payment confirmations into exactly one order
// transition per checkout session, no matter how often or in what order the
// push (webhook) and pull (client verify) paths deliver the same session.
type Reconciler struct {
	client    CheckoutClient
	store     OrderStore
	lifecycle Lifecycle
}

// NewReconciler creates a reconciler from injected collaborators.
func NewReconciler(client CheckoutClient, store OrderStore, lifecycle Lifecycle) *Reconciler {
	return &Reconciler{client: client, store: store, lifecycle: lifecycle}
}

// NewReconcilerFromDB wires the reconciler against a GORM DB handle and the
// environment-configured checkout client.
func NewReconcilerFromDB(db *gorm.DB) *Reconciler {
	repo := repository.NewOrderRepository(db)
	return NewReconciler(NewCheckoutClientFromEnv(), repo, orders.NewServiceFromDB(db))
}

// Reconcile resolves the session at the provider and applies at most one
// authoritative transition to the referenced order. Safe to call repeatedly
// and concurrently for the same session: the final persisted state is as if
// exactly one call ran the mutating path.
func (r *Reconciler) Reconcile(ctx context.Context, sessionID string, caller Caller) (*Result, error) {
	sess, err := r.client.RetrieveSession(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	publicID := sess.Metadata[MetadataOrderID]
	if publicID == "" {
		return nil, fmt.Errorf("%w: session %s carries no order reference", ErrOrderNotFound, sessionID)
	}
	order, err := r.store.GetByPublicID(publicID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: %s", ErrOrderNotFound, publicID)
		}
		return nil, err
	}

	// Pull path: the caller authenticated with a user session and must own
	// the order. The push path (zero caller) is signature-authenticated.
	if caller.UserID != 0 && !caller.IsAdmin && order.UserID != caller.UserID {
		return nil, ErrForbidden
	}

	res := &Result{
		OrderPublicID: order.PublicID,
		Status:        order.Status,
		PaymentStatus: sess.PaymentStatus,
		AmountTotal:   sess.AmountTotal,
	}
	if sess.PaymentStatus != PaymentStatusPaid {
		return res, nil
	}

	switch order.Status {
	case models.OrderStatusPending:
		updated, applied, err := r.lifecycle.Apply(order, orders.EventPaymentConfirmed,
			"Payment confirmed by checkout provider", sess.ID)
		if err != nil {
			return nil, err
		}
		order = updated
		res.Status = updated.Status
		res.Applied = applied
		res.AlreadyProcessed = !applied
	default:
		// Already paid or further along: the payment was consumed earlier.
		res.AlreadyProcessed = true
	}

	if hostingPublicID := sess.Metadata[MetadataHostingOrderID]; hostingPublicID != "" {
		if err := r.applyHostingExtension(sess, hostingPublicID, res); err != nil {
			return nil, err
		}
	}

	return res, nil
}

// applyHostingExtension advances the expiry of the hosting order named in the
// session metadata. The target is a different order than the charge order the
// session nominally paid for. A history marker per (order, session) gates the
// write, so a replayed callback is a safe no-op.
func (r *Reconciler) applyHostingExtension(sess *Session, hostingPublicID string, res *Result) error {
	target, err := r.store.GetByPublicID(hostingPublicID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("%w: hosting order %s", ErrOrderNotFound, hostingPublicID)
		}
		return err
	}

	seen, err := r.store.HasHistoryMarker(target.ID, sess.ID)
	if err != nil {
		return err
	}
	if seen {
		res.AlreadyProcessed = true
		return nil
	}

	months := 1
	if m, err := strconv.Atoi(sess.Metadata[MetadataHostingMonths]); err == nil && m >= 1 {
		months = m
	}
	newExpiry, err := hosting.NextExpiry(target, months)
	if err != nil {
		return err
	}

	comment := fmt.Sprintf("Hosting extended by %d months until %s",
		months, newExpiry.Format("2006-01-02"))
	applied, err := r.store.ExtendHostingExpiry(target.ID, newExpiry, comment, sess.ID)
	if err != nil {
		return err
	}
	if applied {
		res.Applied = true
	} else {
		// Lost the race against a concurrent delivery of the same session.
		res.AlreadyProcessed = true
	}
	return nil
}
