package orders

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Bysiu/designstron-sub001/app/models"
	"github.com/Bysiu/designstron-sub001/app/repository"
)

// fakeOrderRepo keeps one order in memory and implements the conditional
// update the way the real repository does.
type fakeOrderRepo struct {
	order      *models.Order
	history    []models.OrderStatusHistory
	updateErr  error
	conflictAt string // when set, the stored status silently becomes this before the update
}

func (f *fakeOrderRepo) GetByID(id uint) (*models.Order, error) {
	cp := *f.order
	return &cp, nil
}

func (f *fakeOrderRepo) UpdateStatusIf(orderID uint, fromStatus, toStatus, comment, sessionRef string) error {
	if f.updateErr != nil {
		return f.updateErr
	}
	if f.conflictAt != "" {
		f.order.Status = f.conflictAt
		f.conflictAt = ""
	}
	if f.order.Status != fromStatus {
		return repository.ErrStatusConflict
	}
	f.order.Status = toStatus
	f.history = append(f.history, models.OrderStatusHistory{
		OrderID: orderID,
		Status:  toStatus,
		Comment: comment,
	})
	return nil
}

func newFakeRepo(status string) *fakeOrderRepo {
	return &fakeOrderRepo{order: &models.Order{ID: 1, Status: status}}
}

func TestApply_LegalTransitions(t *testing.T) {
	tests := []struct {
		name  string
		from  string
		event Event
		to    string
	}{
		{"payment confirmed", models.OrderStatusPending, EventPaymentConfirmed, models.OrderStatusPaid},
		{"payment expired", models.OrderStatusPending, EventPaymentExpired, models.OrderStatusCancelled},
		{"work started", models.OrderStatusPaid, EventWorkStarted, models.OrderStatusInProgress},
		{"work completed", models.OrderStatusInProgress, EventWorkCompleted, models.OrderStatusCompleted},
		{"cancelled", models.OrderStatusPaid, EventCancelled, models.OrderStatusCancelled},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			repo := newFakeRepo(tc.from)
			svc := NewService(repo)

			updated, applied, err := svc.Apply(repo.order, tc.event, "test", "")
			require.NoError(t, err)
			assert.True(t, applied)
			assert.Equal(t, tc.to, updated.Status)
			require.Len(t, repo.history, 1)
			assert.Equal(t, tc.to, repo.history[0].Status)
		})
	}
}

func TestApply_IllegalTransitionLeavesStateUnchanged(t *testing.T) {
	tests := []struct {
		name  string
		from  string
		event Event
	}{
		{"work on pending order", models.OrderStatusPending, EventWorkStarted},
		{"complete pending order", models.OrderStatusPending, EventWorkCompleted},
		{"cancel completed order", models.OrderStatusCompleted, EventCancelled},
		{"pay cancelled order", models.OrderStatusCancelled, EventPaymentConfirmed},
		{"restart completed order", models.OrderStatusCompleted, EventWorkStarted},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			repo := newFakeRepo(tc.from)
			svc := NewService(repo)

			_, applied, err := svc.Apply(repo.order, tc.event, "test", "")
			require.Error(t, err)
			assert.True(t, errors.Is(err, ErrIllegalTransition))
			assert.False(t, applied)
			assert.Equal(t, tc.from, repo.order.Status)
			assert.Empty(t, repo.history)
		})
	}
}

func TestApply_TargetStateIsNoOp(t *testing.T) {
	repo := newFakeRepo(models.OrderStatusPaid)
	svc := NewService(repo)

	updated, applied, err := svc.Apply(repo.order, EventPaymentConfirmed, "test", "")
	require.NoError(t, err)
	assert.False(t, applied)
	assert.Equal(t, models.OrderStatusPaid, updated.Status)
	assert.Empty(t, repo.history)
}

func TestApply_UnknownEvent(t *testing.T) {
	repo := newFakeRepo(models.OrderStatusPending)
	svc := NewService(repo)

	_, _, err := svc.Apply(repo.order, Event("vanished"), "test", "")
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrUnknownEvent))
}

func TestApply_ConcurrentSameEventIsNoOp(t *testing.T) {
	// The stored order moves to the target state between our read and the
	// guarded update: the same event won the race elsewhere.
	repo := newFakeRepo(models.OrderStatusPending)
	repo.conflictAt = models.OrderStatusPaid
	svc := NewService(repo)

	stale := &models.Order{ID: 1, Status: models.OrderStatusPending}
	updated, applied, err := svc.Apply(stale, EventPaymentConfirmed, "test", "sess_1")
	require.NoError(t, err)
	assert.False(t, applied)
	assert.Equal(t, models.OrderStatusPaid, updated.Status)
	assert.Empty(t, repo.history)
}

func TestApply_ConcurrentDivergentEventFails(t *testing.T) {
	// The stored order was cancelled while we held a stale pending snapshot.
	repo := newFakeRepo(models.OrderStatusPending)
	repo.conflictAt = models.OrderStatusCancelled
	svc := NewService(repo)

	stale := &models.Order{ID: 1, Status: models.OrderStatusPending}
	_, applied, err := svc.Apply(stale, EventPaymentConfirmed, "test", "sess_1")
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrIllegalTransition))
	assert.False(t, applied)
	assert.Equal(t, models.OrderStatusCancelled, repo.order.Status)
}

func TestCanApply(t *testing.T) {
	assert.True(t, CanApply(models.OrderStatusPending, EventPaymentConfirmed))
	assert.True(t, CanApply(models.OrderStatusPaid, EventWorkStarted))
	assert.False(t, CanApply(models.OrderStatusCompleted, EventWorkStarted))
	assert.False(t, CanApply(models.OrderStatusCancelled, EventPaymentConfirmed))
	assert.False(t, CanApply(models.OrderStatusPending, Event("vanished")))
}
