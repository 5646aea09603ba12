package hosting

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Bysiu/designstron-sub001/app/models"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 12, 0, 0, 0, time.UTC)
}

func TestAddMonthsClamped(t *testing.T) {
	tests := []struct {
		name   string
		start  time.Time
		months int
		want   time.Time
	}{
		{"plain month", date(2025, time.March, 15), 1, date(2025, time.April, 15)},
		{"january 31 clamps to february", date(2025, time.January, 31), 1, date(2025, time.February, 28)},
		{"january 31 leap year", date(2024, time.January, 31), 1, date(2024, time.February, 29)},
		{"leap day plus a year", date(2024, time.February, 29), 12, date(2025, time.February, 28)},
		{"year rollover", date(2025, time.November, 30), 3, date(2026, time.February, 28)},
		{"march 31 to april 30", date(2025, time.March, 31), 1, date(2025, time.April, 30)},
		{"twelve months keeps day", date(2025, time.June, 15), 12, date(2026, time.June, 15)},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, AddMonthsClamped(tc.start, tc.months))
		})
	}
}

func TestNextExpiry_FromExistingExpiry(t *testing.T) {
	expiry := date(2026, time.March, 31)
	order := &models.Order{HostingPlan: models.HostingPlanBasic, HostingExpiresAt: &expiry}

	got, err := NextExpiry(order, 1)
	require.NoError(t, err)
	assert.Equal(t, date(2026, time.April, 30), got)
}

func TestNextExpiry_ExpiredExtendsFromNow(t *testing.T) {
	order := &models.Order{HostingPlan: models.HostingPlanBasic}

	before := time.Now()
	got, err := NextExpiry(order, 6)
	require.NoError(t, err)
	assert.True(t, got.After(AddMonthsClamped(before, 5)))
}

func TestNextExpiry_InvalidPeriod(t *testing.T) {
	_, err := NextExpiry(&models.Order{}, 0)
	assert.Error(t, err)
}

// fakeHostingRepo records created orders and expiry extensions.
type fakeHostingRepo struct {
	created    []*models.Order
	extended   map[string]time.Time // sessionRef -> expiry
	extendBusy bool                 // marker already present
}

func (f *fakeHostingRepo) Create(order *models.Order, historyComment string) error {
	order.ID = uint(len(f.created) + 1)
	order.Currency = "EUR"
	f.created = append(f.created, order)
	return nil
}

func (f *fakeHostingRepo) ExtendHostingExpiry(orderID uint, newExpiry time.Time, comment, sessionRef string) (bool, error) {
	if f.extendBusy {
		return false, nil
	}
	if f.extended == nil {
		f.extended = map[string]time.Time{}
	}
	if _, seen := f.extended[sessionRef]; seen {
		return false, nil
	}
	f.extended[sessionRef] = newExpiry
	return true, nil
}

func TestActivate_TwelveMonthsPremium(t *testing.T) {
	repo := &fakeHostingRepo{}
	m := NewManager(repo)

	order, err := m.Activate(7, models.HostingPlanPremium, "example.com", false, 12, false)
	require.NoError(t, err)

	assert.Equal(t, int64(408000), order.TotalAmount)
	assert.Equal(t, models.OrderStatusPending, order.Status)
	assert.Equal(t, models.HostingPlanPremium, order.HostingPlan)
	require.NotNil(t, order.HostingExpiresAt)
	require.Len(t, order.LineItems, 1)
	assert.Equal(t, int64(408000), order.LineItems[0].TotalPrice)
}

func TestActivate_WithSSLAndPaid(t *testing.T) {
	repo := &fakeHostingRepo{}
	m := NewManager(repo)

	order, err := m.Activate(7, models.HostingPlanBasic, "example.com", true, 1, true)
	require.NoError(t, err)

	assert.Equal(t, int64(24900), order.TotalAmount)
	assert.Equal(t, models.OrderStatusCompleted, order.Status)
	require.Len(t, order.LineItems, 2)
	assert.Equal(t, int64(20000), order.LineItems[0].TotalPrice)
	assert.Equal(t, int64(4900), order.LineItems[1].TotalPrice)
}

func TestActivate_UnknownPlan(t *testing.T) {
	m := NewManager(&fakeHostingRepo{})

	_, err := m.Activate(7, "enterprise", "example.com", false, 1, false)
	assert.Error(t, err)
}

func TestExtend_AppliesOncePerSession(t *testing.T) {
	expiry := date(2026, time.June, 15)
	order := &models.Order{ID: 3, HostingPlan: models.HostingPlanBasic, HostingExpiresAt: &expiry}
	repo := &fakeHostingRepo{}
	m := NewManager(repo)

	got, applied, err := m.Extend(order, 6, "sess_ext_1")
	require.NoError(t, err)
	assert.True(t, applied)
	assert.Equal(t, date(2026, time.December, 15), got)

	_, applied, err = m.Extend(order, 6, "sess_ext_1")
	require.NoError(t, err)
	assert.False(t, applied)
}

func TestExtend_NoHostingPlan(t *testing.T) {
	m := NewManager(&fakeHostingRepo{})

	_, _, err := m.Extend(&models.Order{HostingPlan: models.HostingPlanNone}, 1, "sess")
	assert.True(t, errors.Is(err, ErrNoHostingPlan))
}

func TestChangePlan_UpgradeChargesRateDifference(t *testing.T) {
	expiry := AddMonthsClamped(time.Now().Add(time.Hour), 6)
	order := &models.Order{
		ID: 4, UserID: 7,
		HostingPlan:      models.HostingPlanBasic,
		HostingExpiresAt: &expiry,
	}
	repo := &fakeHostingRepo{}
	m := NewManager(repo)

	derived, err := m.ChangePlan(order, models.HostingPlanPremium, false)
	require.NoError(t, err)

	// 20000/month difference over 6 remaining months
	assert.Equal(t, int64(120000), derived.TotalAmount)
	assert.Equal(t, models.OrderStatusPending, derived.Status)
	assert.Equal(t, models.HostingPlanPremium, derived.HostingPlan)
	assert.Equal(t, expiry, *derived.HostingExpiresAt)
	// source order untouched
	assert.Equal(t, models.HostingPlanBasic, order.HostingPlan)
}

func TestChangePlan_DowngradeIsFreeAndCompletes(t *testing.T) {
	expiry := AddMonthsClamped(time.Now().Add(time.Hour), 6)
	order := &models.Order{
		ID: 4, UserID: 7,
		HostingPlan:      models.HostingPlanPremium,
		HostingExpiresAt: &expiry,
	}
	m := NewManager(&fakeHostingRepo{})

	derived, err := m.ChangePlan(order, models.HostingPlanBasic, false)
	require.NoError(t, err)
	assert.Equal(t, int64(0), derived.TotalAmount)
	assert.Equal(t, models.OrderStatusCompleted, derived.Status)
}

func TestChangePlan_Errors(t *testing.T) {
	m := NewManager(&fakeHostingRepo{})

	_, err := m.ChangePlan(&models.Order{HostingPlan: models.HostingPlanNone}, models.HostingPlanBasic, false)
	assert.True(t, errors.Is(err, ErrNoHostingPlan))

	expiry := AddMonthsClamped(time.Now(), 3)
	order := &models.Order{HostingPlan: models.HostingPlanBasic, HostingExpiresAt: &expiry}
	_, err = m.ChangePlan(order, models.HostingPlanBasic, false)
	assert.True(t, errors.Is(err, ErrSamePlan))

	_, err = m.ChangePlan(order, "enterprise", false)
	assert.Error(t, err)
}

func TestRemainingWholeMonths(t *testing.T) {
	now := date(2026, time.January, 15)

	full := date(2026, time.July, 15)
	assert.Equal(t, 6, remainingWholeMonths(now, &full))

	partial := date(2026, time.July, 14)
	assert.Equal(t, 5, remainingWholeMonths(now, &partial))

	past := date(2025, time.December, 1)
	assert.Equal(t, 0, remainingWholeMonths(now, &past))

	assert.Equal(t, 0, remainingWholeMonths(now, nil))
}
