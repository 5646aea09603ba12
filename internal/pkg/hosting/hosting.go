package hosting

import (
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/Bysiu/designstron-sub001/app/models"
	"github.com/Bysiu/designstron-sub001/app/repository"
	"github.com/Bysiu/designstron-sub001/internal/pkg/pricing"
)

var (
	// ErrNoHostingPlan indicates the order carries no hosting plan.
	ErrNoHostingPlan = errors.New("order has no hosting plan")
	// ErrSamePlan indicates a plan change to the plan already booked.
	ErrSamePlan = errors.New("hosting plan unchanged")
)

// AddMonthsClamped adds n calendar months to t, preserving the day-of-month
// where possible and clamping at month-end overflow: Jan 31 plus one month is
// Feb 28 (or 29), never Mar 2.
func AddMonthsClamped(t time.Time, n int) time.Time {
	firstOfTarget := time.Date(t.Year(), t.Month()+time.Month(n), 1,
		t.Hour(), t.Minute(), t.Second(), t.Nanosecond(), t.Location())
	day := t.Day()
	if last := daysInMonth(firstOfTarget.Year(), firstOfTarget.Month()); day > last {
		day = last
	}
	return time.Date(firstOfTarget.Year(), firstOfTarget.Month(), day,
		t.Hour(), t.Minute(), t.Second(), t.Nanosecond(), t.Location())
}

func daysInMonth(year int, month time.Month) int {
	// Day zero of the following month.
	return time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day()
}

// NextExpiry computes the expiry after extending the order's hosting by the
// given number of months. An expired or never-set date extends from now.
func NextExpiry(order *models.Order, months int) (time.Time, error) {
	if months < 1 {
		return time.Time{}, fmt.Errorf("%w: %d", pricing.ErrInvalidPeriod, months)
	}
	base := time.Now()
	if order.HostingExpiresAt != nil {
		base = *order.HostingExpiresAt
	}
	return AddMonthsClamped(base, months), nil
}

// Repository is the slice of the order store the hosting manager needs.
type Repository interface {
	Create(order *models.Order, historyComment string) error
	ExtendHostingExpiry(orderID uint, newExpiry time.Time, comment, sessionRef string) (bool, error)
}

// Manager produces the order records representing hosting operations and owns
// the expiry-date arithmetic.
type Manager struct {
	repo Repository
}

// NewManager creates a hosting manager from an injected repository.
func NewManager(repo Repository) *Manager {
	return &Manager{repo: repo}
}

// NewManagerFromDB creates a hosting manager from a GORM DB handle.
func NewManagerFromDB(db *gorm.DB) *Manager {
	return NewManager(repository.NewOrderRepository(db))
}

// Activate books a hosting plan for a customer and creates the hosting order:
// one line item for the (volume-discounted) plan period and an optional
// second line item for SSL setup. The order is created COMPLETED when this is
// a direct post-payment effect, PENDING when it still awaits payment.
func (m *Manager) Activate(userID uint, plan, domain string, sslEnabled bool, months int, paid bool) (*models.Order, error) {
	if !models.IsValidHostingPlan(plan) {
		return nil, fmt.Errorf("%w: %q", pricing.ErrUnknownPlan, plan)
	}
	total, err := pricing.HostingPrice(plan, months, sslEnabled)
	if err != nil {
		return nil, err
	}

	planTotal := total
	if sslEnabled {
		planTotal -= pricing.SSLFlatFee
	}

	items := []models.OrderLineItem{
		models.NewOrderLineItem(
			fmt.Sprintf("%s hosting, %d months", planName(plan), months),
			fmt.Sprintf("Hosting plan %s for %s, %d%% volume discount",
				plan, domainLabel(domain), pricing.VolumeDiscountPercent(months)),
			1,
			planTotal,
		),
	}
	if sslEnabled {
		items = append(items, models.NewOrderLineItem(
			"SSL certificate setup", "One-time SSL setup fee", 1, pricing.SSLFlatFee))
	}

	status := models.OrderStatusPending
	comment := "Hosting order created, awaiting payment"
	if paid {
		status = models.OrderStatusCompleted
		comment = "Hosting activated after confirmed payment"
	}

	expiry := AddMonthsClamped(time.Now(), months)
	order := &models.Order{
		UserID:           userID,
		Status:           status,
		TotalAmount:      total,
		HostingPlan:      plan,
		HostingExpiresAt: &expiry,
		Domain:           domain,
		SSLEnabled:       sslEnabled,
		LineItems:        items,
	}
	if err := m.repo.Create(order, comment); err != nil {
		return nil, err
	}
	return order, nil
}

// Extend pushes the hosting expiry of an existing order forward by the given
// number of months. The write is gated per external session reference, so a
// redelivered payment callback extends at most once. Returns the new expiry
// and whether this call applied it.
func (m *Manager) Extend(order *models.Order, months int, sessionRef string) (time.Time, bool, error) {
	if order.HostingPlan == models.HostingPlanNone {
		return time.Time{}, false, ErrNoHostingPlan
	}
	newExpiry, err := NextExpiry(order, months)
	if err != nil {
		return time.Time{}, false, err
	}

	comment := fmt.Sprintf("Hosting extended by %d months until %s",
		months, newExpiry.Format("2006-01-02"))
	applied, err := m.repo.ExtendHostingExpiry(order.ID, newExpiry, comment, sessionRef)
	if err != nil {
		return time.Time{}, false, err
	}
	return newExpiry, applied, nil
}

// ChangePlan creates the derived order recording an upgrade or downgrade
// charge: the monthly rate difference over the remaining whole months,
// floored at zero. The source order's expiry date is not touched; the derived
// order carries the new plan with the same expiry.
func (m *Manager) ChangePlan(order *models.Order, toPlan string, paid bool) (*models.Order, error) {
	if order.HostingPlan == models.HostingPlanNone {
		return nil, ErrNoHostingPlan
	}
	if !models.IsValidHostingPlan(toPlan) {
		return nil, fmt.Errorf("%w: %q", pricing.ErrUnknownPlan, toPlan)
	}
	if toPlan == order.HostingPlan {
		return nil, ErrSamePlan
	}

	fromRate, err := pricing.HostingMonthlyRate(order.HostingPlan)
	if err != nil {
		return nil, err
	}
	toRate, err := pricing.HostingMonthlyRate(toPlan)
	if err != nil {
		return nil, err
	}

	remaining := remainingWholeMonths(time.Now(), order.HostingExpiresAt)
	charge := (toRate - fromRate) * int64(remaining)
	if charge < 0 {
		charge = 0
	}

	status := models.OrderStatusPending
	comment := "Hosting plan change requested, awaiting payment"
	if paid || charge == 0 {
		status = models.OrderStatusCompleted
		comment = "Hosting plan change applied"
	}

	derived := &models.Order{
		UserID:           order.UserID,
		Status:           status,
		TotalAmount:      charge,
		HostingPlan:      toPlan,
		HostingExpiresAt: order.HostingExpiresAt,
		Domain:           order.Domain,
		SSLEnabled:       order.SSLEnabled,
		LineItems: []models.OrderLineItem{
			models.NewOrderLineItem(
				fmt.Sprintf("Hosting plan change %s to %s", order.HostingPlan, toPlan),
				fmt.Sprintf("Rate difference over %d remaining months", remaining),
				1,
				charge,
			),
		},
	}
	if err := m.repo.Create(derived, comment); err != nil {
		return nil, err
	}
	return derived, nil
}

// remainingWholeMonths counts full calendar months from now until expiry,
// clamp-aware, never negative. Periods are short, so a bounded walk is fine.
func remainingWholeMonths(now time.Time, expiry *time.Time) int {
	if expiry == nil || !expiry.After(now) {
		return 0
	}
	n := 0
	for n < 120 && !AddMonthsClamped(now, n+1).After(*expiry) {
		n++
	}
	return n
}

func planName(plan string) string {
	switch plan {
	case models.HostingPlanBasic:
		return "Basic"
	case models.HostingPlanPremium:
		return "Premium"
	default:
		return plan
	}
}

func domainLabel(domain string) string {
	if domain == "" {
		return "unassigned domain"
	}
	return domain
}
