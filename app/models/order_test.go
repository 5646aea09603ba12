package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestOrderIsTerminal(t *testing.T) {
	tests := []struct {
		status string
		want   bool
	}{
		{OrderStatusPending, false},
		{OrderStatusPaid, false},
		{OrderStatusInProgress, false},
		{OrderStatusCompleted, true},
		{OrderStatusCancelled, true},
	}

	for _, tc := range tests {
		o := Order{Status: tc.status}
		assert.Equal(t, tc.want, o.IsTerminal(), "status=%s", tc.status)
	}
}

func TestOrderHasActiveHosting(t *testing.T) {
	future := time.Now().Add(24 * time.Hour)
	past := time.Now().Add(-24 * time.Hour)

	active := Order{HostingPlan: HostingPlanBasic, HostingExpiresAt: &future}
	expired := Order{HostingPlan: HostingPlanBasic, HostingExpiresAt: &past}
	noExpiry := Order{HostingPlan: HostingPlanBasic}
	noPlan := Order{HostingPlan: HostingPlanNone, HostingExpiresAt: &future}

	assert.True(t, active.HasActiveHosting())
	assert.False(t, expired.HasActiveHosting())
	assert.False(t, noExpiry.HasActiveHosting())
	assert.False(t, noPlan.HasActiveHosting())
}

func TestIsValidOrderStatus(t *testing.T) {
	assert.True(t, IsValidOrderStatus(OrderStatusPending))
	assert.True(t, IsValidOrderStatus(OrderStatusCancelled))
	assert.False(t, IsValidOrderStatus("refunded"))
	assert.False(t, IsValidOrderStatus(""))
}

func TestIsValidHostingPlan(t *testing.T) {
	assert.True(t, IsValidHostingPlan(HostingPlanBasic))
	assert.True(t, IsValidHostingPlan(HostingPlanPremium))
	assert.False(t, IsValidHostingPlan(HostingPlanNone))
	assert.False(t, IsValidHostingPlan("enterprise"))
}

func TestNewOrderLineItem(t *testing.T) {
	item := NewOrderLineItem("Extra pages", "Additional pages", 3, 15000)

	assert.Equal(t, 3, item.Quantity)
	assert.Equal(t, int64(15000), item.UnitPrice)
	assert.Equal(t, int64(45000), item.TotalPrice)
}
