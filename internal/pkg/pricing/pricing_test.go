package pricing

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestComputePrice_LandingWithExtrasAndSEO(t *testing.T) {
	got, err := ComputePrice("landing", 2, []string{"seo"})
	require.NoError(t, err)

	assert.Equal(t, int64(100000), got.Package.Price)
	require.NotNil(t, got.ExtraPages)
	assert.Equal(t, 2, got.ExtraPages.Count)
	assert.Equal(t, int64(30000), got.ExtraPages.Subtotal)
	require.Len(t, got.AddOns, 1)
	assert.Equal(t, int64(80000), got.AddOns[0].Price)
	assert.Equal(t, int64(210000), got.Total)
}

func TestComputePrice_Deterministic(t *testing.T) {
	first, err := ComputePrice("business", 3, []string{"logo", "seo"})
	require.NoError(t, err)

	for i := 0; i < 10; i++ {
		again, err := ComputePrice("business", 3, []string{"logo", "seo"})
		require.NoError(t, err)
		assert.Equal(t, first, again)
	}
}

func TestComputePrice_TotalEqualsSumOfParts(t *testing.T) {
	got, err := ComputePrice("shop", 4, []string{"seo", "copywriting", "maintenance"})
	require.NoError(t, err)

	sum := got.Package.Price
	if got.ExtraPages != nil {
		sum += got.ExtraPages.Subtotal
	}
	for _, a := range got.AddOns {
		sum += a.Price
	}
	assert.Equal(t, sum, got.Total)
}

func TestComputePrice_DuplicateAddOnsCountOnce(t *testing.T) {
	got, err := ComputePrice("landing", 0, []string{"seo", "seo", "seo"})
	require.NoError(t, err)

	require.Len(t, got.AddOns, 1)
	assert.Equal(t, int64(180000), got.Total)
}

func TestComputePrice_NoExtraPagesOmitsLine(t *testing.T) {
	got, err := ComputePrice("landing", 0, nil)
	require.NoError(t, err)

	assert.Nil(t, got.ExtraPages)
	assert.Equal(t, int64(100000), got.Total)
}

func TestComputePrice_Errors(t *testing.T) {
	tests := []struct {
		name       string
		packageKey string
		extraPages int
		addOns     []string
		wantErr    error
	}{
		{"unknown package", "enterprise", 0, nil, ErrUnknownPackage},
		{"unknown add-on", "landing", 0, []string{"blockchain"}, ErrUnknownAddOn},
		{"negative extra pages", "landing", -1, nil, ErrInvalidExtraPages},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := ComputePrice(tc.packageKey, tc.extraPages, tc.addOns)
			require.Error(t, err)
			assert.True(t, errors.Is(err, tc.wantErr))
		})
	}
}

func TestVolumeDiscountPercent_Boundaries(t *testing.T) {
	tests := []struct {
		months int
		want   int64
	}{
		{1, 0},
		{2, 0},
		{3, 5},
		{5, 5},
		{6, 10},
		{11, 10},
		{12, 15},
		{24, 15},
	}

	for _, tc := range tests {
		assert.Equal(t, tc.want, VolumeDiscountPercent(tc.months), "months=%d", tc.months)
	}
}

func TestHostingPrice(t *testing.T) {
	tests := []struct {
		name   string
		plan   string
		months int
		ssl    bool
		want   int64
	}{
		{"basic one month", "basic", 1, false, 20000},
		{"basic three months discounted", "basic", 3, false, 57000},
		{"premium twelve months discounted", "premium", 12, false, 408000},
		{"premium twelve months with ssl", "premium", 12, true, 412900},
		{"basic one month with ssl", "basic", 1, true, 24900},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got, err := HostingPrice(tc.plan, tc.months, tc.ssl)
			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestHostingPrice_Errors(t *testing.T) {
	_, err := HostingPrice("enterprise", 1, false)
	assert.True(t, errors.Is(err, ErrUnknownPlan))

	_, err = HostingPrice("basic", 0, false)
	assert.True(t, errors.Is(err, ErrInvalidPeriod))
}

func TestCatalogOrdering(t *testing.T) {
	packages := Packages()
	require.Len(t, packages, 3)
	assert.Equal(t, "landing", packages[0].Key)
	assert.Equal(t, "shop", packages[2].Key)

	plans := HostingPlans()
	require.Len(t, plans, 2)
	assert.Equal(t, "basic", plans[0].Key)
	assert.Equal(t, "premium", plans[1].Key)
}
