package pricing

import (
	"errors"
	"fmt"
)

var (
	// ErrUnknownPackage is returned for package keys missing from the catalog.
	ErrUnknownPackage = errors.New("unknown package key")
	// ErrUnknownAddOn is returned for add-on keys missing from the catalog.
	// Unknown add-ons are a hard error, matching the package-key policy.
	ErrUnknownAddOn = errors.New("unknown add-on key")
	// ErrInvalidExtraPages is returned for a negative extra-page count.
	ErrInvalidExtraPages = errors.New("extra page count must not be negative")
	// ErrUnknownPlan is returned for hosting plans without a monthly rate.
	ErrUnknownPlan = errors.New("unknown hosting plan")
	// ErrInvalidPeriod is returned for hosting periods shorter than one month.
	ErrInvalidPeriod = errors.New("hosting period must be at least one month")
)

// PackageLine is the package part of a price breakdown.
type PackageLine struct {
	Key   string `json:"key"`
	Name  string `json:"name"`
	Price int64  `json:"price"`
}

// ExtraPagesLine is the extra-pages part of a price breakdown.
type ExtraPagesLine struct {
	Count     int   `json:"count"`
	UnitPrice int64 `json:"unit_price"`
	Subtotal  int64 `json:"subtotal"`
}

// AddOnLine is one add-on position of a price breakdown.
type AddOnLine struct {
	Key   string `json:"key"`
	Name  string `json:"name"`
	Price int64  `json:"price"`
}

// Breakdown is the result of a price computation. Total always equals the sum
// of its own parts; there is no rounding between steps.
type Breakdown struct {
	Total      int64           `json:"total"`
	Package    PackageLine     `json:"package"`
	ExtraPages *ExtraPagesLine `json:"extra_pages,omitempty"`
	AddOns     []AddOnLine     `json:"add_ons"`
}

// ComputePrice computes the price breakdown for a package selection. It is
// pure and deterministic; duplicate add-on keys count once.
func ComputePrice(packageKey string, extraPages int, addOnKeys []string) (*Breakdown, error) {
	pkg, ok := packageCatalog[packageKey]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownPackage, packageKey)
	}
	if extraPages < 0 {
		return nil, fmt.Errorf("%w: %d", ErrInvalidExtraPages, extraPages)
	}

	b := &Breakdown{
		Package: PackageLine{Key: pkg.Key, Name: pkg.Name, Price: pkg.BasePrice},
		AddOns:  []AddOnLine{},
	}
	total := pkg.BasePrice

	if extraPages > 0 {
		subtotal := int64(extraPages) * ExtraPageUnitPrice
		b.ExtraPages = &ExtraPagesLine{
			Count:     extraPages,
			UnitPrice: ExtraPageUnitPrice,
			Subtotal:  subtotal,
		}
		total += subtotal
	}

	seen := make(map[string]struct{}, len(addOnKeys))
	for _, key := range addOnKeys {
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}

		addOn, ok := addOnCatalog[key]
		if !ok {
			return nil, fmt.Errorf("%w: %q", ErrUnknownAddOn, key)
		}
		b.AddOns = append(b.AddOns, AddOnLine{Key: addOn.Key, Name: addOn.Name, Price: addOn.Price})
		total += addOn.Price
	}

	b.Total = total
	return b, nil
}

// HostingMonthlyRate returns the undiscounted monthly rate for a plan.
func HostingMonthlyRate(plan string) (int64, error) {
	rate, ok := hostingMonthlyRates[plan]
	if !ok {
		return 0, fmt.Errorf("%w: %q", ErrUnknownPlan, plan)
	}
	return rate, nil
}

// VolumeDiscountPercent returns the discount step for a booking period.
// The thresholds are strict boundaries, not interpolated.
func VolumeDiscountPercent(months int) int64 {
	switch {
	case months >= 12:
		return 15
	case months >= 6:
		return 10
	case months >= 3:
		return 5
	default:
		return 0
	}
}

// HostingPrice computes the total for a hosting booking: monthly rate times
// period with the volume discount applied, plus the flat SSL fee if enabled.
// Integer percent arithmetic, no floats.
func HostingPrice(plan string, months int, sslEnabled bool) (int64, error) {
	if months < 1 {
		return 0, fmt.Errorf("%w: %d", ErrInvalidPeriod, months)
	}
	rate, err := HostingMonthlyRate(plan)
	if err != nil {
		return 0, err
	}

	total := rate * int64(months) * (100 - VolumeDiscountPercent(months)) / 100
	if sslEnabled {
		total += SSLFlatFee
	}
	return total, nil
}
