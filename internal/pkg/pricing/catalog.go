package pricing

import "sort"

// All amounts are minor currency units (euro cents). The catalogs are static
// process-wide data, read-only at runtime.

// PackageInfo describes one website package.
type PackageInfo struct {
	Key       string   `json:"key"`
	Name      string   `json:"name"`
	BasePrice int64    `json:"base_price"`
	Features  []string `json:"features"`
}

// AddOnInfo describes one bookable add-on.
type AddOnInfo struct {
	Key   string `json:"key"`
	Name  string `json:"name"`
	Price int64  `json:"price"`
}

// HostingPlanInfo describes one hosting plan and its monthly rate.
type HostingPlanInfo struct {
	Key         string `json:"key"`
	MonthlyRate int64  `json:"monthly_rate"`
}

// ExtraPageUnitPrice is charged per page beyond the package's included set.
const ExtraPageUnitPrice int64 = 15000

// SSLFlatFee is the one-time fee for SSL setup on a hosting order.
const SSLFlatFee int64 = 4900

var packageCatalog = map[string]PackageInfo{
	"landing": {
		Key:       "landing",
		Name:      "Landing Page",
		BasePrice: 100000,
		Features:  []string{"1 page", "responsive design", "contact form"},
	},
	"business": {
		Key:       "business",
		Name:      "Business Website",
		BasePrice: 250000,
		Features:  []string{"up to 5 pages", "responsive design", "contact form", "photo gallery"},
	},
	"shop": {
		Key:       "shop",
		Name:      "Online Shop",
		BasePrice: 490000,
		Features:  []string{"up to 10 pages", "product catalog", "checkout integration", "customer accounts"},
	},
}

var addOnCatalog = map[string]AddOnInfo{
	"seo":         {Key: "seo", Name: "SEO Optimization", Price: 80000},
	"logo":        {Key: "logo", Name: "Logo Design", Price: 45000},
	"copywriting": {Key: "copywriting", Name: "Copywriting", Price: 60000},
	"maintenance": {Key: "maintenance", Name: "Maintenance Setup", Price: 30000},
}

var hostingMonthlyRates = map[string]int64{
	"basic":   20000,
	"premium": 40000,
}

// Packages returns the package catalog sorted by base price.
func Packages() []PackageInfo {
	out := make([]PackageInfo, 0, len(packageCatalog))
	for _, p := range packageCatalog {
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].BasePrice < out[j].BasePrice })
	return out
}

// AddOns returns the add-on catalog sorted by key.
func AddOns() []AddOnInfo {
	out := make([]AddOnInfo, 0, len(addOnCatalog))
	for _, a := range addOnCatalog {
		out = append(out, a)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Key < out[j].Key })
	return out
}

// HostingPlans returns the hosting plans sorted by monthly rate.
func HostingPlans() []HostingPlanInfo {
	out := make([]HostingPlanInfo, 0, len(hostingMonthlyRates))
	for key, rate := range hostingMonthlyRates {
		out = append(out, HostingPlanInfo{Key: key, MonthlyRate: rate})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].MonthlyRate < out[j].MonthlyRate })
	return out
}
