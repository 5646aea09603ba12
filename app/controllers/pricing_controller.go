package controllers

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/Bysiu/designstron-sub001/internal/pkg/pricing"
)

// quoteRequest is the client's package selection. ExpectedTotal, when set,
// lets the client assert the total it displayed; a mismatch is rejected so a
// stale frontend can never commit a wrong price.
type quoteRequest struct {
	Package       string   `json:"package"`
	ExtraPages    int      `json:"extra_pages"`
	AddOns        []string `json:"add_ons"`
	ExpectedTotal *int64   `json:"expected_total,omitempty"`
}

// HandlePricingCatalog returns the public price catalog.
func HandlePricingCatalog(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"packages":              pricing.Packages(),
		"add_ons":               pricing.AddOns(),
		"extra_page_unit_price": pricing.ExtraPageUnitPrice,
		"hosting": fiber.Map{
			"plans":        pricing.HostingPlans(),
			"ssl_flat_fee": pricing.SSLFlatFee,
		},
		"currency": "EUR",
	})
}

// HandlePricingQuote computes a price breakdown for a package selection. The
// server always recomputes from the catalog; client-supplied totals are only
// ever compared, never trusted.
func HandlePricingQuote(c *fiber.Ctx) error {
	var req quoteRequest
	if err := c.BodyParser(&req); err != nil {
		return jsonError(c, fiber.StatusBadRequest, "invalid_request", "malformed request body")
	}

	breakdown, err := computeQuote(&req)
	if err != nil {
		return jsonError(c, fiber.StatusUnprocessableEntity, "invalid_selection", err.Error())
	}

	return c.JSON(breakdown)
}

var errTotalMismatch = errors.New("expected total does not match the computed price")

func computeQuote(req *quoteRequest) (*pricing.Breakdown, error) {
	breakdown, err := pricing.ComputePrice(req.Package, req.ExtraPages, req.AddOns)
	if err != nil {
		return nil, err
	}
	if req.ExpectedTotal != nil && *req.ExpectedTotal != breakdown.Total {
		return nil, errTotalMismatch
	}
	return breakdown, nil
}
