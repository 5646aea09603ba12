package controllers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newPricingApp() *fiber.App {
	app := fiber.New()
	app.Get("/pricing", HandlePricingCatalog)
	app.Post("/pricing/quote", HandlePricingQuote)
	return app
}

func postJSON(t *testing.T, path string, payload interface{}) *http.Request {
	t.Helper()
	body, err := json.Marshal(payload)
	require.NoError(t, err)
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	return req
}

func TestHandlePricingCatalog(t *testing.T) {
	app := newPricingApp()

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/pricing", nil), -1)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	var body struct {
		Packages []struct {
			Key       string `json:"key"`
			BasePrice int64  `json:"base_price"`
		} `json:"packages"`
		Currency string `json:"currency"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	require.Len(t, body.Packages, 3)
	assert.Equal(t, "landing", body.Packages[0].Key)
	assert.Equal(t, int64(100000), body.Packages[0].BasePrice)
	assert.Equal(t, "EUR", body.Currency)
}

func TestHandlePricingQuote(t *testing.T) {
	app := newPricingApp()

	req := postJSON(t, "/pricing/quote", map[string]interface{}{
		"package":     "landing",
		"extra_pages": 2,
		"add_ons":     []string{"seo"},
	})
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	var body struct {
		Total int64 `json:"total"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, int64(210000), body.Total)
}

func TestHandlePricingQuote_ExpectedTotalMismatch(t *testing.T) {
	app := newPricingApp()

	req := postJSON(t, "/pricing/quote", map[string]interface{}{
		"package":        "landing",
		"expected_total": 99,
	})
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusUnprocessableEntity, resp.StatusCode)
}

func TestHandlePricingQuote_ExpectedTotalMatches(t *testing.T) {
	app := newPricingApp()

	req := postJSON(t, "/pricing/quote", map[string]interface{}{
		"package":        "landing",
		"expected_total": 100000,
	})
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
}

func TestHandlePricingQuote_UnknownPackage(t *testing.T) {
	app := newPricingApp()

	req := postJSON(t, "/pricing/quote", map[string]interface{}{
		"package": "enterprise",
	})
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusUnprocessableEntity, resp.StatusCode)
}

func TestHandlePricingQuote_MalformedBody(t *testing.T) {
	app := newPricingApp()

	req := httptest.NewRequest(http.MethodPost, "/pricing/quote", bytes.NewReader([]byte("{not json")))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
}
