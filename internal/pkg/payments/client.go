package payments

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/Bysiu/designstron-sub001/internal/pkg/env"
)

// ErrUpstream marks transient checkout-provider failures (timeouts, 5xx).
// Callers surface these as retryable; the webhook sender retries with the
// same session id, which is why all reconciliation side effects are
// idempotent per session.
var ErrUpstream = errors.New("checkout provider unavailable")

// CheckoutClient talks to the external checkout provider.
type CheckoutClient interface {
	CreateSession(ctx context.Context, req CreateSessionRequest) (*Session, error)
	RetrieveSession(ctx context.Context, sessionID string) (*Session, error)
}

type httpCheckoutClient struct {
	httpClient *http.Client
	baseURL    string
	apiKey     string
}

// NewCheckoutClient creates an HTTP client for the checkout provider.
func NewCheckoutClient(baseURL, apiKey string) CheckoutClient {
	return &httpCheckoutClient{
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
		baseURL: baseURL,
		apiKey:  apiKey,
	}
}

// NewCheckoutClientFromEnv creates the client from environment configuration.
func NewCheckoutClientFromEnv() CheckoutClient {
	return NewCheckoutClient(
		env.GetEnv("CHECKOUT_API_URL", "https://api.checkout.example"),
		env.GetEnv("CHECKOUT_API_KEY", ""),
	)
}

type sessionPayload struct {
	ID            string            `json:"id"`
	PaymentStatus string            `json:"payment_status"`
	AmountTotal   int64             `json:"amount_total"`
	Currency      string            `json:"currency"`
	Metadata      map[string]string `json:"metadata"`
	URL           string            `json:"url"`
}

func (c *httpCheckoutClient) CreateSession(ctx context.Context, req CreateSessionRequest) (*Session, error) {
	items := make([]map[string]interface{}, len(req.LineItems))
	for i, item := range req.LineItems {
		items[i] = map[string]interface{}{
			"name":        item.Name,
			"quantity":    item.Quantity,
			"unit_amount": item.UnitAmount,
			"currency":    item.Currency,
		}
	}
	payload := map[string]interface{}{
		"line_items":  items,
		"success_url": req.SuccessURL,
		"cancel_url":  req.CancelURL,
		"metadata":    req.Metadata,
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("marshal session payload: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost,
		c.baseURL+"/v1/checkout/sessions", bytes.NewBuffer(body))
	if err != nil {
		return nil, fmt.Errorf("build create-session request: %w", err)
	}
	httpReq.Header.Set("Authorization", "Bearer "+c.apiKey)
	httpReq.Header.Set("Content-Type", "application/json")

	return c.doSessionRequest(httpReq)
}

func (c *httpCheckoutClient) RetrieveSession(ctx context.Context, sessionID string) (*Session, error) {
	url := fmt.Sprintf("%s/v1/checkout/sessions/%s", c.baseURL, sessionID)
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("build retrieve-session request: %w", err)
	}
	httpReq.Header.Set("Authorization", "Bearer "+c.apiKey)

	return c.doSessionRequest(httpReq)
}

func (c *httpCheckoutClient) doSessionRequest(req *http.Request) (*Session, error) {
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUpstream, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 500 {
		b, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("%w: status=%d body=%s", ErrUpstream, resp.StatusCode, string(b))
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		b, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("checkout provider error %d: %s", resp.StatusCode, string(b))
	}

	var result sessionPayload
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("decode session response: %w", err)
	}

	return &Session{
		ID:            result.ID,
		PaymentStatus: result.PaymentStatus,
		AmountTotal:   result.AmountTotal,
		Currency:      result.Currency,
		Metadata:      result.Metadata,
		URL:           result.URL,
	}, nil
}
