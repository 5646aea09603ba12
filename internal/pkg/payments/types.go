package payments

// Payment status values as reported by the checkout provider.
const (
	PaymentStatusUnpaid = "unpaid"
	PaymentStatusPaid   = "paid"
)

// Provider is the provider key stored on payment events.
const Provider = "checkout"

// Metadata keys attached to checkout sessions at creation time. order_id is
// the public ID of the order the payment targets; the hosting keys are only
// set on hosting-extension charges, where the paid signal must also advance
// the expiry of a different, already-paid hosting order.
const (
	MetadataOrderID        = "order_id"
	MetadataHostingOrderID = "hosting_order_id"
	MetadataHostingMonths  = "hosting_months"
)

// Session is the provider-agnostic shape of an external checkout session.
type Session struct {
	ID            string
	PaymentStatus string
	AmountTotal   int64
	Currency      string
	Metadata      map[string]string
	URL           string
}

// SessionLineItem is one charged position sent to the provider.
type SessionLineItem struct {
	Name       string
	Quantity   int
	UnitAmount int64
	Currency   string
}

// CreateSessionRequest is the input for creating a checkout session.
type CreateSessionRequest struct {
	LineItems  []SessionLineItem
	SuccessURL string
	CancelURL  string
	Metadata   map[string]string
}

// Caller identifies who triggered a reconciliation. The zero value is the
// push path (webhook), which is authenticated by payload signature instead of
// a user session and therefore skips the ownership check.
type Caller struct {
	UserID  uint
	IsAdmin bool
}

// Result is the order snapshot returned by every reconciliation.
// AlreadyProcessed distinguishes an idempotent no-op from a failure; Applied
// reports that this call performed the mutating path.
type Result struct {
	OrderPublicID    string `json:"order_id"`
	Status           string `json:"status"`
	PaymentStatus    string `json:"payment_status"`
	AmountTotal      int64  `json:"amount_total"`
	Applied          bool   `json:"applied"`
	AlreadyProcessed bool   `json:"already_processed"`
}
