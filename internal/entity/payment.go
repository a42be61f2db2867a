package entity

import (
	"context"
	"time"
)

// Order status values as reported by the gateways.
const (
	OrderCreated    = "created"
	OrderAuthorized = "authorized"
	OrderCaptured   = "captured"
	OrderFailed     = "failed"
)

// PaymentOrder is one checkout attempt on the gateway side.
type PaymentOrder struct {
	OrderID   string `json:"order_id"`
	SessionID string `json:"session_id,omitempty"` // order-flow gateways only
	Amount    int64  `json:"amount"`               // paise
	Currency  string `json:"currency"`
	LeadID    string `json:"lead_id,omitempty"` // carried as gateway notes/metadata
	Status    string `json:"status"`
}

// PaymentRecord is a normalized view of a gateway payment.
type PaymentRecord struct {
	PaymentID string    `json:"payment_id"`
	OrderID   string    `json:"order_id"`
	Amount    int64     `json:"amount"` // paise
	Currency  string    `json:"currency"`
	Status    string    `json:"status"`
	Method    string    `json:"method,omitempty"`
	Email     string    `json:"email,omitempty"`
	Contact   string    `json:"contact,omitempty"`
	LeadID    string    `json:"lead_id,omitempty"`
	Gateway   string    `json:"gateway"`
	CreatedAt time.Time `json:"created_at"`

	// Notes is the opaque metadata echoed back by the gateway. lead_id and
	// payment_type ("advance" or "full") are the keys this pipeline reads.
	Notes map[string]string `json:"notes,omitempty"`
}

// PaymentRepositoryInterface persists confirmed payments. Upsert is keyed by
// the gateway payment id so reconciling the same payment twice is a no-op.
type PaymentRepositoryInterface interface {
	Upsert(ctx context.Context, p *PaymentRecord) (inserted bool, err error)
	FindByPaymentID(ctx context.Context, paymentID string) (*PaymentRecord, error)
}
