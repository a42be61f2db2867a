package usecase

import (
	"context"
	"time"

	"github.com/vidhiq/vidhiq-backend/internal/entity"
	"github.com/vidhiq/vidhiq-backend/internal/infra/queue"
)

// OrderParams is what a gateway needs to open a checkout attempt.
type OrderParams struct {
	Amount        int64 // paise
	Currency      string
	CustomerID    string
	CustomerName  string
	CustomerPhone string
	Notes         map[string]string
}

// PaymentReference identifies a completed client-side payment. Signature is
// only set for the signature-flow gateway; the order-flow gateway confirms by
// polling and ignores it.
type PaymentReference struct {
	OrderID   string
	PaymentID string
	Signature string
}

// PaymentGateway is the single polymorphic capability both checkout flows
// implement. The variant is selected by configuration at wiring time.
type PaymentGateway interface {
	Name() string
	Environment() string
	CreateOrder(ctx context.Context, params OrderParams) (*entity.PaymentOrder, error)
	VerifyPayment(ctx context.Context, ref PaymentReference) (*entity.PaymentRecord, error)
	CapturePayment(ctx context.Context, paymentID string, amount int64, currency string) (*entity.PaymentRecord, error)
	FetchPayment(ctx context.Context, paymentID string) (*entity.PaymentRecord, error)
}

type QueueProducerInterface interface {
	PublishNotification(ctx context.Context, payload queue.NotificationPayload) error
}

type EmailService interface {
	SendPaymentConfirmation(to, name, service, customID string, amountPaise int64) error
	SendOpsAlert(subject, body string) error
}

// BundlePresigner issues time-limited download URLs from the object store.
type BundlePresigner interface {
	PresignDownload(ctx context.Context, key string, expires time.Duration) (string, error)
}
