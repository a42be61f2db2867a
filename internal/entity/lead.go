package entity

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

var (
	ErrLeadNotFound  = errors.New("lead not found")
	ErrDuplicateLead = errors.New("lead already exists for this contact and service")
)

// Payment status values. Transitions only move forward:
// pending -> advance_paid -> paid, or pending -> failed.
const (
	PaymentPending     = "pending"
	PaymentAdvancePaid = "advance_paid"
	PaymentPaid        = "paid"
	PaymentFailed      = "failed"
)

// Lifecycle status values.
const (
	StatusNew          = "new"
	StatusContacted    = "contacted"
	StatusPaidCustomer = "paid_customer"
	StatusClosed       = "closed"
)

// ServiceTypes is the closed set accepted at intake.
var ServiceTypes = []string{
	"legal-notice",
	"legal-consultation",
	"document-drafting",
	"agreement-review",
	"property-verification",
}

func IsValidService(service string) bool {
	for _, s := range ServiceTypes {
		if s == service {
			return true
		}
	}
	return false
}

type Lead struct {
	ID              string    `json:"id"`
	CustomID        string    `json:"custom_id"`
	Name            string    `json:"name"`
	Phone           string    `json:"phone"` // normalized E.164
	Location        string    `json:"location"`
	Service         string    `json:"service"`
	Description     string    `json:"description,omitempty"`
	LegalNoticeType string    `json:"legal_notice_type,omitempty"`
	Email           string    `json:"email,omitempty"`
	PaymentStatus   string    `json:"payment_status"`
	Status          string    `json:"status"`
	PaymentRef      string    `json:"payment_ref,omitempty"`
	PaymentAmount   int64     `json:"payment_amount,omitempty"` // paise
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

// NewLead builds a lead in its initial state. CustomID is assigned by the
// submit flow once dedup has decided whether a service suffix is needed.
func NewLead(name, phone, location, service string) *Lead {
	return &Lead{
		ID:            uuid.New().String(),
		Name:          name,
		Phone:         phone,
		Location:      location,
		Service:       service,
		PaymentStatus: PaymentPending,
		Status:        StatusNew,
		CreatedAt:     time.Now(),
		UpdatedAt:     time.Now(),
	}
}

// BaseCustomID derives the human-readable identifier: lowercase first name
// plus the last 4 digits of the phone number, e.g. "asha-3210".
func BaseCustomID(name, phone string) string {
	first := strings.ToLower(strings.Fields(strings.TrimSpace(name))[0])

	digits := make([]rune, 0, len(phone))
	for _, r := range phone {
		if r >= '0' && r <= '9' {
			digits = append(digits, r)
		}
	}
	last4 := string(digits)
	if len(digits) > 4 {
		last4 = string(digits[len(digits)-4:])
	}

	return fmt.Sprintf("%s-%s", first, last4)
}

// LeadSummary is what the deduplicator needs from existing records.
type LeadSummary struct {
	ID            string
	Service       string
	PaymentStatus string
	CustomID      string
}

// PaymentUpdate carries the fields the reconciler writes to a lead.
type PaymentUpdate struct {
	PaymentStatus string
	Status        string
	PaymentRef    string
	Amount        int64
	Email         string // backfill only; never overwrites an intake email
}

type LeadRepositoryInterface interface {
	Insert(ctx context.Context, lead *Lead) error
	FindByContact(ctx context.Context, name, phone string) ([]LeadSummary, error)
	FindByID(ctx context.Context, id string) (*Lead, error)
	UpdatePayment(ctx context.Context, id string, update PaymentUpdate) (*Lead, error)
	FindStalePending(ctx context.Context, olderThan time.Duration, limit int) ([]LeadSummary, error)
}
