package database

import (
	"context"
	"database/sql"
	"errors"

	"github.com/vidhiq/vidhiq-backend/internal/entity"
)

type PaymentRepository struct {
	DB *sql.DB
}

func NewPaymentRepository(db *sql.DB) *PaymentRepository {
	return &PaymentRepository{DB: db}
}

// Upsert records a confirmed payment keyed by the gateway payment id.
// ON CONFLICT DO NOTHING makes double-processing a no-op regardless of call
// ordering; the returned flag tells the reconciler whether this call won.
func (r *PaymentRepository) Upsert(ctx context.Context, p *entity.PaymentRecord) (bool, error) {
	query := `
		INSERT INTO payments (
			payment_id, order_id, gateway, amount, currency,
			status, method, email, contact, lead_id, created_at
		) VALUES ($1, $2, $3, $4, $5, $6, NULLIF($7, ''), NULLIF($8, ''), NULLIF($9, ''), NULLIF($10, ''), NOW())
		ON CONFLICT (payment_id) DO NOTHING
	`

	res, err := r.DB.ExecContext(ctx, query,
		p.PaymentID,
		p.OrderID,
		p.Gateway,
		p.Amount,
		p.Currency,
		p.Status,
		p.Method,
		p.Email,
		p.Contact,
		p.LeadID,
	)
	if err != nil {
		return false, err
	}

	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

func (r *PaymentRepository) FindByPaymentID(ctx context.Context, paymentID string) (*entity.PaymentRecord, error) {
	query := `
		SELECT payment_id, order_id, gateway, amount, currency, status,
		       COALESCE(method, ''), COALESCE(email, ''), COALESCE(contact, ''),
		       COALESCE(lead_id, ''), created_at
		FROM payments
		WHERE payment_id = $1
	`

	var p entity.PaymentRecord
	err := r.DB.QueryRowContext(ctx, query, paymentID).Scan(
		&p.PaymentID, &p.OrderID, &p.Gateway, &p.Amount, &p.Currency, &p.Status,
		&p.Method, &p.Email, &p.Contact, &p.LeadID, &p.CreatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, sql.ErrNoRows
	}
	if err != nil {
		return nil, err
	}

	return &p, nil
}
