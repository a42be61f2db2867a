package database

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/lib/pq"
	"go.uber.org/zap"

	"github.com/vidhiq/vidhiq-backend/internal/entity"
	"github.com/vidhiq/vidhiq-backend/internal/logger"
)

type LeadRepository struct {
	DB *sql.DB
}

func NewLeadRepository(db *sql.DB) *LeadRepository {
	return &LeadRepository{DB: db}
}

func (r *LeadRepository) Insert(ctx context.Context, lead *entity.Lead) error {
	query := `
		INSERT INTO leads (
			id, custom_id, name, phone, location, service,
			description, legal_notice_type, email,
			payment_status, status, created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, NULLIF($9, ''), $10, $11, $12, $13)
	`

	_, err := r.DB.ExecContext(ctx, query,
		lead.ID,
		lead.CustomID,
		lead.Name,
		lead.Phone,
		lead.Location,
		lead.Service,
		nullString(lead.Description),
		nullString(lead.LegalNoticeType),
		lead.Email,
		lead.PaymentStatus,
		lead.Status,
		lead.CreatedAt,
		lead.UpdatedAt,
	)

	if err != nil {
		// 23505: unique violation on (name, phone, service) or custom_id.
		// The backstop for the dedup read-then-decide race.
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == "23505" {
			return entity.ErrDuplicateLead
		}

		logger.L().Error("lead insert failed", zap.Error(err))
		return err
	}

	return nil
}

func (r *LeadRepository) FindByContact(ctx context.Context, name, phone string) ([]entity.LeadSummary, error) {
	query := `
		SELECT id, service, payment_status, custom_id
		FROM leads
		WHERE name = $1 AND phone = $2
		ORDER BY created_at
	`

	rows, err := r.DB.QueryContext(ctx, query, name, phone)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []entity.LeadSummary
	for rows.Next() {
		var s entity.LeadSummary
		if err := rows.Scan(&s.ID, &s.Service, &s.PaymentStatus, &s.CustomID); err != nil {
			return nil, err
		}
		out = append(out, s)
	}

	return out, rows.Err()
}

func (r *LeadRepository) FindByID(ctx context.Context, id string) (*entity.Lead, error) {
	query := `
		SELECT id, custom_id, name, phone, location, service,
		       COALESCE(description, ''), COALESCE(legal_notice_type, ''), COALESCE(email, ''),
		       payment_status, status,
		       COALESCE(payment_ref, ''), COALESCE(payment_amount, 0),
		       created_at, updated_at
		FROM leads
		WHERE id = $1
	`

	var lead entity.Lead
	err := r.DB.QueryRowContext(ctx, query, id).Scan(
		&lead.ID, &lead.CustomID, &lead.Name, &lead.Phone, &lead.Location, &lead.Service,
		&lead.Description, &lead.LegalNoticeType, &lead.Email,
		&lead.PaymentStatus, &lead.Status,
		&lead.PaymentRef, &lead.PaymentAmount,
		&lead.CreatedAt, &lead.UpdatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, entity.ErrLeadNotFound
	}
	if err != nil {
		return nil, err
	}

	return &lead, nil
}

// UpdatePayment writes the reconciler's fields. The WHERE guard keeps the
// payment status moving forward only: a lead already marked paid is never
// silently downgraded. Email only fills an empty column, never overwrites
// what was captured at intake.
func (r *LeadRepository) UpdatePayment(ctx context.Context, id string, update entity.PaymentUpdate) (*entity.Lead, error) {
	query := `
		UPDATE leads
		SET payment_status = $2,
		    status = $3,
		    payment_ref = $4,
		    payment_amount = $5,
		    email = COALESCE(email, NULLIF($6, '')),
		    updated_at = NOW()
		WHERE id = $1
		  AND (payment_status != 'paid' OR $2 = 'paid')
	`

	res, err := r.DB.ExecContext(ctx, query,
		id,
		update.PaymentStatus,
		update.Status,
		update.PaymentRef,
		update.Amount,
		update.Email,
	)
	if err != nil {
		logger.L().Error("lead payment update failed", zap.String("lead_id", id), zap.Error(err))
		return nil, err
	}

	if n, _ := res.RowsAffected(); n == 0 {
		// Either the lead does not exist, or the guard refused a backward
		// transition. Distinguish with a lookup.
		lead, ferr := r.FindByID(ctx, id)
		if ferr != nil {
			return nil, entity.ErrLeadNotFound
		}
		return lead, nil
	}

	return r.FindByID(ctx, id)
}

func (r *LeadRepository) FindStalePending(ctx context.Context, olderThan time.Duration, limit int) ([]entity.LeadSummary, error) {
	query := `
		SELECT id, service, payment_status, custom_id
		FROM leads
		WHERE payment_status = 'pending'
		  AND created_at < NOW() - $1::interval
		ORDER BY created_at
		LIMIT $2
	`

	rows, err := r.DB.QueryContext(ctx, query, olderThan.String(), limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []entity.LeadSummary
	for rows.Next() {
		var s entity.LeadSummary
		if err := rows.Scan(&s.ID, &s.Service, &s.PaymentStatus, &s.CustomID); err != nil {
			return nil, err
		}
		out = append(out, s)
	}

	return out, rows.Err()
}

func nullString(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
