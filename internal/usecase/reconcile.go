package usecase

import (
	"context"
	"errors"

	"go.uber.org/zap"

	"github.com/vidhiq/vidhiq-backend/internal/entity"
	"github.com/vidhiq/vidhiq-backend/internal/infra/queue"
	"github.com/vidhiq/vidhiq-backend/internal/logger"
)

type ReconcilePaymentUseCase struct {
	PaymentRepo entity.PaymentRepositoryInterface
	LeadRepo    entity.LeadRepositoryInterface
	Queue       QueueProducerInterface
	Email       EmailService
}

func NewReconcilePaymentUseCase(
	paymentRepo entity.PaymentRepositoryInterface,
	leadRepo entity.LeadRepositoryInterface,
	producer QueueProducerInterface,
	email EmailService,
) *ReconcilePaymentUseCase {
	return &ReconcilePaymentUseCase{
		PaymentRepo: paymentRepo,
		LeadRepo:    leadRepo,
		Queue:       producer,
		Email:       email,
	}
}

// Execute records a confirmed payment and updates the linked lead. The upsert
// is keyed by the gateway payment id, so a replay never double-credits and
// never re-notifies. The lead update runs on replays too: it is idempotent
// (forward-only status guard, backfill-only email), and re-running it is what
// recovers a payment whose first reconcile died between the two writes.
func (uc *ReconcilePaymentUseCase) Execute(ctx context.Context, record *entity.PaymentRecord) (string, error) {
	inserted, err := uc.PaymentRepo.Upsert(ctx, record)
	if err != nil {
		return "", &TechnicalError{
			Code:    CodeDatabase,
			Message: "failed to record payment: " + err.Error(),
		}
	}
	if !inserted {
		logger.L().Info("payment already recorded, re-applying lead update",
			zap.String("payment_id", record.PaymentID))
	}

	// No lead link in the gateway metadata: the payment still stands, we just
	// have nothing to reconcile it against.
	if record.LeadID == "" {
		logger.L().Warn("confirmed payment carries no lead reference",
			zap.String("payment_id", record.PaymentID))
		return "", nil
	}

	paymentStatus := entity.PaymentPaid
	if record.Notes["payment_type"] == "advance" {
		paymentStatus = entity.PaymentAdvancePaid
	}

	lead, err := uc.LeadRepo.UpdatePayment(ctx, record.LeadID, entity.PaymentUpdate{
		PaymentStatus: paymentStatus,
		Status:        entity.StatusPaidCustomer,
		PaymentRef:    record.PaymentID,
		Amount:        record.Amount,
		Email:         record.Email, // backfills only when the lead has none
	})
	if err != nil {
		if errors.Is(err, entity.ErrLeadNotFound) {
			logger.L().Warn("payment references an unknown lead",
				zap.String("payment_id", record.PaymentID),
				zap.String("lead_id", record.LeadID))
			return "", nil
		}
		return "", &TechnicalError{
			Code:    CodeDatabase,
			Message: "failed to update lead payment state: " + err.Error(),
		}
	}

	logger.L().Info("lead reconciled",
		zap.String("lead_id", lead.ID),
		zap.String("custom_id", lead.CustomID),
		zap.String("payment_status", lead.PaymentStatus),
		zap.Int64("amount", record.Amount),
	)

	// Only the run that actually recorded the payment notifies; replays that
	// merely re-apply the lead update stay silent.
	if inserted {
		uc.notify(lead, record)
	}

	return lead.ID, nil
}

// notify dispatches the confirmation off the critical path. Failures are
// logged and swallowed; the payer already has their 200.
func (uc *ReconcilePaymentUseCase) notify(lead *entity.Lead, record *entity.PaymentRecord) {
	go func() {
		payload := queue.NotificationPayload{
			Kind:      queue.KindPaymentConfirmed,
			LeadID:    lead.ID,
			CustomID:  lead.CustomID,
			Name:      lead.Name,
			Email:     lead.Email,
			Service:   lead.Service,
			PaymentID: record.PaymentID,
			Amount:    record.Amount,
		}
		if payload.Email == "" {
			payload.Email = record.Email
		}

		if uc.Queue != nil {
			if err := uc.Queue.PublishNotification(context.Background(), payload); err == nil {
				return
			} else {
				logger.L().Warn("notification publish failed, falling back to direct email",
					zap.String("lead_id", lead.ID), zap.Error(err))
			}
		}

		if uc.Email != nil && payload.Email != "" {
			if err := uc.Email.SendPaymentConfirmation(payload.Email, payload.Name, payload.Service, payload.CustomID, payload.Amount); err != nil {
				logger.L().Warn("confirmation email failed",
					zap.String("lead_id", lead.ID), zap.Error(err))
			}
		}
	}()
}
