package usecase

import (
	"context"
	"errors"

	"go.uber.org/zap"

	"github.com/vidhiq/vidhiq-backend/internal/entity"
	"github.com/vidhiq/vidhiq-backend/internal/logger"
)

// ErrSignatureMismatch is returned by signature-flow gateway clients.
var ErrSignatureMismatch = errors.New("payment signature mismatch")

type VerifyPaymentUseCase struct {
	Gateway    PaymentGateway
	Reconciler *ReconcilePaymentUseCase
}

func NewVerifyPaymentUseCase(gateway PaymentGateway, reconciler *ReconcilePaymentUseCase) *VerifyPaymentUseCase {
	return &VerifyPaymentUseCase{Gateway: gateway, Reconciler: reconciler}
}

// Execute confirms a client-side payment with the gateway, captures it when it
// is authorized but not yet settled, and reconciles the linked lead.
func (uc *VerifyPaymentUseCase) Execute(ctx context.Context, input VerifyPaymentInput) (*VerifyPaymentOutput, error) {
	record, err := uc.Gateway.VerifyPayment(ctx, PaymentReference{
		OrderID:   input.OrderID,
		PaymentID: input.PaymentID,
		Signature: input.Signature,
	})
	if err != nil {
		if errors.Is(err, ErrSignatureMismatch) {
			// Hard rejection, no retry.
			return nil, &DomainError{
				Code:    CodeSignatureMismatch,
				Message: "payment signature verification failed",
			}
		}
		return nil, &TechnicalError{
			Code:    CodeGateway,
			Message: "gateway verification failed: " + err.Error(),
		}
	}

	if record.Status == entity.OrderAuthorized {
		captured, err := uc.Gateway.CapturePayment(ctx, record.PaymentID, record.Amount, record.Currency)
		if err != nil {
			// The money may be pending on the gateway side. Distinct from a
			// clean rejection: the caller should retry verification or
			// contact support, not restart checkout.
			logger.L().Error("capture failed after authorization",
				zap.String("payment_id", record.PaymentID),
				zap.Error(err),
			)
			return nil, &DomainError{
				Code:    CodeCaptureFailed,
				Message: "payment was authorized but capture failed; please retry verification or contact support",
			}
		}
		record = captured
	}

	if record.Status != entity.OrderCaptured {
		return nil, &DomainError{
			Code:    CodeNotCaptured,
			Message: "payment is not captured (status: " + record.Status + ")",
		}
	}

	leadID, err := uc.Reconciler.Execute(ctx, record)
	if err != nil {
		// The payment is confirmed on the gateway; reconciliation problems
		// must not turn the confirmation into a failure for the payer.
		logger.L().Error("reconciliation failed after confirmed payment",
			zap.String("payment_id", record.PaymentID),
			zap.Error(err),
		)
	}

	return &VerifyPaymentOutput{Verified: true, LeadID: leadID}, nil
}
