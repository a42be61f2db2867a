package usecase

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"github.com/vidhiq/vidhiq-backend/internal/logger"
)

type CreateOrderUseCase struct {
	Gateway PaymentGateway
}

func NewCreateOrderUseCase(gateway PaymentGateway) *CreateOrderUseCase {
	return &CreateOrderUseCase{Gateway: gateway}
}

func (uc *CreateOrderUseCase) Execute(ctx context.Context, input CreateOrderInput) (*CreateOrderOutput, error) {
	var fieldErrors []ValidationError
	if input.Amount <= 0 {
		fieldErrors = append(fieldErrors, ValidationError{"amount", "must be a positive amount in paise"})
	}
	if strings.TrimSpace(input.CustomerName) == "" {
		fieldErrors = append(fieldErrors, ValidationError{"customerName", "is required"})
	}
	if strings.TrimSpace(input.CustomerPhone) == "" {
		fieldErrors = append(fieldErrors, ValidationError{"customerPhone", "is required"})
	}
	if strings.TrimSpace(input.CustomerID) == "" {
		fieldErrors = append(fieldErrors, ValidationError{"customerId", "is required"})
	}
	if len(fieldErrors) > 0 {
		return nil, &DomainError{Code: CodeValidation, Message: "missing required fields", Fields: fieldErrors}
	}

	// The lead identifier rides along as gateway notes so the verify step can
	// reconcile without any server-side session state.
	notes := map[string]string{"lead_id": input.CustomerID}
	for k, v := range input.Notes {
		notes[k] = v
	}

	order, err := uc.Gateway.CreateOrder(ctx, OrderParams{
		Amount:        input.Amount,
		Currency:      "INR",
		CustomerID:    input.CustomerID,
		CustomerName:  input.CustomerName,
		CustomerPhone: input.CustomerPhone,
		Notes:         notes,
	})
	if err != nil {
		logger.L().Error("gateway order creation failed",
			zap.String("gateway", uc.Gateway.Name()),
			zap.Error(err),
		)
		return nil, &TechnicalError{
			Code:    CodeGateway,
			Message: "payment gateway rejected the order: " + err.Error(),
		}
	}

	return &CreateOrderOutput{
		PaymentSessionID: order.SessionID,
		OrderID:          order.OrderID,
		Environment:      uc.Gateway.Environment(),
	}, nil
}
