package handlers

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/vidhiq/vidhiq-backend/internal/entity"
	"github.com/vidhiq/vidhiq-backend/internal/infra/http/middleware"
	"github.com/vidhiq/vidhiq-backend/internal/usecase"
)

type PaymentHandler struct {
	CreateOrderUC *usecase.CreateOrderUseCase
	VerifyUC      *usecase.VerifyPaymentUseCase
	PaymentRepo   entity.PaymentRepositoryInterface
	Gateway       usecase.PaymentGateway
}

func NewPaymentHandler(
	createOrderUC *usecase.CreateOrderUseCase,
	verifyUC *usecase.VerifyPaymentUseCase,
	paymentRepo entity.PaymentRepositoryInterface,
	gateway usecase.PaymentGateway,
) *PaymentHandler {
	return &PaymentHandler{
		CreateOrderUC: createOrderUC,
		VerifyUC:      verifyUC,
		PaymentRepo:   paymentRepo,
		Gateway:       gateway,
	}
}

func (h *PaymentHandler) HandleCreateOrder(w http.ResponseWriter, r *http.Request) {
	var input usecase.CreateOrderInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		writeError(w, http.StatusBadRequest, "INVALID_JSON", "request body is not valid JSON")
		return
	}

	output, err := h.CreateOrderUC.Execute(r.Context(), input)
	if err != nil {
		writeUseCaseError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, output)
}

func (h *PaymentHandler) HandleVerify(w http.ResponseWriter, r *http.Request) {
	var input usecase.VerifyPaymentInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		writeError(w, http.StatusBadRequest, "INVALID_JSON", "request body is not valid JSON")
		return
	}

	if input.PaymentID == "" || input.OrderID == "" {
		writeError(w, http.StatusBadRequest, "MISSING_FIELDS", "paymentId and orderId are required")
		return
	}

	output, err := h.VerifyUC.Execute(r.Context(), input)
	if err != nil {
		middleware.RecordPaymentVerified(h.Gateway.Name(), "failed")
		writeUseCaseError(w, err)
		return
	}

	middleware.RecordPaymentVerified(h.Gateway.Name(), "verified")
	writeJSON(w, http.StatusOK, output)
}

// HandleDetails serves GET /payment/details?payment_id=. The local payments
// table is authoritative once a payment is reconciled; the gateway is the
// fallback for payments we have not recorded yet.
func (h *PaymentHandler) HandleDetails(w http.ResponseWriter, r *http.Request) {
	paymentID := r.URL.Query().Get("payment_id")
	if paymentID == "" {
		writeError(w, http.StatusBadRequest, "MISSING_FIELDS", "payment_id query parameter is required")
		return
	}

	record, err := h.lookupPayment(r.Context(), paymentID)
	if err != nil {
		writeError(w, http.StatusNotFound, "NOT_FOUND", "no payment found for that id")
		return
	}

	writeJSON(w, http.StatusOK, record)
}

func (h *PaymentHandler) lookupPayment(ctx context.Context, paymentID string) (*entity.PaymentRecord, error) {
	record, err := h.PaymentRepo.FindByPaymentID(ctx, paymentID)
	if err == nil {
		return record, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return nil, err
	}

	return h.Gateway.FetchPayment(ctx, paymentID)
}
