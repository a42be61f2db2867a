package handlers

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vidhiq/vidhiq-backend/internal/entity"
	"github.com/vidhiq/vidhiq-backend/internal/usecase"
)

// stubGateway lets each test script the gateway's answers.
type stubGateway struct {
	verifyRecord *entity.PaymentRecord
	verifyErr    error
	fetchRecord  *entity.PaymentRecord
	fetchErr     error
}

func (s *stubGateway) Name() string        { return "stubpay" }
func (s *stubGateway) Environment() string { return "test" }

func (s *stubGateway) CreateOrder(ctx context.Context, params usecase.OrderParams) (*entity.PaymentOrder, error) {
	return &entity.PaymentOrder{OrderID: "order_1", Amount: params.Amount, Currency: params.Currency}, nil
}

func (s *stubGateway) VerifyPayment(ctx context.Context, ref usecase.PaymentReference) (*entity.PaymentRecord, error) {
	return s.verifyRecord, s.verifyErr
}

func (s *stubGateway) CapturePayment(ctx context.Context, paymentID string, amount int64, currency string) (*entity.PaymentRecord, error) {
	return nil, errors.New("not scripted")
}

func (s *stubGateway) FetchPayment(ctx context.Context, paymentID string) (*entity.PaymentRecord, error) {
	return s.fetchRecord, s.fetchErr
}

type stubPaymentRepo struct {
	record    *entity.PaymentRecord
	findErr   error
	upsertNew bool
}

func (s *stubPaymentRepo) Upsert(ctx context.Context, p *entity.PaymentRecord) (bool, error) {
	return s.upsertNew, nil
}

func (s *stubPaymentRepo) FindByPaymentID(ctx context.Context, paymentID string) (*entity.PaymentRecord, error) {
	return s.record, s.findErr
}

func newPaymentHandler(gateway *stubGateway, payments *stubPaymentRepo, leads *stubLeadRepo) *PaymentHandler {
	reconciler := usecase.NewReconcilePaymentUseCase(payments, leads, nil, nil)
	return NewPaymentHandler(
		usecase.NewCreateOrderUseCase(gateway),
		usecase.NewVerifyPaymentUseCase(gateway, reconciler),
		payments,
		gateway,
	)
}

func TestPaymentHandlerVerifyRequiresIdentifiers(t *testing.T) {
	h := newPaymentHandler(&stubGateway{}, &stubPaymentRepo{}, &stubLeadRepo{})

	req := httptest.NewRequest("POST", "/payment/verify", strings.NewReader(`{"paymentId":"pay_1"}`))
	rec := httptest.NewRecorder()
	h.HandleVerify(rec, req)

	require.Equal(t, http.StatusBadRequest, rec.Code)

	var resp errorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "MISSING_FIELDS", resp.Error)
}

func TestPaymentHandlerVerifySignatureMismatch(t *testing.T) {
	gateway := &stubGateway{verifyErr: usecase.ErrSignatureMismatch}
	h := newPaymentHandler(gateway, &stubPaymentRepo{}, &stubLeadRepo{})

	body := `{"paymentId":"pay_1","orderId":"order_1","signature":"bad"}`
	req := httptest.NewRequest("POST", "/payment/verify", strings.NewReader(body))
	rec := httptest.NewRecorder()
	h.HandleVerify(rec, req)

	require.Equal(t, http.StatusBadRequest, rec.Code)

	var resp errorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, usecase.CodeSignatureMismatch, resp.Error)
}

func TestPaymentHandlerVerifySuccess(t *testing.T) {
	gateway := &stubGateway{verifyRecord: &entity.PaymentRecord{
		PaymentID: "pay_1",
		OrderID:   "order_1",
		Amount:    49900,
		Currency:  "INR",
		Status:    entity.OrderCaptured,
	}}
	h := newPaymentHandler(gateway, &stubPaymentRepo{upsertNew: true}, &stubLeadRepo{})

	body := `{"paymentId":"pay_1","orderId":"order_1","signature":"sig"}`
	req := httptest.NewRequest("POST", "/payment/verify", strings.NewReader(body))
	rec := httptest.NewRecorder()
	h.HandleVerify(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var out usecase.VerifyPaymentOutput
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
	assert.True(t, out.Verified)
}

func TestPaymentHandlerDetailsServedFromLocalTable(t *testing.T) {
	payments := &stubPaymentRepo{record: &entity.PaymentRecord{PaymentID: "pay_1", Amount: 49900}}
	h := newPaymentHandler(&stubGateway{}, payments, &stubLeadRepo{})

	req := httptest.NewRequest("GET", "/payment/details?payment_id=pay_1", nil)
	rec := httptest.NewRecorder()
	h.HandleDetails(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var record entity.PaymentRecord
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &record))
	assert.Equal(t, "pay_1", record.PaymentID)
}

func TestPaymentHandlerDetailsFallsBackToGateway(t *testing.T) {
	payments := &stubPaymentRepo{findErr: sql.ErrNoRows}
	gateway := &stubGateway{fetchRecord: &entity.PaymentRecord{PaymentID: "pay_2", Status: entity.OrderAuthorized}}
	h := newPaymentHandler(gateway, payments, &stubLeadRepo{})

	req := httptest.NewRequest("GET", "/payment/details?payment_id=pay_2", nil)
	rec := httptest.NewRecorder()
	h.HandleDetails(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var record entity.PaymentRecord
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &record))
	assert.Equal(t, "pay_2", record.PaymentID)
}

func TestPaymentHandlerDetailsNotFound(t *testing.T) {
	payments := &stubPaymentRepo{findErr: sql.ErrNoRows}
	gateway := &stubGateway{fetchErr: errors.New("payment pay_3 not found")}
	h := newPaymentHandler(gateway, payments, &stubLeadRepo{})

	req := httptest.NewRequest("GET", "/payment/details?payment_id=pay_3", nil)
	rec := httptest.NewRecorder()
	h.HandleDetails(rec, req)

	require.Equal(t, http.StatusNotFound, rec.Code)
}

func TestPaymentHandlerDetailsRequiresPaymentIDParam(t *testing.T) {
	h := newPaymentHandler(&stubGateway{}, &stubPaymentRepo{}, &stubLeadRepo{})

	req := httptest.NewRequest("GET", "/payment/details", nil)
	rec := httptest.NewRecorder()
	h.HandleDetails(rec, req)

	require.Equal(t, http.StatusBadRequest, rec.Code)
}
