package cashfree

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vidhiq/vidhiq-backend/internal/entity"
	"github.com/vidhiq/vidhiq-backend/internal/usecase"
)

func TestCreateOrderConvertsPaiseToRupeesOnTheWire(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "POST", r.Method)
		require.Equal(t, "/orders", r.URL.Path)
		require.Equal(t, "cf_client", r.Header.Get("x-client-id"))
		require.Equal(t, "cf_secret", r.Header.Get("x-client-secret"))
		require.Equal(t, "2023-08-01", r.Header.Get("x-api-version"))

		var body createOrderRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, 499.0, body.OrderAmount)
		assert.Equal(t, "INR", body.OrderCurrency)
		assert.Equal(t, "asha-3210", body.CustomerDetails.CustomerID)
		assert.Equal(t, "lead-1", body.OrderTags["lead_id"])

		json.NewEncoder(w).Encode(orderResponse{
			OrderID:          body.OrderID,
			PaymentSessionID: "session_xyz",
			OrderAmount:      body.OrderAmount,
			OrderCurrency:    body.OrderCurrency,
			OrderStatus:      "ACTIVE",
		})
	}))
	defer server.Close()

	c := NewClientWithBaseURL("cf_client", "cf_secret", "sandbox", server.URL)
	order, err := c.CreateOrder(context.Background(), usecase.OrderParams{
		Amount:        49900,
		Currency:      "INR",
		CustomerID:    "asha-3210",
		CustomerName:  "Asha Rao",
		CustomerPhone: "+919876543210",
		Notes:         map[string]string{"lead_id": "lead-1"},
	})

	require.NoError(t, err)
	assert.Equal(t, "session_xyz", order.SessionID)
	assert.Equal(t, int64(49900), order.Amount)
	assert.Equal(t, "lead-1", order.LeadID)
	assert.Equal(t, entity.OrderCreated, order.Status)
}

// orderServer serves both endpoints VerifyPayment touches: the order itself
// (for its tags) and its payments listing.
func orderServer(t *testing.T, tags map[string]string, payments []paymentEntry) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("/orders/order_abc", func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(orderResponse{
			OrderID:       "order_abc",
			OrderAmount:   499.0,
			OrderCurrency: "INR",
			OrderStatus:   "PAID",
			OrderTags:     tags,
		})
	})
	mux.HandleFunc("/orders/order_abc/payments", func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(payments)
	})
	return httptest.NewServer(mux)
}

func TestVerifyPaymentPrefersSuccessEntry(t *testing.T) {
	server := orderServer(t, map[string]string{"lead_id": "lead-1"}, []paymentEntry{
		{CFPaymentID: "cf_1", PaymentStatus: "FAILED", PaymentAmount: 499.0, PaymentCurrency: "INR"},
		{CFPaymentID: "cf_2", PaymentStatus: "SUCCESS", PaymentAmount: 499.0, PaymentCurrency: "INR", PaymentGroup: "upi", PaymentTime: "2026-08-29T10:00:00+05:30"},
	})
	defer server.Close()

	c := NewClientWithBaseURL("cf_client", "cf_secret", "sandbox", server.URL)
	record, err := c.VerifyPayment(context.Background(), usecase.PaymentReference{OrderID: "order_abc"})

	require.NoError(t, err)
	assert.Equal(t, "cf_2", record.PaymentID)
	assert.Equal(t, entity.OrderCaptured, record.Status)
	assert.Equal(t, int64(49900), record.Amount)
	assert.Equal(t, "order_abc", record.OrderID)
	assert.Equal(t, "cashfree", record.Gateway)
}

// The lead reference taken on at CreateOrder must come back out of
// verification, or the reconciler has nothing to update.
func TestVerifyPaymentCarriesOrderTagsToTheRecord(t *testing.T) {
	server := orderServer(t,
		map[string]string{"lead_id": "lead-1", "payment_type": "advance"},
		[]paymentEntry{
			{CFPaymentID: "cf_1", PaymentStatus: "SUCCESS", PaymentAmount: 499.0, PaymentCurrency: "INR"},
		})
	defer server.Close()

	c := NewClientWithBaseURL("cf_client", "cf_secret", "sandbox", server.URL)
	record, err := c.VerifyPayment(context.Background(), usecase.PaymentReference{OrderID: "order_abc"})

	require.NoError(t, err)
	assert.Equal(t, "lead-1", record.LeadID)
	assert.Equal(t, "advance", record.Notes["payment_type"])
}

func TestVerifyPaymentReportsLatestAttemptWhenNoneSucceeded(t *testing.T) {
	server := orderServer(t, nil, []paymentEntry{
		{CFPaymentID: "cf_1", PaymentStatus: "USER_DROPPED", PaymentAmount: 499.0, PaymentCurrency: "INR"},
	})
	defer server.Close()

	c := NewClientWithBaseURL("cf_client", "cf_secret", "sandbox", server.URL)
	record, err := c.VerifyPayment(context.Background(), usecase.PaymentReference{OrderID: "order_abc"})

	require.NoError(t, err)
	assert.Equal(t, entity.OrderFailed, record.Status)
}

func TestVerifyPaymentEmptyListing(t *testing.T) {
	server := orderServer(t, nil, []paymentEntry{})
	defer server.Close()

	c := NewClientWithBaseURL("cf_client", "cf_secret", "sandbox", server.URL)
	_, err := c.VerifyPayment(context.Background(), usecase.PaymentReference{OrderID: "order_abc"})

	assert.Error(t, err)
	assert.Contains(t, err.Error(), "no payments recorded")
}

func TestVerifyPaymentFailsWhenOrderFetchFails(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer server.Close()

	c := NewClientWithBaseURL("cf_client", "cf_secret", "sandbox", server.URL)
	_, err := c.VerifyPayment(context.Background(), usecase.PaymentReference{OrderID: "order_abc"})

	assert.Error(t, err)
	assert.Contains(t, err.Error(), "order fetch failed")
}

func TestEnvironmentSelection(t *testing.T) {
	assert.Equal(t, "sandbox", NewClient("id", "secret", "sandbox").Environment())
	assert.Equal(t, "production", NewClient("id", "secret", "production").Environment())
}

func TestAmountConversionRoundTrips(t *testing.T) {
	assert.Equal(t, 499.0, paiseToRupees(49900))
	assert.Equal(t, int64(49900), rupeesToPaise(499.0))
	assert.Equal(t, int64(49999), rupeesToPaise(499.99))
	assert.Equal(t, int64(1), rupeesToPaise(0.01))
}
