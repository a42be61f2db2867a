package cashfree

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"math"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/vidhiq/vidhiq-backend/internal/entity"
	"github.com/vidhiq/vidhiq-backend/internal/usecase"
)

const (
	sandboxBaseURL    = "https://sandbox.cashfree.com/pg"
	productionBaseURL = "https://api.cashfree.com/pg"
	apiVersion        = "2023-08-01"
)

// Client is the order-flow gateway: we open an order, hand the browser a
// payment session id, and later confirm by polling the order's payments
// listing for a SUCCESS entry. The wire format uses major currency units;
// everything internal stays in paise and converts here.
type Client struct {
	baseURL      string
	clientID     string
	clientSecret string
	env          string
	http         *http.Client
}

func NewClient(clientID, clientSecret, env string) *Client {
	baseURL := sandboxBaseURL
	if env == "production" {
		baseURL = productionBaseURL
	}
	return &Client{
		baseURL:      baseURL,
		clientID:     clientID,
		clientSecret: clientSecret,
		env:          env,
		http:         &http.Client{Timeout: 10 * time.Second},
	}
}

// NewClientWithBaseURL exists for tests against a local server.
func NewClientWithBaseURL(clientID, clientSecret, env, baseURL string) *Client {
	c := NewClient(clientID, clientSecret, env)
	c.baseURL = baseURL
	return c
}

func (c *Client) Name() string { return "cashfree" }

func (c *Client) Environment() string {
	if c.env == "production" {
		return "production"
	}
	return "sandbox"
}

func (c *Client) CreateOrder(ctx context.Context, params usecase.OrderParams) (*entity.PaymentOrder, error) {
	url := fmt.Sprintf("%s/orders", c.baseURL)

	payload := createOrderRequest{
		OrderID:       "order_" + uuid.New().String(),
		OrderAmount:   paiseToRupees(params.Amount),
		OrderCurrency: params.Currency,
		CustomerDetails: customerDetails{
			CustomerID:    params.CustomerID,
			CustomerName:  params.CustomerName,
			CustomerPhone: params.CustomerPhone,
		},
		OrderNote: params.Notes["lead_id"],
		OrderTags: params.Notes,
	}

	jsonBody, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal order: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, "POST", url, bytes.NewBuffer(jsonBody))
	if err != nil {
		return nil, err
	}
	c.setHeaders(req)

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("cashfree request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		body, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("cashfree rejected order (status %d): %s", resp.StatusCode, truncate(body))
	}

	var response orderResponse
	if err := json.NewDecoder(resp.Body).Decode(&response); err != nil {
		return nil, fmt.Errorf("failed to decode cashfree response: %w", err)
	}

	return &entity.PaymentOrder{
		OrderID:   response.OrderID,
		SessionID: response.PaymentSessionID,
		Amount:    rupeesToPaise(response.OrderAmount),
		Currency:  response.OrderCurrency,
		LeadID:    params.Notes["lead_id"],
		Status:    entity.OrderCreated,
	}, nil
}

// VerifyPayment polls the order's payments listing. Any entry with
// payment_status "SUCCESS" counts as a confirmed payment. Signatures are not
// part of this flow and are ignored. The payments listing does not echo the
// order tags, so the order itself is fetched too; that is where the lead
// reference and payment_type from CreateOrder ride back to the reconciler.
func (c *Client) VerifyPayment(ctx context.Context, ref usecase.PaymentReference) (*entity.PaymentRecord, error) {
	order, err := c.fetchOrder(ctx, ref.OrderID)
	if err != nil {
		return nil, err
	}

	url := fmt.Sprintf("%s/orders/%s/payments", c.baseURL, ref.OrderID)

	req, err := http.NewRequestWithContext(ctx, "GET", url, nil)
	if err != nil {
		return nil, err
	}
	c.setHeaders(req)

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("cashfree request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		body, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("cashfree payments listing failed (status %d): %s", resp.StatusCode, truncate(body))
	}

	var payments []paymentEntry
	if err := json.NewDecoder(resp.Body).Decode(&payments); err != nil {
		return nil, fmt.Errorf("failed to decode cashfree payments: %w", err)
	}
	if len(payments) == 0 {
		return nil, fmt.Errorf("no payments recorded for order %s", ref.OrderID)
	}

	// Prefer a successful entry; otherwise report the latest attempt so the
	// caller sees an honest not-captured state.
	best := payments[0]
	for _, p := range payments {
		if p.PaymentStatus == "SUCCESS" {
			best = p
			break
		}
	}

	record := c.toRecord(ref.OrderID, &best)
	record.LeadID = order.OrderTags["lead_id"]
	record.Notes = order.OrderTags
	return record, nil
}

func (c *Client) fetchOrder(ctx context.Context, orderID string) (*orderResponse, error) {
	url := fmt.Sprintf("%s/orders/%s", c.baseURL, orderID)

	req, err := http.NewRequestWithContext(ctx, "GET", url, nil)
	if err != nil {
		return nil, err
	}
	c.setHeaders(req)

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("cashfree request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		body, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("cashfree order fetch failed (status %d): %s", resp.StatusCode, truncate(body))
	}

	var order orderResponse
	if err := json.NewDecoder(resp.Body).Decode(&order); err != nil {
		return nil, fmt.Errorf("failed to decode cashfree order: %w", err)
	}

	return &order, nil
}

// FetchPayment is not addressable without the order id in this flow; payment
// details lookups are served from the local payments table instead.
func (c *Client) FetchPayment(ctx context.Context, paymentID string) (*entity.PaymentRecord, error) {
	return nil, fmt.Errorf("cashfree payments are only addressable through their order")
}

// CapturePayment never applies: order-flow payments settle automatically on
// the gateway side.
func (c *Client) CapturePayment(ctx context.Context, paymentID string, amount int64, currency string) (*entity.PaymentRecord, error) {
	return nil, fmt.Errorf("cashfree order-flow payments are captured automatically")
}

func (c *Client) toRecord(orderID string, p *paymentEntry) *entity.PaymentRecord {
	status := entity.OrderCreated
	switch p.PaymentStatus {
	case "SUCCESS":
		status = entity.OrderCaptured
	case "FAILED", "CANCELLED", "USER_DROPPED":
		status = entity.OrderFailed
	}

	createdAt, _ := time.Parse(time.RFC3339, p.PaymentTime)

	return &entity.PaymentRecord{
		PaymentID: p.CFPaymentID,
		OrderID:   orderID,
		Amount:    rupeesToPaise(p.PaymentAmount),
		Currency:  p.PaymentCurrency,
		Status:    status,
		Method:    p.PaymentGroup,
		Gateway:   c.Name(),
		CreatedAt: createdAt,
	}
}

func (c *Client) setHeaders(req *http.Request) {
	req.Header.Set("x-client-id", c.clientID)
	req.Header.Set("x-client-secret", c.clientSecret)
	req.Header.Set("x-api-version", apiVersion)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("User-Agent", "VidhiQBackend/1.0")
}

func paiseToRupees(paise int64) float64 {
	return float64(paise) / 100.0
}

func rupeesToPaise(rupees float64) int64 {
	return int64(math.Round(rupees * 100))
}

func truncate(body []byte) string {
	const max = 512
	if len(body) > max {
		return string(body[:max]) + "..."
	}
	return string(body)
}
