package razorpay

import (
	"bytes"
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/vidhiq/vidhiq-backend/internal/entity"
	"github.com/vidhiq/vidhiq-backend/internal/usecase"
)

const defaultBaseURL = "https://api.razorpay.com/v1"

// Client is the signature-flow gateway: the browser completes checkout and
// posts back (paymentId, orderId, signature); we verify the HMAC, fetch the
// payment, and capture it if it is only authorized.
type Client struct {
	baseURL   string
	keyID     string
	keySecret string
	http      *http.Client
}

func NewClient(keyID, keySecret, baseURL string) *Client {
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	return &Client{
		baseURL:   baseURL,
		keyID:     keyID,
		keySecret: keySecret,
		http:      &http.Client{Timeout: 10 * time.Second},
	}
}

func (c *Client) Name() string { return "razorpay" }

func (c *Client) Environment() string {
	if strings.HasPrefix(c.keyID, "rzp_live_") {
		return "production"
	}
	return "test"
}

func (c *Client) CreateOrder(ctx context.Context, params usecase.OrderParams) (*entity.PaymentOrder, error) {
	url := fmt.Sprintf("%s/orders", c.baseURL)

	payload := createOrderRequest{
		Amount:   params.Amount,
		Currency: params.Currency,
		Receipt:  "rcpt_" + uuid.New().String()[:8],
		Notes:    params.Notes,
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
		return nil, fmt.Errorf("razorpay request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		body, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("razorpay rejected order (status %d): %s", resp.StatusCode, truncate(body))
	}

	var response orderResponse
	if err := json.NewDecoder(resp.Body).Decode(&response); err != nil {
		return nil, fmt.Errorf("failed to decode razorpay response: %w", err)
	}

	return &entity.PaymentOrder{
		OrderID:  response.ID,
		Amount:   response.Amount,
		Currency: response.Currency,
		LeadID:   params.Notes["lead_id"],
		Status:   entity.OrderCreated,
	}, nil
}

// VerifyPayment checks the checkout signature before trusting anything the
// client sent, then fetches the payment for its real state.
func (c *Client) VerifyPayment(ctx context.Context, ref usecase.PaymentReference) (*entity.PaymentRecord, error) {
	if !c.VerifySignature(ref.OrderID, ref.PaymentID, ref.Signature) {
		return nil, usecase.ErrSignatureMismatch
	}

	return c.FetchPayment(ctx, ref.PaymentID)
}

// VerifySignature computes HMAC-SHA256 over "orderId|paymentId" with the key
// secret and compares in constant time.
func (c *Client) VerifySignature(orderID, paymentID, signature string) bool {
	mac := hmac.New(sha256.New, []byte(c.keySecret))
	mac.Write([]byte(orderID + "|" + paymentID))
	expected := hex.EncodeToString(mac.Sum(nil))

	return hmac.Equal([]byte(expected), []byte(signature))
}

func (c *Client) FetchPayment(ctx context.Context, paymentID string) (*entity.PaymentRecord, error) {
	url := fmt.Sprintf("%s/payments/%s", c.baseURL, paymentID)

	req, err := http.NewRequestWithContext(ctx, "GET", url, nil)
	if err != nil {
		return nil, err
	}
	c.setHeaders(req)

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("razorpay request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return nil, fmt.Errorf("payment %s not found", paymentID)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		body, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("razorpay payment fetch failed (status %d): %s", resp.StatusCode, truncate(body))
	}

	var payment paymentResponse
	if err := json.NewDecoder(resp.Body).Decode(&payment); err != nil {
		return nil, fmt.Errorf("failed to decode razorpay payment: %w", err)
	}

	return c.toRecord(&payment), nil
}

// CapturePayment finalizes an authorized payment. Only call when the fetched
// payment reports status "authorized".
func (c *Client) CapturePayment(ctx context.Context, paymentID string, amount int64, currency string) (*entity.PaymentRecord, error) {
	url := fmt.Sprintf("%s/payments/%s/capture", c.baseURL, paymentID)

	payload := captureRequest{Amount: amount, Currency: currency}
	jsonBody, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, "POST", url, bytes.NewBuffer(jsonBody))
	if err != nil {
		return nil, err
	}
	c.setHeaders(req)

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("razorpay capture request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		body, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("razorpay capture failed (status %d): %s", resp.StatusCode, truncate(body))
	}

	var payment paymentResponse
	if err := json.NewDecoder(resp.Body).Decode(&payment); err != nil {
		return nil, fmt.Errorf("failed to decode razorpay capture response: %w", err)
	}

	return c.toRecord(&payment), nil
}

func (c *Client) toRecord(p *paymentResponse) *entity.PaymentRecord {
	status := entity.OrderCreated
	switch p.Status {
	case "captured":
		status = entity.OrderCaptured
	case "authorized":
		status = entity.OrderAuthorized
	case "failed":
		status = entity.OrderFailed
	}

	return &entity.PaymentRecord{
		PaymentID: p.ID,
		OrderID:   p.OrderID,
		Amount:    p.Amount,
		Currency:  p.Currency,
		Status:    status,
		Method:    p.Method,
		Email:     p.Email,
		Contact:   p.Contact,
		LeadID:    p.Notes["lead_id"],
		Gateway:   c.Name(),
		CreatedAt: time.Unix(p.CreatedAt, 0),
		Notes:     p.Notes,
	}
}

func (c *Client) setHeaders(req *http.Request) {
	req.SetBasicAuth(c.keyID, c.keySecret)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("User-Agent", "VidhiQBackend/1.0")
}

// truncate keeps provider error bodies out of logs past a sane size.
func truncate(body []byte) string {
	const max = 512
	if len(body) > max {
		return string(body[:max]) + "..."
	}
	return string(body)
}
