package cashfree

// --- payloads sent to the gateway (major currency units on the wire) ---

type customerDetails struct {
	CustomerID    string `json:"customer_id"`
	CustomerName  string `json:"customer_name"`
	CustomerPhone string `json:"customer_phone"`
}

type createOrderRequest struct {
	OrderID         string            `json:"order_id"`
	OrderAmount     float64           `json:"order_amount"`
	OrderCurrency   string            `json:"order_currency"`
	CustomerDetails customerDetails   `json:"customer_details"`
	OrderNote       string            `json:"order_note,omitempty"`
	OrderTags       map[string]string `json:"order_tags,omitempty"`
}

// --- responses the gateway returns ---

type orderResponse struct {
	OrderID          string            `json:"order_id"`
	PaymentSessionID string            `json:"payment_session_id"`
	OrderAmount      float64           `json:"order_amount"`
	OrderCurrency    string            `json:"order_currency"`
	OrderStatus      string            `json:"order_status"`
	OrderTags        map[string]string `json:"order_tags"`
}

type paymentEntry struct {
	CFPaymentID     string  `json:"cf_payment_id"`
	PaymentStatus   string  `json:"payment_status"` // SUCCESS, FAILED, PENDING, ...
	PaymentAmount   float64 `json:"payment_amount"`
	PaymentCurrency string  `json:"payment_currency"`
	PaymentGroup    string  `json:"payment_group"`
	PaymentTime     string  `json:"payment_time"`
}
