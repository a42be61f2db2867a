package razorpay

// --- payloads sent to the gateway ---

type createOrderRequest struct {
	Amount   int64             `json:"amount"` // paise
	Currency string            `json:"currency"`
	Receipt  string            `json:"receipt"`
	Notes    map[string]string `json:"notes,omitempty"`
}

type captureRequest struct {
	Amount   int64  `json:"amount"` // paise
	Currency string `json:"currency"`
}

// --- responses the gateway returns ---

type orderResponse struct {
	ID       string `json:"id"`
	Amount   int64  `json:"amount"`
	Currency string `json:"currency"`
	Status   string `json:"status"`
}

type paymentResponse struct {
	ID        string            `json:"id"`
	OrderID   string            `json:"order_id"`
	Amount    int64             `json:"amount"` // paise
	Currency  string            `json:"currency"`
	Status    string            `json:"status"` // created, authorized, captured, refunded, failed
	Method    string            `json:"method"`
	Email     string            `json:"email"`
	Contact   string            `json:"contact"`
	Captured  bool              `json:"captured"`
	Notes     map[string]string `json:"notes"`
	CreatedAt int64             `json:"created_at"`
}
