package usecase

type SubmitLeadInput struct {
	Name            string `json:"name"`
	Location        string `json:"location"`
	WhatsAppNumber  string `json:"whatsappNumber"`
	Service         string `json:"service"`
	Description     string `json:"description,omitempty"`
	LegalNoticeType string `json:"legalNoticeType,omitempty"`
	Email           string `json:"email,omitempty"`
}

type SubmitLeadOutput struct {
	LeadID   string `json:"leadId"`
	CustomID string `json:"customId"`
}

// Amounts cross the API in paise. Each gateway client converts to its own
// wire representation at the boundary.
type CreateOrderInput struct {
	Amount        int64             `json:"amount"`
	CustomerName  string            `json:"customerName"`
	CustomerPhone string            `json:"customerPhone"`
	CustomerID    string            `json:"customerId"`
	Notes         map[string]string `json:"notes,omitempty"`
}

type CreateOrderOutput struct {
	PaymentSessionID string `json:"paymentSessionId,omitempty"`
	OrderID          string `json:"orderId"`
	Environment      string `json:"environment"`
}

type VerifyPaymentInput struct {
	PaymentID string `json:"paymentId"`
	OrderID   string `json:"orderId"`
	Signature string `json:"signature"`
}

type VerifyPaymentOutput struct {
	Verified bool   `json:"verified"`
	LeadID   string `json:"leadId,omitempty"`
}

type IssueBundleInput struct {
	BundleType    string `json:"bundleType"`
	TransactionID string `json:"transactionId"`
}

type BundleFile struct {
	Name string `json:"name"`
	URL  string `json:"url"`
}

type IssueBundleOutput struct {
	BundleType string       `json:"bundleType"`
	ExpiresIn  int64        `json:"expiresIn"`
	Files      []BundleFile `json:"files"`
}
