package whatsapp

type SendMessageInput struct {
	PhoneNumber  string   // E.164 without the plus, e.g. "919876543210"
	TemplateName string   // Ex: "payment_received"
	Parameters   []string // body placeholders, in order
}

type SendMessageResponse struct {
	Messages []struct {
		ID string `json:"id"`
	} `json:"messages"`
	Contacts []struct {
		Input string `json:"input"`
		WaID  string `json:"wa_id"`
	} `json:"contacts"`
	Error *ErrorResponse `json:"error"`
}

type ErrorResponse struct {
	Message string `json:"message"`
	Code    int    `json:"code"`
	Type    string `json:"type"`
}
