package whatsapp

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/vidhiq/vidhiq-backend/internal/logger"
)

const defaultBaseURL = "https://graph.facebook.com/v18.0"

// Client posts template messages through the WhatsApp Business API. Used for
// ops alerts to the support number; never on the payment critical path.
type Client struct {
	accessToken   string
	phoneID       string
	supportNumber string
	baseURL       string
	http          *http.Client
}

func NewClient(accessToken, phoneID, supportNumber string) *Client {
	return &Client{
		accessToken:   accessToken,
		phoneID:       phoneID,
		supportNumber: supportNumber,
		baseURL:       defaultBaseURL,
		http:          &http.Client{Timeout: 10 * time.Second},
	}
}

// SendPaymentAlert notifies the support number that a lead has paid.
func (c *Client) SendPaymentAlert(name, customID string, amountPaise int64) error {
	rupees := fmt.Sprintf("%.2f", float64(amountPaise)/100.0)
	return c.SendMessage(SendMessageInput{
		PhoneNumber:  c.supportNumber,
		TemplateName: "payment_received",
		Parameters:   []string{name, customID, rupees},
	})
}

func (c *Client) SendMessage(input SendMessageInput) error {
	if c.accessToken == "" || c.phoneID == "" || input.PhoneNumber == "" {
		return fmt.Errorf("whatsapp is not configured")
	}

	payload := map[string]interface{}{
		"messaging_product": "whatsapp",
		"recipient_type":    "individual",
		"to":                input.PhoneNumber,
		"type":              "template",
		"template": map[string]interface{}{
			"name": input.TemplateName,
			"language": map[string]string{
				"code": "en",
			},
			"components": []map[string]interface{}{
				{
					"type":       "body",
					"parameters": convertParametersToAPI(input.Parameters),
				},
			},
		},
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return err
	}

	url := fmt.Sprintf("%s/%s/messages", c.baseURL, c.phoneID)
	req, err := http.NewRequest("POST", url, bytes.NewReader(body))
	if err != nil {
		return err
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", fmt.Sprintf("Bearer %s", c.accessToken))

	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	respBody, _ := io.ReadAll(resp.Body)

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		return fmt.Errorf("whatsapp api error: %d", resp.StatusCode)
	}

	var result SendMessageResponse
	if err := json.Unmarshal(respBody, &result); err != nil {
		return err
	}
	if result.Error != nil {
		return fmt.Errorf("whatsapp: %s", result.Error.Message)
	}

	logger.L().Debug("whatsapp message sent", zap.String("to", input.PhoneNumber))
	return nil
}

func convertParametersToAPI(params []string) []map[string]string {
	result := make([]map[string]string, 0, len(params))
	for _, param := range params {
		result = append(result, map[string]string{
			"type": "text",
			"text": param,
		})
	}
	return result
}
