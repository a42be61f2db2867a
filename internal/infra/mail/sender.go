package mail

import (
	"bytes"
	"fmt"
	"html/template"

	"gopkg.in/gomail.v2"
)

var confirmationTmpl = template.Must(template.New("payment_confirmation").Parse(`
<p>Hi {{.Name}},</p>
<p>We have received your payment of ₹{{.AmountRupees}} for <b>{{.Service}}</b>.</p>
<p>Your reference id is <b>{{.CustomID}}</b>. Our team will reach out on WhatsApp
to take things forward.</p>
<p>— Team VidhiQ</p>
`))

func NewEmailSender(host string, port int, user, password, from, opsEmail string) *EmailSender {
	return &EmailSender{
		Host:     host,
		Port:     port,
		User:     user,
		Password: password,
		From:     from,
		OpsEmail: opsEmail,
	}
}

func (s *EmailSender) SendPaymentConfirmation(to, name, service, customID string, amountPaise int64) error {
	data := ConfirmationEmailData{
		Name:         name,
		Service:      service,
		CustomID:     customID,
		AmountRupees: fmt.Sprintf("%.2f", float64(amountPaise)/100.0),
	}

	var body bytes.Buffer
	if err := confirmationTmpl.Execute(&body, data); err != nil {
		return fmt.Errorf("failed to render confirmation email: %w", err)
	}

	m := gomail.NewMessage()
	m.SetHeader("From", s.From)
	m.SetHeader("To", to)
	m.SetHeader("Subject", fmt.Sprintf("Payment received — %s", customID))
	m.SetBody("text/html", body.String())

	d := gomail.NewDialer(s.Host, s.Port, s.User, s.Password)

	if err := d.DialAndSend(m); err != nil {
		return fmt.Errorf("failed to send email via SMTP: %w", err)
	}

	return nil
}

// SendOpsAlert mails the operations inbox. Plain text, no template.
func (s *EmailSender) SendOpsAlert(subject, body string) error {
	if s.OpsEmail == "" {
		return nil
	}

	m := gomail.NewMessage()
	m.SetHeader("From", s.From)
	m.SetHeader("To", s.OpsEmail)
	m.SetHeader("Subject", subject)
	m.SetBody("text/plain", body)

	d := gomail.NewDialer(s.Host, s.Port, s.User, s.Password)

	if err := d.DialAndSend(m); err != nil {
		return fmt.Errorf("failed to send ops alert: %w", err)
	}

	return nil
}
