package queue

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

type recordingEmail struct {
	confirmations []string
	opsAlerts     []string
	err           error
}

func (r *recordingEmail) SendPaymentConfirmation(to, name, service, customID string, amountPaise int64) error {
	if r.err != nil {
		return r.err
	}
	r.confirmations = append(r.confirmations, to)
	return nil
}

func (r *recordingEmail) SendOpsAlert(subject, body string) error {
	if r.err != nil {
		return r.err
	}
	r.opsAlerts = append(r.opsAlerts, subject)
	return nil
}

type recordingWhatsApp struct {
	alerts []string
	err    error
}

func (r *recordingWhatsApp) SendPaymentAlert(name, customID string, amountPaise int64) error {
	if r.err != nil {
		return r.err
	}
	r.alerts = append(r.alerts, customID)
	return nil
}

func TestProcessPaymentConfirmedDispatchesBothChannels(t *testing.T) {
	email := &recordingEmail{}
	whatsapp := &recordingWhatsApp{}
	w := NewWorker(nil, email, whatsapp)

	err := w.processMessage(NotificationPayload{
		Kind:     KindPaymentConfirmed,
		CustomID: "asha-3210",
		Name:     "Asha Rao",
		Email:    "asha@example.com",
		Service:  "legal-notice",
		Amount:   49900,
	})

	assert.NoError(t, err)
	assert.Equal(t, []string{"asha@example.com"}, email.confirmations)
	assert.Equal(t, []string{"asha-3210"}, whatsapp.alerts)
}

func TestProcessPaymentConfirmedWithoutEmailAddress(t *testing.T) {
	email := &recordingEmail{}
	w := NewWorker(nil, email, &recordingWhatsApp{})

	err := w.processMessage(NotificationPayload{
		Kind:     KindPaymentConfirmed,
		CustomID: "asha-3210",
	})

	assert.NoError(t, err)
	assert.Empty(t, email.confirmations)
}

func TestProcessPaymentConfirmedWhatsAppFailureIsNotFatal(t *testing.T) {
	email := &recordingEmail{}
	whatsapp := &recordingWhatsApp{err: errors.New("template rejected")}
	w := NewWorker(nil, email, whatsapp)

	err := w.processMessage(NotificationPayload{
		Kind:  KindPaymentConfirmed,
		Email: "asha@example.com",
	})

	assert.NoError(t, err)
	assert.Len(t, email.confirmations, 1)
}

func TestProcessPaymentConfirmedEmailFailurePropagates(t *testing.T) {
	email := &recordingEmail{err: errors.New("smtp down")}
	w := NewWorker(nil, email, nil)

	err := w.processMessage(NotificationPayload{
		Kind:  KindPaymentConfirmed,
		Email: "asha@example.com",
	})

	assert.Error(t, err)
}

func TestProcessFollowUpSendsOpsAlert(t *testing.T) {
	email := &recordingEmail{}
	w := NewWorker(nil, email, nil)

	err := w.processMessage(NotificationPayload{
		Kind:     KindFollowUp,
		CustomID: "asha-3210",
		Service:  "legal-notice",
	})

	assert.NoError(t, err)
	assert.Len(t, email.opsAlerts, 1)
	assert.Contains(t, email.opsAlerts[0], "asha-3210")
}

func TestProcessUnknownKindIsDropped(t *testing.T) {
	w := NewWorker(nil, &recordingEmail{}, nil)

	err := w.processMessage(NotificationPayload{Kind: "telegram"})

	assert.NoError(t, err)
}
