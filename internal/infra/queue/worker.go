package queue

import (
	"encoding/json"

	amqp "github.com/rabbitmq/amqp091-go"
	"go.uber.org/zap"

	"github.com/vidhiq/vidhiq-backend/internal/infra/http/middleware"
	"github.com/vidhiq/vidhiq-backend/internal/logger"
)

// EmailSender is the slice of the mail sender the worker needs.
type EmailSender interface {
	SendPaymentConfirmation(to, name, service, customID string, amountPaise int64) error
	SendOpsAlert(subject, body string) error
}

// WhatsAppSender posts a template message to the ops support number.
type WhatsAppSender interface {
	SendPaymentAlert(name, customID string, amountPaise int64) error
}

type Worker struct {
	Channel  *amqp.Channel
	Email    EmailSender
	WhatsApp WhatsAppSender
}

func NewWorker(ch *amqp.Channel, email EmailSender, whatsapp WhatsAppSender) *Worker {
	return &Worker{Channel: ch, Email: email, WhatsApp: whatsapp}
}

func (w *Worker) Start(queueName string) {
	msgs, err := w.Channel.Consume(
		queueName,
		"",    // consumer
		false, // manual ack
		false, // exclusive
		false, // no-local
		false, // no-wait
		nil,   // args
	)
	if err != nil {
		logger.L().Fatal("failed to register notification consumer", zap.Error(err))
	}

	forever := make(chan bool)

	go func() {
		for d := range msgs {
			var payload NotificationPayload
			if err := json.Unmarshal(d.Body, &payload); err != nil {
				logger.L().Error("malformed notification message, rejecting", zap.Error(err))
				// Malformed message. Reject without requeue so it dead-letters
				// instead of wedging the queue.
				d.Nack(false, false)
				continue
			}

			if err := w.processMessage(payload); err != nil {
				logger.L().Error("notification dispatch failed",
					zap.String("kind", payload.Kind),
					zap.String("lead_id", payload.LeadID),
					zap.Error(err),
				)
				d.Nack(false, false)
			} else {
				d.Ack(false)
			}
		}
	}()

	logger.L().Info("notification worker waiting on queue", zap.String("queue", queueName))
	<-forever
}

func (w *Worker) processMessage(payload NotificationPayload) error {
	switch payload.Kind {
	case KindPaymentConfirmed:
		if w.Email != nil && payload.Email != "" {
			if err := w.Email.SendPaymentConfirmation(payload.Email, payload.Name, payload.Service, payload.CustomID, payload.Amount); err != nil {
				middleware.RecordNotificationError("email")
				return err
			}
		}
		if w.WhatsApp != nil {
			if err := w.WhatsApp.SendPaymentAlert(payload.Name, payload.CustomID, payload.Amount); err != nil {
				// Ops alert is secondary; the customer email already went out.
				middleware.RecordNotificationError("whatsapp")
				logger.L().Warn("whatsapp ops alert failed",
					zap.String("custom_id", payload.CustomID), zap.Error(err))
			}
		}
		return nil

	case KindFollowUp:
		if w.Email == nil {
			return nil
		}
		return w.Email.SendOpsAlert(
			"Unpaid lead follow-up: "+payload.CustomID,
			"Lead "+payload.CustomID+" ("+payload.Service+") is still awaiting payment.",
		)

	default:
		logger.L().Warn("unknown notification kind, dropping", zap.String("kind", payload.Kind))
		return nil
	}
}
