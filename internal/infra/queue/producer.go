package queue

import (
	"context"
	"encoding/json"
	"fmt"

	amqp "github.com/rabbitmq/amqp091-go"
)

// Notification kinds the worker knows how to dispatch.
const (
	KindPaymentConfirmed = "payment_confirmed"
	KindFollowUp         = "follow_up"
)

type NotificationPayload struct {
	Kind      string `json:"kind"`
	LeadID    string `json:"lead_id"`
	CustomID  string `json:"custom_id"`
	Name      string `json:"name"`
	Email     string `json:"email,omitempty"`
	Service   string `json:"service"`
	PaymentID string `json:"payment_id,omitempty"`
	Amount    int64  `json:"amount,omitempty"` // paise
}

type RabbitMQProducer struct {
	Conn *amqp.Connection
	Ch   *amqp.Channel
}

func NewProducer(conn *amqp.Connection, ch *amqp.Channel) *RabbitMQProducer {
	return &RabbitMQProducer{Conn: conn, Ch: ch}
}

func (p *RabbitMQProducer) PublishNotification(ctx context.Context, payload NotificationPayload) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to marshal notification payload: %w", err)
	}

	err = p.Ch.PublishWithContext(ctx,
		ExchangeName,
		RoutingKey,
		false, // mandatory
		false, // immediate
		amqp.Publishing{
			ContentType:  "application/json",
			Body:         body,
			DeliveryMode: amqp.Persistent,
		},
	)
	if err != nil {
		return fmt.Errorf("failed to publish notification: %w", err)
	}

	return nil
}
