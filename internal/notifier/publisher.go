package notifier

import (
	"context"
	"encoding/json"
	"log"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
)

// AMQPPublisher publishes EmailRequested events to the email queue. It
// implements the service's Notifier interface. Errors are logged and
// returned so callers can ignore failures without interrupting the main
// request flow.
type AMQPPublisher struct {
	URL string
}

func NewAMQPPublisher(url string) *AMQPPublisher {
	return &AMQPPublisher{URL: url}
}

// Send publishes one email request. Messages are marked persistent so
// they survive broker restarts; delivery happens at-least-once in the
// background consumer.
func (p *AMQPPublisher) Send(ctx context.Context, to, subject, htmlBody string) error {
	conn, err := amqp.Dial(p.URL)
	if err != nil {
		log.Printf("notifier: dial failed: %v", err)
		return err
	}
	defer func() { _ = conn.Close() }()

	ch, err := conn.Channel()
	if err != nil {
		log.Printf("notifier: channel open failed: %v", err)
		return err
	}
	defer func() { _ = ch.Close() }()

	// Ensure the queue exists (idempotent). Durable so messages survive
	// broker restarts.
	if _, err := ch.QueueDeclare(emailQueueName, true, false, false, false, nil); err != nil {
		log.Printf("notifier: queue declare failed: %v", err)
		return err
	}

	body, err := json.Marshal(EmailRequested{
		To:          to,
		Subject:     subject,
		HTMLBody:    htmlBody,
		RequestedAt: time.Now().UTC().Format(time.RFC3339),
	})
	if err != nil {
		log.Printf("notifier: marshal event failed: %v", err)
		return err
	}

	pub := amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		Timestamp:    time.Now().UTC(),
		Body:         body,
	}
	if err := ch.PublishWithContext(ctx, "", emailQueueName, false, false, pub); err != nil {
		log.Printf("notifier: publish failed: %v", err)
		return err
	}
	return nil
}
