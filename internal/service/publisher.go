// Package service publishes domain events to RabbitMQ.  Publishing is best
// effort: errors are logged and returned so callers can ignore them without
// interrupting the request flow.
package service

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"

	"github.com/iliyamo/stayin-booking/internal/queue"
)

// ReservationPublisher announces submitted bookings.
type ReservationPublisher interface {
	PublishReservationSubmitted(ctx context.Context, ev queue.ReservationSubmittedEvent) error
}

// NopPublisher drops every event; it is used when RabbitMQ is disabled.
type NopPublisher struct{}

func (NopPublisher) PublishReservationSubmitted(context.Context, queue.ReservationSubmittedEvent) error {
	return nil
}

// RabbitPublisher dials the broker per event.  Submissions are rare enough
// that a pooled connection would only add reconnect handling.
type RabbitPublisher struct {
	URL string
}

// PublishReservationSubmitted sends ev as a persistent JSON message to the
// durable ReservationQueue through the default exchange.
func (p RabbitPublisher) PublishReservationSubmitted(ctx context.Context, ev queue.ReservationSubmittedEvent) error {
	conn, err := amqp.Dial(p.URL)
	if err != nil {
		slog.Warn("rabbitmq: dial failed", "err", err)
		return err
	}
	defer func() { _ = conn.Close() }()

	ch, err := conn.Channel()
	if err != nil {
		slog.Warn("rabbitmq: channel open failed", "err", err)
		return err
	}
	defer func() { _ = ch.Close() }()

	if _, err := ch.QueueDeclare(
		queue.ReservationQueue, // name
		true,                   // durable
		false,                  // autoDelete
		false,                  // exclusive
		false,                  // noWait
		nil,                    // args
	); err != nil {
		slog.Warn("rabbitmq: queue declare failed", "err", err)
		return err
	}

	body, err := json.Marshal(ev)
	if err != nil {
		return err
	}
	pub := amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		Timestamp:    time.Now().UTC(),
		Body:         body,
	}
	if err := ch.PublishWithContext(ctx, "", queue.ReservationQueue, false, false, pub); err != nil {
		slog.Warn("rabbitmq: publish failed", "err", err)
		return err
	}
	return nil
}
