// Package events publishes domain events to RabbitMQ. Publishing is best
// effort: callers log failures and carry on, the database stays the source
// of truth.
package events

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"studiodesk/internal/logger"
	"studiodesk/internal/metrics"

	amqp "github.com/rabbitmq/amqp091-go"
)

const Exchange = "studiodesk.events"

const (
	ReservationConfirmed  = "reservation.confirmed"
	ReservationCancelled  = "reservation.cancelled"
	SubscriptionActivated = "subscription.activated"
	PaymentRecorded       = "payment.recorded"
	TreasuryRecorded      = "treasury.recorded"
)

type Publisher interface {
	Publish(ctx context.Context, routingKey string, data any) error
	Close() error
}

// Envelope is the JSON body of every message.
type Envelope struct {
	Type       string    `json:"type"`
	OccurredAt time.Time `json:"occurred_at"`
	Data       any       `json:"data"`
}

func encode(routingKey string, data any, at time.Time) ([]byte, error) {
	body, err := json.Marshal(Envelope{Type: routingKey, OccurredAt: at.UTC(), Data: data})
	if err != nil {
		return nil, fmt.Errorf("marshal %s event: %w", routingKey, err)
	}
	return body, nil
}

// Emit publishes and logs a failure instead of returning it.
func Emit(ctx context.Context, p Publisher, routingKey string, data any) {
	if p == nil {
		return
	}
	err := p.Publish(ctx, routingKey, data)
	metrics.RecordEvent(routingKey, err)
	if err != nil {
		logger.Warn("event publish failed", "type", routingKey, "error", err)
	}
}

type amqpPublisher struct {
	mu   sync.Mutex
	conn *amqp.Connection
	ch   *amqp.Channel
}

// NewAMQPPublisher dials the broker and declares the durable topic exchange.
func NewAMQPPublisher(url string) (Publisher, error) {
	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, fmt.Errorf("rabbitmq dial: %w", err)
	}

	ch, err := conn.Channel()
	if err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("rabbitmq channel: %w", err)
	}

	if err := ch.ExchangeDeclare(Exchange, "topic", true, false, false, false, nil); err != nil {
		_ = ch.Close()
		_ = conn.Close()
		return nil, fmt.Errorf("rabbitmq exchange declare: %w", err)
	}

	return &amqpPublisher{conn: conn, ch: ch}, nil
}

// Publish sends a persistent message. A channel is not safe for concurrent
// use, so publishes are serialised.
func (p *amqpPublisher) Publish(ctx context.Context, routingKey string, data any) error {
	now := time.Now()
	body, err := encode(routingKey, data, now)
	if err != nil {
		return err
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	return p.ch.PublishWithContext(ctx, Exchange, routingKey, false, false, amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		Timestamp:    now.UTC(),
		Type:         routingKey,
		Body:         body,
	})
}

func (p *amqpPublisher) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if err := p.ch.Close(); err != nil {
		_ = p.conn.Close()
		return err
	}
	return p.conn.Close()
}

type nopPublisher struct{}

// NewNopPublisher returns a publisher that drops every event. It is used
// when no broker is configured.
func NewNopPublisher() Publisher {
	return nopPublisher{}
}

func (nopPublisher) Publish(context.Context, string, any) error { return nil }
func (nopPublisher) Close() error                               { return nil }
