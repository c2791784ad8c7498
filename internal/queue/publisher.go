package queue

import (
	"context"
	"encoding/json"
	"log/slog"
	"sync"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
)

// Publisher sends auth events to a durable RabbitMQ queue. Delivery is
// best-effort and at-most-once: callers treat Publish errors as advisory
// and must never roll back the primary operation because of one.
type Publisher struct {
	url   string
	queue string
	log   *slog.Logger

	mu   sync.Mutex
	conn *amqp.Connection
	ch   *amqp.Channel
}

// NewPublisher creates a lazily connecting publisher. The broker being down
// at construction time is not an error; the first Publish will retry the dial.
func NewPublisher(url, queueName string, log *slog.Logger) *Publisher {
	return &Publisher{url: url, queue: queueName, log: log}
}

// Publish marshals the envelope and sends it to the queue. Errors are
// returned for the caller to log and otherwise ignore.
func (p *Publisher) Publish(ctx context.Context, event string, data map[string]string) error {
	body, err := json.Marshal(Envelope{Event: event, Data: data})
	if err != nil {
		p.log.Error("rabbitmq: marshal event failed", "event", event, "err", err)
		return err
	}

	ch, err := p.channel()
	if err != nil {
		p.log.Error("rabbitmq: channel unavailable", "event", event, "err", err)
		return err
	}

	pub := amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		Timestamp:    time.Now().UTC(),
		Body:         body,
	}
	if err := ch.PublishWithContext(ctx, "", p.queue, false, false, pub); err != nil {
		p.log.Error("rabbitmq: publish failed", "event", event, "err", err)
		p.reset()
		return err
	}
	p.log.Info("event published", "event", event, "queue", p.queue)
	return nil
}

// Close shuts the channel and connection down.
func (p *Publisher) Close() {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.ch != nil {
		_ = p.ch.Close()
		p.ch = nil
	}
	if p.conn != nil {
		_ = p.conn.Close()
		p.conn = nil
	}
}

// channel returns the cached channel, dialing and declaring the queue on
// first use or after a reset.
func (p *Publisher) channel() (*amqp.Channel, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.ch != nil && !p.conn.IsClosed() {
		return p.ch, nil
	}

	conn, err := amqp.Dial(p.url)
	if err != nil {
		return nil, err
	}
	ch, err := conn.Channel()
	if err != nil {
		_ = conn.Close()
		return nil, err
	}
	// Durable queue so events survive broker restarts. Declare is idempotent.
	if _, err := ch.QueueDeclare(p.queue, true, false, false, false, nil); err != nil {
		_ = ch.Close()
		_ = conn.Close()
		return nil, err
	}

	p.conn, p.ch = conn, ch
	return ch, nil
}

func (p *Publisher) reset() {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.ch != nil {
		_ = p.ch.Close()
		p.ch = nil
	}
	if p.conn != nil {
		_ = p.conn.Close()
		p.conn = nil
	}
}
