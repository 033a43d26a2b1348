package queue

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"sync"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"go.uber.org/zap"
)

type Publisher interface {
	Publish(ctx context.Context, event ReservationEvent) error
	Close() error
}

// amqpChannel is the part of *amqp.Channel the publisher uses.
type amqpChannel interface {
	PublishWithContext(ctx context.Context, exchange, key string, mandatory, immediate bool, msg amqp.Publishing) error
	IsClosed() bool
	Close() error
}

type dialFunc func() (amqpChannel, io.Closer, error)

// AMQPPublisher publishes persistent JSON messages to a durable topic exchange.
// A channel closed by a broker restart is re-dialled on the next Publish.
type AMQPPublisher struct {
	mu       sync.Mutex
	dial     dialFunc
	conn     io.Closer
	ch       amqpChannel
	exchange string
	log      *zap.Logger
}

func NewAMQPPublisher(url, exchange string, log *zap.Logger) (*AMQPPublisher, error) {
	p := &AMQPPublisher{
		dial: func() (amqpChannel, io.Closer, error) {
			return dialExchange(url, exchange)
		},
		exchange: exchange,
		log:      log.With(zap.String("component", "publisher")),
	}

	if err := p.connect(); err != nil {
		return nil, err
	}
	return p, nil
}

func dialExchange(url, exchange string) (amqpChannel, io.Closer, error) {
	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, nil, fmt.Errorf("rabbitmq dial: %w", err)
	}

	ch, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, nil, fmt.Errorf("rabbitmq channel: %w", err)
	}

	if err := ch.ExchangeDeclare(
		exchange,
		amqp.ExchangeTopic,
		true,  // durable
		false, // autoDelete
		false, // internal
		false, // noWait
		nil,
	); err != nil {
		ch.Close()
		conn.Close()
		return nil, nil, fmt.Errorf("rabbitmq exchange declare: %w", err)
	}

	return ch, conn, nil
}

// connect must be called with mu held, or before the publisher is shared.
func (p *AMQPPublisher) connect() error {
	p.release()

	ch, conn, err := p.dial()
	if err != nil {
		return err
	}
	p.ch, p.conn = ch, conn
	return nil
}

func (p *AMQPPublisher) release() {
	if p.ch != nil {
		p.ch.Close()
	}
	if p.conn != nil {
		p.conn.Close()
	}
	p.ch, p.conn = nil, nil
}

func (p *AMQPPublisher) Publish(ctx context.Context, event ReservationEvent) error {
	body, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("marshal event: %w", err)
	}

	msg := amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		Timestamp:    time.Now().UTC(),
		MessageId:    event.ReservationID.String(),
		Type:         string(event.Type),
		Body:         body,
	}

	// amqp channels are not safe for concurrent publishing
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.ch == nil || p.ch.IsClosed() {
		p.log.Info("Reconnecting to message broker")
		if err := p.connect(); err != nil {
			return fmt.Errorf("reconnect: %w", err)
		}
	}

	if err := p.ch.PublishWithContext(ctx, p.exchange, event.RoutingKey(), false, false, msg); err != nil {
		return fmt.Errorf("publish %s: %w", event.RoutingKey(), err)
	}

	p.log.Debug("Event published",
		zap.String("routing_key", event.RoutingKey()),
		zap.String("reservation_id", event.ReservationID.String()))
	return nil
}

func (p *AMQPPublisher) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.ch == nil {
		return nil
	}
	err := p.ch.Close()
	if cerr := p.conn.Close(); err == nil {
		err = cerr
	}
	p.ch, p.conn = nil, nil
	return err
}

// NoopPublisher drops events. Used when the broker is disabled.
type NoopPublisher struct{}

func (NoopPublisher) Publish(context.Context, ReservationEvent) error { return nil }

func (NoopPublisher) Close() error { return nil }
