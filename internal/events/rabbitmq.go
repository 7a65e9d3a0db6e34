// Package events carries domain events over RabbitMQ: a publisher that
// mirrors service notifications onto a topic exchange, and the sale consumer
// that turns order.sale messages into stock movements.
package events

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/mesapos/api/internal/config"
	amqp "github.com/rabbitmq/amqp091-go"
	"go.uber.org/zap"
)

const dialAttempts = 5

// ErrDisabled is returned by Dial when no broker URL is configured.
var ErrDisabled = errors.New("rabbitmq disabled")

// Client wraps one AMQP connection with a publishing channel.
type Client struct {
	conn *amqp.Connection
	ch   *amqp.Channel
	cfg  config.RabbitMQConfig
	log  *zap.Logger

	// amqp channels are not safe for concurrent publishes
	pubMu sync.Mutex
}

// Dial connects with retry and declares the topic exchange.
func Dial(ctx context.Context, cfg config.RabbitMQConfig, log *zap.Logger) (*Client, error) {
	if cfg.URL == "" {
		return nil, ErrDisabled
	}
	if cfg.Exchange == "" {
		return nil, fmt.Errorf("exchange name cannot be empty")
	}

	var (
		conn *amqp.Connection
		err  error
	)
	for i := 0; i < dialAttempts; i++ {
		conn, err = amqp.Dial(cfg.URL)
		if err == nil {
			break
		}
		wait := time.Duration(i*i)*time.Second + time.Second
		log.Warn("rabbitmq dial failed, retrying", zap.Duration("in", wait), zap.Error(err))
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(wait):
		}
	}
	if err != nil {
		return nil, fmt.Errorf("connect to rabbitmq after %d attempts: %w", dialAttempts, err)
	}

	ch, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("open channel: %w", err)
	}

	if err := ch.ExchangeDeclare(
		cfg.Exchange, // name
		"topic",      // type
		true,         // durable
		false,        // auto-deleted
		false,        // internal
		false,        // no-wait
		nil,          // arguments
	); err != nil {
		ch.Close()
		conn.Close()
		return nil, fmt.Errorf("declare exchange %s: %w", cfg.Exchange, err)
	}

	log.Info("rabbitmq connected", zap.String("exchange", cfg.Exchange))
	return &Client{conn: conn, ch: ch, cfg: cfg, log: log}, nil
}

// Close closes the channel and the connection.
func (c *Client) Close() error {
	if c.ch != nil {
		if err := c.ch.Close(); err != nil {
			return err
		}
	}
	if c.conn != nil {
		return c.conn.Close()
	}
	return nil
}

// Publish sends message as persistent JSON under routingKey.
func (c *Client) Publish(ctx context.Context, routingKey string, message any) error {
	body, err := json.Marshal(message)
	if err != nil {
		return fmt.Errorf("marshal message: %w", err)
	}

	c.pubMu.Lock()
	defer c.pubMu.Unlock()

	err = c.ch.PublishWithContext(ctx,
		c.cfg.Exchange, // exchange
		routingKey,     // routing key
		false,          // mandatory
		false,          // immediate
		amqp.Publishing{
			ContentType:  "application/json",
			DeliveryMode: amqp.Persistent,
			Timestamp:    time.Now(),
			Body:         body,
		},
	)
	if err != nil {
		return fmt.Errorf("publish %s to %s: %w", routingKey, c.cfg.Exchange, err)
	}
	return nil
}

// Decision is what a handler wants done with a delivery.
type Decision int

const (
	Ack     Decision = iota // processed, or already processed
	Requeue                 // transient failure, deliver again
	Reject                  // will never succeed, drop or dead-letter
)

func (d Decision) String() string {
	switch d {
	case Ack:
		return "ack"
	case Requeue:
		return "requeue"
	case Reject:
		return "reject"
	}
	return fmt.Sprintf("decision(%d)", int(d))
}

// Handler processes one message body.
type Handler func(ctx context.Context, body []byte) Decision

// settle acknowledges d according to decision.
func settle(d amqp.Delivery, decision Decision) error {
	switch decision {
	case Ack:
		return d.Ack(false)
	case Requeue:
		return d.Nack(false, true)
	default:
		return d.Nack(false, false)
	}
}

// Consume declares queue, binds it to routingKey on the exchange and feeds
// deliveries to handler one at a time until ctx is done or the channel closes.
func (c *Client) Consume(ctx context.Context, queue, routingKey string, handler Handler) error {
	ch, err := c.conn.Channel()
	if err != nil {
		return fmt.Errorf("open consumer channel: %w", err)
	}
	defer ch.Close()

	q, err := ch.QueueDeclare(
		queue, // name
		true,  // durable
		false, // delete when unused
		false, // exclusive
		false, // no-wait
		nil,   // arguments
	)
	if err != nil {
		return fmt.Errorf("declare queue %s: %w", queue, err)
	}

	if err := ch.QueueBind(q.Name, routingKey, c.cfg.Exchange, false, nil); err != nil {
		return fmt.Errorf("bind queue %s to %s: %w", queue, c.cfg.Exchange, err)
	}

	if err := ch.Qos(1, 0, false); err != nil {
		return fmt.Errorf("set qos: %w", err)
	}

	msgs, err := ch.Consume(
		q.Name, // queue
		"",     // consumer
		false,  // auto-ack
		false,  // exclusive
		false,  // no-local
		false,  // no-wait
		nil,    // args
	)
	if err != nil {
		return fmt.Errorf("consume %s: %w", queue, err)
	}

	c.log.Info("consumer started", zap.String("queue", queue), zap.String("routing_key", routingKey))

	for {
		select {
		case <-ctx.Done():
			return nil
		case d, ok := <-msgs:
			if !ok {
				return fmt.Errorf("delivery channel for %s closed", queue)
			}
			decision := handler(ctx, d.Body)
			if err := settle(d, decision); err != nil {
				c.log.Error("settle delivery",
					zap.String("queue", queue),
					zap.String("decision", decision.String()),
					zap.Error(err),
				)
			}
		}
	}
}
