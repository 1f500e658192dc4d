// Package notify broadcasts document change events between processes sharing
// one ledger document, over a RabbitMQ fanout exchange.
package notify

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/rabbitmq/amqp091-go"

	"hisab/internal/docstore"
	"hisab/internal/log"
)

// Client publishes and consumes document change events. Every process gets
// its own exclusive queue bound to the fanout exchange, so each event reaches
// all replicas.
type Client struct {
	conn         *amqp091.Connection
	channel      *amqp091.Channel
	exchangeName string
	queueName    string
	logger       *log.Logger

	startOnce sync.Once
	events    chan docstore.ChangeEvent
}

var _ docstore.Notifier = (*Client)(nil)

func NewClient(url, exchangeName string, logger *log.Logger) (*Client, error) {
	conn, err := amqp091.Dial(url)
	if err != nil {
		return nil, fmt.Errorf("dial AMQP: %w", err)
	}

	channel, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("open channel: %w", err)
	}

	if logger == nil {
		logger = log.New(log.DefaultConfig())
	}

	client := &Client{
		conn:         conn,
		channel:      channel,
		exchangeName: exchangeName,
		logger:       logger.WithComponent(log.ComponentNotify),
		events:       make(chan docstore.ChangeEvent, 16),
	}

	if err := client.setup(); err != nil {
		client.Close()
		return nil, fmt.Errorf("setup exchange and queue: %w", err)
	}

	return client, nil
}

func (c *Client) setup() error {
	// Fanout: every replica must see every change event.
	err := c.channel.ExchangeDeclare(
		c.exchangeName, // name
		"fanout",       // type
		true,           // durable
		false,          // auto-deleted
		false,          // internal
		false,          // no-wait
		nil,            // arguments
	)
	if err != nil {
		return fmt.Errorf("declare exchange: %w", err)
	}

	// Server-named exclusive queue, dropped when this process disconnects.
	q, err := c.channel.QueueDeclare(
		"",    // name
		false, // durable
		true,  // delete when unused
		true,  // exclusive
		false, // no-wait
		nil,   // arguments
	)
	if err != nil {
		return fmt.Errorf("declare queue: %w", err)
	}
	c.queueName = q.Name

	err = c.channel.QueueBind(
		c.queueName,    // queue name
		"",             // routing key (ignored by fanout)
		c.exchangeName, // exchange
		false,
		nil,
	)
	if err != nil {
		return fmt.Errorf("bind queue: %w", err)
	}

	return nil
}

// PublishDocumentChanged implements docstore.Notifier.
func (c *Client) PublishDocumentChanged(ctx context.Context, key string, version int64) error {
	msg := NewDocumentChangedMessage(key, version)
	body, err := msg.ToJSON()
	if err != nil {
		return fmt.Errorf("marshal message: %w", err)
	}

	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	err = c.channel.PublishWithContext(
		ctx,
		c.exchangeName, // exchange
		"",             // routing key
		false,          // mandatory
		false,          // immediate
		amqp091.Publishing{
			ContentType: "application/json",
			Timestamp:   time.Now(),
			Body:        body,
		},
	)
	if err != nil {
		return fmt.Errorf("publish message: %w", err)
	}

	c.logger.DebugContext(ctx, "Published document change event",
		log.FieldDocumentKey, key,
		log.FieldVersion, version)
	return nil
}

// Events implements docstore.Notifier. The consumer goroutine starts on first
// call and closes the channel when the AMQP delivery stream ends.
func (c *Client) Events() <-chan docstore.ChangeEvent {
	c.startOnce.Do(func() {
		deliveries, err := c.channel.Consume(
			c.queueName, // queue
			"",          // consumer tag
			true,        // auto-ack
			true,        // exclusive
			false,       // no-local
			false,       // no-wait
			nil,         // arguments
		)
		if err != nil {
			c.logger.Error("Failed to start consuming change events", log.FieldError, err)
			close(c.events)
			return
		}

		go func() {
			defer close(c.events)
			for d := range deliveries {
				msg, err := DocumentChangedMessageFromJSON(d.Body)
				if err != nil {
					c.logger.Warn("Discarding malformed change event", log.FieldError, err)
					continue
				}
				c.events <- docstore.ChangeEvent{Key: msg.Key, Version: msg.Version}
			}
		}()
	})
	return c.events
}

// Close closes the channel and connection.
func (c *Client) Close() error {
	var errs []error
	if c.channel != nil {
		if err := c.channel.Close(); err != nil {
			errs = append(errs, fmt.Errorf("channel: %w", err))
		}
	}
	if c.conn != nil {
		if err := c.conn.Close(); err != nil {
			errs = append(errs, fmt.Errorf("connection: %w", err))
		}
	}
	if len(errs) > 0 {
		return fmt.Errorf("close notify client: %v", errs)
	}
	return nil
}
