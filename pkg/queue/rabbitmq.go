package queue

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/PhucHuuDang/GraphQL/pkg/config"
	"github.com/PhucHuuDang/GraphQL/pkg/logger"

	amqp "github.com/rabbitmq/amqp091-go"
)

const (
	EventsExchange = "blog.events"

	RoutingPostSubmitted = "post.submitted"
	RoutingPostPublished = "post.published"
)

// Publisher sends domain events. Implementations must be safe for
// concurrent use.
type Publisher interface {
	Publish(ctx context.Context, routingKey string, payload interface{}) error
	Close() error
}

// NewPublisher connects to RabbitMQ when RABBITMQ_URL is set and otherwise
// returns a publisher that only logs.
func NewPublisher(cfg *config.Config, log *logger.Logger) (Publisher, error) {
	if cfg.RabbitMQURL == "" {
		log.Info("RABBITMQ_URL not set, domain events will not be published")
		return NopPublisher{log: log}, nil
	}
	return NewRabbitMQClient(cfg.RabbitMQURL, log)
}

type Client struct {
	conn    *amqp.Connection
	channel *amqp.Channel
	logger  *logger.Logger
}

func NewRabbitMQClient(url string, log *logger.Logger) (*Client, error) {
	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to RabbitMQ: %w", err)
	}

	channel, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to open channel: %w", err)
	}

	err = channel.ExchangeDeclare(
		EventsExchange, // name
		"topic",        // type
		true,           // durable
		false,          // auto-deleted
		false,          // internal
		false,          // no-wait
		nil,            // arguments
	)
	if err != nil {
		channel.Close()
		conn.Close()
		return nil, fmt.Errorf("failed to declare exchange: %w", err)
	}

	log.Info("Connected to RabbitMQ, publishing to exchange %s", EventsExchange)

	return &Client{
		conn:    conn,
		channel: channel,
		logger:  log,
	}, nil
}

func (c *Client) Close() error {
	if c.channel != nil {
		c.channel.Close()
	}
	if c.conn != nil {
		return c.conn.Close()
	}
	return nil
}

func (c *Client) Publish(ctx context.Context, routingKey string, payload interface{}) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to marshal event: %w", err)
	}

	err = c.channel.PublishWithContext(ctx,
		EventsExchange, // exchange
		routingKey,     // routing key
		false,          // mandatory
		false,          // immediate
		amqp.Publishing{
			ContentType:  "application/json",
			Body:         body,
			DeliveryMode: amqp.Persistent,
			Timestamp:    time.Now(),
		},
	)
	if err != nil {
		c.logger.Error("[RABBITMQ] Failed to publish to exchange=%s, routing_key=%s: %v", EventsExchange, routingKey, err)
		return fmt.Errorf("failed to publish message: %w", err)
	}

	c.logger.Debug("[RABBITMQ] Published exchange=%s routing_key=%s: %s", EventsExchange, routingKey, string(body))
	return nil
}

type NopPublisher struct {
	log *logger.Logger
}

func NewNopPublisher(log *logger.Logger) NopPublisher {
	return NopPublisher{log: log}
}

func (p NopPublisher) Publish(_ context.Context, routingKey string, _ interface{}) error {
	if p.log != nil {
		p.log.Debug("event %s dropped: no broker configured", routingKey)
	}
	return nil
}

func (NopPublisher) Close() error { return nil }
