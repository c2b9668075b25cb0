// Package events fans notifications out to other processes over RabbitMQ.
package events

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"

	"github.com/reelzone/backend/internal/logging"
	"github.com/reelzone/backend/internal/models"
)

// NotificationRoutingKey is the routing key attached to every published notification.
const NotificationRoutingKey = "notification.appended"

const publishTimeout = 5 * time.Second

// Channel is the subset of *amqp.Channel used for publishing.
type Channel interface {
	PublishWithContext(ctx context.Context, exchange, key string, mandatory, immediate bool, msg amqp.Publishing) error
	Close() error
}

// AMQPPublisher is a notification subscriber that publishes each entry to a fanout exchange.
// Publish failures are logged and never reach the appender.
type AMQPPublisher struct {
	conn     *amqp.Connection
	channel  Channel
	exchange string
	profile  string
}

// Dial connects to the broker at url and declares exchange as a durable fanout exchange.
func Dial(url, exchange, profile string) (*AMQPPublisher, error) {
	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, fmt.Errorf("connect to rabbitmq: %w", err)
	}

	channel, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("open channel: %w", err)
	}

	err = channel.ExchangeDeclare(
		exchange,
		amqp.ExchangeFanout,
		true,  // durable
		false, // auto-deleted
		false, // internal
		false, // no-wait
		nil,
	)
	if err != nil {
		channel.Close()
		conn.Close()
		return nil, fmt.Errorf("declare exchange %s: %w", exchange, err)
	}

	p := NewAMQPPublisher(channel, exchange, profile)
	p.conn = conn
	return p, nil
}

// NewAMQPPublisher publishes on an already opened channel.
func NewAMQPPublisher(channel Channel, exchange, profile string) *AMQPPublisher {
	if channel == nil {
		panic("events: channel must not be nil")
	}
	return &AMQPPublisher{channel: channel, exchange: exchange, profile: profile}
}

type notificationMessage struct {
	Profile      string              `json:"profile"`
	Notification models.Notification `json:"notification"`
}

// Notify implements notifications.Subscriber.
func (p *AMQPPublisher) Notify(ctx context.Context, n models.Notification) {
	if err := p.Publish(ctx, n); err != nil {
		logging.FromContext(ctx).Warn("publish notification", "notification_id", n.ID, "exchange", p.exchange, "error", err)
	}
}

// Publish sends n to the exchange.
func (p *AMQPPublisher) Publish(ctx context.Context, n models.Notification) error {
	body, err := json.Marshal(notificationMessage{Profile: p.profile, Notification: n})
	if err != nil {
		return fmt.Errorf("marshal notification: %w", err)
	}

	pubCtx, cancel := context.WithTimeout(ctx, publishTimeout)
	defer cancel()

	err = p.channel.PublishWithContext(pubCtx,
		p.exchange,
		NotificationRoutingKey,
		false, // mandatory
		false, // immediate
		amqp.Publishing{
			DeliveryMode: amqp.Persistent,
			ContentType:  "application/json",
			MessageId:    n.ID,
			Timestamp:    n.Timestamp,
			Body:         body,
		},
	)
	if err != nil {
		return fmt.Errorf("publish to %s: %w", p.exchange, err)
	}
	return nil
}

// Close releases the channel and, when Dial opened it, the connection.
func (p *AMQPPublisher) Close() error {
	chErr := p.channel.Close()
	if p.conn != nil {
		if err := p.conn.Close(); err != nil {
			return err
		}
	}
	return chErr
}
