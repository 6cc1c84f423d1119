// Package events publishes membership changes recorded in the outbox to RabbitMQ.
package events

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"

	"brotos/internal/model"
)

// Publisher delivers one outbox message.
type Publisher interface {
	Publish(ctx context.Context, msg model.Message) error
}

// RabbitPublisher publishes to a durable topic exchange, routing by event type so consumers can
// bind to e.g. "consultant.*" or "consultant.deleted".
type RabbitPublisher struct {
	conn     *amqp.Connection
	channel  *amqp.Channel
	exchange string
}

var _ Publisher = (*RabbitPublisher)(nil)

// NewRabbitPublisher dials amqpURL and declares exchange.
func NewRabbitPublisher(amqpURL, exchange string) (*RabbitPublisher, error) {
	conn, err := amqp.Dial(amqpURL)
	if err != nil {
		return nil, fmt.Errorf("dial rabbitmq: %w", err)
	}
	ch, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("open channel: %w", err)
	}
	if err := ch.ExchangeDeclare(exchange, amqp.ExchangeTopic, true, false, false, false, nil); err != nil {
		ch.Close()
		conn.Close()
		return nil, fmt.Errorf("declare exchange %s: %w", exchange, err)
	}

	return &RabbitPublisher{conn: conn, channel: ch, exchange: exchange}, nil
}

// Publish sends msg as persistent JSON.
func (r *RabbitPublisher) Publish(ctx context.Context, msg model.Message) error {
	body, err := json.Marshal(msg)
	if err != nil {
		return err
	}
	return r.channel.PublishWithContext(ctx,
		r.exchange,
		string(msg.Type),
		false, false,
		amqp.Publishing{
			ContentType:  "application/json",
			MessageId:    msg.EventID,
			Type:         string(msg.Type),
			Body:         body,
			Timestamp:    time.Now(),
			DeliveryMode: amqp.Persistent,
		},
	)
}

// Close releases the channel and connection.
func (r *RabbitPublisher) Close() {
	r.channel.Close()
	r.conn.Close()
}
