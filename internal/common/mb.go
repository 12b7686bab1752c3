package common

import (
	"context"
	"fmt"

	amqp "github.com/rabbitmq/amqp091-go"
)

type Exchange string

type Queue string

type BindingKey string

type MessageProducer interface {
	Publish(ctx context.Context, msg []byte, key BindingKey, exchange Exchange) error
}

type MessageConsumer interface {
	Consume(key BindingKey, exchange Exchange, queue Queue) (<-chan amqp.Delivery, error)
}

const (
	BlogExchange     Exchange   = "blog_exchange"
	BlogCreatedQueue Queue      = "blog_created_queue"
	BlogCreatedKey   BindingKey = "blog.created"
)

// BlogCreatedMessage is the body of a blog.created message.
type BlogCreatedMessage struct {
	ID       string
	Title    string
	Author   string
	URL      string
	Username string
}

type MessageBroker struct {
	conn *amqp.Connection
	ch   *amqp.Channel
}

func NewMessageBroker(URI string) (*MessageBroker, error) {
	conn, err := amqp.Dial(URI)
	if err != nil {
		return nil, fmt.Errorf("could not connect to AMQP: %w", err)
	}

	ch, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("could not open channel: %w", err)
	}

	return &MessageBroker{conn: conn, ch: ch}, nil
}

func (mb *MessageBroker) Close() error {
	if err := mb.ch.Close(); err != nil {
		return err
	}

	return mb.conn.Close()
}

// SetupBlogExchange declares the durable exchange and queue for blog events.
func SetupBlogExchange(mb *MessageBroker) error {
	if err := mb.ch.ExchangeDeclare(string(BlogExchange), "direct", true, false, false, false, nil); err != nil {
		return fmt.Errorf("could not declare exchange: %w", err)
	}

	if _, err := mb.ch.QueueDeclare(string(BlogCreatedQueue), true, false, false, false, nil); err != nil {
		return fmt.Errorf("could not declare queue: %w", err)
	}

	if err := mb.ch.QueueBind(string(BlogCreatedQueue), string(BlogCreatedKey), string(BlogExchange), false, nil); err != nil {
		return fmt.Errorf("could not bind queue: %w", err)
	}

	return nil
}

func (mb *MessageBroker) Publish(ctx context.Context, msg []byte, key BindingKey, exchange Exchange) error {
	err := mb.ch.PublishWithContext(ctx, string(exchange), string(key), false, false, amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		Body:         msg,
	})
	if err != nil {
		return fmt.Errorf("could not publish message: %w", err)
	}

	return nil
}

func (mb *MessageBroker) Consume(key BindingKey, exchange Exchange, queue Queue) (<-chan amqp.Delivery, error) {
	msgs, err := mb.ch.Consume(string(queue), string(key), false, false, false, false, nil)
	if err != nil {
		return nil, fmt.Errorf("could not consume message: %w", err)
	}

	return msgs, nil
}
