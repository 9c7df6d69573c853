package queue

import (
	"context"
	"fmt"
	"strconv"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
)

// RabbitMQ implements Publisher and Consumer over a durable queue with
// persistent messages and manual acknowledgements.
type RabbitMQ struct {
	conn      *amqp.Connection
	channel   *amqp.Channel
	queueName string
	ttl       time.Duration
}

// NewRabbitMQ dials the broker and declares the work queue. ttl is the
// per-message expiration and must exceed the slowest expected generation run.
func NewRabbitMQ(url, queueName string, ttl time.Duration) (*RabbitMQ, error) {
	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, fmt.Errorf("queue: dial broker: %w", err)
	}

	ch, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("queue: open channel: %w", err)
	}

	if _, err := ch.QueueDeclare(
		queueName,
		true,  // durable
		false, // autoDelete
		false, // exclusive
		false, // noWait
		nil,
	); err != nil {
		ch.Close()
		conn.Close()
		return nil, fmt.Errorf("queue: declare %q: %w", queueName, err)
	}

	// One unacked task per worker connection; generation runs are long and
	// prefetching would starve idle workers.
	if err := ch.Qos(1, 0, false); err != nil {
		ch.Close()
		conn.Close()
		return nil, fmt.Errorf("queue: set qos: %w", err)
	}

	return &RabbitMQ{conn: conn, channel: ch, queueName: queueName, ttl: ttl}, nil
}

func (r *RabbitMQ) Publish(ctx context.Context, task Task) error {
	body, err := encodeTask(task)
	if err != nil {
		return err
	}
	return r.channel.PublishWithContext(ctx,
		"",          // default exchange
		r.queueName, // routing key
		false,
		false,
		amqp.Publishing{
			ContentType:  "application/json",
			DeliveryMode: amqp.Persistent,
			Expiration:   strconv.FormatInt(r.ttl.Milliseconds(), 10),
			Body:         body,
		},
	)
}

func (r *RabbitMQ) Consume(ctx context.Context) (<-chan Delivery, error) {
	deliveries, err := r.channel.Consume(
		r.queueName,
		"",    // consumer tag
		false, // autoAck: acks are explicit, after the job is handled
		false,
		false,
		false,
		nil,
	)
	if err != nil {
		return nil, fmt.Errorf("queue: consume %q: %w", r.queueName, err)
	}

	out := make(chan Delivery)
	go func() {
		defer close(out)
		for {
			select {
			case <-ctx.Done():
				return
			case d, ok := <-deliveries:
				if !ok {
					return
				}
				task, err := decodeTask(d.Body)
				if err != nil {
					// Malformed payloads cannot be retried into shape.
					_ = d.Nack(false, false)
					continue
				}
				msg := d
				select {
				case out <- Delivery{Task: task, Ack: func() error { return msg.Ack(false) }}:
				case <-ctx.Done():
					return
				}
			}
		}
	}()
	return out, nil
}

func (r *RabbitMQ) Close() error {
	if r.channel != nil {
		r.channel.Close()
	}
	if r.conn != nil {
		return r.conn.Close()
	}
	return nil
}

var (
	_ Publisher = (*RabbitMQ)(nil)
	_ Consumer  = (*RabbitMQ)(nil)
)
