package notify

import (
	"context"
	"fmt"
	"strings"
	"sync"

	json "github.com/goccy/go-json"
	amqp "github.com/rabbitmq/amqp091-go"
)

const DefaultExchange = "session.events"

type amqpChannel interface {
	PublishWithContext(ctx context.Context, exchange, key string, mandatory, immediate bool, msg amqp.Publishing) error
	Close() error
}

// AMQPSink publishes events to a durable topic exchange with the event type
// as routing key.
type AMQPSink struct {
	conn     *amqp.Connection
	exchange string

	mu sync.Mutex
	ch amqpChannel
}

func NewAMQPSink(ch amqpChannel, exchange string) *AMQPSink {
	if strings.TrimSpace(exchange) == "" {
		exchange = DefaultExchange
	}
	return &AMQPSink{ch: ch, exchange: exchange}
}

func DialAMQP(url, exchange string) (*AMQPSink, error) {
	if strings.TrimSpace(exchange) == "" {
		exchange = DefaultExchange
	}
	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, fmt.Errorf("connect amqp: %w", err)
	}
	ch, err := conn.Channel()
	if err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("open channel: %w", err)
	}
	if err := ch.ExchangeDeclare(exchange, "topic", true, false, false, false, nil); err != nil {
		_ = ch.Close()
		_ = conn.Close()
		return nil, fmt.Errorf("declare exchange: %w", err)
	}

	s := NewAMQPSink(ch, exchange)
	s.conn = conn
	return s, nil
}

func (s *AMQPSink) Name() string { return "amqp" }

func (s *AMQPSink) Deliver(ctx context.Context, e Event) error {
	body, err := json.Marshal(e)
	if err != nil {
		return fmt.Errorf("marshal event: %w", err)
	}

	msg := amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		MessageId:    e.ID.String(),
		Timestamp:    e.Timestamp,
		Type:         string(e.Type),
		Body:         body,
		Headers: amqp.Table{
			"event_type": string(e.Type),
			"session_id": e.SessionID.String(),
			"subject_id": e.SubjectID.String(),
			"actor_id":   e.ActorID.String(),
		},
	}

	// channels are not safe for concurrent publishing
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.ch == nil {
		return fmt.Errorf("amqp channel closed")
	}
	return s.ch.PublishWithContext(ctx, s.exchange, string(e.Type), false, false, msg)
}

func (s *AMQPSink) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	var firstErr error
	if s.ch != nil {
		if err := s.ch.Close(); err != nil {
			firstErr = err
		}
		s.ch = nil
	}
	if s.conn != nil {
		if err := s.conn.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
		s.conn = nil
	}
	return firstErr
}
