package rabbitmq

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	amqp "github.com/rabbitmq/amqp091-go"

	"doctalkie/internal/model"
)

// ChatEventPublisher sends chat analytics events to a durable queue. The
// channel is opened lazily and reopened after it closes.
type ChatEventPublisher struct {
	conn      *amqp.Connection
	queueName string

	mu sync.Mutex
	ch *amqp.Channel
}

func NewChatEventPublisher(conn *amqp.Connection, queueName string) *ChatEventPublisher {
	return &ChatEventPublisher{
		conn:      conn,
		queueName: queueName,
	}
}

func (p *ChatEventPublisher) Publish(ctx context.Context, event model.ChatEvent) error {
	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("marshal chat event failed: %w", err)
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	ch, err := p.channel()
	if err != nil {
		return err
	}
	if err := ch.PublishWithContext(
		ctx,
		"",
		p.queueName,
		false,
		false,
		amqp.Publishing{
			ContentType:  "application/json",
			Body:         payload,
			DeliveryMode: amqp.Persistent,
		},
	); err != nil {
		_ = ch.Close()
		p.ch = nil
		return fmt.Errorf("publish chat event failed: %w", err)
	}
	return nil
}

func (p *ChatEventPublisher) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.ch == nil {
		return nil
	}
	err := p.ch.Close()
	p.ch = nil
	return err
}

func (p *ChatEventPublisher) channel() (*amqp.Channel, error) {
	if p.ch != nil && !p.ch.IsClosed() {
		return p.ch, nil
	}
	ch, err := p.conn.Channel()
	if err != nil {
		return nil, fmt.Errorf("open rabbitmq channel failed: %w", err)
	}
	if _, err := declareQueue(ch, p.queueName); err != nil {
		_ = ch.Close()
		return nil, fmt.Errorf("declare queue failed: %w", err)
	}
	p.ch = ch
	return ch, nil
}
