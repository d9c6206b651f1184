package worker

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/sirupsen/logrus"

	"doctalkie/internal/model"
	"doctalkie/internal/pkg/logger"
)

// EventSink persists decoded chat events.
type EventSink interface {
	Create(ctx context.Context, event *model.ChatEvent) error
}

// ChatEventWorker drains the chat events queue into the chat_events table.
type ChatEventWorker struct {
	conn      *amqp.Connection
	sink      EventSink
	queueName string
	log       *logrus.Entry

	cancel context.CancelFunc
	wg     sync.WaitGroup
}

func NewChatEventWorker(conn *amqp.Connection, sink EventSink, queueName string) *ChatEventWorker {
	return &ChatEventWorker{
		conn:      conn,
		sink:      sink,
		queueName: queueName,
		log:       logger.New("chat-event-worker"),
	}
}

func (w *ChatEventWorker) Start(ctx context.Context) error {
	if w.cancel != nil {
		return nil
	}

	workerCtx, cancel := context.WithCancel(ctx)
	w.cancel = cancel

	ch, err := w.conn.Channel()
	if err != nil {
		cancel()
		return fmt.Errorf("open worker channel failed: %w", err)
	}

	_, err = ch.QueueDeclare(
		w.queueName,
		true,
		false,
		false,
		false,
		nil,
	)
	if err != nil {
		_ = ch.Close()
		cancel()
		return fmt.Errorf("declare worker queue failed: %w", err)
	}

	deliveries, err := ch.Consume(
		w.queueName,
		"",
		false,
		false,
		false,
		false,
		nil,
	)
	if err != nil {
		_ = ch.Close()
		cancel()
		return fmt.Errorf("consume queue failed: %w", err)
	}

	w.wg.Add(1)
	go func() {
		defer w.wg.Done()
		defer ch.Close()
		w.consume(workerCtx, deliveries)
	}()

	w.log.WithField("queue", w.queueName).Info("chat event worker started")
	return nil
}

func (w *ChatEventWorker) consume(ctx context.Context, deliveries <-chan amqp.Delivery) {
	for {
		select {
		case <-ctx.Done():
			return
		case d, ok := <-deliveries:
			if !ok {
				return
			}
			w.handle(ctx, d)
		}
	}
}

// handle acks persisted events. Undecodable payloads are dropped; storage
// failures are requeued once and dropped on redelivery.
func (w *ChatEventWorker) handle(ctx context.Context, d amqp.Delivery) {
	var event model.ChatEvent
	if err := json.Unmarshal(d.Body, &event); err != nil {
		w.log.WithError(err).Warn("decode chat event failed")
		_ = d.Nack(false, false)
		return
	}

	event.ID = 0
	if err := w.sink.Create(ctx, &event); err != nil {
		w.log.WithError(err).WithFields(logrus.Fields{
			"bot_id":      event.BotID,
			"redelivered": d.Redelivered,
		}).Error("persist chat event failed")
		_ = d.Nack(false, !d.Redelivered)
		return
	}

	_ = d.Ack(false)
}

func (w *ChatEventWorker) Close() {
	if w.cancel != nil {
		w.cancel()
	}
	w.wg.Wait()
}
