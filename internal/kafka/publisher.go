package kafka

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/segmentio/kafka-go"

	"github.com/Gunvolt24/order_admission/internal/domain"
	"github.com/Gunvolt24/order_admission/internal/ports"
)

// Проверка, что EventPublisher удовлетворяет интерфейсу EventPublisher.
var _ ports.EventPublisher = (*EventPublisher)(nil)

// EventTypeOrderAdmitted - тип события о принятом заказе.
const EventTypeOrderAdmitted = "OrderAdmitted"

// OrderAdmittedEvent - конверт события, публикуемого после сохранения заказа.
type OrderAdmittedEvent struct {
	EventID    string        `json:"event_id"`
	EventType  string        `json:"event_type"`
	OccurredAt time.Time     `json:"occurred_at"`
	Order      *domain.Order `json:"order"`
}

// EventPublisher - публикация событий в Kafka. Ключ сообщения - ID заказа,
// поэтому события одного заказа попадают в одну партицию.
type EventPublisher struct {
	writer       writer
	log          ports.Logger
	writeTimeout time.Duration
	now          func() time.Time
	closeOnce    sync.Once
}

// NewEventPublisher - конструктор поверх kafka.Writer.
func NewEventPublisher(cfg *ProducerConfig, log ports.Logger) *EventPublisher {
	w := &kafka.Writer{
		Addr:                   kafka.TCP(cfg.Brokers...),
		Topic:                  cfg.Topic,
		Balancer:               &kafka.Hash{},
		RequiredAcks:           kafka.RequireAll,
		AllowAutoTopicCreation: true,
	}
	return newEventPublisher(w, log, cfg.WriteTimeout)
}

func newEventPublisher(w writer, log ports.Logger, writeTimeout time.Duration) *EventPublisher {
	if writeTimeout <= 0 {
		writeTimeout = 5 * time.Second
	}
	return &EventPublisher{
		writer:       w,
		log:          log,
		writeTimeout: writeTimeout,
		now:          func() time.Time { return time.Now().UTC() },
	}
}

// PublishOrderAdmitted - опубликовать OrderAdmitted для сохранённого заказа.
func (p *EventPublisher) PublishOrderAdmitted(ctx context.Context, order *domain.Order) error {
	if order == nil || order.ID == "" {
		return errors.New("publish order admitted: order is empty")
	}

	event := OrderAdmittedEvent{
		EventID:    uuid.NewString(),
		EventType:  EventTypeOrderAdmitted,
		OccurredAt: p.now(),
		Order:      order,
	}
	raw, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("marshal %s: %w", EventTypeOrderAdmitted, err)
	}

	ctx, cancel := context.WithTimeout(ctx, p.writeTimeout)
	defer cancel()

	msg := kafka.Message{
		Key:     []byte(order.ID),
		Value:   raw,
		Time:    event.OccurredAt,
		Headers: []kafka.Header{{Key: "event_type", Value: []byte(EventTypeOrderAdmitted)}},
	}
	if err := p.writer.WriteMessages(ctx, msg); err != nil {
		return fmt.Errorf("write %s: %w", EventTypeOrderAdmitted, err)
	}

	p.log.Infof(ctx, "event published type=%s order=%s event_id=%s", EventTypeOrderAdmitted, order.ID, event.EventID)
	return nil
}

// Close - дописать буфер и закрыть writer.
func (p *EventPublisher) Close() (retErr error) {
	p.closeOnce.Do(func() {
		retErr = p.writer.Close()
	})
	return retErr
}
