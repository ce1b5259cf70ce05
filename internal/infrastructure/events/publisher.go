// Package events publica en Kafka los cambios de las órdenes de servicio.
package events

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/segmentio/kafka-go"
	"github.com/shopspring/decimal"

	appos "github.com/jhoicas/OrdemServico-api/internal/application/serviceorder"
	"github.com/jhoicas/OrdemServico-api/internal/domain/entity"
	"github.com/jhoicas/OrdemServico-api/pkg/logger"
)

// EventType tipo de evento de la OS.
type EventType string

const (
	EventOrderCreated EventType = "service_order.created"
	EventOrderUpdated EventType = "service_order.updated"
	EventOrderPaid    EventType = "service_order.paid"
)

// OrderEvent mensaje publicado. La clave del mensaje es el id de la OS.
type OrderEvent struct {
	ID         string          `json:"id"`
	Type       EventType       `json:"type"`
	OrderID    string          `json:"order_id"`
	Number     string          `json:"os_number"`
	ClientID   string          `json:"client_id"`
	Status     string          `json:"status"`
	FinalTotal decimal.Decimal `json:"final_total"`
	IsPaid     bool            `json:"is_paid"`
	Timestamp  time.Time       `json:"timestamp"`
}

type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

var _ appos.EventPublisher = (*KafkaPublisher)(nil)

// KafkaPublisher implementa serviceorder.EventPublisher.
type KafkaPublisher struct {
	writer messageWriter
	log    *logger.Logger
	now    func() time.Time
}

// NewKafkaPublisher crea el writer del topic.
func NewKafkaPublisher(brokers []string, topic string, log *logger.Logger) *KafkaPublisher {
	w := &kafka.Writer{
		Addr:         kafka.TCP(brokers...),
		Topic:        topic,
		Balancer:     &kafka.Hash{},
		WriteTimeout: 10 * time.Second,
		RequiredAcks: kafka.RequireOne,
	}
	return &KafkaPublisher{writer: w, log: log, now: time.Now}
}

func (p *KafkaPublisher) PublishOrderCreated(ctx context.Context, o *entity.ServiceOrder) error {
	return p.publish(ctx, EventOrderCreated, o)
}

func (p *KafkaPublisher) PublishOrderUpdated(ctx context.Context, o *entity.ServiceOrder) error {
	return p.publish(ctx, EventOrderUpdated, o)
}

func (p *KafkaPublisher) PublishOrderPaid(ctx context.Context, o *entity.ServiceOrder) error {
	return p.publish(ctx, EventOrderPaid, o)
}

func (p *KafkaPublisher) publish(ctx context.Context, t EventType, o *entity.ServiceOrder) error {
	ev := OrderEvent{
		ID:         uuid.New().String(),
		Type:       t,
		OrderID:    o.ID,
		Number:     o.Number,
		ClientID:   o.ClientID,
		Status:     o.Status,
		FinalTotal: o.FinalTotal,
		IsPaid:     o.IsPaid,
		Timestamp:  p.now().UTC(),
	}
	data, err := json.Marshal(ev)
	if err != nil {
		return err
	}
	msg := kafka.Message{
		Key:   []byte(o.ID),
		Value: data,
		Headers: []kafka.Header{
			{Key: "event_type", Value: []byte(t)},
			{Key: "event_id", Value: []byte(ev.ID)},
		},
	}
	if err := p.writer.WriteMessages(ctx, msg); err != nil {
		return err
	}
	p.log.Debug().Str("event", string(t)).Str("os_number", o.Number).Msg("evento publicado")
	return nil
}

// Close cierra el writer.
func (p *KafkaPublisher) Close() error {
	return p.writer.Close()
}

// NopPublisher descarta los eventos (sin brokers configurados).
type NopPublisher struct{}

func (NopPublisher) PublishOrderCreated(context.Context, *entity.ServiceOrder) error { return nil }
func (NopPublisher) PublishOrderUpdated(context.Context, *entity.ServiceOrder) error { return nil }
func (NopPublisher) PublishOrderPaid(context.Context, *entity.ServiceOrder) error    { return nil }
func (NopPublisher) Close() error                                                     { return nil }
