package events

import (
	"context"
	"encoding/json"
	"log"
	"time"

	"github.com/biniyamagegnehu/Dbuian-Fashion-E-commerce-Website-sub000/internal/domain"
	"github.com/segmentio/kafka-go"
)

const Topic = "order-events"

const (
	TypeOrderCreated       = "order.created"
	TypeOrderStatusChanged = "order.status_changed"
)

// OrderEvent is the JSON payload on the order-events topic.
type OrderEvent struct {
	Type        string             `json:"type"`
	OrderID     string             `json:"order_id"`
	OrderNumber string             `json:"order_number"`
	UserID      string             `json:"user_id"`
	Status      domain.OrderStatus `json:"status"`
	TotalPrice  float64            `json:"total_price"`
	OccurredAt  time.Time          `json:"occurred_at"`
}

type Publisher struct {
	writer *kafka.Writer
}

func NewPublisher(brokers ...string) *Publisher {
	w := &kafka.Writer{
		Addr:                   kafka.TCP(brokers...),
		Topic:                  Topic,
		Balancer:               &kafka.LeastBytes{},
		AllowAutoTopicCreation: true,
	}
	return &Publisher{writer: w}
}

func (p *Publisher) OrderCreated(ctx context.Context, order *domain.Order) {
	p.publish(ctx, TypeOrderCreated, order)
}

func (p *Publisher) OrderStatusChanged(ctx context.Context, order *domain.Order) {
	p.publish(ctx, TypeOrderStatusChanged, order)
}

// publish is best-effort: a broker outage must not fail the order.
func (p *Publisher) publish(ctx context.Context, eventType string, order *domain.Order) {
	event := OrderEvent{
		Type:        eventType,
		OrderID:     order.ID.Hex(),
		OrderNumber: order.OrderNumber,
		UserID:      order.UserID.Hex(),
		Status:      order.Status,
		TotalPrice:  order.TotalPrice,
		OccurredAt:  time.Now(),
	}

	payload, err := json.Marshal(event)
	if err != nil {
		log.Printf("failed to marshal order event: %v", err)
		return
	}

	msg := kafka.Message{
		Key:   []byte(event.OrderID), // order_id for ordering
		Value: payload,
		Headers: []kafka.Header{
			{Key: "event_type", Value: []byte(eventType)},
		},
	}

	if err := p.writer.WriteMessages(ctx, msg); err != nil {
		log.Printf("failed to publish %s for order %s: %v", eventType, event.OrderNumber, err)
	}
}

func (p *Publisher) Close() {
	if err := p.writer.Close(); err != nil {
		log.Printf("error closing kafka writer: %v", err)
	}
}

// NoopPublisher stands in when no broker is configured.
type NoopPublisher struct{}

func (NoopPublisher) OrderCreated(context.Context, *domain.Order)       {}
func (NoopPublisher) OrderStatusChanged(context.Context, *domain.Order) {}
