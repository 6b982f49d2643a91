package adapters

import (
	"context"

	"github.com/anouar36/B2B-TradeHub/internal/ordering/domain"
	"github.com/anouar36/B2B-TradeHub/pkg/events"
	"github.com/anouar36/B2B-TradeHub/pkg/logger"
	"github.com/anouar36/B2B-TradeHub/pkg/rabbitmq"
)

// RabbitEventPublisher publishes order lifecycle events to RabbitMQ
type RabbitEventPublisher struct {
	publisher *rabbitmq.Publisher
}

// NewRabbitEventPublisher creates a publisher on the orders exchange
func NewRabbitEventPublisher(conn *rabbitmq.Connection, log *logger.Logger) (*RabbitEventPublisher, error) {
	publisher, err := rabbitmq.NewPublisher(conn, events.ExchangeOrders, log)
	if err != nil {
		return nil, err
	}
	return &RabbitEventPublisher{publisher: publisher}, nil
}

// PublishOrderCreated publishes an order created event
func (p *RabbitEventPublisher) PublishOrderCreated(ctx context.Context, order *domain.Order) error {
	return p.publish(ctx, events.RoutingKeyOrderCreated, order)
}

// PublishOrderConfirmed publishes an order confirmed event
func (p *RabbitEventPublisher) PublishOrderConfirmed(ctx context.Context, order *domain.Order) error {
	return p.publish(ctx, events.RoutingKeyOrderConfirmed, order)
}

// PublishOrderCancelled publishes an order cancelled event
func (p *RabbitEventPublisher) PublishOrderCancelled(ctx context.Context, order *domain.Order) error {
	return p.publish(ctx, events.RoutingKeyOrderCancelled, order)
}

func (p *RabbitEventPublisher) publish(ctx context.Context, routingKey string, order *domain.Order) error {
	event := events.NewOrderEvent(
		routingKey,
		order.ID,
		order.ClientID,
		string(order.Status),
		order.TotalWithTax.StringFixed(2),
		order.PromoCode,
		logger.GetTraceID(ctx),
	)
	return p.publisher.Publish(ctx, routingKey, event)
}

// NoopEventPublisher drops all events. Used when the message broker is
// not configured.
type NoopEventPublisher struct{}

// NewNoopEventPublisher creates a publisher that discards events
func NewNoopEventPublisher() *NoopEventPublisher {
	return &NoopEventPublisher{}
}

// PublishOrderCreated discards the event
func (p *NoopEventPublisher) PublishOrderCreated(ctx context.Context, order *domain.Order) error {
	return nil
}

// PublishOrderConfirmed discards the event
func (p *NoopEventPublisher) PublishOrderConfirmed(ctx context.Context, order *domain.Order) error {
	return nil
}

// PublishOrderCancelled discards the event
func (p *NoopEventPublisher) PublishOrderCancelled(ctx context.Context, order *domain.Order) error {
	return nil
}
