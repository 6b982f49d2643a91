package adapters

import (
	"context"

	"github.com/anouar36/B2B-TradeHub/internal/payments/domain"
	"github.com/anouar36/B2B-TradeHub/pkg/events"
	"github.com/anouar36/B2B-TradeHub/pkg/logger"
	"github.com/anouar36/B2B-TradeHub/pkg/rabbitmq"
)

// RabbitEventPublisher publishes payment events to RabbitMQ
type RabbitEventPublisher struct {
	publisher *rabbitmq.Publisher
}

// NewRabbitEventPublisher creates a publisher on the payments exchange
func NewRabbitEventPublisher(conn *rabbitmq.Connection, log *logger.Logger) (*RabbitEventPublisher, error) {
	publisher, err := rabbitmq.NewPublisher(conn, events.ExchangePayments, log)
	if err != nil {
		return nil, err
	}
	return &RabbitEventPublisher{publisher: publisher}, nil
}

// PublishPaymentRecorded publishes a payment recorded event
func (p *RabbitEventPublisher) PublishPaymentRecorded(ctx context.Context, payment *domain.Payment) error {
	return p.publish(ctx, events.RoutingKeyPaymentRecorded, payment)
}

// PublishPaymentSettled publishes a payment settled event
func (p *RabbitEventPublisher) PublishPaymentSettled(ctx context.Context, payment *domain.Payment) error {
	return p.publish(ctx, events.RoutingKeyPaymentSettled, payment)
}

func (p *RabbitEventPublisher) publish(ctx context.Context, routingKey string, payment *domain.Payment) error {
	event := events.NewPaymentEvent(
		routingKey,
		payment.ID,
		payment.Number,
		payment.OrderID,
		payment.Amount.StringFixed(2),
		string(payment.Method),
		string(payment.Status),
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

// PublishPaymentRecorded discards the event
func (p *NoopEventPublisher) PublishPaymentRecorded(ctx context.Context, payment *domain.Payment) error {
	return nil
}

// PublishPaymentSettled discards the event
func (p *NoopEventPublisher) PublishPaymentSettled(ctx context.Context, payment *domain.Payment) error {
	return nil
}
