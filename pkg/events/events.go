package events

import "time"

// Exchange names
const (
	ExchangeOrders   = "orders.events"
	ExchangePayments = "payments.events"
)

// Routing keys
const (
	RoutingKeyOrderCreated    = "order.created"
	RoutingKeyOrderConfirmed  = "order.confirmed"
	RoutingKeyOrderCancelled  = "order.cancelled"
	RoutingKeyPaymentRecorded = "payment.recorded"
	RoutingKeyPaymentSettled  = "payment.settled"
)

// OrderEvent is published on order lifecycle transitions
type OrderEvent struct {
	Version   string       `json:"version"`
	EventType string       `json:"event_type"`
	Timestamp time.Time    `json:"timestamp"`
	TraceID   string       `json:"trace_id"`
	Payload   OrderPayload `json:"payload"`
}

// OrderPayload contains order data
type OrderPayload struct {
	ID           uint   `json:"id"`
	ClientID     uint   `json:"client_id"`
	Status       string `json:"status"`
	TotalWithTax string `json:"total_with_tax"`
	PromoCode    string `json:"promo_code,omitempty"`
}

// NewOrderEvent creates an order lifecycle event
func NewOrderEvent(eventType string, id, clientID uint, status, totalWithTax, promoCode, traceID string) *OrderEvent {
	return &OrderEvent{
		Version:   "1.0",
		EventType: eventType,
		Timestamp: time.Now(),
		TraceID:   traceID,
		Payload: OrderPayload{
			ID:           id,
			ClientID:     clientID,
			Status:       status,
			TotalWithTax: totalWithTax,
			PromoCode:    promoCode,
		},
	}
}

// PaymentEvent is published when a payment is recorded or settled
type PaymentEvent struct {
	Version   string         `json:"version"`
	EventType string         `json:"event_type"`
	Timestamp time.Time      `json:"timestamp"`
	TraceID   string         `json:"trace_id"`
	Payload   PaymentPayload `json:"payload"`
}

// PaymentPayload contains payment data
type PaymentPayload struct {
	ID      uint   `json:"id"`
	Number  string `json:"number"`
	OrderID uint   `json:"order_id"`
	Amount  string `json:"amount"`
	Method  string `json:"method"`
	Status  string `json:"status"`
}

// NewPaymentEvent creates a payment event
func NewPaymentEvent(eventType string, id uint, number string, orderID uint, amount, method, status, traceID string) *PaymentEvent {
	return &PaymentEvent{
		Version:   "1.0",
		EventType: eventType,
		Timestamp: time.Now(),
		TraceID:   traceID,
		Payload: PaymentPayload{
			ID:      id,
			Number:  number,
			OrderID: orderID,
			Amount:  amount,
			Method:  method,
			Status:  status,
		},
	}
}
