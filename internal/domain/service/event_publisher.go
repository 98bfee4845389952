package service

import (
	"context"
)

// OrderPaidEvent is emitted once a Webpay transaction is authorized.
type OrderPaidEvent struct {
	RequestID string `json:"request_id,omitempty"` // For distributed tracing
	OrderID   uint   `json:"order_id"`
	UserID    uint   `json:"user_id"`
	BuyOrder  string `json:"buy_order"`
	Amount    int64  `json:"amount"`
}

// EventPublisher defines the interface for publishing events to a message queue
type EventPublisher interface {
	// PublishOrderPaid publishes an order event for async processing
	PublishOrderPaid(ctx context.Context, event *OrderPaidEvent) error

	// Close releases any resources held by the publisher
	Close() error
}

// OrderPaidHandler consumes order events. The inline publisher and the worker
// push endpoint both deliver to it.
type OrderPaidHandler interface {
	HandleOrderPaid(ctx context.Context, event *OrderPaidEvent) error
}
