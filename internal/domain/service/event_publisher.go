package service

import (
	"context"
)

// OrderEvent represents a placed order handed off for async processing
// (confirmation mail, fulfillment, analytics). It is published only after the
// order transaction has committed.
type OrderEvent struct {
	RequestID     string   `json:"request_id,omitempty"` // For distributed tracing
	OrderID       string   `json:"order_id"`
	UserID        string   `json:"user_id"`
	TotalAmount   string   `json:"total_amount"`
	Status        string   `json:"status"`
	PaymentMethod string   `json:"payment_method"`
	ProductIDs    []string `json:"product_ids"`
}

// EventPublisher defines the interface for publishing events to a message queue
type EventPublisher interface {
	// PublishOrderEvent publishes an order-placed event for async processing
	PublishOrderEvent(ctx context.Context, event *OrderEvent) error

	// Close releases any resources held by the publisher
	Close() error
}
