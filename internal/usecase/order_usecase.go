// Package usecase contains the application-specific business rules.
package usecase

import (
	"context"

	"storefront/internal/domain/entity"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// OrderItemInput is a single cart line in a checkout request. Price is the
// unit price snapshot the client saw at checkout time.
type OrderItemInput struct {
	ProductID uuid.UUID
	Quantity  int
	Price     decimal.Decimal
}

// PlaceOrderInput defines the data required to place an order.
type PlaceOrderInput struct {
	UserID          uuid.UUID
	Items           []OrderItemInput
	Total           decimal.Decimal
	ShippingAddress entity.ShippingAddress
	PaymentMethod   entity.PaymentMethod
}

// OrderUsecase defines the interface for order business operations.
type OrderUsecase interface {
	// PlaceOrder atomically creates the order with its items and decrements
	// product stock. Either everything is persisted or nothing is.
	PlaceOrder(ctx context.Context, input *PlaceOrderInput) (*entity.Order, error)

	// GetOrder retrieves a single order. Only the order's owner may read it.
	GetOrder(ctx context.Context, userID, orderID uuid.UUID) (*entity.Order, error)

	// ListOrders retrieves the user's order history, newest first.
	ListOrders(ctx context.Context, userID uuid.UUID) ([]*entity.Order, error)
}
