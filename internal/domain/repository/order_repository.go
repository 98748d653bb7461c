// Package repository defines the interfaces for the persistence layer.
package repository

import (
	"context"

	"storefront/internal/domain/entity"
	"storefront/internal/errors"

	"github.com/google/uuid"
)

// Domain-specific errors for order persistence.
var (
	// ErrOrderNotFound is returned when an order is not found.
	ErrOrderNotFound = errors.New("order not found")
)

// OrderRepository defines the interface for order database operations.
// Order rows and their items are immutable after creation; status transitions
// belong to fulfillment flows outside this service.
type OrderRepository interface {
	// CreateOrder persists the order row itself. Items are inserted separately
	// inside the same transaction via CreateOrderItems.
	CreateOrder(ctx context.Context, order *entity.Order) error

	// CreateOrderItems batch-inserts the cart lines of an order.
	CreateOrderItems(ctx context.Context, items []*entity.OrderItem) error

	// FindOrderByID retrieves a single order with its items and the minimal
	// product projection (name, imageUrl) per item.
	FindOrderByID(ctx context.Context, id uuid.UUID) (*entity.Order, error)

	// FindOrdersByUser retrieves all orders of a user, ordered by creation time
	// descending, items and product projections included.
	FindOrdersByUser(ctx context.Context, userID uuid.UUID) ([]*entity.Order, error)

	// HasPurchasedProduct reports whether any order item for the product
	// belongs to an order owned by the user with one of the given statuses.
	// This backs the review-eligibility gate.
	HasPurchasedProduct(ctx context.Context, userID, productID uuid.UUID, statuses []entity.OrderStatus) (bool, error)
}
