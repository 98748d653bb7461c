// Package repository defines the interfaces for the persistence layer.
package repository

import (
	"context"

	"storefront/internal/domain/entity"
	"storefront/internal/errors"

	"github.com/google/uuid"
)

// Domain-specific errors for product persistence.
var (
	// ErrProductNotFound is returned when a product is not found.
	ErrProductNotFound = errors.New("product not found")
	// ErrInsufficientStock is returned when a guarded stock decrement would
	// take the stock below zero.
	ErrInsufficientStock = errors.New("insufficient stock")
)

// ProductRepository defines the interface for catalog database operations.
type ProductRepository interface {
	// CreateProduct persists a new product for a seller.
	CreateProduct(ctx context.Context, product *entity.Product) error

	// FindProductByID retrieves a product by its unique ID.
	FindProductByID(ctx context.Context, id uuid.UUID) (*entity.Product, error)

	// ListProducts retrieves all products ordered by creation time descending,
	// each with the seller name projection attached.
	ListProducts(ctx context.Context) ([]*entity.Product, error)

	// DecrementStock atomically applies `stock = stock - quantity` to a single
	// product row, guarded so stock can never go negative. Returns
	// ErrInsufficientStock when the guard rejects the decrement and
	// ErrProductNotFound when no such product exists.
	DecrementStock(ctx context.Context, productID uuid.UUID, quantity int) error
}
