// Package usecase contains the application-specific business rules.
package usecase

import (
	"context"

	"storefront/internal/domain/entity"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// CreateProductInput defines the data required to list a new product.
type CreateProductInput struct {
	SellerID    uuid.UUID
	Name        string
	Description string
	Price       decimal.Decimal
	Stock       int
	ImageURL    string
	Category    string
}

// ProductUsecase defines the interface for catalog business operations.
type ProductUsecase interface {
	// CreateProduct lists a new product. The caller must hold the seller role.
	CreateProduct(ctx context.Context, input *CreateProductInput) (*entity.Product, error)

	// GetProduct retrieves a product with its seller projection.
	GetProduct(ctx context.Context, id uuid.UUID) (*entity.Product, error)

	// ListProducts retrieves the full catalog, newest first.
	ListProducts(ctx context.Context) ([]*entity.Product, error)

	// SeedProducts populates the catalog with sample data. Only available when
	// seeding is enabled in configuration; returns the number of products created.
	SeedProducts(ctx context.Context) (int, error)
}
