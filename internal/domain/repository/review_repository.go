// Package repository defines the interfaces for the persistence layer.
package repository

import (
	"context"

	"storefront/internal/domain/entity"
	"storefront/internal/errors"

	"github.com/google/uuid"
)

// Domain-specific errors for review persistence.
var (
	// ErrReviewNotFound is returned when a review is not found.
	ErrReviewNotFound = errors.New("review not found")
	// ErrDuplicateReview is returned when the (user, product) uniqueness
	// constraint rejects an insert, e.g. under concurrent duplicate submissions.
	ErrDuplicateReview = errors.New("review already exists for this user and product")
)

// ReviewRepository defines the interface for review database operations.
type ReviewRepository interface {
	// CreateReview persists a new review.
	CreateReview(ctx context.Context, review *entity.Review) error

	// UpdateReview overwrites rating and comment of an existing review in place.
	UpdateReview(ctx context.Context, review *entity.Review) error

	// FindReviewByUserAndProduct retrieves the unique review a user wrote for a
	// product, if any.
	FindReviewByUserAndProduct(ctx context.Context, userID, productID uuid.UUID) (*entity.Review, error)

	// ListReviewsByProduct retrieves all reviews for a product ordered by
	// creation time descending, each joined with the reviewer's public display
	// fields (name, avatar).
	ListReviewsByProduct(ctx context.Context, productID uuid.UUID) ([]*entity.Review, error)
}
