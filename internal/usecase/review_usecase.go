// Package usecase contains the application-specific business rules.
package usecase

import (
	"context"

	"storefront/internal/domain/entity"

	"github.com/google/uuid"
)

// SubmitReviewInput defines the data required to submit or revise a review.
type SubmitReviewInput struct {
	UserID    uuid.UUID
	ProductID uuid.UUID
	Rating    int
	Comment   string
}

// SubmitReviewOutput returns the stored review. Created distinguishes a first
// submission from a revision of an existing review.
type SubmitReviewOutput struct {
	Review  *entity.Review
	Created bool
}

// ReviewUsecase defines the interface for review business operations.
type ReviewUsecase interface {
	// SubmitReview upserts the caller's review for a product. Only verified
	// purchasers of the product may review it.
	SubmitReview(ctx context.Context, input *SubmitReviewInput) (*SubmitReviewOutput, error)

	// ListProductReviews retrieves all reviews for a product, newest first.
	ListProductReviews(ctx context.Context, productID uuid.UUID) ([]*entity.Review, error)
}
