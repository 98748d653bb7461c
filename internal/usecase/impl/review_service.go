package impl

import (
	"context"
	"log/slog"

	deliverycontext "storefront/internal/delivery/context"
	"storefront/internal/domain/entity"
	domainerrors "storefront/internal/domain/errors"
	"storefront/internal/domain/repository"
	"storefront/internal/errors"
	"storefront/internal/usecase"

	"github.com/google/uuid"
	"go.uber.org/fx"
)

// reviewService implements the ReviewUsecase interface.
type reviewService struct {
	txManager   repository.TransactionManager
	reviewRepo  repository.ReviewRepository
	orderRepo   repository.OrderRepository
	productRepo repository.ProductRepository
	logger      *slog.Logger
}

// ReviewServiceParams holds dependencies for ReviewService, injected by Fx.
type ReviewServiceParams struct {
	fx.In

	TxManager   repository.TransactionManager
	ReviewRepo  repository.ReviewRepository
	OrderRepo   repository.OrderRepository
	ProductRepo repository.ProductRepository
	Logger      *slog.Logger
}

// NewReviewService is the constructor for reviewService.
func NewReviewService(params ReviewServiceParams) usecase.ReviewUsecase {
	return &reviewService{
		txManager:   params.TxManager,
		reviewRepo:  params.ReviewRepo,
		orderRepo:   params.OrderRepo,
		productRepo: params.ProductRepo,
		logger:      params.Logger,
	}
}

func (srv *reviewService) log(ctx context.Context) *slog.Logger {
	return deliverycontext.GetLoggerOrDefault(ctx, srv.logger)
}

// SubmitReview upserts the caller's review for a product. Eligibility requires
// a delivered or completed order containing the product; a repeat submission
// revises the existing review in place.
func (srv *reviewService) SubmitReview(ctx context.Context, input *usecase.SubmitReviewInput) (*usecase.SubmitReviewOutput, error) {
	if !entity.ValidRating(input.Rating) {
		return nil, domainerrors.ErrValidationFailed.WrapMessage("rating must be between 1 and 5")
	}

	if _, err := srv.productRepo.FindProductByID(ctx, input.ProductID); err != nil {
		if errors.Is(err, repository.ErrProductNotFound) {
			return nil, domainerrors.ErrProductNotFound
		}

		return nil, errors.Wrap(err, "failed to load product for review")
	}

	purchased, err := srv.orderRepo.HasPurchasedProduct(ctx, input.UserID, input.ProductID, entity.ReviewableStatuses())
	if err != nil {
		return nil, errors.Wrap(err, "failed to check purchase history")
	}
	if !purchased {
		srv.log(ctx).Warn("Review rejected, no qualifying purchase",
			slog.Any("userID", input.UserID),
			slog.Any("productID", input.ProductID),
		)

		return nil, domainerrors.ErrPurchaseRequired
	}

	var output usecase.SubmitReviewOutput
	err = srv.txManager.Execute(ctx, func(repoFactory repository.RepositoryFactory) error {
		reviewRepo := repoFactory.ReviewRepo()

		existing, err := reviewRepo.FindReviewByUserAndProduct(ctx, input.UserID, input.ProductID)
		switch {
		case err == nil:
			existing.Rating = input.Rating
			existing.Comment = input.Comment
			if err := reviewRepo.UpdateReview(ctx, existing); err != nil {
				return errors.Wrap(err, "failed to update review")
			}
			output.Review = existing
			output.Created = false

			return nil
		case errors.Is(err, repository.ErrReviewNotFound):
			review := &entity.Review{
				UserID:    input.UserID,
				ProductID: input.ProductID,
				Rating:    input.Rating,
				Comment:   input.Comment,
			}
			if err := reviewRepo.CreateReview(ctx, review); err != nil {
				// A concurrent duplicate submission loses the insert race; the
				// unique constraint is the backstop for the find-then-create gap.
				if errors.Is(err, repository.ErrDuplicateReview) {
					return domainerrors.ErrReviewConflict
				}

				return errors.Wrap(err, "failed to create review")
			}
			output.Review = review
			output.Created = true

			return nil
		default:
			return errors.Wrap(err, "failed to find existing review")
		}
	})
	if err != nil {
		return nil, err
	}

	srv.log(ctx).Info("Review submitted",
		slog.Any("userID", input.UserID),
		slog.Any("productID", input.ProductID),
		slog.Bool("created", output.Created),
	)

	return &output, nil
}

// ListProductReviews retrieves all reviews for a product, newest first.
func (srv *reviewService) ListProductReviews(ctx context.Context, productID uuid.UUID) ([]*entity.Review, error) {
	reviews, err := srv.reviewRepo.ListReviewsByProduct(ctx, productID)
	if err != nil {
		return nil, errors.Wrap(err, "failed to list reviews")
	}

	return reviews, nil
}
