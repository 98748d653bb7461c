package impl

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"storefront/internal/domain/entity"
	domainerrors "storefront/internal/domain/errors"
	"storefront/internal/domain/repository"
	mockRepo "storefront/internal/mocks/repository"
	"storefront/internal/usecase"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// reviewServiceFixtures holds all test dependencies for review service tests.
type reviewServiceFixtures struct {
	service     usecase.ReviewUsecase
	txManager   *mockRepo.MockTransactionManager
	reviewRepo  *mockRepo.MockReviewRepository
	orderRepo   *mockRepo.MockOrderRepository
	productRepo *mockRepo.MockProductRepository
}

func createTestReviewService(t *testing.T) reviewServiceFixtures {
	txManager := mockRepo.NewMockTransactionManager(t)
	reviewRepo := mockRepo.NewMockReviewRepository(t)
	orderRepo := mockRepo.NewMockOrderRepository(t)
	productRepo := mockRepo.NewMockProductRepository(t)
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	service := NewReviewService(ReviewServiceParams{
		TxManager:   txManager,
		ReviewRepo:  reviewRepo,
		OrderRepo:   orderRepo,
		ProductRepo: productRepo,
		Logger:      logger,
	})

	return reviewServiceFixtures{
		service:     service,
		txManager:   txManager,
		reviewRepo:  reviewRepo,
		orderRepo:   orderRepo,
		productRepo: productRepo,
	}
}

func TestReviewService_SubmitReview_CreatesFirstReview(t *testing.T) {
	fx := createTestReviewService(t)

	ctx := context.Background()
	userID := uuid.New()
	productID := uuid.New()
	input := &usecase.SubmitReviewInput{
		UserID:    userID,
		ProductID: productID,
		Rating:    5,
		Comment:   "Excellent quality",
	}

	fx.productRepo.EXPECT().
		FindProductByID(ctx, productID).
		Return(&entity.Product{ID: productID}, nil)

	fx.orderRepo.EXPECT().
		HasPurchasedProduct(ctx, userID, productID, entity.ReviewableStatuses()).
		Return(true, nil)

	fx.txManager.EXPECT().
		Execute(ctx, mock.AnythingOfType("func(repository.RepositoryFactory) error")).
		RunAndReturn(func(ctx context.Context, fn func(repository.RepositoryFactory) error) error {
			mockFactory := mockRepo.NewMockRepositoryFactory(t)
			mockReviewRepo := mockRepo.NewMockReviewRepository(t)

			mockFactory.EXPECT().ReviewRepo().Return(mockReviewRepo)

			mockReviewRepo.EXPECT().
				FindReviewByUserAndProduct(ctx, userID, productID).
				Return(nil, repository.ErrReviewNotFound)

			mockReviewRepo.EXPECT().
				CreateReview(ctx, mock.AnythingOfType("*entity.Review")).
				Run(func(ctx context.Context, review *entity.Review) {
					review.ID = uuid.New()
				}).
				Return(nil)

			return fn(mockFactory)
		})

	output, err := fx.service.SubmitReview(ctx, input)

	require.NoError(t, err)
	require.NotNil(t, output)
	assert.True(t, output.Created)
	assert.Equal(t, 5, output.Review.Rating)
	assert.Equal(t, userID, output.Review.UserID)
	assert.Equal(t, productID, output.Review.ProductID)
}

func TestReviewService_SubmitReview_RevisesExistingReview(t *testing.T) {
	fx := createTestReviewService(t)

	ctx := context.Background()
	userID := uuid.New()
	productID := uuid.New()
	input := &usecase.SubmitReviewInput{
		UserID:    userID,
		ProductID: productID,
		Rating:    2,
		Comment:   "Broke after a week",
	}

	fx.productRepo.EXPECT().
		FindProductByID(ctx, productID).
		Return(&entity.Product{ID: productID}, nil)

	fx.orderRepo.EXPECT().
		HasPurchasedProduct(ctx, userID, productID, entity.ReviewableStatuses()).
		Return(true, nil)

	fx.txManager.EXPECT().
		Execute(ctx, mock.AnythingOfType("func(repository.RepositoryFactory) error")).
		RunAndReturn(func(ctx context.Context, fn func(repository.RepositoryFactory) error) error {
			mockFactory := mockRepo.NewMockRepositoryFactory(t)
			mockReviewRepo := mockRepo.NewMockReviewRepository(t)

			mockFactory.EXPECT().ReviewRepo().Return(mockReviewRepo)

			existing := &entity.Review{
				ID:        uuid.New(),
				UserID:    userID,
				ProductID: productID,
				Rating:    5,
				Comment:   "Excellent quality",
			}
			mockReviewRepo.EXPECT().
				FindReviewByUserAndProduct(ctx, userID, productID).
				Return(existing, nil)

			mockReviewRepo.EXPECT().
				UpdateReview(ctx, existing).
				Return(nil)

			return fn(mockFactory)
		})

	output, err := fx.service.SubmitReview(ctx, input)

	require.NoError(t, err)
	require.NotNil(t, output)
	assert.False(t, output.Created)
	assert.Equal(t, 2, output.Review.Rating)
	assert.Equal(t, "Broke after a week", output.Review.Comment)
}

func TestReviewService_SubmitReview_RejectsOutOfRangeRating(t *testing.T) {
	fx := createTestReviewService(t)

	for _, rating := range []int{0, -1, 6} {
		output, err := fx.service.SubmitReview(context.Background(), &usecase.SubmitReviewInput{
			UserID:    uuid.New(),
			ProductID: uuid.New(),
			Rating:    rating,
		})

		require.Error(t, err)
		assert.Nil(t, output)
		assert.ErrorIs(t, err, domainerrors.ErrValidationFailed)
	}
}

func TestReviewService_SubmitReview_RequiresPurchase(t *testing.T) {
	fx := createTestReviewService(t)

	ctx := context.Background()
	userID := uuid.New()
	productID := uuid.New()

	fx.productRepo.EXPECT().
		FindProductByID(ctx, productID).
		Return(&entity.Product{ID: productID}, nil)

	fx.orderRepo.EXPECT().
		HasPurchasedProduct(ctx, userID, productID, entity.ReviewableStatuses()).
		Return(false, nil)

	output, err := fx.service.SubmitReview(ctx, &usecase.SubmitReviewInput{
		UserID:    userID,
		ProductID: productID,
		Rating:    4,
	})

	require.Error(t, err)
	assert.Nil(t, output)
	assert.ErrorIs(t, err, domainerrors.ErrPurchaseRequired)
}

func TestReviewService_SubmitReview_MissingProduct(t *testing.T) {
	fx := createTestReviewService(t)

	ctx := context.Background()
	productID := uuid.New()

	fx.productRepo.EXPECT().
		FindProductByID(ctx, productID).
		Return(nil, repository.ErrProductNotFound)

	output, err := fx.service.SubmitReview(ctx, &usecase.SubmitReviewInput{
		UserID:    uuid.New(),
		ProductID: productID,
		Rating:    4,
	})

	require.Error(t, err)
	assert.Nil(t, output)
	assert.ErrorIs(t, err, domainerrors.ErrProductNotFound)
}

func TestReviewService_SubmitReview_DuplicateInsertRace(t *testing.T) {
	fx := createTestReviewService(t)

	ctx := context.Background()
	userID := uuid.New()
	productID := uuid.New()

	fx.productRepo.EXPECT().
		FindProductByID(ctx, productID).
		Return(&entity.Product{ID: productID}, nil)

	fx.orderRepo.EXPECT().
		HasPurchasedProduct(ctx, userID, productID, entity.ReviewableStatuses()).
		Return(true, nil)

	fx.txManager.EXPECT().
		Execute(ctx, mock.AnythingOfType("func(repository.RepositoryFactory) error")).
		RunAndReturn(func(ctx context.Context, fn func(repository.RepositoryFactory) error) error {
			mockFactory := mockRepo.NewMockRepositoryFactory(t)
			mockReviewRepo := mockRepo.NewMockReviewRepository(t)

			mockFactory.EXPECT().ReviewRepo().Return(mockReviewRepo)

			mockReviewRepo.EXPECT().
				FindReviewByUserAndProduct(ctx, userID, productID).
				Return(nil, repository.ErrReviewNotFound)

			mockReviewRepo.EXPECT().
				CreateReview(ctx, mock.AnythingOfType("*entity.Review")).
				Return(repository.ErrDuplicateReview)

			return fn(mockFactory)
		})

	output, err := fx.service.SubmitReview(ctx, &usecase.SubmitReviewInput{
		UserID:    userID,
		ProductID: productID,
		Rating:    3,
	})

	require.Error(t, err)
	assert.Nil(t, output)
	assert.ErrorIs(t, err, domainerrors.ErrReviewConflict)
}

func TestReviewService_ListProductReviews_Success(t *testing.T) {
	fx := createTestReviewService(t)

	ctx := context.Background()
	productID := uuid.New()
	expected := []*entity.Review{
		{ID: uuid.New(), ProductID: productID, Rating: 5},
		{ID: uuid.New(), ProductID: productID, Rating: 3},
	}

	fx.reviewRepo.EXPECT().
		ListReviewsByProduct(ctx, productID).
		Return(expected, nil)

	reviews, err := fx.service.ListProductReviews(ctx, productID)

	require.NoError(t, err)
	assert.Len(t, reviews, 2)
}
