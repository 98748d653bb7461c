package impl

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"storefront/config"
	"storefront/internal/domain/entity"
	domainerrors "storefront/internal/domain/errors"
	"storefront/internal/domain/repository"
	mockRepo "storefront/internal/mocks/repository"
	"storefront/internal/usecase"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// productServiceFixtures holds all test dependencies for product service tests.
type productServiceFixtures struct {
	service     usecase.ProductUsecase
	txManager   *mockRepo.MockTransactionManager
	productRepo *mockRepo.MockProductRepository
	userRepo    *mockRepo.MockUserRepository
}

func createTestProductService(t *testing.T, seedEnabled bool) productServiceFixtures {
	txManager := mockRepo.NewMockTransactionManager(t)
	productRepo := mockRepo.NewMockProductRepository(t)
	userRepo := mockRepo.NewMockUserRepository(t)
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	service := NewProductService(ProductServiceParams{
		TxManager:   txManager,
		ProductRepo: productRepo,
		UserRepo:    userRepo,
		Config:      &config.Config{Seed: &config.SeedConfig{Enabled: seedEnabled}},
		Logger:      logger,
	})

	return productServiceFixtures{
		service:     service,
		txManager:   txManager,
		productRepo: productRepo,
		userRepo:    userRepo,
	}
}

func TestProductService_CreateProduct_Success(t *testing.T) {
	fx := createTestProductService(t, false)

	ctx := context.Background()
	sellerID := uuid.New()
	input := &usecase.CreateProductInput{
		Name:        "Mechanical Keyboard",
		Description: "Tenkeyless with hot-swappable switches",
		Price:       decimal.NewFromFloat(74.99),
		Stock:       40,
		Category:    "Electronics",
		SellerID:    sellerID,
	}

	fx.userRepo.EXPECT().
		FindByID(ctx, sellerID).
		Return(&entity.User{ID: sellerID, Name: "Shop Owner", Role: entity.RoleSeller}, nil)

	fx.productRepo.EXPECT().
		CreateProduct(ctx, mock.AnythingOfType("*entity.Product")).
		Run(func(ctx context.Context, product *entity.Product) {
			product.ID = uuid.New()
		}).
		Return(nil)

	product, err := fx.service.CreateProduct(ctx, input)

	require.NoError(t, err)
	require.NotNil(t, product)
	assert.Equal(t, input.Name, product.Name)
	assert.Equal(t, sellerID, product.SellerID)
	require.NotNil(t, product.Seller)
	assert.Equal(t, "Shop Owner", product.Seller.Name)
}

func TestProductService_CreateProduct_RejectsBuyer(t *testing.T) {
	fx := createTestProductService(t, false)

	ctx := context.Background()
	buyerID := uuid.New()

	fx.userRepo.EXPECT().
		FindByID(ctx, buyerID).
		Return(&entity.User{ID: buyerID, Role: entity.RoleBuyer}, nil)

	product, err := fx.service.CreateProduct(ctx, &usecase.CreateProductInput{
		Name:     "Forbidden Listing",
		Price:    decimal.NewFromInt(10),
		Stock:    1,
		SellerID: buyerID,
	})

	require.Error(t, err)
	assert.Nil(t, product)
	assert.ErrorIs(t, err, domainerrors.ErrSellerRequired)
}

func TestProductService_CreateProduct_RejectsNegativePrice(t *testing.T) {
	fx := createTestProductService(t, false)

	ctx := context.Background()
	sellerID := uuid.New()

	fx.userRepo.EXPECT().
		FindByID(ctx, sellerID).
		Return(&entity.User{ID: sellerID, Role: entity.RoleSeller}, nil)

	product, err := fx.service.CreateProduct(ctx, &usecase.CreateProductInput{
		Name:     "Bad Listing",
		Price:    decimal.NewFromInt(-5),
		Stock:    1,
		SellerID: sellerID,
	})

	require.Error(t, err)
	assert.Nil(t, product)
	assert.ErrorIs(t, err, domainerrors.ErrValidationFailed)
}

func TestProductService_GetProduct_NotFound(t *testing.T) {
	fx := createTestProductService(t, false)

	ctx := context.Background()
	productID := uuid.New()

	fx.productRepo.EXPECT().
		FindProductByID(ctx, productID).
		Return(nil, repository.ErrProductNotFound)

	product, err := fx.service.GetProduct(ctx, productID)

	require.Error(t, err)
	assert.Nil(t, product)
	assert.ErrorIs(t, err, domainerrors.ErrProductNotFound)
}

func TestProductService_ListProducts_Success(t *testing.T) {
	fx := createTestProductService(t, false)

	ctx := context.Background()
	expected := []*entity.Product{
		{ID: uuid.New(), Name: "Yoga Mat"},
		{ID: uuid.New(), Name: "Running Shoes"},
	}

	fx.productRepo.EXPECT().
		ListProducts(ctx).
		Return(expected, nil)

	products, err := fx.service.ListProducts(ctx)

	require.NoError(t, err)
	assert.Len(t, products, 2)
}

func TestProductService_SeedProducts_DisabledByDefault(t *testing.T) {
	fx := createTestProductService(t, false)

	created, err := fx.service.SeedProducts(context.Background())

	require.Error(t, err)
	assert.Zero(t, created)
	assert.ErrorIs(t, err, domainerrors.ErrSeedingDisabled)
}

func TestProductService_SeedProducts_CreatesCatalogUnderSeedSeller(t *testing.T) {
	fx := createTestProductService(t, true)

	ctx := context.Background()
	sellerID := uuid.New()

	fx.txManager.EXPECT().
		Execute(ctx, mock.AnythingOfType("func(repository.RepositoryFactory) error")).
		RunAndReturn(func(ctx context.Context, fn func(repository.RepositoryFactory) error) error {
			mockFactory := mockRepo.NewMockRepositoryFactory(t)
			mockUserRepo := mockRepo.NewMockUserRepository(t)
			mockProductRepo := mockRepo.NewMockProductRepository(t)

			mockFactory.EXPECT().UserRepo().Return(mockUserRepo)
			mockFactory.EXPECT().ProductRepo().Return(mockProductRepo)

			mockUserRepo.EXPECT().
				FindByEmail(ctx, seedSellerEmail).
				Return(nil, repository.ErrUserNotFound)
			mockUserRepo.EXPECT().
				Create(ctx, mock.AnythingOfType("*entity.User")).
				Run(func(ctx context.Context, user *entity.User) {
					assert.Equal(t, entity.RoleSeller, user.Role)
					user.ID = sellerID
				}).
				Return(nil)

			mockProductRepo.EXPECT().
				CreateProduct(ctx, mock.AnythingOfType("*entity.Product")).
				Run(func(ctx context.Context, product *entity.Product) {
					assert.Equal(t, sellerID, product.SellerID)
				}).
				Return(nil).
				Times(len(sampleProducts()))

			return fn(mockFactory)
		})

	created, err := fx.service.SeedProducts(ctx)

	require.NoError(t, err)
	assert.Equal(t, len(sampleProducts()), created)
}

func TestProductService_SeedProducts_ReusesExistingSeedSeller(t *testing.T) {
	fx := createTestProductService(t, true)

	ctx := context.Background()
	sellerID := uuid.New()

	fx.txManager.EXPECT().
		Execute(ctx, mock.AnythingOfType("func(repository.RepositoryFactory) error")).
		RunAndReturn(func(ctx context.Context, fn func(repository.RepositoryFactory) error) error {
			mockFactory := mockRepo.NewMockRepositoryFactory(t)
			mockUserRepo := mockRepo.NewMockUserRepository(t)
			mockProductRepo := mockRepo.NewMockProductRepository(t)

			mockFactory.EXPECT().UserRepo().Return(mockUserRepo)
			mockFactory.EXPECT().ProductRepo().Return(mockProductRepo)

			mockUserRepo.EXPECT().
				FindByEmail(ctx, seedSellerEmail).
				Return(&entity.User{ID: sellerID, Role: entity.RoleSeller}, nil)

			mockProductRepo.EXPECT().
				CreateProduct(ctx, mock.AnythingOfType("*entity.Product")).
				Return(nil).
				Times(len(sampleProducts()))

			return fn(mockFactory)
		})

	created, err := fx.service.SeedProducts(ctx)

	require.NoError(t, err)
	assert.Equal(t, len(sampleProducts()), created)
}
