package impl

import (
	"context"
	"log/slog"

	"storefront/config"
	deliverycontext "storefront/internal/delivery/context"
	"storefront/internal/domain/entity"
	domainerrors "storefront/internal/domain/errors"
	"storefront/internal/domain/repository"
	"storefront/internal/errors"
	"storefront/internal/usecase"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/fx"
)

// seedSellerEmail identifies the synthetic seller that owns seeded products.
const seedSellerEmail = "seed-seller@storefront.local"

// productService implements the ProductUsecase interface.
type productService struct {
	txManager   repository.TransactionManager
	productRepo repository.ProductRepository
	userRepo    repository.UserRepository
	seedEnabled bool
	logger      *slog.Logger
}

// ProductServiceParams holds dependencies for ProductService, injected by Fx.
type ProductServiceParams struct {
	fx.In

	TxManager   repository.TransactionManager
	ProductRepo repository.ProductRepository
	UserRepo    repository.UserRepository
	Config      *config.Config
	Logger      *slog.Logger
}

// NewProductService is the constructor for productService.
func NewProductService(params ProductServiceParams) usecase.ProductUsecase {
	seedEnabled := false
	if params.Config != nil && params.Config.Seed != nil {
		seedEnabled = params.Config.Seed.Enabled
	}

	return &productService{
		txManager:   params.TxManager,
		productRepo: params.ProductRepo,
		userRepo:    params.UserRepo,
		seedEnabled: seedEnabled,
		logger:      params.Logger,
	}
}

func (srv *productService) log(ctx context.Context) *slog.Logger {
	return deliverycontext.GetLoggerOrDefault(ctx, srv.logger)
}

// CreateProduct lists a new product after verifying the caller holds the seller role.
func (srv *productService) CreateProduct(ctx context.Context, input *usecase.CreateProductInput) (*entity.Product, error) {
	seller, err := srv.userRepo.FindByID(ctx, input.SellerID)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return nil, domainerrors.ErrUserNotFound
		}

		return nil, errors.Wrap(err, "failed to load seller")
	}
	if !seller.IsSeller() {
		srv.log(ctx).Warn("Non-seller attempted to create product", slog.Any("userID", input.SellerID))

		return nil, domainerrors.ErrSellerRequired
	}

	if input.Price.IsNegative() || input.Stock < 0 {
		return nil, domainerrors.ErrValidationFailed.WrapMessage("price and stock must not be negative")
	}

	product := &entity.Product{
		Name:        input.Name,
		Description: input.Description,
		Price:       input.Price,
		Stock:       input.Stock,
		ImageURL:    input.ImageURL,
		Category:    input.Category,
		SellerID:    input.SellerID,
	}
	if err := srv.productRepo.CreateProduct(ctx, product); err != nil {
		return nil, errors.Wrap(err, "failed to create product")
	}

	srv.log(ctx).Info("Product created",
		slog.Any("productID", product.ID),
		slog.Any("sellerID", input.SellerID),
	)

	product.Seller = &entity.SellerSummary{ID: seller.ID, Name: seller.Name}

	return product, nil
}

// GetProduct retrieves a product with its seller projection.
func (srv *productService) GetProduct(ctx context.Context, id uuid.UUID) (*entity.Product, error) {
	product, err := srv.productRepo.FindProductByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrProductNotFound) {
			return nil, domainerrors.ErrProductNotFound
		}

		return nil, errors.Wrap(err, "failed to load product")
	}

	return product, nil
}

// ListProducts retrieves the full catalog, newest first.
func (srv *productService) ListProducts(ctx context.Context) ([]*entity.Product, error) {
	products, err := srv.productRepo.ListProducts(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "failed to list products")
	}

	return products, nil
}

// SeedProducts inserts the sample catalog under a synthetic seller account.
// The whole seed runs in one transaction so re-running after a failure never
// leaves a partial catalog.
func (srv *productService) SeedProducts(ctx context.Context) (int, error) {
	if !srv.seedEnabled {
		return 0, domainerrors.ErrSeedingDisabled
	}

	created := 0
	err := srv.txManager.Execute(ctx, func(repoFactory repository.RepositoryFactory) error {
		userRepo := repoFactory.UserRepo()
		productRepo := repoFactory.ProductRepo()

		seller, err := userRepo.FindByEmail(ctx, seedSellerEmail)
		if errors.Is(err, repository.ErrUserNotFound) {
			seller = &entity.User{
				Name:  "Storefront Demo Seller",
				Email: seedSellerEmail,
				Role:  entity.RoleSeller,
			}
			if err := userRepo.Create(ctx, seller); err != nil {
				return errors.Wrap(err, "failed to create seed seller")
			}
		} else if err != nil {
			return errors.Wrap(err, "failed to find seed seller")
		}

		for _, sample := range sampleProducts() {
			sample.SellerID = seller.ID
			if err := productRepo.CreateProduct(ctx, sample); err != nil {
				return errors.Wrap(err, "failed to create seed product")
			}
			created++
		}

		return nil
	})
	if err != nil {
		return 0, err
	}

	srv.log(ctx).Info("Catalog seeded", slog.Int("products", created))

	return created, nil
}

func sampleProducts() []*entity.Product {
	return []*entity.Product{
		{
			Name:        "Wireless Headphones",
			Description: "Over-ear wireless headphones with active noise cancellation and 30-hour battery life.",
			Price:       decimal.NewFromFloat(129.99),
			Stock:       50,
			ImageURL:    "https://images.example.com/products/wireless-headphones.jpg",
			Category:    "Electronics",
		},
		{
			Name:        "Stainless Steel Water Bottle",
			Description: "Vacuum-insulated 750ml bottle that keeps drinks cold for 24 hours.",
			Price:       decimal.NewFromFloat(24.50),
			Stock:       120,
			ImageURL:    "https://images.example.com/products/water-bottle.jpg",
			Category:    "Home & Kitchen",
		},
		{
			Name:        "Running Shoes",
			Description: "Lightweight trainers with responsive cushioning for daily runs.",
			Price:       decimal.NewFromFloat(89.00),
			Stock:       35,
			ImageURL:    "https://images.example.com/products/running-shoes.jpg",
			Category:    "Sports",
		},
		{
			Name:        "Mechanical Keyboard",
			Description: "Tenkeyless mechanical keyboard with hot-swappable switches and PBT keycaps.",
			Price:       decimal.NewFromFloat(74.99),
			Stock:       40,
			ImageURL:    "https://images.example.com/products/mechanical-keyboard.jpg",
			Category:    "Electronics",
		},
		{
			Name:        "Ceramic Pour-Over Set",
			Description: "Two-piece ceramic dripper and carafe for slow-brewed coffee.",
			Price:       decimal.NewFromFloat(38.00),
			Stock:       25,
			ImageURL:    "https://images.example.com/products/pour-over-set.jpg",
			Category:    "Home & Kitchen",
		},
		{
			Name:        "Yoga Mat",
			Description: "Non-slip 6mm yoga mat with alignment markings and carry strap.",
			Price:       decimal.NewFromFloat(32.95),
			Stock:       80,
			ImageURL:    "https://images.example.com/products/yoga-mat.jpg",
			Category:    "Sports",
		},
	}
}
