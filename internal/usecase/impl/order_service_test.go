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
	mockSvc "storefront/internal/mocks/service"
	"storefront/internal/usecase"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// orderServiceFixtures holds all test dependencies for order service tests.
type orderServiceFixtures struct {
	service        usecase.OrderUsecase
	txManager      *mockRepo.MockTransactionManager
	orderRepo      *mockRepo.MockOrderRepository
	eventPublisher *mockSvc.MockEventPublisher
}

func createTestOrderService(t *testing.T) orderServiceFixtures {
	txManager := mockRepo.NewMockTransactionManager(t)
	orderRepo := mockRepo.NewMockOrderRepository(t)
	eventPublisher := mockSvc.NewMockEventPublisher(t)
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	service := NewOrderService(OrderServiceParams{
		TxManager:      txManager,
		OrderRepo:      orderRepo,
		EventPublisher: eventPublisher,
		Logger:         logger,
	})

	return orderServiceFixtures{
		service:        service,
		txManager:      txManager,
		orderRepo:      orderRepo,
		eventPublisher: eventPublisher,
	}
}

func validPlaceOrderInput(userID uuid.UUID) *usecase.PlaceOrderInput {
	productID := uuid.New()

	return &usecase.PlaceOrderInput{
		UserID: userID,
		Items: []usecase.OrderItemInput{
			{ProductID: productID, Quantity: 2, Price: decimal.NewFromFloat(24.50)},
		},
		Total: decimal.NewFromFloat(49.00),
		ShippingAddress: entity.ShippingAddress{
			FullName: "Test Buyer",
			Address:  "1 Main Street",
			City:     "Springfield",
			State:    "IL",
			Pincode:  "62704",
			Phone:    "555-0100",
		},
		PaymentMethod: entity.PaymentMethodCOD,
	}
}

func TestOrderService_PlaceOrder_Success(t *testing.T) {
	fx := createTestOrderService(t)

	ctx := context.Background()
	userID := uuid.New()
	input := validPlaceOrderInput(userID)
	orderID := uuid.New()

	fx.txManager.EXPECT().
		Execute(ctx, mock.AnythingOfType("func(repository.RepositoryFactory) error")).
		RunAndReturn(func(ctx context.Context, fn func(repository.RepositoryFactory) error) error {
			mockFactory := mockRepo.NewMockRepositoryFactory(t)
			mockOrderRepo := mockRepo.NewMockOrderRepository(t)
			mockProductRepo := mockRepo.NewMockProductRepository(t)

			mockFactory.EXPECT().OrderRepo().Return(mockOrderRepo)
			mockFactory.EXPECT().ProductRepo().Return(mockProductRepo)

			mockOrderRepo.EXPECT().
				CreateOrder(ctx, mock.AnythingOfType("*entity.Order")).
				Run(func(ctx context.Context, order *entity.Order) {
					order.ID = orderID
				}).
				Return(nil)

			mockOrderRepo.EXPECT().
				CreateOrderItems(ctx, mock.AnythingOfType("[]*entity.OrderItem")).
				Return(nil)

			mockProductRepo.EXPECT().
				DecrementStock(ctx, input.Items[0].ProductID, 2).
				Return(nil)

			return fn(mockFactory)
		})

	fx.eventPublisher.EXPECT().
		PublishOrderEvent(ctx, mock.AnythingOfType("*service.OrderEvent")).
		Return(nil)

	order, err := fx.service.PlaceOrder(ctx, input)

	require.NoError(t, err)
	require.NotNil(t, order)
	assert.Equal(t, orderID, order.ID)
	assert.Equal(t, userID, order.UserID)
	assert.Equal(t, entity.OrderStatusPending, order.Status)
	assert.Len(t, order.Items, 1)
	assert.Equal(t, orderID, order.Items[0].OrderID)
	assert.True(t, order.TotalAmount.Equal(input.Total))
}

func TestOrderService_PlaceOrder_OnlinePaymentStartsProcessing(t *testing.T) {
	fx := createTestOrderService(t)

	ctx := context.Background()
	input := validPlaceOrderInput(uuid.New())
	input.PaymentMethod = entity.PaymentMethodOnline

	fx.txManager.EXPECT().
		Execute(ctx, mock.AnythingOfType("func(repository.RepositoryFactory) error")).
		RunAndReturn(func(ctx context.Context, fn func(repository.RepositoryFactory) error) error {
			mockFactory := mockRepo.NewMockRepositoryFactory(t)
			mockOrderRepo := mockRepo.NewMockOrderRepository(t)
			mockProductRepo := mockRepo.NewMockProductRepository(t)

			mockFactory.EXPECT().OrderRepo().Return(mockOrderRepo)
			mockFactory.EXPECT().ProductRepo().Return(mockProductRepo)

			mockOrderRepo.EXPECT().
				CreateOrder(ctx, mock.AnythingOfType("*entity.Order")).
				Run(func(ctx context.Context, order *entity.Order) {
					order.ID = uuid.New()
				}).
				Return(nil)
			mockOrderRepo.EXPECT().
				CreateOrderItems(ctx, mock.AnythingOfType("[]*entity.OrderItem")).
				Return(nil)
			mockProductRepo.EXPECT().
				DecrementStock(ctx, input.Items[0].ProductID, 2).
				Return(nil)

			return fn(mockFactory)
		})

	fx.eventPublisher.EXPECT().
		PublishOrderEvent(ctx, mock.AnythingOfType("*service.OrderEvent")).
		Return(nil)

	order, err := fx.service.PlaceOrder(ctx, input)

	require.NoError(t, err)
	assert.Equal(t, entity.OrderStatusProcessing, order.Status)
}

func TestOrderService_PlaceOrder_EmptyCart(t *testing.T) {
	fx := createTestOrderService(t)

	input := validPlaceOrderInput(uuid.New())
	input.Items = nil

	order, err := fx.service.PlaceOrder(context.Background(), input)

	require.Error(t, err)
	assert.Nil(t, order)
	assert.ErrorIs(t, err, domainerrors.ErrEmptyCart)
}

func TestOrderService_PlaceOrder_UnknownPaymentMethod(t *testing.T) {
	fx := createTestOrderService(t)

	input := validPlaceOrderInput(uuid.New())
	input.PaymentMethod = entity.PaymentMethod("wire")

	order, err := fx.service.PlaceOrder(context.Background(), input)

	require.Error(t, err)
	assert.Nil(t, order)
	assert.ErrorIs(t, err, domainerrors.ErrValidationFailed)
}

func TestOrderService_PlaceOrder_NonPositiveQuantity(t *testing.T) {
	fx := createTestOrderService(t)

	input := validPlaceOrderInput(uuid.New())
	input.Items[0].Quantity = 0

	order, err := fx.service.PlaceOrder(context.Background(), input)

	require.Error(t, err)
	assert.Nil(t, order)
	assert.ErrorIs(t, err, domainerrors.ErrValidationFailed)
}

func TestOrderService_PlaceOrder_InsufficientStockRollsBack(t *testing.T) {
	fx := createTestOrderService(t)

	ctx := context.Background()
	input := validPlaceOrderInput(uuid.New())

	fx.txManager.EXPECT().
		Execute(ctx, mock.AnythingOfType("func(repository.RepositoryFactory) error")).
		RunAndReturn(func(ctx context.Context, fn func(repository.RepositoryFactory) error) error {
			mockFactory := mockRepo.NewMockRepositoryFactory(t)
			mockOrderRepo := mockRepo.NewMockOrderRepository(t)
			mockProductRepo := mockRepo.NewMockProductRepository(t)

			mockFactory.EXPECT().OrderRepo().Return(mockOrderRepo)
			mockFactory.EXPECT().ProductRepo().Return(mockProductRepo)

			mockOrderRepo.EXPECT().
				CreateOrder(ctx, mock.AnythingOfType("*entity.Order")).
				Run(func(ctx context.Context, order *entity.Order) {
					order.ID = uuid.New()
				}).
				Return(nil)
			mockOrderRepo.EXPECT().
				CreateOrderItems(ctx, mock.AnythingOfType("[]*entity.OrderItem")).
				Return(nil)
			mockProductRepo.EXPECT().
				DecrementStock(ctx, input.Items[0].ProductID, 2).
				Return(repository.ErrInsufficientStock)

			return fn(mockFactory)
		})

	// No PublishOrderEvent expectation: a rolled-back order must not emit an event.
	order, err := fx.service.PlaceOrder(ctx, input)

	require.Error(t, err)
	assert.Nil(t, order)
	assert.ErrorIs(t, err, domainerrors.ErrInsufficientStock)
}

func TestOrderService_PlaceOrder_MissingProduct(t *testing.T) {
	fx := createTestOrderService(t)

	ctx := context.Background()
	input := validPlaceOrderInput(uuid.New())

	fx.txManager.EXPECT().
		Execute(ctx, mock.AnythingOfType("func(repository.RepositoryFactory) error")).
		RunAndReturn(func(ctx context.Context, fn func(repository.RepositoryFactory) error) error {
			mockFactory := mockRepo.NewMockRepositoryFactory(t)
			mockOrderRepo := mockRepo.NewMockOrderRepository(t)
			mockProductRepo := mockRepo.NewMockProductRepository(t)

			mockFactory.EXPECT().OrderRepo().Return(mockOrderRepo)
			mockFactory.EXPECT().ProductRepo().Return(mockProductRepo)

			mockOrderRepo.EXPECT().
				CreateOrder(ctx, mock.AnythingOfType("*entity.Order")).
				Return(nil)
			mockOrderRepo.EXPECT().
				CreateOrderItems(ctx, mock.AnythingOfType("[]*entity.OrderItem")).
				Return(nil)
			mockProductRepo.EXPECT().
				DecrementStock(ctx, input.Items[0].ProductID, 2).
				Return(repository.ErrProductNotFound)

			return fn(mockFactory)
		})

	order, err := fx.service.PlaceOrder(ctx, input)

	require.Error(t, err)
	assert.Nil(t, order)
	assert.ErrorIs(t, err, domainerrors.ErrProductNotFound)
}

func TestOrderService_PlaceOrder_PublishFailureDoesNotFailOrder(t *testing.T) {
	fx := createTestOrderService(t)

	ctx := context.Background()
	input := validPlaceOrderInput(uuid.New())

	fx.txManager.EXPECT().
		Execute(ctx, mock.AnythingOfType("func(repository.RepositoryFactory) error")).
		RunAndReturn(func(ctx context.Context, fn func(repository.RepositoryFactory) error) error {
			mockFactory := mockRepo.NewMockRepositoryFactory(t)
			mockOrderRepo := mockRepo.NewMockOrderRepository(t)
			mockProductRepo := mockRepo.NewMockProductRepository(t)

			mockFactory.EXPECT().OrderRepo().Return(mockOrderRepo)
			mockFactory.EXPECT().ProductRepo().Return(mockProductRepo)

			mockOrderRepo.EXPECT().
				CreateOrder(ctx, mock.AnythingOfType("*entity.Order")).
				Return(nil)
			mockOrderRepo.EXPECT().
				CreateOrderItems(ctx, mock.AnythingOfType("[]*entity.OrderItem")).
				Return(nil)
			mockProductRepo.EXPECT().
				DecrementStock(ctx, input.Items[0].ProductID, 2).
				Return(nil)

			return fn(mockFactory)
		})

	fx.eventPublisher.EXPECT().
		PublishOrderEvent(ctx, mock.AnythingOfType("*service.OrderEvent")).
		Return(errors.New("broker unavailable"))

	order, err := fx.service.PlaceOrder(ctx, input)

	require.NoError(t, err)
	assert.NotNil(t, order)
}

func TestOrderService_GetOrder_Success(t *testing.T) {
	fx := createTestOrderService(t)

	ctx := context.Background()
	userID := uuid.New()
	orderID := uuid.New()

	fx.orderRepo.EXPECT().
		FindOrderByID(ctx, orderID).
		Return(&entity.Order{ID: orderID, UserID: userID}, nil)

	order, err := fx.service.GetOrder(ctx, userID, orderID)

	require.NoError(t, err)
	assert.Equal(t, orderID, order.ID)
}

func TestOrderService_GetOrder_DeniesForeignOrder(t *testing.T) {
	fx := createTestOrderService(t)

	ctx := context.Background()
	orderID := uuid.New()

	fx.orderRepo.EXPECT().
		FindOrderByID(ctx, orderID).
		Return(&entity.Order{ID: orderID, UserID: uuid.New()}, nil)

	order, err := fx.service.GetOrder(ctx, uuid.New(), orderID)

	require.Error(t, err)
	assert.Nil(t, order)
	assert.ErrorIs(t, err, domainerrors.ErrOrderAccessDenied)
}

func TestOrderService_GetOrder_NotFound(t *testing.T) {
	fx := createTestOrderService(t)

	ctx := context.Background()
	orderID := uuid.New()

	fx.orderRepo.EXPECT().
		FindOrderByID(ctx, orderID).
		Return(nil, repository.ErrOrderNotFound)

	order, err := fx.service.GetOrder(ctx, uuid.New(), orderID)

	require.Error(t, err)
	assert.Nil(t, order)
	assert.ErrorIs(t, err, domainerrors.ErrOrderNotFound)
}

func TestOrderService_ListOrders_Success(t *testing.T) {
	fx := createTestOrderService(t)

	ctx := context.Background()
	userID := uuid.New()
	expected := []*entity.Order{
		{ID: uuid.New(), UserID: userID},
		{ID: uuid.New(), UserID: userID},
	}

	fx.orderRepo.EXPECT().
		FindOrdersByUser(ctx, userID).
		Return(expected, nil)

	orders, err := fx.service.ListOrders(ctx, userID)

	require.NoError(t, err)
	assert.Len(t, orders, 2)
}
