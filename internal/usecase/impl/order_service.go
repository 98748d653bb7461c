package impl

import (
	"context"
	"log/slog"

	deliverycontext "storefront/internal/delivery/context"
	"storefront/internal/domain/entity"
	domainerrors "storefront/internal/domain/errors"
	"storefront/internal/domain/repository"
	"storefront/internal/domain/service"
	"storefront/internal/errors"
	"storefront/internal/usecase"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/fx"
)

// orderService implements the OrderUsecase interface.
type orderService struct {
	txManager      repository.TransactionManager
	orderRepo      repository.OrderRepository
	eventPublisher service.EventPublisher
	logger         *slog.Logger
}

// OrderServiceParams holds dependencies for OrderService, injected by Fx.
type OrderServiceParams struct {
	fx.In

	TxManager      repository.TransactionManager
	OrderRepo      repository.OrderRepository
	EventPublisher service.EventPublisher
	Logger         *slog.Logger
}

// NewOrderService is the constructor for orderService.
func NewOrderService(params OrderServiceParams) usecase.OrderUsecase {
	return &orderService{
		txManager:      params.TxManager,
		orderRepo:      params.OrderRepo,
		eventPublisher: params.EventPublisher,
		logger:         params.Logger,
	}
}

func (srv *orderService) log(ctx context.Context) *slog.Logger {
	return deliverycontext.GetLoggerOrDefault(ctx, srv.logger)
}

// PlaceOrder creates the order, its items, and the stock decrements as one
// transaction. A failure at any step, including exhausted stock, rolls the
// whole order back.
func (srv *orderService) PlaceOrder(ctx context.Context, input *usecase.PlaceOrderInput) (*entity.Order, error) {
	if len(input.Items) == 0 {
		return nil, domainerrors.ErrEmptyCart
	}
	if !input.PaymentMethod.IsValid() {
		return nil, domainerrors.ErrValidationFailed.WrapMessage("unknown payment method")
	}
	for _, item := range input.Items {
		if item.Quantity <= 0 {
			return nil, domainerrors.ErrValidationFailed.WrapMessage("item quantity must be positive")
		}
		if item.Price.IsNegative() {
			return nil, domainerrors.ErrValidationFailed.WrapMessage("item price must not be negative")
		}
	}

	// The client-computed total is authoritative for the stored amount, but a
	// divergence from the line sum is worth surfacing in the logs.
	computed := decimal.Zero
	for _, item := range input.Items {
		computed = computed.Add(item.Price.Mul(decimal.NewFromInt(int64(item.Quantity))))
	}
	if !computed.Equal(input.Total) {
		srv.log(ctx).Warn("Order total differs from line sum",
			slog.Any("userID", input.UserID),
			slog.String("total", input.Total.String()),
			slog.String("computed", computed.String()),
		)
	}

	order := &entity.Order{
		UserID:          input.UserID,
		TotalAmount:     input.Total,
		Status:          input.PaymentMethod.InitialStatus(),
		ShippingAddress: input.ShippingAddress,
		PaymentMethod:   input.PaymentMethod,
	}

	err := srv.txManager.Execute(ctx, func(repoFactory repository.RepositoryFactory) error {
		orderRepo := repoFactory.OrderRepo()
		productRepo := repoFactory.ProductRepo()

		if err := orderRepo.CreateOrder(ctx, order); err != nil {
			return errors.Wrap(err, "failed to create order")
		}

		items := make([]*entity.OrderItem, 0, len(input.Items))
		for _, item := range input.Items {
			items = append(items, &entity.OrderItem{
				OrderID:   order.ID,
				ProductID: item.ProductID,
				Quantity:  item.Quantity,
				Price:     item.Price,
			})
		}
		if err := orderRepo.CreateOrderItems(ctx, items); err != nil {
			return errors.Wrap(err, "failed to create order items")
		}
		order.Items = items

		for _, item := range input.Items {
			if err := productRepo.DecrementStock(ctx, item.ProductID, item.Quantity); err != nil {
				if errors.Is(err, repository.ErrInsufficientStock) {
					return domainerrors.ErrInsufficientStock
				}
				if errors.Is(err, repository.ErrProductNotFound) {
					return domainerrors.ErrProductNotFound
				}

				return errors.Wrap(err, "failed to decrement stock")
			}
		}

		return nil
	})
	if err != nil {
		srv.log(ctx).Warn("Order placement failed",
			slog.Any("userID", input.UserID),
			slog.Any("error", err),
		)

		return nil, err
	}

	srv.log(ctx).Info("Order placed",
		slog.Any("orderID", order.ID),
		slog.Any("userID", order.UserID),
		slog.String("total", order.TotalAmount.String()),
	)

	srv.publishOrderEvent(ctx, order)

	return order, nil
}

// publishOrderEvent hands the committed order to the event pipeline.
// Publishing is best-effort; the order is already committed and a broker
// outage must not fail the request.
func (srv *orderService) publishOrderEvent(ctx context.Context, order *entity.Order) {
	productIDs := make([]string, 0, len(order.Items))
	for _, item := range order.Items {
		productIDs = append(productIDs, item.ProductID.String())
	}

	event := &service.OrderEvent{
		RequestID:     deliverycontext.GetRequestIDFromContext(ctx),
		OrderID:       order.ID.String(),
		UserID:        order.UserID.String(),
		TotalAmount:   order.TotalAmount.String(),
		Status:        string(order.Status),
		PaymentMethod: string(order.PaymentMethod),
		ProductIDs:    productIDs,
	}

	if err := srv.eventPublisher.PublishOrderEvent(ctx, event); err != nil {
		srv.log(ctx).Error("Failed to publish order event",
			slog.Any("orderID", order.ID),
			slog.Any("error", err),
		)
	}
}

// GetOrder retrieves a single order, enforcing ownership.
func (srv *orderService) GetOrder(ctx context.Context, userID, orderID uuid.UUID) (*entity.Order, error) {
	order, err := srv.orderRepo.FindOrderByID(ctx, orderID)
	if err != nil {
		if errors.Is(err, repository.ErrOrderNotFound) {
			return nil, domainerrors.ErrOrderNotFound
		}

		return nil, errors.Wrap(err, "failed to load order")
	}

	if order.UserID != userID {
		srv.log(ctx).Warn("Order access denied",
			slog.Any("orderID", orderID),
			slog.Any("userID", userID),
		)

		return nil, domainerrors.ErrOrderAccessDenied
	}

	return order, nil
}

// ListOrders retrieves the user's order history, newest first.
func (srv *orderService) ListOrders(ctx context.Context, userID uuid.UUID) ([]*entity.Order, error) {
	orders, err := srv.orderRepo.FindOrdersByUser(ctx, userID)
	if err != nil {
		return nil, errors.Wrap(err, "failed to list orders")
	}

	return orders, nil
}
