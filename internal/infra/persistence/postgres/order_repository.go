package postgres

import (
	"context"
	"encoding/json"

	"storefront/internal/domain/entity"
	domainerrors "storefront/internal/domain/errors"
	"storefront/internal/domain/repository"
	"storefront/internal/infra/persistence/model"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"gorm.io/gorm"
)

// orderRepository implements the repository.OrderRepository interface.
type orderRepository struct {
	db *gorm.DB
}

// NewOrderRepository is the constructor for orderRepository.
func NewOrderRepository(db *gorm.DB) repository.OrderRepository {
	return &orderRepository{
		db: db,
	}
}

// CreateOrder persists the order row itself.
func (repo *orderRepository) CreateOrder(ctx context.Context, order *entity.Order) error {
	orderM, err := fromOrderDomain(order)
	if err != nil {
		return errors.Wrap(err, "failed to map order")
	}

	if err := repo.db.WithContext(ctx).Create(orderM).Error; err != nil {
		if isForeignKeyConstraintViolation(err) {
			return domainerrors.ErrUserNotFound
		}

		return domainerrors.NewDatabaseExecuteError(err, "failed to create order")
	}

	// Update the entity with generated values
	order.ID = orderM.ID
	order.CreatedAt = orderM.CreatedAt

	return nil
}

// CreateOrderItems batch-inserts the cart lines of an order.
func (repo *orderRepository) CreateOrderItems(ctx context.Context, items []*entity.OrderItem) error {
	if len(items) == 0 {
		return nil
	}

	itemModels := make([]*model.OrderItemModel, 0, len(items))
	for _, item := range items {
		itemModels = append(itemModels, fromOrderItemDomain(item))
	}

	if err := repo.db.WithContext(ctx).Create(&itemModels).Error; err != nil {
		if isForeignKeyConstraintViolation(err) {
			return repository.ErrProductNotFound
		}

		return domainerrors.NewDatabaseExecuteError(err, "failed to create order items")
	}

	for i, itemM := range itemModels {
		items[i].ID = itemM.ID
	}

	return nil
}

// FindOrderByID retrieves a single order with its items and product projections.
func (repo *orderRepository) FindOrderByID(ctx context.Context, id uuid.UUID) (*entity.Order, error) {
	var orderM model.OrderModel

	if err := repo.db.WithContext(ctx).
		Preload("Items").
		Preload("Items.Product").
		Where("id = ?", id).
		First(&orderM).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, repository.ErrOrderNotFound
		}

		return nil, errors.Wrap(err, "failed to find order by ID")
	}

	return toOrderDomain(&orderM)
}

// FindOrdersByUser retrieves all orders of a user, newest first.
func (repo *orderRepository) FindOrdersByUser(ctx context.Context, userID uuid.UUID) ([]*entity.Order, error) {
	var orderModels []*model.OrderModel

	if err := repo.db.WithContext(ctx).
		Preload("Items").
		Preload("Items.Product").
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&orderModels).Error; err != nil {
		return nil, errors.Wrap(err, "failed to find orders by user")
	}

	orders := make([]*entity.Order, 0, len(orderModels))
	for _, orderM := range orderModels {
		order, err := toOrderDomain(orderM)
		if err != nil {
			return nil, err
		}
		orders = append(orders, order)
	}

	return orders, nil
}

// HasPurchasedProduct reports whether the user owns an order containing the
// product in one of the given statuses.
func (repo *orderRepository) HasPurchasedProduct(ctx context.Context, userID, productID uuid.UUID, statuses []entity.OrderStatus) (bool, error) {
	statusValues := make([]string, 0, len(statuses))
	for _, status := range statuses {
		statusValues = append(statusValues, string(status))
	}

	var count int64
	if err := repo.db.WithContext(ctx).
		Model(&model.OrderItemModel{}).
		Joins("JOIN orders ON orders.id = order_items.order_id").
		Where("order_items.product_id = ?", productID).
		Where("orders.user_id = ?", userID).
		Where("orders.status IN ?", statusValues).
		Count(&count).Error; err != nil {
		return false, errors.Wrap(err, "failed to check purchase history")
	}

	return count > 0, nil
}

// toOrderDomain converts a persistence model to a domain entity.
func toOrderDomain(data *model.OrderModel) (*entity.Order, error) {
	var address entity.ShippingAddress
	if err := json.Unmarshal([]byte(data.ShippingAddress), &address); err != nil {
		return nil, errors.Wrap(err, "failed to decode shipping address")
	}

	order := &entity.Order{
		ID:              data.ID,
		UserID:          data.UserID,
		TotalAmount:     data.TotalAmount,
		Status:          entity.OrderStatus(data.Status),
		ShippingAddress: address,
		PaymentMethod:   entity.PaymentMethod(data.PaymentMethod),
		CreatedAt:       data.CreatedAt,
	}

	order.Items = make([]*entity.OrderItem, 0, len(data.Items))
	for i := range data.Items {
		order.Items = append(order.Items, toOrderItemDomain(&data.Items[i]))
	}

	return order, nil
}

// fromOrderDomain converts a domain entity to a persistence model.
// Items are intentionally excluded; they are inserted separately so the
// repository controls insertion order within the transaction.
func fromOrderDomain(data *entity.Order) (*model.OrderModel, error) {
	addressJSON, err := json.Marshal(data.ShippingAddress)
	if err != nil {
		return nil, errors.Wrap(err, "failed to encode shipping address")
	}

	return &model.OrderModel{
		ID:              data.ID,
		UserID:          data.UserID,
		TotalAmount:     data.TotalAmount,
		Status:          string(data.Status),
		ShippingAddress: string(addressJSON),
		PaymentMethod:   string(data.PaymentMethod),
		CreatedAt:       data.CreatedAt,
	}, nil
}

// toOrderItemDomain converts a persistence model to a domain entity.
func toOrderItemDomain(data *model.OrderItemModel) *entity.OrderItem {
	item := &entity.OrderItem{
		ID:        data.ID,
		OrderID:   data.OrderID,
		ProductID: data.ProductID,
		Quantity:  data.Quantity,
		Price:     data.Price,
	}

	if data.Product != nil {
		item.Product = &entity.OrderItemProduct{
			Name:     data.Product.Name,
			ImageURL: data.Product.ImageURL,
		}
	}

	return item
}

// fromOrderItemDomain converts a domain entity to a persistence model.
func fromOrderItemDomain(data *entity.OrderItem) *model.OrderItemModel {
	return &model.OrderItemModel{
		ID:        data.ID,
		OrderID:   data.OrderID,
		ProductID: data.ProductID,
		Quantity:  data.Quantity,
		Price:     data.Price,
	}
}
