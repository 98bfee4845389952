package postgres

import (
	"context"

	"ferremas/internal/domain/entity"
	domainerrors "ferremas/internal/domain/errors"
	"ferremas/internal/domain/repository"
	"ferremas/internal/errors"
	"ferremas/internal/infra/persistence/model"

	"gorm.io/gorm"
)

type orderRepository struct {
	db *gorm.DB
}

// NewOrderRepository creates a new order repository.
func NewOrderRepository(db *gorm.DB) repository.OrderRepository {
	return &orderRepository{db: db}
}

// Create inserts the order row and then its items with the generated order id.
func (repo *orderRepository) Create(ctx context.Context, order *entity.Order) error {
	orderM := &model.OrderModel{
		UserID:      order.UserID,
		TotalAmount: order.TotalAmount,
		Status:      string(order.Status),
	}
	db := repo.db.WithContext(ctx)
	if err := db.Omit("User", "Items").Create(orderM).Error; err != nil {
		if isForeignKeyConstraintViolation(err) {
			return domainerrors.ErrUserNotFound
		}

		return domainerrors.NewDatabaseExecuteError(err, "failed to create order")
	}

	if len(order.Items) > 0 {
		itemsM := make([]*model.OrderItemModel, 0, len(order.Items))
		for _, item := range order.Items {
			itemsM = append(itemsM, &model.OrderItemModel{
				OrderID:     orderM.ID,
				ProductID:   item.ProductID,
				Quantity:    item.Quantity,
				PriceAtTime: item.PriceAtTime,
			})
		}
		if err := db.Omit("Product").Create(&itemsM).Error; err != nil {
			if isForeignKeyConstraintViolation(err) {
				return domainerrors.ErrProductNotFound
			}

			return domainerrors.NewDatabaseExecuteError(err, "failed to create order items")
		}
		for i, item := range order.Items {
			item.ID = itemsM[i].ID
			item.OrderID = orderM.ID
		}
	}

	order.ID = orderM.ID
	order.CreatedAt = orderM.CreatedAt
	order.UpdatedAt = orderM.UpdatedAt

	return nil
}

func (repo *orderRepository) FindByID(ctx context.Context, id uint) (*entity.Order, error) {
	var orderM model.OrderModel
	err := repo.db.WithContext(ctx).
		Preload("User").
		Preload("Items", func(db *gorm.DB) *gorm.DB { return db.Order("id") }).
		Preload("Items.Product").
		First(&orderM, id).Error
	if err != nil {
		if isRecordNotFound(err) {
			return nil, repository.ErrOrderNotFound
		}

		return nil, errors.Wrap(err, "failed to find order")
	}

	return toOrderDomain(&orderM), nil
}

func (repo *orderRepository) ListByUser(ctx context.Context, userID uint) ([]*entity.Order, error) {
	var ordersM []*model.OrderModel
	err := repo.db.WithContext(ctx).
		Preload("Items", func(db *gorm.DB) *gorm.DB { return db.Order("id") }).
		Preload("Items.Product").
		Where("user_id = ?", userID).
		Order("created_at DESC").Order("id DESC").
		Find(&ordersM).Error
	if err != nil {
		return nil, errors.Wrap(err, "failed to list orders")
	}

	orders := make([]*entity.Order, 0, len(ordersM))
	for _, o := range ordersM {
		orders = append(orders, toOrderDomain(o))
	}

	return orders, nil
}

func (repo *orderRepository) UpdateStatus(ctx context.Context, id uint, status entity.OrderStatus) error {
	result := repo.db.WithContext(ctx).
		Model(&model.OrderModel{ID: id}).
		Update("status", string(status))
	if result.Error != nil {
		return domainerrors.NewDatabaseExecuteError(result.Error, "failed to update order status")
	}
	if result.RowsAffected == 0 {
		return repository.ErrOrderNotFound
	}

	return nil
}

func toOrderDomain(data *model.OrderModel) *entity.Order {
	order := &entity.Order{
		ID:          data.ID,
		UserID:      data.UserID,
		TotalAmount: data.TotalAmount,
		Status:      entity.OrderStatus(data.Status),
		User:        toUserDomain(data.User),
		CreatedAt:   data.CreatedAt,
		UpdatedAt:   data.UpdatedAt,
	}
	for i := range data.Items {
		item := &data.Items[i]
		order.Items = append(order.Items, &entity.OrderItem{
			ID:          item.ID,
			OrderID:     item.OrderID,
			ProductID:   item.ProductID,
			Quantity:    item.Quantity,
			PriceAtTime: item.PriceAtTime,
			Product:     toProductDomain(item.Product),
		})
	}

	return order
}
