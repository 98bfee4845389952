package repository

import (
	"context"

	"ferremas/internal/domain/entity"
	"ferremas/internal/errors"
)

// ErrOrderNotFound is returned when an order does not exist.
var ErrOrderNotFound = errors.New("order not found")

// OrderRepository persists orders with their items.
type OrderRepository interface {
	// Create inserts the order and its items.
	Create(ctx context.Context, order *entity.Order) error
	// FindByID loads the order with items, their products and the user.
	FindByID(ctx context.Context, id uint) (*entity.Order, error)
	ListByUser(ctx context.Context, userID uint) ([]*entity.Order, error)
	UpdateStatus(ctx context.Context, id uint, status entity.OrderStatus) error
}

// ErrTransactionNotFound is returned when no Webpay transaction matches.
var ErrTransactionNotFound = errors.New("webpay transaction not found")

// PaymentRepository persists Webpay transactions.
type PaymentRepository interface {
	Create(ctx context.Context, tx *entity.WebpayTransaction) error
	Update(ctx context.Context, tx *entity.WebpayTransaction) error
	FindByToken(ctx context.Context, token string) (*entity.WebpayTransaction, error)
	FindByBuyOrder(ctx context.Context, buyOrder string) (*entity.WebpayTransaction, error)
	// FindLatestByOrder returns the newest attempt for an order.
	FindLatestByOrder(ctx context.Context, orderID uint) (*entity.WebpayTransaction, error)
}
