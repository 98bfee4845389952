package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// OrderStatus tracks the payment outcome of an order.
type OrderStatus string

const (
	OrderStatusPending   OrderStatus = "pending"
	OrderStatusCompleted OrderStatus = "completed"
	OrderStatusFailed    OrderStatus = "failed"
	OrderStatusCancelled OrderStatus = "cancelled"
)

// IsFinal reports whether the status can no longer change through the payment flow.
func (s OrderStatus) IsFinal() bool {
	return s != OrderStatusPending
}

// Order is a checkout attempt created from the cart.
type Order struct {
	ID          uint
	UserID      uint
	TotalAmount decimal.Decimal
	Status      OrderStatus
	Items       []*OrderItem
	User        *User
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// OrderItem snapshots a cart line at checkout time.
type OrderItem struct {
	ID          uint
	OrderID     uint
	ProductID   uint
	Quantity    int
	PriceAtTime decimal.Decimal
	Product     *Product
}

// Subtotal is the snapshot price times quantity.
func (i *OrderItem) Subtotal() decimal.Decimal {
	return i.PriceAtTime.Mul(decimal.NewFromInt(int64(i.Quantity)))
}
