package repository

import (
	"context"

	"ferremas/internal/domain/entity"
	"ferremas/internal/errors"
)

// ErrCartItemNotFound is returned when no line matches the user and item.
var ErrCartItemNotFound = errors.New("cart item not found")

// CartRepository persists cart lines. Lines are always loaded with their product.
type CartRepository interface {
	ListByUser(ctx context.Context, userID uint) ([]*entity.CartItem, error)
	FindByUserAndProduct(ctx context.Context, userID, productID uint) (*entity.CartItem, error)
	// FindByID scopes the lookup to userID so users cannot touch other carts.
	FindByID(ctx context.Context, userID, itemID uint) (*entity.CartItem, error)
	Create(ctx context.Context, item *entity.CartItem) error
	UpdateQuantity(ctx context.Context, itemID uint, quantity int) error
	Delete(ctx context.Context, userID, itemID uint) error
	DeleteByProduct(ctx context.Context, productID uint) error
	Clear(ctx context.Context, userID uint) error
}
