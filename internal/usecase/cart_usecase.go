package usecase

import (
	"context"

	"ferremas/internal/domain/entity"
)

// CartUsecase manages the cart of an authenticated user.
type CartUsecase interface {
	GetCart(ctx context.Context, userID uint) (*entity.Cart, error)
	// AddItem increments an existing line or creates one.
	AddItem(ctx context.Context, userID, productID uint, quantity int) (*entity.CartItem, error)
	// UpdateItem sets the quantity; a quantity of zero or less removes the line and returns nil.
	UpdateItem(ctx context.Context, userID, itemID uint, quantity int) (*entity.CartItem, error)
	RemoveItem(ctx context.Context, userID, itemID uint) error
	Clear(ctx context.Context, userID uint) error
}
