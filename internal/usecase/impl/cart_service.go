package impl

import (
	"context"
	"log/slog"
	"strconv"

	deliverycontext "ferremas/internal/delivery/context"
	"ferremas/internal/domain/entity"
	domainerrors "ferremas/internal/domain/errors"
	"ferremas/internal/domain/repository"
	"ferremas/internal/errors"
	"ferremas/internal/usecase"

	"go.uber.org/fx"
)

type cartService struct {
	txManager   repository.TransactionManager
	cartRepo    repository.CartRepository
	productRepo repository.ProductRepository
	logger      *slog.Logger
}

// CartServiceParams holds dependencies for CartService, injected by Fx.
type CartServiceParams struct {
	fx.In

	TxManager   repository.TransactionManager
	CartRepo    repository.CartRepository
	ProductRepo repository.ProductRepository
	Logger      *slog.Logger
}

func NewCartService(params CartServiceParams) usecase.CartUsecase {
	return &cartService{
		txManager:   params.TxManager,
		cartRepo:    params.CartRepo,
		productRepo: params.ProductRepo,
		logger:      params.Logger,
	}
}

func (srv *cartService) log(ctx context.Context) *slog.Logger {
	return deliverycontext.GetLoggerOrDefault(ctx, srv.logger)
}

func (srv *cartService) GetCart(ctx context.Context, userID uint) (*entity.Cart, error) {
	items, err := srv.cartRepo.ListByUser(ctx, userID)
	if err != nil {
		return nil, errors.Wrap(err, "failed to load cart")
	}

	return &entity.Cart{UserID: userID, Items: items}, nil
}

// AddItem merges quantity into the user's line for the product. The resulting
// quantity must fit in the current stock.
func (srv *cartService) AddItem(ctx context.Context, userID, productID uint, quantity int) (*entity.CartItem, error) {
	if quantity <= 0 {
		return nil, domainerrors.ErrInvalidQuantity
	}

	var item *entity.CartItem
	err := srv.txManager.Execute(ctx, func(repoFactory repository.RepositoryFactory) error {
		cartRepo := repoFactory.CartRepo()

		product, err := repoFactory.ProductRepo().FindByID(ctx, productID)
		if err != nil {
			return mapProductErr(err)
		}

		existing, err := cartRepo.FindByUserAndProduct(ctx, userID, productID)
		switch {
		case err == nil:
			total := existing.Quantity + quantity
			if !product.HasStock(total) {
				return insufficientStock(product, total)
			}
			if err := cartRepo.UpdateQuantity(ctx, existing.ID, total); err != nil {
				return errors.Wrap(err, "failed to update cart line")
			}
			existing.Quantity = total
			existing.Product = product
			item = existing

			return nil
		case errors.Is(err, repository.ErrCartItemNotFound):
			if !product.HasStock(quantity) {
				return insufficientStock(product, quantity)
			}
			item = &entity.CartItem{UserID: userID, ProductID: productID, Quantity: quantity}
			if err := cartRepo.Create(ctx, item); err != nil {
				return errors.Wrap(err, "failed to create cart line")
			}
			item.Product = product

			return nil
		default:
			return errors.Wrap(err, "failed to find cart line")
		}
	})
	if err != nil {
		return nil, err
	}

	srv.log(ctx).Debug("Cart line added",
		slog.Uint64("user_id", uint64(userID)),
		slog.Uint64("product_id", uint64(productID)),
		slog.Int("quantity", item.Quantity),
	)

	return item, nil
}

func (srv *cartService) UpdateItem(ctx context.Context, userID, itemID uint, quantity int) (*entity.CartItem, error) {
	if quantity <= 0 {
		return nil, srv.RemoveItem(ctx, userID, itemID)
	}

	var item *entity.CartItem
	err := srv.txManager.Execute(ctx, func(repoFactory repository.RepositoryFactory) error {
		cartRepo := repoFactory.CartRepo()

		var err error
		item, err = cartRepo.FindByID(ctx, userID, itemID)
		if err != nil {
			return mapCartItemErr(err)
		}
		if item.Product != nil && !item.Product.HasStock(quantity) {
			return insufficientStock(item.Product, quantity)
		}
		if err := cartRepo.UpdateQuantity(ctx, item.ID, quantity); err != nil {
			return errors.Wrap(err, "failed to update cart line")
		}
		item.Quantity = quantity

		return nil
	})
	if err != nil {
		return nil, err
	}

	return item, nil
}

func (srv *cartService) RemoveItem(ctx context.Context, userID, itemID uint) error {
	if err := srv.cartRepo.Delete(ctx, userID, itemID); err != nil {
		return mapCartItemErr(err)
	}

	return nil
}

func (srv *cartService) Clear(ctx context.Context, userID uint) error {
	return errors.Wrap(srv.cartRepo.Clear(ctx, userID), "failed to clear cart")
}

func insufficientStock(product *entity.Product, requested int) error {
	return domainerrors.ErrInsufficientStock.WithDetails(
		product.Name + ": " + strconv.Itoa(product.Stock) + " disponibles, " + strconv.Itoa(requested) + " solicitados")
}

func mapCartItemErr(err error) error {
	if errors.Is(err, repository.ErrCartItemNotFound) {
		return domainerrors.ErrCartItemNotFound
	}

	return errors.Wrap(err, "cart operation failed")
}
