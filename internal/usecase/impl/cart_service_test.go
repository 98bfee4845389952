package impl

import (
	"context"
	"testing"

	domainerrors "ferremas/internal/domain/errors"
	"ferremas/internal/errors"
	"ferremas/internal/usecase"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newCartService(repos *testRepos) usecase.CartUsecase {
	return NewCartService(CartServiceParams{
		TxManager:   repos.tx,
		CartRepo:    repos.carts,
		ProductRepo: repos.products,
		Logger:      discardLogger(),
	})
}

func TestCartService_AddItemMergesLines(t *testing.T) {
	repos := newTestRepos(t)
	srv := newCartService(repos)
	ctx := context.Background()
	user := repos.user(t, "juan", "juan@ferremas.cl")
	tools := repos.category(t, "Herramientas")
	hammer := repos.product(t, tools.ID, "Martillo", 8990, 5)

	item, err := srv.AddItem(ctx, user.ID, hammer.ID, 2)
	require.NoError(t, err)
	assert.Equal(t, 2, item.Quantity)

	item, err = srv.AddItem(ctx, user.ID, hammer.ID, 3)
	require.NoError(t, err)
	assert.Equal(t, 5, item.Quantity)

	cart, err := srv.GetCart(ctx, user.ID)
	require.NoError(t, err)
	require.Len(t, cart.Items, 1)
	assert.Equal(t, 5, cart.ItemCount())
	assert.True(t, decimal.NewFromInt(44950).Equal(cart.Total()))
}

func TestCartService_AddItemRejects(t *testing.T) {
	repos := newTestRepos(t)
	srv := newCartService(repos)
	ctx := context.Background()
	user := repos.user(t, "juan", "juan@ferremas.cl")
	tools := repos.category(t, "Herramientas")
	hammer := repos.product(t, tools.ID, "Martillo", 8990, 2)

	_, err := srv.AddItem(ctx, user.ID, hammer.ID, 0)
	assert.True(t, errors.Is(err, domainerrors.ErrInvalidQuantity))

	_, err = srv.AddItem(ctx, user.ID, 999, 1)
	assert.True(t, errors.Is(err, domainerrors.ErrProductNotFound))

	_, err = srv.AddItem(ctx, user.ID, hammer.ID, 3)
	assert.True(t, errors.Is(err, domainerrors.ErrInsufficientStock))

	_, err = srv.AddItem(ctx, user.ID, hammer.ID, 2)
	require.NoError(t, err)
	_, err = srv.AddItem(ctx, user.ID, hammer.ID, 1)
	assert.True(t, errors.Is(err, domainerrors.ErrInsufficientStock), "merged quantity is stock-checked")
}

func TestCartService_UpdateItem(t *testing.T) {
	repos := newTestRepos(t)
	srv := newCartService(repos)
	ctx := context.Background()
	user := repos.user(t, "juan", "juan@ferremas.cl")
	other := repos.user(t, "ana", "ana@ferremas.cl")
	tools := repos.category(t, "Herramientas")
	hammer := repos.product(t, tools.ID, "Martillo", 8990, 4)
	line := repos.cartLine(t, user.ID, hammer.ID, 1)

	item, err := srv.UpdateItem(ctx, user.ID, line.ID, 4)
	require.NoError(t, err)
	assert.Equal(t, 4, item.Quantity)

	_, err = srv.UpdateItem(ctx, user.ID, line.ID, 5)
	assert.True(t, errors.Is(err, domainerrors.ErrInsufficientStock))

	_, err = srv.UpdateItem(ctx, other.ID, line.ID, 1)
	assert.True(t, errors.Is(err, domainerrors.ErrCartItemNotFound), "line of another user")

	item, err = srv.UpdateItem(ctx, user.ID, line.ID, 0)
	require.NoError(t, err)
	assert.Nil(t, item)

	cart, err := srv.GetCart(ctx, user.ID)
	require.NoError(t, err)
	assert.True(t, cart.IsEmpty())
}

func TestCartService_RemoveAndClear(t *testing.T) {
	repos := newTestRepos(t)
	srv := newCartService(repos)
	ctx := context.Background()
	user := repos.user(t, "juan", "juan@ferremas.cl")
	other := repos.user(t, "ana", "ana@ferremas.cl")
	tools := repos.category(t, "Herramientas")
	hammer := repos.product(t, tools.ID, "Martillo", 8990, 4)
	saw := repos.product(t, tools.ID, "Sierra", 12990, 4)
	first := repos.cartLine(t, user.ID, hammer.ID, 1)
	repos.cartLine(t, user.ID, saw.ID, 1)
	repos.cartLine(t, other.ID, saw.ID, 2)

	err := srv.RemoveItem(ctx, other.ID, first.ID)
	assert.True(t, errors.Is(err, domainerrors.ErrCartItemNotFound))

	require.NoError(t, srv.RemoveItem(ctx, user.ID, first.ID))
	require.NoError(t, srv.Clear(ctx, user.ID))

	cart, err := srv.GetCart(ctx, user.ID)
	require.NoError(t, err)
	assert.True(t, cart.IsEmpty())

	otherCart, err := srv.GetCart(ctx, other.ID)
	require.NoError(t, err)
	assert.Len(t, otherCart.Items, 1)
}
