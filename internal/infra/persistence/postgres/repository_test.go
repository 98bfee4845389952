package postgres

import (
	"context"
	"testing"
	"time"

	"ferremas/internal/domain/entity"
	domainerrors "ferremas/internal/domain/errors"
	"ferremas/internal/domain/repository"
	"ferremas/internal/errors"
	"ferremas/internal/infra/persistence/dbtest"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func createUser(t *testing.T, db *gorm.DB, username, email string) *entity.User {
	t.Helper()

	user := &entity.User{Username: username, Email: email, IsActive: true}
	require.NoError(t, NewUserRepository(db).Create(context.Background(), user))

	return user
}

func createProduct(t *testing.T, db *gorm.DB, name string, price int64, stock int) *entity.Product {
	t.Helper()
	ctx := context.Background()

	categories := NewCategoryRepository(db)
	category := &entity.Category{Name: "Categoria " + name}
	require.NoError(t, categories.Create(ctx, category))

	product := &entity.Product{
		Name:       name,
		Price:      decimal.NewFromInt(price),
		Stock:      stock,
		CategoryID: category.ID,
	}
	require.NoError(t, NewProductRepository(db).Create(ctx, product))

	return product
}

func TestUserRepository_CreateAndFind(t *testing.T) {
	db := dbtest.Open(t)
	repo := NewUserRepository(db)
	ctx := context.Background()

	user := createUser(t, db, "juan", "Juan@Ferremas.cl")
	assert.NotZero(t, user.ID)
	assert.Equal(t, "juan@ferremas.cl", user.Email)

	found, err := repo.FindByEmail(ctx, "JUAN@ferremas.cl")
	require.NoError(t, err)
	assert.Equal(t, user.ID, found.ID)
	assert.True(t, found.IsActive)

	found, err = repo.FindByUsername(ctx, "juan")
	require.NoError(t, err)
	assert.Equal(t, user.ID, found.ID)

	_, err = repo.FindByID(ctx, 999)
	assert.ErrorIs(t, err, repository.ErrUserNotFound)
}

func TestUserRepository_CreateConflicts(t *testing.T) {
	db := dbtest.Open(t)
	repo := NewUserRepository(db)
	ctx := context.Background()

	createUser(t, db, "juan", "juan@ferremas.cl")

	err := repo.Create(ctx, &entity.User{Username: "juan", Email: "otro@ferremas.cl", IsActive: true})
	assert.ErrorIs(t, err, domainerrors.ErrUsernameTaken)

	err = repo.Create(ctx, &entity.User{Username: "pedro", Email: "juan@ferremas.cl", IsActive: true})
	assert.ErrorIs(t, err, domainerrors.ErrUserAlreadyExists)
}

func TestUserRepository_Update(t *testing.T) {
	db := dbtest.Open(t)
	repo := NewUserRepository(db)
	ctx := context.Background()

	user := createUser(t, db, "juan", "juan@ferremas.cl")
	user.IsActive = false
	user.IsAdmin = true
	require.NoError(t, repo.Update(ctx, user))

	found, err := repo.FindByID(ctx, user.ID)
	require.NoError(t, err)
	assert.False(t, found.IsActive)
	assert.True(t, found.IsAdmin)

	assert.ErrorIs(t, repo.Update(ctx, &entity.User{ID: 999, Username: "x", Email: "x@x.cl"}), repository.ErrUserNotFound)
}

func TestAuthRepository(t *testing.T) {
	db := dbtest.Open(t)
	repo := NewAuthRepository(db)
	ctx := context.Background()

	user := createUser(t, db, "juan", "juan@ferremas.cl")
	auth := &entity.Authentication{
		UserID:         user.ID,
		Provider:       entity.ProviderTypeEmail,
		ProviderUserID: user.Email,
		PasswordHash:   "hash",
	}
	require.NoError(t, repo.CreateAuthentication(ctx, auth))

	found, err := repo.FindAuthentication(ctx, entity.ProviderTypeEmail, user.Email)
	require.NoError(t, err)
	assert.Equal(t, user.ID, found.UserID)
	assert.Equal(t, "hash", found.PasswordHash)

	_, err = repo.FindAuthentication(ctx, entity.ProviderTypeGoogle, user.Email)
	assert.ErrorIs(t, err, repository.ErrAuthNotFound)

	err = repo.CreateAuthentication(ctx, &entity.Authentication{
		UserID: user.ID, Provider: entity.ProviderTypeEmail, ProviderUserID: user.Email,
	})
	assert.ErrorIs(t, err, domainerrors.ErrUserAlreadyExists)
}

func TestRefreshTokenRepository(t *testing.T) {
	db := dbtest.Open(t)
	repo := NewRefreshTokenRepository(db)
	ctx := context.Background()

	user := createUser(t, db, "juan", "juan@ferremas.cl")

	valid := &entity.RefreshToken{UserID: user.ID, TokenHash: "valid", ExpiresAt: time.Now().Add(time.Hour)}
	expired := &entity.RefreshToken{UserID: user.ID, TokenHash: "expired", ExpiresAt: time.Now().Add(-time.Hour)}
	require.NoError(t, repo.CreateRefreshToken(ctx, valid))
	require.NoError(t, repo.CreateRefreshToken(ctx, expired))

	found, err := repo.FindRefreshTokenByHash(ctx, "valid")
	require.NoError(t, err)
	assert.Equal(t, valid.ID, found.ID)

	_, err = repo.FindRefreshTokenByHash(ctx, "expired")
	assert.ErrorIs(t, err, repository.ErrRefreshTokenExpired)

	_, err = repo.FindRefreshTokenByHash(ctx, "missing")
	assert.ErrorIs(t, err, repository.ErrRefreshTokenNotFound)

	deleted, err := repo.DeleteExpiredRefreshTokens(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), deleted)

	require.NoError(t, repo.DeleteRefreshTokenByHash(ctx, "valid"))
	assert.ErrorIs(t, repo.DeleteRefreshTokenByHash(ctx, "valid"), repository.ErrRefreshTokenNotFound)
}

func TestCategoryRepository(t *testing.T) {
	db := dbtest.Open(t)
	repo := NewCategoryRepository(db)
	ctx := context.Background()

	tools := &entity.Category{Name: "Herramientas", Icon: "fa-tools"}
	require.NoError(t, repo.Create(ctx, tools))
	assert.ErrorIs(t, repo.Create(ctx, &entity.Category{Name: "Herramientas"}), domainerrors.ErrCategoryAlreadyExists)

	sub := &entity.SubCategory{CategoryID: tools.ID, Name: "Taladros"}
	require.NoError(t, repo.CreateSubCategory(ctx, sub))
	require.NoError(t, repo.CreateSubCategory(ctx, &entity.SubCategory{CategoryID: tools.ID, Name: "Martillos"}))

	assert.ErrorIs(t, repo.CreateSubCategory(ctx, &entity.SubCategory{CategoryID: 999, Name: "X"}), domainerrors.ErrCategoryNotFound)

	found, err := repo.FindByID(ctx, tools.ID)
	require.NoError(t, err)
	require.Len(t, found.SubCategories, 2)
	assert.Equal(t, "Martillos", found.SubCategories[0].Name)

	subs, err := repo.ListSubCategories(ctx, tools.ID)
	require.NoError(t, err)
	assert.Len(t, subs, 2)

	foundSub, err := repo.FindSubCategory(ctx, sub.ID)
	require.NoError(t, err)
	assert.Equal(t, tools.ID, foundSub.CategoryID)

	_, err = repo.FindByID(ctx, 999)
	assert.ErrorIs(t, err, repository.ErrCategoryNotFound)
	_, err = repo.FindSubCategory(ctx, 999)
	assert.ErrorIs(t, err, repository.ErrSubCategoryNotFound)

	all, err := repo.List(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 1)
}

func TestProductRepository_ListFilters(t *testing.T) {
	db := dbtest.Open(t)
	repo := NewProductRepository(db)
	ctx := context.Background()

	drill := createProduct(t, db, "Taladro Percutor", 59990, 10)
	hammer := createProduct(t, db, "Martillo", 8990, 5)
	hammer.IsPromotion = true
	hammer.PromotionPrice = decimal.NewFromInt(6990)
	hammer.IsFeatured = true
	require.NoError(t, repo.Update(ctx, hammer))

	all, err := repo.List(ctx, entity.ProductFilter{})
	require.NoError(t, err)
	assert.Len(t, all, 2)
	require.NotNil(t, all[0].Category)

	promos, err := repo.List(ctx, entity.ProductFilter{Promotion: true})
	require.NoError(t, err)
	require.Len(t, promos, 1)
	assert.True(t, decimal.NewFromInt(6990).Equal(promos[0].EffectivePrice()))

	byCategory, err := repo.List(ctx, entity.ProductFilter{CategoryID: drill.CategoryID})
	require.NoError(t, err)
	require.Len(t, byCategory, 1)
	assert.Equal(t, drill.ID, byCategory[0].ID)

	search, err := repo.List(ctx, entity.ProductFilter{Search: "taladro"})
	require.NoError(t, err)
	assert.Len(t, search, 1)

	limited, err := repo.List(ctx, entity.ProductFilter{Limit: 1})
	require.NoError(t, err)
	assert.Len(t, limited, 1)
}

func TestProductRepository_DecrementStock(t *testing.T) {
	db := dbtest.Open(t)
	repo := NewProductRepository(db)
	ctx := context.Background()

	product := createProduct(t, db, "Taladro", 59990, 3)

	require.NoError(t, repo.DecrementStock(ctx, product.ID, 2))
	assert.ErrorIs(t, repo.DecrementStock(ctx, product.ID, 2), repository.ErrStockConflict)

	found, err := repo.FindByID(ctx, product.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, found.Stock)
}

func TestProductRepository_PriceHistory(t *testing.T) {
	db := dbtest.Open(t)
	repo := NewProductRepository(db)
	ctx := context.Background()

	product := createProduct(t, db, "Taladro", 59990, 3)
	require.NoError(t, repo.AppendPriceHistory(ctx, product.ID, decimal.NewFromInt(59990), decimal.NewFromInt(54990)))
	require.NoError(t, repo.AppendPriceHistory(ctx, product.ID, decimal.NewFromInt(54990), decimal.NewFromInt(49990)))

	history, err := repo.ListPriceHistory(ctx, product.ID)
	require.NoError(t, err)
	require.Len(t, history, 2)
	assert.True(t, decimal.NewFromInt(49990).Equal(history[0].NewPrice))
}

func TestProductRepository_Delete(t *testing.T) {
	db := dbtest.Open(t)
	repo := NewProductRepository(db)
	ctx := context.Background()

	user := createUser(t, db, "juan", "juan@ferremas.cl")
	product := createProduct(t, db, "Taladro", 59990, 3)
	require.NoError(t, NewCartRepository(db).Create(ctx, &entity.CartItem{UserID: user.ID, ProductID: product.ID, Quantity: 1}))

	require.NoError(t, repo.Delete(ctx, product.ID))

	items, err := NewCartRepository(db).ListByUser(ctx, user.ID)
	require.NoError(t, err)
	assert.Empty(t, items)

	assert.ErrorIs(t, repo.Delete(ctx, product.ID), repository.ErrProductNotFound)
}

func TestProductRepository_DeleteWithOrdersConflicts(t *testing.T) {
	db := dbtest.Open(t)
	ctx := context.Background()

	user := createUser(t, db, "juan", "juan@ferremas.cl")
	product := createProduct(t, db, "Taladro", 59990, 3)
	order := &entity.Order{
		UserID:      user.ID,
		TotalAmount: product.Price,
		Status:      entity.OrderStatusPending,
		Items:       []*entity.OrderItem{{ProductID: product.ID, Quantity: 1, PriceAtTime: product.Price}},
	}
	require.NoError(t, NewOrderRepository(db).Create(ctx, order))

	assert.ErrorIs(t, NewProductRepository(db).Delete(ctx, product.ID), domainerrors.ErrProductInUse)
}

func TestCartRepository(t *testing.T) {
	db := dbtest.Open(t)
	repo := NewCartRepository(db)
	ctx := context.Background()

	user := createUser(t, db, "juan", "juan@ferremas.cl")
	other := createUser(t, db, "pedro", "pedro@ferremas.cl")
	product := createProduct(t, db, "Taladro", 59990, 3)

	item := &entity.CartItem{UserID: user.ID, ProductID: product.ID, Quantity: 1}
	require.NoError(t, repo.Create(ctx, item))

	found, err := repo.FindByUserAndProduct(ctx, user.ID, product.ID)
	require.NoError(t, err)
	assert.Equal(t, item.ID, found.ID)
	require.NotNil(t, found.Product)
	assert.Equal(t, "Taladro", found.Product.Name)

	_, err = repo.FindByID(ctx, other.ID, item.ID)
	assert.ErrorIs(t, err, repository.ErrCartItemNotFound)
	assert.ErrorIs(t, repo.Delete(ctx, other.ID, item.ID), repository.ErrCartItemNotFound)

	require.NoError(t, repo.UpdateQuantity(ctx, item.ID, 3))
	items, err := repo.ListByUser(ctx, user.ID)
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, 3, items[0].Quantity)

	require.NoError(t, repo.Clear(ctx, user.ID))
	items, err = repo.ListByUser(ctx, user.ID)
	require.NoError(t, err)
	assert.Empty(t, items)
}

func TestOrderAndPaymentRepository(t *testing.T) {
	db := dbtest.Open(t)
	orders := NewOrderRepository(db)
	payments := NewPaymentRepository(db)
	ctx := context.Background()

	user := createUser(t, db, "juan", "juan@ferremas.cl")
	product := createProduct(t, db, "Taladro", 59990, 3)

	order := &entity.Order{
		UserID:      user.ID,
		TotalAmount: decimal.NewFromInt(119980),
		Status:      entity.OrderStatusPending,
		Items:       []*entity.OrderItem{{ProductID: product.ID, Quantity: 2, PriceAtTime: decimal.NewFromInt(59990)}},
	}
	require.NoError(t, orders.Create(ctx, order))
	assert.NotZero(t, order.Items[0].ID)

	tx := &entity.WebpayTransaction{
		OrderID:   order.ID,
		BuyOrder:  entity.BuyOrderFor(order.ID),
		SessionID: entity.SessionIDFor(user.ID),
		Amount:    119980,
		Status:    entity.TransactionStatusPending,
	}
	require.NoError(t, payments.Create(ctx, tx))

	// A second tokenless attempt must not collide on the token index.
	require.NoError(t, payments.Create(ctx, &entity.WebpayTransaction{
		OrderID: order.ID, BuyOrder: tx.BuyOrder, SessionID: tx.SessionID, Amount: 1, Status: entity.TransactionStatusFailed,
	}))

	tx.Token = "tok-123"
	code := 0
	tx.ResponseCode = &code
	tx.Status = entity.TransactionStatusCompleted
	tx.CardLastDigits = "6623"
	require.NoError(t, payments.Update(ctx, tx))

	found, err := payments.FindByToken(ctx, "tok-123")
	require.NoError(t, err)
	assert.Equal(t, entity.TransactionStatusCompleted, found.Status)
	require.NotNil(t, found.ResponseCode)
	assert.Equal(t, 0, *found.ResponseCode)
	assert.Equal(t, "6623", found.CardLastDigits)

	latest, err := payments.FindLatestByOrder(ctx, order.ID)
	require.NoError(t, err)
	assert.Equal(t, entity.TransactionStatusFailed, latest.Status)

	_, err = payments.FindByBuyOrder(ctx, tx.BuyOrder)
	require.NoError(t, err)

	_, err = payments.FindByToken(ctx, "")
	assert.ErrorIs(t, err, repository.ErrTransactionNotFound)

	require.NoError(t, orders.UpdateStatus(ctx, order.ID, entity.OrderStatusCompleted))
	loaded, err := orders.FindByID(ctx, order.ID)
	require.NoError(t, err)
	assert.Equal(t, entity.OrderStatusCompleted, loaded.Status)
	require.NotNil(t, loaded.User)
	assert.Equal(t, "juan", loaded.User.Username)
	require.Len(t, loaded.Items, 1)
	assert.Equal(t, "Taladro", loaded.Items[0].Product.Name)

	list, err := orders.ListByUser(ctx, user.ID)
	require.NoError(t, err)
	assert.Len(t, list, 1)

	assert.ErrorIs(t, orders.UpdateStatus(ctx, 999, entity.OrderStatusFailed), repository.ErrOrderNotFound)
}

func TestTransactionManager_RollsBackOnError(t *testing.T) {
	db := dbtest.Open(t)
	tm := NewTransactionManager(db)
	ctx := context.Background()

	boom := errors.New("boom")
	err := tm.Execute(ctx, func(f repository.RepositoryFactory) error {
		if err := f.CategoryRepo().Create(ctx, &entity.Category{Name: "Temporal"}); err != nil {
			return err
		}

		return boom
	})
	assert.ErrorIs(t, err, boom)

	categories, err := NewCategoryRepository(db).List(ctx)
	require.NoError(t, err)
	assert.Empty(t, categories)

	require.NoError(t, tm.Execute(ctx, func(f repository.RepositoryFactory) error {
		return f.CategoryRepo().Create(ctx, &entity.Category{Name: "Persistente"})
	}))
	categories, err = NewCategoryRepository(db).List(ctx)
	require.NoError(t, err)
	assert.Len(t, categories, 1)
}

func TestStoreRepository(t *testing.T) {
	db := dbtest.Open(t)
	repo := NewStoreRepository(db)
	ctx := context.Background()

	require.NoError(t, repo.Create(ctx, &entity.Store{Name: "Ferremas Centro", Address: "Alameda 123", Latitude: -33.44, Longitude: -70.65}))

	stores, err := repo.List(ctx)
	require.NoError(t, err)
	require.Len(t, stores, 1)
	assert.Equal(t, "Ferremas Centro", stores[0].Name)
}
