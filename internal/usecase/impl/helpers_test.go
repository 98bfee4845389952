package impl

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"ferremas/config"
	"ferremas/internal/domain/entity"
	"ferremas/internal/domain/repository"
	"ferremas/internal/infra/persistence/dbtest"
	"ferremas/internal/infra/persistence/postgres"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func testConfig() *config.Config {
	cfg := &config.Config{
		SecretKey: config.SecretKey{Access: "access-secret", Refresh: "refresh-secret"},
		Auth:      &config.AuthConfig{BcryptCost: bcrypt.MinCost, MinPasswordLength: 6},
		Mail:      &config.MailConfig{DefaultSender: "no-reply@ferremas.cl", ContactRecipient: "contacto@ferremas.cl"},
	}
	cfg.HTTP.PublicBaseURL = "http://localhost:5000"

	return cfg
}

// testRepos bundles a migrated database with repositories bound to it.
type testRepos struct {
	db         *gorm.DB
	tx         repository.TransactionManager
	users      repository.UserRepository
	auths      repository.AuthRepository
	tokens     repository.RefreshTokenRepository
	categories repository.CategoryRepository
	products   repository.ProductRepository
	carts      repository.CartRepository
	orders     repository.OrderRepository
	payments   repository.PaymentRepository
	stores     repository.StoreRepository
}

func newTestRepos(t *testing.T) *testRepos {
	t.Helper()

	db := dbtest.Open(t)

	return &testRepos{
		db:         db,
		tx:         postgres.NewTransactionManager(db),
		users:      postgres.NewUserRepository(db),
		auths:      postgres.NewAuthRepository(db),
		tokens:     postgres.NewRefreshTokenRepository(db),
		categories: postgres.NewCategoryRepository(db),
		products:   postgres.NewProductRepository(db),
		carts:      postgres.NewCartRepository(db),
		orders:     postgres.NewOrderRepository(db),
		payments:   postgres.NewPaymentRepository(db),
		stores:     postgres.NewStoreRepository(db),
	}
}

func (r *testRepos) user(t *testing.T, username, email string) *entity.User {
	t.Helper()

	user := &entity.User{Username: username, Email: email, IsActive: true}
	require.NoError(t, r.users.Create(context.Background(), user))

	return user
}

func (r *testRepos) category(t *testing.T, name string) *entity.Category {
	t.Helper()

	category := &entity.Category{Name: name}
	require.NoError(t, r.categories.Create(context.Background(), category))

	return category
}

func (r *testRepos) product(t *testing.T, categoryID uint, name string, price int64, stock int) *entity.Product {
	t.Helper()

	product := &entity.Product{
		Name:       name,
		Price:      decimal.NewFromInt(price),
		Stock:      stock,
		CategoryID: categoryID,
	}
	require.NoError(t, r.products.Create(context.Background(), product))

	return product
}

func (r *testRepos) cartLine(t *testing.T, userID, productID uint, quantity int) *entity.CartItem {
	t.Helper()

	item := &entity.CartItem{UserID: userID, ProductID: productID, Quantity: quantity}
	require.NoError(t, r.carts.Create(context.Background(), item))

	return item
}
