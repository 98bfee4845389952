package repository

import (
	"context"

	"ferremas/internal/domain/entity"
	"ferremas/internal/errors"

	"github.com/shopspring/decimal"
)

var (
	ErrCategoryNotFound    = errors.New("category not found")
	ErrSubCategoryNotFound = errors.New("subcategory not found")
	ErrProductNotFound     = errors.New("product not found")
	// ErrStockConflict is returned when a conditional stock decrement matched no row.
	ErrStockConflict = errors.New("insufficient stock for decrement")
)

// CategoryRepository persists categories and subcategories.
type CategoryRepository interface {
	List(ctx context.Context) ([]*entity.Category, error)
	FindByID(ctx context.Context, id uint) (*entity.Category, error)
	Create(ctx context.Context, category *entity.Category) error
	ListSubCategories(ctx context.Context, categoryID uint) ([]*entity.SubCategory, error)
	FindSubCategory(ctx context.Context, id uint) (*entity.SubCategory, error)
	CreateSubCategory(ctx context.Context, sub *entity.SubCategory) error
}

// ProductRepository persists products and their price history.
type ProductRepository interface {
	List(ctx context.Context, filter entity.ProductFilter) ([]*entity.Product, error)
	FindByID(ctx context.Context, id uint) (*entity.Product, error)
	FindByIDs(ctx context.Context, ids []uint) ([]*entity.Product, error)
	Create(ctx context.Context, product *entity.Product) error
	Update(ctx context.Context, product *entity.Product) error
	Delete(ctx context.Context, id uint) error
	// DecrementStock lowers stock only if at least quantity units remain.
	DecrementStock(ctx context.Context, id uint, quantity int) error
	AppendPriceHistory(ctx context.Context, productID uint, oldPrice, newPrice decimal.Decimal) error
	ListPriceHistory(ctx context.Context, productID uint) ([]*entity.PriceHistory, error)
}
