package postgres

import (
	"context"
	"strings"
	"time"

	"ferremas/internal/domain/entity"
	domainerrors "ferremas/internal/domain/errors"
	"ferremas/internal/domain/repository"
	"ferremas/internal/errors"
	"ferremas/internal/infra/persistence/model"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// productUpdateColumns are written on every Update, zero values included.
var productUpdateColumns = []string{
	"name", "description", "price", "stock", "image",
	"is_featured", "is_promotion", "promotion_price", "category_id", "sub_category_id", "updated_at",
}

type productRepository struct {
	db *gorm.DB
}

// NewProductRepository creates a new product repository.
func NewProductRepository(db *gorm.DB) repository.ProductRepository {
	return &productRepository{db: db}
}

func (repo *productRepository) List(ctx context.Context, filter entity.ProductFilter) ([]*entity.Product, error) {
	query := repo.db.WithContext(ctx).Preload("Category").Preload("SubCategory")

	if filter.CategoryID != 0 {
		query = query.Where("category_id = ?", filter.CategoryID)
	}
	if filter.SubCategoryID != 0 {
		query = query.Where("sub_category_id = ?", filter.SubCategoryID)
	}
	if filter.Featured {
		query = query.Where("is_featured = ?", true)
	}
	if filter.Promotion {
		query = query.Where("is_promotion = ?", true)
	}
	if search := strings.TrimSpace(filter.Search); search != "" {
		query = query.Where("LOWER(name) LIKE ?", "%"+strings.ToLower(search)+"%")
	}
	if filter.Limit > 0 {
		query = query.Limit(filter.Limit)
	}

	var productsM []*model.ProductModel
	if err := query.Order("id").Find(&productsM).Error; err != nil {
		return nil, errors.Wrap(err, "failed to list products")
	}

	return toProductsDomain(productsM), nil
}

func (repo *productRepository) FindByID(ctx context.Context, id uint) (*entity.Product, error) {
	var productM model.ProductModel
	err := repo.db.WithContext(ctx).Preload("Category").Preload("SubCategory").First(&productM, id).Error
	if err != nil {
		if isRecordNotFound(err) {
			return nil, repository.ErrProductNotFound
		}

		return nil, errors.Wrap(err, "failed to find product")
	}

	return toProductDomain(&productM), nil
}

func (repo *productRepository) FindByIDs(ctx context.Context, ids []uint) ([]*entity.Product, error) {
	if len(ids) == 0 {
		return nil, nil
	}

	var productsM []*model.ProductModel
	if err := repo.db.WithContext(ctx).Where("id IN ?", ids).Order("id").Find(&productsM).Error; err != nil {
		return nil, errors.Wrap(err, "failed to find products")
	}

	return toProductsDomain(productsM), nil
}

func (repo *productRepository) Create(ctx context.Context, product *entity.Product) error {
	productM := fromProductDomain(product)
	if err := repo.db.WithContext(ctx).Omit("Category", "SubCategory", "PriceHistory").Create(productM).Error; err != nil {
		if isForeignKeyConstraintViolation(err) {
			return domainerrors.ErrCategoryNotFound
		}

		return domainerrors.NewDatabaseExecuteError(err, "failed to create product")
	}

	product.ID = productM.ID
	product.CreatedAt = productM.CreatedAt
	product.UpdatedAt = productM.UpdatedAt

	return nil
}

func (repo *productRepository) Update(ctx context.Context, product *entity.Product) error {
	productM := fromProductDomain(product)
	productM.UpdatedAt = time.Now()
	result := repo.db.WithContext(ctx).
		Model(&model.ProductModel{ID: product.ID}).
		Select(productUpdateColumns).
		Updates(productM)
	if result.Error != nil {
		if isForeignKeyConstraintViolation(result.Error) {
			return domainerrors.ErrCategoryNotFound
		}

		return domainerrors.NewDatabaseExecuteError(result.Error, "failed to update product")
	}
	if result.RowsAffected == 0 {
		return repository.ErrProductNotFound
	}
	product.UpdatedAt = productM.UpdatedAt

	return nil
}

// Delete removes the product together with the cart lines that reference it.
func (repo *productRepository) Delete(ctx context.Context, id uint) error {
	db := repo.db.WithContext(ctx)
	if err := db.Where("product_id = ?", id).Delete(&model.CartItemModel{}).Error; err != nil {
		return domainerrors.NewDatabaseExecuteError(err, "failed to delete product cart items")
	}

	result := db.Delete(&model.ProductModel{}, id)
	if result.Error != nil {
		if isForeignKeyConstraintViolation(result.Error) {
			return domainerrors.ErrProductInUse
		}

		return domainerrors.NewDatabaseExecuteError(result.Error, "failed to delete product")
	}
	if result.RowsAffected == 0 {
		return repository.ErrProductNotFound
	}

	return nil
}

func (repo *productRepository) DecrementStock(ctx context.Context, id uint, quantity int) error {
	result := repo.db.WithContext(ctx).
		Model(&model.ProductModel{}).
		Where("id = ? AND stock >= ?", id, quantity).
		UpdateColumn("stock", gorm.Expr("stock - ?", quantity))
	if result.Error != nil {
		return domainerrors.NewDatabaseExecuteError(result.Error, "failed to decrement stock")
	}
	if result.RowsAffected == 0 {
		return repository.ErrStockConflict
	}

	return nil
}

func (repo *productRepository) AppendPriceHistory(ctx context.Context, productID uint, oldPrice, newPrice decimal.Decimal) error {
	historyM := &model.PriceHistoryModel{
		ProductID: productID,
		OldPrice:  oldPrice,
		NewPrice:  newPrice,
		ChangedAt: time.Now(),
	}
	if err := repo.db.WithContext(ctx).Create(historyM).Error; err != nil {
		return domainerrors.NewDatabaseExecuteError(err, "failed to append price history")
	}

	return nil
}

func (repo *productRepository) ListPriceHistory(ctx context.Context, productID uint) ([]*entity.PriceHistory, error) {
	var historyM []*model.PriceHistoryModel
	err := repo.db.WithContext(ctx).
		Where("product_id = ?", productID).
		Order("changed_at DESC").Order("id DESC").
		Find(&historyM).Error
	if err != nil {
		return nil, errors.Wrap(err, "failed to list price history")
	}

	history := make([]*entity.PriceHistory, 0, len(historyM))
	for _, h := range historyM {
		history = append(history, &entity.PriceHistory{
			ID:        h.ID,
			ProductID: h.ProductID,
			OldPrice:  h.OldPrice,
			NewPrice:  h.NewPrice,
			ChangedAt: h.ChangedAt,
		})
	}

	return history, nil
}

func toProductsDomain(data []*model.ProductModel) []*entity.Product {
	products := make([]*entity.Product, 0, len(data))
	for _, p := range data {
		products = append(products, toProductDomain(p))
	}

	return products
}

func toProductDomain(data *model.ProductModel) *entity.Product {
	if data == nil {
		return nil
	}

	product := &entity.Product{
		ID:             data.ID,
		Name:           data.Name,
		Description:    data.Description,
		Price:          data.Price,
		Stock:          data.Stock,
		Image:          data.Image,
		IsFeatured:     data.IsFeatured,
		IsPromotion:    data.IsPromotion,
		PromotionPrice: data.PromotionPrice,
		CategoryID:     data.CategoryID,
		SubCategoryID:  data.SubCategoryID,
		CreatedAt:      data.CreatedAt,
		UpdatedAt:      data.UpdatedAt,
	}
	if data.Category != nil {
		product.Category = &entity.Category{
			ID:          data.Category.ID,
			Name:        data.Category.Name,
			Description: data.Category.Description,
			Icon:        data.Category.Icon,
			CreatedAt:   data.Category.CreatedAt,
		}
	}
	product.SubCategory = toSubCategoryDomain(data.SubCategory)

	return product
}

// fromProductDomain never sets associations, so saves do not upsert categories.
func fromProductDomain(data *entity.Product) *model.ProductModel {
	return &model.ProductModel{
		ID:             data.ID,
		Name:           data.Name,
		Description:    data.Description,
		Price:          data.Price,
		Stock:          data.Stock,
		Image:          data.Image,
		IsFeatured:     data.IsFeatured,
		IsPromotion:    data.IsPromotion,
		PromotionPrice: data.PromotionPrice,
		CategoryID:     data.CategoryID,
		SubCategoryID:  data.SubCategoryID,
	}
}
