package postgres

import (
	"context"

	"ferremas/internal/domain/entity"
	domainerrors "ferremas/internal/domain/errors"
	"ferremas/internal/domain/repository"
	"ferremas/internal/errors"
	"ferremas/internal/infra/persistence/model"

	"gorm.io/gorm"
)

type cartRepository struct {
	db *gorm.DB
}

// NewCartRepository creates a new cart repository.
func NewCartRepository(db *gorm.DB) repository.CartRepository {
	return &cartRepository{db: db}
}

func (repo *cartRepository) ListByUser(ctx context.Context, userID uint) ([]*entity.CartItem, error) {
	var itemsM []*model.CartItemModel
	err := repo.db.WithContext(ctx).
		Preload("Product").
		Where("user_id = ?", userID).
		Order("id").
		Find(&itemsM).Error
	if err != nil {
		return nil, errors.Wrap(err, "failed to list cart items")
	}

	items := make([]*entity.CartItem, 0, len(itemsM))
	for _, item := range itemsM {
		items = append(items, toCartItemDomain(item))
	}

	return items, nil
}

func (repo *cartRepository) FindByUserAndProduct(ctx context.Context, userID, productID uint) (*entity.CartItem, error) {
	return repo.findOne(ctx, "user_id = ? AND product_id = ?", userID, productID)
}

func (repo *cartRepository) FindByID(ctx context.Context, userID, itemID uint) (*entity.CartItem, error) {
	return repo.findOne(ctx, "id = ? AND user_id = ?", itemID, userID)
}

func (repo *cartRepository) findOne(ctx context.Context, query string, args ...any) (*entity.CartItem, error) {
	var itemM model.CartItemModel
	if err := repo.db.WithContext(ctx).Preload("Product").Where(query, args...).First(&itemM).Error; err != nil {
		if isRecordNotFound(err) {
			return nil, repository.ErrCartItemNotFound
		}

		return nil, errors.Wrap(err, "failed to find cart item")
	}

	return toCartItemDomain(&itemM), nil
}

func (repo *cartRepository) Create(ctx context.Context, item *entity.CartItem) error {
	itemM := &model.CartItemModel{
		UserID:    item.UserID,
		ProductID: item.ProductID,
		Quantity:  item.Quantity,
	}
	if err := repo.db.WithContext(ctx).Omit("Product").Create(itemM).Error; err != nil {
		if isForeignKeyConstraintViolation(err) {
			return domainerrors.ErrProductNotFound
		}

		return domainerrors.NewDatabaseExecuteError(err, "failed to create cart item")
	}

	item.ID = itemM.ID
	item.CreatedAt = itemM.CreatedAt

	return nil
}

func (repo *cartRepository) UpdateQuantity(ctx context.Context, itemID uint, quantity int) error {
	result := repo.db.WithContext(ctx).
		Model(&model.CartItemModel{}).
		Where("id = ?", itemID).
		Update("quantity", quantity)
	if result.Error != nil {
		return domainerrors.NewDatabaseExecuteError(result.Error, "failed to update cart item")
	}
	if result.RowsAffected == 0 {
		return repository.ErrCartItemNotFound
	}

	return nil
}

func (repo *cartRepository) Delete(ctx context.Context, userID, itemID uint) error {
	result := repo.db.WithContext(ctx).Where("id = ? AND user_id = ?", itemID, userID).Delete(&model.CartItemModel{})
	if result.Error != nil {
		return domainerrors.NewDatabaseExecuteError(result.Error, "failed to delete cart item")
	}
	if result.RowsAffected == 0 {
		return repository.ErrCartItemNotFound
	}

	return nil
}

func (repo *cartRepository) DeleteByProduct(ctx context.Context, productID uint) error {
	if err := repo.db.WithContext(ctx).Where("product_id = ?", productID).Delete(&model.CartItemModel{}).Error; err != nil {
		return domainerrors.NewDatabaseExecuteError(err, "failed to delete cart items by product")
	}

	return nil
}

func (repo *cartRepository) Clear(ctx context.Context, userID uint) error {
	if err := repo.db.WithContext(ctx).Where("user_id = ?", userID).Delete(&model.CartItemModel{}).Error; err != nil {
		return domainerrors.NewDatabaseExecuteError(err, "failed to clear cart")
	}

	return nil
}

func toCartItemDomain(data *model.CartItemModel) *entity.CartItem {
	return &entity.CartItem{
		ID:        data.ID,
		UserID:    data.UserID,
		ProductID: data.ProductID,
		Quantity:  data.Quantity,
		Product:   toProductDomain(data.Product),
		CreatedAt: data.CreatedAt,
	}
}
