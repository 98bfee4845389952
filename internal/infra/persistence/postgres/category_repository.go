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

type categoryRepository struct {
	db *gorm.DB
}

// NewCategoryRepository creates a new category repository.
func NewCategoryRepository(db *gorm.DB) repository.CategoryRepository {
	return &categoryRepository{db: db}
}

// List returns every category with its subcategories, ordered by name.
func (repo *categoryRepository) List(ctx context.Context) ([]*entity.Category, error) {
	var categoriesM []*model.CategoryModel
	err := repo.db.WithContext(ctx).
		Preload("SubCategories", func(db *gorm.DB) *gorm.DB { return db.Order("name") }).
		Order("name").
		Find(&categoriesM).Error
	if err != nil {
		return nil, errors.Wrap(err, "failed to list categories")
	}

	categories := make([]*entity.Category, 0, len(categoriesM))
	for _, c := range categoriesM {
		categories = append(categories, toCategoryDomain(c))
	}

	return categories, nil
}

func (repo *categoryRepository) FindByID(ctx context.Context, id uint) (*entity.Category, error) {
	var categoryM model.CategoryModel
	err := repo.db.WithContext(ctx).
		Preload("SubCategories", func(db *gorm.DB) *gorm.DB { return db.Order("name") }).
		First(&categoryM, id).Error
	if err != nil {
		if isRecordNotFound(err) {
			return nil, repository.ErrCategoryNotFound
		}

		return nil, errors.Wrap(err, "failed to find category")
	}

	return toCategoryDomain(&categoryM), nil
}

func (repo *categoryRepository) Create(ctx context.Context, category *entity.Category) error {
	categoryM := &model.CategoryModel{
		Name:        category.Name,
		Description: category.Description,
		Icon:        category.Icon,
	}
	if err := repo.db.WithContext(ctx).Omit("SubCategories").Create(categoryM).Error; err != nil {
		if isUniqueConstraintViolation(err) {
			return domainerrors.ErrCategoryAlreadyExists
		}

		return domainerrors.NewDatabaseExecuteError(err, "failed to create category")
	}

	category.ID = categoryM.ID
	category.CreatedAt = categoryM.CreatedAt

	return nil
}

func (repo *categoryRepository) ListSubCategories(ctx context.Context, categoryID uint) ([]*entity.SubCategory, error) {
	var subsM []*model.SubCategoryModel
	if err := repo.db.WithContext(ctx).Where("category_id = ?", categoryID).Order("name").Find(&subsM).Error; err != nil {
		return nil, errors.Wrap(err, "failed to list subcategories")
	}

	subs := make([]*entity.SubCategory, 0, len(subsM))
	for _, s := range subsM {
		subs = append(subs, toSubCategoryDomain(s))
	}

	return subs, nil
}

func (repo *categoryRepository) FindSubCategory(ctx context.Context, id uint) (*entity.SubCategory, error) {
	var subM model.SubCategoryModel
	if err := repo.db.WithContext(ctx).First(&subM, id).Error; err != nil {
		if isRecordNotFound(err) {
			return nil, repository.ErrSubCategoryNotFound
		}

		return nil, errors.Wrap(err, "failed to find subcategory")
	}

	return toSubCategoryDomain(&subM), nil
}

func (repo *categoryRepository) CreateSubCategory(ctx context.Context, sub *entity.SubCategory) error {
	subM := &model.SubCategoryModel{
		CategoryID: sub.CategoryID,
		Name:       sub.Name,
	}
	if err := repo.db.WithContext(ctx).Create(subM).Error; err != nil {
		if isForeignKeyConstraintViolation(err) {
			return domainerrors.ErrCategoryNotFound
		}

		return domainerrors.NewDatabaseExecuteError(err, "failed to create subcategory")
	}

	sub.ID = subM.ID

	return nil
}

func toCategoryDomain(data *model.CategoryModel) *entity.Category {
	if data == nil {
		return nil
	}

	category := &entity.Category{
		ID:          data.ID,
		Name:        data.Name,
		Description: data.Description,
		Icon:        data.Icon,
		CreatedAt:   data.CreatedAt,
	}
	for i := range data.SubCategories {
		category.SubCategories = append(category.SubCategories, toSubCategoryDomain(&data.SubCategories[i]))
	}

	return category
}

func toSubCategoryDomain(data *model.SubCategoryModel) *entity.SubCategory {
	if data == nil {
		return nil
	}

	return &entity.SubCategory{
		ID:         data.ID,
		CategoryID: data.CategoryID,
		Name:       data.Name,
	}
}
