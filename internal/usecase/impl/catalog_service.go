package impl

import (
	"context"
	"log/slog"
	"strings"

	deliverycontext "ferremas/internal/delivery/context"
	"ferremas/internal/domain/constants"
	"ferremas/internal/domain/entity"
	domainerrors "ferremas/internal/domain/errors"
	"ferremas/internal/domain/repository"
	"ferremas/internal/domain/service"
	"ferremas/internal/errors"
	"ferremas/internal/usecase"

	"go.uber.org/fx"
)

type catalogService struct {
	txManager    repository.TransactionManager
	categoryRepo repository.CategoryRepository
	productRepo  repository.ProductRepository
	imageStorage service.ImageStorage
	logger       *slog.Logger
}

// CatalogServiceParams holds dependencies for CatalogService, injected by Fx.
type CatalogServiceParams struct {
	fx.In

	TxManager    repository.TransactionManager
	CategoryRepo repository.CategoryRepository
	ProductRepo  repository.ProductRepository
	ImageStorage service.ImageStorage
	Logger       *slog.Logger
}

// NewCatalogService creates the catalog use case.
func NewCatalogService(params CatalogServiceParams) usecase.CatalogUsecase {
	return &catalogService{
		txManager:    params.TxManager,
		categoryRepo: params.CategoryRepo,
		productRepo:  params.ProductRepo,
		imageStorage: params.ImageStorage,
		logger:       params.Logger,
	}
}

func (srv *catalogService) log(ctx context.Context) *slog.Logger {
	return deliverycontext.GetLoggerOrDefault(ctx, srv.logger)
}

func (srv *catalogService) Home(ctx context.Context) (*usecase.HomeOutput, error) {
	featured, err := srv.productRepo.List(ctx, entity.ProductFilter{Featured: true, Limit: constants.HomeFeaturedLimit})
	if err != nil {
		return nil, errors.Wrap(err, "failed to list featured products")
	}

	promotions, err := srv.productRepo.List(ctx, entity.ProductFilter{Promotion: true, Limit: constants.HomePromotionsLimit})
	if err != nil {
		return nil, errors.Wrap(err, "failed to list promotion products")
	}

	categories, err := srv.categoryRepo.List(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "failed to list categories")
	}

	return &usecase.HomeOutput{
		Featured:   featured,
		Promotions: promotions,
		Categories: categories,
	}, nil
}

func (srv *catalogService) ListProducts(ctx context.Context, filter entity.ProductFilter) ([]*entity.Product, error) {
	products, err := srv.productRepo.List(ctx, filter)
	if err != nil {
		return nil, errors.Wrap(err, "failed to list products")
	}

	return products, nil
}

func (srv *catalogService) GetProduct(ctx context.Context, id uint) (*entity.Product, error) {
	product, err := srv.productRepo.FindByID(ctx, id)
	if err != nil {
		return nil, mapProductErr(err)
	}

	return product, nil
}

// CreateProduct validates the input, stores the optional image and inserts the product.
func (srv *catalogService) CreateProduct(ctx context.Context, input *usecase.CreateProductInput) (*entity.Product, error) {
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, domainerrors.ErrValidationFailed.WithDetails("name is required")
	}
	if !input.Price.IsPositive() {
		return nil, domainerrors.ErrInvalidPrice
	}
	if input.Stock < 0 {
		return nil, domainerrors.ErrValidationFailed.WithDetails("stock must not be negative")
	}
	if input.PromotionPrice.IsNegative() {
		return nil, domainerrors.ErrInvalidPrice.WithDetails("promotion price must not be negative")
	}

	if err := srv.checkCategory(ctx, srv.categoryRepo, input.CategoryID, input.SubCategoryID); err != nil {
		return nil, err
	}

	image := strings.TrimSpace(input.ImageURL)
	uploaded := ""
	if input.Image != nil {
		url, err := srv.imageStorage.Save(ctx, input.Image.Filename, input.Image.ContentType, input.Image.Content)
		if err != nil {
			return nil, err
		}
		image, uploaded = url, url
	}

	product := &entity.Product{
		Name:           name,
		Description:    strings.TrimSpace(input.Description),
		Price:          input.Price,
		Stock:          input.Stock,
		Image:          image,
		IsFeatured:     input.IsFeatured,
		IsPromotion:    input.IsPromotion,
		PromotionPrice: input.PromotionPrice,
		CategoryID:     input.CategoryID,
		SubCategoryID:  input.SubCategoryID,
	}
	if err := srv.productRepo.Create(ctx, product); err != nil {
		srv.discardImage(ctx, uploaded)

		return nil, errors.Wrap(err, "failed to create product")
	}

	srv.log(ctx).Info("Product created", slog.Uint64("product_id", uint64(product.ID)), slog.String("name", product.Name))

	return product, nil
}

// UpdateProduct applies a partial update. A price change is recorded in the price history
// within the same transaction.
func (srv *catalogService) UpdateProduct(ctx context.Context, id uint, input *usecase.UpdateProductInput) (*entity.Product, error) {
	uploaded := ""
	if input.Image != nil {
		url, err := srv.imageStorage.Save(ctx, input.Image.Filename, input.Image.ContentType, input.Image.Content)
		if err != nil {
			return nil, err
		}
		uploaded = url
	}

	var (
		product       *entity.Product
		previousImage string
	)
	err := srv.txManager.Execute(ctx, func(repoFactory repository.RepositoryFactory) error {
		productRepo := repoFactory.ProductRepo()

		var err error
		product, err = productRepo.FindByID(ctx, id)
		if err != nil {
			return mapProductErr(err)
		}
		previousImage = product.Image
		oldPrice := product.Price

		if err := applyProductUpdate(product, input); err != nil {
			return err
		}
		if uploaded != "" {
			product.Image = uploaded
		}

		if err := srv.checkCategory(ctx, repoFactory.CategoryRepo(), product.CategoryID, product.SubCategoryID); err != nil {
			return err
		}

		if err := productRepo.Update(ctx, product); err != nil {
			return errors.Wrap(err, "failed to update product")
		}

		if !oldPrice.Equal(product.Price) {
			if err := productRepo.AppendPriceHistory(ctx, product.ID, oldPrice, product.Price); err != nil {
				return errors.Wrap(err, "failed to record price change")
			}
			srv.log(ctx).Info("Product price changed",
				slog.Uint64("product_id", uint64(product.ID)),
				slog.String("old_price", oldPrice.String()),
				slog.String("new_price", product.Price.String()),
			)
		}

		return nil
	})
	if err != nil {
		srv.discardImage(ctx, uploaded)

		return nil, err
	}

	if previousImage != product.Image {
		srv.discardImage(ctx, previousImage)
	}

	return product, nil
}

func applyProductUpdate(product *entity.Product, input *usecase.UpdateProductInput) error {
	if input.Name != nil {
		name := strings.TrimSpace(*input.Name)
		if name == "" {
			return domainerrors.ErrValidationFailed.WithDetails("name must not be empty")
		}
		product.Name = name
	}
	if input.Description != nil {
		product.Description = strings.TrimSpace(*input.Description)
	}
	if input.Price != nil {
		if !input.Price.IsPositive() {
			return domainerrors.ErrInvalidPrice
		}
		product.Price = *input.Price
	}
	if input.Stock != nil {
		if *input.Stock < 0 {
			return domainerrors.ErrValidationFailed.WithDetails("stock must not be negative")
		}
		product.Stock = *input.Stock
	}
	if input.IsFeatured != nil {
		product.IsFeatured = *input.IsFeatured
	}
	if input.IsPromotion != nil {
		product.IsPromotion = *input.IsPromotion
	}
	if input.PromotionPrice != nil {
		if input.PromotionPrice.IsNegative() {
			return domainerrors.ErrInvalidPrice.WithDetails("promotion price must not be negative")
		}
		product.PromotionPrice = *input.PromotionPrice
	}
	if input.CategoryID != nil {
		product.CategoryID = *input.CategoryID
	}
	switch {
	case input.ClearSubCategory:
		product.SubCategoryID = nil
	case input.SubCategoryID != nil:
		product.SubCategoryID = input.SubCategoryID
	}
	if input.ImageURL != nil {
		product.Image = strings.TrimSpace(*input.ImageURL)
	}
	product.Category = nil
	product.SubCategory = nil

	return nil
}

// checkCategory enforces that the category exists and the subcategory belongs to it.
func (srv *catalogService) checkCategory(ctx context.Context, categoryRepo repository.CategoryRepository, categoryID uint, subCategoryID *uint) error {
	if categoryID == 0 {
		return domainerrors.ErrValidationFailed.WithDetails("category is required")
	}
	if _, err := categoryRepo.FindByID(ctx, categoryID); err != nil {
		if errors.Is(err, repository.ErrCategoryNotFound) {
			return domainerrors.ErrCategoryNotFound
		}

		return errors.Wrap(err, "failed to find category")
	}

	if subCategoryID == nil {
		return nil
	}

	sub, err := categoryRepo.FindSubCategory(ctx, *subCategoryID)
	if err != nil {
		if errors.Is(err, repository.ErrSubCategoryNotFound) {
			return domainerrors.ErrSubCategoryNotFound
		}

		return errors.Wrap(err, "failed to find subcategory")
	}
	if sub.CategoryID != categoryID {
		return domainerrors.ErrSubCategoryMismatch
	}

	return nil
}

func (srv *catalogService) DeleteProduct(ctx context.Context, id uint) error {
	product, err := srv.productRepo.FindByID(ctx, id)
	if err != nil {
		return mapProductErr(err)
	}

	if err := srv.txManager.Execute(ctx, func(repoFactory repository.RepositoryFactory) error {
		return repoFactory.ProductRepo().Delete(ctx, id)
	}); err != nil {
		return mapProductErr(err)
	}

	srv.discardImage(ctx, product.Image)
	srv.log(ctx).Info("Product deleted", slog.Uint64("product_id", uint64(id)))

	return nil
}

func (srv *catalogService) ListPriceHistory(ctx context.Context, productID uint) ([]*entity.PriceHistory, error) {
	if _, err := srv.productRepo.FindByID(ctx, productID); err != nil {
		return nil, mapProductErr(err)
	}

	history, err := srv.productRepo.ListPriceHistory(ctx, productID)
	if err != nil {
		return nil, errors.Wrap(err, "failed to list price history")
	}

	return history, nil
}

func (srv *catalogService) ListCategories(ctx context.Context) ([]*entity.Category, error) {
	categories, err := srv.categoryRepo.List(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "failed to list categories")
	}

	return categories, nil
}

func (srv *catalogService) GetCategory(ctx context.Context, id uint) (*usecase.CategoryDetail, error) {
	category, err := srv.findCategory(ctx, id)
	if err != nil {
		return nil, err
	}

	products, err := srv.productRepo.List(ctx, entity.ProductFilter{CategoryID: id})
	if err != nil {
		return nil, errors.Wrap(err, "failed to list category products")
	}

	return &usecase.CategoryDetail{Category: category, Products: products}, nil
}

func (srv *catalogService) CreateCategory(ctx context.Context, input *usecase.CreateCategoryInput) (*entity.Category, error) {
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, domainerrors.ErrValidationFailed.WithDetails("name is required")
	}

	category := &entity.Category{
		Name:        name,
		Description: strings.TrimSpace(input.Description),
		Icon:        strings.TrimSpace(input.Icon),
	}
	if err := srv.categoryRepo.Create(ctx, category); err != nil {
		return nil, errors.Wrap(err, "failed to create category")
	}

	return category, nil
}

func (srv *catalogService) ListSubCategories(ctx context.Context, categoryID uint) ([]*entity.SubCategory, error) {
	if _, err := srv.findCategory(ctx, categoryID); err != nil {
		return nil, err
	}

	subs, err := srv.categoryRepo.ListSubCategories(ctx, categoryID)
	if err != nil {
		return nil, errors.Wrap(err, "failed to list subcategories")
	}

	return subs, nil
}

func (srv *catalogService) CreateSubCategory(ctx context.Context, categoryID uint, name string) (*entity.SubCategory, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, domainerrors.ErrValidationFailed.WithDetails("name is required")
	}
	if _, err := srv.findCategory(ctx, categoryID); err != nil {
		return nil, err
	}

	sub := &entity.SubCategory{CategoryID: categoryID, Name: name}
	if err := srv.categoryRepo.CreateSubCategory(ctx, sub); err != nil {
		return nil, errors.Wrap(err, "failed to create subcategory")
	}

	return sub, nil
}

func (srv *catalogService) findCategory(ctx context.Context, id uint) (*entity.Category, error) {
	category, err := srv.categoryRepo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrCategoryNotFound) {
			return nil, domainerrors.ErrCategoryNotFound
		}

		return nil, errors.Wrap(err, "failed to find category")
	}

	return category, nil
}

// discardImage removes an uploaded image that is no longer referenced. Failures are only logged.
func (srv *catalogService) discardImage(ctx context.Context, url string) {
	if url == "" {
		return
	}
	if err := srv.imageStorage.Delete(ctx, url); err != nil {
		srv.log(ctx).Warn("Failed to delete product image", slog.String("url", url), slog.Any("error", err))
	}
}

func mapProductErr(err error) error {
	if errors.Is(err, repository.ErrProductNotFound) {
		return domainerrors.ErrProductNotFound
	}
	var appErr domainerrors.AppError
	if errors.As(err, &appErr) {
		return err
	}

	return errors.Wrap(err, "product operation failed")
}
