package usecase

import (
	"context"
	"io"

	"ferremas/internal/domain/entity"

	"github.com/shopspring/decimal"
)

// ImageUpload is a product image sent as a multipart file.
type ImageUpload struct {
	Filename    string
	ContentType string
	Content     io.Reader
}

// CreateProductInput defines a new catalog product. Image takes precedence over ImageURL.
type CreateProductInput struct {
	Name           string
	Description    string
	Price          decimal.Decimal
	Stock          int
	IsFeatured     bool
	IsPromotion    bool
	PromotionPrice decimal.Decimal
	CategoryID     uint
	SubCategoryID  *uint
	ImageURL       string
	Image          *ImageUpload
}

// UpdateProductInput changes only the non-nil fields.
type UpdateProductInput struct {
	Name           *string
	Description    *string
	Price          *decimal.Decimal
	Stock          *int
	IsFeatured     *bool
	IsPromotion    *bool
	PromotionPrice *decimal.Decimal
	CategoryID     *uint
	SubCategoryID  *uint
	// ClearSubCategory removes the subcategory; it wins over SubCategoryID.
	ClearSubCategory bool
	ImageURL         *string
	Image            *ImageUpload
}

type CreateCategoryInput struct {
	Name        string
	Description string
	Icon        string
}

// HomeOutput is the storefront landing page content.
type HomeOutput struct {
	Featured   []*entity.Product
	Promotions []*entity.Product
	Categories []*entity.Category
}

// CategoryDetail is a category with its products.
type CategoryDetail struct {
	Category *entity.Category
	Products []*entity.Product
}

// CatalogUsecase defines catalog browsing and administration.
type CatalogUsecase interface {
	Home(ctx context.Context) (*HomeOutput, error)
	ListProducts(ctx context.Context, filter entity.ProductFilter) ([]*entity.Product, error)
	GetProduct(ctx context.Context, id uint) (*entity.Product, error)
	CreateProduct(ctx context.Context, input *CreateProductInput) (*entity.Product, error)
	UpdateProduct(ctx context.Context, id uint, input *UpdateProductInput) (*entity.Product, error)
	DeleteProduct(ctx context.Context, id uint) error
	ListPriceHistory(ctx context.Context, productID uint) ([]*entity.PriceHistory, error)

	ListCategories(ctx context.Context) ([]*entity.Category, error)
	GetCategory(ctx context.Context, id uint) (*CategoryDetail, error)
	CreateCategory(ctx context.Context, input *CreateCategoryInput) (*entity.Category, error)
	ListSubCategories(ctx context.Context, categoryID uint) ([]*entity.SubCategory, error)
	CreateSubCategory(ctx context.Context, categoryID uint, name string) (*entity.SubCategory, error)
}
