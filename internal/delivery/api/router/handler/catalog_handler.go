package handler

import (
	"encoding/json"
	"log/slog"
	"mime/multipart"
	"net/http"
	"strconv"
	"strings"

	"ferremas/internal/delivery/api/response"
	"ferremas/internal/domain/entity"
	domainerrors "ferremas/internal/domain/errors"
	"ferremas/internal/errors"
	"ferremas/internal/usecase"

	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"
	"go.uber.org/fx"
)

const imageFormField = "image"

// CatalogHandlerParams holds dependencies for CatalogHandler, injected by Fx.
type CatalogHandlerParams struct {
	fx.In

	CatalogUC usecase.CatalogUsecase
	Logger    *slog.Logger
}

// CatalogHandler serves products and categories.
type CatalogHandler struct {
	catalogUC usecase.CatalogUsecase
	logger    *slog.Logger
}

func NewCatalogHandler(params CatalogHandlerParams) *CatalogHandler {
	return &CatalogHandler{
		catalogUC: params.CatalogUC,
		logger:    params.Logger,
	}
}

// ProductRequest is the body of product create and update requests, sent as
// JSON or multipart form. Absent fields are left unchanged on update.
type ProductRequest struct {
	Name             *string      `json:"name"`
	Description      *string      `json:"description"`
	Price            *json.Number `json:"price"`
	Stock            *int         `json:"stock"`
	IsFeatured       *bool        `json:"is_featured"`
	IsPromotion      *bool        `json:"is_promotion"`
	PromotionPrice   *json.Number `json:"promotion_price"`
	CategoryID       *uint        `json:"category_id"`
	SubCategoryID    *uint        `json:"subcategory_id"`
	ClearSubCategory bool         `json:"clear_subcategory"`
	ImageURL         *string      `json:"image_url"`
}

type CategoryRequest struct {
	Name        string `json:"name" form:"name" validate:"required,max=100"`
	Description string `json:"description" form:"description"`
	Icon        string `json:"icon" form:"icon" validate:"max=50"`
}

type SubCategoryRequest struct {
	Name string `json:"name" form:"name" validate:"required,max=100"`
}

type HomeResponse struct {
	Featured   []*ProductResponse  `json:"featured"`
	Promotions []*ProductResponse  `json:"promotions"`
	Categories []*CategoryResponse `json:"categories"`
}

type CategoryDetailResponse struct {
	*CategoryResponse
	Products []*ProductResponse `json:"products"`
}

// Home handles GET /api/home.
func (h *CatalogHandler) Home(c echo.Context) error {
	home, err := h.catalogUC.Home(c.Request().Context())
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, &HomeResponse{
		Featured:   toProductResponses(home.Featured),
		Promotions: toProductResponses(home.Promotions),
		Categories: toCategoryResponses(home.Categories),
	})
}

// ListProducts handles GET /api/products?category=&subcategory=&featured=&promotion=&q=&limit=.
func (h *CatalogHandler) ListProducts(c echo.Context) error {
	var filter entity.ProductFilter
	err := echo.QueryParamsBinder(c).
		Uint("category", &filter.CategoryID).
		Uint("subcategory", &filter.SubCategoryID).
		Bool("featured", &filter.Featured).
		Bool("promotion", &filter.Promotion).
		String("q", &filter.Search).
		Int("limit", &filter.Limit).
		BindError()
	if err != nil {
		return domainerrors.ErrValidationFailed.WithDetails(err.Error())
	}

	products, err := h.catalogUC.ListProducts(c.Request().Context(), filter)
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, toProductResponses(products))
}

// GetProduct handles GET /api/products/:id.
func (h *CatalogHandler) GetProduct(c echo.Context) error {
	id, err := paramID(c, "id")
	if err != nil {
		return err
	}

	product, err := h.catalogUC.GetProduct(c.Request().Context(), id)
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, toProductResponse(product))
}

// PriceHistory handles GET /api/products/:id/price-history.
func (h *CatalogHandler) PriceHistory(c echo.Context) error {
	id, err := paramID(c, "id")
	if err != nil {
		return err
	}

	history, err := h.catalogUC.ListPriceHistory(c.Request().Context(), id)
	if err != nil {
		return errors.WithStack(err)
	}

	out := make([]*PriceHistoryResponse, 0, len(history))
	for _, entry := range history {
		out = append(out, &PriceHistoryResponse{OldPrice: entry.OldPrice, NewPrice: entry.NewPrice, ChangedAt: entry.ChangedAt})
	}

	return response.Success(c, http.StatusOK, out)
}

// CreateProduct handles POST /api/products.
func (h *CatalogHandler) CreateProduct(c echo.Context) error {
	req, image, closeImage, err := h.readProductRequest(c)
	if err != nil {
		return err
	}
	defer closeImage()

	if req.Name == nil || req.Price == nil || req.CategoryID == nil {
		return domainerrors.ErrValidationFailed.WithDetails("name, price y category_id son obligatorios")
	}

	input := &usecase.CreateProductInput{
		Name:          *req.Name,
		CategoryID:    *req.CategoryID,
		SubCategoryID: req.SubCategoryID,
		Image:         image,
	}
	if input.Price, err = parseDecimal("price", req.Price); err != nil {
		return err
	}
	if req.PromotionPrice != nil {
		if input.PromotionPrice, err = parseDecimal("promotion_price", req.PromotionPrice); err != nil {
			return err
		}
	}
	if req.Description != nil {
		input.Description = *req.Description
	}
	if req.Stock != nil {
		input.Stock = *req.Stock
	}
	if req.IsFeatured != nil {
		input.IsFeatured = *req.IsFeatured
	}
	if req.IsPromotion != nil {
		input.IsPromotion = *req.IsPromotion
	}
	if req.ImageURL != nil {
		input.ImageURL = *req.ImageURL
	}

	product, err := h.catalogUC.CreateProduct(c.Request().Context(), input)
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusCreated, toProductResponse(product))
}

// UpdateProduct handles PUT /api/products/:id.
func (h *CatalogHandler) UpdateProduct(c echo.Context) error {
	id, err := paramID(c, "id")
	if err != nil {
		return err
	}

	req, image, closeImage, err := h.readProductRequest(c)
	if err != nil {
		return err
	}
	defer closeImage()

	input := &usecase.UpdateProductInput{
		Name:             req.Name,
		Description:      req.Description,
		Stock:            req.Stock,
		IsFeatured:       req.IsFeatured,
		IsPromotion:      req.IsPromotion,
		CategoryID:       req.CategoryID,
		SubCategoryID:    req.SubCategoryID,
		ClearSubCategory: req.ClearSubCategory,
		ImageURL:         req.ImageURL,
		Image:            image,
	}
	if req.Price != nil {
		price, err := parseDecimal("price", req.Price)
		if err != nil {
			return err
		}
		input.Price = &price
	}
	if req.PromotionPrice != nil {
		promotion, err := parseDecimal("promotion_price", req.PromotionPrice)
		if err != nil {
			return err
		}
		input.PromotionPrice = &promotion
	}

	product, err := h.catalogUC.UpdateProduct(c.Request().Context(), id, input)
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, toProductResponse(product))
}

// DeleteProduct handles DELETE /api/products/:id.
func (h *CatalogHandler) DeleteProduct(c echo.Context) error {
	id, err := paramID(c, "id")
	if err != nil {
		return err
	}

	if err := h.catalogUC.DeleteProduct(c.Request().Context(), id); err != nil {
		return errors.WithStack(err)
	}

	return c.NoContent(http.StatusNoContent)
}

// ListCategories handles GET /api/categories.
func (h *CatalogHandler) ListCategories(c echo.Context) error {
	categories, err := h.catalogUC.ListCategories(c.Request().Context())
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, toCategoryResponses(categories))
}

// GetCategory handles GET /api/categories/:id, including the category products.
func (h *CatalogHandler) GetCategory(c echo.Context) error {
	id, err := paramID(c, "id")
	if err != nil {
		return err
	}

	detail, err := h.catalogUC.GetCategory(c.Request().Context(), id)
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, &CategoryDetailResponse{
		CategoryResponse: toCategoryResponse(detail.Category),
		Products:         toProductResponses(detail.Products),
	})
}

// CreateCategory handles POST /api/categories.
func (h *CatalogHandler) CreateCategory(c echo.Context) error {
	var req CategoryRequest
	if err := bind(c, &req); err != nil {
		return err
	}

	category, err := h.catalogUC.CreateCategory(c.Request().Context(), &usecase.CreateCategoryInput{
		Name:        req.Name,
		Description: req.Description,
		Icon:        req.Icon,
	})
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusCreated, toCategoryResponse(category))
}

// ListSubCategories handles GET /api/categories/:id/subcategories.
func (h *CatalogHandler) ListSubCategories(c echo.Context) error {
	id, err := paramID(c, "id")
	if err != nil {
		return err
	}

	subs, err := h.catalogUC.ListSubCategories(c.Request().Context(), id)
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, toSubCategoryResponses(subs))
}

// CreateSubCategory handles POST /api/categories/:id/subcategories.
func (h *CatalogHandler) CreateSubCategory(c echo.Context) error {
	id, err := paramID(c, "id")
	if err != nil {
		return err
	}

	var req SubCategoryRequest
	if err := bind(c, &req); err != nil {
		return err
	}

	sub, err := h.catalogUC.CreateSubCategory(c.Request().Context(), id, req.Name)
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusCreated, toSubCategoryResponse(sub))
}

// readProductRequest decodes a JSON or multipart product body. The returned
// close func must be called once the image has been consumed.
func (h *CatalogHandler) readProductRequest(c echo.Context) (*ProductRequest, *usecase.ImageUpload, func(), error) {
	noop := func() {}

	if !strings.HasPrefix(c.Request().Header.Get(echo.HeaderContentType), echo.MIMEMultipartForm) {
		var req ProductRequest
		if err := c.Bind(&req); err != nil {
			return nil, nil, noop, domainerrors.ErrValidationFailed.WithDetails("cuerpo de la solicitud inválido")
		}

		return &req, nil, noop, nil
	}

	form, err := c.MultipartForm()
	if err != nil {
		return nil, nil, noop, domainerrors.ErrValidationFailed.WithDetails("formulario inválido")
	}

	req, err := productRequestFromForm(form)
	if err != nil {
		return nil, nil, noop, err
	}

	files := form.File[imageFormField]
	if len(files) == 0 {
		return req, nil, noop, nil
	}

	header := files[0]
	file, err := header.Open()
	if err != nil {
		return nil, nil, noop, domainerrors.ErrInvalidImage.WithDetails(err.Error())
	}
	image := &usecase.ImageUpload{
		Filename:    header.Filename,
		ContentType: header.Header.Get(echo.HeaderContentType),
		Content:     file,
	}

	return req, image, func() {
		if err := file.Close(); err != nil {
			h.logger.Warn("Failed to close uploaded image", slog.Any("error", err))
		}
	}, nil
}

func productRequestFromForm(form *multipart.Form) (*ProductRequest, error) {
	value := func(key string) (string, bool) {
		values, ok := form.Value[key]
		if !ok || len(values) == 0 {
			return "", false
		}

		return strings.TrimSpace(values[0]), true
	}

	req := &ProductRequest{}
	if v, ok := value("name"); ok {
		req.Name = &v
	}
	if v, ok := value("description"); ok {
		req.Description = &v
	}
	if v, ok := value("image_url"); ok {
		req.ImageURL = &v
	}
	if v, ok := value("price"); ok {
		n := json.Number(v)
		req.Price = &n
	}
	if v, ok := value("promotion_price"); ok && v != "" {
		n := json.Number(v)
		req.PromotionPrice = &n
	}
	if v, ok := value("stock"); ok {
		stock, err := strconv.Atoi(v)
		if err != nil {
			return nil, domainerrors.ErrValidationFailed.WithDetails("stock inválido")
		}
		req.Stock = &stock
	}
	for key, dest := range map[string]**bool{"is_featured": &req.IsFeatured, "is_promotion": &req.IsPromotion} {
		if v, ok := value(key); ok {
			b := formBool(v)
			*dest = &b
		}
	}
	if v, ok := value("category_id"); ok {
		id, err := strconv.ParseUint(v, 10, 64)
		if err != nil {
			return nil, domainerrors.ErrValidationFailed.WithDetails("category_id inválido")
		}
		categoryID := uint(id)
		req.CategoryID = &categoryID
	}
	if v, ok := value("subcategory_id"); ok {
		if v == "" {
			req.ClearSubCategory = true
		} else {
			id, err := strconv.ParseUint(v, 10, 64)
			if err != nil {
				return nil, domainerrors.ErrValidationFailed.WithDetails("subcategory_id inválido")
			}
			subID := uint(id)
			req.SubCategoryID = &subID
		}
	}

	return req, nil
}

// formBool accepts the values HTML checkboxes and JS clients send.
func formBool(v string) bool {
	switch strings.ToLower(v) {
	case "1", "true", "on", "yes":
		return true
	default:
		return false
	}
}

func parseDecimal(field string, n *json.Number) (decimal.Decimal, error) {
	d, err := decimal.NewFromString(n.String())
	if err != nil {
		return decimal.Zero, domainerrors.ErrValidationFailed.WithDetails(field + " inválido")
	}

	return d, nil
}
