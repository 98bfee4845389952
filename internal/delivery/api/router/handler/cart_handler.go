package handler

import (
	"log/slog"
	"net/http"

	"ferremas/internal/delivery/api/response"
	"ferremas/internal/errors"
	"ferremas/internal/usecase"

	"github.com/labstack/echo/v4"
	"go.uber.org/fx"
)

// CartHandlerParams holds dependencies for CartHandler, injected by Fx.
type CartHandlerParams struct {
	fx.In

	CartUC usecase.CartUsecase
	Logger *slog.Logger
}

// CartHandler serves the cart of the authenticated user.
type CartHandler struct {
	cartUC usecase.CartUsecase
	logger *slog.Logger
}

func NewCartHandler(params CartHandlerParams) *CartHandler {
	return &CartHandler{
		cartUC: params.CartUC,
		logger: params.Logger,
	}
}

type AddToCartRequest struct {
	ProductID uint `json:"product_id" form:"product_id" validate:"required"`
	Quantity  int  `json:"quantity" form:"quantity"`
}

// UpdateCartItemRequest requires quantity; an explicit zero removes the line.
type UpdateCartItemRequest struct {
	Quantity *int `json:"quantity" form:"quantity" validate:"required"`
}

// GetCart handles GET /api/cart.
func (h *CartHandler) GetCart(c echo.Context) error {
	userID, err := currentUserID(c)
	if err != nil {
		return err
	}

	cart, err := h.cartUC.GetCart(c.Request().Context(), userID)
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, toCartResponse(cart))
}

// AddItem handles POST /api/cart/add. Quantity defaults to 1.
func (h *CartHandler) AddItem(c echo.Context) error {
	userID, err := currentUserID(c)
	if err != nil {
		return err
	}

	req := AddToCartRequest{Quantity: 1}
	if err := bind(c, &req); err != nil {
		return err
	}

	item, err := h.cartUC.AddItem(c.Request().Context(), userID, req.ProductID, req.Quantity)
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusCreated, toCartItemResponse(item))
}

// UpdateItem handles PUT /api/cart/update/:id. A quantity of zero removes the line.
func (h *CartHandler) UpdateItem(c echo.Context) error {
	userID, err := currentUserID(c)
	if err != nil {
		return err
	}

	itemID, err := paramID(c, "id")
	if err != nil {
		return err
	}

	var req UpdateCartItemRequest
	if err := bind(c, &req); err != nil {
		return err
	}

	item, err := h.cartUC.UpdateItem(c.Request().Context(), userID, itemID, *req.Quantity)
	if err != nil {
		return errors.WithStack(err)
	}
	if item == nil {
		return c.NoContent(http.StatusNoContent)
	}

	return response.Success(c, http.StatusOK, toCartItemResponse(item))
}

// RemoveItem handles DELETE /api/cart/remove/:id.
func (h *CartHandler) RemoveItem(c echo.Context) error {
	userID, err := currentUserID(c)
	if err != nil {
		return err
	}

	itemID, err := paramID(c, "id")
	if err != nil {
		return err
	}

	if err := h.cartUC.RemoveItem(c.Request().Context(), userID, itemID); err != nil {
		return errors.WithStack(err)
	}

	return c.NoContent(http.StatusNoContent)
}

// Clear handles DELETE /api/cart/clear.
func (h *CartHandler) Clear(c echo.Context) error {
	userID, err := currentUserID(c)
	if err != nil {
		return err
	}

	if err := h.cartUC.Clear(c.Request().Context(), userID); err != nil {
		return errors.WithStack(err)
	}

	return c.NoContent(http.StatusNoContent)
}
