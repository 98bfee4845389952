package handler

import (
	"log/slog"
	"net/http"

	deliverycontext "ferremas/internal/delivery/context"
	"ferremas/internal/domain/service"
	"ferremas/internal/errors"

	"github.com/labstack/echo/v4"
	"go.uber.org/fx"
)

// UploadHandlerParams holds dependencies for UploadHandler, injected by Fx.
type UploadHandlerParams struct {
	fx.In

	Storage service.ImageStorage
	Logger  *slog.Logger
}

// UploadHandler serves product images from the configured bucket.
type UploadHandler struct {
	storage service.ImageStorage
	logger  *slog.Logger
}

func NewUploadHandler(params UploadHandlerParams) *UploadHandler {
	return &UploadHandler{
		storage: params.Storage,
		logger:  params.Logger,
	}
}

// Serve handles GET /uploads/*.
func (h *UploadHandler) Serve(c echo.Context) error {
	ctx := c.Request().Context()

	body, contentType, err := h.storage.Open(ctx, c.Param("*"))
	if err != nil {
		return errors.WithStack(err)
	}
	defer func() {
		if err := body.Close(); err != nil {
			deliverycontext.GetLoggerOrDefault(ctx, h.logger).Warn("Failed to close image reader", slog.Any("error", err))
		}
	}()

	c.Response().Header().Set("Cache-Control", "public, max-age=86400")

	return c.Stream(http.StatusOK, contentType, body)
}
