package handler

import (
	"log/slog"
	"net/http"

	"ferremas/internal/delivery/api/response"
	domainerrors "ferremas/internal/domain/errors"
	"ferremas/internal/errors"
	"ferremas/internal/usecase"

	"github.com/labstack/echo/v4"
	"go.uber.org/fx"
)

// StoreHandlerParams holds dependencies for StoreHandler, injected by Fx.
type StoreHandlerParams struct {
	fx.In

	StoreUC usecase.StoreUsecase
	Logger  *slog.Logger
}

type StoreHandler struct {
	storeUC usecase.StoreUsecase
	logger  *slog.Logger
}

func NewStoreHandler(params StoreHandlerParams) *StoreHandler {
	return &StoreHandler{
		storeUC: params.StoreUC,
		logger:  params.Logger,
	}
}

// ListStores handles GET /api/stores. With lat and lng the branches are
// sorted by distance and carry distance_km.
func (h *StoreHandler) ListStores(c echo.Context) error {
	ctx := c.Request().Context()

	if c.QueryParam("lat") == "" && c.QueryParam("lng") == "" {
		stores, err := h.storeUC.ListStores(ctx)
		if err != nil {
			return errors.WithStack(err)
		}

		out := make([]*StoreResponse, 0, len(stores))
		for _, store := range stores {
			out = append(out, toStoreResponse(store))
		}

		return response.Success(c, http.StatusOK, out)
	}

	var (
		lat, lng float64
		limit    int
	)
	err := echo.QueryParamsBinder(c).
		MustFloat64("lat", &lat).
		MustFloat64("lng", &lng).
		Int("limit", &limit).
		BindError()
	if err != nil {
		return domainerrors.ErrInvalidCoordinates.WithDetails(err.Error())
	}

	nearest, err := h.storeUC.NearestStores(ctx, lat, lng, limit)
	if err != nil {
		return errors.WithStack(err)
	}

	out := make([]*StoreResponse, 0, len(nearest))
	for _, sd := range nearest {
		resp := toStoreResponse(sd.Store)
		distance := sd.DistanceKm
		resp.DistanceKm = &distance
		out = append(out, resp)
	}

	return response.Success(c, http.StatusOK, out)
}
