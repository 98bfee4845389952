// Package handler contains the HTTP handlers of the storefront API.
package handler

import (
	"net/http"
	"strconv"

	"ferremas/internal/delivery/api/response"
	deliverycontext "ferremas/internal/delivery/context"
	domainerrors "ferremas/internal/domain/errors"
	"ferremas/internal/errors"

	"github.com/labstack/echo/v4"
)

// HealthCheck reports liveness.
func HealthCheck(c echo.Context) error {
	return response.Success(c, http.StatusOK, map[string]string{"status": "ok"})
}

// bind decodes the request into req and runs its validate tags.
func bind(c echo.Context, req any) error {
	if err := c.Bind(req); err != nil {
		return domainerrors.ErrValidationFailed.WithDetails("cuerpo de la solicitud inválido")
	}
	if err := c.Validate(req); err != nil {
		return domainerrors.ErrValidationFailed.WithDetails(err.Error())
	}

	return nil
}

func paramID(c echo.Context, name string) (uint, error) {
	id, err := strconv.ParseUint(c.Param(name), 10, 64)
	if err != nil || id == 0 {
		return 0, domainerrors.ErrValidationFailed.WithDetails(name + " inválido")
	}

	return uint(id), nil
}

func currentUserID(c echo.Context) (uint, error) {
	userID, ok := deliverycontext.GetUserID(c)
	if !ok {
		return 0, errors.WithStack(domainerrors.ErrUnauthorized)
	}

	return userID, nil
}
