package handler

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"ferremas/internal/delivery/api/response"
	"ferremas/internal/domain/entity"
	domainerrors "ferremas/internal/domain/errors"
	"ferremas/internal/errors"
	"ferremas/internal/usecase"

	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"
	"go.uber.org/fx"
)

const dateLayout = time.DateOnly

// CurrencyHandlerParams holds dependencies for CurrencyHandler, injected by Fx.
type CurrencyHandlerParams struct {
	fx.In

	CurrencyUC usecase.CurrencyUsecase
	Logger     *slog.Logger
}

// CurrencyHandler serves the CLP converter.
type CurrencyHandler struct {
	currencyUC usecase.CurrencyUsecase
	logger     *slog.Logger
}

func NewCurrencyHandler(params CurrencyHandlerParams) *CurrencyHandler {
	return &CurrencyHandler{
		currencyUC: params.CurrencyUC,
		logger:     params.Logger,
	}
}

type ConvertRequest struct {
	Amount   json.Number `json:"amount" validate:"required"`
	Currency string      `json:"currency" validate:"required"`
}

type ConversionResponse struct {
	AmountCLP      decimal.Decimal `json:"amount_clp"`
	Rate           decimal.Decimal `json:"rate"`
	Currency       string          `json:"currency"`
	OriginalAmount decimal.Decimal `json:"original_amount"`
	Date           string          `json:"date"`
}

type ExchangeRateResponse struct {
	Currency string          `json:"currency"`
	Rate     decimal.Decimal `json:"rate"`
	Date     string          `json:"date"`
}

// Convert handles POST /api/convert. Only JSON bodies are accepted.
func (h *CurrencyHandler) Convert(c echo.Context) error {
	if !strings.HasPrefix(c.Request().Header.Get(echo.HeaderContentType), echo.MIMEApplicationJSON) {
		return domainerrors.ErrValidationFailed.WithDetails("se requiere un cuerpo JSON")
	}

	var req ConvertRequest
	if err := bind(c, &req); err != nil {
		return err
	}

	amount, err := parseDecimal("amount", &req.Amount)
	if err != nil {
		return err
	}

	conversion, err := h.currencyUC.ConvertToCLP(c.Request().Context(), amount, req.Currency)
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, &ConversionResponse{
		AmountCLP:      conversion.AmountCLP,
		Rate:           conversion.Rate,
		Currency:       conversion.Currency,
		OriginalAmount: conversion.OriginalAmount,
		Date:           conversion.Date.Format(dateLayout),
	})
}

// Currencies handles GET /api/currencies.
func (h *CurrencyHandler) Currencies(c echo.Context) error {
	return response.Success(c, http.StatusOK, h.currencyUC.AvailableCurrencies())
}

// ExchangeRate handles GET /api/exchange-rates/:code?date=YYYY-MM-DD.
func (h *CurrencyHandler) ExchangeRate(c echo.Context) error {
	var date time.Time
	if raw := c.QueryParam("date"); raw != "" {
		parsed, err := time.Parse(dateLayout, raw)
		if err != nil {
			return domainerrors.ErrValidationFailed.WithDetails("date debe tener formato YYYY-MM-DD")
		}
		date = parsed
	}

	rate, err := h.currencyUC.GetExchangeRate(c.Request().Context(), c.Param("code"), date)
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, toExchangeRateResponse(rate))
}

func toExchangeRateResponse(rate *entity.ExchangeRate) *ExchangeRateResponse {
	return &ExchangeRateResponse{
		Currency: rate.Currency,
		Rate:     rate.Rate,
		Date:     rate.Date.Format(dateLayout),
	}
}
