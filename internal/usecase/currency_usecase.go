package usecase

import (
	"context"
	"time"

	"ferremas/internal/domain/entity"

	"github.com/shopspring/decimal"
)

// CurrencyUsecase converts foreign amounts to CLP with Banco Central rates.
type CurrencyUsecase interface {
	AvailableCurrencies() []entity.Currency
	GetExchangeRate(ctx context.Context, code string, date time.Time) (*entity.ExchangeRate, error)
	ConvertToCLP(ctx context.Context, amount decimal.Decimal, code string) (*entity.Conversion, error)
}
