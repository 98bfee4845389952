package service

import (
	"context"
	"time"

	"ferremas/internal/domain/entity"
)

// ExchangeRateProvider returns the CLP value of one unit of a currency.
type ExchangeRateProvider interface {
	// LatestRate returns the newest valid observation at or before date.
	LatestRate(ctx context.Context, currency entity.Currency, date time.Time) (*entity.ExchangeRate, error)
}
