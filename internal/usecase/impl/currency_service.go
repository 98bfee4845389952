package impl

import (
	"context"
	"log/slog"
	"strings"
	"time"

	deliverycontext "ferremas/internal/delivery/context"
	"ferremas/internal/domain/entity"
	domainerrors "ferremas/internal/domain/errors"
	"ferremas/internal/domain/service"
	"ferremas/internal/usecase"

	"github.com/shopspring/decimal"
	"go.uber.org/fx"
)

type currencyService struct {
	rates  service.ExchangeRateProvider
	now    func() time.Time
	logger *slog.Logger
}

// CurrencyServiceParams holds dependencies for CurrencyService, injected by Fx.
type CurrencyServiceParams struct {
	fx.In

	Rates  service.ExchangeRateProvider
	Logger *slog.Logger
}

func NewCurrencyService(params CurrencyServiceParams) usecase.CurrencyUsecase {
	return &currencyService{
		rates:  params.Rates,
		now:    time.Now,
		logger: params.Logger,
	}
}

func (srv *currencyService) log(ctx context.Context) *slog.Logger {
	return deliverycontext.GetLoggerOrDefault(ctx, srv.logger)
}

func (srv *currencyService) AvailableCurrencies() []entity.Currency {
	currencies := make([]entity.Currency, len(entity.SupportedCurrencies))
	copy(currencies, entity.SupportedCurrencies)

	return currencies
}

// GetExchangeRate returns the CLP value of one unit of code on date. A zero date means today.
func (srv *currencyService) GetExchangeRate(ctx context.Context, code string, date time.Time) (*entity.ExchangeRate, error) {
	currency, ok := entity.LookupCurrency(strings.ToUpper(strings.TrimSpace(code)))
	if !ok {
		return nil, domainerrors.ErrUnsupportedCurrency.WithDetails(code)
	}
	if date.IsZero() {
		date = srv.now()
	}
	y, m, d := date.Date()
	date = time.Date(y, m, d, 0, 0, 0, 0, date.Location())

	rate, err := srv.rates.LatestRate(ctx, currency, date)
	if err != nil {
		srv.log(ctx).Warn("Exchange rate lookup failed", slog.String("currency", currency.Code), slog.Any("error", err))

		return nil, err
	}

	return rate, nil
}

// ConvertToCLP prices amount units of code in CLP, rounded to two decimals.
func (srv *currencyService) ConvertToCLP(ctx context.Context, amount decimal.Decimal, code string) (*entity.Conversion, error) {
	if !amount.IsPositive() {
		return nil, domainerrors.ErrInvalidAmount
	}

	rate, err := srv.GetExchangeRate(ctx, code, time.Time{})
	if err != nil {
		return nil, err
	}

	return &entity.Conversion{
		AmountCLP:      amount.Mul(rate.Rate).Round(2),
		Rate:           rate.Rate,
		Currency:       rate.Currency,
		OriginalAmount: amount,
		Date:           rate.Date,
	}, nil
}
