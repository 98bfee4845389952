// Package bcentral reads exchange rates from the Banco Central de Chile SieteRestWS API.
package bcentral

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"ferremas/config"
	"ferremas/internal/domain/entity"
	domainerrors "ferremas/internal/domain/errors"
	"ferremas/internal/domain/service"
	"ferremas/internal/errors"

	"github.com/go-resty/resty/v2"
	"github.com/hashicorp/golang-lru/v2/expirable"
	"github.com/shopspring/decimal"
	"golang.org/x/sync/singleflight"
)

const (
	apiDateLayout = "2006-01-02"
	obsDateLayout = "02-01-2006"

	// lookbackDays covers weekends and holidays without observations.
	lookbackDays = 5

	statusOK = "OK"

	// codeInvalidCredentials is returned in Codigo for a bad user or password.
	codeInvalidCredentials = -5
)

type seriesResponse struct {
	Codigo      int    `json:"Codigo"`
	Descripcion string `json:"Descripcion"`
	Series      *struct {
		SeriesID string        `json:"seriesId"`
		Obs      []observation `json:"Obs"`
	} `json:"Series"`
}

type observation struct {
	IndexDateString string `json:"indexDateString"`
	Value           string `json:"value"`
	StatusCode      string `json:"statusCode"`
}

// Client implements service.ExchangeRateProvider with an expiring LRU in front
// of the API. Concurrent misses for the same key share one request.
type Client struct {
	http     *resty.Client
	email    string
	password string
	timeout  time.Duration
	cache    *expirable.LRU[string, *entity.ExchangeRate]
	group    singleflight.Group
	logger   *slog.Logger
}

// NewClient builds the client from the bcentral config section.
func NewClient(cfg *config.Config, logger *slog.Logger) service.ExchangeRateProvider {
	return newClient(cfg.BCentral, logger)
}

func newClient(cfg *config.BCentralConfig, logger *slog.Logger) *Client {
	if cfg.Email == "" || cfg.Password == "" {
		logger.Warn("Banco Central credentials are not configured; rate lookups will fail")
	}

	return &Client{
		http:     resty.New().SetBaseURL(cfg.BaseURL).SetTimeout(cfg.Timeout).SetHeader("Accept", "application/json"),
		email:    cfg.Email,
		password: cfg.Password,
		timeout:  cfg.Timeout,
		cache:    expirable.NewLRU[string, *entity.ExchangeRate](cfg.CacheSize, nil, cfg.CacheTTL),
		logger:   logger,
	}
}

// LatestRate returns the newest valid observation in the five days up to date.
func (c *Client) LatestRate(ctx context.Context, currency entity.Currency, date time.Time) (*entity.ExchangeRate, error) {
	key := currency.Code + "|" + date.Format(apiDateLayout)
	if rate, ok := c.cache.Get(key); ok {
		return rate, nil
	}

	// The shared fetch is detached from the cancellation of whichever caller started it.
	ch := c.group.DoChan(key, func() (any, error) {
		fetchCtx, cancel := c.fetchContext(ctx)
		defer cancel()

		rate, err := c.fetch(fetchCtx, currency, date)
		if err != nil {
			return nil, err
		}
		c.cache.Add(key, rate)

		return rate, nil
	})

	var res singleflight.Result
	select {
	case res = <-ch:
	case <-ctx.Done():
		return nil, errors.WithStack(ctx.Err())
	}
	if res.Err != nil {
		return nil, res.Err
	}
	if res.Shared {
		c.logger.DebugContext(ctx, "Exchange rate fetch shared", slog.String("key", key))
	}

	return res.Val.(*entity.ExchangeRate), nil
}

func (c *Client) fetchContext(ctx context.Context) (context.Context, context.CancelFunc) {
	detached := context.WithoutCancel(ctx)
	if c.timeout <= 0 {
		return context.WithCancel(detached)
	}

	return context.WithTimeout(detached, c.timeout)
}

func (c *Client) fetch(ctx context.Context, currency entity.Currency, date time.Time) (*entity.ExchangeRate, error) {
	logger := c.logger.With(slog.String("currency", currency.Code), slog.String("series", currency.Series))

	resp, err := c.http.R().
		SetContext(ctx).
		SetQueryParams(map[string]string{
			"user":       c.email,
			"pass":       c.password,
			"function":   "GetSeries",
			"timeseries": currency.Series,
			"firstdate":  date.AddDate(0, 0, -lookbackDays).Format(apiDateLayout),
			"lastdate":   date.Format(apiDateLayout),
		}).
		Get("")
	if err != nil {
		logger.ErrorContext(ctx, "Banco Central request failed", slog.Any("error", err))

		return nil, domainerrors.ErrRateProviderFailed.WithDetails(err.Error())
	}

	if resp.StatusCode() == http.StatusUnauthorized {
		logger.ErrorContext(ctx, "Banco Central rejected credentials")

		return nil, domainerrors.ErrRateProviderAuth
	}
	if resp.IsError() {
		logger.ErrorContext(ctx, "Banco Central returned an error status", slog.Int("status", resp.StatusCode()))

		return nil, domainerrors.ErrRateProviderFailed.WithDetails(resp.Status())
	}

	var body seriesResponse
	if err := json.Unmarshal(resp.Body(), &body); err != nil {
		logger.ErrorContext(ctx, "Banco Central response is not JSON", slog.Any("error", err))

		return nil, domainerrors.ErrRateProviderFailed.WithDetails("invalid response body")
	}

	switch {
	case body.Codigo == codeInvalidCredentials:
		return nil, domainerrors.ErrRateProviderAuth.WithDetails(body.Descripcion)
	case body.Codigo != 0:
		return nil, domainerrors.ErrRateProviderFailed.WithDetails(body.Descripcion)
	}

	rate, err := latestValid(body)
	if err != nil {
		logger.WarnContext(ctx, "No valid exchange-rate observations", slog.Any("error", err))

		return nil, domainerrors.ErrRateUnavailable.WithDetails(currency.Code)
	}
	rate.Currency = currency.Code

	logger.InfoContext(ctx, "Exchange rate fetched",
		slog.String("rate", rate.Rate.String()),
		slog.String("date", rate.Date.Format(apiDateLayout)))

	return rate, nil
}

// latestValid returns the last observation with status OK. Observations are in date order.
func latestValid(body seriesResponse) (*entity.ExchangeRate, error) {
	if body.Series == nil || len(body.Series.Obs) == 0 {
		return nil, errors.New("series has no observations")
	}

	for i := len(body.Series.Obs) - 1; i >= 0; i-- {
		obs := body.Series.Obs[i]
		if obs.StatusCode != statusOK {
			continue
		}

		value, err := decimal.NewFromString(obs.Value)
		if err != nil {
			return nil, errors.Wrapf(err, "parse observation value %q", obs.Value)
		}

		date, err := time.Parse(obsDateLayout, obs.IndexDateString)
		if err != nil {
			return nil, errors.Wrapf(err, "parse observation date %q", obs.IndexDateString)
		}

		return &entity.ExchangeRate{Rate: value, Date: date}, nil
	}

	return nil, errors.New("series has no valid observations")
}
