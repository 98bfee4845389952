package bcentral

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"ferremas/config"
	"ferremas/internal/domain/entity"
	domainerrors "ferremas/internal/domain/errors"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var usd = entity.Currency{Code: "USD", Series: "F073.TCO.PRE.Z.D"}

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()

	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	return newClient(&config.BCentralConfig{
		Email:     "user@ferremas.cl",
		Password:  "secret",
		BaseURL:   server.URL,
		Timeout:   5 * time.Second,
		CacheSize: 8,
		CacheTTL:  time.Minute,
	}, slog.New(slog.NewTextHandler(io.Discard, nil)))
}

const okBody = `{"Codigo":0,"Descripcion":"Success","Series":{"seriesId":"F073.TCO.PRE.Z.D","Obs":[
	{"indexDateString":"06-05-2024","value":"940.10","statusCode":"OK"},
	{"indexDateString":"07-05-2024","value":"950.50","statusCode":"OK"},
	{"indexDateString":"08-05-2024","value":"NaN","statusCode":"ND"}]}}`

func TestClient_LatestRate(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		assert.Equal(t, "user@ferremas.cl", q.Get("user"))
		assert.Equal(t, "secret", q.Get("pass"))
		assert.Equal(t, "GetSeries", q.Get("function"))
		assert.Equal(t, "F073.TCO.PRE.Z.D", q.Get("timeseries"))
		assert.Equal(t, "2024-05-03", q.Get("firstdate"))
		assert.Equal(t, "2024-05-08", q.Get("lastdate"))

		_, _ = w.Write([]byte(okBody))
	})

	rate, err := client.LatestRate(context.Background(), usd, time.Date(2024, 5, 8, 12, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	assert.True(t, decimal.RequireFromString("950.50").Equal(rate.Rate))
	assert.Equal(t, "USD", rate.Currency)
	assert.Equal(t, 7, rate.Date.Day())
}

func TestClient_LatestRateIsCached(t *testing.T) {
	var calls atomic.Int32
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		_, _ = w.Write([]byte(okBody))
	})

	date := time.Date(2024, 5, 8, 0, 0, 0, 0, time.UTC)
	var wg sync.WaitGroup
	for range 5 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := client.LatestRate(context.Background(), usd, date)
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	_, err := client.LatestRate(context.Background(), usd, date)
	require.NoError(t, err)
	assert.Equal(t, int32(1), calls.Load())
}

func TestClient_LatestRateOutlivesCancelledCaller(t *testing.T) {
	var calls atomic.Int32
	release := make(chan struct{})
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		<-release
		_, _ = w.Write([]byte(okBody))
	})
	date := time.Date(2024, 5, 8, 0, 0, 0, 0, time.UTC)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := client.LatestRate(ctx, usd, date)
	require.ErrorIs(t, err, context.Canceled)

	close(release)
	rate, err := client.LatestRate(context.Background(), usd, date)
	require.NoError(t, err)
	assert.True(t, decimal.RequireFromString("950.50").Equal(rate.Rate))
	assert.Equal(t, int32(1), calls.Load(), "the second caller reuses the first fetch")
}

func TestClient_LatestRateErrors(t *testing.T) {
	tests := []struct {
		name    string
		status  int
		body    string
		wantErr error
	}{
		{name: "http unauthorized", status: http.StatusUnauthorized, wantErr: domainerrors.ErrRateProviderAuth},
		{name: "invalid credentials code", status: http.StatusOK, body: `{"Codigo":-5,"Descripcion":"Invalid username or password"}`, wantErr: domainerrors.ErrRateProviderAuth},
		{name: "remote error code", status: http.StatusOK, body: `{"Codigo":-1,"Descripcion":"Error"}`, wantErr: domainerrors.ErrRateProviderFailed},
		{name: "server error", status: http.StatusInternalServerError, wantErr: domainerrors.ErrRateProviderFailed},
		{name: "not json", status: http.StatusOK, body: `<html>`, wantErr: domainerrors.ErrRateProviderFailed},
		{name: "no observations", status: http.StatusOK, body: `{"Codigo":0,"Series":{"Obs":[]}}`, wantErr: domainerrors.ErrRateUnavailable},
		{
			name:    "no valid observations",
			status:  http.StatusOK,
			body:    `{"Codigo":0,"Series":{"Obs":[{"indexDateString":"08-05-2024","value":"NaN","statusCode":"ND"}]}}`,
			wantErr: domainerrors.ErrRateUnavailable,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(tt.body))
			})

			_, err := client.LatestRate(context.Background(), usd, time.Now())
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestClient_ConnectionFailure(t *testing.T) {
	server := httptest.NewServer(http.NotFoundHandler())
	baseURL := server.URL
	server.Close()

	client := newClient(&config.BCentralConfig{
		BaseURL: baseURL, Timeout: time.Second, CacheSize: 1, CacheTTL: time.Minute,
	}, slog.New(slog.NewTextHandler(io.Discard, nil)))

	_, err := client.LatestRate(context.Background(), usd, time.Now())
	assert.ErrorIs(t, err, domainerrors.ErrRateProviderFailed)
}
