package middleware

import (
	"bytes"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"ferremas/config"
	deliverycontext "ferremas/internal/delivery/context"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRequestIDMiddleware(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewJSONHandler(&buf, nil))

	e := echo.New()
	e.Use(NewRequestIDMiddleware(logger).Process)
	e.GET("/", func(c echo.Context) error {
		ctx := c.Request().Context()
		assert.Equal(t, deliverycontext.GetRequestID(c), deliverycontext.GetRequestIDFromContext(ctx))
		deliverycontext.GetLoggerOrDefault(ctx, nil).Info("inside")

		return c.NoContent(http.StatusOK)
	})

	t.Run("reuses header", func(t *testing.T) {
		buf.Reset()
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set(deliverycontext.HeaderXRequestID, "abc-123")
		rec := httptest.NewRecorder()

		e.ServeHTTP(rec, req)

		assert.Equal(t, "abc-123", rec.Header().Get(deliverycontext.HeaderXRequestID))
		assert.Contains(t, buf.String(), `"request_id":"abc-123"`)
	})

	t.Run("generates when missing or oversized", func(t *testing.T) {
		for _, header := range []string{"", strings.Repeat("x", maxRequestIDLength+1)} {
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			req.Header.Set(deliverycontext.HeaderXRequestID, header)
			rec := httptest.NewRecorder()

			e.ServeHTTP(rec, req)

			got := rec.Header().Get(deliverycontext.HeaderXRequestID)
			assert.Len(t, got, 36)
		}
	})
}

func TestLoggerMiddleware(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewJSONHandler(&buf, nil))

	cfg := &config.Config{}
	cfg.Env.Debug = true

	e := echo.New()
	e.Use(NewLoggerMiddleware(logger, cfg).Handle)
	e.GET("/health", func(c echo.Context) error { return c.NoContent(http.StatusOK) })
	e.GET("/missing", func(c echo.Context) error { return echo.ErrNotFound })

	e.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.Empty(t, buf.String())

	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/missing?q=1", nil))
	require.Equal(t, http.StatusNotFound, rec.Code)
	assert.Contains(t, buf.String(), `"status":404`)
	assert.Contains(t, buf.String(), `"level":"WARN"`)
	assert.Contains(t, buf.String(), `"query":"q=1"`)
}

func TestLoggerMiddleware_DisabledWithoutDebug(t *testing.T) {
	var buf bytes.Buffer
	e := echo.New()
	e.Use(NewLoggerMiddleware(slog.New(slog.NewJSONHandler(&buf, nil)), &config.Config{}).Handle)
	e.GET("/", func(c echo.Context) error { return c.NoContent(http.StatusOK) })

	e.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Empty(t, buf.String())
}
