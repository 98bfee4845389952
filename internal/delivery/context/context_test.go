package context

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"ferremas/internal/domain/entity"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
)

func newEchoContext() echo.Context {
	return echo.New().NewContext(httptest.NewRequest(http.MethodGet, "/", nil), httptest.NewRecorder())
}

func TestRequestID(t *testing.T) {
	c := newEchoContext()
	assert.NotEmpty(t, GetRequestID(c))

	SetRequestID(c, "req-1")
	assert.Equal(t, "req-1", GetRequestID(c))

	ctx := WithRequestID(context.Background(), "req-2")
	assert.Equal(t, "req-2", GetRequestIDFromContext(ctx))
	assert.Empty(t, GetRequestIDFromContext(context.Background()))
}

func TestLogger(t *testing.T) {
	fallback := slog.New(slog.NewTextHandler(io.Discard, nil))
	scoped := fallback.With(slog.String("request_id", "r"))

	assert.Nil(t, GetLogger(context.Background()))
	assert.Same(t, fallback, GetLoggerOrDefault(context.Background(), fallback))

	ctx := WithLogger(context.Background(), scoped)
	assert.Same(t, scoped, GetLoggerOrDefault(ctx, fallback))
}

func TestDetach_KeepsValuesDropsCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(WithRequestID(context.Background(), "req-3"))
	detached := Detach(ctx)
	cancel()

	assert.Error(t, ctx.Err())
	assert.NoError(t, detached.Err())
	assert.Equal(t, "req-3", GetRequestIDFromContext(detached))
}

func TestIdentity(t *testing.T) {
	c := newEchoContext()

	_, ok := GetUserID(c)
	assert.False(t, ok)
	assert.Empty(t, GetRoles(c))

	SetIdentity(c, 7, entity.Roles{entity.RoleCustomer, entity.RoleAdmin})

	id, ok := GetUserID(c)
	assert.True(t, ok)
	assert.Equal(t, uint(7), id)
	assert.True(t, GetRoles(c).Contains(entity.RoleAdmin))
}
