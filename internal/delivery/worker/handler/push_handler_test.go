package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"ferremas/config"
	domainerrors "ferremas/internal/domain/errors"
	"ferremas/internal/domain/service"
	"ferremas/internal/errors"
	"ferremas/internal/infra/pubsub"
	mocks "ferremas/internal/mocks/service"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"google.golang.org/api/idtoken"
)

func newTestHandler(t *testing.T, pubsubCfg *config.PubSubConfig) (*PushHandler, *mocks.MockOrderPaidHandler) {
	t.Helper()

	orderPaid := mocks.NewMockOrderPaidHandler(t)
	h := NewPushHandler(PushHandlerParams{
		Config:    &config.Config{PubSub: pubsubCfg},
		Logger:    slog.New(slog.NewTextHandler(io.Discard, nil)),
		OrderPaid: orderPaid,
	})

	return h, orderPaid
}

func pushBody(t *testing.T, event *service.OrderPaidEvent, attributes map[string]string) []byte {
	t.Helper()

	data, err := json.Marshal(event)
	require.NoError(t, err)
	body, err := json.Marshal(pubsub.NewPushMessage(data, attributes, "projects/p/subscriptions/s"))
	require.NoError(t, err)

	return body
}

func serve(h *PushHandler, body []byte, header http.Header) *httptest.ResponseRecorder {
	e := echo.New()
	e.POST("/push", h.HandlePush)

	req := httptest.NewRequest(http.MethodPost, "/push", bytes.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	for k, v := range header {
		req.Header[k] = v
	}
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	return rec
}

func TestHandlePush_DeliversEvent(t *testing.T) {
	h, orderPaid := newTestHandler(t, nil)

	orderPaid.EXPECT().
		HandleOrderPaid(mock.Anything, mock.MatchedBy(func(e *service.OrderPaidEvent) bool {
			return e.OrderID == 12 && e.BuyOrder == "OC-12" && e.RequestID == "req-attr"
		})).
		Return(nil).
		Once()

	body := pushBody(t, &service.OrderPaidEvent{OrderID: 12, UserID: 3, BuyOrder: "OC-12", Amount: 8990}, map[string]string{"request_id": "req-attr"})
	rec := serve(h, body, nil)

	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestHandlePush_MalformedMessagesAreRejected(t *testing.T) {
	h, _ := newTestHandler(t, nil)

	tests := []struct {
		name string
		body []byte
	}{
		{name: "not json", body: []byte("{")},
		{name: "bad base64", body: []byte(`{"message":{"data":"***"}}`)},
		{name: "bad event", body: []byte(`{"message":{"data":"bm90IGpzb24="}}`)},
		{name: "missing order", body: pushBody(t, &service.OrderPaidEvent{BuyOrder: "OC-1"}, nil)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := serve(h, tt.body, nil)
			assert.Equal(t, http.StatusBadRequest, rec.Code)
		})
	}
}

func TestHandlePush_RetryClassification(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{name: "mail relay down", err: errors.Wrap(domainerrors.ErrMailSendFailed, "smtp"), want: http.StatusServiceUnavailable},
		{name: "database failure", err: domainerrors.NewDatabaseExecuteError(errors.New("conn reset"), ""), want: http.StatusServiceUnavailable},
		{name: "order gone", err: domainerrors.ErrOrderNotFound, want: http.StatusOK},
		{name: "order not paid", err: domainerrors.ErrOrderNotCompleted, want: http.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h, orderPaid := newTestHandler(t, nil)
			orderPaid.EXPECT().HandleOrderPaid(mock.Anything, mock.Anything).Return(tt.err).Once()

			rec := serve(h, pushBody(t, &service.OrderPaidEvent{OrderID: 5}, nil), nil)
			assert.Equal(t, tt.want, rec.Code)
		})
	}
}

func TestHandlePush_VerifiesPushToken(t *testing.T) {
	h, orderPaid := newTestHandler(t, &config.PubSubConfig{VerifyPushAuth: true, PushAudience: "https://worker.ferremas.cl/push"})

	var gotAudience string
	h.validate = func(_ context.Context, token, audience string) (*idtoken.Payload, error) {
		gotAudience = audience
		switch token {
		case "good":
			return &idtoken.Payload{Issuer: "https://accounts.google.com", Claims: map[string]any{"email_verified": true}}, nil
		case "foreign":
			return &idtoken.Payload{Issuer: "https://evil.example.com"}, nil
		default:
			return nil, errors.New("signature mismatch")
		}
	}
	body := pushBody(t, &service.OrderPaidEvent{OrderID: 9}, nil)

	t.Run("missing token", func(t *testing.T) {
		assert.Equal(t, http.StatusUnauthorized, serve(h, body, nil).Code)
	})

	t.Run("invalid token", func(t *testing.T) {
		rec := serve(h, body, http.Header{"Authorization": {"Bearer bad"}})
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("wrong issuer", func(t *testing.T) {
		rec := serve(h, body, http.Header{"Authorization": {"Bearer foreign"}})
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("valid token", func(t *testing.T) {
		orderPaid.EXPECT().HandleOrderPaid(mock.Anything, mock.Anything).Return(nil).Once()

		rec := serve(h, body, http.Header{"Authorization": {"Bearer good"}})
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "https://worker.ferremas.cl/push", gotAudience)
	})
}
