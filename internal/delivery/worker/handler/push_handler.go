// Package handler contains the worker push endpoint.
package handler

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"ferremas/config"
	deliverycontext "ferremas/internal/delivery/context"
	domainerrors "ferremas/internal/domain/errors"
	"ferremas/internal/domain/service"
	"ferremas/internal/errors"
	"ferremas/internal/infra/pubsub"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"go.uber.org/fx"
	"google.golang.org/api/idtoken"
)

const attributeRequestID = "request_id"

// tokenValidator verifies a Google-signed OIDC token for audience.
type tokenValidator func(ctx context.Context, token, audience string) (*idtoken.Payload, error)

// PushHandler receives order events from a Pub/Sub push subscription.
type PushHandler struct {
	verifyPushAuth bool
	audience       string
	validate       tokenValidator
	logger         *slog.Logger
	orderPaid      service.OrderPaidHandler
}

// PushHandlerParams holds dependencies for the PushHandler
type PushHandlerParams struct {
	fx.In

	Config    *config.Config
	Logger    *slog.Logger
	OrderPaid service.OrderPaidHandler
}

// NewPushHandler creates a new Pub/Sub push handler
func NewPushHandler(params PushHandlerParams) *PushHandler {
	h := &PushHandler{
		validate:  idtoken.Validate,
		logger:    params.Logger,
		orderPaid: params.OrderPaid,
	}
	if params.Config.PubSub != nil {
		h.verifyPushAuth = params.Config.PubSub.VerifyPushAuth
		h.audience = params.Config.PubSub.PushAudience
	}

	return h
}

// HandlePush acks malformed and permanently failing messages with 2xx so
// Pub/Sub drops them, and answers 503 when a retry can succeed.
func (h *PushHandler) HandlePush(c echo.Context) error {
	ctx := c.Request().Context()

	if h.verifyPushAuth {
		if err := h.verifyPushToken(c.Request()); err != nil {
			h.logger.Warn("[Worker] Invalid Pub/Sub token", slog.Any("error", err))

			return c.NoContent(http.StatusUnauthorized)
		}
	}

	var pushMsg pubsub.PushMessage
	if err := c.Bind(&pushMsg); err != nil {
		h.logger.Error("[Worker] Failed to parse push message", slog.Any("error", err))

		return c.NoContent(http.StatusBadRequest)
	}

	data, err := base64.StdEncoding.DecodeString(pushMsg.Message.Data)
	if err != nil {
		h.logger.Error("[Worker] Failed to decode message data", slog.Any("error", err))

		return c.NoContent(http.StatusBadRequest)
	}

	var event service.OrderPaidEvent
	if err := json.Unmarshal(data, &event); err != nil || event.OrderID == 0 {
		h.logger.Error("[Worker] Failed to parse order event", slog.Any("error", err))

		return c.NoContent(http.StatusBadRequest)
	}

	event.RequestID = h.extractRequestID(ctx, &pushMsg, &event)
	reqLogger := h.logger.With(slog.String("request_id", event.RequestID))
	ctx = deliverycontext.WithRequestID(ctx, event.RequestID)
	ctx = deliverycontext.WithLogger(ctx, reqLogger)

	reqLogger.Info("[Worker] Processing order event",
		slog.String("message_id", pushMsg.Message.MessageID),
		slog.Uint64("order_id", uint64(event.OrderID)),
		slog.String("buy_order", event.BuyOrder),
	)

	if err := h.orderPaid.HandleOrderPaid(ctx, &event); err != nil {
		retryable := isRetryable(err)
		reqLogger.Error("[Worker] Failed to process order event",
			slog.Uint64("order_id", uint64(event.OrderID)),
			slog.Any("error", err),
			slog.Bool("retryable", retryable),
		)
		if retryable {
			return c.NoContent(http.StatusServiceUnavailable)
		}

		return c.NoContent(http.StatusOK)
	}

	reqLogger.Info("[Worker] Order event processed", slog.Uint64("order_id", uint64(event.OrderID)))

	return c.NoContent(http.StatusOK)
}

// extractRequestID prefers message attributes, then the event, then the request context.
func (h *PushHandler) extractRequestID(ctx context.Context, pushMsg *pubsub.PushMessage, event *service.OrderPaidEvent) string {
	if requestID := pushMsg.Message.Attributes[attributeRequestID]; requestID != "" {
		return requestID
	}
	if event.RequestID != "" {
		return event.RequestID
	}
	if requestID := deliverycontext.GetRequestIDFromContext(ctx); requestID != "" {
		return requestID
	}

	return uuid.New().String()
}

// isRetryable reports whether redelivery could succeed: mail relay and database failures.
func isRetryable(err error) bool {
	if errors.Is(err, domainerrors.ErrMailSendFailed) {
		return true
	}

	var dbErr *domainerrors.DatabaseExecuteError

	return errors.As(err, &dbErr)
}

// verifyPushToken checks the OIDC token Google attaches to authenticated push requests.
// Reference: https://cloud.google.com/pubsub/docs/authenticate-push-subscriptions
func (h *PushHandler) verifyPushToken(req *http.Request) error {
	authHeader := req.Header.Get(echo.HeaderAuthorization)
	const bearerPrefix = "Bearer "
	if !strings.HasPrefix(authHeader, bearerPrefix) {
		return errors.New("missing bearer token")
	}
	token := strings.TrimPrefix(authHeader, bearerPrefix)

	audience := h.audience
	if audience == "" {
		scheme := "https"
		if req.TLS == nil {
			scheme = "http"
		}
		audience = fmt.Sprintf("%s://%s%s", scheme, req.Host, req.URL.Path)
	}

	payload, err := h.validate(req.Context(), token, audience)
	if err != nil {
		return errors.Wrap(err, "failed to validate token")
	}

	if payload.Issuer != "accounts.google.com" && payload.Issuer != "https://accounts.google.com" {
		return errors.Errorf("invalid issuer: %s", payload.Issuer)
	}

	if emailVerified, ok := payload.Claims["email_verified"].(bool); ok && !emailVerified {
		return errors.New("email not verified")
	}

	return nil
}
