// Package pubsub publishes order events to the mail worker.
package pubsub

import (
	"context"
	"log/slog"

	"ferremas/config"
	"ferremas/internal/domain/constants"
	"ferremas/internal/domain/service"
	"ferremas/internal/errors"

	"go.uber.org/fx"
)

// Attribute keys set on every published message.
const (
	AttrEventType = "event_type"
	AttrOrderID   = "order_id"
	AttrRequestID = "request_id"

	EventTypeOrderPaid = "order.paid"
)

// PublisherParams holds dependencies for EventPublisher, injected by Fx.
type PublisherParams struct {
	fx.In

	Lc      fx.Lifecycle
	Ctx     context.Context
	Config  *config.Config
	Logger  *slog.Logger
	Handler service.OrderPaidHandler `optional:"true"`
}

// NewEventPublisher selects the publisher named by pubsub.provider.
func NewEventPublisher(params PublisherParams) (service.EventPublisher, error) {
	cfg := params.Config.PubSub
	logger := params.Logger

	provider := constants.PubSubProviderInline
	if cfg != nil && cfg.Provider != "" {
		provider = cfg.Provider
	}

	var publisher service.EventPublisher
	var err error

	switch provider {
	case constants.PubSubProviderInline:
		if params.Handler == nil {
			return nil, errors.New("inline provider requires an order event handler")
		}
		logger.Info("Using inline publisher for order events")

		publisher = NewInlinePublisher(params.Handler, logger)

	case constants.PubSubProviderLocal:
		if cfg.LocalEndpoint == "" {
			return nil, errors.New("local endpoint is required for local provider")
		}
		logger.Info("Using local HTTP publisher for order events",
			slog.String("endpoint", cfg.LocalEndpoint),
		)

		publisher = NewLocalHTTPPublisher(cfg.LocalEndpoint, logger)

	case constants.PubSubProviderGoogle:
		if cfg.ProjectID == "" {
			return nil, errors.New("project ID is required for google provider")
		}
		if cfg.TopicID == "" {
			return nil, errors.New("topic ID is required for google provider")
		}
		logger.Info("Using Google Pub/Sub publisher",
			slog.String("project_id", cfg.ProjectID),
			slog.String("topic_id", cfg.TopicID),
		)

		publisher, err = NewGooglePubSubPublisher(params.Ctx, cfg.ProjectID, cfg.TopicID, logger)
		if err != nil {
			return nil, err
		}

	default:
		return nil, errors.Errorf("unknown pubsub provider: %s", provider)
	}

	params.Lc.Append(fx.Hook{
		OnStop: func(ctx context.Context) error {
			logger.Info("Closing EventPublisher")

			return publisher.Close()
		},
	})

	return publisher, nil
}

func eventAttributes(event *service.OrderPaidEvent) map[string]string {
	attrs := map[string]string{
		AttrEventType: EventTypeOrderPaid,
		AttrOrderID:   uintString(event.OrderID),
	}
	if event.RequestID != "" {
		attrs[AttrRequestID] = event.RequestID
	}

	return attrs
}

// Module provides the Pub/Sub FX module
//
//nolint:gochecknoglobals
var Module = fx.Options(
	fx.Provide(NewEventPublisher),
)
