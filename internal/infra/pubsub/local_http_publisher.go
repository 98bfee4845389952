package pubsub

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"log/slog"
	"time"

	deliverycontext "ferremas/internal/delivery/context"
	"ferremas/internal/domain/service"
	"ferremas/internal/errors"

	"github.com/go-resty/resty/v2"
	"github.com/google/uuid"
)

const localSubscription = "projects/local/subscriptions/order-events-sub"

// PushMessage is the body Google Pub/Sub sends to push subscriptions.
// The local publisher produces the same shape so the worker handles both.
type PushMessage struct {
	Message struct {
		Data        string            `json:"data"`
		Attributes  map[string]string `json:"attributes,omitempty"`
		MessageID   string            `json:"messageId"`
		PublishTime string            `json:"publishTime"`
	} `json:"message"`
	Subscription string `json:"subscription"`
}

// NewPushMessage wraps an encoded event in a push envelope.
func NewPushMessage(data []byte, attributes map[string]string, subscription string) *PushMessage {
	msg := &PushMessage{Subscription: subscription}
	msg.Message.Data = base64.StdEncoding.EncodeToString(data)
	msg.Message.Attributes = attributes
	msg.Message.MessageID = uuid.New().String()
	msg.Message.PublishTime = time.Now().UTC().Format(time.RFC3339)

	return msg
}

// localHTTPPublisher posts push envelopes straight to the worker endpoint,
// simulating a push subscription for development.
type localHTTPPublisher struct {
	endpoint string
	client   *resty.Client
	logger   *slog.Logger
}

func NewLocalHTTPPublisher(endpoint string, logger *slog.Logger) service.EventPublisher {
	return &localHTTPPublisher{
		endpoint: endpoint,
		client:   resty.New().SetTimeout(30 * time.Second),
		logger:   logger,
	}
}

func (p *localHTTPPublisher) PublishOrderPaid(ctx context.Context, event *service.OrderPaidEvent) error {
	logger := deliverycontext.GetLoggerOrDefault(ctx, p.logger)

	data, err := json.Marshal(event)
	if err != nil {
		return errors.WithStack(err)
	}
	pushMsg := NewPushMessage(data, eventAttributes(event), localSubscription)

	req := p.client.R().
		SetContext(ctx).
		SetHeader("Content-Type", "application/json").
		SetBody(pushMsg)
	if event.RequestID != "" {
		req.SetHeader(deliverycontext.HeaderXRequestID, event.RequestID)
	}

	resp, err := req.Post(p.endpoint)
	if err != nil {
		return errors.WithStack(err)
	}
	if resp.IsError() {
		return errors.Errorf("worker returned non-success status: %d", resp.StatusCode())
	}

	logger.InfoContext(ctx, "[LocalPubSub] Event published",
		slog.String("endpoint", p.endpoint),
		slog.Uint64("order_id", uint64(event.OrderID)),
		slog.String("message_id", pushMsg.Message.MessageID),
	)

	return nil
}

func (p *localHTTPPublisher) Close() error {
	return nil
}
