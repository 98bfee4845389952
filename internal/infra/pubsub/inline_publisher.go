package pubsub

import (
	"context"
	"log/slog"
	"strconv"
	"sync"

	deliverycontext "ferremas/internal/delivery/context"
	"ferremas/internal/domain/service"
)

// inlinePublisher hands events to an in-process handler on a background
// goroutine. Close waits for in-flight deliveries.
type inlinePublisher struct {
	handler service.OrderPaidHandler
	logger  *slog.Logger
	wg      sync.WaitGroup
}

// NewInlinePublisher creates a publisher that needs no broker or worker.
func NewInlinePublisher(handler service.OrderPaidHandler, logger *slog.Logger) service.EventPublisher {
	return &inlinePublisher{handler: handler, logger: logger}
}

func (p *inlinePublisher) PublishOrderPaid(ctx context.Context, event *service.OrderPaidEvent) error {
	ctx = deliverycontext.Detach(ctx)
	logger := deliverycontext.GetLoggerOrDefault(ctx, p.logger)

	p.wg.Add(1)
	go func() {
		defer p.wg.Done()

		if err := p.handler.HandleOrderPaid(ctx, event); err != nil {
			logger.ErrorContext(ctx, "[InlinePubSub] Order event handler failed",
				slog.Uint64("order_id", uint64(event.OrderID)),
				slog.Any("error", err),
			)
		}
	}()

	logger.DebugContext(ctx, "[InlinePubSub] Event dispatched", slog.Uint64("order_id", uint64(event.OrderID)))

	return nil
}

func (p *inlinePublisher) Close() error {
	p.wg.Wait()

	return nil
}

func uintString(v uint) string {
	return strconv.FormatUint(uint64(v), 10)
}
