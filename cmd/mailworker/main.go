package main

import (
	"context"
	"log/slog"
	"os"

	"ferremas/config"
	"ferremas/internal/delivery"
	"ferremas/internal/delivery/worker"
	"ferremas/internal/delivery/worker/handler"
	"ferremas/internal/domain/service"
	logs "ferremas/internal/infra/log"
	"ferremas/internal/infra/mail"
	"ferremas/internal/infra/persistence/postgres"
	"ferremas/internal/usecase"
	"ferremas/internal/usecase/impl"

	"go.uber.org/fx"
)

type startServerParams struct {
	fx.In
	fx.Lifecycle
	fx.Shutdowner

	Deliveries []delivery.Delivery `group:"deliveries"`
}

func main() {
	fx.New(
		injectInfra(),
		injectRepo(),
		injectService(),
		injectHandler(),
		injectDelivery(),
		fx.Invoke(
			startServer,
		),
	).Run()
}

func injectInfra() fx.Option {
	return fx.Provide(
		config.New,
		logs.New,
		context.Background,
		postgres.New,
	)
}

func injectRepo() fx.Option {
	return fx.Options(
		fx.Provide(
			postgres.NewOrderRepository,
			postgres.NewPaymentRepository,
		),
	)
}

func injectService() fx.Option {
	return fx.Options(
		fx.Provide(
			mail.NewMailer,
			mail.NewRenderer,
			impl.NewNotificationService,
			func(uc usecase.NotificationUsecase) service.OrderPaidHandler { return uc },
		),
	)
}

func injectHandler() fx.Option {
	return fx.Options(
		fx.Provide(
			handler.NewPushHandler,
		),
	)
}

func injectDelivery() fx.Option {
	return fx.Options(
		fx.Provide(
			fx.Annotate(
				worker.NewServer,
				fx.ResultTags(`group:"deliveries"`),
			),
		),
	)
}

func startServer(ctx context.Context, params startServerParams) {
	for _, delivery := range params.Deliveries {
		go func() {
			if err := delivery.Serve(ctx); err != nil {
				slog.Error("Failed to start server", slog.Any("error", err))

				// Trigger graceful shutdown to execute all OnStop hooks
				if shutdownErr := params.Shutdown(); shutdownErr != nil {
					slog.Error("Failed to shutdown gracefully", slog.Any("error", shutdownErr))
					os.Exit(1)
				}
			}
		}()
	}
}
