package main

import (
	"context"
	"log/slog"
	"os"

	"ferremas/config"
	"ferremas/internal/delivery"
	"ferremas/internal/delivery/api"
	"ferremas/internal/delivery/api/middleware"
	"ferremas/internal/delivery/api/router/handler"
	"ferremas/internal/domain/service"
	"ferremas/internal/infra/auth"
	"ferremas/internal/infra/auth/google"
	"ferremas/internal/infra/bcentral"
	logs "ferremas/internal/infra/log"
	"ferremas/internal/infra/mail"
	"ferremas/internal/infra/persistence/postgres"
	"ferremas/internal/infra/pubsub"
	"ferremas/internal/infra/qrcode"
	"ferremas/internal/infra/storage"
	"ferremas/internal/infra/webpay"
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
		injectUsecase(),
		injectDelivery(),
		injectMiddleware(),
		injectHandler(),
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
			postgres.NewUserRepository,
			postgres.NewAuthRepository,
			postgres.NewRefreshTokenRepository,
			postgres.NewCategoryRepository,
			postgres.NewProductRepository,
			postgres.NewCartRepository,
			postgres.NewOrderRepository,
			postgres.NewPaymentRepository,
			postgres.NewStoreRepository,
			postgres.NewTransactionManager,
		),
	)
}

func injectService() fx.Option {
	return fx.Options(
		fx.Provide(
			auth.NewBcryptHasher,
			auth.NewJWTService,
			google.NewAuthService,
			qrcode.NewFromConfig,
			webpay.NewClient,
			bcentral.NewClient,
			mail.NewMailer,
			mail.NewRenderer,
			storage.NewImageStorage,
			// The inline publisher delivers order events to the notification usecase in-process.
			func(uc usecase.NotificationUsecase) service.OrderPaidHandler { return uc },
		),
		pubsub.Module,
	)
}

func injectUsecase() fx.Option {
	return fx.Options(
		fx.Provide(
			impl.NewUserService,
			impl.NewCatalogService,
			impl.NewCartService,
			impl.NewCheckoutService,
			impl.NewCurrencyService,
			impl.NewNotificationService,
			impl.NewStoreService,
		),
	)
}

func injectMiddleware() fx.Option {
	return fx.Options(
		fx.Provide(
			middleware.NewAuthMiddleware,
		),
	)
}

func injectHandler() fx.Option {
	return fx.Options(
		fx.Provide(
			handler.NewUserHandler,
			handler.NewCatalogHandler,
			handler.NewCartHandler,
			handler.NewCheckoutHandler,
			handler.NewCurrencyHandler,
			handler.NewContactHandler,
			handler.NewStoreHandler,
			handler.NewUploadHandler,
		),
	)
}

func injectDelivery() fx.Option {
	return fx.Options(
		fx.Provide(
			fx.Annotate(
				api.NewServer,
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

				if shutdownErr := params.Shutdown(); shutdownErr != nil {
					slog.Error("Failed to shutdown gracefully", slog.Any("error", shutdownErr))
					os.Exit(1)
				}
			}
		}()
	}
}
