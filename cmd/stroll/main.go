package main

import (
	"context"
	"log/slog"
	"os"

	"stroll/config"
	"stroll/internal/delivery"
	"stroll/internal/delivery/http"
	"stroll/internal/delivery/http/middleware"
	"stroll/internal/delivery/http/router/handler"
	deliverymiddleware "stroll/internal/delivery/middleware"
	"stroll/internal/domain/service"
	"stroll/internal/infra/cache"
	"stroll/internal/infra/embedding"
	"stroll/internal/infra/geocode"
	"stroll/internal/infra/legresolver"
	logs "stroll/internal/infra/log"
	"stroll/internal/infra/narrative"
	"stroll/internal/infra/persistence/postgres"
	"stroll/internal/usecase/impl"

	"go.uber.org/fx"
)

type startServerParams struct {
	fx.In
	fx.Lifecycle

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
			postgres.NewPOIRepository,
		),
	)
}

func injectService() fx.Option {
	return fx.Options(
		fx.Provide(
			embedding.NewHTTPProvider,
			geocode.NewNominatimGeocoder,
			narrative.NewTemplateGenerator,
			legresolver.NewOSRMProvider,
			newLegCache,
			legresolver.NewResolver,
		),
	)
}

// newLegCache creates the shared leg cache with the configured TTL
func newLegCache(cfg *config.Config) service.LegCache {
	return cache.NewLegCache(cfg.LegResolver.CacheTTL)
}

func injectUsecase() fx.Option {
	return fx.Options(
		fx.Provide(
			impl.NewItineraryService,
		),
	)
}

func injectMiddleware() fx.Option {
	return fx.Options(
		fx.Provide(
			middleware.NewErrorMiddleware,
			middleware.NewLoggerMiddleware,
			deliverymiddleware.NewRequestIDMiddleware,
		),
	)
}

func injectHandler() fx.Option {
	return fx.Options(
		fx.Provide(
			handler.NewItineraryHandler,
		),
	)
}

func injectDelivery() fx.Option {
	return fx.Options(
		fx.Provide(
			fx.Annotate(
				http.NewServer,
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
				os.Exit(1)
			}
		}()
	}
}
