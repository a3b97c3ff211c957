package main

import (
	"context"
	"time"

	"github.com/rs/zerolog/log"
	"go.opentelemetry.io/otel"

	"sneakerspot/internal/pkg/bootstrap"
	"sneakerspot/internal/pkg/httpclient"
	"sneakerspot/internal/pkg/mq"
	"sneakerspot/internal/pkg/redisx"
	"sneakerspot/internal/service/checkout/application"
	"sneakerspot/internal/service/checkout/infrastructure/adapter"
	"sneakerspot/internal/service/checkout/interfaces"
	"sneakerspot/internal/service/stockops"
)

const serviceName = "bff-user"

func main() {
	cfg := bootstrap.Init(serviceName)

	tracer := otel.Tracer(serviceName)
	client := httpclient.NewClient(tracer)

	confirmedWriter := mq.NewWriter(cfg.Infra.Kafka.Brokers, mq.TopicOrderConfirmed)
	redisClient := redisx.NewClient(cfg.Infra.Redis.Addr)

	bootstrap.StartService(bootstrap.AppInfo{
		ServiceName: serviceName,
		Port:        8080,
		RegisterHandlers: func(appCtx bootstrap.AppCtx) {
			userBase := appCtx.Nacos.ResolveBaseURL("user-service", cfg.Services.UserService)
			inventoryBase := appCtx.Nacos.ResolveBaseURL("inventory-service", cfg.Services.InventoryService)
			idpBase := appCtx.Nacos.ResolveBaseURL("idp-service", cfg.Services.IdpService)

			checkout := application.NewCheckoutService(
				adapter.NewCartHTTPAdapter(userBase, client),
				adapter.NewCatalogHTTPAdapter(inventoryBase, client),
				stockops.NewHTTPInventoryClient(inventoryBase, client),
				adapter.NewOrderStoreHTTPAdapter(userBase, client),
				adapter.NewNotifierKafkaAdapter(confirmedWriter),
				adapter.NewIdempotencyRedisAdapter(redisClient, time.Duration(cfg.Checkout.IdempotencyTTL)),
				tracer,
				cfg.Checkout.TaxRate,
				time.Duration(cfg.Checkout.UpstreamTimeout),
			)

			verifier := adapter.NewIdentityHTTPAdapter(idpBase, client)
			interfaces.NewCheckoutHandler(checkout, verifier).RegisterRoutes(appCtx.Mux)
		},
		OnShutdown: func(ctx context.Context) {
			if err := confirmedWriter.Close(); err != nil {
				log.Error().Err(err).Msg("error closing kafka writer")
			}
			if err := redisClient.Close(); err != nil {
				log.Error().Err(err).Msg("error closing redis client")
			}
		},
	})
}
