package main

import (
	"context"

	"github.com/rs/zerolog/log"
	"go.opentelemetry.io/otel"

	"sneakerspot/internal/pkg/bootstrap"
	"sneakerspot/internal/pkg/httpclient"
	"sneakerspot/internal/pkg/mq"
	"sneakerspot/internal/pkg/zookeeper"
	checkoutadapter "sneakerspot/internal/service/checkout/infrastructure/adapter"
	"sneakerspot/internal/service/reconciler/application"
	"sneakerspot/internal/service/reconciler/infrastructure/adapter"
	"sneakerspot/internal/service/reconciler/interfaces"
	"sneakerspot/internal/service/reconciler/port"
	"sneakerspot/internal/service/stockops"
)

const serviceName = "bff-admin"

func main() {
	cfg := bootstrap.Init(serviceName)

	tracer := otel.Tracer(serviceName)
	client := httpclient.NewClient(tracer)

	statusWriter := mq.NewWriter(cfg.Infra.Kafka.Brokers, mq.TopicOrderStatusChanged)

	// Per-order locking is only distributed when a ZooKeeper ensemble is
	// configured. A single-instance deployment runs lock-free.
	var (
		locker port.Locker = port.NoopLocker{}
		zkConn *zookeeper.Conn
	)
	if len(cfg.Infra.Zookeeper.Addrs) > 0 {
		conn, err := zookeeper.Connect(cfg.Infra.Zookeeper.Addrs)
		if err != nil {
			log.Fatal().Err(err).Msg("failed to connect to zookeeper")
		}
		zkConn = conn
		locker = adapter.NewZKLockerAdapter(conn)
	}

	bootstrap.StartService(bootstrap.AppInfo{
		ServiceName: serviceName,
		Port:        8081,
		RegisterHandlers: func(appCtx bootstrap.AppCtx) {
			userBase := appCtx.Nacos.ResolveBaseURL("user-service", cfg.Services.UserService)
			inventoryBase := appCtx.Nacos.ResolveBaseURL("inventory-service", cfg.Services.InventoryService)
			idpBase := appCtx.Nacos.ResolveBaseURL("idp-service", cfg.Services.IdpService)

			reconciler := application.NewReconcilerService(
				adapter.NewOrderStoreHTTPAdapter(userBase, client),
				stockops.NewHTTPInventoryClient(inventoryBase, client),
				locker,
				adapter.NewPublisherKafkaAdapter(statusWriter),
				tracer,
			)

			verifier := checkoutadapter.NewIdentityHTTPAdapter(idpBase, client)
			interfaces.NewReconcilerHandler(reconciler, verifier).RegisterRoutes(appCtx.Mux)
		},
		OnShutdown: func(ctx context.Context) {
			if err := statusWriter.Close(); err != nil {
				log.Error().Err(err).Msg("error closing kafka writer")
			}
			if zkConn != nil {
				zkConn.Close()
			}
		},
	})
}
