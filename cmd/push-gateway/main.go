package main

import (
	"context"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"

	"sneakerspot/internal/pkg/bootstrap"
	"sneakerspot/internal/pkg/httpclient"
	"sneakerspot/internal/pkg/mq"
	"sneakerspot/internal/service/checkout/infrastructure/adapter"
	"sneakerspot/internal/service/push"
)

const serviceName = "push-gateway"

func main() {
	cfg := bootstrap.Init(serviceName)

	tracer := otel.Tracer(serviceName)
	client := httpclient.NewClient(tracer)

	hub := push.NewHub()
	go hub.Run()

	// Every gateway node consumes the full status-change stream under its
	// own group, since the user it must reach may be connected anywhere.
	nodeID := serviceName + "-" + uuid.New().String()[:8]
	reader := mq.NewReader(cfg.Infra.Kafka.Brokers, mq.TopicOrderStatusChanged, nodeID)
	consumer := push.NewConsumer(reader, hub)
	consumer.Start(context.Background())

	bootstrap.StartService(bootstrap.AppInfo{
		ServiceName: serviceName,
		Port:        8086,
		RegisterHandlers: func(appCtx bootstrap.AppCtx) {
			idpBase := appCtx.Nacos.ResolveBaseURL("idp-service", cfg.Services.IdpService)
			verifier := adapter.NewIdentityHTTPAdapter(idpBase, client)
			push.NewWSHandler(hub, verifier).RegisterRoutes(appCtx.Mux)
		},
		OnShutdown: func(ctx context.Context) {
			consumer.Stop()
		},
	})
}
