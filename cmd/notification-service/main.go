package main

import (
	"context"

	"go.opentelemetry.io/otel"

	"sneakerspot/internal/pkg/bootstrap"
	"sneakerspot/internal/pkg/httpclient"
	"sneakerspot/internal/pkg/mq"
	"sneakerspot/internal/service/notification"
)

const (
	serviceName     = "notification-service"
	consumerGroupID = "notification-service-group"
)

func main() {
	cfg := bootstrap.Init(serviceName)

	tracer := otel.Tracer(serviceName)
	client := httpclient.NewClient(tracer)

	reader := mq.NewReader(cfg.Infra.Kafka.Brokers, mq.TopicOrderConfirmed, consumerGroupID)
	sender := notification.NewSMTPSender(cfg.SMTP.Host, cfg.SMTP.Port, cfg.SMTP.Sender, cfg.SMTP.SenderName)

	var consumer *notification.Consumer

	bootstrap.StartService(bootstrap.AppInfo{
		ServiceName: serviceName,
		Port:        8085,
		RegisterHandlers: func(appCtx bootstrap.AppCtx) {
			userBase := appCtx.Nacos.ResolveBaseURL("user-service", cfg.Services.UserService)
			users := notification.NewHTTPUserDirectory(userBase, client)
			consumer = notification.NewConsumer(reader, sender, users, cfg.SMTP.SenderName)
			consumer.Start(context.Background())
		},
		OnShutdown: func(ctx context.Context) {
			if consumer != nil {
				consumer.Stop()
			}
		},
	})
}
