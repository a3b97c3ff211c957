package main

import (
	"github.com/rs/zerolog/log"
	"go.opentelemetry.io/otel"

	"sneakerspot/internal/pkg/bootstrap"
	"sneakerspot/internal/service/user/application"
	"sneakerspot/internal/service/user/infrastructure"
	"sneakerspot/internal/service/user/interfaces"
)

const serviceName = "user-service"

func main() {
	cfg := bootstrap.Init(serviceName)

	db, err := infrastructure.OpenDB(cfg.Infra.UserDB.DSN)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to open user database")
	}
	if err := infrastructure.AutoMigrate(db); err != nil {
		log.Fatal().Err(err).Msg("failed to migrate user database")
	}

	tracer := otel.Tracer(serviceName)
	users := application.NewUserService(infrastructure.NewGormUserRepository(db))
	carts := application.NewCartService(infrastructure.NewGormCartRepository(db), tracer)
	orders := application.NewOrderService(infrastructure.NewGormOrderRepository(db), tracer)
	handler := interfaces.NewUserHandler(users, carts, orders)

	bootstrap.StartService(bootstrap.AppInfo{
		ServiceName: serviceName,
		Port:        8082,
		RegisterHandlers: func(appCtx bootstrap.AppCtx) {
			handler.RegisterRoutes(appCtx.Mux)
		},
	})
}
