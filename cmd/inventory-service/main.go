package main

import (
	"github.com/rs/zerolog/log"
	"go.opentelemetry.io/otel"

	"sneakerspot/internal/pkg/bootstrap"
	"sneakerspot/internal/service/inventory/application"
	"sneakerspot/internal/service/inventory/infrastructure"
	"sneakerspot/internal/service/inventory/interfaces"
)

const serviceName = "inventory-service"

func main() {
	cfg := bootstrap.Init(serviceName)

	db, err := infrastructure.OpenDB(cfg.Infra.InventoryDB.DSN)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to open inventory database")
	}
	if err := infrastructure.AutoMigrate(db); err != nil {
		log.Fatal().Err(err).Msg("failed to migrate inventory database")
	}

	tracer := otel.Tracer(serviceName)
	repo := infrastructure.NewGormProductRepository(db)
	stock := application.NewStockService(repo, tracer)
	catalog := application.NewCatalogService(repo, tracer)
	handler := interfaces.NewInventoryHandler(stock, catalog)

	bootstrap.StartService(bootstrap.AppInfo{
		ServiceName: serviceName,
		Port:        8083,
		RegisterHandlers: func(appCtx bootstrap.AppCtx) {
			handler.RegisterRoutes(appCtx.Mux)
		},
	})
}
