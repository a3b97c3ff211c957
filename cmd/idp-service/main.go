package main

import (
	"github.com/rs/zerolog/log"

	"sneakerspot/internal/pkg/bootstrap"
	idapp "sneakerspot/internal/service/identity/application"
	"sneakerspot/internal/service/identity/interfaces"
	userapp "sneakerspot/internal/service/user/application"
	userinfra "sneakerspot/internal/service/user/infrastructure"
)

const serviceName = "idp-service"

func main() {
	cfg := bootstrap.Init(serviceName)
	if cfg.Auth.JWTSecret == "" {
		log.Fatal().Msg("JWT_SECRET must be configured")
	}

	// The identity provider reads the same user database the user service
	// writes, so credential checks never leave the process.
	db, err := userinfra.OpenDB(cfg.Infra.UserDB.DSN)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to open user database")
	}

	users := userapp.NewUserService(userinfra.NewGormUserRepository(db))
	tokens := idapp.NewTokenService(cfg.Auth.JWTSecret, userinfra.NewGormRefreshTokenStore(db))
	handler := interfaces.NewIdentityHandler(tokens, users)

	bootstrap.StartService(bootstrap.AppInfo{
		ServiceName: serviceName,
		Port:        8084,
		RegisterHandlers: func(appCtx bootstrap.AppCtx) {
			handler.RegisterRoutes(appCtx.Mux)
		},
	})
}
