// Command server runs the places HTTP API.
//
// @title                       Places API
// @version                     1.0
// @description                 User-owned countries, states and places.
// @BasePath                    /
// @securityDefinitions.apikey  BearerAuth
// @in                          header
// @name                        Authorization
package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/99minutos/places-api/internal/api"
	"github.com/99minutos/places-api/internal/api/handler"
	"github.com/99minutos/places-api/internal/core/domain"
	"github.com/99minutos/places-api/internal/core/ports"
	"github.com/99minutos/places-api/internal/core/service"
	"github.com/99minutos/places-api/internal/infrastructure/db/redis"
	"github.com/99minutos/places-api/internal/infrastructure/store"
	"github.com/99minutos/places-api/internal/pkg/config"
	"github.com/99minutos/places-api/pkg/logger"
)

const shutdownTimeout = 10 * time.Second

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx); err != nil {
		log := logger.Get()
		log.Fatal().Err(err).Msg("server stopped")
	}
}

func run(ctx context.Context) error {
	cfg, err := config.Load(ctx)
	if err != nil {
		logger.Init(logger.Options{Service: "places-api"})
		return err
	}

	log := logger.Init(logger.Options{
		Level:   cfg.LogLevel,
		Pretty:  cfg.IsDevelopment(),
		Service: "places-api",
	})

	st, err := store.Open(ctx, cfg, log)
	if err != nil {
		return err
	}
	defer func() {
		closeCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := st.Close(closeCtx); err != nil {
			log.Error().Err(err).Msg("close store")
		}
	}()

	readiness := map[string]handler.Pinger{st.Driver: handler.PingerFunc(st.Ping)}

	var cache ports.TokenCache
	rdb, err := redis.Connect(ctx, redis.Config{Addr: cfg.Redis.Addr, DB: cfg.Redis.DB})
	if err != nil {
		return err
	}
	if rdb != nil {
		defer rdb.Close()
		cache = redis.NewTokenCache(rdb, cfg.Redis.TokenTTL)
		readiness["redis"] = handler.PingerFunc(func(ctx context.Context) error { return rdb.Ping(ctx).Err() })
		log.Info().Str("addr", cfg.Redis.Addr).Msg("token cache enabled")
	}

	accounts := service.NewAccountService(st.Accounts, log)
	tokens := service.NewTokenService(accounts, st.Accounts, st.Tokens, cache, cfg.JWTSecret, log)

	e, err := api.NewRouter(api.Dependencies{
		Accounts:  accounts,
		Tokens:    tokens,
		Countries: service.NewReferenceService(domain.KindCountry, st.Countries, log),
		States:    service.NewReferenceService(domain.KindState, st.States, log),
		Places:    service.NewPlaceService(st.Places, st.Countries, st.States, log),
		Readiness: readiness,
		Logger:    log,
	})
	if err != nil {
		return err
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info().Str("port", cfg.Port).Str("store", st.Driver).Msg("listening")
		if err := e.Start(":" + cfg.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	log.Info().Msg("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return e.Shutdown(shutdownCtx)
}
