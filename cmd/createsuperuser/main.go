// Command createsuperuser creates an active staff account with superuser
// rights in the configured store.
//
//	createsuperuser -email admin@example.com -password s3cret
package main

import (
	"context"
	"flag"
	"os"

	"github.com/99minutos/places-api/internal/core/service"
	"github.com/99minutos/places-api/internal/infrastructure/store"
	"github.com/99minutos/places-api/internal/pkg/config"
	"github.com/99minutos/places-api/pkg/logger"
)

func main() {
	email := flag.String("email", "", "superuser email (required)")
	password := flag.String("password", "", "superuser password")
	flag.Parse()

	logger.Init(logger.Options{Pretty: true, Service: "createsuperuser"})

	if *email == "" {
		flag.Usage()
		os.Exit(2)
	}

	if err := run(context.Background(), *email, *password); err != nil {
		log := logger.Get()
		log.Fatal().Err(err).Msg("create superuser")
	}
}

func run(ctx context.Context, email, password string) error {
	log := logger.Get()

	cfg, err := config.Load(ctx)
	if err != nil {
		return err
	}

	st, err := store.Open(ctx, cfg, log)
	if err != nil {
		return err
	}
	defer func() {
		if err := st.Close(ctx); err != nil {
			log.Error().Err(err).Msg("close store")
		}
	}()

	account, err := service.NewAccountService(st.Accounts, log).CreateSuperuser(ctx, email, password)
	if err != nil {
		return err
	}
	log.Info().Int64("id", account.ID).Str("email", account.Email).Msg("superuser created")
	return nil
}
