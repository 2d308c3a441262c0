// Package store opens the configured storage backend and exposes it through
// the repository ports.
package store

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/99minutos/places-api/internal/core/domain"
	"github.com/99minutos/places-api/internal/core/ports"
	"github.com/99minutos/places-api/internal/infrastructure/db/mongo"
	"github.com/99minutos/places-api/internal/infrastructure/db/postgres"
	"github.com/99minutos/places-api/internal/pkg/config"
)

// Store bundles the repositories of one backend.
type Store struct {
	Driver    string
	Accounts  ports.AccountRepository
	Tokens    ports.TokenRepository
	Countries ports.ReferenceRepository
	States    ports.ReferenceRepository
	Places    ports.PlaceRepository

	ping  func(ctx context.Context) error
	close func(ctx context.Context) error
}

// Ping checks backend connectivity.
func (s *Store) Ping(ctx context.Context) error { return s.ping(ctx) }

// Close releases the backend connection.
func (s *Store) Close(ctx context.Context) error { return s.close(ctx) }

// Open connects to the backend selected by cfg.StoreDriver and prepares its
// schema: unique indexes on MongoDB, migrations on PostgreSQL.
func Open(ctx context.Context, cfg *config.Config, log zerolog.Logger) (*Store, error) {
	switch cfg.StoreDriver {
	case config.DriverMongo:
		return openMongo(ctx, cfg.Mongo, log)
	case config.DriverPostgres:
		return openPostgres(ctx, cfg.Postgres, log)
	default:
		return nil, fmt.Errorf("store: unsupported driver %q", cfg.StoreDriver)
	}
}

func openMongo(ctx context.Context, cfg config.MongoConfig, log zerolog.Logger) (*Store, error) {
	client, db, err := mongo.Connect(ctx, mongo.Config{URI: cfg.URI, Database: cfg.Database})
	if err != nil {
		return nil, err
	}
	if err := mongo.EnsureIndexes(ctx, db); err != nil {
		_ = client.Disconnect(ctx)
		return nil, err
	}
	log.Info().Str("database", cfg.Database).Msg("mongo store ready")

	return &Store{
		Driver:    config.DriverMongo,
		Accounts:  mongo.NewAccountRepository(db),
		Tokens:    mongo.NewTokenRepository(db),
		Countries: mongo.NewReferenceRepository(db, domain.KindCountry),
		States:    mongo.NewReferenceRepository(db, domain.KindState),
		Places:    mongo.NewPlaceRepository(db),
		ping:      func(ctx context.Context) error { return client.Ping(ctx, nil) },
		close:     client.Disconnect,
	}, nil
}

func openPostgres(ctx context.Context, cfg config.PostgresConfig, log zerolog.Logger) (*Store, error) {
	db, err := postgres.Connect(ctx, postgres.Config{DSN: cfg.DSN})
	if err != nil {
		return nil, err
	}
	if err := postgres.Migrate(ctx, db); err != nil {
		_ = db.Close()
		return nil, err
	}
	log.Info().Msg("postgres store ready")

	return &Store{
		Driver:    config.DriverPostgres,
		Accounts:  postgres.NewAccountRepository(db),
		Tokens:    postgres.NewTokenRepository(db),
		Countries: postgres.NewReferenceRepository(db, domain.KindCountry),
		States:    postgres.NewReferenceRepository(db, domain.KindState),
		Places:    postgres.NewPlaceRepository(db),
		ping:      db.PingContext,
		close:     func(context.Context) error { return db.Close() },
	}, nil
}
