package app

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/avoronin/go-tasks/internal/config"
	"github.com/avoronin/go-tasks/internal/storage"
	"github.com/avoronin/go-tasks/internal/storage/memory"
	"github.com/avoronin/go-tasks/internal/storage/postgres"
)

var (
	globalStorage      storage.Storage
	globalPostgresPool *pgxpool.Pool
)

func MustOpenStorage() {
	cfg := config.Global().Storage
	switch cfg.Driver {
	case config.StorageDriverPostgres:
		mustConnectPostgres()
		globalStorage = postgres.New(globalPostgresPool)
	case config.StorageDriverMemory:
		globalStorage = memory.New()
		globalLogger.Warn().Msg("using in-memory storage, all data is lost on restart")
	default:
		globalLogger.Error().
			Str("driver", cfg.Driver).
			Msg("unknown storage driver")
		panic(fmt.Errorf("unknown storage driver: %s", cfg.Driver))
	}
	globalLogger.Info().
		Str("driver", cfg.Driver).
		Msg("opened storage")
}

func CloseStorage() {
	if globalPostgresPool != nil {
		globalPostgresPool.Close()
		globalLogger.Info().Msg("disconnected from postgres")
	}
}

func mustConnectPostgres() {
	cfg := config.Global().Postgres
	connURL := fmt.Sprintf("postgres://%s:%s@%s:%d/%s?sslmode=%s",
		cfg.Username, cfg.Password, cfg.Host,
		cfg.Port, cfg.Database, cfg.SSLMode)

	poolCfg, err := pgxpool.ParseConfig(connURL)
	if err != nil {
		globalLogger.Error().
			Err(err).
			Msg("failed to parse postgres config")
		panic(err)
	}
	poolCfg.ConnConfig.ConnectTimeout = cfg.ConnectTimeout

	globalPostgresPool, err = pgxpool.NewWithConfig(context.Background(), poolCfg)
	if err != nil {
		globalLogger.Error().
			Err(err).
			Msg("failed to connect to postgres")
		panic(err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), cfg.PingTimeout)
	defer cancel()

	err = globalPostgresPool.Ping(ctx)
	if err != nil {
		globalLogger.Error().
			Err(err).
			Msg("failed to ping postgres")
		panic(err)
	}
	globalLogger.Info().
		Str("host", cfg.Host).
		Int("port", cfg.Port).
		Msg("connected to postgres")
}
