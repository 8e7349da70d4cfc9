package main

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/fastchannel/fastchannel-console/internal/config"
	"github.com/fastchannel/fastchannel-console/internal/db"
	"github.com/fastchannel/fastchannel-console/internal/logging"
	"github.com/fastchannel/fastchannel-console/internal/store"
)

const postgresRetryWait = 2 * time.Second

// openStore opens the backend named by the config. The returned close
// function releases everything openStore acquired.
func openStore(ctx context.Context, cfg config.Config, logger *slog.Logger) (store.Store, func(), error) {
	switch cfg.StoreDriver() {
	case config.StoreMemory:
		logger.Warn("using in-memory store, nothing survives a restart")
		return store.NewMemoryStore(), func() {}, nil

	case config.StorePostgres:
		pg, err := store.OpenPostgres(ctx, cfg.PostgresDSN(), config.DefaultPostgresRetries, postgresRetryWait)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to open postgres store: %w", err)
		}
		logger.Info("connected to postgres store")
		return pg, func() { pg.Close() }, nil

	default:
		database, err := db.New(cfg.DBPath(), logging.WithComponent(logger, "db"))
		if err != nil {
			return nil, nil, fmt.Errorf("failed to initialize database: %w", err)
		}
		logger.Info("opened sqlite store", "path", logging.SanitizePath(cfg.DBPath()))
		return store.NewSQLiteStore(database.Conn()), func() { database.Close() }, nil
	}
}
