package storage

import (
	"fmt"

	"stockpipe/internal/application/port"
	"stockpipe/internal/infrastructure/config"
	"stockpipe/internal/infrastructure/storage/postgres"
	"stockpipe/internal/infrastructure/storage/sqlite"
)

// Open builds the relational quote repository selected by storage.driver.
func Open(cfg *config.Config) (port.QuoteRepository, error) {
	switch cfg.Storage.Driver {
	case "postgres":
		return postgres.New(cfg.PostgresDSN())
	case "sqlite":
		return sqlite.New(cfg.Storage.SQLite.Path)
	default:
		return nil, fmt.Errorf("unknown storage driver %q", cfg.Storage.Driver)
	}
}
