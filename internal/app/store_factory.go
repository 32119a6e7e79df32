package app

import (
	"fmt"
	"strings"

	"github.com/shrimpsizemoose/checkmark/internal/store"
	"github.com/shrimpsizemoose/checkmark/internal/store/postgres"
	"github.com/shrimpsizemoose/checkmark/internal/store/sqlite"
)

// DBConfigFromDSN picks the dialect from the DSN scheme.
func DBConfigFromDSN(dsn, migrationsDir string) store.DBConfig {
	dbType := store.DBTypeSQLite
	if strings.HasPrefix(dsn, "postgres") {
		dbType = store.DBTypePostgres
	}
	return store.DBConfig{DSN: dsn, Type: dbType, MigrationsDir: migrationsDir}
}

func NewStore(cfg store.DBConfig) (store.CheckmarkStore, error) {
	switch cfg.Type {
	case store.DBTypePostgres:
		return postgres.NewPostgresStore(cfg.DSN, cfg.MigrationsDir)
	case store.DBTypeSQLite:
		return sqlite.NewSQLiteStore(cfg.DSN, cfg.MigrationsDir)
	default:
		return nil, fmt.Errorf("unable to determine database type from DSN: %s", cfg.DSN)
	}
}
