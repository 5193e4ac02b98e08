package database

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	_ "github.com/mattn/go-sqlite3"

	coreconfig "github.com/m3rciful/leadrelay/core/config"
	"github.com/m3rciful/leadrelay/core/logger"
	"log/slog"
)

// Connect opens the database connection, configures the pool, and verifies connectivity.
func Connect(cfg coreconfig.DatabaseConfig) (*sqlx.DB, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	driver, dsn, err := driverDSN(cfg)
	if err != nil {
		return nil, err
	}

	start := time.Now()
	sqlxDB, err := sqlx.ConnectContext(ctx, driver, dsn)
	took := time.Since(start)
	if err != nil {
		logger.DB.Error("db connect failed",
			slog.String("event", "db.connect"),
			slog.String("driver", driver),
			slog.String("db", describeTarget(cfg)),
			slog.Duration("duration", logger.RoundMS(took)),
			slog.String("err", err.Error()),
		)
		return nil, fmt.Errorf("db connect: %w", err)
	}

	sqlxDB.SetMaxOpenConns(poolSize(cfg))
	sqlxDB.SetMaxIdleConns(poolSize(cfg))

	logger.DB.Info("db connected",
		slog.String("event", "db.connect"),
		slog.String("driver", driver),
		slog.String("db", describeTarget(cfg)),
		slog.Int("pool_open", poolSize(cfg)),
		slog.Duration("duration", logger.RoundMS(took)),
	)

	return sqlxDB, nil
}

func driverDSN(cfg coreconfig.DatabaseConfig) (string, string, error) {
	switch cfg.Driver {
	case coreconfig.DriverSQLite:
		if dir := filepath.Dir(cfg.Path); dir != "." && dir != "" {
			if err := os.MkdirAll(dir, 0o755); err != nil {
				return "", "", fmt.Errorf("create db dir: %w", err)
			}
		}
		return "sqlite3", cfg.Path, nil
	case coreconfig.DriverPostgres:
		return "postgres", cfg.PostgresDSN(), nil
	default:
		return "", "", fmt.Errorf("unsupported database driver: %q", cfg.Driver)
	}
}

func poolSize(cfg coreconfig.DatabaseConfig) int {
	// sqlite serializes writers internally; a single connection avoids
	// SQLITE_BUSY churn under concurrent handlers.
	if cfg.Driver == coreconfig.DriverSQLite {
		return 1
	}
	return cfg.MaxConnections
}

func describeTarget(cfg coreconfig.DatabaseConfig) string {
	if cfg.Driver == coreconfig.DriverSQLite {
		return cfg.Path
	}
	return fmt.Sprintf("%s:%s/%s", cfg.Host, cfg.Port, cfg.Name)
}

// WaitForPostgres tries to connect to the DB until it is ready or timeout is reached.
func WaitForPostgres(dsn string, timeout time.Duration) error {
	start := time.Now()
	var lastErr error
	for {
		db, err := sql.Open("postgres", dsn)
		if err == nil {
			if err = db.Ping(); err == nil {
				_ = db.Close()
				return nil
			}
			_ = db.Close()
		}
		lastErr = err
		if time.Since(start) > timeout {
			return fmt.Errorf("timeout reached waiting for database: %w", lastErr)
		}
		time.Sleep(2 * time.Second)
	}
}
