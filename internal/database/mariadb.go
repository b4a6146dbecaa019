// Package database owns the backing-store connections: the MariaDB pool
// holding users and listings, the Redis client holding sessions, and the
// startup schema migrations. Connections are opened once in main and handed
// to the rest of the application; nothing else dials out.
package database

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	// Registers the "mysql" driver with database/sql.
	_ "github.com/go-sql-driver/mysql"

	"github.com/kinderhomes/kinder-estate/internal/config"
)

// pingTimeout bounds each connectivity probe during startup.
const pingTimeout = 5 * time.Second

// NewMariaDB opens the MariaDB pool and blocks until the server answers a
// ping. In a compose deployment the database container is usually still
// warming up when this process starts, so unreachability is retried with
// exponential backoff rather than failing the boot outright.
func NewMariaDB(cfg config.DatabaseConfig) (*sql.DB, error) {
	db, err := sql.Open("mysql", cfg.DSN())
	if err != nil {
		return nil, fmt.Errorf("opening mariadb pool: %w", err)
	}

	db.SetMaxOpenConns(cfg.MaxOpenConns)
	db.SetMaxIdleConns(cfg.MaxIdleConns)
	db.SetConnMaxLifetime(cfg.ConnMaxLifetime)

	if err := waitForPing(db); err != nil {
		db.Close()
		return nil, err
	}

	return db, nil
}

// waitForPing probes the server until it responds or the retry budget runs
// out. Backoff doubles per attempt, capped at 30s.
func waitForPing(db *sql.DB) error {
	const attempts = 10
	delay := time.Second

	var lastErr error
	for i := 1; i <= attempts; i++ {
		ctx, cancel := context.WithTimeout(context.Background(), pingTimeout)
		lastErr = db.PingContext(ctx)
		cancel()

		if lastErr == nil {
			return nil
		}
		if i == attempts {
			break
		}

		slog.Warn("waiting for mariadb",
			slog.Int("attempt", i),
			slog.Duration("retry_in", delay),
			slog.Any("error", lastErr),
		)
		time.Sleep(delay)
		delay = min(delay*2, 30*time.Second)
	}

	return fmt.Errorf("mariadb unreachable after %d attempts: %w", attempts, lastErr)
}
