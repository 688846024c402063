package database

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"embed"
	"fmt"
	"io/fs"

	"codestats-proxy/internal/config"
	"codestats-proxy/internal/constants"

	"github.com/mattn/go-sqlite3"
	"github.com/pressly/goose/v3"
	"github.com/rs/zerolog"
)

//go:embed migrations/*.sql
var embedMigrations embed.FS

// driverName is go-sqlite3 with connectionPragmas applied on every new pool
// connection. A PRAGMA run once through *sql.DB only reaches one connection.
const driverName = "sqlite3_codestats"

// https://sqlite.org/pragma.html
var connectionPragmas = []string{
	"journal_mode = WAL",
	"synchronous = NORMAL",
	"busy_timeout = 5000",
	"cache_size = -16000",
	"temp_store = MEMORY",
	"mmap_size = 67108864",
}

func init() {
	sql.Register(driverName, &sqlite3.SQLiteDriver{
		ConnectHook: func(conn *sqlite3.SQLiteConn) error {
			for _, pragma := range connectionPragmas {
				if _, err := conn.Exec("PRAGMA "+pragma, []driver.Value{}); err != nil {
					return fmt.Errorf("failed to apply PRAGMA %s: %w", pragma, err)
				}
			}
			return nil
		},
	})
}

// New opens the acquisition history database and brings its schema up to date.
func New(cfg *config.Config, logger zerolog.Logger) (*sql.DB, error) {
	return Open(cfg.DBPath, logger)
}

func Open(path string, logger zerolog.Logger) (*sql.DB, error) {
	log := logger.With().Str("component", "history-db").Str("path", path).Logger()

	db, err := sql.Open(driverName, path)
	if err != nil {
		return nil, fmt.Errorf("failed to open history database: %w", err)
	}
	db.SetMaxOpenConns(constants.DBMaxOpenConns)
	db.SetMaxIdleConns(constants.DBMaxIdleConns)
	db.SetConnMaxLifetime(constants.DBConnMaxLifetime)
	db.SetConnMaxIdleTime(constants.DBMaxIdleTime)

	ctx, cancel := context.WithTimeout(context.Background(), constants.DatabaseTimeout)
	defer cancel()

	// surfaces a bad path or a failing pragma now instead of on the first write
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		log.Error().Err(err).Msg("history database unreachable")
		return nil, fmt.Errorf("failed to connect to history database: %w", err)
	}

	applied, err := migrate(ctx, db)
	if err != nil {
		_ = db.Close()
		log.Error().Err(err).Msg("history migrations failed")
		return nil, err
	}

	log.Info().Int("migrations_applied", applied).Msg("history database ready")
	return db, nil
}

// migrate applies pending embedded migrations and reports how many ran.
func migrate(ctx context.Context, db *sql.DB) (int, error) {
	fsys, err := fs.Sub(embedMigrations, "migrations")
	if err != nil {
		return 0, fmt.Errorf("failed to load migrations: %w", err)
	}

	provider, err := goose.NewProvider(goose.DialectSQLite3, db, fsys)
	if err != nil {
		return 0, fmt.Errorf("failed to create migration provider: %w", err)
	}

	results, err := provider.Up(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to run migrations: %w", err)
	}
	return len(results), nil
}
