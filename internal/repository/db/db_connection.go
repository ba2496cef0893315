package db

import (
	"context"
	"database/sql"
	"embed"
	"fmt"
	stdlog "log"

	"weather_session/internal/logger"

	"github.com/pressly/goose/v3"
	_ "modernc.org/sqlite"
)

const (
	sqliteDriverName = "sqlite"
	gooseDialect     = "sqlite3"
	migrationsDir    = "migrations"
)

//go:embed migrations/*.sql
var migrations embed.FS

// InitDB opens/creates a SQLite DB file and migrates it to the latest schema.
func InitDB(ctx context.Context, path string, log *logger.Logger) (*sql.DB, error) {
	db, err := sql.Open(sqliteDriverName, path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite at %q: %w", path, err)
	}

	// One connection: a single writer, and ":memory:" stays one database.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	for _, pragma := range []string{
		"PRAGMA journal_mode = WAL;",
		"PRAGMA foreign_keys = ON;",
		"PRAGMA busy_timeout = 5000;",
	} {
		if _, err := db.ExecContext(ctx, pragma); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("set %s: %w", pragma, err)
		}
	}

	if err := Migrate(ctx, db, log); err != nil {
		_ = db.Close()
		return nil, err
	}

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping sqlite: %w", err)
	}

	return db, nil
}

// Migrate applies the embedded goose migrations.
func Migrate(ctx context.Context, db *sql.DB, log *logger.Logger) error {
	goose.SetBaseFS(migrations)
	goose.SetLogger(newGooseLogger(log))
	if err := goose.SetDialect(gooseDialect); err != nil {
		return fmt.Errorf("set goose dialect: %w", err)
	}
	if err := goose.UpContext(ctx, db, migrationsDir); err != nil {
		return fmt.Errorf("apply migrations: %w", err)
	}
	return nil
}

// gooseLogger routes goose output through zap. Without a logger, fatal
// messages still terminate the process through the standard logger.
type gooseLogger struct {
	log    *logger.Logger
	fatalf func(format string, v ...interface{})
}

func newGooseLogger(log *logger.Logger) gooseLogger {
	if log == nil {
		return gooseLogger{fatalf: stdlog.Fatalf}
	}
	return gooseLogger{log: log, fatalf: log.Fatalf}
}

func (g gooseLogger) Printf(format string, v ...interface{}) {
	if g.log != nil {
		g.log.Debugf(format, v...)
	}
}

func (g gooseLogger) Fatalf(format string, v ...interface{}) {
	g.fatalf(format, v...)
}
