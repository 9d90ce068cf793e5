// Package migrate applies embedded goose migrations to the SQL result
// stores. It wraps goose's package-level API behind a mutex so the SQLite
// and Postgres backends can migrate from the same process.
package migrate

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/phrazzld/pairmatch/internal/platform/logger"
	"github.com/pressly/goose/v3"
)

// TableName is the goose version table used by every dialect.
const TableName = "pairmatch_schema_migrations"

// Commands accepted by Run.
const (
	CommandUp      = "up"
	CommandDown    = "down"
	CommandReset   = "reset"
	CommandStatus  = "status"
	CommandVersion = "version"
)

// Commands lists every command accepted by Run.
var Commands = []string{CommandUp, CommandDown, CommandReset, CommandStatus, CommandVersion}

// ErrUnknownCommand is returned for a command not in Commands.
var ErrUnknownCommand = errors.New("unknown migration command")

// gooseMu serializes access to goose's global dialect, base FS and logger.
var gooseMu sync.Mutex

// Source describes one set of embedded migrations.
type Source struct {
	// Dialect is a goose dialect name, "postgres" or "sqlite3".
	Dialect string
	// FS holds the .sql migration files at its root.
	FS fs.FS
}

// Run executes command against db using the migrations in src.
func Run(ctx context.Context, db *sql.DB, src Source, command string) error {
	if db == nil {
		return fmt.Errorf("migrate: db is required")
	}

	ctx = logger.WithMigrationID(ctx, uuid.New().String())
	log := logger.FromContext(ctx).With(
		slog.String("component", "migrations"),
		slog.String("dialect", src.Dialect),
		slog.String("command", command),
	)

	gooseMu.Lock()
	defer gooseMu.Unlock()

	goose.SetLogger(&slogGooseLogger{logger: log})
	goose.SetBaseFS(src.FS)
	defer goose.SetBaseFS(nil)
	goose.SetTableName(TableName)

	if err := goose.SetDialect(src.Dialect); err != nil {
		log.Error("failed to set dialect", slog.String("error", err.Error()))
		return fmt.Errorf("failed to set dialect: %w", err)
	}

	startTime := time.Now()
	var err error
	switch command {
	case CommandUp:
		err = goose.UpContext(ctx, db, ".")
	case CommandDown:
		err = goose.DownContext(ctx, db, ".")
	case CommandReset:
		err = goose.ResetContext(ctx, db, ".")
	case CommandStatus:
		err = goose.StatusContext(ctx, db, ".")
	case CommandVersion:
		err = goose.VersionContext(ctx, db, ".")
	default:
		log.Error("unknown migration command", slog.Any("valid_commands", Commands))
		return fmt.Errorf("%w: %q (expected one of %v)", ErrUnknownCommand, command, Commands)
	}

	duration := time.Since(startTime)
	if err != nil {
		log.Error("migration command failed",
			slog.String("error", err.Error()),
			slog.Int64("duration_ms", duration.Milliseconds()))
		return fmt.Errorf("migration command '%s' failed: %w", command, err)
	}

	log.Debug("migration command executed successfully",
		slog.Int64("duration_ms", duration.Milliseconds()))
	return nil
}

// Version returns the current schema version recorded in the goose table.
func Version(ctx context.Context, db *sql.DB, src Source) (int64, error) {
	gooseMu.Lock()
	defer gooseMu.Unlock()

	goose.SetTableName(TableName)
	if err := goose.SetDialect(src.Dialect); err != nil {
		return 0, fmt.Errorf("failed to set dialect: %w", err)
	}
	return goose.GetDBVersionContext(ctx, db)
}

// slogGooseLogger adapts the goose logger interface to use slog
type slogGooseLogger struct {
	logger *slog.Logger
}

// Printf forwards goose progress messages at debug level.
func (l *slogGooseLogger) Printf(format string, v ...interface{}) {
	l.logger.Debug(fmt.Sprintf(format, v...))
}

// Fatalf forwards goose failures at error level.
// It does not exit; goose returns the error to Run.
func (l *slogGooseLogger) Fatalf(format string, v ...interface{}) {
	l.logger.Error(fmt.Sprintf(format, v...))
}
