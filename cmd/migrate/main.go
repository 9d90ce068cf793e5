// Package main implements the schema migration tool for the SQL result
// stores. It applies, rolls back and reports the embedded goose
// migrations of the configured storage driver.
//
// Usage:
//
//	migrate [-config path] [-env path] [-driver sqlite|postgres] [-url dsn] <up|down|reset|status|version>
package main

import (
	"context"
	"database/sql"
	"errors"
	"flag"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/phrazzld/pairmatch/internal/config"
	"github.com/phrazzld/pairmatch/internal/platform/logger"
	"github.com/phrazzld/pairmatch/internal/platform/migrate"
	"github.com/phrazzld/pairmatch/internal/platform/postgres"
	"github.com/phrazzld/pairmatch/internal/platform/sqlite"
	"github.com/phrazzld/pairmatch/internal/redact"
)

// errNoSchema is returned for drivers that keep no SQL schema.
var errNoSchema = errors.New("storage driver has no schema to migrate")

func main() {
	if err := run(context.Background(), os.Args[1:], os.Stdout, os.Stderr); err != nil {
		fmt.Fprintf(os.Stderr, "migrate: %s\n", redact.Error(err))
		os.Exit(1)
	}
}

// run parses args, loads configuration and executes one migration command.
func run(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	flags := flag.NewFlagSet("migrate", flag.ContinueOnError)
	flags.SetOutput(stderr)
	configPath := flags.String("config", "", "path to a YAML config file (default: ./config.yaml if present)")
	envPath := flags.String("env", ".env", "path to a .env file; ignored when missing")
	driver := flags.String("driver", "", "storage driver override (sqlite or postgres)")
	url := flags.String("url", "", "storage URL override")
	if err := flags.Parse(args); err != nil {
		return err
	}
	if flags.NArg() != 1 {
		flags.Usage()
		return fmt.Errorf("expected one command, one of %s", strings.Join(migrate.Commands, ", "))
	}
	command := flags.Arg(0)

	if err := godotenv.Load(*envPath); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("failed to load env file %s: %w", *envPath, err)
	}

	var (
		cfg *config.Config
		err error
	)
	if *configPath != "" {
		cfg, err = config.LoadFile(*configPath)
	} else {
		cfg, err = config.Load()
	}
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}
	if *driver != "" {
		cfg.Storage.Driver = *driver
	}
	if *url != "" {
		cfg.Storage.URL = *url
	}

	log := logger.New(logger.LoggerConfig{Level: cfg.Log.Level}, stderr)
	ctx = logger.WithLogger(ctx, log)

	db, src, err := openDatabase(ctx, cfg.Storage)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := db.Close(); cerr != nil {
			log.Error("failed to close database", slog.String("error", cerr.Error()))
		}
	}()

	log.Info("running migration command",
		slog.String("command", command),
		slog.String("driver", cfg.Storage.Driver),
		slog.String("url", redact.URL(cfg.Storage.URL)))
	if err := migrate.Run(ctx, db, src, command); err != nil {
		return err
	}

	version, err := migrate.Version(ctx, db, src)
	if err != nil {
		return fmt.Errorf("failed to read schema version: %w", err)
	}
	fmt.Fprintf(stdout, "%s: schema version %d\n", cfg.Storage.Driver, version)
	return nil
}

func openDatabase(ctx context.Context, cfg config.StorageConfig) (*sql.DB, migrate.Source, error) {
	switch cfg.Driver {
	case config.DriverSQLite:
		db, err := sqlite.OpenDB(ctx, cfg.URL)
		return db, sqlite.Source, err
	case config.DriverPostgres:
		db, err := postgres.OpenDB(ctx, cfg.URL)
		return db, postgres.Source, err
	case config.DriverMemory, config.DriverRedis:
		return nil, migrate.Source{}, fmt.Errorf("%w: %s", errNoSchema, cfg.Driver)
	default:
		return nil, migrate.Source{}, fmt.Errorf("unknown storage driver %q", cfg.Driver)
	}
}
