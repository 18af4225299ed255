// Command tripgen generates static trip pages from database content and
// template files, and provides small management helpers around the same
// records.
package main

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/spf13/cobra"

	_ "github.com/jackc/pgx/v5/stdlib"
	_ "modernc.org/sqlite"

	"tripbuilder/internal/config"
	"tripbuilder/internal/storage"
)

var logLevel string

func main() {
	root := &cobra.Command{
		Use:           "tripgen",
		Short:         "Generate static trip pages from database content and templates",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVar(&logLevel, "log-level", "info", "log level (debug, info, warn, error)")

	root.AddCommand(newGenerateCmd())
	root.AddCommand(newListCmd())
	root.AddCommand(newInitCmd())

	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

// newLogger builds the application logger from the --log-level flag.
func newLogger() *slog.Logger {
	var level slog.Level
	switch strings.ToLower(logLevel) {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		level = slog.LevelInfo
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
}

// openStore resolves the configuration and opens the database. The caller
// must close the returned handle.
func openStore(ctx context.Context) (*storage.SQLStore, *sql.DB, *config.Settings, error) {
	settings, err := config.Load()
	if err != nil {
		return nil, nil, nil, err
	}

	db, err := storage.Open(ctx, settings.Database.DriverName(), settings.Database.DSN())
	if err != nil {
		return nil, nil, nil, err
	}

	// A sqlite database is self-contained; make sure the tables exist.
	if settings.Database.DriverName() == "sqlite" {
		if err := storage.InitSchema(ctx, db); err != nil {
			_ = db.Close()
			return nil, nil, nil, err
		}
	}

	return storage.NewSQLStore(db), db, settings, nil
}
