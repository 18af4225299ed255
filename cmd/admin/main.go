// Command admin serves the web-based record editor for trip pages and
// snippets. It is a master-detail editor: pick a page, edit its fields,
// edit its snippets, trigger generation. Records are inserted and updated
// only; nothing is ever deleted here.
package main

import (
	"context"
	"flag"
	"fmt"
	"html/template"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	_ "github.com/jackc/pgx/v5/stdlib"
	_ "modernc.org/sqlite"

	"tripbuilder/internal/config"
	"tripbuilder/internal/generator"
	"tripbuilder/internal/pagemanager"
	"tripbuilder/internal/storage"
)

// adminApplication holds the application-wide dependencies for the admin
// server.
type adminApplication struct {
	logger        *slog.Logger
	store         storage.Store
	manager       *pagemanager.Manager
	templateCache map[string]*template.Template
}

// newTemplateCache parses every page template together with the shared
// layout so handlers can execute them without touching the disk again.
func newTemplateCache(templatesDir string) (map[string]*template.Template, error) {
	cache := map[string]*template.Template{}

	pages := []string{
		"dashboard.html",
		"page_form.html",
		"snippet_form.html",
	}

	for _, page := range pages {
		ts, err := template.ParseFiles(
			filepath.Join(templatesDir, "layout.html"),
			filepath.Join(templatesDir, page),
		)
		if err != nil {
			return nil, fmt.Errorf("error parsing admin template %s: %w", page, err)
		}
		cache[page] = ts
	}
	return cache, nil
}

func main() {
	addr := flag.String("addr", ":8081", "HTTP listen address")
	templatesDir := flag.String("ui-templates", filepath.Join("web", "admin", "templates"), "admin UI template directory")
	logLevel := flag.String("log-level", "info", "log level (debug, info, warn, error)")
	flag.Parse()

	var level slog.Level
	switch strings.ToLower(*logLevel) {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		level = slog.LevelInfo
	}
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: level}))

	settings, err := config.Load()
	if err != nil {
		logger.Error("Failed to load configuration", "error", err)
		os.Exit(1)
	}

	ctx := context.Background()
	db, err := storage.Open(ctx, settings.Database.DriverName(), settings.Database.DSN())
	if err != nil {
		logger.Error("Failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer func() { _ = db.Close() }()

	if settings.Database.DriverName() == "sqlite" {
		if err := storage.InitSchema(ctx, db); err != nil {
			logger.Error("Failed to initialise database schema", "error", err)
			os.Exit(1)
		}
	}

	store := storage.NewSQLStore(db)
	builder := generator.NewBuilder(store, logger, settings.TemplatesDir)
	manager := pagemanager.New(store, builder, logger)

	templateCache, err := newTemplateCache(*templatesDir)
	if err != nil {
		logger.Error("Failed to create template cache", "error", err)
		os.Exit(1)
	}
	logger.Info("Admin UI templates cached successfully")

	app := &adminApplication{
		logger:        logger,
		store:         store,
		manager:       manager,
		templateCache: templateCache,
	}

	logger.Info("Starting admin server", "address", fmt.Sprintf("http://localhost%s", *addr))
	if err := http.ListenAndServe(*addr, app.routes()); err != nil {
		logger.Error("Admin server failed", "error", err)
		os.Exit(1)
	}
}
