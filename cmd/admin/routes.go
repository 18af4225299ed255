package main

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/justinas/nosurf"
)

// routes sets up the HTTP router for the admin application.
func (app *adminApplication) routes() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(60 * time.Second))

	r.Get("/", app.dashboardHandler)

	// Page records
	r.Get("/admin/pages/new", app.pageFormHandler)
	r.Post("/admin/pages/new", app.pageSaveHandler)
	r.Get("/admin/pages/{pageID}", app.pageFormHandler)
	r.Post("/admin/pages/{pageID}", app.pageSaveHandler)

	// Snippet records, always scoped to their parent page
	r.Get("/admin/pages/{pageID}/snippets/new", app.snippetFormHandler)
	r.Post("/admin/pages/{pageID}/snippets/new", app.snippetSaveHandler)
	r.Get("/admin/pages/{pageID}/snippets/{snippetID}", app.snippetFormHandler)
	r.Post("/admin/pages/{pageID}/snippets/{snippetID}", app.snippetSaveHandler)

	// Trigger page generation from the edit screen
	r.Post("/admin/pages/{pageID}/generate", app.generateHandler)

	// nosurf wraps the whole router so every POST form is CSRF-checked.
	return nosurf.New(r)
}
