package main

import (
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"tripbuilder/internal/generator"
	"tripbuilder/internal/model"
	"tripbuilder/internal/pagemanager"
	"tripbuilder/internal/storage"

	"github.com/go-chi/chi/v5"
	"github.com/justinas/nosurf"
)

// newTemplateData builds the base map every template render starts from.
func (app *adminApplication) newTemplateData(r *http.Request) map[string]any {
	return map[string]any{
		"CSRFToken": nosurf.Token(r),
		"Flash":     r.URL.Query().Get("flash"),
		"FormError": r.URL.Query().Get("error"),
	}
}

func (app *adminApplication) render(w http.ResponseWriter, page string, data map[string]any) {
	ts, ok := app.templateCache[page]
	if !ok {
		app.logger.Error("Template not found in cache", "template", page)
		http.Error(w, "Internal Server Error - Template not found", http.StatusInternalServerError)
		return
	}
	if err := ts.ExecuteTemplate(w, "layout.html", data); err != nil {
		app.logger.Error("Error executing admin layout template", "template", page, "error", err)
	}
}

// dashboardHandler lists every page with its snippet counts.
func (app *adminApplication) dashboardHandler(w http.ResponseWriter, r *http.Request) {
	data := app.newTemplateData(r)

	summaries, err := app.manager.Summaries(r.Context())
	if err != nil {
		app.logger.Error("Failed to load page summaries", "error", err)
		data["LoadError"] = "Failed to load page list."
	}
	data["Summaries"] = summaries

	app.render(w, "dashboard.html", data)
}

// pageFormHandler shows the page editor, blank for /new or populated with
// the record and its snippets for an existing id.
func (app *adminApplication) pageFormHandler(w http.ResponseWriter, r *http.Request) {
	data := app.newTemplateData(r)

	if rawID := chi.URLParam(r, "pageID"); rawID != "" {
		id, err := strconv.ParseInt(rawID, 10, 64)
		if err != nil {
			http.Error(w, "Bad Request - Invalid page id", http.StatusBadRequest)
			return
		}
		page, err := app.store.PageByID(r.Context(), id)
		if err != nil {
			if errors.Is(err, storage.ErrPageNotFound) {
				http.NotFound(w, r)
				return
			}
			app.logger.Error("Failed to load page", "page_id", id, "error", err)
			http.Error(w, "Internal Server Error", http.StatusInternalServerError)
			return
		}
		snippets, err := app.store.SnippetsByPage(r.Context(), id)
		if err != nil {
			app.logger.Error("Failed to load snippets for page", "page_id", id, "error", err)
			http.Error(w, "Internal Server Error", http.StatusInternalServerError)
			return
		}
		data["Page"] = page
		data["Snippets"] = snippets
	} else {
		data["Page"] = &model.Page{}
		data["IsNew"] = true
	}

	app.render(w, "page_form.html", data)
}

// pageSaveHandler handles submission of the page editor form.
func (app *adminApplication) pageSaveHandler(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		app.logger.Error("Error parsing page form", "error", err)
		http.Error(w, "Bad Request", http.StatusBadRequest)
		return
	}

	isNew := chi.URLParam(r, "pageID") == ""
	form := pagemanager.PageForm{
		ID:          r.PostForm.Get("pageID"),
		Name:        r.PostForm.Get("pageName"),
		Description: r.PostForm.Get("pageDesc"),
	}

	page, err := app.manager.SavePage(r.Context(), form, isNew)
	if err != nil {
		app.logger.Error("Failed to save page", "page_id", form.ID, "error", err)
		back := r.URL.Path
		http.Redirect(w, r, back+"?error="+url.QueryEscape(err.Error()), http.StatusSeeOther)
		return
	}

	flash := fmt.Sprintf("Page '%s' saved.", page.Name)
	http.Redirect(w, r, fmt.Sprintf("/admin/pages/%d?flash=%s", page.ID, url.QueryEscape(flash)), http.StatusSeeOther)
}

// snippetFormHandler shows the snippet editor for one page.
func (app *adminApplication) snippetFormHandler(w http.ResponseWriter, r *http.Request) {
	pageID, err := strconv.ParseInt(chi.URLParam(r, "pageID"), 10, 64)
	if err != nil {
		http.Error(w, "Bad Request - Invalid page id", http.StatusBadRequest)
		return
	}
	page, err := app.store.PageByID(r.Context(), pageID)
	if err != nil {
		if errors.Is(err, storage.ErrPageNotFound) {
			http.NotFound(w, r)
			return
		}
		app.logger.Error("Failed to load page", "page_id", pageID, "error", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	data := app.newTemplateData(r)
	data["Page"] = page

	if rawID := chi.URLParam(r, "snippetID"); rawID != "" {
		id, err := strconv.ParseInt(rawID, 10, 64)
		if err != nil {
			http.Error(w, "Bad Request - Invalid snippet id", http.StatusBadRequest)
			return
		}
		snippet, err := app.store.SnippetByID(r.Context(), id)
		if err != nil {
			if errors.Is(err, storage.ErrSnippetNotFound) {
				http.NotFound(w, r)
				return
			}
			app.logger.Error("Failed to load snippet", "snippet_id", id, "error", err)
			http.Error(w, "Internal Server Error", http.StatusInternalServerError)
			return
		}
		data["Snippet"] = snippet
	} else {
		data["Snippet"] = &model.Snippet{PageID: pageID}
		data["IsNew"] = true
	}

	app.render(w, "snippet_form.html", data)
}

// snippetSaveHandler handles submission of the snippet editor form. The
// parent page id always comes from the URL, not the form.
func (app *adminApplication) snippetSaveHandler(w http.ResponseWriter, r *http.Request) {
	pageID := chi.URLParam(r, "pageID")
	if err := r.ParseForm(); err != nil {
		app.logger.Error("Error parsing snippet form", "error", err)
		http.Error(w, "Bad Request", http.StatusBadRequest)
		return
	}

	isNew := chi.URLParam(r, "snippetID") == ""
	form := pagemanager.SnippetForm{
		ID:            r.PostForm.Get("snippetID"),
		PageID:        pageID,
		Code:          r.PostForm.Get("code"),
		RequestDesc:   r.PostForm.Get("requestDesc"),
		Destination:   r.PostForm.Get("destination"),
		Image:         r.PostForm.Get("image"),
		ImageTitle:    r.PostForm.Get("imageTitle"),
		Tagline1:      r.PostForm.Get("tagline1"),
		Tagline2:      r.PostForm.Get("tagline2"),
		Price:         r.PostForm.Get("price"),
		Title:         r.PostForm.Get("title"),
		ShortDesc:     r.PostForm.Get("shortDesc"),
		Description:   r.PostForm.Get("description"),
		InclusionHTML: r.PostForm.Get("inclusionHTML"),
		Active:        r.PostForm.Get("active"),
	}

	snippet, err := app.manager.SaveSnippet(r.Context(), form, isNew)
	if err != nil {
		app.logger.Error("Failed to save snippet", "snippet_id", form.ID, "page_id", pageID, "error", err)
		back := r.URL.Path
		http.Redirect(w, r, back+"?error="+url.QueryEscape(err.Error()), http.StatusSeeOther)
		return
	}

	flash := fmt.Sprintf("Snippet %d saved.", snippet.ID)
	http.Redirect(w, r, fmt.Sprintf("/admin/pages/%d?flash=%s", snippet.PageID, url.QueryEscape(flash)), http.StatusSeeOther)
}

// generateHandler triggers generation for one page from its edit screen.
func (app *adminApplication) generateHandler(w http.ResponseWriter, r *http.Request) {
	pageID, err := strconv.ParseInt(chi.URLParam(r, "pageID"), 10, 64)
	if err != nil {
		http.Error(w, "Bad Request - Invalid page id", http.StatusBadRequest)
		return
	}
	if err := r.ParseForm(); err != nil {
		app.logger.Error("Error parsing generate form", "error", err)
		http.Error(w, "Bad Request", http.StatusBadRequest)
		return
	}

	page, err := app.store.PageByID(r.Context(), pageID)
	if err != nil {
		if errors.Is(err, storage.ErrPageNotFound) {
			http.NotFound(w, r)
			return
		}
		app.logger.Error("Failed to load page", "page_id", pageID, "error", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	req := generator.Request{
		PageName:        page.Name,
		SnippetTemplate: r.PostForm.Get("snippetTemplate"),
		OutputPath:      r.PostForm.Get("outputPath"),
	}
	path, err := app.manager.Generate(r.Context(), req)
	if err != nil {
		back := fmt.Sprintf("/admin/pages/%d", pageID)
		http.Redirect(w, r, back+"?error="+url.QueryEscape(err.Error()), http.StatusSeeOther)
		return
	}

	flash := fmt.Sprintf("Generated %s", path)
	http.Redirect(w, r, fmt.Sprintf("/admin/pages/%d?flash=%s", pageID, url.QueryEscape(flash)), http.StatusSeeOther)
}
