// Package pagemanager coordinates record edits and page generation for the
// CLI and the admin editor. It owns the form validation rules previously
// duplicated between the two surfaces.
package pagemanager

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strconv"
	"strings"

	"github.com/google/uuid"

	"tripbuilder/internal/generator"
	"tripbuilder/internal/model"
	"tripbuilder/internal/storage"
)

// Manager wraps a Store and a Builder behind edit/generate operations.
type Manager struct {
	store   storage.Store
	builder *generator.Builder
	logger  *slog.Logger
}

// New creates a Manager. A nil logger discards all output.
func New(store storage.Store, builder *generator.Builder, logger *slog.Logger) *Manager {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Manager{store: store, builder: builder, logger: logger}
}

// ValidationError reports a rejected form value by field.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Reason)
}

// PageForm holds raw editor input for a page before validation.
type PageForm struct {
	ID          string
	Name        string
	Description string
}

// SnippetForm holds raw editor input for a snippet before validation. All
// values arrive as strings straight from the form.
type SnippetForm struct {
	ID            string
	PageID        string
	Code          string
	RequestDesc   string
	Destination   string
	Image         string
	ImageTitle    string
	Tagline1      string
	Tagline2      string
	Price         string
	Title         string
	ShortDesc     string
	Description   string
	InclusionHTML string
	Active        string
}

// SavePage validates the form and inserts or updates the page record.
func (m *Manager) SavePage(ctx context.Context, form PageForm, isNew bool) (*model.Page, error) {
	id, err := requireInt("page id", form.ID)
	if err != nil {
		return nil, err
	}
	name := strings.TrimSpace(form.Name)
	if name == "" {
		return nil, &ValidationError{Field: "page name", Reason: "is required"}
	}

	page := &model.Page{
		ID:          id,
		Name:        name,
		Description: strings.TrimSpace(form.Description),
	}

	if isNew {
		err = m.store.InsertPage(ctx, page)
	} else {
		err = m.store.UpdatePage(ctx, page)
	}
	if err != nil {
		return nil, err
	}
	m.logger.Info("saved page", "page_id", page.ID, "name", page.Name, "new", isNew)
	return page, nil
}

// SaveSnippet validates the form and inserts or updates the snippet record.
// An empty active flag defaults to "0", matching the original editor;
// anything else must parse as an integer.
func (m *Manager) SaveSnippet(ctx context.Context, form SnippetForm, isNew bool) (*model.Snippet, error) {
	id, err := requireInt("snippet id", form.ID)
	if err != nil {
		return nil, err
	}
	pageID, err := requireInt("page id", form.PageID)
	if err != nil {
		return nil, err
	}

	active := strings.TrimSpace(form.Active)
	if active == "" {
		active = "0"
	} else if _, err := strconv.Atoi(active); err != nil {
		return nil, &ValidationError{Field: "active", Reason: "must be an integer"}
	}

	snippet := &model.Snippet{
		ID:            id,
		PageID:        pageID,
		Code:          strings.TrimSpace(form.Code),
		RequestDesc:   strings.TrimSpace(form.RequestDesc),
		Destination:   strings.TrimSpace(form.Destination),
		Image:         strings.TrimSpace(form.Image),
		ImageTitle:    strings.TrimSpace(form.ImageTitle),
		Tagline1:      strings.TrimSpace(form.Tagline1),
		Tagline2:      strings.TrimSpace(form.Tagline2),
		Price:         strings.TrimSpace(form.Price),
		Title:         strings.TrimSpace(form.Title),
		ShortDesc:     strings.TrimSpace(form.ShortDesc),
		Description:   strings.TrimSpace(form.Description),
		InclusionHTML: strings.TrimSpace(form.InclusionHTML),
		Active:        active,
	}

	if isNew {
		err = m.store.InsertSnippet(ctx, snippet)
	} else {
		err = m.store.UpdateSnippet(ctx, snippet)
	}
	if err != nil {
		return nil, err
	}
	m.logger.Info("saved snippet", "snippet_id", snippet.ID, "page_id", snippet.PageID, "new", isNew)
	return snippet, nil
}

// Generate runs the page generation pipeline, tagging the run with a job id
// so concurrent invocations can be told apart in the logs.
func (m *Manager) Generate(ctx context.Context, req generator.Request) (string, error) {
	job := uuid.New().String()
	m.logger.Info("generation started", "job", job, "page", req.PageName)

	path, err := m.builder.Generate(ctx, req)
	if err != nil {
		m.logger.Error("generation failed", "job", job, "page", req.PageName, "error", err)
		return "", err
	}
	m.logger.Info("generation finished", "job", job, "page", req.PageName, "output", path)
	return path, nil
}

// PageSummary pairs a page with its snippet counts for listings.
type PageSummary struct {
	Page         model.Page
	SnippetCount int
	ActiveCount  int
}

// Summaries returns every page with its total and active snippet counts,
// ordered by page id.
func (m *Manager) Summaries(ctx context.Context) ([]PageSummary, error) {
	pages, err := m.store.Pages(ctx)
	if err != nil {
		return nil, err
	}

	summaries := make([]PageSummary, 0, len(pages))
	for _, page := range pages {
		snippets, err := m.store.SnippetsByPage(ctx, page.ID)
		if err != nil {
			return nil, err
		}
		summary := PageSummary{Page: page, SnippetCount: len(snippets)}
		for i := range snippets {
			if snippets[i].IsActive() {
				summary.ActiveCount++
			}
		}
		summaries = append(summaries, summary)
	}
	return summaries, nil
}

func requireInt(field, value string) (int64, error) {
	v := strings.TrimSpace(value)
	if v == "" {
		return 0, &ValidationError{Field: field, Reason: "is required"}
	}
	n, err := strconv.ParseInt(v, 10, 64)
	if err != nil {
		return 0, &ValidationError{Field: field, Reason: "must be an integer"}
	}
	return n, nil
}
