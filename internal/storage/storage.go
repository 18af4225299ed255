package storage

import (
	"context"
	"errors"
	"fmt"

	"tripbuilder/internal/model"
)

// Sentinel errors for lookups that legitimately come up empty. Callers are
// expected to treat these as normal outcomes, not infrastructure failures.
var (
	ErrPageNotFound    = errors.New("page not found")
	ErrSnippetNotFound = errors.New("snippet not found")
)

// Kind classifies a storage failure so callers can report the cause.
type Kind string

const (
	KindConnection Kind = "connection"
	KindQuery      Kind = "query"
)

// OpError wraps a database failure with the operation that produced it.
type OpError struct {
	Op   string
	Kind Kind
	Err  error
}

func (e *OpError) Error() string {
	return fmt.Sprintf("storage: %s failed (%s): %v", e.Op, e.Kind, e.Err)
}

func (e *OpError) Unwrap() error { return e.Err }

// Store defines the persistence operations for trip pages and snippets.
// The generator pipeline uses the read side only; the record editor uses
// both. Implementations are passed in explicitly so the pipeline can run
// against a substitute in tests.
type Store interface {
	// PageByName looks up a page by its exact name. Returns ErrPageNotFound
	// when no row matches.
	PageByName(ctx context.Context, name string) (*model.Page, error)

	// PageByID looks up a page by its id. Returns ErrPageNotFound when no
	// row matches.
	PageByID(ctx context.Context, id int64) (*model.Page, error)

	// Pages returns every page ordered by page id ascending.
	Pages(ctx context.Context) ([]model.Page, error)

	// SnippetsByPage returns every snippet belonging to the page, ordered
	// by snippet id ascending. Inactive snippets are included; active
	// filtering is the caller's concern so editing tools still see them.
	SnippetsByPage(ctx context.Context, pageID int64) ([]model.Snippet, error)

	// SnippetByID looks up a single snippet. Returns ErrSnippetNotFound
	// when no row matches.
	SnippetByID(ctx context.Context, id int64) (*model.Snippet, error)

	InsertPage(ctx context.Context, p *model.Page) error
	UpdatePage(ctx context.Context, p *model.Page) error
	InsertSnippet(ctx context.Context, s *model.Snippet) error
	UpdateSnippet(ctx context.Context, s *model.Snippet) error
}
