package storage

import (
	"context"
	"database/sql"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	_ "modernc.org/sqlite"

	"tripbuilder/internal/model"
)

// setupStore creates an in-memory sqlite database with the schema applied.
func setupStore(t *testing.T) *SQLStore {
	t.Helper()

	db, err := sql.Open("sqlite", ":memory:")
	require.NoError(t, err)
	// The in-memory database lives inside a single connection; a second
	// pooled connection would see an empty schema.
	db.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = db.Close() })

	require.NoError(t, InitSchema(context.Background(), db))
	return NewSQLStore(db)
}

func insertTestPage(t *testing.T, store *SQLStore, id int64, name string) {
	t.Helper()
	err := store.InsertPage(context.Background(), &model.Page{ID: id, Name: name, Description: "desc of " + name})
	require.NoError(t, err)
}

func TestPageByName(t *testing.T) {
	store := setupStore(t)
	ctx := context.Background()
	insertTestPage(t, store, 1, "turkey.html")

	p, err := store.PageByName(ctx, "turkey.html")
	require.NoError(t, err)
	assert.Equal(t, int64(1), p.ID)
	assert.Equal(t, "turkey.html", p.Name)
	assert.Equal(t, "desc of turkey.html", p.Description)
}

func TestPageByNameNotFound(t *testing.T) {
	store := setupStore(t)

	_, err := store.PageByName(context.Background(), "missing.html")
	assert.ErrorIs(t, err, ErrPageNotFound)
}

func TestPageByNameIsExactMatch(t *testing.T) {
	store := setupStore(t)
	insertTestPage(t, store, 1, "turkey.html")

	_, err := store.PageByName(context.Background(), "Turkey.html")
	assert.ErrorIs(t, err, ErrPageNotFound)
}

func TestPageByID(t *testing.T) {
	store := setupStore(t)
	ctx := context.Background()
	insertTestPage(t, store, 7, "greece.html")

	p, err := store.PageByID(ctx, 7)
	require.NoError(t, err)
	assert.Equal(t, "greece.html", p.Name)

	_, err = store.PageByID(ctx, 99)
	assert.ErrorIs(t, err, ErrPageNotFound)
}

func TestPagesOrderedByID(t *testing.T) {
	store := setupStore(t)
	insertTestPage(t, store, 9, "z.html")
	insertTestPage(t, store, 2, "a.html")

	pages, err := store.Pages(context.Background())
	require.NoError(t, err)
	require.Len(t, pages, 2)
	assert.Equal(t, int64(2), pages[0].ID)
	assert.Equal(t, int64(9), pages[1].ID)
}

func TestSnippetsByPageOrderedByID(t *testing.T) {
	store := setupStore(t)
	ctx := context.Background()
	insertTestPage(t, store, 1, "turkey.html")

	// Inserted out of order on purpose.
	for _, id := range []int64{5, 3, 8} {
		err := store.InsertSnippet(ctx, &model.Snippet{ID: id, PageID: 1, Title: "t", Active: "1"})
		require.NoError(t, err)
	}

	snippets, err := store.SnippetsByPage(ctx, 1)
	require.NoError(t, err)
	require.Len(t, snippets, 3)
	assert.Equal(t, int64(3), snippets[0].ID)
	assert.Equal(t, int64(5), snippets[1].ID)
	assert.Equal(t, int64(8), snippets[2].ID)
}

func TestSnippetsByPageIncludesInactive(t *testing.T) {
	store := setupStore(t)
	ctx := context.Background()
	insertTestPage(t, store, 1, "turkey.html")

	require.NoError(t, store.InsertSnippet(ctx, &model.Snippet{ID: 1, PageID: 1, Active: "1"}))
	require.NoError(t, store.InsertSnippet(ctx, &model.Snippet{ID: 2, PageID: 1, Active: "0"}))
	require.NoError(t, store.InsertSnippet(ctx, &model.Snippet{ID: 3, PageID: 1}))

	snippets, err := store.SnippetsByPage(ctx, 1)
	require.NoError(t, err)
	assert.Len(t, snippets, 3, "inactive snippets must stay visible to the editor")
}

func TestSnippetRoundTrip(t *testing.T) {
	store := setupStore(t)
	ctx := context.Background()
	insertTestPage(t, store, 1, "turkey.html")

	original := &model.Snippet{
		ID:            10,
		PageID:        1,
		Code:          "TK01",
		RequestDesc:   "summer request",
		Destination:   "Istanbul",
		Image:         "istanbul.jpg",
		ImageTitle:    "Bosphorus",
		Tagline1:      "first",
		Tagline2:      "second",
		Price:         "1499",
		Title:         "Istanbul Week",
		ShortDesc:     "short",
		Description:   "long description",
		InclusionHTML: "<ul><li>flights</li></ul>",
		Active:        "1",
	}
	require.NoError(t, store.InsertSnippet(ctx, original))

	got, err := store.SnippetByID(ctx, 10)
	require.NoError(t, err)
	assert.Equal(t, original, got)
}

func TestSnippetNullFieldsScanAsEmpty(t *testing.T) {
	store := setupStore(t)
	ctx := context.Background()
	insertTestPage(t, store, 1, "turkey.html")

	require.NoError(t, store.InsertSnippet(ctx, &model.Snippet{ID: 1, PageID: 1}))

	got, err := store.SnippetByID(ctx, 1)
	require.NoError(t, err)
	assert.Empty(t, got.Code)
	assert.Empty(t, got.Active)
	assert.False(t, got.IsActive(), "absent active flag means inactive")
}

func TestUpdatePage(t *testing.T) {
	store := setupStore(t)
	ctx := context.Background()
	insertTestPage(t, store, 1, "turkey.html")

	err := store.UpdatePage(ctx, &model.Page{ID: 1, Name: "greece.html", Description: "renamed"})
	require.NoError(t, err)

	p, err := store.PageByName(ctx, "greece.html")
	require.NoError(t, err)
	assert.Equal(t, "renamed", p.Description)

	err = store.UpdatePage(ctx, &model.Page{ID: 99, Name: "nope"})
	assert.ErrorIs(t, err, ErrPageNotFound)
}

func TestUpdateSnippet(t *testing.T) {
	store := setupStore(t)
	ctx := context.Background()
	insertTestPage(t, store, 1, "turkey.html")
	require.NoError(t, store.InsertSnippet(ctx, &model.Snippet{ID: 1, PageID: 1, Title: "before", Active: "1"}))

	require.NoError(t, store.UpdateSnippet(ctx, &model.Snippet{ID: 1, PageID: 1, Title: "after", Active: "0"}))

	got, err := store.SnippetByID(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, "after", got.Title)
	assert.Equal(t, "0", got.Active)

	err = store.UpdateSnippet(ctx, &model.Snippet{ID: 42, PageID: 1})
	assert.ErrorIs(t, err, ErrSnippetNotFound)
}

func TestDuplicatePageNameRejected(t *testing.T) {
	store := setupStore(t)
	ctx := context.Background()
	insertTestPage(t, store, 1, "turkey.html")

	err := store.InsertPage(ctx, &model.Page{ID: 2, Name: "turkey.html"})
	require.Error(t, err)

	var opErr *OpError
	require.ErrorAs(t, err, &opErr)
	assert.Equal(t, KindQuery, opErr.Kind)
}
