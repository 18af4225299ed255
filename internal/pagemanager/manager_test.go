package pagemanager

import (
	"context"
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tripbuilder/internal/model"
	"tripbuilder/internal/storage"
)

// memStore is a minimal in-memory storage.Store for manager tests.
type memStore struct {
	pages    map[int64]model.Page
	snippets map[int64]model.Snippet
}

func newMemStore() *memStore {
	return &memStore{
		pages:    map[int64]model.Page{},
		snippets: map[int64]model.Snippet{},
	}
}

func (m *memStore) PageByName(_ context.Context, name string) (*model.Page, error) {
	for _, p := range m.pages {
		if p.Name == name {
			return &p, nil
		}
	}
	return nil, storage.ErrPageNotFound
}

func (m *memStore) PageByID(_ context.Context, id int64) (*model.Page, error) {
	if p, ok := m.pages[id]; ok {
		return &p, nil
	}
	return nil, storage.ErrPageNotFound
}

func (m *memStore) Pages(_ context.Context) ([]model.Page, error) {
	var out []model.Page
	for _, p := range m.pages {
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (m *memStore) SnippetsByPage(_ context.Context, pageID int64) ([]model.Snippet, error) {
	var out []model.Snippet
	for _, s := range m.snippets {
		if s.PageID == pageID {
			out = append(out, s)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (m *memStore) SnippetByID(_ context.Context, id int64) (*model.Snippet, error) {
	if s, ok := m.snippets[id]; ok {
		return &s, nil
	}
	return nil, storage.ErrSnippetNotFound
}

func (m *memStore) InsertPage(_ context.Context, p *model.Page) error {
	m.pages[p.ID] = *p
	return nil
}

func (m *memStore) UpdatePage(_ context.Context, p *model.Page) error {
	if _, ok := m.pages[p.ID]; !ok {
		return storage.ErrPageNotFound
	}
	m.pages[p.ID] = *p
	return nil
}

func (m *memStore) InsertSnippet(_ context.Context, s *model.Snippet) error {
	m.snippets[s.ID] = *s
	return nil
}

func (m *memStore) UpdateSnippet(_ context.Context, s *model.Snippet) error {
	if _, ok := m.snippets[s.ID]; !ok {
		return storage.ErrSnippetNotFound
	}
	m.snippets[s.ID] = *s
	return nil
}

func TestSavePageValidation(t *testing.T) {
	mgr := New(newMemStore(), nil, nil)
	ctx := context.Background()

	tests := []struct {
		name  string
		form  PageForm
		field string
	}{
		{"missing id", PageForm{Name: "turkey.html"}, "page id"},
		{"non-integer id", PageForm{ID: "abc", Name: "turkey.html"}, "page id"},
		{"missing name", PageForm{ID: "1"}, "page name"},
		{"blank name", PageForm{ID: "1", Name: "   "}, "page name"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := mgr.SavePage(ctx, tt.form, true)
			var vErr *ValidationError
			require.ErrorAs(t, err, &vErr)
			assert.Equal(t, tt.field, vErr.Field)
		})
	}
}

func TestSavePageInsertAndUpdate(t *testing.T) {
	store := newMemStore()
	mgr := New(store, nil, nil)
	ctx := context.Background()

	page, err := mgr.SavePage(ctx, PageForm{ID: "1", Name: " turkey.html ", Description: "Trips to Turkey"}, true)
	require.NoError(t, err)
	assert.Equal(t, "turkey.html", page.Name, "name should be trimmed")

	page, err = mgr.SavePage(ctx, PageForm{ID: "1", Name: "greece.html"}, false)
	require.NoError(t, err)
	assert.Equal(t, "greece.html", store.pages[1].Name)
	assert.Equal(t, "greece.html", page.Name)

	_, err = mgr.SavePage(ctx, PageForm{ID: "99", Name: "nope.html"}, false)
	assert.ErrorIs(t, err, storage.ErrPageNotFound)
}

func TestSaveSnippetValidation(t *testing.T) {
	mgr := New(newMemStore(), nil, nil)
	ctx := context.Background()

	_, err := mgr.SaveSnippet(ctx, SnippetForm{PageID: "1"}, true)
	var vErr *ValidationError
	require.ErrorAs(t, err, &vErr)
	assert.Equal(t, "snippet id", vErr.Field)

	_, err = mgr.SaveSnippet(ctx, SnippetForm{ID: "1", PageID: "x"}, true)
	require.ErrorAs(t, err, &vErr)
	assert.Equal(t, "page id", vErr.Field)

	_, err = mgr.SaveSnippet(ctx, SnippetForm{ID: "1", PageID: "1", Active: "yes"}, true)
	require.ErrorAs(t, err, &vErr)
	assert.Equal(t, "active", vErr.Field)
}

func TestSaveSnippetActiveDefaultsToZero(t *testing.T) {
	store := newMemStore()
	mgr := New(store, nil, nil)

	snippet, err := mgr.SaveSnippet(context.Background(), SnippetForm{ID: "1", PageID: "1", Title: "Tour"}, true)
	require.NoError(t, err)
	assert.Equal(t, "0", snippet.Active)
	assert.False(t, snippet.IsActive())
}

func TestSaveSnippetRoundTrip(t *testing.T) {
	store := newMemStore()
	mgr := New(store, nil, nil)
	ctx := context.Background()

	form := SnippetForm{
		ID: "3", PageID: "1",
		Code: " TK01 ", Title: "Istanbul Week", Price: "1499", Active: "1",
	}
	snippet, err := mgr.SaveSnippet(ctx, form, true)
	require.NoError(t, err)
	assert.Equal(t, "TK01", snippet.Code, "fields should be trimmed")
	assert.True(t, snippet.IsActive())

	form.Title = "Istanbul Fortnight"
	snippet, err = mgr.SaveSnippet(ctx, form, false)
	require.NoError(t, err)
	assert.Equal(t, "Istanbul Fortnight", store.snippets[3].Title)
	assert.Equal(t, "Istanbul Fortnight", snippet.Title)
}

func TestSummaries(t *testing.T) {
	store := newMemStore()
	mgr := New(store, nil, nil)
	ctx := context.Background()

	require.NoError(t, store.InsertPage(ctx, &model.Page{ID: 1, Name: "turkey.html"}))
	require.NoError(t, store.InsertPage(ctx, &model.Page{ID: 2, Name: "greece.html"}))
	require.NoError(t, store.InsertSnippet(ctx, &model.Snippet{ID: 1, PageID: 1, Active: "1"}))
	require.NoError(t, store.InsertSnippet(ctx, &model.Snippet{ID: 2, PageID: 1, Active: "0"}))
	require.NoError(t, store.InsertSnippet(ctx, &model.Snippet{ID: 3, PageID: 1, Active: "2"}))

	summaries, err := mgr.Summaries(ctx)
	require.NoError(t, err)
	require.Len(t, summaries, 2)

	assert.Equal(t, "turkey.html", summaries[0].Page.Name)
	assert.Equal(t, 3, summaries[0].SnippetCount)
	assert.Equal(t, 2, summaries[0].ActiveCount)

	assert.Equal(t, "greece.html", summaries[1].Page.Name)
	assert.Equal(t, 0, summaries[1].SnippetCount)
}
