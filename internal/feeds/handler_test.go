package feeds

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http/httptest"
	"testing"

	"github.com/shelfdex/shelfdex/internal/books"
	"github.com/shelfdex/shelfdex/pkg/pagination"
)

type fakeSystem struct {
	result   *pagination.PageResult[any]
	top      []books.SubjectCount
	subjects []books.TermCount
	children map[string][]books.LoCCChild
	count    int

	executed []*books.Query
}

func (f *fakeSystem) Handler() *books.Handler { return nil }

func (f *fakeSystem) Execute(_ context.Context, q *books.Query) (*pagination.PageResult[any], error) {
	f.executed = append(f.executed, q)
	if f.result != nil {
		return f.result, nil
	}
	return &pagination.PageResult[any]{Results: []any{}, Page: 1, PageSize: 28, TotalPages: 1}, nil
}

func (f *fakeSystem) Count(context.Context, *books.Query) (int, error) { return f.count, nil }

func (f *fakeSystem) TopSubjects(context.Context, *books.Query, int, int) ([]books.SubjectCount, error) {
	return f.top, nil
}

func (f *fakeSystem) ListSubjects(context.Context) ([]books.TermCount, error) {
	return f.subjects, nil
}

func (f *fakeSystem) ListBookshelves(context.Context) ([]books.TermCount, error) { return nil, nil }

func (f *fakeSystem) SubjectName(context.Context, int64) (string, error) { return "Sea stories", nil }

func (f *fakeSystem) LoCCChildren(_ context.Context, parent string) ([]books.LoCCChild, error) {
	return f.children[parent], nil
}

func (f *fakeSystem) RegisterCustomTransformer(books.Transformer) {}

func testHandler(sys books.System) *Handler {
	return NewHandler(sys, slog.New(slog.DiscardHandler), testConfig())
}

func decodeFeed(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	if got := rec.Header().Get("Content-Type"); got != ContentType {
		t.Errorf("Content-Type = %q, want %q", got, ContentType)
	}
	var feed map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &feed); err != nil {
		t.Fatalf("decode feed: %v", err)
	}
	return feed
}

func TestIndexFeed(t *testing.T) {
	h := testHandler(&fakeSystem{})
	rec := httptest.NewRecorder()
	h.Index(rec, httptest.NewRequest("GET", "/", nil))

	feed := decodeFeed(t, rec)
	meta := feed["metadata"].(map[string]any)
	if meta["title"] != "Project Gutenberg Catalog" {
		t.Errorf("title = %v", meta["title"])
	}

	nav := feed["navigation"].([]any)
	if len(nav) != 8 {
		t.Errorf("navigation entries = %d, want 8", len(nav))
	}

	var templated bool
	for _, raw := range feed["links"].([]any) {
		link := raw.(map[string]any)
		if link["rel"] == "search" && link["templated"] == true {
			templated = true
		}
	}
	if !templated {
		t.Error("missing templated search link")
	}
}

func TestSearchFeed(t *testing.T) {
	sys := &fakeSystem{
		result: &pagination.PageResult[any]{
			Results:    []any{map[string]any{"metadata": map[string]any{"title": "Moby Dick"}}},
			Page:       1,
			PageSize:   28,
			Total:      60,
			TotalPages: 3,
		},
		top: []books.SubjectCount{{ID: 31, Name: "Whaling", Count: 4}},
	}
	h := testHandler(sys)
	rec := httptest.NewRecorder()
	h.Search(rec, httptest.NewRequest("GET", "/search?query=whales", nil))

	feed := decodeFeed(t, rec)
	meta := feed["metadata"].(map[string]any)
	if meta["title"] != "Gutenberg Search Results" {
		t.Errorf("title = %v", meta["title"])
	}
	if meta["numberOfItems"] != float64(60) {
		t.Errorf("numberOfItems = %v", meta["numberOfItems"])
	}

	if pubs := feed["publications"].([]any); len(pubs) != 1 {
		t.Errorf("publications = %d, want 1", len(pubs))
	}

	// With top subjects present the genre facet slots in third.
	facets := feed["facets"].([]any)
	titles := make([]string, len(facets))
	for i, raw := range facets {
		titles[i] = raw.(map[string]any)["metadata"].(map[string]any)["title"].(string)
	}
	if titles[0] != "Sort By" || titles[1] != "Top Subjects in Results" || titles[2] != "Broad Genre" {
		t.Errorf("facet order = %v", titles)
	}

	rels := map[string]bool{}
	for _, raw := range feed["links"].([]any) {
		rels[raw.(map[string]any)["rel"].(string)] = true
	}
	if !rels["next"] || !rels["last"] {
		t.Errorf("page 1 of 3 should link next and last: %v", rels)
	}
	if rels["previous"] {
		t.Errorf("page 1 should not link previous: %v", rels)
	}
}

func TestSearchAppliesLoCCScope(t *testing.T) {
	sys := &fakeSystem{}
	h := testHandler(sys)
	rec := httptest.NewRecorder()
	h.Search(rec, httptest.NewRequest("GET", "/search?locc=ps", nil))

	if len(sys.executed) == 0 {
		t.Fatal("no query executed")
	}
	sql, params := sys.executed[0].Build()
	if params["__p0"] != "PS%" {
		t.Errorf("params = %v, want uppercased locc prefix", params)
	}
	if sql == "" {
		t.Error("empty sql")
	}
}

func TestBookshelvesRootNavigation(t *testing.T) {
	h := testHandler(&fakeSystem{})
	rec := httptest.NewRecorder()
	h.Bookshelves(rec, httptest.NewRequest("GET", "/bookshelves", nil))

	feed := decodeFeed(t, rec)
	nav := feed["navigation"].([]any)
	if len(nav) != len(books.CuratedShelves) {
		t.Errorf("navigation = %d, want %d categories", len(nav), len(books.CuratedShelves))
	}
}

func TestSubjectsRootTruncates(t *testing.T) {
	subjects := make([]books.TermCount, 150)
	for i := range subjects {
		subjects[i] = books.TermCount{ID: int64(i + 1), Name: "Subject", BookCount: i}
	}
	h := testHandler(&fakeSystem{subjects: subjects})
	rec := httptest.NewRecorder()
	h.Subjects(rec, httptest.NewRequest("GET", "/subjects", nil))

	feed := decodeFeed(t, rec)
	if nav := feed["navigation"].([]any); len(nav) != 100 {
		t.Errorf("navigation = %d, want capped at 100", len(nav))
	}
	meta := feed["metadata"].(map[string]any)
	if meta["numberOfItems"] != float64(150) {
		t.Errorf("numberOfItems should report the full total: %v", meta["numberOfItems"])
	}
}

func TestLoCCsNavigatesChildren(t *testing.T) {
	sys := &fakeSystem{
		children: map[string][]books.LoCCChild{
			"": {
				{Code: "P", Label: "Language and Literature", HasChildren: true},
				{Code: "Z", Label: "Bibliography", HasChildren: false},
			},
			"P": {{Code: "PS", Label: "P: American literature", HasChildren: false}},
		},
		count: 42,
	}
	h := testHandler(sys)
	rec := httptest.NewRecorder()
	h.LoCCs(rec, httptest.NewRequest("GET", "/loccs", nil))

	feed := decodeFeed(t, rec)
	nav := feed["navigation"].([]any)
	if len(nav) != 2 {
		t.Fatalf("navigation = %d", len(nav))
	}
	first := nav[0].(map[string]any)
	if first["title"] != "Language and Literature (1 subcategories)" {
		t.Errorf("title = %v", first["title"])
	}
	second := nav[1].(map[string]any)
	if second["title"] != "Bibliography (42 books)" {
		t.Errorf("title = %v", second["title"])
	}
}

func TestLoCCsLeafServesBooks(t *testing.T) {
	sys := &fakeSystem{}
	h := testHandler(sys)
	rec := httptest.NewRecorder()
	h.LoCCs(rec, httptest.NewRequest("GET", "/loccs?parent=PS", nil))

	feed := decodeFeed(t, rec)
	meta := feed["metadata"].(map[string]any)
	if meta["title"] != "PS" {
		t.Errorf("title = %v", meta["title"])
	}
	if _, ok := feed["publications"]; !ok {
		t.Error("leaf should serve an acquisition feed")
	}
	if len(sys.executed) == 0 {
		t.Fatal("no query executed")
	}
}

func TestSubjectDetailTitle(t *testing.T) {
	sys := &fakeSystem{}
	h := testHandler(sys)
	rec := httptest.NewRecorder()
	h.Subjects(rec, httptest.NewRequest("GET", "/subjects?id=32", nil))

	feed := decodeFeed(t, rec)
	meta := feed["metadata"].(map[string]any)
	if meta["title"] != "Sea stories" {
		t.Errorf("title = %v", meta["title"])
	}
}
