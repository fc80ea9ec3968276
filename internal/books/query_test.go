package books_test

import (
	"errors"
	"strings"
	"testing"

	"github.com/shelfdex/shelfdex/internal/books"
)

func TestQueryDefaults(t *testing.T) {
	sql, params := books.NewQuery().Build()

	if !strings.Contains(sql, "FROM mv_books_dc") {
		t.Errorf("missing view reference: %s", sql)
	}
	if strings.Contains(sql, "WHERE") {
		t.Errorf("unexpected WHERE in default query: %s", sql)
	}
	if !strings.Contains(sql, "ORDER BY downloads DESC") {
		t.Errorf("default order should be downloads DESC: %s", sql)
	}
	if !strings.Contains(sql, "LIMIT 25 OFFSET 0") {
		t.Errorf("default pagination wrong: %s", sql)
	}
	if len(params) != 0 {
		t.Errorf("params = %v, want empty", params)
	}
}

func TestSearchStrict(t *testing.T) {
	sql, params := books.NewQuery().
		Search("dog cat", books.FieldBook, books.SearchStrict).
		Build()

	if !strings.Contains(sql, "tsvec @@ websearch_to_tsquery('english', @__p0)") {
		t.Errorf("strict search clause missing: %s", sql)
	}
	if params["__p0"] != "dog cat" {
		t.Errorf("__p0 = %v, want %q", params["__p0"], "dog cat")
	}
}

func TestSearchFuzzy(t *testing.T) {
	sql, params := books.NewQuery().
		Search("dickens", books.FieldBook, books.SearchFuzzy).
		Build()

	if !strings.Contains(sql, "@__p0 <% book_text") {
		t.Errorf("fuzzy search clause missing: %s", sql)
	}
	if params["__p0"] != "dickens" {
		t.Errorf("__p0 = %v, want %q", params["__p0"], "dickens")
	}
}

func TestSearchBlankIsNoOp(t *testing.T) {
	sql, params := books.NewQuery().
		Search("   ", books.FieldBook, books.SearchStrict).
		Build()

	if strings.Contains(sql, "WHERE") {
		t.Errorf("blank search should add no clause: %s", sql)
	}
	if len(params) != 0 {
		t.Errorf("params = %v, want empty", params)
	}
}

func TestParamNumbering(t *testing.T) {
	_, params := books.NewQuery().
		Search("whales", books.FieldBook, books.SearchStrict).
		DownloadsAtLeast(100).
		DownloadsAtMost(5000).
		Build()

	want := map[string]any{"__p0": "whales", "__p1": 100, "__p2": 5000}
	for k, v := range want {
		if params[k] != v {
			t.Errorf("params[%q] = %v, want %v", k, params[k], v)
		}
	}
	if len(params) != len(want) {
		t.Errorf("params = %v, want %d entries", params, len(want))
	}
}

func TestSearchWithFiltersNests(t *testing.T) {
	sql, _ := books.NewQuery().
		Search("whales", books.FieldBook, books.SearchStrict).
		Language("EN").
		Build()

	idx := strings.Index(sql, "FROM (SELECT")
	if idx < 0 {
		t.Fatalf("search with filters should nest: %s", sql)
	}
	if !strings.Contains(sql[idx:], "websearch_to_tsquery") {
		t.Errorf("search clause should be inside the subquery: %s", sql)
	}
	outer := strings.Index(sql, ") t WHERE ")
	if outer < 0 {
		t.Fatalf("missing outer WHERE: %s", sql)
	}
	if !strings.Contains(sql[outer:], "lang_codes @> ARRAY[CAST(@__p1 AS text)]") {
		t.Errorf("filter clause should be outside the subquery: %s", sql)
	}
}

func TestLanguageLowercases(t *testing.T) {
	_, params := books.NewQuery().Language("FR").Build()
	if params["__p0"] != "fr" {
		t.Errorf("__p0 = %v, want fr", params["__p0"])
	}
}

func TestLoCCPrefixMatch(t *testing.T) {
	sql, params := books.NewQuery().LoCC("pr").Build()
	if !strings.Contains(sql, "lc.pk LIKE @__p0") {
		t.Errorf("locc clause missing: %s", sql)
	}
	if params["__p0"] != "PR%" {
		t.Errorf("__p0 = %v, want PR%%", params["__p0"])
	}
}

func TestRelevanceOrderStrict(t *testing.T) {
	sql, params := books.NewQuery().
		Search("moby dick", books.FieldBook, books.SearchStrict).
		OrderBy(books.OrderRelevance, books.SortDefault).
		Build()

	if !strings.Contains(sql, "ORDER BY ts_rank_cd(tsvec, websearch_to_tsquery('english', @rank_q)) DESC, downloads DESC") {
		t.Errorf("strict relevance order wrong: %s", sql)
	}
	if params["rank_q"] != "moby dick" {
		t.Errorf("rank_q = %v, want %q", params["rank_q"], "moby dick")
	}
}

func TestRelevanceOrderFuzzyStripsWildcards(t *testing.T) {
	sql, params := books.NewQuery().
		Search("dick%", books.FieldBook, books.SearchFuzzy).
		OrderBy(books.OrderRelevance, books.SortDefault).
		Build()

	if !strings.Contains(sql, "ORDER BY word_similarity(@rank_q, book_text) DESC, downloads DESC") {
		t.Errorf("fuzzy relevance order wrong: %s", sql)
	}
	if params["rank_q"] != "dick" {
		t.Errorf("rank_q = %v, want dick", params["rank_q"])
	}
}

func TestRelevanceRanksByLastSearchClause(t *testing.T) {
	sql, _ := books.NewQuery().
		Search("whales", books.FieldBook, books.SearchStrict).
		Search("melville", books.FieldBook, books.SearchFuzzy).
		OrderBy(books.OrderRelevance, books.SortDefault).
		Build()

	if !strings.Contains(sql, "word_similarity(@rank_q, book_text)") {
		t.Errorf("relevance should rank by the last search clause: %s", sql)
	}
}

func TestRelevanceWithoutSearchFallsBack(t *testing.T) {
	sql, _ := books.NewQuery().
		OrderBy(books.OrderRelevance, books.SortDefault).
		Build()

	if !strings.Contains(sql, "ORDER BY downloads DESC") {
		t.Errorf("relevance without search should order by downloads: %s", sql)
	}
}

func TestOrderClauses(t *testing.T) {
	tests := []struct {
		name string
		key  books.OrderBy
		dir  books.SortDirection
		want string
	}{
		{"title default asc", books.OrderTitle, books.SortDefault, "ORDER BY title ASC"},
		{"title override desc", books.OrderTitle, books.SortDesc, "ORDER BY title DESC"},
		{"author nulls last", books.OrderAuthor, books.SortDefault, "ORDER BY all_authors ASC NULLS LAST"},
		{"release date", books.OrderReleaseDate, books.SortDefault, "ORDER BY CAST(release_date AS date) DESC NULLS LAST"},
		{"random", books.OrderRandom, books.SortDefault, "ORDER BY RANDOM()"},
		{"unknown key", books.OrderBy("bogus"), books.SortDefault, "ORDER BY downloads DESC"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			sql, _ := books.NewQuery().OrderBy(tc.key, tc.dir).Build()
			if !strings.Contains(sql, tc.want) {
				t.Errorf("sql = %s, want %q", sql, tc.want)
			}
		})
	}
}

func TestPaginateClamps(t *testing.T) {
	sql, _ := books.NewQuery().Paginate(0, 500).Build()
	if !strings.Contains(sql, "LIMIT 100 OFFSET 0") {
		t.Errorf("page and size should clamp: %s", sql)
	}

	sql, _ = books.NewQuery().Paginate(3, 10).Build()
	if !strings.Contains(sql, "LIMIT 10 OFFSET 20") {
		t.Errorf("offset = (page-1)*size: %s", sql)
	}
}

func TestWhereRejectsReservedParams(t *testing.T) {
	err := books.NewQuery().Where("downloads > @n", map[string]any{"__p7": 1})
	if !errors.Is(err, books.ErrReservedParam) {
		t.Fatalf("err = %v, want ErrReservedParam", err)
	}

	if err := books.NewQuery().Where("downloads > @n", map[string]any{"n": 1}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestBuildCount(t *testing.T) {
	sql, _ := books.NewQuery().
		Search("whales", books.FieldBook, books.SearchStrict).
		PublicDomain().
		BuildCount()

	if !strings.HasPrefix(sql, "SELECT COUNT(*) FROM (SELECT") {
		t.Errorf("count with search and filters should nest: %s", sql)
	}
	if strings.Contains(sql, "ORDER BY") || strings.Contains(sql, "LIMIT") {
		t.Errorf("count should not order or paginate: %s", sql)
	}

	sql, _ = books.NewQuery().PublicDomain().BuildCount()
	if sql != "SELECT COUNT(*) FROM mv_books_dc WHERE copyrighted = 0" {
		t.Errorf("filter-only count wrong: %s", sql)
	}

	sql, _ = books.NewQuery().BuildCount()
	if sql != "SELECT COUNT(*) FROM mv_books_dc" {
		t.Errorf("bare count wrong: %s", sql)
	}
}

func TestFilterClausesConjoin(t *testing.T) {
	sql, _ := books.NewQuery().
		PublicDomain().
		Audiobook().
		Build()

	if !strings.Contains(sql, "copyrighted = 0 AND is_audio = true") {
		t.Errorf("filters should conjoin with AND: %s", sql)
	}
}

func TestBuildTopSubjectsSamplesAtMostMaxBooks(t *testing.T) {
	sql, params := books.NewQuery().
		Search("whaling", books.FieldBook, books.SearchStrict).
		BuildTopSubjects(10, 500)

	cte := strings.Index(sql, "LIMIT @max_books")
	join := strings.Index(sql, "JOIN mn_books_subjects")
	if cte == -1 {
		t.Fatalf("sample cap missing from CTE: %s", sql)
	}
	if join == -1 || join < cte {
		t.Fatalf("subject join should run over the capped sample: %s", sql)
	}
	if params["max_books"] != 500 {
		t.Errorf("max_books = %v, want 500", params["max_books"])
	}
	if params["limit"] != 10 {
		t.Errorf("limit = %v, want 10", params["limit"])
	}
	if !strings.Contains(sql, "LIMIT @limit") {
		t.Errorf("subject limit missing: %s", sql)
	}
}

func TestBuildTopSubjectsClamps(t *testing.T) {
	tests := []struct {
		name         string
		limit        int
		maxBooks     int
		wantLimit    int
		wantMaxBooks int
	}{
		{"over maximum", 500, 999999, 100, 5000},
		{"zero", 0, 0, 1, 1},
		{"negative", -3, -7, 1, 1},
		{"in range", 15, 2500, 15, 2500},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, params := books.NewQuery().BuildTopSubjects(tt.limit, tt.maxBooks)
			if params["limit"] != tt.wantLimit {
				t.Errorf("limit = %v, want %d", params["limit"], tt.wantLimit)
			}
			if params["max_books"] != tt.wantMaxBooks {
				t.Errorf("max_books = %v, want %d", params["max_books"], tt.wantMaxBooks)
			}
		})
	}
}

func TestBuildTopSubjectsReusesQueryOrder(t *testing.T) {
	sql, params := books.NewQuery().
		Search("moby dick", books.FieldBook, books.SearchStrict).
		PublicDomain().
		OrderBy(books.OrderRelevance, books.SortDefault).
		BuildTopSubjects(15, 1000)

	order := strings.Index(sql, "ORDER BY ts_rank_cd")
	sample := strings.Index(sql, "LIMIT @max_books")
	if order == -1 || sample == -1 || sample < order {
		t.Fatalf("sample should keep the query's relevance order: %s", sql)
	}
	if !strings.Contains(sql, "websearch_to_tsquery") {
		t.Errorf("search clause missing from sample WHERE: %s", sql)
	}
	if !strings.Contains(sql, "copyrighted = 0") {
		t.Errorf("filter clause missing from sample WHERE: %s", sql)
	}
	if _, ok := params["rank_q"]; !ok {
		t.Errorf("relevance rank parameter missing: %v", params)
	}
}
