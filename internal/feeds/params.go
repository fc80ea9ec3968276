package feeds

import (
	"net/url"
	"strconv"
	"strings"

	"github.com/shelfdex/shelfdex/internal/books"
	"github.com/shelfdex/shelfdex/pkg/pagination"
)

// Params carries the browse parameters shared by every feed: search
// text and mode, the common filters, sorting, and pagination.
type Params struct {
	Query       string
	Field       string
	Lang        string
	Copyrighted string
	Audiobook   string
	Sort        string
	SortOrder   string
	LoCC        string
	Page        int
	Limit       int
}

// ParseParams reads feed parameters from the query string. Pagination
// coerces leniently: non-numeric input falls back to defaults, limit
// clamps to the configured maximum.
func ParseParams(values url.Values, cfg pagination.Config) Params {
	page := pagination.FromQuery(values, cfg)
	return Params{
		Query:       values.Get("query"),
		Field:       values.Get("field"),
		Lang:        values.Get("lang"),
		Copyrighted: values.Get("copyrighted"),
		Audiobook:   values.Get("audiobook"),
		Sort:        values.Get("sort"),
		SortOrder:   values.Get("sort_order"),
		LoCC:        strings.ToUpper(strings.TrimSpace(values.Get("locc"))),
		Page:        page.Page,
		Limit:       page.PageSize,
	}
}

// SearchType maps the field parameter to a search mode. Any field
// prefix selects the mode; unrecognized input falls back to fuzzy,
// the typo-tolerant default.
func (p Params) SearchType() books.SearchType {
	if p.Field == "fts" || strings.HasPrefix(p.Field, "fts_") {
		return books.SearchStrict
	}
	return books.SearchFuzzy
}

// HasQuery reports whether search text is present.
func (p Params) HasQuery() bool {
	return strings.TrimSpace(p.Query) != ""
}

// ApplyFilters adds the search clause and common filters to a query.
func (p Params) ApplyFilters(q *books.Query) *books.Query {
	if p.HasQuery() {
		q.Search(p.Query, books.FieldBook, p.SearchType())
	}
	if p.Lang != "" {
		q.Language(p.Lang)
	}
	switch p.Copyrighted {
	case "true":
		q.CopyrightedOnly()
	case "false":
		q.PublicDomain()
	}
	switch p.Audiobook {
	case "true":
		q.Audiobook()
	case "false":
		q.TextOnly()
	}
	return q
}

// ApplySort orders the query: an explicit valid sort wins, otherwise
// relevance when searching and downloads when browsing.
func (p Params) ApplySort(q *books.Query) *books.Query {
	if books.ValidOrder(p.Sort) {
		dir := books.SortDefault
		switch books.SortDirection(p.SortOrder) {
		case books.SortAsc:
			dir = books.SortAsc
		case books.SortDesc:
			dir = books.SortDesc
		}
		return q.OrderBy(books.OrderBy(p.Sort), dir)
	}
	if p.HasQuery() {
		return q.OrderBy(books.OrderRelevance, books.SortDefault)
	}
	return q.OrderBy(books.OrderDownloads, books.SortDefault)
}

// urlWithParams builds a path with the non-empty parameters encoded.
func urlWithParams(path string, params map[string]string) string {
	values := url.Values{}
	for k, v := range params {
		if v != "" {
			values.Set(k, v)
		}
	}
	if len(values) == 0 {
		return path
	}
	return path + "?" + values.Encode()
}

func itoa(n int) string { return strconv.Itoa(n) }
