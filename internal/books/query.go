package books

import (
	"fmt"
	"strings"
)

// viewName is the denormalized catalog view all queries read from.
const viewName = "mv_books_dc"

// selectColumns is the outer projection returned to crosswalks.
const selectColumns = "book_id, title, all_authors, downloads, CAST(release_date AS text) AS release_date, copyrighted, lang_codes, " +
	"creator_ids, creator_names, creator_roles, " +
	"subject_ids, subject_names, bookshelf_ids, bookshelf_names, " +
	"locc_codes, is_audio, dcmitypes, publisher, summary, credits, " +
	"reading_level, coverpage, format_filenames, format_filetypes, " +
	"format_hr_filetypes, format_mediatypes, format_extents"

// subqueryColumns is the inner projection used when search clauses are
// nested under filter clauses. It carries the search and aggregate
// columns the outer WHERE and ORDER BY may still reference.
const subqueryColumns = `book_id, title, all_authors, downloads, CAST(release_date AS text) AS release_date,
    copyrighted, lang_codes, is_audio,
    creator_ids, creator_names, creator_roles,
    subject_ids, subject_names, bookshelf_ids, bookshelf_names,
    dcmitypes, publisher, summary, credits, reading_level,
    coverpage, format_filenames, format_filetypes, format_hr_filetypes,
    format_mediatypes, format_extents,
    max_author_birthyear, min_author_birthyear,
    max_author_deathyear, min_author_deathyear,
    locc_codes,
    tsvec, book_text`

var fieldColumns = map[SearchField]struct{ fts, text string }{
	FieldBook: {"tsvec", "book_text"},
}

type orderColumn struct {
	column string
	dir    SortDirection
	nulls  string
}

var orderColumns = map[OrderBy]orderColumn{
	OrderDownloads:   {"downloads", SortDesc, ""},
	OrderTitle:       {"title", SortAsc, ""},
	OrderAuthor:      {"all_authors", SortAsc, "LAST"},
	OrderReleaseDate: {"CAST(release_date AS date)", SortDesc, "LAST"},
}

type searchClause struct {
	sql    string
	params map[string]any
	column string
	term   string
	fuzzy  bool
}

type filterClause struct {
	sql    string
	params map[string]any
}

// Query accumulates search predicates, filters, ordering and
// pagination, and compiles them into SQL plus a named parameter map.
// A Query is single-use and not safe for concurrent mutation; each
// caller builds its own.
type Query struct {
	search    []searchClause
	filters   []filterClause
	order     OrderBy
	dir       SortDirection
	page      int
	pageSize  int
	crosswalk Crosswalk
	paramN    int
}

// NewQuery returns a builder with the default ordering (downloads
// descending), page 1 of 25, and the full crosswalk.
func NewQuery() *Query {
	return &Query{
		order:     OrderDownloads,
		page:      1,
		pageSize:  25,
		crosswalk: CrosswalkFull,
	}
}

// Paginate sets the page (floored at 1) and page size (clamped to
// [1, 100]).
func (q *Query) Paginate(page, pageSize int) *Query {
	q.page = max(1, page)
	q.pageSize = max(1, min(100, pageSize))
	return q
}

// Page sets the page, keeping the current page size.
func (q *Query) Page(page int) *Query {
	q.page = max(1, page)
	return q
}

// Crosswalk selects the output renderer applied to each row.
func (q *Query) Crosswalk(cw Crosswalk) *Query {
	q.crosswalk = cw
	return q
}

// OrderBy sets the ordering key. SortDefault keeps the key's own
// default direction.
func (q *Query) OrderBy(key OrderBy, dir SortDirection) *Query {
	q.order = key
	q.dir = dir
	return q
}

func (q *Query) newParam(value any) (string, map[string]any) {
	pname := fmt.Sprintf("__p%d", q.paramN)
	q.paramN++
	return pname, map[string]any{pname: value}
}

// filter appends a condition. The template's %s verbs are replaced
// with fresh @__pN placeholders; values only ever travel as
// parameters.
func (q *Query) filter(template string, values ...any) *Query {
	params := make(map[string]any, len(values))
	placeholders := make([]any, 0, len(values))
	for _, v := range values {
		pname, p := q.newParam(v)
		for k, pv := range p {
			params[k] = pv
		}
		placeholders = append(placeholders, "@"+pname)
	}
	q.filters = append(q.filters, filterClause{
		sql:    fmt.Sprintf(template, placeholders...),
		params: params,
	})
	return q
}

// Search adds a search predicate. Blank text is a no-op. Strict
// search uses websearch query syntax against the search vector; fuzzy
// search uses trigram word similarity against the text column.
// Multiple calls conjoin.
func (q *Query) Search(txt string, field SearchField, st SearchType) *Query {
	txt = strings.TrimSpace(txt)
	if txt == "" {
		return q
	}

	cols, ok := fieldColumns[field]
	if !ok {
		cols = fieldColumns[FieldBook]
	}

	pname, p := q.newParam(txt)
	if st == SearchFuzzy {
		q.search = append(q.search, searchClause{
			sql:    fmt.Sprintf("@%s <%% %s", pname, cols.text),
			params: p,
			column: cols.text,
			term:   txt,
			fuzzy:  true,
		})
		return q
	}
	q.search = append(q.search, searchClause{
		sql:    fmt.Sprintf("%s @@ websearch_to_tsquery('english', @%s)", cols.fts, pname),
		params: p,
		column: cols.fts,
		term:   txt,
	})
	return q
}

// BookID restricts results to a single book.
func (q *Query) BookID(id int64) *Query {
	return q.filter("book_id = %s", id)
}

// BookIDs restricts results to a set of books.
func (q *Query) BookIDs(ids []int64) *Query {
	return q.filter("book_id = ANY(%s)", ids)
}

// DownloadsAtLeast keeps books with at least n downloads.
func (q *Query) DownloadsAtLeast(n int) *Query {
	return q.filter("downloads >= %s", n)
}

// DownloadsAtMost keeps books with at most n downloads.
func (q *Query) DownloadsAtMost(n int) *Query {
	return q.filter("downloads <= %s", n)
}

// PublicDomain keeps public domain books.
func (q *Query) PublicDomain() *Query {
	q.filters = append(q.filters, filterClause{sql: "copyrighted = 0"})
	return q
}

// CopyrightedOnly keeps copyrighted books.
func (q *Query) CopyrightedOnly() *Query {
	q.filters = append(q.filters, filterClause{sql: "copyrighted = 1"})
	return q
}

// Language keeps books in the given language. Codes are lowercased.
func (q *Query) Language(code string) *Query {
	return q.filter("lang_codes @> ARRAY[CAST(%s AS text)]", strings.ToLower(code))
}

// TextOnly excludes audiobooks.
func (q *Query) TextOnly() *Query {
	q.filters = append(q.filters, filterClause{sql: "is_audio = false"})
	return q
}

// Audiobook keeps only audiobooks.
func (q *Query) Audiobook() *Query {
	q.filters = append(q.filters, filterClause{sql: "is_audio = true"})
	return q
}

// AuthorBornAfter keeps books with an author born in or after year.
func (q *Query) AuthorBornAfter(year int) *Query {
	return q.filter("max_author_birthyear >= %s", year)
}

// AuthorBornBefore keeps books with an author born in or before year.
func (q *Query) AuthorBornBefore(year int) *Query {
	return q.filter("min_author_birthyear <= %s", year)
}

// AuthorDiedAfter keeps books with an author who died in or after year.
func (q *Query) AuthorDiedAfter(year int) *Query {
	return q.filter("max_author_deathyear >= %s", year)
}

// AuthorDiedBefore keeps books with an author who died in or before year.
func (q *Query) AuthorDiedBefore(year int) *Query {
	return q.filter("min_author_deathyear <= %s", year)
}

// ReleasedAfter keeps books released on or after the ISO date.
func (q *Query) ReleasedAfter(date string) *Query {
	return q.filter("CAST(release_date AS date) >= CAST(%s AS date)", date)
}

// ReleasedBefore keeps books released on or before the ISO date.
func (q *Query) ReleasedBefore(date string) *Query {
	return q.filter("CAST(release_date AS date) <= CAST(%s AS date)", date)
}

// LoCC keeps books classified under the code or any of its
// subclasses. Codes are uppercased.
func (q *Query) LoCC(code string) *Query {
	return q.filter(
		"EXISTS (SELECT 1 FROM mn_books_loccs mbl JOIN loccs lc ON lc.pk = mbl.fk_loccs WHERE mbl.fk_books = book_id AND lc.pk LIKE %s)",
		strings.ToUpper(code)+"%",
	)
}

// ContributorRole keeps books with a contributor in the given role.
func (q *Query) ContributorRole(role string) *Query {
	return q.filter(
		"EXISTS (SELECT 1 FROM mn_books_authors mba "+
			"JOIN roles r ON mba.fk_roles = r.pk "+
			"WHERE mba.fk_books = book_id AND r.role = %s)",
		role,
	)
}

// HasFileType keeps books with a live file of the given media type.
func (q *Query) HasFileType(ft FileType) *Query {
	return q.filter(
		"EXISTS (SELECT 1 FROM files f "+
			"JOIN filetypes ft ON f.fk_filetypes = ft.pk "+
			"WHERE f.fk_books = book_id "+
			"AND f.obsoleted = 0 AND f.diskstatus = 0 "+
			"AND ft.mediatype = %s)",
		string(ft),
	)
}

// AuthorID keeps books by the given contributor.
func (q *Query) AuthorID(id int64) *Query {
	return q.filter(
		"EXISTS (SELECT 1 FROM mn_books_authors mba "+
			"WHERE mba.fk_books = book_id AND mba.fk_authors = %s)",
		id,
	)
}

// SubjectID keeps books tagged with the given subject.
func (q *Query) SubjectID(id int64) *Query {
	return q.filter(
		"EXISTS (SELECT 1 FROM mn_books_subjects mbs WHERE mbs.fk_books = book_id AND mbs.fk_subjects = %s)",
		id,
	)
}

// BookshelfID keeps books on the given bookshelf.
func (q *Query) BookshelfID(id int64) *Query {
	return q.filter(
		"EXISTS (SELECT 1 FROM mn_books_bookshelves mbb WHERE mbb.fk_books = book_id AND mbb.fk_bookshelves = %s)",
		id,
	)
}

// HasEncoding keeps books with a live file in the given encoding.
func (q *Query) HasEncoding(enc Encoding) *Query {
	return q.filter(
		"EXISTS (SELECT 1 FROM files f "+
			"WHERE f.fk_books = book_id "+
			"AND f.obsoleted = 0 AND f.diskstatus = 0 "+
			"AND f.fk_encodings = %s)",
		string(enc),
	)
}

// Where appends a raw SQL condition with caller-named parameters.
// Parameter names starting with __p are reserved for generated
// placeholders and rejected.
func (q *Query) Where(sql string, params map[string]any) error {
	for k := range params {
		if strings.HasPrefix(k, "__p") {
			return fmt.Errorf("%w: %q", ErrReservedParam, k)
		}
	}
	q.filters = append(q.filters, filterClause{sql: sql, params: params})
	return nil
}

func (q *Query) allParams() map[string]any {
	params := make(map[string]any)
	for _, s := range q.search {
		for k, v := range s.params {
			params[k] = v
		}
	}
	for _, f := range q.filters {
		for k, v := range f.params {
			params[k] = v
		}
	}
	return params
}

// orderSQL renders the ORDER BY clause. Relevance ranks by the most
// recent search clause, with downloads as tie-break; without a search
// clause it degrades to downloads descending.
func (q *Query) orderSQL(params map[string]any) string {
	if q.order == OrderRelevance && len(q.search) > 0 {
		last := q.search[len(q.search)-1]
		params["rank_q"] = strings.ReplaceAll(last.term, "%", "")
		if last.fuzzy {
			return fmt.Sprintf("word_similarity(@rank_q, %s) DESC, downloads DESC", last.column)
		}
		return fmt.Sprintf("ts_rank_cd(%s, websearch_to_tsquery('english', @rank_q)) DESC, downloads DESC", last.column)
	}

	if q.order == OrderRandom {
		return "RANDOM()"
	}

	spec, ok := orderColumns[q.order]
	if !ok {
		return "downloads DESC"
	}

	dir := spec.dir
	if q.dir != SortDefault {
		dir = q.dir
	}
	clause := spec.column + " " + strings.ToUpper(string(dir))
	if spec.nulls != "" {
		clause += " NULLS " + spec.nulls
	}
	return clause
}

func (q *Query) searchSQL() string {
	parts := make([]string, len(q.search))
	for i, s := range q.search {
		parts[i] = s.sql
	}
	return strings.Join(parts, " AND ")
}

func (q *Query) filterSQL() string {
	parts := make([]string, len(q.filters))
	for i, f := range q.filters {
		parts[i] = f.sql
	}
	return strings.Join(parts, " AND ")
}

// Build compiles the fetch statement. When both search and filter
// clauses are present the search runs in an inner SELECT so the
// filters apply to its projection.
func (q *Query) Build() (string, map[string]any) {
	params := q.allParams()
	order := q.orderSQL(params)
	limit, offset := q.pageSize, (q.page-1)*q.pageSize

	searchSQL, filterSQL := q.searchSQL(), q.filterSQL()

	var sql string
	switch {
	case searchSQL != "" && filterSQL != "":
		sql = fmt.Sprintf(
			"SELECT %s FROM (SELECT %s FROM %s WHERE %s) t WHERE %s ORDER BY %s LIMIT %d OFFSET %d",
			selectColumns, subqueryColumns, viewName, searchSQL, filterSQL, order, limit, offset)
	case searchSQL != "":
		sql = fmt.Sprintf("SELECT %s FROM %s WHERE %s ORDER BY %s LIMIT %d OFFSET %d",
			selectColumns, viewName, searchSQL, order, limit, offset)
	case filterSQL != "":
		sql = fmt.Sprintf("SELECT %s FROM %s WHERE %s ORDER BY %s LIMIT %d OFFSET %d",
			selectColumns, viewName, filterSQL, order, limit, offset)
	default:
		sql = fmt.Sprintf("SELECT %s FROM %s ORDER BY %s LIMIT %d OFFSET %d",
			selectColumns, viewName, order, limit, offset)
	}
	return sql, params
}

// BuildCount compiles the matching COUNT statement, without ordering
// or pagination.
func (q *Query) BuildCount() (string, map[string]any) {
	params := q.allParams()
	searchSQL, filterSQL := q.searchSQL(), q.filterSQL()

	switch {
	case searchSQL != "" && filterSQL != "":
		return fmt.Sprintf("SELECT COUNT(*) FROM (SELECT %s FROM %s WHERE %s) t WHERE %s",
			subqueryColumns, viewName, searchSQL, filterSQL), params
	case searchSQL != "":
		return fmt.Sprintf("SELECT COUNT(*) FROM %s WHERE %s", viewName, searchSQL), params
	case filterSQL != "":
		return fmt.Sprintf("SELECT COUNT(*) FROM %s WHERE %s", viewName, filterSQL), params
	}
	return "SELECT COUNT(*) FROM " + viewName, params
}

// BuildTopSubjects compiles a subject-frequency statement over a
// sample of the query's matches: the CTE keeps at most maxBooks rows
// in the query's own order, and only those rows are joined to the
// subject relation. Counts are therefore approximate for result sets
// larger than maxBooks. maxBooks clamps to [1, 5000] and limit to
// [1, 100].
func (q *Query) BuildTopSubjects(limit, maxBooks int) (string, map[string]any) {
	maxBooks = max(1, min(5000, maxBooks))
	limit = max(1, min(100, limit))

	params := q.allParams()
	order := q.orderSQL(params)

	var where string
	parts := make([]string, 0, 2)
	if sql := q.searchSQL(); sql != "" {
		parts = append(parts, sql)
	}
	if sql := q.filterSQL(); sql != "" {
		parts = append(parts, sql)
	}
	if len(parts) > 0 {
		where = "WHERE " + strings.Join(parts, " AND ")
	}

	sql := fmt.Sprintf(`
		WITH matched_books AS (
			SELECT book_id
			FROM %s
			%s
			ORDER BY %s
			LIMIT @max_books
		)
		SELECT
			s.pk AS id,
			s.subject AS name,
			COUNT(*) AS count
		FROM matched_books mb
		JOIN mn_books_subjects mbs ON mbs.fk_books = mb.book_id
		JOIN subjects s ON s.pk = mbs.fk_subjects
		GROUP BY s.pk, s.subject
		ORDER BY count DESC
		LIMIT @limit`, viewName, where, order)
	params["limit"] = limit
	params["max_books"] = maxBooks

	return sql, params
}
