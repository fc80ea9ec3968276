package books

import (
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/shelfdex/shelfdex/pkg/handlers"
	"github.com/shelfdex/shelfdex/pkg/pagination"
	"github.com/shelfdex/shelfdex/pkg/routes"
)

// Handler provides HTTP endpoints for catalog search and taxonomy
// lookups.
type Handler struct {
	sys        System
	logger     *slog.Logger
	pagination pagination.Config
}

// NewHandler creates a Handler with the given system, logger, and
// pagination config.
func NewHandler(sys System, logger *slog.Logger, pagination pagination.Config) *Handler {
	return &Handler{
		sys:        sys,
		logger:     logger.With("handler", "books"),
		pagination: pagination,
	}
}

// Routes returns the route group definition for catalog endpoints.
func (h *Handler) Routes() routes.Group {
	return routes.Group{
		Children: []routes.Group{
			{
				Prefix: "/books",
				Routes: []routes.Route{
					{Method: "GET", Pattern: "", Handler: h.Search},
					{Method: "GET", Pattern: "/top-subjects", Handler: h.TopSubjects},
					{Method: "GET", Pattern: "/{id}", Handler: h.Find},
				},
			},
			{
				Prefix: "/subjects",
				Routes: []routes.Route{
					{Method: "GET", Pattern: "", Handler: h.ListSubjects},
					{Method: "GET", Pattern: "/{id}", Handler: h.FindSubject},
				},
			},
			{
				Prefix: "/bookshelves",
				Routes: []routes.Route{
					{Method: "GET", Pattern: "", Handler: h.ListBookshelves},
				},
			},
			{
				Prefix: "/languages",
				Routes: []routes.Route{
					{Method: "GET", Pattern: "", Handler: h.ListLanguages},
				},
			},
			{
				Prefix: "/loccs",
				Routes: []routes.Route{
					{Method: "GET", Pattern: "", Handler: h.ListLoCCs},
					{Method: "GET", Pattern: "/{code}/children", Handler: h.LoCCChildren},
				},
			},
		},
	}
}

// QueryFromParams builds a catalog query from URL parameters. Invalid
// numeric input is ignored rather than erroring, matching the lenient
// coercion the pagination parameters use.
func QueryFromParams(values url.Values, cfg pagination.Config) *Query {
	page := pagination.FromQuery(values, cfg)
	q := NewQuery().Paginate(page.Page, page.PageSize)

	if txt := values.Get("q"); txt != "" {
		st := SearchStrict
		if SearchType(values.Get("type")) == SearchFuzzy {
			st = SearchFuzzy
		}
		q.Search(txt, FieldBook, st)
	}

	if cw := values.Get("crosswalk"); cw != "" {
		q.Crosswalk(Crosswalk(cw))
	}
	if sort := values.Get("sort"); ValidOrder(sort) {
		dir := SortDefault
		switch SortDirection(values.Get("direction")) {
		case SortAsc:
			dir = SortAsc
		case SortDesc:
			dir = SortDesc
		}
		q.OrderBy(OrderBy(sort), dir)
	}

	if lang := values.Get("lang"); lang != "" {
		q.Language(lang)
	}
	if locc := values.Get("locc"); locc != "" {
		q.LoCC(locc)
	}
	if role := values.Get("role"); role != "" {
		q.ContributorRole(role)
	}
	if ft := values.Get("filetype"); ft != "" {
		q.HasFileType(FileType(ft))
	}
	if enc := values.Get("encoding"); enc != "" {
		q.HasEncoding(Encoding(enc))
	}

	if id, ok := paramInt64(values, "author_id"); ok {
		q.AuthorID(id)
	}
	if id, ok := paramInt64(values, "subject_id"); ok {
		q.SubjectID(id)
	}
	if id, ok := paramInt64(values, "bookshelf_id"); ok {
		q.BookshelfID(id)
	}
	if ids := paramInt64List(values, "ids"); len(ids) > 0 {
		q.BookIDs(ids)
	}

	switch values.Get("rights") {
	case "pd":
		q.PublicDomain()
	case "copyrighted":
		q.CopyrightedOnly()
	}
	switch values.Get("format") {
	case "audio":
		q.Audiobook()
	case "text":
		q.TextOnly()
	}

	if n, ok := paramInt(values, "downloads_min"); ok {
		q.DownloadsAtLeast(n)
	}
	if n, ok := paramInt(values, "downloads_max"); ok {
		q.DownloadsAtMost(n)
	}
	if y, ok := paramInt(values, "born_after"); ok {
		q.AuthorBornAfter(y)
	}
	if y, ok := paramInt(values, "born_before"); ok {
		q.AuthorBornBefore(y)
	}
	if y, ok := paramInt(values, "died_after"); ok {
		q.AuthorDiedAfter(y)
	}
	if y, ok := paramInt(values, "died_before"); ok {
		q.AuthorDiedBefore(y)
	}
	if date := values.Get("released_after"); date != "" {
		q.ReleasedAfter(date)
	}
	if date := values.Get("released_before"); date != "" {
		q.ReleasedBefore(date)
	}

	return q
}

func paramInt(values url.Values, key string) (int, bool) {
	n, err := strconv.Atoi(values.Get(key))
	if err != nil {
		return 0, false
	}
	return n, true
}

func paramInt64(values url.Values, key string) (int64, bool) {
	n, err := strconv.ParseInt(values.Get(key), 10, 64)
	if err != nil {
		return 0, false
	}
	return n, true
}

func paramInt64List(values url.Values, key string) []int64 {
	raw := values.Get(key)
	if raw == "" {
		return nil
	}
	var ids []int64
	for _, part := range strings.Split(raw, ",") {
		n, err := strconv.ParseInt(strings.TrimSpace(part), 10, 64)
		if err != nil {
			continue
		}
		ids = append(ids, n)
	}
	return ids
}

// Search returns a paginated page of results rendered through the
// requested crosswalk.
func (h *Handler) Search(w http.ResponseWriter, r *http.Request) {
	q := QueryFromParams(r.URL.Query(), h.pagination)

	result, err := h.sys.Execute(r.Context(), q)
	if err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, result)
}

// Find returns a single book by its numeric path parameter, rendered
// through the requested crosswalk (full by default).
func (h *Handler) Find(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		handlers.RespondError(w, h.logger, http.StatusBadRequest, ErrBookNotFound)
		return
	}

	q := NewQuery().BookID(id).Paginate(1, 1)
	if cw := r.URL.Query().Get("crosswalk"); cw != "" {
		q.Crosswalk(Crosswalk(cw))
	}

	result, err := h.sys.Execute(r.Context(), q)
	if err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}
	if len(result.Results) == 0 {
		handlers.RespondError(w, h.logger, http.StatusNotFound, ErrBookNotFound)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, result.Results[0])
}

// TopSubjects returns the most frequent subjects among the query's
// best-ranked matches.
func (h *Handler) TopSubjects(w http.ResponseWriter, r *http.Request) {
	values := r.URL.Query()
	q := QueryFromParams(values, h.pagination)

	limit, ok := paramInt(values, "facet_limit")
	if !ok {
		limit = 15
	}
	maxBooks, ok := paramInt(values, "sample_size")
	if !ok {
		maxBooks = 1000
	}

	subjects, err := h.sys.TopSubjects(r.Context(), q, limit, maxBooks)
	if err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, subjects)
}

// ListSubjects returns every subject with its book count.
func (h *Handler) ListSubjects(w http.ResponseWriter, r *http.Request) {
	subjects, err := h.sys.ListSubjects(r.Context())
	if err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, subjects)
}

// FindSubject returns a single subject's name by id.
func (h *Handler) FindSubject(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		handlers.RespondError(w, h.logger, http.StatusBadRequest, ErrSubjectNotFound)
		return
	}

	name, err := h.sys.SubjectName(r.Context(), id)
	if err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, Subject{ID: id, Name: name})
}

// ListBookshelves returns every bookshelf with its book count.
func (h *Handler) ListBookshelves(w http.ResponseWriter, r *http.Request) {
	shelves, err := h.sys.ListBookshelves(r.Context())
	if err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, shelves)
}

// ListLanguages returns the static language taxonomy.
func (h *Handler) ListLanguages(w http.ResponseWriter, r *http.Request) {
	handlers.RespondJSON(w, http.StatusOK, Languages)
}

// ListLoCCs returns the top-level classification taxonomy.
func (h *Handler) ListLoCCs(w http.ResponseWriter, r *http.Request) {
	handlers.RespondJSON(w, http.StatusOK, LoCCMainClasses)
}

// LoCCChildren returns the direct subclasses of a classification code.
func (h *Handler) LoCCChildren(w http.ResponseWriter, r *http.Request) {
	children, err := h.sys.LoCCChildren(r.Context(), r.PathValue("code"))
	if err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, children)
}
