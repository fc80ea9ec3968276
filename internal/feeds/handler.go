package feeds

import (
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/shelfdex/shelfdex/internal/books"
	"github.com/shelfdex/shelfdex/pkg/handlers"
	"github.com/shelfdex/shelfdex/pkg/pagination"
	"github.com/shelfdex/shelfdex/pkg/routes"
)

// basePath is the mount prefix baked into feed hrefs.
const basePath = "/opds"

const (
	// sampleLimit is how many publications a category group embeds.
	sampleLimit = 15
	// facetSubjectLimit and facetSampleSize bound the dynamic
	// top-subjects facet.
	facetSubjectLimit = 15
	facetSampleSize   = 500
	// subjectNavLimit caps the root subject navigation list.
	subjectNavLimit = 100
	// sampleConcurrency bounds parallel sample queries per request.
	sampleConcurrency = 4
)

// Handler serves the OPDS catalog endpoints.
type Handler struct {
	sys        books.System
	logger     *slog.Logger
	pagination pagination.Config
}

// NewHandler creates a Handler over the catalog system.
func NewHandler(sys books.System, logger *slog.Logger, pagination pagination.Config) *Handler {
	return &Handler{
		sys:        sys,
		logger:     logger.With("handler", "feeds"),
		pagination: pagination,
	}
}

// Routes returns the route group definition for feed endpoints.
func (h *Handler) Routes() routes.Group {
	return routes.Group{
		Routes: []routes.Route{
			{Method: "GET", Pattern: "/{$}", Handler: h.Index},
			{Method: "GET", Pattern: "/search", Handler: h.Search},
			{Method: "GET", Pattern: "/bookshelves", Handler: h.Bookshelves},
			{Method: "GET", Pattern: "/loccs", Handler: h.LoCCs},
			{Method: "GET", Pattern: "/subjects", Handler: h.Subjects},
		},
	}
}

// Index serves the root catalog: navigation only.
func (h *Handler) Index(w http.ResponseWriter, r *http.Request) {
	feed := NavigationFeed{
		Metadata: Metadata{Title: "Project Gutenberg Catalog"},
		Links: []books.Link{
			feedLink("self", basePath+"/"),
			feedLink("start", basePath+"/"),
			{
				Rel:       "search",
				Href:      basePath + "/search{?query}",
				Type:      ContentType,
				Templated: true,
			},
		},
		Navigation: []books.Link{
			navLink(basePath+"/search?field=fuzzy", "Search Fuzzy (Typo-Tolerant, Slower)", "subsection"),
			navLink(basePath+"/search?field=fts", `Search FTS (Strict, Faster, operators: "quotes", or, and, - for negate)`, "subsection"),
			navLink(basePath+"/bookshelves", "Browse by Bookshelf", "subsection"),
			navLink(basePath+"/loccs", "Browse by LoCC (Subject Classification)", "subsection"),
			navLink(basePath+"/subjects", "Browse by Subject", "subsection"),
			navLink(basePath+"/search?sort=downloads&sort_order=desc", "Most Popular", "http://opds-spec.org/sort/popular"),
			navLink(basePath+"/search?sort=release_date&sort_order=desc", "Recently Added", "http://opds-spec.org/sort/new"),
			navLink(basePath+"/search?sort=random", "Random", "http://opds-spec.org/sort/random"),
		},
	}
	handlers.RespondOPDS(w, http.StatusOK, feed)
}

// paramMap renders the shared browse parameters at the given page.
func paramMap(p Params, page int) map[string]string {
	return map[string]string{
		"query":       p.Query,
		"page":        itoa(page),
		"limit":       itoa(p.Limit),
		"lang":        p.Lang,
		"copyrighted": p.Copyrighted,
		"audiobook":   p.Audiobook,
		"sort":        p.Sort,
		"sort_order":  p.SortOrder,
	}
}

// browseSpec describes one scoped acquisition feed: a structural
// filter plus the URL shape around it.
type browseSpec struct {
	title       string
	path        string
	fixed       map[string]string
	upHref      string
	searchHref  string
	scope       func(*books.Query)
	topSubjects bool
}

// browse runs the scoped query with the request's filters and renders
// the paginated, faceted feed.
func (h *Handler) browse(r *http.Request, p Params, spec browseSpec) (*AcquisitionFeed, error) {
	q := books.NewQuery().Crosswalk(books.CrosswalkOPDS)
	spec.scope(q)
	p.ApplyFilters(q)
	p.ApplySort(q)
	q.Paginate(p.Page, p.Limit)

	result, err := h.sys.Execute(r.Context(), q)
	if err != nil {
		return nil, err
	}

	urlAt := func(pp Params, page int) string {
		params := paramMap(pp, page)
		for k, v := range spec.fixed {
			params[k] = v
		}
		return urlWithParams(spec.path, params)
	}
	buildURL := func(page int) string { return urlAt(p, page) }
	urlFn := func(pp Params) string { return urlAt(pp, 1) }

	var top []books.SubjectCount
	if spec.topSubjects {
		qs := books.NewQuery()
		spec.scope(qs)
		p.ApplyFilters(qs)
		top, err = h.sys.TopSubjects(r.Context(), qs, facetSubjectLimit, facetSampleSize)
		if err != nil {
			h.logger.Warn("top subjects facet failed", "error", err)
			top = nil
		}
	}

	feed := &AcquisitionFeed{
		Metadata: Metadata{
			Title:         spec.title,
			NumberOfItems: result.Total,
			ItemsPerPage:  result.PageSize,
			CurrentPage:   result.Page,
		},
		Links: []books.Link{
			feedLink("self", buildURL(result.Page)),
			feedLink("start", basePath+"/"),
			feedLink("up", spec.upHref),
			{Rel: "search", Href: spec.searchHref, Type: ContentType, Templated: true},
		},
		Publications: result.Results,
		Facets:       commonFacets(urlFn, p, top),
	}
	feed.Links = paginationLinks(feed.Links, buildURL, result.Page, result.TotalPages)
	return feed, nil
}

// Search serves faceted full-text search results.
func (h *Handler) Search(w http.ResponseWriter, r *http.Request) {
	p := ParseParams(r.URL.Query(), h.pagination)

	scope := func(q *books.Query) {
		if p.LoCC != "" {
			q.LoCC(p.LoCC)
		}
	}

	q := books.NewQuery().Crosswalk(books.CrosswalkOPDS)
	p.ApplyFilters(q)
	p.ApplySort(q)
	scope(q)
	q.Paginate(p.Page, p.Limit)

	result, err := h.sys.Execute(r.Context(), q)
	if err != nil {
		handlers.RespondError(w, h.logger, books.MapHTTPStatus(err), err)
		return
	}

	urlAt := func(pp Params, page int) string {
		params := paramMap(pp, page)
		params["field"] = pp.Field
		params["locc"] = pp.LoCC
		return urlWithParams(basePath+"/search", params)
	}
	buildURL := func(page int) string { return urlAt(p, page) }
	urlFn := func(pp Params) string { return urlAt(pp, 1) }

	var top []books.SubjectCount
	if p.HasQuery() || p.LoCC != "" || p.Lang != "" {
		qs := books.NewQuery()
		p.ApplyFilters(qs)
		scope(qs)
		top, err = h.sys.TopSubjects(r.Context(), qs, facetSubjectLimit, facetSampleSize)
		if err != nil {
			h.logger.Warn("top subjects facet failed", "error", err)
			top = nil
		}
	}

	facets := commonFacets(urlFn, p, top)
	// Broad genre slots in after the sort facet, or after the dynamic
	// subjects facet when present.
	pos := 1
	if len(top) > 0 {
		pos = 2
	}
	facets = append(facets[:pos], append([]Facet{genreFacet(urlFn, p)}, facets[pos:]...)...)

	feed := AcquisitionFeed{
		Metadata: Metadata{
			Title:         "Gutenberg Search Results",
			NumberOfItems: result.Total,
			ItemsPerPage:  result.PageSize,
			CurrentPage:   result.Page,
		},
		Links: []books.Link{
			feedLink("self", buildURL(result.Page)),
			feedLink("start", basePath+"/"),
			feedLink("up", basePath+"/"),
			{
				Rel:       "search",
				Href:      fmt.Sprintf("%s/search?field=%s{&query}", basePath, url.QueryEscape(p.Field)),
				Type:      ContentType,
				Templated: true,
			},
		},
		Publications: result.Results,
		Facets:       facets,
	}
	feed.Links = paginationLinks(feed.Links, buildURL, result.Page, result.TotalPages)

	handlers.RespondOPDS(w, http.StatusOK, feed)
}

// Bookshelves serves the curated bookshelf hierarchy: categories at
// the root, shelf samples per category, and a faceted feed per shelf.
func (h *Handler) Bookshelves(w http.ResponseWriter, r *http.Request) {
	values := r.URL.Query()
	p := ParseParams(values, h.pagination)

	if idRaw := values.Get("id"); idRaw != "" {
		id, err := strconv.ParseInt(idRaw, 10, 64)
		if err != nil {
			handlers.RespondError(w, h.logger, http.StatusBadRequest, fmt.Errorf("invalid bookshelf id %q", idRaw))
			return
		}
		h.bookshelfDetail(w, r, p, id)
		return
	}

	if category := values.Get("category"); category != "" {
		h.bookshelfCategory(w, r, category)
		return
	}

	nav := make([]books.Link, len(books.CuratedShelves))
	for i, cat := range books.CuratedShelves {
		nav[i] = navLink(
			urlWithParams(basePath+"/bookshelves", map[string]string{"category": cat.Genre}),
			fmt.Sprintf("%s (%d shelves)", cat.Genre, len(cat.Shelves)),
			"subsection",
		)
	}

	feed := NavigationFeed{
		Metadata: Metadata{
			Title:         "Bookshelves",
			NumberOfItems: len(books.CuratedShelves),
		},
		Links: []books.Link{
			feedLink("self", basePath+"/bookshelves"),
			feedLink("start", basePath+"/"),
			feedLink("up", basePath+"/"),
		},
		Navigation: nav,
	}
	handlers.RespondOPDS(w, http.StatusOK, feed)
}

func (h *Handler) bookshelfDetail(w http.ResponseWriter, r *http.Request, p Params, id int64) {
	name := fmt.Sprintf("Bookshelf %d", id)
	var category string
	for _, cat := range books.CuratedShelves {
		for _, shelf := range cat.Shelves {
			if shelf.ID == id {
				name, category = shelf.Name, cat.Genre
				break
			}
		}
		if category != "" {
			break
		}
	}

	upHref := basePath + "/bookshelves"
	if category != "" {
		upHref = urlWithParams(upHref, map[string]string{"category": category})
	}

	feed, err := h.browse(r, p, browseSpec{
		title:       name,
		path:        basePath + "/bookshelves",
		fixed:       map[string]string{"id": strconv.FormatInt(id, 10)},
		upHref:      upHref,
		searchHref:  fmt.Sprintf("%s/bookshelves?id=%d{&query}", basePath, id),
		scope:       func(q *books.Query) { q.BookshelfID(id) },
		topSubjects: true,
	})
	if err != nil {
		handlers.RespondError(w, h.logger, books.MapHTTPStatus(err), err)
		return
	}
	handlers.RespondOPDS(w, http.StatusOK, feed)
}

// bookshelfCategory lists a category's shelves with embedded random
// samples. Shelf queries run concurrently; a failed sample degrades
// to an empty group rather than failing the feed.
func (h *Handler) bookshelfCategory(w http.ResponseWriter, r *http.Request, category string) {
	var found *books.ShelfGenre
	for i := range books.CuratedShelves {
		if books.CuratedShelves[i].Genre == category {
			found = &books.CuratedShelves[i]
			break
		}
	}
	if found == nil {
		handlers.RespondError(w, h.logger, http.StatusNotFound, fmt.Errorf("category %q not found", category))
		return
	}

	type sample struct {
		total int
		pubs  []any
	}
	samples := make([]sample, len(found.Shelves))

	g, ctx := errgroup.WithContext(r.Context())
	g.SetLimit(sampleConcurrency)
	for i, shelf := range found.Shelves {
		g.Go(func() error {
			q := books.NewQuery().
				Crosswalk(books.CrosswalkOPDS).
				BookshelfID(shelf.ID).
				OrderBy(books.OrderRandom, books.SortDefault).
				Paginate(1, sampleLimit)
			result, err := h.sys.Execute(ctx, q)
			if err != nil {
				h.logger.Warn("bookshelf sample failed", "shelf_id", shelf.ID, "error", err)
				return nil
			}
			samples[i] = sample{total: result.Total, pubs: result.Results}
			return nil
		})
	}
	_ = g.Wait()

	nav := make([]books.Link, len(found.Shelves))
	var groups []Group
	for i, shelf := range found.Shelves {
		href := urlWithParams(basePath+"/bookshelves", map[string]string{"id": strconv.FormatInt(shelf.ID, 10)})
		nav[i] = navLink(href, fmt.Sprintf("%s (%d books)", shelf.Name, samples[i].total), "subsection")
		if len(samples[i].pubs) > 0 {
			groups = append(groups, Group{
				Metadata:     Metadata{Title: shelf.Name, NumberOfItems: samples[i].total},
				Links:        []books.Link{feedLink("self", href)},
				Publications: samples[i].pubs,
			})
		}
	}

	feed := NavigationFeed{
		Metadata: Metadata{
			Title:         category,
			NumberOfItems: len(found.Shelves),
		},
		Links: []books.Link{
			feedLink("self", urlWithParams(basePath+"/bookshelves", map[string]string{"category": category})),
			feedLink("start", basePath+"/"),
			feedLink("up", basePath+"/bookshelves"),
		},
		Navigation: nav,
		Groups:     groups,
	}
	handlers.RespondOPDS(w, http.StatusOK, feed)
}

// LoCCs serves the classification hierarchy: navigation while a code
// has subclasses, and a faceted book feed at the leaves.
func (h *Handler) LoCCs(w http.ResponseWriter, r *http.Request) {
	p := ParseParams(r.URL.Query(), h.pagination)
	parent := strings.ToUpper(strings.TrimSpace(r.URL.Query().Get("parent")))

	children, err := h.sys.LoCCChildren(r.Context(), parent)
	if err != nil {
		h.logger.Warn("locc children lookup failed", "parent", parent, "error", err)
		children = nil
	}

	if len(children) == 0 && parent != "" {
		h.loccLeaf(w, r, p, parent)
		return
	}

	nav := make([]books.Link, 0, len(children))
	for _, child := range children {
		label := child.Label
		if _, after, ok := strings.Cut(label, ":"); ok {
			label = strings.TrimSpace(after)
		}

		var title string
		if child.HasChildren {
			grandchildren, err := h.sys.LoCCChildren(r.Context(), child.Code)
			if err != nil {
				h.logger.Warn("locc children lookup failed", "parent", child.Code, "error", err)
			}
			title = fmt.Sprintf("%s (%d subcategories)", label, len(grandchildren))
		} else {
			count, err := h.sys.Count(r.Context(), books.NewQuery().LoCC(child.Code))
			if err != nil {
				h.logger.Warn("locc book count failed", "code", child.Code, "error", err)
			}
			title = fmt.Sprintf("%s (%d books)", label, count)
		}

		nav = append(nav, navLink(
			urlWithParams(basePath+"/loccs", map[string]string{"parent": child.Code}),
			title,
			"subsection",
		))
	}

	title := "Subject Classification"
	selfHref, upHref := basePath+"/loccs", basePath+"/"
	if parent != "" {
		title = parent
		selfHref = urlWithParams(basePath+"/loccs", map[string]string{"parent": parent})
		upHref = basePath + "/loccs"
	}

	feed := NavigationFeed{
		Metadata: Metadata{
			Title:         title,
			NumberOfItems: len(children),
		},
		Links: []books.Link{
			feedLink("self", selfHref),
			feedLink("start", basePath+"/"),
			feedLink("up", upHref),
		},
		Navigation: nav,
	}
	handlers.RespondOPDS(w, http.StatusOK, feed)
}

func (h *Handler) loccLeaf(w http.ResponseWriter, r *http.Request, p Params, parent string) {
	feed, err := h.browse(r, p, browseSpec{
		title:       parent,
		path:        basePath + "/loccs",
		fixed:       map[string]string{"parent": parent},
		upHref:      basePath + "/loccs",
		searchHref:  fmt.Sprintf("%s/loccs?parent=%s{&query}", basePath, url.QueryEscape(parent)),
		scope:       func(q *books.Query) { q.LoCC(parent) },
		topSubjects: true,
	})
	if err != nil {
		handlers.RespondError(w, h.logger, books.MapHTTPStatus(err), err)
		return
	}
	handlers.RespondOPDS(w, http.StatusOK, feed)
}

// Subjects serves the subject list and per-subject faceted feeds.
func (h *Handler) Subjects(w http.ResponseWriter, r *http.Request) {
	values := r.URL.Query()
	p := ParseParams(values, h.pagination)

	if idRaw := values.Get("id"); idRaw != "" {
		id, err := strconv.ParseInt(idRaw, 10, 64)
		if err != nil {
			handlers.RespondError(w, h.logger, http.StatusBadRequest, fmt.Errorf("invalid subject id %q", idRaw))
			return
		}
		h.subjectDetail(w, r, p, id)
		return
	}

	subjects, err := h.sys.ListSubjects(r.Context())
	if err != nil {
		handlers.RespondError(w, h.logger, books.MapHTTPStatus(err), err)
		return
	}

	total := len(subjects)
	if len(subjects) > subjectNavLimit {
		subjects = subjects[:subjectNavLimit]
	}
	nav := make([]books.Link, len(subjects))
	for i, s := range subjects {
		nav[i] = navLink(
			urlWithParams(basePath+"/subjects", map[string]string{"id": strconv.FormatInt(s.ID, 10)}),
			fmt.Sprintf("%s (%d books)", s.Name, s.BookCount),
			"subsection",
		)
	}

	feed := NavigationFeed{
		Metadata: Metadata{
			Title:         "Subjects",
			NumberOfItems: total,
		},
		Links: []books.Link{
			feedLink("self", basePath+"/subjects"),
			feedLink("start", basePath+"/"),
			feedLink("up", basePath+"/"),
		},
		Navigation: nav,
	}
	handlers.RespondOPDS(w, http.StatusOK, feed)
}

func (h *Handler) subjectDetail(w http.ResponseWriter, r *http.Request, p Params, id int64) {
	name, err := h.sys.SubjectName(r.Context(), id)
	if err != nil {
		name = fmt.Sprintf("Subject %d", id)
	}

	feed, err := h.browse(r, p, browseSpec{
		title:      name,
		path:       basePath + "/subjects",
		fixed:      map[string]string{"id": strconv.FormatInt(id, 10)},
		upHref:     basePath + "/subjects",
		searchHref: fmt.Sprintf("%s/subjects?id=%d{&query}", basePath, id),
		scope:      func(q *books.Query) { q.SubjectID(id) },
	})
	if err != nil {
		handlers.RespondError(w, h.logger, books.MapHTTPStatus(err), err)
		return
	}
	handlers.RespondOPDS(w, http.StatusOK, feed)
}
