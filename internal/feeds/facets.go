package feeds

import (
	"fmt"

	"github.com/shelfdex/shelfdex/internal/books"
)

// commonFacets builds the facet groups shared by every acquisition
// feed: sort order, an optional dynamic top-subjects group, copyright
// status, format, and language. urlFn renders the feed URL for a
// modified parameter set at page 1.
func commonFacets(urlFn func(Params) string, p Params, top []books.SubjectCount) []Facet {
	sorted := func(sort, order string) string {
		mod := p
		mod.Sort, mod.SortOrder = sort, order
		return urlFn(mod)
	}
	withCopyright := func(val string) string {
		mod := p
		mod.Copyrighted = val
		return urlFn(mod)
	}
	withAudiobook := func(val string) string {
		mod := p
		mod.Audiobook = val
		return urlFn(mod)
	}
	withLang := func(code string) string {
		mod := p
		mod.Lang = code
		return urlFn(mod)
	}

	facets := []Facet{
		{
			Metadata: Metadata{Title: "Sort By"},
			Links: []books.Link{
				facetLink(sorted("downloads", "desc"), "Most Popular", p.Sort == "downloads" || p.Sort == ""),
				facetLink(sorted("relevance", ""), "Relevance", p.Sort == "relevance"),
				facetLink(sorted("title", "asc"), "Title (A-Z)", p.Sort == "title"),
				facetLink(sorted("author", "asc"), "Author (A-Z)", p.Sort == "author"),
				facetLink(sorted("random", ""), "Random", p.Sort == "random"),
			},
		},
	}

	if len(top) > 0 {
		links := make([]books.Link, len(top))
		for i, s := range top {
			links[i] = books.Link{
				Href:  fmt.Sprintf("%s/subjects?id=%d", basePath, s.ID),
				Type:  ContentType,
				Title: fmt.Sprintf("%s (%d)", s.Name, s.Count),
			}
		}
		facets = append(facets, Facet{
			Metadata: Metadata{Title: "Top Subjects in Results"},
			Links:    links,
		})
	}

	langLinks := make([]books.Link, 0, len(books.Languages)+1)
	langLinks = append(langLinks, facetLink(withLang(""), "Any", p.Lang == ""))
	for _, l := range books.Languages {
		langLinks = append(langLinks, facetLink(withLang(l.Code), l.Label, p.Lang == l.Code))
	}

	facets = append(facets,
		Facet{
			Metadata: Metadata{Title: "Copyright Status"},
			Links: []books.Link{
				facetLink(withCopyright(""), "Any", p.Copyrighted == ""),
				facetLink(withCopyright("false"), "Public Domain", p.Copyrighted == "false"),
				facetLink(withCopyright("true"), "Copyrighted", p.Copyrighted == "true"),
			},
		},
		Facet{
			Metadata: Metadata{Title: "Format"},
			Links: []books.Link{
				facetLink(withAudiobook(""), "Any", p.Audiobook == ""),
				facetLink(withAudiobook("false"), "Text", p.Audiobook == "false"),
				facetLink(withAudiobook("true"), "Audiobook", p.Audiobook == "true"),
			},
		},
		Facet{
			Metadata: Metadata{Title: "Language"},
			Links:    langLinks,
		},
	)
	return facets
}

// genreFacet offers the top-level classification classes as a broad
// genre filter on search feeds.
func genreFacet(urlFn func(Params) string, p Params) Facet {
	withLoCC := func(code string) string {
		mod := p
		mod.LoCC = code
		return urlFn(mod)
	}

	links := make([]books.Link, 0, len(books.LoCCMainClasses)+1)
	links = append(links, facetLink(withLoCC(""), "Any", p.LoCC == ""))
	for _, class := range books.LoCCMainClasses {
		links = append(links, facetLink(withLoCC(class.Code), class.Label, p.LoCC == class.Code))
	}
	return Facet{
		Metadata: Metadata{Title: "Broad Genre"},
		Links:    links,
	}
}
