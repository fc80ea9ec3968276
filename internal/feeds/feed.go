// Package feeds serves the OPDS 2.0 catalog: a navigation hierarchy
// over bookshelves, classifications and subjects, and faceted
// acquisition feeds backed by catalog search.
package feeds

import "github.com/shelfdex/shelfdex/internal/books"

// ContentType is the OPDS 2.0 media type.
const ContentType = "application/opds+json"

// Metadata heads a feed, facet, or group.
type Metadata struct {
	Title         string `json:"title"`
	NumberOfItems int    `json:"numberOfItems,omitempty"`
	ItemsPerPage  int    `json:"itemsPerPage,omitempty"`
	CurrentPage   int    `json:"currentPage,omitempty"`
}

// Facet is one facet group: a title plus alternative views of the
// current feed. The active link carries rel=self.
type Facet struct {
	Metadata Metadata     `json:"metadata"`
	Links    []books.Link `json:"links"`
}

// Group is an embedded sample of publications inside a navigation
// feed.
type Group struct {
	Metadata     Metadata     `json:"metadata"`
	Links        []books.Link `json:"links"`
	Publications []any        `json:"publications"`
}

// NavigationFeed is a feed of subsection links, optionally with
// embedded publication groups.
type NavigationFeed struct {
	Metadata   Metadata     `json:"metadata"`
	Links      []books.Link `json:"links"`
	Navigation []books.Link `json:"navigation"`
	Groups     []Group      `json:"groups,omitempty"`
}

// AcquisitionFeed is a page of publications with facets. Publications
// stays present even when a page is empty.
type AcquisitionFeed struct {
	Metadata     Metadata     `json:"metadata"`
	Links        []books.Link `json:"links"`
	Publications []any        `json:"publications"`
	Facets       []Facet      `json:"facets,omitempty"`
}

func navLink(href, title, rel string) books.Link {
	return books.Link{Href: href, Title: title, Type: ContentType, Rel: rel}
}

func feedLink(rel, href string) books.Link {
	return books.Link{Rel: rel, Href: href, Type: ContentType}
}

// facetLink marks only the active choice with rel=self.
func facetLink(href, title string, active bool) books.Link {
	link := books.Link{Href: href, Type: ContentType, Title: title}
	if active {
		link.Rel = "self"
	}
	return link
}

// paginationLinks appends first/previous/next/last relative to the
// current page.
func paginationLinks(links []books.Link, buildURL func(page int) string, page, totalPages int) []books.Link {
	if page > 1 {
		links = append(links,
			feedLink("first", buildURL(1)),
			feedLink("previous", buildURL(page-1)))
	}
	if page < totalPages {
		links = append(links,
			feedLink("next", buildURL(page+1)),
			feedLink("last", buildURL(totalPages)))
	}
	return links
}
