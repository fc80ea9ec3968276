package feeds

import (
	"strings"
	"testing"

	"github.com/shelfdex/shelfdex/internal/books"
)

func testURLFn(p Params) string {
	return urlWithParams("/opds/search", map[string]string{
		"query":       p.Query,
		"lang":        p.Lang,
		"copyrighted": p.Copyrighted,
		"audiobook":   p.Audiobook,
		"sort":        p.Sort,
		"sort_order":  p.SortOrder,
		"locc":        p.LoCC,
	})
}

func facetByTitle(t *testing.T, facets []Facet, title string) Facet {
	t.Helper()
	for _, f := range facets {
		if f.Metadata.Title == title {
			return f
		}
	}
	t.Fatalf("facet %q not found", title)
	return Facet{}
}

func TestCommonFacetGroups(t *testing.T) {
	facets := commonFacets(testURLFn, Params{Query: "whales"}, nil)

	for _, title := range []string{"Sort By", "Copyright Status", "Format", "Language"} {
		facetByTitle(t, facets, title)
	}
	for _, f := range facets {
		if f.Metadata.Title == "Top Subjects in Results" {
			t.Error("top subjects group should be absent without counts")
		}
	}
}

func TestSortFacetDefaultActive(t *testing.T) {
	facets := commonFacets(testURLFn, Params{}, nil)
	sort := facetByTitle(t, facets, "Sort By")

	if sort.Links[0].Title != "Most Popular" || sort.Links[0].Rel != "self" {
		t.Errorf("Most Popular should be active by default: %+v", sort.Links[0])
	}
	for _, l := range sort.Links[1:] {
		if l.Rel == "self" {
			t.Errorf("only one active sort link expected: %+v", l)
		}
	}
}

func TestFacetLinksCarryModifiedParams(t *testing.T) {
	facets := commonFacets(testURLFn, Params{Query: "whales", Lang: "en"}, nil)

	format := facetByTitle(t, facets, "Format")
	var audiobook books.Link
	for _, l := range format.Links {
		if l.Title == "Audiobook" {
			audiobook = l
		}
	}
	if !strings.Contains(audiobook.Href, "audiobook=true") {
		t.Errorf("href = %q", audiobook.Href)
	}
	if !strings.Contains(audiobook.Href, "query=whales") || !strings.Contains(audiobook.Href, "lang=en") {
		t.Errorf("facet links must preserve the other parameters: %q", audiobook.Href)
	}
}

func TestTopSubjectsFacet(t *testing.T) {
	top := []books.SubjectCount{
		{ID: 31, Name: "Whaling -- Fiction", Count: 12},
		{ID: 32, Name: "Sea stories", Count: 7},
	}
	facets := commonFacets(testURLFn, Params{Query: "whales"}, top)

	subjects := facetByTitle(t, facets, "Top Subjects in Results")
	if len(subjects.Links) != 2 {
		t.Fatalf("links = %+v", subjects.Links)
	}
	if subjects.Links[0].Href != "/opds/subjects?id=31" {
		t.Errorf("href = %q", subjects.Links[0].Href)
	}
	if subjects.Links[0].Title != "Whaling -- Fiction (12)" {
		t.Errorf("title = %q", subjects.Links[0].Title)
	}
}

func TestLanguageFacetListsAllLanguages(t *testing.T) {
	facets := commonFacets(testURLFn, Params{}, nil)
	lang := facetByTitle(t, facets, "Language")

	if len(lang.Links) != len(books.Languages)+1 {
		t.Fatalf("links = %d, want %d", len(lang.Links), len(books.Languages)+1)
	}
	if lang.Links[0].Title != "Any" || lang.Links[0].Rel != "self" {
		t.Errorf("Any should be active with no filter: %+v", lang.Links[0])
	}
	if lang.Links[1].Title != "English" {
		t.Errorf("English should lead the language list: %+v", lang.Links[1])
	}
}

func TestGenreFacet(t *testing.T) {
	f := genreFacet(testURLFn, Params{LoCC: "P"})

	if f.Metadata.Title != "Broad Genre" {
		t.Errorf("title = %q", f.Metadata.Title)
	}
	if len(f.Links) != len(books.LoCCMainClasses)+1 {
		t.Fatalf("links = %d", len(f.Links))
	}

	var active int
	for _, l := range f.Links {
		if l.Rel == "self" {
			active++
			if !strings.Contains(l.Href, "locc=P") {
				t.Errorf("active href = %q", l.Href)
			}
		}
	}
	if active != 1 {
		t.Errorf("active links = %d, want 1", active)
	}
}
