package books

import (
	"fmt"
	"html"
	"math"
	"path"
	"regexp"
	"slices"
	"strconv"
	"strings"

	"github.com/shelfdex/shelfdex/pkg/marc"
)

// DefaultBaseURL resolves relative file paths and identifiers when no
// catalog base is configured.
const DefaultBaseURL = "https://www.gutenberg.org"

const (
	schemaBook      = "http://schema.org/Book"
	schemaAudiobook = "http://schema.org/Audiobook"
	relOpenAccess   = "http://opds-spec.org/acquisition/open-access"
)

// audioByteRate is bytes per second at the catalog's standard 64 kbit/s
// MP3 encoding, used to estimate track durations from file sizes.
const audioByteRate = 8000

// OPDSContributor is an author entry in publication metadata.
type OPDSContributor struct {
	Name       string `json:"name"`
	SortAs     string `json:"sortAs"`
	Identifier string `json:"identifier,omitempty"`
}

// Collection is a belongsTo membership reference.
type Collection struct {
	Name       string `json:"name"`
	Identifier string `json:"identifier"`
}

// BelongsTo groups collection memberships.
type BelongsTo struct {
	Collection []Collection `json:"collection"`
}

// Accessibility is the schema.org accessibility block.
type Accessibility struct {
	AccessMode           []string   `json:"accessMode"`
	AccessModeSufficient [][]string `json:"accessModeSufficient"`
	Feature              []string   `json:"feature"`
	Hazard               []string   `json:"hazard"`
}

// Link is an OPDS link object, also used for reading order tracks and
// cover images.
type Link struct {
	Rel      string `json:"rel,omitempty"`
	Href     string `json:"href"`
	Type     string `json:"type,omitempty"`
	Title    string `json:"title,omitempty"`
	Length   int64  `json:"length,omitempty"`
	Duration int64  `json:"duration,omitempty"`

	Templated bool `json:"templated,omitempty"`
}

// PublicationMeta is the metadata block of an OPDS publication.
type PublicationMeta struct {
	Type          string           `json:"@type"`
	Identifier    string           `json:"identifier"`
	Title         string           `json:"title"`
	Language      string           `json:"language"`
	Author        *OPDSContributor `json:"author,omitempty"`
	Narrator      []string         `json:"narrator,omitempty"`
	Published     string           `json:"published,omitempty"`
	Description   string           `json:"description,omitempty"`
	Subject       []string         `json:"subject,omitempty"`
	Publisher     string           `json:"publisher,omitempty"`
	Duration      int64            `json:"duration,omitempty"`
	BelongsTo     *BelongsTo       `json:"belongsTo,omitempty"`
	Accessibility *Accessibility   `json:"accessibility,omitempty"`
}

// Publication is an OPDS 2.0 publication entry.
type Publication struct {
	Metadata     PublicationMeta `json:"metadata"`
	Links        []Link          `json:"links"`
	Images       []Link          `json:"images,omitempty"`
	ReadingOrder []Link          `json:"readingOrder,omitempty"`
	Resources    []Link          `json:"resources,omitempty"`
}

// textFallbacks is the acquisition preference chain for text works.
var textFallbacks = []string{
	"epub3.images", "epub.images", "epub.noimages",
	"kindle.images", "pdf.images", "pdf.noimages", "html",
}

// audioFallbacks is the chain used for audio works when no bundled
// archive exists.
var audioFallbacks = []string{"index", "html"}

var reDigits = regexp.MustCompile(`\d+`)

// OPDSTransformer builds the OPDS crosswalk. Relative file paths and
// catalog identifiers resolve against baseURL.
func OPDSTransformer(baseURL string) Transformer {
	base := strings.TrimRight(baseURL, "/")
	if base == "" {
		base = DefaultBaseURL
	}
	return func(r *Row) any {
		return transformOPDS(r, base)
	}
}

func resolveHref(base, filename string) string {
	if strings.HasPrefix(filename, "http://") || strings.HasPrefix(filename, "https://") {
		return filename
	}
	return base + "/" + strings.TrimLeft(filename, "/")
}

func cleanContributors(cs []marc.Contributor) []marc.Contributor {
	out := make([]marc.Contributor, len(cs))
	for i, c := range cs {
		c.Name = marc.Clean(c.Name)
		out[i] = c
	}
	return out
}

func isNarratorRole(role string) bool {
	role = strings.ToLower(role)
	return role == "nrt" || strings.Contains(role, "narrator")
}

func transformOPDS(r *Row, base string) Publication {
	contributors := cleanContributors(r.Contributors())
	formats := r.Formats()
	loccs := r.LoCCList()

	meta := PublicationMeta{
		Type:       schemaBook,
		Identifier: fmt.Sprintf("urn:gutenberg:%d", r.BookID),
		Title:      marc.Clean(derefStr(r.Title)),
		Language:   "en",
	}
	if r.IsAudio {
		meta.Type = schemaAudiobook
	}
	if langs := r.LangList(); len(langs) > 0 {
		meta.Language = langs[0]
	}

	if author, ok := primaryAuthor(contributors); ok {
		entry := &OPDSContributor{Name: author.Name, SortAs: author.Name}
		if author.ID != 0 {
			entry.Identifier = fmt.Sprintf("%s/ebooks/author/%d", base, author.ID)
		}
		meta.Author = entry
	}

	if r.IsAudio {
		for _, c := range contributors {
			if isNarratorRole(c.Role) {
				meta.Narrator = append(meta.Narrator, c.Format(marc.Pretty))
			}
		}
	}

	if date := derefStr(r.ReleaseDate); date != "" {
		meta.Published = date
	}

	meta.Description = buildDescription(r, contributors)

	subjects := make([]string, 0, len(r.SubjectNames)+len(loccs))
	for _, s := range r.Subjects() {
		subjects = append(subjects, marc.Clean(s.Name))
	}
	subjects = append(subjects, loccs...)
	if len(subjects) > 0 {
		meta.Subject = subjects
	}

	meta.Publisher = marc.Clean(derefStr(r.Publisher))

	var collections []Collection
	for _, b := range r.Bookshelves() {
		collections = append(collections, Collection{
			Name:       marc.Clean(b.Name),
			Identifier: fmt.Sprintf("%s/ebooks/bookshelf/%d", base, b.ID),
		})
	}
	for _, code := range loccs {
		collections = append(collections, Collection{
			Name:       code,
			Identifier: fmt.Sprintf("%s/ebooks/locc/%s", base, code),
		})
	}
	if len(collections) > 0 {
		meta.BelongsTo = &BelongsTo{Collection: collections}
	}

	meta.Accessibility = accessibility(r.IsAudio)

	pub := Publication{
		Metadata: meta,
		Links:    acquisitionLinks(r, formats, base),
		Images:   coverImages(formats, base),
	}

	if r.IsAudio {
		tracks, resources, total := audioTracks(formats, base)
		pub.ReadingOrder = tracks
		pub.Resources = resources
		pub.Metadata.Duration = total
	}

	return pub
}

// primaryAuthor picks the first author-equivalent contributor, falling
// back to the first contributor of any role.
func primaryAuthor(contributors []marc.Contributor) (marc.Contributor, bool) {
	for _, c := range contributors {
		if marc.IsAuthorRole(c.Role) {
			return c, true
		}
	}
	if len(contributors) > 0 {
		return contributors[0], true
	}
	return marc.Contributor{}, false
}

// buildDescription assembles the multi-paragraph description in its
// fixed order. Each paragraph is HTML-escaped and wrapped separately.
func buildDescription(r *Row, contributors []marc.Contributor) string {
	var parts []string

	if len(contributors) > 0 {
		parts = append(parts, "By "+marc.FormatAllStrunk(contributors, marc.Pretty))
	}
	if summary := marc.Clean(firstStr(r.Summary)); summary != "" {
		parts = append(parts, summary)
	}
	if credits := marc.CleanCredits(firstStr(r.Credits)); credits != "" {
		parts = append(parts, "Credits: "+credits)
	}
	if level := marc.Clean(derefStr(r.ReadingLevel)); level != "" {
		parts = append(parts, "Reading Level: "+level)
	}
	if types := r.TypeList(); len(types) > 0 {
		parts = append(parts, "Category: "+strings.Join(types, ", "))
	}
	parts = append(parts, "Rights: "+rightsText(r.Copyrighted))
	parts = append(parts, fmt.Sprintf("Downloads: %d", r.Downloads))

	var b strings.Builder
	for _, p := range parts {
		b.WriteString("<p>")
		b.WriteString(html.EscapeString(p))
		b.WriteString("</p>")
	}
	return b.String()
}

func accessibility(audio bool) *Accessibility {
	if audio {
		return &Accessibility{
			AccessMode:           []string{"auditory"},
			AccessModeSufficient: [][]string{{"auditory"}},
			Feature:              []string{"unlocked"},
			Hazard:               []string{"none"},
		}
	}
	return &Accessibility{
		AccessMode:           []string{"textual"},
		AccessModeSufficient: [][]string{{"textual"}},
		Feature:              []string{"displayTransformability", "unlocked"},
		Hazard:               []string{"none"},
	}
}

func formatLink(f FileFormat, base, fallbackType string) Link {
	mtype := strings.TrimSpace(f.Mediatype)
	if mtype == "" {
		mtype = fallbackType
	}
	link := Link{
		Rel:  relOpenAccess,
		Href: resolveHref(base, f.Filename),
		Type: mtype,
	}
	if f.Extent > 0 {
		link.Length = f.Extent
	}
	if title := marc.Clean(f.HRFiletype); title != "" {
		link.Title = title
	}
	return link
}

// acquisitionLinks selects one open-access link. Audio works prefer a
// bundled archive, then the HTML index; text works walk the format
// preference chain. A generic catalog page link is the last resort: an
// OPDS publication must carry at least one acquisition link.
func acquisitionLinks(r *Row, formats []FileFormat, base string) []Link {
	if r.IsAudio {
		for _, f := range formats {
			if strings.TrimSpace(strings.ToLower(f.Mediatype)) == "application/zip" {
				return []Link{formatLink(f, base, "application/zip")}
			}
		}
		if link, ok := chainLink(formats, audioFallbacks, base); ok {
			return []Link{link}
		}
	} else if link, ok := chainLink(formats, textFallbacks, base); ok {
		return []Link{link}
	}
	return []Link{{
		Rel:  relOpenAccess,
		Href: fmt.Sprintf("%s/ebooks/%d", base, r.BookID),
		Type: "text/html",
	}}
}

func chainLink(formats []FileFormat, chain []string, base string) (Link, bool) {
	for _, want := range chain {
		for _, f := range formats {
			if strings.TrimSpace(strings.ToLower(f.Filetype)) != want {
				continue
			}
			return formatLink(f, base, "application/epub+zip"), true
		}
	}
	return Link{}, false
}

// coverImages picks cover links: the first medium cover wins outright;
// otherwise the first format whose type mentions a cover.
func coverImages(formats []FileFormat, base string) []Link {
	var images []Link
	for _, f := range formats {
		switch {
		case strings.Contains(f.Filetype, "cover.medium"):
			return []Link{{Href: resolveHref(base, f.Filename), Type: "image/jpeg"}}
		case strings.Contains(f.Filetype, "cover") && len(images) == 0:
			images = append(images, Link{Href: resolveHref(base, f.Filename), Type: "image/jpeg"})
		}
	}
	return images
}

// trackPart extracts the part number from a track filename: the last
// run of digits before the extension. Tracks without one sort after
// numbered tracks.
func trackPart(filename string) int {
	filename = strings.TrimSuffix(filename, path.Ext(filename))
	runs := reDigits.FindAllString(filename, -1)
	if len(runs) == 0 {
		return math.MaxInt
	}
	n, err := strconv.Atoi(runs[len(runs)-1])
	if err != nil {
		return math.MaxInt
	}
	return n
}

// audioTracks builds the reading order from MP3 tracks, sorted by part
// number, with other audio renditions collected as resources. Track
// durations are estimated from byte size at the standard encoding; the
// returned total is their sum.
func audioTracks(formats []FileFormat, base string) (tracks, resources []Link, total int64) {
	for _, f := range formats {
		mtype := strings.TrimSpace(strings.ToLower(f.Mediatype))
		if !strings.HasPrefix(mtype, "audio/") {
			continue
		}

		link := Link{
			Href:  resolveHref(base, f.Filename),
			Type:  strings.TrimSpace(f.Mediatype),
			Title: marc.Clean(f.HRFiletype),
		}
		if f.Extent > 0 {
			link.Length = f.Extent
			link.Duration = f.Extent / audioByteRate
		}

		if strings.HasPrefix(mtype, "audio/mpeg") || mtype == "audio/mp3" {
			tracks = append(tracks, link)
			total += link.Duration
		} else {
			resources = append(resources, link)
		}
	}

	slices.SortStableFunc(tracks, func(a, b Link) int {
		return trackPart(a.Href) - trackPart(b.Href)
	})
	return tracks, resources, total
}
