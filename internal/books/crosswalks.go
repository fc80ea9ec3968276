package books

import "github.com/shelfdex/shelfdex/pkg/marc"

// Transformer renders one row into an output document.
type Transformer func(*Row) any

const (
	rightsPublicDomain = "Public domain in the USA."
	rightsCopyrighted  = "Copyrighted. Read the copyright notice inside this book for details."
)

func rightsText(copyrighted *int) string {
	if copyrighted != nil && *copyrighted != 0 {
		return rightsCopyrighted
	}
	return rightsPublicDomain
}

func derefStr(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func firstStr(vals []*string) string {
	if len(vals) == 0 {
		return ""
	}
	return derefStr(vals[0])
}

// CompactEntry is the mini crosswalk output.
type CompactEntry struct {
	ID        int64  `json:"id"`
	Title     string `json:"title"`
	Author    string `json:"author"`
	Downloads int    `json:"downloads"`
}

// TransformMini renders the compact summary shape.
func TransformMini(r *Row) any {
	return CompactEntry{
		ID:        r.BookID,
		Title:     marc.Clean(derefStr(r.Title)),
		Author:    derefStr(r.AllAuthors),
		Downloads: r.Downloads,
	}
}

// Creator is a contributor entry in the full crosswalk.
type Creator struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
	Role string `json:"role"`
}

// LanguageRef pairs a language code with its display name.
type LanguageRef struct {
	Code string `json:"code"`
	Name string `json:"name"`
}

// TypeRef wraps a DCMI type label.
type TypeRef struct {
	DCMIType string `json:"dcmitype"`
}

// CoverageRef wraps a classification code.
type CoverageRef struct {
	ID   string `json:"id"`
	LoCC string `json:"locc"`
}

// PublisherRef carries the raw publisher statement.
type PublisherRef struct {
	Raw string `json:"raw"`
}

// FullEntry is the full crosswalk output: every row field with nested
// relation structures.
type FullEntry struct {
	BookID      int64         `json:"book_id"`
	Title       string        `json:"title"`
	Author      string        `json:"author"`
	Downloads   int           `json:"downloads"`
	Creators    []Creator     `json:"creators"`
	Language    []LanguageRef `json:"language"`
	Subjects    []Subject     `json:"subjects"`
	Bookshelves []Bookshelf   `json:"bookshelves"`
	Date        *string       `json:"date"`
	Format      []FileFormat  `json:"format"`
	Coverpage   []string      `json:"coverpage"`
	Summary     []string      `json:"summary"`
	Credits     []string      `json:"credits"`
	Type        []TypeRef     `json:"type"`
	Rights      string        `json:"rights"`
	Coverage    []CoverageRef `json:"coverage"`
	Publisher   *PublisherRef `json:"publisher"`
}

func languageRefs(codes []string) []LanguageRef {
	out := make([]LanguageRef, 0, len(codes))
	for _, code := range codes {
		out = append(out, LanguageRef{Code: code, Name: LanguageLabel(code)})
	}
	return out
}

func cleanCreditsAll(vals []string) []string {
	out := make([]string, 0, len(vals))
	for _, v := range vals {
		if cleaned := marc.CleanCredits(v); cleaned != "" {
			out = append(out, cleaned)
		}
	}
	return out
}

// TransformFull renders the full shape.
func TransformFull(r *Row) any {
	creators := r.Contributors()
	fullCreators := make([]Creator, len(creators))
	for i, c := range creators {
		fullCreators[i] = Creator{ID: c.ID, Name: marc.Clean(c.Name), Role: c.Role}
	}

	subjects := r.Subjects()
	for i := range subjects {
		subjects[i].Name = marc.Clean(subjects[i].Name)
	}
	bookshelves := r.Bookshelves()
	for i := range bookshelves {
		bookshelves[i].Name = marc.Clean(bookshelves[i].Name)
	}

	loccs := r.LoCCList()
	coverage := make([]CoverageRef, len(loccs))
	for i, code := range loccs {
		coverage[i] = CoverageRef{ID: code, LoCC: code}
	}

	types := r.TypeList()
	typeRefs := make([]TypeRef, len(types))
	for i, t := range types {
		typeRefs[i] = TypeRef{DCMIType: t}
	}

	var publisher *PublisherRef
	if p := derefStr(r.Publisher); p != "" {
		publisher = &PublisherRef{Raw: p}
	}

	return FullEntry{
		BookID:      r.BookID,
		Title:       marc.Clean(derefStr(r.Title)),
		Author:      derefStr(r.AllAuthors),
		Downloads:   r.Downloads,
		Creators:    fullCreators,
		Language:    languageRefs(r.LangList()),
		Subjects:    subjects,
		Bookshelves: bookshelves,
		Date:        r.ReleaseDate,
		Format:      r.Formats(),
		Coverpage:   compactStrings(r.Coverpages),
		Summary:     marc.CleanAll(compactStrings(r.Summary)),
		Credits:     cleanCreditsAll(compactStrings(r.Credits)),
		Type:        typeRefs,
		Rights:      rightsText(r.Copyrighted),
		Coverage:    coverage,
		Publisher:   publisher,
	}
}

// RecordContributor is a name/role pair in the legacy record shape.
type RecordContributor struct {
	Name string `json:"name"`
	Role string `json:"role"`
}

// RecordFile is a file entry in the legacy record shape.
type RecordFile struct {
	Filename string `json:"filename"`
	Type     string `json:"type"`
	Size     int64  `json:"size"`
}

// Record is the legacy bibliographic record shape.
type Record struct {
	EbookNo             int64               `json:"ebook_no"`
	Title               string              `json:"title"`
	Contributors        []RecordContributor `json:"contributors"`
	Language            []LanguageRef       `json:"language"`
	Subjects            []string            `json:"subjects"`
	Bookshelves         []string            `json:"bookshelves"`
	ReleaseDate         *string             `json:"release_date"`
	DownloadsLast30Days int                 `json:"downloads_last_30_days"`
	Files               []RecordFile        `json:"files"`
	CoverURL            *string             `json:"cover_url"`
}

// TransformRecord renders the legacy record shape.
func TransformRecord(r *Row) any {
	creators := r.Contributors()
	contributors := make([]RecordContributor, len(creators))
	for i, c := range creators {
		contributors[i] = RecordContributor{Name: marc.Clean(c.Name), Role: c.Role}
	}

	subjects := r.Subjects()
	subjectNames := make([]string, len(subjects))
	for i, s := range subjects {
		subjectNames[i] = marc.Clean(s.Name)
	}
	shelves := r.Bookshelves()
	shelfNames := make([]string, len(shelves))
	for i, b := range shelves {
		shelfNames[i] = marc.Clean(b.Name)
	}

	formats := r.Formats()
	files := make([]RecordFile, len(formats))
	for i, f := range formats {
		files[i] = RecordFile{Filename: f.Filename, Type: f.Mediatype, Size: f.Extent}
	}

	var coverURL *string
	if len(r.Coverpages) > 0 {
		coverURL = r.Coverpages[0]
	}

	return Record{
		EbookNo:             r.BookID,
		Title:               marc.Clean(derefStr(r.Title)),
		Contributors:        contributors,
		Language:            languageRefs(r.LangList()),
		Subjects:            subjectNames,
		Bookshelves:         shelfNames,
		ReleaseDate:         r.ReleaseDate,
		DownloadsLast30Days: r.Downloads,
		Files:               files,
		CoverURL:            coverURL,
	}
}

// Crosswalks builds the transformer dispatch table. The OPDS
// transformer resolves relative file paths against baseURL.
func Crosswalks(baseURL string) map[Crosswalk]Transformer {
	return map[Crosswalk]Transformer{
		CrosswalkMini:   TransformMini,
		CrosswalkFull:   TransformFull,
		CrosswalkRecord: TransformRecord,
		CrosswalkOPDS:   OPDSTransformer(baseURL),
	}
}
