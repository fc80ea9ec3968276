package books

// SearchType selects the predicate family used by Query.Search.
type SearchType string

const (
	// SearchStrict matches against the precomputed search vector using
	// websearch query syntax: "quoted phrases", and, or, -negation.
	SearchStrict SearchType = "fts"
	// SearchFuzzy matches by trigram word similarity against the plain text
	// column. Tolerant of misspellings; no boolean operators.
	SearchFuzzy SearchType = "fuzzy"
)

// SearchField names a searchable projection of the catalog view.
type SearchField string

// FieldBook searches the whole-record projection.
const FieldBook SearchField = "book"

// OrderBy is a result ordering key.
type OrderBy string

const (
	OrderRelevance   OrderBy = "relevance"
	OrderDownloads   OrderBy = "downloads"
	OrderTitle       OrderBy = "title"
	OrderAuthor      OrderBy = "author"
	OrderReleaseDate OrderBy = "release_date"
	OrderRandom      OrderBy = "random"
)

// ValidOrder reports whether key is a recognized ordering key.
func ValidOrder(key string) bool {
	switch OrderBy(key) {
	case OrderRelevance, OrderDownloads, OrderTitle, OrderAuthor, OrderReleaseDate, OrderRandom:
		return true
	}
	return false
}

// SortDirection overrides an ordering key's default direction.
// The zero value keeps the default.
type SortDirection string

const (
	SortDefault SortDirection = ""
	SortAsc     SortDirection = "asc"
	SortDesc    SortDirection = "desc"
)

// Crosswalk names an output renderer applied to each result row.
type Crosswalk string

const (
	// CrosswalkMini renders a compact id/title/author/downloads summary.
	CrosswalkMini Crosswalk = "mini"
	// CrosswalkFull renders every field of the row with nested structures.
	CrosswalkFull Crosswalk = "full"
	// CrosswalkRecord renders the legacy bibliographic record shape.
	CrosswalkRecord Crosswalk = "record"
	// CrosswalkOPDS renders an OPDS 2.0 publication entry.
	CrosswalkOPDS Crosswalk = "opds"
	// CrosswalkCustom dispatches to a caller-registered transformer.
	CrosswalkCustom Crosswalk = "custom"
)

// FileType is a file format media type used by the file-type filter.
type FileType string

const (
	FileTypeEPUB   FileType = "application/epub+zip"
	FileTypeKindle FileType = "application/x-mobipocket-ebook"
	FileTypePDF    FileType = "application/pdf"
	FileTypeText   FileType = "text/plain"
	FileTypeHTML   FileType = "text/html"
)

// Encoding is a character encoding used by the encoding filter.
type Encoding string

const (
	EncodingASCII       Encoding = "us-ascii"
	EncodingUTF8        Encoding = "utf-8"
	EncodingLatin1      Encoding = "iso-8859-1"
	EncodingWindows1252 Encoding = "windows-1252"
)
