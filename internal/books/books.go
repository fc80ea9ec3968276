// Package books implements catalog search over the denormalized book
// view: a fluent query builder that compiles to parameterized SQL, an
// executor with count-then-fetch pagination, and the crosswalk
// renderers that shape rows for each output format.
package books

import "github.com/shelfdex/shelfdex/pkg/marc"

// Row is one record of the denormalized catalog view. One-to-many
// relations arrive as parallel arrays: index i of CreatorNames,
// CreatorRoles and CreatorIDs describes the same contributor. Array
// elements may be NULL, so they scan as pointers.
type Row struct {
	BookID      int64
	Title       *string
	AllAuthors  *string
	Downloads   int
	ReleaseDate *string
	Copyrighted *int
	LangCodes   []*string

	CreatorIDs   []*int64
	CreatorNames []*string
	CreatorRoles []*string

	SubjectIDs     []*int64
	SubjectNames   []*string
	BookshelfIDs   []*int64
	BookshelfNames []*string
	LoCCCodes      []*string

	IsAudio      bool
	DCMITypes    []*string
	Publisher    *string
	Summary      []*string
	Credits      []*string
	ReadingLevel *string
	Coverpages   []*string

	FormatFilenames   []*string
	FormatFiletypes   []*string
	FormatHRFiletypes []*string
	FormatMediatypes  []*string
	FormatExtents     []*int64
}

// Subject is a zipped subject relation entry.
type Subject struct {
	ID   int64  `json:"id"`
	Name string `json:"subject"`
}

// Bookshelf is a zipped bookshelf relation entry.
type Bookshelf struct {
	ID   int64  `json:"id"`
	Name string `json:"bookshelf"`
}

// FileFormat is a zipped file format relation entry.
type FileFormat struct {
	Filename   string `json:"filename"`
	Filetype   string `json:"filetype"`
	HRFiletype string `json:"hr_filetype"`
	Mediatype  string `json:"mediatype"`
	Extent     int64  `json:"extent"`
}

func strAt(vals []*string, i int) string {
	if i < len(vals) && vals[i] != nil {
		return *vals[i]
	}
	return ""
}

func intAt(vals []*int64, i int) int64 {
	if i < len(vals) && vals[i] != nil {
		return *vals[i]
	}
	return 0
}

func compactStrings(vals []*string) []string {
	out := make([]string, 0, len(vals))
	for _, v := range vals {
		if v != nil && *v != "" {
			out = append(out, *v)
		}
	}
	return out
}

// Contributors zips the creator arrays. Entries without a name are
// dropped; a missing role defaults to Author.
func (r *Row) Contributors() []marc.Contributor {
	out := make([]marc.Contributor, 0, len(r.CreatorNames))
	for i := range r.CreatorNames {
		name := strAt(r.CreatorNames, i)
		if name == "" {
			continue
		}
		role := strAt(r.CreatorRoles, i)
		if role == "" {
			role = "Author"
		}
		out = append(out, marc.Contributor{
			ID:   intAt(r.CreatorIDs, i),
			Name: name,
			Role: role,
		})
	}
	return out
}

// Subjects zips the subject arrays, dropping unnamed entries.
func (r *Row) Subjects() []Subject {
	out := make([]Subject, 0, len(r.SubjectNames))
	for i := range r.SubjectNames {
		name := strAt(r.SubjectNames, i)
		if name == "" {
			continue
		}
		out = append(out, Subject{ID: intAt(r.SubjectIDs, i), Name: name})
	}
	return out
}

// Bookshelves zips the bookshelf arrays, dropping unnamed entries.
func (r *Row) Bookshelves() []Bookshelf {
	out := make([]Bookshelf, 0, len(r.BookshelfNames))
	for i := range r.BookshelfNames {
		name := strAt(r.BookshelfNames, i)
		if name == "" {
			continue
		}
		out = append(out, Bookshelf{ID: intAt(r.BookshelfIDs, i), Name: name})
	}
	return out
}

// Formats zips the file format arrays, dropping entries without a
// filename.
func (r *Row) Formats() []FileFormat {
	out := make([]FileFormat, 0, len(r.FormatFilenames))
	for i := range r.FormatFilenames {
		fn := strAt(r.FormatFilenames, i)
		if fn == "" {
			continue
		}
		out = append(out, FileFormat{
			Filename:   fn,
			Filetype:   strAt(r.FormatFiletypes, i),
			HRFiletype: strAt(r.FormatHRFiletypes, i),
			Mediatype:  strAt(r.FormatMediatypes, i),
			Extent:     intAt(r.FormatExtents, i),
		})
	}
	return out
}

// LangList returns the non-empty language codes.
func (r *Row) LangList() []string { return compactStrings(r.LangCodes) }

// LoCCList returns the non-empty classification codes.
func (r *Row) LoCCList() []string { return compactStrings(r.LoCCCodes) }

// TypeList returns the non-empty DCMI type labels.
func (r *Row) TypeList() []string { return compactStrings(r.DCMITypes) }
