package books_test

import (
	"testing"

	"github.com/shelfdex/shelfdex/internal/books"
)

func sp(s string) *string { return &s }
func ip(n int) *int       { return &n }
func i64p(n int64) *int64 { return &n }

func sampleRow() *books.Row {
	return &books.Row{
		BookID:      2701,
		Title:       sp("Moby Dick; or, The Whale"),
		AllAuthors:  sp("Melville, Herman"),
		Downloads:   80000,
		ReleaseDate: sp("2001-07-01"),
		Copyrighted: ip(0),
		LangCodes:   []*string{sp("en")},

		CreatorIDs:   []*int64{i64p(9)},
		CreatorNames: []*string{sp("Melville, Herman")},
		CreatorRoles: []*string{sp("Author")},

		SubjectIDs:     []*int64{i64p(31), i64p(32)},
		SubjectNames:   []*string{sp("Whaling -- Fiction"), sp("Sea stories")},
		BookshelfIDs:   []*int64{i64p(20)},
		BookshelfNames: []*string{sp("Best Books Ever Listings")},
		LoCCCodes:      []*string{sp("PS")},

		DCMITypes:    []*string{sp("Text")},
		Publisher:    sp("Chicago $b: Lakeside Press"),
		Summary:      []*string{sp("A sailor called Ishmael narrates.")},
		Credits:      []*string{sp("Daniel Lazarus Updated: 2022-01-01")},
		ReadingLevel: sp("Adult"),
		Coverpages:   []*string{sp("/cache/epub/2701/pg2701.cover.medium.jpg")},

		FormatFilenames:   []*string{sp("/ebooks/2701.epub3.images")},
		FormatFiletypes:   []*string{sp("epub3.images")},
		FormatHRFiletypes: []*string{sp("EPUB3 (E-readers incl. Send-to-Kindle)")},
		FormatMediatypes:  []*string{sp("application/epub+zip")},
		FormatExtents:     []*int64{i64p(1024)},
	}
}

func TestTransformMini(t *testing.T) {
	out := books.TransformMini(sampleRow())
	entry, ok := out.(books.CompactEntry)
	if !ok {
		t.Fatalf("unexpected type %T", out)
	}

	if entry.ID != 2701 {
		t.Errorf("ID = %d, want 2701", entry.ID)
	}
	if entry.Title != "Moby Dick: or, The Whale" {
		t.Errorf("Title = %q, want normalized separators", entry.Title)
	}
	// The aggregate author string passes through untouched.
	if entry.Author != "Melville, Herman" {
		t.Errorf("Author = %q, want raw value", entry.Author)
	}
	if entry.Downloads != 80000 {
		t.Errorf("Downloads = %d, want 80000", entry.Downloads)
	}
}

func TestTransformFull(t *testing.T) {
	out := books.TransformFull(sampleRow())
	entry, ok := out.(books.FullEntry)
	if !ok {
		t.Fatalf("unexpected type %T", out)
	}

	if entry.Rights != "Public domain in the USA." {
		t.Errorf("Rights = %q", entry.Rights)
	}
	if len(entry.Creators) != 1 || entry.Creators[0].Name != "Melville, Herman" {
		t.Errorf("Creators = %+v", entry.Creators)
	}
	if len(entry.Language) != 1 || entry.Language[0].Name != "English" {
		t.Errorf("Language = %+v", entry.Language)
	}
	if len(entry.Subjects) != 2 || entry.Subjects[0].ID != 31 {
		t.Errorf("Subjects = %+v", entry.Subjects)
	}
	if entry.Publisher == nil || entry.Publisher.Raw != "Chicago $b: Lakeside Press" {
		t.Errorf("Publisher.Raw should carry the unnormalized value: %+v", entry.Publisher)
	}
	if len(entry.Credits) != 1 || entry.Credits[0] != "Daniel Lazarus" {
		t.Errorf("Credits should lose the Updated note: %+v", entry.Credits)
	}
	if len(entry.Coverage) != 1 || entry.Coverage[0].LoCC != "PS" {
		t.Errorf("Coverage = %+v", entry.Coverage)
	}
}

func TestTransformFullCopyrighted(t *testing.T) {
	r := sampleRow()
	r.Copyrighted = ip(1)

	entry := books.TransformFull(r).(books.FullEntry)
	if entry.Rights != "Copyrighted. Read the copyright notice inside this book for details." {
		t.Errorf("Rights = %q", entry.Rights)
	}
}

func TestTransformRecord(t *testing.T) {
	out := books.TransformRecord(sampleRow())
	rec, ok := out.(books.Record)
	if !ok {
		t.Fatalf("unexpected type %T", out)
	}

	if rec.EbookNo != 2701 {
		t.Errorf("EbookNo = %d", rec.EbookNo)
	}
	if rec.DownloadsLast30Days != 80000 {
		t.Errorf("DownloadsLast30Days = %d", rec.DownloadsLast30Days)
	}
	if len(rec.Files) != 1 || rec.Files[0].Type != "application/epub+zip" || rec.Files[0].Size != 1024 {
		t.Errorf("Files = %+v", rec.Files)
	}
	if rec.CoverURL == nil || *rec.CoverURL != "/cache/epub/2701/pg2701.cover.medium.jpg" {
		t.Errorf("CoverURL = %v", rec.CoverURL)
	}
}

func TestContributorsDefaultsRole(t *testing.T) {
	r := &books.Row{
		CreatorIDs:   []*int64{i64p(1), nil},
		CreatorNames: []*string{sp("Twain, Mark"), nil},
		CreatorRoles: []*string{nil, sp("Editor")},
	}

	got := r.Contributors()
	if len(got) != 1 {
		t.Fatalf("len = %d, want 1 (nameless entries dropped)", len(got))
	}
	if got[0].Role != "Author" {
		t.Errorf("Role = %q, want Author default", got[0].Role)
	}
}

func TestFormatsDropNilFilenames(t *testing.T) {
	r := &books.Row{
		FormatFilenames:  []*string{nil, sp("/ebooks/1.txt")},
		FormatMediatypes: []*string{sp("x"), sp("text/plain")},
	}

	got := r.Formats()
	if len(got) != 1 {
		t.Fatalf("len = %d, want 1", len(got))
	}
	if got[0].Mediatype != "text/plain" {
		t.Errorf("Mediatype = %q; zipping must preserve indices", got[0].Mediatype)
	}
}
