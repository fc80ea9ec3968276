package books

import "github.com/shelfdex/shelfdex/pkg/repository"

// scanRow maps one result row in selectColumns order. Array columns
// scan as pointer slices so NULL elements survive into the parallel
// arrays.
func scanRow(s repository.Scanner) (*Row, error) {
	var r Row
	if err := s.Scan(
		&r.BookID,
		&r.Title,
		&r.AllAuthors,
		&r.Downloads,
		&r.ReleaseDate,
		&r.Copyrighted,
		&r.LangCodes,
		&r.CreatorIDs,
		&r.CreatorNames,
		&r.CreatorRoles,
		&r.SubjectIDs,
		&r.SubjectNames,
		&r.BookshelfIDs,
		&r.BookshelfNames,
		&r.LoCCCodes,
		&r.IsAudio,
		&r.DCMITypes,
		&r.Publisher,
		&r.Summary,
		&r.Credits,
		&r.ReadingLevel,
		&r.Coverpages,
		&r.FormatFilenames,
		&r.FormatFiletypes,
		&r.FormatHRFiletypes,
		&r.FormatMediatypes,
		&r.FormatExtents,
	); err != nil {
		return nil, err
	}
	return &r, nil
}

// SubjectCount is a subject facet row.
type SubjectCount struct {
	ID    int64  `json:"id"`
	Name  string `json:"name"`
	Count int    `json:"count"`
}

func scanSubjectCount(s repository.Scanner) (SubjectCount, error) {
	var sc SubjectCount
	if err := s.Scan(&sc.ID, &sc.Name, &sc.Count); err != nil {
		return SubjectCount{}, err
	}
	return sc, nil
}

// TermCount is a subject or bookshelf listing row with its book count.
type TermCount struct {
	ID        int64  `json:"id"`
	Name      string `json:"name"`
	BookCount int    `json:"book_count"`
}

func scanTermCount(s repository.Scanner) (TermCount, error) {
	var tc TermCount
	if err := s.Scan(&tc.ID, &tc.Name, &tc.BookCount); err != nil {
		return TermCount{}, err
	}
	return tc, nil
}

// LoCCChild is one child classification of a parent code.
type LoCCChild struct {
	Code        string `json:"code"`
	Label       string `json:"label"`
	HasChildren bool   `json:"has_children"`
}

func scanLoCCChild(s repository.Scanner) (LoCCChild, error) {
	var c LoCCChild
	if err := s.Scan(&c.Code, &c.Label, &c.HasChildren); err != nil {
		return LoCCChild{}, err
	}
	return c, nil
}
