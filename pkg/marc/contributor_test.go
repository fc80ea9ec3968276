package marc_test

import (
	"testing"

	"github.com/shelfdex/shelfdex/pkg/marc"
)

func twain(role string) marc.Contributor {
	return marc.Contributor{
		Name: "Twain, Mark", Role: role,
		BornFloor: 1835, BornCeil: 1835,
		DiedFloor: 1910, DiedCeil: 1910,
	}
}

func TestFormatContributor(t *testing.T) {
	tests := []struct {
		name string
		c    marc.Contributor
		opts marc.Options
		want string
	}{
		{
			"formal author with dates",
			twain("Author"), marc.Formal,
			"Twain, Mark, 1835-1910",
		},
		{
			"formal editor shows role",
			twain("Editor"), marc.Formal,
			"Twain, Mark, 1835-1910 [Editor]",
		},
		{
			"pretty author",
			twain("Author"), marc.Pretty,
			"Mark Twain (1835-1910)",
		},
		{
			"pretty editor without dates",
			marc.Contributor{Name: "Twain, Mark", Role: "Editor"},
			marc.Options{Pretty: true, ShowRole: true},
			"Mark Twain [Editor]",
		},
		{
			"aut role suppressed",
			twain("aut"), marc.Formal,
			"Twain, Mark, 1835-1910",
		},
		{
			"born only",
			marc.Contributor{Name: "Doe, Jane", BornFloor: 1900, BornCeil: 1900},
			marc.Formal,
			"Doe, Jane, 1900-",
		},
		{
			"died only",
			marc.Contributor{Name: "Doe, Jane", DiedFloor: 1950, DiedCeil: 1950},
			marc.Formal,
			"Doe, Jane, d. 1950",
		},
		{
			"uncertain birth year",
			marc.Contributor{Name: "Homer", BornFloor: -801, BornCeil: -750},
			marc.Formal,
			"Homer, 751? BCE-",
		},
		{
			"bce exact year shifts by one",
			marc.Contributor{
				Name:      "Sophocles",
				BornFloor: -496, BornCeil: -496,
				DiedFloor: -405, DiedCeil: -405,
			},
			marc.Formal,
			"Sophocles, 497 BCE-406 BCE",
		},
		{
			"ceil only is uncertain",
			marc.Contributor{Name: "Doe, Jane", BornCeil: 1880},
			marc.Formal,
			"Doe, Jane, 1880?-",
		},
		{
			"no name renders empty",
			marc.Contributor{Role: "Editor"}, marc.Formal,
			"",
		},
		{
			"pretty strips parenthetical qualifier",
			marc.Contributor{Name: "Shelley, Mary Wollstonecraft (Godwin)"},
			marc.Options{Pretty: true},
			"Mary Wollstonecraft Shelley",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.c.Format(tt.opts); got != tt.want {
				t.Errorf("Format() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestFormatAll(t *testing.T) {
	contributors := []marc.Contributor{
		twain("Author"),
		{Name: "Doe, Jane", Role: "Editor"},
		{Role: "Illustrator"}, // nameless, dropped
	}

	got := marc.FormatAll(contributors, marc.Formal, "; ")
	want := "Twain, Mark, 1835-1910; Doe, Jane [Editor]"
	if got != want {
		t.Errorf("FormatAll() = %q, want %q", got, want)
	}
}

func TestFormatAllStrunk(t *testing.T) {
	contributors := []marc.Contributor{
		{Name: "Twain, Mark"},
		{Name: "Doe, Jane"},
		{Name: "Smith, John"},
	}

	opts := marc.Options{Pretty: true}
	got := marc.FormatAllStrunk(contributors, opts)
	want := "Mark Twain, Jane Doe, and John Smith"
	if got != want {
		t.Errorf("FormatAllStrunk() = %q, want %q", got, want)
	}
}

func TestStrunk(t *testing.T) {
	tests := []struct {
		name  string
		items []string
		want  string
	}{
		{"empty", nil, ""},
		{"single", []string{"Tom"}, "Tom"},
		{"pair", []string{"Tom", "Dick"}, "Tom and Dick"},
		{"trio", []string{"Tom", "Dick", "Harry"}, "Tom, Dick, and Harry"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := marc.Strunk(tt.items); got != tt.want {
				t.Errorf("Strunk(%v) = %q, want %q", tt.items, got, tt.want)
			}
		})
	}
}
