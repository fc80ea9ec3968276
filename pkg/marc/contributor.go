package marc

import (
	"fmt"
	"regexp"
	"strings"
)

var (
	reParens     = regexp.MustCompile(`\(.*\)`)
	reMultiSpace = regexp.MustCompile(`\s+`)
)

// Contributor is one creator of a work: name in "Last, First" form, an
// optional role, and birth/death years given as floor/ceiling ranges to
// express uncertainty. A zero year means unknown.
type Contributor struct {
	ID        int64  `json:"id,omitempty"`
	Name      string `json:"name"`
	Role      string `json:"role"`
	BornFloor int    `json:"born_floor,omitempty"`
	BornCeil  int    `json:"born_ceil,omitempty"`
	DiedFloor int    `json:"died_floor,omitempty"`
	DiedCeil  int    `json:"died_ceil,omitempty"`
}

// Options controls contributor rendering.
// Pretty reverses "Twain, Mark" into "Mark Twain" and parenthesizes dates;
// Dates includes the birth-death range; ShowRole appends a bracketed role for
// anything other than an author-equivalent role.
type Options struct {
	Pretty   bool
	Dates    bool
	ShowRole bool
}

// Formal is the default record style: "Twain, Mark, 1835-1910 [Editor]".
var Formal = Options{Dates: true, ShowRole: true}

// Pretty is the display style: "Mark Twain (1835-1910) [Editor]".
var Pretty = Options{Pretty: true, Dates: true, ShowRole: true}

var authorRoles = map[string]bool{
	"author":  true,
	"creator": true,
	"aut":     true,
	"cre":     true,
}

// IsAuthorRole reports whether role is an author-equivalent role.
func IsAuthorRole(role string) bool {
	return authorRoles[strings.ToLower(role)]
}

// Format renders a single contributor under the given options.
// Contributors without a name render as the empty string.
func (c Contributor) Format(opts Options) string {
	if c.Name == "" {
		return ""
	}

	name := c.Name
	if opts.Pretty {
		name = reverseName(name)
	}

	var dates string
	if opts.Dates {
		born := formatYearRange(c.BornFloor, c.BornCeil)
		died := formatYearRange(c.DiedFloor, c.DiedCeil)
		switch {
		case born != "" && died != "":
			dates = born + "-" + died
		case born != "":
			dates = born + "-"
		case died != "":
			dates = "d. " + died
		}
	}

	var role string
	if opts.ShowRole && c.Role != "" && !IsAuthorRole(c.Role) {
		role = c.Role
	}

	result := name
	if opts.Pretty {
		if dates != "" {
			result += " (" + dates + ")"
		}
	} else if dates != "" {
		result += ", " + dates
	}
	if role != "" {
		result += " [" + role + "]"
	}
	return result
}

// FormatAll renders every named contributor and joins them with sep.
func FormatAll(contributors []Contributor, opts Options, sep string) string {
	return strings.Join(formatEach(contributors, opts), sep)
}

// FormatAllStrunk renders every named contributor joined Oxford-comma style:
// "Tom, Dick, and Harry".
func FormatAllStrunk(contributors []Contributor, opts Options) string {
	return Strunk(formatEach(contributors, opts))
}

func formatEach(contributors []Contributor, opts Options) []string {
	formatted := make([]string, 0, len(contributors))
	for _, c := range contributors {
		if c.Name == "" {
			continue
		}
		formatted = append(formatted, c.Format(opts))
	}
	return formatted
}

// Strunk joins items with an Oxford comma: ["a", "b", "c"] -> "a, b, and c".
func Strunk(items []string) string {
	switch len(items) {
	case 0:
		return ""
	case 1:
		return items[0]
	case 2:
		return items[0] + " and " + items[1]
	default:
		return strings.Join(items[:len(items)-1], ", ") + ", and " + items[len(items)-1]
	}
}

// formatYearRange renders an uncertain year range. Differing floor and
// ceiling produce a "?" qualifier; negative years render as BCE, shifted by
// one because year 0 does not exist.
func formatYearRange(floor, ceil int) string {
	if ceil != 0 && floor == 0 {
		if ceil < 0 {
			return fmt.Sprintf("%d? BCE", -(ceil - 1))
		}
		return fmt.Sprintf("%d?", ceil)
	}
	if floor == 0 {
		return ""
	}
	if ceil != 0 && floor != ceil {
		d := max(floor, ceil)
		if d < 0 {
			return fmt.Sprintf("%d? BCE", -(d - 1))
		}
		return fmt.Sprintf("%d?", d)
	}
	if floor < 0 {
		return fmt.Sprintf("%d BCE", -(floor - 1))
	}
	return fmt.Sprintf("%d", floor)
}

// reverseName flips "Twain, Mark" into "Mark Twain", dropping any
// parenthesized qualifier.
func reverseName(name string) string {
	if name == "" {
		return ""
	}
	parts := strings.Split(name, ", ")
	for i, j := 0, len(parts)-1; i < j; i, j = i+1, j-1 {
		parts[i], parts[j] = parts[j], parts[i]
	}
	rev := strings.Join(parts, " ")
	rev = reParens.ReplaceAllString(rev, "")
	rev = reMultiSpace.ReplaceAllString(rev, " ")
	return strings.TrimSpace(rev)
}
