package books

// LoCCClass pairs a Library of Congress classification code with its label.
type LoCCClass struct {
	Code  string `json:"code"`
	Label string `json:"label"`
}

// LoCCMainClasses lists the top-level Library of Congress classes
// represented in the catalog.
var LoCCMainClasses = []LoCCClass{
	{"A", "General Works"},
	{"B", "Philosophy, Psychology, Religion"},
	{"C", "History: Auxiliary Sciences"},
	{"D", "History: General and Eastern Hemisphere"},
	{"E", "History: America"},
	{"F", "History: America (Local)"},
	{"G", "Geography, Anthropology, Recreation"},
	{"H", "Social Sciences"},
	{"J", "Political Science"},
	{"K", "Law"},
	{"L", "Education"},
	{"M", "Music"},
	{"N", "Fine Arts"},
	{"P", "Language and Literature"},
	{"Q", "Science"},
	{"R", "Medicine"},
	{"S", "Agriculture"},
	{"T", "Technology"},
	{"U", "Military Science"},
	{"V", "Naval Science"},
	{"Z", "Bibliography, Library Science"},
}

var loccLabels = func() map[string]string {
	m := make(map[string]string, len(LoCCMainClasses))
	for _, c := range LoCCMainClasses {
		m[c.Code] = c.Label
	}
	return m
}()

// LoCCLabel returns the label for a top-level class code, or the code
// itself for subclasses and unknown codes.
func LoCCLabel(code string) string {
	if label, ok := loccLabels[code]; ok {
		return label
	}
	return code
}
