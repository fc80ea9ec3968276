package books

// Language pairs an MARC language code with its display label.
type Language struct {
	Code  string `json:"code"`
	Label string `json:"label"`
}

// Languages lists every language present in the catalog, ordered
// with English first and the rest alphabetical by code.
var Languages = []Language{
	{"en", "English"},
	{"af", "Afrikaans"},
	{"ale", "Aleut"},
	{"ang", "Old English"},
	{"ar", "Arabic"},
	{"arp", "Arapaho"},
	{"bg", "Bulgarian"},
	{"bgs", "Basa Banyumasan"},
	{"bo", "Tibetan"},
	{"br", "Breton"},
	{"brx", "Bodo"},
	{"ca", "Catalan"},
	{"ceb", "Cebuano"},
	{"cs", "Czech"},
	{"csb", "Kashubian"},
	{"cy", "Welsh"},
	{"da", "Danish"},
	{"de", "German"},
	{"el", "Greek"},
	{"enm", "Middle English"},
	{"eo", "Esperanto"},
	{"es", "Spanish"},
	{"et", "Estonian"},
	{"fa", "Persian"},
	{"fi", "Finnish"},
	{"fr", "French"},
	{"fur", "Friulian"},
	{"fy", "Western Frisian"},
	{"ga", "Irish"},
	{"gl", "Galician"},
	{"gla", "Scottish Gaelic"},
	{"grc", "Ancient Greek"},
	{"hai", "Haida"},
	{"he", "Hebrew"},
	{"hu", "Hungarian"},
	{"ia", "Interlingua"},
	{"ilo", "Iloko"},
	{"is", "Icelandic"},
	{"it", "Italian"},
	{"iu", "Inuktitut"},
	{"ja", "Japanese"},
	{"kha", "Khasi"},
	{"kld", "Klamath-Modoc"},
	{"ko", "Korean"},
	{"la", "Latin"},
	{"lt", "Lithuanian"},
	{"mi", "Māori"},
	{"myn", "Mayan Languages"},
	{"nah", "Nahuatl"},
	{"nai", "North American Indian"},
	{"nap", "Neapolitan"},
	{"nav", "Navajo"},
	{"nl", "Dutch"},
	{"no", "Norwegian"},
	{"oc", "Occitan"},
	{"oji", "Ojibwa"},
	{"pl", "Polish"},
	{"pt", "Portuguese"},
	{"rmq", "Romani"},
	{"ro", "Romanian"},
	{"ru", "Russian"},
	{"sa", "Sanskrit"},
	{"sco", "Scots"},
	{"sl", "Slovenian"},
	{"sr", "Serbian"},
	{"sv", "Swedish"},
	{"te", "Telugu"},
	{"tl", "Tagalog"},
	{"yi", "Yiddish"},
	{"zh", "Chinese"},
}

var languageLabels = func() map[string]string {
	m := make(map[string]string, len(Languages))
	for _, l := range Languages {
		m[l.Code] = l.Label
	}
	return m
}()

// LanguageLabel returns the display label for a language code, or the
// code itself when unknown.
func LanguageLabel(code string) string {
	if label, ok := languageLabels[code]; ok {
		return label
	}
	return code
}
