package language

import "strings"

type entry struct {
	code2   string   // ISO 639-1 (2-letter)
	code3   string   // ISO 639-2 primary (3-letter)
	alt3    string   // ISO 639-2 alternate (e.g. "fre" vs "fra")
	display string   // Human-readable name
	words   []string // Full word forms (e.g. "english")
	stemmer string   // Snowball algorithm name, empty when unsupported
}

var languages = []entry{
	{"en", "eng", "", "English", []string{"english"}, "english"},
	{"es", "spa", "", "Spanish", []string{"spanish", "castilian"}, "spanish"},
	{"fr", "fra", "fre", "French", []string{"french"}, "french"},
	{"ru", "rus", "", "Russian", []string{"russian"}, "russian"},
	{"sv", "swe", "", "Swedish", []string{"swedish"}, "swedish"},
	{"no", "nor", "", "Norwegian", []string{"norwegian"}, "norwegian"},
	{"hu", "hun", "", "Hungarian", []string{"hungarian"}, "hungarian"},
	{"de", "deu", "ger", "German", []string{"german"}, ""},
	{"it", "ita", "", "Italian", []string{"italian"}, ""},
	{"pt", "por", "", "Portuguese", []string{"portuguese"}, ""},
	{"nl", "nld", "dut", "Dutch", []string{"dutch"}, ""},
	{"da", "dan", "", "Danish", []string{"danish"}, ""},
	{"fi", "fin", "", "Finnish", []string{"finnish"}, ""},
}

var (
	byCode2 map[string]*entry
	byCode3 map[string]*entry
	byWord  map[string]*entry
)

func init() {
	byCode2 = make(map[string]*entry, len(languages))
	byCode3 = make(map[string]*entry, len(languages)*2)
	byWord = make(map[string]*entry, len(languages))
	for i := range languages {
		e := &languages[i]
		byCode2[e.code2] = e
		byCode3[e.code3] = e
		if e.alt3 != "" {
			byCode3[e.alt3] = e
		}
		for _, w := range e.words {
			byWord[w] = e
		}
	}
}

func lookup(code string) *entry {
	code = strings.ToLower(strings.TrimSpace(code))
	if code == "" {
		return nil
	}
	if e, ok := byCode2[code]; ok {
		return e
	}
	if e, ok := byCode3[code]; ok {
		return e
	}
	if e, ok := byWord[code]; ok {
		return e
	}
	return nil
}

// DisplayName returns a human-readable language name for any recognized code.
// Returns "Unknown" for empty input, or the uppercased code for unrecognized input.
func DisplayName(code string) string {
	if strings.TrimSpace(code) == "" {
		return "Unknown"
	}
	if e := lookup(code); e != nil {
		return e.display
	}
	return strings.ToUpper(strings.TrimSpace(code))
}

// StemmerName returns the stemming algorithm name for code. The second result
// is false when the language is unknown or has no stemmer.
func StemmerName(code string) (string, bool) {
	e := lookup(code)
	if e == nil || e.stemmer == "" {
		return "", false
	}
	return e.stemmer, true
}

// Stemmable lists the display names of every language with a stemmer.
func Stemmable() []string {
	out := make([]string, 0, len(languages))
	for _, e := range languages {
		if e.stemmer != "" {
			out = append(out, e.display)
		}
	}
	return out
}
