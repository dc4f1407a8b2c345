package textutil

import "testing"

func TestSanitizeFileName(t *testing.T) {
	tests := map[string]string{
		"comment":          "comment",
		" free text ":      "free_text",
		"a/b:c":            "a-b-c",
		`what?"<now>`:      "whatnow",
		"tab\tand  spaces": "tab_and_spaces",
	}
	for input, want := range tests {
		if got := SanitizeFileName(input); got != want {
			t.Fatalf("SanitizeFileName(%q) = %q, want %q", input, got, want)
		}
	}
}

func TestSanitizeSegment(t *testing.T) {
	tests := map[string]string{
		"Pepper":   "Pepper",
		"s@lt!42":  "s-lt-42",
		"":         "none",
		"***":      "none",
		"café/bar": "café-bar",
	}
	for input, want := range tests {
		if got := SanitizeSegment(input); got != want {
			t.Fatalf("SanitizeSegment(%q) = %q, want %q", input, got, want)
		}
	}
}
