package tokenize

import (
	"fmt"

	"github.com/kljensen/snowball"

	"obscuritext/internal/language"
)

// Stemmer reduces a token to its stem. Implementations must be pure.
type Stemmer interface {
	Stem(word string) string
}

// StemmerFunc adapts a function to the Stemmer interface.
type StemmerFunc func(string) string

// Stem calls f(word).
func (f StemmerFunc) Stem(word string) string { return f(word) }

type snowballStemmer struct {
	algorithm string
}

// NewSnowballStemmer returns the Snowball stemmer for lang, which may be a
// language code or name. Snowball folds words to lower case as it stems.
func NewSnowballStemmer(lang string) (Stemmer, error) {
	algorithm, ok := language.StemmerName(lang)
	if !ok {
		return nil, fmt.Errorf("no stemmer for language %q (supported: %v)", lang, language.Stemmable())
	}
	if _, err := snowball.Stem("running", algorithm, true); err != nil {
		return nil, fmt.Errorf("snowball %s: %w", algorithm, err)
	}
	return snowballStemmer{algorithm: algorithm}, nil
}

func (s snowballStemmer) Stem(word string) string {
	stemmed, err := snowball.Stem(word, s.algorithm, true)
	if err != nil {
		return word
	}
	return stemmed
}
