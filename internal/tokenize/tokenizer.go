package tokenize

import (
	"fmt"
	"strings"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Options selects the normalization policies for one run.
type Options struct {
	// CaseSensitive disables lower-case folding.
	CaseSensitive bool
	// RemovePunctuation deletes punctuation; otherwise each punctuation
	// character becomes its own token.
	RemovePunctuation bool
	// Stemmer is applied to every token when non-nil.
	Stemmer Stemmer
}

// Tokenizer is not safe for concurrent use; the case folder holds state.
type Tokenizer struct {
	opts  Options
	lower cases.Caser
}

// New returns a Tokenizer for opts.
func New(opts Options) *Tokenizer {
	return &Tokenizer{opts: opts, lower: cases.Lower(language.Und)}
}

// MissingToken stands in for a missing cell.
const MissingToken = "nan"

// Tokenize returns the tokens of one field value. Every non-string value
// yields exactly one token: MissingToken for nil, its fmt.Sprint form
// otherwise.
func (t *Tokenizer) Tokenize(value any) []string {
	switch v := value.(type) {
	case nil:
		return []string{MissingToken}
	case string:
		return t.tokenizeText(v)
	default:
		return []string{fmt.Sprint(v)}
	}
}

// TokenizeAll tokenizes values in order.
func (t *Tokenizer) TokenizeAll(values []any) [][]string {
	out := make([][]string, len(values))
	for i, v := range values {
		out[i] = t.Tokenize(v)
	}
	return out
}

func (t *Tokenizer) tokenizeText(text string) []string {
	text = applyPunctuation(text, t.opts.RemovePunctuation)
	if !t.opts.CaseSensitive {
		text = t.lower.String(text)
	}
	tokens := strings.Fields(text)
	if t.opts.Stemmer != nil {
		for i, token := range tokens {
			tokens[i] = t.opts.Stemmer.Stem(token)
		}
	}
	return tokens
}

// applyPunctuation treats every rune that is not a letter, digit, or space as
// punctuation.
func applyPunctuation(text string, remove bool) string {
	var b strings.Builder
	b.Grow(len(text))
	for _, r := range text {
		switch {
		case unicode.IsLetter(r) || unicode.IsDigit(r) || unicode.IsSpace(r):
			b.WriteRune(r)
		case remove:
		default:
			b.WriteByte(' ')
			b.WriteRune(r)
			b.WriteByte(' ')
		}
	}
	return b.String()
}
