package surrogate

import (
	"fmt"
	"strings"
)

// Replacer performs pass 2 against a final table snapshot.
type Replacer struct {
	table *Table
}

// NewReplacer binds a replacer to the final table.
func NewReplacer(t *Table) *Replacer {
	return &Replacer{table: t}
}

// Replace maps tokens to their surrogates, each followed by a single space.
// A token missing from the table is an ErrUnknownToken.
func (r *Replacer) Replace(tokens []string) (string, error) {
	var b strings.Builder
	for _, token := range tokens {
		e, ok := r.table.Lookup(token)
		if !ok {
			return "", fmt.Errorf("replace %q: %w", token, ErrUnknownToken)
		}
		b.WriteString(e.Surrogate.String())
		b.WriteByte(' ')
	}
	return b.String(), nil
}

// ReplaceAll maps every field in order.
func (r *Replacer) ReplaceAll(fields [][]string) ([]string, error) {
	out := make([]string, len(fields))
	for i, tokens := range fields {
		s, err := r.Replace(tokens)
		if err != nil {
			return nil, fmt.Errorf("field %d: %w", i, err)
		}
		out[i] = s
	}
	return out, nil
}
