package surrogate

import "fmt"

// Entry records one distinct token, its surrogate, and its occurrence count.
type Entry struct {
	Token     string
	Surrogate Value
	Frequency int
}

// Table is an arena of entries in discovery order with an index by token.
// Position i in the arena is the i-th distinct token first observed.
type Table struct {
	mode    Mode
	entries []Entry
	index   map[string]int
}

func newTable(mode Mode) *Table {
	return &Table{mode: mode, index: make(map[string]int)}
}

// Mode reports which surrogate mode built the table.
func (t *Table) Mode() Mode { return t.mode }

// Len returns the number of distinct tokens.
func (t *Table) Len() int { return len(t.entries) }

// Lookup returns the entry for token.
func (t *Table) Lookup(token string) (Entry, bool) {
	i, ok := t.index[token]
	if !ok {
		return Entry{}, false
	}
	return t.entries[i], true
}

// Entries returns a copy of the arena in discovery order.
func (t *Table) Entries() []Entry {
	out := make([]Entry, len(t.entries))
	copy(out, t.entries)
	return out
}

// TotalFrequency sums the frequency of every entry.
func (t *Table) TotalFrequency() int {
	total := 0
	for _, e := range t.entries {
		total += e.Frequency
	}
	return total
}

// Clone returns an independent copy of the table.
func (t *Table) Clone() *Table {
	clone := &Table{
		mode:    t.mode,
		entries: make([]Entry, len(t.entries)),
		index:   make(map[string]int, len(t.index)),
	}
	copy(clone.entries, t.entries)
	for token, i := range t.index {
		clone.index[token] = i
	}
	return clone
}

// Reassign returns a new snapshot in which each token named in updates carries
// the given surrogate. Discovery order and frequencies are unchanged.
func (t *Table) Reassign(updates map[string]Value) (*Table, error) {
	next := t.Clone()
	for token, value := range updates {
		i, ok := next.index[token]
		if !ok {
			return nil, fmt.Errorf("reassign %q: %w", token, ErrUnknownToken)
		}
		next.entries[i].Surrogate = value
	}
	return next, nil
}

func (t *Table) observe(token string, provisional func() Value) {
	if i, ok := t.index[token]; ok {
		t.entries[i].Frequency++
		return
	}
	t.index[token] = len(t.entries)
	t.entries = append(t.entries, Entry{Token: token, Surrogate: provisional(), Frequency: 1})
}
