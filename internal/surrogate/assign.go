package surrogate

// Assigner performs the discovery pass. Each new token receives a provisional
// surrogate: the next sequential integer in shuffle mode, or its digest in hash
// mode. Repeated tokens only bump the frequency.
type Assigner struct {
	table  *Table
	hasher Hasher
	next   int
}

// NewAssigner starts an empty discovery pass for mode. hasher is only used in
// hash mode.
func NewAssigner(mode Mode, hasher Hasher) *Assigner {
	return &Assigner{table: newTable(mode), hasher: hasher, next: 1}
}

// Observe records the tokens of one field in order.
func (a *Assigner) Observe(tokens []string) {
	for _, token := range tokens {
		a.table.observe(token, func() Value { return a.provisional(token) })
	}
}

// Table returns a snapshot of everything observed so far.
func (a *Assigner) Table() *Table {
	return a.table.Clone()
}

func (a *Assigner) provisional(token string) Value {
	if a.table.mode == ModeHash {
		return Digest(a.hasher.Sum(token))
	}
	n := a.next
	a.next++
	return Number(n)
}

// Assign runs a complete discovery pass over fields in order.
func Assign(fields [][]string, mode Mode, hasher Hasher) *Table {
	a := NewAssigner(mode, hasher)
	for _, tokens := range fields {
		a.Observe(tokens)
	}
	return a.table
}
