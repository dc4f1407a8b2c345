package dataset

import (
	"errors"
	"fmt"
	"slices"
	"strconv"
	"strings"
)

// ErrUnknownColumn indicates a column name absent from the header.
var ErrUnknownColumn = errors.New("unknown column")

// ErrIndexColumn indicates an attempt to tokenize the held-out index column.
var ErrIndexColumn = errors.New("column is the index column")

// Kind is the inferred type of a column.
type Kind int

const (
	KindText Kind = iota
	KindInteger
	KindFloat
)

func (k Kind) String() string {
	switch k {
	case KindInteger:
		return "integer"
	case KindFloat:
		return "float"
	default:
		return "text"
	}
}

// Frame is an in-memory table of records under a header.
type Frame struct {
	header []string
	rows   [][]string
	kinds  []Kind
	index  int
}

// NewFrame builds a frame from a header and records. Short records are padded
// with empty cells. indexColumn is the position held out of tokenization, or
// -1 for none.
func NewFrame(header []string, rows [][]string, indexColumn int) (*Frame, error) {
	if len(header) == 0 {
		return nil, errors.New("dataset has no header")
	}
	if indexColumn >= len(header) {
		return nil, fmt.Errorf("index column %d out of range (%d columns)", indexColumn, len(header))
	}
	if indexColumn < 0 {
		indexColumn = -1
	}
	f := &Frame{
		header: slices.Clone(header),
		rows:   make([][]string, len(rows)),
		index:  indexColumn,
	}
	for i, row := range rows {
		if len(row) > len(header) {
			return nil, fmt.Errorf("record %d has %d fields, header has %d", i+1, len(row), len(header))
		}
		padded := make([]string, len(header))
		copy(padded, row)
		f.rows[i] = padded
	}
	f.kinds = inferKinds(f.header, f.rows)
	return f, nil
}

// Header returns the column names.
func (f *Frame) Header() []string { return slices.Clone(f.header) }

// Len returns the number of records.
func (f *Frame) Len() int { return len(f.rows) }

// IndexColumn returns the held-out column name, or "" when none is set.
func (f *Frame) IndexColumn() string {
	if f.index < 0 {
		return ""
	}
	return f.header[f.index]
}

// Kind returns the inferred kind of column name.
func (f *Frame) Kind(name string) (Kind, error) {
	i, err := f.position(name)
	if err != nil {
		return KindText, err
	}
	return f.kinds[i], nil
}

// Values returns the typed cells of a column in record order. Empty cells
// are nil.
func (f *Frame) Values(name string) ([]any, error) {
	i, err := f.position(name)
	if err != nil {
		return nil, err
	}
	if i == f.index {
		return nil, fmt.Errorf("%w: %q", ErrIndexColumn, name)
	}
	out := make([]any, len(f.rows))
	for r, row := range f.rows {
		out[r] = typedCell(row[i], f.kinds[i])
	}
	return out, nil
}

// AddColumn appends a text column. values must have one entry per record.
func (f *Frame) AddColumn(name string, values []string) error {
	if len(values) != len(f.rows) {
		return fmt.Errorf("column %q has %d values, dataset has %d records", name, len(values), len(f.rows))
	}
	if slices.Contains(f.header, name) {
		return fmt.Errorf("column %q already exists", name)
	}
	f.header = append(f.header, name)
	f.kinds = append(f.kinds, KindText)
	for r := range f.rows {
		f.rows[r] = append(f.rows[r], values[r])
	}
	return nil
}

// DropColumn removes a column.
func (f *Frame) DropColumn(name string) error {
	i, err := f.position(name)
	if err != nil {
		return err
	}
	if i == f.index {
		return fmt.Errorf("%w: %q", ErrIndexColumn, name)
	}
	f.header = slices.Delete(f.header, i, i+1)
	f.kinds = slices.Delete(f.kinds, i, i+1)
	for r := range f.rows {
		f.rows[r] = slices.Delete(f.rows[r], i, i+1)
	}
	if f.index > i {
		f.index--
	}
	return nil
}

// Clone returns an independent copy, so each sweep run can add and drop
// columns without affecting the others.
func (f *Frame) Clone() *Frame {
	clone := &Frame{
		header: slices.Clone(f.header),
		kinds:  slices.Clone(f.kinds),
		rows:   make([][]string, len(f.rows)),
		index:  f.index,
	}
	for r, row := range f.rows {
		clone.rows[r] = slices.Clone(row)
	}
	return clone
}

func (f *Frame) position(name string) (int, error) {
	i := slices.Index(f.header, name)
	if i < 0 {
		return -1, fmt.Errorf("%w: %q (have %s)", ErrUnknownColumn, name, strings.Join(f.header, ", "))
	}
	return i, nil
}

func inferKinds(header []string, rows [][]string) []Kind {
	kinds := make([]Kind, len(header))
	for c := range header {
		kinds[c] = inferKind(rows, c)
	}
	return kinds
}

func inferKind(rows [][]string, c int) Kind {
	kind := KindInteger
	seen := false
	for _, row := range rows {
		cell := strings.TrimSpace(row[c])
		if cell == "" {
			continue
		}
		seen = true
		if kind == KindInteger {
			if _, err := strconv.ParseInt(cell, 10, 64); err == nil {
				continue
			}
			kind = KindFloat
		}
		if _, err := strconv.ParseFloat(cell, 64); err != nil {
			return KindText
		}
	}
	if !seen {
		return KindText
	}
	return kind
}

func typedCell(cell string, kind Kind) any {
	if cell == "" {
		return nil
	}
	switch kind {
	case KindInteger:
		n, err := strconv.ParseInt(strings.TrimSpace(cell), 10, 64)
		if err == nil {
			return n
		}
	case KindFloat:
		v, err := strconv.ParseFloat(strings.TrimSpace(cell), 64)
		if err == nil {
			return v
		}
	}
	return cell
}
