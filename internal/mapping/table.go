package mapping

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"slices"
	"strconv"
	"strings"

	"obscuritext/internal/surrogate"
)

// Header is the mapping CSV header.
var Header = []string{"Original_Word", "Surrogate", "Count"}

// Order selects the row order of an exported mapping.
type Order int

const (
	// OrderDiscovery keeps first-seen order.
	OrderDiscovery Order = iota
	// OrderFrequency sorts by descending count, ties in discovery order.
	OrderFrequency
)

// ParseOrder converts a configuration value into an Order.
func ParseOrder(value string) (Order, error) {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "", "discovery":
		return OrderDiscovery, nil
	case "frequency", "count":
		return OrderFrequency, nil
	default:
		return OrderDiscovery, fmt.Errorf("invalid mapping order %q (want discovery or frequency)", value)
	}
}

func (o Order) String() string {
	if o == OrderFrequency {
		return "frequency"
	}
	return "discovery"
}

// Row is one exported mapping line.
type Row struct {
	Word      string
	Surrogate string
	Count     int
}

// Rows materializes the table in the requested order.
func Rows(t *surrogate.Table, order Order) []Row {
	entries := t.Entries()
	if order == OrderFrequency {
		slices.SortStableFunc(entries, func(a, b surrogate.Entry) int {
			return b.Frequency - a.Frequency
		})
	}
	rows := make([]Row, len(entries))
	for i, e := range entries {
		rows[i] = Row{Word: e.Token, Surrogate: e.Surrogate.String(), Count: e.Frequency}
	}
	return rows
}

// WriteCSV writes the header and rows.
func WriteCSV(w io.Writer, rows []Row) error {
	writer := csv.NewWriter(w)
	if err := writer.Write(Header); err != nil {
		return fmt.Errorf("write mapping header: %w", err)
	}
	for _, row := range rows {
		if err := writer.Write([]string{row.Word, row.Surrogate, strconv.Itoa(row.Count)}); err != nil {
			return fmt.Errorf("write mapping row: %w", err)
		}
	}
	writer.Flush()
	return writer.Error()
}

// ReadCSV parses a mapping file written by WriteCSV.
func ReadCSV(r io.Reader) ([]Row, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = len(Header)
	header, err := reader.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, errors.New("mapping file is empty")
		}
		return nil, fmt.Errorf("read mapping header: %w", err)
	}
	if !slices.Equal(header, Header) {
		return nil, fmt.Errorf("unexpected mapping header %q", strings.Join(header, ","))
	}
	var rows []Row
	for {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read mapping row: %w", err)
		}
		count, err := strconv.Atoi(record[2])
		if err != nil {
			return nil, fmt.Errorf("mapping row %q: invalid count %q", record[0], record[2])
		}
		rows = append(rows, Row{Word: record[0], Surrogate: record[1], Count: count})
	}
	return rows, nil
}
