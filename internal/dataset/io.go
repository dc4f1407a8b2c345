package dataset

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"unicode/utf8"

	"golang.org/x/text/encoding"
	"golang.org/x/text/transform"
)

// ReadOptions controls how a delimited file is decoded.
type ReadOptions struct {
	// Delimiter separates fields. Zero means comma.
	Delimiter rune
	// Encoding decodes the input bytes. Nil means UTF-8.
	Encoding encoding.Encoding
	// IndexColumn is the zero-based position held out of tokenization, or -1.
	IndexColumn int
}

// WriteOptions controls how a frame is encoded.
type WriteOptions struct {
	Delimiter rune
	Encoding  encoding.Encoding
}

// Read decodes a header row followed by records.
func Read(r io.Reader, opts ReadOptions) (*Frame, error) {
	if opts.Encoding != nil {
		r = transform.NewReader(r, opts.Encoding.NewDecoder())
	}
	reader := csv.NewReader(r)
	reader.Comma = delimiterOrComma(opts.Delimiter)
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, errors.New("dataset is empty")
		}
		return nil, fmt.Errorf("read header: %w", err)
	}
	rows, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("read records: %w", err)
	}
	return NewFrame(header, rows, opts.IndexColumn)
}

// ReadFile opens and decodes path.
func ReadFile(path string, opts ReadOptions) (*Frame, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open dataset: %w", err)
	}
	defer file.Close()

	frame, err := Read(file, opts)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return frame, nil
}

// Write encodes the header and every record.
func (f *Frame) Write(w io.Writer, opts WriteOptions) error {
	var encoder *transform.Writer
	if opts.Encoding != nil {
		encoder = transform.NewWriter(w, encoding.ReplaceUnsupported(opts.Encoding.NewEncoder()))
		w = encoder
	}
	writer := csv.NewWriter(w)
	writer.Comma = delimiterOrComma(opts.Delimiter)

	if err := writer.Write(f.header); err != nil {
		return fmt.Errorf("write header: %w", err)
	}
	if err := writer.WriteAll(f.rows); err != nil {
		return fmt.Errorf("write records: %w", err)
	}
	if encoder != nil {
		if err := encoder.Close(); err != nil {
			return fmt.Errorf("flush encoder: %w", err)
		}
	}
	return nil
}

// ParseDelimiter accepts a single character, or "\t"/"tab" for tabs.
func ParseDelimiter(value string) (rune, error) {
	switch value {
	case "":
		return ',', nil
	case `\t`, "tab", "TAB":
		return '\t', nil
	}
	r, size := utf8.DecodeRuneInString(value)
	if size != len(value) || r == utf8.RuneError || r == '"' || r == '\r' || r == '\n' {
		return 0, fmt.Errorf("invalid delimiter %q", value)
	}
	return r, nil
}

func delimiterOrComma(r rune) rune {
	if r == 0 {
		return ','
	}
	return r
}
