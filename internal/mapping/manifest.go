package mapping

import (
	"fmt"
	"io"
	"os"

	"github.com/pelletier/go-toml/v2"

	"obscuritext/internal/surrogate"
)

// Manifest is the on-disk form of a run's bucket membership.
type Manifest struct {
	StopWords      string `toml:"stop_words"`
	StopAboveWords string `toml:"stop_above_words"`
	StopBelowWords string `toml:"stop_below_words"`
}

// NewManifest renders each set as sorted, space-joined words.
func NewManifest(b surrogate.BucketSet) Manifest {
	return Manifest{
		StopWords:      b.StopWords.Join(),
		StopAboveWords: b.StopAbove.Join(),
		StopBelowWords: b.StopBelow.Join(),
	}
}

// BucketSet parses the word lists back into sets.
func (m Manifest) BucketSet() surrogate.BucketSet {
	return surrogate.BucketSet{
		StopWords: surrogate.ParseWordSet(m.StopWords),
		StopAbove: surrogate.ParseWordSet(m.StopAboveWords),
		StopBelow: surrogate.ParseWordSet(m.StopBelowWords),
	}
}

// WriteManifest encodes m as TOML.
func WriteManifest(w io.Writer, m Manifest) error {
	if _, err := io.WriteString(w, "# Replay these sets to encode new data like this run.\n"); err != nil {
		return err
	}
	if err := toml.NewEncoder(w).Encode(m); err != nil {
		return fmt.Errorf("encode manifest: %w", err)
	}
	return nil
}

// LoadManifest reads a manifest file.
func LoadManifest(path string) (Manifest, error) {
	file, err := os.Open(path)
	if err != nil {
		return Manifest{}, fmt.Errorf("open manifest: %w", err)
	}
	defer file.Close()

	var m Manifest
	decoder := toml.NewDecoder(file)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(&m); err != nil {
		return Manifest{}, fmt.Errorf("parse manifest %s: %w", path, err)
	}
	return m, nil
}
