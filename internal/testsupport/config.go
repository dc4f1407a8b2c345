package testsupport

import (
	"path/filepath"
	"testing"

	"obscuritext/internal/config"
)

// ConfigOption allows callers to customize the generated test configuration.
type ConfigOption func(*configBuilder)

type configBuilder struct {
	t   testing.TB
	cfg *config.Config
}

// NewConfig produces a config seeded with unique temp directories per test.
// Input is expected at <base>/input.csv and outputs land under <base>/out.
func NewConfig(t testing.TB, opts ...ConfigOption) *config.Config {
	t.Helper()

	base := t.TempDir()
	cfgVal := config.Default()
	cfgVal.Data.File = filepath.Join(base, "input.csv")
	cfgVal.Data.Columns = []string{"text"}
	cfgVal.Data.OutputBase = "test"
	cfgVal.Data.OutputDir = filepath.Join(base, "out")
	cfgVal.Data.InputEncoding = "utf-8"
	cfgVal.Export.ArchivePath = filepath.Join(base, "archive.db")

	builder := &configBuilder{
		t:   t,
		cfg: &cfgVal,
	}

	for _, opt := range opts {
		opt(builder)
	}

	return builder.cfg
}

// WithInput writes a CSV input file and points the config at it.
func WithInput(header []string, rows ...[]string) ConfigOption {
	return func(b *configBuilder) {
		WriteCSV(b.t, b.cfg.Data.File, header, rows...)
	}
}

// WithColumns overrides the text columns to obscure.
func WithColumns(columns ...string) ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Data.Columns = columns
	}
}

// WithHash switches the config to hash mode with the given salt and length.
func WithHash(salt string, length int) ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Processing.Mode = "hash"
		b.cfg.Processing.Salt = salt
		b.cfg.Processing.ConcatHashes = length
	}
}

// WithArchive enables the run archive.
func WithArchive() ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Export.Archive = true
	}
}
