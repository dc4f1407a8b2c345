package config

import (
	"errors"
	"fmt"
	"strings"

	"obscuritext/internal/dataset"
	"obscuritext/internal/language"
	"obscuritext/internal/mapping"
	"obscuritext/internal/surrogate"
)

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validateData(); err != nil {
		return err
	}
	if err := c.validateProcessing(); err != nil {
		return err
	}
	if err := c.validateReplay(); err != nil {
		return err
	}
	if err := c.validateExport(); err != nil {
		return err
	}
	return c.validateLogging()
}

func (c *Config) validateData() error {
	if _, err := dataset.ParseDelimiter(c.Data.Delimiter); err != nil {
		return fmt.Errorf("data.delimiter: %w", err)
	}
	if _, err := dataset.LookupEncoding(c.Data.InputEncoding); err != nil {
		return fmt.Errorf("data.input_encoding: %w", err)
	}
	if _, err := dataset.LookupEncoding(c.Data.OutputEncoding); err != nil {
		return fmt.Errorf("data.output_encoding: %w", err)
	}
	if c.Data.IndexColumn != nil && *c.Data.IndexColumn < 0 {
		return errors.New("data.index_column must be zero or positive")
	}
	seen := make(map[string]struct{}, len(c.Data.Columns))
	for _, column := range c.Data.Columns {
		if _, ok := seen[column]; ok {
			return fmt.Errorf("data.columns lists %q twice", column)
		}
		seen[column] = struct{}{}
	}
	return nil
}

func (c *Config) validateProcessing() error {
	if _, err := c.Mode(); err != nil {
		return fmt.Errorf("processing.mode: %w", err)
	}
	if c.Processing.ConcatHashes < 0 {
		return errors.New("processing.concat_hashes must be zero (full digest) or positive")
	}
	if ParseToggle(c.Processing.Stemming).Includes(true) {
		if _, ok := language.StemmerName(c.Processing.StemLanguage); !ok {
			return fmt.Errorf("processing.stem_language: no stemmer for %q (supported: %s)",
				c.Processing.StemLanguage, strings.Join(language.Stemmable(), ", "))
		}
	}
	if _, err := c.CombineAbove(); err != nil {
		return err
	}
	if _, err := c.CombineBelow(); err != nil {
		return err
	}
	return nil
}

func (c *Config) validateReplay() error {
	if !c.ReplayConfigured() {
		return nil
	}
	mode, _ := c.Mode()
	if mode != surrogate.ModeHash {
		return fmt.Errorf("replay: %w", surrogate.ErrReplayRequiresHash)
	}
	above, _ := c.CombineAbove()
	below, _ := c.CombineBelow()
	inline := c.InlineReplay()
	forced := strings.TrimSpace(c.Replay.Manifest) != "" || len(inline.StopAbove) > 0 || len(inline.StopBelow) > 0
	if forced && (above.Active() || below.Active()) {
		return fmt.Errorf("replay: %w", surrogate.ErrReplayWithThresholds)
	}
	if err := inline.Validate(); err != nil {
		return fmt.Errorf("replay: %w", err)
	}
	return nil
}

func (c *Config) validateExport() error {
	if _, err := mapping.ParseOrder(c.Export.MappingOrder); err != nil {
		return fmt.Errorf("export.mapping_order: %w", err)
	}
	if c.Export.Archive && strings.TrimSpace(c.Export.ArchivePath) == "" {
		return errors.New("export.archive_path must be set when export.archive is true")
	}
	return nil
}

func (c *Config) validateLogging() error {
	switch c.Logging.Level {
	case "debug", "info", "warn", "warning", "error":
		return nil
	default:
		return fmt.Errorf("logging.level %q is not one of debug, info, warn, error", c.Logging.Level)
	}
}
