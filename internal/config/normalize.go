package config

import (
	"fmt"
	"strings"
)

func (c *Config) normalize() error {
	if err := c.normalizeData(); err != nil {
		return err
	}
	c.normalizeProcessing()
	if err := c.normalizeReplay(); err != nil {
		return err
	}
	if err := c.normalizeExport(); err != nil {
		return err
	}
	return c.normalizeLogging()
}

func (c *Config) normalizeData() error {
	var err error
	c.Data.File = strings.TrimSpace(c.Data.File)
	if c.Data.File, err = expandPath(c.Data.File); err != nil {
		return fmt.Errorf("data.file: %w", err)
	}
	if strings.TrimSpace(c.Data.OutputDir) == "" {
		c.Data.OutputDir = defaultOutputDir
	}
	if c.Data.OutputDir, err = expandPath(strings.TrimSpace(c.Data.OutputDir)); err != nil {
		return fmt.Errorf("data.output_dir: %w", err)
	}
	c.Data.Columns = cleanColumns(c.Data.Columns)
	c.Data.OutputBase = strings.TrimSpace(c.Data.OutputBase)
	if c.Data.OutputBase == "" {
		c.Data.OutputBase = defaultOutputBase
	}
	if c.Data.Delimiter == "" {
		c.Data.Delimiter = defaultDelimiter
	}
	c.Data.InputEncoding = strings.ToLower(strings.TrimSpace(c.Data.InputEncoding))
	if c.Data.InputEncoding == "" {
		c.Data.InputEncoding = defaultInputEncoding
	}
	c.Data.OutputEncoding = strings.ToLower(strings.TrimSpace(c.Data.OutputEncoding))
	if c.Data.OutputEncoding == "" {
		c.Data.OutputEncoding = defaultOutputEncoding
	}
	return nil
}

func (c *Config) normalizeProcessing() {
	c.Processing.Mode = strings.ToLower(strings.TrimSpace(c.Processing.Mode))
	if c.Processing.Mode == "" {
		c.Processing.Mode = defaultMode
	}
	c.Processing.StemLanguage = strings.TrimSpace(c.Processing.StemLanguage)
	if c.Processing.StemLanguage == "" {
		c.Processing.StemLanguage = defaultStemLanguage
	}
}

func (c *Config) normalizeReplay() error {
	var err error
	if c.Replay.Manifest, err = expandPath(strings.TrimSpace(c.Replay.Manifest)); err != nil {
		return fmt.Errorf("replay.manifest: %w", err)
	}
	return nil
}

func (c *Config) normalizeExport() error {
	c.Export.MappingOrder = strings.ToLower(strings.TrimSpace(c.Export.MappingOrder))
	if c.Export.MappingOrder == "" {
		c.Export.MappingOrder = defaultMappingOrder
	}
	if strings.TrimSpace(c.Export.ArchivePath) == "" {
		c.Export.ArchivePath = defaultArchivePath
	}
	var err error
	if c.Export.ArchivePath, err = expandPath(strings.TrimSpace(c.Export.ArchivePath)); err != nil {
		return fmt.Errorf("export.archive_path: %w", err)
	}
	return nil
}

func (c *Config) normalizeLogging() error {
	c.Logging.Format = strings.ToLower(strings.TrimSpace(c.Logging.Format))
	switch c.Logging.Format {
	case "", "console":
		c.Logging.Format = "console"
	case "json":
	default:
		c.Logging.Format = "console"
	}
	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
	if c.Logging.Level == "" {
		c.Logging.Level = defaultLogLevel
	}
	var err error
	if c.Logging.Dir, err = expandPath(strings.TrimSpace(c.Logging.Dir)); err != nil {
		return fmt.Errorf("logging.dir: %w", err)
	}
	return nil
}

func cleanColumns(columns []string) []string {
	out := make([]string, 0, len(columns))
	for _, column := range columns {
		if trimmed := strings.TrimSpace(column); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}
