package config

import (
	_ "embed"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"

	"obscuritext/internal/fileutil"
)

//go:embed sample_config.toml
var sampleConfig string

// Data describes the input file and where the transformed copies go.
type Data struct {
	File           string   `toml:"file"`
	Columns        []string `toml:"columns"`
	OutputBase     string   `toml:"output_base"`
	OutputDir      string   `toml:"output_dir"`
	DeleteColumn   bool     `toml:"delete_column"`
	IndexColumn    *int     `toml:"index_column"`
	Delimiter      string   `toml:"delimiter"`
	InputEncoding  string   `toml:"input_encoding"`
	OutputEncoding string   `toml:"output_encoding"`
}

// Processing holds the tokenizer and surrogate options. The toggle and
// threshold fields accept several TOML types and are parsed on demand.
type Processing struct {
	Mode              string `toml:"mode"`
	CaseSensitive     any    `toml:"case_sensitive"`
	Stemming          any    `toml:"stemming"`
	StemLanguage      string `toml:"stem_language"`
	RemovePunctuation any    `toml:"remove_punctuation"`
	Seed              int64  `toml:"seed"`
	Salt              string `toml:"salt"`
	ConcatHashes      int    `toml:"concat_hashes"`
	CombineAbove      any    `toml:"combine_above"`
	CombineBelow      any    `toml:"combine_below"`
}

// Replay carries bucket membership from an earlier hash-mode run.
type Replay struct {
	Manifest       string `toml:"manifest"`
	StopWords      string `toml:"stop_words"`
	StopAboveWords string `toml:"stop_above_words"`
	StopBelowWords string `toml:"stop_below_words"`
}

// Export controls mapping output and the run archive.
type Export struct {
	MappingOrder string `toml:"mapping_order"`
	Archive      bool   `toml:"archive"`
	ArchivePath  string `toml:"archive_path"`
}

// Logging contains configuration for log output.
type Logging struct {
	Format string `toml:"format"`
	Level  string `toml:"level"`
	Dir    string `toml:"dir"`
}

// Config encapsulates all configuration values for obscuritext.
type Config struct {
	Data       Data       `toml:"data"`
	Processing Processing `toml:"processing"`
	Replay     Replay     `toml:"replay"`
	Export     Export     `toml:"export"`
	Logging    Logging    `toml:"logging"`
}

// DefaultConfigPath returns the absolute path to the default configuration file location.
func DefaultConfigPath() (string, error) {
	return expandPath(defaultConfigPath)
}

// Load locates, parses, and validates a configuration file. The returned config has all
// path fields expanded and normalized.
func Load(path string) (*Config, string, bool, error) {
	cfg := Default()

	resolvedPath, exists, err := resolveConfigPath(path)
	if err != nil {
		return nil, "", false, err
	}

	if exists {
		file, err := os.Open(resolvedPath)
		if err != nil {
			return nil, "", false, fmt.Errorf("open config: %w", err)
		}
		defer file.Close()

		decoder := toml.NewDecoder(file)
		decoder.DisallowUnknownFields()
		if err := decoder.Decode(&cfg); err != nil {
			return nil, "", false, fmt.Errorf("parse config: %w", err)
		}
	}

	if err := cfg.normalize(); err != nil {
		return nil, "", false, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, "", false, err
	}

	return &cfg, resolvedPath, exists, nil
}

func resolveConfigPath(path string) (string, bool, error) {
	if path != "" {
		expanded, err := expandPath(path)
		if err != nil {
			return "", false, err
		}
		_, err = os.Stat(expanded)
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return expanded, false, nil
			}
			return "", false, fmt.Errorf("stat config: %w", err)
		}
		return expanded, true, nil
	}

	defaultPath, err := expandPath(defaultConfigPath)
	if err != nil {
		return "", false, err
	}

	projectPath, err := filepath.Abs(projectConfigName)
	if err != nil {
		return "", false, err
	}

	if info, err := os.Stat(defaultPath); err == nil && !info.IsDir() {
		return defaultPath, true, nil
	}
	if info, err := os.Stat(projectPath); err == nil && !info.IsDir() {
		return projectPath, true, nil
	}

	return defaultPath, false, nil
}

func expandPath(pathValue string) (string, error) {
	if pathValue == "" {
		return pathValue, nil
	}
	if strings.HasPrefix(pathValue, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home directory: %w", err)
		}
		if pathValue == "~" {
			pathValue = home
		} else if len(pathValue) > 1 && (pathValue[1] == '/' || pathValue[1] == '\\') {
			pathValue = filepath.Join(home, pathValue[2:])
		}
	}
	cleaned := filepath.Clean(pathValue)
	absolute, err := filepath.Abs(cleaned)
	if err != nil {
		return "", fmt.Errorf("resolve absolute path for %q: %w", cleaned, err)
	}
	return absolute, nil
}

// ExpandPath exposes the repository path expansion rules for other packages.
func ExpandPath(pathValue string) (string, error) {
	return expandPath(pathValue)
}

// CreateSample writes a sample configuration file to the specified location.
func CreateSample(path string) error {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create config directory: %w", err)
		}
	}

	err := fileutil.WriteFileAtomic(path, func(w io.Writer) error {
		_, err := io.WriteString(w, sampleConfig)
		return err
	})
	if err != nil {
		return fmt.Errorf("write sample config: %w", err)
	}
	return nil
}
