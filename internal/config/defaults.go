package config

const (
	defaultConfigPath     = "~/.config/obscuritext/config.toml"
	projectConfigName     = "obscuritext.toml"
	defaultOutputBase     = "obscured"
	defaultOutputDir      = "."
	defaultDelimiter      = ","
	defaultInputEncoding  = "iso-8859-1"
	defaultOutputEncoding = "utf-8"
	defaultMode           = "shuffle"
	defaultStemLanguage   = "english"
	defaultMappingOrder   = "discovery"
	defaultArchivePath    = "~/.local/share/obscuritext/archive.db"
	defaultLogFormat      = "console"
	defaultLogLevel       = "info"
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Data: Data{
			OutputBase:     defaultOutputBase,
			OutputDir:      defaultOutputDir,
			Delimiter:      defaultDelimiter,
			InputEncoding:  defaultInputEncoding,
			OutputEncoding: defaultOutputEncoding,
		},
		Processing: Processing{
			Mode:              defaultMode,
			CaseSensitive:     "no",
			Stemming:          "no",
			StemLanguage:      defaultStemLanguage,
			RemovePunctuation: "yes",
			CombineAbove:      "none",
			CombineBelow:      "none",
		},
		Export: Export{
			MappingOrder: defaultMappingOrder,
			ArchivePath:  defaultArchivePath,
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
	}
}
