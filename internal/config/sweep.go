package config

import (
	"strings"

	"obscuritext/internal/surrogate"
)

// RunOptions is one combination of the swept tokenizer flags.
type RunOptions struct {
	CaseSensitive     bool
	Stemming          bool
	RemovePunctuation bool
}

// Sweep expands the three toggles into runs, nesting case sensitivity
// outermost and punctuation innermost.
func (c *Config) Sweep() []RunOptions {
	var runs []RunOptions
	for _, caseSensitive := range ParseToggle(c.Processing.CaseSensitive).Values() {
		for _, stem := range ParseToggle(c.Processing.Stemming).Values() {
			for _, punct := range ParseToggle(c.Processing.RemovePunctuation).Values() {
				runs = append(runs, RunOptions{
					CaseSensitive:     caseSensitive,
					Stemming:          stem,
					RemovePunctuation: punct,
				})
			}
		}
	}
	return runs
}

// Mode parses processing.mode.
func (c *Config) Mode() (surrogate.Mode, error) {
	return surrogate.ParseMode(c.Processing.Mode)
}

// InlineReplay returns the replay sets written directly in the config file.
func (c *Config) InlineReplay() surrogate.BucketSet {
	return surrogate.BucketSet{
		StopWords: surrogate.ParseWordSet(c.Replay.StopWords),
		StopAbove: surrogate.ParseWordSet(c.Replay.StopAboveWords),
		StopBelow: surrogate.ParseWordSet(c.Replay.StopBelowWords),
	}
}

// ReplayConfigured reports whether any replay source is set.
func (c *Config) ReplayConfigured() bool {
	return strings.TrimSpace(c.Replay.Manifest) != "" || !c.InlineReplay().Empty()
}
