// Package config loads, normalizes, and validates obscuritext configuration.
//
// It supplies defaults, expands user paths (including tilde shortcuts), reads
// TOML files, and parses the loosely typed processing knobs: yes/no/both
// toggles and none/ask/integer thresholds. Sweep expands the toggles into the
// ordered list of runs a single invocation performs.
//
// Always obtain settings through this package so downstream code receives
// cleaned paths, canonical log formats, and clear validation errors.
package config
