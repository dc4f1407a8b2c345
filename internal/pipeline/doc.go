// Package pipeline drives obscuritext runs end to end.
//
// A Runner reads the configured dataset once, then for every combination of
// the swept tokenizer flags tokenizes the selected columns, builds and
// transforms the surrogate table, resolves deferred thresholds, buckets,
// replaces, and exports the dataset, mapping, and manifest files. Every run
// starts from a fresh table and a fresh copy of the input.
package pipeline
