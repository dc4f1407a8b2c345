// Package mapping exports the artifacts needed to reproduce an encoding.
//
// Three artifacts exist. The mapping table is a CSV of
// (Original_Word, Surrogate, Count) rows. The bucket manifest is a small TOML
// document listing the three stop-word sets as whitespace-joined words; it is
// fed back through the replay configuration to encode new data exactly like a
// previous run. The archive is an optional SQLite database that keeps every
// run's mapping and buckets under its run id.
package mapping
