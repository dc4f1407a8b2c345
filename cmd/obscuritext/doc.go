// Package main hosts the obscuritext CLI entrypoint and command graph.
//
// The Cobra command tree loads configuration once, runs the de-identification
// sweep through internal/pipeline, resolves "ask" thresholds interactively,
// and exposes read-only views over mapping files and the run archive.
//
// Keep this package lean: new behavior belongs in the internal packages and
// is surfaced here through dedicated commands or flags.
package main
