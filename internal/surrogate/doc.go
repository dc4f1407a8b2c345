// Package surrogate implements the word-surrogate mapping engine.
//
// A run is an explicit two-phase protocol. Discovery (Assign, then Shuffle in
// shuffle mode) walks every tokenized field once and produces a Table holding
// one Entry per distinct token in discovery order. Bucketing (Bucket) takes
// that snapshot and returns a new one in which outlier tokens share reserved
// surrogates. Replacement (Replacer) only ever reads the final snapshot.
//
// Tables are values passed between phases: every mutating step returns a new
// Table and leaves its input untouched, so a discovery snapshot can be bucketed
// several times with different thresholds.
//
// Two surrogate modes exist. Shuffle assigns the integers 1..N in discovery
// order and permutes them with a seeded generator. Hash assigns
// base64url(SHA1(token + salt)) without padding, optionally truncated.
//
// Nothing in this package is safe for concurrent mutation; independent runs
// should each build their own Table.
package surrogate
