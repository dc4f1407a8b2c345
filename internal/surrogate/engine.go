package surrogate

import "fmt"

// Options is the fully resolved configuration of one encoding run.
type Options struct {
	Mode Mode
	// Seed drives the shuffle permutation.
	Seed int64
	// Salt is appended to every token before hashing.
	Salt string
	// HashLength truncates digests; zero keeps the full digest.
	HashLength int
	Top        Threshold
	Bottom     Threshold
	Replay     BucketSet
}

// Hasher returns the hasher implied by the options.
func (o Options) Hasher() Hasher {
	return NewHasher(o.Salt, o.HashLength)
}

// Result is the outcome of a complete run.
type Result struct {
	Table   *Table
	Buckets BucketSet
	Output  []string
}

// Discover runs pass 1 and the surrogate transform. The returned snapshot
// carries final individual surrogates but no bucketing.
func Discover(fields [][]string, opts Options) (*Table, error) {
	table := Assign(fields, opts.Mode, opts.Hasher())
	if opts.Mode != ModeShuffle {
		return table, nil
	}
	shuffled, err := Shuffle(table, opts.Seed)
	if err != nil {
		return nil, fmt.Errorf("shuffle surrogates: %w", err)
	}
	return shuffled, nil
}

// Finalize applies bucketing to a discovery snapshot.
func Finalize(t *Table, opts Options) (*Table, BucketSet, error) {
	final, buckets, err := Bucket(t, BucketOptions{
		Top:      opts.Top,
		Bottom:   opts.Bottom,
		Replay:   opts.Replay,
		Reserved: opts.Hasher().Reserved(),
	})
	if err != nil {
		return nil, BucketSet{}, fmt.Errorf("bucket surrogates: %w", err)
	}
	return final, buckets, nil
}

// Encode runs discovery, bucketing, and replacement over fields.
func Encode(fields [][]string, opts Options) (*Result, error) {
	discovered, err := Discover(fields, opts)
	if err != nil {
		return nil, err
	}
	final, buckets, err := Finalize(discovered, opts)
	if err != nil {
		return nil, err
	}
	output, err := NewReplacer(final).ReplaceAll(fields)
	if err != nil {
		return nil, err
	}
	return &Result{Table: final, Buckets: buckets, Output: output}, nil
}
