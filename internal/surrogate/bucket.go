package surrogate

import "fmt"

// BucketOptions configures one bucketing step.
type BucketOptions struct {
	// Top selects entries with frequency strictly above its value.
	Top Threshold
	// Bottom selects entries with frequency strictly below its value.
	Bottom Threshold
	// Replay forces membership regardless of frequency. Hash mode only.
	Replay BucketSet
	// Reserved supplies the shared hash-mode surrogates.
	Reserved Reserved
}

// Bucket collapses outlier tokens onto shared surrogates and returns the new
// snapshot together with the effective bucket membership.
//
// Membership precedence is stop-above, then stop-below, then stop-words, then
// the token's own surrogate. In shuffle mode each side takes the surrogate of
// its first selected entry in discovery order; in hash mode each side takes
// the reserved digest. A side with nothing selected leaves the table as is.
func Bucket(t *Table, opts BucketOptions) (*Table, BucketSet, error) {
	if err := opts.Replay.Validate(); err != nil {
		return nil, BucketSet{}, err
	}
	if !opts.Replay.Empty() && t.mode != ModeHash {
		return nil, BucketSet{}, ErrReplayRequiresHash
	}
	if (len(opts.Replay.StopAbove) > 0 || len(opts.Replay.StopBelow) > 0) &&
		(opts.Top.Enabled() || opts.Bottom.Enabled()) {
		return nil, BucketSet{}, ErrReplayWithThresholds
	}

	above, below := selectOutliers(t, opts.Top, opts.Bottom)

	switch t.mode {
	case ModeShuffle:
		return bucketShuffle(t, above, below)
	case ModeHash:
		return bucketHash(t, above, below, opts)
	default:
		return nil, BucketSet{}, fmt.Errorf("bucket %s table: %w", t.mode, ErrModeMismatch)
	}
}

// selectOutliers returns arena positions in discovery order. An entry chosen
// by top is never chosen by bottom.
func selectOutliers(t *Table, top, bottom Threshold) (above, below []int) {
	for i, e := range t.entries {
		switch {
		case top.above(e.Frequency):
			above = append(above, i)
		case bottom.below(e.Frequency):
			below = append(below, i)
		}
	}
	return above, below
}

func bucketShuffle(t *Table, above, below []int) (*Table, BucketSet, error) {
	result := BucketSet{StopAbove: WordSet{}, StopBelow: WordSet{}}
	updates := make(map[string]Value, len(above)+len(below))

	collapse := func(rows []int, members WordSet) {
		if len(rows) == 0 {
			return
		}
		representative := t.entries[rows[0]].Surrogate
		for _, i := range rows {
			token := t.entries[i].Token
			updates[token] = representative
			members.add(token)
		}
	}
	collapse(above, result.StopAbove)
	collapse(below, result.StopBelow)

	next, err := t.Reassign(updates)
	if err != nil {
		return nil, BucketSet{}, err
	}
	return next, result, nil
}

func bucketHash(t *Table, above, below []int, opts BucketOptions) (*Table, BucketSet, error) {
	result := BucketSet{
		StopWords: WordSet{},
		StopAbove: NewWordSet(opts.Replay.StopAbove.Sorted()...),
		StopBelow: WordSet{},
	}
	for _, i := range above {
		result.StopAbove.add(t.entries[i].Token)
	}
	for w := range opts.Replay.StopBelow {
		if !result.StopAbove.Has(w) {
			result.StopBelow.add(w)
		}
	}
	for _, i := range below {
		result.StopBelow.add(t.entries[i].Token)
	}
	for w := range opts.Replay.StopWords {
		if !result.StopAbove.Has(w) && !result.StopBelow.Has(w) {
			result.StopWords.add(w)
		}
	}

	updates := make(map[string]Value)
	for _, e := range t.entries {
		switch {
		case result.StopAbove.Has(e.Token):
			updates[e.Token] = opts.Reserved.StopAbove
		case result.StopBelow.Has(e.Token):
			updates[e.Token] = opts.Reserved.StopBelow
		case result.StopWords.Has(e.Token):
			updates[e.Token] = opts.Reserved.StopWord
		}
	}

	next, err := t.Reassign(updates)
	if err != nil {
		return nil, BucketSet{}, err
	}
	return next, result, nil
}
