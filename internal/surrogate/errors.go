package surrogate

import "errors"

var (
	// ErrUnknownToken indicates pass 2 saw a token pass 1 never observed.
	ErrUnknownToken = errors.New("token missing from word table")
	// ErrModeMismatch indicates an operation was applied to a table built for the other mode.
	ErrModeMismatch = errors.New("surrogate mode mismatch")
	// ErrOverlappingBuckets indicates a token was supplied in more than one replay set.
	ErrOverlappingBuckets = errors.New("token present in more than one stop-word set")
	// ErrReplayWithThresholds indicates replayed above/below sets were combined with active thresholds.
	ErrReplayWithThresholds = errors.New("replayed stop-above/stop-below sets cannot be combined with thresholds")
	// ErrReplayRequiresHash indicates replay sets were supplied in shuffle mode.
	ErrReplayRequiresHash = errors.New("stop-word replay sets require hash mode")
	// ErrInvalidMode indicates an unrecognized surrogate mode name.
	ErrInvalidMode = errors.New("invalid surrogate mode")
)
