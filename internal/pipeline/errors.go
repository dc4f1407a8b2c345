package pipeline

import "errors"

var (
	// ErrNoInput indicates that no input file is configured.
	ErrNoInput = errors.New("no input file configured (set data.file or pass --file)")
	// ErrNoColumns indicates that no text column is selected.
	ErrNoColumns = errors.New("no text columns configured (set data.columns or pass --column)")
	// ErrThresholdUnresolved indicates an "ask" threshold with no resolver.
	ErrThresholdUnresolved = errors.New("threshold set to ask but no interactive resolver is available")
	// ErrOutputLocked indicates another process holds the output directory lock.
	ErrOutputLocked = errors.New("output directory is locked by another obscuritext process")
)
