package fileutil

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
)

// WriteFileAtomic writes path through a temporary sibling that is renamed
// into place only when fill succeeds.
func WriteFileAtomic(path string, fill func(io.Writer) error) error {
	var stage Stage
	if err := stage.Write(path, fill); err != nil {
		return err
	}
	return stage.Commit()
}

// Stage collects files written to temporary siblings so that a set of
// outputs appears together or not at all.
type Stage struct {
	pending []pending
}

type pending struct {
	temp   string
	target string
}

// Write fills a temporary file next to target. On error the temporary file
// is removed and nothing is staged.
func (s *Stage) Write(target string, fill func(io.Writer) error) error {
	dir := filepath.Dir(target)
	tmp, err := os.CreateTemp(dir, "."+filepath.Base(target)+".*.tmp")
	if err != nil {
		return fmt.Errorf("create temp file for %s: %w", target, err)
	}

	if err := fill(tmp); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmp.Name())
		return err
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmp.Name())
		return fmt.Errorf("close temp file for %s: %w", target, err)
	}
	if err := os.Chmod(tmp.Name(), 0o644); err != nil {
		_ = os.Remove(tmp.Name())
		return fmt.Errorf("chmod temp file for %s: %w", target, err)
	}
	s.pending = append(s.pending, pending{temp: tmp.Name(), target: target})
	return nil
}

// Commit renames every staged file into place.
func (s *Stage) Commit() error {
	var errs []error
	for _, p := range s.pending {
		if err := os.Rename(p.temp, p.target); err != nil {
			_ = os.Remove(p.temp)
			errs = append(errs, fmt.Errorf("rename %s: %w", p.target, err))
		}
	}
	s.pending = nil
	return errors.Join(errs...)
}

// Discard removes every staged temporary file.
func (s *Stage) Discard() {
	for _, p := range s.pending {
		_ = os.Remove(p.temp)
	}
	s.pending = nil
}
