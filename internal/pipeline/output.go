package pipeline

import (
	"fmt"
	"io"

	"obscuritext/internal/dataset"
	"obscuritext/internal/fileutil"
	"obscuritext/internal/mapping"
	"obscuritext/internal/surrogate"
)

// writeOutputs stages every file of a run and renames them into place only
// when all of them were written.
func writeOutputs(outputs Outputs, frame *dataset.Frame, rows []mapping.Row, buckets surrogate.BucketSet, s settings) error {
	var stage fileutil.Stage
	err := stage.Write(outputs.Dataset, func(w io.Writer) error {
		return frame.Write(w, dataset.WriteOptions{Delimiter: s.delimiter, Encoding: s.output})
	})
	if err == nil {
		err = stage.Write(outputs.Mapping, func(w io.Writer) error {
			return mapping.WriteCSV(w, rows)
		})
	}
	if err == nil && outputs.Manifest != "" {
		err = stage.Write(outputs.Manifest, func(w io.Writer) error {
			return mapping.WriteManifest(w, mapping.NewManifest(buckets))
		})
	}
	if err != nil {
		stage.Discard()
		return fmt.Errorf("write outputs: %w", err)
	}
	if err := stage.Commit(); err != nil {
		return fmt.Errorf("write outputs: %w", err)
	}
	return nil
}
