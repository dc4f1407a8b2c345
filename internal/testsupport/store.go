package testsupport

import (
	"context"
	"testing"

	"obscuritext/internal/config"
	"obscuritext/internal/mapping"
)

// MustOpenArchive opens the configured run archive and registers cleanup.
func MustOpenArchive(t testing.TB, cfg *config.Config) *mapping.Archive {
	t.Helper()

	archive, err := mapping.OpenArchive(context.Background(), cfg.Export.ArchivePath)
	if err != nil {
		t.Fatalf("mapping.OpenArchive: %v", err)
	}
	t.Cleanup(func() {
		_ = archive.Close()
	})
	return archive
}
