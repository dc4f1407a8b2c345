package pipeline_test

import (
	"context"
	"crypto/sha1"
	"encoding/base64"
	"errors"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"testing"
	"time"

	"github.com/gofrs/flock"

	"obscuritext/internal/config"
	"obscuritext/internal/dataset"
	"obscuritext/internal/logging"
	"obscuritext/internal/mapping"
	"obscuritext/internal/pipeline"
	"obscuritext/internal/surrogate"
	"obscuritext/internal/testsupport"
)

func runSweep(t *testing.T, cfg *config.Config, opts ...pipeline.Option) []pipeline.Summary {
	t.Helper()
	summaries, err := pipeline.New(cfg, logging.NewNop(), opts...).Run(context.Background())
	if err != nil {
		t.Fatalf("Run returned error: %v", err)
	}
	return summaries
}

func column(t *testing.T, records [][]string, name string) []string {
	t.Helper()
	idx := slices.Index(records[0], name)
	if idx < 0 {
		t.Fatalf("column %q missing from header %q", name, records[0])
	}
	out := make([]string, 0, len(records)-1)
	for _, rec := range records[1:] {
		out = append(out, rec[idx])
	}
	return out
}

func mappingRows(t *testing.T, path string) map[string]mapping.Row {
	t.Helper()
	f, err := os.Open(path)
	if err != nil {
		t.Fatalf("open mapping: %v", err)
	}
	defer f.Close()
	rows, err := mapping.ReadCSV(f)
	if err != nil {
		t.Fatalf("read mapping: %v", err)
	}
	out := make(map[string]mapping.Row, len(rows))
	for _, r := range rows {
		out[r.Word] = r
	}
	return out
}

func TestShuffleRunWritesDatasetAndMapping(t *testing.T) {
	cfg := testsupport.NewConfig(t, testsupport.WithInput(
		[]string{"id", "text"},
		[]string{"1", "Cat dog."},
		[]string{"2", "dog dog cat"},
	))
	cfg.Processing.Seed = 42

	summaries := runSweep(t, cfg)
	if len(summaries) != 1 {
		t.Fatalf("expected one run, got %d", len(summaries))
	}
	s := summaries[0]
	wantName := "test_text_NoCase_NoStem_NoPunc_AboveNone_BelowNone_Seed42"
	if s.Name != wantName {
		t.Fatalf("unexpected name: got %q want %q", s.Name, wantName)
	}
	wantDir := filepath.Join(cfg.Data.OutputDir, "obscured_input")
	if s.Dir != wantDir || s.Outputs.Dataset != filepath.Join(wantDir, wantName+".csv") {
		t.Fatalf("unexpected output layout: %+v", s)
	}
	if s.Outputs.Manifest != "" {
		t.Fatalf("shuffle runs should not write a manifest: %q", s.Outputs.Manifest)
	}
	if s.UniqueWords != 2 || s.Lines != 2 {
		t.Fatalf("unexpected counts: %d words, %d lines", s.UniqueWords, s.Lines)
	}

	rows := mappingRows(t, s.Outputs.Mapping)
	cat, dog := rows["cat"], rows["dog"]
	if cat.Count != 2 || dog.Count != 3 {
		t.Fatalf("unexpected counts: cat=%d dog=%d", cat.Count, dog.Count)
	}
	surrogates := []string{cat.Surrogate, dog.Surrogate}
	slices.Sort(surrogates)
	if !slices.Equal(surrogates, []string{"1", "2"}) {
		t.Fatalf("expected permutation of 1..2, got %v", surrogates)
	}

	records := testsupport.ReadCSV(t, s.Outputs.Dataset)
	want := []string{
		cat.Surrogate + " " + dog.Surrogate + " ",
		dog.Surrogate + " " + dog.Surrogate + " " + cat.Surrogate + " ",
	}
	if got := column(t, records, "obscured_text"); !slices.Equal(got, want) {
		t.Fatalf("unexpected obscured text: got %q want %q", got, want)
	}
	if got := column(t, records, "text"); got[0] != "Cat dog." {
		t.Fatalf("original column should be kept, got %q", got)
	}
}

func TestHashRunWritesManifest(t *testing.T) {
	cfg := testsupport.NewConfig(t,
		testsupport.WithInput([]string{"text"}, []string{"cat"}, []string{"cat bird"}),
		testsupport.WithHash("x", 8),
	)
	cfg.Data.DeleteColumn = true

	s := runSweep(t, cfg)[0]
	if !strings.HasSuffix(s.Name, "_AboveNone_BelowNone_Saltx_Len8") {
		t.Fatalf("unexpected hash run name %q", s.Name)
	}
	sum := sha1.Sum([]byte("catx"))
	wantCat := base64.RawURLEncoding.EncodeToString(sum[:])[:8]
	if got := mappingRows(t, s.Outputs.Mapping)["cat"].Surrogate; got != wantCat {
		t.Fatalf("unexpected cat hash: got %q want %q", got, wantCat)
	}

	records := testsupport.ReadCSV(t, s.Outputs.Dataset)
	if slices.Contains(records[0], "text") {
		t.Fatalf("original column should be deleted, header %q", records[0])
	}
	if got := column(t, records, "obscured_text")[0]; got != wantCat+" " {
		t.Fatalf("unexpected first row: %q", got)
	}

	manifest, err := mapping.LoadManifest(s.Outputs.Manifest)
	if err != nil {
		t.Fatalf("LoadManifest: %v", err)
	}
	if !manifest.BucketSet().Empty() {
		t.Fatalf("expected empty manifest, got %+v", manifest)
	}
}

func TestBucketingMergesRareWords(t *testing.T) {
	for _, mode := range []string{"shuffle", "hash"} {
		t.Run(mode, func(t *testing.T) {
			cfg := testsupport.NewConfig(t, testsupport.WithInput([]string{"text"},
				[]string{"cat cat cat"}, []string{"cat dog"}, []string{"cat bird"},
			))
			cfg.Processing.Mode = mode
			cfg.Processing.CombineBelow = int64(2)

			s := runSweep(t, cfg)[0]
			if !strings.Contains(s.Name, "_AboveNone_Below2") {
				t.Fatalf("threshold missing from name %q", s.Name)
			}
			rows := mappingRows(t, s.Outputs.Mapping)
			if rows["dog"].Surrogate != rows["bird"].Surrogate {
				t.Fatalf("dog and bird should share a surrogate: %+v", rows)
			}
			if rows["cat"].Surrogate == rows["dog"].Surrogate {
				t.Fatalf("cat should keep its own surrogate: %+v", rows)
			}
			if got := s.Buckets.StopBelow.Join(); got != "bird dog" {
				t.Fatalf("unexpected stop-below set %q", got)
			}
		})
	}
}

func TestSweepRunsEveryCombination(t *testing.T) {
	cfg := testsupport.NewConfig(t, testsupport.WithInput([]string{"text"}, []string{"Hello, World"}))
	cfg.Processing.CaseSensitive = "both"
	cfg.Processing.RemovePunctuation = "both"

	summaries := runSweep(t, cfg)
	var names []string
	for _, s := range summaries {
		names = append(names, s.Name)
		if _, err := os.Stat(s.Outputs.Dataset); err != nil {
			t.Fatalf("missing dataset for %s: %v", s.Name, err)
		}
	}
	want := []string{
		"test_text_Case_NoStem_NoPunc_AboveNone_BelowNone_Seed0",
		"test_text_Case_NoStem_Punc_AboveNone_BelowNone_Seed0",
		"test_text_NoCase_NoStem_NoPunc_AboveNone_BelowNone_Seed0",
		"test_text_NoCase_NoStem_Punc_AboveNone_BelowNone_Seed0",
	}
	if !slices.Equal(names, want) {
		t.Fatalf("unexpected run order:\n got %q\nwant %q", names, want)
	}
	if summaries[1].UniqueWords != 3 {
		t.Fatalf("punctuation kept should add a comma token, got %d words", summaries[1].UniqueWords)
	}
	if summaries[0].ID == summaries[1].ID {
		t.Fatal("runs should get distinct ids")
	}
}

func TestStemmingRun(t *testing.T) {
	cfg := testsupport.NewConfig(t, testsupport.WithInput([]string{"text"}, []string{"running runs run"}))
	cfg.Processing.Stemming = "yes"

	s := runSweep(t, cfg)[0]
	if !strings.Contains(s.Name, "_Stem_") {
		t.Fatalf("expected stem flag in %q", s.Name)
	}
	rows := mappingRows(t, s.Outputs.Mapping)
	if len(rows) != 1 || rows["run"].Count != 3 {
		t.Fatalf("expected every form to stem to run, got %+v", rows)
	}
}

func TestAskThresholdUsesResolver(t *testing.T) {
	cfg := testsupport.NewConfig(t, testsupport.WithInput([]string{"text"}, []string{"a a a b"}))
	cfg.Processing.CombineAbove = "ask"

	var asked []pipeline.Side
	resolver := pipeline.ResolverFunc(func(_ context.Context, side pipeline.Side, table *surrogate.Table) (surrogate.Threshold, error) {
		asked = append(asked, side)
		if table.Len() != 2 {
			t.Fatalf("resolver should see the discovery table, got %d entries", table.Len())
		}
		return surrogate.Fixed(2), nil
	})

	s := runSweep(t, cfg, pipeline.WithResolver(resolver))
	if len(asked) != 1 || asked[0] != pipeline.SideAbove {
		t.Fatalf("unexpected resolver calls: %v", asked)
	}
	if !strings.Contains(s[0].Name, "_Above2_BelowNone") {
		t.Fatalf("resolved threshold missing from name %q", s[0].Name)
	}
	if got := s[0].Buckets.StopAbove.Join(); got != "a" {
		t.Fatalf("unexpected stop-above set %q", got)
	}
}

func TestAskThresholdWithoutResolverFails(t *testing.T) {
	cfg := testsupport.NewConfig(t, testsupport.WithInput([]string{"text"}, []string{"a"}))
	cfg.Processing.CombineBelow = "ask"

	_, err := pipeline.New(cfg, nil).Run(context.Background())
	if !errors.Is(err, pipeline.ErrThresholdUnresolved) {
		t.Fatalf("expected ErrThresholdUnresolved, got %v", err)
	}
}

func TestManifestReplayForcesBuckets(t *testing.T) {
	first := testsupport.NewConfig(t,
		testsupport.WithInput([]string{"text"}, []string{"the cat the dog the"}),
		testsupport.WithHash("s", 0),
	)
	first.Processing.CombineAbove = int64(2)
	manifestPath := runSweep(t, first)[0].Outputs.Manifest

	second := testsupport.NewConfig(t,
		testsupport.WithInput([]string{"text"}, []string{"the bird"}),
		testsupport.WithHash("s", 0),
	)
	second.Replay.Manifest = manifestPath
	s := runSweep(t, second)[0]

	reserved := surrogate.NewHasher("s", 0).Reserved()
	rows := mappingRows(t, s.Outputs.Mapping)
	if rows["the"].Surrogate != reserved.StopAbove.String() {
		t.Fatalf("the should be replayed into stop-above, got %q", rows["the"].Surrogate)
	}
	if rows["bird"].Surrogate != surrogate.NewHasher("s", 0).Sum("bird") {
		t.Fatalf("bird should keep its own hash, got %q", rows["bird"].Surrogate)
	}
}

func TestReplayOptionRequiresHash(t *testing.T) {
	cfg := testsupport.NewConfig(t, testsupport.WithInput([]string{"text"}, []string{"a"}))
	_, err := pipeline.New(cfg, nil, pipeline.WithReplay(surrogate.BucketSet{
		StopWords: surrogate.NewWordSet("a"),
	})).Run(context.Background())
	if !errors.Is(err, surrogate.ErrReplayRequiresHash) {
		t.Fatalf("expected ErrReplayRequiresHash, got %v", err)
	}
}

func TestReplayWithThresholdsFailsBeforeDiscovery(t *testing.T) {
	tests := []struct {
		name  string
		above any
	}{
		{"ask", "ask"},
		{"fixed", int64(3)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := testsupport.NewConfig(t,
				testsupport.WithInput([]string{"text"}, []string{"the cat"}),
				testsupport.WithHash("s", 0),
			)
			cfg.Processing.CombineAbove = tt.above

			asked := false
			resolver := pipeline.ResolverFunc(func(context.Context, pipeline.Side, *surrogate.Table) (surrogate.Threshold, error) {
				asked = true
				return surrogate.Fixed(1), nil
			})
			_, err := pipeline.New(cfg, nil,
				pipeline.WithResolver(resolver),
				pipeline.WithReplay(surrogate.BucketSet{StopAbove: surrogate.NewWordSet("the")}),
			).Run(context.Background())
			if !errors.Is(err, surrogate.ErrReplayWithThresholds) {
				t.Fatalf("expected ErrReplayWithThresholds, got %v", err)
			}
			if asked {
				t.Fatal("threshold resolver should not run when the configuration is rejected")
			}
			if _, err := os.Stat(pipeline.OutputDir(cfg.Data.OutputDir, cfg.Data.File)); !errors.Is(err, os.ErrNotExist) {
				t.Fatalf("output directory should not be created, stat err = %v", err)
			}
		})
	}
}

func TestReplayStopWordsAllowThresholds(t *testing.T) {
	cfg := testsupport.NewConfig(t,
		testsupport.WithInput([]string{"text"}, []string{"the the cat dog"}),
		testsupport.WithHash("s", 0),
	)
	cfg.Processing.CombineAbove = int64(1)
	s := runSweep(t, cfg, pipeline.WithReplay(surrogate.BucketSet{StopWords: surrogate.NewWordSet("cat")}))[0]

	reserved := surrogate.NewHasher("s", 0).Reserved()
	rows := mappingRows(t, s.Outputs.Mapping)
	if rows["cat"].Surrogate != reserved.StopWord.String() {
		t.Fatalf("cat should use the stop-word digest, got %q", rows["cat"].Surrogate)
	}
	if rows["the"].Surrogate != reserved.StopAbove.String() {
		t.Fatalf("the should be bucketed above, got %q", rows["the"].Surrogate)
	}
}

func TestRunsAreArchived(t *testing.T) {
	cfg := testsupport.NewConfig(t,
		testsupport.WithInput([]string{"text"}, []string{"x y x"}),
		testsupport.WithHash("salt", 6),
		testsupport.WithArchive(),
	)
	cfg.Processing.CombineBelow = int64(2)
	recorded := time.Date(2026, 3, 4, 5, 6, 7, 0, time.UTC)
	s := runSweep(t, cfg, pipeline.WithClock(func() time.Time { return recorded }))[0]

	archive := testsupport.MustOpenArchive(t, cfg)
	ctx := context.Background()
	runs, err := archive.List(ctx)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(runs) != 1 || runs[0].ID != s.ID || runs[0].Name != s.Name {
		t.Fatalf("unexpected archived runs: %+v", runs)
	}
	if !runs[0].CreatedAt.Equal(recorded) {
		t.Fatalf("expected archived timestamp %v, got %v", recorded, runs[0].CreatedAt)
	}
	if runs[0].Options["combine_below"] != "2" {
		t.Fatalf("unexpected archived options: %v", runs[0].Options)
	}
	rows, err := archive.Rows(ctx, s.ID, 0)
	if err != nil || len(rows) != 2 {
		t.Fatalf("unexpected archived rows: %+v, %v", rows, err)
	}
	buckets, err := archive.Buckets(ctx, s.ID)
	if err != nil {
		t.Fatalf("Buckets: %v", err)
	}
	if buckets.StopBelow.Join() != "y" {
		t.Fatalf("unexpected archived buckets: %+v", buckets)
	}
}

func TestMultipleColumnsShareOneTable(t *testing.T) {
	cfg := testsupport.NewConfig(t,
		testsupport.WithInput([]string{"title", "body"}, []string{"red", "red blue"}),
		testsupport.WithColumns("title", "body"),
	)
	s := runSweep(t, cfg)[0]
	if !strings.HasPrefix(s.Name, "test_title-body_") {
		t.Fatalf("unexpected name %q", s.Name)
	}
	rows := mappingRows(t, s.Outputs.Mapping)
	if rows["red"].Count != 2 {
		t.Fatalf("red should be counted across columns, got %+v", rows)
	}
	records := testsupport.ReadCSV(t, s.Outputs.Dataset)
	title := column(t, records, "obscured_title")[0]
	body := column(t, records, "obscured_body")[0]
	if !strings.HasPrefix(body, title) {
		t.Fatalf("red should map identically in both columns: %q / %q", title, body)
	}
}

func TestNumericColumnTokensAreOpaque(t *testing.T) {
	cfg := testsupport.NewConfig(t,
		testsupport.WithInput([]string{"id", "score"}, []string{"1", "10"}, []string{"2", "10"}),
		testsupport.WithColumns("score"),
	)
	s := runSweep(t, cfg)[0]
	rows := mappingRows(t, s.Outputs.Mapping)
	if len(rows) != 1 || rows["10"].Count != 2 {
		t.Fatalf("expected one opaque token counted twice, got %+v", rows)
	}
}

func TestMissingCellsBecomeOneToken(t *testing.T) {
	for _, name := range []string{"text", "score"} {
		t.Run(name, func(t *testing.T) {
			cfg := testsupport.NewConfig(t,
				testsupport.WithInput([]string{"id", "text", "score"},
					[]string{"1", "cat", "10"},
					[]string{"2", "", ""},
					[]string{"3", "cat", "10"},
				),
				testsupport.WithColumns(name),
			)
			cfg.Processing.Seed = 5
			s := runSweep(t, cfg)[0]
			if s.UniqueWords != 2 {
				t.Fatalf("expected the missing cell to add one word, got %d", s.UniqueWords)
			}
			rows := mappingRows(t, s.Outputs.Mapping)
			missing, ok := rows["nan"]
			if !ok || missing.Count != 1 {
				t.Fatalf("expected nan counted once, got %+v", rows)
			}
			got := column(t, testsupport.ReadCSV(t, s.Outputs.Dataset), pipeline.ObscuredColumn(name))
			if got[1] != missing.Surrogate+" " {
				t.Fatalf("missing cell should carry its surrogate, got %q", got[1])
			}
		})
	}
}

func TestIndexColumnIsRejectedAsTextColumn(t *testing.T) {
	cfg := testsupport.NewConfig(t,
		testsupport.WithInput([]string{"id", "text"}, []string{"1", "a"}),
		testsupport.WithColumns("id"),
	)
	index := 0
	cfg.Data.IndexColumn = &index
	_, err := pipeline.New(cfg, nil).Run(context.Background())
	if !errors.Is(err, dataset.ErrIndexColumn) {
		t.Fatalf("expected ErrIndexColumn, got %v", err)
	}
}

func TestRunRejectsBadInputs(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*config.Config)
		want   error
	}{
		{"no input", func(c *config.Config) { c.Data.File = "" }, pipeline.ErrNoInput},
		{"no columns", func(c *config.Config) { c.Data.Columns = nil }, pipeline.ErrNoColumns},
		{"unknown column", func(c *config.Config) { c.Data.Columns = []string{"missing"} }, dataset.ErrUnknownColumn},
		{"missing file", func(c *config.Config) { c.Data.File += ".gone" }, os.ErrNotExist},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := testsupport.NewConfig(t, testsupport.WithInput([]string{"text"}, []string{"a"}))
			tt.mutate(cfg)
			_, err := pipeline.New(cfg, nil).Run(context.Background())
			if !errors.Is(err, tt.want) {
				t.Fatalf("expected %v, got %v", tt.want, err)
			}
		})
	}
}

func TestCancelledRunWritesNothing(t *testing.T) {
	cfg := testsupport.NewConfig(t, testsupport.WithInput([]string{"text"}, []string{"a"}))
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := pipeline.New(cfg, nil).Run(ctx)
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
	entries, _ := os.ReadDir(pipeline.OutputDir(cfg.Data.OutputDir, cfg.Data.File))
	for _, e := range entries {
		if strings.HasSuffix(e.Name(), ".csv") {
			t.Fatalf("cancelled run left %s behind", e.Name())
		}
	}
}

func TestLockedOutputDirectory(t *testing.T) {
	cfg := testsupport.NewConfig(t, testsupport.WithInput([]string{"text"}, []string{"a"}))
	dir := pipeline.OutputDir(cfg.Data.OutputDir, cfg.Data.File)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatal(err)
	}
	lock := flock.New(filepath.Join(dir, ".obscuritext.lock"))
	if ok, err := lock.TryLock(); err != nil || !ok {
		t.Fatalf("TryLock: %v, %v", ok, err)
	}
	defer lock.Unlock()

	_, err := pipeline.New(cfg, nil).Run(context.Background())
	if !errors.Is(err, pipeline.ErrOutputLocked) {
		t.Fatalf("expected ErrOutputLocked, got %v", err)
	}
}
