package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/gofrs/flock"
	"github.com/google/uuid"
	"golang.org/x/text/encoding"

	"obscuritext/internal/config"
	"obscuritext/internal/dataset"
	"obscuritext/internal/logging"
	"obscuritext/internal/mapping"
	"obscuritext/internal/surrogate"
	"obscuritext/internal/tokenize"
)

const lockFileName = ".obscuritext.lock"

// Summary describes one completed run.
type Summary struct {
	ID          string
	Name        string
	Dir         string
	Outputs     Outputs
	Mode        surrogate.Mode
	Run         config.RunOptions
	Top         surrogate.Threshold
	Bottom      surrogate.Threshold
	UniqueWords int
	Lines       int
	Buckets     surrogate.BucketSet
}

// Runner executes the configured sweep.
type Runner struct {
	cfg      *config.Config
	logger   *slog.Logger
	resolver ThresholdResolver
	archive  *mapping.Archive
	replay   surrogate.BucketSet
	now      func() time.Time
	newID    func() string
}

// Option customizes a Runner.
type Option func(*Runner)

// WithResolver sets the resolver used for "ask" thresholds.
func WithResolver(resolver ThresholdResolver) Option {
	return func(r *Runner) { r.resolver = resolver }
}

// WithArchive records every run in archive. The caller keeps ownership.
func WithArchive(archive *mapping.Archive) Option {
	return func(r *Runner) { r.archive = archive }
}

// WithReplay adds bucket membership on top of the configured replay sets.
func WithReplay(set surrogate.BucketSet) Option {
	return func(r *Runner) { r.replay = r.replay.Merge(set) }
}

// WithClock overrides the archive timestamp source.
func WithClock(now func() time.Time) Option {
	return func(r *Runner) { r.now = now }
}

// New builds a Runner for cfg.
func New(cfg *config.Config, logger *slog.Logger, opts ...Option) *Runner {
	r := &Runner{
		cfg:    cfg,
		logger: logging.NewComponentLogger(logger, "pipeline"),
		now:    time.Now,
		newID:  uuid.NewString,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// settings are the run-independent values derived from the config once per sweep.
type settings struct {
	mode      surrogate.Mode
	above     config.ThresholdSetting
	below     config.ThresholdSetting
	order     mapping.Order
	replay    surrogate.BucketSet
	stemmer   tokenize.Stemmer
	delimiter rune
	input     encoding.Encoding
	output    encoding.Encoding
	dir       string
}

// Run executes every combination of the sweep in order and returns the
// summaries of the runs that completed.
func (r *Runner) Run(ctx context.Context) ([]Summary, error) {
	s, err := r.prepare()
	if err != nil {
		return nil, err
	}

	frame, err := r.readInput(s)
	if err != nil {
		return nil, err
	}
	for _, column := range r.cfg.Data.Columns {
		if _, err := frame.Values(column); err != nil {
			return nil, fmt.Errorf("data.columns: %w", err)
		}
	}

	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return nil, fmt.Errorf("create output directory: %w", err)
	}
	lock := flock.New(filepath.Join(s.dir, lockFileName))
	ok, err := lock.TryLock()
	if err != nil {
		return nil, fmt.Errorf("acquire output lock: %w", err)
	}
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrOutputLocked, s.dir)
	}
	defer func() {
		if err := lock.Unlock(); err != nil {
			r.logger.Warn("failed to release output lock", logging.Error(err))
		}
	}()

	archive := r.archive
	if archive == nil && r.cfg.Export.Archive {
		archive, err = mapping.OpenArchive(ctx, r.cfg.Export.ArchivePath)
		if err != nil {
			return nil, fmt.Errorf("open archive: %w", err)
		}
		defer archive.Close()
	}

	runs := r.cfg.Sweep()
	r.logger.Info("sweep starting",
		logging.String("input", r.cfg.Data.File),
		logging.String("columns", strings.Join(r.cfg.Data.Columns, ",")),
		logging.String("mode", s.mode.String()),
		logging.Int("runs", len(runs)),
		logging.Int("lines", frame.Len()),
	)

	summaries := make([]Summary, 0, len(runs))
	for _, opts := range runs {
		summary, err := r.runOnce(ctx, s, frame, opts, archive)
		if err != nil {
			return summaries, err
		}
		summaries = append(summaries, summary)
	}
	return summaries, nil
}

func (r *Runner) prepare() (settings, error) {
	cfg := r.cfg
	if strings.TrimSpace(cfg.Data.File) == "" {
		return settings{}, ErrNoInput
	}
	if len(cfg.Data.Columns) == 0 {
		return settings{}, ErrNoColumns
	}

	var s settings
	var err error
	if s.mode, err = cfg.Mode(); err != nil {
		return settings{}, err
	}
	if s.above, err = cfg.CombineAbove(); err != nil {
		return settings{}, err
	}
	if s.below, err = cfg.CombineBelow(); err != nil {
		return settings{}, err
	}
	if s.order, err = mapping.ParseOrder(cfg.Export.MappingOrder); err != nil {
		return settings{}, err
	}
	if s.delimiter, err = dataset.ParseDelimiter(cfg.Data.Delimiter); err != nil {
		return settings{}, err
	}
	if s.output, err = dataset.LookupEncoding(cfg.Data.OutputEncoding); err != nil {
		return settings{}, err
	}

	s.replay = cfg.InlineReplay().Merge(r.replay)
	if path := strings.TrimSpace(cfg.Replay.Manifest); path != "" {
		manifest, err := mapping.LoadManifest(path)
		if err != nil {
			return settings{}, err
		}
		s.replay = s.replay.Merge(manifest.BucketSet())
	}
	if err := s.replay.Validate(); err != nil {
		return settings{}, fmt.Errorf("replay: %w", err)
	}
	if !s.replay.Empty() && s.mode != surrogate.ModeHash {
		return settings{}, fmt.Errorf("replay: %w", surrogate.ErrReplayRequiresHash)
	}
	forced := len(s.replay.StopAbove) > 0 || len(s.replay.StopBelow) > 0
	if forced && (s.above.Active() || s.below.Active()) {
		return settings{}, fmt.Errorf("replay: %w", surrogate.ErrReplayWithThresholds)
	}
	if s.input, err = dataset.LookupEncoding(cfg.Data.InputEncoding); err != nil {
		return settings{}, err
	}

	if config.ParseToggle(cfg.Processing.Stemming).Includes(true) {
		if s.stemmer, err = tokenize.NewSnowballStemmer(cfg.Processing.StemLanguage); err != nil {
			return settings{}, err
		}
	}

	s.dir = OutputDir(cfg.Data.OutputDir, cfg.Data.File)
	return s, nil
}

func (r *Runner) readInput(s settings) (*dataset.Frame, error) {
	index := -1
	if r.cfg.Data.IndexColumn != nil {
		index = *r.cfg.Data.IndexColumn
	}
	return dataset.ReadFile(r.cfg.Data.File, dataset.ReadOptions{
		Delimiter:   s.delimiter,
		Encoding:    s.input,
		IndexColumn: index,
	})
}

func (r *Runner) runOnce(ctx context.Context, s settings, frame *dataset.Frame, run config.RunOptions, archive *mapping.Archive) (Summary, error) {
	if err := ctx.Err(); err != nil {
		return Summary{}, err
	}
	id := r.newID()
	logger := r.logger.With(logging.String(logging.FieldRunID, id))

	tokOpts := tokenize.Options{CaseSensitive: run.CaseSensitive, RemovePunctuation: run.RemovePunctuation}
	if run.Stemming {
		tokOpts.Stemmer = s.stemmer
	}
	tokenizer := tokenize.New(tokOpts)

	columns := r.cfg.Data.Columns
	lines := frame.Len()
	fields := make([][]string, 0, lines*len(columns))
	for _, column := range columns {
		values, err := frame.Values(column)
		if err != nil {
			return Summary{}, err
		}
		fields = append(fields, tokenizer.TokenizeAll(values)...)
	}

	opts := surrogate.Options{
		Mode:       s.mode,
		Seed:       r.cfg.Processing.Seed,
		Salt:       r.cfg.Processing.Salt,
		HashLength: r.cfg.Processing.ConcatHashes,
		Replay:     s.replay,
	}
	discovered, err := surrogate.Discover(fields, opts)
	if err != nil {
		return Summary{}, err
	}
	logger.Debug("discovery pass complete", logging.Int("unique_words", discovered.Len()))

	if opts.Top, err = r.resolve(ctx, s.above, SideAbove, discovered); err != nil {
		return Summary{}, err
	}
	if opts.Bottom, err = r.resolve(ctx, s.below, SideBelow, discovered); err != nil {
		return Summary{}, err
	}

	final, buckets, err := surrogate.Finalize(discovered, opts)
	if err != nil {
		return Summary{}, err
	}
	replaced, err := surrogate.NewReplacer(final).ReplaceAll(fields)
	if err != nil {
		return Summary{}, err
	}
	if err := ctx.Err(); err != nil {
		return Summary{}, err
	}

	out := frame.Clone()
	for i, column := range columns {
		if err := out.AddColumn(ObscuredColumn(column), replaced[i*lines:(i+1)*lines]); err != nil {
			return Summary{}, err
		}
		if r.cfg.Data.DeleteColumn {
			if err := out.DropColumn(column); err != nil {
				return Summary{}, err
			}
		}
	}

	name := Naming{
		OutputBase: r.cfg.Data.OutputBase,
		Columns:    columns,
		Run:        run,
		Mode:       s.mode,
		Top:        opts.Top,
		Bottom:     opts.Bottom,
		Seed:       opts.Seed,
		Salt:       opts.Salt,
		HashLength: opts.HashLength,
	}.Name()
	logger = logging.WithContext(logging.WithRun(ctx, "", name), logger)

	rows := mapping.Rows(final, s.order)
	outputs := OutputPaths(s.dir, name, s.mode)
	if err := writeOutputs(outputs, out, rows, buckets, s); err != nil {
		return Summary{}, err
	}

	summary := Summary{
		ID:          id,
		Name:        name,
		Dir:         s.dir,
		Outputs:     outputs,
		Mode:        s.mode,
		Run:         run,
		Top:         opts.Top,
		Bottom:      opts.Bottom,
		UniqueWords: final.Len(),
		Lines:       lines,
		Buckets:     buckets,
	}
	if archive != nil {
		if err := archive.Record(ctx, r.record(summary, rows)); err != nil {
			return Summary{}, fmt.Errorf("archive run: %w", err)
		}
	}

	logger.Info("unique words obscured",
		logging.Int("unique_words", summary.UniqueWords),
		logging.Int("lines", summary.Lines),
		logging.Bool("case_sensitive", run.CaseSensitive),
		logging.Bool("stemming", run.Stemming),
		logging.Bool("remove_punctuation", run.RemovePunctuation),
		logging.String("dataset", outputs.Dataset),
	)
	return summary, nil
}

func (r *Runner) resolve(ctx context.Context, setting config.ThresholdSetting, side Side, table *surrogate.Table) (surrogate.Threshold, error) {
	if threshold, ok := setting.Resolve(); ok {
		return threshold, nil
	}
	if r.resolver == nil {
		return surrogate.Disabled(), fmt.Errorf("combine_%s: %w", side, ErrThresholdUnresolved)
	}
	threshold, err := r.resolver.ResolveThreshold(ctx, side, table)
	if err != nil {
		return surrogate.Disabled(), fmt.Errorf("resolve combine_%s: %w", side, err)
	}
	r.logger.Info("threshold resolved", logging.String("side", side.String()), logging.String("value", threshold.String()))
	return threshold, nil
}

func (r *Runner) record(summary Summary, rows []mapping.Row) mapping.RunRecord {
	options := map[string]string{
		"input":              r.cfg.Data.File,
		"columns":            strings.Join(r.cfg.Data.Columns, ","),
		"case_sensitive":     strconv.FormatBool(summary.Run.CaseSensitive),
		"stemming":           strconv.FormatBool(summary.Run.Stemming),
		"remove_punctuation": strconv.FormatBool(summary.Run.RemovePunctuation),
		"combine_above":      summary.Top.String(),
		"combine_below":      summary.Bottom.String(),
	}
	if summary.Mode == surrogate.ModeHash {
		options["concat_hashes"] = strconv.Itoa(r.cfg.Processing.ConcatHashes)
	} else {
		options["seed"] = strconv.FormatInt(r.cfg.Processing.Seed, 10)
	}
	return mapping.RunRecord{
		RunSummary: mapping.RunSummary{
			ID:          summary.ID,
			Name:        summary.Name,
			Mode:        summary.Mode.String(),
			Options:     options,
			UniqueWords: summary.UniqueWords,
			Lines:       summary.Lines,
			CreatedAt:   r.now(),
		},
		Rows:    rows,
		Buckets: summary.Buckets,
	}
}
