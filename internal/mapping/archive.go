package mapping

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	_ "modernc.org/sqlite"

	"obscuritext/internal/surrogate"
)

// ErrRunNotFound indicates an archive lookup for an unknown run id.
var ErrRunNotFound = errors.New("run not found in archive")

const (
	bucketStopWords = "stop_words"
	bucketStopAbove = "stop_above_words"
	bucketStopBelow = "stop_below_words"

	sqliteBusyCode          = 5
	busyRetryAttempts       = 5
	busyRetryInitialBackoff = 10 * time.Millisecond
	busyRetryMaxBackoff     = 200 * time.Millisecond
)

// Archive stores run mappings in SQLite.
type Archive struct {
	db   *sql.DB
	path string
}

// RunSummary describes one archived run.
type RunSummary struct {
	ID          string
	Name        string
	Mode        string
	Options     map[string]string
	UniqueWords int
	Lines       int
	CreatedAt   time.Time
}

// RunRecord is everything archived for one run.
type RunRecord struct {
	RunSummary
	Rows    []Row
	Buckets surrogate.BucketSet
}

// OpenArchive opens or creates the archive database and applies migrations.
func OpenArchive(ctx context.Context, path string) (*Archive, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("create archive directory: %w", err)
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}

	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA foreign_keys = ON",
		"PRAGMA busy_timeout = 5000",
	}
	for _, pragma := range pragmas {
		if _, execErr := db.ExecContext(ctx, pragma); execErr != nil {
			_ = db.Close()
			return nil, fmt.Errorf("apply pragma %q: %w", pragma, execErr)
		}
	}

	archive := &Archive{db: db, path: path}
	if err := archive.applyMigrations(ctx); err != nil {
		_ = db.Close()
		return nil, err
	}
	return archive, nil
}

// Close closes the underlying database connection.
func (a *Archive) Close() error {
	if a == nil || a.db == nil {
		return nil
	}
	return a.db.Close()
}

// Path returns the database file path.
func (a *Archive) Path() string { return a.path }

// Record stores a run in one transaction.
func (a *Archive) Record(ctx context.Context, rec RunRecord) error {
	options, err := json.Marshal(rec.Options)
	if err != nil {
		return fmt.Errorf("encode run options: %w", err)
	}
	created := rec.CreatedAt
	if created.IsZero() {
		created = time.Now()
	}

	return retryOnBusy(ctx, func() error {
		tx, err := a.db.BeginTx(ctx, nil)
		if err != nil {
			return fmt.Errorf("begin archive tx: %w", err)
		}
		defer func() {
			_ = tx.Rollback()
		}()

		if _, err := tx.ExecContext(ctx,
			`INSERT INTO runs (id, name, mode, options, unique_words, lines, created_at) VALUES (?, ?, ?, ?, ?, ?, ?)`,
			rec.ID, rec.Name, rec.Mode, string(options), rec.UniqueWords, rec.Lines, created.UTC().Format(time.RFC3339Nano),
		); err != nil {
			return fmt.Errorf("insert run: %w", err)
		}

		rowStmt, err := tx.PrepareContext(ctx, `INSERT INTO mapping_rows (run_id, position, word, surrogate, count) VALUES (?, ?, ?, ?, ?)`)
		if err != nil {
			return fmt.Errorf("prepare mapping insert: %w", err)
		}
		defer rowStmt.Close()
		for i, row := range rec.Rows {
			if _, err := rowStmt.ExecContext(ctx, rec.ID, i, row.Word, row.Surrogate, row.Count); err != nil {
				return fmt.Errorf("insert mapping row %d: %w", i, err)
			}
		}

		bucketStmt, err := tx.PrepareContext(ctx, `INSERT INTO bucket_members (run_id, bucket, word) VALUES (?, ?, ?)`)
		if err != nil {
			return fmt.Errorf("prepare bucket insert: %w", err)
		}
		defer bucketStmt.Close()
		for _, named := range []struct {
			bucket string
			set    surrogate.WordSet
		}{
			{bucketStopWords, rec.Buckets.StopWords},
			{bucketStopAbove, rec.Buckets.StopAbove},
			{bucketStopBelow, rec.Buckets.StopBelow},
		} {
			for _, word := range named.set.Sorted() {
				if _, err := bucketStmt.ExecContext(ctx, rec.ID, named.bucket, word); err != nil {
					return fmt.Errorf("insert bucket member: %w", err)
				}
			}
		}

		if err := tx.Commit(); err != nil {
			return fmt.Errorf("commit archive tx: %w", err)
		}
		return nil
	})
}

// List returns every archived run, newest first.
func (a *Archive) List(ctx context.Context) ([]RunSummary, error) {
	rows, err := a.db.QueryContext(ctx,
		`SELECT id, name, mode, options, unique_words, lines, created_at FROM runs ORDER BY created_at DESC, id`)
	if err != nil {
		return nil, fmt.Errorf("list runs: %w", err)
	}
	defer rows.Close()

	var out []RunSummary
	for rows.Next() {
		summary, err := scanSummary(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, summary)
	}
	return out, rows.Err()
}

// Run returns the summary of one run.
func (a *Archive) Run(ctx context.Context, id string) (RunSummary, error) {
	row := a.db.QueryRowContext(ctx,
		`SELECT id, name, mode, options, unique_words, lines, created_at FROM runs WHERE id = ?`, strings.TrimSpace(id))
	summary, err := scanSummary(row)
	if errors.Is(err, sql.ErrNoRows) {
		return RunSummary{}, fmt.Errorf("%w: %s", ErrRunNotFound, id)
	}
	return summary, err
}

// Rows returns up to limit mapping rows of a run in export order. limit <= 0
// returns all rows.
func (a *Archive) Rows(ctx context.Context, id string, limit int) ([]Row, error) {
	if _, err := a.Run(ctx, id); err != nil {
		return nil, err
	}
	query := `SELECT word, surrogate, count FROM mapping_rows WHERE run_id = ? ORDER BY position`
	args := []any{id}
	if limit > 0 {
		query += ` LIMIT ?`
		args = append(args, limit)
	}
	rows, err := a.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query mapping rows: %w", err)
	}
	defer rows.Close()

	var out []Row
	for rows.Next() {
		var r Row
		if err := rows.Scan(&r.Word, &r.Surrogate, &r.Count); err != nil {
			return nil, fmt.Errorf("scan mapping row: %w", err)
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

// Buckets returns the bucket membership recorded for a run.
func (a *Archive) Buckets(ctx context.Context, id string) (surrogate.BucketSet, error) {
	if _, err := a.Run(ctx, id); err != nil {
		return surrogate.BucketSet{}, err
	}
	rows, err := a.db.QueryContext(ctx, `SELECT bucket, word FROM bucket_members WHERE run_id = ?`, id)
	if err != nil {
		return surrogate.BucketSet{}, fmt.Errorf("query bucket members: %w", err)
	}
	defer rows.Close()

	buckets := surrogate.BucketSet{
		StopWords: surrogate.WordSet{},
		StopAbove: surrogate.WordSet{},
		StopBelow: surrogate.WordSet{},
	}
	for rows.Next() {
		var bucket, word string
		if err := rows.Scan(&bucket, &word); err != nil {
			return surrogate.BucketSet{}, fmt.Errorf("scan bucket member: %w", err)
		}
		switch bucket {
		case bucketStopWords:
			buckets.StopWords[word] = struct{}{}
		case bucketStopAbove:
			buckets.StopAbove[word] = struct{}{}
		case bucketStopBelow:
			buckets.StopBelow[word] = struct{}{}
		}
	}
	return buckets, rows.Err()
}

type scanner interface {
	Scan(dest ...any) error
}

func scanSummary(s scanner) (RunSummary, error) {
	var (
		summary RunSummary
		options string
		created string
	)
	if err := s.Scan(&summary.ID, &summary.Name, &summary.Mode, &options, &summary.UniqueWords, &summary.Lines, &created); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return RunSummary{}, err
		}
		return RunSummary{}, fmt.Errorf("scan run: %w", err)
	}
	if err := json.Unmarshal([]byte(options), &summary.Options); err != nil {
		return RunSummary{}, fmt.Errorf("decode run options: %w", err)
	}
	ts, err := time.Parse(time.RFC3339Nano, created)
	if err != nil {
		return RunSummary{}, fmt.Errorf("parse run timestamp: %w", err)
	}
	summary.CreatedAt = ts
	return summary, nil
}

func isSQLiteBusy(err error) bool {
	if err == nil {
		return false
	}
	var coder interface{ Code() int }
	if errors.As(err, &coder) && coder.Code() == sqliteBusyCode {
		return true
	}
	msg := err.Error()
	return strings.Contains(msg, "SQLITE_BUSY") || strings.Contains(msg, "database is locked")
}

func retryOnBusy(ctx context.Context, op func() error) error {
	delay := busyRetryInitialBackoff
	var lastErr error
	for attempt := 0; attempt < busyRetryAttempts; attempt++ {
		lastErr = op()
		if lastErr == nil {
			return nil
		}
		if !isSQLiteBusy(lastErr) || attempt == busyRetryAttempts-1 {
			break
		}
		select {
		case <-time.After(delay):
		case <-ctx.Done():
			return ctx.Err()
		}
		if next := delay * 2; next <= busyRetryMaxBackoff {
			delay = next
		}
	}
	return lastErr
}
