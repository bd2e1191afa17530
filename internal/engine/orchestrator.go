package engine

import (
	"bufio"
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"runtime"
	"sort"

	"github.com/loghound/loghound/internal/cache"
	"github.com/loghound/loghound/internal/ignore"
	"github.com/loghound/loghound/internal/types"
	"golang.org/x/sync/errgroup"
)

const maxWorkers = 16

// workerCount bounds the pool for both tiny and huge jobs:
// min(GOMAXPROCS*3, files, 16). An explicit override is clamped to the same
// ceiling so configuration cannot oversubscribe the pool.
func workerCount(override, fileCount int) int {
	n := override
	if n <= 0 {
		n = runtime.GOMAXPROCS(0) * 3
	}
	if n > maxWorkers {
		n = maxWorkers
	}
	if n > fileCount {
		n = fileCount
	}
	if n < 1 {
		n = 1
	}
	return n
}

// ScanFolder enumerates files under cfg.Root, scans each on a bounded worker
// pool with the snapshot captured in cfg.Patterns, and aggregates the results
// into a deterministic report sorted by path.
//
// A file that cannot be opened is recorded as failed and never aborts the
// rest of the scan. Cancellation is cooperative: already-running tasks finish
// their current line batch, report partial matches with a cancelled status,
// and the partial report is still returned (with ctx.Err() alongside it).
func ScanFolder(ctx context.Context, cfg Config) (types.AggregateReport, error) {
	ign, _ := ignore.Load(filepath.Join(cfg.Root, ".loghoundignore"))
	files, err := Enumerate(cfg, ign)
	if err != nil {
		return types.AggregateReport{Root: cfg.Root}, err
	}

	db := cache.DB{Entries: map[string]cache.Entry{}}
	if !cfg.NoCache {
		db, _ = cache.Load(cfg.Root, cfg.Patterns.Fingerprint())
	}

	results := make([]types.ScanResult, len(files))
	keys := make([]string, len(files))
	var g errgroup.Group
	g.SetLimit(workerCount(cfg.Threads, len(files)))
	for i, rel := range files {
		g.Go(func() error {
			results[i], keys[i] = scanOne(ctx, cfg, rel, db)
			if cfg.Progress != nil {
				cfg.Progress()
			}
			return nil
		})
	}
	_ = g.Wait()

	if !cfg.NoCache {
		updateCache(cfg, results, keys, db)
	}
	return buildReport(cfg.Root, results), ctx.Err()
}

// scanOne runs a single file task. Each task owns its file handle and result
// exclusively; the only shared state is the read-only pattern snapshot and
// the read-only cache loaded before the pool started.
//
// The file is first streamed through the content hash; on a cache hit the
// stored matches replay, otherwise the handle rewinds and the file is
// classified. Both passes hold O(1) memory.
func scanOne(ctx context.Context, cfg Config, rel string, db cache.DB) (types.ScanResult, string) {
	res := types.ScanResult{Path: rel, Status: types.StatusCompleted}
	select {
	case <-ctx.Done():
		res.Status = types.StatusCancelled
		return res, ""
	default:
	}

	f, err := os.Open(filepath.Join(cfg.Root, rel))
	if err != nil {
		res.Err = err.Error()
		return res, ""
	}
	defer f.Close()

	key, err := cache.Key(f)
	if err != nil {
		res.Err = err.Error()
		return res, ""
	}
	if e, ok := db.Entries[rel]; ok && e.Key == key {
		res.Matches = withPath(e.Matches, rel)
		return res, key
	}
	if _, err := f.Seek(0, io.SeekStart); err != nil {
		res.Err = err.Error()
		return res, ""
	}

	br := bufio.NewReaderSize(f, readerBuf)
	if head, _ := br.Peek(800); looksBinary(head) {
		return res, key
	}
	matches, err := ScanReader(ctx, br, cfg.Patterns)
	res.Matches = withPath(matches, rel)
	switch {
	case err == nil:
	case errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded):
		res.Status = types.StatusCancelled
	default:
		res.Err = err.Error()
	}
	return res, key
}

func withPath(matches []types.Match, rel string) []types.Match {
	out := make([]types.Match, len(matches))
	for i, m := range matches {
		m.Path = rel
		out[i] = m
	}
	return out
}

func updateCache(cfg Config, results []types.ScanResult, keys []string, db cache.DB) {
	changed := false
	for i, r := range results {
		if keys[i] == "" || r.Status != types.StatusCompleted || r.Failed() {
			continue
		}
		if e, ok := db.Entries[r.Path]; ok && e.Key == keys[i] {
			continue
		}
		db.Entries[r.Path] = cache.Entry{Key: keys[i], Matches: stripPath(r.Matches)}
		changed = true
	}
	if changed {
		db.Fingerprint = cfg.Patterns.Fingerprint()
		_ = cache.Save(cfg.Root, db)
	}
}

func stripPath(matches []types.Match) []types.Match {
	out := make([]types.Match, len(matches))
	for i, m := range matches {
		m.Path = ""
		out[i] = m
	}
	return out
}

// buildReport imposes the deterministic ordering: results sorted by path,
// per-category counts, and the total = successful + failed invariant.
func buildReport(root string, results []types.ScanResult) types.AggregateReport {
	sort.Slice(results, func(i, j int) bool { return results[i].Path < results[j].Path })
	report := types.AggregateReport{
		Root:           root,
		TotalFiles:     len(results),
		CategoryCounts: map[string]int{},
		Results:        results,
	}
	for _, r := range results {
		if r.Failed() {
			report.FailedFiles++
		} else {
			report.SuccessfulFiles++
		}
		for _, m := range r.Matches {
			report.CategoryCounts[m.Category]++
		}
	}
	return report
}
