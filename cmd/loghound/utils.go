package loghound

import (
	"io"
	"os"
	"path/filepath"
	"runtime/debug"

	semver3 "github.com/blang/semver"
	semver "github.com/blang/semver/v4"
	"github.com/rhysd/go-github-selfupdate/selfupdate"

	"github.com/loghound/loghound/internal/types"
)

func selfUpdate() error {
	v := version
	// Use build info if tag overridden at build-time
	if info, ok := debug.ReadBuildInfo(); ok {
		for _, s := range info.Settings {
			if s.Key == "vcs.revision" && len(v) == 0 {
				v = s.Value
			}
		}
	}
	// parse semantic version (strip leading v)
	ver, err := semver.ParseTolerant(v)
	if err != nil {
		ver = semver.MustParse("0.0.0")
	}
	// Update from GitHub Releases: loghound/loghound
	latest, err := selfupdate.UpdateSelf(semver3.MustParse(ver.String()), "loghound/loghound")
	if err != nil {
		return err
	}
	_ = latest
	return nil
}

// singleFileReport wraps matches from one file into a report so the output
// paths are identical for single-file and folder scans.
func singleFileReport(path string, matches []types.Match) types.AggregateReport {
	rel := filepath.Base(path)
	for i := range matches {
		matches[i].Path = rel
	}
	counts := map[string]int{}
	for _, m := range matches {
		counts[m.Category]++
	}
	return types.AggregateReport{
		Root:            filepath.Dir(path),
		TotalFiles:      1,
		SuccessfulFiles: 1,
		CategoryCounts:  counts,
		Results: []types.ScanResult{
			{Path: rel, Matches: matches, Status: types.StatusCompleted},
		},
	}
}

func writeTo(path string, rep types.AggregateReport, write func(io.Writer, types.AggregateReport) error) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	return write(f, rep)
}

func pickString(cli string, local, global *string) string {
	if cli != "" {
		return cli
	}
	if local != nil && *local != "" {
		return *local
	}
	if global != nil && *global != "" {
		return *global
	}
	return ""
}

func pickInt(cli int, local, global *int) int {
	if cli != 0 {
		return cli
	}
	if local != nil && *local != 0 {
		return *local
	}
	if global != nil && *global != 0 {
		return *global
	}
	return 0
}

func pickInt64(cli int64, local, global *int64) int64 {
	if cli != 0 {
		return cli
	}
	if local != nil && *local != 0 {
		return *local
	}
	if global != nil && *global != 0 {
		return *global
	}
	return 0
}

func pickBool(cli bool, local, global *bool) bool {
	if cli {
		return true
	}
	if local != nil {
		return *local
	}
	if global != nil {
		return *global
	}
	return false
}
