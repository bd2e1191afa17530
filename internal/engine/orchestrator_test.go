package engine

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"reflect"
	"runtime"
	"testing"

	"github.com/loghound/loghound/internal/ignore"
	"github.com/loghound/loghound/internal/patterns"
	"github.com/loghound/loghound/internal/types"
)

func writeFile(t *testing.T, dir, name, body string) string {
	t.Helper()
	p := filepath.Join(dir, name)
	if err := os.MkdirAll(filepath.Dir(p), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(p, []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}
	return p
}

func TestScanFolderAggregation(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "a.log", "fine\nKernel panic at boot\n")
	writeFile(t, dir, "sub/b.log", "authentication failed\nLink is down\n")
	writeFile(t, dir, "c.log", "nothing to see\n")

	cfg := Config{Root: dir, Patterns: patterns.NewRegistry().Snapshot(), NoCache: true}
	report, err := ScanFolder(context.Background(), cfg)
	if err != nil {
		t.Fatal(err)
	}
	if report.TotalFiles != 3 || report.SuccessfulFiles != 3 || report.FailedFiles != 0 {
		t.Fatalf("counts = %d/%d/%d", report.TotalFiles, report.SuccessfulFiles, report.FailedFiles)
	}
	if report.CategoryCounts["KERNEL_PANIC"] != 1 ||
		report.CategoryCounts["AUTH_FAILURE"] != 1 ||
		report.CategoryCounts["INTERFACE_DOWN"] != 1 {
		t.Fatalf("category counts = %v", report.CategoryCounts)
	}
	// results sorted by path
	var paths []string
	for _, r := range report.Results {
		paths = append(paths, r.Path)
	}
	want := []string{"a.log", "c.log", filepath.Join("sub", "b.log")}
	if !reflect.DeepEqual(paths, want) {
		t.Fatalf("paths = %v, want %v", paths, want)
	}
	// matches carry their file path
	if report.Results[0].Matches[0].Path != "a.log" {
		t.Fatalf("match path = %q", report.Results[0].Matches[0].Path)
	}
}

func TestScanFolderEmpty(t *testing.T) {
	cfg := Config{Root: t.TempDir(), Patterns: patterns.NewRegistry().Snapshot(), NoCache: true}
	report, err := ScanFolder(context.Background(), cfg)
	if err != nil {
		t.Fatal(err)
	}
	if report.TotalFiles != 0 || len(report.Results) != 0 {
		t.Fatalf("empty folder produced %+v", report)
	}
}

func TestScanFolderMissingRoot(t *testing.T) {
	cfg := Config{Root: filepath.Join(t.TempDir(), "gone"), Patterns: patterns.NewRegistry().Snapshot(), NoCache: true}
	if _, err := ScanFolder(context.Background(), cfg); err == nil {
		t.Fatal("expected error for missing root")
	}
}

func TestScanFolderUnreadableFileIsIsolated(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("permission bits unreliable on windows")
	}
	if os.Getuid() == 0 {
		t.Skip("running as root, permissions are not enforced")
	}
	dir := t.TempDir()
	writeFile(t, dir, "good1.log", "Kernel panic\n")
	bad := writeFile(t, dir, "bad.log", "Kernel panic\n")
	writeFile(t, dir, "good2.log", "carrier lost\n")
	if err := os.Chmod(bad, 0o000); err != nil {
		t.Fatal(err)
	}

	cfg := Config{Root: dir, Patterns: patterns.NewRegistry().Snapshot(), NoCache: true}
	report, err := ScanFolder(context.Background(), cfg)
	if err != nil {
		t.Fatal(err)
	}
	if report.TotalFiles != 3 || report.SuccessfulFiles != 2 || report.FailedFiles != 1 {
		t.Fatalf("counts = %d/%d/%d", report.TotalFiles, report.SuccessfulFiles, report.FailedFiles)
	}
	for _, r := range report.Results {
		if r.Path == "bad.log" {
			if !r.Failed() || r.Status != types.StatusCompleted {
				t.Fatalf("bad.log result = %+v", r)
			}
		} else if r.Failed() {
			t.Fatalf("healthy file marked failed: %+v", r)
		}
	}
}

func TestScanFolderDeterministicAcrossRuns(t *testing.T) {
	dir := t.TempDir()
	for i := 0; i < 20; i++ {
		writeFile(t, dir, filepath.Join("logs", string(rune('a'+i))+".log"), "Oops\nLink is down\nfine\n")
	}
	cfg := Config{Root: dir, Patterns: patterns.NewRegistry().Snapshot(), NoCache: true, Threads: 8}
	first, err := ScanFolder(context.Background(), cfg)
	if err != nil {
		t.Fatal(err)
	}
	second, err := ScanFolder(context.Background(), cfg)
	if err != nil {
		t.Fatal(err)
	}
	a, _ := json.Marshal(first)
	b, _ := json.Marshal(second)
	if string(a) != string(b) {
		t.Fatal("two scans of an unchanged folder differ")
	}
}

func TestScanFolderCancelledReturnsPartialReport(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "a.log", "Kernel panic\n")
	writeFile(t, dir, "b.log", "Kernel panic\n")
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	cfg := Config{Root: dir, Patterns: patterns.NewRegistry().Snapshot(), NoCache: true}
	report, err := ScanFolder(ctx, cfg)
	if err == nil {
		t.Fatal("expected ctx error alongside the partial report")
	}
	if report.TotalFiles != 2 {
		t.Fatalf("partial report missing results: %+v", report)
	}
	for _, r := range report.Results {
		if r.Status != types.StatusCancelled {
			t.Fatalf("result not cancelled: %+v", r)
		}
	}
}

func TestScanFolderSkipsBinary(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "data.bin", "Kernel panic\x00binary\n")
	cfg := Config{Root: dir, Patterns: patterns.NewRegistry().Snapshot(), NoCache: true}
	report, err := ScanFolder(context.Background(), cfg)
	if err != nil {
		t.Fatal(err)
	}
	if report.TotalMatches() != 0 {
		t.Fatal("binary file was classified")
	}
	if report.SuccessfulFiles != 1 {
		t.Fatalf("binary skip must not count as failure: %+v", report)
	}
}

func TestScanFolderCacheReplaysMatches(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "a.log", "Kernel panic\n")
	cfg := Config{Root: dir, Patterns: patterns.NewRegistry().Snapshot()}
	first, err := ScanFolder(context.Background(), cfg)
	if err != nil {
		t.Fatal(err)
	}
	second, err := ScanFolder(context.Background(), cfg)
	if err != nil {
		t.Fatal(err)
	}
	a, _ := json.Marshal(first)
	b, _ := json.Marshal(second)
	if string(a) != string(b) {
		t.Fatal("cached scan differs from cold scan")
	}
	if second.CategoryCounts["KERNEL_PANIC"] != 1 {
		t.Fatalf("cache dropped matches: %v", second.CategoryCounts)
	}
}

func TestCacheInvalidatedByRewriteWithSameSizeAndMtime(t *testing.T) {
	dir := t.TempDir()
	p := writeFile(t, dir, "a.log", "Kernel panic\n")
	cfg := Config{Root: dir, Patterns: patterns.NewRegistry().Snapshot()}

	first, err := ScanFolder(context.Background(), cfg)
	if err != nil {
		t.Fatal(err)
	}
	if first.CategoryCounts["KERNEL_PANIC"] != 1 {
		t.Fatalf("cold scan counts = %v", first.CategoryCounts)
	}

	// rewrite with the same byte length and restore the mtime: only the
	// content key can tell the file changed
	info, err := os.Stat(p)
	if err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(p, []byte("all good now\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := os.Chtimes(p, info.ModTime(), info.ModTime()); err != nil {
		t.Fatal(err)
	}

	second, err := ScanFolder(context.Background(), cfg)
	if err != nil {
		t.Fatal(err)
	}
	if second.TotalMatches() != 0 {
		t.Fatalf("stale matches replayed after rewrite: %v", second.CategoryCounts)
	}
}

func TestWorkerCount(t *testing.T) {
	procs := runtime.GOMAXPROCS(0)
	cases := []struct {
		override, files, want int
	}{
		{0, 1000, min(procs*3, maxWorkers)},
		{0, 2, 2},
		{4, 1000, 4},
		{64, 1000, maxWorkers},
		{0, 0, 1},
	}
	for _, tc := range cases {
		if got := workerCount(tc.override, tc.files); got != tc.want {
			t.Errorf("workerCount(%d, %d) = %d, want %d", tc.override, tc.files, got, tc.want)
		}
	}
}

func TestEnumerateFilters(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "keep.log", "x\n")
	writeFile(t, dir, "skip.txt", "x\n")
	writeFile(t, dir, ".git/objects/junk", "x\n")
	writeFile(t, dir, "ignored.log", "x\n")
	writeFile(t, dir, ".loghoundignore", "ignored.log\n")

	cfg := Config{Root: dir, IncludeGlobs: "**/*.log"}
	ign, err := ignore.Load(filepath.Join(dir, ".loghoundignore"))
	if err != nil {
		t.Fatal(err)
	}
	files, err := Enumerate(cfg, ign)
	if err != nil {
		t.Fatal(err)
	}
	if len(files) != 1 || files[0] != "keep.log" {
		t.Fatalf("files = %v", files)
	}
}
