package core

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"
)

func TestScan_Smoke(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "app.log"), []byte("ok\nKernel panic - not syncing\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	report, err := Scan(context.Background(), Config{Root: dir, NoCache: true})
	if err != nil {
		t.Fatalf("Scan error: %v", err)
	}
	if report.TotalMatches() != 1 {
		t.Fatalf("expected 1 match, got %d", report.TotalMatches())
	}
	if len(Categories()) == 0 {
		t.Fatal("expected non-empty categories")
	}
}

func TestDetect_DefaultPatterns(t *testing.T) {
	matches := Detect("line one\nsegfault at 0xdeadbeef\n")
	if len(matches) != 1 || matches[0].Line != 2 {
		t.Fatalf("matches = %+v", matches)
	}
}

func TestNewPatternSet_CustomMerge(t *testing.T) {
	set, err := NewPatternSet([]byte("deploy failed: CUSTOM_DEPLOY\n"))
	if err != nil {
		t.Fatal(err)
	}
	if _, _, ok := set.Match("deploy failed at step 3"); !ok {
		t.Fatal("custom pattern not active")
	}

	if _, err := NewPatternSet([]byte("broken(: BAD\n")); err == nil {
		t.Fatal("expected error for invalid regex")
	}
}

func TestMarshalRoundTrip(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "a.log"), []byte("authentication failed for admin\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	report, err := Scan(context.Background(), Config{Root: dir, NoCache: true})
	if err != nil {
		t.Fatal(err)
	}

	var buf bytes.Buffer
	if err := MarshalReport(&buf, report); err != nil {
		t.Fatal(err)
	}
	back, err := UnmarshalReport(&buf)
	if err != nil {
		t.Fatal(err)
	}
	if back.TotalMatches() != report.TotalMatches() || back.Root != report.Root {
		t.Fatalf("round trip mismatch: %+v vs %+v", back, report)
	}
}
