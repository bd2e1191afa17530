package engine

import (
	"context"
	"reflect"
	"strings"
	"testing"

	"github.com/loghound/loghound/internal/patterns"
)

func defaultSet(t *testing.T) *patterns.Set {
	t.Helper()
	return patterns.NewRegistry().Snapshot()
}

func TestScanReaderLineNumbersAndBlankLines(t *testing.T) {
	set := defaultSet(t)
	text := "ok line\n\n  \nKernel panic - not syncing\nfine again\nOut of memory: Kill process 99\n"
	matches, err := ScanReader(context.Background(), strings.NewReader(text), set)
	if err != nil {
		t.Fatal(err)
	}
	if len(matches) != 2 {
		t.Fatalf("got %d matches, want 2: %+v", len(matches), matches)
	}
	if matches[0].Line != 4 || matches[0].Category != "KERNEL_PANIC" {
		t.Fatalf("first match = %+v", matches[0])
	}
	if matches[1].Line != 6 || matches[1].Category != "OUT_OF_MEMORY" {
		t.Fatalf("second match = %+v", matches[1])
	}
}

func TestScanReaderTrimsLineText(t *testing.T) {
	set := defaultSet(t)
	matches, err := ScanReader(context.Background(), strings.NewReader("   Kernel panic here\t\r\n"), set)
	if err != nil {
		t.Fatal(err)
	}
	if len(matches) != 1 || matches[0].Text != "Kernel panic here" {
		t.Fatalf("matches = %+v", matches)
	}
}

func TestScanReaderFirstMatchPerLine(t *testing.T) {
	set := defaultSet(t)
	// both "Kernel panic" and "Call Trace" appear; earliest registered wins
	matches, err := ScanReader(context.Background(), strings.NewReader("Kernel panic with Call Trace\n"), set)
	if err != nil {
		t.Fatal(err)
	}
	if len(matches) != 1 {
		t.Fatalf("one line must yield at most one match, got %d", len(matches))
	}
	if matches[0].Category != "KERNEL_PANIC" {
		t.Fatalf("category = %q", matches[0].Category)
	}
}

func TestScanReaderDeterministic(t *testing.T) {
	set := defaultSet(t)
	text := strings.Repeat("noise\nLink is down\nmore noise\nauthentication failed for user\n", 50)
	first, err := ScanReader(context.Background(), strings.NewReader(text), set)
	if err != nil {
		t.Fatal(err)
	}
	second, err := ScanReader(context.Background(), strings.NewReader(text), set)
	if err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(first, second) {
		t.Fatal("same input produced different match lists")
	}
	if len(first) != 100 {
		t.Fatalf("got %d matches, want 100", len(first))
	}
}

func TestScanReaderCancellation(t *testing.T) {
	set := defaultSet(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	matches, err := ScanReader(ctx, strings.NewReader("Kernel panic\n"), set)
	if err == nil {
		t.Fatal("expected context error")
	}
	if len(matches) != 0 {
		t.Fatalf("cancelled before first batch, got %d matches", len(matches))
	}
}

func TestScanReaderOverlongLine(t *testing.T) {
	set := defaultSet(t)
	long := strings.Repeat("x", 3*readerBuf)
	text := long + "\nKernel panic after the monster line\n"
	matches, err := ScanReader(context.Background(), strings.NewReader(text), set)
	if err != nil {
		t.Fatal(err)
	}
	if len(matches) != 1 || matches[0].Line != 2 {
		t.Fatalf("line accounting broken across overlong lines: %+v", matches)
	}
}

func TestDetectEmptyPatternSet(t *testing.T) {
	r := patterns.NewRegistry()
	for _, p := range r.List() {
		r.Remove(p.Source)
	}
	set := r.Snapshot()
	for _, text := range []string{"", "Kernel panic", "ERROR FAIL Timeout", strings.Repeat("Oops\n", 10)} {
		if got := Detect(text, set); len(got) != 0 {
			t.Fatalf("empty set produced matches for %q: %+v", text, got)
		}
	}
}

func TestDetect(t *testing.T) {
	matches := Detect("all good\nReboot Reason: watchdog\n", defaultSet(t))
	if len(matches) != 1 || matches[0].Category != "DEVICE_REBOOT" || matches[0].Line != 2 {
		t.Fatalf("matches = %+v", matches)
	}
}
