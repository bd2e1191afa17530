package core_test

import (
	"context"
	"fmt"
	"os"

	"github.com/loghound/loghound/pkg/core"
)

// ExampleScan demonstrates how to scan a folder of logs.
func ExampleScan() {
	set, err := core.NewPatternSet(nil)
	if err != nil {
		panic(err)
	}

	cfg := core.Config{
		Root:         "/var/log/myapp",
		Patterns:     set,
		IncludeGlobs: "*.log",     // only scan log files (optional)
		MaxBytes:     1024 * 1024, // skip files larger than 1MB
	}

	report, err := core.Scan(context.Background(), cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Scan failed: %v\n", err)
		return
	}

	if report.TotalMatches() == 0 {
		fmt.Println("No anomalies found.")
	} else {
		fmt.Printf("Found %d anomalies in %d files.\n", report.TotalMatches(), report.TotalFiles)
		_ = core.MarshalReport(os.Stdout, report)
	}
}

// ExampleDetect classifies a blob of text without touching the filesystem.
func ExampleDetect() {
	text := "service started\nOut of memory: Kill process 1234 (java)\n"
	for _, m := range core.Detect(text) {
		fmt.Printf("%s at line %d: %s\n", m.Category, m.Line, m.Text)
	}
	// Output:
	// OUT_OF_MEMORY at line 2: Out of memory: Kill process 1234 (java)
}
