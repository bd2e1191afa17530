package engine

import (
	"context"
	"strings"

	"github.com/loghound/loghound/internal/patterns"
	"github.com/loghound/loghound/internal/types"
)

// Config controls a folder scan: scope, filters, and performance knobs.
// Patterns is the snapshot captured at scan start; registry mutations made
// while the scan runs never affect it.
type Config struct {
	Root         string
	Patterns     *patterns.Set
	IncludeGlobs string
	ExcludeGlobs string
	MaxBytes     int64
	Threads      int
	NoCache      bool
	Progress     func()
}

// Detect classifies an in-memory text blob line by line using the given
// snapshot. It never fails: an empty snapshot simply yields no matches.
func Detect(text string, set *patterns.Set) []types.Match {
	matches, _ := ScanReader(context.Background(), strings.NewReader(text), set)
	return matches
}
