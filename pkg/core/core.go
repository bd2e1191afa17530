package core

import (
	"context"

	"github.com/loghound/loghound/internal/engine"
	"github.com/loghound/loghound/internal/patterns"
	"github.com/loghound/loghound/internal/types"
)

// Re-export selected internal types as a stable public API surface.
// These are type aliases so external consumers can depend on a stable path.
// We can replace these with decoupled structs later without breaking callers.
type Config = engine.Config
type Match = types.Match
type Report = types.AggregateReport
type Pattern = patterns.Pattern

// NewPatternSet builds the default pattern snapshot, merged with optional
// custom rules in YAML form (pattern: CATEGORY mapping). The snapshot plugs
// into Config.Patterns.
func NewPatternSet(customYAML []byte) (*patterns.Set, error) {
	reg := patterns.NewRegistry()
	if len(customYAML) > 0 {
		if _, err := reg.LoadCustom(customYAML); err != nil {
			return nil, err
		}
	}
	return reg.Snapshot(), nil
}

// Scan is the stable entrypoint for other programs. A nil Patterns field is
// filled with the default set.
func Scan(ctx context.Context, cfg Config) (Report, error) {
	if cfg.Patterns == nil {
		cfg.Patterns = patterns.NewRegistry().Snapshot()
	}
	return engine.ScanFolder(ctx, cfg)
}

// Detect classifies an in-memory text blob with the default patterns.
// This is exposed for convenience to avoid importing internals directly.
func Detect(text string) []Match {
	return engine.Detect(text, patterns.NewRegistry().Snapshot())
}

// Categories returns the categories the default patterns can report.
func Categories() []string {
	return patterns.NewRegistry().Snapshot().Categories()
}
