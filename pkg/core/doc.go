// Package core provides a small, stable facade over loghound's internal
// engine for external integrations. It deliberately re-exports a narrow API
// surface so third-party tools can depend on a stable import path without
// exposing internal implementation packages.
//
// Example:
//
//	set, _ := core.NewPatternSet(nil)
//	cfg := core.Config{Root: "/var/log/myapp", Patterns: set}
//	report, err := core.Scan(context.Background(), cfg)
//	if err != nil { /* handle */ }
//	_ = core.MarshalReport(os.Stdout, report)
package core
