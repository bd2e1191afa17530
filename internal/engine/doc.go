// Package engine contains the scanning core: the streaming line scanner that
// classifies one input with a pattern snapshot, the folder walker, and the
// concurrent orchestrator that fans files out to a bounded worker pool and
// folds the per-file results into a deterministic aggregate report.
package engine
