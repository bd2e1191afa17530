package types

// Status describes how a per-file scan task ended.
type Status string

const (
	StatusCompleted Status = "completed"
	StatusCancelled Status = "cancelled"
)

// Match is one classified log line: where it was found, the raw line, the
// category assigned, and the pattern source that produced the hit.
type Match struct {
	Path     string `json:"path,omitempty"`
	Line     int    `json:"line"`
	Text     string `json:"text"`
	Category string `json:"category"`
	Pattern  string `json:"pattern"`
}

// ScanResult is the outcome of scanning a single file. Err holds a per-file
// access failure; a result with Err set still counts as completed so one
// unreadable file never aborts the rest of a scan.
type ScanResult struct {
	Path    string  `json:"path"`
	Matches []Match `json:"matches,omitempty"`
	Err     string  `json:"error,omitempty"`
	Status  Status  `json:"status"`
}

// Failed reports whether the file could not be read.
func (r ScanResult) Failed() bool { return r.Err != "" }

// AggregateReport is the deterministic summary of a folder scan. Results are
// sorted by path so two scans of an unchanged folder are byte-identical.
type AggregateReport struct {
	Root            string         `json:"root"`
	TotalFiles      int            `json:"total_files"`
	SuccessfulFiles int            `json:"successful_files"`
	FailedFiles     int            `json:"failed_files"`
	CategoryCounts  map[string]int `json:"category_counts"`
	Results         []ScanResult   `json:"results"`
}

// TotalMatches sums match counts across all results.
func (a AggregateReport) TotalMatches() int {
	n := 0
	for _, r := range a.Results {
		n += len(r.Matches)
	}
	return n
}
