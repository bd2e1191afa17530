package report

import (
	"fmt"
	"io"
	"os"
	"sort"
	"time"

	"github.com/loghound/loghound/internal/types"
	"github.com/olekukonko/tablewriter"
	"golang.org/x/term"
)

// PrintOptions controls the text rendering of a report.
type PrintOptions struct {
	NoColor bool
	Verbose bool
}

// AutoColor reports whether f is an interactive terminal, the default for
// enabling colored output.
func AutoColor(f *os.File) bool {
	return term.IsTerminal(int(f.Fd()))
}

// PrintReport writes the human-readable scan report: one line per match in
// path order, failures, then a per-category summary table and totals.
func PrintReport(w io.Writer, report types.AggregateReport, opts PrintOptions) {
	if report.TotalMatches() == 0 && report.FailedFiles == 0 {
		fmt.Fprintln(w, "No anomalies found ✅")
	}
	for _, r := range report.Results {
		if r.Failed() {
			fmt.Fprintf(w, "%s %s: %s\n", paint("FAILED", colRed, opts), r.Path, r.Err)
			continue
		}
		if r.Status == types.StatusCancelled && opts.Verbose {
			fmt.Fprintf(w, "%s %s\n", paint("CANCELLED", colYellow, opts), r.Path)
		}
		for _, m := range r.Matches {
			fmt.Fprintf(w, "%s %s:%d  %s\n", paint(m.Category, colCyan, opts), r.Path, m.Line, m.Text)
		}
	}

	if len(report.CategoryCounts) > 0 {
		fmt.Fprintln(w)
		printSummaryTable(w, report.CategoryCounts)
	}
	fmt.Fprintln(w)
	fmt.Fprintf(w, "Files scanned: %d (ok: %d, failed: %d)\n",
		report.TotalFiles, report.SuccessfulFiles, report.FailedFiles)
	fmt.Fprintf(w, "Anomalies: %d\n", report.TotalMatches())
}

// PrintLive writes a single match in follow mode, prefixed with a wall-clock
// timestamp since live output has no surrounding report.
func PrintLive(w io.Writer, m types.Match, opts PrintOptions) {
	fmt.Fprintf(w, "%s %s %s:%d  %s\n",
		time.Now().Format("15:04:05"), paint(m.Category, colCyan, opts), m.Path, m.Line, m.Text)
}

func printSummaryTable(w io.Writer, counts map[string]int) {
	cats := make([]string, 0, len(counts))
	for c := range counts {
		cats = append(cats, c)
	}
	sort.Strings(cats)
	tbl := tablewriter.NewTable(w)
	tbl.Header([]string{"Category", "Count"})
	for _, c := range cats {
		_ = tbl.Append([]string{c, fmt.Sprintf("%d", counts[c])})
	}
	_ = tbl.Render()
}

const (
	colRed    = "31"
	colYellow = "33"
	colCyan   = "36"
)

func paint(s, col string, opts PrintOptions) string {
	if opts.NoColor {
		return s
	}
	return "\x1b[" + col + "m" + s + "\x1b[0m"
}
