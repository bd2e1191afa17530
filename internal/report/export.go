package report

import (
	"encoding/csv"
	"encoding/json"
	"io"
	"strconv"

	"github.com/loghound/loghound/internal/types"
)

// Record is one exported match row. The export schema is a flat ordered
// sequence of records plus a per-category summary.
type Record struct {
	FilePath       string `json:"file_path"`
	LineNumber     int    `json:"line_number"`
	LineText       string `json:"line_text"`
	Category       string `json:"category"`
	MatchedPattern string `json:"matched_pattern"`
}

// Export is the serialized form of an aggregate report.
type Export struct {
	Root            string         `json:"root"`
	TotalFiles      int            `json:"total_files"`
	SuccessfulFiles int            `json:"successful_files"`
	FailedFiles     int            `json:"failed_files"`
	Records         []Record       `json:"records"`
	Summary         map[string]int `json:"summary"`
}

// BuildExport flattens a report into export records, preserving the report's
// path order and per-file line order.
func BuildExport(report types.AggregateReport) Export {
	out := Export{
		Root:            report.Root,
		TotalFiles:      report.TotalFiles,
		SuccessfulFiles: report.SuccessfulFiles,
		FailedFiles:     report.FailedFiles,
		Records:         []Record{},
		Summary:         report.CategoryCounts,
	}
	for _, r := range report.Results {
		for _, m := range r.Matches {
			out.Records = append(out.Records, Record{
				FilePath:       r.Path,
				LineNumber:     m.Line,
				LineText:       m.Text,
				Category:       m.Category,
				MatchedPattern: m.Pattern,
			})
		}
	}
	return out
}

// WriteJSON writes the export as indented JSON.
func WriteJSON(w io.Writer, report types.AggregateReport) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(BuildExport(report))
}

// WriteCSV writes the export records as CSV with a header row.
func WriteCSV(w io.Writer, report types.AggregateReport) error {
	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"file_path", "line_number", "line_text", "category", "matched_pattern"}); err != nil {
		return err
	}
	for _, rec := range BuildExport(report).Records {
		row := []string{rec.FilePath, strconv.Itoa(rec.LineNumber), rec.LineText, rec.Category, rec.MatchedPattern}
		if err := cw.Write(row); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}
