package cache

import (
	"encoding/json"
	"os"
	"path/filepath"
	"time"

	"github.com/loghound/loghound/internal/types"
)

const resultsFileName = ".loghound_last_scan.json"

// LastScan stores the most recent aggregate report so the results viewer can
// reopen it without rescanning.
type LastScan struct {
	Report    types.AggregateReport `json:"report"`
	Timestamp time.Time             `json:"timestamp"`
}

// SaveReport persists the report as the last scan for root.
func SaveReport(root string, report types.AggregateReport) error {
	b, err := json.MarshalIndent(LastScan{Report: report, Timestamp: time.Now()}, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(filepath.Join(root, resultsFileName), b, 0644)
}

// LoadReport loads the last scan saved for root.
func LoadReport(root string) (LastScan, error) {
	var last LastScan
	b, err := os.ReadFile(filepath.Join(root, resultsFileName))
	if err != nil {
		return last, err
	}
	if err := json.Unmarshal(b, &last); err != nil {
		return last, err
	}
	return last, nil
}
