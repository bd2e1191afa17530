package loghound

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/loghound/loghound/internal/cache"
	"github.com/loghound/loghound/internal/engine"
	"github.com/loghound/loghound/internal/report"
	"github.com/loghound/loghound/internal/tui"
	"github.com/loghound/loghound/internal/types"
)

var flagResultsTUI bool

func init() {
	cmd := &cobra.Command{
		Use:   "results [path]",
		Short: "Show the last scan report for a folder",
		Long:  "Results loads the report persisted by the previous scan of the folder (default: current directory) without rescanning.",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runResults,
	}
	rootCmd.AddCommand(cmd)
	cmd.Flags().BoolVar(&flagResultsTUI, "tui", false, "browse results interactively")
}

func runResults(_ *cobra.Command, args []string) error {
	root := "."
	if len(args) == 1 {
		root = args[0]
	}
	abs, _ := filepath.Abs(root)

	last, err := cache.LoadReport(abs)
	if err != nil {
		return fmt.Errorf("no saved results for %s, run 'loghound scan -p %s' first", abs, root)
	}

	if flagResultsTUI && !flagJSON {
		rescan := func() (types.AggregateReport, error) {
			cfg, err := buildConfig(abs)
			if err != nil {
				return types.AggregateReport{}, err
			}
			rep, err := engine.ScanFolder(context.Background(), cfg)
			if err == nil {
				_ = cache.SaveReport(abs, rep)
			}
			return rep, err
		}
		return tui.RunCached(last.Report, rescan, last.Timestamp)
	}

	if flagJSON {
		return report.WriteJSON(os.Stdout, last.Report)
	}
	fmt.Fprintf(os.Stderr, "Results from %s\n\n", last.Timestamp.Format("2006-01-02 15:04:05"))
	opts := report.PrintOptions{NoColor: flagNoColor || !report.AutoColor(os.Stdout)}
	report.PrintReport(os.Stdout, last.Report, opts)
	return nil
}
