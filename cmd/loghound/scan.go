package loghound

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/loghound/loghound/internal/cache"
	"github.com/loghound/loghound/internal/config"
	"github.com/loghound/loghound/internal/engine"
	"github.com/loghound/loghound/internal/patterns"
	"github.com/loghound/loghound/internal/report"
	"github.com/loghound/loghound/internal/tui"
	"github.com/loghound/loghound/internal/types"
	"github.com/loghound/loghound/internal/update"
)

var (
	flagPath     string
	flagInclude  string
	flagExclude  string
	flagMaxBytes int64
	flagPatterns string
	flagJSONOut  string
	flagCSVOut   string
	flagTUI      bool
	flagVerbose  bool
)

func init() {
	cmd := &cobra.Command{
		Use:   "scan",
		Short: "Scan a file or folder for log anomalies",
		RunE:  runScan,
	}
	rootCmd.AddCommand(cmd)

	cmd.Flags().StringVarP(&flagPath, "path", "p", ".", "file or folder to scan")
	cmd.Flags().StringVar(&flagInclude, "include", "", "comma-separated include globs")
	cmd.Flags().StringVar(&flagExclude, "exclude", "", "comma-separated exclude globs")
	cmd.Flags().Int64Var(&flagMaxBytes, "max-bytes", 0, "skip files larger than this (0 = no limit)")
	cmd.Flags().StringVar(&flagPatterns, "patterns", "", "YAML file with custom patterns (pattern: CATEGORY)")
	cmd.Flags().StringVar(&flagJSONOut, "json-out", "", "write JSON report to this file")
	cmd.Flags().StringVar(&flagCSVOut, "csv-out", "", "write CSV report to this file")
	cmd.Flags().BoolVar(&flagTUI, "tui", false, "browse results interactively after the scan")
	cmd.Flags().BoolVarP(&flagVerbose, "verbose", "v", false, "report cancelled files and matched patterns")
}

// buildConfig resolves flags against local and global config files
// (CLI > local > global) and assembles the engine config.
func buildConfig(abs string) (engine.Config, error) {
	var gcfg, lcfg config.FileConfig
	if c, err := config.LoadGlobal(); err == nil {
		gcfg = c
	}
	if c, err := config.LoadLocal(abs); err == nil {
		lcfg = c
	}

	reg := patterns.NewRegistry()
	if pf := pickString(flagPatterns, lcfg.PatternsFile, gcfg.PatternsFile); pf != "" {
		if n, err := reg.LoadCustomFile(pf); err != nil {
			return engine.Config{}, fmt.Errorf("load patterns: %w", err)
		} else if flagVerbose {
			fmt.Fprintf(os.Stderr, "loaded %d custom patterns from %s\n", n, pf)
		}
	}

	cfg := engine.Config{
		Root:         abs,
		Patterns:     reg.Snapshot(),
		IncludeGlobs: pickString(flagInclude, lcfg.Include, gcfg.Include),
		ExcludeGlobs: pickString(flagExclude, lcfg.Exclude, gcfg.Exclude),
		MaxBytes:     pickInt64(flagMaxBytes, lcfg.MaxBytes, gcfg.MaxBytes),
		Threads:      pickInt(flagThreads, lcfg.Threads, gcfg.Threads),
		NoCache:      pickBool(flagNoCache, lcfg.NoCache, gcfg.NoCache),
	}
	return cfg, nil
}

func runScan(_ *cobra.Command, _ []string) error {
	abs, _ := filepath.Abs(flagPath)
	info, err := os.Stat(abs)
	if err != nil {
		return fmt.Errorf("scan error: %w", err)
	}

	cfg, err := buildConfig(abs)
	if err != nil {
		return err
	}

	if !flagJSON && !flagNoUpdateCheck {
		if latest, newer, _ := update.Check(version, false); newer && latest != "" {
			fmt.Fprintf(os.Stderr, "(new version available: v%s)  run 'loghound --self-update' to upgrade\n", latest)
		}
	}
	if flagSelfUpdate {
		if err := selfUpdate(); err == nil {
			fmt.Fprintln(os.Stderr, "updated to latest; re-run command")
			return nil
		}
	}

	// Ctrl-C produces a partial report instead of a hard kill
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if !info.IsDir() {
		return scanSingleFile(ctx, cfg, abs)
	}

	if flagVerbose && !flagJSON {
		fmt.Fprintf(os.Stderr, "Scanning %s with %d patterns...\n", abs, cfg.Patterns.Len())
	}
	rep, scanErr := engine.ScanFolder(ctx, cfg)
	_ = cache.SaveReport(abs, rep)

	if err := emitReport(rep); err != nil {
		return err
	}
	if flagTUI && !flagJSON {
		rescan := func() (types.AggregateReport, error) {
			return engine.ScanFolder(context.Background(), cfg)
		}
		if err := tui.Run(rep, rescan); err != nil {
			return err
		}
	}
	if scanErr != nil {
		return fmt.Errorf("scan interrupted: %w", scanErr)
	}
	return nil
}

// scanSingleFile classifies one file without the folder machinery.
func scanSingleFile(ctx context.Context, cfg engine.Config, path string) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("scan error: %w", err)
	}
	defer f.Close()

	matches, err := engine.ScanReader(ctx, f, cfg.Patterns)
	if err != nil {
		return fmt.Errorf("scan interrupted: %w", err)
	}
	rep := singleFileReport(path, matches)
	return emitReport(rep)
}

func emitReport(rep types.AggregateReport) error {
	if flagJSON {
		if err := report.WriteJSON(os.Stdout, rep); err != nil {
			return err
		}
	} else {
		opts := report.PrintOptions{NoColor: flagNoColor || !report.AutoColor(os.Stdout), Verbose: flagVerbose}
		report.PrintReport(os.Stdout, rep, opts)
	}
	if flagJSONOut != "" {
		if err := writeTo(flagJSONOut, rep, report.WriteJSON); err != nil {
			return fmt.Errorf("json export: %w", err)
		}
	}
	if flagCSVOut != "" {
		if err := writeTo(flagCSVOut, rep, report.WriteCSV); err != nil {
			return fmt.Errorf("csv export: %w", err)
		}
	}
	return nil
}
