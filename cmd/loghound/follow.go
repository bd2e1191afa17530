package loghound

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/loghound/loghound/internal/live"
	"github.com/loghound/loghound/internal/patterns"
	"github.com/loghound/loghound/internal/report"
	"github.com/loghound/loghound/internal/types"
)

var flagFollowPatterns string

func init() {
	cmd := &cobra.Command{
		Use:   "follow <path>",
		Short: "Watch a file or folder and report anomalies as lines arrive",
		Long:  "Follow tails the given log file (or every file in the given folder) and prints a line for each anomaly appended after start. Existing content is skipped.",
		Args:  cobra.ExactArgs(1),
		RunE:  runFollow,
	}
	rootCmd.AddCommand(cmd)
	cmd.Flags().StringVar(&flagFollowPatterns, "patterns", "", "YAML file with custom patterns (pattern: CATEGORY)")
}

func runFollow(_ *cobra.Command, args []string) error {
	abs, _ := filepath.Abs(args[0])

	reg := patterns.NewRegistry()
	if flagFollowPatterns != "" {
		if _, err := reg.LoadCustomFile(flagFollowPatterns); err != nil {
			return fmt.Errorf("load patterns: %w", err)
		}
	}
	set := reg.Snapshot()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	opts := report.PrintOptions{NoColor: flagNoColor || !report.AutoColor(os.Stdout)}
	fmt.Fprintf(os.Stderr, "Following %s (%d patterns), Ctrl-C to stop\n", abs, set.Len())

	err := live.Follow(ctx, abs, set, func(m types.Match) {
		report.PrintLive(os.Stdout, m, opts)
	})
	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}
