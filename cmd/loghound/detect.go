package loghound

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/loghound/loghound/internal/engine"
	"github.com/loghound/loghound/internal/patterns"
)

var flagDetectPatterns string

func init() {
	cmd := &cobra.Command{
		Use:   "detect [file]",
		Short: "Classify a text blob from a file or stdin",
		Long:  "Detect reads one blob of text (a file argument, or stdin when omitted) and prints each anomalous line with its category.",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runDetect,
	}
	rootCmd.AddCommand(cmd)
	cmd.Flags().StringVar(&flagDetectPatterns, "patterns", "", "YAML file with custom patterns (pattern: CATEGORY)")
}

func runDetect(_ *cobra.Command, args []string) error {
	var data []byte
	var err error
	if len(args) == 1 {
		data, err = os.ReadFile(args[0])
	} else {
		data, err = io.ReadAll(os.Stdin)
	}
	if err != nil {
		return fmt.Errorf("read input: %w", err)
	}

	reg := patterns.NewRegistry()
	if flagDetectPatterns != "" {
		if _, err := reg.LoadCustomFile(flagDetectPatterns); err != nil {
			return fmt.Errorf("load patterns: %w", err)
		}
	}

	matches := engine.Detect(string(data), reg.Snapshot())
	if flagJSON {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(matches)
	}
	for _, m := range matches {
		fmt.Printf("%s %d  %s\n", m.Category, m.Line, m.Text)
	}
	if len(matches) == 0 {
		fmt.Println("No anomalies found ✅")
	}
	return nil
}
