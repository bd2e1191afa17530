package loghound

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/loghound/loghound/internal/patterns"
)

func init() {
	cmd := &cobra.Command{
		Use:   "patterns",
		Short: "Inspect and validate anomaly patterns",
	}
	rootCmd.AddCommand(cmd)

	var listFile string
	list := &cobra.Command{
		Use:   "list",
		Short: "List active patterns and their categories",
		RunE: func(_ *cobra.Command, _ []string) error {
			reg := patterns.NewRegistry()
			if listFile != "" {
				if _, err := reg.LoadCustomFile(listFile); err != nil {
					return err
				}
			}
			for _, p := range reg.List() {
				origin := " "
				if p.Origin == patterns.OriginCustom {
					origin = "*"
				}
				fmt.Printf("%s %-24s %s\n", origin, p.Category, p.Source)
			}
			fmt.Fprintf(os.Stderr, "%d patterns (* = custom)\n", len(reg.List()))
			return nil
		},
	}
	list.Flags().StringVar(&listFile, "patterns", "", "YAML file with custom patterns to merge")
	cmd.AddCommand(list)

	check := &cobra.Command{
		Use:   "check <file>",
		Short: "Validate a custom patterns file without scanning",
		Args:  cobra.ExactArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			b, err := os.ReadFile(args[0])
			if err != nil {
				return err
			}
			rules, err := patterns.ParseCustom(b)
			if err != nil {
				return err
			}
			reg := patterns.NewRegistry()
			n, err := reg.AddCustom(rules)
			if err != nil {
				return err
			}
			fmt.Printf("%s: %d valid patterns\n", args[0], n)
			return nil
		},
	}
	cmd.AddCommand(check)

	categories := &cobra.Command{
		Use:   "categories",
		Short: "List the categories the default patterns can report",
		Run: func(_ *cobra.Command, _ []string) {
			for _, c := range patterns.NewRegistry().Snapshot().Categories() {
				fmt.Println(c)
			}
		},
	}
	cmd.AddCommand(categories)
}
