package loghound

import (
	"bytes"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/loghound/loghound/internal/patterns"
)

// gendocs regenerates the pattern categories section in README.md between
// the markers <!-- BEGIN:PATTERN_CATEGORIES --> and <!-- END:PATTERN_CATEGORIES -->.
func init() {
	cmd := &cobra.Command{
		Use:   "gendocs",
		Short: "Regenerate README pattern categories",
		RunE: func(_ *cobra.Command, _ []string) error {
			path := "README.md"
			b, err := os.ReadFile(path)
			if err != nil {
				return err
			}
			start := []byte("<!-- BEGIN:PATTERN_CATEGORIES -->")
			end := []byte("<!-- END:PATTERN_CATEGORIES -->")
			i := bytes.Index(b, start)
			j := bytes.Index(b, end)
			if i < 0 || j < 0 || j <= i {
				return fmt.Errorf("markers not found in README.md")
			}

			// Rough grouping by category prefix; keep in sync lightly
			cats := patterns.NewRegistry().Snapshot().Categories()
			var auth, netw, mem, crash, cfg, other []string
			for _, c := range cats {
				switch {
				case strings.HasPrefix(c, "AUTH_"):
					auth = append(auth, c)
				case strings.Contains(c, "MEMORY") || strings.Contains(c, "ALLOCATION"):
					mem = append(mem, c)
				case strings.Contains(c, "PANIC") || strings.Contains(c, "TRACE") || strings.Contains(c, "FAULT") || strings.Contains(c, "CRASH") || strings.Contains(c, "DUMP"):
					crash = append(crash, c)
				case strings.HasPrefix(c, "CONFIG_"):
					cfg = append(cfg, c)
				case strings.Contains(c, "INTERFACE") || strings.Contains(c, "LATENCY") || strings.Contains(c, "ROUTE") || strings.Contains(c, "NETWORK") || strings.Contains(c, "PACKET") || strings.Contains(c, "TIMEOUT"):
					netw = append(netw, c)
				default:
					other = append(other, c)
				}
			}
			var out strings.Builder
			out.WriteString("\nCategory groups (run `loghound patterns categories` for the full, up-to-date list):\n\n")
			write := func(title string, cats []string) {
				if len(cats) == 0 {
					return
				}
				out.WriteString("- " + title + ":\n")
				out.WriteString("  - " + strings.Join(cats, ", ") + "\n")
			}
			write("Crashes & traces", crash)
			write("Memory", mem)
			write("Network & interfaces", netw)
			write("Authentication", auth)
			write("Configuration", cfg)
			write("Other", other)

			var nb bytes.Buffer
			nb.Write(b[:i])
			nb.Write(start)
			nb.WriteString("\n")
			nb.WriteString(out.String())
			nb.Write(end)
			nb.Write(b[j+len(end):])
			return os.WriteFile(path, nb.Bytes(), 0644)
		},
	}
	rootCmd.AddCommand(cmd)
}
