package tui

import (
	"bufio"
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/alecthomas/chroma/v2"
	"github.com/alecthomas/chroma/v2/formatters"
	"github.com/alecthomas/chroma/v2/lexers"
	"github.com/alecthomas/chroma/v2/styles"
	"github.com/atotto/clipboard"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/loghound/loghound/internal/report"
	"github.com/loghound/loghound/internal/types"
)

const contextRadius = 4

// refreshDetail re-renders the detail pane for the current table selection:
// the matched line plus a few lines of surrounding file context.
func (m *Model) refreshDetail() {
	if !m.ready {
		return
	}
	rec := m.selectedMatch()
	if rec == nil {
		m.viewport.SetContent("")
		return
	}

	var b strings.Builder
	fmt.Fprintf(&b, "%s  %s:%d\n", rec.Category, rec.Path, rec.Line)
	fmt.Fprintf(&b, "pattern: %s\n\n", rec.Pattern)

	ctxLines, firstLine, err := readContext(m.resolvePath(rec.Path), rec.Line)
	if err != nil {
		// file may have moved since the scan; the match text still stands alone
		b.WriteString(highlightLine(rec.Text, rec.Path))
		b.WriteString("\n")
	} else {
		for i, line := range ctxLines {
			n := firstLine + i
			marker := "  "
			if n == rec.Line {
				marker = "> "
			}
			fmt.Fprintf(&b, "%s%4d  %s\n", marker, n, highlightLine(line, rec.Path))
		}
	}
	m.viewport.SetContent(b.String())
	m.viewport.GotoTop()
}

// resolvePath joins a report-relative path with the scan root.
func (m *Model) resolvePath(path string) string {
	if filepath.IsAbs(path) || m.root == "" {
		return path
	}
	return filepath.Join(m.root, path)
}

// readContext returns the lines surrounding lineNum in the file, along with
// the 1-based number of the first returned line.
func readContext(path string, lineNum int) ([]string, int, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, 0, err
	}
	defer f.Close()

	first := lineNum - contextRadius
	if first < 1 {
		first = 1
	}
	last := lineNum + contextRadius

	var out []string
	sc := bufio.NewScanner(f)
	sc.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	n := 0
	for sc.Scan() {
		n++
		if n < first {
			continue
		}
		if n > last {
			break
		}
		out = append(out, sc.Text())
	}
	if err := sc.Err(); err != nil {
		return nil, 0, err
	}
	if len(out) == 0 {
		return nil, 0, fmt.Errorf("line %d out of range", lineNum)
	}
	return out, first, nil
}

// highlightLine colorizes a single line using the lexer matched from the
// filename, falling back to plain text when nothing matches.
func highlightLine(line, path string) string {
	lexer := lexers.Match(filepath.Base(path))
	if lexer == nil {
		lexer = lexers.Fallback
	}
	lexer = chroma.Coalesce(lexer)

	style := styles.Get("monokai")
	if style == nil {
		style = styles.Fallback
	}
	formatter := formatters.Get("terminal256")
	if formatter == nil {
		formatter = formatters.Fallback
	}

	iterator, err := lexer.Tokenise(nil, line)
	if err != nil {
		return line
	}
	var buf bytes.Buffer
	if err := formatter.Format(&buf, style, iterator); err != nil {
		return line
	}
	return strings.TrimRight(buf.String(), "\n")
}

func (m Model) copyLineToClipboard() tea.Cmd {
	rec := m.selectedMatch()
	if rec == nil {
		return nil
	}
	text := rec.Text
	return func() tea.Msg {
		if err := clipboard.WriteAll(text); err != nil {
			return statusMsg(fmt.Sprintf("Clipboard error: %v", err))
		}
		return statusMsg("Copied line text to clipboard")
	}
}

func (m Model) copyMatchToClipboard() tea.Cmd {
	rec := m.selectedMatch()
	if rec == nil {
		return nil
	}
	detail := fmt.Sprintf("%s %s:%d %s", rec.Category, rec.Path, rec.Line, rec.Text)
	return func() tea.Msg {
		if err := clipboard.WriteAll(detail); err != nil {
			return statusMsg(fmt.Sprintf("Clipboard error: %v", err))
		}
		return statusMsg("Copied match to clipboard")
	}
}

// exportVisible writes the matches under the active tab to a timestamped JSON
// file in the working directory.
func (m Model) exportVisible() tea.Cmd {
	if len(m.visible) == 0 {
		return func() tea.Msg { return statusMsg("Nothing to export") }
	}
	rep := m.filteredReport()
	name := fmt.Sprintf("loghound-export-%s.json", time.Now().Format("20060102-150405"))
	return func() tea.Msg {
		f, err := os.Create(name)
		if err != nil {
			return statusMsg(fmt.Sprintf("Export error: %v", err))
		}
		defer f.Close()
		if err := report.WriteJSON(f, rep); err != nil {
			return statusMsg(fmt.Sprintf("Export error: %v", err))
		}
		return statusMsg(fmt.Sprintf("Exported %d matches to %s", len(m.visible), name))
	}
}

// filteredReport rebuilds an AggregateReport containing only the matches
// visible under the active tab, keeping the original file ordering.
func (m Model) filteredReport() types.AggregateReport {
	cat := m.tabs[m.activeTab]
	out := types.AggregateReport{
		Root:           m.report.Root,
		CategoryCounts: map[string]int{},
	}
	for _, r := range m.report.Results {
		filtered := types.ScanResult{Path: r.Path, Err: r.Err, Status: r.Status}
		for _, mt := range r.Matches {
			if cat == allTab || mt.Category == cat {
				filtered.Matches = append(filtered.Matches, mt)
				out.CategoryCounts[mt.Category]++
			}
		}
		if len(filtered.Matches) == 0 {
			continue
		}
		out.Results = append(out.Results, filtered)
		out.TotalFiles++
		out.SuccessfulFiles++
	}
	return out
}
