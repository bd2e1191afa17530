package tui

import (
	"fmt"
	"sort"
	"strconv"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/loghound/loghound/internal/types"
)

var (
	tableBorderStyle = lipgloss.NewStyle().
				BorderStyle(lipgloss.NormalBorder()).
				BorderForeground(lipgloss.Color("240"))

	detailBorderStyle = lipgloss.NewStyle().
				BorderStyle(lipgloss.NormalBorder()).
				BorderForeground(lipgloss.Color("240"))

	titleStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("6")).
			Bold(true).
			Padding(0, 1)

	tabStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("7")).
			Padding(0, 1)

	activeTabStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("232")).
			Background(lipgloss.Color("208")).
			Bold(true).
			Padding(0, 1)

	statusStyle = lipgloss.NewStyle().
			Background(lipgloss.Color("236")).
			Foreground(lipgloss.Color("7"))

	emptyTextStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("15")).
			Align(lipgloss.Center)
)

const allTab = "ALL"

type statusMsg string

type rescanDoneMsg struct {
	report types.AggregateReport
	err    error
}

// Model is the state of the results browser.
type Model struct {
	table      table.Model
	viewport   viewport.Model
	spinner    spinner.Model
	report     types.AggregateReport
	records    []types.Match // flattened matches across all results
	visible    []types.Match // records filtered by the active tab
	tabs       []string      // ALL + categories present in the report
	activeTab  int
	root       string
	scanning   bool
	ready      bool
	quitting   bool
	width      int
	height     int
	status     string
	statusTTL  *time.Time
	rescanFunc func() (types.AggregateReport, error)
}

// NewModel builds the browser for an existing report. rescanFunc re-runs the
// scan when the user presses r; it may be nil for view-only mode.
func NewModel(report types.AggregateReport, rescanFunc func() (types.AggregateReport, error)) Model {
	t := table.New(
		table.WithColumns(matchColumns()),
		table.WithFocused(true),
		table.WithHeight(10),
	)
	s := table.DefaultStyles()
	s.Header = lipgloss.NewStyle().
		Background(lipgloss.Color("235")).
		Foreground(lipgloss.Color("15")).
		Bold(true).
		Padding(0, 1).
		Align(lipgloss.Left)
	s.Selected = lipgloss.NewStyle().
		Foreground(lipgloss.Color("232")).
		Background(lipgloss.Color("208")).
		Bold(true).
		Padding(0, 1)
	s.Cell = lipgloss.NewStyle().Padding(0, 1)
	t.SetStyles(s)

	// Line spinner avoids Braille characters that render poorly on some terminals
	sp := spinner.New()
	sp.Spinner = spinner.Line
	sp.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("6"))

	m := Model{
		table:      t,
		spinner:    sp,
		root:       report.Root,
		rescanFunc: rescanFunc,
	}
	m.setReport(report)
	return m
}

func matchColumns() []table.Column {
	return []table.Column{
		{Title: "Category", Width: 22},
		{Title: "Path", Width: 32},
		{Title: "Line", Width: 7},
		{Title: "Text", Width: 46},
	}
}

// setReport replaces the model's data and rebuilds tabs and rows.
func (m *Model) setReport(report types.AggregateReport) {
	m.report = report
	m.records = m.records[:0]
	for _, r := range report.Results {
		m.records = append(m.records, r.Matches...)
	}
	cats := make([]string, 0, len(report.CategoryCounts))
	for c := range report.CategoryCounts {
		cats = append(cats, c)
	}
	sort.Strings(cats)
	m.tabs = append([]string{allTab}, cats...)
	if m.activeTab >= len(m.tabs) {
		m.activeTab = 0
	}
	m.applyTab()
}

// applyTab filters records to the active category and refreshes table rows.
func (m *Model) applyTab() {
	cat := m.tabs[m.activeTab]
	m.visible = m.visible[:0]
	for _, rec := range m.records {
		if cat == allTab || rec.Category == cat {
			m.visible = append(m.visible, rec)
		}
	}
	rows := make([]table.Row, len(m.visible))
	for i, rec := range m.visible {
		rows[i] = table.Row{rec.Category, rec.Path, strconv.Itoa(rec.Line), rec.Text}
	}
	m.table.SetRows(rows)
	if m.table.Cursor() >= len(rows) {
		m.table.SetCursor(0)
	}
}

func (m Model) selectedMatch() *types.Match {
	i := m.table.Cursor()
	if i < 0 || i >= len(m.visible) {
		return nil
	}
	return &m.visible[i]
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	return m.spinner.Tick
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.table.SetWidth(msg.Width - 4)
		m.table.SetHeight(max(4, msg.Height/2-4))
		m.viewport = viewport.New(msg.Width-4, max(4, msg.Height/2-4))
		m.ready = true
		m.refreshDetail()
		return m, nil

	case statusMsg:
		m.status = string(msg)
		ttl := time.Now().Add(4 * time.Second)
		m.statusTTL = &ttl
		return m, nil

	case rescanDoneMsg:
		m.scanning = false
		if msg.err != nil {
			m.status = fmt.Sprintf("Scan failed: %v", msg.err)
			return m, nil
		}
		m.setReport(msg.report)
		m.refreshDetail()
		m.status = fmt.Sprintf("Rescanned: %d anomalies in %d files", msg.report.TotalMatches(), msg.report.TotalFiles)
		return m, nil

	case spinner.TickMsg:
		if !m.scanning {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case tea.KeyMsg:
		return m.handleKey(msg)
	}
	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+c":
		m.quitting = true
		return m, tea.Quit
	case "tab", "right", "l":
		m.activeTab = (m.activeTab + 1) % len(m.tabs)
		m.applyTab()
		m.refreshDetail()
		return m, nil
	case "shift+tab", "left", "h":
		m.activeTab = (m.activeTab - 1 + len(m.tabs)) % len(m.tabs)
		m.applyTab()
		m.refreshDetail()
		return m, nil
	case "c":
		return m, m.copyLineToClipboard()
	case "C":
		return m, m.copyMatchToClipboard()
	case "e":
		return m, m.exportVisible()
	case "r":
		if m.rescanFunc == nil || m.scanning {
			return m, nil
		}
		m.scanning = true
		return m, tea.Batch(m.spinner.Tick, m.runRescan())
	}
	var cmd tea.Cmd
	m.table, cmd = m.table.Update(msg)
	m.refreshDetail()
	return m, cmd
}

func (m Model) runRescan() tea.Cmd {
	fn := m.rescanFunc
	return func() tea.Msg {
		report, err := fn()
		return rescanDoneMsg{report: report, err: err}
	}
}

// View implements tea.Model.
func (m Model) View() string {
	if m.quitting {
		return ""
	}
	if !m.ready {
		return "loading..."
	}

	title := titleStyle.Render(fmt.Sprintf("loghound — %s", m.root))
	tabs := m.renderTabs()

	var body string
	if len(m.records) == 0 {
		body = emptyTextStyle.Width(m.width).Render("\nNo anomalies found ✅\n\npress r to rescan, q to quit\n")
	} else {
		body = tableBorderStyle.Render(m.table.View()) + "\n" + detailBorderStyle.Render(m.viewport.View())
	}

	status := m.renderStatus()
	return title + "\n" + tabs + "\n" + body + "\n" + status
}

func (m Model) renderTabs() string {
	out := ""
	for i, tab := range m.tabs {
		label := tab
		if tab != allTab {
			label = fmt.Sprintf("%s (%d)", tab, m.report.CategoryCounts[tab])
		}
		if i == m.activeTab {
			out += activeTabStyle.Render(label)
		} else {
			out += tabStyle.Render(label)
		}
	}
	return out
}

func (m Model) renderStatus() string {
	if m.scanning {
		return statusStyle.Render(m.spinner.View() + " scanning...")
	}
	if m.status != "" && (m.statusTTL == nil || time.Now().Before(*m.statusTTL)) {
		return statusStyle.Render(m.status)
	}
	summary := fmt.Sprintf(" %d anomalies · %d files (%d failed) · tab: filter · c: copy · e: export · r: rescan · q: quit",
		m.report.TotalMatches(), m.report.TotalFiles, m.report.FailedFiles)
	return statusStyle.Render(summary)
}
