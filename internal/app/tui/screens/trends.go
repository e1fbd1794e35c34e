package screens

import (
	"fmt"
	"strings"

	"github.com/aavadhan10/ogc-dashboard/internal/analytics"
	"github.com/aavadhan10/ogc-dashboard/internal/pkg/tui/components"
	"github.com/aavadhan10/ogc-dashboard/internal/pkg/tui/theme"
	"github.com/aavadhan10/ogc-dashboard/internal/util"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// Trends displays the monthly hours and fees series
type Trends struct {
	data    analytics.Dashboard
	loading bool
	err     error
	styles  *theme.Styles
	width   int
	height  int
}

// NewTrends creates a new trends screen
func NewTrends() *Trends {
	return &Trends{
		loading: true,
		styles:  theme.Default(),
	}
}

// Update implements the screen model
func (t *Trends) Update(msg tea.Msg) (*Trends, tea.Cmd) {
	switch msg := msg.(type) {
	case DashboardLoadedMsg:
		t.loading = false
		t.err = nil
		t.data = msg.Dashboard
		return t, nil

	case DashboardErrorMsg:
		t.loading = false
		t.err = msg.Err
		return t, nil

	case tea.WindowSizeMsg:
		t.width = msg.Width
		t.height = msg.Height
		return t, nil
	}

	return t, nil
}

// View implements the screen model
func (t *Trends) View() string {
	if t.loading {
		return t.styles.Muted.Render("Crunching numbers...")
	}

	if t.err != nil {
		return t.styles.Error.Render(fmt.Sprintf("Error: %v", t.err))
	}

	title := t.styles.Title.Render("Monthly Trends")

	if t.data.TrendErr != "" {
		return lipgloss.JoinVertical(lipgloss.Left, title,
			t.styles.Warning.Render(t.data.TrendErr))
	}

	if len(t.data.Trend) == 0 {
		return lipgloss.JoinVertical(lipgloss.Left, title,
			t.styles.Muted.Render("No dated entries in the filtered range"))
	}

	help := components.NewHelpBar(
		components.KeyBinding{Key: "r", Desc: "refresh"},
		components.KeyBinding{Key: "q", Desc: "quit"},
	)

	sections := []string{
		title,
		t.buildChart(),
		"",
		t.buildTable(),
	}
	if t.data.GroupsErr == "" && len(t.data.Groups) > 0 {
		sections = append(sections, "", t.buildGroupTable())
	} else if t.data.GroupsErr != "" {
		sections = append(sections, "", t.styles.Warning.Render(t.data.GroupsErr))
	}
	sections = append(sections, "", t.styles.Help.Render(help.View()))

	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

func (t *Trends) buildChart() string {
	values := make([]float64, len(t.data.Trend))
	for i, m := range t.data.Trend {
		values[i] = m.Amount
	}

	first := t.data.Trend[0].Month
	last := t.data.Trend[len(t.data.Trend)-1].Month

	header := t.styles.Subtitle.Render("FEES BY MONTH")
	chart := lipgloss.NewStyle().
		Foreground(theme.White).
		Render(RenderSparkline(values))
	dates := t.styles.Muted.Render(fmt.Sprintf("%s → %s", util.FormatMonth(first), util.FormatMonth(last)))

	return lipgloss.JoinVertical(lipgloss.Left, header, chart, dates)
}

func (t *Trends) buildTable() string {
	headerStyle := lipgloss.NewStyle().
		Foreground(theme.Gray500).
		Bold(true)
	headerLine := headerStyle.Render(fmt.Sprintf("%-10s %9s %12s %8s %8s",
		"MONTH", "HOURS", "FEES", "CLIENTS", "ENTRIES"))

	rowStyle := lipgloss.NewStyle().Foreground(theme.Gray400)
	var rows []string
	for _, m := range t.data.Trend {
		row := fmt.Sprintf("%-10s %9s %12s %8d %8d",
			util.FormatMonth(m.Month),
			util.FormatHours(m.Hours),
			util.FormatCurrencyExact(m.Amount),
			m.Clients,
			m.Entries,
		)
		rows = append(rows, rowStyle.Render(row))
	}

	return lipgloss.JoinVertical(lipgloss.Left, headerLine, strings.Join(rows, "\n"))
}

func (t *Trends) buildGroupTable() string {
	header := t.styles.Subtitle.Render("BY PRACTICE GROUP")

	headerStyle := lipgloss.NewStyle().
		Foreground(theme.Gray500).
		Bold(true)
	headerLine := headerStyle.Render(fmt.Sprintf("%-28s %9s %12s %8s",
		"PRACTICE GROUP", "HOURS", "FEES", "MATTERS"))

	rowStyle := lipgloss.NewStyle().Foreground(theme.Gray400)
	var rows []string
	for _, g := range t.data.Groups {
		name := g.Key
		if len(name) > 26 {
			name = name[:23] + "..."
		}
		row := fmt.Sprintf("%-28s %9s %12s %8d",
			name,
			util.FormatHours(g.Hours),
			util.FormatCurrencyExact(g.Amount),
			g.Matters,
		)
		rows = append(rows, rowStyle.Render(row))
	}

	return lipgloss.JoinVertical(lipgloss.Left, header, "", headerLine, strings.Join(rows, "\n"))
}
