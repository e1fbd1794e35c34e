package screens

import (
	"fmt"

	"github.com/aavadhan10/ogc-dashboard/internal/analytics"
	"github.com/aavadhan10/ogc-dashboard/internal/domain"
	"github.com/aavadhan10/ogc-dashboard/internal/pkg/tui/components"
	"github.com/aavadhan10/ogc-dashboard/internal/pkg/tui/theme"
	"github.com/aavadhan10/ogc-dashboard/internal/util"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

const attorneyPageSize = 15

// Attorneys displays the ranked attorney utilization table
type Attorneys struct {
	data    analytics.Dashboard
	loading bool
	err     error
	cursor  int
	page    int
	styles  *theme.Styles
	width   int
	height  int
}

// NewAttorneys creates a new attorneys screen
func NewAttorneys() *Attorneys {
	return &Attorneys{
		loading: true,
		styles:  theme.Default(),
	}
}

func (a *Attorneys) rows() []domain.AttorneyMetrics {
	all := a.data.Attorneys
	start := a.page * attorneyPageSize
	if start >= len(all) {
		return nil
	}
	end := start + attorneyPageSize
	if end > len(all) {
		end = len(all)
	}
	return all[start:end]
}

// Update implements the screen model
func (a *Attorneys) Update(msg tea.Msg) (*Attorneys, tea.Cmd) {
	switch msg := msg.(type) {
	case DashboardLoadedMsg:
		a.loading = false
		a.err = nil
		a.data = msg.Dashboard
		a.cursor = 0
		a.page = 0
		return a, nil

	case DashboardErrorMsg:
		a.loading = false
		a.err = msg.Err
		return a, nil

	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		return a, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "j", "down":
			if a.cursor < len(a.rows())-1 {
				a.cursor++
			}
		case "k", "up":
			if a.cursor > 0 {
				a.cursor--
			}
		case "n", "pgdown":
			if (a.page+1)*attorneyPageSize < len(a.data.Attorneys) {
				a.page++
				a.cursor = 0
			}
		case "p", "pgup":
			if a.page > 0 {
				a.page--
				a.cursor = 0
			}
		}
	}

	return a, nil
}

// View implements the screen model
func (a *Attorneys) View() string {
	if a.loading {
		return a.styles.Muted.Render("Crunching numbers...")
	}

	if a.err != nil {
		return a.styles.Error.Render(fmt.Sprintf("Error: %v", a.err))
	}

	title := a.styles.Title.Render("Attorney Utilization")

	if a.data.AttorneysErr != "" {
		return lipgloss.JoinVertical(lipgloss.Left, title,
			a.styles.Warning.Render(a.data.AttorneysErr))
	}

	total := len(a.data.Attorneys)
	if total == 0 {
		return lipgloss.JoinVertical(lipgloss.Left, title,
			a.styles.Muted.Render("No attorneys in the filtered range"))
	}

	rows := a.rows()
	start := a.page*attorneyPageSize + 1
	pageInfo := a.styles.Muted.Render(fmt.Sprintf("Showing %d-%d of %d", start, start+len(rows)-1, total))

	header := a.renderHeader()
	var lines []string
	for i, m := range rows {
		lines = append(lines, a.renderRow(m, i == a.cursor))
	}
	table := lipgloss.JoinVertical(lipgloss.Left, append([]string{header}, lines...)...)

	help := components.NewHelpBar(
		components.KeyBinding{Key: "j/k", Desc: "navigate"},
		components.KeyBinding{Key: "n/p", Desc: "page"},
		components.KeyBinding{Key: "r", Desc: "refresh"},
		components.KeyBinding{Key: "q", Desc: "quit"},
	)

	return lipgloss.JoinVertical(lipgloss.Left, title, pageInfo, "", table, "", a.styles.Help.Render(help.View()))
}

func (a *Attorneys) renderHeader() string {
	headerStyle := lipgloss.NewStyle().
		Foreground(theme.Gray500).
		Bold(true)

	cols := []string{
		headerStyle.Copy().Width(24).Render("ATTORNEY"),
		headerStyle.Copy().Width(9).Render("HOURS"),
		headerStyle.Copy().Width(10).Render("BILLABLE"),
		headerStyle.Copy().Width(10).Render("FEES"),
		headerStyle.Copy().Width(8).Render("UTIL"),
		headerStyle.Copy().Width(20).Render("SEGMENT"),
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, cols...)
}

func (a *Attorneys) renderRow(m domain.AttorneyMetrics, selected bool) string {
	name := m.Name
	if name == "" {
		name = "-"
	}
	if len(name) > 22 {
		name = name[:19] + "..."
	}

	// Attorneys without a billing target never rank on utilization.
	utilization := "—"
	if m.RankEligible {
		utilization = util.FormatPercent(m.Utilization)
	}

	var style lipgloss.Style
	if selected {
		style = a.styles.Selected
	} else {
		style = lipgloss.NewStyle().Foreground(theme.Gray400)
	}

	cols := []string{
		style.Copy().Width(24).Render(name),
		style.Copy().Width(9).Render(util.FormatHours(m.Hours)),
		style.Copy().Width(10).Render(util.FormatHours(m.BillableHours)),
		style.Copy().Width(10).Render(util.FormatCurrency(m.Amount)),
		style.Copy().Width(8).Render(utilization),
		style.Copy().Width(20).Render(m.SkillCell),
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, cols...)
}
