package screens

import (
	"fmt"

	"github.com/aavadhan10/ogc-dashboard/internal/analytics"
	"github.com/aavadhan10/ogc-dashboard/internal/pkg/tui/components"
	"github.com/aavadhan10/ogc-dashboard/internal/pkg/tui/theme"
	"github.com/aavadhan10/ogc-dashboard/internal/util"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// Overview displays the headline metrics for the filtered dataset
type Overview struct {
	data    analytics.Dashboard
	loading bool
	err     error
	styles  *theme.Styles
	width   int
	height  int
}

// NewOverview creates a new overview screen
func NewOverview() *Overview {
	return &Overview{
		loading: true,
		styles:  theme.Default(),
	}
}

// Update implements the screen model
func (o *Overview) Update(msg tea.Msg) (*Overview, tea.Cmd) {
	switch msg := msg.(type) {
	case DashboardLoadedMsg:
		o.loading = false
		o.err = nil
		o.data = msg.Dashboard
		return o, nil

	case DashboardErrorMsg:
		o.loading = false
		o.err = msg.Err
		return o, nil

	case tea.WindowSizeMsg:
		o.width = msg.Width
		o.height = msg.Height
		return o, nil
	}

	return o, nil
}

// View implements the screen model
func (o *Overview) View() string {
	if o.loading {
		return o.styles.Muted.Render("Crunching numbers...")
	}

	if o.err != nil {
		return o.styles.Error.Render(fmt.Sprintf("Error: %v", o.err))
	}

	title := o.styles.Title.Render("Firm Overview")

	if o.data.OverviewErr != "" {
		return lipgloss.JoinVertical(lipgloss.Left, title,
			o.styles.Warning.Render(o.data.OverviewErr))
	}

	cardView := RenderMetricCards(o.buildCards(), o.width)

	var sections []string
	sections = append(sections, title, "", cardView)

	if warnings := o.renderWarnings(); warnings != "" {
		sections = append(sections, "", warnings)
	}

	help := components.NewHelpBar(
		components.KeyBinding{Key: "r", Desc: "refresh"},
		components.KeyBinding{Key: "q", Desc: "quit"},
	)
	sections = append(sections, "", o.styles.Help.Render(help.View()))

	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

func (o *Overview) buildCards() []MetricCard {
	m := o.data.Overview

	hoursCard := MetricCard{
		Title:    "Total Hours",
		Value:    util.FormatHours(m.TotalHours),
		Subtitle: fmt.Sprintf("%s entries, %s billable", util.FormatCount(m.TotalEntries), util.FormatCount(m.BillableEntries)),
	}
	feesCard := MetricCard{
		Title:    "Total Fees",
		Value:    util.FormatCurrency(m.TotalAmount),
		Subtitle: "Avg rate " + util.FormatRate(m.AvgRate),
	}
	utilizationCard := MetricCard{
		Title:    "Firm Utilization",
		Value:    util.FormatPercent(m.FirmUtilization),
		Subtitle: "Billable hours vs targets",
	}
	reachCard := MetricCard{
		Title:    "Coverage",
		Value:    fmt.Sprintf("%d clients", m.Clients),
		Subtitle: fmt.Sprintf("%d matters", m.Matters),
	}

	cards := []MetricCard{hoursCard, feesCard, utilizationCard, reachCard}

	if m.CurrentMonth != nil {
		cards = append(cards, MetricCard{
			Title:    "Latest Month",
			Value:    util.FormatCurrency(m.CurrentMonth.Amount),
			Subtitle: fmt.Sprintf("%s, %s", util.FormatMonth(m.CurrentMonth.Month), util.FormatHours(m.CurrentMonth.Hours)),
		})
	}

	return cards
}

func (o *Overview) renderWarnings() string {
	if len(o.data.Warnings) == 0 {
		return ""
	}

	// Cap at a handful so data-quality noise never crowds out the numbers.
	shown := o.data.Warnings
	more := ""
	if len(shown) > 3 {
		more = fmt.Sprintf("  (+%d more)", len(shown)-3)
		shown = shown[:3]
	}

	lines := make([]string, 0, len(shown)+1)
	for _, w := range shown {
		lines = append(lines, o.styles.Warning.Render("! "+w))
	}
	if more != "" {
		lines = append(lines, o.styles.Muted.Render(more))
	}
	return lipgloss.JoinVertical(lipgloss.Left, lines...)
}
