package tui

import (
	"context"
	"fmt"

	"github.com/aavadhan10/ogc-dashboard/internal/analytics"
	"github.com/aavadhan10/ogc-dashboard/internal/app/tui/screens"
	"github.com/aavadhan10/ogc-dashboard/internal/domain"
	"github.com/aavadhan10/ogc-dashboard/internal/pkg/tui/theme"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// Screen identifies the current screen
type Screen int

const (
	ScreenOverview Screen = iota
	ScreenAttorneys
	ScreenClients
	ScreenTrends
	ScreenFilters
)

// App is the main dashboard TUI application
type App struct {
	service       *analytics.Service
	selection     domain.Selection
	currentScreen Screen
	overview      *screens.Overview
	attorneys     *screens.Attorneys
	clients       *screens.Clients
	trends        *screens.Trends
	filters       *screens.Filters
	styles        *theme.Styles
	width         int
	height        int
}

// NewApp creates a new dashboard application. The selection carries any
// filters given on the command line; the filter screen edits it from there.
func NewApp(service *analytics.Service, sel domain.Selection) *App {
	return &App{
		service:       service,
		selection:     sel,
		currentScreen: ScreenOverview,
		overview:      screens.NewOverview(),
		attorneys:     screens.NewAttorneys(),
		clients:       screens.NewClients(),
		trends:        screens.NewTrends(),
		filters:       screens.NewFilters(sel),
		styles:        theme.Default(),
	}
}

// Init implements tea.Model
func (a *App) Init() tea.Cmd {
	return tea.Batch(a.loadDashboard(), a.loadOptions())
}

func (a *App) loadDashboard() tea.Cmd {
	sel := a.selection
	return func() tea.Msg {
		d, err := a.service.Dashboard(context.Background(), sel)
		if err != nil {
			return screens.DashboardErrorMsg{Err: err}
		}
		return screens.DashboardLoadedMsg{Dashboard: d}
	}
}

func (a *App) loadOptions() tea.Cmd {
	return func() tea.Msg {
		opts, err := a.service.FilterOptions(context.Background())
		if err != nil {
			return screens.DashboardErrorMsg{Err: err}
		}
		return screens.OptionsLoadedMsg{Options: opts}
	}
}

// Update implements tea.Model
func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			return a, tea.Quit
		case "1":
			a.currentScreen = ScreenOverview
			return a, nil
		case "2":
			a.currentScreen = ScreenAttorneys
			return a, nil
		case "3":
			a.currentScreen = ScreenClients
			return a, nil
		case "4":
			a.currentScreen = ScreenTrends
			return a, nil
		case "f", "5":
			a.currentScreen = ScreenFilters
			return a, nil
		case "r":
			return a, a.loadDashboard()
		case "esc":
			if a.currentScreen == ScreenFilters {
				a.currentScreen = ScreenOverview
				return a, nil
			}
		}

	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		// Every screen sizes itself off the same window.
		return a, a.broadcast(msg)

	case screens.DashboardLoadedMsg, screens.DashboardErrorMsg:
		return a, a.broadcast(msg)

	case screens.OptionsLoadedMsg:
		a.filters, _ = a.filters.Update(msg)
		return a, nil

	case screens.FiltersAppliedMsg:
		a.selection = msg.Selection
		a.currentScreen = ScreenOverview
		return a, a.loadDashboard()
	}

	// Forward to current screen
	var cmd tea.Cmd
	switch a.currentScreen {
	case ScreenOverview:
		a.overview, cmd = a.overview.Update(msg)
	case ScreenAttorneys:
		a.attorneys, cmd = a.attorneys.Update(msg)
	case ScreenClients:
		a.clients, cmd = a.clients.Update(msg)
	case ScreenTrends:
		a.trends, cmd = a.trends.Update(msg)
	case ScreenFilters:
		a.filters, cmd = a.filters.Update(msg)
	}

	return a, cmd
}

func (a *App) broadcast(msg tea.Msg) tea.Cmd {
	var cmds []tea.Cmd
	var cmd tea.Cmd
	a.overview, cmd = a.overview.Update(msg)
	cmds = append(cmds, cmd)
	a.attorneys, cmd = a.attorneys.Update(msg)
	cmds = append(cmds, cmd)
	a.clients, cmd = a.clients.Update(msg)
	cmds = append(cmds, cmd)
	a.trends, cmd = a.trends.Update(msg)
	cmds = append(cmds, cmd)
	a.filters, cmd = a.filters.Update(msg)
	cmds = append(cmds, cmd)
	return tea.Batch(cmds...)
}

// View implements tea.Model
func (a *App) View() string {
	header := a.renderHeader()
	nav := a.renderNav()

	sep := lipgloss.NewStyle().
		Foreground(theme.Gray700).
		Render("────────────────────────────────────────────────────────────────")

	var content string
	switch a.currentScreen {
	case ScreenOverview:
		content = a.overview.View()
	case ScreenAttorneys:
		content = a.attorneys.View()
	case ScreenClients:
		content = a.clients.View()
	case ScreenTrends:
		content = a.trends.View()
	case ScreenFilters:
		content = a.filters.View()
	}

	return lipgloss.JoinVertical(lipgloss.Left, header, nav, sep, "", content)
}

func (a *App) renderHeader() string {
	title := lipgloss.NewStyle().
		Bold(true).
		Foreground(theme.White).
		Render("OGC DASHBOARD")

	tagline := lipgloss.NewStyle().
		Foreground(theme.Gray600).
		Render("Legal Billing Analytics")

	parts := []string{title, "  ", tagline}
	if tag := a.filterTag(); tag != "" {
		parts = append(parts, "  ", a.styles.Highlighted.Render(tag))
	}
	return lipgloss.JoinHorizontal(lipgloss.Bottom, parts...)
}

func (a *App) filterTag() string {
	n := len(a.selection.Attorneys) + len(a.selection.PracticeGroups) +
		len(a.selection.Clients) + len(a.selection.Matters) +
		len(a.selection.FeeTypes) + len(a.selection.ActivityTypes) +
		len(a.selection.RevenueBands)
	if a.selection.DateBounded() {
		n++
	}
	if n == 0 {
		return ""
	}
	return fmt.Sprintf("[%d filters]", n)
}

func (a *App) renderNav() string {
	items := []NavItem{
		{Key: "1", Label: "Overview", Active: a.currentScreen == ScreenOverview},
		{Key: "2", Label: "Attorneys", Active: a.currentScreen == ScreenAttorneys},
		{Key: "3", Label: "Clients", Active: a.currentScreen == ScreenClients},
		{Key: "4", Label: "Trends", Active: a.currentScreen == ScreenTrends},
		{Key: "f", Label: "Filters", Active: a.currentScreen == ScreenFilters},
	}
	nav := NewNavBar(items)
	return nav.View()
}
