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

const clientPageSize = 15

// Clients displays the per-client value table
type Clients struct {
	data    analytics.Dashboard
	loading bool
	err     error
	cursor  int
	page    int
	styles  *theme.Styles
	width   int
	height  int
}

// NewClients creates a new clients screen
func NewClients() *Clients {
	return &Clients{
		loading: true,
		styles:  theme.Default(),
	}
}

func (c *Clients) rows() []analytics.ClientRow {
	all := c.data.Clients
	start := c.page * clientPageSize
	if start >= len(all) {
		return nil
	}
	end := start + clientPageSize
	if end > len(all) {
		end = len(all)
	}
	return all[start:end]
}

// Update implements the screen model
func (c *Clients) Update(msg tea.Msg) (*Clients, tea.Cmd) {
	switch msg := msg.(type) {
	case DashboardLoadedMsg:
		c.loading = false
		c.err = nil
		c.data = msg.Dashboard
		c.cursor = 0
		c.page = 0
		return c, nil

	case DashboardErrorMsg:
		c.loading = false
		c.err = msg.Err
		return c, nil

	case tea.WindowSizeMsg:
		c.width = msg.Width
		c.height = msg.Height
		return c, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "j", "down":
			if c.cursor < len(c.rows())-1 {
				c.cursor++
			}
		case "k", "up":
			if c.cursor > 0 {
				c.cursor--
			}
		case "n", "pgdown":
			if (c.page+1)*clientPageSize < len(c.data.Clients) {
				c.page++
				c.cursor = 0
			}
		case "p", "pgup":
			if c.page > 0 {
				c.page--
				c.cursor = 0
			}
		}
	}

	return c, nil
}

// View implements the screen model
func (c *Clients) View() string {
	if c.loading {
		return c.styles.Muted.Render("Crunching numbers...")
	}

	if c.err != nil {
		return c.styles.Error.Render(fmt.Sprintf("Error: %v", c.err))
	}

	title := c.styles.Title.Render("Client Value")

	if c.data.ClientsErr != "" {
		return lipgloss.JoinVertical(lipgloss.Left, title,
			c.styles.Warning.Render(c.data.ClientsErr))
	}

	total := len(c.data.Clients)
	if total == 0 {
		return lipgloss.JoinVertical(lipgloss.Left, title,
			c.styles.Muted.Render("No clients match the current filters"))
	}

	rows := c.rows()
	start := c.page*clientPageSize + 1
	pageInfo := c.styles.Muted.Render(fmt.Sprintf("Showing %d-%d of %d", start, start+len(rows)-1, total))

	header := c.renderHeader()
	var lines []string
	for i, r := range rows {
		lines = append(lines, c.renderRow(r, i == c.cursor))
	}
	table := lipgloss.JoinVertical(lipgloss.Left, append([]string{header}, lines...)...)

	help := components.NewHelpBar(
		components.KeyBinding{Key: "j/k", Desc: "navigate"},
		components.KeyBinding{Key: "n/p", Desc: "page"},
		components.KeyBinding{Key: "r", Desc: "refresh"},
		components.KeyBinding{Key: "q", Desc: "quit"},
	)

	return lipgloss.JoinVertical(lipgloss.Left, title, pageInfo, "", table, "", c.styles.Help.Render(help.View()))
}

func (c *Clients) renderHeader() string {
	headerStyle := lipgloss.NewStyle().
		Foreground(theme.Gray500).
		Bold(true)

	cols := []string{
		headerStyle.Copy().Width(26).Render("CLIENT"),
		headerStyle.Copy().Width(10).Render("FEES"),
		headerStyle.Copy().Width(9).Render("HOURS"),
		headerStyle.Copy().Width(14).Render("BAND"),
		headerStyle.Copy().Width(10).Render("EST. LTV"),
		headerStyle.Copy().Width(12).Render("LAST ACTIVE"),
		headerStyle.Copy().Width(20).Render("LEAD"),
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, cols...)
}

func (c *Clients) renderRow(r analytics.ClientRow, selected bool) string {
	name := r.Name
	if len(name) > 24 {
		name = name[:21] + "..."
	}

	lead := r.LeadAttorney
	if lead == "" {
		lead = "-"
	}

	var style lipgloss.Style
	if selected {
		style = c.styles.Selected
	} else {
		style = lipgloss.NewStyle().Foreground(theme.Gray400)
	}

	cols := []string{
		style.Copy().Width(26).Render(name),
		style.Copy().Width(10).Render(util.FormatCurrency(r.Amount)),
		style.Copy().Width(9).Render(util.FormatHours(r.Hours)),
		style.Copy().Width(14).Render(r.Band),
		style.Copy().Width(10).Render(util.FormatCurrency(r.LTV)),
		style.Copy().Width(12).Render(util.FormatDateISO(r.LastActivity)),
		style.Copy().Width(20).Render(lead),
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, cols...)
}
