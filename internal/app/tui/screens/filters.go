package screens

import (
	"fmt"

	"github.com/aavadhan10/ogc-dashboard/internal/analytics"
	"github.com/aavadhan10/ogc-dashboard/internal/domain"
	"github.com/aavadhan10/ogc-dashboard/internal/pkg/tui/components"
	"github.com/aavadhan10/ogc-dashboard/internal/pkg/tui/theme"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// OptionsLoadedMsg carries the selectable filter values.
type OptionsLoadedMsg struct {
	Options analytics.FilterOptions
}

// Filters lets the user narrow the dataset by attorney, practice group and
// revenue band. Date bounds come from command-line flags and are shown
// read-only here.
type Filters struct {
	selection domain.Selection

	attorneys components.Selector
	groups    components.Selector
	bands     components.Selector
	focused   int

	loaded bool
	styles *theme.Styles
	width  int
	height int
}

// NewFilters creates a new filters screen seeded with the active selection.
func NewFilters(sel domain.Selection) *Filters {
	return &Filters{
		selection: sel,
		styles:    theme.Default(),
	}
}

func (f *Filters) selectors() []*components.Selector {
	return []*components.Selector{&f.attorneys, &f.groups, &f.bands}
}

// Update implements the screen model
func (f *Filters) Update(msg tea.Msg) (*Filters, tea.Cmd) {
	switch msg := msg.(type) {
	case OptionsLoadedMsg:
		f.loaded = true
		f.attorneys = components.NewMultiSelector("ATTORNEYS", toOptions(msg.Options.Attorneys))
		f.groups = components.NewMultiSelector("PRACTICE GROUPS", toOptions(msg.Options.PracticeGroups))
		f.bands = components.NewMultiSelector("REVENUE BANDS", toOptions(msg.Options.RevenueBands))
		f.attorneys.SetSelected(f.selection.Attorneys)
		f.groups.SetSelected(f.selection.PracticeGroups)
		f.bands.SetSelected(f.selection.RevenueBands)
		f.focused = 0
		f.attorneys.Focus()
		return f, nil

	case tea.WindowSizeMsg:
		f.width = msg.Width
		f.height = msg.Height
		return f, nil

	case tea.KeyMsg:
		if !f.loaded {
			return f, nil
		}
		switch msg.String() {
		case "tab":
			sels := f.selectors()
			sels[f.focused].Blur()
			f.focused = (f.focused + 1) % len(sels)
			sels[f.focused].Focus()
			return f, nil
		case "c":
			for _, s := range f.selectors() {
				s.Clear()
			}
			return f, nil
		case "enter":
			return f, f.apply()
		}

		var cmd tea.Cmd
		switch f.focused {
		case 0:
			f.attorneys, cmd = f.attorneys.Update(msg)
		case 1:
			f.groups, cmd = f.groups.Update(msg)
		case 2:
			f.bands, cmd = f.bands.Update(msg)
		}
		return f, cmd
	}

	return f, nil
}

func (f *Filters) apply() tea.Cmd {
	sel := f.selection
	sel.Attorneys = f.attorneys.SelectedValues()
	sel.PracticeGroups = f.groups.SelectedValues()
	sel.RevenueBands = f.bands.SelectedValues()
	f.selection = sel
	return func() tea.Msg {
		return FiltersAppliedMsg{Selection: sel}
	}
}

// View implements the screen model
func (f *Filters) View() string {
	title := f.styles.Title.Render("Filters")

	if !f.loaded {
		return lipgloss.JoinVertical(lipgloss.Left, title,
			f.styles.Muted.Render("Loading filter values..."))
	}

	columns := lipgloss.JoinHorizontal(lipgloss.Top,
		lipgloss.NewStyle().Width(34).Render(f.attorneys.View()),
		lipgloss.NewStyle().Width(34).Render(f.groups.View()),
		lipgloss.NewStyle().Width(24).Render(f.bands.View()),
	)

	help := components.NewHelpBar(
		components.KeyBinding{Key: "tab", Desc: "next list"},
		components.KeyBinding{Key: "space", Desc: "toggle"},
		components.KeyBinding{Key: "enter", Desc: "apply"},
		components.KeyBinding{Key: "c", Desc: "clear"},
	)

	sections := []string{title, f.renderDateBounds(), "", columns, f.styles.Help.Render(help.View())}
	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

func (f *Filters) renderDateBounds() string {
	if f.selection.From == nil || f.selection.To == nil {
		return f.styles.Muted.Render("Date range: all dates (set with --from/--to)")
	}
	return f.styles.Muted.Render(fmt.Sprintf("Date range: %s to %s",
		f.selection.From.Format("2006-01-02"), f.selection.To.Format("2006-01-02")))
}

func toOptions(values []string) []components.Option {
	out := make([]components.Option, 0, len(values))
	for _, v := range values {
		out = append(out, components.Option{Label: v, Value: v})
	}
	return out
}
