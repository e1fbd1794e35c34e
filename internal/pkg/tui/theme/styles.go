package theme

import (
	"sync"

	"github.com/charmbracelet/lipgloss"
)

// Styles contains all shared TUI styles
type Styles struct {
	// Text styles
	Title       lipgloss.Style
	Subtitle    lipgloss.Style
	Body        lipgloss.Style
	Muted       lipgloss.Style
	Bold        lipgloss.Style
	Highlighted lipgloss.Style

	// Interactive elements
	Selected lipgloss.Style
	Active   lipgloss.Style
	Inactive lipgloss.Style

	// Help and hints
	Help    lipgloss.Style
	HelpKey lipgloss.Style

	// Layout
	Container lipgloss.Style
	Card      lipgloss.Style

	// Status indicators
	Success lipgloss.Style
	Warning lipgloss.Style
	Error   lipgloss.Style
	Info    lipgloss.Style
}

var (
	defaultStyles *Styles
	once          sync.Once
)

// Default returns the singleton default Styles instance
func Default() *Styles {
	once.Do(func() {
		defaultStyles = newStyles()
	})
	return defaultStyles
}

func newStyles() *Styles {
	return &Styles{
		Title: lipgloss.NewStyle().
			Bold(true).
			Foreground(White).
			MarginBottom(1),

		Subtitle: lipgloss.NewStyle().
			Foreground(Teal).
			Bold(true),

		Body: lipgloss.NewStyle().
			Foreground(Gray400),

		Muted: lipgloss.NewStyle().
			Foreground(Gray500),

		Bold: lipgloss.NewStyle().
			Bold(true).
			Foreground(White),

		Highlighted: lipgloss.NewStyle().
			Foreground(BrightTeal).
			Bold(true),

		Selected: lipgloss.NewStyle().
			Foreground(Black).
			Background(White).
			Bold(true),

		Active: lipgloss.NewStyle().
			Foreground(BrightTeal).
			Bold(true),

		Inactive: lipgloss.NewStyle().
			Foreground(Gray500),

		Help: lipgloss.NewStyle().
			Foreground(Gray500).
			MarginTop(1),

		HelpKey: lipgloss.NewStyle().
			Foreground(Gray400).
			Bold(true),

		Container: lipgloss.NewStyle().
			Padding(1, 2),

		Card: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(Gray700).
			Padding(1, 2),

		Success: lipgloss.NewStyle().
			Foreground(Success),

		Warning: lipgloss.NewStyle().
			Foreground(Warning),

		Error: lipgloss.NewStyle().
			Foreground(Error),

		Info: lipgloss.NewStyle().
			Foreground(Info),
	}
}
