package theme

import "github.com/charmbracelet/lipgloss"

// Color palette for the legal analytics dashboard
var (
	// Primary colors
	Teal       = lipgloss.Color("#14B8A6")
	BrightTeal = lipgloss.Color("#2DD4BF")
	DarkTeal   = lipgloss.Color("#0F766E")

	// Neutrals
	White   = lipgloss.Color("#FFFFFF")
	Gray400 = lipgloss.Color("#9CA3AF")
	Gray500 = lipgloss.Color("#6B7280")
	Gray600 = lipgloss.Color("#4B5563")
	Gray700 = lipgloss.Color("#374151")
	Black   = lipgloss.Color("#111827")

	// Semantic colors
	Success = lipgloss.Color("#22C55E")
	Warning = lipgloss.Color("#F59E0B")
	Error   = lipgloss.Color("#EF4444")
	Info    = lipgloss.Color("#3B82F6")

	// Accent colors
	Gold   = lipgloss.Color("#EAB308")
	Orange = lipgloss.Color("#F97316")
)
