package ui

import "github.com/charmbracelet/lipgloss"

// Color constants for consistent styling across the application
const (
	// Semantic colors
	ColorSuccess = lipgloss.Color("#2ECC40") // Green
	ColorError   = lipgloss.Color("#F45756") // Red
	ColorWarning = lipgloss.Color("#FF841C") // Orange
	ColorInfo    = lipgloss.Color("#337AB7") // Blue
	ColorDefault = lipgloss.Color("#DDD")    // Light Grey
	ColorRunning = lipgloss.Color("#FF6E00") // Orange
	ColorPending = lipgloss.Color("#5A5A5A") // Grey
)

// Icon constants for consistent status representation
const (
	IconSuccess  = "✓"
	IconError    = "✖"
	IconWarning  = "⚠"
	IconInfo     = "ℹ"
	IconRunning  = "▶"
	IconEllipsis = "…"
)

// Standard style variants
var (
	// Text styles
	Bold   = lipgloss.NewStyle().Bold(true)
	Italic = lipgloss.NewStyle().Italic(true)
	Faint  = lipgloss.NewStyle().Faint(true)

	// Semantic styles
	Success = lipgloss.NewStyle().Foreground(ColorSuccess)
	Error   = lipgloss.NewStyle().Foreground(ColorError)
	Warning = lipgloss.NewStyle().Foreground(ColorWarning)

	// Layout styles
	Padding = lipgloss.NewStyle().Padding(0, 1)
	Header  = Bold.Copy().Padding(0, 1).Underline(true)

	// Border styles
	BorderRounded = lipgloss.NewStyle().Border(lipgloss.RoundedBorder())
)
