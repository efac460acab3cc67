// Package shared provides the styles, key bindings and help text used by the
// TUI model and its views.
package shared

import "github.com/charmbracelet/lipgloss"

// Color definitions for the TUI
var (
	ColorError  = lipgloss.Color("#FF5555") // Red - errors, failures
	ColorWarn   = lipgloss.Color("#FFAA00") // Yellow/Orange - in progress, low confidence
	ColorGreen  = lipgloss.Color("#55FF55") // Green - success
	ColorBorder = lipgloss.Color("#444444") // Border color
	ColorDimmed = lipgloss.Color("#666666") // Dimmed text
	ColorAccent = lipgloss.Color("#7B68EE") // Accent color (medium slate blue)
)

// Style definitions for shared components
var (
	// Header styles
	HeaderStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FFFFFF"))

	TitleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(ColorAccent)

	// Message box around a proposed commit message
	MessageBoxStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(ColorBorder).
			Padding(0, 1)

	// Form labels
	LabelStyle = lipgloss.NewStyle().
			Width(22).
			Foreground(ColorDimmed)

	FocusedLabelStyle = lipgloss.NewStyle().
				Width(22).
				Bold(true).
				Foreground(ColorAccent)

	// Status indicator styles
	StatusPendingStyle = lipgloss.NewStyle().
				Foreground(ColorDimmed)

	StatusRunningStyle = lipgloss.NewStyle().
				Foreground(ColorWarn)

	StatusDoneStyle = lipgloss.NewStyle().
			Foreground(ColorGreen)

	StatusFailedStyle = lipgloss.NewStyle().
				Foreground(ColorError)

	ErrorStyle = lipgloss.NewStyle().
			Foreground(ColorError).
			Bold(true)

	// Help/Footer styles
	HelpKeyStyle = lipgloss.NewStyle().
			Foreground(ColorAccent)

	HelpDescStyle = lipgloss.NewStyle().
			Foreground(ColorDimmed)

	// Divider
	DividerStyle = lipgloss.NewStyle().
			Foreground(ColorBorder)
)

// Status indicators
const (
	StatusIndicatorPending = "○"
	StatusIndicatorRunning = "◐"
	StatusIndicatorDone    = "✓"
	StatusIndicatorFailed  = "✗"

	SelectionChar = "▶"
)

// RenderDivider creates a horizontal divider of the specified width
func RenderDivider(width int) string {
	return DividerStyle.Render(repeatChar('─', width))
}

// repeatChar returns a string with the character repeated n times
func repeatChar(char rune, n int) string {
	if n <= 0 {
		return ""
	}
	result := make([]rune, n)
	for i := range result {
		result[i] = char
	}
	return string(result)
}

// ConfidenceStyle returns the style for a provider confidence score (0-100).
func ConfidenceStyle(confidence int) lipgloss.Style {
	switch {
	case confidence >= 75:
		return StatusDoneStyle
	case confidence >= 40:
		return StatusRunningStyle
	default:
		return StatusFailedStyle
	}
}
