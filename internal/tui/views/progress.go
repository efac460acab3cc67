// Package views provides individual view components for the TUI.
package views

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/buker/convey/internal/generator"
	"github.com/buker/convey/internal/tui/shared"
)

// ProviderStatus tracks the status and timing of one provider attempt
type ProviderStatus struct {
	Name      string
	Status    generator.Status
	StartTime time.Time
	EndTime   time.Time
}

// Duration returns the elapsed duration for this attempt
func (ps *ProviderStatus) Duration() time.Duration {
	if ps.StartTime.IsZero() {
		return 0
	}
	if ps.EndTime.IsZero() {
		return time.Since(ps.StartTime)
	}
	return ps.EndTime.Sub(ps.StartTime)
}

// running reports whether the provider is still being checked or queried
func (ps *ProviderStatus) running() bool {
	return ps.Status == generator.StatusChecking || ps.Status == generator.StatusGenerating
}

// ProgressView shows the providers tried so far while a message is generated
type ProgressView struct {
	width     int
	height    int
	spinner   spinner.Model
	providers []*ProviderStatus
}

// NewProgressView creates a new progress view
func NewProgressView() *ProgressView {
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = lipgloss.NewStyle().Foreground(shared.ColorWarn)

	return &ProgressView{spinner: s}
}

// SetStatus records a status change for provider, adding it on first sight
func (v *ProgressView) SetStatus(provider string, status generator.Status) {
	ps := v.find(provider)
	if ps == nil {
		ps = &ProviderStatus{Name: provider, StartTime: time.Now()}
		v.providers = append(v.providers, ps)
	}
	ps.Status = status
	if ps.running() {
		ps.EndTime = time.Time{}
	} else {
		ps.EndTime = time.Now()
	}
}

func (v *ProgressView) find(provider string) *ProviderStatus {
	for _, ps := range v.providers {
		if ps.Name == provider {
			return ps
		}
	}
	return nil
}

// Providers returns the attempts recorded so far, in the order first seen
func (v *ProgressView) Providers() []*ProviderStatus {
	return v.providers
}

// SetSize updates the view dimensions
func (v *ProgressView) SetSize(width, height int) {
	v.width = width
	v.height = height
}

// Init starts the spinner
func (v *ProgressView) Init() tea.Cmd {
	return v.spinner.Tick
}

// Update handles messages
func (v *ProgressView) Update(msg tea.Msg) (*ProgressView, tea.Cmd) {
	var cmd tea.Cmd
	v.spinner, cmd = v.spinner.Update(msg)
	return v, cmd
}

// View renders one row per provider
func (v *ProgressView) View() string {
	var b strings.Builder

	b.WriteString(shared.TitleStyle.Render("convey - Generating commit message"))
	b.WriteString("\n")
	b.WriteString(shared.RenderDivider(54))
	b.WriteString("\n")

	if len(v.providers) == 0 {
		b.WriteString(" " + v.spinner.View() + " Reading staged changes...\n")
	}

	for _, ps := range v.providers {
		var statusStr string
		var statusStyle lipgloss.Style
		switch ps.Status {
		case generator.StatusChecking:
			statusStr = v.spinner.View() + " Checking"
			statusStyle = shared.StatusRunningStyle
		case generator.StatusGenerating:
			statusStr = v.spinner.View() + " Generating"
			statusStyle = shared.StatusRunningStyle
		case generator.StatusDone:
			statusStr = shared.StatusIndicatorDone + " Done"
			statusStyle = shared.StatusDoneStyle
		case generator.StatusUnavailable:
			statusStr = shared.StatusIndicatorPending + " Unavailable"
			statusStyle = shared.StatusPendingStyle
		case generator.StatusFailed:
			statusStr = shared.StatusIndicatorFailed + " Failed"
			statusStyle = shared.StatusFailedStyle
		default:
			statusStr = string(ps.Status)
			statusStyle = shared.StatusPendingStyle
		}

		row := fmt.Sprintf(" %-10s │ %s │ %.1fs",
			ps.Name,
			statusStyle.Render(padRight(statusStr, 14)),
			ps.Duration().Seconds(),
		)
		b.WriteString(row)
		b.WriteString("\n")
	}

	b.WriteString(shared.RenderDivider(54))
	b.WriteString("\n")
	b.WriteString(shared.HelpKeyStyle.Render(shared.ProgressHelp()))

	return b.String()
}

// padRight pads a string to the given visible width
func padRight(s string, width int) string {
	visible := lipgloss.Width(s)
	if visible >= width {
		return s
	}
	return s + strings.Repeat(" ", width-visible)
}
