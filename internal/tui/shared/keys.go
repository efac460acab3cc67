package shared

import "github.com/charmbracelet/bubbles/key"

// KeyMap defines all keybindings for the TUI
type KeyMap struct {
	Quit    key.Binding
	Confirm key.Binding
	Cancel  key.Binding
	Edit    key.Binding
	Manual  key.Binding
	Save    key.Binding
	Escape  key.Binding
	Next    key.Binding
	Prev    key.Binding
	Submit  key.Binding
	Toggle  key.Binding
}

// DefaultKeyMap returns the default keybindings
func DefaultKeyMap() KeyMap {
	return KeyMap{
		Quit: key.NewBinding(
			key.WithKeys("q", "ctrl+c"),
			key.WithHelp("q", "quit"),
		),
		Confirm: key.NewBinding(
			key.WithKeys("y", "Y"),
			key.WithHelp("y", "commit"),
		),
		Cancel: key.NewBinding(
			key.WithKeys("n", "N"),
			key.WithHelp("n", "cancel"),
		),
		Edit: key.NewBinding(
			key.WithKeys("e"),
			key.WithHelp("e", "edit"),
		),
		Manual: key.NewBinding(
			key.WithKeys("m"),
			key.WithHelp("m", "write manually"),
		),
		Save: key.NewBinding(
			key.WithKeys("ctrl+s"),
			key.WithHelp("^s", "save"),
		),
		Escape: key.NewBinding(
			key.WithKeys("esc"),
			key.WithHelp("Esc", "back"),
		),
		Next: key.NewBinding(
			key.WithKeys("tab", "down"),
			key.WithHelp("Tab", "next field"),
		),
		Prev: key.NewBinding(
			key.WithKeys("shift+tab", "up"),
			key.WithHelp("S-Tab", "previous field"),
		),
		Submit: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("Enter", "next / submit"),
		),
		Toggle: key.NewBinding(
			key.WithKeys("ctrl+b"),
			key.WithHelp("^b", "toggle breaking"),
		),
	}
}

// ConfirmHelp returns help text for the proposal confirmation view
func ConfirmHelp() string {
	return " [y] commit  [e] edit message  [m] write manually  [n] cancel"
}

// EditHelp returns help text while editing the full message
func EditHelp() string {
	return " [^s] save  [Esc] discard changes"
}

// ManualHelp returns help text for the manual entry form
func ManualHelp() string {
	return " [Tab/S-Tab] move  [Enter] next / submit  [^b] toggle breaking  [^s] submit  [Esc] back"
}

// ErrorHelp returns help text after a failed generation
func ErrorHelp() string {
	return " [m] write manually  [q] quit"
}

// ProgressHelp returns help text for the progress view
func ProgressHelp() string {
	return " [m] skip to manual entry  [q] quit"
}
