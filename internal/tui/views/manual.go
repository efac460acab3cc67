package views

import (
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/buker/convey/internal/commit"
	"github.com/buker/convey/internal/tui/shared"
)

// Manual form fields, in tab order
const (
	FieldType = iota
	FieldScope
	FieldSubject
	FieldBody
	FieldBreakingDescription
	fieldCount
)

var fieldLabels = [fieldCount]string{
	"Type",
	"Scope (optional)",
	"Subject",
	"Body (optional)",
	"Breaking change",
}

// ManualView is the manual-entry form for a conventional commit
type ManualView struct {
	width    int
	height   int
	inputs   [fieldCount]textinput.Model
	focus    int
	breaking bool
	errMsg   string
}

// NewManualView creates a form that suggests the given types and scopes
func NewManualView(types, scopes []string) *ManualView {
	v := &ManualView{}
	for i := range v.inputs {
		ti := textinput.New()
		ti.Prompt = ""
		ti.CharLimit = 0
		v.inputs[i] = ti
	}
	v.inputs[FieldType].Placeholder = strings.Join(types, ", ")
	if len(scopes) > 0 {
		v.inputs[FieldScope].Placeholder = strings.Join(scopes, ", ")
	}
	v.inputs[FieldSubject].Placeholder = "imperative summary, lowercase, no trailing period"
	v.inputs[FieldBreakingDescription].Placeholder = "describe what breaks (^b marks breaking without one)"
	return v
}

// SetFields pre-fills the form
func (v *ManualView) SetFields(f commit.Fields) {
	v.inputs[FieldType].SetValue(f.Type)
	v.inputs[FieldScope].SetValue(f.Scope)
	v.inputs[FieldSubject].SetValue(f.Subject)
	v.inputs[FieldBody].SetValue(strings.ReplaceAll(f.Body, "\n", " "))
	v.inputs[FieldBreakingDescription].SetValue(f.BreakingDescription)
	v.breaking = f.Breaking
}

// Fields returns the form content. A breaking-change description implies a
// breaking change.
func (v *ManualView) Fields() commit.Fields {
	desc := strings.TrimSpace(v.inputs[FieldBreakingDescription].Value())
	return commit.Fields{
		Type:                strings.TrimSpace(v.inputs[FieldType].Value()),
		Scope:               strings.TrimSpace(v.inputs[FieldScope].Value()),
		Subject:             strings.TrimSpace(v.inputs[FieldSubject].Value()),
		Body:                strings.TrimSpace(v.inputs[FieldBody].Value()),
		Breaking:            v.breaking || desc != "",
		BreakingDescription: desc,
	}
}

// ToggleBreaking flips the breaking flag
func (v *ManualView) ToggleBreaking() {
	v.breaking = !v.breaking
}

// SetError shows a validation error below the form; "" clears it
func (v *ManualView) SetError(msg string) {
	v.errMsg = msg
}

// Error returns the validation error currently shown
func (v *ManualView) Error() string {
	return v.errMsg
}

// Focused returns the index of the focused field
func (v *ManualView) Focused() int {
	return v.focus
}

// IsLastField reports whether the last field has focus
func (v *ManualView) IsLastField() bool {
	return v.focus == fieldCount-1
}

// Focus gives keyboard focus to the form, on its current field
func (v *ManualView) Focus() tea.Cmd {
	return v.setFocus(v.focus)
}

// FocusField moves focus to field i, clamped to the form
func (v *ManualView) FocusField(i int) tea.Cmd {
	return v.setFocus(max(0, min(i, fieldCount-1)))
}

// Next moves focus to the next field, wrapping around
func (v *ManualView) Next() tea.Cmd {
	return v.setFocus((v.focus + 1) % fieldCount)
}

// Prev moves focus to the previous field, wrapping around
func (v *ManualView) Prev() tea.Cmd {
	return v.setFocus((v.focus + fieldCount - 1) % fieldCount)
}

func (v *ManualView) setFocus(i int) tea.Cmd {
	v.focus = i
	var cmd tea.Cmd
	for j := range v.inputs {
		if j == i {
			cmd = v.inputs[j].Focus()
		} else {
			v.inputs[j].Blur()
		}
	}
	return cmd
}

// SetSize updates the view dimensions
func (v *ManualView) SetSize(width, height int) {
	v.width = width
	v.height = height
	for i := range v.inputs {
		v.inputs[i].Width = max(width-26, 20)
	}
}

// Init initializes the view
func (v *ManualView) Init() tea.Cmd {
	return textinput.Blink
}

// Update forwards input to the focused field
func (v *ManualView) Update(msg tea.Msg) (*ManualView, tea.Cmd) {
	var cmd tea.Cmd
	v.inputs[v.focus], cmd = v.inputs[v.focus].Update(msg)
	return v, cmd
}

// View renders the form
func (v *ManualView) View() string {
	var b strings.Builder

	b.WriteString(shared.TitleStyle.Render("convey - Write Commit Message"))
	b.WriteString("\n")
	b.WriteString(shared.RenderDivider(54))
	b.WriteString("\n\n")

	for i := range v.inputs {
		label := shared.LabelStyle
		marker := "  "
		if i == v.focus {
			label = shared.FocusedLabelStyle
			marker = shared.SelectionChar + " "
		}
		b.WriteString(marker)
		b.WriteString(label.Render(fieldLabels[i]))
		b.WriteString(v.inputs[i].View())
		b.WriteString("\n")
	}

	b.WriteString("\n  Breaking: ")
	if v.Fields().Breaking {
		b.WriteString(shared.ErrorStyle.Render("yes"))
	} else {
		b.WriteString(shared.StatusDoneStyle.Render("no"))
	}
	b.WriteString("\n")

	if v.errMsg != "" {
		b.WriteString("\n")
		b.WriteString(shared.ErrorStyle.Render(" " + v.errMsg))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(shared.RenderDivider(54))
	b.WriteString("\n")
	b.WriteString(shared.HelpKeyStyle.Render(shared.ManualHelp()))

	return b.String()
}
