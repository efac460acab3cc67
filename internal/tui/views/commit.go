package views

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/charmbracelet/bubbles/textarea"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/buker/convey/internal/tui/shared"
)

// CommitConfirmView shows a proposed commit message and lets the user edit
// it as free text
type CommitConfirmView struct {
	width         int
	height        int
	commitMessage string
	provider      string
	confidence    int
	reasoning     string
	errMsg        string
	editing       bool
	textarea      textarea.Model
}

// NewCommitConfirmView creates a new commit confirm view
func NewCommitConfirmView() *CommitConfirmView {
	ta := textarea.New()
	ta.Placeholder = "type(scope): subject"
	ta.ShowLineNumbers = false
	ta.CharLimit = 0

	return &CommitConfirmView{
		textarea:   ta,
		confidence: -1,
	}
}

// SetCommitMessage sets the commit message to display
func (v *CommitConfirmView) SetCommitMessage(msg string) {
	v.commitMessage = msg
	v.textarea.SetValue(msg)
}

// SetProvenance records which provider proposed the message. A negative
// confidence hides the score, as for manually written messages.
func (v *CommitConfirmView) SetProvenance(provider string, confidence int, reasoning string) {
	v.provider = provider
	v.confidence = confidence
	v.reasoning = reasoning
}

// SetError shows a validation error below the message; "" clears it
func (v *CommitConfirmView) SetError(msg string) {
	v.errMsg = msg
}

// Error returns the validation error currently shown
func (v *CommitConfirmView) Error() string {
	return v.errMsg
}

// SetSize updates the view dimensions
func (v *CommitConfirmView) SetSize(width, height int) {
	v.width = width
	v.height = height

	v.textarea.SetWidth(max(min(width-4, 100), 20))
	v.textarea.SetHeight(10)
}

// GetCommitMessage returns the current commit message (may be edited)
func (v *CommitConfirmView) GetCommitMessage() string {
	if v.editing {
		return v.textarea.Value()
	}
	return v.commitMessage
}

// IsEditing returns true if in edit mode
func (v *CommitConfirmView) IsEditing() bool {
	return v.editing
}

// StartEditing enters edit mode
func (v *CommitConfirmView) StartEditing() tea.Cmd {
	v.editing = true
	v.errMsg = ""
	v.textarea.SetValue(v.commitMessage)
	v.textarea.Focus()
	return textarea.Blink
}

// StopEditing exits edit mode and keeps the edited text
func (v *CommitConfirmView) StopEditing() {
	v.editing = false
	v.commitMessage = v.textarea.Value()
	v.textarea.Blur()
}

// CancelEditing exits edit mode without saving
func (v *CommitConfirmView) CancelEditing() {
	v.editing = false
	v.errMsg = ""
	v.textarea.SetValue(v.commitMessage)
	v.textarea.Blur()
}

// Init initializes the view
func (v *CommitConfirmView) Init() tea.Cmd {
	return nil
}

// Update handles messages
func (v *CommitConfirmView) Update(msg tea.Msg) (*CommitConfirmView, tea.Cmd) {
	if v.editing {
		var cmd tea.Cmd
		v.textarea, cmd = v.textarea.Update(msg)
		return v, cmd
	}
	return v, nil
}

// View renders the commit confirm view
func (v *CommitConfirmView) View() string {
	var b strings.Builder

	b.WriteString(shared.TitleStyle.Render("convey - Confirm Commit"))
	b.WriteString("\n")
	b.WriteString(shared.RenderDivider(54))
	b.WriteString("\n\n")

	if v.provider != "" {
		b.WriteString(" Proposed by ")
		b.WriteString(shared.HeaderStyle.Render(v.provider))
		if v.confidence >= 0 {
			b.WriteString("  confidence ")
			b.WriteString(shared.ConfidenceStyle(v.confidence).Render(fmt.Sprintf("%d%%", v.confidence)))
		}
		b.WriteString("\n")
		if v.reasoning != "" {
			for _, line := range strings.Split(wordWrap(v.reasoning, max(v.width-2, 40)), "\n") {
				b.WriteString(shared.HelpDescStyle.Render(" " + line))
				b.WriteString("\n")
			}
		}
		b.WriteString("\n")
	}

	if v.editing {
		b.WriteString(v.textarea.View())
	} else {
		b.WriteString(v.renderMessageBox())
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

	if v.editing {
		b.WriteString(shared.HelpKeyStyle.Render(shared.EditHelp()))
	} else {
		b.WriteString(shared.HelpKeyStyle.Render(shared.ConfirmHelp()))
	}

	return b.String()
}

// renderMessageBox renders the commit message in a bordered box
func (v *CommitConfirmView) renderMessageBox() string {
	style := shared.MessageBoxStyle
	if v.width > 10 {
		style = style.MaxWidth(v.width - 2)
	}
	return style.Render(v.commitMessage)
}

// wordWrap wraps text to the specified width
func wordWrap(text string, width int) string {
	if width <= 0 {
		return text
	}

	var result strings.Builder
	lineLen := 0
	for _, word := range strings.Fields(text) {
		wordLen := utf8.RuneCountInString(word)
		if lineLen+wordLen+1 > width && lineLen > 0 {
			result.WriteString("\n")
			lineLen = 0
		}
		if lineLen > 0 {
			result.WriteString(" ")
			lineLen++
		}
		result.WriteString(word)
		lineLen += wordLen
	}
	return result.String()
}
