// Package tui provides the terminal user interface using Bubble Tea.
// It shows provider progress while a message is generated, lets the user
// confirm, edit or replace the proposal, and falls back to a manual-entry
// form when no provider can help.
package tui

import (
	"errors"
	"strings"
	"sync"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/buker/convey/internal/commit"
	"github.com/buker/convey/internal/generator"
	"github.com/buker/convey/internal/tui/shared"
	"github.com/buker/convey/internal/tui/views"
)

// State represents the current phase of the commit workflow.
type State int

const (
	StateGenerating State = iota // Waiting for a provider proposal
	StateConfirming              // Showing a message, waiting for y/e/m/n
	StateEditing                 // Editing the full message text
	StateManual                  // Filling in the manual-entry form
	StateDone                    // Workflow completed
	StateError                   // Generation failed; manual entry offered
)

// Options configures a Model.
type Options struct {
	Rules  commit.Rules
	Scopes []string // scope suggestions for the manual form
	Manual bool     // start in the manual form, skipping generation
	// Defaults pre-fill the manual form when nothing was generated.
	Defaults commit.Fields
}

// Model is the main Bubble Tea model that manages the TUI state and rendering.
type Model struct {
	state        State
	rules        commit.Rules
	keys         shared.KeyMap
	progressView *views.ProgressView
	commitView   *views.CommitConfirmView
	manualView   *views.ManualView
	message      commit.Message
	hasMessage   bool
	confirmed    bool
	err          error
	width        int
	height       int
	mu           sync.RWMutex // Protects fields read after the program exits
}

// NewModel creates a Model in the generating state, or in the manual form
// when opts.Manual is set.
func NewModel(opts Options) *Model {
	m := &Model{
		state:        StateGenerating,
		rules:        opts.Rules,
		keys:         shared.DefaultKeyMap(),
		progressView: views.NewProgressView(),
		commitView:   views.NewCommitConfirmView(),
		manualView:   views.NewManualView(opts.Rules.AllowedTypes(), opts.Scopes),
	}
	m.manualView.SetFields(opts.Defaults)
	if opts.Manual {
		m.state = StateManual
		m.manualView.Focus()
	}
	return m
}

// Init initializes the model
func (m *Model) Init() tea.Cmd {
	if m.state == StateManual {
		return m.manualView.Init()
	}
	return m.progressView.Init()
}

// Update handles messages and updates the model
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.progressView.SetSize(msg.Width, msg.Height)
		m.commitView.SetSize(msg.Width, msg.Height)
		m.manualView.SetSize(msg.Width, msg.Height)
		return m, nil

	case tea.KeyMsg:
		if msg.Type == tea.KeyCtrlC {
			return m.finish(false)
		}
		return m.handleKey(msg)

	case MsgStatus:
		m.progressView.SetStatus(msg.Provider, msg.Status)
		return m, nil

	case MsgProposal:
		if m.state != StateGenerating || msg.Proposal == nil {
			return m, nil
		}
		r := msg.Proposal.Result
		confidence, reasoning := -1, ""
		if r != nil {
			confidence, reasoning = r.Confidence, r.Reasoning
		}
		m.setMessage(msg.Proposal.Message)
		m.commitView.SetProvenance(msg.Proposal.Provider, confidence, reasoning)
		m.manualView.SetFields(msg.Proposal.Message.Fields())
		m.state = StateConfirming
		return m, nil

	case MsgError:
		if m.state != StateGenerating {
			return m, nil
		}
		m.mu.Lock()
		m.err = msg.Err
		m.mu.Unlock()
		m.state = StateError
		return m, nil

	case MsgQuit:
		return m, tea.Quit
	}

	return m.forward(msg)
}

// forward passes non-key messages, such as spinner ticks and cursor blinks,
// to the active view
func (m *Model) forward(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	switch m.state {
	case StateGenerating:
		m.progressView, cmd = m.progressView.Update(msg)
	case StateEditing:
		m.commitView, cmd = m.commitView.Update(msg)
	case StateManual:
		m.manualView, cmd = m.manualView.Update(msg)
	}
	return m, cmd
}

func (m *Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch m.state {
	case StateGenerating:
		switch {
		case key.Matches(msg, m.keys.Quit):
			return m.finish(false)
		case key.Matches(msg, m.keys.Manual):
			return m, m.enterManual()
		}

	case StateConfirming:
		switch {
		case key.Matches(msg, m.keys.Confirm):
			return m.finish(true)
		case key.Matches(msg, m.keys.Edit):
			m.state = StateEditing
			return m, m.commitView.StartEditing()
		case key.Matches(msg, m.keys.Manual):
			return m, m.enterManual()
		case key.Matches(msg, m.keys.Cancel), key.Matches(msg, m.keys.Escape), key.Matches(msg, m.keys.Quit):
			return m.finish(false)
		}

	case StateEditing:
		switch {
		case key.Matches(msg, m.keys.Escape):
			m.commitView.CancelEditing()
			m.state = StateConfirming
			return m, nil
		case key.Matches(msg, m.keys.Save):
			m.saveEdit()
			return m, nil
		}
		var cmd tea.Cmd
		m.commitView, cmd = m.commitView.Update(msg)
		return m, cmd

	case StateManual:
		switch {
		case key.Matches(msg, m.keys.Escape):
			if m.hasMessage {
				m.state = StateConfirming
				return m, nil
			}
			return m.finish(false)
		case key.Matches(msg, m.keys.Save):
			m.submitManual()
			return m, nil
		case key.Matches(msg, m.keys.Toggle):
			m.manualView.ToggleBreaking()
			return m, nil
		case key.Matches(msg, m.keys.Submit):
			if m.manualView.IsLastField() {
				m.submitManual()
				return m, nil
			}
			return m, m.manualView.Next()
		case key.Matches(msg, m.keys.Next):
			return m, m.manualView.Next()
		case key.Matches(msg, m.keys.Prev):
			return m, m.manualView.Prev()
		}
		var cmd tea.Cmd
		m.manualView, cmd = m.manualView.Update(msg)
		return m, cmd

	case StateError:
		switch {
		case key.Matches(msg, m.keys.Manual):
			return m, m.enterManual()
		case key.Matches(msg, m.keys.Quit), key.Matches(msg, m.keys.Cancel), key.Matches(msg, m.keys.Escape):
			return m.finish(false)
		}

	case StateDone:
		return m, tea.Quit
	}

	return m, nil
}

func (m *Model) enterManual() tea.Cmd {
	m.state = StateManual
	m.manualView.SetError("")
	return m.manualView.FocusField(m.manualFocus())
}

// manualFocus picks the first field worth typing into: the subject when a
// type is already filled in, else the type.
func (m *Model) manualFocus() int {
	if m.manualView.Fields().Type != "" {
		return views.FieldSubject
	}
	return views.FieldType
}

// saveEdit re-parses the edited text. Invalid text keeps the editor open
// with the validation error shown.
func (m *Model) saveEdit() {
	text := commit.StripComments(m.commitView.GetCommitMessage())
	fields, err := commit.Parse(text)
	if err == nil {
		var msg commit.Message
		msg, err = m.rules.Build(fields)
		if err == nil {
			m.commitView.StopEditing()
			m.setMessage(msg)
			m.manualView.SetFields(msg.Fields())
			m.state = StateConfirming
			return
		}
	}
	m.commitView.SetError(err.Error())
}

// submitManual validates the form. Invalid input keeps the form open with
// the validation error shown.
func (m *Model) submitManual() {
	msg, err := m.rules.Build(m.manualView.Fields())
	if err != nil {
		m.manualView.SetError(err.Error())
		var ve *commit.ValidationError
		if errors.As(err, &ve) {
			if i, ok := formField[ve.Field]; ok {
				m.manualView.FocusField(i)
			}
		}
		return
	}
	m.manualView.SetError("")
	m.setMessage(msg)
	m.commitView.SetProvenance("manual", -1, "")
	m.state = StateConfirming
}

var formField = map[string]int{
	"type":    views.FieldType,
	"scope":   views.FieldScope,
	"subject": views.FieldSubject,
	"body":    views.FieldBody,
}

func (m *Model) setMessage(msg commit.Message) {
	m.mu.Lock()
	m.message = msg
	m.hasMessage = true
	m.mu.Unlock()
	m.commitView.SetError("")
	m.commitView.SetCommitMessage(msg.Format())
}

func (m *Model) finish(confirmed bool) (tea.Model, tea.Cmd) {
	m.mu.Lock()
	m.confirmed = confirmed && m.hasMessage
	m.mu.Unlock()
	m.state = StateDone
	return m, tea.Quit
}

// View renders the model
func (m *Model) View() string {
	switch m.state {
	case StateGenerating:
		return m.progressView.View()
	case StateConfirming, StateEditing:
		return m.commitView.View()
	case StateManual:
		return m.manualView.View()
	case StateError:
		var b strings.Builder
		b.WriteString(m.progressView.View())
		b.WriteString("\n\n")
		b.WriteString(shared.ErrorStyle.Render("Could not generate a message: " + errorText(m.Err())))
		b.WriteString("\n\n")
		b.WriteString(shared.HelpKeyStyle.Render(shared.ErrorHelp()))
		return b.String()
	case StateDone:
		if m.IsConfirmed() {
			return ""
		}
		return "Commit cancelled.\n"
	}
	return ""
}

func errorText(err error) string {
	if errors.Is(err, generator.ErrNoProviderAvailable) {
		return strings.Replace(err.Error(), generator.ErrNoProviderAvailable.Error(), "no AI provider is available", 1)
	}
	if err == nil {
		return "unknown error"
	}
	return err.Error()
}

// State returns the current workflow phase
func (m *Model) State() State {
	return m.state
}

// IsConfirmed returns whether the user confirmed the commit
func (m *Model) IsConfirmed() bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.confirmed
}

// Message returns the accepted commit message, if any
func (m *Model) Message() (commit.Message, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.message, m.hasMessage
}

// Err returns the generation error shown to the user, if any
func (m *Model) Err() error {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.err
}
