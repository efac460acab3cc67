package tui

import (
	"context"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/buker/convey/internal/commit"
	"github.com/buker/convey/internal/generator"
)

// GenerateFunc produces a proposal, reporting provider progress through status.
type GenerateFunc func(ctx context.Context, status generator.StatusCallback) (*generator.Proposal, error)

// Program wraps a Bubble Tea program to provide a higher-level API for external control.
// It allows the generation flow to send state updates to the TUI while the
// TUI runs in a separate goroutine.
type Program struct {
	program *tea.Program // Underlying Bubble Tea program
	model   *Model       // Shared model for state access
	manual  bool         // Started in the manual form; nothing to generate
}

// NewProgram creates and initializes a new TUI Program ready to be started.
func NewProgram(opts Options, teaOpts ...tea.ProgramOption) *Program {
	model := NewModel(opts)
	program := tea.NewProgram(model, teaOpts...)
	return &Program{
		program: program,
		model:   model,
		manual:  opts.Manual,
	}
}

// Start runs the TUI program and blocks until it exits.
func (p *Program) Start() error {
	_, err := p.program.Run()
	return err
}

// Send dispatches a message to the TUI for processing.
// This is thread-safe and can be called from any goroutine.
func (p *Program) Send(msg tea.Msg) {
	p.program.Send(msg)
}

// SetStatus notifies the TUI that a provider changed status
func (p *Program) SetStatus(provider string, status generator.Status) {
	p.Send(MsgStatus{Provider: provider, Status: status})
}

// SetProposal notifies the TUI that a proposal is ready
func (p *Program) SetProposal(proposal *generator.Proposal) {
	p.Send(MsgProposal{Proposal: proposal})
}

// SetError notifies the TUI that generation failed
func (p *Program) SetError(err error) {
	p.Send(MsgError{Err: err})
}

// Quit quits the TUI
func (p *Program) Quit() {
	p.Send(MsgQuit{})
}

// IsConfirmed returns whether the user confirmed the commit
func (p *Program) IsConfirmed() bool {
	return p.model.IsConfirmed()
}

// Message returns the accepted commit message, if any
func (p *Program) Message() (commit.Message, bool) {
	return p.model.Message()
}

// Run starts the TUI in the background and, unless the model starts in the
// manual form, runs generate while forwarding its progress to the TUI.
// Generation is cancelled if the user leaves first. Returns when the TUI exits.
func (p *Program) Run(ctx context.Context, generate GenerateFunc) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	// Run TUI in background
	errCh := make(chan error, 1)
	go func() {
		errCh <- p.Start()
		cancel()
	}()

	if generate != nil && !p.manual {
		proposal, err := generate(ctx, p.SetStatus)
		switch {
		case ctx.Err() != nil:
			// The TUI already exited
		case err != nil:
			p.SetError(err)
		default:
			p.SetProposal(proposal)
		}
	}

	return <-errCh
}
