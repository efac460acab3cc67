package tui

import "github.com/buker/convey/internal/generator"

// MsgStatus is sent when a provider moves to a new step of the attempt
type MsgStatus struct {
	Provider string
	Status   generator.Status
}

// MsgProposal is sent when a validated proposal is ready
type MsgProposal struct {
	Proposal *generator.Proposal
}

// MsgError is sent when generation failed. The user may still write the
// message manually.
type MsgError struct {
	Err error
}

// MsgQuit is sent to quit the application
type MsgQuit struct{}
