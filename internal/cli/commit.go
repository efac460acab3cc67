package cli

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/buker/convey/internal/commit"
	"github.com/buker/convey/internal/generator"
)

var commitCmd = &cobra.Command{
	Use:   "commit",
	Short: "Write a commit message with plain terminal prompts",
	Long: `Generate a conventional commit message for staged changes and create the commit,
using plain line-based prompts instead of the full-screen interface.

When no provider is available or generation fails, you are asked for each
part of the message instead.`,
	RunE: runCommit,
}

func runCommit(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	out := cmd.OutOrStdout()

	w, err := prepareWorkflow(cmd)
	if err != nil {
		return err
	}
	generate, err := w.proposer()
	if err != nil {
		return err
	}

	fmt.Fprintln(out, "convey - Commit")
	fmt.Fprintln(out, strings.Repeat("-", 40))

	scopes, defaults := w.suggestions()
	flow := &plainFlow{
		p:        newPrompter(cmd.InOrStdin(), out),
		out:      out,
		rules:    w.rules,
		scopes:   scopes,
		defaults: defaults,
	}

	msg, ok, err := flow.run(ctx, generate)
	if err != nil {
		return err
	}
	if !ok {
		fmt.Fprintln(out, "Commit cancelled.")
		return nil
	}

	return finishCommit(ctx, out, w.repo, msg, w.dryRun, w.push)
}

// plainFlow drives generate, confirm, edit and manual entry on a plain terminal.
type plainFlow struct {
	p        *prompter
	out      io.Writer
	rules    commit.Rules
	scopes   []string
	defaults commit.Fields
}

// run returns the accepted message, or ok=false when the user cancelled.
// A nil generate goes straight to manual entry.
func (f *plainFlow) run(ctx context.Context, generate func(context.Context, generator.StatusCallback) (*generator.Proposal, error)) (msg commit.Message, ok bool, err error) {
	var provider string
	if generate != nil {
		fmt.Fprintln(f.out, "\nGenerating commit message...")
		proposal, genErr := generate(ctx, f.reportStatus)
		if genErr != nil {
			fmt.Fprintf(f.out, "\nAI generation unavailable: %v\n", genErr)
			fmt.Fprintln(f.out, "Write the message manually instead.")
		} else {
			msg, ok, provider = proposal.Message, true, proposal.Provider
			if proposal.Result != nil && proposal.Result.Reasoning != "" {
				fmt.Fprintf(f.out, "\n%s (confidence %d%%): %s\n", provider, proposal.Result.Confidence, proposal.Result.Reasoning)
			}
		}
	}

	if !ok {
		if msg, err = f.p.manualEntry(f.rules, f.scopes, f.defaults); err != nil {
			return commit.Message{}, false, err
		}
	}

	for {
		// Display commit message
		fmt.Fprintln(f.out, "\n"+strings.Repeat("-", 40))
		fmt.Fprintln(f.out, "Commit message:")
		fmt.Fprintln(f.out)
		fmt.Fprintln(f.out, indent(msg.Format()))
		fmt.Fprintln(f.out)
		fmt.Fprintln(f.out, strings.Repeat("-", 40))

		choice, err := f.p.ask("\n[y] commit  [e] edit  [m] write manually  [n] cancel", "n")
		if err != nil {
			return commit.Message{}, false, err
		}

		switch strings.ToLower(choice) {
		case "y", "yes":
			return msg, true, nil
		case "e", "edit":
			if msg, err = f.p.manualEntry(f.rules, f.scopes, msg.Fields()); err != nil {
				return commit.Message{}, false, err
			}
		case "m", "manual":
			if msg, err = f.p.manualEntry(f.rules, f.scopes, f.defaults); err != nil {
				return commit.Message{}, false, err
			}
		case "n", "no":
			return commit.Message{}, false, nil
		default:
			fmt.Fprintf(f.out, "Unknown choice %q\n", choice)
		}
	}
}

func (f *plainFlow) reportStatus(provider string, status generator.Status) {
	switch status {
	case generator.StatusChecking:
		fmt.Fprintf(f.out, "  checking %s...\n", provider)
	case generator.StatusUnavailable:
		fmt.Fprintf(f.out, "  %s is not available\n", provider)
	case generator.StatusGenerating:
		fmt.Fprintf(f.out, "  asking %s...\n", provider)
	case generator.StatusFailed:
		fmt.Fprintf(f.out, "  %s failed\n", provider)
	}
}
