package cli

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/buker/convey/internal/commit"
	"github.com/buker/convey/internal/generator"
)

var lintCmd = &cobra.Command{
	Use:   "lint [file|-]",
	Short: "Check that a commit message follows the configured conventions",
	Long: `Validate a commit message against the configured commit types and limits.

The message is read from the given file, or from stdin when the argument is
"-" or missing. Git comment lines are ignored, so the command can be used as
the body of a commit-msg hook:

  convey lint "$1"

Merge, revert, fixup and squash messages generated by git are accepted as is.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runLint,
}

// generatedPrefixes mark messages written by git itself.
var generatedPrefixes = []string{"Merge ", "Revert \"", "fixup! ", "squash! ", "amend! "}

func runLint(cmd *cobra.Command, args []string) error {
	_, cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	raw, err := readMessage(cmd.InOrStdin(), args)
	if err != nil {
		return err
	}

	msg, skipped, err := lintMessage(raw, generator.RulesFromConfig(cfg.Commit))
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()
	if skipped {
		fmt.Fprintln(out, "skipped: message generated by git")
		return nil
	}
	fmt.Fprintf(out, "ok: %s\n", msg.Header())
	return nil
}

func readMessage(stdin io.Reader, args []string) (string, error) {
	if len(args) == 0 || args[0] == "-" {
		data, err := io.ReadAll(stdin)
		if err != nil {
			return "", fmt.Errorf("failed to read message from stdin: %w", err)
		}
		return string(data), nil
	}
	data, err := os.ReadFile(args[0])
	if err != nil {
		return "", fmt.Errorf("failed to read message file: %w", err)
	}
	return string(data), nil
}

// lintMessage strips git comments, parses and validates raw. Messages that
// git generates itself are reported as skipped.
func lintMessage(raw string, rules commit.Rules) (commit.Message, bool, error) {
	text := commit.StripComments(raw)
	for _, prefix := range generatedPrefixes {
		if strings.HasPrefix(text, prefix) {
			return commit.Message{}, true, nil
		}
	}

	fields, err := commit.Parse(text)
	if err != nil {
		return commit.Message{}, false, fmt.Errorf("invalid commit message: %w", err)
	}
	msg, err := rules.Build(fields)
	if err != nil {
		return commit.Message{}, false, fmt.Errorf("invalid commit message: %w", err)
	}
	return msg, false, nil
}
