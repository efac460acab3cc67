package cli

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/buker/convey/internal/commit"
)

// errInputClosed is returned when stdin ends before a question is answered.
var errInputClosed = errors.New("input closed")

// prompter asks questions on a plain terminal, one line per answer.
type prompter struct {
	in  *bufio.Reader
	out io.Writer
}

func newPrompter(in io.Reader, out io.Writer) *prompter {
	return &prompter{in: bufio.NewReader(in), out: out}
}

// ask prints label, with def in brackets when set, and returns the trimmed
// answer or def for an empty one.
func (p *prompter) ask(label, def string) (string, error) {
	if def != "" {
		fmt.Fprintf(p.out, "%s [%s]: ", label, def)
	} else {
		fmt.Fprintf(p.out, "%s: ", label)
	}

	line, err := p.in.ReadString('\n')
	if err != nil && (!errors.Is(err, io.EOF) || line == "") {
		return "", errInputClosed
	}
	answer := strings.TrimSpace(line)
	if answer == "" {
		return def, nil
	}
	return answer, nil
}

// askOptional is ask for a field that may be left empty; "-" clears def.
func (p *prompter) askOptional(label, def string) (string, error) {
	answer, err := p.ask(label+" (optional, - for none)", def)
	if answer == "-" {
		answer = ""
	}
	return answer, err
}

// confirm asks a yes/no question; an empty answer keeps def.
func (p *prompter) confirm(label string, def bool) (bool, error) {
	hint := " [y/N]"
	if def {
		hint = " [Y/n]"
	}
	answer, err := p.ask(label+hint, "")
	if err != nil {
		return false, err
	}
	switch strings.ToLower(answer) {
	case "":
		return def, nil
	case "y", "yes":
		return true, nil
	}
	return false, nil
}

// manualEntry asks for each field of a commit message until the answers
// form a valid message. Previous answers become the defaults of the next
// round.
func (p *prompter) manualEntry(rules commit.Rules, scopes []string, defaults commit.Fields) (commit.Message, error) {
	f := defaults
	for {
		fmt.Fprintf(p.out, "\nAllowed types: %s\n", strings.Join(rules.AllowedTypes(), ", "))
		if len(scopes) > 0 {
			fmt.Fprintf(p.out, "Suggested scopes: %s\n", strings.Join(scopes, ", "))
		}

		var err error
		if f.Type, err = p.ask("Type", f.Type); err != nil {
			return commit.Message{}, err
		}
		if f.Scope, err = p.askOptional("Scope", f.Scope); err != nil {
			return commit.Message{}, err
		}
		if f.Subject, err = p.ask("Subject", f.Subject); err != nil {
			return commit.Message{}, err
		}
		if f.Body, err = p.askOptional("Body", f.Body); err != nil {
			return commit.Message{}, err
		}
		if f.Breaking, err = p.confirm("Breaking change?", f.Breaking); err != nil {
			return commit.Message{}, err
		}
		if !f.Breaking {
			f.BreakingDescription = ""
		} else if f.BreakingDescription, err = p.askOptional("Describe the breaking change", f.BreakingDescription); err != nil {
			return commit.Message{}, err
		}

		msg, err := rules.Build(f)
		if err == nil {
			return msg, nil
		}
		fmt.Fprintf(p.out, "\nInvalid message: %s\n", err)
	}
}

// indent prefixes every line of s with two spaces.
func indent(s string) string {
	return "  " + strings.ReplaceAll(s, "\n", "\n  ")
}
