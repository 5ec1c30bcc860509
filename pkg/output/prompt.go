package output

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"golang.org/x/term"
)

// Choice is the answer to a write conflict.
type Choice int

const (
	ChoiceReplace Choice = iota
	ChoiceAppend
	ChoiceCancel
)

func (c Choice) String() string {
	switch c {
	case ChoiceReplace:
		return "Replace"
	case ChoiceAppend:
		return "Append"
	default:
		return "Cancel"
	}
}

// Prompter resolves a conflict with an existing write target.
type Prompter interface {
	Choose(ctx context.Context, path string) (Choice, error)
}

// PolicyPrompter answers every conflict with a fixed choice.
type PolicyPrompter struct {
	Choice Choice
}

func (p PolicyPrompter) Choose(context.Context, string) (Choice, error) {
	return p.Choice, nil
}

func policyChoice(policy Policy) (Choice, bool) {
	switch policy {
	case PolicyReplace:
		return ChoiceReplace, true
	case PolicyAppend:
		return ChoiceAppend, true
	case PolicyCancel:
		return ChoiceCancel, true
	default:
		return 0, false
	}
}

// LinePrompter asks on a line-oriented stream. Used when stdin is not a terminal.
type LinePrompter struct {
	In  io.Reader
	Out io.Writer

	reader *bufio.Reader
}

// Choose prints the question and reads answers until one is recognised.
// End of input counts as Cancel.
func (p *LinePrompter) Choose(ctx context.Context, path string) (Choice, error) {
	if p.reader == nil {
		p.reader = bufio.NewReader(p.In)
	}
	fmt.Fprintf(p.Out, "File '%s' already exists. What would you like to do?\n", path)
	for {
		if err := ctx.Err(); err != nil {
			return ChoiceCancel, err
		}
		fmt.Fprint(p.Out, "[r]eplace, [a]ppend or [c]ancel: ")
		response, err := p.reader.ReadString('\n')
		if err != nil && !errors.Is(err, io.EOF) {
			return ChoiceCancel, err
		}
		switch strings.TrimSpace(strings.ToLower(response)) {
		case "r", "replace":
			return ChoiceReplace, nil
		case "a", "append":
			return ChoiceAppend, nil
		case "c", "cancel":
			return ChoiceCancel, nil
		}
		if errors.Is(err, io.EOF) {
			fmt.Fprintln(p.Out)
			return ChoiceCancel, nil
		}
	}
}

// NewPrompter picks the prompter for policy: a fixed answer for non-prompt
// policies, an arrow-key menu when in is a terminal, a line prompt otherwise.
func NewPrompter(policy Policy, in *os.File, out io.Writer) Prompter {
	if choice, ok := policyChoice(policy); ok {
		return PolicyPrompter{Choice: choice}
	}
	if in != nil && term.IsTerminal(int(in.Fd())) {
		return &SelectPrompter{In: in, Out: out}
	}
	return &LinePrompter{In: in, Out: out}
}
