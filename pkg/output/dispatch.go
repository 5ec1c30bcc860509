// Package output delivers the aggregated buffer to stdout, a file and the clipboard.
package output

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"

	"go.uber.org/multierr"
	"go.uber.org/zap"
)

// Clipboard is the system clipboard sink.
type Clipboard interface {
	WriteAll(text string) error
}

// Status is the result of delivering to one destination.
type Status int

const (
	StatusDone Status = iota
	StatusCancelled
	StatusFailed
)

func (s Status) String() string {
	switch s {
	case StatusDone:
		return "done"
	case StatusCancelled:
		return "cancelled"
	default:
		return "failed"
	}
}

// Outcome records what happened to one destination.
type Outcome struct {
	Destination Destination
	Status      Status
	Appended    bool
	Err         error
}

// Report lists one Outcome per destination, in delivery order.
type Report struct {
	Outcomes []Outcome
}

// Err combines the errors of failed destinations. Cancellation is not a failure.
func (r Report) Err() error {
	var err error
	for _, o := range r.Outcomes {
		if o.Status == StatusFailed {
			err = multierr.Append(err, o.Err)
		}
	}
	return err
}

// Delivered reports whether at least one destination received the buffer.
func (r Report) Delivered() bool {
	for _, o := range r.Outcomes {
		if o.Status == StatusDone {
			return true
		}
	}
	return false
}

// Outcome returns the outcome for kind, if that destination was requested.
func (r Report) Outcome(kind DestinationKind) (Outcome, bool) {
	for _, o := range r.Outcomes {
		if o.Destination.Kind == kind {
			return o, true
		}
	}
	return Outcome{}, false
}

// Dispatcher writes a buffer to the destinations of a Plan.
type Dispatcher struct {
	stdout    io.Writer
	clipboard Clipboard
	prompter  Prompter
	logger    *zap.Logger
}

// NewDispatcher creates a Dispatcher. prompter is consulted only under PolicyPrompt.
func NewDispatcher(stdout io.Writer, clipboard Clipboard, prompter Prompter, logger *zap.Logger) *Dispatcher {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Dispatcher{
		stdout:    stdout,
		clipboard: clipboard,
		prompter:  prompter,
		logger:    logger,
	}
}

// Dispatch delivers buf to stdout, then the file, then the clipboard. A failing
// or cancelled destination never prevents the others from being attempted.
func (d *Dispatcher) Dispatch(ctx context.Context, buf []byte, plan Plan) Report {
	var report Report
	for _, dest := range plan.ordered() {
		outcome := Outcome{Destination: dest, Status: StatusDone}
		if err := ctx.Err(); err != nil {
			outcome.Status = StatusFailed
			outcome.Err = err
			report.Outcomes = append(report.Outcomes, outcome)
			continue
		}

		switch dest.Kind {
		case DestStdout:
			if _, err := d.stdout.Write(buf); err != nil {
				outcome.Status = StatusFailed
				outcome.Err = &WriteError{Path: "stdout", Op: "write", Cause: err}
			}
		case DestFile:
			outcome = d.writeFile(ctx, dest, buf, plan.Policy)
		case DestClipboard:
			if d.clipboard == nil {
				outcome.Status = StatusFailed
				outcome.Err = &ClipboardError{Cause: errors.New("clipboard not configured")}
			} else if err := d.clipboard.WriteAll(string(buf)); err != nil {
				outcome.Status = StatusFailed
				outcome.Err = &ClipboardError{Cause: err}
			}
		}

		if outcome.Err != nil {
			d.logger.Warn("Destination failed", zap.Stringer("destination", dest), zap.Stringer("status", outcome.Status), zap.Error(outcome.Err))
		} else {
			d.logger.Info("Delivered content", zap.Stringer("destination", dest), zap.Int("bytes", len(buf)))
		}
		report.Outcomes = append(report.Outcomes, outcome)
	}
	return report
}

func (d *Dispatcher) writeFile(ctx context.Context, dest Destination, buf []byte, policy Policy) Outcome {
	outcome := Outcome{Destination: dest, Status: StatusDone}
	path := dest.Path

	info, err := os.Stat(path)
	switch {
	case err == nil:
		if info.IsDir() {
			outcome.Status = StatusFailed
			outcome.Err = &WriteError{Path: path, Op: "write", Cause: errors.New("target is a directory")}
			return outcome
		}
		choice, err := d.choose(ctx, path, policy)
		if err != nil {
			outcome.Status = StatusFailed
			outcome.Err = &WriteError{Path: path, Op: "resolve conflict for", Cause: err}
			return outcome
		}
		d.logger.Debug("Resolved write conflict", zap.String("path", path), zap.Stringer("choice", choice))
		switch choice {
		case ChoiceReplace:
			if err := os.WriteFile(path, buf, info.Mode().Perm()); err != nil {
				outcome.Status = StatusFailed
				outcome.Err = &WriteError{Path: path, Op: "write", Cause: err}
			}
		case ChoiceAppend:
			outcome.Appended = true
			if err := appendFile(path, buf); err != nil {
				outcome.Status = StatusFailed
				outcome.Err = &WriteError{Path: path, Op: "append to", Cause: err}
			}
		default:
			outcome.Status = StatusCancelled
			outcome.Err = &WriteConflictCancelled{Path: path}
		}
	case errors.Is(err, fs.ErrNotExist):
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			outcome.Status = StatusFailed
			outcome.Err = &WriteError{Path: path, Op: "create parent directories of", Cause: err}
			return outcome
		}
		if err := os.WriteFile(path, buf, 0o644); err != nil {
			outcome.Status = StatusFailed
			outcome.Err = &WriteError{Path: path, Op: "write", Cause: err}
		}
	default:
		outcome.Status = StatusFailed
		outcome.Err = &WriteError{Path: path, Op: "stat", Cause: err}
	}
	return outcome
}

func (d *Dispatcher) choose(ctx context.Context, path string, policy Policy) (Choice, error) {
	if choice, ok := policyChoice(policy); ok {
		return choice, nil
	}
	if d.prompter == nil {
		return ChoiceCancel, fmt.Errorf("no prompter available")
	}
	return d.prompter.Choose(ctx, path)
}

func appendFile(path string, buf []byte) (err error) {
	f, err := os.OpenFile(path, os.O_APPEND|os.O_WRONLY, 0)
	if err != nil {
		return err
	}
	defer func() {
		err = multierr.Append(err, f.Close())
	}()
	_, err = f.Write(buf)
	return err
}
