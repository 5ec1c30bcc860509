package combine

import (
	"errors"
	"fmt"
	"io/fs"
)

// Reason classifies why a path was skipped.
type Reason string

const (
	ReasonPermissionDenied Reason = "permission denied"
	ReasonPathVanished     Reason = "path vanished"
	ReasonNotReadable      Reason = "not readable"
)

// ClassifyError maps a filesystem error onto a Reason.
func ClassifyError(err error) Reason {
	switch {
	case errors.Is(err, fs.ErrPermission):
		return ReasonPermissionDenied
	case errors.Is(err, fs.ErrNotExist):
		return ReasonPathVanished
	default:
		return ReasonNotReadable
	}
}

// TraversalError is yielded by the walker when an entry cannot be visited.
// The walk continues past it.
type TraversalError struct {
	Path   string
	Reason Reason
	Cause  error
}

func (e *TraversalError) Error() string {
	return fmt.Sprintf("cannot traverse %s: %s: %v", e.Path, e.Reason, e.Cause)
}

func (e *TraversalError) Unwrap() error { return e.Cause }

// ReadError is recorded by the aggregator when a file's contents cannot be read.
type ReadError struct {
	Path   string
	Reason Reason
	Cause  error
}

func (e *ReadError) Error() string {
	return fmt.Sprintf("cannot read %s: %s: %v", e.Path, e.Reason, e.Cause)
}

func (e *ReadError) Unwrap() error { return e.Cause }

// Warning is a skipped path surfaced to the user at the end of a run.
type Warning struct {
	Path   string
	Reason Reason
	Err    error
}

func (w Warning) String() string {
	return fmt.Sprintf("%s: %s", w.Path, w.Reason)
}

// warningFrom converts a walker or reader error into a Warning.
func warningFrom(err error) Warning {
	var traversalErr *TraversalError
	if errors.As(err, &traversalErr) {
		return Warning{Path: traversalErr.Path, Reason: traversalErr.Reason, Err: err}
	}
	var readErr *ReadError
	if errors.As(err, &readErr) {
		return Warning{Path: readErr.Path, Reason: readErr.Reason, Err: err}
	}
	return Warning{Reason: ReasonNotReadable, Err: err}
}
