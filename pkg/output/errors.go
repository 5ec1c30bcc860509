package output

import "fmt"

// WriteConflictCancelled is recorded when the user cancels writing over an existing file.
type WriteConflictCancelled struct {
	Path string
}

func (e *WriteConflictCancelled) Error() string {
	return fmt.Sprintf("write to %s cancelled: file already exists", e.Path)
}

// ClipboardError wraps a failed clipboard attempt.
type ClipboardError struct {
	Cause error
}

func (e *ClipboardError) Error() string {
	return fmt.Sprintf("failed to copy to clipboard: %v", e.Cause)
}

func (e *ClipboardError) Unwrap() error {
	return e.Cause
}

// WriteError wraps a failed file or stdout write.
type WriteError struct {
	Path  string
	Op    string
	Cause error
}

func (e *WriteError) Error() string {
	return fmt.Sprintf("failed to %s %s: %v", e.Op, e.Path, e.Cause)
}

func (e *WriteError) Unwrap() error {
	return e.Cause
}
