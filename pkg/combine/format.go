package combine

import (
	"fmt"
	"path/filepath"
)

// headerFormat is the line written above each file's contents.
const headerFormat = "--- File: %s ---\n"

// PathFormatter renders the header that precedes a file in the aggregated output.
type PathFormatter struct {
	Mode HeaderMode
	Base string // Directory relative headers are computed against.
}

// NewPathFormatter creates a formatter for mode. base is only consulted in relative mode.
func NewPathFormatter(mode HeaderMode, base string) PathFormatter {
	return PathFormatter{Mode: mode, Base: base}
}

// Header returns the header line for path, or false when headers are disabled.
func (f PathFormatter) Header(path string) (string, bool) {
	if f.Mode == ModeNone {
		return "", false
	}
	return fmt.Sprintf(headerFormat, f.Display(path)), true
}

// Display returns the path as it appears inside a header.
func (f PathFormatter) Display(path string) string {
	if f.Mode != ModeRelative {
		return path
	}
	if f.Base == "" {
		return path
	}
	rel, err := filepath.Rel(f.Base, path)
	if err != nil {
		return path
	}
	return rel
}
