// File: pkg/combine/config.go
package combine

import (
	"fmt"
	"os"
	"path/filepath"
)

// PathKind distinguishes files from directories.
type PathKind int

const (
	KindFile PathKind = iota
	KindDirectory
)

func (k PathKind) String() string {
	if k == KindDirectory {
		return "directory"
	}
	return "file"
}

// PathEntry is a filesystem path plus its kind. Path is always canonical:
// absolute, cleaned and with symlinks evaluated.
type PathEntry struct {
	Path string
	Kind PathKind
}

// IsDir reports whether the entry is a directory.
func (e PathEntry) IsDir() bool {
	return e.Kind == KindDirectory
}

// NewPathEntry canonicalizes path and stats it.
func NewPathEntry(path string) (PathEntry, error) {
	canonical, err := Canonicalize(path)
	if err != nil {
		return PathEntry{}, err
	}
	info, err := os.Stat(canonical)
	if err != nil {
		return PathEntry{}, fmt.Errorf("failed to stat %s: %w", path, err)
	}
	kind := KindFile
	if info.IsDir() {
		kind = KindDirectory
	}
	return PathEntry{Path: canonical, Kind: kind}, nil
}

// Canonicalize returns the absolute, symlink-free form of path.
func Canonicalize(path string) (string, error) {
	absPath, err := filepath.Abs(path)
	if err != nil {
		return "", fmt.Errorf("failed to get absolute path: %w", err)
	}
	resolved, err := filepath.EvalSymlinks(absPath)
	if err != nil {
		return "", fmt.Errorf("failed to resolve %s: %w", path, err)
	}
	return resolved, nil
}

// HeaderMode selects how a file header is rendered.
type HeaderMode int

const (
	ModeAbsolute HeaderMode = iota // canonical absolute path
	ModeRelative                   // path relative to the formatter base
	ModeNone                       // no header at all
)

func (m HeaderMode) String() string {
	switch m {
	case ModeRelative:
		return "relative"
	case ModeNone:
		return "none"
	default:
		return "absolute"
	}
}

// IgnoreSpec lists canonical paths pruned from every expansion.
type IgnoreSpec struct {
	Paths []string
}

// Covers reports whether path equals or is nested under one of the ignore paths.
func (s IgnoreSpec) Covers(path string) bool {
	for _, ignored := range s.Paths {
		if isWithin(path, ignored) {
			return true
		}
	}
	return false
}

// Equals reports whether path is exactly one of the ignore paths.
func (s IgnoreSpec) Equals(path string) bool {
	for _, ignored := range s.Paths {
		if path == ignored {
			return true
		}
	}
	return false
}

// With returns a copy of the spec extended with extra paths.
func (s IgnoreSpec) With(paths ...string) IgnoreSpec {
	merged := make([]string, 0, len(s.Paths)+len(paths))
	merged = append(merged, s.Paths...)
	merged = append(merged, paths...)
	return IgnoreSpec{Paths: merged}
}

// Matcher reports whether path, found while expanding the directory root, is excluded by a pattern.
type Matcher interface {
	MatchesPath(root, path string, isDir bool) bool
}

// AggregationConfig holds the options shared by the walker and the aggregator.
type AggregationConfig struct {
	Mode     HeaderMode // How file headers are rendered.
	Hidden   bool       // Include dot-prefixed entries found while expanding directories.
	Ignore   IgnoreSpec // Paths excluded from expansion.
	Patterns Matcher    // Optional pattern-based exclusions; nil disables them.
}

// isWithin reports whether path equals dir or lies beneath it.
func isWithin(path, dir string) bool {
	if path == dir {
		return true
	}
	rel, err := filepath.Rel(dir, path)
	if err != nil {
		return false
	}
	return rel != ".." && !filepath.IsAbs(rel) && !startsWithParent(rel)
}

func startsWithParent(rel string) bool {
	return len(rel) >= 3 && rel[:2] == ".." && rel[2] == filepath.Separator
}
