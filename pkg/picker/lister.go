package picker

import (
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"go.uber.org/zap"
)

// Entry is one row of a listing.
type Entry struct {
	Name    string // base name
	Path    string // canonical path
	Display string // label shown in the list
	IsDir   bool
}

// Lister reads directories for the picker.
type Lister interface {
	// List returns the immediate children of dir, directories first, each group by name.
	List(dir string) ([]Entry, error)
	// Candidates returns every entry below dir for search mode, labelled relative to dir.
	Candidates(dir string) ([]Entry, error)
}

// DefaultCandidateLimit caps how many entries search mode collects.
const DefaultCandidateLimit = 20000

// FSLister lists the real filesystem.
type FSLister struct {
	Limit  int
	logger *zap.Logger
}

// NewFSLister creates a Lister over the local filesystem.
func NewFSLister(logger *zap.Logger) *FSLister {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &FSLister{Limit: DefaultCandidateLimit, logger: logger}
}

func (l *FSLister) List(dir string) ([]Entry, error) {
	dirEntries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}
	entries := make([]Entry, 0, len(dirEntries))
	for _, de := range dirEntries {
		entries = append(entries, l.entry(dir, de.Name(), de.Name()))
	}
	sortListing(entries)
	return entries, nil
}

func (l *FSLister) Candidates(dir string) ([]Entry, error) {
	var entries []Entry
	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			l.logger.Debug("Skipping unreadable path during search", zap.String("path", path), zap.Error(err))
			if d != nil && d.IsDir() && path != dir {
				return filepath.SkipDir
			}
			return nil
		}
		if path == dir {
			return nil
		}
		if l.Limit > 0 && len(entries) >= l.Limit {
			return filepath.SkipAll
		}
		rel, err := filepath.Rel(dir, path)
		if err != nil {
			return nil
		}
		entries = append(entries, l.entry(filepath.Dir(path), d.Name(), rel))
		return nil
	})
	if err != nil {
		return entries, err
	}
	return entries, nil
}

func (l *FSLister) entry(dir, name, display string) Entry {
	path := filepath.Join(dir, name)
	e := Entry{Name: name, Path: path, Display: display}
	if resolved, err := filepath.EvalSymlinks(path); err == nil {
		e.Path = resolved
	}
	if info, err := os.Stat(path); err == nil {
		e.IsDir = info.IsDir()
	}
	return e
}

func sortListing(entries []Entry) {
	sort.SliceStable(entries, func(i, j int) bool {
		if entries[i].IsDir != entries[j].IsDir {
			return entries[i].IsDir
		}
		return entries[i].Name < entries[j].Name
	})
}

// sortResults orders search results: directories first, then shorter labels, then by label.
func sortResults(entries []Entry) {
	sort.SliceStable(entries, func(i, j int) bool {
		a, b := entries[i], entries[j]
		if a.IsDir != b.IsDir {
			return a.IsDir
		}
		if len(a.Display) != len(b.Display) {
			return len(a.Display) < len(b.Display)
		}
		return strings.ToLower(a.Display) < strings.ToLower(b.Display)
	})
}
