// Package picker implements the interactive file picker as a pure state
// machine, plus a bubbletea program driving it.
package picker

import (
	"sort"

	"cxt/pkg/combine"
)

// Outcome is how a picker session ended.
type Outcome int

const (
	OutcomeBrowsing Outcome = iota
	OutcomeConfirmed
	OutcomeAborted
)

// Mark is what the renderer shows next to an entry.
type Mark int

const (
	MarkNone     Mark = iota
	MarkSelected      // a selected root
	MarkIncluded      // covered by a selected directory root
	MarkExcluded      // removed from a selected directory root
)

// NoSelectionMessage is shown when confirming with nothing selected.
const NoSelectionMessage = "No files or directories selected!"

type position struct {
	cursor int
	offset int
}

// Search holds search mode state.
type Search struct {
	Active     bool
	Focused    bool
	Query      string
	Results    []Entry
	candidates []Entry
	saved      position
}

// State is a snapshot of a picker session. Step never mutates the State it
// is given, so snapshots can be kept and compared.
type State struct {
	Dir       string
	Floor     string
	Entries   []Entry
	Cursor    int
	Offset    int
	Height    int
	Selection *combine.Selection
	Relative  bool
	NoHeader  bool
	Message   string
	Search    Search
	Outcome   Outcome

	excluded map[string]struct{}
	history  map[string]position
}

// Visible returns the rows currently listed: search results in search mode,
// the directory listing otherwise.
func (s State) Visible() []Entry {
	if s.Search.Active {
		return s.Search.Results
	}
	return s.Entries
}

// Current returns the entry under the cursor.
func (s State) Current() (Entry, bool) {
	rows := s.Visible()
	if s.Cursor < 0 || s.Cursor >= len(rows) {
		return Entry{}, false
	}
	return rows[s.Cursor], true
}

// MarkOf answers whether path is selected, included through a selected
// directory, or excluded from one.
func (s State) MarkOf(path string) Mark {
	if s.Selection == nil {
		return MarkNone
	}
	if s.Selection.IsSelected(path) {
		return MarkSelected
	}
	if _, covered := s.Selection.CoveringRoot(path); !covered {
		return MarkNone
	}
	if s.excludedSpec().Covers(path) {
		return MarkExcluded
	}
	return MarkIncluded
}

// Mode is the header mode implied by the toggles.
func (s State) Mode() combine.HeaderMode {
	switch {
	case s.NoHeader:
		return combine.ModeNone
	case s.Relative:
		return combine.ModeRelative
	default:
		return combine.ModeAbsolute
	}
}

// Excluded returns the excluded paths that lie under a selected directory root, sorted.
func (s State) Excluded() []string {
	var paths []string
	for p := range s.excluded {
		if _, covered := s.Selection.CoveringRoot(p); covered {
			paths = append(paths, p)
		}
	}
	sort.Strings(paths)
	return paths
}

func (s State) excludedSpec() combine.IgnoreSpec {
	spec := combine.IgnoreSpec{}
	for p := range s.excluded {
		spec.Paths = append(spec.Paths, p)
	}
	return spec
}

func (s State) isExcluded(path string) bool {
	_, ok := s.excluded[path]
	return ok
}

// withExcluded returns s with a private copy of the exclusion overlay.
func (s State) withExcluded() State {
	excluded := make(map[string]struct{}, len(s.excluded)+1)
	for p := range s.excluded {
		excluded[p] = struct{}{}
	}
	s.excluded = excluded
	return s
}

// withHistory returns s with a private copy of the cursor history.
func (s State) withHistory() State {
	history := make(map[string]position, len(s.history)+1)
	for dir, pos := range s.history {
		history[dir] = pos
	}
	s.history = history
	return s
}
