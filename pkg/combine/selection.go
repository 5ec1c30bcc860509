package combine

import (
	"go.uber.org/zap"
)

// Root is a user-designated file or directory anchoring the selection.
type Root struct {
	PathEntry
	Selected bool
}

// Selection is the ordered set of roots shared by the command line and the picker.
// Roots are unique by canonical path and kept in insertion order.
type Selection struct {
	roots []Root
}

// NewSelection creates a selection whose entries are all selected, in order.
func NewSelection(entries ...PathEntry) *Selection {
	s := &Selection{}
	for _, entry := range entries {
		s.Add(entry)
	}
	return s
}

// Add selects entry. A new root is appended; an existing deselected root is
// re-selected and moved to the end; an existing selected root is left as is.
func (s *Selection) Add(entry PathEntry) {
	i := s.indexOf(entry.Path)
	if i < 0 {
		s.roots = append(s.roots, Root{PathEntry: entry, Selected: true})
		return
	}
	if s.roots[i].Selected {
		return
	}
	s.remove(i)
	s.roots = append(s.roots, Root{PathEntry: entry, Selected: true})
}

// Toggle flips entry's selection and reports the new state.
func (s *Selection) Toggle(entry PathEntry) bool {
	i := s.indexOf(entry.Path)
	if i >= 0 && s.roots[i].Selected {
		s.roots[i].Selected = false
		return false
	}
	s.Add(entry)
	return true
}

// IsSelected reports whether path is a currently selected root.
func (s *Selection) IsSelected(path string) bool {
	i := s.indexOf(path)
	return i >= 0 && s.roots[i].Selected
}

// Roots returns a snapshot of every root, selected or not, in insertion order.
func (s *Selection) Roots() []Root {
	out := make([]Root, len(s.roots))
	copy(out, s.roots)
	return out
}

// Selected returns the selected roots in insertion order.
func (s *Selection) Selected() []PathEntry {
	var out []PathEntry
	for _, root := range s.roots {
		if root.Selected {
			out = append(out, root.PathEntry)
		}
	}
	return out
}

// Len returns the number of selected roots.
func (s *Selection) Len() int {
	n := 0
	for _, root := range s.roots {
		if root.Selected {
			n++
		}
	}
	return n
}

// Clone returns an independent copy.
func (s *Selection) Clone() *Selection {
	return &Selection{roots: s.Roots()}
}

// CoveringRoot returns the selected directory root that contains path, if any.
// path itself being a root does not count.
func (s *Selection) CoveringRoot(path string) (PathEntry, bool) {
	for _, root := range s.roots {
		if root.Selected && root.IsDir() && root.Path != path && isWithin(path, root.Path) {
			return root.PathEntry, true
		}
	}
	return PathEntry{}, false
}

// Resolve expands every selected root through w and returns the de-duplicated
// file list in first-seen order, plus a warning for each entry the walker
// could not visit.
func (s *Selection) Resolve(w *Walker) ([]string, []Warning) {
	var files []string
	var warnings []Warning
	seen := make(map[string]struct{})

	for _, root := range s.Selected() {
		count := 0
		for path, err := range w.Walk(root) {
			if err != nil {
				warnings = append(warnings, warningFrom(err))
				continue
			}
			if _, dup := seen[path]; dup {
				continue
			}
			seen[path] = struct{}{}
			files = append(files, path)
			count++
		}
		w.logger.Debug("Expanded selection root",
			zap.String("root", root.Path),
			zap.Stringer("kind", root.Kind),
			zap.Int("newFiles", count))
	}
	return files, warnings
}

func (s *Selection) indexOf(path string) int {
	for i, root := range s.roots {
		if root.Path == path {
			return i
		}
	}
	return -1
}

func (s *Selection) remove(i int) {
	s.roots = append(s.roots[:i:i], s.roots[i+1:]...)
}
