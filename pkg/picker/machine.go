package picker

import (
	"fmt"
	"path/filepath"
	"strings"

	"cxt/pkg/combine"

	"github.com/lithammer/fuzzysearch/fuzzy"
	"go.uber.org/zap"
)

// EventKind identifies an input event.
type EventKind int

const (
	EventUp EventKind = iota
	EventDown
	EventEnter
	EventBack
	EventToggle
	EventConfirm
	EventQuit
	EventToggleRelative
	EventToggleNoHeader
	EventSearch
	EventRune
	EventBackspace
	EventEscape
	EventResize
)

// Event is one input to the state machine. Rune is set for EventRune and
// Height for EventResize.
type Event struct {
	Kind   EventKind
	Rune   rune
	Height int
}

// scrollMargin is how many rows are kept visible around the cursor.
const scrollMargin = 2

// Machine computes picker transitions. Filesystem reads go through its Lister.
type Machine struct {
	lister Lister
	logger *zap.Logger
}

// NewMachine creates a Machine.
func NewMachine(lister Lister, logger *zap.Logger) *Machine {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Machine{lister: lister, logger: logger}
}

// Start lists dir and returns the initial Browsing state. An empty floor means
// the filesystem root.
func (m *Machine) Start(dir, floor string, selection *combine.Selection) (State, error) {
	if selection == nil {
		selection = combine.NewSelection()
	}
	entries, err := m.lister.List(dir)
	if err != nil {
		return State{}, fmt.Errorf("failed to list %s: %w", dir, err)
	}
	return State{
		Dir:       dir,
		Floor:     floor,
		Entries:   entries,
		Selection: selection,
	}, nil
}

// Step returns the state following ev. Terminal states are returned unchanged.
func (m *Machine) Step(s State, ev Event) State {
	if s.Outcome != OutcomeBrowsing {
		return s
	}
	if ev.Kind == EventResize {
		s.Height = ev.Height
		return s.scrolled()
	}
	s.Message = ""

	if s.Search.Active && s.Search.Focused {
		return m.stepSearchInput(s, ev)
	}

	switch ev.Kind {
	case EventUp:
		if s.Cursor > 0 {
			s.Cursor--
		}
	case EventDown:
		if s.Cursor+1 < len(s.Visible()) {
			s.Cursor++
		}
	case EventEnter:
		entry, ok := s.Current()
		if !ok {
			break
		}
		if entry.IsDir {
			return m.navigate(s, entry.Path, "")
		}
		if s.Search.Active {
			return toggle(s, entry)
		}
	case EventBack, EventBackspace:
		parent := filepath.Dir(s.Dir)
		if parent == s.Dir || (s.Floor != "" && s.Dir == s.Floor) {
			break
		}
		return m.navigate(s, parent, s.Dir)
	case EventToggle:
		if entry, ok := s.Current(); ok {
			return toggle(s, entry)
		}
	case EventConfirm:
		if s.Selection.Len() == 0 {
			s.Message = NoSelectionMessage
			break
		}
		s.Outcome = OutcomeConfirmed
		m.logger.Debug("Picker confirmed", zap.Int("roots", s.Selection.Len()), zap.Stringer("mode", s.Mode()))
	case EventQuit:
		s.Outcome = OutcomeAborted
	case EventToggleRelative:
		if !s.NoHeader {
			s.Relative = !s.Relative
		}
	case EventToggleNoHeader:
		s.NoHeader = !s.NoHeader
		if s.NoHeader {
			s.Relative = false
		}
	case EventSearch:
		if s.Search.Active {
			s.Search.Focused = true
			break
		}
		return m.enterSearch(s)
	case EventEscape:
		if s.Search.Active {
			return exitSearch(s)
		}
	}
	return s.scrolled()
}

func (m *Machine) stepSearchInput(s State, ev Event) State {
	switch ev.Kind {
	case EventEscape:
		return exitSearch(s)
	case EventQuit:
		s.Outcome = OutcomeAborted
		return s
	case EventBackspace:
		if s.Search.Query != "" {
			runes := []rune(s.Search.Query)
			s.Search.Query = string(runes[:len(runes)-1])
			s = refilter(s)
		}
	case EventRune:
		s.Search.Query += string(ev.Rune)
		s = refilter(s)
	case EventEnter, EventUp, EventDown:
		s.Search.Focused = false
	}
	return s.scrolled()
}

// navigate moves to dir with a fresh listing. The cursor goes to the position
// remembered for dir, else onto the entry named by landOn, else the top.
func (m *Machine) navigate(s State, dir, landOn string) State {
	entries, err := m.lister.List(dir)
	if err != nil {
		m.logger.Info("Cannot open directory", zap.String("dir", dir), zap.Error(err))
		s.Message = fmt.Sprintf("Cannot open %s: %v", dir, err)
		return s
	}

	s = s.withHistory()
	s.history[s.Dir] = position{cursor: s.Cursor, offset: s.Offset}
	if s.Search.Active {
		s.history[s.Dir] = s.Search.saved
	}

	s.Dir = dir
	s.Entries = entries
	s.Search = Search{}
	s.Cursor, s.Offset = 0, 0

	if pos, ok := s.history[dir]; ok && landOn != "" {
		s.Cursor, s.Offset = pos.cursor, pos.offset
	} else if landOn != "" {
		for i, e := range entries {
			if e.Path == landOn {
				s.Cursor = i
				break
			}
		}
	}
	return s.scrolled()
}

func (m *Machine) enterSearch(s State) State {
	candidates, err := m.lister.Candidates(s.Dir)
	if err != nil {
		m.logger.Info("Search listing incomplete", zap.String("dir", s.Dir), zap.Error(err))
	}
	s.Search = Search{
		Active:     true,
		Focused:    true,
		candidates: candidates,
		saved:      position{cursor: s.Cursor, offset: s.Offset},
	}
	return refilter(s)
}

func exitSearch(s State) State {
	saved := s.Search.saved
	s.Search = Search{}
	s.Cursor, s.Offset = saved.cursor, saved.offset
	return s.scrolled()
}

// refilter recomputes search results. An empty query shows the current listing.
func refilter(s State) State {
	var results []Entry
	if s.Search.Query == "" {
		results = append(results, s.Entries...)
	} else {
		for _, c := range s.Search.candidates {
			if fuzzy.MatchFold(s.Search.Query, c.Name) {
				results = append(results, c)
			}
		}
		sortResults(results)
	}
	s.Search.Results = results
	s.Cursor, s.Offset = 0, 0
	return s
}

// toggle flips entry: a root is toggled in the selection, an entry inside a
// selected directory root is flipped in the exclusion overlay, anything else
// becomes a new root.
func toggle(s State, entry Entry) State {
	kind := combine.KindFile
	if entry.IsDir {
		kind = combine.KindDirectory
	}
	pe := combine.PathEntry{Path: entry.Path, Kind: kind}

	switch {
	case s.Selection.IsSelected(entry.Path):
		s.Selection = s.Selection.Clone()
		s.Selection.Toggle(pe)
	case covered(s.Selection, entry.Path):
		s = s.withExcluded()
		if s.isExcluded(entry.Path) {
			delete(s.excluded, entry.Path)
		} else {
			s.excluded[entry.Path] = struct{}{}
		}
	default:
		s.Selection = s.Selection.Clone()
		s.Selection.Toggle(pe)
		if s.isExcluded(entry.Path) {
			s = s.withExcluded()
			delete(s.excluded, entry.Path)
		}
	}
	return s
}

func covered(sel *combine.Selection, path string) bool {
	_, ok := sel.CoveringRoot(path)
	return ok
}

// scrolled clamps the cursor and keeps it inside the visible window.
func (s State) scrolled() State {
	n := len(s.Visible())
	if s.Cursor >= n {
		s.Cursor = n - 1
	}
	if s.Cursor < 0 {
		s.Cursor = 0
	}
	if s.Height <= 0 || n <= s.Height {
		s.Offset = 0
		return s
	}
	if s.Cursor < s.Offset+scrollMargin {
		s.Offset = s.Cursor - scrollMargin
	} else if s.Cursor+scrollMargin >= s.Offset+s.Height {
		s.Offset = s.Cursor + scrollMargin + 1 - s.Height
	}
	if maxOffset := n - s.Height; s.Offset > maxOffset {
		s.Offset = maxOffset
	}
	if s.Offset < 0 {
		s.Offset = 0
	}
	return s
}

// Label returns the entry text shown in a row.
func (e Entry) Label() string {
	label := e.Display
	if label == "" {
		label = e.Name
	}
	if e.IsDir && !strings.HasSuffix(label, string(filepath.Separator)) {
		label += string(filepath.Separator)
	}
	return label
}
