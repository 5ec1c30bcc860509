package picker

import (
	"errors"
	"path/filepath"
	"sort"
	"testing"

	"cxt/pkg/combine"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeLister serves a fixed tree: dirs maps a directory to its children.
type fakeLister struct {
	dirs  map[string][]Entry
	lists int
}

func (f *fakeLister) List(dir string) ([]Entry, error) {
	f.lists++
	entries, ok := f.dirs[dir]
	if !ok {
		return nil, errors.New("permission denied")
	}
	out := append([]Entry(nil), entries...)
	sortListing(out)
	return out, nil
}

func (f *fakeLister) Candidates(dir string) ([]Entry, error) {
	var out []Entry
	var walk func(d string)
	walk = func(d string) {
		for _, e := range f.dirs[d] {
			rel, _ := filepath.Rel(dir, e.Path)
			e.Display = rel
			out = append(out, e)
			if e.IsDir {
				walk(e.Path)
			}
		}
	}
	walk(dir)
	return out, nil
}

func dirEntry(path string) Entry {
	return Entry{Name: filepath.Base(path), Path: path, IsDir: true}
}

func fileEntry(path string) Entry {
	return Entry{Name: filepath.Base(path), Path: path}
}

// /proj: src/ (main.go, util.go), docs/ (readme.md), go.mod, locked/ (unreadable)
func newFakeTree() *fakeLister {
	return &fakeLister{dirs: map[string][]Entry{
		"/": {dirEntry("/proj")},
		"/proj": {
			fileEntry("/proj/go.mod"),
			dirEntry("/proj/src"),
			dirEntry("/proj/docs"),
			dirEntry("/proj/locked"),
		},
		"/proj/src":  {fileEntry("/proj/src/util.go"), fileEntry("/proj/src/main.go")},
		"/proj/docs": {fileEntry("/proj/docs/readme.md")},
	}}
}

func start(t *testing.T, floor string) (*Machine, State) {
	t.Helper()
	m := NewMachine(newFakeTree(), nil)
	s, err := m.Start("/proj", floor, nil)
	require.NoError(t, err)
	return m, s
}

func steps(m *Machine, s State, kinds ...EventKind) State {
	for _, k := range kinds {
		s = m.Step(s, Event{Kind: k})
	}
	return s
}

func cursorTo(t *testing.T, m *Machine, s State, path string) State {
	t.Helper()
	s = steps(m, s, EventUp, EventUp, EventUp, EventUp, EventUp)
	for i := 0; i < len(s.Visible()); i++ {
		if e, _ := s.Current(); e.Path == path {
			return s
		}
		s = m.Step(s, Event{Kind: EventDown})
	}
	t.Fatalf("%s not listed in %s", path, s.Dir)
	return s
}

func selectedPaths(s State) []string {
	var out []string
	for _, e := range s.Selection.Selected() {
		out = append(out, e.Path)
	}
	sort.Strings(out)
	return out
}

func TestStartListsDirectoriesFirst(t *testing.T) {
	_, s := start(t, "")

	var names []string
	for _, e := range s.Entries {
		names = append(names, e.Name)
	}
	assert.Equal(t, []string{"docs", "locked", "src", "go.mod"}, names)
	assert.Equal(t, 0, s.Cursor)
	assert.Equal(t, OutcomeBrowsing, s.Outcome)
}

func TestCursorClampsAtBounds(t *testing.T) {
	m, s := start(t, "")

	s = steps(m, s, EventUp)
	assert.Equal(t, 0, s.Cursor)

	s = steps(m, s, EventDown, EventDown, EventDown, EventDown, EventDown, EventDown)
	assert.Equal(t, 3, s.Cursor)
}

func TestEnterDirectoryAndBack(t *testing.T) {
	m, s := start(t, "")
	s = cursorTo(t, m, s, "/proj/src")

	s = steps(m, s, EventEnter)
	assert.Equal(t, "/proj/src", s.Dir)
	assert.Equal(t, 0, s.Cursor)
	assert.Equal(t, "main.go", s.Entries[0].Name)

	s = steps(m, s, EventBack)
	assert.Equal(t, "/proj", s.Dir)
	e, ok := s.Current()
	require.True(t, ok)
	assert.Equal(t, "/proj/src", e.Path)
}

func TestEnterOnFileIsNoop(t *testing.T) {
	m, s := start(t, "")
	s = cursorTo(t, m, s, "/proj/go.mod")

	next := steps(m, s, EventEnter)
	assert.Equal(t, "/proj", next.Dir)
	assert.Equal(t, s.Cursor, next.Cursor)
}

func TestBackStopsAtFloor(t *testing.T) {
	m, s := start(t, "/proj")
	s = steps(m, s, EventBack)
	assert.Equal(t, "/proj", s.Dir)

	m, s = start(t, "")
	s = steps(m, s, EventBack)
	assert.Equal(t, "/", s.Dir)
	s = steps(m, s, EventBack)
	assert.Equal(t, "/", s.Dir)
}

func TestCursorHistoryIsRemembered(t *testing.T) {
	m, s := start(t, "")
	s = cursorTo(t, m, s, "/proj/src")
	s = steps(m, s, EventEnter, EventDown)
	require.Equal(t, 1, s.Cursor)

	s = steps(m, s, EventBack)
	s = cursorTo(t, m, s, "/proj/docs")
	s = steps(m, s, EventEnter, EventBack)
	e, _ := s.Current()
	assert.Equal(t, "/proj/docs", e.Path)

	s = cursorTo(t, m, s, "/proj/src")
	s = steps(m, s, EventEnter, EventBack)
	e, _ = s.Current()
	assert.Equal(t, "/proj/src", e.Path)
}

func TestUnreadableDirectoryKeepsState(t *testing.T) {
	m, s := start(t, "")
	s = cursorTo(t, m, s, "/proj/locked")

	next := steps(m, s, EventEnter)
	assert.Equal(t, "/proj", next.Dir)
	assert.Contains(t, next.Message, "Cannot open /proj/locked")
}

func TestToggleTwiceRestoresSelection(t *testing.T) {
	m, s := start(t, "")
	s = cursorTo(t, m, s, "/proj/go.mod")
	s = steps(m, s, EventToggle)
	s = cursorTo(t, m, s, "/proj/docs")

	for _, path := range []string{"/proj/docs", "/proj/go.mod", "/proj/src"} {
		s = cursorTo(t, m, s, path)
		before := selectedPaths(s)
		after := selectedPaths(steps(m, s, EventToggle, EventToggle))
		assert.Equal(t, before, after, path)
	}
}

func TestToggleDoesNotMutatePreviousState(t *testing.T) {
	m, s := start(t, "")
	s = cursorTo(t, m, s, "/proj/src")

	next := steps(m, s, EventToggle)
	assert.Equal(t, 0, s.Selection.Len())
	assert.Equal(t, 1, next.Selection.Len())
}

func TestToggleInsideSelectedDirectoryExcludes(t *testing.T) {
	m, s := start(t, "")
	s = cursorTo(t, m, s, "/proj/src")
	s = steps(m, s, EventToggle, EventEnter)
	s = cursorTo(t, m, s, "/proj/src/util.go")

	assert.Equal(t, MarkIncluded, s.MarkOf("/proj/src/util.go"))
	s = steps(m, s, EventToggle)
	assert.Equal(t, MarkExcluded, s.MarkOf("/proj/src/util.go"))
	assert.Equal(t, MarkIncluded, s.MarkOf("/proj/src/main.go"))
	assert.Equal(t, MarkSelected, s.MarkOf("/proj/src"))
	assert.Equal(t, []string{"/proj/src"}, selectedPaths(s))
	assert.Equal(t, []string{"/proj/src/util.go"}, s.Excluded())

	s = steps(m, s, EventToggle)
	assert.Equal(t, MarkIncluded, s.MarkOf("/proj/src/util.go"))
	assert.Empty(t, s.Excluded())
}

func TestToggleDeselectedRootInsideSelectedDirectoryExcludes(t *testing.T) {
	m, s := start(t, "")
	s = cursorTo(t, m, s, "/proj/src")
	s = steps(m, s, EventEnter)
	s = cursorTo(t, m, s, "/proj/src/util.go")
	s = steps(m, s, EventToggle, EventToggle)
	assert.Equal(t, MarkNone, s.MarkOf("/proj/src/util.go"))

	s = steps(m, s, EventBack)
	s = cursorTo(t, m, s, "/proj/src")
	s = steps(m, s, EventToggle, EventEnter)
	s = cursorTo(t, m, s, "/proj/src/util.go")
	assert.Equal(t, MarkIncluded, s.MarkOf("/proj/src/util.go"))

	s = steps(m, s, EventToggle)
	assert.Equal(t, MarkExcluded, s.MarkOf("/proj/src/util.go"))
	assert.Equal(t, []string{"/proj/src"}, selectedPaths(s))
	assert.Equal(t, []string{"/proj/src/util.go"}, s.Excluded())

	s = steps(m, s, EventToggle)
	assert.Equal(t, MarkIncluded, s.MarkOf("/proj/src/util.go"))
	assert.Empty(t, s.Excluded())
}

func TestReselectedRootMovesToEnd(t *testing.T) {
	m, s := start(t, "")
	s = cursorTo(t, m, s, "/proj/src")
	s = steps(m, s, EventToggle)
	s = cursorTo(t, m, s, "/proj/docs")
	s = steps(m, s, EventToggle)
	s = cursorTo(t, m, s, "/proj/src")
	s = steps(m, s, EventToggle, EventToggle)

	var order []string
	for _, e := range s.Selection.Selected() {
		order = append(order, e.Path)
	}
	assert.Equal(t, []string{"/proj/docs", "/proj/src"}, order)
}

func TestConfirmRequiresSelection(t *testing.T) {
	m, s := start(t, "")

	s = steps(m, s, EventConfirm)
	assert.Equal(t, OutcomeBrowsing, s.Outcome)
	assert.Equal(t, NoSelectionMessage, s.Message)

	s = steps(m, s, EventDown)
	assert.Empty(t, s.Message)

	s = cursorTo(t, m, s, "/proj/go.mod")
	s = steps(m, s, EventToggle, EventConfirm)
	assert.Equal(t, OutcomeConfirmed, s.Outcome)

	res := resultOf(s)
	assert.False(t, res.Aborted)
	assert.Equal(t, combine.ModeAbsolute, res.Mode)
	assert.Equal(t, 1, res.Selection.Len())
}

func TestQuitAborts(t *testing.T) {
	m, s := start(t, "")
	s = cursorTo(t, m, s, "/proj/go.mod")
	s = steps(m, s, EventToggle, EventQuit)

	assert.Equal(t, OutcomeAborted, s.Outcome)
	assert.True(t, resultOf(s).Aborted)

	after := steps(m, s, EventDown, EventConfirm)
	assert.Equal(t, s, after)
}

func TestHeaderToggles(t *testing.T) {
	m, s := start(t, "")

	s = steps(m, s, EventToggleRelative)
	assert.Equal(t, combine.ModeRelative, s.Mode())

	s = steps(m, s, EventToggleNoHeader)
	assert.False(t, s.Relative)
	assert.Equal(t, combine.ModeNone, s.Mode())

	s = steps(m, s, EventToggleRelative)
	assert.False(t, s.Relative)

	s = steps(m, s, EventToggleNoHeader)
	assert.Equal(t, combine.ModeAbsolute, s.Mode())
}

func TestSearchFiltersRecursively(t *testing.T) {
	m, s := start(t, "")
	s = steps(m, s, EventSearch)
	require.True(t, s.Search.Active)
	require.True(t, s.Search.Focused)
	assert.Len(t, s.Visible(), len(s.Entries))

	for _, r := range "main" {
		s = m.Step(s, Event{Kind: EventRune, Rune: r})
	}
	require.Len(t, s.Visible(), 1)
	assert.Equal(t, "/proj/src/main.go", s.Visible()[0].Path)
	assert.Equal(t, filepath.Join("src", "main.go"), s.Visible()[0].Display)

	s = steps(m, s, EventEnter)
	assert.False(t, s.Search.Focused)

	s = steps(m, s, EventToggle)
	assert.Equal(t, MarkSelected, s.MarkOf("/proj/src/main.go"))

	s = steps(m, s, EventEscape)
	assert.False(t, s.Search.Active)
	assert.Equal(t, "/proj", s.Dir)
	assert.Equal(t, 1, s.Selection.Len())
}

func TestSearchInputTreatsKeysAsText(t *testing.T) {
	m, s := start(t, "")
	s = steps(m, s, EventSearch)
	s = m.Step(s, Event{Kind: EventRune, Rune: 'q'})
	s = m.Step(s, Event{Kind: EventRune, Rune: 'x'})

	assert.Equal(t, OutcomeBrowsing, s.Outcome)
	assert.Equal(t, "qx", s.Search.Query)

	s = steps(m, s, EventBackspace)
	assert.Equal(t, "q", s.Search.Query)
	assert.Equal(t, 0, s.Cursor)
}

func TestSearchEnterOnDirectoryNavigates(t *testing.T) {
	m, s := start(t, "")
	s = steps(m, s, EventSearch)
	for _, r := range "docs" {
		s = m.Step(s, Event{Kind: EventRune, Rune: r})
	}
	s = steps(m, s, EventEnter, EventEnter)

	assert.False(t, s.Search.Active)
	assert.Equal(t, "/proj/docs", s.Dir)
}

func TestResizeKeepsCursorVisible(t *testing.T) {
	lister := &fakeLister{dirs: map[string][]Entry{}}
	var entries []Entry
	for i := 0; i < 30; i++ {
		entries = append(entries, fileEntry(filepath.Join("/big", string(rune('a'+i%26))+string(rune('a'+i/26)))))
	}
	lister.dirs["/big"] = entries

	m := NewMachine(lister, nil)
	s, err := m.Start("/big", "", nil)
	require.NoError(t, err)
	s = m.Step(s, Event{Kind: EventResize, Height: 10})

	for i := 0; i < 20; i++ {
		s = steps(m, s, EventDown)
		assert.GreaterOrEqual(t, s.Cursor, s.Offset)
		assert.Less(t, s.Cursor, s.Offset+s.Height)
	}
	assert.Equal(t, 20, s.Cursor)

	s = steps(m, s, EventDown, EventDown, EventDown, EventDown, EventDown, EventDown, EventDown, EventDown, EventDown, EventDown)
	assert.Equal(t, 29, s.Cursor)
	assert.Equal(t, 20, s.Offset)
}

func TestEmptyListingCursorIsZero(t *testing.T) {
	lister := &fakeLister{dirs: map[string][]Entry{"/empty": nil}}
	m := NewMachine(lister, nil)
	s, err := m.Start("/empty", "", nil)
	require.NoError(t, err)

	s = steps(m, s, EventDown, EventToggle, EventEnter, EventUp)
	assert.Equal(t, 0, s.Cursor)
	assert.Equal(t, 0, s.Selection.Len())
}
