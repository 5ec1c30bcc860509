package ignore

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func abs(parts ...string) string {
	return filepath.Join(append([]string{string(filepath.Separator)}, parts...)...)
}

func TestAddLinesSkipsCommentsAndBlanks(t *testing.T) {
	root := abs("proj")
	m := NewMatcher(nil)
	m.AddLines("test", "", "# comment", "", "*.log", "   ", "build/")

	assert.Equal(t, 2, m.Len())
	assert.Equal(t, []string{"test"}, m.Sources())
	assert.True(t, m.MatchesPath(root, abs("proj", "debug.log"), false))
	assert.True(t, m.MatchesPath(root, abs("proj", "nested", "debug.log"), false))
	assert.True(t, m.MatchesPath(root, abs("proj", "build"), true))
	assert.False(t, m.MatchesPath(root, abs("proj", "main.go"), false))
}

func TestEmptyMatcherMatchesNothing(t *testing.T) {
	var m *Matcher
	assert.False(t, m.MatchesPath(abs("proj"), abs("proj", "anything"), false))
	assert.False(t, NewMatcher(nil).MatchesPath(abs("proj"), abs("proj", "anything"), true))
}

func TestNegation(t *testing.T) {
	root := abs("proj")
	m := NewMatcher(nil)
	m.AddLines("test", "", "*.txt", "!keep.txt")

	assert.True(t, m.MatchesPath(root, abs("proj", "drop.txt"), false))
	assert.False(t, m.MatchesPath(root, abs("proj", "keep.txt"), false))
}

func TestRootRelativePatternsFollowTheWalkRoot(t *testing.T) {
	m := NewMatcher(nil)
	m.AddLines("command line", "", "/generated/")

	assert.True(t, m.MatchesPath(abs("proj"), abs("proj", "generated"), true))
	assert.True(t, m.MatchesPath(abs("proj", "sub"), abs("proj", "sub", "generated"), true))
	assert.False(t, m.MatchesPath(abs("proj"), abs("proj", "sub", "generated"), true))
}

func TestBasedPatternsIgnoreTheWalkRoot(t *testing.T) {
	m := NewMatcher(nil)
	m.AddLines("cxtignore", abs("proj"), "docs/internal/", "/top.txt")

	// Walking /proj/docs directly still applies patterns relative to /proj.
	docs := abs("proj", "docs")
	assert.True(t, m.MatchesPath(docs, abs("proj", "docs", "internal"), true))
	assert.False(t, m.MatchesPath(docs, abs("proj", "docs", "guide.md"), false))
	assert.True(t, m.MatchesPath(abs("proj"), abs("proj", "top.txt"), false))
	assert.False(t, m.MatchesPath(docs, abs("proj", "docs", "top.txt"), false))

	// Paths outside the base are never matched by its set.
	assert.False(t, m.MatchesPath(abs("other"), abs("other", "docs", "internal"), true))
}

func TestLoadWalksUpAndReadsGlobal(t *testing.T) {
	root := t.TempDir()
	child := filepath.Join(root, "project", "sub")
	require.NoError(t, os.MkdirAll(child, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(root, FileName), []byte("*.tmp\n"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(root, "project", FileName), []byte("/vendor/\n"), 0o644))
	global := filepath.Join(root, "global-ignore")
	require.NoError(t, os.WriteFile(global, []byte("*.bak\n"), 0o644))

	m, err := Load(child, global, []string{"secrets.env"}, nil)
	require.NoError(t, err)

	assert.True(t, m.MatchesPath(child, filepath.Join(child, "a.tmp"), false))
	assert.True(t, m.MatchesPath(child, filepath.Join(root, "project", "vendor"), true))
	assert.False(t, m.MatchesPath(child, filepath.Join(child, "vendor"), true))
	assert.True(t, m.MatchesPath(child, filepath.Join(child, "old.bak"), false))
	assert.True(t, m.MatchesPath(child, filepath.Join(child, "secrets.env"), false))
	assert.False(t, m.MatchesPath(child, filepath.Join(child, "main.go"), false))

	sources := m.Sources()
	require.Len(t, sources, 4)
	assert.Equal(t, global, sources[0])
	assert.Equal(t, filepath.Join(root, FileName), sources[1])
	assert.Equal(t, filepath.Join(root, "project", FileName), sources[2])
	assert.Equal(t, "command line", sources[3])
}

func TestLoadMissingGlobalIsFine(t *testing.T) {
	dir := t.TempDir()
	m, err := Load(dir, filepath.Join(dir, "nope"), nil, nil)
	require.NoError(t, err)
	assert.Zero(t, m.Len())
}
