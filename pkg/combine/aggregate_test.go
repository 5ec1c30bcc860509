package combine

import (
	"bytes"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAggregateAbsoluteHeaders(t *testing.T) {
	dir := writeTree(t, map[string]string{"a.txt": "hello", "b.txt": "world"})

	c := NewCombiner(AggregationConfig{Mode: ModeAbsolute}, "", nil)
	result := c.Combine(NewSelection(entry(t, dir)))

	want := "--- File: " + filepath.Join(dir, "a.txt") + " ---\nhello\n\n" +
		"--- File: " + filepath.Join(dir, "b.txt") + " ---\nworld\n"
	assert.Equal(t, want, string(result.Buffer))
	assert.Empty(t, result.Warnings)
	assert.Len(t, result.Files, 2)
}

func TestAggregateRelativeHeaders(t *testing.T) {
	dir := writeTree(t, map[string]string{"src/a.go": "package a\n"})

	c := NewCombiner(AggregationConfig{Mode: ModeRelative}, dir, nil)
	result := c.Combine(NewSelection(entry(t, filepath.Join(dir, "src"))))

	assert.Equal(t, "--- File: "+filepath.Join("src", "a.go")+" ---\npackage a\n", string(result.Buffer))
}

func TestAggregateNoHeader(t *testing.T) {
	contents := map[string]string{"a.txt": "alpha", "b.txt": "beta\n", "c.txt": ""}
	dir := writeTree(t, contents)

	c := NewCombiner(AggregationConfig{Mode: ModeNone}, dir, nil)
	result := c.Combine(NewSelection(entry(t, dir)))

	assert.Equal(t, "alpha\nbeta\n\n", string(result.Buffer))
	assert.NotContains(t, string(result.Buffer), "--- File:")

	// Without the single boundary newlines the buffer is the raw concatenation.
	var raw strings.Builder
	for _, name := range []string{"a.txt", "b.txt", "c.txt"} {
		raw.WriteString(strings.TrimSuffix(contents[name], "\n"))
	}
	assert.Equal(t, raw.String(), strings.ReplaceAll(string(result.Buffer), "\n", ""))
}

func TestAggregateIsDeterministic(t *testing.T) {
	dir := writeTree(t, map[string]string{
		"z.txt": "z", "a/b/c.txt": "c", "a/a.txt": "a", "m/n.txt": "n",
	})
	sel := NewSelection(entry(t, dir))

	first := NewCombiner(AggregationConfig{}, dir, nil).Combine(sel)
	second := NewCombiner(AggregationConfig{}, dir, nil).Combine(sel)
	assert.True(t, bytes.Equal(first.Buffer, second.Buffer))
}

func TestAggregateSkipsUnreadableFile(t *testing.T) {
	dir := writeTree(t, map[string]string{"a.txt": "a", "secret.txt": "s", "z.txt": "z"})
	secret := filepath.Join(dir, "secret.txt")

	agg := NewAggregator(NewPathFormatter(ModeNone, dir), nil)
	agg.readFile = func(name string) ([]byte, error) {
		if name == secret {
			return nil, &fs.PathError{Op: "open", Path: name, Err: fs.ErrPermission}
		}
		return os.ReadFile(name)
	}

	files, _ := NewSelection(entry(t, dir)).Resolve(NewWalker(AggregationConfig{}, nil))
	result := agg.Aggregate(files)

	assert.Equal(t, "a\nz\n", string(result.Buffer))
	require.Len(t, result.Warnings, 1)
	assert.Equal(t, secret, result.Warnings[0].Path)
	assert.Equal(t, ReasonPermissionDenied, result.Warnings[0].Reason)
	var readErr *ReadError
	assert.True(t, errors.As(result.Warnings[0].Err, &readErr))
	assert.Equal(t, secret+": permission denied", result.Warnings[0].String())
}

func TestAggregateVanishedFile(t *testing.T) {
	dir := writeTree(t, map[string]string{"a.txt": "a"})
	gone := filepath.Join(dir, "gone.txt")

	result := NewAggregator(NewPathFormatter(ModeAbsolute, ""), nil).Aggregate([]string{gone, filepath.Join(dir, "a.txt")})

	require.Len(t, result.Warnings, 1)
	assert.Equal(t, ReasonPathVanished, result.Warnings[0].Reason)
	// The first included file gets no leading separator.
	assert.True(t, strings.HasPrefix(string(result.Buffer), "--- File: "))
}

func TestAggregatePassesBinaryThrough(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "blob.bin")
	blob := []byte{0x00, 0xff, 0xfe, '\n'}
	require.NoError(t, os.WriteFile(path, blob, 0o644))

	result := NewAggregator(NewPathFormatter(ModeNone, ""), nil).Aggregate([]string{path})
	assert.Equal(t, blob, result.Buffer)
}

func TestCombineMergesWalkAndReadWarnings(t *testing.T) {
	dir := writeTree(t, map[string]string{"ok.txt": "ok"})
	if err := os.Symlink(filepath.Join(dir, "missing"), filepath.Join(dir, "broken")); err != nil {
		t.Skipf("symlinks unsupported: %v", err)
	}

	result := NewCombiner(AggregationConfig{Mode: ModeNone}, dir, nil).Combine(NewSelection(entry(t, dir)))
	assert.Equal(t, "ok\n", string(result.Buffer))
	require.Len(t, result.Warnings, 1)
	assert.Equal(t, filepath.Join(dir, "broken"), result.Warnings[0].Path)
}
