package combine

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

// writeTree creates files (relative path → content) under a fresh temp dir and
// returns its canonical path.
func writeTree(t *testing.T, files map[string]string) string {
	t.Helper()
	dir, err := Canonicalize(t.TempDir())
	require.NoError(t, err)
	for rel, content := range files {
		path := filepath.Join(dir, filepath.FromSlash(rel))
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
		require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	}
	return dir
}

func entry(t *testing.T, path string) PathEntry {
	t.Helper()
	e, err := NewPathEntry(path)
	require.NoError(t, err)
	return e
}

func collect(t *testing.T, w *Walker, root PathEntry) ([]string, []error) {
	t.Helper()
	var files []string
	var errs []error
	for path, err := range w.Walk(root) {
		if err != nil {
			errs = append(errs, err)
			continue
		}
		files = append(files, path)
	}
	return files, errs
}

func rel(t *testing.T, base string, paths []string) []string {
	t.Helper()
	out := make([]string, 0, len(paths))
	for _, p := range paths {
		r, err := filepath.Rel(base, p)
		require.NoError(t, err)
		out = append(out, filepath.ToSlash(r))
	}
	return out
}

type globMatcher map[string]bool

func (m globMatcher) MatchesPath(root, path string, isDir bool) bool {
	r, err := filepath.Rel(root, path)
	if err != nil {
		return false
	}
	relPath := filepath.ToSlash(r)
	if isDir {
		return m[relPath+"/"]
	}
	return m[relPath]
}
