// Package ignore loads gitignore-style exclusion patterns from .cxtignore files,
// a global ignore file and the command line.
package ignore

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	gitignore "github.com/sabhiram/go-gitignore"
	"go.uber.org/zap"
)

// FileName is the per-directory ignore file looked up from the working directory upwards.
const FileName = ".cxtignore"

// GlobalEnv names the environment variable holding an optional global ignore file.
const GlobalEnv = "CXT_GLOBAL_IGNORE"

// patternSet is the compiled content of one source. Paths are matched relative
// to base, or to the walk root when base is empty.
type patternSet struct {
	source   string
	base     string
	count    int
	compiled *gitignore.GitIgnore
}

// Matcher is a compiled collection of ignore patterns.
type Matcher struct {
	sets   []patternSet
	logger *zap.Logger
}

// NewMatcher creates an empty Matcher.
func NewMatcher(logger *zap.Logger) *Matcher {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Matcher{logger: logger}
}

// Load builds a Matcher from the global ignore file, every .cxtignore between the
// filesystem root and startDir (outermost first), and extra command-line patterns.
// Patterns of a .cxtignore are relative to the directory holding it; global and
// command-line patterns are relative to each walked directory root.
// A missing global file is not an error.
func Load(startDir, globalPath string, extra []string, logger *zap.Logger) (*Matcher, error) {
	m := NewMatcher(logger)

	if globalPath != "" {
		if err := m.AddFile(globalPath, ""); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return nil, err
		}
	}

	var files []string
	dir := startDir
	for {
		candidate := filepath.Join(dir, FileName)
		if _, err := os.Stat(candidate); err == nil {
			files = append([]string{candidate}, files...)
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}
	for _, file := range files {
		if err := m.AddFile(file, filepath.Dir(file)); err != nil {
			return nil, err
		}
	}

	if len(extra) > 0 {
		m.AddLines("command line", "", extra...)
	}
	return m, nil
}

// AddFile reads an ignore file and adds its patterns relative to base.
func (m *Matcher) AddFile(path, base string) error {
	content, err := os.ReadFile(path)
	if err != nil {
		m.logger.Debug("Failed to read ignore file", zap.String("filePath", path), zap.Error(err))
		return fmt.Errorf("failed to read ignore file %s: %w", path, err)
	}
	lines := strings.Split(strings.ReplaceAll(string(content), "\r\n", "\n"), "\n")
	m.AddLines(path, base, lines...)
	return nil
}

// AddLines adds raw pattern lines as one set relative to base; an empty base
// means the walk root. Blank lines and comments are dropped.
func (m *Matcher) AddLines(source, base string, lines ...string) {
	var kept []string
	for _, line := range lines {
		trimmed := strings.TrimSpace(line)
		if trimmed == "" || strings.HasPrefix(trimmed, "#") {
			continue
		}
		kept = append(kept, trimmed)
	}
	if len(kept) == 0 {
		return
	}
	m.sets = append(m.sets, patternSet{
		source:   source,
		base:     base,
		count:    len(kept),
		compiled: gitignore.CompileIgnoreLines(kept...),
	})
	m.logger.Info("Compiled ignore patterns",
		zap.String("source", source),
		zap.String("base", base),
		zap.Int("patternCount", len(kept)))
}

// MatchesPath reports whether path, found below the walk root, is ignored by any set.
// Negations only apply within the set that declares them.
func (m *Matcher) MatchesPath(root, path string, isDir bool) bool {
	if m == nil {
		return false
	}
	for _, set := range m.sets {
		base := set.base
		if base == "" {
			base = root
		}
		rel, ok := relativeTo(base, path)
		if !ok {
			continue
		}
		if set.compiled.MatchesPath(rel) || (isDir && set.compiled.MatchesPath(rel+"/")) {
			return true
		}
	}
	return false
}

// relativeTo returns path relative to base in slash form, or false when path is
// not strictly below base.
func relativeTo(base, path string) (string, bool) {
	rel, err := filepath.Rel(base, path)
	if err != nil || rel == "." || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return "", false
	}
	return filepath.ToSlash(rel), true
}

// Len returns the number of active patterns.
func (m *Matcher) Len() int {
	n := 0
	for _, set := range m.sets {
		n += set.count
	}
	return n
}

// Sources lists where patterns were loaded from, in load order.
func (m *Matcher) Sources() []string {
	out := make([]string, 0, len(m.sets))
	for _, set := range m.sets {
		out = append(out, set.source)
	}
	return out
}
