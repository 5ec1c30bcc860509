// File: pkg/combine/traversal.go
package combine

import (
	"io/fs"
	"iter"
	"os"
	"path/filepath"
	"strings"

	"go.uber.org/zap"
)

// Walker expands selection roots into canonical regular-file paths.
type Walker struct {
	config AggregationConfig
	logger *zap.Logger

	readDir func(name string) ([]fs.DirEntry, error)
	stat    func(name string) (fs.FileInfo, error)
}

// NewWalker creates a Walker using config's hidden, ignore and pattern settings.
func NewWalker(config AggregationConfig, logger *zap.Logger) *Walker {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Walker{
		config:  config,
		logger:  logger,
		readDir: os.ReadDir,
		stat:    os.Stat,
	}
}

// Walk returns the files under root in traversal order. Entries that cannot be
// visited are yielded as a *TraversalError with an empty path; the walk goes on
// with the next sibling. Every call performs an independent pass.
func (w *Walker) Walk(root PathEntry) iter.Seq2[string, error] {
	return func(yield func(string, error) bool) {
		if !root.IsDir() {
			if w.config.Ignore.Equals(root.Path) {
				w.logger.Debug("Skipping ignored file root", zap.String("path", root.Path))
				return
			}
			yield(root.Path, nil)
			return
		}

		if w.config.Ignore.Covers(root.Path) {
			w.logger.Debug("Skipping ignored directory root", zap.String("dir", root.Path))
			return
		}

		descent := map[string]bool{root.Path: true}
		w.walkDir(root.Path, root.Path, root.Path, descent, yield)
	}
}

// walkDir visits dir (canonical) whose logical location under the walk root is
// logicalDir. descent holds the canonical directories on the current path.
func (w *Walker) walkDir(dir, logicalDir, root string, descent map[string]bool, yield func(string, error) bool) bool {
	entries, err := w.readDir(dir)
	if err != nil {
		w.logger.Warn("Failed to read directory", zap.String("dir", dir), zap.Error(err))
		return yield("", &TraversalError{Path: dir, Reason: ClassifyError(err), Cause: err})
	}

	// os.ReadDir returns entries sorted by file name.
	for _, entry := range entries {
		name := entry.Name()
		if !w.config.Hidden && isHidden(name) {
			continue
		}

		canonical := filepath.Join(dir, name)
		logical := filepath.Join(logicalDir, name)
		mode := entry.Type()

		if mode&fs.ModeSymlink != 0 {
			resolved, err := filepath.EvalSymlinks(canonical)
			if err != nil {
				w.logger.Warn("Failed to resolve symlink", zap.String("path", canonical), zap.Error(err))
				if !yield("", &TraversalError{Path: canonical, Reason: ClassifyError(err), Cause: err}) {
					return false
				}
				continue
			}
			info, err := w.stat(resolved)
			if err != nil {
				if !yield("", &TraversalError{Path: canonical, Reason: ClassifyError(err), Cause: err}) {
					return false
				}
				continue
			}
			canonical = resolved
			mode = info.Mode().Type()
		}

		if w.config.Ignore.Covers(canonical) || w.config.Ignore.Covers(logical) {
			w.logger.Debug("Skipping ignored path", zap.String("path", canonical))
			continue
		}

		isDir := mode.IsDir()
		if w.matchesPattern(root, logical, isDir) {
			w.logger.Debug("Skipping path matching ignore pattern", zap.String("path", logical))
			continue
		}

		if isDir {
			if descent[canonical] {
				w.logger.Debug("Skipping directory already on the current descent", zap.String("dir", canonical))
				continue
			}
			descent[canonical] = true
			ok := w.walkDir(canonical, logical, root, descent, yield)
			delete(descent, canonical)
			if !ok {
				return false
			}
			continue
		}

		if !mode.IsRegular() {
			w.logger.Debug("Skipping non-regular file", zap.String("path", canonical), zap.Stringer("mode", mode))
			continue
		}

		if !yield(canonical, nil) {
			return false
		}
	}
	return true
}

func (w *Walker) matchesPattern(root, logical string, isDir bool) bool {
	if w.config.Patterns == nil {
		return false
	}
	return w.config.Patterns.MatchesPath(root, logical, isDir)
}

func isHidden(name string) bool {
	return strings.HasPrefix(name, ".")
}
