// Package walker enumerates the source tree and mirrors its directory
// structure under the target root as it goes.
package walker

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
)

// Entry describes one regular file found under the source root.
type Entry struct {
	SourcePath string // absolute path of the source file
	RelDir     string // directory relative to the source root ("." for the root)
	Name       string // base filename
}

// Walker walks a source tree with exclude pattern support, creating the
// mirrored directory under the target root for every directory it visits.
type Walker struct {
	sourceRoot string
	targetRoot string
	excludes   []string
}

// New creates a walker rooted at sourceRoot, mirroring into targetRoot.
// Both roots are resolved to absolute paths; sourceRoot must be an existing
// directory.
func New(sourceRoot, targetRoot string, excludes []string) (*Walker, error) {
	absSource, err := filepath.Abs(sourceRoot)
	if err != nil {
		return nil, fmt.Errorf("get absolute path: %w", err)
	}
	info, err := os.Stat(absSource)
	if err != nil {
		return nil, fmt.Errorf("stat source root: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("source root is not a directory: %s", absSource)
	}

	absTarget, err := filepath.Abs(targetRoot)
	if err != nil {
		return nil, fmt.Errorf("get absolute path: %w", err)
	}

	return &Walker{
		sourceRoot: absSource,
		targetRoot: absTarget,
		excludes:   excludes,
	}, nil
}

// Walk visits every regular file under the source root in lexical order,
// calling fn for each. Before descending into a directory, the mirrored
// directory is created under the target root; an already existing directory
// is not an error. Excluded paths are skipped silently.
func (w *Walker) Walk(fn func(Entry) error) error {
	err := filepath.WalkDir(w.sourceRoot, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}

		relPath, err := filepath.Rel(w.sourceRoot, path)
		if err != nil {
			return fmt.Errorf("get relative path: %w", err)
		}

		if d.IsDir() {
			if w.isExcluded(filepath.ToSlash(relPath)) {
				return fs.SkipDir
			}
			// MkdirAll treats an existing directory as satisfied, which
			// also covers races with manual operator changes.
			if err := os.MkdirAll(filepath.Join(w.targetRoot, relPath), 0755); err != nil {
				return fmt.Errorf("create target directory: %w", err)
			}
			return nil
		}

		if !d.Type().IsRegular() {
			return nil
		}
		if w.isExcluded(filepath.ToSlash(relPath)) {
			return nil
		}

		return fn(Entry{
			SourcePath: path,
			RelDir:     filepath.Dir(relPath),
			Name:       d.Name(),
		})
	})
	if err != nil {
		return fmt.Errorf("walk source tree: %w", err)
	}
	return nil
}

// TargetRoot returns the absolute target root the walker mirrors into.
func (w *Walker) TargetRoot() string {
	return w.targetRoot
}

func (w *Walker) isExcluded(path string) bool {
	if path == "." {
		return false
	}
	return IsExcluded(path, w.excludes)
}

// IsExcluded reports whether the slash-separated relative path matches any
// of the doublestar patterns. Directory patterns (trailing "/") match the
// named directory and everything under it.
func IsExcluded(path string, patterns []string) bool {
	for _, pattern := range patterns {
		if strings.HasSuffix(pattern, "/") {
			dirPattern := strings.TrimSuffix(pattern, "/")
			parts := strings.Split(path, "/")
			for i := 1; i <= len(parts); i++ {
				if matched, _ := doublestar.Match(dirPattern, strings.Join(parts[:i], "/")); matched {
					return true
				}
			}
			continue
		}
		if matched, _ := doublestar.Match(pattern, path); matched {
			return true
		}
	}
	return false
}
