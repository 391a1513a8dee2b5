// Package pruner reconciles the target tree after a batch run: it deletes
// files with no corresponding source and removes directories left empty.
package pruner

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"

	"github.com/sschindler/transcode-sync/internal/walker"
	"github.com/sschindler/transcode-sync/pkg/logger"
	"github.com/sschindler/transcode-sync/pkg/planner"
)

type Pruner struct {
	reporter logger.Reporter
}

func New(reporter logger.Reporter) *Pruner {
	return &Pruner{reporter: reporter}
}

// FindOrphans walks the target root and returns every regular file whose
// absolute path is not in the valid set, reporting each as pending deletion.
// Excluded paths are exempt, matching the scan-side exclude handling. The
// set is computed once; callers must not re-derive it mid-deletion.
func (p *Pruner) FindOrphans(targetRoot string, valid planner.TargetSet, excludes []string) ([]string, error) {
	absRoot, err := filepath.Abs(targetRoot)
	if err != nil {
		return nil, fmt.Errorf("get absolute path: %w", err)
	}

	var orphans []string
	err = filepath.WalkDir(absRoot, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || !d.Type().IsRegular() {
			return nil
		}
		if valid.Contains(path) {
			return nil
		}

		relPath, err := filepath.Rel(absRoot, path)
		if err != nil {
			return fmt.Errorf("get relative path: %w", err)
		}
		if walker.IsExcluded(filepath.ToSlash(relPath), excludes) {
			return nil
		}

		p.reporter.OrphanFound(path)
		orphans = append(orphans, path)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("walk target tree: %w", err)
	}
	return orphans, nil
}

// RemoveFiles deletes the orphans best-effort: one failed deletion is
// reported and does not prevent attempting the rest. Returns the number of
// files actually removed.
func (p *Pruner) RemoveFiles(orphans []string) int {
	removed := 0
	for _, path := range orphans {
		if err := os.Remove(path); err != nil {
			p.reporter.DeleteFailed(path, err)
			continue
		}
		removed++
	}
	return removed
}

// RemoveEmptyDirs attempts to remove every directory under (and including)
// the target root, children before parents. Non-empty or otherwise
// undeletable directories are skipped silently; each removal is reported.
func (p *Pruner) RemoveEmptyDirs(targetRoot string) error {
	absRoot, err := filepath.Abs(targetRoot)
	if err != nil {
		return fmt.Errorf("get absolute path: %w", err)
	}

	var dirs []string
	err = filepath.WalkDir(absRoot, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			dirs = append(dirs, path)
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("walk target tree: %w", err)
	}

	// A parent is always a strict prefix of its children, so reverse
	// lexical order visits children first.
	sort.Sort(sort.Reverse(sort.StringSlice(dirs)))

	for _, dir := range dirs {
		if err := os.Remove(dir); err == nil {
			p.reporter.DirRemoved(dir)
		}
	}
	return nil
}
