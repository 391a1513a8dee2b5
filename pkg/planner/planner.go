// Package planner turns scanned source files into the batch work set,
// applying the skip-if-exists policy and recording every valid target path.
package planner

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/sschindler/transcode-sync/internal/walker"
)

// Build scans the source tree through w and derives the work plan for the
// given target format. Every derived target path lands in the returned
// TargetSet regardless of the skip decision, so that pre-existing outputs
// are never mistaken for orphans later.
func Build(w *walker.Walker, format string, skipExisting bool) (Plan, TargetSet, error) {
	plan := Plan{}
	valid := NewTargetSet()

	err := w.Walk(func(e walker.Entry) error {
		target := filepath.Join(w.TargetRoot(), e.RelDir, ReplaceExtension(e.Name, format))

		if valid.Contains(target) {
			plan.Collisions++
			return nil
		}
		valid.Add(target)

		if skipExisting && isRegularFile(target) {
			plan.Skipped++
			return nil
		}

		plan.Items = append(plan.Items, Item{
			SourcePath: e.SourcePath,
			SourceExt:  Ext(e.Name),
			TargetPath: target,
		})
		return nil
	})
	if err != nil {
		return Plan{}, nil, fmt.Errorf("build plan: %w", err)
	}
	return plan, valid, nil
}

// ReplaceExtension swaps the filename's final extension for the target
// format by exact suffix replacement. A name without an extension simply
// gains one; trimming by character set would corrupt stems that end in
// letters of the extension (report.v.2.mp3 must become report.v.2.ogg).
func ReplaceExtension(name, format string) string {
	ext := filepath.Ext(name)
	stem := strings.TrimSuffix(name, ext)
	if stem == "" {
		// Dotfiles like ".flac" keep their full name as the stem.
		stem = name
	}
	return stem + "." + format
}

// Ext returns the filename's extension without the dot, empty when none.
func Ext(name string) string {
	return strings.TrimPrefix(filepath.Ext(name), ".")
}

func isRegularFile(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.Mode().IsRegular()
}
