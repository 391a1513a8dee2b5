// Package logger defines the status reporter consumed by the executor and
// pruner, decoupling terminal styling from the batch logic.
package logger

import (
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/fatih/color"
)

// Reporter receives batch status events. Implementations decide how (and
// whether) each event reaches the operator.
type Reporter interface {
	// Info reports general progress lines (plan counts, pending deletions).
	Info(format string, args ...interface{})
	// ItemStart announces a conversion before its outcome is known.
	ItemStart(index, total int, sourcePath string)
	// ItemOK marks the current conversion as succeeded.
	ItemOK()
	// ItemFailed marks the current conversion as failed.
	ItemFailed(reason string)
	// Canceled marks the current operation as interrupted by the operator.
	Canceled()
	// OrphanFound announces a target file pending deletion.
	OrphanFound(path string)
	// DirRemoved announces a deleted empty target directory.
	DirRemoved(path string)
	// DeleteFailed reports a best-effort deletion that did not succeed.
	DeleteFailed(path string, err error)
	// Summary reports the batch outcome: success count and failure counts
	// keyed by source extension.
	Summary(succeeded int, failuresByExt map[string]int)
	// Finished marks the whole run as complete.
	Finished()
}

var (
	green = color.New(color.FgGreen).SprintFunc()
	red   = color.New(color.FgRed).SprintFunc()
)

// Console writes colored status lines to a writer, matching the batch
// tool's interactive output format.
type Console struct {
	Out io.Writer
}

func NewConsole(out io.Writer) *Console {
	return &Console{Out: out}
}

func (c *Console) Info(format string, args ...interface{}) {
	fmt.Fprintf(c.Out, format+"\n", args...)
}

func (c *Console) ItemStart(index, total int, sourcePath string) {
	fmt.Fprintf(c.Out, "[%d/%d] Converting %s ... ", index, total, sourcePath)
}

func (c *Console) ItemOK() {
	fmt.Fprintln(c.Out, green("OK"))
}

func (c *Console) ItemFailed(reason string) {
	fmt.Fprintln(c.Out, red(reason))
}

func (c *Console) Canceled() {
	fmt.Fprintln(c.Out, red("Canceled"))
}

func (c *Console) OrphanFound(path string) {
	fmt.Fprintf(c.Out, "Will delete: %s\n", path)
}

func (c *Console) DirRemoved(path string) {
	fmt.Fprintf(c.Out, "Deleted empty directory: %s\n", path)
}

func (c *Console) DeleteFailed(path string, err error) {
	fmt.Fprintln(c.Out, red(fmt.Sprintf("Cannot delete %s: %v", path, err)))
}

func (c *Console) Summary(succeeded int, failuresByExt map[string]int) {
	if succeeded > 0 {
		fmt.Fprintln(c.Out, green(fmt.Sprintf("Successfully transcoded %d files", succeeded)))
	}
	if len(failuresByExt) > 0 {
		fmt.Fprintln(c.Out, red("Failed to transcode: "+FormatFailures(failuresByExt)))
		fmt.Fprintln(c.Out, "Try the --codecs switch to see all installed codecs")
	}
}

func (c *Console) Finished() {
	fmt.Fprintln(c.Out, green("Finished"))
}

// Quiet suppresses everything except failures and cancellation.
type Quiet struct {
	Out io.Writer

	current string // source path of the in-flight item
}

func NewQuiet(out io.Writer) *Quiet {
	return &Quiet{Out: out}
}

func (q *Quiet) Info(string, ...interface{}) {}

func (q *Quiet) ItemStart(_, _ int, sourcePath string) {
	q.current = sourcePath
}

func (q *Quiet) ItemOK() {}

func (q *Quiet) ItemFailed(reason string) {
	fmt.Fprintf(q.Out, "error: %s: %s\n", q.current, reason)
}

func (q *Quiet) Canceled() {
	fmt.Fprintln(q.Out, "Canceled")
}

func (q *Quiet) OrphanFound(string) {}

func (q *Quiet) DirRemoved(string) {}

func (q *Quiet) DeleteFailed(path string, err error) {
	fmt.Fprintf(q.Out, "error: cannot delete %s: %v\n", path, err)
}

func (q *Quiet) Summary(_ int, failuresByExt map[string]int) {
	if len(failuresByExt) > 0 {
		fmt.Fprintf(q.Out, "failed to transcode: %s\n", FormatFailures(failuresByExt))
	}
}

func (q *Quiet) Finished() {}

// Null discards every event.
type Null struct{}

func (Null) Info(string, ...interface{}) {}
func (Null) ItemStart(_, _ int, _ string) {}
func (Null) ItemOK()                     {}
func (Null) ItemFailed(string)           {}
func (Null) Canceled()                   {}
func (Null) OrphanFound(string)          {}
func (Null) DirRemoved(string)           {}
func (Null) DeleteFailed(string, error)  {}
func (Null) Summary(int, map[string]int) {}
func (Null) Finished()                   {}

// FormatFailures renders per-extension failure counts as "2x .mp3, 1x .wma",
// sorted by extension for stable output.
func FormatFailures(failuresByExt map[string]int) string {
	exts := make([]string, 0, len(failuresByExt))
	for ext := range failuresByExt {
		exts = append(exts, ext)
	}
	sort.Strings(exts)

	parts := make([]string, 0, len(exts))
	for _, ext := range exts {
		label := "." + ext
		if ext == "" {
			label = "(none)"
		}
		parts = append(parts, fmt.Sprintf("%dx %s", failuresByExt[ext], label))
	}
	return strings.Join(parts, ", ")
}
