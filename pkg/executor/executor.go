// Package executor runs the planned conversions strictly in order, cleaning
// up partial output and aggregating per-extension failure counts.
package executor

import (
	"context"
	"errors"
	"os"

	"github.com/sschindler/transcode-sync/pkg/logger"
	"github.com/sschindler/transcode-sync/pkg/planner"
)

// Engine is the single-file conversion capability the executor consumes.
// *transcode.Engine satisfies it; tests substitute fakes.
type Engine interface {
	Transcode(ctx context.Context, source, target string, bitrateKbps int) error
}

// Summary is the batch outcome, accumulated while the plan executes.
type Summary struct {
	Succeeded     int
	FailuresByExt map[string]int
	Canceled      bool
}

type Executor struct {
	engine   Engine
	reporter logger.Reporter
	bitrate  int
}

func New(engine Engine, reporter logger.Reporter, bitrateKbps int) *Executor {
	return &Executor{
		engine:   engine,
		reporter: reporter,
		bitrate:  bitrateKbps,
	}
}

// Execute converts every item in plan order, one at a time. A failed item
// has its partial target removed and its source extension counted, then the
// batch continues. Cancellation also removes the partial target but stops
// the batch; remaining items are not attempted.
func (e *Executor) Execute(ctx context.Context, items []planner.Item) Summary {
	summary := Summary{FailuresByExt: make(map[string]int)}

	for i, item := range items {
		if ctx.Err() != nil {
			summary.Canceled = true
			e.reporter.Canceled()
			break
		}

		e.reporter.ItemStart(i+1, len(items), item.SourcePath)

		err := e.engine.Transcode(ctx, item.SourcePath, item.TargetPath, e.bitrate)
		if err == nil {
			summary.Succeeded++
			e.reporter.ItemOK()
			continue
		}

		RemovePartial(item.TargetPath)

		if canceled(ctx, err) {
			summary.Canceled = true
			e.reporter.Canceled()
			break
		}

		summary.FailuresByExt[item.SourceExt]++
		e.reporter.ItemFailed(err.Error())
	}

	return summary
}

// RemovePartial deletes the target file if the aborted conversion left one
// behind, so a truncated output never masquerades as a valid file.
func RemovePartial(target string) {
	if info, err := os.Stat(target); err == nil && info.Mode().IsRegular() {
		_ = os.Remove(target)
	}
}

func canceled(ctx context.Context, err error) bool {
	return ctx.Err() != nil || errors.Is(err, context.Canceled)
}
