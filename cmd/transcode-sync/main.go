package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/sschindler/transcode-sync/internal/confirm"
	"github.com/sschindler/transcode-sync/internal/walker"
	"github.com/sschindler/transcode-sync/pkg/executor"
	"github.com/sschindler/transcode-sync/pkg/logger"
	"github.com/sschindler/transcode-sync/pkg/planner"
	"github.com/sschindler/transcode-sync/pkg/pruner"
	"github.com/sschindler/transcode-sync/pkg/transcode"
)

var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
	builtBy = "unknown"
)

var (
	bitrate        int
	format         string
	skipExisting   bool
	deleteOrphans  bool
	listCodecs     bool
	excludes       []string
	quiet          bool
	assumeYes      bool
	planJSONFile   string
	resultJSONFile string
)

// errCanceled marks an operator-initiated abort: declined confirmation or
// an interrupt. It is reported as "Canceled", never as an error message.
var errCanceled = errors.New("canceled")

// conversionEngine is the slice of *transcode.Engine the run functions
// need, so tests can substitute a fake.
type conversionEngine interface {
	Transcode(ctx context.Context, source, target string, bitrateKbps int) error
	CanEncode(format string) bool
}

// runOptions bundles the validated CLI inputs for a directory-mode run.
type runOptions struct {
	source         string
	target         string
	format         string
	bitrate        int
	skipExisting   bool
	deleteOrphans  bool
	excludes       []string
	planJSONFile   string
	resultJSONFile string
}

func main() {
	rootCmd := &cobra.Command{
		Use:   "transcode-sync <source> <target>",
		Short: "Convert audio files to the desired format preserving the directory structure",
		Long: `transcode-sync mirrors a source directory tree of audio files into a target
tree, converting each file with the installed codec programs. Existing
outputs can be reused (--skip) and target files without a source pruned
(--delete).`,
		Version: fmt.Sprintf("%s (commit: %s, built at: %s by %s)", version, commit, date, builtBy),
		Args:    cobra.RangeArgs(0, 2),
		RunE:    run,

		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.Flags().IntVarP(&bitrate, "bitrate", "b", 0, "Target audio bitrate in kbps")
	rootCmd.Flags().StringVarP(&format, "format", "f", "", "Target audio format as filename extension, required when converting directories")
	rootCmd.Flags().BoolVarP(&skipExisting, "skip", "s", false, "Skip file(s) already present at target, contents are not checked")
	rootCmd.Flags().BoolVarP(&deleteOrphans, "delete", "d", false, "Delete files and directories in the target tree with no equivalent in the source tree")
	rootCmd.Flags().BoolVarP(&listCodecs, "codecs", "c", false, "List all available encoders and decoders and exit")
	rootCmd.Flags().StringSliceVar(&excludes, "exclude", nil, "Exclude paths matching the pattern (multiple allowed)")
	rootCmd.Flags().BoolVarP(&quiet, "quiet", "q", false, "Suppress non-error output")
	rootCmd.Flags().BoolVarP(&assumeYes, "yes", "y", false, "Assume yes on all confirmation prompts")
	rootCmd.Flags().StringVar(&planJSONFile, "plan-json-file", "", "Path to write the plan as JSON")
	rootCmd.Flags().StringVar(&resultJSONFile, "result-json-file", "", "Path to write the execution result as JSON")

	if err := rootCmd.Execute(); err != nil {
		if !errors.Is(err, errCanceled) {
			fmt.Fprintf(os.Stderr, "transcode-sync: %v\n", err)
		}
		os.Exit(1)
	}
}

func run(cmd *cobra.Command, args []string) error {
	engine := transcode.New()

	if listCodecs {
		printCodecs(cmd.OutOrStdout(), engine)
		return nil
	}
	if len(args) != 2 {
		return fmt.Errorf("expected <source> and <target> arguments, got %d", len(args))
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var reporter logger.Reporter = logger.NewConsole(cmd.OutOrStdout())
	if quiet {
		reporter = logger.NewQuiet(cmd.OutOrStdout())
	}

	gate := confirm.WithContext(ctx, confirm.Stdin(cmd.InOrStdin(), cmd.OutOrStdout()))
	if assumeYes {
		gate = confirm.Always()
	}

	source, target := args[0], args[1]
	info, err := os.Stat(source)
	if err != nil {
		return fmt.Errorf("source does not exist: %s", source)
	}

	if info.Mode().IsRegular() {
		return runSingleFile(ctx, engine, reporter, source, target, bitrate, skipExisting)
	}
	if !info.IsDir() {
		return fmt.Errorf("source is invalid: %s", source)
	}

	opts := runOptions{
		source:         source,
		target:         target,
		format:         format,
		bitrate:        bitrate,
		skipExisting:   skipExisting,
		deleteOrphans:  deleteOrphans,
		excludes:       excludes,
		planJSONFile:   planJSONFile,
		resultJSONFile: resultJSONFile,
	}
	return runDirectory(ctx, engine, reporter, gate, opts)
}

// runSingleFile converts one file directly: no planning, no pruning. The
// skip check still applies, and partial output is cleaned up on failure or
// cancellation.
func runSingleFile(ctx context.Context, engine conversionEngine, reporter logger.Reporter, source, target string, bitrateKbps int, skip bool) error {
	if skip {
		if info, err := os.Stat(target); err == nil && info.Mode().IsRegular() {
			reporter.Info("Target file already exists, nothing to do")
			return nil
		}
	}

	reporter.ItemStart(1, 1, source)
	err := engine.Transcode(ctx, source, target, bitrateKbps)
	if err == nil {
		reporter.ItemOK()
		return nil
	}

	executor.RemovePartial(target)
	if ctx.Err() != nil || errors.Is(err, context.Canceled) {
		reporter.Canceled()
		return errCanceled
	}
	reporter.ItemFailed(err.Error())
	reporter.Info("Try the --codecs switch to see all installed codecs")
	return nil
}

// runDirectory is the batch pipeline: scan, plan, confirm, execute, and
// optionally prune. Each phase is a barrier for the next; cancellation at
// any point skips everything that remains.
func runDirectory(ctx context.Context, engine conversionEngine, reporter logger.Reporter, gate confirm.Gate, opts runOptions) error {
	if info, err := os.Stat(opts.target); err != nil || !info.IsDir() {
		return fmt.Errorf("target directory does not exist: %s", opts.target)
	}
	if opts.format == "" {
		return errors.New("specify --format of target when converting directories")
	}
	if !engine.CanEncode(opts.format) {
		return fmt.Errorf("%s is not a valid target format", opts.format)
	}

	w, err := walker.New(opts.source, opts.target, opts.excludes)
	if err != nil {
		return err
	}
	plan, valid, err := planner.Build(w, opts.format, opts.skipExisting)
	if err != nil {
		return err
	}

	reporter.Info("%d files to convert, skipped %d already present in target directory",
		len(plan.Items), plan.Skipped)
	if plan.Collisions > 0 {
		reporter.Info("%d files share a target name with another source file and were planned once", plan.Collisions)
	}
	if opts.planJSONFile != "" {
		if err := writePlanJSON(opts.planJSONFile, plan); err != nil {
			return fmt.Errorf("write plan JSON: %w", err)
		}
	}

	if len(plan.Items) > 0 {
		if !gate() {
			reporter.Canceled()
			return errCanceled
		}
	} else if !opts.deleteOrphans {
		reporter.Info("Nothing to do")
		return nil
	}

	summary := executor.New(engine, reporter, opts.bitrate).Execute(ctx, plan.Items)
	reporter.Summary(summary.Succeeded, summary.FailuresByExt)
	if opts.resultJSONFile != "" {
		if err := writeResultJSON(opts.resultJSONFile, summary); err != nil {
			return fmt.Errorf("write result JSON: %w", err)
		}
	}
	if summary.Canceled {
		return errCanceled
	}
	if !opts.deleteOrphans {
		return nil
	}

	p := pruner.New(reporter)
	orphans, err := p.FindOrphans(w.TargetRoot(), valid, opts.excludes)
	if err != nil {
		return err
	}
	reporter.Info("Will delete %d invalid files in target directory", len(orphans))
	if len(orphans) > 0 {
		if ctx.Err() != nil {
			reporter.Canceled()
			return errCanceled
		}
		if !gate() {
			reporter.Canceled()
			return errCanceled
		}
		p.RemoveFiles(orphans)
	}
	if err := p.RemoveEmptyDirs(w.TargetRoot()); err != nil {
		return err
	}

	reporter.Finished()
	return nil
}
