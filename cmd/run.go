package cmd

import (
	"errors"
	"fmt"

	"cxt/pkg/combine"
	"cxt/pkg/config"
	"cxt/pkg/ignore"
	"cxt/pkg/output"
	"cxt/pkg/picker"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// errNothingToCombine is returned when the selection resolves to no readable file.
var errNothingToCombine = errors.New("no readable files found in the selection")

func (a *app) run(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	wd, err := a.workDir()
	if err != nil {
		return fmt.Errorf("failed to get working directory: %w", err)
	}
	base, err := combine.Canonicalize(wd)
	if err != nil {
		return err
	}

	settings := config.FromViper(a.viper, args)
	plan, err := settings.Plan(config.Env{WorkDir: base, IsTerminal: a.isTerminal()})
	if err != nil {
		return err
	}
	a.logger.Debug("Validated settings",
		zap.Int("roots", len(plan.Roots)),
		zap.Stringer("mode", plan.Mode),
		zap.Bool("tui", plan.TUI),
		zap.Bool("dryRun", plan.DryRun))

	patterns, err := ignore.Load(base, plan.GlobalIgnore, plan.Exclude, a.logger)
	if err != nil {
		return fmt.Errorf("failed to load ignore patterns: %w", err)
	}

	selection := combine.NewSelection(plan.Roots...)
	aggregation := plan.AggregationConfig(patterns)

	if plan.TUI {
		result, err := a.runPicker(ctx, picker.Options{
			Dir:       base,
			Selection: selection,
			Relative:  aggregation.Mode == combine.ModeRelative,
			NoHeader:  aggregation.Mode == combine.ModeNone,
			Logger:    a.logger,
			Input:     a.stdin,
			Output:    a.stderr,
		})
		if err != nil {
			return err
		}
		if result.Aborted {
			a.logger.Info("Picker aborted, nothing written")
			return nil
		}
		selection = result.Selection
		aggregation.Mode = result.Mode
		aggregation.Ignore = aggregation.Ignore.With(result.Excluded...)
	}

	combiner := combine.NewCombiner(aggregation, base, a.logger)

	if plan.DryRun {
		files, warnings := combiner.Resolve(selection)
		fmt.Fprint(a.stdout, combine.RenderTree(files, base))
		fmt.Fprintf(a.stdout, "\n%d files\n", len(files))
		output.WriteStatus(a.stderr, output.Report{}, len(files), warnings)
		if len(warnings) > 0 {
			a.exitCode = ExitPartial
		}
		return nil
	}

	result := combiner.Combine(selection)
	if len(result.Files) == 0 {
		output.WriteStatus(a.stderr, output.Report{}, 0, result.Warnings)
		return errNothingToCombine
	}

	dispatcher := output.NewDispatcher(
		a.stdout,
		a.newClipboard(a.logger),
		output.NewPrompter(plan.Output.Policy, a.stdin, a.stderr),
		a.logger,
	)
	report := dispatcher.Dispatch(ctx, result.Buffer, plan.Output)
	output.WriteStatus(a.stderr, report, len(result.Files), result.Warnings)

	if err := report.Err(); err != nil && !report.Delivered() {
		return err
	}
	if report.Err() != nil || len(result.Warnings) > 0 {
		a.exitCode = ExitPartial
	}
	return nil
}
