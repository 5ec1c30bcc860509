package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"cxt/pkg/combine"
	"cxt/pkg/output"
)

// Env is the part of the process environment validation depends on.
type Env struct {
	WorkDir    string
	IsTerminal bool
}

// Plan is the validated form of Settings.
type Plan struct {
	Roots        []combine.PathEntry
	Base         string
	Mode         combine.HeaderMode
	Hidden       bool
	Ignore       combine.IgnoreSpec
	Exclude      []string
	GlobalIgnore string
	TUI          bool
	DryRun       bool
	Output       output.Plan
}

// AggregationConfig returns the walker and aggregator options of the plan.
func (p Plan) AggregationConfig(patterns combine.Matcher) combine.AggregationConfig {
	return combine.AggregationConfig{
		Mode:     p.Mode,
		Hidden:   p.Hidden,
		Ignore:   p.Ignore,
		Patterns: patterns,
	}
}

// Plan validates s. Every check runs before any file is read or written.
func (s Settings) Plan(env Env) (Plan, error) {
	if s.Relative && s.NoPath {
		return Plan{}, &ConfigError{Field: "--relative", Msg: "cannot be combined with --no-path"}
	}
	if len(s.Paths) == 0 && !s.TUI {
		return Plan{}, &ConfigError{Msg: "no paths given (pass files or directories, or use --tui)"}
	}
	if s.TUI && !env.IsTerminal {
		return Plan{}, &ConfigError{Field: "--tui", Msg: "requires an interactive terminal"}
	}

	policy, err := output.ParsePolicy(s.OnConflict)
	if err != nil {
		return Plan{}, &ConfigError{Field: "--on-conflict", Msg: err.Error()}
	}

	outPlan := output.NewPlan(s.Print, s.Write, s.NoClipboard, policy)
	if outPlan.Empty() && !s.DryRun {
		return Plan{}, &ConfigError{Field: "--no-clipboard", Msg: "leaves no destination (add --print or --write)"}
	}

	plan := Plan{
		Base:         env.WorkDir,
		Mode:         headerMode(s.Relative, s.NoPath),
		Hidden:       s.Hidden,
		Exclude:      s.Exclude,
		GlobalIgnore: s.GlobalIgnore,
		TUI:          s.TUI,
		DryRun:       s.DryRun,
		Output:       outPlan,
	}

	for _, p := range s.Paths {
		entry, err := combine.NewPathEntry(p)
		if err != nil {
			return Plan{}, pathError("path", p, err)
		}
		plan.Roots = append(plan.Roots, entry)
	}

	for _, p := range s.Ignore {
		entry, err := combine.NewPathEntry(p)
		if err != nil {
			return Plan{}, pathError("--ignore", p, err)
		}
		plan.Ignore = plan.Ignore.With(entry.Path)
	}

	if s.GlobalIgnore != "" {
		if _, err := os.Stat(s.GlobalIgnore); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return Plan{}, pathError("--global-ignore", s.GlobalIgnore, err)
		}
	}
	return plan, nil
}

func headerMode(relative, noPath bool) combine.HeaderMode {
	switch {
	case noPath:
		return combine.ModeNone
	case relative:
		return combine.ModeRelative
	default:
		return combine.ModeAbsolute
	}
}

func pathError(field, path string, err error) error {
	if errors.Is(err, fs.ErrNotExist) {
		return &ConfigError{Field: field, Msg: fmt.Sprintf("%s does not exist", path), Cause: err}
	}
	return &ConfigError{Field: field, Msg: fmt.Sprintf("cannot use %s", path), Cause: err}
}
