package picker

import (
	"context"
	"errors"
	"fmt"
	"io"

	"cxt/pkg/combine"

	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"
)

// Model adapts the Machine to bubbletea.
type Model struct {
	machine *Machine
	state   State
	keys    keyMap
}

// NewModel wraps an initial state.
func NewModel(machine *Machine, state State) Model {
	return Model{machine: machine, state: state, keys: defaultKeyMap()}
}

// State returns the current machine state.
func (m Model) State() State {
	return m.state
}

func (m Model) Init() tea.Cmd {
	return nil
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		height := msg.Height - chromeLines
		if height < 1 {
			height = 1
		}
		m.state = m.machine.Step(m.state, Event{Kind: EventResize, Height: height})
	case tea.KeyMsg:
		for _, ev := range m.keys.events(msg, m.state.Search.Active && m.state.Search.Focused) {
			m.state = m.machine.Step(m.state, ev)
		}
		if m.state.Outcome != OutcomeBrowsing {
			return m, tea.Quit
		}
	}
	return m, nil
}

func (m Model) View() string {
	if m.state.Outcome != OutcomeBrowsing {
		return ""
	}
	return Render(m.state)
}

// Options configures an interactive session.
type Options struct {
	Dir       string             // starting directory
	Floor     string             // directory Back never leaves; empty for the filesystem root
	Selection *combine.Selection // roots selected before the picker starts
	Relative  bool
	NoHeader  bool
	Lister    Lister
	Logger    *zap.Logger
	Input     io.Reader
	Output    io.Writer
}

// Result is what a finished session hands to the caller.
type Result struct {
	Selection *combine.Selection
	Mode      combine.HeaderMode
	Excluded  []string // paths removed from selected directory roots
	Aborted   bool
}

// Run starts the picker on the alternate screen and blocks until the user
// confirms or quits.
func Run(ctx context.Context, opts Options) (Result, error) {
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	lister := opts.Lister
	if lister == nil {
		lister = NewFSLister(logger)
	}

	machine := NewMachine(lister, logger)
	state, err := machine.Start(opts.Dir, opts.Floor, opts.Selection)
	if err != nil {
		return Result{}, err
	}
	state.Relative = opts.Relative && !opts.NoHeader
	state.NoHeader = opts.NoHeader

	programOpts := []tea.ProgramOption{tea.WithAltScreen(), tea.WithContext(ctx)}
	if opts.Input != nil {
		programOpts = append(programOpts, tea.WithInput(opts.Input))
	}
	if opts.Output != nil {
		programOpts = append(programOpts, tea.WithOutput(opts.Output))
	}

	final, err := tea.NewProgram(NewModel(machine, state), programOpts...).Run()
	if err != nil {
		if errors.Is(err, tea.ErrProgramKilled) && ctx.Err() != nil {
			return Result{Aborted: true}, ctx.Err()
		}
		return Result{}, fmt.Errorf("picker failed: %w", err)
	}
	return resultOf(final.(Model).state), nil
}

func resultOf(s State) Result {
	if s.Outcome != OutcomeConfirmed {
		return Result{Aborted: true}
	}
	return Result{
		Selection: s.Selection,
		Mode:      s.Mode(),
		Excluded:  s.Excluded(),
	}
}
