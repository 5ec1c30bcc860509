package output

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

var (
	promptTitleStyle    = lipgloss.NewStyle().Bold(true)
	promptSelectedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("75")).Bold(true)
	promptHelp          = help.New()
)

var choices = []Choice{ChoiceReplace, ChoiceAppend, ChoiceCancel}

type selectKeyMap struct {
	Up     key.Binding
	Down   key.Binding
	Choose key.Binding
	Cancel key.Binding
}

var selectKeys = selectKeyMap{
	Up:     key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "up")),
	Down:   key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "down")),
	Choose: key.NewBinding(key.WithKeys("enter", " "), key.WithHelp("enter", "choose")),
	Cancel: key.NewBinding(key.WithKeys("esc", "q", "ctrl+c"), key.WithHelp("esc", "cancel")),
}

func (k selectKeyMap) shortHelp() []key.Binding {
	return []key.Binding{k.Up, k.Down, k.Choose, k.Cancel}
}

// SelectPrompter shows a Replace / Append / Cancel menu on the terminal.
type SelectPrompter struct {
	In  io.Reader
	Out io.Writer
}

func (p *SelectPrompter) Choose(ctx context.Context, path string) (Choice, error) {
	program := tea.NewProgram(
		newSelectModel(path),
		tea.WithContext(ctx),
		tea.WithInput(p.In),
		tea.WithOutput(p.Out),
	)
	final, err := program.Run()
	if err != nil {
		return ChoiceCancel, fmt.Errorf("conflict prompt failed: %w", err)
	}
	m := final.(selectModel)
	if !m.done {
		return ChoiceCancel, nil
	}
	return choices[m.cursor], nil
}

type selectModel struct {
	path   string
	cursor int
	done   bool
}

func newSelectModel(path string) selectModel {
	return selectModel{path: path}
}

func (m selectModel) Init() tea.Cmd {
	return nil
}

func (m selectModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}
	switch {
	case key.Matches(keyMsg, selectKeys.Up):
		if m.cursor > 0 {
			m.cursor--
		}
	case key.Matches(keyMsg, selectKeys.Down):
		if m.cursor < len(choices)-1 {
			m.cursor++
		}
	case key.Matches(keyMsg, selectKeys.Choose):
		m.done = true
		return m, tea.Quit
	case key.Matches(keyMsg, selectKeys.Cancel):
		m.cursor = len(choices) - 1
		m.done = true
		return m, tea.Quit
	}
	return m, nil
}

func (m selectModel) View() string {
	if m.done {
		return ""
	}
	var b strings.Builder
	b.WriteString(promptTitleStyle.Render(fmt.Sprintf("File '%s' already exists. What would you like to do?", m.path)))
	b.WriteString("\n\n")
	for i, c := range choices {
		if i == m.cursor {
			b.WriteString(promptSelectedStyle.Render("▸ " + c.String()))
		} else {
			b.WriteString("  " + c.String())
		}
		b.WriteString("\n")
	}
	b.WriteString("\n")
	b.WriteString(promptHelp.ShortHelpView(selectKeys.shortHelp()))
	b.WriteString("\n")
	return b.String()
}
