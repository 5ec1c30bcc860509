package picker

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/lipgloss"
)

var (
	titleStyle    = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("62"))
	cursorStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("75")).Bold(true)
	dirStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("39"))
	selectedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("42"))
	includedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("36"))
	excludedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("240")).Strikethrough(true)
	searchStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("205"))
	messageStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))
	helpStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("240"))
)

var helpView = help.New()

// chromeLines is the number of rows the view uses around the listing.
const chromeLines = 6

var marks = map[Mark]string{
	MarkNone:     "[ ]",
	MarkSelected: "[x]",
	MarkIncluded: "[~]",
	MarkExcluded: "[-]",
}

// Render draws s.
func Render(s State) string {
	var b strings.Builder

	b.WriteString(titleStyle.Render("cxt: " + s.Dir))
	b.WriteString("\n")
	b.WriteString(renderSearchLine(s))
	b.WriteString("\n")

	rows := s.Visible()
	end := len(rows)
	if s.Height > 0 && s.Offset+s.Height < end {
		end = s.Offset + s.Height
	}
	if len(rows) == 0 {
		b.WriteString(helpStyle.Render("  (empty)"))
		b.WriteString("\n")
	}
	for i := s.Offset; i < end; i++ {
		b.WriteString(renderRow(s, rows[i], i == s.Cursor))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(renderStatus(s))
	b.WriteString("\n")
	if s.Message != "" {
		b.WriteString(messageStyle.Render(s.Message))
	} else {
		b.WriteString(helpView.ShortHelpView(defaultKeyMap().shortHelp(s)))
	}
	b.WriteString("\n")
	return b.String()
}

func renderRow(s State, e Entry, focused bool) string {
	mark := s.MarkOf(e.Path)
	label := e.Label()
	switch {
	case mark == MarkSelected:
		label = selectedStyle.Render(label)
	case mark == MarkIncluded:
		label = includedStyle.Render(label)
	case mark == MarkExcluded:
		label = excludedStyle.Render(label)
	case e.IsDir:
		label = dirStyle.Render(label)
	}
	prefix := "  "
	if focused {
		prefix = cursorStyle.Render("▸ ")
	}
	return fmt.Sprintf("%s%s %s", prefix, marks[mark], label)
}

func renderSearchLine(s State) string {
	if !s.Search.Active {
		return ""
	}
	cursor := ""
	if s.Search.Focused {
		cursor = "█"
	}
	return searchStyle.Render(fmt.Sprintf("/ %s%s  (%d matches)", s.Search.Query, cursor, len(s.Search.Results)))
}

func renderStatus(s State) string {
	return fmt.Sprintf("%d selected | headers: %s", s.Selection.Len(), s.Mode())
}
