package picker

import (
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
)

type keyMap struct {
	Up        key.Binding
	Down      key.Binding
	Enter     key.Binding
	Back      key.Binding
	Toggle    key.Binding
	Confirm   key.Binding
	Quit      key.Binding
	Relative  key.Binding
	NoHeader  key.Binding
	Search    key.Binding
	Escape    key.Binding
	Interrupt key.Binding

	// Bindings active while the search box has focus.
	MatchUp   key.Binding
	MatchDown key.Binding
	MatchPick key.Binding
	Erase     key.Binding
}

func defaultKeyMap() keyMap {
	return keyMap{
		Up:        key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "move up")),
		Down:      key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "move down")),
		Enter:     key.NewBinding(key.WithKeys("right", "l", "enter"), key.WithHelp("→/l/enter", "open dir")),
		Back:      key.NewBinding(key.WithKeys("left", "h", "backspace"), key.WithHelp("←/h", "up dir")),
		Toggle:    key.NewBinding(key.WithKeys(" "), key.WithHelp("space", "select")),
		Confirm:   key.NewBinding(key.WithKeys("c"), key.WithHelp("c", "confirm")),
		Quit:      key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q/ctrl+c", "quit")),
		Relative:  key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "relative paths")),
		NoHeader:  key.NewBinding(key.WithKeys("n"), key.WithHelp("n", "no headers")),
		Search:    key.NewBinding(key.WithKeys("/"), key.WithHelp("/", "search")),
		Escape:    key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "leave search")),
		Interrupt: key.NewBinding(key.WithKeys("ctrl+c")),
		MatchUp:   key.NewBinding(key.WithKeys("up"), key.WithHelp("↑", "previous match")),
		MatchDown: key.NewBinding(key.WithKeys("down"), key.WithHelp("↓", "next match")),
		MatchPick: key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "open/select match")),
		Erase:     key.NewBinding(key.WithKeys("backspace"), key.WithHelp("backspace", "erase")),
	}
}

// shortHelp lists the bindings shown on the help line for s.
func (k keyMap) shortHelp(s State) []key.Binding {
	switch {
	case s.Search.Active && s.Search.Focused:
		return []key.Binding{k.MatchUp, k.MatchDown, k.MatchPick, k.Erase, k.Escape}
	case s.Search.Active:
		return []key.Binding{k.Up, k.Down, k.Toggle, k.Enter, k.Search, k.Escape, k.Confirm, k.Quit}
	default:
		return []key.Binding{k.Up, k.Down, k.Enter, k.Back, k.Toggle, k.Search, k.Relative, k.NoHeader, k.Confirm, k.Quit}
	}
}

// events maps a key press to machine events. While the search box has focus,
// printable keys are sent as runes.
func (k keyMap) events(msg tea.KeyMsg, searchFocused bool) []Event {
	if searchFocused {
		switch {
		case key.Matches(msg, k.Interrupt):
			return []Event{{Kind: EventQuit}}
		case msg.Type == tea.KeyEsc:
			return []Event{{Kind: EventEscape}}
		case msg.Type == tea.KeyBackspace:
			return []Event{{Kind: EventBackspace}}
		case msg.Type == tea.KeyEnter:
			return []Event{{Kind: EventEnter}}
		case msg.Type == tea.KeyUp:
			return []Event{{Kind: EventUp}}
		case msg.Type == tea.KeyDown:
			return []Event{{Kind: EventDown}}
		case msg.Type == tea.KeySpace:
			return []Event{{Kind: EventRune, Rune: ' '}}
		case msg.Type == tea.KeyRunes:
			events := make([]Event, 0, len(msg.Runes))
			for _, r := range msg.Runes {
				events = append(events, Event{Kind: EventRune, Rune: r})
			}
			return events
		}
		return nil
	}

	var kind EventKind
	switch {
	case key.Matches(msg, k.Up):
		kind = EventUp
	case key.Matches(msg, k.Down):
		kind = EventDown
	case key.Matches(msg, k.Enter):
		kind = EventEnter
	case key.Matches(msg, k.Back):
		kind = EventBack
	case key.Matches(msg, k.Toggle):
		kind = EventToggle
	case key.Matches(msg, k.Confirm):
		kind = EventConfirm
	case key.Matches(msg, k.Quit):
		kind = EventQuit
	case key.Matches(msg, k.Relative):
		kind = EventToggleRelative
	case key.Matches(msg, k.NoHeader):
		kind = EventToggleNoHeader
	case key.Matches(msg, k.Search):
		kind = EventSearch
	case key.Matches(msg, k.Escape):
		kind = EventEscape
	default:
		return nil
	}
	return []Event{{Kind: kind}}
}
